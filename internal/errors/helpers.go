package errors

import "errors"

// As is errors.As specialised to *Error
func As(err error, target **Error) bool {
	return errors.As(err, target)
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// GetCode returns OK for nil, the code of the outermost *Error in the chain,
// and Internal for anything else
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}
	if e, ok := asError(err); ok {
		return e.Code
	}
	return CodeInternal
}

func GetMeta(err error) map[string]interface{} {
	if e, ok := asError(err); ok {
		return e.Meta
	}
	return nil
}

// MetaString returns the string stored under key, or "" when absent
func MetaString(err error, key string) string {
	s, _ := GetMeta(err)[key].(string)
	return s
}

// GetMessage prefers the *Error message over the full chained text
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := asError(err); ok {
		return e.Message
	}
	return err.Error()
}

func IsNotFound(err error) bool { return GetCode(err) == CodeNotFound }

func IsInvalidArgument(err error) bool { return GetCode(err) == CodeInvalidArgument }

func IsUnimplemented(err error) bool { return GetCode(err) == CodeUnimplemented }

func IsAlreadyExists(err error) bool { return GetCode(err) == CodeAlreadyExists }
