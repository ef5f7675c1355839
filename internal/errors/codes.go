package errors

import "google.golang.org/grpc/codes"

// Code classifies an Error. Each code has exactly one gRPC status code.
type Code string

const (
	CodeOK Code = "OK"

	// CodeInvalidArgument covers malformed requests, bad config and catalog
	// documents that fail validation
	CodeInvalidArgument Code = "INVALID_ARGUMENT"

	// CodeNotFound covers missing features, catalogs and roll sessions
	CodeNotFound Code = "NOT_FOUND"

	// CodeAlreadyExists is returned when a roll session id collides
	CodeAlreadyExists Code = "ALREADY_EXISTS"

	// CodeUnimplemented marks operations a backend does not offer, such as
	// writes to yaml catalogs or roll lookups with sessions disabled
	CodeUnimplemented Code = "UNIMPLEMENTED"

	CodeInternal         Code = "INTERNAL"
	CodeUnavailable      Code = "UNAVAILABLE"
	CodeCanceled         Code = "CANCELED"
	CodeDeadlineExceeded Code = "DEADLINE_EXCEEDED"
)

var grpcCodes = map[Code]codes.Code{
	CodeOK:               codes.OK,
	CodeInvalidArgument:  codes.InvalidArgument,
	CodeNotFound:         codes.NotFound,
	CodeAlreadyExists:    codes.AlreadyExists,
	CodeUnimplemented:    codes.Unimplemented,
	CodeInternal:         codes.Internal,
	CodeUnavailable:      codes.Unavailable,
	CodeCanceled:         codes.Canceled,
	CodeDeadlineExceeded: codes.DeadlineExceeded,
}

var fromGRPCCodes = func() map[codes.Code]Code {
	m := make(map[codes.Code]Code, len(grpcCodes))
	for code, grpcCode := range grpcCodes {
		m[grpcCode] = code
	}
	return m
}()

func (c Code) String() string {
	return string(c)
}

// GRPCCode maps the code onto the gRPC status space. Unknown codes map to Unknown.
func (c Code) GRPCCode() codes.Code {
	if grpcCode, ok := grpcCodes[c]; ok {
		return grpcCode
	}
	return codes.Unknown
}

// codeFromGRPC is the inverse of GRPCCode; statuses with no counterpart are Internal
func codeFromGRPC(grpcCode codes.Code) Code {
	if code, ok := fromGRPCCodes[grpcCode]; ok {
		return code
	}
	return CodeInternal
}
