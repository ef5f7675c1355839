package errors

import (
	"fmt"
	"strings"
)

// Meta keys set by this service. They survive the gRPC round trip as
// Struct fields.
const (
	MetaFeature          = "feature"
	MetaFeatures         = "features"
	MetaCatalogKind      = "kind"
	MetaCatalog          = "catalog"
	MetaFile             = "file"
	MetaFiles            = "files"
	MetaRollID           = "roll_id"
	MetaValidationErrors = "validation_errors"
)

// FeatureNotFound is the lookup miss surfaced by the handler
func FeatureNotFound(name string) *Error {
	return NotFoundf("feature %s not found", name).WithMeta(MetaFeature, name)
}

// FeaturesNotFound summarizes a batch where some names had no record
func FeaturesNotFound(missing []string, requested int) *Error {
	return NotFoundf("%d of %d features not found", len(missing), requested).
		WithMeta(MetaFeatures, missing)
}

func CatalogNotFound(kind, name string) *Error {
	return NotFoundf("%s catalog %s not found", kind, name).
		WithMeta(MetaCatalogKind, kind).
		WithMeta(MetaCatalog, name)
}

func UnknownCatalogKind(kind string) *Error {
	return InvalidArgumentf("unknown catalog kind %q", kind).WithMeta(MetaCatalogKind, kind)
}

// CatalogInvalid wraps a decode or validation failure of one catalog file.
// Validation meta on cause is kept.
func CatalogInvalid(cause error, kind, file string) *Error {
	return WrapWithCode(cause, CodeInvalidArgument, fmt.Sprintf("invalid %s catalog file %s", kind, file)).
		WithMeta(MetaCatalogKind, kind).
		WithMeta(MetaFile, file)
}

// DuplicateCatalog reports two files declaring the same catalog name
func DuplicateCatalog(kind, name string, files ...string) *Error {
	return InvalidArgumentf("duplicate %s catalog %q in %s", kind, name, strings.Join(files, ", ")).
		WithMeta(MetaCatalogKind, kind).
		WithMeta(MetaCatalog, name).
		WithMeta(MetaFiles, files)
}

// ReadOnlyCatalogs is returned by writes to a source that cannot store catalogs
func ReadOnlyCatalogs(source string) *Error {
	return Unimplemented(source + " catalog repository is read-only")
}

func RollNotFound(id string) *Error {
	return NotFound("roll session not found").WithMeta(MetaRollID, id)
}

func RollExpired(id string) *Error {
	return NotFound("roll session has expired").WithMeta(MetaRollID, id)
}

func RollExists(id string) *Error {
	return New(CodeAlreadyExists, "roll session already exists").WithMeta(MetaRollID, id)
}

func RollSessionsDisabled() *Error {
	return Unimplemented("roll sessions are not enabled")
}
