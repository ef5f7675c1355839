// Package errors provides structured errors for the rpg-features service.
//
// An Error carries a Code, a user-facing Message, an optional Cause and Meta
// keyed by the Meta* constants. Storage and transport code build them through
// the domain constructors in meta.go:
//
//	return nil, errors.CatalogNotFound(string(kind), name)
//	return nil, errors.CatalogInvalid(err, string(kind), path)
//
// Wrap keeps the code of an existing Error and defaults to Internal otherwise.
//
// Config structs validate with the builder; the returned InvalidArgument
// carries the failing fields under MetaValidationErrors:
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRange("grpcPort", cfg.GRPCPort, 1, 65535, vb)
//	return vb.Build()
//
// The feature engine itself never returns these errors: unavailable values,
// malformed formulas and lookup misses degrade to text.
package errors
