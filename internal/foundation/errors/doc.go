// Package errors provides the classified error type used across reflectmd.
//
// A ClassifiedError carries a broad category (config, input, render, ...),
// a severity and structured context. Severity decides whether a caller logs
// and continues (warning, error) or aborts (fatal); the category decides the
// CLI exit code.
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryInput, "unknown child id in group").
//		WithContext("group", title).
//		WithContext("id", id).
//		WithCause(decodeErr).
//		Build()
package errors
