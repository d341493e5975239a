// Package errors provides structured error types for the factorial toolchain.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the export name, accumulator width, offending value and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidData).
//		Export("factorialLong").
//		Width(factorial.W32).
//		Detail("export is not a function").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnsupportedWidth(errors.PhaseLower, w)
//	err := errors.Trap("factorialLong", 13, cause)
//
// The reference factorial itself never fails; these errors come from lowering,
// decoding, loading and running the compiled fixture.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
