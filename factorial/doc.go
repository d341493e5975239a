// Package factorial is the reference implementation of the fixed-width
// factorial fixture.
//
// The fixture multiplies an accumulator by i, i-1, ..., 1 and returns it.
// The accumulator has a fixed bit width and every multiplication wraps in
// two's complement, so for inputs past the overflow point the result is the
// true factorial modulo 2^width reinterpreted as signed. Zero and negative
// inputs never enter the loop and return 1.
//
// The width is part of the type:
//
//	factorial.FixedWidth[int32](13) // 1932053504
//	factorial.FixedWidth[int64](13) // 6227020800
//	factorial.Long(5)               // 120, the 32-bit reference entry point
//
// At dispatches on a Width value when the width is only known at runtime:
//
//	factorial.At(factorial.W16, 8) // -25216
//
// Nothing in this package allocates, logs, panics or returns an error.
package factorial
