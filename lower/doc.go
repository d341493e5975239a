// Package lower is the source-to-bytecode step of the factorial fixture: it
// lowers the iterative fixed-width factorial into a WebAssembly core module.
//
// The lowering exercises exactly what the fixture exists to test: integer
// multiplication at a fixed width, a counted loop built from block, loop,
// br_if and br, and a fixed-width return value. Each width maps to a core
// type through the canonical ABI flattening of its WIT signature:
//
//	width  WIT  core  after each i*n
//	s8     s8   i32   i32.extend8_s
//	s16    s16  i32   i32.extend16_s
//	s32    s32  i32   -
//	s64    s64  i64   -
//
// The emitted module has one type, one function, a one-page memory and two
// exports, "memory" and the function (factorialLong at the reference width).
//
//	bin, err := lower.Lower(factorial.W32)
//
// Fixture returns the intermediate form, which can also be rendered as WAT:
//
//	f, _ := lower.Fixture(factorial.W16)
//	fmt.Print(f.WAT())
package lower
