// Package wasmfactorial is a fixed-width factorial fixture and the harness
// that checks a WebAssembly build of it against a Go reference.
//
// The fixture is the loop
//
//	n = 1; for (; 0 < i; i--) n *= i; return n
//
// evaluated in a signed integer of fixed width. Every multiplication wraps
// two's-complement, inputs at or below zero return 1, and nothing ever fails.
// Toolchains are expected to reproduce the wrapped results bit for bit; for
// the 32-bit reference width factorialLong(13) is 1932053504, not 6227020800.
//
// # Architecture Overview
//
//	wasmfactorial/
//	├── factorial/       Go reference: FixedWidth[T], Long, LongLong, At, Width
//	├── wasm/            Core WASM binary primitives: LEB128, encoder, decoder
//	├── lower/           Compiles the fixture to a core module, WAT and WIT
//	├── engine/          Runs lowered modules on wazero
//	├── conformance/     Compares compiled and reference results per input
//	├── errors/          Structured error types for debugging
//	└── cmd/factcheck/   CLI: reports, module dumps and an interactive TUI
//
// # Quick Start
//
//	eng, err := engine.New(ctx, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close(ctx)
//
//	rep, err := conformance.Run(ctx, eng, conformance.DefaultSuite(factorial.Reference))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := rep.Err(); err != nil {
//	    log.Fatal(err) // lists every disagreeing input
//	}
//
// # Thread Safety
//
// The reference functions are pure. Engine and Module are safe for
// concurrent use; each call runs in its own instance.
package wasmfactorial
