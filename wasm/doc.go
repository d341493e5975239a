// Package wasm provides the WebAssembly binary primitives used to emit and
// inspect the factorial fixture.
//
// The package covers a deliberately small slice of the core format: the
// module header, LEB128 integers, the type, function, memory, export, code
// and custom sections, and the integer and structured control instructions
// an iterative loop needs.
//
// # Encoding
//
// Build a Module and serialize it:
//
//	m := &wasm.Module{
//	    Types:   []wasm.FuncType{{Params: []wasm.ValType{wasm.ValI32}, Results: []wasm.ValType{wasm.ValI32}}},
//	    Funcs:   []uint32{0},
//	    Exports: []wasm.Export{{Name: "id", Kind: wasm.KindFunc}},
//	    Code:    []wasm.Body{{Code: wasm.AppendExpr(nil, body)}},
//	}
//	bin := m.Encode()
//
// # Decoding
//
// Decode parses a binary back into a Module and ReadExpr disassembles a body:
//
//	m, err := wasm.Decode(bin)
//	ft, body, ok := m.ExportedFunc("id")
//	instrs, err := wasm.ReadExpr(body.Code)
//
// Sections outside the supported slice are rejected with ErrUnsupported
// rather than skipped, so a decoded Module always describes the whole binary.
package wasm
