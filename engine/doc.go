// Package engine runs lowered factorial fixtures on wazero.
//
// An Engine owns one wazero runtime and a compilation cache. Load checks a
// binary with the wasm decoder (one function export of the expected name and
// signature) before handing it to wazero, so a miscompiled module fails with
// a structured error instead of a confusing call failure.
//
//	eng, err := engine.New(ctx, nil)
//	defer eng.Close(ctx)
//
//	mod, err := eng.LoadFixture(ctx, factorial.W32)
//	n, err := mod.Call(ctx, 13) // 1932053504
//
// Each Call instantiates the compiled module anonymously, so calls never
// share linear memory and may run in parallel. The runtime closes modules
// when the call's context is done, which bounds calls on large inputs.
package engine
