package engine

import (
	"context"
	"sync/atomic"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-factorial/errors"
	"github.com/wippyai/wasm-factorial/factorial"
	"github.com/wippyai/wasm-factorial/lower"
	"github.com/wippyai/wasm-factorial/wasm"
)

// Options holds configuration for engine creation
type Options struct {
	// Interpreter selects wazero's interpreter instead of its compiler.
	Interpreter bool

	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means wazero's default.
	MemoryLimitPages uint32
}

// Engine compiles and runs fixture modules on one wazero runtime.
// It is safe for concurrent use.
type Engine struct {
	runtime wazero.Runtime
	cache   wazero.CompilationCache
}

// New creates an engine. A nil opts uses the compiler with default limits.
func New(ctx context.Context, opts *Options) (*Engine, error) {
	var runtimeCfg wazero.RuntimeConfig
	if opts != nil && opts.Interpreter {
		runtimeCfg = wazero.NewRuntimeConfigInterpreter()
	} else {
		runtimeCfg = wazero.NewRuntimeConfig()
	}
	if opts != nil && opts.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(opts.MemoryLimitPages)
	}

	// Calls loop i times; a cancelled context must be able to stop them.
	cache := wazero.NewCompilationCache()
	runtimeCfg = runtimeCfg.
		WithCoreFeatures(api.CoreFeaturesV2).
		WithCloseOnContextDone(true).
		WithCompilationCache(cache)

	Logger().Debug("engine created", zap.Bool("interpreter", opts != nil && opts.Interpreter))
	return &Engine{
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		cache:   cache,
	}, nil
}

// Close releases the runtime and every module compiled by it.
func (e *Engine) Close(ctx context.Context) error {
	err := e.runtime.Close(ctx)
	if cerr := e.cache.Close(ctx); err == nil {
		err = cerr
	}
	return err
}

// LoadFixture lowers the fixture at width w and loads it.
func (e *Engine) LoadFixture(ctx context.Context, w factorial.Width) (*Module, error) {
	bin, err := lower.Lower(w)
	if err != nil {
		return nil, err
	}
	return e.Load(ctx, bin, w)
}

// Load verifies that bin exports the fixture for width w with the expected
// signature and compiles it.
func (e *Engine) Load(ctx context.Context, bin []byte, w factorial.Width) (*Module, error) {
	name := lower.ExportName(w)
	if name == "" {
		return nil, errors.UnsupportedWidth(errors.PhaseLoad, w)
	}
	param, _, err := lower.Signature(w)
	if err != nil {
		return nil, err
	}
	core, _ := lower.CoreType(param)

	decoded, err := wasm.Decode(bin)
	if err != nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Width(w).
			Detail("decode module").
			Cause(err).
			Build()
	}
	ft, _, ok := decoded.ExportedFunc(name)
	if !ok {
		return nil, errors.NotFound(errors.PhaseDecode, "function export", name)
	}
	want := wasm.FuncType{Params: []wasm.ValType{core}, Results: []wasm.ValType{core}}
	if !ft.Equal(want) {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Export(name).
			Width(w).
			Detail("signature %v -> %v, want (%s) -> %s", ft.Params, ft.Results, core, core).
			Build()
	}

	compiled, err := e.runtime.CompileModule(ctx, bin)
	if err != nil {
		return nil, errors.Load("compile module", err)
	}
	def, ok := compiled.ExportedFunctions()[name]
	if !ok || len(def.ParamTypes()) != 1 || def.ParamTypes()[0] != api.ValueType(core) {
		_ = compiled.Close(ctx)
		return nil, errors.NotFound(errors.PhaseLoad, "function export", name)
	}

	Logger().Debug("fixture loaded",
		zap.String("export", name),
		zap.Stringer("width", w),
		zap.Int("bytes", len(bin)),
	)

	return &Module{
		runtime:  e.runtime,
		compiled: compiled,
		name:     name,
		width:    w,
		core:     core,
	}, nil
}

// Module is a compiled fixture. It is safe for concurrent use: every call
// runs in its own anonymous instance.
type Module struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
	name     string
	width    factorial.Width
	core     wasm.ValType
	calls    atomic.Uint64
}

// Name returns the export the module is called through.
func (m *Module) Name() string { return m.name }

// Width returns the accumulator width.
func (m *Module) Width() factorial.Width { return m.width }

// Calls returns how many calls completed.
func (m *Module) Calls() uint64 { return m.calls.Load() }

// Call runs the fixture on i. The argument is truncated to the module's
// width first; the result is sign-extended from it.
func (m *Module) Call(ctx context.Context, i int64) (int64, error) {
	arg := m.width.Truncate(i)

	inst, err := m.runtime.InstantiateModule(ctx, m.compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		return 0, errors.Instantiation(err)
	}
	defer inst.Close(ctx)

	fn := inst.ExportedFunction(m.name)
	if fn == nil {
		return 0, errors.NotFound(errors.PhaseRuntime, "function export", m.name)
	}

	var enc uint64
	if m.core == wasm.ValI64 {
		enc = api.EncodeI64(arg)
	} else {
		enc = api.EncodeI32(int32(arg))
	}

	results, err := fn.Call(ctx, enc)
	if err != nil {
		return 0, errors.Trap(m.name, arg, err)
	}
	if len(results) != 1 {
		return 0, errors.New(errors.PhaseRuntime, errors.KindInvalidData).
			Export(m.name).
			Detail("expected 1 result, got %d", len(results)).
			Build()
	}
	m.calls.Add(1)

	var got int64
	if m.core == wasm.ValI64 {
		got = int64(results[0])
	} else {
		got = int64(api.DecodeI32(results[0]))
	}
	return m.width.Truncate(got), nil
}

// Close releases the compiled module.
func (m *Module) Close(ctx context.Context) error {
	return m.compiled.Close(ctx)
}
