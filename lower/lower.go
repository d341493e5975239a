package lower

import (
	"github.com/wippyai/wasm-factorial/errors"
	"github.com/wippyai/wasm-factorial/factorial"
	"github.com/wippyai/wasm-factorial/wasm"
)

// Local indices inside the lowered function.
const (
	localI uint32 = 0 // the parameter, counted down
	localN uint32 = 1 // the accumulator
)

// MemoryPages is the size of the exported memory. The fixture never touches
// memory; the export mirrors what C toolchains emit for it.
const MemoryPages = 1

// Func is the fixture lowered to core instructions at one width.
type Func struct {
	Name   string
	Body   []wasm.Instr
	Width  factorial.Width
	Core   wasm.ValType // type of the parameter, accumulator and result
	narrow byte         // sign-extension opcode applied after each multiply, or 0
}

// ops selects the opcode family for the core type.
type ops struct {
	konst, leS, mul, sub byte
}

var (
	ops32 = ops{konst: wasm.OpI32Const, leS: wasm.OpI32LeS, mul: wasm.OpI32Mul, sub: wasm.OpI32Sub}
	ops64 = ops{konst: wasm.OpI64Const, leS: wasm.OpI64LeS, mul: wasm.OpI64Mul, sub: wasm.OpI64Sub}
)

// Fixture lowers
//
//	long factorialLong(int i) {
//	  long n = 1;
//	  for (; 0 < i; i--) n *= i;
//	  return n;
//	}
//
// at width w. Widths narrower than the core type re-establish the width
// after every multiplication, and once on entry for the parameter.
func Fixture(w factorial.Width) (*Func, error) {
	param, _, err := Signature(w)
	if err != nil {
		return nil, err
	}
	core, ok := CoreType(param)
	if !ok {
		return nil, errors.UnsupportedWidth(errors.PhaseLower, w)
	}

	f := &Func{Name: ExportName(w), Width: w, Core: core}
	switch w {
	case factorial.W8:
		f.narrow = wasm.OpI32Extend8S
	case factorial.W16:
		f.narrow = wasm.OpI32Extend16S
	}

	o := ops32
	if core == wasm.ValI64 {
		o = ops64
	}

	var b []wasm.Instr
	emit := func(op byte, imm int64) {
		b = append(b, wasm.Instr{Op: op, Imm: imm})
	}

	if f.narrow != 0 {
		emit(wasm.OpLocalGet, int64(localI))
		emit(f.narrow, 0)
		emit(wasm.OpLocalSet, int64(localI))
	}

	// n = 1
	emit(o.konst, 1)
	emit(wasm.OpLocalSet, int64(localN))

	emit(wasm.OpBlock, int64(wasm.BlockTypeVoid))
	emit(wasm.OpLoop, int64(wasm.BlockTypeVoid))

	// exit when i <= 0
	emit(wasm.OpLocalGet, int64(localI))
	emit(o.konst, 0)
	emit(o.leS, 0)
	emit(wasm.OpBrIf, 1)

	// n *= i
	emit(wasm.OpLocalGet, int64(localN))
	emit(wasm.OpLocalGet, int64(localI))
	emit(o.mul, 0)
	if f.narrow != 0 {
		emit(f.narrow, 0)
	}
	emit(wasm.OpLocalSet, int64(localN))

	// i--
	emit(wasm.OpLocalGet, int64(localI))
	emit(o.konst, 1)
	emit(o.sub, 0)
	emit(wasm.OpLocalSet, int64(localI))

	emit(wasm.OpBr, 0)
	emit(wasm.OpEnd, 0) // loop
	emit(wasm.OpEnd, 0) // block

	emit(wasm.OpLocalGet, int64(localN))
	emit(wasm.OpEnd, 0)

	f.Body = b
	return f, nil
}

// Type returns the core signature of the lowered function.
func (f *Func) Type() wasm.FuncType {
	return wasm.FuncType{Params: []wasm.ValType{f.Core}, Results: []wasm.ValType{f.Core}}
}

// Module wraps the function in a module exporting it and a memory.
func (f *Func) Module() *wasm.Module {
	return &wasm.Module{
		Types:    []wasm.FuncType{f.Type()},
		Funcs:    []uint32{0},
		Memories: []wasm.Limits{{Min: MemoryPages}},
		Exports: []wasm.Export{
			{Name: "memory", Kind: wasm.KindMemory, Index: 0},
			{Name: f.Name, Kind: wasm.KindFunc, Index: 0},
		},
		Code: []wasm.Body{{
			Locals: []wasm.LocalGroup{{Count: 1, Type: f.Core}},
			Code:   wasm.AppendExpr(nil, f.Body),
		}},
	}
}

// Encode returns the binary module.
func (f *Func) Encode() []byte {
	return f.Module().Encode()
}

// Lower compiles the fixture at width w to a binary module.
func Lower(w factorial.Width) ([]byte, error) {
	f, err := Fixture(w)
	if err != nil {
		return nil, err
	}
	return f.Encode(), nil
}
