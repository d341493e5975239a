package lower

import (
	"fmt"
	"strings"

	"github.com/wippyai/wasm-factorial/wasm"
)

var localNames = map[int64]string{
	int64(localI): "$i",
	int64(localN): "$n",
}

// WAT renders the lowered module in the text format, one instruction per
// line, indented by block depth.
func (f *Func) WAT() string {
	var b strings.Builder
	core := f.Core.String()

	b.WriteString("(module\n")
	fmt.Fprintf(&b, "  (type (;0;) (func (param %s) (result %s)))\n", core, core)
	fmt.Fprintf(&b, "  (memory (;0;) %d)\n", MemoryPages)
	b.WriteString("  (export \"memory\" (memory 0))\n")
	fmt.Fprintf(&b, "  (export %q (func 0))\n", f.Name)
	fmt.Fprintf(&b, "  (func (;0;) (type 0) (param $i %s) (result %s)\n", core, core)
	fmt.Fprintf(&b, "    (local $n %s)\n", core)

	depth := 2
	for i, in := range f.Body {
		if in.Op == wasm.OpEnd {
			if i == len(f.Body)-1 {
				break // closes the function; rendered as ")"
			}
			depth--
		}
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(wasm.OpName(in.Op))
		switch in.Op {
		case wasm.OpLocalGet, wasm.OpLocalSet, wasm.OpLocalTee:
			b.WriteByte(' ')
			b.WriteString(localNames[in.Imm])
		case wasm.OpBlock, wasm.OpLoop:
			depth++
		default:
			if wasm.HasImm(in.Op) {
				fmt.Fprintf(&b, " %d", in.Imm)
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString("  )\n)\n")
	return b.String()
}
