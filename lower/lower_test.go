package lower

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	ferrors "github.com/wippyai/wasm-factorial/errors"
	"github.com/wippyai/wasm-factorial/factorial"
	"github.com/wippyai/wasm-factorial/wasm"
)

// factorialLong.wasm as produced for the 32-bit reference environment.
const goldenLong = "0061736d0100000001060160017f017f030201000503010001071a02066d656d6f727902000d666163746f7269616c4c6f6e6700000a29012701017f4101210102400340200041004c0d01200120006c2101200041016b21000c000b0b20010b"

func TestLowerGolden(t *testing.T) {
	bin, err := Lower(factorial.W32)
	if err != nil {
		t.Fatalf("Lower failed: %v", err)
	}
	if got := hex.EncodeToString(bin); got != goldenLong {
		t.Errorf("factorialLong bytes changed:\n got %s\nwant %s", got, goldenLong)
	}
}

func TestFixtureRoundTrip(t *testing.T) {
	for _, w := range factorial.Widths {
		t.Run(w.String(), func(t *testing.T) {
			f, err := Fixture(w)
			if err != nil {
				t.Fatalf("Fixture failed: %v", err)
			}

			m, err := wasm.Decode(f.Encode())
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			ft, body, ok := m.ExportedFunc(ExportName(w))
			if !ok {
				t.Fatalf("export %q not found", ExportName(w))
			}
			if !ft.Equal(f.Type()) {
				t.Errorf("signature = %+v, want %+v", ft, f.Type())
			}
			if e, ok := m.Export("memory"); !ok || e.Kind != wasm.KindMemory {
				t.Error("memory export missing")
			}
			if len(m.Memories) != 1 || m.Memories[0].Min != MemoryPages {
				t.Errorf("memories = %+v", m.Memories)
			}
			if len(body.Locals) != 1 || body.Locals[0] != (wasm.LocalGroup{Count: 1, Type: f.Core}) {
				t.Errorf("locals = %+v", body.Locals)
			}

			instrs, err := wasm.ReadExpr(body.Code)
			if err != nil {
				t.Fatalf("ReadExpr failed: %v", err)
			}
			if len(instrs) != len(f.Body) {
				t.Fatalf("decoded %d instrs, lowered %d", len(instrs), len(f.Body))
			}
			for i := range instrs {
				if instrs[i] != f.Body[i] {
					t.Errorf("instr %d: decoded %+v, lowered %+v", i, instrs[i], f.Body[i])
				}
			}
		})
	}
}

func TestFixtureOpcodes(t *testing.T) {
	tests := []struct {
		width   factorial.Width
		core    wasm.ValType
		mul     byte
		narrow  byte
		absent  []byte
		entries int // times narrow appears
	}{
		{factorial.W8, wasm.ValI32, wasm.OpI32Mul, wasm.OpI32Extend8S, []byte{wasm.OpI64Mul, wasm.OpI32Extend16S}, 2},
		{factorial.W16, wasm.ValI32, wasm.OpI32Mul, wasm.OpI32Extend16S, []byte{wasm.OpI64Mul, wasm.OpI32Extend8S}, 2},
		{factorial.W32, wasm.ValI32, wasm.OpI32Mul, 0, []byte{wasm.OpI64Mul, wasm.OpI32Extend8S, wasm.OpI32Extend16S}, 0},
		{factorial.W64, wasm.ValI64, wasm.OpI64Mul, 0, []byte{wasm.OpI32Mul, wasm.OpI32Extend8S, wasm.OpI32Extend16S}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.width.String(), func(t *testing.T) {
			f, err := Fixture(tt.width)
			if err != nil {
				t.Fatal(err)
			}
			if f.Core != tt.core {
				t.Errorf("core = %s, want %s", f.Core, tt.core)
			}
			count := map[byte]int{}
			for _, in := range f.Body {
				count[in.Op]++
			}
			if count[tt.mul] != 1 {
				t.Errorf("expected one %s, got %d", wasm.OpName(tt.mul), count[tt.mul])
			}
			if tt.narrow != 0 && count[tt.narrow] != tt.entries {
				t.Errorf("expected %d %s, got %d", tt.entries, wasm.OpName(tt.narrow), count[tt.narrow])
			}
			for _, op := range tt.absent {
				if count[op] != 0 {
					t.Errorf("unexpected %s", wasm.OpName(op))
				}
			}
			if count[wasm.OpLoop] != 1 || count[wasm.OpBrIf] != 1 || count[wasm.OpBr] != 1 {
				t.Errorf("loop shape wrong: %v", count)
			}
		})
	}
}

func TestUnsupportedWidth(t *testing.T) {
	for _, w := range []factorial.Width{0, 12, 128} {
		_, err := Lower(w)
		if err == nil {
			t.Fatalf("Lower(%d) succeeded", w)
		}
		if !errors.Is(err, &ferrors.Error{Phase: ferrors.PhaseLower, Kind: ferrors.KindUnsupported}) {
			t.Errorf("Lower(%d): unexpected error %v", w, err)
		}
		if _, err := WITDecl(w); err == nil {
			t.Errorf("WITDecl(%d) succeeded", w)
		}
		if ExportName(w) != "" || WITName(w) != "" {
			t.Errorf("names for invalid width %d should be empty", w)
		}
	}
}

func TestWITDecl(t *testing.T) {
	tests := map[factorial.Width]string{
		factorial.W8:  "factorial-char: func(i: s8) -> s8;",
		factorial.W16: "factorial-short: func(i: s16) -> s16;",
		factorial.W32: "factorial-long: func(i: s32) -> s32;",
		factorial.W64: "factorial-long-long: func(i: s64) -> s64;",
	}
	for w, want := range tests {
		got, err := WITDecl(w)
		if err != nil {
			t.Fatalf("WITDecl(%s): %v", w, err)
		}
		if got != want {
			t.Errorf("WITDecl(%s) = %q, want %q", w, got, want)
		}
	}
}

func TestWAT(t *testing.T) {
	f, err := Fixture(factorial.W16)
	if err != nil {
		t.Fatal(err)
	}
	text := f.WAT()
	for _, want := range []string{
		`(export "factorialShort" (func 0))`,
		`(param $i i32) (result i32)`,
		"    (local $n i32)\n",
		"    block\n      loop\n",
		"        local.get $i\n        i32.const 0\n        i32.le_s\n        br_if 1\n",
		"        i32.mul\n        i32.extend16_s\n        local.set $n\n",
		"      end\n    end\n    local.get $n\n  )\n)\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("WAT missing %q:\n%s", want, text)
		}
	}
	if strings.Count(text, "(") != strings.Count(text, ")") {
		t.Errorf("unbalanced parentheses:\n%s", text)
	}
}
