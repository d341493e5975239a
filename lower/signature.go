package lower

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wasm-factorial/errors"
	"github.com/wippyai/wasm-factorial/factorial"
	"github.com/wippyai/wasm-factorial/wasm"
)

// ExportName returns the core export name of the fixture at width w, named
// after the C type of its accumulator.
func ExportName(w factorial.Width) string {
	switch w {
	case factorial.W8:
		return "factorialChar"
	case factorial.W16:
		return "factorialShort"
	case factorial.W32:
		return "factorialLong"
	case factorial.W64:
		return "factorialLongLong"
	}
	return ""
}

// WITName returns the kebab-case interface name of the fixture.
func WITName(w factorial.Width) string {
	switch w {
	case factorial.W8:
		return "factorial-char"
	case factorial.W16:
		return "factorial-short"
	case factorial.W32:
		return "factorial-long"
	case factorial.W64:
		return "factorial-long-long"
	}
	return ""
}

// Signature returns the WIT parameter and result types of the fixture.
// Both are the signed integer type of width w.
func Signature(w factorial.Width) (param, result wit.Type, err error) {
	var t wit.Type
	switch w {
	case factorial.W8:
		t = wit.S8{}
	case factorial.W16:
		t = wit.S16{}
	case factorial.W32:
		t = wit.S32{}
	case factorial.W64:
		t = wit.S64{}
	default:
		return nil, nil, errors.UnsupportedWidth(errors.PhaseLower, w)
	}
	return t, t, nil
}

// WITDecl renders the fixture as a WIT function declaration, e.g.
// "factorial-long: func(i: s32) -> s32;".
func WITDecl(w factorial.Width) (string, error) {
	param, result, err := Signature(w)
	if err != nil {
		return "", err
	}
	return WITName(w) + ": func(i: " + witTypeName(param) + ") -> " + witTypeName(result) + ";", nil
}

// CoreType flattens a WIT integer type to its core wasm value type per the
// canonical ABI: s8, s16 and s32 travel as i32, s64 as i64.
func CoreType(t wit.Type) (wasm.ValType, bool) {
	switch t.(type) {
	case wit.S8, wit.S16, wit.S32, wit.U8, wit.U16, wit.U32:
		return wasm.ValI32, true
	case wit.S64, wit.U64:
		return wasm.ValI64, true
	}
	return 0, false
}

func witTypeName(t wit.Type) string {
	switch t.(type) {
	case wit.S8:
		return "s8"
	case wit.S16:
		return "s16"
	case wit.S32:
		return "s32"
	case wit.S64:
		return "s64"
	case wit.U8:
		return "u8"
	case wit.U16:
		return "u16"
	case wit.U32:
		return "u32"
	case wit.U64:
		return "u64"
	}
	return "unknown"
}
