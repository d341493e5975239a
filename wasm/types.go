package wasm

// Module is the subset of a core module the fixture toolchain produces:
// types, functions, memories, exports and code.
type Module struct {
	Types    []FuncType
	Funcs    []uint32 // type index per defined function
	Memories []Limits
	Exports  []Export
	Code     []Body

	// Custom holds the names of custom sections, in order of appearance.
	Custom []string
}

// FuncType is a function signature.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// Equal reports whether two signatures are identical.
func (ft FuncType) Equal(other FuncType) bool {
	return equalTypes(ft.Params, other.Params) && equalTypes(ft.Results, other.Results)
}

func equalTypes(a, b []ValType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Limits bounds a memory in 64KiB pages.
type Limits struct {
	Max *uint32
	Min uint32
}

// Export is one entry of the export section.
type Export struct {
	Name  string
	Kind  byte
	Index uint32
}

// LocalGroup declares Count consecutive locals of one type.
type LocalGroup struct {
	Count uint32
	Type  ValType
}

// Body is a function body: local declarations and the raw expression,
// including the final end opcode.
type Body struct {
	Locals []LocalGroup
	Code   []byte
}

// Export returns the export with the given name.
func (m *Module) Export(name string) (Export, bool) {
	for _, e := range m.Exports {
		if e.Name == name {
			return e, true
		}
	}
	return Export{}, false
}

// ExportedFunc resolves a function export to its signature and body.
func (m *Module) ExportedFunc(name string) (FuncType, *Body, bool) {
	e, ok := m.Export(name)
	if !ok || e.Kind != KindFunc {
		return FuncType{}, nil, false
	}
	if int(e.Index) >= len(m.Funcs) || int(e.Index) >= len(m.Code) {
		return FuncType{}, nil, false
	}
	typeIdx := m.Funcs[e.Index]
	if int(typeIdx) >= len(m.Types) {
		return FuncType{}, nil, false
	}
	return m.Types[typeIdx], &m.Code[e.Index], true
}
