package wasm

// Encode serializes the module. Empty sections are omitted.
func (m *Module) Encode() []byte {
	out := append([]byte(nil), Header[:]...)

	if len(m.Types) > 0 {
		var sec []byte
		sec = AppendU32(sec, uint32(len(m.Types)))
		for _, ft := range m.Types {
			sec = append(sec, FuncTypeMarker)
			sec = appendValTypes(sec, ft.Params)
			sec = appendValTypes(sec, ft.Results)
		}
		out = appendSection(out, SectionType, sec)
	}

	if len(m.Funcs) > 0 {
		var sec []byte
		sec = AppendU32(sec, uint32(len(m.Funcs)))
		for _, idx := range m.Funcs {
			sec = AppendU32(sec, idx)
		}
		out = appendSection(out, SectionFunction, sec)
	}

	if len(m.Memories) > 0 {
		var sec []byte
		sec = AppendU32(sec, uint32(len(m.Memories)))
		for _, lim := range m.Memories {
			sec = appendLimits(sec, lim)
		}
		out = appendSection(out, SectionMemory, sec)
	}

	if len(m.Exports) > 0 {
		var sec []byte
		sec = AppendU32(sec, uint32(len(m.Exports)))
		for _, e := range m.Exports {
			sec = AppendName(sec, e.Name)
			sec = append(sec, e.Kind)
			sec = AppendU32(sec, e.Index)
		}
		out = appendSection(out, SectionExport, sec)
	}

	if len(m.Code) > 0 {
		var sec []byte
		sec = AppendU32(sec, uint32(len(m.Code)))
		for _, body := range m.Code {
			var fn []byte
			fn = AppendU32(fn, uint32(len(body.Locals)))
			for _, g := range body.Locals {
				fn = AppendU32(fn, g.Count)
				fn = append(fn, byte(g.Type))
			}
			fn = append(fn, body.Code...)
			sec = AppendU32(sec, uint32(len(fn)))
			sec = append(sec, fn...)
		}
		out = appendSection(out, SectionCode, sec)
	}

	for _, name := range m.Custom {
		out = appendSection(out, SectionCustom, AppendName(nil, name))
	}

	return out
}

func appendSection(dst []byte, id byte, content []byte) []byte {
	dst = append(dst, id)
	dst = AppendU32(dst, uint32(len(content)))
	return append(dst, content...)
}

func appendValTypes(dst []byte, types []ValType) []byte {
	dst = AppendU32(dst, uint32(len(types)))
	for _, t := range types {
		dst = append(dst, byte(t))
	}
	return dst
}

func appendLimits(dst []byte, lim Limits) []byte {
	if lim.Max != nil {
		dst = append(dst, LimitsMinMax)
		dst = AppendU32(dst, lim.Min)
		return AppendU32(dst, *lim.Max)
	}
	dst = append(dst, LimitsMinOnly)
	return AppendU32(dst, lim.Min)
}
