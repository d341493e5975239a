package wasm

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// Parsing errors returned by Decode.
var (
	ErrInvalidMagic   = errors.New("invalid wasm magic number")
	ErrInvalidVersion = errors.New("invalid wasm version")
	ErrUnsupported    = errors.New("unsupported section")
)

// Decode parses a core module containing only type, function, memory,
// export, code and custom sections. Modules with imports, tables, globals
// or data are rejected with ErrUnsupported.
func Decode(data []byte) (*Module, error) {
	if len(data) < len(Header) {
		return nil, fmt.Errorf("header: %w", io.ErrUnexpectedEOF)
	}
	if !bytes.Equal(data[:4], Header[:4]) {
		return nil, ErrInvalidMagic
	}
	if !bytes.Equal(data[4:8], Header[4:8]) {
		return nil, ErrInvalidVersion
	}

	r := bytes.NewReader(data[8:])
	m := &Module{}
	var last byte

	for r.Len() > 0 {
		id, _ := r.ReadByte()
		size, err := ReadU32(r)
		if err != nil {
			return nil, fmt.Errorf("section %d size: %w", id, err)
		}
		if int(size) > r.Len() {
			return nil, fmt.Errorf("section %d: size %d exceeds remaining %d bytes: %w", id, size, r.Len(), io.ErrUnexpectedEOF)
		}
		content := make([]byte, size)
		_, _ = r.Read(content)

		if id != SectionCustom {
			if id <= last {
				return nil, fmt.Errorf("section %d appears out of order", id)
			}
			last = id
		}

		sr := bytes.NewReader(content)
		switch id {
		case SectionCustom:
			err = decodeCustom(sr, m)
		case SectionType:
			err = decodeTypes(sr, m)
		case SectionFunction:
			err = decodeFuncs(sr, m)
		case SectionMemory:
			err = decodeMemories(sr, m)
		case SectionExport:
			err = decodeExports(sr, m)
		case SectionCode:
			err = decodeCode(sr, m)
		default:
			err = fmt.Errorf("id %d: %w", id, ErrUnsupported)
		}
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", id, err)
		}
		if id != SectionCustom && sr.Len() != 0 {
			return nil, fmt.Errorf("section %d: %d trailing bytes", id, sr.Len())
		}
	}

	if len(m.Funcs) != len(m.Code) {
		return nil, fmt.Errorf("function count %d does not match code count %d", len(m.Funcs), len(m.Code))
	}
	return m, nil
}

func decodeCustom(r *bytes.Reader, m *Module) error {
	name, err := readName(r)
	if err != nil {
		return err
	}
	m.Custom = append(m.Custom, name)
	return nil
}

func decodeTypes(r *bytes.Reader, m *Module) error {
	count, err := ReadU32(r)
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		marker, err := r.ReadByte()
		if err != nil {
			return err
		}
		if marker != FuncTypeMarker {
			return fmt.Errorf("type %d: expected func type marker 0x60, got 0x%02x", i, marker)
		}
		params, err := readValTypes(r)
		if err != nil {
			return fmt.Errorf("type %d params: %w", i, err)
		}
		results, err := readValTypes(r)
		if err != nil {
			return fmt.Errorf("type %d results: %w", i, err)
		}
		m.Types = append(m.Types, FuncType{Params: params, Results: results})
	}
	return nil
}

func decodeFuncs(r *bytes.Reader, m *Module) error {
	count, err := ReadU32(r)
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		idx, err := ReadU32(r)
		if err != nil {
			return err
		}
		if int(idx) >= len(m.Types) {
			return fmt.Errorf("function %d: type index %d out of range", i, idx)
		}
		m.Funcs = append(m.Funcs, idx)
	}
	return nil
}

func decodeMemories(r *bytes.Reader, m *Module) error {
	count, err := ReadU32(r)
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		flag, err := r.ReadByte()
		if err != nil {
			return err
		}
		var lim Limits
		if lim.Min, err = ReadU32(r); err != nil {
			return err
		}
		switch flag {
		case LimitsMinOnly:
		case LimitsMinMax:
			mx, err := ReadU32(r)
			if err != nil {
				return err
			}
			if mx < lim.Min {
				return fmt.Errorf("memory %d: max %d below min %d", i, mx, lim.Min)
			}
			lim.Max = &mx
		default:
			return fmt.Errorf("memory %d: limits flag 0x%02x: %w", i, flag, ErrUnsupported)
		}
		m.Memories = append(m.Memories, lim)
	}
	return nil
}

func decodeExports(r *bytes.Reader, m *Module) error {
	count, err := ReadU32(r)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, count)
	for i := uint32(0); i < count; i++ {
		name, err := readName(r)
		if err != nil {
			return err
		}
		if seen[name] {
			return fmt.Errorf("duplicate export %q", name)
		}
		seen[name] = true
		kind, err := r.ReadByte()
		if err != nil {
			return err
		}
		idx, err := ReadU32(r)
		if err != nil {
			return err
		}
		m.Exports = append(m.Exports, Export{Name: name, Kind: kind, Index: idx})
	}
	return nil
}

func decodeCode(r *bytes.Reader, m *Module) error {
	count, err := ReadU32(r)
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		size, err := ReadU32(r)
		if err != nil {
			return err
		}
		if int(size) > r.Len() {
			return fmt.Errorf("body %d: %w", i, io.ErrUnexpectedEOF)
		}
		raw := make([]byte, size)
		_, _ = r.Read(raw)

		br := bytes.NewReader(raw)
		groups, err := ReadU32(br)
		if err != nil {
			return fmt.Errorf("body %d locals: %w", i, err)
		}
		body := Body{}
		for g := uint32(0); g < groups; g++ {
			n, err := ReadU32(br)
			if err != nil {
				return fmt.Errorf("body %d locals: %w", i, err)
			}
			t, err := br.ReadByte()
			if err != nil {
				return fmt.Errorf("body %d locals: %w", i, err)
			}
			body.Locals = append(body.Locals, LocalGroup{Count: n, Type: ValType(t)})
		}
		body.Code = raw[len(raw)-br.Len():]
		m.Code = append(m.Code, body)
	}
	return nil
}

func readValTypes(r *bytes.Reader) ([]ValType, error) {
	n, err := ReadU32(r)
	if err != nil {
		return nil, err
	}
	if int(n) > r.Len() {
		return nil, io.ErrUnexpectedEOF
	}
	types := make([]ValType, n)
	for i := range types {
		b, _ := r.ReadByte()
		switch t := ValType(b); t {
		case ValI32, ValI64, ValF32, ValF64:
			types[i] = t
		default:
			return nil, fmt.Errorf("value type 0x%02x: %w", b, ErrUnsupported)
		}
	}
	return types, nil
}

func readName(r *bytes.Reader) (string, error) {
	n, err := ReadU32(r)
	if err != nil {
		return "", err
	}
	if int(n) > r.Len() {
		return "", io.ErrUnexpectedEOF
	}
	buf := make([]byte, n)
	_, _ = r.Read(buf)
	if !utf8.Valid(buf) {
		return "", fmt.Errorf("name is not valid UTF-8")
	}
	return string(buf), nil
}
