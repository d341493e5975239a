package wasm

import (
	"bytes"
	"fmt"
	"io"
)

// Instr is one instruction of the integer/control subset the fixture uses.
// Imm holds the single immediate, if any: a block type, label depth, local
// index or constant.
type Instr struct {
	Op  byte
	Imm int64
}

type immKind uint8

const (
	immNone immKind = iota
	immBlockType
	immIndex
	immS32
	immS64
)

type opInfo struct {
	name string
	imm  immKind
}

var ops = map[byte]opInfo{
	OpUnreachable:  {"unreachable", immNone},
	OpNop:          {"nop", immNone},
	OpBlock:        {"block", immBlockType},
	OpLoop:         {"loop", immBlockType},
	OpEnd:          {"end", immNone},
	OpBr:           {"br", immIndex},
	OpBrIf:         {"br_if", immIndex},
	OpReturn:       {"return", immNone},
	OpDrop:         {"drop", immNone},
	OpLocalGet:     {"local.get", immIndex},
	OpLocalSet:     {"local.set", immIndex},
	OpLocalTee:     {"local.tee", immIndex},
	OpI32Const:     {"i32.const", immS32},
	OpI64Const:     {"i64.const", immS64},
	OpI32Eqz:       {"i32.eqz", immNone},
	OpI32GtS:       {"i32.gt_s", immNone},
	OpI32LeS:       {"i32.le_s", immNone},
	OpI64Eqz:       {"i64.eqz", immNone},
	OpI64GtS:       {"i64.gt_s", immNone},
	OpI64LeS:       {"i64.le_s", immNone},
	OpI32Add:       {"i32.add", immNone},
	OpI32Sub:       {"i32.sub", immNone},
	OpI32Mul:       {"i32.mul", immNone},
	OpI64Add:       {"i64.add", immNone},
	OpI64Sub:       {"i64.sub", immNone},
	OpI64Mul:       {"i64.mul", immNone},
	OpI32Extend8S:  {"i32.extend8_s", immNone},
	OpI32Extend16S: {"i32.extend16_s", immNone},
	OpI64Extend8S:  {"i64.extend8_s", immNone},
	OpI64Extend16S: {"i64.extend16_s", immNone},
	OpI64Extend32S: {"i64.extend32_s", immNone},
}

// OpName returns the text-format mnemonic for op.
func OpName(op byte) string {
	if info, ok := ops[op]; ok {
		return info.name
	}
	return fmt.Sprintf("<0x%02x>", op)
}

// HasImm reports whether op carries an immediate.
func HasImm(op byte) bool {
	return ops[op].imm != immNone
}

// AppendInstr appends the binary encoding of in. Unknown opcodes are
// written without an immediate.
func AppendInstr(dst []byte, in Instr) []byte {
	dst = append(dst, in.Op)
	switch ops[in.Op].imm {
	case immBlockType:
		dst = append(dst, byte(in.Imm))
	case immIndex:
		dst = AppendU32(dst, uint32(in.Imm))
	case immS32:
		dst = AppendS32(dst, int32(in.Imm))
	case immS64:
		dst = AppendS64(dst, in.Imm)
	}
	return dst
}

// AppendExpr appends a sequence of instructions.
func AppendExpr(dst []byte, code []Instr) []byte {
	for _, in := range code {
		dst = AppendInstr(dst, in)
	}
	return dst
}

// ReadExpr decodes a function body expression. It stops after the end
// opcode that closes the function and rejects trailing bytes.
func ReadExpr(code []byte) ([]Instr, error) {
	r := bytes.NewReader(code)
	var out []Instr
	depth := 0
	for {
		op, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("expression not terminated by end")
			}
			return nil, err
		}
		info, ok := ops[op]
		if !ok {
			return nil, fmt.Errorf("unsupported opcode 0x%02x at offset %d", op, len(code)-r.Len()-1)
		}
		in := Instr{Op: op}
		switch info.imm {
		case immBlockType:
			bt, err := r.ReadByte()
			if err != nil {
				return nil, fmt.Errorf("%s: block type: %w", info.name, err)
			}
			in.Imm = int64(bt)
		case immIndex:
			v, err := ReadU32(r)
			if err != nil {
				return nil, fmt.Errorf("%s: index: %w", info.name, err)
			}
			in.Imm = int64(v)
		case immS32:
			v, err := ReadS32(r)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", info.name, err)
			}
			in.Imm = int64(v)
		case immS64:
			v, err := ReadS64(r)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", info.name, err)
			}
			in.Imm = v
		}
		out = append(out, in)

		switch op {
		case OpBlock, OpLoop:
			depth++
		case OpEnd:
			if depth == 0 {
				if r.Len() != 0 {
					return nil, fmt.Errorf("%d trailing bytes after final end", r.Len())
				}
				return out, nil
			}
			depth--
		}
	}
}
