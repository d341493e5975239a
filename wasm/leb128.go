package wasm

import (
	"errors"
	"io"
)

// ErrOverflow is returned when a LEB128 value exceeds the maximum bit width.
var ErrOverflow = errors.New("leb128: overflow")

// AppendU32 appends the unsigned LEB128 encoding of v.
func AppendU32(dst []byte, v uint32) []byte {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v == 0 {
			return append(dst, b)
		}
		dst = append(dst, b|0x80)
	}
}

// AppendS32 appends the signed LEB128 encoding of v.
func AppendS32(dst []byte, v int32) []byte {
	return AppendS64(dst, int64(v))
}

// AppendS64 appends the signed LEB128 encoding of v.
func AppendS64(dst []byte, v int64) []byte {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(dst, b)
		}
		dst = append(dst, b|0x80)
	}
}

// AppendName appends a length-prefixed UTF-8 name.
func AppendName(dst []byte, s string) []byte {
	dst = AppendU32(dst, uint32(len(s)))
	return append(dst, s...)
}

// ReadU32 reads an unsigned LEB128 value of at most 32 bits.
func ReadU32(r io.ByteReader) (uint32, error) {
	var result uint32
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if shift == 28 && b&0x70 != 0 {
			return 0, ErrOverflow
		}
		result |= uint32(b&0x7F) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 35 {
			return 0, ErrOverflow
		}
	}
}

// ReadS32 reads a signed LEB128 value of at most 32 bits.
func ReadS32(r io.ByteReader) (int32, error) {
	v, err := readSigned(r, 32)
	return int32(v), err
}

// ReadS64 reads a signed LEB128 value of at most 64 bits.
func ReadS64(r io.ByteReader) (int64, error) {
	return readSigned(r, 64)
}

func readSigned(r io.ByteReader, bits uint) (int64, error) {
	var result int64
	var shift uint
	var b byte
	var err error
	for {
		b, err = r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= int64(b&0x7F) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
		if shift >= bits {
			return 0, ErrOverflow
		}
	}
	if shift < 64 && b&0x40 != 0 {
		result |= ^int64(0) << shift
	}
	if bits < 64 {
		// Reject encodings whose value does not fit the target width.
		lo, hi := int64(-1)<<(bits-1), int64(1)<<(bits-1)-1
		if result < lo || result > hi {
			return 0, ErrOverflow
		}
	}
	return result, nil
}
