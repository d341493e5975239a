package factorial

import (
	"math/bits"
	"strconv"
	"unsafe"
)

// Width is the bit width of the fixture's accumulator.
type Width uint8

const (
	W8  Width = 8
	W16 Width = 16
	W32 Width = 32
	W64 Width = 64
)

// Reference is the width of the reference environment's long.
const Reference = W32

// Widths lists every supported width in ascending order.
var Widths = []Width{W8, W16, W32, W64}

// WidthOf returns the width of T.
func WidthOf[T Signed]() Width {
	var z T
	return Width(unsafe.Sizeof(z) * 8)
}

// ParseWidth accepts "8", "16", "32", "64" and the same with an "i" or "s"
// prefix.
func ParseWidth(s string) (Width, bool) {
	if len(s) > 0 && (s[0] == 'i' || s[0] == 's') {
		s = s[1:]
	}
	// Atoi accepts a sign; widths never carry one.
	if s == "" || s[0] < '0' || s[0] > '9' {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	w := Width(n)
	return w, n > 0 && n <= 64 && w.Valid()
}

// Valid reports whether w is one of W8, W16, W32, W64.
func (w Width) Valid() bool {
	switch w {
	case W8, W16, W32, W64:
		return true
	}
	return false
}

// Bits returns the width as a bit count.
func (w Width) Bits() int {
	return int(w)
}

func (w Width) String() string {
	if !w.Valid() {
		return "width(" + strconv.Itoa(int(w)) + ")"
	}
	return "s" + strconv.Itoa(int(w))
}

// Min returns the most negative value representable at w.
func (w Width) Min() int64 {
	if !w.Valid() {
		w = W64
	}
	return -1 << (w - 1)
}

// Max returns the largest value representable at w.
func (w Width) Max() int64 {
	if !w.Valid() {
		w = W64
	}
	return 1<<(w-1) - 1
}

// Truncate keeps the low w bits of v and reinterprets them as a signed
// two's-complement value.
func (w Width) Truncate(v int64) int64 {
	switch w {
	case W8:
		return int64(int8(v))
	case W16:
		return int64(int16(v))
	case W32:
		return int64(int32(v))
	default:
		return v
	}
}

// Contains reports whether v is representable at w without truncation.
func (w Width) Contains(v int64) bool {
	return w.Truncate(v) == v
}

// OverflowPoint returns the smallest i whose true factorial exceeds Max.
// Results for inputs at or above this point have wrapped.
func (w Width) OverflowPoint() int64 {
	limit := w.Max()
	n := int64(1)
	for k := int64(1); ; k++ {
		if n > limit/k {
			return k
		}
		n *= k
	}
}

// ZeroPoint returns the smallest i whose factorial is divisible by 2^w.
// The fixture returns 0 for every input at or above this point.
func (w Width) ZeroPoint() int64 {
	if !w.Valid() {
		w = W64
	}
	// The power of two dividing i! is i - popcount(i).
	for i := int64(1); ; i++ {
		if i-int64(bits.OnesCount64(uint64(i))) >= int64(w.Bits()) {
			return i
		}
	}
}
