package factorial

// Signed is the set of fixed-width signed integer types the fixture accepts.
// Platform-sized int is excluded on purpose: its width depends on the target.
type Signed interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// FixedWidth returns i*(i-1)*...*1 computed in T with wraparound at every
// multiplication, or 1 when i <= 0.
func FixedWidth[T Signed](i T) T {
	var n T = 1
	for ; 0 < i; i-- {
		n *= i
	}
	return n
}

// Long is the fixture as compiled for the reference environment, where the
// accumulator is a 32-bit long.
func Long(i int32) int32 {
	return FixedWidth(i)
}

// LongLong is the 64-bit variant of the fixture.
func LongLong(i int64) int64 {
	return FixedWidth(i)
}

// At runs the fixture at width w. The input is first truncated to w and the
// result is returned sign-extended. An invalid width runs at W64.
func At(w Width, i int64) int64 {
	switch w {
	case W8:
		return int64(FixedWidth(int8(i)))
	case W16:
		return int64(FixedWidth(int16(i)))
	case W32:
		return int64(FixedWidth(int32(i)))
	default:
		return FixedWidth(i)
	}
}

// OverflowPoint returns the smallest input whose true factorial does not
// fit in T.
func OverflowPoint[T Signed]() T {
	return T(WidthOf[T]().OverflowPoint())
}
