package factorial

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestFixedWidthProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("non-positive input returns 1", prop.ForAll(
		func(i int64) bool {
			return FixedWidth(i) == 1 && At(W32, i|math.MinInt32) == 1
		},
		gen.Int64Range(math.MinInt64, 0),
	))

	properties.Property("each step wraps at the accumulator width", prop.ForAll(
		func(i int32) bool {
			return Long(i) == Long(i-1)*i
		},
		gen.Int32Range(1, 4096),
	))

	properties.Property("narrowing the 64-bit result equals running narrow", prop.ForAll(
		func(i int16) bool {
			wide := LongLong(int64(i))
			return int64(FixedWidth(int32(i))) == W32.Truncate(wide) &&
				int64(FixedWidth(i)) == W16.Truncate(wide)
		},
		gen.Int16Range(-64, 4096),
	))

	properties.Property("every int8 input agrees with At", prop.ForAll(
		func(i int8) bool {
			return int64(FixedWidth(i)) == At(W8, int64(i))
		},
		gen.Int8(),
	))

	properties.Property("results past the zero point are 0", prop.ForAll(
		func(i int32) bool {
			return Long(i) == 0
		},
		gen.Int32Range(int32(W32.ZeroPoint()), int32(W32.ZeroPoint())+2048),
	))

	properties.TestingRun(t)
}

func TestWidthProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("truncate is idempotent and in range", prop.ForAll(
		func(v int64) bool {
			for _, w := range Widths {
				tv := w.Truncate(v)
				if w.Truncate(tv) != tv || tv < w.Min() || tv > w.Max() {
					return false
				}
			}
			return true
		},
		gen.Int64(),
	))

	properties.Property("At truncates its input first", prop.ForAll(
		func(v int64) bool {
			return At(W8, v) == At(W8, W8.Truncate(v))
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}
