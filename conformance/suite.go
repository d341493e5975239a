package conformance

import (
	"slices"

	"github.com/wippyai/wasm-factorial/factorial"
)

const (
	// DefaultParallelism bounds concurrent calls when Suite.Parallelism is 0.
	DefaultParallelism = 4

	// MaxRange is the most inputs Range returns.
	MaxRange = 1 << 20
)

// Suite describes one conformance run.
type Suite struct {
	Width       factorial.Width
	Inputs      []int64
	Parallelism int // <= 0 means DefaultParallelism
}

// DefaultSuite covers a few negative inputs, every input up to just past
// the zero point, and the edge inputs of w.
func DefaultSuite(w factorial.Width) Suite {
	in := Range(-3, w.ZeroPoint()+2)
	return Suite{Width: w, Inputs: Merge(in, EdgeInputs(w))}
}

// Range returns from, from+1, ..., to. It is empty when from > to and is
// cut off after MaxRange inputs.
func Range(from, to int64) []int64 {
	if from > to {
		return nil
	}
	if span := uint64(to) - uint64(from); span >= MaxRange {
		to = from + MaxRange - 1
	}
	out := make([]int64, 0, to-from+1)
	for i := from; ; i++ {
		out = append(out, i)
		if i == to {
			break
		}
	}
	return out
}

// EdgeInputs returns the inputs where fixed-width behavior changes: the
// bounds of the width, the sign boundary, and both sides of the overflow
// and zero points. Max and Max-1 are included only for 8 and 16 bits; the
// loop runs i times, so wider maxima are too slow to sample.
func EdgeInputs(w factorial.Width) []int64 {
	if !w.Valid() {
		w = factorial.W64
	}
	op, zp := w.OverflowPoint(), w.ZeroPoint()
	in := []int64{
		w.Min(), w.Min() + 1,
		-1, 0, 1,
		op - 1, op, op + 1,
		zp - 1, zp,
	}
	if w <= factorial.W16 {
		in = append(in, w.Max()-1, w.Max())
	}
	return Merge(in)
}

// Merge returns the sorted union of the given input sets.
func Merge(sets ...[]int64) []int64 {
	var out []int64
	for _, s := range sets {
		out = append(out, s...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
