package conformance

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wippyai/wasm-factorial/engine"
	"github.com/wippyai/wasm-factorial/errors"
	"github.com/wippyai/wasm-factorial/factorial"
)

// Case is one input evaluated by the reference (Want) and the compiled
// fixture (Got).
type Case struct {
	Input int64
	Want  int64
	Got   int64
}

// OK reports whether both sides agree.
func (c Case) OK() bool { return c.Want == c.Got }

// Report is the outcome of a conformance run. Cases are sorted by input.
type Report struct {
	Width         factorial.Width
	Export        string
	Cases         []Case
	OverflowPoint int64
	Elapsed       time.Duration
}

// Passed reports whether every case agreed.
func (r *Report) Passed() bool {
	for _, c := range r.Cases {
		if !c.OK() {
			return false
		}
	}
	return true
}

// Mismatches returns the cases that disagreed.
func (r *Report) Mismatches() []Case {
	var out []Case
	for _, c := range r.Cases {
		if !c.OK() {
			out = append(out, c)
		}
	}
	return out
}

// Err returns a *errors.MismatchError when any case disagreed, nil otherwise.
func (r *Report) Err() error {
	bad := r.Mismatches()
	if len(bad) == 0 {
		return nil
	}
	me := &errors.MismatchError{Export: r.Export, Width: r.Width.String()}
	for _, c := range bad {
		me.Mismatches = append(me.Mismatches, errors.Mismatch{Input: c.Input, Want: c.Want, Got: c.Got})
	}
	return me
}

// Wrapped reports whether the result for input i has wrapped, i.e. differs
// from the true factorial.
func (r *Report) Wrapped(i int64) bool {
	return r.Width.Truncate(i) >= r.OverflowPoint
}

// NonMonotonic returns the positive cases whose compiled result is smaller
// than the result for the preceding input. None of them precede the
// overflow point in a conforming run.
func (r *Report) NonMonotonic() []Case {
	var out []Case
	for k := 1; k < len(r.Cases); k++ {
		prev, c := r.Cases[k-1], r.Cases[k]
		if prev.Input < 1 || c.Input != prev.Input+1 {
			continue
		}
		if c.Got < prev.Got {
			out = append(out, c)
		}
	}
	return out
}

// Run lowers the fixture at s.Width, loads it into eng and evaluates the
// suite. A load failure or a trapping call is returned as an error;
// disagreements are reported through the Report.
func Run(ctx context.Context, eng *engine.Engine, s Suite) (*Report, error) {
	mod, err := eng.LoadFixture(ctx, s.Width)
	if err != nil {
		return nil, err
	}
	defer mod.Close(ctx)

	return RunModule(ctx, mod, s)
}

// RunModule evaluates the suite against an already loaded module. The
// module's width takes precedence over s.Width.
func RunModule(ctx context.Context, mod *engine.Module, s Suite) (*Report, error) {
	w := mod.Width()
	inputs := Merge(s.Inputs)
	limit := s.Parallelism
	if limit <= 0 {
		limit = DefaultParallelism
	}

	log := Logger().With(zap.String("export", mod.Name()), zap.Stringer("width", w))
	log.Debug("conformance run started", zap.Int("inputs", len(inputs)), zap.Int("parallelism", limit))

	start := time.Now()
	cases := make([]Case, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for k, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			got, err := mod.Call(gctx, in)
			if err != nil {
				return err
			}
			cases[k] = Case{Input: in, Want: factorial.At(w, in), Got: got}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn("conformance run aborted", zap.Error(err))
		return nil, err
	}

	rep := &Report{
		Width:         w,
		Export:        mod.Name(),
		Cases:         cases,
		OverflowPoint: w.OverflowPoint(),
		Elapsed:       time.Since(start),
	}

	for _, c := range rep.Mismatches() {
		log.Warn("mismatch",
			zap.Int64("input", c.Input),
			zap.Int64("want", c.Want),
			zap.Int64("got", c.Got),
		)
	}
	log.Info("conformance run finished",
		zap.Int("cases", len(cases)),
		zap.Int("mismatches", len(rep.Mismatches())),
		zap.Duration("elapsed", rep.Elapsed),
	)
	return rep, nil
}

// Check runs DefaultSuite at w on a fresh engine and returns the report's
// error, if any.
func Check(ctx context.Context, w factorial.Width) (*Report, error) {
	eng, err := engine.New(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer eng.Close(ctx)

	rep, err := Run(ctx, eng, DefaultSuite(w))
	if err != nil {
		return nil, err
	}
	return rep, rep.Err()
}
