package engine

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	ferrors "github.com/wippyai/wasm-factorial/errors"
	"github.com/wippyai/wasm-factorial/factorial"
	"github.com/wippyai/wasm-factorial/lower"
	"github.com/wippyai/wasm-factorial/wasm"
)

func newEngine(t *testing.T, opts *Options) *Engine {
	t.Helper()
	ctx := context.Background()
	eng, err := New(ctx, opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = eng.Close(ctx) })
	return eng
}

func TestCallLong(t *testing.T) {
	ctx := context.Background()
	for _, mode := range []struct {
		name string
		opts *Options
	}{
		{"compiler", nil},
		{"interpreter", &Options{Interpreter: true, MemoryLimitPages: 1}},
	} {
		t.Run(mode.name, func(t *testing.T) {
			mod, err := newEngine(t, mode.opts).LoadFixture(ctx, factorial.W32)
			if err != nil {
				t.Fatalf("LoadFixture failed: %v", err)
			}
			defer mod.Close(ctx)

			if mod.Name() != "factorialLong" || mod.Width() != factorial.W32 {
				t.Errorf("module = %s/%s", mod.Name(), mod.Width())
			}

			tests := []struct {
				in, want int64
			}{
				{math.MinInt32, 1},
				{-1, 1},
				{0, 1},
				{1, 1},
				{5, 120},
				{12, 479001600},
				{13, 1932053504},
				{34, 0},
			}
			for _, tt := range tests {
				got, err := mod.Call(ctx, tt.in)
				if err != nil {
					t.Fatalf("Call(%d): %v", tt.in, err)
				}
				if got != tt.want {
					t.Errorf("Call(%d) = %d, want %d", tt.in, got, tt.want)
				}
			}
			if mod.Calls() != uint64(len(tests)) {
				t.Errorf("Calls() = %d, want %d", mod.Calls(), len(tests))
			}
		})
	}
}

func TestCallMatchesReferenceAllWidths(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t, nil)

	for _, w := range factorial.Widths {
		t.Run(w.String(), func(t *testing.T) {
			mod, err := eng.LoadFixture(ctx, w)
			if err != nil {
				t.Fatalf("LoadFixture failed: %v", err)
			}
			defer mod.Close(ctx)

			inputs := []int64{w.Min(), w.Min() + 1, -1}
			for i := int64(0); i <= w.ZeroPoint()+3; i++ {
				inputs = append(inputs, i)
			}
			if w <= factorial.W16 {
				inputs = append(inputs, w.Max())
			}
			for _, in := range inputs {
				got, err := mod.Call(ctx, in)
				if err != nil {
					t.Fatalf("Call(%d): %v", in, err)
				}
				if want := factorial.At(w, in); got != want {
					t.Errorf("Call(%d) = %d, reference %d", in, got, want)
				}
			}
		})
	}
}

func TestCallTruncatesArgument(t *testing.T) {
	ctx := context.Background()
	mod, err := newEngine(t, nil).LoadFixture(ctx, factorial.W8)
	if err != nil {
		t.Fatal(err)
	}
	defer mod.Close(ctx)

	// 261 truncates to 5 at 8 bits; 128 truncates to -128.
	for in, want := range map[int64]int64{261: 120, 128: 1, 6: -48} {
		got, err := mod.Call(ctx, in)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("Call(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestConcurrentCalls(t *testing.T) {
	ctx := context.Background()
	mod, err := newEngine(t, nil).LoadFixture(ctx, factorial.W64)
	if err != nil {
		t.Fatal(err)
	}
	defer mod.Close(ctx)

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(offset int64) {
			defer wg.Done()
			for i := offset; i < 70; i += 8 {
				got, err := mod.Call(ctx, i)
				if err != nil {
					errs <- err
					return
				}
				if got != factorial.LongLong(i) {
					errs <- errors.New("result disagrees with reference")
					return
				}
			}
		}(int64(g))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestLoadRejects(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t, nil)

	long, err := lower.Lower(factorial.W32)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("wrong_width", func(t *testing.T) {
		// factorialLong does not export factorialLongLong.
		_, err := eng.Load(ctx, long, factorial.W64)
		if !errors.Is(err, &ferrors.Error{Phase: ferrors.PhaseDecode, Kind: ferrors.KindNotFound}) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("wrong_signature", func(t *testing.T) {
		f, err := lower.Fixture(factorial.W32)
		if err != nil {
			t.Fatal(err)
		}
		m := f.Module()
		m.Types[0].Results = []wasm.ValType{wasm.ValI64}
		_, err = eng.Load(ctx, m.Encode(), factorial.W32)
		if !errors.Is(err, &ferrors.Error{Phase: ferrors.PhaseDecode, Kind: ferrors.KindInvalidData}) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := eng.Load(ctx, []byte("not wasm"), factorial.W32)
		if !errors.Is(err, wasm.ErrInvalidMagic) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("invalid_body", func(t *testing.T) {
		f, err := lower.Fixture(factorial.W32)
		if err != nil {
			t.Fatal(err)
		}
		m := f.Module()
		// Drop the final local.get: the body no longer leaves a result.
		m.Code[0].Code = wasm.AppendExpr(nil, append(f.Body[:len(f.Body)-2:len(f.Body)-2], wasm.Instr{Op: wasm.OpEnd}))
		_, err = eng.Load(ctx, m.Encode(), factorial.W32)
		if !errors.Is(err, &ferrors.Error{Phase: ferrors.PhaseLoad, Kind: ferrors.KindInvalidData}) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("unsupported_width", func(t *testing.T) {
		_, err := eng.LoadFixture(ctx, factorial.Width(24))
		if !errors.Is(err, &ferrors.Error{Phase: ferrors.PhaseLower, Kind: ferrors.KindUnsupported}) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestCallHonorsContext(t *testing.T) {
	mod, err := newEngine(t, nil).LoadFixture(context.Background(), factorial.W64)
	if err != nil {
		t.Fatal(err)
	}
	defer mod.Close(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// MaxInt64 iterations cannot finish before the deadline.
	_, err = mod.Call(ctx, math.MaxInt64)
	if !errors.Is(err, &ferrors.Error{Phase: ferrors.PhaseRuntime, Kind: ferrors.KindTrap}) {
		t.Errorf("expected trap on cancelled call, got %v", err)
	}
}

func BenchmarkCall(b *testing.B) {
	ctx := context.Background()
	eng, err := New(ctx, nil)
	if err != nil {
		b.Fatal(err)
	}
	defer eng.Close(ctx)

	mod, err := eng.LoadFixture(ctx, factorial.W32)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := mod.Call(ctx, 12); err != nil {
			b.Fatal(err)
		}
	}
}
