package conformance

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/wippyai/wasm-factorial/engine"
	"github.com/wippyai/wasm-factorial/factorial"
)

func TestCompiledMatchesReferenceProperties(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t)

	mods := make(map[factorial.Width]*engine.Module)
	for _, w := range factorial.Widths {
		mod, err := eng.LoadFixture(ctx, w)
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = mod.Close(ctx) })
		mods[w] = mod
	}

	agrees := func(w factorial.Width, i int64) bool {
		got, err := mods[w].Call(ctx, i)
		return err == nil && got == factorial.At(w, i)
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("factorialChar agrees on every int8", prop.ForAll(
		func(i int8) bool { return agrees(factorial.W8, int64(i)) },
		gen.Int8(),
	))

	properties.Property("factorialShort agrees", prop.ForAll(
		func(i int16) bool { return agrees(factorial.W16, int64(i)) },
		gen.Int16Range(-512, 4096),
	))

	properties.Property("factorialLong agrees", prop.ForAll(
		func(i int32) bool { return agrees(factorial.W32, int64(i)) },
		gen.Int32Range(-4096, 4096),
	))

	properties.Property("factorialLongLong agrees", prop.ForAll(
		func(i int64) bool { return agrees(factorial.W64, i) },
		gen.Int64Range(-4096, 4096),
	))

	properties.Property("out-of-range arguments are truncated first", prop.ForAll(
		func(i int64) bool { return agrees(factorial.W8, i) && agrees(factorial.W16, i) },
		gen.Int64Range(-1<<20, 1<<20),
	))

	properties.TestingRun(t)
}
