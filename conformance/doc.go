// Package conformance checks a compiled factorial fixture against the Go
// reference, input by input and bit for bit.
//
// A Suite names a width and the inputs to try. Run lowers the fixture,
// loads it into an engine, evaluates every input on both sides in parallel
// and returns a Report:
//
//	rep, err := conformance.Run(ctx, eng, conformance.DefaultSuite(factorial.W32))
//	if err != nil {
//	    return err // load or runtime failure
//	}
//	if err := rep.Err(); err != nil {
//	    return err // *errors.MismatchError
//	}
//
// Wraparound is expected, not a failure: past OverflowPoint the results are
// the low bits of the true factorial and stop growing monotonically. The
// Report lists those inputs through NonMonotonic.
package conformance
