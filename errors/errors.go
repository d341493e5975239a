package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLower   Phase = "lower"   // fixture IR construction
	PhaseDecode  Phase = "decode"  // wasm binary parsing
	PhaseLoad    Phase = "load"    // module compilation
	PhaseRuntime Phase = "runtime" // instantiation and calls
	PhaseVerify  Phase = "verify"  // reference comparison
	PhaseConfig  Phase = "config"  // flags and environment
)

// Kind categorizes the error
type Kind string

const (
	KindUnsupported   Kind = "unsupported"
	KindInvalidData   Kind = "invalid_data"
	KindInvalidInput  Kind = "invalid_input"
	KindNotFound      Kind = "not_found"
	KindInstantiation Kind = "instantiation"
	KindMismatch      Kind = "mismatch"
	KindTrap          Kind = "trap"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Export string
	Width  string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Export != "" {
		b.WriteString(" at ")
		b.WriteString(e.Export)
	}

	if e.Width != "" {
		b.WriteString(": width ")
		b.WriteString(e.Width)
	}

	if e.Detail != "" {
		if e.Width != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Export sets the export name the error relates to
func (b *Builder) Export(name string) *Builder {
	b.err.Export = name
	return b
}

// Width sets the accumulator width
func (b *Builder) Width(w fmt.Stringer) *Builder {
	b.err.Width = w.String()
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// UnsupportedWidth creates an error for a width the toolchain cannot lower
func UnsupportedWidth(phase Phase, w fmt.Stringer) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Width:  w.String(),
		Detail: "no lowering for this accumulator width",
		Value:  w,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Export: name,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Instantiation creates an instantiation error
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindInstantiation,
		Detail: "instantiate module",
		Cause:  cause,
	}
}

// Trap creates an error for a call that did not return normally
func Trap(export string, input int64, cause error) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindTrap,
		Export: export,
		Detail: fmt.Sprintf("call with %d", input),
		Value:  input,
		Cause:  cause,
	}
}

// Load creates a module loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Mismatch is one input on which the compiled fixture disagreed with the
// reference
type Mismatch struct {
	Input int64
	Want  int64
	Got   int64
}

// MismatchError is returned when a conformance run finds disagreements
type MismatchError struct {
	Export     string
	Width      string
	Mismatches []Mismatch
}

func (e *MismatchError) Error() string {
	if len(e.Mismatches) == 0 {
		return "[verify] mismatch: no inputs specified"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) disagreed with the reference on %d input(s):", e.Export, e.Width, len(e.Mismatches))
	for _, m := range e.Mismatches {
		fmt.Fprintf(&b, "\n  %d: want %d (%s), got %d (%s)", m.Input, m.Want, hex(m.Want), m.Got, hex(m.Got))
	}
	return b.String()
}

// Is reports whether target matches this error type, or is the generic
// verify/mismatch Error
func (e *MismatchError) Is(target error) bool {
	switch t := target.(type) {
	case *MismatchError:
		return true
	case *Error:
		return t.Phase == PhaseVerify && t.Kind == KindMismatch
	}
	return false
}

func hex(v int64) string {
	return fmt.Sprintf("0x%016x", uint64(v))
}
