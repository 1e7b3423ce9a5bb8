package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which stage of the import pipeline the error occurred in.
type Phase string

const (
	PhaseResolve     Phase = "resolve"     // specifier to canonical key
	PhaseInstantiate Phase = "instantiate" // key to declared module shape
	PhaseLink        Phase = "link"        // dependency wiring
	PhaseEvaluate    Phase = "evaluate"    // module body execution
	PhaseRegistry    Phase = "registry"    // record bookkeeping
)

// Kind categorizes the error.
type Kind string

const (
	KindResolution      Kind = "resolution"       // no canonical key for a specifier
	KindNoInstantiation Kind = "no_instantiation" // adapter returned nothing usable
	KindLoad            Kind = "load"             // underlying fetch/parse failure
	KindEvaluation      Kind = "evaluation"       // module body threw
	KindNotFound        Kind = "not_found"        // missing key or definition
	KindConflict        Kind = "conflict"         // duplicate key or definition
)

// Frame operations, innermost first in a load stack.
const (
	OpResolving  = "Resolving"
	OpLoading    = "Loading"
	OpEvaluating = "Evaluating"
)

// Frame is one entry of the load stack attached to a propagated failure.
type Frame struct {
	Op   string // OpResolving, OpLoading or OpEvaluating
	Name string // specifier or module key
}

func (f Frame) String() string {
	return f.Op + " " + f.Name
}

// Error is the structured error type used throughout the engine.
type Error struct {
	Phase  Phase
	Kind   Kind
	Detail string
	Cause  error
	Frames []Frame // load stack, innermost first
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	for _, f := range e.Frames {
		b.WriteString("\n  ")
		b.WriteString(f.String())
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by Phase and Kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// WithFrame returns err annotated with one more load-stack frame. A non-Error
// err is wrapped first. The original error is never mutated, so failures
// cached on a module record keep their stack as captured.
func WithFrame(err error, op, name string) error {
	if e, ok := err.(*Error); ok {
		clone := *e
		clone.Frames = make([]Frame, len(e.Frames), len(e.Frames)+1)
		copy(clone.Frames, e.Frames)
		clone.Frames = append(clone.Frames, Frame{Op: op, Name: name})
		return &clone
	}
	return &Error{
		Phase:  PhaseLink,
		Kind:   KindLoad,
		Cause:  err,
		Frames: []Frame{{Op: op, Name: name}},
	}
}

// Convenience constructors for the pipeline failure points

// Resolution creates a resolver failure for a specifier.
func Resolution(specifier string, cause error) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindResolution,
		Detail: fmt.Sprintf("cannot resolve %q", specifier),
		Cause:  cause,
		Frames: []Frame{{Op: OpResolving, Name: specifier}},
	}
}

// Instantiation creates an instantiator failure for a key. The cause is
// passed through unmodified apart from the stack annotation.
func Instantiation(key string, cause error) *Error {
	return &Error{
		Phase:  PhaseInstantiate,
		Kind:   KindLoad,
		Detail: fmt.Sprintf("instantiate %s", key),
		Cause:  cause,
		Frames: []Frame{{Op: OpLoading, Name: key}},
	}
}

// NoInstantiation is returned when an instantiator produced no usable module
// shape for a key.
func NoInstantiation(key string) *Error {
	return &Error{
		Phase:  PhaseInstantiate,
		Kind:   KindNoInstantiation,
		Detail: "No instantiation",
		Frames: []Frame{{Op: OpLoading, Name: key}},
	}
}

// Evaluation creates a module body failure for a key.
func Evaluation(key string, cause error) *Error {
	return &Error{
		Phase:  PhaseEvaluate,
		Kind:   KindEvaluation,
		Detail: fmt.Sprintf("evaluate %s", key),
		Cause:  cause,
		Frames: []Frame{{Op: OpEvaluating, Name: key}},
	}
}

// NotFound creates a not-found error.
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Conflict creates a duplicate-definition error.
func Conflict(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindConflict,
		Detail: fmt.Sprintf("%s %q already defined", what, name),
	}
}

// Load creates a lower-level fetch/parse failure.
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseInstantiate,
		Kind:   KindLoad,
		Detail: detail,
		Cause:  cause,
	}
}
