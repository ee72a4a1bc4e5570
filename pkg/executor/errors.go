package executor

import "fmt"

// RuntimeError is a failure surfaced while executing a parsed statement:
// unknown table, arity mismatch, PK violation, type error in a predicate,
// and so on. The driver prints it prefixed with "Runtime error:" — the
// reference engine's runtime_error() convention (spec.md §7).
type RuntimeError struct {
	Reason string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("Runtime error: %s", e.Reason)
}

func runtimeErrorf(format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Reason: fmt.Sprintf(format, args...)}
}

// TypeError is a RuntimeError specialization for predicate type mismatches
// (spec.md §4.5) — kept as a distinct Go type so callers can type-switch,
// but it still renders with the same "Runtime error:" prefix.
type TypeError struct {
	Reason string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("Runtime error: %s", e.Reason)
}

func typeErrorf(format string, args ...interface{}) *TypeError {
	return &TypeError{Reason: fmt.Sprintf(format, args...)}
}
