package parser

import "fmt"

// ParseError reports why a token sequence does not belong to the grammar.
// The parser never partially applies effects: on error the returned tree
// is discarded by the caller.
type ParseError struct {
	Reason string
	Line   int
	Column int
}

func (e *ParseError) Error() string {
	if e.Line == 0 && e.Column == 0 {
		return fmt.Sprintf("parse error: %s", e.Reason)
	}
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Reason)
}

func newParseError(reason string, args ...interface{}) *ParseError {
	return &ParseError{Reason: fmt.Sprintf(reason, args...)}
}
