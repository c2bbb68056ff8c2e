package quiz

import (
	"fmt"
	"strings"
)

// StreamError indicates the text stream for a document could not be produced.
// It is fatal to the load that encountered it: no question set is published.
type StreamError struct {
	Path string
	Err  error
}

func (e *StreamError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("text stream failure: %v", e.Err)
	}
	return fmt.Sprintf("text stream failure for %s: %v", e.Path, e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// NewStreamError wraps a provider failure for the given document path
func NewStreamError(path string, err error) *StreamError {
	return &StreamError{Path: path, Err: err}
}

// SyntaxError reports malformed tokens in a range-selection expression.
// Every offending token is collected before the call fails; no partial
// selection is ever returned alongside it.
type SyntaxError struct {
	Expr   string
	Tokens []string
}

func (e *SyntaxError) Error() string {
	if len(e.Tokens) == 0 {
		return fmt.Sprintf("invalid range expression %q", e.Expr)
	}
	return fmt.Sprintf("invalid range expression %q: bad token(s) %s",
		e.Expr, strings.Join(e.Tokens, ", "))
}
