package query

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrSyntax     ErrorKind = "syntax"
	ErrConstraint ErrorKind = "constraint"
)

// Error is a positioned parse failure. Start and End are token indexes;
// StartToken and EndToken are set when the indexes fall inside the input.
type Error struct {
	Kind       ErrorKind
	Message    string
	Field      string
	Start      int
	End        int
	StartToken *Token
	EndToken   *Token
	Cause      error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	base := fmt.Sprintf("%s error at token #%d: %s", e.Kind, e.Start, e.Message)
	if e.Field != "" {
		base = fmt.Sprintf("%s (field=%s)", base, e.Field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Offsets returns the source byte range covered by the error.
func (e *Error) Offsets() (start, end int, ok bool) {
	if e.StartToken == nil || e.EndToken == nil {
		return 0, 0, false
	}
	return e.StartToken.Index, e.EndToken.End(), true
}

// AsError extracts a *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func IsKind(err error, kind ErrorKind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == kind
}

func IsSyntax(err error) bool { return IsKind(err, ErrSyntax) }

func IsConstraint(err error) bool { return IsKind(err, ErrConstraint) }

func newError(kind ErrorKind, tokens []Token, start, end int, msg string) *Error {
	if end < start {
		end = start
	}
	e := &Error{Kind: kind, Message: msg, Start: start, End: end}
	if start >= 0 && start < len(tokens) {
		t := tokens[start]
		e.StartToken = &t
	}
	if end >= 0 && end < len(tokens) {
		t := tokens[end]
		e.EndToken = &t
	}
	return e
}
