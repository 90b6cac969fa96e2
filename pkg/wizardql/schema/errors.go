package schema

import "fmt"

// Error reports an unreadable or invalid constraints document.
type Error struct {
	File  string
	Field string
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Field != "" {
		msg = fmt.Sprintf("field %q: %s", e.Field, msg)
	}
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

func newError(field, msg string) *Error { return &Error{Field: field, Msg: msg} }

func wrap(msg string, cause error) *Error { return &Error{Msg: msg, Cause: cause} }
