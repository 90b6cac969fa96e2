package cliutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nonibytes/wizardql/pkg/wizardql/query"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // the filter was rejected
	ExitCommandError = 2 // bad flags, unreadable files, unreachable database
)

// Error codes carried in the JSON envelope.
const (
	CodeSyntax     = "syntax"
	CodeConstraint = "constraint"
	CodeUsage      = "usage"
	CodeInput      = "input"
	CodeBackend    = "backend"
)

// ExitError is returned by commands that already reported the failure.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Errors that are not
// ExitErrors come from flag or argument parsing.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // text errors and verbose logs; defaults to Writer
	Verbose   bool
}

// Response is the JSON envelope written in json mode.
type Response struct {
	Status string         `json:"status"` // "ok" or "error"
	Data   any            `json:"data,omitempty"`
	Error  *ResponseError `json:"error,omitempty"`
}

type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (f *OutputFormatter) JSON() bool { return f.Format == "json" }

// Success writes text in text mode and data wrapped in the envelope in json
// mode.
func (f *OutputFormatter) Success(text string, data any) error {
	if f.JSON() {
		return json.NewEncoder(f.Writer).Encode(Response{Status: "ok", Data: data})
	}
	if text == "" {
		return nil
	}
	_, err := fmt.Fprintln(f.Writer, strings.TrimRight(text, "\n"))
	return err
}

// Error writes an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.JSON() {
		return json.NewEncoder(f.Writer).Encode(Response{
			Status: "error",
			Error:  &ResponseError{Code: code, Message: message, Details: details},
		})
	}
	w := f.errWriter()
	fmt.Fprintf(w, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(w, "Details: %v\n", details)
	}
	return nil
}

func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.errWriter(), format+"\n", args...)
}

func (f *OutputFormatter) errWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// Fail reports err and returns the ExitError the command should return.
func (f *OutputFormatter) Fail(exitCode int, code string, err error) error {
	_ = f.Error(code, err.Error(), nil)
	return WrapExitError(exitCode, code, err)
}

// QueryErrorDetails describes where a parse failure happened.
type QueryErrorDetails struct {
	Kind   query.ErrorKind `json:"kind"`
	Field  string          `json:"field,omitempty"`
	Token  int             `json:"token"`
	End    int             `json:"end_token"`
	Offset *[2]int         `json:"offset,omitempty"`
}

// FailQuery reports a syntax or constraint error with its token span. In text
// mode the offending part of text is underlined.
func (f *OutputFormatter) FailQuery(text string, err error) error {
	perr, ok := query.AsError(err)
	if !ok {
		return f.Fail(ExitCommandError, CodeInput, err)
	}
	code := CodeSyntax
	if perr.Kind == query.ErrConstraint {
		code = CodeConstraint
	}
	details := QueryErrorDetails{Kind: perr.Kind, Field: perr.Field, Token: perr.Start, End: perr.End}
	start, end, hasOffsets := perr.Offsets()
	if hasOffsets {
		details.Offset = &[2]int{start, end}
	}

	if f.JSON() {
		_ = f.Error(code, perr.Message, details)
	} else {
		_ = f.Error(code, perr.Message, nil)
		if hasOffsets {
			fmt.Fprint(f.errWriter(), Underline(text, start, end))
		}
	}
	return WrapExitError(ExitFailure, code, err)
}

// Underline renders text with carets under the bytes [start, end).
func Underline(text string, start, end int) string {
	if start < 0 || start > len(text) {
		return ""
	}
	if end <= start {
		end = start + 1
	}
	if end > len(text)+1 {
		end = len(text) + 1
	}
	return "  " + text + "\n  " + strings.Repeat(" ", start) + strings.Repeat("^", end-start) + "\n"
}
