package core

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Codes carried by CLIError.Code.
const (
	ErrParse         = "ERR_PARSE"
	ErrIO            = "ERR_IO"
	ErrInvalidConfig = "ERR_INVALID_CONFIG"
	ErrUnknownRule   = "ERR_UNKNOWN_RULE"
)

// CLIError is a uniform error payload for both human and JSON output.
// When printed with %s it returns Message; with %+v it returns JSON.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	inner   error
}

func (e CLIError) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

func (e CLIError) Unwrap() error {
	return e.inner
}

func (e CLIError) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// Wrap helper generates CLIError with code and wraps inner error for detail.
func Wrap(code, msg string, inner error) error {
	e := CLIError{Code: code, Message: msg, inner: inner}
	if inner != nil {
		e.Detail = inner.Error()
	}
	return e
}

// ParseError reports a file whose text could not be turned into a tree.
// Line and Column point at the first malformed construct (1-based, 0 when
// unknown).
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Snippet string
}

func (e *ParseError) Error() string {
	where := e.Path
	if where == "" {
		where = "<input>"
	}
	if e.Line > 0 {
		where = fmt.Sprintf("%s:%d:%d", where, e.Line, e.Column)
	}
	if e.Snippet != "" {
		return fmt.Sprintf("%s: syntax error near %q", where, e.Snippet)
	}
	return where + ": syntax error"
}

// IsParseError reports whether err carries a *ParseError.
func IsParseError(err error) bool {
	var perr *ParseError
	return errors.As(err, &perr)
}
