package contract

import (
	"errors"
	"fmt"
)

// Parse failure kinds. Match with errors.Is against a *ParseError.
var (
	ErrMissingName   = errors.New("could not parse function name")
	ErrMissingParams = errors.New("could not parse parameters")
	ErrInvalidJSON   = errors.New("invalid JSON")
	ErrNotAFunction  = errors.New("ABI must be a function type")
)

// ParseError reports malformed descriptor text. Msg is the user-facing hint.
type ParseError struct {
	Kind error
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return e.Msg
}

func (e *ParseError) Unwrap() error { return e.Kind }

func parseErr(kind error, msg string) *ParseError {
	return &ParseError{Kind: kind, Msg: msg}
}

// CoercionError reports an argument string that cannot be converted to its
// declared type.
type CoercionError struct {
	Param string
	Type  TypeTag
	Value string
}

func (e *CoercionError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("cannot convert %q to %s", e.Value, e.Type)
	}
	return fmt.Sprintf("cannot convert %q to %s for %s", e.Value, e.Type, e.Param)
}
