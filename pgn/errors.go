package pgn

import (
	"errors"
	"fmt"
)

// ErrInputTooLarge is returned when input exceeds the parse safety limits,
// either the byte limit or the variation nesting limit. It is wrapped with
// the offending measurement.
var ErrInputTooLarge = errors.New("pgn: input exceeds parse limits")

// A ParseError reports a malformed or illegal element of the input, naming
// the offending token and where it sits.
type ParseError struct {
	Message    string
	TokenType  TokenType
	TokenValue string
	Position   int   // index of the token in the token stream
	Offset     int   // byte offset of the token in the input
	Err        error // underlying cause, if any
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	msg := fmt.Sprintf("pgn: %s at offset %d", e.Message, e.Offset)
	if e.TokenValue != "" {
		msg += fmt.Sprintf(" near %q", e.TokenValue)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause, so errors.Is and errors.As reach
// through to oracle errors.
func (e *ParseError) Unwrap() error {
	return e.Err
}
