// Copyright (c) 2026 The Minircd Contributors
// released under the MIT license

package codec

import (
	"errors"
	"fmt"

	"github.com/ergochat/irc-go/ircmsg"
)

var (
	ErrPrefixInvalid   = errors.New("prefix cannot contain spaces or line breaks")
	ErrCommandMissing  = ircmsg.ErrorCommandMissing
	ErrCommandInvalid  = errors.New("command cannot contain spaces or line breaks, or begin with ':'")
	ErrBadParam        = ircmsg.ErrorBadParam
	ErrTrailingInvalid = errors.New("final parameter cannot contain line breaks")
)

// ParseError is returned when a line does not match the message grammar.
// The line is discarded; it never affects the connection it arrived on.
type ParseError struct {
	Line string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed line %q: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError is returned when a message cannot be serialized because
// one of its fields breaks the grammar.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
