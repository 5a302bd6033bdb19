// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"errors"
	"fmt"
)

// Command rejections; none of these is ever reported to the client
var (
	errAlreadyRegistered  = errors.New("You may not reregister")
	errNotRegistered      = errors.New("You need to register before you can use that command")
	errUnknownCommand     = errors.New("Unknown command")
	errNeedMoreParams     = errors.New("Not enough parameters")
	errTooManyParams      = errors.New("Too many parameters")
	errInvalidNick        = errors.New("Erroneous nickname")
	errInvalidChannelName = errors.New("Invalid channel name")
	errNicknameInUse      = errors.New("Nickname is already in use on that channel")
	errNoSuchChannel      = errors.New("No such channel")
	errNotOnChannel       = errors.New("You're not on that channel")
)

// Socket Errors
var (
	errReadQ         = errors.New("ReadQ Exceeded")
	errSendQExceeded = errors.New("SendQ Exceeded")
	errSocketClosed  = errors.New("Socket closed")
)

// Config Errors
var (
	ErrInvalidMaxSendQ       = errors.New("Could not parse max-sendq")
	ErrInvalidReadQ          = errors.New("Could not parse limits.readq")
	ErrInvalidPort           = errors.New("Port must be a number between 1 and 65535")
	ErrInvalidFakelag        = errors.New("Fakelag requires a positive window, messages-per-window and burst-limit")
	ErrLimitsAreInsane       = errors.New("Limits aren't setup properly, check them and make them sane")
	ErrLoggerFilenameMissing = errors.New("Logging configuration specifies 'file' method but 'filename' is empty")
	ErrNoListenersDefined    = errors.New("Server listening addresses missing")
	ErrServerNameNotHostname = errors.New("Server name must match the format of a hostname")
)

// CommandError reports a command that was rejected as a whole: a
// precondition failed, so nothing was mutated and nothing was sent.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s rejected: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
