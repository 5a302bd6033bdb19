// Copyright (c) 2026 The Minircd Contributors
// released under the MIT license

// Package codec converts between raw IRC lines and structured messages.
// It is stateless; line framing happens before Parse and after Build.
package codec

import (
	"strings"

	"github.com/ergochat/irc-go/ircmsg"
)

// Message is a single IRC message: an optional prefix, a command, and its
// parameters. Only the final parameter may be empty or contain spaces.
type Message struct {
	Prefix  string
	Command string
	Params  []string

	forceTrailing bool
}

// MakeMessage is a convenience for building a Message.
func MakeMessage(prefix, command string, params ...string) Message {
	return Message{
		Prefix:  prefix,
		Command: command,
		Params:  params,
	}
}

// ForceTrailing makes the final parameter serialize with a leading ':'
// even when the grammar doesn't require one. Used for human-readable text.
func (msg *Message) ForceTrailing() {
	msg.forceTrailing = true
}

// Parse parses a single line into a Message. A trailing "\r\n" is tolerated.
// The command is kept exactly as sent, and a leading '@' is part of the
// command rather than a tag section.
func Parse(line string) (msg Message, err error) {
	body := strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
	raw := body
	if strings.HasPrefix(body, "@") {
		// an empty source keeps ircmsg from reading the '@' as tags
		raw = ": " + body
	}
	parsed, err := ircmsg.ParseLine(raw)
	if err != nil {
		return msg, &ParseError{Line: line, Err: err}
	}
	msg.Prefix = parsed.Source
	msg.Command = commandToken(body)
	msg.Params = parsed.Params
	return msg, nil
}

// commandToken slices the command out of a line that ircmsg accepted;
// ircmsg itself upper-cases it.
func commandToken(line string) string {
	if strings.HasPrefix(line, ":") {
		line = line[strings.IndexByte(line, ' ')+1:]
	}
	line = strings.TrimLeft(line, " ")
	if end := strings.IndexByte(line, ' '); end != -1 {
		line = line[:end]
	}
	return line
}

// Build serializes a message, including the terminating "\r\n".
func Build(prefix, command string, params ...string) ([]byte, error) {
	msg := MakeMessage(prefix, command, params...)
	return msg.LineBytes()
}

// Line returns the serialized message as a string.
func (msg *Message) Line() (string, error) {
	line, err := msg.LineBytes()
	if err != nil {
		return "", err
	}
	return string(line), nil
}

// LineBytes returns the serialized message, including the terminating "\r\n".
func (msg *Message) LineBytes() ([]byte, error) {
	if err := msg.validate(); err != nil {
		return nil, err
	}
	out := ircmsg.MakeMessage(nil, msg.Prefix, msg.Command, msg.Params...)
	if msg.forceTrailing {
		out.ForceTrailing()
	}
	line, err := out.LineBytes()
	if err != nil {
		return nil, &ValidationError{Field: "message", Value: msg.Command, Err: err}
	}
	return line, nil
}

func (msg *Message) validate() error {
	if strings.ContainsAny(msg.Prefix, " \r\n\x00") {
		return &ValidationError{Field: "prefix", Value: msg.Prefix, Err: ErrPrefixInvalid}
	}
	if msg.Command == "" {
		return &ValidationError{Field: "command", Err: ErrCommandMissing}
	}
	if strings.ContainsAny(msg.Command, " \r\n\x00") || msg.Command[0] == ':' {
		return &ValidationError{Field: "command", Value: msg.Command, Err: ErrCommandInvalid}
	}
	last := len(msg.Params) - 1
	for i, param := range msg.Params {
		if i == last {
			if strings.ContainsAny(param, "\r\n\x00") {
				return &ValidationError{Field: "trailing parameter", Value: param, Err: ErrTrailingInvalid}
			}
			break
		}
		if param == "" || param[0] == ':' || strings.ContainsAny(param, " \r\n\x00") {
			return &ValidationError{Field: "parameter", Value: param, Err: ErrBadParam}
		}
	}
	return nil
}
