// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"github.com/ergochat/minircd/irc/codec"
)

// ResponseBuffer - put simply - buffers messages and then outputs them to a given client.
//
// Handlers add their replies to the issuing client here and the dispatcher
// flushes them when the handler succeeds, so a rejected command sends nothing.
type ResponseBuffer struct {
	target   *Client
	messages []codec.Message
}

// NewResponseBuffer returns a new ResponseBuffer.
func NewResponseBuffer(target *Client) *ResponseBuffer {
	return &ResponseBuffer{
		target: target,
	}
}

// Add adds a standard new message to our queue.
func (rb *ResponseBuffer) Add(prefix string, command string, params ...string) {
	rb.messages = append(rb.messages, codec.MakeMessage(prefix, command, params...))
}

// AddMessage adds an already assembled message to our queue.
func (rb *ResponseBuffer) AddMessage(msg codec.Message) {
	rb.messages = append(rb.messages, msg)
}

// Send sends the queued messages to the target client, in order.
func (rb *ResponseBuffer) Send() (err error) {
	for _, message := range rb.messages {
		if sendErr := rb.target.SendMessage(message); sendErr != nil && err == nil {
			err = sendErr
		}
	}
	rb.messages = nil
	return
}
