// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"github.com/ergochat/minircd/irc/codec"
)

// Command represents a command accepted from a client.
type Command struct {
	handler   func(server *Server, client *Client, msg codec.Message, rb *ResponseBuffer) (exiting bool, err error)
	minParams int
	maxParams int // -1 for no maximum
}

// Run runs this command with the given client/message. Replies are only
// sent if the handler succeeds.
func (cmd *Command) Run(server *Server, client *Client, msg codec.Message) (exiting bool, err error) {
	if len(msg.Params) < cmd.minParams {
		return false, errNeedMoreParams
	}
	if 0 <= cmd.maxParams && cmd.maxParams < len(msg.Params) {
		return false, errTooManyParams
	}

	rb := NewResponseBuffer(client)
	exiting, err = cmd.handler(server, client, msg, rb)
	if err != nil {
		return false, err
	}
	rb.Send()
	return exiting, nil
}

// Commands holds, for each client state, the commands usable in it.
// Anything missing from the current state's table is dropped unanswered.
var Commands map[ClientState]map[string]Command

func init() {
	ping := Command{
		handler:   pingHandler,
		maxParams: -1,
	}
	quit := Command{
		handler:   quitHandler,
		maxParams: 1,
	}

	Commands = map[ClientState]map[string]Command{
		StateUnregistered: {
			"NICK": {
				handler:   nickHandler,
				minParams: 1,
				maxParams: 1,
			},
			"PING": ping,
			"QUIT": quit,
		},
		StateRegistered: {
			"JOIN": {
				handler:   joinHandler,
				minParams: 1,
				maxParams: 2,
			},
			"PART": {
				handler:   partHandler,
				minParams: 1,
				maxParams: 2,
			},
			"PING": ping,
			"PRIVMSG": {
				handler:   privmsgHandler,
				minParams: 2,
				maxParams: 2,
			},
			"QUIT": quit,
		},
	}
}

// lookupCommand finds the command for the given state, explaining why when
// there is none.
func lookupCommand(state ClientState, command string) (Command, error) {
	if cmd, ok := Commands[state][command]; ok {
		return cmd, nil
	}
	for otherState, table := range Commands {
		if _, ok := table[command]; ok && otherState != state {
			if state == StateUnregistered {
				return Command{}, errNotRegistered
			}
			return Command{}, errAlreadyRegistered
		}
	}
	return Command{}, errUnknownCommand
}

// dispatch runs msg against the client's current state. Callers hold the step lock.
func (client *Client) dispatch(msg codec.Message) (exiting bool, err error) {
	cmd, err := lookupCommand(client.state, msg.Command)
	if err == nil {
		exiting, err = cmd.Run(client.server, client, msg)
	}
	if err != nil {
		return false, &CommandError{Command: msg.Command, Err: err}
	}
	return exiting, nil
}
