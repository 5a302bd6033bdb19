// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2018 Daniel Oaks <daniel@danieloaks.net>
// Copyright (c) 2017-2018 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package irc

import (
	"fmt"
	"strings"

	"github.com/ergochat/minircd/irc/codec"
)

// isValidName checks the shared nick/channel grammar: a single
// non-empty token, not starting with ':' and, if maxLen is set, no
// longer than maxLen.
func isValidName(name string, maxLen int) bool {
	if name == "" || name[0] == ':' || strings.IndexByte(name, ' ') != -1 {
		return false
	}
	return maxLen == 0 || len(name) <= maxLen
}

// NICK <nickname>
func nickHandler(server *Server, client *Client, msg codec.Message, rb *ResponseBuffer) (bool, error) {
	nick := msg.Params[0]
	if !isValidName(nick, server.Config().Limits.NickLen) {
		return false, errInvalidNick
	}

	client.nick = nick
	client.state = StateRegistered
	server.logger.Info("connect", fmt.Sprintf("Client registered [%s] [%s]", nick, client.remote))

	welcome := codec.MakeMessage(server.name, RPL_WELCOME, nick, welcomeText)
	welcome.ForceTrailing()
	rb.AddMessage(welcome)
	rb.Add(server.name, RPL_ENDOFMOTD, nick, "")
	return false, nil
}

// JOIN <channel> [<key>]
func joinHandler(server *Server, client *Client, msg codec.Message, rb *ResponseBuffer) (bool, error) {
	name := msg.Params[0]
	if !isValidName(name, server.Config().Limits.ChannelLen) {
		return false, errInvalidChannelName
	}

	channel, created, err := server.channels.Join(client, name)
	if err != nil {
		return false, err
	}
	if created {
		server.logger.Debug("channels", "created", name)
	}

	// the joiner is already a member, so it gets its own JOIN here,
	// ahead of the names list
	channel.Broadcast(codec.MakeMessage(client.nick, "JOIN", name), nil)
	for _, nick := range channel.Nicks() {
		rb.Add(server.name, RPL_NAMREPLY, client.nick, "=", name, nick)
	}
	rb.Add(server.name, RPL_ENDOFNAMES, client.nick, name, "")
	return false, nil
}

// PART <channel> [<reason>]
func partHandler(server *Server, client *Client, msg codec.Message, rb *ResponseBuffer) (bool, error) {
	name := msg.Params[0]
	channel := server.channels.Get(name)
	if channel == nil {
		return false, errNoSuchChannel
	}
	if !channel.HasMember(client) {
		return false, errNotOnChannel
	}

	channel.Broadcast(codec.MakeMessage(client.nick, "PART", name), nil)
	deleted, err := server.channels.Part(client, name)
	if err != nil {
		return false, err
	}
	if deleted {
		server.logger.Debug("channels", "deleted empty channel", name)
	}
	return false, nil
}

// PRIVMSG <channel> <text>
func privmsgHandler(server *Server, client *Client, msg codec.Message, rb *ResponseBuffer) (bool, error) {
	name, text := msg.Params[0], msg.Params[1]
	channel := server.channels.Get(name)
	if channel == nil {
		return false, errNoSuchChannel
	}
	if !channel.HasMember(client) {
		return false, errNotOnChannel
	}

	relay := codec.MakeMessage(client.nick, "PRIVMSG", name, text)
	relay.ForceTrailing()
	channel.Broadcast(relay, client)
	return false, nil
}

// PING [<token> ...]
func pingHandler(server *Server, client *Client, msg codec.Message, rb *ResponseBuffer) (bool, error) {
	params := make([]string, 0, len(msg.Params)+1)
	params = append(params, server.name)
	params = append(params, msg.Params...)
	rb.Add(server.name, "PONG", params...)
	return false, nil
}

// QUIT [<reason>]
func quitHandler(server *Server, client *Client, msg codec.Message, rb *ResponseBuffer) (bool, error) {
	client.cleanup()
	return true, nil
}
