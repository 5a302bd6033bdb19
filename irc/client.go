// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/ergochat/minircd/irc/codec"
)

// ClientState is where a client is in registration. There is no way back
// from StateRegistered.
type ClientState uint

const (
	// StateUnregistered is the initial state: no nick yet.
	StateUnregistered ClientState = iota
	// StateRegistered is entered by a successful NICK.
	StateRegistered
)

func (state ClientState) String() string {
	switch state {
	case StateUnregistered:
		return "unregistered"
	case StateRegistered:
		return "registered"
	default:
		return fmt.Sprintf("ClientState(%d)", uint(state))
	}
}

// Client is a single connection to the server.
type Client struct {
	server  *Server
	socket  *Socket
	input   lineBuffer
	fakelag Fakelag
	remote  string

	// the rest is guarded by the server's step lock
	nick      string
	state     ClientState
	destroyed bool
}

// RunClient serves a freshly accepted connection until it goes away.
func (server *Server) RunClient(conn IRCConn) {
	client := server.newClient(conn)
	if client == nil {
		server.logger.Debug("connect", "refusing connection during shutdown")
		return
	}
	server.logger.Info("connect", fmt.Sprintf("Client connecting from %s", client.remote))
	client.run()
}

// newClient returns nil, having closed conn, if the server is shutting down.
func (server *Server) newClient(conn IRCConn) *Client {
	config := server.Config()
	client := &Client{
		server: server,
		socket: NewSocket(conn, config.Server.MaxSendQBytes),
		input:  lineBuffer{limit: config.Limits.ReadQBytes},
		remote: "<unknown>",
	}
	if addr := conn.RemoteAddr(); addr != nil {
		client.remote = addr.String()
	}
	client.fakelag.Initialize(config.Fakelag)
	if !server.addClient(client) {
		conn.Close()
		return nil
	}
	return client
}

func (client *Client) run() {
	defer func() {
		if r := recover(); r != nil {
			client.server.logger.Error("internal",
				fmt.Sprintf("Client caused panic: %v\n%s", r, debug.Stack()))
		}
		// ensure client connection gets closed
		client.destroy()
	}()

	chunk := make([]byte, readChunkSize)
	for {
		n, err := client.socket.conn.Read(chunk)
		if 0 < n {
			exiting, feedErr := client.feed(chunk[:n])
			if exiting {
				return
			} else if feedErr != nil {
				client.server.logger.Info("quit", client.remote, feedErr.Error())
				return
			}
		}
		if err != nil {
			client.server.logger.Debug("quit", client.remote, "connection closed", err.Error())
			return
		}
	}
}

// feed frames chunk into lines and handles each of them in order.
// It reports whether the connection must close; a framing failure
// (errReadQ) is returned after the lines preceding it have been handled.
func (client *Client) feed(chunk []byte) (exiting bool, err error) {
	lines, err := client.input.Push(chunk)
	for _, line := range lines {
		client.fakelag.Touch()
		if exiting, _ = client.handleLine(line); exiting {
			return true, nil
		}
	}
	return false, err
}

// handleLine is one handling step. A *codec.ParseError or *CommandError
// means the line was dropped and the connection carries on; exiting means
// the connection must close.
func (client *Client) handleLine(line string) (exiting bool, err error) {
	server := client.server
	if server.logger.IsLoggingRawIO() {
		server.logger.Debug("userinput", client.remote, "<- "+line)
	}

	msg, err := codec.Parse(line)
	if err != nil {
		server.logger.Debug("userinput", client.remote, "discarding line", err.Error())
		return false, err
	}

	server.stepMutex.Lock()
	defer server.stepMutex.Unlock()

	if client.destroyed {
		return true, nil
	}
	exiting, err = client.dispatch(msg)
	if err != nil {
		server.logger.Debug("commands", client.remote, err.Error())
	}
	return
}

// SendMessage encodes msg and queues it for this client.
func (client *Client) SendMessage(msg codec.Message) error {
	line, err := msg.LineBytes()
	if err != nil {
		client.server.logger.Error("internal", "couldn't serialize outgoing message", err.Error())
		return err
	}
	if client.server.logger.IsLoggingRawIO() {
		client.server.logger.Debug("useroutput", client.remote, "-> "+strings.TrimSuffix(string(line), "\r\n"))
	}
	err = client.socket.Write(line)
	if err == errSendQExceeded {
		client.server.logger.Info("quit", client.remote, err.Error())
	}
	return err
}

// Send sends an IRC line to the client.
func (client *Client) Send(prefix string, command string, params ...string) error {
	return client.SendMessage(codec.MakeMessage(prefix, command, params...))
}

// cleanup removes the client from every channel it belongs to, announcing
// a PART to the members that remain. Callers hold the step lock; only the
// first call has any effect.
func (client *Client) cleanup() {
	if client.destroyed {
		return
	}
	client.destroyed = true

	server := client.server
	for _, channel := range server.channels.ChannelsOf(client) {
		channel.Broadcast(codec.MakeMessage(client.nick, "PART", channel.Name()), client)
		if deleted, _ := server.channels.Part(client, channel.Name()); deleted {
			server.logger.Debug("channels", "deleted empty channel", channel.Name())
		}
	}
}

// destroy runs the cleanup step, then releases the transport.
func (client *Client) destroy() {
	server := client.server

	server.stepMutex.Lock()
	nick := client.nick
	client.cleanup()
	server.stepMutex.Unlock()

	client.socket.Close()
	server.removeClient(client)

	if nick == "" {
		nick = "*"
	}
	server.logger.Info("quit", fmt.Sprintf("%s (%s) disconnected", nick, client.remote))
}
