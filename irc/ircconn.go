// Copyright (c) 2020 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package irc

import (
	"bytes"
	"net"
	"unicode/utf8"

	"github.com/gorilla/websocket"
)

var (
	crlf = []byte{'\r', '\n'}
)

// IRCConn abstracts away the distinction between a regular
// net.Conn (which includes both raw TCP and TLS) and a websocket.
// Read yields raw inbound bytes; framing into lines is the Client's job.
type IRCConn interface {
	Read(p []byte) (n int, err error)
	WriteBuffers([][]byte) error
	Close() error
	RemoteAddr() net.Addr
}

// IRCStreamConn is an IRCConn over a regular stream connection.
type IRCStreamConn struct {
	conn net.Conn
}

func NewIRCStreamConn(conn net.Conn) *IRCStreamConn {
	return &IRCStreamConn{
		conn: conn,
	}
}

func (cc *IRCStreamConn) Read(p []byte) (n int, err error) {
	return cc.conn.Read(p)
}

func (cc *IRCStreamConn) WriteBuffers(buffers [][]byte) (err error) {
	// on Linux, with a plaintext TCP or Unix domain socket,
	// the Go runtime will optimize this into a single writev(2) call:
	_, err = (*net.Buffers)(&buffers).WriteTo(cc.conn)
	return
}

func (cc *IRCStreamConn) Close() (err error) {
	return cc.conn.Close()
}

func (cc *IRCStreamConn) RemoteAddr() net.Addr {
	return cc.conn.RemoteAddr()
}

// IRCWSConn is an IRCConn over a websocket. Each text frame carries one line.
type IRCWSConn struct {
	conn    *websocket.Conn
	pending []byte
}

func NewIRCWSConn(conn *websocket.Conn) *IRCWSConn {
	return &IRCWSConn{conn: conn}
}

// Read returns the next frame's contents with "\r\n" appended, so that
// websocket clients go through the same framing as stream clients.
func (wc *IRCWSConn) Read(p []byte) (n int, err error) {
	for len(wc.pending) == 0 {
		var messageType int
		var data []byte
		messageType, data, err = wc.conn.ReadMessage()
		if err != nil {
			return 0, err
		}
		// on empty message or non-text message, try again, block if necessary
		if messageType != websocket.TextMessage || len(data) == 0 {
			continue
		}
		data = bytes.TrimSuffix(data, crlf)
		wc.pending = append(data, crlf...)
	}
	n = copy(p, wc.pending)
	wc.pending = wc.pending[n:]
	return n, nil
}

func (wc *IRCWSConn) WriteBuffers(buffers [][]byte) (err error) {
	for _, buf := range buffers {
		buf = bytes.TrimSuffix(buf, crlf)
		// there's not much we can do about this;
		// silently drop the message
		if !utf8.Valid(buf) {
			continue
		}
		if err = wc.conn.WriteMessage(websocket.TextMessage, buf); err != nil {
			return
		}
	}
	return
}

func (wc *IRCWSConn) Close() (err error) {
	return wc.conn.Close()
}

func (wc *IRCWSConn) RemoteAddr() net.Addr {
	return wc.conn.RemoteAddr()
}
