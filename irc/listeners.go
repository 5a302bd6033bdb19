// Copyright (c) 2020 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package irc

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// IRCListener is an abstract wrapper for a listener (plain TCP or websocket).
// Server tracks these by listen address and stops them on shutdown.
type IRCListener interface {
	Stop() error
}

// NewListener creates a new listener according to the specifications in the config file
func NewListener(server *Server, addr string, config ListenerConfig) (result IRCListener, err error) {
	baseListener, err := net.Listen("tcp", addr)
	if err != nil {
		return
	}

	if config.WebSocket {
		return NewWSListener(server, addr, baseListener, config), nil
	} else {
		return NewNetListener(server, addr, baseListener), nil
	}
}

// NetListener is an IRCListener for a regular TCP socket
type NetListener struct {
	listener net.Listener
	server   *Server
	addr     string
}

func NewNetListener(server *Server, addr string, listener net.Listener) *NetListener {
	nl := NetListener{
		server:   server,
		listener: listener,
		addr:     addr,
	}
	go nl.serve()
	return &nl
}

func (nl *NetListener) Stop() error {
	return nl.listener.Close()
}

func (nl *NetListener) serve() {
	for {
		conn, err := nl.listener.Accept()

		if err == nil {
			// hand off the connection
			go nl.server.RunClient(NewIRCStreamConn(conn))
		} else if errors.Is(err, net.ErrClosed) {
			return
		} else {
			nl.server.logger.Error("listeners", "accept error", nl.addr, err.Error())
			// don't spin on persistent failures such as EMFILE
			time.Sleep(100 * time.Millisecond)
		}
	}
}

// WSListener is a listener for IRC-over-websockets (initially HTTP, then upgraded to a
// different application protocol that provides a message-based API)
type WSListener struct {
	listener   net.Listener
	httpServer *http.Server
	server     *Server
	addr       string
	config     ListenerConfig
}

func NewWSListener(server *Server, addr string, listener net.Listener, config ListenerConfig) (result *WSListener) {
	result = &WSListener{
		listener: listener,
		server:   server,
		addr:     addr,
		config:   config,
	}
	result.httpServer = &http.Server{
		Handler:      http.HandlerFunc(result.handle),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go result.httpServer.Serve(listener)
	return
}

func (wl *WSListener) Stop() error {
	return wl.httpServer.Close()
}

// checkOrigin allows any origin when none are configured.
func (wl *WSListener) checkOrigin(r *http.Request) bool {
	if len(wl.config.AllowedOrigins) == 0 {
		return true
	}
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if len(origin) == 0 {
		return false
	}
	for _, allowed := range wl.config.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

func (wl *WSListener) handle(w http.ResponseWriter, r *http.Request) {
	wsUpgrader := websocket.Upgrader{
		CheckOrigin:  wl.checkOrigin,
		Subprotocols: []string{"text.ircv3.net"},
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		wl.server.logger.Info("listeners", "websocket upgrade error", wl.addr, err.Error())
		return
	}

	// avoid a DoS attack from buffering excessively large messages:
	conn.SetReadLimit(int64(wl.server.Config().Limits.ReadQBytes))

	go wl.server.RunClient(NewIRCWSConn(conn))
}
