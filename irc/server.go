// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"sync"
	"time"

	"github.com/okzk/sdnotify"

	"github.com/ergochat/minircd/irc/flock"
	"github.com/ergochat/minircd/irc/logger"
	"github.com/ergochat/minircd/irc/utils"
)

// Server is the main minircd server.
type Server struct {
	config   *Config
	name     string
	logger   *logger.Manager
	channels *ChannelManager

	// stepMutex is held for the whole of one handling step (dispatch,
	// registry mutation and fan-out) or one cleanup step; it is what
	// makes each step atomic with respect to every other client.
	stepMutex sync.Mutex

	clientsMutex sync.Mutex
	clients      utils.HashSet[*Client]
	clientsWG    sync.WaitGroup
	shuttingDown bool // no new clients once set

	listeners map[string]IRCListener
	signals   chan os.Signal
	flock     flock.Flocker
}

func newServer(config *Config, logger *logger.Manager) *Server {
	return &Server{
		config:    config,
		name:      config.Server.Name,
		logger:    logger,
		channels:  NewChannelManager(),
		clients:   make(utils.HashSet[*Client]),
		listeners: make(map[string]IRCListener),
		signals:   make(chan os.Signal, len(utils.ServerExitSignals)),
	}
}

// NewServer returns a new minircd server, listening on every address
// in the config.
func NewServer(config *Config, logger *logger.Manager) (*Server, error) {
	server := newServer(config, logger)

	fl, err := flock.TryAcquireFlock(config.Server.LockFile)
	if err != nil {
		return nil, err
	}
	server.flock = fl

	if err := server.setupListeners(); err != nil {
		server.stopListeners()
		fl.Unlock()
		return nil, err
	}

	signal.Notify(server.signals, utils.ServerExitSignals...)
	return server, nil
}

// Config returns the server's configuration; it never changes after startup.
func (server *Server) Config() *Config {
	return server.config
}

// Run waits for an exit signal, then shuts the server down.
func (server *Server) Run() {
	sdnotify.Ready()
	server.logger.Info("server", "Server running")

	sig := <-server.signals
	server.logger.Info("server", fmt.Sprintf("Received %v, shutting down", sig))
	server.Shutdown()
}

// Shutdown stops the listeners, then disconnects every client and
// waits (briefly) for their cleanup to finish.
func (server *Server) Shutdown() {
	sdnotify.Stopping()
	server.stopListeners()

	server.clientsMutex.Lock()
	server.shuttingDown = true
	server.clientsMutex.Unlock()

	for _, client := range server.Clients() {
		client.Send("", "ERROR", "Server is shutting down")
		client.socket.Close()
	}

	done := make(chan struct{})
	go func() {
		server.clientsWG.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownGracePeriod):
		server.logger.Warning("server", "Timed out waiting for clients to disconnect")
	}

	if server.flock != nil {
		server.flock.Unlock()
	}
	server.logger.Info("server", fmt.Sprintf("%s exiting", Ver))
}

func (server *Server) setupListeners() error {
	addrs := make([]string, 0, len(server.config.Server.Listeners))
	for addr := range server.config.Server.Listeners {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)

	for _, addr := range addrs {
		listener, err := NewListener(server, addr, server.config.Server.Listeners[addr])
		if err != nil {
			server.logger.Error("listeners", "couldn't listen on", addr, err.Error())
			return err
		}
		server.listeners[addr] = listener
		server.logger.Info("listeners", "now listening on", addr)
	}
	return nil
}

func (server *Server) stopListeners() {
	for addr, listener := range server.listeners {
		if err := listener.Stop(); err != nil {
			server.logger.Error("listeners", "failed to stop listener", addr, err.Error())
		} else {
			server.logger.Info("listeners", "stopped listening on", addr)
		}
		delete(server.listeners, addr)
	}
}

// addClient registers a new client, unless the server is shutting down.
func (server *Server) addClient(client *Client) (added bool) {
	server.clientsMutex.Lock()
	defer server.clientsMutex.Unlock()
	if server.shuttingDown {
		return false
	}
	server.clients.Add(client)
	server.clientsWG.Add(1)
	return true
}

func (server *Server) removeClient(client *Client) {
	server.clientsMutex.Lock()
	defer server.clientsMutex.Unlock()
	if server.clients.Has(client) {
		server.clients.Remove(client)
		server.clientsWG.Done()
	}
}

// Clients returns a snapshot of the connected clients.
func (server *Server) Clients() (result []*Client) {
	server.clientsMutex.Lock()
	defer server.clientsMutex.Unlock()
	result = make([]*Client, 0, len(server.clients))
	for client := range server.clients {
		result = append(result, client)
	}
	return
}

// ClientCount returns the number of connected clients.
func (server *Server) ClientCount() int {
	server.clientsMutex.Lock()
	defer server.clientsMutex.Unlock()
	return len(server.clients)
}
