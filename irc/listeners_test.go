// Copyright (c) 2026 The Minircd Contributors
// released under the MIT license

package irc

import (
	"bufio"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-test/deep"
	"github.com/gorilla/websocket"

	"github.com/ergochat/minircd/irc/flock"
	"github.com/ergochat/minircd/irc/logger"
)

func TestNetListener(t *testing.T) {
	server := newTestServer(t)
	listener, err := NewListener(server, "127.0.0.1:0", ListenerConfig{})
	if err != nil {
		t.Fatal(err)
	}
	nl := listener.(*NetListener)
	defer nl.Stop()

	conn, err := net.Dial("tcp", nl.listener.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	conn.SetDeadline(time.Now().Add(2 * time.Second))
	if _, err := conn.Write([]byte("NICK alice\r\nJOIN #room\r\n")); err != nil {
		t.Fatal(err)
	}

	reader := bufio.NewReader(conn)
	var lines []string
	for i := 0; i < 5; i++ {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatal(err)
		}
		lines = append(lines, line)
	}
	if diff := deep.Equal(lines, []string{
		":server 001 alice :Welcome.\r\n",
		":server 376 alice :\r\n",
		":alice JOIN #room\r\n",
		":server 353 alice = #room alice\r\n",
		":server 366 alice #room :\r\n",
	}); diff != nil {
		t.Error(diff)
	}

	conn.Close()
	waitUntil(t, "client removal", func() bool { return server.ClientCount() == 0 })
	checkRegistry(t, server)
}

func TestWSListener(t *testing.T) {
	server := newTestServer(t)
	listener, err := NewListener(server, "127.0.0.1:0", ListenerConfig{
		WebSocket:      true,
		AllowedOrigins: []string{"https://irc.example.com"},
	})
	if err != nil {
		t.Fatal(err)
	}
	wl := listener.(*WSListener)
	defer wl.Stop()
	url := "ws://" + wl.listener.Addr().String()

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://evil.example.com"}})
	if err == nil || resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("foreign origin should be refused, got %v", err)
	}

	ws, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://irc.example.com"}})
	if err != nil {
		t.Fatal(err)
	}
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))

	// one line per frame, with or without the terminator
	ws.WriteMessage(websocket.TextMessage, []byte("NICK alice"))
	ws.WriteMessage(websocket.TextMessage, []byte("PING token\r\n"))

	var frames []string
	for i := 0; i < 3; i++ {
		_, data, err := ws.ReadMessage()
		if err != nil {
			t.Fatal(err)
		}
		frames = append(frames, string(data))
	}
	if diff := deep.Equal(frames, []string{
		":server 001 alice :Welcome.",
		":server 376 alice :",
		":server PONG server token",
	}); diff != nil {
		t.Error(diff)
	}

	ws.Close()
	waitUntil(t, "client removal", func() bool { return server.ClientCount() == 0 })
}

func TestShutdownDisconnectsClients(t *testing.T) {
	server := newTestServer(t)
	conns := []*testConn{newTestConn(), newTestConn()}
	for _, conn := range conns {
		go server.RunClient(conn)
		conn.input <- []byte("NICK someone\r\n")
		conn.take(t, 2)
	}

	server.Shutdown()

	if server.ClientCount() != 0 {
		t.Errorf("%d clients survived shutdown", server.ClientCount())
	}
	for _, conn := range conns {
		if !conn.isClosed() {
			t.Error("transport should be closed")
		}
		if line := conn.take(t, 1)[0]; line != "ERROR :Server is shutting down\r\n" {
			t.Errorf("unexpected line %q", line)
		}
	}
}

func TestNoClientsAfterShutdown(t *testing.T) {
	server := newTestServer(t)
	server.Shutdown()

	// a connection accepted just before the listeners closed
	conn := newTestConn()
	server.RunClient(conn)

	if !conn.isClosed() {
		t.Error("late connection should be closed")
	}
	if server.ClientCount() != 0 {
		t.Errorf("late connection was registered: %d clients", server.ClientCount())
	}
}

func TestNewServerLockFile(t *testing.T) {
	config := &Config{}
	config.Server.Listeners = map[string]ListenerConfig{"127.0.0.1:0": {}}
	config.Server.LockFile = filepath.Join(t.TempDir(), "minircd.lock")
	if err := config.Prepare(); err != nil {
		t.Fatal(err)
	}

	server, err := NewServer(config, logger.NewDiscardManager())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewServer(config, logger.NewDiscardManager()); err != flock.CouldntAcquire {
		t.Errorf("expected CouldntAcquire, got %v", err)
	}
	server.Shutdown()

	// the lock is released on shutdown
	server, err = NewServer(config, logger.NewDiscardManager())
	if err != nil {
		t.Fatal(err)
	}
	server.Shutdown()
}
