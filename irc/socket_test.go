// Copyright (c) 2026 The Minircd Contributors
// released under the MIT license

package irc

import (
	"strings"
	"testing"

	"github.com/go-test/deep"
)

// blockingConn holds every write until release is closed.
type blockingConn struct {
	*testConn
	started chan struct{}
	release chan struct{}
}

func newBlockingConn() *blockingConn {
	return &blockingConn{
		testConn: newTestConn(),
		started:  make(chan struct{}, 8),
		release:  make(chan struct{}),
	}
}

func (bc *blockingConn) WriteBuffers(buffers [][]byte) error {
	bc.started <- struct{}{}
	<-bc.release
	return bc.testConn.WriteBuffers(buffers)
}

func TestSocketFlushesOnClose(t *testing.T) {
	conn := newTestConn()
	socket := NewSocket(conn, 1024)

	for _, line := range []string{"one\r\n", "two\r\n", "three\r\n"} {
		if err := socket.Write([]byte(line)); err != nil {
			t.Fatal(err)
		}
	}
	socket.Close()
	waitUntil(t, "transport close", conn.isClosed)

	if diff := deep.Equal(conn.unread(), []string{"one\r\n", "two\r\n", "three\r\n"}); diff != nil {
		t.Error(diff)
	}
	if err := socket.Write([]byte("four\r\n")); err != errSocketClosed {
		t.Errorf("expected errSocketClosed, got %v", err)
	}
	if socket.SendQExceeded() {
		t.Error("a normal close isn't a sendq overflow")
	}
}

func TestSocketSendQExceeded(t *testing.T) {
	conn := newBlockingConn()
	socket := NewSocket(conn, 64)

	first := strings.Repeat("a", 8) + "\r\n"
	if err := socket.Write([]byte(first)); err != nil {
		t.Fatal(err)
	}
	// the writer has taken the first line and is stuck on the network
	<-conn.started

	if err := socket.Write([]byte(strings.Repeat("b", 38) + "\r\n")); err != nil {
		t.Fatalf("40 of 64 bytes should fit: %v", err)
	}
	if err := socket.Write([]byte(strings.Repeat("c", 28) + "\r\n")); err != errSendQExceeded {
		t.Fatalf("expected errSendQExceeded, got %v", err)
	}
	if !socket.SendQExceeded() || !socket.IsClosed() {
		t.Fatal("socket should be closed for exceeding its sendq")
	}
	if err := socket.Write([]byte("d\r\n")); err != errSocketClosed {
		t.Errorf("expected errSocketClosed, got %v", err)
	}

	close(conn.release)
	waitUntil(t, "transport close", conn.isClosed)

	// the queued line is dropped in favor of the error
	if diff := deep.Equal(conn.unread(), []string{first, "ERROR :SendQ Exceeded\r\n"}); diff != nil {
		t.Error(diff)
	}
}
