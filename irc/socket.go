// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"sync"

	"github.com/ergochat/minircd/irc/utils"
)

var (
	sendQExceededMessage = []byte("ERROR :SendQ Exceeded\r\n")
)

// Socket is the outbound half of a client connection: a FIFO queue of
// encoded lines, drained by a writer goroutine. The queue is capped at
// maxSendQBytes; exceeding the cap drops the queue and closes the socket.
type Socket struct {
	sync.Mutex

	conn          IRCConn
	maxSendQBytes int

	// this is a trylock enforcing that only one goroutine can write to `conn` at a time
	writerSemaphore utils.Semaphore

	buffers       [][]byte
	totalLength   int
	closed        bool
	sendQExceeded bool
	finalized     bool
}

// NewSocket returns a new Socket.
func NewSocket(conn IRCConn, maxSendQBytes int) *Socket {
	result := Socket{
		conn:          conn,
		maxSendQBytes: maxSendQBytes,
	}
	result.writerSemaphore.Initialize(1)
	return &result
}

// Close stops accepting new data; data already queued is written out
// before the underlying connection is released.
func (socket *Socket) Close() {
	socket.Lock()
	socket.closed = true
	socket.Unlock()

	socket.wakeWriter()
}

// IsClosed returns whether the socket has been closed (by us, or by a write failure).
func (socket *Socket) IsClosed() bool {
	socket.Lock()
	defer socket.Unlock()
	return socket.closed
}

// SendQExceeded returns whether the socket was closed for exceeding its queue cap.
func (socket *Socket) SendQExceeded() bool {
	socket.Lock()
	defer socket.Unlock()
	return socket.sendQExceeded
}

// Write queues data for the writer goroutine. It never blocks on the network.
func (socket *Socket) Write(data []byte) (err error) {
	if len(data) == 0 {
		return
	}

	socket.Lock()
	if socket.closed {
		err = errSocketClosed
	} else {
		prospectiveLen := socket.totalLength + len(data)
		if prospectiveLen > socket.maxSendQBytes {
			socket.sendQExceeded = true
			socket.closed = true
			err = errSendQExceeded
		} else {
			socket.buffers = append(socket.buffers, data)
			socket.totalLength = prospectiveLen
		}
	}
	socket.Unlock()

	socket.wakeWriter()
	return
}

// wakeWriter starts the writer goroutine if there isn't one running.
func (socket *Socket) wakeWriter() {
	if socket.writerSemaphore.TryAcquire() {
		go socket.send()
	}
}

// send drains the queue; it runs with the writer semaphore held.
func (socket *Socket) send() {
	for {
		socket.performWrite()
		socket.writerSemaphore.Release()

		// a Write or Close may have raced with the release; if so, and nobody
		// else picked up the work, go around again
		socket.Lock()
		pending := len(socket.buffers) != 0 || (socket.closed && !socket.finalized)
		socket.Unlock()
		if !pending || !socket.writerSemaphore.TryAcquire() {
			return
		}
	}
}

func (socket *Socket) performWrite() {
	socket.Lock()
	buffers := socket.buffers
	socket.buffers = nil
	socket.totalLength = 0
	closed := socket.closed
	sendQExceeded := socket.sendQExceeded
	finalized := socket.finalized
	socket.Unlock()

	if finalized {
		return
	}

	var err error
	if !sendQExceeded && len(buffers) != 0 {
		err = socket.conn.WriteBuffers(buffers)
	}

	if closed || err != nil {
		socket.finalize(sendQExceeded)
	}
}

// finalize writes the last words, if any, and releases the connection.
func (socket *Socket) finalize(sendQExceeded bool) {
	socket.Lock()
	socket.closed = true
	socket.finalized = true
	socket.buffers = nil
	socket.totalLength = 0
	socket.Unlock()

	if sendQExceeded {
		socket.conn.WriteBuffers([][]byte{sendQExceededMessage})
	}
	socket.conn.Close()
}
