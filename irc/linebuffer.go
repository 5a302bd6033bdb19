// Copyright (c) 2026 The Minircd Contributors
// released under the MIT license

package irc

import (
	"bytes"
)

// lineBuffer frames a byte stream into "\r\n"-terminated lines. Whatever
// follows the last terminator stays buffered until the next Push.
type lineBuffer struct {
	buf   []byte
	limit int // longest acceptable line, terminator excluded; 0 for no limit
}

// Push appends chunk and returns every line it completed, without
// terminators. errReadQ means a line outgrew the limit; the stream can't
// be resynchronized after that, so the connection has to go.
func (lb *lineBuffer) Push(chunk []byte) (lines []string, err error) {
	lb.buf = append(lb.buf, chunk...)

	consumed := 0
	for {
		idx := bytes.Index(lb.buf[consumed:], crlf)
		if idx == -1 {
			break
		}
		if lb.limit != 0 && lb.limit < idx {
			return lines, errReadQ
		}
		lines = append(lines, string(lb.buf[consumed:consumed+idx]))
		consumed += idx + len(crlf)
	}

	remaining := len(lb.buf) - consumed
	partial := remaining
	if 0 < partial && lb.buf[len(lb.buf)-1] == '\r' {
		// may be the first half of a terminator
		partial--
	}
	if lb.limit != 0 && lb.limit < partial {
		return lines, errReadQ
	}
	if remaining == 0 {
		lb.buf = nil
	} else if consumed != 0 {
		lb.buf = append([]byte(nil), lb.buf[consumed:]...)
	}
	return lines, nil
}

// Len returns the number of buffered bytes that don't yet form a line.
func (lb *lineBuffer) Len() int {
	return len(lb.buf)
}
