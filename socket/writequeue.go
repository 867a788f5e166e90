/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package socket

import (
	"io"

	"github.com/parasolnet/netcore/netstatus"
)

// WriteQueue is the buffered outbound byte queue every socket (client or
// per-connection) owns: bytes written while the socket is not yet CONNECTED,
// or while a previous partial send left residue, accumulate here in FIFO
// order until Drain can hand them to the transport.
//
// Growth policy: the first Append on an empty queue allocates exactly the
// bytes it needs. Every later Append compacts the unsent tail down to
// offset zero, then reallocates to fit the new total, so a long-lived queue
// never retains already-drained bytes. An Append that would push the queue
// past limit is rejected in full, leaving the queue unchanged, and reports
// netstatus.BufferOverflow.
//
// WriteQueue is not safe for concurrent use; callers serialize access with
// their own lock, the same one guarding the socket's connection state.
type WriteQueue struct {
	buf   []byte
	index int
}

// Len reports the number of unsent bytes currently queued.
func (q *WriteQueue) Len() int {
	return len(q.buf) - q.index
}

// Append enqueues p, honoring the allocate-then-compact growth policy. A
// limit of zero or less disables the cap. Rejecting an over-limit append
// leaves the queue exactly as it was.
func (q *WriteQueue) Append(p []byte, limit int) error {
	if len(p) == 0 {
		return nil
	}

	pending := q.Len()
	if limit > 0 && pending+len(p) > limit {
		return netstatus.BufferOverflow
	}

	if pending == 0 {
		q.buf = append(make([]byte, 0, len(p)), p...)
		q.index = 0
		return nil
	}

	next := make([]byte, pending+len(p))
	copy(next, q.buf[q.index:])
	copy(next[pending:], p)
	q.buf = next
	q.index = 0
	return nil
}

// Drain writes as much of the queued bytes to w as it accepts in one call,
// advancing past whatever was sent and releasing the backing array once
// the queue empties. It reports the number of bytes sent from the queue.
func (q *WriteQueue) Drain(w io.Writer) (int, error) {
	if q.Len() == 0 {
		return 0, nil
	}

	n, err := w.Write(q.buf[q.index:])
	q.index += n
	if q.index >= len(q.buf) {
		q.buf = nil
		q.index = 0
	}
	return n, err
}
