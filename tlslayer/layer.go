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

package tlslayer

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/parasolnet/netcore/netstatus"
)

// Role selects which side of the handshake a Layer drives.
type Role uint8

const (
	Client Role = iota
	Server
)

// pollWindow bounds how long a single handshake step blocks on the
// underlying connection before crypto/tls sees a timeout and returns
// control to the caller. crypto/tls has no WANT_READ/WANT_WRITE signaling
// of its own (unlike the OpenSSL BIO model this layer emulates): a short
// deadline stands in for it, turned into a Busy direction by pollConn.
const pollWindow = 2 * time.Millisecond

// maxRecall bounds consecutive recall attempts that make no forward
// progress, so a peer that stops sending can never leak a re-armed read
// callback (see Open Questions).
const maxRecall = 3

// Layer wraps a single connection with non-blocking TLS handshake
// progression, recall-aware record I/O and TLS shutdown. One
// Layer belongs to exactly one socket, mirroring the one-context-per-socket
// rule in the setup contract.
type Layer struct {
	mu sync.Mutex

	conn *pollConn
	tls  *tls.Conn
	role Role
	busy Busy

	recall int
}

// pollConn records, on a timeout, which direction the last blocking
// attempt was waiting on, so step can translate a crypto/tls handshake
// timeout into HandshakeRead or HandshakeWrite.
type pollConn struct {
	net.Conn
	lastWant Busy
}

func (c *pollConn) Read(b []byte) (int, error) {
	_ = c.Conn.SetReadDeadline(time.Now().Add(pollWindow))
	n, err := c.Conn.Read(b)
	if isTimeout(err) {
		c.lastWant = HandshakeRead
	}
	return n, err
}

func (c *pollConn) Write(b []byte) (int, error) {
	_ = c.Conn.SetWriteDeadline(time.Now().Add(pollWindow))
	n, err := c.Conn.Write(b)
	if isTimeout(err) {
		c.lastWant = HandshakeWrite
	}
	return n, err
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// New wraps conn with a TLS layer driving the handshake for role, using
// cfg for credentials and verification policy. The handshake itself is not
// started; call Connect or Accept.
func New(conn net.Conn, role Role, cfg Config) (*Layer, error) {
	tc, err := cfg.tlsConfig(role == Server)
	if err != nil {
		return nil, err
	}

	pc := &pollConn{Conn: conn}

	var tc2 *tls.Conn
	if role == Server {
		tc2 = tls.Server(pc, tc)
	} else {
		tc2 = tls.Client(pc, tc)
	}

	return &Layer{conn: pc, tls: tc2, role: role, busy: NotBusy}, nil
}

// Busy reports the layer's current handshake-wait direction.
func (l *Layer) Busy() Busy {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.busy
}

// Connect drives (or resumes) the client handshake one step. It returns
// Okay with l.Busy()==NotBusy once the handshake has completed, Okay with
// l.Busy()!=NotBusy while still in progress (the caller should subscribe to
// readiness in the reported direction and call Connect again), or a
// terminal status on failure.
func (l *Layer) Connect(ctx context.Context) netstatus.Status {
	return l.step(ctx)
}

// Accept drives (or resumes) the server handshake one step, with the same
// return contract as Connect.
func (l *Layer) Accept(ctx context.Context) netstatus.Status {
	return l.step(ctx)
}

func (l *Layer) step(ctx context.Context) netstatus.Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.conn.lastWant = NotBusy

	err := l.tls.HandshakeContext(ctx)
	if err == nil {
		l.busy = NotBusy
		return netstatus.Okay
	}

	if isTimeout(err) {
		if l.conn.lastWant == NotBusy {
			l.conn.lastWant = HandshakeRead
		}
		l.busy = l.conn.lastWant
		return netstatus.Okay
	}

	l.busy = NotBusy
	return netstatus.Failed
}

// Read drains decrypted application data into p. The returned recall flag
// reports whether the caller should call Read again immediately, without
// waiting on socket readiness, because this layer believes more decrypted
// bytes may already be buffered; it is cleared after maxRecall consecutive
// calls made no forward progress, so a silent peer can never pin a
// re-armed read callback open forever.
func (l *Layer) Read(p []byte) (n int, status netstatus.Status, recall bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.busy != NotBusy {
		return 0, netstatus.Okay, false
	}

	n, err := l.tls.Read(p)
	if n > 0 {
		l.recall = 0
	}

	switch {
	case err == nil:
		if n == len(p) && l.recall < maxRecall {
			l.recall++
			return n, netstatus.Okay, true
		}
		l.recall = 0
		return n, netstatus.Okay, false
	case errors.Is(err, io.EOF):
		return n, netstatus.Disconnected, false
	case isTimeout(err):
		if n == 0 && l.recall > 0 && l.recall < maxRecall {
			l.recall++
			return n, netstatus.Okay, true
		}
		l.recall = 0
		return n, netstatus.Okay, false
	default:
		return n, netstatus.Failed, false
	}
}

// Write encrypts and sends p. A rehandshake WANT_WRITE reports
// BufferOverflow, matching plain-socket backpressure so the engine's write
// queue absorbs it identically; a rehandshake WANT_READ flips Busy to
// HandshakeRead so the engine waits on readability before retrying.
func (l *Layer) Write(p []byte) (n int, status netstatus.Status) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.busy != NotBusy {
		return 0, netstatus.BufferOverflow
	}

	n, err := l.tls.Write(p)
	switch {
	case err == nil:
		return n, netstatus.Okay
	case errors.Is(err, io.EOF):
		return n, netstatus.Disconnected
	case isTimeout(err):
		if l.conn.lastWant == HandshakeRead {
			l.busy = HandshakeRead
		}
		return n, netstatus.BufferOverflow
	default:
		return n, netstatus.Failed
	}
}

// Shutdown sends close_notify and closes the underlying connection in one
// pass (crypto/tls's Close does both). It does not wait for the peer's
// close_notify. A timeout or EOF while closing still reports Okay.
func (l *Layer) Shutdown() netstatus.Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	_ = l.conn.Conn.SetDeadline(time.Now().Add(pollWindow))

	if err := l.tls.Close(); err != nil && !isTimeout(err) && !errors.Is(err, io.EOF) {
		return netstatus.Failed
	}

	return netstatus.Okay
}

// ConnectionState exposes the negotiated TLS connection state once the
// handshake has completed.
func (l *Layer) ConnectionState() tls.ConnectionState {
	return l.tls.ConnectionState()
}
