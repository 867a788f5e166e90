/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

// Package tlslayer implements the non-blocking TLS handshake/record-I/O
// state machine sitting between the socket engine and crypto/tls: per-
// connection Busy tracking, handshake progression that reports which
// direction the caller should wait on instead of blocking, and the
// "recall" re-arm used when decrypted bytes remain buffered behind an
// empty socket.
package tlslayer

// Busy tracks whether a connection is mid-handshake and, if so, which
// direction it is currently waiting on.
type Busy uint8

const (
	// NotBusy means no handshake or rehandshake is in progress.
	NotBusy Busy = iota
	// HandshakeRead means the handshake is waiting for readability.
	HandshakeRead
	// HandshakeWrite means the handshake is waiting for writability.
	HandshakeWrite
)

// String returns a human-readable label for the busy state.
func (b Busy) String() string {
	switch b {
	case HandshakeRead:
		return "handshake-read"
	case HandshakeWrite:
		return "handshake-write"
	default:
		return "not-busy"
	}
}
