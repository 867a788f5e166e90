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

// Package socket defines the shared vocabulary used by the concrete client
// and server engines in socket/client and socket/server: the per-connection
// Context, the connection lifecycle states reported to observers, and the
// callback types both sides register.
package socket

import (
	"context"
	"io"
	"net"
	"strings"
)

// DefaultBufferSize is the read/write buffer size engines allocate when the
// caller has not sized one explicitly.
const DefaultBufferSize = 32 * 1024

// EOL marks a request/response boundary for line-oriented protocols built on
// top of a raw socket.
const EOL = '\n'

// ErrorFilter drops errors produced by routine teardown of a socket already
// being closed, so they never reach a registered FuncError. Any other error,
// including one that merely mentions a closed connection as part of a
// longer message, passes through unchanged.
func ErrorFilter(err error) error {
	if err == nil {
		return nil
	}
	if err.Error() == "use of closed network connection" {
		return nil
	}
	return err
}

// ConnState is a socket's position in its connection lifecycle, reported to
// a registered FuncInfo as the connection moves through it. Numeric values
// are part of the wire-level Feedback contract and must not be reordered.
type ConnState uint8

const (
	// Disconnected is the state of a socket that has not yet dialed (or
	// accepted) a connection, or whose connection has ended.
	Disconnected ConnState = iota
	// Connecting is the state between dial and the TCP handshake
	// completing (or, server-side, between accept and the handler
	// running when no TLS layer is configured).
	Connecting
	// ConnectingTLS is the state while a TLS handshake is in progress,
	// on either the client or the accepting side.
	ConnectingTLS
	// Connected is the state once the socket is ready for Read/Write:
	// the TCP handshake (and TLS handshake, if any) has completed.
	Connected
)

func (c ConnState) String() string {
	switch c {
	case Disconnected:
		return "DISCONNECTED"
	case Connecting:
		return "CONNECTING"
	case ConnectingTLS:
		return "CONNECTING_TLS"
	case Connected:
		return "CONNECTED"
	}
	return "unknown connection state"
}

// Context is the per-connection handle given to a HandlerFunc. It embeds
// context.Context so a handler can select on Done() to notice cancellation
// mid-read, and exposes the raw byte stream plus the endpoint pair.
type Context interface {
	context.Context
	io.ReadWriteCloser

	// IsConnected reports whether the underlying transport is still open.
	IsConnected() bool
	// LocalHost returns the local endpoint's address string.
	LocalHost() string
	// RemoteHost returns the remote endpoint's address string.
	RemoteHost() string
}

// HandlerFunc processes one connection (stream engines) or one datagram
// (packet engines) made available through ctx.
type HandlerFunc func(ctx Context)

// Handler adapts a stateful value of type T into a HandlerFunc bound to
// that value, for handlers that need access to shared dependencies instead
// of closing over package-level state.
type Handler[T any] func(item *T, ctx Context)

// Func binds item to h, producing a HandlerFunc a server or client can
// register directly.
func (h Handler[T]) Func(item *T) HandlerFunc {
	return func(ctx Context) {
		h(item, ctx)
	}
}

// FuncError receives errors raised by engine operations, already passed
// through ErrorFilter by the caller.
type FuncError func(errs ...error)

// FuncInfo receives a connection lifecycle transition: local and remote
// identify the socket the transition belongs to, conn is the per-connection
// Context the transition concerns when the caller is a server reporting on
// behalf of an accepted connection (nil for a client's own transitions, or
// for a server-level transition that precedes a Context's existence), and
// state is the ConnState being entered.
type FuncInfo func(local, remote net.Addr, conn Context, state ConnState)

// UpdateConn customizes a freshly dialed or accepted net.Conn before it is
// handed to the engine, e.g. to set deadlines, keepalive or buffer sizes.
type UpdateConn func(conn net.Conn)

// Response receives the payload of a Client.Once request/response exchange.
type Response func(r io.Reader)

// Client is a connection-oriented socket engine that dials a remote
// endpoint and exposes a stream (or datagram) interface over it.
type Client interface {
	io.ReadWriteCloser

	// RegisterFuncError registers the error callback; nil disables it.
	RegisterFuncError(f FuncError)
	// RegisterFuncInfo registers the connection lifecycle callback; nil
	// disables it. conn is always nil on a Client's own invocations.
	RegisterFuncInfo(f FuncInfo)
	// Connect dials the configured endpoint. Calling Connect on an already
	// connected Client is a no-op.
	Connect(ctx context.Context) error
	// IsConnected reports whether Connect has succeeded and Close has not
	// since been called.
	IsConnected() bool
	// Once performs a single write/read request-response exchange,
	// connecting first if necessary, and delivers the response through r.
	Once(ctx context.Context, request []byte, r Response) error
}

// Server is a listening socket engine that accepts connections (or
// datagrams) and dispatches each to a HandlerFunc.
type Server interface {
	// RegisterFuncError registers the error callback; nil disables it.
	RegisterFuncError(f FuncError)
	// RegisterFuncInfo registers the connection lifecycle callback; nil
	// disables it.
	RegisterFuncInfo(f FuncInfo)
	// Listen binds and begins accepting, blocking until ctx is canceled or
	// a fatal listener error occurs.
	Listen(ctx context.Context) error
	// Shutdown stops accepting new connections and waits, up to ctx's
	// deadline, for in-flight handlers to return.
	Shutdown(ctx context.Context) error
	// IsRunning reports whether Listen is currently accepting.
	IsRunning() bool
	// OpenConnections returns the number of connections currently being
	// served.
	OpenConnections() int
}

func isClosedConnErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "use of closed network connection")
}
