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

// Package client implements the dialing side of the socket engine: a single
// implementation of socket.Client shared by every transport in
// network/protocol, dispatched on the configured Network.
package client

import (
	"bytes"
	"context"
	"io"
	"net"
	"sync"

	libptc "github.com/parasolnet/netcore/network/protocol"
	"github.com/parasolnet/netcore/netstatus"
	libsck "github.com/parasolnet/netcore/socket"
	libcfg "github.com/parasolnet/netcore/socket/config"
	libtls "github.com/parasolnet/netcore/tlslayer"
)

// engine is the transport-agnostic Client implementation: net.Dial already
// abstracts TCP, UDP and Unix sockets behind one signature, so one engine
// serves all of them instead of a duplicated implementation per transport.
type engine struct {
	mu sync.Mutex

	cfg    libcfg.Client
	update libsck.UpdateConn
	onErr  libsck.FuncError
	onInfo libsck.FuncInfo

	conn  net.Conn
	layer *libtls.Layer
	state libsck.ConnState
	wq    libsck.WriteQueue
}

// New returns a Client dialing cfg's endpoint. update, if non-nil, is
// invoked on the raw connection immediately after a successful dial and
// before any TLS handshake.
func New(cfg libcfg.Client, update libsck.UpdateConn) (libsck.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &engine{cfg: cfg, update: update}, nil
}

// NewTCP returns a plaintext TCP client dialing address.
func NewTCP(address string) (libsck.Client, error) {
	return New(libcfg.Client{Network: libptc.NetworkTCP, Address: address}, nil)
}

// NewUDP returns a UDP client dialing address.
func NewUDP(address string) (libsck.Client, error) {
	return New(libcfg.Client{Network: libptc.NetworkUDP, Address: address}, nil)
}

// NewUnix returns a Unix domain stream client dialing the socket file path.
func NewUnix(path string) (libsck.Client, error) {
	return New(libcfg.Client{Network: libptc.NetworkUnix, Address: path}, nil)
}

// NewUnixgram returns a Unix domain datagram client dialing the socket file
// path.
func NewUnixgram(path string) (libsck.Client, error) {
	return New(libcfg.Client{Network: libptc.NetworkUnixGram, Address: path}, nil)
}

func (e *engine) RegisterFuncError(f libsck.FuncError) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onErr = f
}

func (e *engine) RegisterFuncInfo(f libsck.FuncInfo) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onInfo = f
}

func (e *engine) raise(err error) {
	if err == nil {
		return
	}
	if filtered := libsck.ErrorFilter(err); filtered != nil {
		e.mu.Lock()
		f := e.onErr
		e.mu.Unlock()
		if f != nil {
			f(filtered)
		}
	}
}

// setState updates the socket's state and, per spec, invokes Feedback with
// (socket, nil, newState): a Client never reports on behalf of a distinct
// per-connection object, so conn is always nil.
func (e *engine) setState(local, remote net.Addr, state libsck.ConnState) {
	e.mu.Lock()
	e.state = state
	f := e.onInfo
	e.mu.Unlock()
	if f != nil {
		f(local, remote, nil, state)
	}
}

// Connect dials the configured endpoint and, if TLS is enabled, drives the
// handshake to completion before returning. Calling Connect while already
// connected or mid-connect is a no-op. On success, any bytes buffered by a
// Write that ran before or during the dial are flushed before Connect
// returns.
func (e *engine) Connect(ctx context.Context) error {
	e.mu.Lock()
	if e.state != libsck.Disconnected {
		e.mu.Unlock()
		return nil
	}
	cfg := e.cfg
	update := e.update
	e.mu.Unlock()

	e.setState(nil, nil, libsck.Connecting)

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, cfg.Network.String(), cfg.Address)
	if err != nil {
		e.raise(err)
		e.setState(nil, nil, libsck.Disconnected)
		return err
	}

	if update != nil {
		update(conn)
	}

	var layer *libtls.Layer
	if ok, tc, name := cfg.GetTLS(); ok {
		e.setState(conn.LocalAddr(), conn.RemoteAddr(), libsck.ConnectingTLS)

		layer, err = libtls.New(conn, libtls.Client, libtls.Config{TLS: tc, ServerName: name})
		if err != nil {
			_ = conn.Close()
			e.raise(err)
			e.setState(conn.LocalAddr(), conn.RemoteAddr(), libsck.Disconnected)
			return err
		}
		if err = runHandshake(ctx, layer); err != nil {
			_ = conn.Close()
			e.raise(err)
			e.setState(conn.LocalAddr(), conn.RemoteAddr(), libsck.Disconnected)
			return err
		}
	}

	e.mu.Lock()
	e.conn = conn
	e.layer = layer
	e.state = libsck.Connected
	flushErr := e.drainLocked()
	e.mu.Unlock()

	e.setState(conn.LocalAddr(), conn.RemoteAddr(), libsck.Connected)
	e.raise(flushErr)

	return nil
}

// drainLocked sends as much of the write queue as the transport accepts.
// Callers hold e.mu and have already set e.conn/e.layer.
func (e *engine) drainLocked() error {
	var w io.Writer = e.conn
	if e.layer != nil {
		w = tlsWriter{e.layer}
	}

	for e.wq.Len() > 0 {
		n, err := e.wq.Drain(w)
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
	}
	return nil
}

// tlsWriter adapts a *tlslayer.Layer's (int, netstatus.Status) Write to the
// io.Writer shape WriteQueue.Drain expects.
type tlsWriter struct{ layer *libtls.Layer }

func (w tlsWriter) Write(p []byte) (int, error) {
	n, st := w.layer.Write(p)
	return n, statusErr(st)
}

func runHandshake(ctx context.Context, layer *libtls.Layer) error {
	for {
		if st := layer.Connect(ctx); !st.IsOkay() {
			return st
		}
		if layer.Busy() == libtls.NotBusy {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

func (e *engine) IsConnected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == libsck.Connected
}

func (e *engine) snapshot() (net.Conn, *libtls.Layer, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conn, e.layer, e.state == libsck.Connected
}

func (e *engine) Read(p []byte) (int, error) {
	conn, layer, ok := e.snapshot()
	if !ok {
		return 0, libsck.ErrorNotConnected.Error(nil)
	}

	if layer != nil {
		n, st, _ := layer.Read(p)
		if err := statusErr(st); err != nil {
			if err != io.EOF {
				e.raise(err)
			}
			return n, err
		}
		return n, nil
	}

	n, err := conn.Read(p)
	if err != nil {
		e.raise(err)
	}
	return n, err
}

// Write implements spec §4.5.4's unified outbound entry: a write issued
// before CONNECTED, or while the write queue already has residue, is
// appended to the queue instead of touching the transport. Otherwise it
// sends directly and queues whatever the transport did not accept in that
// call. An append that would exceed the configured MsgLimit is rejected in
// full, returning netstatus.BufferOverflow, and no bytes are sent.
func (e *engine) Write(p []byte) (int, error) {
	e.mu.Lock()
	limit := e.cfg.GetMsgLimit()

	if e.state != libsck.Connected || e.wq.Len() > 0 {
		err := e.wq.Append(p, limit)
		e.mu.Unlock()
		if err != nil {
			return 0, err
		}
		return len(p), nil
	}

	var w io.Writer = e.conn
	if e.layer != nil {
		w = tlsWriter{e.layer}
	}
	e.mu.Unlock()

	n, err := w.Write(p)
	if err == nil {
		return n, nil
	}

	if n >= len(p) {
		e.raise(err)
		return n, err
	}

	e.mu.Lock()
	qerr := e.wq.Append(p[n:], limit)
	e.mu.Unlock()
	if qerr != nil {
		e.raise(err)
		return n, err
	}
	return len(p), nil
}

// Once connects if necessary, writes request, reads a single response and
// delivers it to r.
func (e *engine) Once(ctx context.Context, request []byte, r libsck.Response) error {
	if err := e.Connect(ctx); err != nil {
		return err
	}

	if len(request) > 0 {
		if _, err := e.Write(request); err != nil {
			return err
		}
	}

	buf := make([]byte, libsck.DefaultBufferSize)
	n, err := e.Read(buf)
	if err != nil && err != io.EOF {
		return err
	}

	if r != nil {
		r(bytes.NewReader(buf[:n]))
	}

	return nil
}

func (e *engine) Close() error {
	e.mu.Lock()
	conn, layer, ok := e.conn, e.layer, e.state == libsck.Connected
	e.conn, e.layer, e.state = nil, nil, libsck.Disconnected
	e.wq = libsck.WriteQueue{}
	e.mu.Unlock()

	if !ok {
		return nil
	}

	local, remote := conn.LocalAddr(), conn.RemoteAddr()

	if layer != nil {
		_ = layer.Shutdown()
	}

	err := conn.Close()
	e.setState(local, remote, libsck.Disconnected)
	return err
}

func statusErr(st netstatus.Status) error {
	if st.IsOkay() {
		return nil
	}
	if st == netstatus.Disconnected {
		return io.EOF
	}
	return st
}
