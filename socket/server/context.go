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

package server

import (
	"context"
	"io"
	"net"
	"sync"

	libsck "github.com/parasolnet/netcore/socket"

	"github.com/parasolnet/netcore/netstatus"
	libtls "github.com/parasolnet/netcore/tlslayer"
)

// connContext is the socket.Context handed to a HandlerFunc for a stream
// (TCP or Unix) connection.
type connContext struct {
	context.Context

	mu        sync.Mutex
	conn      net.Conn
	layer     *libtls.Layer
	connected bool

	// msgLimit caps wq the same way spec §4.5.4/§4.6.2 cap a client
	// socket's write queue: an over-cap Write is rejected in full.
	msgLimit int
	wq       libsck.WriteQueue

	// record is the ClientRecord this connection is aggregated under, set
	// by clientGraph.attach immediately after accept. Nil for transports
	// (Unix domain sockets, datagrams) that bypass the per-IP graph.
	record *ClientRecord
}

func (c *connContext) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *connContext) LocalHost() string {
	return c.conn.LocalAddr().String()
}

func (c *connContext) RemoteHost() string {
	return c.conn.RemoteAddr().String()
}

func (c *connContext) Read(p []byte) (int, error) {
	c.mu.Lock()
	layer, conn, ok := c.layer, c.conn, c.connected
	c.mu.Unlock()

	if !ok {
		return 0, io.EOF
	}

	if layer != nil {
		n, st, _ := layer.Read(p)
		return n, statusErr(st)
	}

	return conn.Read(p)
}

// Write implements the per-connection half of spec §4.6.2/§4.5.4: residue
// already sitting in the connection's own write queue is appended to it
// rather than touching the transport, capped at msgLimit the same way a
// client socket's queue is capped. A connection that is not open returns
// io.EOF.
func (c *connContext) Write(p []byte) (int, error) {
	c.mu.Lock()
	layer, conn, ok, limit := c.layer, c.conn, c.connected, c.msgLimit

	if !ok {
		c.mu.Unlock()
		return 0, io.EOF
	}

	if c.wq.Len() > 0 {
		err := c.wq.Append(p, limit)
		c.mu.Unlock()
		if err != nil {
			return 0, err
		}
		return len(p), nil
	}
	c.mu.Unlock()

	var w io.Writer = conn
	if layer != nil {
		w = connTLSWriter{layer}
	}

	n, err := w.Write(p)
	if err == nil || n >= len(p) {
		return n, err
	}

	c.mu.Lock()
	qerr := c.wq.Append(p[n:], limit)
	c.mu.Unlock()
	if qerr != nil {
		return n, err
	}
	return len(p), nil
}

// connTLSWriter adapts a *tlslayer.Layer's (int, netstatus.Status) Write to
// the io.Writer shape WriteQueue.Drain expects.
type connTLSWriter struct{ layer *libtls.Layer }

func (w connTLSWriter) Write(p []byte) (int, error) {
	n, st := w.layer.Write(p)
	return n, statusErr(st)
}

func (c *connContext) Close() error {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return nil
	}
	c.connected = false
	layer, conn := c.layer, c.conn
	c.wq = libsck.WriteQueue{}
	c.mu.Unlock()

	if layer != nil {
		_ = layer.Shutdown()
	}
	return conn.Close()
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

// packetContext is the socket.Context handed to a HandlerFunc for a single
// received datagram (UDP or Unix datagram). Read delivers the datagram's
// payload once and then returns io.EOF; Write sends back to the sender.
type packetContext struct {
	context.Context

	mu        sync.Mutex
	pc        net.PacketConn
	remote    net.Addr
	payload   []byte
	consumed  bool
	connected bool
}

func (c *packetContext) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *packetContext) LocalHost() string {
	return c.pc.LocalAddr().String()
}

func (c *packetContext) RemoteHost() string {
	return c.remote.String()
}

func (c *packetContext) Read(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.consumed {
		return 0, io.EOF
	}
	c.consumed = true

	n := copy(p, c.payload)
	if n < len(c.payload) {
		return n, io.ErrShortBuffer
	}
	return n, nil
}

func (c *packetContext) Write(p []byte) (int, error) {
	c.mu.Lock()
	pc, remote, ok := c.pc, c.remote, c.connected
	c.mu.Unlock()

	if !ok {
		return 0, io.EOF
	}

	return pc.WriteTo(p, remote)
}

func (c *packetContext) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	return nil
}
