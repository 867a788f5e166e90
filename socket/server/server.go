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

// Package server implements the accepting side of the socket engine: one
// implementation of socket.Server shared by every stream and datagram
// transport in network/protocol, dispatched on the configured Network, each
// accepted connection (or received datagram) handed to a socket.HandlerFunc.
package server

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"sync/atomic"

	"github.com/parasolnet/netcore/netaddr"
	libptc "github.com/parasolnet/netcore/network/protocol"
	libsck "github.com/parasolnet/netcore/socket"
	libcfg "github.com/parasolnet/netcore/socket/config"
	libtls "github.com/parasolnet/netcore/tlslayer"
)

// ErrRecordNotFound is returned by DisconnectClient when no client record
// exists for the requested address.
var ErrRecordNotFound = fmt.Errorf("socket/server: no client record for that address")

// TCPServer is the server returned by New for a TCP-family listener: it
// layers spec §6's server-only operations (GetLocalIPAddress,
// DisconnectClient, DisconnectSocket) and client-graph introspection on top
// of the transport-agnostic socket.Server. A caller who knows they built a
// TCP server can recover it with a type assertion:
//
//	ts := srv.(server.TCPServer)
type TCPServer interface {
	libsck.Server

	GetLocalIPAddress() (net.IP, error)
	ClientCount() int
	ConnectionCount(addr netaddr.Address) int
	DisconnectClient(addr netaddr.Address) error
	DisconnectSocket(conn libsck.Context) error
}

var _ TCPServer = (*engine)(nil)

// engine is the shared socket.Server implementation. It additionally
// exposes the spec §6 server-only operations (GetLocalIPAddress,
// DisconnectClient, DisconnectSocket) and the per-IP client graph, which
// the generic socket.Server interface does not carry since they only make
// sense for a TCP-family listener.
type engine struct {
	cfg    libcfg.Server
	update libsck.UpdateConn
	handle libsck.HandlerFunc

	mu      sync.Mutex
	onErr   libsck.FuncError
	onInfo  libsck.FuncInfo
	tlsCfg  libtls.Config
	running atomic.Bool
	open    atomic.Int64

	ln    net.Listener
	pc    net.PacketConn
	wg    sync.WaitGroup
	graph *clientGraph
}

// New returns a Server listening on cfg's endpoint and dispatching every
// accepted connection (stream transports) or datagram (packet transports)
// to handle. update, when non-nil, customizes each raw net.Conn before any
// TLS handshake and before the handler runs.
func New(update libsck.UpdateConn, handle libsck.HandlerFunc, cfg libcfg.Server) (libsck.Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &engine{cfg: cfg, update: update, handle: handle}
	e.graph = newClientGraph(cfg.GetClientLimit(), cfg.MultiConnect)

	if ok, tc := cfg.GetTLS(); ok {
		e.tlsCfg = libtls.Config{TLS: tc}
	}

	return e, nil
}

// NewTCP returns a server listening on address for plaintext TCP
// connections.
func NewTCP(address string, handle libsck.HandlerFunc) (libsck.Server, error) {
	return New(nil, handle, libcfg.Server{Network: libptc.NetworkTCP, Address: address})
}

// NewUDP returns a server listening on address for UDP datagrams.
func NewUDP(address string, handle libsck.HandlerFunc) (libsck.Server, error) {
	return New(nil, handle, libcfg.Server{Network: libptc.NetworkUDP, Address: address})
}

// NewUnix returns a server listening on the socket file path for Unix
// domain stream connections.
func NewUnix(path string, handle libsck.HandlerFunc) (libsck.Server, error) {
	return New(nil, handle, libcfg.Server{Network: libptc.NetworkUnix, Address: path})
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

// info invokes the registered Feedback callback, if any, with the
// per-connection Context the transition concerns (nil for a datagram
// server's socket-level transitions, which have no persistent Context).
func (e *engine) info(local, remote net.Addr, conn libsck.Context, state libsck.ConnState) {
	e.mu.Lock()
	f := e.onInfo
	e.mu.Unlock()
	if f != nil {
		f(local, remote, conn, state)
	}
}

func (e *engine) IsRunning() bool {
	return e.running.Load()
}

func (e *engine) OpenConnections() int {
	return int(e.open.Load())
}

func isStreamFamily(n libptc.NetworkProtocol) bool {
	switch n {
	case libptc.NetworkTCP, libptc.NetworkTCP4, libptc.NetworkTCP6, libptc.NetworkUnix:
		return true
	}
	return false
}

func isTCPNetwork(n libptc.NetworkProtocol) bool {
	switch n {
	case libptc.NetworkTCP, libptc.NetworkTCP4, libptc.NetworkTCP6:
		return true
	}
	return false
}

// Listen binds the configured endpoint and accepts until ctx is canceled or
// Shutdown is called.
func (e *engine) Listen(ctx context.Context) error {
	network := e.cfg.Network.String()

	if isStreamFamily(e.cfg.Network) {
		var ln net.Listener
		var err error
		if isTCPNetwork(e.cfg.Network) {
			ln, err = listenStream(ctx, network, e.cfg.Address, e.cfg.GetBacklog())
		} else {
			ln, err = net.Listen(network, e.cfg.Address)
		}
		if err != nil {
			wrapped := ErrorListenFailed.Error(err)
			e.raise(wrapped)
			return wrapped
		}

		if e.cfg.Network == libptc.NetworkUnix {
			applyUnixPerms(e.cfg, e.cfg.Address)
		}

		e.mu.Lock()
		e.ln = ln
		e.mu.Unlock()
		e.running.Store(true)
		defer e.running.Store(false)

		go func() {
			<-ctx.Done()
			_ = ln.Close()
		}()

		for {
			conn, err := ln.Accept()
			if err != nil {
				if !e.running.Load() {
					return nil
				}
				if libsck.ErrorFilter(err) == nil {
					return nil
				}
				e.raise(err)
				return err
			}

			e.wg.Add(1)
			e.open.Add(1)
			go e.serveStream(conn)
		}
	}

	pc, err := net.ListenPacket(network, e.cfg.Address)
	if err != nil {
		wrapped := ErrorListenFailed.Error(err)
		e.raise(wrapped)
		return wrapped
	}

	e.mu.Lock()
	e.pc = pc
	e.mu.Unlock()
	e.running.Store(true)
	defer e.running.Store(false)

	go func() {
		<-ctx.Done()
		_ = pc.Close()
	}()

	buf := make([]byte, libsck.DefaultBufferSize)
	for {
		n, addr, err := pc.ReadFrom(buf)
		if err != nil {
			if !e.running.Load() {
				return nil
			}
			if libsck.ErrorFilter(err) == nil {
				return nil
			}
			e.raise(err)
			return err
		}

		payload := make([]byte, n)
		copy(payload, buf[:n])

		e.wg.Add(1)
		e.open.Add(1)
		go e.serveDatagram(pc, addr, payload)
	}
}

func (e *engine) serveStream(conn net.Conn) {
	defer e.wg.Done()
	defer e.open.Add(-1)

	// Spec §4.6.1 steps 1-4: reject over-capacity and (unless MultiConnect
	// is set) duplicate-IP accepts before any Feedback or handler runs, and
	// with no client record created for the rejected attempt.
	var rec *ClientRecord
	if isTCPNetwork(e.cfg.Network) {
		addr, ok := addrFromNetAddr(conn.RemoteAddr())
		if ok {
			var rejected bool
			rec, rejected = e.graph.accept(addr)
			if rejected {
				_ = conn.Close()
				return
			}
		}
	}

	cc := &connContext{Context: context.Background(), conn: conn, connected: true, msgLimit: e.cfg.GetMsgLimit()}
	if rec != nil {
		e.graph.attach(rec, cc)
	}
	defer func() {
		if rec != nil {
			e.graph.detach(cc)
		}
	}()

	if e.update != nil {
		e.update(conn)
	}

	local, remote := conn.LocalAddr(), conn.RemoteAddr()

	if e.tlsCfg.TLS != nil || e.tlsCfg.AllowEphemeralServerCert {
		e.info(local, remote, cc, libsck.ConnectingTLS)

		l, err := libtls.New(conn, libtls.Server, e.tlsCfg)
		if err != nil {
			e.raise(err)
			_ = cc.Close()
			e.info(local, remote, cc, libsck.Disconnected)
			return
		}
		if err := runAcceptHandshake(l); err != nil {
			e.raise(ErrorHandshakeFailed.Error(err))
			_ = cc.Close()
			e.info(local, remote, cc, libsck.Disconnected)
			return
		}
		cc.mu.Lock()
		cc.layer = l
		cc.mu.Unlock()
	}

	// Feedback(CONNECTED) is delivered before any Incoming-equivalent
	// dispatch (spec §4.6.1 step 6 / §5 ordering guarantee).
	e.info(local, remote, cc, libsck.Connected)
	if e.handle != nil {
		e.handle(cc)
	}

	_ = cc.Close()
	e.info(local, remote, cc, libsck.Disconnected)
}

func runAcceptHandshake(layer *libtls.Layer) error {
	bg := context.Background()
	for {
		if st := layer.Connect(bg); !st.IsOkay() {
			return st
		}
		if layer.Busy() == libtls.NotBusy {
			return nil
		}
	}
}

func (e *engine) serveDatagram(pc net.PacketConn, addr net.Addr, payload []byte) {
	defer e.wg.Done()
	defer e.open.Add(-1)

	cc := &packetContext{Context: context.Background(), pc: pc, remote: addr, payload: payload, connected: true}

	e.info(pc.LocalAddr(), addr, cc, libsck.Connected)
	if e.handle != nil {
		e.handle(cc)
	}

	e.info(pc.LocalAddr(), addr, cc, libsck.Disconnected)
}

// Shutdown stops accepting and waits for in-flight handlers to return, or
// for ctx to expire, whichever comes first.
func (e *engine) Shutdown(ctx context.Context) error {
	e.running.Store(false)

	e.mu.Lock()
	ln, pc := e.ln, e.pc
	e.mu.Unlock()

	if ln != nil {
		_ = ln.Close()
	}
	if pc != nil {
		_ = pc.Close()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ErrorShutdownTimeout.Error(ctx.Err())
	}
}

func applyUnixPerms(cfg libcfg.Server, path string) {
	if cfg.PermFile != 0 {
		_ = os.Chmod(path, cfg.PermFile.FileMode())
	}
	if cfg.GroupPerm >= 0 {
		_ = os.Chown(path, -1, int(cfg.GroupPerm))
	}
}

// GetLocalIPAddress implements spec §6's server operation of the same
// name: the IP the listener is bound to. It only applies once Listen has
// bound a stream-family socket.
func (e *engine) GetLocalIPAddress() (net.IP, error) {
	e.mu.Lock()
	ln := e.ln
	e.mu.Unlock()

	if ln == nil {
		return nil, ErrorNotListening.Error(nil)
	}
	tcpAddr, ok := ln.Addr().(*net.TCPAddr)
	if !ok {
		return nil, ErrorNotListening.Error(nil)
	}
	return tcpAddr.IP, nil
}

// ClientCount returns the number of distinct remote IP addresses currently
// aggregated in the server's client graph (spec §8 invariant 2).
func (e *engine) ClientCount() int {
	return e.graph.totalClients()
}

// ConnectionCount returns the number of open connections from addr, or 0
// if addr has no client record.
func (e *engine) ConnectionCount(addr netaddr.Address) int {
	rec, ok := e.graph.clientRecord(addr)
	if !ok {
		return 0
	}
	return rec.ConnectionCount()
}

// DisconnectClient implements spec §6's disconnectClient: every connection
// currently open from addr is closed, cascading through the same teardown
// path as a peer-initiated close (spec §4.6.3) — each closed connection
// still gets its own Feedback(DISCONNECTED), and the client record itself
// is removed once its last connection detaches.
func (e *engine) DisconnectClient(addr netaddr.Address) error {
	rec, ok := e.graph.clientRecord(addr)
	if !ok {
		return ErrRecordNotFound
	}
	for _, cc := range rec.snapshotConns() {
		_ = cc.Close()
	}
	return nil
}

// DisconnectSocket implements spec §6's disconnectSocket: closes one
// specific connection, previously handed to a HandlerFunc via
// socket.Context, without touching any other connection from the same
// client.
func (e *engine) DisconnectSocket(conn libsck.Context) error {
	cc, ok := conn.(*connContext)
	if !ok {
		return ErrorInvalidConnection.Error(nil)
	}
	return cc.Close()
}
