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

package config

import (
	libtls "github.com/parasolnet/netcore/certificates"
	libdur "github.com/parasolnet/netcore/duration"
	libprm "github.com/parasolnet/netcore/file/perm"
	libptc "github.com/parasolnet/netcore/network/protocol"
)

// Server describes the local endpoint a socket listener will bind to, plus
// the Unix-socket file ownership and connection lifecycle settings that
// only make sense on the accepting side.
type Server struct {
	// Network selects the transport/address family: one of the TCP, UDP or
	// Unix variants of network/protocol.
	Network libptc.NetworkProtocol

	// Address is the listen target, in the form accepted by the stdlib
	// net.Resolve*Addr function matching Network.
	Address string

	// PermFile is the file mode applied to a Unix socket's path after bind.
	PermFile libprm.Perm

	// GroupPerm is the Unix group id chowned onto a Unix socket's path
	// after bind. -1 leaves the group untouched.
	GroupPerm int32

	// ConIdleTimeout is an idle-connection timeout carried in the
	// configuration. The socket/server engine does not read it: no idle
	// timeout is applied to accepted connections.
	ConIdleTimeout libdur.Duration

	// Backlog is the listen() queue length. Zero means DefaultBacklog.
	Backlog int

	// ClientLimit caps the number of distinct remote IP addresses a
	// stream-family server will track at once; an accept past the limit is
	// closed immediately without a client record or a Feedback callback.
	// Zero means DefaultClientLimit.
	ClientLimit int

	// MultiConnect allows a remote IP already holding a connection to open
	// additional ones. When false, a second connection attempt from an IP
	// already present in the client graph is closed immediately.
	MultiConnect bool

	// TLS configures an optional TLS layer wrapped around accepted
	// connections. Only meaningful for TCP-family networks.
	TLS struct {
		Enabled bool
		Config  libtls.Config
	}

	// MsgLimit caps each per-connection socket's write queue in bytes: a
	// Write that would push queued-but-unsent bytes past this limit is
	// rejected in full. Zero means DefaultMsgLimit.
	MsgLimit int
}

// DefaultBacklog is the listen() queue length applied when Backlog is zero.
const DefaultBacklog = 10

// DefaultClientLimit is the distinct-IP cap applied when ClientLimit is
// zero or negative.
const DefaultClientLimit = 1024

// Validate checks that Network and Address form a bindable endpoint, that
// GroupPerm is in range, and that TLS settings, when enabled, carry at
// least one usable certificate.
func (s Server) Validate() error {
	if err := validateProtocol(s.Network); err != nil {
		return err
	}

	if err := resolveAddress(s.Network, s.Address); err != nil {
		return err
	}

	if s.GroupPerm > MaxGID {
		return ErrInvalidGroup
	}

	if s.TLS.Enabled {
		if !isTCPFamily(s.Network) {
			return ErrInvalidTLSConfig
		}
		if len(s.TLS.Config.Certs) == 0 {
			return ErrInvalidTLSConfig
		}
	}

	return nil
}

// DefaultTLS fills in cfg as the server's TLS configuration. A nil cfg is a
// no-op.
func (s *Server) DefaultTLS(cfg libtls.TLSConfig) {
	if cfg == nil {
		return
	}
	s.TLS.Config = *cfg.Config()
}

// GetTLS reports whether TLS is enabled for this server and, if so, returns
// the resolved TLSConfig.
func (s Server) GetTLS() (bool, libtls.TLSConfig) {
	if !s.TLS.Enabled {
		return false, nil
	}
	return true, s.TLS.Config.New()
}

// GetBacklog returns Backlog, or DefaultBacklog when it is zero or
// negative.
func (s Server) GetBacklog() int {
	if s.Backlog <= 0 {
		return DefaultBacklog
	}
	return s.Backlog
}

// GetClientLimit returns ClientLimit, or DefaultClientLimit when it is zero
// or negative.
func (s Server) GetClientLimit() int {
	if s.ClientLimit <= 0 {
		return DefaultClientLimit
	}
	return s.ClientLimit
}

// GetMsgLimit returns MsgLimit, or DefaultMsgLimit when it is zero or
// negative.
func (s Server) GetMsgLimit() int {
	if s.MsgLimit <= 0 {
		return DefaultMsgLimit
	}
	return s.MsgLimit
}
