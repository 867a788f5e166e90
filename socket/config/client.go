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
	libptc "github.com/parasolnet/netcore/network/protocol"
)

// Client describes the remote endpoint and transport a socket dialer will
// connect to.
type Client struct {
	// Network selects the transport/address family: one of the TCP, UDP or
	// Unix variants of network/protocol.
	Network libptc.NetworkProtocol

	// Address is the dial target, in the form accepted by the stdlib
	// net.Resolve*Addr function matching Network (host:port for TCP/UDP,
	// a filesystem path for Unix).
	Address string

	// TLS configures an optional TLS layer wrapped around the dialed
	// connection. Only meaningful for TCP-family networks.
	TLS struct {
		Enabled    bool
		Config     libtls.Config
		ServerName string
	}

	// MsgLimit caps the socket's write queue in bytes: an Write that would
	// push queued-but-unsent bytes past this limit is rejected in full.
	// Zero means DefaultMsgLimit.
	MsgLimit int
}

// GetMsgLimit returns MsgLimit, or DefaultMsgLimit when it is zero or
// negative.
func (c Client) GetMsgLimit() int {
	if c.MsgLimit <= 0 {
		return DefaultMsgLimit
	}
	return c.MsgLimit
}

// Validate checks that Network and Address form a resolvable endpoint and,
// when TLS is enabled, that the TLS settings are usable.
func (c Client) Validate() error {
	if err := validateProtocol(c.Network); err != nil {
		return err
	}

	if err := resolveAddress(c.Network, c.Address); err != nil {
		return err
	}

	if c.TLS.Enabled {
		if !isTCPFamily(c.Network) {
			return ErrInvalidTLSConfig
		}
		if c.TLS.ServerName == "" {
			return ErrInvalidTLSConfig
		}
	}

	return nil
}

// DefaultTLS sets cfg as the client's TLS configuration, replacing any
// configuration already set, whether or not TLS is enabled. A nil cfg is a
// no-op.
func (c *Client) DefaultTLS(cfg libtls.TLSConfig) {
	if cfg == nil {
		return
	}
	c.TLS.Config = *cfg.Config()
}

// GetTLS reports whether TLS is enabled for this client and, if so, returns
// the resolved TLSConfig and the server name to present during handshake.
func (c Client) GetTLS() (bool, libtls.TLSConfig, string) {
	if !c.TLS.Enabled {
		return false, nil, ""
	}
	return true, c.TLS.Config.New(), c.TLS.ServerName
}
