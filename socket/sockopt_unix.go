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

//go:build !windows

package socket

import (
	"context"
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// listenerConfig returns the platform's net.ListenConfig for a stream-family
// listener, with SO_REUSEADDR applied the way the original's BSD socket
// path (netsocket.cpp) sets it before bind, so a server can rebind a port
// still draining TIME_WAIT connections from a previous run.
func listenerConfig() net.ListenConfig {
	return net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			var sockErr error
			if err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			}); err != nil {
				return err
			}
			return sockErr
		},
	}
}

// listenStream binds network/address using listenerConfig's socket options.
// backlog is accepted for API symmetry with the Windows shim and with
// spec §6's Backlog option; the Go runtime's listen(2) call does not expose
// a portable way to override the kernel's backlog past SOMAXCONN, so on
// Unix the kernel's configured maximum governs it regardless of this value.
func listenStream(ctx context.Context, network, address string, backlog int) (net.Listener, error) {
	_ = backlog
	return listenerConfig().Listen(ctx, network, address)
}
