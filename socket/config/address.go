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
	"net"

	libptc "github.com/parasolnet/netcore/network/protocol"
)

func isTCPFamily(n libptc.NetworkProtocol) bool {
	switch n {
	case libptc.NetworkTCP, libptc.NetworkTCP4, libptc.NetworkTCP6:
		return true
	}
	return false
}

func isUDPFamily(n libptc.NetworkProtocol) bool {
	switch n {
	case libptc.NetworkUDP, libptc.NetworkUDP4, libptc.NetworkUDP6:
		return true
	}
	return false
}

func isUnixFamily(n libptc.NetworkProtocol) bool {
	switch n {
	case libptc.NetworkUnix, libptc.NetworkUnixGram:
		return true
	}
	return false
}

// validateProtocol rejects any protocol this package does not construct a
// socket for, and rejects Unix sockets on platforms that do not support
// them.
func validateProtocol(n libptc.NetworkProtocol) error {
	switch {
	case isTCPFamily(n), isUDPFamily(n):
		return nil
	case isUnixFamily(n):
		if isWindows() {
			return ErrInvalidProtocol
		}
		return nil
	default:
		return ErrInvalidProtocol
	}
}

// resolveAddress confirms address is well-formed for the given protocol by
// running it through the matching stdlib resolver. It performs no network
// I/O beyond what the resolver itself does for unresolved hostnames.
func resolveAddress(n libptc.NetworkProtocol, address string) error {
	switch {
	case isTCPFamily(n):
		_, err := net.ResolveTCPAddr(n.String(), address)
		return err
	case isUDPFamily(n):
		_, err := net.ResolveUDPAddr(n.String(), address)
		return err
	case isUnixFamily(n):
		_, err := net.ResolveUnixAddr(n.String(), address)
		return err
	default:
		return ErrInvalidProtocol
	}
}
