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

// Package netaddr provides byte-order conversion and address parsing helpers
// used throughout the socket engine and the framed message protocol: network
// (big-endian, "wire") order conversions for protocol headers, and a thin
// spec-shaped wrapper over net/netip for the V4/V6 tagged address union.
package netaddr

import "math/bits"

// All Go build targets this module ships for (amd64, arm64) are little
// endian, so the host/network swap is unconditional byte reversal, mirroring
// htons/htonl on every BSD/Linux/Windows target the original relied on.

// HostToNetShort converts a 16-bit host-order value to network (big-endian)
// byte order.
func HostToNetShort(v uint16) uint16 {
	return bits.ReverseBytes16(v)
}

// NetToHostShort converts a 16-bit network-order value to host byte order.
// The swap is its own inverse, so this is the same operation as
// HostToNetShort; the distinct name mirrors the wire-protocol call sites it
// pairs with.
func NetToHostShort(v uint16) uint16 {
	return bits.ReverseBytes16(v)
}

// HostToNetLong converts a 32-bit host-order value to network (big-endian)
// byte order.
func HostToNetLong(v uint32) uint32 {
	return bits.ReverseBytes32(v)
}

// NetToHostLong converts a 32-bit network-order value to host byte order.
func NetToHostLong(v uint32) uint32 {
	return bits.ReverseBytes32(v)
}
