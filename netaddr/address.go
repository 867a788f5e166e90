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

package netaddr

import (
	"errors"
	"net/netip"
)

// ErrInvalidAddress is returned when a string does not parse as a valid IPv4
// or IPv6 address.
var ErrInvalidAddress = errors.New("netaddr: invalid address")

// Address is a tagged V4/V6 address union, matching the GLOSSARY's "IP
// address" entry. It wraps netip.Addr, which already distinguishes the two
// families internally, rather than hand-rolling a 16-byte union.
type Address struct {
	addr netip.Addr
}

// IsV4 reports whether the address is an IPv4 address (or an IPv4-mapped
// IPv6 address).
func (a Address) IsV4() bool {
	return a.addr.Is4() || a.addr.Is4In6()
}

// IsV6 reports whether the address is a (non-mapped) IPv6 address.
func (a Address) IsV6() bool {
	return a.addr.Is6() && !a.addr.Is4In6()
}

// IsValid reports whether the address holds a parsed value.
func (a Address) IsValid() bool {
	return a.addr.IsValid()
}

// Netip returns the underlying net/netip representation.
func (a Address) Netip() netip.Addr {
	return a.addr
}

// Bytes returns the raw address bytes: 4 bytes for V4, 16 for V6.
func (a Address) Bytes() []byte {
	if !a.addr.IsValid() {
		return nil
	}
	b := a.addr.As16()
	if a.IsV4() {
		v4 := a.addr.As4()
		return v4[:]
	}
	return b[:]
}

// String returns the textual form of the address ("" if invalid).
func (a Address) String() string {
	if !a.addr.IsValid() {
		return ""
	}
	return a.addr.String()
}

// ParseV4 parses s as an IPv4 dotted-quad address.
func ParseV4(s string) (Address, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is4() {
		return Address{}, ErrInvalidAddress
	}
	return Address{addr: addr}, nil
}

// ParseV6 parses s as an IPv6 address.
func ParseV6(s string) (Address, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is6() {
		return Address{}, ErrInvalidAddress
	}
	return Address{addr: addr}, nil
}

// StrToAddress parses s as either an IPv4 or IPv6 address, selecting the
// family automatically — the Go-native equivalent of the original's
// "parse into whichever union member matches" behavior.
func StrToAddress(s string) (Address, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return Address{}, ErrInvalidAddress
	}
	return Address{addr: addr}, nil
}

// AddressToStr returns the textual representation of a, or "" if a is the
// zero value.
func AddressToStr(a Address) string {
	return a.String()
}

// FromBytes builds an Address from 4 (V4) or 16 (V6) raw bytes.
func FromBytes(b []byte) (Address, error) {
	switch len(b) {
	case 4:
		var a4 [4]byte
		copy(a4[:], b)
		return Address{addr: netip.AddrFrom4(a4)}, nil
	case 16:
		var a16 [16]byte
		copy(a16[:], b)
		return Address{addr: netip.AddrFrom16(a16)}, nil
	default:
		return Address{}, ErrInvalidAddress
	}
}
