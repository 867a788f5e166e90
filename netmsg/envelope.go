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

// Package netmsg implements the length-prefixed, CRC-checked message
// envelope used to frame application payloads on top of a connected socket:
// a 4-byte magic header, a 4-byte big-endian length, the payload, a zero
// byte, a 4-byte magic tail, and a 4-byte CRC32 of the payload.
package netmsg

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/parasolnet/netcore/netstatus"
)

const (
	// MagicHeader opens every framed message.
	MagicHeader uint32 = 0x941B80A5
	// MagicTail closes the payload section of every framed message.
	MagicTail uint32 = 0xA58F6B01

	// HeaderSize is the size in bytes of the magic header plus length field.
	HeaderSize = 8
	// TailSize is the size in bytes of the zero byte, magic tail and CRC32.
	TailSize = 9

	// SizeLimit is the default maximum payload length (1 MiB).
	SizeLimit = 1 << 20
)

// WriteMsg encodes payload into the framed envelope. It returns
// netstatus.OutOfRange if len(payload) is 0 or exceeds limit (SizeLimit when
// limit <= 0).
func WriteMsg(payload []byte, limit int) ([]byte, netstatus.Status) {
	if limit <= 0 {
		limit = SizeLimit
	}
	if len(payload) == 0 || len(payload) > limit {
		return nil, netstatus.OutOfRange
	}

	buf := make([]byte, HeaderSize+len(payload)+TailSize)

	binary.BigEndian.PutUint32(buf[0:4], MagicHeader)
	binary.BigEndian.PutUint32(buf[4:8], uint32(len(payload)))
	copy(buf[HeaderSize:], payload)

	tail := buf[HeaderSize+len(payload):]
	tail[0] = 0
	binary.BigEndian.PutUint32(tail[1:5], MagicTail)
	binary.BigEndian.PutUint32(tail[5:9], crc32.ChecksumIEEE(payload))

	return buf, netstatus.Okay
}
