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

package netmsg

import (
	"encoding/binary"

	"github.com/parasolnet/netcore/netstatus"
)

// Decoder is the stateful read side of the framed message protocol. The
// socket's read pump feeds it raw bytes as they arrive; Next parses as many
// complete frames as the accumulated buffer allows, one call per frame,
// exactly mirroring the ReadMsg continuation algorithm: a header check, a
// length-bounded grow, a tail check, and a queue-index reset back to zero
// once a full frame has been consumed.
type Decoder struct {
	limit int
	buf   []byte
}

// NewDecoder returns a Decoder enforcing limit as the maximum payload size
// (SizeLimit when limit <= 0).
func NewDecoder(limit int) *Decoder {
	if limit <= 0 {
		limit = SizeLimit
	}
	return &Decoder{limit: limit}
}

// Feed appends newly read bytes to the decoder's internal queue.
func (d *Decoder) Feed(b []byte) {
	d.buf = append(d.buf, b...)
}

// Next attempts to parse one frame out of the accumulated queue.
//
//   - netstatus.LimitedSuccess: not enough bytes yet for a full frame;
//     progress reports payload bytes buffered so far (0 while the header
//     itself is still incomplete).
//   - netstatus.Okay: a full frame was parsed; payload and crc are valid,
//     and the consumed bytes have been dropped from the queue.
//   - netstatus.InvalidData: the header or tail magic did not match; the
//     queue is reset to zero so the caller can resynchronize on the next
//     byte stream it feeds in.
func (d *Decoder) Next() (payload []byte, crc uint32, progress int, status netstatus.Status) {
	if len(d.buf) < HeaderSize {
		return nil, 0, 0, netstatus.LimitedSuccess
	}

	magic := binary.BigEndian.Uint32(d.buf[0:4])
	if magic != MagicHeader {
		d.buf = d.buf[:0]
		return nil, 0, 0, netstatus.InvalidData
	}

	length := int(binary.BigEndian.Uint32(d.buf[4:8]))
	if length <= 0 || length > d.limit {
		d.buf = d.buf[:0]
		return nil, 0, 0, netstatus.InvalidData
	}

	total := HeaderSize + length + TailSize
	if len(d.buf) < total {
		return nil, 0, len(d.buf) - HeaderSize, netstatus.LimitedSuccess
	}

	tail := d.buf[HeaderSize+length : total]
	if tail[0] != 0 || binary.BigEndian.Uint32(tail[1:5]) != MagicTail {
		d.buf = d.buf[:0]
		return nil, 0, 0, netstatus.InvalidData
	}

	out := make([]byte, length)
	copy(out, d.buf[HeaderSize:HeaderSize+length])
	declaredCRC := binary.BigEndian.Uint32(tail[5:9])

	remainder := len(d.buf) - total
	copy(d.buf, d.buf[total:])
	d.buf = d.buf[:remainder]

	return out, declaredCRC, length, netstatus.Okay
}

// Pending reports the number of unconsumed bytes currently buffered.
func (d *Decoder) Pending() int {
	return len(d.buf)
}
