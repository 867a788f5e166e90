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

package netmsg_test

import (
	"bytes"

	. "github.com/parasolnet/netcore/netmsg"
	"github.com/parasolnet/netcore/netstatus"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("WriteMsg", func() {
	It("rejects a zero-length payload", func() {
		_, status := WriteMsg(nil, 0)
		Expect(status).To(Equal(netstatus.OutOfRange))
	})

	It("accepts a payload exactly at the limit", func() {
		payload := bytes.Repeat([]byte{0x41}, 16)
		_, status := WriteMsg(payload, 16)
		Expect(status).To(Equal(netstatus.Okay))
	})

	It("rejects a payload one byte over the limit", func() {
		payload := bytes.Repeat([]byte{0x41}, 17)
		_, status := WriteMsg(payload, 16)
		Expect(status).To(Equal(netstatus.OutOfRange))
	})

	It("produces a frame with the documented magic header and tail", func() {
		framed, status := WriteMsg([]byte("Hello"), 0)
		Expect(status).To(Equal(netstatus.Okay))
		Expect(framed[0:4]).To(Equal([]byte{0x94, 0x1B, 0x80, 0xA5}))
		Expect(framed[4:8]).To(Equal([]byte{0, 0, 0, 5}))
		Expect(framed[8:13]).To(Equal([]byte("Hello")))
		Expect(framed[13]).To(Equal(byte(0)))
		Expect(framed[14:18]).To(Equal([]byte{0xA5, 0x8F, 0x6B, 0x01}))
		Expect(framed[18:22]).To(Equal([]byte{0xF7, 0xD1, 0x89, 0x82}))
	})
})

var _ = Describe("Decoder", func() {
	It("round-trips a single frame fed in one piece", func() {
		framed, _ := WriteMsg([]byte("Hello"), 0)

		d := NewDecoder(0)
		d.Feed(framed)

		payload, crc, _, status := d.Next()
		Expect(status).To(Equal(netstatus.Okay))
		Expect(payload).To(Equal([]byte("Hello")))
		Expect(crc).To(Equal(uint32(0xF7D18982)))
		Expect(d.Pending()).To(Equal(0))
	})

	It("reports LimitedSuccess while the header is incomplete", func() {
		d := NewDecoder(0)
		d.Feed([]byte{0x94, 0x1B})

		_, _, _, status := d.Next()
		Expect(status).To(Equal(netstatus.LimitedSuccess))
	})

	It("reports LimitedSuccess with payload progress while the body is incomplete", func() {
		framed, _ := WriteMsg([]byte("Hello"), 0)

		d := NewDecoder(0)
		d.Feed(framed[:10])

		_, _, progress, status := d.Next()
		Expect(status).To(Equal(netstatus.LimitedSuccess))
		Expect(progress).To(Equal(2))
	})

	It("parses a frame fed byte by byte across many calls", func() {
		framed, _ := WriteMsg([]byte("Hello"), 0)

		d := NewDecoder(0)
		var status netstatus.Status
		var payload []byte

		for _, b := range framed {
			d.Feed([]byte{b})
			payload, _, _, status = d.Next()
			if status == netstatus.Okay {
				break
			}
		}

		Expect(status).To(Equal(netstatus.Okay))
		Expect(payload).To(Equal([]byte("Hello")))
	})

	It("resets the queue and reports InvalidData on a bad header magic", func() {
		d := NewDecoder(0)
		d.Feed([]byte{0, 0, 0, 0, 0, 0, 0, 5})

		_, _, _, status := d.Next()
		Expect(status).To(Equal(netstatus.InvalidData))
		Expect(d.Pending()).To(Equal(0))
	})

	It("reports InvalidData on a bad tail magic", func() {
		framed, _ := WriteMsg([]byte("Hello"), 0)
		framed[14] = 0xFF

		d := NewDecoder(0)
		d.Feed(framed)

		_, _, _, status := d.Next()
		Expect(status).To(Equal(netstatus.InvalidData))
	})

	It("parses consecutive frames on the same stream", func() {
		first, _ := WriteMsg([]byte("one"), 0)
		second, _ := WriteMsg([]byte("two"), 0)

		d := NewDecoder(0)
		d.Feed(first)
		d.Feed(second)

		p1, _, _, s1 := d.Next()
		Expect(s1).To(Equal(netstatus.Okay))
		Expect(p1).To(Equal([]byte("one")))

		p2, _, _, s2 := d.Next()
		Expect(s2).To(Equal(netstatus.Okay))
		Expect(p2).To(Equal([]byte("two")))
	})

	It("rejects a declared length over the configured limit", func() {
		framed, _ := WriteMsg([]byte("Hello"), 0)

		d := NewDecoder(4)
		d.Feed(framed)

		_, _, _, status := d.Next()
		Expect(status).To(Equal(netstatus.InvalidData))
	})
})
