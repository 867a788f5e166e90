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

// Package netstatus defines the shared result-code vocabulary returned by
// the socket engine, the framed message codec, the TLS layer and the DNS
// resolver. It is the Go-native analogue of the original's single
// error-code enum shared by every network primitive, kept as one small
// dependency-free package so socket/netmsg/tlslayer/dns can all return the
// same status without importing each other.
package netstatus

// Status is a result code returned from non-blocking network operations.
// Okay covers both genuine success and the benign would-block condition;
// callers distinguish the two, when it matters, via accompanying byte
// counts.
type Status uint8

const (
	Okay Status = iota
	LimitedSuccess
	OutOfRange
	InvalidData
	BufferOverflow
	Args
	InvalidState
	HostNotFound
	Failed
	ConnectionRefused
	NetworkUnreachable
	DataSize
	Disconnected
	SystemCall
	AllocMemory
	Terminate
)

var names = map[Status]string{
	Okay:                "okay",
	LimitedSuccess:      "limited success",
	OutOfRange:          "out of range",
	InvalidData:         "invalid data",
	BufferOverflow:      "buffer overflow",
	Args:                "invalid arguments",
	InvalidState:        "invalid state",
	HostNotFound:        "host not found",
	Failed:              "failed",
	ConnectionRefused:   "connection refused",
	NetworkUnreachable:  "network unreachable",
	DataSize:            "data size exceeded",
	Disconnected:        "disconnected",
	SystemCall:          "system call error",
	AllocMemory:         "allocation failure",
	Terminate:           "terminate",
}

// String returns a human-readable label for the status.
func (s Status) String() string {
	if n, ok := names[s]; ok {
		return n
	}
	return "unknown"
}

// IsOkay reports whether s represents forward progress (Okay or
// LimitedSuccess), matching the callback propagation policy: these two
// codes let the caller continue, every other code is treated as an error.
func (s Status) IsOkay() bool {
	return s == Okay || s == LimitedSuccess
}

// Error implements the error interface so a Status can be returned directly
// wherever Go idiom expects an error, while IsOkay/Okay/LimitedSuccess keep
// the non-error continuation cases distinguishable.
func (s Status) Error() string {
	return s.String()
}
