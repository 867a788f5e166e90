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

// Package dns implements the asynchronous resolver: name/address lookups
// backed by a monotonically growing cache, with cache misses dispatched to
// transient worker goroutines and their results delivered through a single
// serializing dispatcher, so user callbacks never run concurrently with
// each other even though lookups do.
package dns

import (
	"time"

	"github.com/parasolnet/netcore/netaddr"
)

// Entry is a cached resolution result: a canonical hostname and the
// addresses it resolves to (name lookup), or the single hostname an
// address resolves to (reverse lookup, reported as the sole Addresses
// entry's companion Name field).
type Entry struct {
	// Name is the canonical hostname.
	Name string
	// Addresses is the resolved address set (name lookups) or the single
	// queried address (reverse lookups).
	Addresses []netaddr.Address

	fetchedAt time.Time
}

// Count returns the number of addresses carried by the entry.
func (e *Entry) Count() int {
	if e == nil {
		return 0
	}
	return len(e.Addresses)
}

func (e *Entry) age() time.Duration {
	if e == nil || e.fetchedAt.IsZero() {
		return 0
	}
	return time.Since(e.fetchedAt)
}
