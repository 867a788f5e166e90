/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2022 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

package protocol

import (
	"math"
	"strings"
)

var byName = func() map[string]NetworkProtocol {
	m := make(map[string]NetworkProtocol, len(names))
	for k, v := range names {
		m[v] = k
	}
	return m
}()

// Parse returns the NetworkProtocol matching s, case-insensitively, after
// trimming surrounding whitespace and a single layer of quoting ("...",
// `...`). It returns NetworkEmpty when s does not match any known name.
func Parse(s string) NetworkProtocol {
	s = strings.TrimSpace(s)
	s = unquote(s)
	if p, ok := byName[strings.ToLower(s)]; ok {
		return p
	}
	return NetworkEmpty
}

// ParseBytes is the []byte form of Parse.
func ParseBytes(b []byte) NetworkProtocol {
	return Parse(string(b))
}

// ParseInt64 returns the NetworkProtocol whose ordinal value equals i. It
// returns NetworkEmpty for negative values, values above math.MaxUint8, or
// any value not assigned to a protocol constant.
func ParseInt64(i int64) NetworkProtocol {
	if i < 0 || i > math.MaxUint8 {
		return NetworkEmpty
	}

	p := NetworkProtocol(i)
	if _, ok := names[p]; ok {
		return p
	}

	return NetworkEmpty
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '`' && last == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
