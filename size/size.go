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

// Package size provides a byte-count type that parses and formats
// human-readable units (KB, MB, GB, ...) and plugs into JSON/YAML/TOML via
// the encoding.Text(Un)Marshaler interfaces.
package size

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Size represents a number of bytes.
type Size uint64

const (
	SizeNul  Size = 0
	SizeUnit Size = 1
	SizeKilo Size = 1 << 10
	SizeMega Size = 1 << 20
	SizeGiga Size = 1 << 30
	SizeTera Size = 1 << 40
	SizePeta Size = 1 << 50
	SizeExa  Size = 1 << 60
)

var units = []struct {
	suffix string
	size   Size
}{
	{"EB", SizeExa},
	{"PB", SizePeta},
	{"TB", SizeTera},
	{"GB", SizeGiga},
	{"MB", SizeMega},
	{"KB", SizeKilo},
}

// String renders the size using the largest unit that keeps the value >= 1,
// e.g. "5.00 KB", "100 B".
func (s Size) String() string {
	for _, u := range units {
		if s >= u.size {
			return fmt.Sprintf("%.2f %s", float64(s)/float64(u.size), u.suffix)
		}
	}
	return fmt.Sprintf("%d B", uint64(s))
}

// KiloBytes returns the size rounded down to whole kilobytes.
func (s Size) KiloBytes() uint64 {
	return uint64(s) / uint64(SizeKilo)
}

// MegaBytes returns the size rounded down to whole megabytes.
func (s Size) MegaBytes() uint64 {
	return uint64(s) / uint64(SizeMega)
}

// GigaBytes returns the size rounded down to whole gigabytes.
func (s Size) GigaBytes() uint64 {
	return uint64(s) / uint64(SizeGiga)
}

// Mul multiplies the size in place by f, rounding the result up.
func (s *Size) Mul(f float64) {
	*s = Size(math.Ceil(float64(*s) * f))
}

// Div divides the size in place by f, rounding the result up. A zero
// divisor leaves the size unchanged.
func (s *Size) Div(f float64) {
	if f == 0 {
		return
	}
	*s = Size(math.Ceil(float64(*s) / f))
}

var unitValue = map[string]Size{
	"B":  SizeUnit,
	"K":  SizeKilo,
	"KB": SizeKilo,
	"M":  SizeMega,
	"MB": SizeMega,
	"G":  SizeGiga,
	"GB": SizeGiga,
	"T":  SizeTera,
	"TB": SizeTera,
	"P":  SizePeta,
	"PB": SizePeta,
	"E":  SizeExa,
	"EB": SizeExa,
}

// Parse converts a human-readable size string ("5MB", "1.5G", "100") into a
// Size. A bare number is interpreted as a number of bytes.
func Parse(s string) (Size, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("size: empty value")
	}

	i := 0
	for i < len(s) && (s[i] == '.' || s[i] == '-' || s[i] == '+' || (s[i] >= '0' && s[i] <= '9')) {
		i++
	}

	numPart := s[:i]
	unitPart := strings.ToUpper(strings.TrimSpace(s[i:]))

	if numPart == "" {
		return 0, fmt.Errorf("size: invalid value %q", s)
	}

	f, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fmt.Errorf("size: invalid numeric value %q: %w", numPart, err)
	}

	mult := SizeUnit
	if unitPart != "" {
		u, ok := unitValue[unitPart]
		if !ok {
			return 0, fmt.Errorf("size: unknown unit %q", unitPart)
		}
		mult = u
	}

	return Size(math.Round(f * float64(mult))), nil
}

// ParseSize is a deprecated alias of Parse kept for API compatibility.
func ParseSize(s string) (Size, error) {
	return Parse(s)
}

func (s Size) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Size) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s Size) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(s.String())), nil
}

func (s *Size) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		// allow bare numeric JSON values
		v, e2 := strconv.ParseUint(string(b), 10, 64)
		if e2 != nil {
			return err
		}
		*s = Size(v)
		return nil
	}
	return s.UnmarshalText([]byte(str))
}
