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
	"encoding/json"

	"github.com/fxamacker/cbor/v2"
)

// MarshalJSON returns the JSON encoding of the protocol, the quoted lowercase
// name, or `""` for NetworkEmpty and undefined values.
func (n NetworkProtocol) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.String())
}

// MarshalYAML returns the YAML encoding of the protocol.
func (n NetworkProtocol) MarshalYAML() (interface{}, error) {
	return n.String(), nil
}

// MarshalTOML returns the TOML encoding of the protocol.
func (n NetworkProtocol) MarshalTOML() ([]byte, error) {
	return json.Marshal(n.String())
}

// MarshalText returns the text encoding of the protocol.
func (n NetworkProtocol) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// MarshalCBOR returns the CBOR encoding of the protocol's name.
func (n NetworkProtocol) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(n.String())
}
