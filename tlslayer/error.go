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

package tlslayer

import "github.com/parasolnet/netcore/errors"

const (
	ErrorNoCertificate errors.CodeError = iota + errors.MinPkgTLSLayer
	ErrorEphemeralCert
	ErrorHandshakeFailed
	ErrorRecallExhausted
	ErrorShutdownFailed
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorNoCertificate)
	errors.RegisterIdFctMessage(ErrorNoCertificate, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UNK_ERROR:
		return ""
	case ErrorNoCertificate:
		return "tls: no certificate configured for server role"
	case ErrorEphemeralCert:
		return "tls: cannot synthesize ephemeral certificate"
	case ErrorHandshakeFailed:
		return "tls: handshake failed"
	case ErrorRecallExhausted:
		return "tls: recall attempts exhausted with no forward progress"
	case ErrorShutdownFailed:
		return "tls: bidirectional shutdown failed"
	}

	return ""
}
