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

// Package config declares the client and server configuration structures
// accepted by the socket and socket/server packages, along with the
// validation rules that must hold before a configuration is handed to the
// network engine.
package config

import (
	"errors"
	"runtime"
)

// MaxGID is the largest Unix group id this package will hand to chown on a
// listening socket's file. Linux caps gid_t at 32-bit but most distributions
// never allocate past the 16-bit range reserved by historical group files.
const MaxGID = 32767

// DefaultMsgLimit is the per-socket write-queue cap applied when a Client or
// Server's MsgLimit is zero or negative: 1 MiB.
const DefaultMsgLimit = 1 << 20

// Sentinel validation errors. Configuration is a leaf concern: callers
// compare against these directly rather than unwrapping a richer error
// hierarchy, so they are kept as plain comparable values.
var (
	ErrInvalidProtocol  = errors.New("socket/config: invalid protocol")
	ErrInvalidTLSConfig = errors.New("socket/config: invalid TLS config")
	ErrInvalidGroup     = errors.New("socket/config: invalid unix group")
)

func isWindows() bool {
	return runtime.GOOS == "windows"
}
