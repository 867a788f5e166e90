/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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
 */

// Package startStop provides a small, goroutine-safe Start/Stop/Restart
// lifecycle wrapper around a pair of caller-supplied functions.
package startStop

import (
	"context"
	"time"
)

// StartStop manages the lifecycle of a long-running function launched in its
// own goroutine, alongside a function that shuts it down.
//
// Start is non-blocking: it launches the start function asynchronously and
// returns immediately. Failures of the start/stop functions themselves (as
// opposed to misuse of StartStop) are reported through ErrorsLast/ErrorsList
// rather than through the return value of Start/Stop.
type StartStop interface {
	// Start launches the configured start function in a new goroutine. If
	// already running, the previous instance is stopped first.
	Start(ctx context.Context) error

	// Stop cancels the running instance, waits for the start function to
	// return, then invokes the configured stop function. Safe to call when
	// not running, and safe to call concurrently.
	Stop(ctx context.Context) error

	// Restart stops then starts the runner. Safe to call when not running.
	Restart(ctx context.Context) error

	// IsRunning reports whether the start function is currently executing.
	IsRunning() bool

	// Uptime reports how long the runner has been running. Zero when
	// stopped.
	Uptime() time.Duration

	// ErrorsLast returns the most recently recorded error, or nil.
	ErrorsLast() error

	// ErrorsList returns every error recorded since the last Start call.
	ErrorsList() []error
}

// New creates a StartStop runner around the given start and stop functions.
// Either may be nil; calling Start/Stop in that case records an error
// through ErrorsLast/ErrorsList instead of panicking.
func New(start, stop func(ctx context.Context) error) StartStop {
	return &runnerImpl{
		fnStart: start,
		fnStop:  stop,
	}
}
