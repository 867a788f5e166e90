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

// Package semaphore provides a weighted worker limiter that also implements
// context.Context, so a semaphore can be cancelled and passed around like any
// other context.
package semaphore

import "context"

// Semaphore bounds the number of concurrent workers. A Semaphore with a
// weight <= 0 is unlimited: NewWorker/NewWorkerTry never block.
type Semaphore interface {
	context.Context

	// New returns a fresh Semaphore sharing this one's weight and parent
	// context.
	New() Semaphore

	// NewWorker blocks until a slot is available or the semaphore's
	// context is done, whichever comes first.
	NewWorker() error

	// NewWorkerTry attempts to acquire a slot without blocking.
	NewWorkerTry() bool

	// DeferWorker releases a slot acquired by NewWorker/NewWorkerTry. Meant
	// to be deferred right after a successful acquire.
	DeferWorker()

	// DeferMain cancels the semaphore and waits for every acquired worker
	// to call DeferWorker.
	DeferMain()

	// WaitAll blocks until every acquired worker has called DeferWorker, or
	// the semaphore's context is done.
	WaitAll() error

	// Weighted returns the capacity as given to New (a value <= 0 means
	// unlimited).
	Weighted() int64
}

// New creates a Semaphore with the given capacity. A size <= 0 means
// unlimited concurrency. withBar is accepted for signature compatibility
// with progress-bar-aware callers but has no effect here.
func New(ctx context.Context, size int64, withBar bool) Semaphore {
	return newSemaphore(ctx, size)
}

// NewSemaphoreWithContext is an alias of New without the progress-bar flag.
func NewSemaphoreWithContext(ctx context.Context, size int64) Semaphore {
	return newSemaphore(ctx, size)
}
