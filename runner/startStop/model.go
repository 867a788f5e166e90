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

package startStop

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/parasolnet/netcore/runner"
)

// instance tracks a single Start()..Stop() cycle. A new instance is created
// on every Start call so that concurrent Stop callers racing against a
// fresh Start cannot invoke the stop function twice or tear down the new
// instance.
type instance struct {
	cancel    context.CancelFunc
	done      chan struct{}
	startedAt time.Time

	stopOnce sync.Once
}

type runnerImpl struct {
	mu sync.Mutex

	fnStart func(ctx context.Context) error
	fnStop  func(ctx context.Context) error

	running bool
	cur     *instance

	errMu sync.Mutex
	errs  []error
}

func (r *runnerImpl) recordError(err error) {
	if err == nil {
		return
	}
	r.errMu.Lock()
	r.errs = append(r.errs, err)
	r.errMu.Unlock()
}

func (r *runnerImpl) ErrorsLast() error {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	if len(r.errs) == 0 {
		return nil
	}
	return r.errs[len(r.errs)-1]
}

func (r *runnerImpl) ErrorsList() []error {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	out := make([]error, len(r.errs))
	copy(out, r.errs)
	return out
}

func (r *runnerImpl) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *runnerImpl) Uptime() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running || r.cur == nil || r.cur.startedAt.IsZero() {
		return 0
	}
	return time.Since(r.cur.startedAt)
}

func (r *runnerImpl) Start(ctx context.Context) error {
	r.stopCurrent(ctx)

	r.errMu.Lock()
	r.errs = nil
	r.errMu.Unlock()

	cctx, cancel := context.WithCancel(ctx)

	in := &instance{
		cancel:    cancel,
		done:      make(chan struct{}),
		startedAt: time.Now(),
	}

	r.mu.Lock()
	r.cur = in
	r.running = true
	fn := r.fnStart
	r.mu.Unlock()

	go func() {
		defer close(in.done)
		defer func() {
			runner.RecoveryCaller("netcore/runner/startStop", recover())
		}()

		var err error
		if fn == nil {
			err = errors.New("invalid start function")
		} else {
			err = fn(cctx)
		}

		r.recordError(err)

		r.mu.Lock()
		if r.cur == in {
			r.running = false
		}
		r.mu.Unlock()
	}()

	return nil
}

// stopCurrent tears down whatever instance is active, if any, without
// clearing the error list (Start() owns clearing it).
func (r *runnerImpl) stopCurrent(ctx context.Context) {
	r.mu.Lock()
	in := r.cur
	r.mu.Unlock()

	if in == nil {
		return
	}

	in.cancel()
	<-in.done

	in.stopOnce.Do(func() {
		r.invokeStop(ctx)

		r.mu.Lock()
		if r.cur == in {
			r.running = false
		}
		r.mu.Unlock()
	})
}

func (r *runnerImpl) Stop(ctx context.Context) error {
	r.stopCurrent(ctx)
	return nil
}

func (r *runnerImpl) invokeStop(ctx context.Context) {
	defer func() {
		runner.RecoveryCaller("netcore/runner/startStop", recover())
	}()

	r.mu.Lock()
	fn := r.fnStop
	r.mu.Unlock()

	var err error
	if fn == nil {
		err = errors.New("invalid stop function")
	} else {
		err = fn(ctx)
	}

	r.recordError(err)
}

func (r *runnerImpl) Restart(ctx context.Context) error {
	_ = r.Stop(ctx)
	return r.Start(ctx)
}
