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

package semaphore

import (
	"context"
	"sync"
)

type sem struct {
	context.Context
	cancel context.CancelFunc

	size int64

	wg    sync.WaitGroup
	slots chan struct{}
}

func newSemaphore(ctx context.Context, size int64) *sem {
	if ctx == nil {
		ctx = context.Background()
	}

	cctx, cancel := context.WithCancel(ctx)

	s := &sem{
		Context: cctx,
		cancel:  cancel,
		size:    size,
	}

	if size > 0 {
		s.slots = make(chan struct{}, size)
	}

	return s
}

func (s *sem) New() Semaphore {
	return newSemaphore(s.Context, s.size)
}

func (s *sem) Weighted() int64 {
	return s.size
}

func (s *sem) NewWorker() error {
	if s.slots != nil {
		select {
		case s.slots <- struct{}{}:
		case <-s.Context.Done():
			return s.Context.Err()
		}
	}

	s.wg.Add(1)
	return nil
}

func (s *sem) NewWorkerTry() bool {
	if s.slots == nil {
		s.wg.Add(1)
		return true
	}

	select {
	case s.slots <- struct{}{}:
		s.wg.Add(1)
		return true
	default:
		return false
	}
}

func (s *sem) DeferWorker() {
	if s.slots != nil {
		select {
		case <-s.slots:
		default:
		}
	}
	s.wg.Done()
}

func (s *sem) WaitAll() error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-s.Context.Done():
	}
	return s.Context.Err()
}

func (s *sem) DeferMain() {
	s.cancel()
	s.wg.Wait()
}
