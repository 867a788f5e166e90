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

package dns

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	libdur "github.com/parasolnet/netcore/duration"
	"github.com/parasolnet/netcore/netaddr"
	"github.com/parasolnet/netcore/netstatus"
)

// Callback receives the result of an asynchronous lookup: the original
// query key, the resolved entry (nil on failure) and a status. Okay means
// success; any other status means failure, delivered with a nil entry,
// never silently dropped.
type Callback func(query string, entry *Entry, status netstatus.Status)

// Resolver resolves hostnames to addresses and addresses to hostnames,
// caching both directions and dispatching cache misses to transient
// worker goroutines. A zero-value Resolver is not usable; construct one
// with New.
type Resolver struct {
	// Callback is invoked once per completed lookup, on the dispatcher
	// goroutine: callbacks from different lookups never run concurrently
	// with each other, matching the main-thread-serialized delivery model.
	Callback Callback

	mu     sync.Mutex
	byName map[string]*Entry
	byAddr map[string]*Entry
	closed bool

	ttl time.Duration

	live   sync.WaitGroup
	liveMu sync.Mutex
	liveID map[string]struct{}

	completions chan completionMsg
	stop        chan struct{}
	stopped     chan struct{}
}

type completionMsg struct {
	workerID string
	query    string
	isName   bool
	entry    *Entry
	status   netstatus.Status
}

// New returns a running Resolver. Call Close when it is no longer needed;
// Close implies FreeWarning so it is always safe to call.
func New() *Resolver {
	r := &Resolver{
		byName:      make(map[string]*Entry),
		byAddr:      make(map[string]*Entry),
		liveID:      make(map[string]struct{}),
		completions: make(chan completionMsg, 64),
		stop:        make(chan struct{}),
		stopped:     make(chan struct{}),
	}
	go r.dispatch()
	return r
}

// SetTTL configures cache revalidation: once a cached entry is older than
// ttl, the next lookup for it still returns the stale entry immediately
// (the cache is never evicted) but also triggers a background refresh.
// Zero disables revalidation, entries are then stable for the resolver's
// lifetime.
func (r *Resolver) SetTTL(ttl libdur.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ttl = ttl.Time()
}

// dispatch is the single goroutine that drains completion messages and
// invokes Callback, one at a time, for the lifetime of the resolver.
func (r *Resolver) dispatch() {
	defer close(r.stopped)
	for {
		select {
		case m := <-r.completions:
			r.finishWorker(m.workerID)
			if r.Callback != nil {
				r.Callback(m.query, m.entry, m.status)
			}
		case <-r.stop:
			for {
				select {
				case m := <-r.completions:
					r.finishWorker(m.workerID)
					if r.Callback != nil {
						r.Callback(m.query, m.entry, m.status)
					}
				default:
					return
				}
			}
		}
	}
}

func (r *Resolver) startWorker() string {
	id := uuid.NewString()
	r.liveMu.Lock()
	r.liveID[id] = struct{}{}
	r.liveMu.Unlock()
	r.live.Add(1)
	return id
}

func (r *Resolver) finishWorker(id string) {
	r.liveMu.Lock()
	_, ok := r.liveID[id]
	delete(r.liveID, id)
	r.liveMu.Unlock()
	if ok {
		r.live.Done()
	}
}

// FreeWarning blocks until every worker goroutine this resolver spawned
// has posted its completion and been drained, ensuring no worker ever
// outlives the resolver it was spawned for.
func (r *Resolver) FreeWarning() {
	r.live.Wait()
}

// Close stops the dispatcher after waiting for all live workers to drain.
// Pending completions already posted before Close are still delivered.
func (r *Resolver) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	r.FreeWarning()
	close(r.stop)
	<-r.stopped
}

// ResolveName asynchronously resolves host to its addresses. It returns
// Okay immediately; the result (cache hit or miss) is always delivered via
// Callback, including OS-level failures, which deliver a nil entry.
func (r *Resolver) ResolveName(host string) netstatus.Status {
	if entry := r.cacheGetName(host); entry != nil {
		r.deliverCached(host, entry, true)
		return netstatus.Okay
	}

	if addr, err := netaddr.StrToAddress(host); err == nil {
		entry := &Entry{Name: host, Addresses: []netaddr.Address{addr}}
		r.cachePutName(host, entry)
		r.deliverCached(host, entry, true)
		return netstatus.Okay
	}

	if strings.EqualFold(host, "localhost") {
		v4, _ := netaddr.StrToAddress("127.0.0.1")
		v6, _ := netaddr.StrToAddress("::1")
		entry := &Entry{Name: "localhost", Addresses: []netaddr.Address{v4, v6}}
		r.cachePutName(host, entry)
		r.deliverCached(host, entry, true)
		return netstatus.Okay
	}

	id := r.startWorker()
	go func() {
		addrs, lerr := queryAddresses(context.Background(), host)
		if lerr != nil {
			r.completions <- completionMsg{workerID: id, query: host, isName: true, status: netstatus.HostNotFound}
			return
		}
		entry := &Entry{Name: host, Addresses: addrs, fetchedAt: time.Now()}
		r.cachePutName(host, entry)
		r.completions <- completionMsg{workerID: id, query: host, isName: true, entry: entry, status: netstatus.Okay}
	}()

	return netstatus.Okay
}

// ResolveAddress asynchronously resolves an IP literal to its hostname,
// with the same delivery contract as ResolveName.
func (r *Resolver) ResolveAddress(ip string) netstatus.Status {
	addr, err := netaddr.StrToAddress(ip)
	if err != nil {
		return netstatus.Args
	}

	if entry := r.cacheGetAddr(ip); entry != nil {
		r.deliverCached(ip, entry, false)
		return netstatus.Okay
	}

	id := r.startWorker()
	go func() {
		name, lerr := queryName(context.Background(), addr)
		if lerr != nil {
			r.completions <- completionMsg{workerID: id, query: ip, isName: false, status: netstatus.HostNotFound}
			return
		}
		entry := &Entry{Name: name, Addresses: []netaddr.Address{addr}, fetchedAt: time.Now()}
		r.cachePutAddr(ip, entry)
		r.completions <- completionMsg{workerID: id, query: ip, isName: false, entry: entry, status: netstatus.Okay}
	}()

	return netstatus.Okay
}

// deliverCached posts a cache-hit result through the same dispatcher path
// asynchronous misses use, so a second lookup for a cached name never
// invokes Callback before the first one returns, and never invokes it
// from the caller's own goroutine.
func (r *Resolver) deliverCached(query string, entry *Entry, isName bool) {
	if r.ttl > 0 && entry.age() > r.ttl {
		r.revalidate(query, entry, isName)
	}
	r.completions <- completionMsg{query: query, isName: isName, entry: entry, status: netstatus.Okay}
}

func (r *Resolver) revalidate(query string, stale *Entry, isName bool) {
	id := r.startWorker()
	go func() {
		defer r.finishWorker(id)
		if isName {
			if addrs, lerr := queryAddresses(context.Background(), query); lerr == nil {
				r.cachePutName(query, &Entry{Name: stale.Name, Addresses: addrs, fetchedAt: time.Now()})
			}
			return
		}
		if addr, lerr := netaddr.StrToAddress(query); lerr == nil {
			if name, lerr2 := queryName(context.Background(), addr); lerr2 == nil {
				r.cachePutAddr(query, &Entry{Name: name, Addresses: []netaddr.Address{addr}, fetchedAt: time.Now()})
			}
		}
	}()
}

// BlockingResolveName resolves host synchronously, bypassing the cache
// lookup and the worker/dispatcher path; a successful result is stored in
// the name cache.
func (r *Resolver) BlockingResolveName(ctx context.Context, host string) (*Entry, error) {
	if addr, err := netaddr.StrToAddress(host); err == nil {
		return &Entry{Name: host, Addresses: []netaddr.Address{addr}}, nil
	}
	addrs, lerr := queryAddresses(ctx, host)
	if lerr != nil {
		return nil, lerr
	}
	entry := &Entry{Name: host, Addresses: addrs, fetchedAt: time.Now()}
	r.cachePutName(host, entry)
	return entry, nil
}

// BlockingResolveAddress resolves ip synchronously, bypassing the cache
// lookup and the worker/dispatcher path; a successful result is stored in
// the address cache.
func (r *Resolver) BlockingResolveAddress(ctx context.Context, ip string) (*Entry, error) {
	addr, err := netaddr.StrToAddress(ip)
	if err != nil {
		return nil, err
	}
	name, lerr := queryName(ctx, addr)
	if lerr != nil {
		return nil, lerr
	}
	entry := &Entry{Name: name, Addresses: []netaddr.Address{addr}, fetchedAt: time.Now()}
	r.cachePutAddr(ip, entry)
	return entry, nil
}

func (r *Resolver) cacheGetName(host string) *Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byName[strings.ToLower(host)]
}

func (r *Resolver) cachePutName(host string, e *Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[strings.ToLower(host)] = e
}

func (r *Resolver) cacheGetAddr(ip string) *Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byAddr[ip]
}

func (r *Resolver) cachePutAddr(ip string, e *Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byAddr[ip] = e
}
