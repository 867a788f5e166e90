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

package server

import (
	"net"
	"sync"

	"github.com/parasolnet/netcore/netaddr"
)

// ClientRecord aggregates every currently-open stream connection from one
// remote IP address, mirroring the original's per-client linked list
// hanging off a server socket. It is created on the first accept from an
// address and destroyed the moment its last connection closes.
type ClientRecord struct {
	mu    sync.Mutex
	addr  netaddr.Address
	conns map[*connContext]struct{}
}

// Addr returns the remote IP address this record aggregates.
func (c *ClientRecord) Addr() netaddr.Address {
	return c.addr
}

// ConnectionCount returns the number of connections currently open from
// this client's address.
func (c *ClientRecord) ConnectionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.conns)
}

// clientGraph is the server-side bookkeeping for spec §4.6.1's per-IP
// aggregation: a map from remote address to ClientRecord, guarded by one
// mutex because accept and disconnect both run from arbitrary accept/handler
// goroutines, unlike the single-threaded engine the rest of this module
// models.
type clientGraph struct {
	mu      sync.Mutex
	records map[string]*ClientRecord
	limit   int
	multi   bool
}

func newClientGraph(limit int, multi bool) *clientGraph {
	return &clientGraph{records: make(map[string]*ClientRecord), limit: limit, multi: multi}
}

// accept implements spec §4.6.1 steps 1-4: reject if the distinct-client
// cap is reached; otherwise find-or-create the record for addr, rejecting a
// second connection from an already-known address when multi-connect is
// disabled.
func (g *clientGraph) accept(addr netaddr.Address) (rec *ClientRecord, rejected bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := addr.String()
	if existing, ok := g.records[key]; ok {
		if !g.multi {
			return nil, true
		}
		return existing, false
	}

	if len(g.records) >= g.limit {
		return nil, true
	}

	rec = &ClientRecord{addr: addr, conns: make(map[*connContext]struct{})}
	g.records[key] = rec
	return rec, false
}

// attach links cc into rec's connection list.
func (g *clientGraph) attach(rec *ClientRecord, cc *connContext) {
	rec.mu.Lock()
	rec.conns[cc] = struct{}{}
	rec.mu.Unlock()
	cc.record = rec
}

// detach unlinks cc from its record and, if the record has emptied,
// removes it from the graph. It reports whether the record was destroyed.
func (g *clientGraph) detach(cc *connContext) bool {
	rec := cc.record
	if rec == nil {
		return false
	}

	rec.mu.Lock()
	delete(rec.conns, cc)
	empty := len(rec.conns) == 0
	rec.mu.Unlock()

	if !empty {
		return false
	}

	g.mu.Lock()
	delete(g.records, rec.addr.String())
	g.mu.Unlock()
	return true
}

// totalClients reports the number of distinct remote addresses currently
// tracked, satisfying spec §8 invariant 2.
func (g *clientGraph) totalClients() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.records)
}

// clientRecord looks up the record for addr, if any.
func (g *clientGraph) clientRecord(addr netaddr.Address) (*ClientRecord, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rec, ok := g.records[addr.String()]
	return rec, ok
}

// snapshotConns returns the connections currently attached to rec, safe to
// iterate and close without holding rec's lock.
func (rec *ClientRecord) snapshotConns() []*connContext {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	out := make([]*connContext, 0, len(rec.conns))
	for cc := range rec.conns {
		out = append(out, cc)
	}
	return out
}

// addrFromNetAddr extracts the IP portion of a, ignoring the port, for use
// as a client graph key. It returns false for address families (e.g. Unix
// domain sockets) that carry no IP to aggregate on.
func addrFromNetAddr(a net.Addr) (netaddr.Address, bool) {
	host, _, err := net.SplitHostPort(a.String())
	if err != nil {
		host = a.String()
	}
	addr, perr := netaddr.StrToAddress(host)
	if perr != nil {
		return netaddr.Address{}, false
	}
	return addr, true
}
