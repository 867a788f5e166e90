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
	"net"
	"strings"
	"sync"

	"github.com/miekg/dns"

	liberr "github.com/parasolnet/netcore/errors"
	"github.com/parasolnet/netcore/netaddr"
)

var (
	resolvConfOnce sync.Once
	resolvConf     *dns.ClientConfig
)

// systemResolverConfig loads /etc/resolv.conf once per process, falling
// back to a public resolver when the file is absent (e.g. minimal
// containers), so the package never hard-fails purely for lack of a
// resolv.conf.
func systemResolverConfig() *dns.ClientConfig {
	resolvConfOnce.Do(func() {
		cfg, err := dns.ClientConfigFromFile("/etc/resolv.conf")
		if err != nil || cfg == nil || len(cfg.Servers) == 0 {
			cfg = &dns.ClientConfig{Servers: []string{"8.8.8.8"}, Port: "53"}
		}
		if cfg.Port == "" {
			cfg.Port = "53"
		}
		resolvConf = cfg
	})
	return resolvConf
}

// queryAddresses resolves host to its A and AAAA records over the wire.
func queryAddresses(ctx context.Context, host string) ([]netaddr.Address, liberr.Error) {
	cfg := systemResolverConfig()
	server := net.JoinHostPort(cfg.Servers[0], cfg.Port)
	client := new(dns.Client)

	var addrs []netaddr.Address
	var lastErr error

	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		m := new(dns.Msg)
		m.SetQuestion(dns.Fqdn(host), qtype)
		m.RecursionDesired = true

		resp, _, err := client.ExchangeContext(ctx, m, server)
		if err != nil {
			lastErr = err
			continue
		}

		for _, rr := range resp.Answer {
			switch rec := rr.(type) {
			case *dns.A:
				if a, e := netaddr.StrToAddress(rec.A.String()); e == nil {
					addrs = append(addrs, a)
				}
			case *dns.AAAA:
				if a, e := netaddr.StrToAddress(rec.AAAA.String()); e == nil {
					addrs = append(addrs, a)
				}
			}
		}
	}

	if len(addrs) == 0 {
		if lastErr != nil {
			return nil, ErrorWireQuery.Error(lastErr)
		}
		return nil, ErrorNoSuchHost.Error(nil)
	}

	return addrs, nil
}

// queryName resolves addr to its canonical hostname via a PTR lookup.
func queryName(ctx context.Context, addr netaddr.Address) (string, liberr.Error) {
	cfg := systemResolverConfig()
	server := net.JoinHostPort(cfg.Servers[0], cfg.Port)
	client := new(dns.Client)

	rev, err := dns.ReverseAddr(addr.String())
	if err != nil {
		return "", ErrorWireQuery.Error(err)
	}

	m := new(dns.Msg)
	m.SetQuestion(rev, dns.TypePTR)
	m.RecursionDesired = true

	resp, _, err := client.ExchangeContext(ctx, m, server)
	if err != nil {
		return "", ErrorWireQuery.Error(err)
	}

	for _, rr := range resp.Answer {
		if ptr, ok := rr.(*dns.PTR); ok {
			return strings.TrimSuffix(ptr.Ptr, "."), nil
		}
	}

	return "", ErrorNoAnswer.Error(nil)
}
