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

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"net"
	"time"

	liberr "github.com/parasolnet/netcore/errors"

	libtls "github.com/parasolnet/netcore/certificates"
)

// Config configures a Layer's handshake role and credential policy.
//
// AllowEphemeralServerCert is the opt-in escape hatch for a server that was
// started without any provisioned certificate: when true, and only then,
// the layer synthesizes a throwaway self-signed certificate so the
// handshake can proceed. It defaults to false and must never be turned on
// outside of tests or local development, matching the testing-only
// ephemeral-certificate path it replaces.
type Config struct {
	// TLS carries the certificate pairs, cipher/curve lists and version
	// bounds negotiated by the handshake. A server Config needs at least
	// one certificate unless AllowEphemeralServerCert is set.
	TLS libtls.TLSConfig

	// ServerName is presented via SNI on client connections. Left empty
	// when dialing a bare IP literal, per the setup rule that SNI is only
	// meaningful for hostnames.
	ServerName string

	// InsecureSkipVerify disables certificate verification. It mirrors the
	// source's SSL_NO_VERIFY flag: an explicit, named opt-out rather than a
	// silent fallback.
	InsecureSkipVerify bool

	// AllowEphemeralServerCert opts a server Layer into synthesizing a
	// self-signed certificate when none was configured. Off by default.
	AllowEphemeralServerCert bool
}

// tlsConfig builds the crypto/tls.Config used to drive the handshake for
// the given role. isServer selects an ephemeral certificate fallback when
// AllowEphemeralServerCert is set and no certificate was provisioned.
func (c Config) tlsConfig(isServer bool) (*tls.Config, liberr.Error) {
	var base *tls.Config

	name := c.ServerName
	if !isHostname(name) {
		name = ""
	}

	if c.TLS != nil {
		base = c.TLS.TLS(name)
	} else {
		base = &tls.Config{ServerName: name}
	}

	base.InsecureSkipVerify = base.InsecureSkipVerify || c.InsecureSkipVerify

	if isServer && len(base.Certificates) == 0 {
		if !c.AllowEphemeralServerCert {
			return nil, ErrorNoCertificate.Error(nil)
		}

		crt, err := ephemeralCertificate()
		if err != nil {
			return nil, ErrorEphemeralCert.Error(err)
		}

		base.Certificates = []tls.Certificate{crt}
	}

	return base, nil
}

// isHostname reports whether addr names a DNS hostname rather than an IP
// literal, the condition under which SNI is set on client connections.
func isHostname(addr string) bool {
	if addr == "" {
		return false
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	return net.ParseIP(addr) == nil
}

// ephemeralCertificate synthesizes a throwaway ECDSA P-256 self-signed
// certificate for "localhost", valid one hour. It exists solely to let a
// server without provisioned credentials complete a handshake for testing;
// callers reach it only through Config.AllowEphemeralServerCert.
func ephemeralCertificate() (tls.Certificate, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return tls.Certificate{}, err
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return tls.Certificate{}, err
	}

	tpl := x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			Organization: []string{"ephemeral"},
			CommonName:   "localhost",
		},
		NotBefore:             time.Now(),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		DNSNames:              []string{"localhost"},
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
	}

	der, err := x509.CreateCertificate(rand.Reader, &tpl, &tpl, &priv.PublicKey, priv)
	if err != nil {
		return tls.Certificate{}, err
	}

	return tls.Certificate{
		Certificate: [][]byte{der},
		PrivateKey:  priv,
	}, nil
}
