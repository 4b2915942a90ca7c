// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmpp

import (
	"crypto/tls"
	"net"
	"time"

	"github.com/pkg/errors"
)

// DialTimeout bounds connection establishment. Read and write
// deadlines after that are the caller's concern; the codec itself has
// no notion of elapsed time.
const DialTimeout = 30 * time.Second

// Dial opens a plain TCP connection to addr (host:port). The returned
// conn is ready to be wrapped in a Session; most servers will require
// a StartTLS upgrade before authentication.
func Dial(addr string) (net.Conn, error) {
	conn, err := net.DialTimeout("tcp", addr, DialTimeout)
	return conn, errors.Wrap(err, "xmpp: dial")
}

// DialTLS opens a direct TLS connection to addr.
func DialTLS(addr string, config *tls.Config) (net.Conn, error) {
	d := net.Dialer{Timeout: DialTimeout}
	conn, err := tls.DialWithDialer(&d, "tcp", addr, config)
	if err != nil {
		return nil, errors.Wrap(err, "xmpp: dial tls")
	}
	return conn, nil
}

// StartTLS upgrades an established connection to TLS and completes
// the handshake. The session owning the connection must Reset its
// codec afterwards: the server opens a brand new stream over the
// secured transport.
func StartTLS(conn net.Conn, config *tls.Config) (*tls.Conn, error) {
	tlsConn := tls.Client(conn, config)
	if err := tlsConn.Handshake(); err != nil {
		return nil, errors.Wrap(err, "xmpp: tls handshake")
	}
	return tlsConn, nil
}

// A connectionStater exposes TLS channel binding material. *tls.Conn
// implements it; the baseline TCP transport does not.
type connectionStater interface {
	ConnectionState() tls.ConnectionState
}
