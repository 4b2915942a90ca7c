// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmpp

import (
	"bytes"
	"crypto/tls"
	"io"
	"sync"

	"github.com/pkg/errors"

	"lithium.im/xmpp/codec"
	"lithium.im/xmpp/dom"
	"lithium.im/xmpp/internal/ns"
)

// readChunk is the transport read size. Fragmentation below this is
// the transport's business; the codec handles any split.
const readChunk = 4096

// A Session is a duplex packet stream over a single connection. The
// read path and the write path are each serialized with their own
// mutex, so one goroutine may Recv while another Sends, but partial
// writes of two stanzas can never interleave on the wire.
type Session struct {
	conn io.ReadWriter
	c    *codec.Codec

	rmu  sync.Mutex
	rbuf []byte

	wmu  sync.Mutex
	wbuf bytes.Buffer

	mu       sync.Mutex
	to       string
	start    codec.StreamStart
	features *dom.Element
}

// NewSession wraps an established, byte oriented connection. The
// session takes exclusive ownership of both directions of rw.
func NewSession(rw io.ReadWriter) *Session {
	return &Session{
		conn: rw,
		c:    codec.New(),
		rbuf: make([]byte, readChunk),
	}
}

// Conn returns the underlying connection, for deadline control or a
// StartTLS upgrade.
func (s *Session) Conn() io.ReadWriter {
	return s.conn
}

// ConnectionState reports the TLS state of the underlying connection
// when it is TLS, for SASL mechanisms that use channel binding.
func (s *Session) ConnectionState() (tls.ConnectionState, bool) {
	if cs, ok := s.conn.(connectionStater); ok {
		return cs.ConnectionState(), true
	}
	return tls.ConnectionState{}, false
}

// Recv returns the next packet from the stream, reading from the
// transport as needed. Codec errors are terminal; transport errors are
// returned wrapped and no partial packet is ever delivered.
func (s *Session) Recv() (codec.Packet, error) {
	s.rmu.Lock()
	defer s.rmu.Unlock()
	for {
		p, err := s.c.Next()
		if err != nil {
			return nil, err
		}
		if p != nil {
			if start, ok := p.(codec.StreamStart); ok {
				s.mu.Lock()
				s.start = start
				s.mu.Unlock()
			}
			return p, nil
		}
		n, err := s.conn.Read(s.rbuf)
		if n > 0 {
			if _, werr := s.c.Write(s.rbuf[:n]); werr != nil {
				return nil, werr
			}
		}
		if err != nil {
			return nil, errors.Wrap(err, "xmpp: read")
		}
	}
}

// Send encodes p and writes it to the transport, completing the whole
// write before returning.
func (s *Session) Send(p codec.Packet) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	s.wbuf.Reset()
	if err := s.c.Encode(p, &s.wbuf); err != nil {
		return err
	}
	_, err := s.conn.Write(s.wbuf.Bytes())
	return errors.Wrap(err, "xmpp: write")
}

// StreamHeader returns the client stream header packet addressed to
// the given domain.
func StreamHeader(to string) codec.StreamStart {
	return codec.StreamStart{
		"xmlns":        ns.Client,
		"xmlns:stream": ns.Stream,
		"version":      "1.0",
		"to":           to,
	}
}

// Open sends the client stream header to the given domain and waits
// for the server's header and its <stream:features/> child. It must
// complete before stanzas are exchanged and is repeated by Restart
// after TLS upgrades and successful authentication.
func (s *Session) Open(to string) error {
	s.mu.Lock()
	s.to = to
	s.features = nil
	s.mu.Unlock()

	if err := s.Send(StreamHeader(to)); err != nil {
		return err
	}
	for {
		p, err := s.Recv()
		if err != nil {
			return err
		}
		switch p := p.(type) {
		case codec.StreamStart:
			// Recorded by Recv; keep waiting for features.
		case codec.Text:
			// Whitespace keep-alive, ignore.
		case codec.Stanza:
			if p.Element.Is("features", ns.Stream) {
				s.mu.Lock()
				s.features = p.Element
				s.mu.Unlock()
				return nil
			}
			return &ProtocolError{Msg: "expected stream features, got <" + p.Element.Name + "/>"}
		case codec.StreamEnd:
			return ErrStreamClosed
		}
	}
}

// Restart discards all parse state and opens a fresh stream to the
// same domain. The server requires this after a successful SASL
// exchange and after a TLS upgrade.
func (s *Session) Restart() error {
	s.mu.Lock()
	to := s.to
	s.mu.Unlock()
	s.c.Reset()
	return s.Open(to)
}

// Features returns the most recently received stream features element,
// or nil before Open completes.
func (s *Session) Features() *dom.Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.features
}

// RemoteHeader returns the attribute set of the most recent server
// stream header.
func (s *Session) RemoteHeader() codec.StreamStart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.start
}

// Close sends the closing stream tag. The underlying transport is left
// for the caller to close.
func (s *Session) Close() error {
	return s.Send(codec.StreamEnd{})
}
