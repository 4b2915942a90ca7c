// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package codec

import (
	"bytes"
	"sort"
	"strings"

	"lithium.im/xmpp/dom"
	"lithium.im/xmpp/internal/ns"
)

// A Packet is anything that can be sent or received on an XMPP stream.
type Packet interface {
	packet()
}

// StreamStart is the attribute set of the opening <stream:stream> tag.
// Namespace declarations appear as synthetic "xmlns" and
// "xmlns:prefix" entries alongside the ordinary attributes.
type StreamStart map[string]string

// Stanza is one complete top level child of the stream root, stanza
// and nonza alike.
type Stanza struct {
	Element *dom.Element
}

// Text is a standalone text run between stanzas, usually a whitespace
// keep-alive.
type Text string

// StreamEnd is the closing </stream:stream> tag.
type StreamEnd struct{}

func (StreamStart) packet() {}
func (Stanza) packet()      {}
func (Text) packet()        {}
func (StreamEnd) packet()   {}

// maxStanzaSize is the slack kept free in the output buffer before any
// encode, so that a single large stanza never needs a partial write
// mid-serialization.
const maxStanzaSize = 1 << 16

// A Codec is a stateful encoder/decoder between a byte stream and
// Packets. It is not safe for concurrent use; the stream it models is
// strictly sequential anyway.
type Codec struct {
	// Outgoing default namespace, remembered from the xmlns attribute
	// of the last encoded StreamStart.
	ns string

	// Incoming.
	lexer   *dom.Lexer
	builder *dom.TreeBuilder
	err     error
}

// New returns a codec for a fresh stream.
func New() *Codec {
	return &Codec{
		lexer:   dom.NewLexer(),
		builder: dom.NewTreeBuilder(),
	}
}

// Write appends raw bytes received from the transport. It implements
// io.Writer.
func (c *Codec) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	return c.lexer.Write(p)
}

// Buffered returns the number of received bytes not yet consumed by
// decoding.
func (c *Codec) Buffered() int {
	return c.lexer.Buffered()
}

// Next decodes and returns the next packet, or (nil, nil) when the
// buffered bytes do not complete one. Decode errors are sticky: once
// Next fails, it fails the same way forever, because XML framing has
// no safe resynchronization point.
func (c *Codec) Next() (Packet, error) {
	if c.err != nil {
		return nil, c.err
	}
	for {
		tok, err := c.lexer.Token()
		if err == dom.ErrWouldBlock {
			return nil, nil
		}
		if err != nil {
			c.err = err
			return nil, err
		}

		// Text directly inside the stream root is a packet of its
		// own; it must not pile up as children of the root element.
		if tok.Kind == dom.TokenText && c.builder.Depth() == 1 {
			return Text(tok.Text), nil
		}

		hadRoot := c.builder.Depth() > 0
		if err := c.builder.Process(tok); err != nil {
			c.err = err
			return nil, err
		}

		if !hadRoot && c.builder.Depth() > 0 {
			return streamStart(c.builder.Top()), nil
		} else if c.builder.Depth() == 1 {
			if child := c.builder.UnshiftChild(); child != nil {
				return Stanza{Element: child}, nil
			}
		} else if root := c.builder.TakeRoot(); root != nil {
			return StreamEnd{}, nil
		}
	}
}

// streamStart flattens the root's attributes and namespace
// declarations into a StreamStart packet.
func streamStart(root *dom.Element) StreamStart {
	attrs := make(StreamStart, len(root.Attrs))
	for _, a := range root.Attrs {
		attrs[a.Name] = a.Value
	}
	for prefix, uri := range root.DeclaredPrefixes() {
		if prefix == "" {
			attrs["xmlns"] = uri
		} else {
			attrs["xmlns:"+prefix] = uri
		}
	}
	return attrs
}

// Encode serializes p to buf as wire bytes. The buffer is grown to
// keep at least maxStanzaSize free capacity first.
func (c *Codec) Encode(p Packet, buf *bytes.Buffer) error {
	if free := buf.Cap() - buf.Len(); free < maxStanzaSize {
		buf.Grow(maxStanzaSize)
	}
	switch p := p.(type) {
	case StreamStart:
		buf.WriteString("<stream:stream")
		attrs := make(StreamStart, len(p)+1)
		for name, value := range p {
			attrs[name] = value
		}
		// The tag is written with the stream prefix, so the prefix must
		// be bound even when the caller did not declare it.
		if _, ok := attrs["xmlns:stream"]; !ok {
			attrs["xmlns:stream"] = ns.Stream
		}
		names := make([]string, 0, len(attrs))
		for name := range attrs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			buf.WriteByte(' ')
			buf.WriteString(name)
			buf.WriteString("='")
			buf.WriteString(dom.Escape(attrs[name]))
			buf.WriteByte('\'')
			if name == "xmlns" {
				c.ns = attrs[name]
			}
		}
		buf.WriteByte('>')
	case Stanza:
		p.Element.AppendXML(buf, c.ns)
	case Text:
		buf.WriteString(dom.Escape(string(p)))
	case StreamEnd:
		buf.WriteString("</stream:stream>")
	default:
		return errUnknownPacket
	}
	return nil
}

// Reset discards all parse state and starts a fresh top level parse.
// It is required after a TLS upgrade and after successful SASL
// authentication, both of which make the server open a brand new
// stream. The remembered outgoing namespace survives a reset.
func (c *Codec) Reset() {
	c.lexer = dom.NewLexer()
	c.builder = dom.NewTreeBuilder()
	c.err = nil
}

type codecError string

func (e codecError) Error() string { return string(e) }

const errUnknownPacket codecError = "codec: unknown packet type"

// PacketString renders a packet for diagnostics.
func PacketString(p Packet) string {
	switch p := p.(type) {
	case StreamStart:
		names := make([]string, 0, len(p))
		for name := range p {
			names = append(names, name)
		}
		sort.Strings(names)
		var b strings.Builder
		b.WriteString("StreamStart{")
		for i, name := range names {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(name)
			b.WriteString("=")
			b.WriteString(p[name])
		}
		b.WriteString("}")
		return b.String()
	case Stanza:
		return "Stanza{" + p.Element.String() + "}"
	case Text:
		return "Text{" + string(p) + "}"
	case StreamEnd:
		return "StreamEnd"
	}
	return "Packet(?)"
}
