// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package ping implements XEP-0199: XMPP Ping.
package ping // import "lithium.im/xmpp/ping"

import (
	"lithium.im/xmpp/dom"
	"lithium.im/xmpp/stanza"
)

// NS is the XML namespace used by XMPP pings.
const NS = "urn:xmpp:ping"

// A Ping is the payload of a ping IQ. It carries no data; receiving
// one well formed is the whole point.
type Ping struct{}

// Decode validates el as a ping payload.
func Decode(el *dom.Element) (Ping, error) {
	if err := stanza.CheckSelf(el, "ping", NS); err != nil {
		return Ping{}, err
	}
	if err := stanza.NoChildren(el, "ping"); err != nil {
		return Ping{}, err
	}
	if len(el.Attrs) > 0 {
		return Ping{}, stanza.ParseError("unknown attribute in ping element")
	}
	return Ping{}, nil
}

// Element returns the wire form of the ping payload.
func (Ping) Element() *dom.Element {
	return dom.New("ping", NS)
}
