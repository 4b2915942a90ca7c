// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package idle implements XEP-0319: Last User Interaction in Presence.
package idle // import "lithium.im/xmpp/idle"

import (
	"time"

	"lithium.im/xmpp/dom"
	"lithium.im/xmpp/stanza"
)

// NS is the XML namespace of the idle element.
const NS = "urn:xmpp:idle:1"

// Idle reports when the sending entity was last active.
type Idle struct {
	Since time.Time
}

// Decode validates el and extracts the since timestamp. The timestamp
// must be RFC 3339 with a zone offset; XEP-0082 legacy formats are
// rejected.
func Decode(el *dom.Element) (Idle, error) {
	if err := stanza.CheckSelf(el, "idle", NS); err != nil {
		return Idle{}, err
	}
	if err := stanza.NoChildren(el, "idle"); err != nil {
		return Idle{}, err
	}
	since, err := stanza.RequiredAttr(el, "since")
	if err != nil {
		return Idle{}, err
	}
	t, err := time.Parse(time.RFC3339, since)
	if err != nil {
		return Idle{}, stanza.ParseError("invalid since timestamp: " + err.Error())
	}
	return Idle{Since: t}, nil
}

// Element returns the wire form of the idle element.
func (i Idle) Element() *dom.Element {
	return dom.Build("idle", NS).
		Attr("since", i.Since.Format(time.RFC3339)).
		Element()
}
