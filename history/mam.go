// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package history implements the query surface of XEP-0313: Message
// Archive Management.
package history // import "lithium.im/xmpp/history"

import (
	"lithium.im/xmpp/dom"
	"lithium.im/xmpp/jid"
	"lithium.im/xmpp/paging"
	"lithium.im/xmpp/stanza"
)

// Namespaces used by message archive management.
const (
	NS         = "urn:xmpp:mam:2"
	NSDataForm = "jabber:x:data"
	NSForward  = "urn:xmpp:forward:0"
)

// A Query asks the archive for messages. The filter form, when
// present, is carried through as a raw element: its fields are defined
// by the archive, not by this package.
type Query struct {
	QueryID string
	Node    string
	Form    *dom.Element
	Set     *paging.Set
}

// DecodeQuery validates el as an archive query.
func DecodeQuery(el *dom.Element) (Query, error) {
	if err := stanza.CheckSelf(el, "query", NS); err != nil {
		return Query{}, err
	}
	q := Query{
		QueryID: el.Attr("queryid"),
		Node:    el.Attr("node"),
	}
	for _, child := range el.ChildElements() {
		switch {
		case child.Is("x", NSDataForm):
			if q.Form != nil {
				return Query{}, stanza.ParseError("duplicate form in query element")
			}
			q.Form = child
		case child.Is("set", paging.NS):
			if q.Set != nil {
				return Query{}, stanza.ParseError("duplicate set in query element")
			}
			set, err := paging.Decode(child)
			if err != nil {
				return Query{}, err
			}
			q.Set = &set
		default:
			return Query{}, stanza.ParseError("unknown child in query element")
		}
	}
	return q, nil
}

// Element returns the wire form of the query.
func (q Query) Element() *dom.Element {
	b := dom.Build("query", NS)
	if q.QueryID != "" {
		b.Attr("queryid", q.QueryID)
	}
	if q.Node != "" {
		b.Attr("node", q.Node)
	}
	if q.Form != nil {
		b.Child(q.Form)
	}
	if q.Set != nil {
		b.Child(q.Set.Element())
	}
	return b.Element()
}

// A Result wraps one archived message as delivered by the server. The
// forwarded payload is carried through raw.
type Result struct {
	ID        string
	QueryID   string
	Forwarded *dom.Element
}

// DecodeResult validates el as an archive result.
func DecodeResult(el *dom.Element) (Result, error) {
	if err := stanza.CheckSelf(el, "result", NS); err != nil {
		return Result{}, err
	}
	id, err := stanza.RequiredAttr(el, "id")
	if err != nil {
		return Result{}, err
	}
	r := Result{ID: id, QueryID: el.Attr("queryid")}
	for _, child := range el.ChildElements() {
		if !child.Is("forwarded", NSForward) {
			return Result{}, stanza.ParseError("unknown child in result element")
		}
		if r.Forwarded != nil {
			return Result{}, stanza.ParseError("duplicate forwarded in result element")
		}
		r.Forwarded = child
	}
	if r.Forwarded == nil {
		return Result{}, stanza.ParseError("result element missing forwarded child")
	}
	return r, nil
}

// Element returns the wire form of the result.
func (r Result) Element() *dom.Element {
	b := dom.Build("result", NS).Attr("id", r.ID)
	if r.QueryID != "" {
		b.Attr("queryid", r.QueryID)
	}
	if r.Forwarded != nil {
		b.Child(r.Forwarded)
	}
	return b.Element()
}

// A Fin closes a query, reporting the page served and whether the
// query is complete.
type Fin struct {
	Complete bool
	Set      paging.Set
}

// DecodeFin validates el as a fin element.
func DecodeFin(el *dom.Element) (Fin, error) {
	if err := stanza.CheckSelf(el, "fin", NS); err != nil {
		return Fin{}, err
	}
	var f Fin
	switch el.Attr("complete") {
	case "", "false":
	case "true":
		f.Complete = true
	default:
		return Fin{}, stanza.ParseError("invalid complete attribute")
	}
	set := el.Child("set", paging.NS)
	if set == nil {
		return Fin{}, stanza.ParseError("fin element missing set child")
	}
	var err error
	if f.Set, err = paging.Decode(set); err != nil {
		return Fin{}, err
	}
	return f, nil
}

// Element returns the wire form of the fin element.
func (f Fin) Element() *dom.Element {
	b := dom.Build("fin", NS)
	if f.Complete {
		b.Attr("complete", "true")
	}
	return b.Child(f.Set.Element()).Element()
}

// Default archiving behaviors for Prefs.
type Default string

// Valid values for the prefs default attribute.
const (
	Always Default = "always"
	Never  Default = "never"
	Roster Default = "roster"
)

// Prefs are per account archiving preferences.
type Prefs struct {
	Default Default
	Always  []jid.JID
	Never   []jid.JID
}

// DecodePrefs validates el as a prefs element.
func DecodePrefs(el *dom.Element) (Prefs, error) {
	if err := stanza.CheckSelf(el, "prefs", NS); err != nil {
		return Prefs{}, err
	}
	for _, a := range el.Attrs {
		if a.Name != "default" {
			return Prefs{}, stanza.ParseError("unknown attribute in prefs element")
		}
	}
	value, err := stanza.RequiredAttr(el, "default")
	if err != nil {
		return Prefs{}, err
	}
	p := Prefs{Default: Default(value)}
	switch p.Default {
	case Always, Never, Roster:
	default:
		return Prefs{}, stanza.ParseError("invalid default in prefs element")
	}
	for _, child := range el.ChildElements() {
		var dst *[]jid.JID
		switch {
		case child.Is("always", NS):
			dst = &p.Always
		case child.Is("never", NS):
			dst = &p.Never
		default:
			return Prefs{}, stanza.ParseError("unknown child in prefs element")
		}
		for _, jidEl := range child.ChildElements() {
			if !jidEl.Is("jid", NS) {
				return Prefs{}, stanza.ParseError("invalid jid element in " + child.Name)
			}
			j, err := jid.Parse(jidEl.Text())
			if err != nil {
				return Prefs{}, stanza.ParseError("invalid jid in " + child.Name + ": " + err.Error())
			}
			*dst = append(*dst, j)
		}
	}
	return p, nil
}

// Element returns the wire form of the prefs element.
func (p Prefs) Element() *dom.Element {
	b := dom.Build("prefs", NS).Attr("default", string(p.Default))
	appendList := func(name string, jids []jid.JID) {
		if len(jids) == 0 {
			return
		}
		list := dom.Build(name, NS)
		for _, j := range jids {
			list.Child(dom.Build("jid", NS).Text(j.String()).Element())
		}
		b.Child(list.Element())
	}
	appendList("always", p.Always)
	appendList("never", p.Never)
	return b.Element()
}
