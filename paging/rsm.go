// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package paging implements the subset of XEP-0059: Result Set
// Management used to page through query results.
package paging // import "lithium.im/xmpp/paging"

import (
	"strconv"

	"lithium.im/xmpp/dom"
	"lithium.im/xmpp/stanza"
)

// NS is the result set management namespace.
const NS = "http://jabber.org/protocol/rsm"

// A Set is the <set/> element carried inside pageable queries and
// their results. In a request Max, After, and Before select the page;
// in a response First, FirstIndex, Last, and Count describe it.
type Set struct {
	After  string
	Before string
	Max    uint64

	First      string
	FirstIndex uint64
	HasIndex   bool
	Last       string
	Count      uint64
	HasCount   bool
}

// Decode validates el as an RSM set.
func Decode(el *dom.Element) (Set, error) {
	if err := stanza.CheckSelf(el, "set", NS); err != nil {
		return Set{}, err
	}
	var s Set
	seen := make(map[string]bool)
	for _, child := range el.ChildElements() {
		if child.Namespace != NS {
			return Set{}, stanza.ParseError("unknown child in set element")
		}
		if seen[child.Name] {
			return Set{}, stanza.ParseError("duplicate " + child.Name + " in set element")
		}
		seen[child.Name] = true
		switch child.Name {
		case "first":
			s.First = child.Text()
			if index, ok := child.AttrOK("index"); ok {
				n, err := strconv.ParseUint(index, 10, 64)
				if err != nil {
					return Set{}, stanza.ParseError("invalid first index: " + index)
				}
				s.FirstIndex = n
				s.HasIndex = true
			}
		case "last":
			s.Last = child.Text()
		case "max":
			n, err := strconv.ParseUint(child.Text(), 10, 64)
			if err != nil {
				return Set{}, stanza.ParseError("invalid max: " + child.Text())
			}
			s.Max = n
		case "count":
			n, err := strconv.ParseUint(child.Text(), 10, 64)
			if err != nil {
				return Set{}, stanza.ParseError("invalid count: " + child.Text())
			}
			s.Count = n
			s.HasCount = true
		case "after":
			s.After = child.Text()
		case "before":
			s.Before = child.Text()
		default:
			return Set{}, stanza.ParseError("unknown child in set element")
		}
	}
	return s, nil
}

// Element returns the wire form of the set.
func (s Set) Element() *dom.Element {
	b := dom.Build("set", NS)
	if s.Max > 0 {
		b.Child(dom.Build("max", NS).Text(strconv.FormatUint(s.Max, 10)).Element())
	}
	if s.After != "" {
		b.Child(dom.Build("after", NS).Text(s.After).Element())
	}
	if s.Before != "" {
		b.Child(dom.Build("before", NS).Text(s.Before).Element())
	}
	if s.First != "" || s.HasIndex {
		first := dom.Build("first", NS).Text(s.First)
		if s.HasIndex {
			first.Attr("index", strconv.FormatUint(s.FirstIndex, 10))
		}
		b.Child(first.Element())
	}
	if s.Last != "" {
		b.Child(dom.Build("last", NS).Text(s.Last).Element())
	}
	if s.HasCount {
		b.Child(dom.Build("count", NS).Text(strconv.FormatUint(s.Count, 10)).Element())
	}
	return b.Element()
}
