// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package stanza provides the shared pieces of the stanza schema
// packages: the validation error type and attribute helpers.
//
// Schema errors are local to the stanza they occur in. An element that
// fails validation is reported and discarded; the stream it arrived on
// continues undisturbed.
package stanza // import "lithium.im/xmpp/stanza"

import (
	"lithium.im/xmpp/dom"
)

// A ParseError reports an element that does not match its schema:
// an unknown child or attribute, a missing required attribute, a
// duplicated singleton child, or an invalid enumerated value.
type ParseError string

func (e ParseError) Error() string { return string(e) }

// RequiredAttr returns the named attribute value or a ParseError if it
// is absent.
func RequiredAttr(el *dom.Element, name string) (string, error) {
	v, ok := el.AttrOK(name)
	if !ok {
		return "", ParseError("required attribute '" + name + "' missing")
	}
	return v, nil
}

// CheckSelf returns a ParseError unless el has the expected name and
// namespace.
func CheckSelf(el *dom.Element, name, namespace string) error {
	if !el.Is(name, namespace) {
		return ParseError("this is not a " + name + " element")
	}
	return nil
}

// NoChildren returns a ParseError if el has any child element.
func NoChildren(el *dom.Element, what string) error {
	if len(el.ChildElements()) > 0 {
		return ParseError("unknown child in " + what + " element")
	}
	return nil
}
