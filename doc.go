// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package xmpp implements the client side transport core of the
// Extensible Messaging and Presence Protocol: a Session that turns a
// raw byte stream into discrete protocol packets and back, and the
// SASL negotiation that must complete before stanzas may flow.
//
// A typical client connects, opens the stream, and authenticates:
//
//	conn, err := xmpp.Dial("example.net:5222")
//	// handle err
//	s := xmpp.NewSession(conn)
//	err = s.Open("example.net")
//	// handle err
//	err = xmpp.Negotiate(s, xmpp.Credentials{Username: "romeo", Password: pass})
//	// handle err
//
// After Negotiate returns the stream has been restarted and
// authenticated and Session.Recv yields stanzas as *dom.Element trees.
// Schema packages such as ping, idle, history, muc, and file map those
// trees to and from typed records.
package xmpp // import "lithium.im/xmpp"
