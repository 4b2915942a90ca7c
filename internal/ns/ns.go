// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package ns provides namespace constants that are shared between the
// xmpp package and its stanza schema packages.
package ns // import "lithium.im/xmpp/internal/ns"

// List of commonly used namespaces.
const (
	Client   = "jabber:client"
	Server   = "jabber:server"
	Stream   = "http://etherx.jabber.org/streams"
	Bind     = "urn:ietf:params:xml:ns:xmpp-bind"
	SASL     = "urn:ietf:params:xml:ns:xmpp-sasl"
	StartTLS = "urn:ietf:params:xml:ns:xmpp-tls"
	XML      = "http://www.w3.org/XML/1998/namespace"
)
