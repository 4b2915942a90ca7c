// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package codec converts between raw stream bytes and discrete XMPP
// protocol packets.
//
// The decode direction accepts transport bytes in fragments of any
// size and produces at most one Packet per call: the opening of the
// <stream:stream> root, each completed top level child, standalone
// text such as whitespace keep-alives, and the closing of the root.
// The encode direction serializes packets back to wire bytes, growing
// the output buffer ahead of time so even a large stanza is written in
// one piece.
package codec // import "lithium.im/xmpp/codec"
