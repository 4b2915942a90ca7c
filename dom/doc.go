// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package dom implements the XML element tree used on XMPP streams and
// the incremental parser that builds it.
//
// The parser is split into two layers. A Lexer turns raw transport
// bytes into low level tokens and tolerates input that stops in the
// middle of a tag, an attribute value, or a multi-byte UTF-8 sequence:
// it returns ErrWouldBlock and resumes exactly where it left off when
// more bytes are written. A TreeBuilder assembles tokens into Elements,
// tracking namespace prefix scopes and the two nesting boundaries that
// matter for XMPP: the stream root, which stays open for the life of
// the connection, and its top level children, which are handed off one
// at a time as they complete.
package dom // import "lithium.im/xmpp/dom"
