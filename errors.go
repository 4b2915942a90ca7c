// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmpp

import (
	"errors"
)

// Errors that terminate stream setup or SASL negotiation before it can
// make progress. They leave the transport connected but
// unauthenticated, so the caller may retry with different credentials
// or tear the connection down.
var (
	// ErrNoMechanism is returned when the server's advertised SASL
	// mechanism list has no overlap with the locally supported ones.
	// Nothing has been sent when it is returned.
	ErrNoMechanism = errors.New("xmpp: no common SASL mechanism")

	// ErrStreamClosed is returned when the peer closes the stream root
	// while a packet is being awaited.
	ErrStreamClosed = errors.New("xmpp: stream closed by peer")
)

// An AuthError is a failure declared by the server during SASL
// negotiation. Reason is the name of the first child of the <failure/>
// nonza, e.g. "not-authorized".
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "xmpp: authentication failed: " + e.Reason
}

// A ProtocolError reports that the peer sent something with no legal
// interpretation at this point in the stream. It is fatal for the
// stream but, during negotiation, leaves the transport in a defined
// state.
type ProtocolError struct {
	Msg string
}

func (e *ProtocolError) Error() string {
	return "xmpp: protocol violation: " + e.Msg
}
