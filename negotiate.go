// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package xmpp

import (
	"encoding/base64"

	"github.com/pkg/errors"
	"mellium.im/sasl"

	"lithium.im/xmpp/codec"
	"lithium.im/xmpp/dom"
	"lithium.im/xmpp/internal/ns"
)

// Credentials hold what the SASL mechanisms need to authenticate.
// Identity is normally empty; it is used to act on behalf of another
// user.
type Credentials struct {
	Username string
	Password string
	Identity string
}

// Negotiation states. The stream handle conceptually moves through the
// machine with the state; it is never shared between two states.
type authState int

const (
	authStart authState = iota
	authWaitSend
	authWaitRecv
	authRestart
	authDone
)

// A Negotiator drives the SASL handshake over an opened Session. Each
// Drive call performs at most one blocking operation, so a caller with
// its own scheduler can interleave the handshake with other work;
// Negotiate is the plain blocking loop.
type Negotiator struct {
	session *Session
	creds   Credentials
	mechs   []sasl.Mechanism

	state    authState
	client   *sasl.Negotiator
	selected sasl.Mechanism
	more     bool
	pending  *dom.Element
	err      error
}

// NewNegotiator prepares a handshake over s using the given
// mechanisms, strongest first. If none are given a default preference
// order is used: the SCRAM PLUS variants when the transport offers
// channel binding material, then SCRAM-SHA-256, SCRAM-SHA-1, and
// PLAIN. Nothing is sent until Drive is called.
func NewNegotiator(s *Session, creds Credentials, mechs ...sasl.Mechanism) *Negotiator {
	if len(mechs) == 0 {
		if _, ok := s.ConnectionState(); ok {
			mechs = append(mechs, sasl.ScramSha256Plus, sasl.ScramSha1Plus)
		}
		mechs = append(mechs, sasl.ScramSha256, sasl.ScramSha1, sasl.Plain)
	}
	return &Negotiator{session: s, creds: creds, mechs: mechs}
}

// Mechanism returns the name of the selected mechanism, or the empty
// string before selection happens.
func (n *Negotiator) Mechanism() string {
	return n.selected.Name
}

// Drive advances the handshake by one step and reports whether it has
// terminated. Once a terminal error occurs Drive keeps returning it;
// re-driving a waiting state re-arms the same pending operation and
// never duplicates a send.
func (n *Negotiator) Drive() (done bool, err error) {
	if n.err != nil {
		return true, n.err
	}
	switch n.state {
	case authStart:
		err = n.start()
	case authWaitSend:
		if err = n.session.Send(codec.Stanza{Element: n.pending}); err == nil {
			n.pending = nil
			n.state = authWaitRecv
		}
	case authWaitRecv:
		err = n.recv()
	case authRestart:
		if err = n.session.Restart(); err == nil {
			n.state = authDone
			return true, nil
		}
	case authDone:
		return true, nil
	}
	if err != nil {
		n.err = err
		n.state = authDone
		return true, err
	}
	return n.state == authDone, nil
}

// start selects a mechanism the server offers and stages the initial
// auth nonza. No overlap means ErrNoMechanism with nothing sent.
func (n *Negotiator) start() error {
	offered, err := serverMechanisms(n.session.Features())
	if err != nil {
		return err
	}

	found := false
selection:
	for _, m := range n.mechs {
		for _, name := range offered {
			if name == m.Name {
				n.selected = m
				found = true
				break selection
			}
		}
	}
	if !found {
		return ErrNoMechanism
	}

	opts := []sasl.Option{
		sasl.Credentials(func() ([]byte, []byte, []byte) {
			return []byte(n.creds.Username), []byte(n.creds.Password), []byte(n.creds.Identity)
		}),
		sasl.RemoteMechanisms(offered...),
	}
	if connState, ok := n.session.ConnectionState(); ok {
		opts = append(opts, sasl.TLSState(connState))
	}
	n.client = sasl.NewClient(n.selected, opts...)

	more, resp, err := n.client.Step(nil)
	if err != nil {
		return errors.Wrap(err, "xmpp: sasl initial response")
	}
	n.more = more
	n.pending = saslNonza("auth", n.selected.Name, resp)
	n.state = authWaitSend
	return nil
}

// recv waits for the server's next packet and reacts to the SASL
// nonzas. Anything else that arrives while waiting (keep-alive text,
// unrelated stanzas) is deliberately ignored and the wait re-armed.
func (n *Negotiator) recv() error {
	p, err := n.session.Recv()
	if err != nil {
		return err
	}
	st, ok := p.(codec.Stanza)
	if !ok {
		return nil
	}
	el := st.Element
	switch {
	case el.Is("challenge", ns.SASL):
		payload, err := decodePayload(el.Text())
		if err != nil {
			return errors.Wrap(err, "xmpp: malformed server challenge")
		}
		more, resp, err := n.client.Step(payload)
		if err != nil {
			return errors.Wrap(err, "xmpp: sasl step")
		}
		n.more = more
		n.pending = saslNonza("response", "", resp)
		n.state = authWaitSend
	case el.Is("success", ns.SASL):
		// SCRAM sends its server signature in the success payload;
		// feed it to the mechanism for verification when the exchange
		// is not finished on our side yet.
		if n.more {
			payload, err := decodePayload(el.Text())
			if err != nil {
				return errors.Wrap(err, "xmpp: malformed success data")
			}
			if _, _, err := n.client.Step(payload); err != nil {
				return errors.Wrap(err, "xmpp: sasl verification")
			}
		}
		n.state = authRestart
	case el.Is("failure", ns.SASL):
		reason := "authentication failure"
		if children := el.ChildElements(); len(children) > 0 {
			reason = children[0].Name
		}
		return &AuthError{Reason: reason}
	}
	return nil
}

// Negotiate runs the whole SASL handshake over an opened session,
// including the post-success stream restart. On success the session is
// authenticated and fresh stream features are available.
func Negotiate(s *Session, creds Credentials, mechs ...sasl.Mechanism) error {
	n := NewNegotiator(s, creds, mechs...)
	for {
		done, err := n.Drive()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// serverMechanisms extracts the mechanism names advertised in the
// stream features.
func serverMechanisms(features *dom.Element) ([]string, error) {
	if features == nil {
		return nil, &ProtocolError{Msg: "no stream features received"}
	}
	list := features.Child("mechanisms", ns.SASL)
	if list == nil {
		return nil, &ProtocolError{Msg: "stream features advertise no SASL mechanisms"}
	}
	var names []string
	for _, m := range list.ChildElements() {
		if m.Is("mechanism", ns.SASL) {
			names = append(names, m.Text())
		}
	}
	return names, nil
}

// saslNonza builds an <auth/> or <response/> nonza with a base64
// payload. A zero length payload is transmitted as a single "=", as
// required by RFC 6120 §6.4.2.
func saslNonza(name, mechanism string, payload []byte) *dom.Element {
	b := dom.Build(name, ns.SASL)
	if mechanism != "" {
		b.Attr("mechanism", mechanism)
	}
	if len(payload) == 0 {
		b.Text("=")
	} else {
		b.Text(base64.StdEncoding.EncodeToString(payload))
	}
	return b.Element()
}

// decodePayload reverses saslNonza's payload encoding.
func decodePayload(text string) ([]byte, error) {
	if text == "" || text == "=" {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(text)
}
