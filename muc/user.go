// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package muc implements the occupant payloads of XEP-0045:
// Multi-User Chat.
package muc // import "lithium.im/xmpp/muc"

import (
	"strconv"

	"lithium.im/xmpp/dom"
	"lithium.im/xmpp/jid"
	"lithium.im/xmpp/stanza"
)

// NSUser is the namespace of the <x/> payload on occupant presence and
// group chat messages.
const NSUser = "http://jabber.org/protocol/muc#user"

// Affiliation is a long lived association between a user and a room.
type Affiliation string

// The affiliations defined by XEP-0045.
const (
	AffiliationOwner   Affiliation = "owner"
	AffiliationAdmin   Affiliation = "admin"
	AffiliationMember  Affiliation = "member"
	AffiliationOutcast Affiliation = "outcast"
	AffiliationNone    Affiliation = "none"
)

func parseAffiliation(s string) (Affiliation, error) {
	switch a := Affiliation(s); a {
	case AffiliationOwner, AffiliationAdmin, AffiliationMember,
		AffiliationOutcast, AffiliationNone:
		return a, nil
	}
	return "", stanza.ParseError("unknown affiliation: " + s)
}

// Role is a temporary position of an occupant while in a room.
type Role string

// The roles defined by XEP-0045.
const (
	RoleModerator   Role = "moderator"
	RoleParticipant Role = "participant"
	RoleVisitor     Role = "visitor"
	RoleNone        Role = "none"
)

func parseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleModerator, RoleParticipant, RoleVisitor, RoleNone:
		return r, nil
	}
	return "", stanza.ParseError("unknown role: " + s)
}

// A Status is a numeric code qualifying an occupant notification.
type Status int

// The status codes registered for XEP-0045.
const (
	StatusNonAnonymous       Status = 100
	StatusAffiliationChange  Status = 101
	StatusConfigShowsJID     Status = 102
	StatusConfigHidesJID     Status = 103
	StatusConfigChanged      Status = 104
	StatusSelfPresence       Status = 110
	StatusLoggingEnabled     Status = 170
	StatusLoggingDisabled    Status = 171
	StatusRoomNonAnonymous   Status = 172
	StatusRoomSemiAnonymous  Status = 173
	StatusRoomFullyAnonymous Status = 174
	StatusRoomCreated        Status = 201
	StatusNickAssigned       Status = 210
	StatusBanned             Status = 301
	StatusNewNick            Status = 303
	StatusKicked             Status = 307
	StatusRemovedAffiliation Status = 321
	StatusRemovedMembership  Status = 322
	StatusRemovedShutdown    Status = 332
)

var knownStatuses = map[Status]bool{
	StatusNonAnonymous: true, StatusAffiliationChange: true,
	StatusConfigShowsJID: true, StatusConfigHidesJID: true,
	StatusConfigChanged: true, StatusSelfPresence: true,
	StatusLoggingEnabled: true, StatusLoggingDisabled: true,
	StatusRoomNonAnonymous: true, StatusRoomSemiAnonymous: true,
	StatusRoomFullyAnonymous: true, StatusRoomCreated: true,
	StatusNickAssigned: true, StatusBanned: true, StatusNewNick: true,
	StatusKicked: true, StatusRemovedAffiliation: true,
	StatusRemovedMembership: true, StatusRemovedShutdown: true,
}

// An Actor identifies who performed a moderation action.
type Actor struct {
	JID  jid.JID
	Nick string
}

// An Item describes an occupant: their affiliation and role, and
// optionally their real JID, nickname, the acting moderator, and a
// reason.
type Item struct {
	Affiliation Affiliation
	Role        Role
	JID         jid.JID
	Nick        string
	Actor       *Actor
	Reason      string
}

// A User is the <x/> payload of occupant presence: zero or more status
// codes and items.
type User struct {
	Statuses []Status
	Items    []Item
}

// Decode validates el as a muc#user payload.
func Decode(el *dom.Element) (User, error) {
	if err := stanza.CheckSelf(el, "x", NSUser); err != nil {
		return User{}, err
	}
	var u User
	for _, child := range el.ChildElements() {
		switch {
		case child.Is("status", NSUser):
			code, err := stanza.RequiredAttr(child, "code")
			if err != nil {
				return User{}, err
			}
			n, err := strconv.Atoi(code)
			if err != nil || !knownStatuses[Status(n)] {
				return User{}, stanza.ParseError("invalid status code: " + code)
			}
			u.Statuses = append(u.Statuses, Status(n))
		case child.Is("item", NSUser):
			item, err := decodeItem(child)
			if err != nil {
				return User{}, err
			}
			u.Items = append(u.Items, item)
		default:
			return User{}, stanza.ParseError("unknown child in x element")
		}
	}
	return u, nil
}

func decodeItem(el *dom.Element) (Item, error) {
	var item Item
	var err error
	affiliation, err := stanza.RequiredAttr(el, "affiliation")
	if err != nil {
		return Item{}, err
	}
	if item.Affiliation, err = parseAffiliation(affiliation); err != nil {
		return Item{}, err
	}
	role, err := stanza.RequiredAttr(el, "role")
	if err != nil {
		return Item{}, err
	}
	if item.Role, err = parseRole(role); err != nil {
		return Item{}, err
	}
	if raw, ok := el.AttrOK("jid"); ok {
		if item.JID, err = jid.Parse(raw); err != nil {
			return Item{}, stanza.ParseError("invalid jid in item: " + err.Error())
		}
	}
	item.Nick = el.Attr("nick")
	for _, child := range el.ChildElements() {
		switch {
		case child.Is("actor", NSUser):
			if item.Actor != nil {
				return Item{}, stanza.ParseError("duplicate actor in item element")
			}
			actor := &Actor{Nick: child.Attr("nick")}
			if raw, ok := child.AttrOK("jid"); ok {
				if actor.JID, err = jid.Parse(raw); err != nil {
					return Item{}, stanza.ParseError("invalid jid in actor: " + err.Error())
				}
			}
			item.Actor = actor
		case child.Is("reason", NSUser):
			if item.Reason != "" {
				return Item{}, stanza.ParseError("duplicate reason in item element")
			}
			item.Reason = child.Text()
		default:
			return Item{}, stanza.ParseError("unknown child in item element")
		}
	}
	return item, nil
}

// Element returns the wire form of the payload.
func (u User) Element() *dom.Element {
	b := dom.Build("x", NSUser)
	for _, s := range u.Statuses {
		b.Child(dom.Build("status", NSUser).
			Attr("code", strconv.Itoa(int(s))).
			Element())
	}
	for _, item := range u.Items {
		b.Child(item.element())
	}
	return b.Element()
}

func (item Item) element() *dom.Element {
	b := dom.Build("item", NSUser).
		Attr("affiliation", string(item.Affiliation)).
		Attr("role", string(item.Role))
	if !item.JID.IsZero() {
		b.Attr("jid", item.JID.String())
	}
	if item.Nick != "" {
		b.Attr("nick", item.Nick)
	}
	if item.Actor != nil {
		actor := dom.Build("actor", NSUser)
		if !item.Actor.JID.IsZero() {
			actor.Attr("jid", item.Actor.JID.String())
		}
		if item.Actor.Nick != "" {
			actor.Attr("nick", item.Actor.Nick)
		}
		b.Child(actor.Element())
	}
	if item.Reason != "" {
		b.Child(dom.Build("reason", NSUser).Text(item.Reason).Element())
	}
	return b.Element()
}
