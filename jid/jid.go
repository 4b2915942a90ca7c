// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package jid implements the XMPP address format: Jabber IDs of the
// form localpart@domainpart/resourcepart, where both the localpart and
// the resourcepart are optional.
package jid // import "lithium.im/xmpp/jid"

import (
	"errors"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/text/secure/precis"
)

// Parsing and validation errors.
var (
	ErrNoDomain     = errors.New("jid: JID must have a domainpart")
	ErrEmptyPart    = errors.New("jid: localpart or resourcepart present but empty")
	ErrLongPart     = errors.New("jid: part longer than 1023 bytes")
	ErrInvalidChars = errors.New("jid: part contains invalid characters")
)

const maxPartLen = 1023

// A JID is a parsed Jabber ID. The zero value is the empty JID. Parts
// are stored in canonical form: the localpart case mapped with the
// PRECIS UsernameCaseMapped profile, the domainpart run through IDNA,
// and the resourcepart enforced with the OpaqueString profile.
type JID struct {
	local    string
	domain   string
	resource string
}

// Parse constructs a JID from its string representation.
func Parse(s string) (JID, error) {
	local, domain, resource, err := splitString(s)
	if err != nil {
		return JID{}, err
	}
	return New(local, domain, resource)
}

// MustParse is like Parse but panics on invalid input. It simplifies
// initialization from known good constant strings.
func MustParse(s string) JID {
	j, err := Parse(s)
	if err != nil {
		panic(`jid: Parse(` + s + `): ` + err.Error())
	}
	return j
}

// New constructs a JID from its three parts, canonicalizing each.
func New(local, domain, resource string) (JID, error) {
	if domain == "" {
		return JID{}, ErrNoDomain
	}
	domain, err := idna.ToUnicode(domain)
	if err != nil {
		return JID{}, err
	}
	domain = strings.ToLower(domain)
	if local != "" {
		local, err = precis.UsernameCaseMapped.String(local)
		if err != nil {
			return JID{}, ErrInvalidChars
		}
	}
	if resource != "" {
		resource, err = precis.OpaqueString.String(resource)
		if err != nil {
			return JID{}, ErrInvalidChars
		}
	}
	for _, part := range []string{local, domain, resource} {
		if len(part) > maxPartLen {
			return JID{}, ErrLongPart
		}
	}
	return JID{local: local, domain: domain, resource: resource}, nil
}

// Localpart returns the part before the '@', which may be empty.
func (j JID) Localpart() string { return j.local }

// Domainpart returns the mandatory domain part.
func (j JID) Domainpart() string { return j.domain }

// Resourcepart returns the part after the '/', which may be empty.
func (j JID) Resourcepart() string { return j.resource }

// Bare returns a copy of the JID with the resourcepart removed.
func (j JID) Bare() JID {
	return JID{local: j.local, domain: j.domain}
}

// IsZero reports whether the JID is the empty JID.
func (j JID) IsZero() bool {
	return j == JID{}
}

// Equal reports whether two JIDs have identical canonical parts.
func (j JID) Equal(other JID) bool {
	return j == other
}

// String returns the canonical string form of the JID.
func (j JID) String() string {
	var b strings.Builder
	if j.local != "" {
		b.WriteString(j.local)
		b.WriteByte('@')
	}
	b.WriteString(j.domain)
	if j.resource != "" {
		b.WriteByte('/')
		b.WriteString(j.resource)
	}
	return b.String()
}

// splitString separates a JID string into its three parts without
// validating them.
func splitString(s string) (local, domain, resource string, err error) {
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s, resource = s[:i], s[i+1:]
		if resource == "" {
			return "", "", "", ErrEmptyPart
		}
	}
	if i := strings.IndexByte(s, '@'); i >= 0 {
		local, s = s[:i], s[i+1:]
		if local == "" {
			return "", "", "", ErrEmptyPart
		}
	}
	if s == "" {
		return "", "", "", ErrNoDomain
	}
	return local, s, resource, nil
}
