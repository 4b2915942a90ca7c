// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package file implements the file description element shared by the
// XEP-0234 family of file transfer mechanisms.
package file // import "lithium.im/xmpp/file"

import (
	"encoding/base64"
	"sort"
	"strconv"
	"time"

	"lithium.im/xmpp/dom"
	"lithium.im/xmpp/stanza"
)

// Namespaces used by file descriptions.
const (
	NS       = "urn:xmpp:jingle:apps:file-transfer:5"
	NSHashes = "urn:xmpp:hashes:2"
)

// A Hash is a checksum over the file contents, as defined by XEP-0300.
type Hash struct {
	Algorithm string
	Sum       []byte
}

// DecodeHash validates el as a hash element.
func DecodeHash(el *dom.Element) (Hash, error) {
	if err := stanza.CheckSelf(el, "hash", NSHashes); err != nil {
		return Hash{}, err
	}
	algo, err := stanza.RequiredAttr(el, "algo")
	if err != nil {
		return Hash{}, err
	}
	sum, err := base64.StdEncoding.DecodeString(el.Text())
	if err != nil {
		return Hash{}, stanza.ParseError("invalid base64 in hash element")
	}
	return Hash{Algorithm: algo, Sum: sum}, nil
}

// Element returns the wire form of the hash.
func (h Hash) Element() *dom.Element {
	return dom.Build("hash", NSHashes).
		Attr("algo", h.Algorithm).
		Text(base64.StdEncoding.EncodeToString(h.Sum)).
		Element()
}

// A Range asks for, or describes, a slice of the file. Length zero
// means from Offset to the end.
type Range struct {
	Offset uint64
	Length uint64
	Hashes []Hash
}

func decodeRange(el *dom.Element) (Range, error) {
	var r Range
	var err error
	if raw, ok := el.AttrOK("offset"); ok {
		if r.Offset, err = strconv.ParseUint(raw, 10, 64); err != nil {
			return Range{}, stanza.ParseError("invalid offset in range element")
		}
	}
	if raw, ok := el.AttrOK("length"); ok {
		if r.Length, err = strconv.ParseUint(raw, 10, 64); err != nil {
			return Range{}, stanza.ParseError("invalid length in range element")
		}
	}
	for _, child := range el.ChildElements() {
		if !child.Is("hash", NSHashes) {
			return Range{}, stanza.ParseError("unknown child in range element")
		}
		h, err := DecodeHash(child)
		if err != nil {
			return Range{}, err
		}
		r.Hashes = append(r.Hashes, h)
	}
	return r, nil
}

func (r Range) element() *dom.Element {
	b := dom.Build("range", NS)
	if r.Offset > 0 {
		b.Attr("offset", strconv.FormatUint(r.Offset, 10))
	}
	if r.Length > 0 {
		b.Attr("length", strconv.FormatUint(r.Length, 10))
	}
	for _, h := range r.Hashes {
		b.Child(h.Element())
	}
	return b.Element()
}

// A File describes the file being offered or requested. All fields are
// optional; descriptions are keyed by xml:lang.
type File struct {
	Date      time.Time
	MediaType string
	Name      string
	Descs     map[string]string
	Size      uint64
	HasSize   bool
	Range     *Range
	Hashes    []Hash
}

// Decode validates el as a file element.
func Decode(el *dom.Element) (File, error) {
	if err := stanza.CheckSelf(el, "file", NS); err != nil {
		return File{}, err
	}
	if len(el.Attrs) > 0 {
		return File{}, stanza.ParseError("unknown attribute in file element")
	}
	var f File
	for _, child := range el.ChildElements() {
		switch {
		case child.Is("date", NS):
			if !f.Date.IsZero() {
				return File{}, stanza.ParseError("duplicate date in file element")
			}
			t, err := time.Parse(time.RFC3339, child.Text())
			if err != nil {
				return File{}, stanza.ParseError("invalid date: " + err.Error())
			}
			f.Date = t
		case child.Is("media-type", NS):
			if f.MediaType != "" {
				return File{}, stanza.ParseError("duplicate media-type in file element")
			}
			f.MediaType = child.Text()
		case child.Is("name", NS):
			if f.Name != "" {
				return File{}, stanza.ParseError("duplicate name in file element")
			}
			f.Name = child.Text()
		case child.Is("desc", NS):
			lang := child.Attr("xml:lang")
			if _, ok := f.Descs[lang]; ok {
				return File{}, stanza.ParseError("duplicate desc for xml:lang '" + lang + "'")
			}
			if f.Descs == nil {
				f.Descs = make(map[string]string)
			}
			f.Descs[lang] = child.Text()
		case child.Is("size", NS):
			if f.HasSize {
				return File{}, stanza.ParseError("duplicate size in file element")
			}
			n, err := strconv.ParseUint(child.Text(), 10, 64)
			if err != nil {
				return File{}, stanza.ParseError("invalid size: " + child.Text())
			}
			f.Size = n
			f.HasSize = true
		case child.Is("range", NS):
			if f.Range != nil {
				return File{}, stanza.ParseError("duplicate range in file element")
			}
			r, err := decodeRange(child)
			if err != nil {
				return File{}, err
			}
			f.Range = &r
		case child.Is("hash", NSHashes):
			h, err := DecodeHash(child)
			if err != nil {
				return File{}, err
			}
			f.Hashes = append(f.Hashes, h)
		default:
			return File{}, stanza.ParseError("unknown child in file element")
		}
	}
	return f, nil
}

// Element returns the wire form of the file element. Descriptions are
// emitted in sorted language order so the output is deterministic.
func (f File) Element() *dom.Element {
	b := dom.Build("file", NS)
	if !f.Date.IsZero() {
		b.Child(dom.Build("date", NS).Text(f.Date.Format(time.RFC3339)).Element())
	}
	if f.MediaType != "" {
		b.Child(dom.Build("media-type", NS).Text(f.MediaType).Element())
	}
	if f.Name != "" {
		b.Child(dom.Build("name", NS).Text(f.Name).Element())
	}
	langs := make([]string, 0, len(f.Descs))
	for lang := range f.Descs {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		desc := dom.Build("desc", NS).Text(f.Descs[lang])
		if lang != "" {
			desc.Attr("xml:lang", lang)
		}
		b.Child(desc.Element())
	}
	if f.HasSize {
		b.Child(dom.Build("size", NS).Text(strconv.FormatUint(f.Size, 10)).Element())
	}
	if f.Range != nil {
		b.Child(f.Range.element())
	}
	for _, h := range f.Hashes {
		b.Child(h.Element())
	}
	return b.Element()
}
