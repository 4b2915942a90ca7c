// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package dom

import (
	"bytes"
	"io"
)

// An Attr is a single attribute of an Element. The name is stored as
// written on the wire, so attributes in a foreign namespace keep their
// prefix (e.g. "xml:lang"). Namespace declarations are not represented
// as attributes; they are recorded on the declaring Element and can be
// read back with DeclaredPrefixes.
type Attr struct {
	Name  string
	Value string
}

// A Node is a child of an Element: either a nested *Element or a Text
// run.
type Node interface {
	node()
}

// Text is a run of character data inside an element.
type Text string

func (Text) node()     {}
func (*Element) node() {}

// An Element is a node in an XML tree. An element exclusively owns its
// children and holds no reference back to its parent, so a tree is
// always acyclic and can be handed between goroutines once parsing is
// done.
type Element struct {
	// Name is the local name of the element with any prefix removed.
	Name string
	// Namespace is the resolved namespace URI, which may be empty.
	Namespace string

	Attrs    []Attr
	Children []Node

	// prefix is the namespace prefix the element was written with.
	// It is kept so that end tags can be matched during parsing; it
	// does not take part in equality.
	prefix string
	// prefixes holds the prefix to URI declarations introduced on this
	// element ("" is the default prefix).
	prefixes map[string]string
}

// New returns an element with the given local name and namespace.
func New(name, namespace string) *Element {
	return &Element{Name: name, Namespace: namespace}
}

// Is reports whether the element has the given local name and
// namespace.
func (e *Element) Is(name, namespace string) bool {
	return e.Name == name && e.Namespace == namespace
}

// Attr returns the value of the named attribute, or the empty string
// if the attribute is not present.
func (e *Element) Attr(name string) string {
	v, _ := e.AttrOK(name)
	return v
}

// AttrOK is like Attr but also reports whether the attribute was
// present.
func (e *Element) AttrOK(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets the named attribute, replacing any previous value.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.Attrs {
		if a.Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// Text returns the concatenation of the element's direct text
// children.
func (e *Element) Text() string {
	var b bytes.Buffer
	for _, c := range e.Children {
		if t, ok := c.(Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

// ChildElements returns the element children in document order.
func (e *Element) ChildElements() []*Element {
	var els []*Element
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			els = append(els, el)
		}
	}
	return els
}

// Child returns the first child element with the given name and
// namespace, or nil.
func (e *Element) Child(name, namespace string) *Element {
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok && el.Is(name, namespace) {
			return el
		}
	}
	return nil
}

// AppendChild appends a nested element.
func (e *Element) AppendChild(child *Element) {
	e.Children = append(e.Children, child)
}

// AppendText appends character data, merging it with a trailing text
// node so that parse fragmentation never changes the shape of the
// tree.
func (e *Element) AppendText(s string) {
	if s == "" {
		return
	}
	if n := len(e.Children); n > 0 {
		if t, ok := e.Children[n-1].(Text); ok {
			e.Children[n-1] = t + Text(s)
			return
		}
	}
	e.Children = append(e.Children, Text(s))
}

// DeclaredPrefixes returns the namespace declarations introduced on
// this element. The empty prefix is the default namespace.
func (e *Element) DeclaredPrefixes() map[string]string {
	return e.prefixes
}

// Equal reports structural equality: name, namespace, the attribute
// set, and children must all match. Attribute order and namespace
// prefixes are not significant.
func (e *Element) Equal(other *Element) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.Name != other.Name || e.Namespace != other.Namespace {
		return false
	}
	if len(e.Attrs) != len(other.Attrs) {
		return false
	}
	for _, a := range e.Attrs {
		v, ok := other.AttrOK(a.Name)
		if !ok || v != a.Value {
			return false
		}
	}
	if len(e.Children) != len(other.Children) {
		return false
	}
	for i, c := range e.Children {
		switch c := c.(type) {
		case Text:
			t, ok := other.Children[i].(Text)
			if !ok || c != t {
				return false
			}
		case *Element:
			el, ok := other.Children[i].(*Element)
			if !ok || !c.Equal(el) {
				return false
			}
		}
	}
	return true
}

// AppendXML serializes the element to b. Elements whose namespace
// matches defaultNS inherit it instead of redeclaring xmlns; prefixes
// seen during parsing are not reproduced, the serialized form always
// uses default namespace declarations.
func (e *Element) AppendXML(b *bytes.Buffer, defaultNS string) {
	b.WriteByte('<')
	b.WriteString(e.Name)
	inherited := defaultNS
	// An empty namespace under a non-empty default still needs an
	// explicit xmlns='' or the element would inherit on re-parse.
	if e.Namespace != defaultNS {
		b.WriteString(" xmlns='")
		escapeTo(b, e.Namespace)
		b.WriteByte('\'')
		inherited = e.Namespace
	}
	for _, a := range e.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString("='")
		escapeTo(b, a.Value)
		b.WriteByte('\'')
	}
	if len(e.Children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	for _, c := range e.Children {
		switch c := c.(type) {
		case Text:
			escapeTo(b, string(c))
		case *Element:
			c.AppendXML(b, inherited)
		}
	}
	b.WriteString("</")
	b.WriteString(e.Name)
	b.WriteByte('>')
}

// WriteXML serializes the element to w with no inherited default
// namespace.
func (e *Element) WriteXML(w io.Writer) (int, error) {
	var b bytes.Buffer
	e.AppendXML(&b, "")
	return w.Write(b.Bytes())
}

// String returns the serialized form of the element.
func (e *Element) String() string {
	var b bytes.Buffer
	e.AppendXML(&b, "")
	return b.String()
}

// Parse parses a complete XML document fragment consisting of exactly
// one element. It is intended for fixtures and schema tests; streaming
// input belongs to the codec.
func Parse(s string) (*Element, error) {
	l := NewLexer()
	tb := NewTreeBuilder()
	if _, err := l.Write([]byte(s)); err != nil {
		return nil, err
	}
	for {
		tok, err := l.Token()
		if err == ErrWouldBlock {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := tb.Process(tok); err != nil {
			return nil, err
		}
	}
	root := tb.TakeRoot()
	if root == nil {
		return nil, &SyntaxError{Msg: "incomplete document"}
	}
	return root, nil
}
