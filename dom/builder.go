// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package dom

// A Builder constructs elements fluently:
//
//	el := dom.Build("message", ns.Client).
//		Attr("type", "chat").
//		Child(dom.Build("body", ns.Client).Text("hi").Element()).
//		Element()
type Builder struct {
	el *Element
}

// Build starts building an element with the given local name and
// namespace.
func Build(name, namespace string) *Builder {
	return &Builder{el: New(name, namespace)}
}

// Attr sets an attribute. Setting the empty value still records the
// attribute, matching how it would arrive off the wire.
func (b *Builder) Attr(name, value string) *Builder {
	b.el.SetAttr(name, value)
	return b
}

// Text appends character data.
func (b *Builder) Text(s string) *Builder {
	b.el.AppendText(s)
	return b
}

// Child appends a nested element.
func (b *Builder) Child(child *Element) *Builder {
	b.el.AppendChild(child)
	return b
}

// Element returns the built element.
func (b *Builder) Element() *Element {
	return b.el
}
