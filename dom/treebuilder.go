// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package dom

import (
	"strings"
)

// xmlNamespace is implicitly bound to the xml prefix (XML 1.0 §3).
const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// A Scope is a stack of prefix to namespace URI mappings. A frame is
// pushed for every open element (empty or not) so that frames pop in
// lockstep with the element stack, and resolution walks from the
// innermost frame out. Redeclaration in a nested frame shadows the
// outer binding without touching it.
type Scope struct {
	frames []map[string]string
}

// Push adds a scope frame holding the given declarations, which may be
// nil.
func (s *Scope) Push(decls map[string]string) {
	s.frames = append(s.frames, decls)
}

// Pop removes the innermost frame.
func (s *Scope) Pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

// Resolve maps a prefix (the empty string is the default prefix) to a
// namespace URI using the nearest enclosing declaration.
func (s *Scope) Resolve(prefix string) (string, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if uri, ok := s.frames[i][prefix]; ok {
			return uri, true
		}
	}
	switch prefix {
	case "":
		return "", true
	case "xml":
		return xmlNamespace, true
	}
	return "", false
}

// A TreeBuilder assembles lexer tokens into an element tree. Depth 0
// means no open elements, depth 1 means inside the stream root only,
// and anything deeper is inside a top level child (a stanza).
type TreeBuilder struct {
	stack []*Element
	scope Scope
	root  *Element // set when the outermost element closes; taken once
}

// NewTreeBuilder returns an empty builder.
func NewTreeBuilder() *TreeBuilder {
	return &TreeBuilder{}
}

// Depth returns the number of currently open elements.
func (tb *TreeBuilder) Depth() int {
	return len(tb.stack)
}

// Top borrows the innermost open element. It is how the stream root's
// attributes are read the instant it opens, before any children
// arrive.
func (tb *TreeBuilder) Top() *Element {
	if len(tb.stack) == 0 {
		return nil
	}
	return tb.stack[len(tb.stack)-1]
}

// UnshiftChild detaches and returns the oldest completed child of the
// stream root, or nil if none is queued. Queue order is document
// order.
func (tb *TreeBuilder) UnshiftChild() *Element {
	if len(tb.stack) == 0 {
		return nil
	}
	root := tb.stack[0]
	for i, c := range root.Children {
		if el, ok := c.(*Element); ok {
			root.Children = append(root.Children[:i], root.Children[i+1:]...)
			return el
		}
	}
	return nil
}

// TakeRoot returns the stream root after it has closed, exactly once.
func (tb *TreeBuilder) TakeRoot() *Element {
	root := tb.root
	tb.root = nil
	return root
}

// Process feeds one token to the builder. A structurally unbalanced
// sequence returns a *StructuralError, which is fatal; the builder
// must not be used afterwards.
func (tb *TreeBuilder) Process(tok Token) error {
	switch tok.Kind {
	case TokenStartElement:
		return tb.processStart(tok)
	case TokenEndElement:
		return tb.processEnd(tok)
	case TokenText:
		if top := tb.Top(); top != nil {
			top.AppendText(tok.Text)
			return nil
		}
		// Text before the stream root opens: the XML prolog may
		// legitimately be followed by whitespace, anything else is
		// garbage.
		if strings.TrimSpace(tok.Text) != "" {
			return &StructuralError{Msg: "text outside of any element"}
		}
		return nil
	}
	return nil
}

func (tb *TreeBuilder) processStart(tok Token) error {
	var decls map[string]string
	var attrs []Attr
	for _, a := range tok.Attrs {
		switch {
		case a.Name == "xmlns":
			if decls == nil {
				decls = make(map[string]string)
			}
			decls[""] = a.Value
		case strings.HasPrefix(a.Name, "xmlns:"):
			prefix := a.Name[len("xmlns:"):]
			if prefix == "" {
				return &StructuralError{Msg: "empty namespace prefix declaration"}
			}
			if decls == nil {
				decls = make(map[string]string)
			}
			if _, dup := decls[prefix]; dup {
				return &StructuralError{Msg: "prefix " + prefix + " declared twice"}
			}
			decls[prefix] = a.Value
		default:
			attrs = append(attrs, a)
		}
	}
	tb.scope.Push(decls)

	prefix, local := splitQName(tok.Name)
	uri, ok := tb.scope.Resolve(prefix)
	if !ok {
		tb.scope.Pop()
		return &StructuralError{Msg: "unbound namespace prefix " + prefix}
	}
	el := &Element{
		Name:      local,
		Namespace: uri,
		Attrs:     attrs,
		prefix:    prefix,
		prefixes:  decls,
	}
	tb.stack = append(tb.stack, el)
	return nil
}

func (tb *TreeBuilder) processEnd(tok Token) error {
	if len(tb.stack) == 0 {
		return &StructuralError{Msg: "end tag </" + tok.Name + "> with no open element"}
	}
	top := tb.stack[len(tb.stack)-1]
	prefix, local := splitQName(tok.Name)
	if top.Name != local || top.prefix != prefix {
		return &StructuralError{Msg: "end tag </" + tok.Name + "> does not match open element"}
	}
	tb.stack = tb.stack[:len(tb.stack)-1]
	tb.scope.Pop()
	if len(tb.stack) == 0 {
		tb.root = top
		return nil
	}
	tb.stack[len(tb.stack)-1].AppendChild(top)
	return nil
}

func splitQName(name string) (prefix, local string) {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}
