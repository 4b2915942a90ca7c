// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package dom_test

import (
	"fmt"
	"testing"

	"lithium.im/xmpp/dom"
)

// feed lexes s and pushes every token into tb.
func feed(t *testing.T, tb *dom.TreeBuilder, s string) {
	t.Helper()
	l := dom.NewLexer()
	if _, err := l.Write([]byte(s)); err != nil {
		t.Fatal(err)
	}
	for {
		tok, err := l.Token()
		if err == dom.ErrWouldBlock {
			return
		}
		if err != nil {
			t.Fatal(err)
		}
		if err := tb.Process(tok); err != nil {
			t.Fatal(err)
		}
	}
}

func TestTreeBuilderDepth(t *testing.T) {
	tb := dom.NewTreeBuilder()
	if tb.Depth() != 0 {
		t.Fatalf("fresh builder depth = %d", tb.Depth())
	}
	feed(t, tb, `<stream:stream xmlns:stream='http://etherx.jabber.org/streams' xmlns='jabber:client'>`)
	if tb.Depth() != 1 {
		t.Fatalf("depth after stream open = %d, want 1", tb.Depth())
	}
	top := tb.Top()
	if top == nil || !top.Is("stream", "http://etherx.jabber.org/streams") {
		t.Fatalf("unexpected top element: %v", top)
	}

	feed(t, tb, `<message><body>hi</body></message>`)
	if tb.Depth() != 1 {
		t.Fatalf("depth after complete stanza = %d, want 1", tb.Depth())
	}
	msg := tb.UnshiftChild()
	if msg == nil || !msg.Is("message", "jabber:client") {
		t.Fatalf("unshifted %v, want message in jabber:client", msg)
	}
	if body := msg.Child("body", "jabber:client"); body == nil || body.Text() != "hi" {
		t.Fatalf("body missing or wrong text in %v", msg)
	}
	if tb.UnshiftChild() != nil {
		t.Error("second unshift should find nothing")
	}

	feed(t, tb, `</stream:stream>`)
	if tb.Depth() != 0 {
		t.Fatalf("depth after stream close = %d, want 0", tb.Depth())
	}
	if root := tb.TakeRoot(); root == nil {
		t.Fatal("root not available after close")
	}
	if tb.TakeRoot() != nil {
		t.Error("root taken twice")
	}
}

func TestTreeBuilderUnshiftOrder(t *testing.T) {
	tb := dom.NewTreeBuilder()
	feed(t, tb, `<s><a/><b/><c/></s>`)
	// The root has closed, so the children are still attached; in
	// streaming use UnshiftChild runs while the root is open.
	root := tb.TakeRoot()
	names := []string{}
	for _, c := range root.ChildElements() {
		names = append(names, c.Name)
	}
	if fmt.Sprint(names) != "[a b c]" {
		t.Fatalf("children out of order: %v", names)
	}
}

func TestScopeShadowing(t *testing.T) {
	el, err := dom.Parse(`<a xmlns='urn:one'><p:b xmlns:p='urn:two'><p:c xmlns:p='urn:three'/></p:b><p:d xmlns:p='urn:four'/></a>`)
	if err != nil {
		t.Fatal(err)
	}
	if el.Namespace != "urn:one" {
		t.Errorf("a in %q, want urn:one", el.Namespace)
	}
	b := el.ChildElements()[0]
	if b.Namespace != "urn:two" {
		t.Errorf("b in %q, want urn:two", b.Namespace)
	}
	if c := b.ChildElements()[0]; c.Namespace != "urn:three" {
		t.Errorf("c in %q, want urn:three", c.Namespace)
	}
	if d := el.ChildElements()[1]; d.Namespace != "urn:four" {
		t.Errorf("d in %q, want urn:four", d.Namespace)
	}
}

func TestScopeInheritance(t *testing.T) {
	el, err := dom.Parse(`<a xmlns='urn:one'><b><c xmlns='urn:two'/></b></a>`)
	if err != nil {
		t.Fatal(err)
	}
	b := el.ChildElements()[0]
	if b.Namespace != "urn:one" {
		t.Errorf("b inherited %q, want urn:one", b.Namespace)
	}
	if c := b.ChildElements()[0]; c.Namespace != "urn:two" {
		t.Errorf("c in %q, want urn:two", c.Namespace)
	}
}

func TestXMLPrefixImplicit(t *testing.T) {
	el, err := dom.Parse(`<a xml:lang='en'/>`)
	if err != nil {
		t.Fatal(err)
	}
	if v := el.Attr("xml:lang"); v != "en" {
		t.Errorf("xml:lang = %q, want en", v)
	}
}

func TestTreeBuilderErrors(t *testing.T) {
	for i, test := range []string{
		0: `<p:a/>`,
		1: `<a></b>`,
		2: `<a><b></a></b>`,
		3: `text before any element`,
		4: `<a xmlns:p='urn:one' xmlns:p='urn:two'/>`,
	} {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			_, err := dom.Parse(test)
			if err == nil {
				t.Fatalf("parsing %q: expected error", test)
			}
		})
	}
}
