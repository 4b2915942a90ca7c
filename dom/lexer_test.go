// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package dom_test

import (
	"fmt"
	"reflect"
	"testing"

	"lithium.im/xmpp/dom"
)

// drain collects every token the lexer can produce from its current
// buffer.
func drain(l *dom.Lexer) ([]dom.Token, error) {
	var toks []dom.Token
	for {
		tok, err := l.Token()
		if err == dom.ErrWouldBlock {
			return toks, nil
		}
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
	}
}

func TestLexerTokens(t *testing.T) {
	l := dom.NewLexer()
	_, err := l.Write([]byte(`<message to='romeo' from="juliet"><body>Hi &amp; bye</body></message>`))
	if err != nil {
		t.Fatal(err)
	}
	toks, err := drain(l)
	if err != nil {
		t.Fatal(err)
	}
	want := []dom.Token{
		{Kind: dom.TokenStartElement, Name: "message", Attrs: []dom.Attr{
			{Name: "to", Value: "romeo"},
			{Name: "from", Value: "juliet"},
		}},
		{Kind: dom.TokenStartElement, Name: "body"},
		{Kind: dom.TokenText, Text: "Hi & bye"},
		{Kind: dom.TokenEndElement, Name: "body"},
		{Kind: dom.TokenEndElement, Name: "message"},
	}
	if !reflect.DeepEqual(toks, want) {
		t.Fatalf("got tokens %#v, want %#v", toks, want)
	}
}

func TestLexerSelfClosing(t *testing.T) {
	l := dom.NewLexer()
	if _, err := l.Write([]byte(`<ping xmlns='urn:xmpp:ping'/>`)); err != nil {
		t.Fatal(err)
	}
	toks, err := drain(l)
	if err != nil {
		t.Fatal(err)
	}
	if len(toks) != 2 {
		t.Fatalf("got %d tokens, want 2", len(toks))
	}
	if toks[0].Kind != dom.TokenStartElement || toks[1].Kind != dom.TokenEndElement {
		t.Fatalf("got kinds %v, %v; want start, end", toks[0].Kind, toks[1].Kind)
	}
	if toks[1].Name != "ping" {
		t.Errorf("synthetic end tag named %q, want ping", toks[1].Name)
	}
}

// Splitting the input at any byte offset must produce the same token
// stream as feeding it whole. The fixture deliberately contains a
// multi-byte rune, an entity reference, and a comment so the split can
// land inside each of them.
func TestLexerFragmentation(t *testing.T) {
	const doc = `<p a='1'><!-- note --><q>ß&amp;<r/> tail</q></p>`

	whole := dom.NewLexer()
	if _, err := whole.Write([]byte(doc)); err != nil {
		t.Fatal(err)
	}
	want, err := drain(whole)
	if err != nil {
		t.Fatal(err)
	}

	for cut := 1; cut < len(doc); cut++ {
		t.Run(fmt.Sprintf("%d", cut), func(t *testing.T) {
			l := dom.NewLexer()
			var toks []dom.Token
			for _, part := range []string{doc[:cut], doc[cut:]} {
				if _, err := l.Write([]byte(part)); err != nil {
					t.Fatal(err)
				}
				got, err := drain(l)
				if err != nil {
					t.Fatal(err)
				}
				toks = append(toks, got...)
			}
			// Text may arrive in more pieces when the cut lands inside a
			// run; merge adjacent text tokens before comparing.
			toks = mergeText(toks)
			if !reflect.DeepEqual(toks, mergeText(want)) {
				t.Fatalf("split at %d: got %#v, want %#v", cut, toks, want)
			}
		})
	}
}

func mergeText(toks []dom.Token) []dom.Token {
	var out []dom.Token
	for _, tok := range toks {
		if n := len(out); n > 0 && tok.Kind == dom.TokenText && out[n-1].Kind == dom.TokenText {
			out[n-1].Text += tok.Text
			continue
		}
		out = append(out, tok)
	}
	return out
}

func TestLexerSplitUTF8(t *testing.T) {
	l := dom.NewLexer()
	if _, err := l.Write([]byte("<test>\xc3")); err != nil {
		t.Fatal(err)
	}
	toks, err := drain(l)
	if err != nil {
		t.Fatal(err)
	}
	if len(toks) != 1 || toks[0].Name != "test" {
		t.Fatalf("got %#v, want only the start tag", toks)
	}
	if _, err := l.Write([]byte("\x9f</test>")); err != nil {
		t.Fatal(err)
	}
	toks, err = drain(l)
	if err != nil {
		t.Fatal(err)
	}
	if len(toks) != 2 || toks[0].Text != "ß" {
		t.Fatalf("got %#v, want text 'ß' and the end tag", toks)
	}
}

func TestLexerReferences(t *testing.T) {
	for i, test := range []struct {
		xml  string
		text string
		err  bool
	}{
		0: {`<a>&lt;&gt;&amp;&apos;&quot;</a>`, `<>&'"`, false},
		1: {`<a>&#65;&#x41;</a>`, "AA", false},
		2: {`<a>&#x1F600;</a>`, "\U0001F600", false},
		3: {`<a>&bogus;</a>`, "", true},
		4: {`<a>&#xD800;</a>`, "", true},
		5: {`<a>&#xxxxxxxxxxxxx;</a>`, "", true},
	} {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			l := dom.NewLexer()
			if _, err := l.Write([]byte(test.xml)); err != nil {
				t.Fatal(err)
			}
			toks, err := drain(l)
			switch {
			case test.err && err == nil:
				t.Fatal("expected lex error")
			case !test.err && err != nil:
				t.Fatal(err)
			case test.err:
				return
			}
			var text string
			for _, tok := range toks {
				if tok.Kind == dom.TokenText {
					text += tok.Text
				}
			}
			if text != test.text {
				t.Errorf("got text %q, want %q", text, test.text)
			}
		})
	}
}

func TestLexerErrors(t *testing.T) {
	for i, test := range []string{
		0: `<!DOCTYPE html>`,
		1: `<![CDATA[raw]]>`,
		2: `<a b='1' b='2'/>`,
		3: `<a b=unquoted/>`,
		4: `<a b='x<y'/>`,
		5: "<a>\xff</a>",
		6: `<a//>`,
		7: `</>`,
	} {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			l := dom.NewLexer()
			if _, err := l.Write([]byte(test)); err != nil {
				t.Fatal(err)
			}
			_, err := drain(l)
			if err == nil {
				t.Fatalf("lexing %q: expected error", test)
			}
			if _, ok := err.(*dom.SyntaxError); !ok {
				t.Fatalf("lexing %q: got %T, want *SyntaxError", test, err)
			}
			// The error is terminal.
			if _, err2 := l.Token(); err2 != err {
				t.Errorf("error not sticky: got %v then %v", err, err2)
			}
		})
	}
}

func TestLexerSkipsPrologAndComments(t *testing.T) {
	l := dom.NewLexer()
	_, err := l.Write([]byte(`<?xml version='1.0'?><!-- hi --><a/>`))
	if err != nil {
		t.Fatal(err)
	}
	toks, err := drain(l)
	if err != nil {
		t.Fatal(err)
	}
	if len(toks) != 2 || toks[0].Name != "a" {
		t.Fatalf("got %#v, want just <a/>", toks)
	}
}
