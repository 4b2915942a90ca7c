// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package dom

import (
	"unicode/utf8"
)

// TokenKind identifies the kind of a lexical token.
type TokenKind int

// The token kinds produced by a Lexer.
const (
	TokenStartElement TokenKind = iota
	TokenEndElement
	TokenText
)

// A Token is the lexer's unit of output. Tokens are ephemeral: the
// tree builder consumes them immediately and they are never retained.
type Token struct {
	Kind  TokenKind
	Name  string // raw qualified name, e.g. "stream:stream"
	Attrs []Attr // start elements only; includes xmlns declarations
	Text  string
}

// Lexer states. The current state together with the accumulator fields
// is the complete resume point, so a Token call that runs out of input
// picks up exactly where the previous one stopped.
const (
	stateText = iota
	stateMarkup
	statePI
	statePIEnd
	stateBang
	stateCommentOpen
	stateComment
	stateCommentDash
	stateCommentClose
	stateStartName
	stateInTag
	stateAttrName
	stateAfterAttrName
	stateBeforeAttrValue
	stateAttrValue
	stateSlash
	stateEndName
	stateAfterEndName
	stateRef
)

const maxReferenceLen = 10 // longest is a six digit character reference

// A Lexer incrementally tokenizes an XML byte stream. Input arrives
// through Write in fragments of any size; token boundaries never need
// to align with fragment boundaries, and a multi-byte UTF-8 sequence
// split across fragments is reassembled, not truncated.
//
// Processing instructions (the XML prolog) and comments are consumed
// and discarded. DOCTYPE and CDATA markup is rejected, as required of
// XMPP streams by RFC 6120 §11.1.
type Lexer struct {
	buf []byte
	pos int64

	state     int
	name      []byte
	attrName  []byte
	attrVal   []byte
	attrs     []Attr
	text      []byte
	ref       []byte
	refReturn int
	quote     byte

	pendingEnd    string // synthetic end tag for a self-closing element
	hasPendingEnd bool
	err           error
}

// NewLexer returns a lexer ready to accept input.
func NewLexer() *Lexer {
	return &Lexer{}
}

// Write appends raw bytes to the lexer's input buffer. It implements
// io.Writer and never fails unless the lexer has already failed.
func (l *Lexer) Write(p []byte) (int, error) {
	if l.err != nil {
		return 0, l.err
	}
	l.buf = append(l.buf, p...)
	return len(p), nil
}

// Buffered returns the number of unconsumed input bytes.
func (l *Lexer) Buffered() int {
	return len(l.buf)
}

func (l *Lexer) advance(n int) {
	l.buf = l.buf[n:]
	l.pos += int64(n)
}

func (l *Lexer) fail(msg string) error {
	l.err = &SyntaxError{Msg: msg, Offset: l.pos}
	return l.err
}

// takeRune consumes one rune from the input and appends its bytes to
// dst. It returns ErrWouldBlock when the buffer ends inside a
// multi-byte sequence and a SyntaxError when the bytes cannot be the
// prefix of any valid sequence.
func (l *Lexer) takeRune(dst *[]byte) error {
	if c := l.buf[0]; c < utf8.RuneSelf {
		*dst = append(*dst, c)
		l.advance(1)
		return nil
	}
	if !utf8.FullRune(l.buf) {
		if len(l.buf) >= utf8.UTFMax {
			return l.fail("invalid UTF-8 sequence")
		}
		return ErrWouldBlock
	}
	r, size := utf8.DecodeRune(l.buf)
	if r == utf8.RuneError && size == 1 {
		return l.fail("invalid UTF-8 sequence")
	}
	*dst = append(*dst, l.buf[:size]...)
	l.advance(size)
	return nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// nameByte reports whether c may appear in a tag or attribute name.
// The check is deliberately permissive; the delimiters are what
// matter for framing.
func nameByte(c byte) bool {
	switch {
	case isSpace(c):
		return false
	case c == '<' || c == '>' || c == '/' || c == '=' || c == '&' || c == '\'' || c == '"':
		return false
	}
	return true
}

func (l *Lexer) startToken() Token {
	tok := Token{Kind: TokenStartElement, Name: string(l.name), Attrs: l.attrs}
	l.name = l.name[:0]
	l.attrs = nil
	l.state = stateText
	return tok
}

func (l *Lexer) endToken() Token {
	tok := Token{Kind: TokenEndElement, Name: string(l.name)}
	l.name = l.name[:0]
	l.state = stateText
	return tok
}

func (l *Lexer) pushAttr() error {
	name := string(l.attrName)
	for _, a := range l.attrs {
		if a.Name == name {
			return l.fail("duplicate attribute " + name)
		}
	}
	l.attrs = append(l.attrs, Attr{Name: name, Value: string(l.attrVal)})
	l.attrName = l.attrName[:0]
	l.attrVal = l.attrVal[:0]
	return nil
}

// Token returns the next token, ErrWouldBlock if the buffered input
// does not complete one, or a terminal *SyntaxError. Consumed input is
// never rescanned: all partial progress lives in the lexer state.
func (l *Lexer) Token() (Token, error) {
	if l.err != nil {
		return Token{}, l.err
	}
	if l.hasPendingEnd {
		l.hasPendingEnd = false
		return Token{Kind: TokenEndElement, Name: l.pendingEnd}, nil
	}

	for len(l.buf) > 0 {
		c := l.buf[0]
		switch l.state {
		case stateText:
			switch c {
			case '<':
				l.advance(1)
				l.state = stateMarkup
				if len(l.text) > 0 {
					tok := Token{Kind: TokenText, Text: string(l.text)}
					l.text = l.text[:0]
					return tok, nil
				}
			case '&':
				l.advance(1)
				l.ref = l.ref[:0]
				l.refReturn = stateText
				l.state = stateRef
			default:
				if err := l.takeRune(&l.text); err != nil {
					return Token{}, err
				}
			}

		case stateMarkup:
			switch {
			case c == '/':
				l.advance(1)
				l.name = l.name[:0]
				l.state = stateEndName
			case c == '?':
				l.advance(1)
				l.state = statePI
			case c == '!':
				l.advance(1)
				l.state = stateBang
			case nameByte(c):
				l.name = l.name[:0]
				l.attrs = nil
				l.state = stateStartName
			default:
				return Token{}, l.fail("malformed tag open")
			}

		case statePI:
			if c == '?' {
				l.state = statePIEnd
			}
			l.advance(1)

		case statePIEnd:
			switch c {
			case '>':
				l.advance(1)
				l.state = stateText
			case '?':
				l.advance(1)
			default:
				l.advance(1)
				l.state = statePI
			}

		case stateBang:
			if c != '-' {
				return Token{}, l.fail("restricted XML markup")
			}
			l.advance(1)
			l.state = stateCommentOpen

		case stateCommentOpen:
			if c != '-' {
				return Token{}, l.fail("restricted XML markup")
			}
			l.advance(1)
			l.state = stateComment

		case stateComment:
			if c == '-' {
				l.state = stateCommentDash
			}
			l.advance(1)

		case stateCommentDash:
			if c == '-' {
				l.state = stateCommentClose
			} else {
				l.state = stateComment
			}
			l.advance(1)

		case stateCommentClose:
			switch c {
			case '>':
				l.advance(1)
				l.state = stateText
			case '-':
				l.advance(1)
			default:
				l.advance(1)
				l.state = stateComment
			}

		case stateStartName:
			switch {
			case nameByte(c):
				if err := l.takeRune(&l.name); err != nil {
					return Token{}, err
				}
			case isSpace(c):
				l.advance(1)
				l.state = stateInTag
			case c == '>':
				l.advance(1)
				return l.startToken(), nil
			case c == '/':
				l.advance(1)
				l.state = stateSlash
			default:
				return Token{}, l.fail("malformed tag name")
			}

		case stateInTag:
			switch {
			case isSpace(c):
				l.advance(1)
			case c == '>':
				l.advance(1)
				return l.startToken(), nil
			case c == '/':
				l.advance(1)
				l.state = stateSlash
			case nameByte(c):
				l.attrName = l.attrName[:0]
				l.state = stateAttrName
			default:
				return Token{}, l.fail("malformed tag")
			}

		case stateAttrName:
			switch {
			case nameByte(c):
				if err := l.takeRune(&l.attrName); err != nil {
					return Token{}, err
				}
			case isSpace(c):
				l.advance(1)
				l.state = stateAfterAttrName
			case c == '=':
				l.advance(1)
				l.state = stateBeforeAttrValue
			default:
				return Token{}, l.fail("attribute without value")
			}

		case stateAfterAttrName:
			switch {
			case isSpace(c):
				l.advance(1)
			case c == '=':
				l.advance(1)
				l.state = stateBeforeAttrValue
			default:
				return Token{}, l.fail("attribute without value")
			}

		case stateBeforeAttrValue:
			switch {
			case isSpace(c):
				l.advance(1)
			case c == '\'' || c == '"':
				l.quote = c
				l.attrVal = l.attrVal[:0]
				l.advance(1)
				l.state = stateAttrValue
			default:
				return Token{}, l.fail("unquoted attribute value")
			}

		case stateAttrValue:
			switch c {
			case l.quote:
				l.advance(1)
				if err := l.pushAttr(); err != nil {
					return Token{}, err
				}
				l.state = stateInTag
			case '<':
				return Token{}, l.fail("'<' in attribute value")
			case '&':
				l.advance(1)
				l.ref = l.ref[:0]
				l.refReturn = stateAttrValue
				l.state = stateRef
			default:
				if err := l.takeRune(&l.attrVal); err != nil {
					return Token{}, err
				}
			}

		case stateSlash:
			if c != '>' {
				return Token{}, l.fail("malformed empty element tag")
			}
			l.advance(1)
			tok := l.startToken()
			l.pendingEnd = tok.Name
			l.hasPendingEnd = true
			return tok, nil

		case stateEndName:
			switch {
			case nameByte(c):
				if err := l.takeRune(&l.name); err != nil {
					return Token{}, err
				}
			case c == '>':
				if len(l.name) == 0 {
					return Token{}, l.fail("empty end tag")
				}
				l.advance(1)
				return l.endToken(), nil
			case isSpace(c):
				if len(l.name) == 0 {
					return Token{}, l.fail("empty end tag")
				}
				l.advance(1)
				l.state = stateAfterEndName
			default:
				return Token{}, l.fail("malformed end tag")
			}

		case stateAfterEndName:
			switch {
			case isSpace(c):
				l.advance(1)
			case c == '>':
				l.advance(1)
				return l.endToken(), nil
			default:
				return Token{}, l.fail("malformed end tag")
			}

		case stateRef:
			switch {
			case c == ';':
				l.advance(1)
				s, ok := resolveReference(string(l.ref))
				if !ok {
					return Token{}, l.fail("unknown entity reference &" + string(l.ref) + ";")
				}
				if l.refReturn == stateText {
					l.text = append(l.text, s...)
				} else {
					l.attrVal = append(l.attrVal, s...)
				}
				l.state = l.refReturn
			case len(l.ref) >= maxReferenceLen:
				return Token{}, l.fail("entity reference too long")
			case c == '#' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
				l.ref = append(l.ref, c)
				l.advance(1)
			default:
				return Token{}, l.fail("malformed entity reference")
			}
		}
	}
	return Token{}, ErrWouldBlock
}
