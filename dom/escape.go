// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package dom

import (
	"bytes"
	"strconv"
	"strings"
)

// escapeTo writes s to b with the five XML special characters replaced
// by entity references.
func escapeTo(b *bytes.Buffer, s string) {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '\'':
			b.WriteString("&apos;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteByte(c)
		}
	}
}

// Escape returns s with XML special characters replaced by entity
// references.
func Escape(s string) string {
	if !strings.ContainsAny(s, "&<>'\"") {
		return s
	}
	var b bytes.Buffer
	escapeTo(&b, s)
	return b.String()
}

// resolveReference decodes the body of an entity or character
// reference (the part between '&' and ';').
func resolveReference(ref string) (string, bool) {
	switch ref {
	case "amp":
		return "&", true
	case "lt":
		return "<", true
	case "gt":
		return ">", true
	case "apos":
		return "'", true
	case "quot":
		return "\"", true
	}
	if len(ref) > 1 && ref[0] == '#' {
		digits, base := ref[1:], 10
		if digits != "" && (digits[0] == 'x' || digits[0] == 'X') {
			digits, base = digits[1:], 16
		}
		n, err := strconv.ParseUint(digits, base, 32)
		if err != nil || n > 0x10FFFF || (n >= 0xD800 && n <= 0xDFFF) {
			return "", false
		}
		return string(rune(n)), true
	}
	return "", false
}
