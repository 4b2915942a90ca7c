// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package dom

import (
	"errors"
	"fmt"
)

// ErrWouldBlock is returned by Lexer.Token when the buffered input is
// a valid prefix of a token but does not complete one. It is not a
// failure; writing more bytes and calling Token again resumes parsing.
var ErrWouldBlock = errors.New("dom: need more input")

// A SyntaxError reports malformed XML or an invalid UTF-8 sequence.
// It is terminal for the stream: no resynchronization is attempted.
type SyntaxError struct {
	Msg    string
	Offset int64
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("dom: syntax error at offset %d: %s", e.Offset, e.Msg)
}

// A StructuralError reports a token sequence that does not form a
// well-nested tree, such as an end tag with no matching start tag. It
// is terminal for the stream.
type StructuralError struct {
	Msg string
}

func (e *StructuralError) Error() string {
	return "dom: " + e.Msg
}
