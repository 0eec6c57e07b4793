// MIT License

// Copyright (c) 2020 Senna Mavri

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package parser

import (
	"errors"
	"fmt"
)

// ErrPostambleOrder reports a split gloss line found after the gloss
// postamble has already begun.
var ErrPostambleOrder = errors.New("gloss line appears after the start of the postamble")

// A BlockError wraps any failure inside one block with the block's
// 0-based starting line.
type BlockError struct {
	Line int
	Err  error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("failed to parse block starting on line %d: %v", e.Line, e.Err)
}

func (e *BlockError) Unwrap() error { return e.Err }

// An EndOfBlockError reports input ending where a specific character,
// or any character completing an escape, was still required.
type EndOfBlockError struct {
	Escape bool
	Want   rune
}

func (e *EndOfBlockError) Error() string {
	if e.Escape {
		return "unexpected end of block, expected a character after `\\`"
	}
	return fmt.Sprintf("unexpected end of block, expected `%c`", e.Want)
}

// A DelimError reports a doubled delimiter whose closing pair was not
// doubled.
type DelimError struct {
	Delim string
}

func (e *DelimError) Error() string {
	return fmt.Sprintf("mismatched closing delimiter, expected `%s`", e.Delim)
}

// An ExpectError reports a character other than the one the current
// grammar production requires.
type ExpectError struct {
	Want rune
}

func (e *ExpectError) Error() string {
	return fmt.Sprintf("expected `%c`", e.Want)
}

// An UnknownParamError reports a keyed parameter no object in the
// block's target chain recognized.
type UnknownParamError struct {
	Key string
}

func (e *UnknownParamError) Error() string {
	return fmt.Sprintf("unknown parameter %q", e.Key)
}

func eobExpect(want rune) error {
	return &EndOfBlockError{Want: want}
}

func eobEscape() error {
	return &EndOfBlockError{Escape: true}
}
