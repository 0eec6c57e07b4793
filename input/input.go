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

// Package input groups raw source text into blank-line-delimited blocks
// tagged with their starting line number.
package input // import "mavri.cc/conmark/input"

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// ErrInvalidUTF8 reports a line that is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// A LineError attributes a read failure to a 0-based source line.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	if errors.Is(e.Err, ErrInvalidUTF8) {
		return fmt.Sprintf("invalid UTF-8 in line %d", e.Line)
	}
	return fmt.Sprintf("an IO error occurred while reading line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// A Block is one contiguous run of non-blank lines. Each source line
// appears in Src with a trailing newline. The zero Block signals end of
// input.
type Block struct {
	Src  string
	Line int
}

func (b Block) Empty() bool { return b.Src == "" }

// A Reader yields successive Blocks from an io.Reader.
type Reader struct {
	br   *bufio.Reader
	line int
}

func New(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// NextBlock returns the next block of input. Blank (all-whitespace)
// lines delimit blocks and are never part of one. Lines have no length
// limit. At end of input it returns an empty Block.
func (r *Reader) NextBlock() (Block, error) {
	var sb strings.Builder
	start := 0
	for {
		text, err := r.br.ReadString('\n')
		if err != nil && err != io.EOF {
			return Block{}, &LineError{Line: r.line, Err: err}
		}
		if err == io.EOF && text == "" {
			break
		}
		n := r.line
		r.line++
		text = strings.TrimSuffix(text, "\n")
		text = strings.TrimSuffix(text, "\r")
		if !utf8.ValidString(text) {
			return Block{}, &LineError{Line: n, Err: ErrInvalidUTF8}
		}
		if strings.TrimSpace(text) == "" {
			if sb.Len() > 0 {
				break
			}
			continue
		}
		if sb.Len() == 0 {
			start = n
		}
		sb.WriteString(text)
		sb.WriteByte('\n')
	}
	return Block{Src: sb.String(), Line: start}, nil
}
