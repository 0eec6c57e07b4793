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

package ast

import (
	"fmt"
	"html"
	"io"
	"strconv"
)

// Gloss is an interlinear gloss: annotation lines aligned word by word
// under a head line, between free-form preamble and postamble lines.
type Gloss struct {
	Title     Text
	Numbered  bool
	Number    int
	Preamble  []Text
	Lines     []GlossLine
	Postamble []Text
}

func NewGloss() *Gloss {
	return &Gloss{Numbered: true}
}

type GlossLine struct {
	Words []Text
	Class string
}

func (g *Gloss) blockKind() {}

func (g *Gloss) ConsumeParam(p Parameter) (bool, error) {
	if p.Key == "" && p.Value == "nonumber" {
		g.Numbered = false
		return true, nil
	}
	return false, nil
}

func (g *Gloss) Render(w io.Writer, common *BlockCommon, doc Resolver) error {
	io.WriteString(w, "<div ")
	fmt.Fprintf(w, "id=\"%s\" ", html.EscapeString(common.ID))
	fmt.Fprintf(w, "class=\"gloss %s\">", html.EscapeString(common.Class))
	io.WriteString(w, `<p class="gloss-heading">`)
	io.WriteString(w, `<span class="gloss-heading-prefix">Gloss`)
	if g.Numbered {
		fmt.Fprintf(w, " %d", g.Number)
	}
	io.WriteString(w, ":</span> ")
	g.Title.WriteInline(w, doc)
	io.WriteString(w, "</p>\n")
	for _, line := range g.Preamble {
		io.WriteString(w, `<p class="preamble">`)
		line.WriteInline(w, doc)
		io.WriteString(w, "</p>\n")
	}
	if numWords := g.widest(); numWords > 0 {
		// addSpace carries whether the previous group's head word ended
		// with a hyphen, so bound morphemes stay attached to their host
		addSpace := false
		for i := 0; i < numWords; i++ {
			var head Text
			if i < len(g.Lines[0].Words) {
				head = g.Lines[0].Words[i]
			}
			if addSpace || !head.StartsWith('-') {
				io.WriteString(w, " ")
			}
			io.WriteString(w, "<dl>")
			fmt.Fprintf(w, "<dt class=\"%s\">", html.EscapeString(g.Lines[0].Class))
			head.WriteInline(w, doc)
			io.WriteString(w, "</dt>")
			for _, line := range g.Lines[1:] {
				fmt.Fprintf(w, "<dd class=\"%s\">", html.EscapeString(line.Class))
				if i < len(line.Words) {
					line.Words[i].WriteInline(w, doc)
				}
				io.WriteString(w, "</dd>")
			}
			io.WriteString(w, "</dl>")
			addSpace = head.EndsWith('-')
		}
	}
	for _, line := range g.Postamble {
		io.WriteString(w, `<p class="postamble">`)
		line.WriteInline(w, doc)
		io.WriteString(w, "</p>\n")
	}
	_, err := io.WriteString(w, "</div>\n\n")
	return err
}

// widest returns the longest body line's word count, or 0 when the
// gloss has no body.
func (g *Gloss) widest() int {
	max := 0
	for _, line := range g.Lines {
		if len(line.Words) > max {
			max = len(line.Words)
		}
	}
	return max
}

func (g *Gloss) ReferenceText() Text {
	if g.Numbered {
		return Plain("gloss " + strconv.Itoa(g.Number))
	}
	return append(Plain("gloss "), g.Title...)
}
