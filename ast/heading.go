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
	"strings"
)

func writeSectionNumber(w io.Writer, number []int) {
	if len(number) == 0 {
		return
	}
	io.WriteString(w, `<span class="secnum">`)
	writeSectionNumber(w, number[:len(number)-1])
	fmt.Fprintf(w, "%d.</span>", number[len(number)-1])
}

// Heading opens a section. Number is filled in by the document when the
// heading is inserted into the section tree.
type Heading struct {
	Title    Text
	Numbered bool
	TOC      bool
	Level    int
	Children SectionList
	Number   []int
}

func NewHeading(level int) *Heading {
	return &Heading{
		Numbered: true,
		TOC:      true,
		Level:    level,
		Children: NewSectionList(level + 1),
	}
}

func (h *Heading) blockKind() {}

func (h *Heading) ConsumeParam(p Parameter) (bool, error) {
	if p.Key != "" {
		return false, nil
	}
	switch p.Value {
	case "nonumber":
		h.Numbered = false
	case "notoc":
		h.TOC = false
	default:
		return false, nil
	}
	return true, nil
}

func (h *Heading) tag() string {
	if h.Level >= 1 && h.Level <= 6 {
		return "h" + strconv.Itoa(h.Level)
	}
	return "p"
}

func (h *Heading) Render(w io.Writer, common *BlockCommon, doc Resolver) error {
	t := h.tag()
	fmt.Fprintf(w, "<%s ", t)
	fmt.Fprintf(w, "id=\"%s\" ", html.EscapeString(common.ID))
	fmt.Fprintf(w, "class=\"%s ", html.EscapeString(common.Class))
	if h.Level > 6 {
		// no heading tag this deep, so the level rides along as a class
		fmt.Fprintf(w, " h%d\">", h.Level)
	} else {
		io.WriteString(w, "\">")
	}
	if h.Numbered {
		writeSectionNumber(w, h.Number)
	}
	h.Title.WriteInline(w, doc)
	_, err := fmt.Fprintf(w, "</%s>\n\n", t)
	return err
}

// ReferenceText names the section by number when it has one, and by
// title otherwise.
func (h *Heading) ReferenceText() Text {
	if h.IsNumbered() {
		parts := make([]string, len(h.Number))
		for i, n := range h.Number {
			parts[i] = strconv.Itoa(n)
		}
		return Plain("section " + strings.Join(parts, "."))
	}
	return append(Plain("section "), h.Title...)
}

// IsNumbered reports whether the heading takes part in section
// numbering. A heading kept out of the table of contents never numbers.
func (h *Heading) IsNumbered() bool { return h.Numbered && h.TOC }

func (h *Heading) InTOC() bool { return h.TOC }

func (h *Heading) HeadingLevel() int { return h.Level }

func (h *Heading) Sections() *SectionList { return &h.Children }

func (h *Heading) SectionNumber() []int { return h.Number }

func (h *Heading) PushNumber(n int) { h.Number = append(h.Number, n) }

func (h *Heading) HeadingTitle() Text { return h.Title }

// FillerHeading bridges a gap in the section tree when a heading skips
// levels. It owns the intermediate SectionList and renders nothing.
type FillerHeading struct {
	Children SectionList
}

func NewFillerHeading(level int) *FillerHeading {
	return &FillerHeading{Children: SectionList{Level: level}}
}

func (f *FillerHeading) blockKind() {}

func (f *FillerHeading) ConsumeParam(Parameter) (bool, error) { return false, nil }

func (f *FillerHeading) Render(io.Writer, *BlockCommon, Resolver) error { return nil }

func (f *FillerHeading) IsNumbered() bool { return false }

func (f *FillerHeading) InTOC() bool { return false }

func (f *FillerHeading) HeadingLevel() int { return f.Children.Level - 1 }

func (f *FillerHeading) Sections() *SectionList { return &f.Children }

func (f *FillerHeading) SectionNumber() []int { return nil }

func (f *FillerHeading) PushNumber(int) {}

func (f *FillerHeading) HeadingTitle() Text { return nil }

// Contents renders the table of contents down to MaxLevel.
type Contents struct {
	Title    Text
	MaxLevel int
}

func NewContents() *Contents {
	return &Contents{
		Title:    Plain("Table of Contents"),
		MaxLevel: 6,
	}
}

func (c *Contents) blockKind() {}

func (c *Contents) ConsumeParam(p Parameter) (bool, error) {
	if p.Key != "maxlevel" {
		return false, nil
	}
	n, err := strconv.Atoi(p.Value)
	if err != nil || n < 0 {
		return true, fmt.Errorf("parameter maxlevel: invalid level %q", p.Value)
	}
	c.MaxLevel = n
	return true, nil
}

func (c *Contents) Render(w io.Writer, common *BlockCommon, doc Resolver) error {
	io.WriteString(w, "<div ")
	fmt.Fprintf(w, "id=\"%s\" ", html.EscapeString(common.ID))
	fmt.Fprintf(w, "class=\"%s toc\">", html.EscapeString(common.Class))
	io.WriteString(w, `<p class="toc-heading">`)
	c.Title.WriteInline(w, doc)
	io.WriteString(w, "</p>\n")
	c.writeSublist(w, 1, doc.RootSections().Headings, doc)
	_, err := io.WriteString(w, "</div>\n\n")
	return err
}

func (c *Contents) writeSublist(w io.Writer, level int, list []int, doc Resolver) {
	if len(list) == 0 || level > c.MaxLevel {
		return
	}
	io.WriteString(w, "<ol>\n")
	// when a listed heading is unnumbered, the ordered list loses count
	// and the next numbered entry must restate its value
	manual := false
	if num := doc.HeadingAt(list[0]).SectionNumber(); len(num) > 0 {
		manual = num[len(num)-1] != 1
	}
	for _, e := range list {
		h := doc.HeadingAt(e)
		if !h.IsNumbered() {
			io.WriteString(w, `<li class="nonumber">`)
			manual = true
		} else if manual {
			num := h.SectionNumber()
			fmt.Fprintf(w, "<li value=\"%d\">", num[len(num)-1])
			manual = false
		} else {
			io.WriteString(w, "<li>")
		}
		if h.InTOC() {
			fmt.Fprintf(w, "<a href=\"#%s\">", html.EscapeString(doc.BlockAt(e).Common.ID))
			h.HeadingTitle().WriteInline(w, doc)
			io.WriteString(w, "</a>")
		}
		c.writeSublist(w, level+1, h.Sections().Headings, doc)
		io.WriteString(w, "</li>\n")
	}
	io.WriteString(w, "</ol>\n\n")
}
