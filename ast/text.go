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
	"unicode/utf8"
)

// Text is inline content: an ordered sequence of styled fragments.
type Text []Inline

// Plain returns a Text holding the single literal s.
func Plain(s string) Text {
	return Text{{Kind: Literal(s)}}
}

// Inline is one fragment of inline content. Class is the fragment's
// user-supplied class attribute, distinct from any class implied by the
// kind itself.
type Inline struct {
	Kind  InlineKind
	Class string
}

//go:generate sumgen InlineKind = Literal | Emphasis | Strong | Italics | Bold | SmallCaps | Span | Replace | *Reference | *Link
type InlineKind interface {
	inlineKind()
}

type (
	Literal   string
	Emphasis  struct{ Body Text }
	Strong    struct{ Body Text }
	Italics   struct{ Body Text }
	Bold      struct{ Body Text }
	SmallCaps struct{ Body Text }
	Span      struct{ Body Text }
	Replace   struct{ Key string }
	Reference struct{ ID string }
	Link      struct {
		URL   string
		Title Text
	}
)

func (Literal) inlineKind()    {}
func (Emphasis) inlineKind()   {}
func (Strong) inlineKind()     {}
func (Italics) inlineKind()    {}
func (Bold) inlineKind()       {}
func (SmallCaps) inlineKind()  {}
func (Span) inlineKind()       {}
func (Replace) inlineKind()    {}
func (*Reference) inlineKind() {}
func (*Link) inlineKind()      {}

// ConsumeParam offers p to the fragment's kind first, then to its
// class attribute.
func (in *Inline) ConsumeParam(p Parameter) (bool, error) {
	switch k := in.Kind.(type) {
	case *Reference:
		if p.Key == "" || p.Key == "ref" {
			k.ID = p.Value
			return true, nil
		}
	case *Link:
		switch p.Key {
		case "", "link":
			k.URL = p.Value
			return true, nil
		case "title":
			k.Title = Plain(p.Value)
			return true, nil
		}
	}
	if p.Key == "" || p.Key == "class" {
		in.Class = p.Value
		return true, nil
	}
	return false, nil
}

func tag(k InlineKind) string {
	switch k.(type) {
	case Literal:
		return ""
	case Emphasis:
		return "em"
	case Strong:
		return "strong"
	case Italics:
		return "i"
	case Bold:
		return "b"
	case *Reference, *Link:
		return "a"
	}
	return "span"
}

func class(k InlineKind) string {
	switch k.(type) {
	case SmallCaps:
		return "small-caps"
	case *Reference:
		return "reference"
	}
	return ""
}

// WriteInline writes the HTML form of t to w, stopping at the first
// write error.
func (t Text) WriteInline(w io.Writer, doc Resolver) error {
	for _, in := range t {
		if err := in.write(w, doc); err != nil {
			return err
		}
	}
	return nil
}

func (in Inline) write(w io.Writer, doc Resolver) error {
	tg := tag(in.Kind)
	if tg != "" {
		fmt.Fprintf(w, "<%s class=\"%s %s\"", tg, html.EscapeString(class(in.Kind)), html.EscapeString(in.Class))
		switch k := in.Kind.(type) {
		case *Reference:
			fmt.Fprintf(w, " href=\"#%s\"", html.EscapeString(k.ID))
		case *Link:
			fmt.Fprintf(w, " href=\"%s\"", html.EscapeString(k.URL))
		}
		io.WriteString(w, ">")
	}
	var err error
	switch k := in.Kind.(type) {
	case Literal:
		_, err = io.WriteString(w, html.EscapeString(string(k)))
	case Emphasis:
		err = k.Body.WriteInline(w, doc)
	case Strong:
		err = k.Body.WriteInline(w, doc)
	case Italics:
		err = k.Body.WriteInline(w, doc)
	case Bold:
		err = k.Body.WriteInline(w, doc)
	case SmallCaps:
		err = k.Body.WriteInline(w, doc)
	case Span:
		err = k.Body.WriteInline(w, doc)
	case Replace:
		err = writeReplace(w, k.Key, doc)
	case *Reference:
		err = writeReference(w, k.ID, doc)
	case *Link:
		err = k.Title.WriteInline(w, doc)
	}
	if tg != "" {
		_, werr := fmt.Fprintf(w, "</%s>", tg)
		if err == nil {
			err = werr
		}
	}
	return err
}

func writeReference(w io.Writer, id string, doc Resolver) error {
	b := doc.BlockByID(id)
	if b == nil {
		_, err := fmt.Fprintf(w, "<span class=\"undefined-reference\">#%s</span>", html.EscapeString(id))
		return err
	}
	ref, ok := b.Kind.(Referenceable)
	if !ok {
		_, err := fmt.Fprintf(w, "<span class=\"unreferenceable-block\">#%s</span>", html.EscapeString(id))
		return err
	}
	return ref.ReferenceText().WriteInline(w, doc)
}

func writeReplace(w io.Writer, key string, doc Resolver) error {
	t, ok := doc.Replacement(key)
	if !ok {
		_, err := fmt.Fprintf(w, "<span class=\"undefined-replace\">:%s:</span>", html.EscapeString(key))
		return err
	}
	return t.WriteInline(w, doc)
}

// WithClass wraps t in a single span fragment carrying class.
func (t Text) WithClass(class string) Text {
	return Text{{Kind: Span{Body: t}, Class: class}}
}

// StartsWith reports whether the first character of t is r. Replacement
// and reference fragments have no inspectable text of their own.
func (t Text) StartsWith(r rune) bool {
	if len(t) == 0 {
		return false
	}
	switch k := t[0].Kind.(type) {
	case Literal:
		first, _ := utf8.DecodeRuneInString(string(k))
		return len(k) > 0 && first == r
	case Emphasis:
		return k.Body.StartsWith(r)
	case Strong:
		return k.Body.StartsWith(r)
	case Italics:
		return k.Body.StartsWith(r)
	case Bold:
		return k.Body.StartsWith(r)
	case SmallCaps:
		return k.Body.StartsWith(r)
	case Span:
		return k.Body.StartsWith(r)
	case *Link:
		return k.Title.StartsWith(r)
	}
	return false
}

// EndsWith reports whether the last character of t is r.
func (t Text) EndsWith(r rune) bool {
	if len(t) == 0 {
		return false
	}
	switch k := t[len(t)-1].Kind.(type) {
	case Literal:
		last, _ := utf8.DecodeLastRuneInString(string(k))
		return len(k) > 0 && last == r
	case Emphasis:
		return k.Body.EndsWith(r)
	case Strong:
		return k.Body.EndsWith(r)
	case Italics:
		return k.Body.EndsWith(r)
	case Bold:
		return k.Body.EndsWith(r)
	case SmallCaps:
		return k.Body.EndsWith(r)
	case Span:
		return k.Body.EndsWith(r)
	case *Link:
		return k.Title.EndsWith(r)
	}
	return false
}
