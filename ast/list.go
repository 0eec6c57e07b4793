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
)

type List struct {
	Items   []ListItem
	Ordered bool
}

type ListItem struct {
	Text    Text
	Sublist []ListItem
}

func listTag(ordered bool) string {
	if ordered {
		return "ol"
	}
	return "ul"
}

func (l *List) blockKind() {}

func (l *List) ConsumeParam(p Parameter) (bool, error) {
	if p.Key == "" && p.Value == "ordered" {
		l.Ordered = true
		return true, nil
	}
	return false, nil
}

func (l *List) Render(w io.Writer, common *BlockCommon, doc Resolver) error {
	t := listTag(l.Ordered)
	fmt.Fprintf(w, "<%s ", t)
	fmt.Fprintf(w, "id=\"%s\" ", html.EscapeString(common.ID))
	fmt.Fprintf(w, "class=\"%s\">", html.EscapeString(common.Class))
	writeItems(w, l.Items, l.Ordered, doc)
	_, err := fmt.Fprintf(w, "</%s>\n", t)
	return err
}

func writeItems(w io.Writer, items []ListItem, ordered bool, doc Resolver) {
	for _, item := range items {
		io.WriteString(w, "<li>")
		item.Text.WriteInline(w, doc)
		if len(item.Sublist) > 0 {
			fmt.Fprintf(w, "<%s>\n", listTag(ordered))
			writeItems(w, item.Sublist, ordered, doc)
			fmt.Fprintf(w, "</%s>\n", listTag(ordered))
		}
		io.WriteString(w, "</li>\n")
	}
}
