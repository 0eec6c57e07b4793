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

// Table owns its rows and an independent column list. Columns carry
// header and class information only; a cell's physical column is found
// while rendering, so the column list is not 1:1 with cell indices.
type Table struct {
	Title    Text
	Numbered bool
	Number   int
	Rows     []Row
	Columns  []Column
}

func NewTable() *Table {
	return &Table{Numbered: true}
}

type Row struct {
	Cells  []Cell
	Header bool
	Class  string
}

type Column struct {
	Header bool
	Class  string
}

type Cell struct {
	Rows  int
	Cols  int
	Class string
	Text  Text
}

func NewCell() Cell {
	return Cell{Rows: 1, Cols: 1}
}

func (t *Table) blockKind() {}

func (t *Table) ConsumeParam(p Parameter) (bool, error) {
	if p.Key == "" && p.Value == "nonumber" {
		t.Numbered = false
		return true, nil
	}
	return false, nil
}

func (t *Table) Render(w io.Writer, common *BlockCommon, doc Resolver) error {
	io.WriteString(w, "<table ")
	fmt.Fprintf(w, "id=\"%s\" ", html.EscapeString(common.ID))
	fmt.Fprintf(w, "class=\"%s\">", html.EscapeString(common.Class))
	io.WriteString(w, "<caption>")
	io.WriteString(w, `<span class="table-heading-prefix">Table`)
	if t.Numbered {
		fmt.Fprintf(w, " %d", t.Number)
	}
	io.WriteString(w, ":</span> ")
	t.Title.WriteInline(w, doc)
	io.WriteString(w, "</caption>\n")
	// continuation[col] counts the remaining rows a spanning cell from
	// an earlier row still occupies in that physical column
	continuation := make([]int, 0, len(t.Columns))
	for _, row := range t.Rows {
		fmt.Fprintf(w, "<tr class=\"%s\">", html.EscapeString(row.Class))
		col := 0
		for _, cell := range row.Cells {
			for col < len(continuation) && continuation[col] > 0 {
				continuation[col]--
				col++
			}
			for len(continuation) < col+cell.Cols {
				continuation = append(continuation, 0)
			}
			for i := col; i < col+cell.Cols; i++ {
				n := continuation[i]
				if cell.Rows > n {
					n = cell.Rows
				}
				if n > 0 {
					n--
				}
				continuation[i] = n
			}
			var colDef *Column
			if col < len(t.Columns) {
				colDef = &t.Columns[col]
			}
			cell.write(w, &row, colDef, doc)
			col += cell.Cols
		}
		io.WriteString(w, "</tr>\n")
	}
	_, err := io.WriteString(w, "</table>\n\n")
	return err
}

func (t *Table) ReferenceText() Text {
	if t.Numbered {
		return Plain("table " + strconv.Itoa(t.Number))
	}
	return append(Plain("table "), t.Title...)
}

func (r *Row) ConsumeParam(p Parameter) (bool, error) {
	switch p.Key {
	case "class":
		r.Class = p.Value
	case "":
		if p.Value == "header" {
			r.Header = true
		} else {
			r.Class = p.Value
		}
	default:
		return false, nil
	}
	return true, nil
}

func (c *Column) ConsumeParam(p Parameter) (bool, error) {
	switch p.Key {
	case "class":
		c.Class = p.Value
	case "":
		if p.Value == "header" {
			c.Header = true
		} else {
			c.Class = p.Value
		}
	default:
		return false, nil
	}
	return true, nil
}

func (c *Cell) ConsumeParam(p Parameter) (bool, error) {
	switch p.Key {
	case "", "class":
		c.Class = p.Value
	case "rows":
		n, err := strconv.Atoi(p.Value)
		if err != nil || n < 1 {
			return true, fmt.Errorf("parameter rows: invalid span count %q", p.Value)
		}
		c.Rows = n
	case "cols":
		n, err := strconv.Atoi(p.Value)
		if err != nil || n < 1 {
			return true, fmt.Errorf("parameter cols: invalid span count %q", p.Value)
		}
		c.Cols = n
	default:
		return false, nil
	}
	return true, nil
}

func (c *Cell) write(w io.Writer, row *Row, col *Column, doc Resolver) {
	headerRow := row.Header
	headerCol := col != nil && col.Header
	switch {
	case headerRow:
		io.WriteString(w, "<th ")
		if c.Cols > 1 {
			io.WriteString(w, `scope="colgroup" `)
		} else {
			io.WriteString(w, `scope="col" `)
		}
	case headerCol:
		io.WriteString(w, "<th ")
		if c.Rows > 1 {
			io.WriteString(w, `scope="rowgroup" `)
		} else {
			io.WriteString(w, `scope="row" `)
		}
	default:
		io.WriteString(w, "<td ")
	}
	if c.Cols > 1 {
		fmt.Fprintf(w, "colspan=\"%d\" ", c.Cols)
	}
	if c.Rows > 1 {
		fmt.Fprintf(w, "rowspan=\"%d\" ", c.Rows)
	}
	fmt.Fprintf(w, "class=\"%s", html.EscapeString(c.Class))
	if col != nil {
		fmt.Fprintf(w, " %s", html.EscapeString(col.Class))
	}
	io.WriteString(w, `">`)
	c.Text.WriteInline(w, doc)
	if headerRow || headerCol {
		io.WriteString(w, "</th>")
	} else {
		io.WriteString(w, "</td>")
	}
}
