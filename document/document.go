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

// Package document assembles parsed blocks into a Document: it places
// headings in the section tree, numbers sections, tables, and glosses,
// assigns and registers block ids, merges replacement definitions, and
// applies control blocks. A Document satisfies ast.Resolver, so a
// generator can resolve references against it.
package document // import "mavri.cc/conmark/document"

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"mavri.cc/conmark/ast"
	"mavri.cc/conmark/input"
	"mavri.cc/conmark/parser"
)

// A DuplicateIDError reports two blocks claiming the same id.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string { return fmt.Sprintf("duplicate id %q", e.ID) }

// A DuplicateKeyError reports a replacement key defined by two blocks.
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate replacement key %q", e.Key)
}

// An ImportError reports a failure to read an imported source.
type ImportError struct {
	Name string
	Err  error
}

func (e *ImportError) Error() string { return fmt.Sprintf("import %s: %v", e.Name, e.Err) }

func (e *ImportError) Unwrap() error { return e.Err }

// A Document accumulates blocks and the cross-block state their
// rendering depends on.
type Document struct {
	blocks   []*ast.Block
	sections ast.SectionList
	ids      map[string]int
	repl     map[string]ast.Text

	tables     []int
	glosses    []int
	tableCount int
	glossCount int
	noIDCount  int

	Title       string
	Author      string
	Description string
	Lang        string
	Stylesheets []string

	// Importer opens the source named by an import control block. It
	// defaults to opening a file by that name.
	Importer func(name string) (io.ReadCloser, error)
}

func New() *Document {
	return &Document{
		sections: ast.NewSectionList(1),
		ids:      make(map[string]int),
		repl:     make(map[string]ast.Text),
	}
}

// Build reads an entire source from r into a new document.
func Build(r io.Reader) (*Document, error) {
	d := New()
	if err := d.AddFrom(r); err != nil {
		return nil, err
	}
	return d, nil
}

// AddFrom splits r into blocks and adds each to the document in order.
func (d *Document) AddFrom(r io.Reader) error {
	in := input.New(r)
	for {
		blk, err := in.NextBlock()
		if err != nil {
			return err
		}
		if blk.Empty() {
			return nil
		}
		b, err := parser.ParseBlock(blk.Src, blk.Line)
		if err != nil {
			return err
		}
		if err := d.AddBlock(b); err != nil {
			return err
		}
	}
}

// AddBlock adds one parsed block to the document. A nil block is
// ignored. Adding an import control block reads the named source in
// place, so its blocks land between the surrounding blocks of the
// importing source.
func (d *Document) AddBlock(b *ast.Block) error {
	if b == nil {
		return nil
	}
	if err := d.addBlock(b); err != nil {
		return fmt.Errorf("block starting on line %d: %w", b.Common.StartLine, err)
	}
	return nil
}

func (d *Document) addBlock(b *ast.Block) error {
	switch k := b.Kind.(type) {
	case *ast.Control:
		if err := d.applyControl(k); err != nil {
			return err
		}
	case *ast.Replacements:
		if err := d.mergeReplacements(k); err != nil {
			return err
		}
	case *ast.Table:
		d.tables = append(d.tables, len(d.blocks))
		if k.Numbered {
			d.tableCount++
			k.Number = d.tableCount
		}
	case *ast.Gloss:
		d.glosses = append(d.glosses, len(d.blocks))
		if k.Numbered {
			d.glossCount++
			k.Number = d.glossCount
		}
	}
	if h, ok := b.Kind.(ast.HeadingLike); ok {
		if err := d.insertSection(b, h); err != nil {
			return err
		}
	}
	return d.append(b)
}

// insertSection places a heading in the section tree and derives its
// section number. Skipped levels are bridged with unnumbered filler
// headings so that every tree path descends one level at a time.
func (d *Document) insertSection(b *ast.Block, h ast.HeadingLike) error {
	cur := &d.sections
	for cur.Level < h.HeadingLevel() {
		if len(cur.Headings) == 0 {
			fb := &ast.Block{
				Kind:   ast.NewFillerHeading(cur.Level + 1),
				Common: ast.BlockCommon{StartLine: b.Common.StartLine},
			}
			if err := d.append(fb); err != nil {
				return err
			}
			cur.Push(len(d.blocks)-1, false)
		}
		if h.IsNumbered() {
			h.PushNumber(cur.LastChildNumber)
		}
		last := cur.Headings[len(cur.Headings)-1]
		cur = d.HeadingAt(last).Sections()
	}
	if h.IsNumbered() {
		h.PushNumber(cur.LastChildNumber + 1)
		if b.Common.ID == "" {
			b.Common.ID = sectionID(h.SectionNumber())
		}
	} else if len(cur.Headings) > 0 {
		// An unnumbered heading is transparent to numbering: its
		// children continue where the previous sibling's left off.
		elder := d.HeadingAt(cur.Headings[len(cur.Headings)-1])
		h.Sections().LastChildNumber = elder.Sections().LastChildNumber
	}
	cur.Push(len(d.blocks), h.IsNumbered())
	return nil
}

func sectionID(number []int) string {
	parts := make([]string, len(number))
	for i, n := range number {
		parts[i] = strconv.Itoa(n)
	}
	return "sec-" + strings.Join(parts, "-")
}

// append assigns the block an id if it has none, registers the id, and
// appends the block.
func (d *Document) append(b *ast.Block) error {
	if b.Common.ID == "" {
		b.Common.ID = fmt.Sprintf("__no-id-%d", d.noIDCount)
		d.noIDCount++
	}
	if _, ok := d.ids[b.Common.ID]; ok {
		return &DuplicateIDError{ID: b.Common.ID}
	}
	d.ids[b.Common.ID] = len(d.blocks)
	d.blocks = append(d.blocks, b)
	return nil
}

// applyControl records a control block's value. The scalar controls
// keep the first value they are given; stylesheets accumulate.
func (d *Document) applyControl(c *ast.Control) error {
	switch c.Kind {
	case ast.ControlTitle:
		if d.Title == "" {
			d.Title = c.Value
		}
	case ast.ControlAuthor:
		if d.Author == "" {
			d.Author = c.Value
		}
	case ast.ControlDescription:
		if d.Description == "" {
			d.Description = c.Value
		}
	case ast.ControlLang:
		if d.Lang == "" {
			d.Lang = c.Value
		}
	case ast.ControlStylesheet:
		d.Stylesheets = append(d.Stylesheets, c.Value)
	case ast.ControlImport:
		return d.importFile(c.Value)
	}
	return nil
}

func (d *Document) importFile(name string) error {
	open := d.Importer
	if open == nil {
		open = func(name string) (io.ReadCloser, error) { return os.Open(name) }
	}
	f, err := open(name)
	if err != nil {
		return &ImportError{Name: name, Err: err}
	}
	defer f.Close()
	if err := d.AddFrom(f); err != nil {
		return &ImportError{Name: name, Err: err}
	}
	return nil
}

func (d *Document) mergeReplacements(r *ast.Replacements) error {
	for k, v := range r.Map {
		if _, ok := d.repl[k]; ok {
			return &DuplicateKeyError{Key: k}
		}
		d.repl[k] = v
	}
	return nil
}

// Blocks returns the document's blocks in source order, fillers
// included.
func (d *Document) Blocks() []*ast.Block { return d.blocks }

// Tables returns the block indices of the document's tables in source
// order, whether numbered or not.
func (d *Document) Tables() []int { return d.tables }

// Glosses returns the block indices of the document's glosses in
// source order, whether numbered or not.
func (d *Document) Glosses() []int { return d.glosses }

func (d *Document) BlockByID(id string) *ast.Block {
	i, ok := d.ids[id]
	if !ok {
		return nil
	}
	return d.blocks[i]
}

func (d *Document) Replacement(key string) (ast.Text, bool) {
	t, ok := d.repl[key]
	return t, ok
}

func (d *Document) BlockAt(i int) *ast.Block { return d.blocks[i] }

func (d *Document) HeadingAt(i int) ast.HeadingLike {
	h, _ := d.blocks[i].Kind.(ast.HeadingLike)
	return h
}

func (d *Document) RootSections() *ast.SectionList { return &d.sections }
