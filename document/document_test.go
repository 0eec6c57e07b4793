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

// Tests for document.go
package document_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"mavri.cc/conmark/ast"
	"mavri.cc/conmark/document"
)

func TestNumbering(t *testing.T) {
	src := "# A\n\n## A1\n\n## A2\n\n# B\n\n### Deep\n"
	d, err := document.Build(strings.NewReader(src))
	require.NoError(t, err)

	a2 := d.BlockByID("sec-1-2")
	require.NotNil(t, a2)
	require.Equal(t, []int{1, 2}, a2.Kind.(*ast.Heading).Number)

	// A level skip is bridged by an unnumbered filler heading, and the
	// skipped position numbers as zero.
	deep := d.BlockByID("sec-2-0-1")
	require.NotNil(t, deep)
	require.Equal(t, []int{2, 0, 1}, deep.Kind.(*ast.Heading).Number)

	blocks := d.Blocks()
	require.Len(t, blocks, 6)
	filler, ok := blocks[4].Kind.(*ast.FillerHeading)
	require.True(t, ok)
	require.Equal(t, 2, filler.HeadingLevel())
	require.Equal(t, "__no-id-0", blocks[4].Common.ID)
	require.Equal(t, 8, blocks[4].Common.StartLine)
}

func TestUnnumberedTransparent(t *testing.T) {
	src := "# A\n\n## A1\n\n#[nonumber] X\n\n## Under\n\n# B\n"
	d, err := document.Build(strings.NewReader(src))
	require.NoError(t, err)

	// Children of the unnumbered heading continue its elder sibling's
	// numbering.
	under := d.BlockByID("sec-1-2")
	require.NotNil(t, under)
	require.Equal(t, ast.Plain("Under"), under.Kind.(*ast.Heading).Title)
	require.Equal(t, []int{1, 2}, under.Kind.(*ast.Heading).Number)

	b := d.BlockByID("sec-2")
	require.NotNil(t, b)
	require.Equal(t, ast.Plain("B"), b.Kind.(*ast.Heading).Title)
}

func TestIDs(t *testing.T) {
	src := "#[id=intro] Intro\n\nSome text.\n\n:title: T\n"
	d, err := document.Build(strings.NewReader(src))
	require.NoError(t, err)

	require.NotNil(t, d.BlockByID("intro"))
	require.NotNil(t, d.BlockByID("__no-id-0"))
	require.NotNil(t, d.BlockByID("__no-id-1"))
	require.Nil(t, d.BlockByID("missing"))
	require.Equal(t, "T", d.Title)
}

func TestDuplicateID(t *testing.T) {
	src := "#[id=x] A\n\n#[id=x] B\n"
	_, err := document.Build(strings.NewReader(src))
	require.Error(t, err)
	var dup *document.DuplicateIDError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "x", dup.ID)
	require.EqualError(t, err, `block starting on line 2: duplicate id "x"`)
}

func TestDuplicateKey(t *testing.T) {
	src := ":replace:\n:: k : a\n\n:replace:\n:: k : b\n"
	_, err := document.Build(strings.NewReader(src))
	require.Error(t, err)
	var dup *document.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "k", dup.Key)
	require.EqualError(t, err, `block starting on line 3: duplicate replacement key "k"`)
}

func TestControls(t *testing.T) {
	src := ":title: First\n\n:title: Second\n\n:stylesheet: a.css\n\n:stylesheet: b.css\n\n:lang: art\n\n:author: S. Mavri\n"
	d, err := document.Build(strings.NewReader(src))
	require.NoError(t, err)

	// The scalar controls keep the first value; stylesheets accumulate.
	require.Equal(t, "First", d.Title)
	require.Equal(t, []string{"a.css", "b.css"}, d.Stylesheets)
	require.Equal(t, "art", d.Lang)
	require.Equal(t, "S. Mavri", d.Author)
}

func TestReplacements(t *testing.T) {
	src := ":replace:\n:: k : v\n"
	d, err := document.Build(strings.NewReader(src))
	require.NoError(t, err)

	got, ok := d.Replacement("k")
	require.True(t, ok)
	require.Equal(t, ast.Plain("v"), got)
	_, ok = d.Replacement("x")
	require.False(t, ok)
}

func TestCounters(t *testing.T) {
	src := ":table: A\n:: |\n\n:gloss: G\n:: a\n\n:table:[nonumber] B\n\n:table: C\n\n:gloss:[nonumber] H\n:: b\n"
	d, err := document.Build(strings.NewReader(src))
	require.NoError(t, err)

	blocks := d.Blocks()
	require.Len(t, blocks, 5)
	require.Equal(t, 1, blocks[0].Kind.(*ast.Table).Number)
	require.Equal(t, 1, blocks[1].Kind.(*ast.Gloss).Number)
	require.Equal(t, 0, blocks[2].Kind.(*ast.Table).Number)
	require.Equal(t, 2, blocks[3].Kind.(*ast.Table).Number)
	require.Equal(t, 0, blocks[4].Kind.(*ast.Gloss).Number)

	// Every table and gloss is tracked by index, numbered or not.
	require.Equal(t, []int{0, 2, 3}, d.Tables())
	require.Equal(t, []int{1, 4}, d.Glosses())
}

func TestImport(t *testing.T) {
	d := document.New()
	d.Importer = func(name string) (io.ReadCloser, error) {
		require.Equal(t, "chapter1", name)
		return io.NopCloser(strings.NewReader("# Imported\n")), nil
	}
	err := d.AddFrom(strings.NewReader(":import: chapter1\n\nAfter.\n"))
	require.NoError(t, err)

	// Imported blocks land in place of the import marker.
	blocks := d.Blocks()
	require.Len(t, blocks, 3)
	h, ok := blocks[0].Kind.(*ast.Heading)
	require.True(t, ok)
	require.Equal(t, []int{1}, h.Number)
	require.Equal(t, "sec-1", blocks[0].Common.ID)
}

func TestImportError(t *testing.T) {
	d := document.New()
	d.Importer = func(name string) (io.ReadCloser, error) {
		return nil, errors.New("boom")
	}
	err := d.AddFrom(strings.NewReader(":import: missing\n"))
	require.Error(t, err)
	var ie *document.ImportError
	require.ErrorAs(t, err, &ie)
	require.Equal(t, "missing", ie.Name)
	require.EqualError(t, err, "block starting on line 0: import missing: boom")
}

func TestParseErrorPassthrough(t *testing.T) {
	_, err := document.Build(strings.NewReader("fine\n\n*broken\n"))
	require.Error(t, err)
	require.EqualError(t, err, "failed to parse block starting on line 2: unexpected end of block, expected `*`")
}
