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

// Package parser parses one block of conmark source at a time into an
// *ast.Block. Blocks are delimited by blank lines before they reach the
// parser; package input produces them.
//
// The parser adheres to the following grammar for a single block:
//
//      unicode_char = /* an arbitrary Unicode code point except newline */ .
//      newline      = /* the Unicode code point U+000A */ .
//      octothorpe   = /* the Unicode code point U+0023 */ .
//      colon        = /* the Unicode code point U+003A */ .
//      asterisk     = /* the Unicode code point U+002A */ .
//      underscore   = /* the Unicode code point U+005F */ .
//      caret        = /* the Unicode code point U+005E */ .
//      backtick     = /* the Unicode code point U+0060 */ .
//      pipe         = /* the Unicode code point U+007C */ .
//      lbrack       = /* the Unicode code point U+005B */ .
//      rbrack       = /* the Unicode code point U+005D */ .
//      lbrace       = /* the Unicode code point U+007B */ .
//      rbrace       = /* the Unicode code point U+007D */ .
//
//      name       = unicode_char { unicode_char } .
//      entry      = [ string "=" ] string .
//      params     = lbrack entry { "," entry } rbrack .
//      group      = lbrace string rbrace .
//      marker     = colon colon { colon } .
//      hard_line  = newline { whitespace } marker .
//      text       = { unicode_char | group | inline } .
//      inline     = asterisk text asterisk |
//                   asterisk asterisk text asterisk asterisk |
//                   underscore text underscore |
//                   underscore underscore text underscore underscore |
//                   caret text caret |
//                   backtick text backtick |
//                   colon name colon [ params ] .
//      heading    = octothorpe { octothorpe } [ params ] text .
//      toc        = ":toc:" [ params ] text .
//      item       = marker text .
//      list       = ":list:" [ params ] { item } .
//      column     = pipe [ params ] .
//      cell       = pipe [ params ] text .
//      row        = marker [ params ] { cell } .
//      table      = ":table:" [ params ] text [ marker { column } { row } ] .
//      gline      = marker [ params ] { text } .
//      gloss      = ":gloss:" [ params ] text { gline } .
//      entry_line = marker string colon text .
//      replace    = ":replace:" [ params ] { entry_line } .
//      control    = colon name colon [ params ] string .
//      paragraph  = text .
//      block      = heading | toc | list | table | gloss | replace | control | paragraph .
//
// A backslash escapes the character after it in any context. Runs of
// whitespace inside text collapse to a single space, except inside a
// brace group, where the content is taken verbatim.
package parser // import "mavri.cc/conmark/parser"

import (
	"strings"
	"unicode"

	"mavri.cc/conmark/ast"
)

const eof = -1

// ParseBlock parses one block of source. line is the 0-based source
// line the block starts on, used for error attribution. An empty src
// parses to a nil block, signaling end of input.
func ParseBlock(src string, line int) (*ast.Block, error) {
	p := &parser{src: []rune(src), line: line}
	b, err := p.parse()
	if err != nil {
		return nil, &BlockError{Line: line, Err: err}
	}
	return b, nil
}

// MustParseBlock is like ParseBlock but panics on error.
func MustParseBlock(src string, line int) *ast.Block {
	b, err := ParseBlock(src, line)
	if err != nil {
		panic(err)
	}
	return b
}

type parser struct {
	src  []rune
	pos  int
	line int
}

func (p *parser) eob() bool { return p.pos >= len(p.src) }

func (p *parser) cur() rune {
	if p.pos >= len(p.src) {
		return eof
	}
	return p.src[p.pos]
}

func (p *parser) advance() { p.pos++ }

func (p *parser) skipSpace() {
	for !p.eob() && unicode.IsSpace(p.cur()) {
		p.advance()
	}
}

func (p *parser) parse() (*ast.Block, error) {
	p.skipSpace()
	if p.eob() {
		return nil, nil
	}
	switch p.cur() {
	case '#':
		return p.heading()
	case ':':
		if b, ok, err := p.blockDirective(); ok || err != nil {
			return b, err
		}
	}
	return p.paragraph()
}

// blockDirective dispatches on a leading :name: marker. An unknown or
// malformed name rewinds so the block reparses as a paragraph with the
// marker as inline content.
func (p *parser) blockDirective() (*ast.Block, bool, error) {
	save := p.pos
	p.advance()
	name, ok := p.directiveName()
	if ok {
		switch name {
		case "toc":
			b, err := p.contents()
			return b, true, err
		case "list":
			b, err := p.list()
			return b, true, err
		case "table":
			b, err := p.table()
			return b, true, err
		case "gloss":
			b, err := p.gloss()
			return b, true, err
		case "replace":
			b, err := p.replace()
			return b, true, err
		case "title":
			b, err := p.control(ast.ControlTitle)
			return b, true, err
		case "author":
			b, err := p.control(ast.ControlAuthor)
			return b, true, err
		case "description":
			b, err := p.control(ast.ControlDescription)
			return b, true, err
		case "stylesheet":
			b, err := p.control(ast.ControlStylesheet)
			return b, true, err
		case "lang":
			b, err := p.control(ast.ControlLang)
			return b, true, err
		case "import":
			b, err := p.control(ast.ControlImport)
			return b, true, err
		}
	}
	p.pos = save
	return nil, false, nil
}

// directiveName scans a name terminated by an unescaped colon. It
// reports false if the name runs into whitespace or the end of the
// block first; the caller is responsible for rewinding.
func (p *parser) directiveName() (string, bool) {
	var sb strings.Builder
	for {
		if p.eob() {
			return "", false
		}
		r := p.cur()
		switch {
		case r == ':':
			p.advance()
			return sb.String(), true
		case r == '\\':
			p.advance()
			if p.eob() {
				return "", false
			}
			sb.WriteRune(p.cur())
			p.advance()
		case unicode.IsSpace(r):
			return "", false
		default:
			sb.WriteRune(r)
			p.advance()
		}
	}
}

func (p *parser) newBlock(kind ast.BlockKind) *ast.Block {
	return &ast.Block{Kind: kind, Common: ast.BlockCommon{StartLine: p.line}}
}

func (p *parser) heading() (*ast.Block, error) {
	level := 0
	for !p.eob() && p.cur() == '#' {
		level++
		p.advance()
	}
	h := ast.NewHeading(level)
	b := p.newBlock(h)
	if err := p.applyParams(b); err != nil {
		return nil, err
	}
	var err error
	h.Title, err = p.textUntil(stopNever)
	return b, err
}

func (p *parser) contents() (*ast.Block, error) {
	c := ast.NewContents()
	b := p.newBlock(c)
	if err := p.applyParams(b); err != nil {
		return nil, err
	}
	title, err := p.textUntil(stopNever)
	if err != nil {
		return nil, err
	}
	if len(title) > 0 {
		c.Title = title
	}
	return b, nil
}

func (p *parser) control(kind ast.ControlKind) (*ast.Block, error) {
	c := &ast.Control{Kind: kind}
	b := p.newBlock(c)
	if err := p.applyParams(b); err != nil {
		return nil, err
	}
	var err error
	c.Value, err = p.rawText()
	return b, err
}

// rawText reads the rest of the block as an escape-processed plain
// string with whitespace runs collapsed and ends trimmed.
func (p *parser) rawText() (string, error) {
	var sb strings.Builder
	pending := false
	flush := func() {
		if pending && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		pending = false
	}
	for !p.eob() {
		r := p.cur()
		switch {
		case unicode.IsSpace(r):
			pending = true
			p.advance()
		case r == '\\':
			p.advance()
			if p.eob() {
				return "", eobEscape()
			}
			flush()
			sb.WriteRune(p.cur())
			p.advance()
		default:
			flush()
			sb.WriteRune(r)
			p.advance()
		}
	}
	return sb.String(), nil
}

func (p *parser) list() (*ast.Block, error) {
	l := &ast.List{}
	b := p.newBlock(l)
	if err := p.applyParams(b); err != nil {
		return nil, err
	}
	for {
		n, err := p.nextRecord()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return b, nil
		}
		text, err := p.textUntil(stopHard)
		if err != nil {
			return nil, err
		}
		appendListItem(l, n-1, text)
	}
}

// appendListItem places text at the given nesting depth, synthesizing
// empty intermediate items when the source skips depths.
func appendListItem(l *ast.List, depth int, text ast.Text) {
	items := &l.Items
	for d := 1; d < depth; d++ {
		if len(*items) == 0 {
			*items = append(*items, ast.ListItem{})
		}
		items = &(*items)[len(*items)-1].Sublist
	}
	*items = append(*items, ast.ListItem{Text: text})
}

// nextRecord consumes whitespace and the leading colon run of the next
// sub-record, returning the run length. It returns 0 at end of block.
func (p *parser) nextRecord() (int, error) {
	p.skipSpace()
	if p.eob() {
		return 0, nil
	}
	n := 0
	for !p.eob() && p.cur() == ':' {
		n++
		p.advance()
	}
	if n < 2 {
		return 0, &ExpectError{Want: ':'}
	}
	return n, nil
}

func (p *parser) table() (*ast.Block, error) {
	t := ast.NewTable()
	b := p.newBlock(t)
	if err := p.applyParams(b); err != nil {
		return nil, err
	}
	var err error
	t.Title, err = p.textUntil(stopHard)
	if err != nil {
		return nil, err
	}
	n, err := p.nextRecord()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return b, nil
	}
	if err := p.columns(t); err != nil {
		return nil, err
	}
	for {
		n, err := p.nextRecord()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return b, nil
		}
		row, err := p.tableRow()
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, row)
	}
}

func (p *parser) columns(t *ast.Table) error {
	for {
		if p.eob() || stopHard(p) {
			return nil
		}
		r := p.cur()
		if unicode.IsSpace(r) {
			p.advance()
			continue
		}
		if r != '|' {
			return &ExpectError{Want: '|'}
		}
		p.advance()
		var col ast.Column
		if err := p.applyParams(&col); err != nil {
			return err
		}
		t.Columns = append(t.Columns, col)
	}
}

func (p *parser) tableRow() (ast.Row, error) {
	var row ast.Row
	if err := p.applyParams(&row); err != nil {
		return row, err
	}
	for {
		if p.eob() || stopHard(p) {
			return row, nil
		}
		r := p.cur()
		if unicode.IsSpace(r) {
			p.advance()
			continue
		}
		if r != '|' {
			return row, &ExpectError{Want: '|'}
		}
		p.advance()
		cell, err := p.tableCell()
		if err != nil {
			return row, err
		}
		row.Cells = append(row.Cells, cell)
	}
}

func (p *parser) tableCell() (ast.Cell, error) {
	cell := ast.NewCell()
	if err := p.applyParams(&cell); err != nil {
		return cell, err
	}
	var err error
	cell.Text, err = p.textUntil(stopCell)
	return cell, err
}

func (p *parser) gloss() (*ast.Block, error) {
	g := ast.NewGloss()
	b := p.newBlock(g)
	if err := p.applyParams(b); err != nil {
		return nil, err
	}
	var err error
	g.Title, err = p.textUntil(stopHard)
	if err != nil {
		return nil, err
	}
	for {
		n, err := p.nextRecord()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return b, nil
		}
		split, class, err := p.glossLineParams()
		if err != nil {
			return nil, err
		}
		if !split {
			text, err := p.textUntil(stopHard)
			if err != nil {
				return nil, err
			}
			if class != "" {
				text = text.WithClass(class)
			}
			if len(g.Lines) == 0 {
				g.Preamble = append(g.Preamble, text)
			} else {
				g.Postamble = append(g.Postamble, text)
			}
			continue
		}
		if len(g.Postamble) > 0 {
			return nil, ErrPostambleOrder
		}
		line := ast.GlossLine{Class: class}
		for {
			if p.eob() || stopHard(p) {
				break
			}
			if unicode.IsSpace(p.cur()) {
				p.advance()
				continue
			}
			word, err := p.textUntil(stopWord)
			if err != nil {
				return nil, err
			}
			line.Words = append(line.Words, word)
		}
		g.Lines = append(g.Lines, line)
	}
}

// glossLineParams interprets one gloss record's parameter list: a bare
// nosplit selects the unsplit form, anything else names the line class.
func (p *parser) glossLineParams() (split bool, class string, err error) {
	params, err := p.parameters()
	if err != nil {
		return false, "", err
	}
	split = true
	for _, pr := range params {
		switch {
		case pr.Key == "" && pr.Value == "nosplit":
			split = false
		case pr.Key == "" || pr.Key == "class":
			class = pr.Value
		default:
			return false, "", &UnknownParamError{Key: pr.Key}
		}
	}
	return split, class, nil
}

func (p *parser) replace() (*ast.Block, error) {
	r := ast.NewReplacements()
	b := p.newBlock(r)
	if err := p.applyParams(b); err != nil {
		return nil, err
	}
	for {
		n, err := p.nextRecord()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return b, nil
		}
		key, err := p.replaceKey()
		if err != nil {
			return nil, err
		}
		value, err := p.textUntil(stopHard)
		if err != nil {
			return nil, err
		}
		r.Map[key] = value
	}
}

// replaceKey scans an entry key terminated by an unescaped colon. The
// key must be terminated before the record ends.
func (p *parser) replaceKey() (string, error) {
	var sb strings.Builder
	pending := false
	flush := func() {
		if pending && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		pending = false
	}
	for {
		if p.eob() {
			return "", eobExpect(':')
		}
		r := p.cur()
		switch {
		case r == ':':
			p.advance()
			return sb.String(), nil
		case r == '\\':
			p.advance()
			if p.eob() {
				return "", eobEscape()
			}
			flush()
			sb.WriteRune(p.cur())
			p.advance()
		case stopHard(p):
			return "", &ExpectError{Want: ':'}
		case unicode.IsSpace(r):
			pending = true
			p.advance()
		default:
			flush()
			sb.WriteRune(r)
			p.advance()
		}
	}
}

func (p *parser) paragraph() (*ast.Block, error) {
	par := &ast.Paragraph{}
	b := p.newBlock(par)
	var err error
	par.Body, err = p.textUntil(stopNever)
	return b, err
}

type paramTarget interface {
	ConsumeParam(ast.Parameter) (bool, error)
}

// applyParams parses an optional bracketed parameter list and applies
// each entry to target. A keyed entry the target does not recognize is
// an error; an unrecognized bare entry is dropped.
func (p *parser) applyParams(target paramTarget) error {
	params, err := p.parameters()
	if err != nil {
		return err
	}
	for _, pr := range params {
		ok, err := target.ConsumeParam(pr)
		if err != nil {
			return err
		}
		if !ok && pr.Key != "" {
			return &UnknownParamError{Key: pr.Key}
		}
	}
	return nil
}

// parameters parses a bracketed parameter list. Absence of an opening
// bracket at the cursor leaves the cursor untouched and yields no
// parameters. Entries that are empty after collapsing are dropped.
func (p *parser) parameters() ([]ast.Parameter, error) {
	if p.cur() != '[' {
		return nil, nil
	}
	p.advance()
	var params []ast.Parameter
	for {
		param, last, err := p.parameter()
		if err != nil {
			return nil, err
		}
		if param.Key != "" || param.Value != "" {
			params = append(params, param)
		}
		if last {
			return params, nil
		}
	}
}

// parameter scans one list entry, ending at an unescaped comma or the
// closing bracket. The first unescaped = splits key from value; later
// ones are literal.
func (p *parser) parameter() (ast.Parameter, bool, error) {
	var param ast.Parameter
	var sb strings.Builder
	pending := false
	haveKey := false
	flush := func() {
		if pending && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		pending = false
	}
	for {
		if p.eob() {
			return param, false, eobExpect(']')
		}
		r := p.cur()
		switch {
		case r == ']' || r == ',':
			p.advance()
			param.Value = sb.String()
			return param, r == ']', nil
		case r == '=' && !haveKey:
			p.advance()
			param.Key = sb.String()
			sb.Reset()
			pending = false
			haveKey = true
		case r == '\\':
			p.advance()
			if p.eob() {
				return param, false, eobEscape()
			}
			flush()
			sb.WriteRune(p.cur())
			p.advance()
		case r == '{':
			p.advance()
			flush()
			if err := p.braceGroup(&sb); err != nil {
				return param, false, err
			}
		case unicode.IsSpace(r):
			pending = true
			p.advance()
		default:
			flush()
			sb.WriteRune(r)
			p.advance()
		}
	}
}

// braceGroup copies a brace-delimited group into sb verbatim, honoring
// escapes.
func (p *parser) braceGroup(sb *strings.Builder) error {
	for {
		if p.eob() {
			return eobExpect('}')
		}
		r := p.cur()
		switch r {
		case '}':
			p.advance()
			return nil
		case '\\':
			p.advance()
			if p.eob() {
				return eobEscape()
			}
			sb.WriteRune(p.cur())
			p.advance()
		default:
			sb.WriteRune(r)
			p.advance()
		}
	}
}

type stopFunc func(p *parser) bool

func stopNever(*parser) bool { return false }

func stopChar(c rune) stopFunc {
	return func(p *parser) bool { return p.cur() == c }
}

// stopHard matches a newline followed, after intervening whitespace, by
// a :: record marker or by the end of the block.
func stopHard(p *parser) bool {
	if p.cur() != '\n' {
		return false
	}
	i := p.pos + 1
	for i < len(p.src) && unicode.IsSpace(p.src[i]) {
		i++
	}
	if i >= len(p.src) {
		return true
	}
	return p.src[i] == ':' && i+1 < len(p.src) && p.src[i+1] == ':'
}

func stopCell(p *parser) bool {
	return p.cur() == '|' || stopHard(p)
}

func stopWord(p *parser) bool {
	return unicode.IsSpace(p.cur())
}

// textUntil scans inline content until the stop predicate matches at an
// unescaped position, or the block ends.
func (p *parser) textUntil(stop stopFunc) (ast.Text, error) {
	var t ast.Text
	var lit strings.Builder
	pending := false
	flushSpace := func() {
		if pending && (lit.Len() > 0 || len(t) > 0) {
			lit.WriteByte(' ')
		}
		pending = false
	}
	flushLit := func() {
		if lit.Len() > 0 {
			t = append(t, ast.Inline{Kind: ast.Literal(lit.String())})
			lit.Reset()
		}
	}
	for !p.eob() && !stop(p) {
		r := p.cur()
		switch {
		case unicode.IsSpace(r):
			pending = true
			p.advance()
		case r == '\\':
			p.advance()
			if p.eob() {
				return nil, eobEscape()
			}
			flushSpace()
			lit.WriteRune(p.cur())
			p.advance()
		case r == '{':
			p.advance()
			flushSpace()
			if err := p.braceGroup(&lit); err != nil {
				return nil, err
			}
		case r == ':':
			save := p.pos
			p.advance()
			name, ok := p.directiveName()
			if !ok || name == "" {
				p.pos = save
				flushSpace()
				lit.WriteRune(':')
				p.advance()
				continue
			}
			flushSpace()
			flushLit()
			in, err := p.inlineDirective(name)
			if err != nil {
				return nil, err
			}
			t = append(t, in)
		case r == '*' || r == '_' || r == '^' || r == '`':
			flushSpace()
			flushLit()
			in, err := p.delimited(r)
			if err != nil {
				return nil, err
			}
			t = append(t, in)
		default:
			flushSpace()
			lit.WriteRune(r)
			p.advance()
		}
	}
	flushLit()
	return t, nil
}

// delimited reads one emphasis-family inline form. Doubling * or _
// selects the strong variant; a doubled opener requires a doubled
// closer.
func (p *parser) delimited(d rune) (ast.Inline, error) {
	p.advance()
	double := false
	if (d == '*' || d == '_') && p.cur() == d {
		double = true
		p.advance()
	}
	body, err := p.textUntil(stopChar(d))
	if err != nil {
		return ast.Inline{}, err
	}
	if p.eob() {
		return ast.Inline{}, eobExpect(d)
	}
	p.advance()
	if double {
		if p.cur() != d {
			return ast.Inline{}, &DelimError{Delim: string([]rune{d, d})}
		}
		p.advance()
	}
	var in ast.Inline
	switch d {
	case '*':
		if double {
			in.Kind = ast.Strong{Body: body}
		} else {
			in.Kind = ast.Emphasis{Body: body}
		}
	case '_':
		if double {
			in.Kind = ast.Bold{Body: body}
		} else {
			in.Kind = ast.Italics{Body: body}
		}
	case '^':
		in.Kind = ast.SmallCaps{Body: body}
	case '`':
		in.Kind = ast.Span{Body: body}
		in.Class = "conlang"
	}
	if err := p.applyParams(&in); err != nil {
		return ast.Inline{}, err
	}
	return in, nil
}

// inlineDirective builds the inline form of a :name: marker. Names
// other than ref and link are replacement-key references. A link whose
// parameters leave the title empty titles itself with its url.
func (p *parser) inlineDirective(name string) (ast.Inline, error) {
	var in ast.Inline
	switch name {
	case "ref":
		in.Kind = &ast.Reference{}
	case "link":
		in.Kind = &ast.Link{}
	default:
		in.Kind = ast.Replace{Key: name}
	}
	if err := p.applyParams(&in); err != nil {
		return ast.Inline{}, err
	}
	if l, ok := in.Kind.(*ast.Link); ok && len(l.Title) == 0 {
		l.Title = ast.Plain(l.URL)
	}
	return in, nil
}
