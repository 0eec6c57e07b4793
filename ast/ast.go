package ast

import "io"

//go:generate sumgen BlockKind = *Heading | *FillerHeading | *Contents | *List | *Table | *Gloss | *Paragraph | *Replacements | *Control
type BlockKind interface {
	blockKind()
	ConsumeParam(p Parameter) (bool, error)
	Render(w io.Writer, common *BlockCommon, doc Resolver) error
}

// Referenceable is satisfied by block kinds that can stand in for a
// :ref: marker pointing at them.
type Referenceable interface {
	ReferenceText() Text
}

// HeadingLike is satisfied by block kinds that occupy a slot in the
// section tree.
type HeadingLike interface {
	IsNumbered() bool
	InTOC() bool
	HeadingLevel() int
	Sections() *SectionList
	SectionNumber() []int
	PushNumber(n int)
	HeadingTitle() Text
}

// Resolver is the document state a block consults while rendering.
type Resolver interface {
	BlockByID(id string) *Block
	Replacement(key string) (Text, bool)
	BlockAt(i int) *Block
	HeadingAt(i int) HeadingLike
	RootSections() *SectionList
}

type Block struct {
	Kind   BlockKind
	Common BlockCommon
}

func (b *Block) ConsumeParam(p Parameter) (bool, error) {
	if ok, err := b.Kind.ConsumeParam(p); ok || err != nil {
		return ok, err
	}
	return b.Common.ConsumeParam(p)
}

func (b *Block) Render(w io.Writer, doc Resolver) error {
	return b.Kind.Render(w, &b.Common, doc)
}

type BlockCommon struct {
	Class     string
	ID        string
	StartLine int
}

func (c *BlockCommon) ConsumeParam(p Parameter) (bool, error) {
	switch p.Key {
	case "", "class":
		c.Class = p.Value
	case "id":
		c.ID = p.Value
	default:
		return false, nil
	}
	return true, nil
}

// Parameter is one entry of a bracketed parameter list. Key is empty
// for a bare value.
type Parameter struct {
	Key   string
	Value string
}

// SectionList records the child headings accepted at one nesting level,
// as indices into the document's block list.
type SectionList struct {
	Headings        []int
	LastChildNumber int
	Level           int
}

func NewSectionList(level int) SectionList {
	return SectionList{Level: level}
}

func (l *SectionList) Push(index int, numbered bool) {
	l.Headings = append(l.Headings, index)
	if numbered {
		l.LastChildNumber++
	}
}

type Paragraph struct {
	Body Text
}

func (p *Paragraph) blockKind() {}

func (p *Paragraph) ConsumeParam(Parameter) (bool, error) { return false, nil }

func (p *Paragraph) Render(w io.Writer, common *BlockCommon, doc Resolver) error {
	io.WriteString(w, "<p>")
	p.Body.WriteInline(w, doc)
	_, err := io.WriteString(w, "</p>\n\n")
	return err
}

type ControlKind int

const (
	ControlTitle ControlKind = iota
	ControlAuthor
	ControlDescription
	ControlStylesheet
	ControlLang
	ControlImport
)

// Control carries a document-level directive. It occupies a block slot
// but renders nothing.
type Control struct {
	Kind  ControlKind
	Value string
}

func (c *Control) blockKind() {}

func (c *Control) ConsumeParam(Parameter) (bool, error) { return false, nil }

func (c *Control) Render(io.Writer, *BlockCommon, Resolver) error { return nil }

// Replacements holds the key/value entries of one :replace: block.
// Entries are merged into the document on insertion; the block itself
// renders nothing.
type Replacements struct {
	Map map[string]Text
}

func NewReplacements() *Replacements {
	return &Replacements{Map: map[string]Text{}}
}

func (r *Replacements) blockKind() {}

func (r *Replacements) ConsumeParam(Parameter) (bool, error) { return false, nil }

func (r *Replacements) Render(io.Writer, *BlockCommon, Resolver) error { return nil }
