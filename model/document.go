package model

import (
	"strconv"
	"strings"
	"time"
)

// BlockType identifies the kind of a Block.
type BlockType int

const (
	BlockTypeUnknown BlockType = iota
	BlockTypeParagraph
	BlockTypeHeading
	BlockTypeListItem
	BlockTypeTable
	BlockTypePageBreak
)

func (bt BlockType) String() string {
	switch bt {
	case BlockTypeParagraph:
		return "Paragraph"
	case BlockTypeHeading:
		return "Heading"
	case BlockTypeListItem:
		return "ListItem"
	case BlockTypeTable:
		return "Table"
	case BlockTypePageBreak:
		return "PageBreak"
	default:
		return "Unknown"
	}
}

// Block is one unit of flowing document content.
type Block interface {
	Type() BlockType
	GetText() string
}

// Paragraph is a run of body text.
type Paragraph struct {
	Text string
	Bold bool
}

func (p *Paragraph) Type() BlockType { return BlockTypeParagraph }
func (p *Paragraph) GetText() string { return p.Text }

// Heading is a section title.
type Heading struct {
	Text  string
	Level int // 1-6
}

func (h *Heading) Type() BlockType { return BlockTypeHeading }
func (h *Heading) GetText() string { return h.Text }

// ListItem is one entry of a bulleted or numbered list.
type ListItem struct {
	Text    string
	Ordered bool
	Number  int // 1-based position for ordered lists
	Level   int // nesting depth, 0 for top level
}

func (l *ListItem) Type() BlockType { return BlockTypeListItem }
func (l *ListItem) GetText() string { return l.Text }

// Marker returns the bullet or number prefix for the item.
func (l *ListItem) Marker() string {
	if l.Ordered {
		return strconv.Itoa(l.Number) + "."
	}
	return "•"
}

// TableBlock embeds a table in a document.
type TableBlock struct {
	Table *Table
}

func (tb *TableBlock) Type() BlockType { return BlockTypeTable }
func (tb *TableBlock) GetText() string {
	if tb.Table == nil {
		return ""
	}
	return tb.Table.ToText()
}

// PageBreak separates pages or slides.
type PageBreak struct{}

func (PageBreak) Type() BlockType { return BlockTypePageBreak }
func (PageBreak) GetText() string { return "" }

// Metadata contains document-level information.
type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Keywords []string
	Creator  string
	Created  time.Time
	Modified time.Time
}

// Document is the block stream produced by the text-bearing readers.
type Document struct {
	Metadata Metadata
	Blocks   []Block
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{Blocks: make([]Block, 0)}
}

// Add appends blocks to the document.
func (d *Document) Add(blocks ...Block) {
	d.Blocks = append(d.Blocks, blocks...)
}

// Tables returns the tables embedded in the document, in order.
func (d *Document) Tables() []*Table {
	var out []*Table
	for _, b := range d.Blocks {
		if tb, ok := b.(*TableBlock); ok && tb.Table != nil {
			out = append(out, tb.Table)
		}
	}
	return out
}

// Text renders the document as plain text. Blocks are separated by blank
// lines and tables are fenced with "--- Table ---" markers.
func (d *Document) Text() string {
	var parts []string
	for _, b := range d.Blocks {
		switch v := b.(type) {
		case *TableBlock:
			body := v.GetText()
			if body == "" {
				continue
			}
			parts = append(parts, "--- Table ---\n"+body+"\n--- End of Table ---")
		case *ListItem:
			if t := strings.TrimSpace(v.Text); t != "" {
				parts = append(parts, strings.Repeat("  ", v.Level)+v.Marker()+" "+t)
			}
		case PageBreak, *PageBreak:
			continue
		default:
			if t := strings.TrimSpace(b.GetText()); t != "" {
				parts = append(parts, t)
			}
		}
	}
	return strings.Join(parts, "\n\n")
}
