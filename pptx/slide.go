package pptx

import (
	"strings"

	"github.com/quirelabs/quire/model"
)

// Presentation is a parsed slide deck.
type Presentation struct {
	// Slide size in points. Defaults to 720 x 540 (4:3) when the file
	// does not declare one.
	Width, Height float64

	Slides   []*Slide
	Metadata model.Metadata
}

// Slide is one slide in presentation order.
type Slide struct {
	Number int // 1-based
	Title  string
	Shapes []Shape // title placeholders first, then top-to-bottom, left-to-right
	Notes  string
}

// Shape is a text box, placeholder or table on a slide.
type Shape struct {
	Name        string
	Placeholder string     // title, ctrTitle, subTitle, body, ftr, ... or empty
	Bounds      model.Rect // in points; zero when the shape has no position
	Paragraphs  []Paragraph
	Table       *model.Table
}

// IsTitle reports whether the shape is a title placeholder.
func (s *Shape) IsTitle() bool {
	return s.Placeholder == "title" || s.Placeholder == "ctrTitle"
}

// IsFooter reports whether the shape is a footer, date or slide number
// placeholder.
func (s *Shape) IsFooter() bool {
	switch s.Placeholder {
	case "ftr", "dt", "sldNum", "hdr":
		return true
	}
	return false
}

// Text joins the shape's paragraphs with newlines.
func (s *Shape) Text() string {
	lines := make([]string, 0, len(s.Paragraphs))
	for _, p := range s.Paragraphs {
		lines = append(lines, p.Text)
	}
	return strings.Join(lines, "\n")
}

// Paragraph is one paragraph of a text body.
type Paragraph struct {
	Text     string
	Level    int  // indent level, 0-8
	Bullet   bool // has a bullet character
	Numbered bool // has an automatic number
	Start    int  // first number of a numbered run, 1 unless set
	Bold     bool // every run is bold
	Size     float64
}

// Document converts the deck to blocks: each slide contributes its title as
// a level 1 heading, its text as paragraphs and list items, and its tables.
// Slides are separated by page breaks. Footer placeholders and notes are
// left out.
func (p *Presentation) Document() *model.Document {
	doc := model.NewDocument()
	doc.Metadata = p.Metadata
	for i, s := range p.Slides {
		if i > 0 {
			doc.Add(model.PageBreak{})
		}
		s.appendBlocks(doc)
	}
	return doc
}

func (s *Slide) appendBlocks(doc *model.Document) {
	if s.Title != "" {
		doc.Add(&model.Heading{Text: s.Title, Level: 1})
	}
	titleSeen := false
	for i := range s.Shapes {
		sh := &s.Shapes[i]
		if sh.IsTitle() && !titleSeen {
			titleSeen = true
			continue
		}
		if sh.IsFooter() {
			continue
		}
		if sh.Table != nil {
			doc.Add(&model.TableBlock{Table: sh.Table})
			continue
		}
		var counters [9]int
		for _, para := range sh.Paragraphs {
			text := strings.TrimSpace(para.Text)
			if text == "" {
				continue
			}
			level := min(max(para.Level, 0), len(counters)-1)
			switch {
			case para.Numbered:
				if counters[level] == 0 {
					counters[level] = max(para.Start, 1)
				} else {
					counters[level]++
				}
				clear(counters[level+1:])
				doc.Add(&model.ListItem{Text: text, Ordered: true, Number: counters[level], Level: level})
			case para.Bullet:
				clear(counters[level:])
				doc.Add(&model.ListItem{Text: text, Level: level})
			default:
				clear(counters[:])
				doc.Add(&model.Paragraph{Text: text, Bold: para.Bold})
			}
		}
	}
}

// Text renders the deck as plain text, one slide per section.
func (p *Presentation) Text() string {
	return p.Document().Text()
}
