// Package docx reads Word documents into the block model and writes blocks
// back out as Word documents.
package docx

import (
	"strconv"
	"strings"

	"github.com/quirelabs/quire/internal/opc"
	"github.com/quirelabs/quire/model"
)

const (
	nsW             = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	relStyles    = nsRelationships + "/styles"
	relNumbering = nsRelationships + "/numbering"
)

// Read parses a docx file held in memory. Paragraphs, headings, list items
// and tables are returned in document order; page breaks become
// model.PageBreak blocks.
func Read(data []byte) (*model.Document, error) {
	p, err := opc.Open(data)
	if err != nil {
		return nil, &model.MalformedInputError{Source: "docx", Reason: err.Error()}
	}
	main := p.MainPart("word/document.xml")

	var doc documentXML
	if err := p.Decode(main, &doc); err != nil {
		return nil, &model.MalformedInputError{Source: "docx", Reason: err.Error()}
	}

	stylesPart, numberingPart := "word/styles.xml", "word/numbering.xml"
	for _, rel := range p.Rels(main) {
		switch rel.Type {
		case relStyles:
			stylesPart = rel.Target
		case relNumbering:
			numberingPart = rel.Target
		}
	}

	var st *stylesXML
	if p.Has(stylesPart) {
		st = &stylesXML{}
		if p.Decode(stylesPart, st) != nil {
			st = nil
		}
	}
	var nb *numberingXML
	if p.Has(numberingPart) {
		nb = &numberingXML{}
		if p.Decode(numberingPart, nb) != nil {
			nb = nil
		}
	}

	c := &converter{styles: newStyleSheet(st), numbering: newNumbering(nb), doc: model.NewDocument()}
	c.doc.Metadata = p.Metadata()
	for _, b := range doc.Body.Blocks {
		switch {
		case b.Paragraph != nil:
			c.paragraph(b.Paragraph)
		case b.Table != nil:
			c.table(b.Table)
		}
	}
	return c.doc, nil
}

type converter struct {
	styles    *styleSheet
	numbering *numbering
	doc       *model.Document
}

func (c *converter) paragraph(p *paragraphXML) {
	if text := strings.TrimSpace(p.text()); text != "" {
		c.doc.Add(c.block(p, text))
	}
	if p.pageBreak() {
		c.doc.Add(model.PageBreak{})
	}
}

func (c *converter) block(p *paragraphXML, text string) model.Block {
	styleID := ""
	if p.Props.Style != nil {
		styleID = p.Props.Style.Val
	}

	level := outlineLevel(p.Props.OutlineLvl)
	if level == 0 {
		level = c.styles.headingLevel(styleID)
	}
	if level > 0 {
		return &model.Heading{Text: text, Level: min(level, 6)}
	}

	numPr := p.Props.NumPr
	if numPr == nil {
		numPr = c.styles.numPr(styleID)
	}
	if numPr != nil && numPr.NumID.Val != "" && numPr.NumID.Val != "0" {
		ilvl, _ := strconv.Atoi(numPr.ILvl.Val)
		ordered, number := c.numbering.next(numPr.NumID.Val, ilvl)
		return &model.ListItem{Text: text, Ordered: ordered, Number: number, Level: min(max(ilvl, 0), maxListLevel)}
	}

	return &model.Paragraph{Text: text, Bold: p.bold()}
}

// table flattens a Word table into a grid. Horizontally merged cells keep
// their text in the first column of the span; vertically merged
// continuations are empty.
func (c *converter) table(t *tableXML) {
	var rows [][]string
	width := 0
	nonEmpty := false
	for _, tr := range t.Rows {
		var row []string
		for _, tc := range tr.Cells {
			text := ""
			if tc.Props.VMerge == nil || tc.Props.VMerge.Val == "restart" {
				text = cellText(tc)
			}
			nonEmpty = nonEmpty || text != ""
			row = append(row, text)
			if tc.Props.GridSpan != nil {
				if span, err := strconv.Atoi(tc.Props.GridSpan.Val); err == nil {
					for i := 1; i < span; i++ {
						row = append(row, "")
					}
				}
			}
		}
		width = max(width, len(row))
		rows = append(rows, row)
	}
	if !nonEmpty {
		return
	}
	for i := range rows {
		for len(rows[i]) < width {
			rows[i] = append(rows[i], "")
		}
	}

	tbl, err := model.NewTable(rows, true)
	if err != nil {
		return
	}
	c.doc.Add(&model.TableBlock{Table: tbl})
}

func cellText(tc tableCellXML) string {
	var lines []string
	for i := range tc.Paragraphs {
		if s := strings.TrimSpace(tc.Paragraphs[i].text()); s != "" {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "\n")
}
