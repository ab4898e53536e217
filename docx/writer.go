package docx

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/quirelabs/quire/internal/opc"
	"github.com/quirelabs/quire/model"
)

const (
	ctDocument  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ctStyles    = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ctNumbering = "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"

	// A4 with one inch margins, in twentieths of a point.
	pageWidthTwips  = 11906
	pageHeightTwips = 16838
	marginTwips     = 1440
	textWidthTwips  = pageWidthTwips - 2*marginTwips

	bulletNumID = "1"
	maxHeading  = 6
)

// headingSizes are the run sizes of Heading1..Heading6 in half points.
var headingSizes = [maxHeading]int{32, 28, 26, 24, 22, 22}

// Write encodes doc as a docx file. Headings use the built-in heading
// styles, list items become numbered or bulleted paragraphs and tables get
// single-line borders with a repeating bold header row.
func Write(w io.Writer, doc *model.Document) error {
	if doc == nil {
		return &model.MalformedInputError{Source: "docx", Reason: "no document"}
	}

	bw := &bodyWriter{}
	for _, b := range doc.Blocks {
		bw.block(b)
	}
	if len(bw.blocks) == 0 {
		bw.blocks = append(bw.blocks, paraOut{})
	}

	pw := opc.NewWriter(w)
	pw.Relate("", opc.RelOfficeDocument, "word/document.xml")
	pw.Relate("word/document.xml", relStyles, "styles.xml")
	pw.Relate("word/document.xml", relNumbering, "numbering.xml")

	body := documentOut{
		XmlnsW: nsW,
		Body: bodyOut{
			Blocks: bw.blocks,
			Sect: sectPrOut{
				PgSz:  pgSzOut{W: pageWidthTwips, H: pageHeightTwips},
				PgMar: pgMarOut{Top: marginTwips, Right: marginTwips, Bottom: marginTwips, Left: marginTwips},
			},
		},
	}
	if err := pw.WriteXML("word/document.xml", ctDocument, body); err != nil {
		return err
	}
	if err := pw.WriteXML("word/styles.xml", ctStyles, stylesPart()); err != nil {
		return err
	}
	if err := pw.WriteXML("word/numbering.xml", ctNumbering, numberingPart(bw.orderedStarts)); err != nil {
		return err
	}
	if err := pw.WriteCore(doc.Metadata); err != nil {
		return err
	}
	return pw.Close()
}

// bodyWriter converts blocks to body elements. Ordered list items share a
// numbering instance until the list is interrupted or a top-level item's
// number does not follow on from the previous one.
type bodyWriter struct {
	blocks        []any
	orderedStarts []int
	inOrdered     bool
	nextNumber    int // expected number of the next top-level item
}

func (bw *bodyWriter) block(b model.Block) {
	item, isItem := b.(*model.ListItem)
	if !isItem || !item.Ordered {
		bw.inOrdered = false
	}

	switch v := b.(type) {
	case *model.Heading:
		level := min(max(v.Level, 1), maxHeading)
		bw.blocks = append(bw.blocks, paragraph(v.Text, fmt.Sprintf("Heading%d", level), nil, false))
	case *model.Paragraph:
		bw.blocks = append(bw.blocks, paragraph(v.Text, "", nil, v.Bold))
	case *model.ListItem:
		numID := bulletNumID
		if v.Ordered {
			top := v.Level <= 0
			if !bw.inOrdered || top && v.Number != bw.nextNumber {
				start := 1
				if top {
					start = max(v.Number, 1)
				}
				bw.orderedStarts = append(bw.orderedStarts, start)
				bw.nextNumber = start
				bw.inOrdered = true
			}
			if top {
				bw.nextNumber++
			}
			numID = fmt.Sprint(len(bw.orderedStarts) + 1)
		}
		level := min(max(v.Level, 0), maxListLevel)
		np := &numPrOut{ILvl: valOut{fmt.Sprint(level)}, NumID: valOut{numID}}
		bw.blocks = append(bw.blocks, paragraph(v.Text, "ListParagraph", np, false))
	case *model.TableBlock:
		if v.Table != nil {
			bw.blocks = append(bw.blocks, table(v.Table))
		}
	case model.PageBreak, *model.PageBreak:
		bw.blocks = append(bw.blocks, paraOut{Runs: []runOut{{Break: &brOut{Type: "page"}}}})
	default:
		if text := b.GetText(); text != "" {
			bw.blocks = append(bw.blocks, paragraph(text, "", nil, false))
		}
	}
}

// paragraph builds a <w:p>. Newlines in text become line breaks.
func paragraph(text, style string, np *numPrOut, bold bool) paraOut {
	p := paraOut{}
	if style != "" || np != nil {
		p.Props = &pPrOut{NumPr: np}
		if style != "" {
			p.Props.Style = &valOut{style}
		}
	}
	var rpr *rPrOut
	if bold {
		rpr = &rPrOut{Bold: &struct{}{}}
	}
	for i, line := range strings.Split(text, "\n") {
		r := runOut{Props: rpr, Text: &textOut{Space: "preserve", Value: line}}
		if i > 0 {
			r.Break = &brOut{}
		}
		p.Runs = append(p.Runs, r)
	}
	return p
}

func table(t *model.Table) tblOut {
	border := &borderOut{Val: "single", Size: 4, Color: "auto"}
	out := tblOut{
		Props: tblPrOut{
			Width: widthOut{W: 0, Type: "auto"},
			Borders: bordersOut{
				Top: border, Left: border, Bottom: border, Right: border,
				InsideH: border, InsideV: border,
			},
		},
	}

	colWidth := textWidthTwips / t.ColumnCount()
	for j := 0; j < t.ColumnCount(); j++ {
		out.Grid = append(out.Grid, gridColOut{W: colWidth})
	}
	for i := 0; i < t.RowCount(); i++ {
		header := i == 0 && t.HasHeader()
		tr := trOut{}
		if header {
			tr.Props = &trPrOut{Header: &struct{}{}}
		}
		for _, cell := range t.Row(i) {
			tr.Cells = append(tr.Cells, tcOut{
				Props: tcPrOut{Width: widthOut{W: colWidth, Type: "dxa"}},
				Paras: []paraOut{paragraph(cell, "", nil, header)},
			})
		}
		out.Rows = append(out.Rows, tr)
	}
	return out
}

func stylesPart() stylesOut {
	out := stylesOut{
		XmlnsW: nsW,
		Defaults: docDefaultsOut{
			RPr: rPrOut{Fonts: &fontsOut{ASCII: "Calibri", HAnsi: "Calibri", EastAsia: "SimSun", CS: "Arial"}, Size: &valOut{"22"}},
			PPr: pPrOut{Spacing: &spacingOut{After: 120}},
		},
		Styles: []styleOut{
			{Type: "paragraph", Default: "1", ID: "Normal", Name: valOut{"Normal"}},
			{Type: "paragraph", ID: "ListParagraph", Name: valOut{"List Paragraph"}, BasedOn: &valOut{"Normal"}},
		},
	}
	for i, size := range headingSizes {
		level := fmt.Sprint(i)
		out.Styles = append(out.Styles, styleOut{
			Type:    "paragraph",
			ID:      fmt.Sprintf("Heading%d", i+1),
			Name:    valOut{fmt.Sprintf("heading %d", i+1)},
			BasedOn: &valOut{"Normal"},
			Next:    &valOut{"Normal"},
			PPr:     &pPrOut{KeepNext: &struct{}{}, Spacing: &spacingOut{Before: 240, After: 60}, OutlineLvl: &valOut{level}},
			RPr:     &rPrOut{Bold: &struct{}{}, Size: &valOut{fmt.Sprint(size)}},
		})
	}
	return out
}

// numberingPart defines one bullet list (numId 1) and one decimal list per
// entry of orderedStarts (numIds 2 and up).
func numberingPart(orderedStarts []int) numberingOut {
	bullets := []string{"•", "◦", "▪"}
	bullet := abstractNumOut{ID: "0"}
	decimal := abstractNumOut{ID: "1"}
	for l := 0; l <= maxListLevel; l++ {
		ind := &indOut{Left: 720 * (l + 1), Hanging: 360}
		bullet.Levels = append(bullet.Levels, lvlOut{
			ILvl: l, Start: valOut{"1"}, NumFmt: valOut{"bullet"},
			Text: valOut{bullets[l%len(bullets)]}, PPr: pPrOut{Ind: ind},
		})
		decimal.Levels = append(decimal.Levels, lvlOut{
			ILvl: l, Start: valOut{"1"}, NumFmt: valOut{"decimal"},
			Text: valOut{fmt.Sprintf("%%%d.", l+1)}, PPr: pPrOut{Ind: ind},
		})
	}

	out := numberingOut{
		XmlnsW:   nsW,
		Abstract: []abstractNumOut{bullet, decimal},
		Nums:     []numOut{{ID: bulletNumID, AbstractID: valOut{"0"}}},
	}
	for i, start := range orderedStarts {
		out.Nums = append(out.Nums, numOut{
			ID:         fmt.Sprint(i + 2),
			AbstractID: valOut{"1"},
			Override:   &lvlOverrideOut{ILvl: 0, Start: valOut{fmt.Sprint(start)}},
		})
	}
	return out
}

// Parts written by Write. Element names carry the w: prefix literally so
// the output matches what Word itself produces.

type documentOut struct {
	XMLName xml.Name `xml:"w:document"`
	XmlnsW  string   `xml:"xmlns:w,attr"`
	Body    bodyOut  `xml:"w:body"`
}

type bodyOut struct {
	Blocks []any // paraOut or tblOut
	Sect   sectPrOut `xml:"w:sectPr"`
}

type sectPrOut struct {
	PgSz  pgSzOut  `xml:"w:pgSz"`
	PgMar pgMarOut `xml:"w:pgMar"`
}

type pgSzOut struct {
	W int `xml:"w:w,attr"`
	H int `xml:"w:h,attr"`
}

type pgMarOut struct {
	Top    int `xml:"w:top,attr"`
	Right  int `xml:"w:right,attr"`
	Bottom int `xml:"w:bottom,attr"`
	Left   int `xml:"w:left,attr"`
}

type paraOut struct {
	XMLName xml.Name `xml:"w:p"`
	Props   *pPrOut  `xml:"w:pPr"`
	Runs    []runOut `xml:"w:r"`
}

type pPrOut struct {
	Style      *valOut     `xml:"w:pStyle"`
	KeepNext   *struct{}   `xml:"w:keepNext"`
	NumPr      *numPrOut   `xml:"w:numPr"`
	Spacing    *spacingOut `xml:"w:spacing"`
	Ind        *indOut     `xml:"w:ind"`
	OutlineLvl *valOut     `xml:"w:outlineLvl"`
}

type numPrOut struct {
	ILvl  valOut `xml:"w:ilvl"`
	NumID valOut `xml:"w:numId"`
}

type spacingOut struct {
	Before int `xml:"w:before,attr,omitempty"`
	After  int `xml:"w:after,attr"`
}

type indOut struct {
	Left    int `xml:"w:left,attr"`
	Hanging int `xml:"w:hanging,attr"`
}

type valOut struct {
	Val string `xml:"w:val,attr"`
}

type runOut struct {
	Props *rPrOut  `xml:"w:rPr"`
	Break *brOut   `xml:"w:br"`
	Text  *textOut `xml:"w:t"`
}

type rPrOut struct {
	Fonts *fontsOut `xml:"w:rFonts"`
	Bold  *struct{} `xml:"w:b"`
	Size  *valOut   `xml:"w:sz"`
}

type fontsOut struct {
	ASCII    string `xml:"w:ascii,attr"`
	HAnsi    string `xml:"w:hAnsi,attr"`
	EastAsia string `xml:"w:eastAsia,attr"`
	CS       string `xml:"w:cs,attr"`
}

type brOut struct {
	Type string `xml:"w:type,attr,omitempty"`
}

type textOut struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Value string `xml:",chardata"`
}

type tblOut struct {
	XMLName xml.Name     `xml:"w:tbl"`
	Props   tblPrOut     `xml:"w:tblPr"`
	Grid    []gridColOut `xml:"w:tblGrid>w:gridCol"`
	Rows    []trOut      `xml:"w:tr"`
}

type tblPrOut struct {
	Width   widthOut   `xml:"w:tblW"`
	Borders bordersOut `xml:"w:tblBorders"`
}

type widthOut struct {
	W    int    `xml:"w:w,attr"`
	Type string `xml:"w:type,attr"`
}

type bordersOut struct {
	Top     *borderOut `xml:"w:top"`
	Left    *borderOut `xml:"w:left"`
	Bottom  *borderOut `xml:"w:bottom"`
	Right   *borderOut `xml:"w:right"`
	InsideH *borderOut `xml:"w:insideH"`
	InsideV *borderOut `xml:"w:insideV"`
}

type borderOut struct {
	Val   string `xml:"w:val,attr"`
	Size  int    `xml:"w:sz,attr"`
	Color string `xml:"w:color,attr"`
}

type gridColOut struct {
	W int `xml:"w:w,attr"`
}

type trOut struct {
	Props *trPrOut `xml:"w:trPr"`
	Cells []tcOut  `xml:"w:tc"`
}

type trPrOut struct {
	Header *struct{} `xml:"w:tblHeader"`
}

type tcOut struct {
	Props tcPrOut   `xml:"w:tcPr"`
	Paras []paraOut `xml:"w:p"`
}

type tcPrOut struct {
	Width widthOut `xml:"w:tcW"`
}

type stylesOut struct {
	XMLName  xml.Name       `xml:"w:styles"`
	XmlnsW   string         `xml:"xmlns:w,attr"`
	Defaults docDefaultsOut `xml:"w:docDefaults"`
	Styles   []styleOut     `xml:"w:style"`
}

type docDefaultsOut struct {
	RPr rPrOut `xml:"w:rPrDefault>w:rPr"`
	PPr pPrOut `xml:"w:pPrDefault>w:pPr"`
}

type styleOut struct {
	Type    string  `xml:"w:type,attr"`
	Default string  `xml:"w:default,attr,omitempty"`
	ID      string  `xml:"w:styleId,attr"`
	Name    valOut  `xml:"w:name"`
	BasedOn *valOut `xml:"w:basedOn"`
	Next    *valOut `xml:"w:next"`
	PPr     *pPrOut `xml:"w:pPr"`
	RPr     *rPrOut `xml:"w:rPr"`
}

type numberingOut struct {
	XMLName  xml.Name         `xml:"w:numbering"`
	XmlnsW   string           `xml:"xmlns:w,attr"`
	Abstract []abstractNumOut `xml:"w:abstractNum"`
	Nums     []numOut         `xml:"w:num"`
}

type abstractNumOut struct {
	ID     string   `xml:"w:abstractNumId,attr"`
	Levels []lvlOut `xml:"w:lvl"`
}

type lvlOut struct {
	ILvl   int    `xml:"w:ilvl,attr"`
	Start  valOut `xml:"w:start"`
	NumFmt valOut `xml:"w:numFmt"`
	Text   valOut `xml:"w:lvlText"`
	PPr    pPrOut `xml:"w:pPr"`
}

type numOut struct {
	ID         string          `xml:"w:numId,attr"`
	AbstractID valOut          `xml:"w:abstractNumId"`
	Override   *lvlOverrideOut `xml:"w:lvlOverride"`
}

type lvlOverrideOut struct {
	ILvl  int    `xml:"w:ilvl,attr"`
	Start valOut `xml:"w:startOverride"`
}
