package docx

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// documentXML is word/document.xml. Body content keeps document order.
type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    bodyXML  `xml:"body"`
}

// bodyXML holds paragraphs and tables in the order they appear.
// xml.Unmarshal would otherwise collect each element kind separately.
type bodyXML struct {
	Blocks []blockXML
}

type blockXML struct {
	Paragraph *paragraphXML
	Table     *tableXML
}

func (b *bodyXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				var p paragraphXML
				if err := d.DecodeElement(&p, &t); err != nil {
					return err
				}
				b.Blocks = append(b.Blocks, blockXML{Paragraph: &p})
			case "tbl":
				var tbl tableXML
				if err := d.DecodeElement(&tbl, &t); err != nil {
					return err
				}
				b.Blocks = append(b.Blocks, blockXML{Table: &tbl})
			case "sectPr", "sdtPr", "sdtEndPr":
				if err := d.Skip(); err != nil {
					return err
				}
			default:
				// sdt, sdtContent, customXml: descend
				depth++
			}
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}

// paragraphXML is a <w:p> with its runs flattened in reading order,
// including runs nested in hyperlinks, insertions and field wrappers.
type paragraphXML struct {
	Props paragraphPropsXML
	Runs  []runXML
}

func (p *paragraphXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				if err := d.DecodeElement(&p.Props, &t); err != nil {
					return err
				}
			case "r":
				var r runXML
				if err := d.DecodeElement(&r, &t); err != nil {
					return err
				}
				p.Runs = append(p.Runs, r)
			case "del", "moveFrom", "commentRangeStart", "commentRangeEnd", "bookmarkStart", "bookmarkEnd", "proofErr":
				if err := d.Skip(); err != nil {
					return err
				}
			default:
				depth++
			}
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}

// text concatenates the runs.
func (p *paragraphXML) text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// bold reports whether every run carrying visible text is bold.
func (p *paragraphXML) bold() bool {
	seen := false
	for _, r := range p.Runs {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		if !r.Bold {
			return false
		}
		seen = true
	}
	return seen
}

func (p *paragraphXML) pageBreak() bool {
	for _, r := range p.Runs {
		if r.PageBreak {
			return true
		}
	}
	return false
}

type paragraphPropsXML struct {
	Style      *valXML     `xml:"pStyle"`
	NumPr      *numPrXML   `xml:"numPr"`
	OutlineLvl *valXML     `xml:"outlineLvl"`
	RPr        runPropsXML `xml:"rPr"`
}

type numPrXML struct {
	ILvl  valXML `xml:"ilvl"`
	NumID valXML `xml:"numId"`
}

type valXML struct {
	Val string `xml:"val,attr"`
}

// onOffXML is a toggle such as <w:b/>; absent, "0", "false" and "off" mean
// off.
type onOffXML struct {
	Val string `xml:"val,attr"`
}

func (o *onOffXML) on() bool {
	if o == nil {
		return false
	}
	switch o.Val {
	case "0", "false", "off":
		return false
	}
	return true
}

type runPropsXML struct {
	Bold *onOffXML `xml:"b"`
}

// runXML is a <w:r> reduced to its text and the properties that matter for
// layout.
type runXML struct {
	Text      string
	Bold      bool
	PageBreak bool
}

func (r *runXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var b strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var err error
			switch t.Name.Local {
			case "rPr":
				var props runPropsXML
				err = d.DecodeElement(&props, &t)
				r.Bold = props.Bold.on()
			case "t":
				var s string
				err = d.DecodeElement(&s, &t)
				b.WriteString(s)
			case "tab", "ptab":
				b.WriteByte('\t')
				err = d.Skip()
			case "br":
				if attr(t, "type") == "page" {
					r.PageBreak = true
				} else {
					b.WriteByte('\n')
				}
				err = d.Skip()
			case "cr":
				b.WriteByte('\n')
				err = d.Skip()
			case "noBreakHyphen", "softHyphen":
				if t.Name.Local == "noBreakHyphen" {
					b.WriteByte('-')
				}
				err = d.Skip()
			case "sym":
				if c, perr := strconv.ParseUint(attr(t, "char"), 16, 32); perr == nil && c >= 0x20 && (c < 0xF000 || c > 0xF0FF) {
					b.WriteRune(rune(c))
				}
				err = d.Skip()
			default:
				// drawings, field codes, deleted text
				err = d.Skip()
			}
			if err != nil {
				return err
			}
		case xml.EndElement:
			r.Text = b.String()
			return nil
		}
	}
}

func attr(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

type tableXML struct {
	Rows []tableRowXML `xml:"tr"`
}

type tableRowXML struct {
	Props struct {
		Header *onOffXML `xml:"tblHeader"`
	} `xml:"trPr"`
	Cells []tableCellXML `xml:"tc"`
}

type tableCellXML struct {
	Props struct {
		GridSpan *valXML `xml:"gridSpan"`
		VMerge   *valXML `xml:"vMerge"`
	} `xml:"tcPr"`
	Paragraphs []paragraphXML `xml:"p"`
}

type stylesXML struct {
	Styles []styleXML `xml:"style"`
}

type styleXML struct {
	Type    string            `xml:"type,attr"`
	ID      string            `xml:"styleId,attr"`
	Name    valXML            `xml:"name"`
	BasedOn *valXML           `xml:"basedOn"`
	PPr     paragraphPropsXML `xml:"pPr"`
	RPr     runPropsXML       `xml:"rPr"`
}

type numberingXML struct {
	AbstractNums []abstractNumXML `xml:"abstractNum"`
	Nums         []numXML         `xml:"num"`
}

type abstractNumXML struct {
	ID     string   `xml:"abstractNumId,attr"`
	Levels []lvlXML `xml:"lvl"`
}

type lvlXML struct {
	ILvl   int     `xml:"ilvl,attr"`
	Start  *valXML `xml:"start"`
	NumFmt valXML  `xml:"numFmt"`
}

type numXML struct {
	ID         string `xml:"numId,attr"`
	AbstractID valXML `xml:"abstractNumId"`
	Overrides  []struct {
		ILvl  int     `xml:"ilvl,attr"`
		Start *valXML `xml:"startOverride"`
	} `xml:"lvlOverride"`
}
