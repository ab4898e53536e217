package pptx

import (
	"encoding/xml"
	"strings"
)

const (
	nsRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	relSlide      = nsRelationships + "/slide"
	relNotesSlide = nsRelationships + "/notesSlide"
)

// presentationXML is ppt/presentation.xml.
type presentationXML struct {
	XMLName xml.Name     `xml:"presentation"`
	Slides  []slideIDXML `xml:"sldIdLst>sldId"`
	Size    *extentXML   `xml:"sldSz"`
}

type slideIDXML struct {
	ID  string `xml:"id,attr"`
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

// slideXML is a slide or a notes slide; both keep their shapes in
// cSld/spTree.
type slideXML struct {
	Tree shapeTreeXML `xml:"cSld>spTree"`
}

// shapeTreeXML is a spTree or a grpSp.
type shapeTreeXML struct {
	Props  groupPropsXML     `xml:"grpSpPr"`
	Shapes []shapeXML        `xml:"sp"`
	Frames []graphicFrameXML `xml:"graphicFrame"`
	Groups []shapeTreeXML    `xml:"grpSp"`
}

type groupPropsXML struct {
	Xfrm *groupXfrmXML `xml:"xfrm"`
}

type groupXfrmXML struct {
	Off      pointXML  `xml:"off"`
	Ext      extentXML `xml:"ext"`
	ChildOff pointXML  `xml:"chOff"`
	ChildExt extentXML `xml:"chExt"`
}

type shapeXML struct {
	Props struct {
		CNvPr nonVisualXML `xml:"cNvPr"`
		Ph    *placeXML    `xml:"nvPr>ph"`
	} `xml:"nvSpPr"`
	Xfrm *xfrmXML   `xml:"spPr>xfrm"`
	Text *txBodyXML `xml:"txBody"`
}

type nonVisualXML struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type placeXML struct {
	Type string `xml:"type,attr"`
	Idx  int    `xml:"idx,attr"`
}

type xfrmXML struct {
	Off pointXML  `xml:"off"`
	Ext extentXML `xml:"ext"`
}

// Coordinates are in EMU.
type pointXML struct {
	X int64 `xml:"x,attr"`
	Y int64 `xml:"y,attr"`
}

type extentXML struct {
	Cx int64 `xml:"cx,attr"`
	Cy int64 `xml:"cy,attr"`
}

type txBodyXML struct {
	Paragraphs []paragraphXML `xml:"p"`
}

// paragraphXML is an a:p. Runs, line breaks and fields are kept in order.
type paragraphXML struct {
	Props *paragraphPropsXML
	Runs  []runXML
	End   *runPropsXML
}

type paragraphPropsXML struct {
	Level   int           `xml:"lvl,attr"`
	BuNone  *struct{}     `xml:"buNone"`
	BuChar  *buCharXML    `xml:"buChar"`
	AutoNum *buAutoNumXML `xml:"buAutoNum"`
}

type buCharXML struct {
	Char string `xml:"char,attr"`
}

type buAutoNumXML struct {
	Type    string `xml:"type,attr"`
	StartAt int    `xml:"startAt,attr"`
}

type runXML struct {
	Props *runPropsXML
	Text  string
}

type runPropsXML struct {
	Size int    `xml:"sz,attr"` // hundredths of a point
	Bold string `xml:"b,attr"`
}

func (r *runPropsXML) bold() bool {
	return r != nil && (r.Bold == "1" || r.Bold == "true")
}

func (p *paragraphXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var err error
			switch t.Name.Local {
			case "pPr":
				p.Props = &paragraphPropsXML{}
				err = d.DecodeElement(p.Props, &t)
			case "r", "fld":
				var r struct {
					Props *runPropsXML `xml:"rPr"`
					Text  string       `xml:"t"`
				}
				err = d.DecodeElement(&r, &t)
				p.Runs = append(p.Runs, runXML{Props: r.Props, Text: r.Text})
			case "br":
				p.Runs = append(p.Runs, runXML{Text: "\n"})
				err = d.Skip()
			case "endParaRPr":
				p.End = &runPropsXML{}
				err = d.DecodeElement(p.End, &t)
			default:
				err = d.Skip()
			}
			if err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func (p *paragraphXML) text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

type graphicFrameXML struct {
	Props struct {
		CNvPr nonVisualXML `xml:"cNvPr"`
	} `xml:"nvGraphicFramePr"`
	Xfrm  *xfrmXML  `xml:"xfrm"`
	Table *tableXML `xml:"graphic>graphicData>tbl"`
}

type tableXML struct {
	Grid []struct {
		W int64 `xml:"w,attr"`
	} `xml:"tblGrid>gridCol"`
	Rows []struct {
		Cells []tableCellXML `xml:"tc"`
	} `xml:"tr"`
}

type tableCellXML struct {
	GridSpan int        `xml:"gridSpan,attr"`
	HMerge   string     `xml:"hMerge,attr"`
	VMerge   string     `xml:"vMerge,attr"`
	Text     *txBodyXML `xml:"txBody"`
}

func (c *tableCellXML) merged() bool {
	return c.HMerge == "1" || c.HMerge == "true" || c.VMerge == "1" || c.VMerge == "true"
}
