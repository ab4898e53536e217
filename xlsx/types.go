package xlsx

import (
	"encoding/xml"
	"strings"
)

const (
	nsSpreadsheetML = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	nsRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	relWorksheet     = nsRelationships + "/worksheet"
	relStyles        = nsRelationships + "/styles"
	relSharedStrings = nsRelationships + "/sharedStrings"

	ctWorkbook  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	ctWorksheet = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	ctStyles    = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
)

// workbookXML is xl/workbook.xml.
type workbookXML struct {
	XMLName xml.Name      `xml:"workbook"`
	Pr      workbookPrXML `xml:"workbookPr"`
	Sheets  []sheetRefXML `xml:"sheets>sheet"`
}

type workbookPrXML struct {
	Date1904 bool `xml:"date1904,attr"`
}

type sheetRefXML struct {
	Name  string `xml:"name,attr"`
	State string `xml:"state,attr"` // hidden, veryHidden
	RID   string `xml:"id,attr"`    // r:id
}

// worksheetXML is xl/worksheets/sheetN.xml.
type worksheetXML struct {
	XMLName    xml.Name       `xml:"worksheet"`
	Rows       []rowXML       `xml:"sheetData>row"`
	MergeCells []mergeCellXML `xml:"mergeCells>mergeCell"`
}

type rowXML struct {
	R     int       `xml:"r,attr"` // 1-based, may be omitted
	Cells []cellXML `xml:"c"`
}

type cellXML struct {
	R  string       `xml:"r,attr"` // reference such as "B3", may be omitted
	T  string       `xml:"t,attr"` // s, n, b, str, inlineStr, e, d
	S  int          `xml:"s,attr"`
	V  string       `xml:"v"`
	F  string       `xml:"f"`
	Is *richTextXML `xml:"is"`
}

type mergeCellXML struct {
	Ref string `xml:"ref,attr"`
}

// richTextXML is a shared or inline string: plain text or a list of runs.
type richTextXML struct {
	T string `xml:"t"`
	R []struct {
		T string `xml:"t"`
	} `xml:"r"`
}

func (s richTextXML) text() string {
	if len(s.R) == 0 {
		return s.T
	}
	var b strings.Builder
	for _, r := range s.R {
		b.WriteString(r.T)
	}
	return b.String()
}

type sharedStringsXML struct {
	XMLName xml.Name      `xml:"sst"`
	SI      []richTextXML `xml:"si"`
}

type stylesXML struct {
	XMLName xml.Name    `xml:"styleSheet"`
	NumFmts []numFmtXML `xml:"numFmts>numFmt"`
	CellXfs []xfXML     `xml:"cellXfs>xf"`
}

type numFmtXML struct {
	ID   int    `xml:"numFmtId,attr"`
	Code string `xml:"formatCode,attr"`
}

type xfXML struct {
	NumFmtID int `xml:"numFmtId,attr"`
}

// Parts written by Write.

type workbookOut struct {
	XMLName xml.Name   `xml:"workbook"`
	Xmlns   string     `xml:"xmlns,attr"`
	XmlnsR  string     `xml:"xmlns:r,attr"`
	Sheets  []sheetOut `xml:"sheets>sheet"`
}

type sheetOut struct {
	Name    string `xml:"name,attr"`
	SheetID int    `xml:"sheetId,attr"`
	RID     string `xml:"r:id,attr"`
}

type worksheetOut struct {
	XMLName xml.Name `xml:"worksheet"`
	Xmlns   string   `xml:"xmlns,attr"`
	Cols    []colOut `xml:"cols>col"`
	Rows    []rowOut `xml:"sheetData>row"`
}

type colOut struct {
	Min         int     `xml:"min,attr"`
	Max         int     `xml:"max,attr"`
	Width       float64 `xml:"width,attr"`
	CustomWidth bool    `xml:"customWidth,attr"`
}

type rowOut struct {
	R     int       `xml:"r,attr"`
	Cells []cellOut `xml:"c"`
}

type cellOut struct {
	R  string     `xml:"r,attr"`
	S  int        `xml:"s,attr,omitempty"`
	T  string     `xml:"t,attr,omitempty"`
	V  string     `xml:"v,omitempty"`
	Is *inlineOut `xml:"is"`
}

type inlineOut struct {
	T textOut `xml:"t"`
}

type textOut struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Value string `xml:",chardata"`
}

type stylesOut struct {
	XMLName  xml.Name    `xml:"styleSheet"`
	Xmlns    string      `xml:"xmlns,attr"`
	Fonts    []fontOut   `xml:"fonts>font"`
	Fills    []fillOut   `xml:"fills>fill"`
	Borders  []borderOut `xml:"borders>border"`
	StyleXfs []xfOut     `xml:"cellStyleXfs>xf"`
	CellXfs  []xfOut     `xml:"cellXfs>xf"`
}

type fontOut struct {
	Bold *struct{} `xml:"b"`
	Size valOut    `xml:"sz"`
	Name valOut    `xml:"name"`
}

type valOut struct {
	Val string `xml:"val,attr"`
}

type fillOut struct {
	Pattern patternOut `xml:"patternFill"`
}

type patternOut struct {
	Type string `xml:"patternType,attr"`
}

type borderOut struct{}

type xfOut struct {
	NumFmtID  int  `xml:"numFmtId,attr"`
	FontID    int  `xml:"fontId,attr"`
	FillID    int  `xml:"fillId,attr"`
	BorderID  int  `xml:"borderId,attr"`
	ApplyFont bool `xml:"applyFont,attr,omitempty"`
}
