package xlsx

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/quirelabs/quire/internal/opc"
	"github.com/quirelabs/quire/model"
)

// MaxColumnWidth caps the width written for any column, in characters.
const MaxColumnWidth = 50

// maxNumericDigits is the most significant digits a cell may carry and
// still be stored as a number without losing precision.
const maxNumericDigits = 15

// Sheet is a named table to be written as a worksheet.
type Sheet struct {
	Name  string
	Table *model.Table
}

// Write encodes sheets as an xlsx workbook. Sheet names are sanitized and
// made unique. Cells that read as plain decimal numbers are stored as
// numbers, everything else as inline strings; a header row is bold.
func Write(w io.Writer, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return &model.MalformedInputError{Source: "xlsx", Reason: "no sheets to write"}
	}

	pw := opc.NewWriter(w)
	pw.Relate("", opc.RelOfficeDocument, "xl/workbook.xml")

	wb := workbookOut{Xmlns: nsSpreadsheetML, XmlnsR: nsRelationships}
	for i, name := range uniqueNames(sheets) {
		id := pw.Relate("xl/workbook.xml", relWorksheet, fmt.Sprintf("worksheets/sheet%d.xml", i+1))
		wb.Sheets = append(wb.Sheets, sheetOut{Name: name, SheetID: i + 1, RID: id})
	}
	pw.Relate("xl/workbook.xml", relStyles, "styles.xml")

	if err := pw.WriteXML("xl/workbook.xml", ctWorkbook, wb); err != nil {
		return err
	}
	if err := pw.WriteXML("xl/styles.xml", ctStyles, defaultStyles()); err != nil {
		return err
	}
	for i, s := range sheets {
		if err := pw.WriteXML(fmt.Sprintf("xl/worksheets/sheet%d.xml", i+1), ctWorksheet, worksheet(s.Table)); err != nil {
			return err
		}
	}
	return pw.Close()
}

func uniqueNames(sheets []Sheet) []string {
	seen := make(map[string]bool, len(sheets))
	names := make([]string, len(sheets))
	for i, s := range sheets {
		base := SanitizeSheetName(s.Name)
		name := base
		for n := 2; seen[strings.ToLower(name)]; n++ {
			suffix := fmt.Sprintf(" (%d)", n)
			r := []rune(base)
			if len(r)+len(suffix) > MaxSheetName {
				r = r[:MaxSheetName-len(suffix)]
			}
			name = string(r) + suffix
		}
		seen[strings.ToLower(name)] = true
		names[i] = name
	}
	return names
}

// ColumnWidths returns the character width of each column: the longest
// cell plus two, capped at MaxColumnWidth.
func ColumnWidths(t *model.Table) []float64 {
	widths := make([]float64, t.ColumnCount())
	for j := range widths {
		longest := 0
		for _, c := range t.Column(j) {
			longest = max(longest, utf8.RuneCountInString(c))
		}
		widths[j] = math.Min(float64(longest+2), MaxColumnWidth)
	}
	return widths
}

func worksheet(t *model.Table) worksheetOut {
	ws := worksheetOut{Xmlns: nsSpreadsheetML}
	for j, w := range ColumnWidths(t) {
		ws.Cols = append(ws.Cols, colOut{Min: j + 1, Max: j + 1, Width: w, CustomWidth: true})
	}
	for i := 0; i < t.RowCount(); i++ {
		row := rowOut{R: i + 1}
		style := 0
		if i == 0 && t.HasHeader() {
			style = 1
		}
		for j, v := range t.Row(i) {
			if v == "" {
				continue
			}
			c := cellOut{R: CellRef(j, i), S: style}
			if style == 0 && isNumber(v) {
				c.V = v
			} else {
				c.T = "inlineStr"
				c.Is = &inlineOut{T: textOut{Space: "preserve", Value: v}}
			}
			row.Cells = append(row.Cells, c)
		}
		ws.Rows = append(ws.Rows, row)
	}
	return ws
}

// isNumber reports whether s is a plain decimal number that survives a
// round trip through a double. Leading zeros, explicit plus signs, hex and
// digit strings longer than a double can hold stay text.
func isNumber(s string) bool {
	mantissa := strings.TrimPrefix(s, "-")
	if i := strings.IndexAny(mantissa, "eE"); i >= 0 {
		mantissa = mantissa[:i]
	}
	if mantissa == "" || strings.Trim(mantissa, "0123456789.") != "" {
		return false
	}
	if len(mantissa) > 1 && mantissa[0] == '0' && mantissa[1] != '.' {
		return false
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return false
	}
	significant := strings.TrimLeft(strings.Replace(mantissa, ".", "", 1), "0")
	return len(significant) <= maxNumericDigits
}

// defaultStyles declares a regular and a bold cell style.
func defaultStyles() stylesOut {
	return stylesOut{
		Xmlns: nsSpreadsheetML,
		Fonts: []fontOut{
			{Size: valOut{"11"}, Name: valOut{"Calibri"}},
			{Bold: &struct{}{}, Size: valOut{"11"}, Name: valOut{"Calibri"}},
		},
		Fills:    []fillOut{{Pattern: patternOut{Type: "none"}}, {Pattern: patternOut{Type: "gray125"}}},
		Borders:  []borderOut{{}},
		StyleXfs: []xfOut{{}},
		CellXfs:  []xfOut{{}, {FontID: 1, ApplyFont: true}},
	}
}
