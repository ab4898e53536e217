// Package xlsx reads Office Open XML workbooks into tables and writes
// tables back out as workbooks.
package xlsx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quirelabs/quire/internal/opc"
	"github.com/quirelabs/quire/model"
)

// maxCells bounds the dense grid built for one sheet.
const maxCells = 20_000_000

// Worksheet is one non-empty sheet of a workbook. The first row of Table is
// the header.
type Worksheet struct {
	Name     string
	SafeName string
	Table    *model.Table
}

// Workbook is the parsed content of an xlsx or xls file.
type Workbook struct {
	Metadata model.Metadata
	Sheets   []Worksheet
}

// ReadWorksheets parses data and returns its non-empty sheets in workbook
// order.
func ReadWorksheets(data []byte) ([]Worksheet, error) {
	wb, err := Read(data)
	if err != nil {
		return nil, err
	}
	return wb.Sheets, nil
}

// Read parses an xlsx file held in memory, or a legacy .xls file when data
// is an OLE2 compound file. Sheets without any cell values are skipped; a
// workbook with none left is malformed.
func Read(data []byte) (*Workbook, error) {
	if IsLegacy(data) {
		return ReadLegacy(data)
	}
	p, err := opc.Open(data)
	if err != nil {
		return nil, &model.MalformedInputError{Source: "xlsx", Reason: err.Error()}
	}
	wbPart := p.MainPart("xl/workbook.xml")

	var wb workbookXML
	if err := p.Decode(wbPart, &wb); err != nil {
		return nil, &model.MalformedInputError{Source: "xlsx", Reason: err.Error()}
	}

	r := &reader{pkg: p, date1904: wb.Pr.Date1904}
	rels := p.Rels(wbPart)
	sharedPart, stylesPart := "xl/sharedStrings.xml", "xl/styles.xml"
	for _, rel := range rels {
		switch rel.Type {
		case relSharedStrings:
			sharedPart = rel.Target
		case relStyles:
			stylesPart = rel.Target
		}
	}
	if p.Has(sharedPart) {
		if err := r.loadSharedStrings(sharedPart); err != nil {
			return nil, err
		}
	}
	r.loadStyles(stylesPart)

	out := &Workbook{Metadata: p.Metadata()}
	for i, ref := range wb.Sheets {
		target := rels[ref.RID].Target
		if target == "" {
			target = fmt.Sprintf("xl/worksheets/sheet%d.xml", i+1)
		}
		rows, err := r.readSheet(target)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", ref.Name, err)
		}
		if err := out.add(ref.Name, rows); err != nil {
			return nil, err
		}
	}

	if len(out.Sheets) == 0 {
		return nil, &model.MalformedInputError{Source: "xlsx", Reason: "workbook has no data"}
	}
	return out, nil
}

// add appends a sheet unless rows is empty.
func (wb *Workbook) add(name string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	t, err := model.NewTable(rows, true)
	if err != nil {
		return fmt.Errorf("sheet %q: %w", name, err)
	}
	wb.Sheets = append(wb.Sheets, Worksheet{
		Name:     name,
		SafeName: SanitizeSheetName(name),
		Table:    t,
	})
	return nil
}

type reader struct {
	pkg      *opc.Package
	date1904 bool
	shared   []string
	formats  []numberFormat // by cell style index
}

func (r *reader) loadSharedStrings(part string) error {
	var sst sharedStringsXML
	if err := r.pkg.Decode(part, &sst); err != nil {
		return &model.MalformedInputError{Source: "xlsx", Reason: err.Error()}
	}
	r.shared = make([]string, len(sst.SI))
	for i, si := range sst.SI {
		r.shared[i] = si.text()
	}
	return nil
}

// loadStyles resolves each cell style to its number format. Without styles
// every number renders as General.
func (r *reader) loadStyles(part string) {
	var st stylesXML
	if r.pkg.Decode(part, &st) != nil {
		return
	}
	custom := make(map[int]string, len(st.NumFmts))
	for _, nf := range st.NumFmts {
		custom[nf.ID] = nf.Code
	}
	r.formats = make([]numberFormat, len(st.CellXfs))
	for i, xf := range st.CellXfs {
		if code, ok := custom[xf.NumFmtID]; ok {
			r.formats[i] = parseFormatCode(code)
		} else {
			r.formats[i] = builtinFormats[xf.NumFmtID]
		}
	}
}

type cellPos struct{ row, col int }

// cellRange is an inclusive block of cells.
type cellRange struct{ r0, c0, r1, c1 int }

func (r cellRange) contains(p cellPos) bool {
	return p.row >= r.r0 && p.row <= r.r1 && p.col >= r.c0 && p.col <= r.c1
}

// readSheet returns the sheet's used range as rows of display strings, or
// nil when it holds no values.
func (r *reader) readSheet(name string) ([][]string, error) {
	var ws worksheetXML
	if err := r.pkg.Decode(name, &ws); err != nil {
		return nil, &model.MalformedInputError{Source: "xlsx", Reason: err.Error()}
	}

	values := make(map[cellPos]string)
	rowIdx := -1
	for _, row := range ws.Rows {
		if row.R > 0 {
			rowIdx = row.R - 1
		} else {
			rowIdx++
		}
		colIdx := -1
		for _, c := range row.Cells {
			if c.R != "" {
				col, _, err := ParseCellRef(c.R)
				if err != nil {
					return nil, &model.MalformedInputError{Source: "xlsx", Reason: err.Error()}
				}
				colIdx = col
			} else {
				colIdx++
			}
			if v := r.value(c); strings.TrimSpace(v) != "" {
				values[cellPos{rowIdx, colIdx}] = v
			}
		}
	}

	// Only the top-left cell of a merged range keeps its value. A merge
	// covering any value still spans its whole range in the output.
	var spans []cellRange
	for _, mc := range ws.MergeCells {
		c0, r0, c1, r1, err := ParseRangeRef(mc.Ref)
		if err != nil {
			continue
		}
		rng := cellRange{r0, c0, r1, c1}
		covers := false
		for pos := range values {
			if !rng.contains(pos) {
				continue
			}
			covers = true
			if pos.row != r0 || pos.col != c0 {
				delete(values, pos)
			}
		}
		if covers {
			spans = append(spans, rng)
		}
	}
	return usedRange(values, spans)
}

// usedRange lays out values as a dense grid covering every value and every
// span, or returns nil when there are no values.
func usedRange(values map[cellPos]string, spans []cellRange) ([][]string, error) {
	if len(values) == 0 {
		return nil, nil
	}

	minRow, minCol, maxRow, maxCol := -1, -1, -1, -1
	extend := func(r0, c0, r1, c1 int) {
		if minRow < 0 || r0 < minRow {
			minRow = r0
		}
		if minCol < 0 || c0 < minCol {
			minCol = c0
		}
		maxRow = max(maxRow, r1)
		maxCol = max(maxCol, c1)
	}
	for pos := range values {
		extend(pos.row, pos.col, pos.row, pos.col)
	}
	for _, rng := range spans {
		extend(rng.r0, rng.c0, rng.r1, rng.c1)
	}

	height, width := maxRow-minRow+1, maxCol-minCol+1
	if height*width > maxCells {
		return nil, &model.MalformedInputError{
			Source: "xlsx",
			Reason: fmt.Sprintf("used range %s is too large", CellRef(maxCol, maxRow)),
		}
	}
	rows := make([][]string, height)
	for i := range rows {
		rows[i] = make([]string, width)
	}
	for pos, v := range values {
		rows[pos.row-minRow][pos.col-minCol] = v
	}
	return rows, nil
}

// value renders a cell the way a spreadsheet displays it.
func (r *reader) value(c cellXML) string {
	switch c.T {
	case "s":
		i, err := strconv.Atoi(strings.TrimSpace(c.V))
		if err != nil || i < 0 || i >= len(r.shared) {
			return ""
		}
		return r.shared[i]
	case "inlineStr":
		if c.Is == nil {
			return ""
		}
		return c.Is.text()
	case "b":
		if strings.TrimSpace(c.V) == "1" {
			return "TRUE"
		}
		return "FALSE"
	case "str", "e", "d":
		return c.V
	}
	if c.V == "" {
		return ""
	}
	var nf numberFormat
	if c.S >= 0 && c.S < len(r.formats) {
		nf = r.formats[c.S]
	}
	return nf.format(c.V, r.date1904)
}
