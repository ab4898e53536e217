package xlsx

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/extrame/xls"

	"github.com/quirelabs/quire/model"
)

// maxLegacyColumns is the column limit of BIFF8 worksheets.
const maxLegacyColumns = 256

var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// IsLegacy reports whether data is an OLE2 compound file, the container of
// binary .xls workbooks.
func IsLegacy(data []byte) bool {
	return bytes.HasPrefix(data, oleSignature)
}

// ReadLegacy parses a binary .xls workbook. Cells come back as the decoder
// formats them; the used range and empty-sheet rules match Read.
func ReadLegacy(data []byte) (wb *Workbook, err error) {
	// the decoder panics on truncated records
	defer func() {
		if r := recover(); r != nil {
			wb, err = nil, &model.MalformedInputError{Source: "xls", Reason: fmt.Sprint(r)}
		}
	}()

	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, &model.MalformedInputError{Source: "xls", Reason: err.Error()}
	}
	if book == nil {
		return nil, &model.MalformedInputError{Source: "xls", Reason: "no Workbook stream"}
	}

	out := &Workbook{Metadata: model.Metadata{Author: strings.TrimSpace(book.Author)}}
	for i := 0; i < book.NumSheets(); i++ {
		sheet := book.GetSheet(i)
		if sheet == nil {
			continue
		}
		rows, err := usedRange(legacyValues(sheet), nil)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet.Name, err)
		}
		if err := out.add(sheet.Name, rows); err != nil {
			return nil, err
		}
	}

	if len(out.Sheets) == 0 {
		return nil, &model.MalformedInputError{Source: "xls", Reason: "workbook has no data"}
	}
	return out, nil
}

// legacyValues collects the non-blank cells of a sheet.
func legacyValues(sheet *xls.WorkSheet) map[cellPos]string {
	rows := make(map[int]*xls.Row)
	width := 0
	for i := 0; i <= int(sheet.MaxRow); i++ {
		if row := legacyRow(sheet, i); row != nil {
			rows[i] = row
			width = max(width, row.LastCol())
		}
	}
	// rows built from cell records alone report no extent
	if width <= 0 || width > maxLegacyColumns {
		width = maxLegacyColumns
	}

	values := make(map[cellPos]string)
	for i, row := range rows {
		for c := 0; c < width; c++ {
			if v := row.Col(c); strings.TrimSpace(v) != "" {
				values[cellPos{i, c}] = v
			}
		}
	}
	return values
}

// legacyRow returns row i, or nil when the sheet holds nothing for it.
func legacyRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}
