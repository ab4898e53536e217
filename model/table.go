package model

import (
	"encoding/csv"
	"strings"
)

// Table is a normalized rectangular grid of display strings.
//
// The zero value is not usable; construct tables with NewTable.
type Table struct {
	rows        [][]string
	hasHeader   bool
	columnCount int
}

// NewTable normalizes rows into a rectangular table.
//
// With hasHeader set, the first row is the header and its width fixes the
// column count; otherwise the widest row does. The input slices are copied.
func NewTable(rows [][]string, hasHeader bool) (*Table, error) {
	if len(rows) == 0 {
		return nil, &MalformedInputError{Reason: "source yields no rows"}
	}

	cols := 0
	if hasHeader {
		cols = len(rows[0])
	} else {
		for _, r := range rows {
			if len(r) > cols {
				cols = len(r)
			}
		}
	}
	if cols == 0 {
		return nil, &MalformedInputError{Reason: "source yields no columns"}
	}

	norm := make([][]string, len(rows))
	for i, r := range rows {
		row := make([]string, cols)
		copy(row, r)
		norm[i] = row
	}

	return &Table{rows: norm, hasHeader: hasHeader, columnCount: cols}, nil
}

// RowCount returns the number of rows, header included.
func (t *Table) RowCount() int { return len(t.rows) }

// ColumnCount returns the number of cells in every row.
func (t *Table) ColumnCount() int { return t.columnCount }

// HasHeader reports whether row 0 is a repeating header.
func (t *Table) HasHeader() bool { return t.hasHeader }

// FirstDataRow returns the index of the first non-header row.
func (t *Table) FirstDataRow() int {
	if t.hasHeader {
		return 1
	}
	return 0
}

// DataRowCount returns the number of non-header rows.
func (t *Table) DataRowCount() int { return len(t.rows) - t.FirstDataRow() }

// Header returns a copy of the header row, or nil without a header.
func (t *Table) Header() []string {
	if !t.hasHeader {
		return nil
	}
	return t.Row(0)
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []string {
	if i < 0 || i >= len(t.rows) {
		return nil
	}
	out := make([]string, t.columnCount)
	copy(out, t.rows[i])
	return out
}

// Cell returns the cell at row i, column j, or "" when out of range.
func (t *Table) Cell(i, j int) string {
	if i < 0 || i >= len(t.rows) || j < 0 || j >= t.columnCount {
		return ""
	}
	return t.rows[i][j]
}

// Column returns the raw values of column j in row order.
func (t *Table) Column(j int) []string {
	if j < 0 || j >= t.columnCount {
		return nil
	}
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[j]
	}
	return out
}

// Rows returns a deep copy of all rows.
func (t *Table) Rows() [][]string {
	out := make([][]string, len(t.rows))
	for i := range t.rows {
		out[i] = t.Row(i)
	}
	return out
}

// WithHeader returns a table sharing no state with t whose header flag is set
// to hasHeader. The column count is recomputed.
func (t *Table) WithHeader(hasHeader bool) (*Table, error) {
	return NewTable(t.rows, hasHeader)
}

// ToCSV renders the table as comma-separated values.
func (t *Table) ToCSV() string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	// strings.Builder never fails
	_ = w.WriteAll(t.rows)
	return sb.String()
}

// ToText renders the table the way extracted documents show it: non-empty
// cells joined by " | ", one row per line.
func (t *Table) ToText() string {
	var lines []string
	for _, r := range t.rows {
		var cells []string
		for _, c := range r {
			if c = strings.TrimSpace(c); c != "" {
				cells = append(cells, c)
			}
		}
		if len(cells) > 0 {
			lines = append(lines, strings.Join(cells, " | "))
		}
	}
	return strings.Join(lines, "\n")
}
