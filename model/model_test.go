package model

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestNewTable(t *testing.T) {
	tests := []struct {
		name      string
		rows      [][]string
		hasHeader bool
		wantCols  int
		wantRows  int
	}{
		{"header fixes width", [][]string{{"a", "b"}, {"1", "2", "3"}, {"4"}}, true, 2, 3},
		{"widest row without header", [][]string{{"a"}, {"1", "2", "3"}}, false, 3, 2},
		{"header only", [][]string{{"x", "y"}}, true, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := NewTable(tt.rows, tt.hasHeader)
			if err != nil {
				t.Fatalf("NewTable() error = %v", err)
			}
			if tbl.ColumnCount() != tt.wantCols {
				t.Errorf("ColumnCount() = %d, want %d", tbl.ColumnCount(), tt.wantCols)
			}
			if tbl.RowCount() != tt.wantRows {
				t.Errorf("RowCount() = %d, want %d", tbl.RowCount(), tt.wantRows)
			}
			for i := 0; i < tbl.RowCount(); i++ {
				if got := len(tbl.Row(i)); got != tt.wantCols {
					t.Errorf("len(Row(%d)) = %d, want %d", i, got, tt.wantCols)
				}
			}
		})
	}
}

func TestNewTablePadsAndTruncates(t *testing.T) {
	tbl, err := NewTable([][]string{{"h1", "h2"}, {"only"}, {"a", "b", "dropped"}}, true)
	if err != nil {
		t.Fatal(err)
	}
	if got := tbl.Cell(1, 1); got != "" {
		t.Errorf("padded cell = %q, want empty", got)
	}
	if got := tbl.Row(2); len(got) != 2 || got[1] != "b" {
		t.Errorf("truncated row = %v", got)
	}
	if tbl.DataRowCount() != 2 || tbl.FirstDataRow() != 1 {
		t.Errorf("DataRowCount() = %d, FirstDataRow() = %d", tbl.DataRowCount(), tbl.FirstDataRow())
	}
}

func TestNewTableMalformed(t *testing.T) {
	for name, rows := range map[string][][]string{
		"no rows":          nil,
		"no columns":       {{}},
		"empty header row": {{}, {"a"}},
	} {
		t.Run(name, func(t *testing.T) {
			hasHeader := name == "empty header row"
			tbl, err := NewTable(rows, hasHeader)
			if tbl != nil {
				t.Error("expected nil table")
			}
			var me *MalformedInputError
			if !errors.As(err, &me) {
				t.Fatalf("error = %v, want *MalformedInputError", err)
			}
		})
	}
}

func TestTableIsImmutable(t *testing.T) {
	src := [][]string{{"a", "b"}}
	tbl, _ := NewTable(src, false)
	src[0][0] = "changed"
	row := tbl.Row(0)
	row[1] = "changed"
	if tbl.Cell(0, 0) != "a" || tbl.Cell(0, 1) != "b" {
		t.Errorf("table mutated through caller slices: %v", tbl.Rows())
	}
}

func TestTableColumnAndExport(t *testing.T) {
	tbl, _ := NewTable([][]string{{"name", "qty"}, {"apple", "3"}, {"", "4"}}, true)

	col := tbl.Column(1)
	if strings.Join(col, ",") != "qty,3,4" {
		t.Errorf("Column(1) = %v", col)
	}
	if tbl.Column(5) != nil {
		t.Error("Column out of range should be nil")
	}
	if got := tbl.ToCSV(); got != "name,qty\napple,3\n,4\n" {
		t.Errorf("ToCSV() = %q", got)
	}
	if got := tbl.ToText(); got != "name | qty\napple | 3\n4" {
		t.Errorf("ToText() = %q", got)
	}
}

func TestDocumentText(t *testing.T) {
	tbl, _ := NewTable([][]string{{"a", "b"}, {"c", ""}}, true)
	doc := NewDocument()
	doc.Add(
		&Heading{Text: "Title", Level: 1},
		&Paragraph{Text: "  body  "},
		&Paragraph{Text: "   "},
		&ListItem{Text: "first", Ordered: true, Number: 1},
		&ListItem{Text: "nested", Level: 1},
		PageBreak{},
		&TableBlock{Table: tbl},
	)

	want := "Title\n\nbody\n\n1. first\n\n  • nested\n\n--- Table ---\na | b\nc\n--- End of Table ---"
	if got := doc.Text(); got != want {
		t.Errorf("Text() =\n%q\nwant\n%q", got, want)
	}
	if len(doc.Tables()) != 1 {
		t.Errorf("Tables() = %d, want 1", len(doc.Tables()))
	}
}

func TestPageSizeOriented(t *testing.T) {
	w, h := A4.Oriented(Landscape)
	if w <= h {
		t.Errorf("landscape A4 = %gx%g, want wider than tall", w, h)
	}
	w, h = A4.Oriented(Portrait)
	if w >= h {
		t.Errorf("portrait A4 = %gx%g, want taller than wide", w, h)
	}

	ps, err := LookupPageSize("letter")
	if err != nil || ps != Letter {
		t.Errorf("LookupPageSize(letter) = %v, %v", ps, err)
	}
	var ge *GeometryError
	if _, err := LookupPageSize("B9"); !errors.As(err, &ge) {
		t.Errorf("LookupPageSize(B9) error = %v, want *GeometryError", err)
	}
}

func TestRectFit(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 100, Height: 200}
	got := r.Fit(50, 50)
	if got.Width != 100 || got.Height != 100 || got.Y != 60 || got.X != 10 {
		t.Errorf("Fit() = %+v", got)
	}
}

func TestErrors(t *testing.T) {
	if Wrap("op", nil) != nil {
		t.Error("Wrap(nil) should be nil")
	}
	err := Wrap("decode png", io.ErrUnexpectedEOF)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("CollaboratorError should unwrap to its cause")
	}
	if err.Error() != "decode png: unexpected EOF" {
		t.Errorf("Error() = %q", err.Error())
	}

	enc := &EncodingError{Attempted: []string{"utf-8", "gbk"}}
	if !strings.Contains(enc.Error(), "utf-8, gbk") {
		t.Errorf("EncodingError = %q", enc.Error())
	}

	uc := &UnsupportedConversionError{From: "PDF", To: "Image"}
	if uc.Error() != "unsupported conversion PDF -> Image" {
		t.Errorf("UnsupportedConversionError = %q", uc.Error())
	}
}
