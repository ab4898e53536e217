// Package quire provides a fluent API for converting documents, spreadsheets
// and tables between formats on the local machine.
//
// Basic usage:
//
//	files, warnings, err := quire.Open("sales.csv").Convert(quire.PDF)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", quire.FormatWarnings(warnings))
//	}
//
// With options:
//
//	files, _, err := quire.Open("report.xlsx").
//	    PageSize("Letter").
//	    FontLadder(9, 8, 7).
//	    PageLabels().
//	    Convert(quire.PDF)
//
// For finer control the convert, layout and render packages are also
// available.
package quire

import (
	"strings"

	"github.com/quirelabs/quire/convert"
	"github.com/quirelabs/quire/format"
	"github.com/quirelabs/quire/model"
)

// Kind is a file format.
type Kind = format.Kind

// Formats.
const (
	PDF        = format.PDF
	Image      = format.Image
	Word       = format.Word
	Excel      = format.Excel
	PowerPoint = format.PowerPoint
	Text       = format.Text
	CSV        = format.CSV
	HTML       = format.HTML
)

type (
	// Artifact is one produced file.
	Artifact = convert.Artifact

	// Warning is a non-fatal problem met while converting.
	Warning = convert.Warning

	// SheetPlan is the layout of one table.
	SheetPlan = convert.SheetPlan

	// NamedTable is a table with the name of its sheet.
	NamedTable = convert.NamedTable
)

// Error types returned by terminal operations. Use errors.As to tell them
// apart.
type (
	MalformedInputError        = model.MalformedInputError
	EncodingError              = model.EncodingError
	GeometryError              = model.GeometryError
	CollaboratorError          = model.CollaboratorError
	UnsupportedConversionError = model.UnsupportedConversionError
)

// Open returns a Converter for the file at path. The file is read by the
// terminal operation.
//
// Example:
//
//	files, warnings, err := quire.Open("sales.csv").Convert(quire.PDF)
func Open(path string) *Converter {
	return &Converter{path: path, name: path, opts: convert.DefaultOptions()}
}

// FromBytes returns a Converter for data already in memory. name is used
// for format detection and to name the produced files.
//
// Example:
//
//	files, _, err := quire.FromBytes("sales.csv", data).Convert(quire.Excel)
func FromBytes(name string, data []byte) *Converter {
	return &Converter{name: name, data: data, opts: convert.DefaultOptions()}
}

// ParseKind parses a format name such as "pdf", "xlsx" or "word".
func ParseKind(s string) (Kind, error) {
	return format.ParseKind(s)
}

// FormatWarnings joins warnings into one line each.
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustValue is like Must for terminal operations; warnings are discarded.
//
// Example:
//
//	files := quire.MustValue(quire.Open("sales.csv").Convert(quire.PDF))
func MustValue[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
