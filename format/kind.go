// Package format identifies document kinds from file names and content.
package format

import (
	"fmt"
	"strings"
)

// Kind is a document family the converter reads or writes.
type Kind int

const (
	// Unknown indicates an unrecognized format.
	Unknown Kind = iota
	// PDF indicates a PDF document.
	PDF
	// Image indicates a raster image: PNG, JPEG, GIF, BMP, TIFF or WebP.
	Image
	// Word indicates a word processing document (.docx, legacy .doc).
	Word
	// Excel indicates a spreadsheet (.xlsx, legacy .xls).
	Excel
	// PowerPoint indicates a presentation (.pptx, legacy .ppt).
	PowerPoint
	// Text indicates plain text.
	Text
	// CSV indicates delimiter-separated values.
	CSV
	// HTML indicates a web page.
	HTML
)

// Kinds lists every known kind in declaration order.
func Kinds() []Kind {
	return []Kind{PDF, Image, Word, Excel, PowerPoint, Text, CSV, HTML}
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case PDF:
		return "pdf"
	case Image:
		return "image"
	case Word:
		return "word"
	case Excel:
		return "excel"
	case PowerPoint:
		return "powerpoint"
	case Text:
		return "text"
	case CSV:
		return "csv"
	case HTML:
		return "html"
	default:
		return "unknown"
	}
}

// Extension returns the file extension written for the kind.
func (k Kind) Extension() string {
	switch k {
	case PDF:
		return ".pdf"
	case Image:
		return ".png"
	case Word:
		return ".docx"
	case Excel:
		return ".xlsx"
	case PowerPoint:
		return ".pptx"
	case Text:
		return ".txt"
	case CSV:
		return ".csv"
	case HTML:
		return ".html"
	default:
		return ""
	}
}

// MIME returns the media type written for the kind.
func (k Kind) MIME() string {
	switch k {
	case PDF:
		return "application/pdf"
	case Image:
		return "image/png"
	case Word:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case Excel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case PowerPoint:
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	case Text:
		return "text/plain; charset=utf-8"
	case CSV:
		return "text/csv; charset=utf-8"
	case HTML:
		return "text/html; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

var aliases = map[string]Kind{
	"pdf":        PDF,
	"image":      Image,
	"img":        Image,
	"png":        Image,
	"jpg":        Image,
	"jpeg":       Image,
	"word":       Word,
	"docx":       Word,
	"doc":        Word,
	"excel":      Excel,
	"xlsx":       Excel,
	"xls":        Excel,
	"powerpoint": PowerPoint,
	"ppt":        PowerPoint,
	"pptx":       PowerPoint,
	"text":       Text,
	"txt":        Text,
	"csv":        CSV,
	"html":       HTML,
	"htm":        HTML,
}

// ParseKind resolves a kind name or a common extension, ignoring case and a
// leading dot.
func ParseKind(s string) (Kind, error) {
	if k, ok := aliases[strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")]; ok {
		return k, nil
	}
	return Unknown, fmt.Errorf("unknown format %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
