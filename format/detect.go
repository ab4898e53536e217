package format

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Detection is the outcome of Detect.
type Detection struct {
	Kind Kind

	// Legacy marks the binary Office formats (.doc, .xls, .ppt). Of these
	// only .xls workbooks are read.
	Legacy bool

	// ByContent is false when only the file name decided the kind.
	ByContent bool
}

// sniffLen is how much of the input the text checks look at.
const sniffLen = 512

var (
	magicPDF  = []byte("%PDF")
	magicZIP  = []byte("PK\x03\x04")
	magicOLE2 = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

	imageMagics = [][]byte{
		[]byte("\x89PNG\r\n\x1a\n"),
		{0xFF, 0xD8, 0xFF},
		[]byte("GIF87a"),
		[]byte("GIF89a"),
		[]byte("BM"),
		[]byte("II*\x00"),
		[]byte("MM\x00*"),
	}
)

// Detect determines the kind of a file from its content, falling back to
// its name. Binary signatures always win over the extension. Text content
// is classified by the extension, except that unnamed text that looks like
// HTML is HTML.
func Detect(name string, data []byte) Detection {
	if k, legacy := FromContent(data); k != Unknown {
		// a .txt or .csv that merely starts with a tag stays text
		if !(k == HTML && isPlainExtension(name)) {
			return Detection{Kind: k, Legacy: legacy, ByContent: true}
		}
	}
	if k, legacy := FromExtension(name); k != Unknown {
		return Detection{Kind: k, Legacy: legacy}
	}
	if len(data) > 0 && looksLikeText(data) {
		return Detection{Kind: Text, ByContent: true}
	}
	return Detection{}
}

// FromExtension determines the kind from a file name extension.
func FromExtension(name string) (Kind, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return PDF, false
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return Image, false
	case ".docx":
		return Word, false
	case ".doc":
		return Word, true
	case ".xlsx", ".xlsm":
		return Excel, false
	case ".xls":
		return Excel, true
	case ".pptx":
		return PowerPoint, false
	case ".ppt":
		return PowerPoint, true
	case ".txt", ".text", ".md", ".log":
		return Text, false
	case ".csv", ".tsv":
		return CSV, false
	case ".html", ".htm", ".xhtml":
		return HTML, false
	default:
		return Unknown, false
	}
}

func isPlainExtension(name string) bool {
	k, _ := FromExtension(name)
	return k == Text || k == CSV
}

// FromContent checks signatures: PDF and image magic numbers, ZIP
// packages holding Office Open XML parts, OLE2 compound files and HTML
// markup. It returns Unknown for anything else, including plain text.
func FromContent(data []byte) (Kind, bool) {
	switch {
	case bytes.HasPrefix(data, magicPDF):
		return PDF, false
	case bytes.HasPrefix(data, magicZIP):
		return fromZIP(data), false
	case bytes.HasPrefix(data, magicOLE2):
		if k := fromOLE2(data); k != Unknown {
			return k, true
		}
		return Unknown, false
	case isImage(data):
		return Image, false
	case looksLikeHTML(data):
		return HTML, false
	}
	return Unknown, false
}

func isImage(data []byte) bool {
	for _, m := range imageMagics {
		if bytes.HasPrefix(data, m) {
			// "BM" alone is too weak; a BMP header is 14 bytes plus a DIB header
			return !bytes.Equal(m, []byte("BM")) || len(data) > 26
		}
	}
	return len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP"))
}

// fromZIP inspects the entries of an Office Open XML package.
func fromZIP(data []byte) Kind {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Unknown
	}
	for _, f := range zr.File {
		switch {
		case strings.HasPrefix(f.Name, "word/"):
			return Word
		case strings.HasPrefix(f.Name, "xl/"):
			return Excel
		case strings.HasPrefix(f.Name, "ppt/"):
			return PowerPoint
		}
	}
	return Unknown
}

// looksLikeHTML checks for a doctype or a leading html, head or body tag.
func looksLikeHTML(data []byte) bool {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	data = bytes.TrimLeft(data[:min(len(data), sniffLen)], " \t\r\n")
	upper := strings.ToUpper(string(data))
	for _, prefix := range []string{"<!DOCTYPE HTML", "<HTML", "<HEAD", "<BODY"} {
		if strings.HasPrefix(upper, prefix) {
			return true
		}
	}
	// XHTML behind an XML declaration
	return strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML")
}

// looksLikeText reports whether the start of data is free of control bytes
// other than white space. Non-UTF-8 bytes are allowed since legacy
// encodings are decoded later.
func looksLikeText(data []byte) bool {
	data = data[:min(len(data), sniffLen)]
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r < 0x20 && r != '\n' && r != '\r' && r != '\t' && r != '\f' {
			return false
		}
		data = data[size:]
	}
	return true
}
