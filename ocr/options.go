// Package ocr recognizes text in raster images with the Tesseract engine.
//
// Recognition needs the "ocr" build tag and a system Tesseract install.
// Without the tag every call fails with ErrOCRNotEnabled:
//
//	go build -tags ocr ./...
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr libtesseract-dev
package ocr

import "errors"

// ErrOCRNotEnabled is returned when OCR support was not compiled in.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// PageSegMode tells Tesseract how to analyze page layout.
type PageSegMode int

// Page segmentation modes, numbered as in Tesseract.
const (
	PSMAuto        PageSegMode = 3  // fully automatic
	PSMSingleBlock PageSegMode = 6  // one uniform block of text
	PSMSingleLine  PageSegMode = 7  // one text line
	PSMSparseText  PageSegMode = 11 // as much text as possible, in no order
)

// Options configures a Client.
type Options struct {
	// Languages are Tesseract language codes
	// Default: eng
	Languages []string

	// PageSegMode selects the layout analysis
	// Default: PSMAuto
	PageSegMode PageSegMode
}

func (o Options) languages() []string {
	if len(o.Languages) == 0 {
		return []string{"eng"}
	}
	return o.Languages
}

func (o Options) pageSegMode() PageSegMode {
	if o.PageSegMode == 0 {
		return PSMAuto
	}
	return o.PageSegMode
}
