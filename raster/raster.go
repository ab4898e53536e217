// Package raster renders PDF pages to images with the MuPDF engine.
//
// Rendering needs the "fitz" build tag, which links MuPDF through
// github.com/gen2brain/go-fitz. Without the tag Render fails with
// ErrRasterNotEnabled:
//
//	go build -tags fitz ./...
//
// Encoding rendered pages is pure Go and always available.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrRasterNotEnabled is returned when PDF rendering was not compiled in.
var ErrRasterNotEnabled = errors.New("PDF rendering not enabled; rebuild with -tags fitz")

// ImageFormat is an output image encoding.
type ImageFormat int

// Supported output encodings.
const (
	PNG ImageFormat = iota
	JPEG
	BMP
	TIFF
)

// ParseImageFormat accepts png, jpg, jpeg, bmp, tif and tiff in any case.
// An empty name is PNG.
func ParseImageFormat(name string) (ImageFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "", "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return PNG, fmt.Errorf("unknown image format %q", name)
}

func (f ImageFormat) String() string {
	switch f {
	case JPEG:
		return "jpeg"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	}
	return "png"
}

// Extension returns the file extension written for the format.
func (f ImageFormat) Extension() string {
	switch f {
	case JPEG:
		return ".jpg"
	case BMP:
		return ".bmp"
	case TIFF:
		return ".tiff"
	}
	return ".png"
}

// MIME returns the media type of the format.
func (f ImageFormat) MIME() string {
	return "image/" + f.String()
}

// Options configures rendering.
type Options struct {
	// DPI is the rendering resolution
	// Default: 150
	DPI float64

	// Format of every page image
	// Default: PNG
	Format ImageFormat

	// Quality of JPEG output, 1 to 100
	// Default: 90
	Quality int
}

// DefaultOptions returns PNG pages at 150 DPI.
func DefaultOptions() Options {
	return Options{DPI: 150, Format: PNG, Quality: 90}
}

func (o Options) dpi() float64 {
	if o.DPI <= 0 {
		return 150
	}
	return o.DPI
}

func (o Options) quality() int {
	if o.Quality <= 0 || o.Quality > 100 {
		return 90
	}
	return o.Quality
}

// Page is one rendered page.
type Page struct {
	Number int // 1-based
	Data   []byte
}

// Encode writes img in the format selected by opts.
func Encode(w io.Writer, img image.Image, opts Options) error {
	switch opts.Format {
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: opts.quality()})
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return png.Encode(w, img)
}
