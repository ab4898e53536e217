package convert

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quirelabs/quire/csvdoc"
	"github.com/quirelabs/quire/format"
	"github.com/quirelabs/quire/htmldoc"
	"github.com/quirelabs/quire/internal/logging"
	"github.com/quirelabs/quire/layout"
	"github.com/quirelabs/quire/ocr"
	"github.com/quirelabs/quire/raster"
	"github.com/quirelabs/quire/render"
)

// DefaultMaxInputBytes caps the size of a single input.
const DefaultMaxInputBytes = 50 << 20

// Observer receives a summary of every conversion and plan.
type Observer interface {
	ObserveConversion(from, to format.Kind, elapsed time.Duration, artifacts int, err error)
	ObservePlan(stats layout.Stats)
}

// Options configures a conversion.
type Options struct {
	// Layout drives table pages
	// Default: layout.DefaultConfig()
	Layout layout.Config

	// Flow drives flowed text pages
	// Default: render.DefaultFlowOptions()
	Flow render.FlowOptions

	// Encodings lists candidate CSV and text encodings in order
	// Default: csvdoc.DefaultEncodings
	Encodings []string

	// Delimiter forces the CSV field separator instead of sniffing it.
	Delimiter rune

	// NoHeader treats the first row of every table as data.
	NoHeader bool

	// PageLabels draws "Page i of n" on produced PDF pages.
	PageLabels bool

	// FontTTF is an optional TrueType font for produced PDFs, needed for
	// scripts outside cp1252.
	FontTTF []byte

	// MaxInputBytes caps the input size; 0 means DefaultMaxInputBytes and a
	// negative value disables the cap.
	MaxInputBytes int64

	HTML   htmldoc.Options
	OCR    ocr.Options
	Raster raster.Options

	// Logger receives request logs
	// Default: discard
	Logger logrus.FieldLogger

	// Observer is optional.
	Observer Observer
}

// DefaultOptions returns the default conversion options.
func DefaultOptions() Options {
	return Options{
		Layout:        layout.DefaultConfig(),
		Flow:          render.DefaultFlowOptions(),
		Encodings:     append([]string(nil), csvdoc.DefaultEncodings...),
		MaxInputBytes: DefaultMaxInputBytes,
		Raster:        raster.DefaultOptions(),
	}
}

// Clone returns a deep copy of o.
func (o Options) Clone() Options {
	out := o
	out.Layout.FontLadder = append([]float64(nil), o.Layout.FontLadder...)
	out.Encodings = append([]string(nil), o.Encodings...)
	out.FontTTF = append([]byte(nil), o.FontTTF...)
	out.OCR.Languages = append([]string(nil), o.OCR.Languages...)
	return out
}

func (o Options) maxInputBytes() int64 {
	if o.MaxInputBytes == 0 {
		return DefaultMaxInputBytes
	}
	return o.MaxInputBytes
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger == nil {
		return logging.Discard()
	}
	return o.Logger
}
