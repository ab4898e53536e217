package font

import "github.com/mattn/go-runewidth"

// Face is a font face with known advance widths.
type Face struct {
	Name string

	// widths holds advance widths for U+0020..U+007E in 1000ths of an em
	widths *[95]float64
}

// Standard faces used by the PDF writer.
var (
	Helvetica     = Face{Name: "Helvetica", widths: &helveticaWidths}
	HelveticaBold = Face{Name: "Helvetica-Bold", widths: &helveticaBoldWidths}
)

// cells is locale independent so measurements do not depend on the
// environment.
var cells = &runewidth.Condition{EastAsianWidth: false}

const (
	wideWidth    = 1000.0
	defaultWidth = 556.0
)

// GetWidth returns the advance width of r in 1000ths of an em.
func (f Face) GetWidth(r rune) float64 {
	if r >= 0x20 && r <= 0x7E {
		return f.widths[r-0x20]
	}
	switch r {
	case '\t':
		return f.widths[0] * 4
	case 0xA0:
		return f.widths[0]
	}
	switch cells.RuneWidth(r) {
	case 0:
		return 0
	case 2:
		return wideWidth
	default:
		return defaultWidth
	}
}

// GetStringWidth returns the width of s in 1000ths of an em.
func (f Face) GetStringWidth(s string) float64 {
	total := 0.0
	for _, r := range s {
		total += f.GetWidth(r)
	}
	return total
}

// Helvetica widths from the Adobe AFM, U+0020..U+007E.
var helveticaWidths = [95]float64{
	278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584, 278, 333, 278, 278, // ' '../
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, // 0-9
	278, 278, 584, 584, 584, 556, 1015, // :;<=>?@
	667, 667, 722, 722, 667, 611, 778, 722, 278, 500, 667, 556, 833, // A-M
	722, 778, 667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, // N-Z
	278, 278, 278, 469, 556, 333, // [\]^_`
	556, 556, 500, 556, 556, 278, 556, 556, 222, 222, 500, 222, 833, // a-m
	556, 556, 556, 556, 333, 500, 278, 556, 500, 722, 500, 500, 500, // n-z
	334, 260, 334, 584, // {|}~
}

// Helvetica-Bold widths from the Adobe AFM, U+0020..U+007E.
var helveticaBoldWidths = [95]float64{
	278, 333, 474, 556, 556, 889, 722, 238, 333, 333, 389, 584, 278, 333, 278, 278,
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556,
	333, 333, 584, 584, 584, 611, 975,
	722, 722, 722, 722, 667, 611, 778, 722, 278, 556, 722, 611, 833,
	722, 778, 667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611,
	333, 278, 333, 584, 556, 333,
	556, 611, 556, 611, 556, 333, 611, 611, 278, 278, 556, 278, 889,
	611, 611, 611, 611, 389, 556, 333, 611, 556, 778, 556, 556, 500,
	389, 280, 389, 584,
}
