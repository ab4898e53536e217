package render

import "github.com/quirelabs/quire/model"

// Canvas is the set of drawing primitives the renderers need. Coordinates
// are in points with the origin at the top-left corner of the page.
type Canvas interface {
	// NewPage starts a page of the given size. Width and height are already
	// oriented.
	NewPage(o model.Orientation, width, height float64) error

	// DrawText draws a single line of text with its baseline at y.
	DrawText(x, y float64, text string, size float64, bold bool)

	// DrawGridLines strokes the outline and inner rules of a grid whose
	// top-left corner is (x, y).
	DrawGridLines(x, y float64, colWidths, rowHeights []float64)

	// FillRect paints a rectangle in the given gray level (0 black, 255
	// white).
	FillRect(x, y, w, h float64, gray uint8)

	// ClipRect restricts drawing to a rectangle until Unclip is called.
	ClipRect(x, y, w, h float64)
	Unclip()

	// Finish completes the document and returns its bytes. The canvas must
	// not be used afterwards.
	Finish() ([]byte, error)
}

// baseline returns the baseline of a line of text whose line box starts at
// top.
func baseline(top, size, lineHeight float64) float64 {
	return top + (lineHeight-size)/2 + size*0.8
}
