package pdfgen

import (
	"bytes"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/quirelabs/quire/model"
)

// epoch is stamped as creation and modification date of every document.
var epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

const (
	builtinFamily = "Helvetica"
	utf8Family    = "body"
	lineWidth     = 0.5
)

// Options configures a new canvas.
type Options struct {
	Title   string
	Author  string
	Subject string
	Creator string

	// FontTTF holds an optional TrueType font used for all text instead of
	// Helvetica. It is required for scripts outside cp1252.
	FontTTF []byte

	// NoCompression disables stream compression, mainly for inspecting
	// output in tests.
	NoCompression bool
}

// Canvas draws onto an in-memory PDF document.
type Canvas struct {
	pdf       *fpdf.Fpdf
	family    string
	translate func(string) string

	// current font, reset on every page
	size  float64
	bold  bool
	valid bool
}

// NewCanvas returns an empty document.
func NewCanvas(opts Options) (*Canvas, error) {
	pdf := newDocument(opts)

	c := &Canvas{pdf: pdf, family: builtinFamily}
	if len(opts.FontTTF) > 0 {
		pdf.AddUTF8FontFromBytes(utf8Family, "", opts.FontTTF)
		pdf.AddUTF8FontFromBytes(utf8Family, "B", opts.FontTTF)
		// fpdf reports unparsable fonts only when they are selected
		pdf.SetFont(utf8Family, "", 10)
		c.family = utf8Family
		c.translate = func(s string) string { return s }
	} else {
		c.translate = pdf.UnicodeTranslatorFromDescriptor("")
	}
	if pdf.Err() {
		return nil, model.Wrap("load font", pdf.Error())
	}
	return c, nil
}

func newDocument(opts Options) *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: model.A4.Width, Ht: model.A4.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(!opts.NoCompression)
	pdf.SetCreationDate(epoch)
	pdf.SetModificationDate(epoch)
	pdf.SetCatalogSort(true)

	creator := opts.Creator
	if creator == "" {
		creator = "quire"
	}
	pdf.SetCreator(creator, true)
	pdf.SetProducer("quire", true)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	if opts.Author != "" {
		pdf.SetAuthor(opts.Author, true)
	}
	if opts.Subject != "" {
		pdf.SetSubject(opts.Subject, true)
	}
	return pdf
}

// NewPage starts a page. Width and height are already oriented.
func (c *Canvas) NewPage(o model.Orientation, width, height float64) error {
	short, long := width, height
	if short > long {
		short, long = long, short
	}
	orient := "P"
	if o == model.Landscape {
		orient = "L"
	}
	c.pdf.AddPageFormat(orient, fpdf.SizeType{Wd: short, Ht: long})
	c.pdf.SetLineWidth(lineWidth)
	c.pdf.SetDrawColor(0, 0, 0)
	c.pdf.SetTextColor(0, 0, 0)
	c.valid = false
	if c.pdf.Err() {
		return model.Wrap("add page", c.pdf.Error())
	}
	return nil
}

func (c *Canvas) setFont(size float64, bold bool) {
	if c.valid && c.size == size && c.bold == bold {
		return
	}
	style := ""
	if bold {
		style = "B"
	}
	c.pdf.SetFont(c.family, style, size)
	c.size, c.bold, c.valid = size, bold, true
}

// DrawText draws one line of text with its baseline at y.
func (c *Canvas) DrawText(x, y float64, text string, size float64, bold bool) {
	c.setFont(size, bold)
	c.pdf.Text(x, y, c.translate(text))
}

// DrawGridLines strokes a grid with its top-left corner at (x, y).
func (c *Canvas) DrawGridLines(x, y float64, colWidths, rowHeights []float64) {
	width, height := 0.0, 0.0
	for _, w := range colWidths {
		width += w
	}
	for _, h := range rowHeights {
		height += h
	}

	c.pdf.Rect(x, y, width, height, "D")
	cx := x
	for _, w := range colWidths[:max(len(colWidths)-1, 0)] {
		cx += w
		c.pdf.Line(cx, y, cx, y+height)
	}
	cy := y
	for _, h := range rowHeights[:max(len(rowHeights)-1, 0)] {
		cy += h
		c.pdf.Line(x, cy, x+width, cy)
	}
}

// FillRect paints a gray rectangle.
func (c *Canvas) FillRect(x, y, w, h float64, gray uint8) {
	c.pdf.SetFillColor(int(gray), int(gray), int(gray))
	c.pdf.Rect(x, y, w, h, "F")
}

// ClipRect restricts drawing to a rectangle.
func (c *Canvas) ClipRect(x, y, w, h float64) {
	c.pdf.ClipRect(x, y, w, h, false)
}

// Unclip ends the most recent ClipRect.
func (c *Canvas) Unclip() {
	c.pdf.ClipEnd()
}

// PageCount returns the number of pages started so far.
func (c *Canvas) PageCount() int { return c.pdf.PageCount() }

// Finish closes the document and returns the PDF bytes.
func (c *Canvas) Finish() ([]byte, error) {
	if c.pdf.PageCount() == 0 {
		return nil, &model.MalformedInputError{Reason: "document has no pages"}
	}
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, model.Wrap("write pdf", err)
	}
	return buf.Bytes(), nil
}
