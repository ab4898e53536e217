package pdfgen

import (
	"github.com/go-pdf/fpdf"

	"github.com/quirelabs/quire/font"
	"github.com/quirelabs/quire/model"
)

// UTF8Metrics returns metrics that measure with the widths of a TrueType
// font, for layouts drawn on a canvas created with the same Options.FontTTF.
// Bold text is measured with the regular widths since the canvas draws both
// styles with the same font program.
func UTF8Metrics(ttf []byte) (*font.Metrics, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.AddUTF8FontFromBytes(utf8Family, "", ttf)
	// at 1000pt, widths in points equal widths in 1000ths of an em
	pdf.SetFont(utf8Family, "", 1000)
	if pdf.Err() {
		return nil, model.Wrap("load font", pdf.Error())
	}
	return font.NewMetricsFunc(func(s string, _ bool) float64 {
		return pdf.GetStringWidth(s)
	}), nil
}
