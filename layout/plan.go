package layout

import "github.com/quirelabs/quire/model"

// widthSlack absorbs floating point error when text measured at the chosen
// size is compared against a column allocated exactly that width.
const widthSlack = 1e-6

// RowBand is a half-open range of table row indices drawn on one page.
type RowBand struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Len returns the number of rows in the band.
func (rb RowBand) Len() int { return rb.End - rb.Start }

// ColumnBand is a half-open range of column indices rendered as its own
// sequence of pages.
type ColumnBand struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`

	// HeaderHeight is the height of the header row in this band, 0 without a
	// header.
	HeaderHeight float64 `json:"header_height" yaml:"header_height"`

	// RowHeights holds the height of every table row in this band, indexed
	// by table row.
	RowHeights []float64 `json:"-" yaml:"-"`

	// RowBands partitions the data rows, one band per page.
	RowBands []RowBand `json:"row_bands" yaml:"row_bands"`
}

// Columns returns the number of columns in the band.
func (cb ColumnBand) Columns() int { return cb.End - cb.Start }

// Plan is the complete layout decision for one table.
type Plan struct {
	Orientation model.Orientation `json:"orientation" yaml:"orientation"`
	PageWidth   float64           `json:"page_width" yaml:"page_width"`
	PageHeight  float64           `json:"page_height" yaml:"page_height"`
	Margins     model.Margins     `json:"margins" yaml:"margins"`

	FontSize   float64 `json:"font_size" yaml:"font_size"`
	LineHeight float64 `json:"line_height" yaml:"line_height"`
	PaddingX   float64 `json:"padding_x" yaml:"padding_x"`
	PaddingY   float64 `json:"padding_y" yaml:"padding_y"`
	HeaderBold bool    `json:"header_bold" yaml:"header_bold"`
	HasHeader  bool    `json:"has_header" yaml:"has_header"`

	// Fits is false when the table did not fit the usable width even at the
	// smallest font size.
	Fits bool `json:"fits" yaml:"fits"`

	// NaturalWidths are the unwrapped column widths at FontSize.
	NaturalWidths []float64 `json:"natural_widths" yaml:"natural_widths"`

	// ColumnWidths are the allocated column widths. The widths of each
	// column band sum to at most the usable width.
	ColumnWidths []float64 `json:"column_widths" yaml:"column_widths"`

	ColumnBands []ColumnBand `json:"column_bands" yaml:"column_bands"`
}

// UsableWidth returns the printable width of a page.
func (p *Plan) UsableWidth() float64 {
	return p.PageWidth - p.Margins.Left - p.Margins.Right
}

// UsableHeight returns the printable height of a page.
func (p *Plan) UsableHeight() float64 {
	return p.PageHeight - p.Margins.Top - p.Margins.Bottom
}

// TextWidth returns the width available to text in column col.
func (p *Plan) TextWidth(col int) float64 {
	w := p.ColumnWidths[col] - 2*p.PaddingX
	if w < 0 {
		w = 0
	}
	return w + widthSlack
}

// PageCount returns the number of pages the plan renders to.
func (p *Plan) PageCount() int {
	n := 0
	for _, cb := range p.ColumnBands {
		n += len(cb.RowBands)
	}
	return n
}

// Stats summarizes a plan for logs and reports.
type Stats struct {
	Orientation model.Orientation `json:"orientation" yaml:"orientation"`
	FontSize    float64           `json:"font_size" yaml:"font_size"`
	Fits        bool              `json:"fits" yaml:"fits"`
	Columns     int               `json:"columns" yaml:"columns"`
	ColumnBands int               `json:"column_bands" yaml:"column_bands"`
	Pages       int               `json:"pages" yaml:"pages"`
}

// Stats returns a summary of the plan.
func (p *Plan) Stats() Stats {
	return Stats{
		Orientation: p.Orientation,
		FontSize:    p.FontSize,
		Fits:        p.Fits,
		Columns:     len(p.ColumnWidths),
		ColumnBands: len(p.ColumnBands),
		Pages:       p.PageCount(),
	}
}
