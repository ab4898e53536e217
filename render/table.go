package render

import (
	"context"
	"fmt"

	"github.com/quirelabs/quire/font"
	"github.com/quirelabs/quire/layout"
	"github.com/quirelabs/quire/model"
)

// headerGray is the fill behind header cells.
const headerGray = 230

// labelSize is the font size of page labels.
const labelSize = 7

// TableOptions controls decoration of rendered table pages.
type TableOptions struct {
	// Title prefixes page labels, typically the worksheet name.
	Title string

	// PageLabels draws "Page i of n" in the bottom margin.
	PageLabels bool

	// HeaderFill shades the header row.
	HeaderFill bool
}

// Table draws t onto c following plan, one page per (column band, row band)
// pair in column-band-major order. Cell text is wrapped with m at the plan's
// font size and clipped to its cell.
func Table(ctx context.Context, c Canvas, t *model.Table, plan *layout.Plan, m *font.Metrics, opts TableOptions) error {
	if t == nil || plan == nil {
		return &model.MalformedInputError{Reason: "nothing to render"}
	}
	if len(plan.ColumnWidths) != t.ColumnCount() {
		return fmt.Errorf("plan has %d columns, table has %d", len(plan.ColumnWidths), t.ColumnCount())
	}

	r := tableRenderer{c: c, t: t, plan: plan, m: m, opts: opts, total: plan.PageCount()}
	for _, cb := range plan.ColumnBands {
		for _, rb := range cb.RowBands {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := r.drawPage(cb, rb); err != nil {
				return err
			}
		}
	}
	return nil
}

type tableRenderer struct {
	c      Canvas
	t      *model.Table
	plan   *layout.Plan
	m      *font.Metrics
	opts   TableOptions
	pageNo int
	total  int
}

func (r *tableRenderer) drawPage(cb layout.ColumnBand, rb layout.RowBand) error {
	p := r.plan
	if err := r.c.NewPage(p.Orientation, p.PageWidth, p.PageHeight); err != nil {
		return model.Wrap("new page", err)
	}
	r.pageNo++

	left, top := p.Margins.Left, p.Margins.Top
	widths := p.ColumnWidths[cb.Start:cb.End]
	var heights []float64

	y := top
	if p.HasHeader {
		if r.opts.HeaderFill {
			r.c.FillRect(left, y, sum(widths), cb.HeaderHeight, headerGray)
		}
		r.row(0, cb, y, cb.HeaderHeight, p.HeaderBold)
		heights = append(heights, cb.HeaderHeight)
		y += cb.HeaderHeight
	}
	for i := rb.Start; i < rb.End; i++ {
		h := cb.RowHeights[i]
		r.row(i, cb, y, h, false)
		heights = append(heights, h)
		y += h
	}

	if len(heights) > 0 {
		r.c.DrawGridLines(left, top, widths, heights)
	}
	if r.opts.PageLabels {
		drawLabel(r.c, p.Margins, p.PageHeight, r.opts.Title, r.pageNo, r.total)
	}
	return nil
}

// row draws the cells of table row i within the band, with the row's top
// edge at y.
func (r *tableRenderer) row(i int, cb layout.ColumnBand, y, h float64, bold bool) {
	p := r.plan
	x := p.Margins.Left
	for j := cb.Start; j < cb.End; j++ {
		w := p.ColumnWidths[j]
		if text := r.t.Cell(i, j); text != "" {
			r.c.ClipRect(x, y, w, h)
			lines := r.m.Wrap(text, p.TextWidth(j), p.FontSize, bold)
			for k, line := range lines {
				if line == "" {
					continue
				}
				top := y + p.PaddingY + float64(k)*p.LineHeight
				r.c.DrawText(x+p.PaddingX, baseline(top, p.FontSize, p.LineHeight), line, p.FontSize, bold)
			}
			r.c.Unclip()
		}
		x += w
	}
}

// drawLabel writes the page label centered vertically in the bottom margin.
// Margins too small to hold it are left blank.
func drawLabel(c Canvas, m model.Margins, pageHeight float64, title string, page, total int) {
	if m.Bottom < labelSize*1.5 {
		return
	}
	label := fmt.Sprintf("Page %d of %d", page, total)
	if title != "" {
		label = title + " - " + label
	}
	top := pageHeight - m.Bottom + (m.Bottom-labelSize*font.LineSpacing)/2
	c.DrawText(m.Left, baseline(top, labelSize, labelSize*font.LineSpacing), label, labelSize, false)
}

func sum(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total
}
