package pptx

import (
	"context"
	"strconv"

	"github.com/quirelabs/quire/font"
	"github.com/quirelabs/quire/model"
	"github.com/quirelabs/quire/render"
)

// RenderOptions controls how slides are drawn.
type RenderOptions struct {
	// TitleSize is the font size of title placeholders without an explicit
	// size
	// Default: 32
	TitleSize float64

	// BodySize is the font size of other text without an explicit size
	// Default: 18
	BodySize float64

	// MinSize is the smallest size text is shrunk to when it overflows its
	// shape
	// Default: 8
	MinSize float64

	// Inset is the padding inside each shape
	// Default: 7.2
	Inset float64
}

// DefaultRenderOptions returns the default slide rendering settings.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{TitleSize: 32, BodySize: 18, MinSize: 8, Inset: 7.2}
}

const (
	indentStep = 27 // per paragraph level
	shrinkStep = 0.9
	flowMargin = 36
)

// Render draws one page per slide, sized like the slide. Titles are bold.
// Text that overflows its shape is shrunk, down to MinSize, and tables are
// drawn as ruled grids. Shapes without a position are stacked below the
// title area.
func Render(ctx context.Context, c render.Canvas, p *Presentation, m *font.Metrics, opts RenderOptions) error {
	if p == nil || len(p.Slides) == 0 {
		return &model.MalformedInputError{Source: "pptx", Reason: "no slides"}
	}
	if opts.BodySize <= 0 || opts.TitleSize <= 0 || opts.MinSize <= 0 {
		return &model.GeometryError{Field: "font size", Reason: "slide font sizes must be positive"}
	}

	orient := model.Landscape
	if p.Height > p.Width {
		orient = model.Portrait
	}
	sr := slideRenderer{c: c, m: m, opts: opts, width: p.Width, height: p.Height}
	for _, s := range p.Slides {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.NewPage(orient, p.Width, p.Height); err != nil {
			return model.Wrap("new page", err)
		}
		sr.slide(s)
	}
	return nil
}

type slideRenderer struct {
	c             render.Canvas
	m             *font.Metrics
	opts          RenderOptions
	width, height float64
}

func (r *slideRenderer) slide(s *Slide) {
	flowY := flowMargin + r.height/6
	for i := range s.Shapes {
		sh := &s.Shapes[i]
		box := sh.Bounds
		if box == (model.Rect{}) {
			box = r.flowBox(sh, &flowY)
		}
		if sh.Table != nil {
			r.table(sh.Table, box)
			continue
		}
		r.text(sh, box)
	}
}

// flowBox places an unpositioned shape: titles at the top, everything else
// in a column that grows downward.
func (r *slideRenderer) flowBox(sh *Shape, flowY *float64) model.Rect {
	width := r.width - 2*flowMargin
	if sh.IsTitle() {
		return model.Rect{X: flowMargin, Y: flowMargin / 2, Width: width, Height: r.height / 6}
	}
	var h float64
	if sh.Table != nil {
		h = float64(sh.Table.RowCount()) * r.m.LineHeight(r.opts.BodySize) * 1.5
	} else {
		lines := r.layoutText(sh, width-2*r.opts.Inset, 1)
		for _, l := range lines {
			h += r.m.LineHeight(l.size)
		}
		h += 2 * r.opts.Inset
	}
	box := model.Rect{X: flowMargin, Y: *flowY, Width: width, Height: h}
	*flowY += h
	return box
}

type textLine struct {
	text   string
	indent float64
	size   float64
	bold   bool
}

// layoutText wraps the shape's paragraphs at scale times their natural
// size.
func (r *slideRenderer) layoutText(sh *Shape, width, scale float64) []textLine {
	var out []textLine
	var counters [9]int
	for _, para := range sh.Paragraphs {
		size := para.Size
		if size <= 0 {
			size = r.opts.BodySize
			if sh.IsTitle() {
				size = r.opts.TitleSize
			}
		}
		size = max(size*scale, r.opts.MinSize)
		bold := para.Bold || sh.IsTitle()

		text := para.Text
		level := min(max(para.Level, 0), len(counters)-1)
		indent := float64(level) * indentStep
		switch {
		case para.Numbered:
			if counters[level] == 0 {
				counters[level] = max(para.Start, 1)
			} else {
				counters[level]++
			}
			clear(counters[level+1:])
			text = strconv.Itoa(counters[level]) + ". " + text
		case para.Bullet:
			text = "• " + text
		}
		for _, line := range r.m.Wrap(text, max(width-indent, 1), size, bold) {
			out = append(out, textLine{text: line, indent: indent, size: size, bold: bold})
		}
	}
	return out
}

func (r *slideRenderer) text(sh *Shape, box model.Rect) {
	inset := r.opts.Inset
	width, height := box.Width-2*inset, box.Height-2*inset

	var lines []textLine
	for scale := 1.0; ; scale *= shrinkStep {
		lines = r.layoutText(sh, width, scale)
		if r.linesHeight(lines) <= height || r.atMinimum(lines) {
			break
		}
	}

	y := box.Y + inset
	for _, l := range lines {
		lh := r.m.LineHeight(l.size)
		if l.text != "" {
			r.c.DrawText(box.X+inset+l.indent, y+(lh-l.size)/2+l.size*0.8, l.text, l.size, l.bold)
		}
		y += lh
	}
}

func (r *slideRenderer) linesHeight(lines []textLine) float64 {
	h := 0.0
	for _, l := range lines {
		h += r.m.LineHeight(l.size)
	}
	return h
}

func (r *slideRenderer) atMinimum(lines []textLine) bool {
	for _, l := range lines {
		if l.size > r.opts.MinSize {
			return false
		}
	}
	return true
}

// table draws t in box with equal column widths, the header row bold.
func (r *slideRenderer) table(t *model.Table, box model.Rect) {
	const pad = 3
	cols := t.ColumnCount()
	colW := box.Width / float64(cols)
	widths := make([]float64, cols)
	for j := range widths {
		widths[j] = colW
	}

	size := min(r.opts.BodySize, 12)
	var heights []float64
	for ; ; size *= shrinkStep {
		size = max(size, r.opts.MinSize)
		heights = heights[:0]
		total := 0.0
		for i := 0; i < t.RowCount(); i++ {
			lines := 1
			for _, cell := range t.Row(i) {
				lines = max(lines, r.m.LineCount(cell, colW-2*pad, size, i == 0))
			}
			h := float64(lines)*r.m.LineHeight(size) + 2*pad
			heights = append(heights, h)
			total += h
		}
		if total <= box.Height || size <= r.opts.MinSize {
			break
		}
	}

	lh := r.m.LineHeight(size)
	y := box.Y
	for i := 0; i < t.RowCount(); i++ {
		bold := i == 0 && t.HasHeader()
		for j, cell := range t.Row(i) {
			if cell == "" {
				continue
			}
			x := box.X + float64(j)*colW
			r.c.ClipRect(x, y, colW, heights[i])
			for k, line := range r.m.Wrap(cell, colW-2*pad, size, bold) {
				top := y + pad + float64(k)*lh
				r.c.DrawText(x+pad, top+(lh-size)/2+size*0.8, line, size, bold)
			}
			r.c.Unclip()
		}
		y += heights[i]
	}
	r.c.DrawGridLines(box.X, box.Y, widths, heights)
}
