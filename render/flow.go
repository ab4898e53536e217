package render

import (
	"context"
	"math"
	"strings"

	"github.com/quirelabs/quire/font"
	"github.com/quirelabs/quire/model"
)

// FlowOptions controls how a document flows onto pages.
type FlowOptions struct {
	// PageSize is the paper size; flowed documents are always portrait
	// Default: A4
	PageSize model.PageSize

	// Margins around the text block
	// Default: 72 points left, right and top, 18 points bottom
	Margins model.Margins

	// FontSize of body text
	// Default: 10
	FontSize float64

	// Leading is the baseline-to-baseline distance of body text
	// Default: 14
	Leading float64

	// ParagraphSpacing is the gap after each block
	// Default: 6
	ParagraphSpacing float64

	// Title prefixes page labels.
	Title string

	// PageLabels draws "Page i of n" in the bottom margin.
	PageLabels bool
}

// DefaultFlowOptions returns the default text flow settings.
func DefaultFlowOptions() FlowOptions {
	return FlowOptions{
		PageSize:         model.A4,
		Margins:          model.Margins{Top: 72, Right: 72, Bottom: 18, Left: 72},
		FontSize:         10,
		Leading:          14,
		ParagraphSpacing: 6,
	}
}

// Validate reports settings that leave no room for text.
func (o FlowOptions) Validate() error {
	w, h := o.PageSize.Oriented(model.Portrait)
	uw, uh := o.Margins.Usable(w, h)
	switch {
	case uw <= 0:
		return &model.GeometryError{Field: "usable width", Value: uw}
	case uh <= 0:
		return &model.GeometryError{Field: "usable height", Value: uh}
	case o.FontSize <= 0:
		return &model.GeometryError{Field: "font size", Value: o.FontSize}
	case o.Leading <= 0:
		return &model.GeometryError{Field: "leading", Value: o.Leading}
	}
	return nil
}

// line is one laid out line of text.
type line struct {
	text   string
	x      float64
	size   float64
	lead   float64
	bold   bool
	after  float64 // extra space after the line
	breaks bool    // forced page break before this line
}

// Document flows doc onto c. Headings are bold and larger, list items are
// indented with their marker, tables are drawn as rows of " | " separated
// cells, and page breaks start a new page unless the current one is empty.
// An empty document still produces one blank page.
func Document(ctx context.Context, c Canvas, doc *model.Document, m *font.Metrics, opts FlowOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if doc == nil {
		doc = model.NewDocument()
	}

	pageW, pageH := opts.PageSize.Oriented(model.Portrait)
	width, _ := opts.Margins.Usable(pageW, pageH)
	lines := flowLines(doc, m, width, opts)
	pages := paginateLines(lines, pageH-opts.Margins.Top-opts.Margins.Bottom)

	for n, pg := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.NewPage(model.Portrait, pageW, pageH); err != nil {
			return model.Wrap("new page", err)
		}
		y := opts.Margins.Top
		for _, ln := range pg {
			if ln.text != "" {
				c.DrawText(opts.Margins.Left+ln.x, baseline(y, ln.size, ln.lead), ln.text, ln.size, ln.bold)
			}
			y += ln.lead + ln.after
		}
		if opts.PageLabels {
			drawLabel(c, opts.Margins, pageH, opts.Title, n+1, len(pages))
		}
	}
	return nil
}

func flowLines(doc *model.Document, m *font.Metrics, width float64, opts FlowOptions) []line {
	var out []line
	pendingBreak := false
	emit := func(text string, indent, size, lead float64, bold bool) {
		wrapped := m.Wrap(text, width-indent, size, bold)
		for k, w := range wrapped {
			ln := line{text: w, x: indent, size: size, lead: lead, bold: bold}
			if k == 0 && pendingBreak {
				ln.breaks = true
				pendingBreak = false
			}
			out = append(out, ln)
		}
		out[len(out)-1].after = opts.ParagraphSpacing
	}

	for _, b := range doc.Blocks {
		switch v := b.(type) {
		case *model.Heading:
			text := strings.TrimSpace(v.Text)
			if text == "" {
				continue
			}
			size := headingSize(opts.FontSize, v.Level)
			emit(text, 0, size, size*opts.Leading/opts.FontSize, true)
		case *model.ListItem:
			indent := 14 * float64(v.Level+1)
			emit(v.Marker()+" "+strings.TrimSpace(v.Text), indent, opts.FontSize, opts.Leading, false)
		case *model.TableBlock:
			if v.Table == nil {
				continue
			}
			for i := 0; i < v.Table.RowCount(); i++ {
				row := strings.Join(v.Table.Row(i), " | ")
				emit(row, 0, opts.FontSize, opts.Leading, v.Table.HasHeader() && i == 0)
			}
		case model.PageBreak, *model.PageBreak:
			if len(out) > 0 {
				pendingBreak = true
			}
		default:
			text := strings.TrimSpace(b.GetText())
			if text == "" {
				continue
			}
			bold := false
			if p, ok := b.(*model.Paragraph); ok {
				bold = p.Bold
			}
			emit(text, 0, opts.FontSize, opts.Leading, bold)
		}
	}
	return out
}

// headingSize scales body size by heading level: level 1 is 1.6x, each level
// below is 0.1x smaller, never below body size.
func headingSize(body float64, level int) float64 {
	if level < 1 {
		level = 1
	}
	return math.Max(body, body*float64(17-level)/10)
}

// paginateLines splits lines into pages of at most height. A page always
// holds at least one line.
func paginateLines(lines []line, height float64) [][]line {
	var pages [][]line
	var cur []line
	used := 0.0
	for _, ln := range lines {
		if len(cur) > 0 && (ln.breaks || used+ln.lead > height+heightSlack) {
			pages = append(pages, cur)
			cur, used = nil, 0
		}
		cur = append(cur, ln)
		used += ln.lead + ln.after
	}
	if len(cur) > 0 || len(pages) == 0 {
		pages = append(pages, cur)
	}
	return pages
}

const heightSlack = 1e-9
