package layout

import (
	"github.com/quirelabs/quire/font"
	"github.com/quirelabs/quire/model"
)

// Planner computes layout plans for tables.
//
// A Planner holds the request's font metrics and must not be shared across
// requests.
type Planner struct {
	cfg     Config
	metrics *font.Metrics
}

// NewPlanner validates cfg and returns a planner. A nil metrics uses the
// default Helvetica metrics.
func NewPlanner(cfg Config, metrics *font.Metrics) (*Planner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = font.NewMetrics()
	}
	return &Planner{cfg: cfg.clone(), metrics: metrics}, nil
}

// Config returns a copy of the planner's configuration.
func (p *Planner) Config() Config { return p.cfg.clone() }

// Plan lays out t.
func (p *Planner) Plan(t *model.Table) (*Plan, error) {
	if t == nil || t.RowCount() == 0 || t.ColumnCount() == 0 {
		return nil, &model.MalformedInputError{Reason: "table has no rows or columns"}
	}

	maxSize := p.cfg.FontLadder[0]

	natural := p.naturalWidths(t, maxSize)
	orientation := model.Portrait
	size := maxSize
	fits := true

	switch total := sum(natural); {
	case total <= p.cfg.UsableWidth(model.Portrait):
	case total <= p.cfg.UsableWidth(model.Landscape):
		orientation = model.Landscape
	default:
		orientation = model.Landscape
		size, fits = p.shrink(t, p.cfg.UsableWidth(model.Landscape))
		natural = p.naturalWidths(t, size)
	}

	pageW, pageH := p.cfg.PageSize.Oriented(orientation)
	plan := &Plan{
		Orientation:   orientation,
		PageWidth:     pageW,
		PageHeight:    pageH,
		Margins:       p.cfg.Margins,
		FontSize:      size,
		LineHeight:    p.metrics.LineHeight(size),
		PaddingX:      p.cfg.PaddingX,
		PaddingY:      p.cfg.PaddingY,
		HeaderBold:    p.cfg.HeaderBold,
		HasHeader:     t.HasHeader(),
		Fits:          fits,
		NaturalWidths: natural,
		ColumnWidths:  make([]float64, len(natural)),
	}

	usable := plan.UsableWidth()
	var spans [][2]int
	if fits {
		spans = [][2]int{{0, len(natural)}}
	} else {
		spans = columnSpans(len(natural), usable, p.cfg.MinColumnWidth)
	}

	for _, span := range spans {
		widths := allocate(natural[span[0]:span[1]], usable, p.cfg.MinColumnWidth)
		copy(plan.ColumnWidths[span[0]:], widths)
		plan.ColumnBands = append(plan.ColumnBands, p.rowBands(t, plan, span[0], span[1]))
	}
	return plan, nil
}

// naturalWidths returns each column's unwrapped width at size: its widest
// line, header included, plus horizontal padding.
func (p *Planner) naturalWidths(t *model.Table, size float64) []float64 {
	widths := make([]float64, t.ColumnCount())
	for i := 0; i < t.RowCount(); i++ {
		bold := p.boldRow(t, i)
		for j := range widths {
			if w := p.metrics.Measure(t.Cell(i, j), size, bold); w > widths[j] {
				widths[j] = w
			}
		}
	}
	for j := range widths {
		widths[j] += 2 * p.cfg.PaddingX
	}
	return widths
}

// shrink walks the ladder and returns the first size whose natural widths
// fit usable. Content width scales linearly with size while padding stays
// fixed. If nothing fits it returns the smallest size and false.
func (p *Planner) shrink(t *model.Table, usable float64) (float64, bool) {
	ladder := p.cfg.FontLadder
	maxSize := ladder[0]

	content := p.naturalWidths(t, maxSize)
	pad := 2 * p.cfg.PaddingX
	for j := range content {
		content[j] -= pad
	}

	for _, size := range ladder {
		total := 0.0
		for _, c := range content {
			total += c*size/maxSize + pad
		}
		if total <= usable {
			return size, true
		}
	}
	return ladder[len(ladder)-1], false
}

func (p *Planner) boldRow(t *model.Table, row int) bool {
	return p.cfg.HeaderBold && t.HasHeader() && row == 0
}

func sum(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total
}
