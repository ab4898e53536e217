package layout

import "github.com/quirelabs/quire/model"

// heightSlack tolerates rounding when rows exactly fill a page.
const heightSlack = 1e-9

// rowBands measures every row of t within columns [start, end) and
// paginates the data rows.
func (p *Planner) rowBands(t *model.Table, plan *Plan, start, end int) ColumnBand {
	band := ColumnBand{
		Start:      start,
		End:        end,
		RowHeights: make([]float64, t.RowCount()),
	}

	for i := 0; i < t.RowCount(); i++ {
		band.RowHeights[i] = p.rowHeight(t, plan, i, start, end)
	}
	reserve := 0.0
	if t.HasHeader() {
		band.HeaderHeight = band.RowHeights[0]
		reserve = band.HeaderHeight
	}

	band.RowBands = paginate(band.RowHeights, t.FirstDataRow(), reserve, plan.UsableHeight())
	return band
}

// rowHeight returns the height of row i across columns [start, end): the
// most wrapped lines of any cell times the line height, plus padding.
func (p *Planner) rowHeight(t *model.Table, plan *Plan, i, start, end int) float64 {
	bold := p.boldRow(t, i)
	lines := 1
	for j := start; j < end; j++ {
		if n := p.metrics.LineCount(t.Cell(i, j), plan.TextWidth(j), plan.FontSize, bold); n > lines {
			lines = n
		}
	}
	return float64(lines)*plan.LineHeight + 2*plan.PaddingY
}

// paginate groups rows [first, len(heights)) into pages of at most usable
// height, each page starting with reserve already used. A row that cannot
// fit even on an empty page gets a page of its own. With no rows to place a
// single empty band is returned so the header still renders.
func paginate(heights []float64, first int, reserve, usable float64) []RowBand {
	var bands []RowBand
	start := first
	used := reserve
	for i := first; i < len(heights); i++ {
		h := heights[i]
		if i > start && used+h > usable+heightSlack {
			bands = append(bands, RowBand{Start: start, End: i})
			start = i
			used = reserve
		}
		used += h
		if used > usable+heightSlack {
			// oversized row, alone on its page
			bands = append(bands, RowBand{Start: start, End: i + 1})
			start = i + 1
			used = reserve
		}
	}
	if start < len(heights) || len(bands) == 0 {
		bands = append(bands, RowBand{Start: start, End: len(heights)})
	}
	return bands
}
