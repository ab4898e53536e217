package layout

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/quirelabs/quire/font"
	"github.com/quirelabs/quire/model"
)

func mustTable(t *testing.T, rows [][]string, hasHeader bool) *model.Table {
	t.Helper()
	tbl, err := model.NewTable(rows, hasHeader)
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	return tbl
}

func mustPlan(t *testing.T, cfg Config, tbl *model.Table) *Plan {
	t.Helper()
	p, err := NewPlanner(cfg, font.NewMetrics())
	if err != nil {
		t.Fatalf("NewPlanner() error = %v", err)
	}
	plan, err := p.Plan(tbl)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	return plan
}

// uniformTable builds a table of rows x cols copies of cell, plus a header.
func uniformTable(t *testing.T, rows, cols int, header, cell string) *model.Table {
	t.Helper()
	data := make([][]string, 0, rows+1)
	h := make([]string, cols)
	for j := range h {
		h[j] = fmt.Sprintf("%s %02d", header, j)
	}
	data = append(data, h)
	for i := 0; i < rows; i++ {
		r := make([]string, cols)
		for j := range r {
			r[j] = cell
		}
		data = append(data, r)
	}
	return mustTable(t, data, true)
}

// checkPartition verifies that column bands partition the columns and that
// every column band's row bands partition the data rows.
func checkPartition(t *testing.T, tbl *model.Table, plan *Plan) {
	t.Helper()

	next := 0
	for _, cb := range plan.ColumnBands {
		if cb.Start != next || cb.End <= cb.Start {
			t.Fatalf("column band [%d,%d) does not continue at %d", cb.Start, cb.End, next)
		}
		next = cb.End

		width := 0.0
		for j := cb.Start; j < cb.End; j++ {
			width += plan.ColumnWidths[j]
		}
		if width > plan.UsableWidth()+1e-6 {
			t.Errorf("column band [%d,%d) width %v exceeds usable %v", cb.Start, cb.End, width, plan.UsableWidth())
		}

		row := tbl.FirstDataRow()
		for _, rb := range cb.RowBands {
			if rb.Start != row {
				t.Fatalf("row band starts at %d, want %d", rb.Start, row)
			}
			row = rb.End
		}
		if row != tbl.RowCount() {
			t.Errorf("row bands end at %d, want %d", row, tbl.RowCount())
		}
	}
	if next != tbl.ColumnCount() {
		t.Errorf("column bands end at %d, want %d", next, tbl.ColumnCount())
	}
}

func TestPlanSmallTableFitsPortrait(t *testing.T) {
	tbl := mustTable(t, [][]string{
		{"id", "name", "city"},
		{"1", "Ada", "London"},
		{"2", "Grace", "Arlington"},
		{"3", "Linus", "Helsinki"},
		{"4", "Ken", "Berkeley"},
	}, true)

	cfg := DefaultConfig()
	plan := mustPlan(t, cfg, tbl)

	if plan.Orientation != model.Portrait {
		t.Errorf("Orientation = %v, want portrait", plan.Orientation)
	}
	if plan.FontSize != cfg.FontLadder[0] {
		t.Errorf("FontSize = %v, want %v", plan.FontSize, cfg.FontLadder[0])
	}
	if !plan.Fits {
		t.Error("Fits = false, want true")
	}
	if len(plan.ColumnBands) != 1 || plan.PageCount() != 1 {
		t.Errorf("bands = %d, pages = %d, want 1 and 1", len(plan.ColumnBands), plan.PageCount())
	}
	if !reflect.DeepEqual(plan.ColumnWidths, plan.NaturalWidths) {
		t.Errorf("ColumnWidths = %v, want natural widths %v", plan.ColumnWidths, plan.NaturalWidths)
	}
	if !(plan.ColumnWidths[0] < plan.ColumnWidths[1] && plan.ColumnWidths[1] < plan.ColumnWidths[2]) {
		t.Errorf("ColumnWidths = %v, want ordered by content width", plan.ColumnWidths)
	}
	checkPartition(t, tbl, plan)
}

func TestPlanLandscapeAtMaximumSize(t *testing.T) {
	// seven columns of ~84pt overflow portrait (523pt) but fit landscape (770pt)
	tbl := uniformTable(t, 3, 7, "c", "abcdefghijklmnop")
	plan := mustPlan(t, DefaultConfig(), tbl)

	if plan.Orientation != model.Landscape {
		t.Errorf("Orientation = %v, want landscape", plan.Orientation)
	}
	if plan.FontSize != 10 || !plan.Fits {
		t.Errorf("FontSize = %v, Fits = %v, want 10 and true", plan.FontSize, plan.Fits)
	}
	checkPartition(t, tbl, plan)
}

func TestPlanShrinksFont(t *testing.T) {
	// twelve columns need 1006pt at 10pt and 726pt at 7pt
	tbl := uniformTable(t, 3, 12, "c", "abcdefghijklmnop")
	cfg := DefaultConfig()
	plan := mustPlan(t, cfg, tbl)

	if plan.Orientation != model.Landscape {
		t.Errorf("Orientation = %v, want landscape", plan.Orientation)
	}
	if plan.FontSize != 7 {
		t.Errorf("FontSize = %v, want 7", plan.FontSize)
	}
	if !plan.Fits || len(plan.ColumnBands) != 1 {
		t.Errorf("Fits = %v, bands = %d, want true and 1", plan.Fits, len(plan.ColumnBands))
	}

	// the next larger ladder size must not have fitted
	m := font.NewMetrics()
	total := 0.0
	for j := 0; j < tbl.ColumnCount(); j++ {
		w := 0.0
		for i := 0; i < tbl.RowCount(); i++ {
			w = math.Max(w, m.Measure(tbl.Cell(i, j), 8, i == 0))
		}
		total += w + 2*cfg.PaddingX
	}
	if total <= plan.UsableWidth() {
		t.Errorf("size 8 would fit (%v <= %v) but planner chose %v", total, plan.UsableWidth(), plan.FontSize)
	}
	checkPartition(t, tbl, plan)
}

func TestPlanWideTableBandsColumns(t *testing.T) {
	tbl := uniformTable(t, 30, 40, "Column Header Number", "value value value value")
	cfg := DefaultConfig()
	plan := mustPlan(t, cfg, tbl)

	if plan.Orientation != model.Landscape {
		t.Errorf("Orientation = %v, want landscape", plan.Orientation)
	}
	if plan.Fits {
		t.Error("Fits = true, want false")
	}
	if plan.FontSize != cfg.FontLadder[len(cfg.FontLadder)-1] {
		t.Errorf("FontSize = %v, want ladder minimum", plan.FontSize)
	}
	if len(plan.ColumnBands) < 2 {
		t.Fatalf("ColumnBands = %d, want >= 2", len(plan.ColumnBands))
	}
	for j, w := range plan.ColumnWidths {
		if w < cfg.MinColumnWidth {
			t.Errorf("column %d width %v below floor %v", j, w, cfg.MinColumnWidth)
		}
	}
	for _, cb := range plan.ColumnBands {
		if len(cb.RowBands) == 0 {
			t.Errorf("column band [%d,%d) has no row bands", cb.Start, cb.End)
		}
	}
	checkPartition(t, tbl, plan)
}

func TestPlanTallTableRowBands(t *testing.T) {
	const rows = 10000
	tbl := uniformTable(t, rows, 3, "h", "r1234")
	plan := mustPlan(t, DefaultConfig(), tbl)

	if plan.Orientation != model.Portrait || len(plan.ColumnBands) != 1 {
		t.Fatalf("Orientation = %v, bands = %d, want portrait and 1", plan.Orientation, len(plan.ColumnBands))
	}

	cb := plan.ColumnBands[0]
	rowH := cb.RowHeights[1]
	perPage := int((plan.UsableHeight() - cb.HeaderHeight) / rowH)
	want := (rows + perPage - 1) / perPage
	if len(cb.RowBands) != want {
		t.Errorf("row bands = %d, want %d", len(cb.RowBands), want)
	}
	for i, rb := range cb.RowBands[:len(cb.RowBands)-1] {
		if rb.Len() != perPage {
			t.Errorf("row band %d holds %d rows, want %d", i, rb.Len(), perPage)
			break
		}
	}
	checkPartition(t, tbl, plan)
}

func TestPlanOversizedRowGetsOwnPage(t *testing.T) {
	tall := strings.TrimSuffix(strings.Repeat("x\n", 200), "\n")
	tbl := mustTable(t, [][]string{{"h"}, {"a"}, {tall}, {"b"}}, true)
	plan := mustPlan(t, DefaultConfig(), tbl)

	want := []RowBand{{1, 2}, {2, 3}, {3, 4}}
	if got := plan.ColumnBands[0].RowBands; !reflect.DeepEqual(got, want) {
		t.Errorf("RowBands = %v, want %v", got, want)
	}
}

func TestPlanHeaderOnly(t *testing.T) {
	tbl := mustTable(t, [][]string{{"a", "b"}}, true)
	plan := mustPlan(t, DefaultConfig(), tbl)

	if plan.PageCount() != 1 {
		t.Errorf("PageCount() = %d, want 1", plan.PageCount())
	}
	if rb := plan.ColumnBands[0].RowBands[0]; rb.Len() != 0 {
		t.Errorf("row band = %v, want empty", rb)
	}
}

func TestPlanWithoutHeader(t *testing.T) {
	tbl := mustTable(t, [][]string{{"a"}, {"b"}}, false)
	plan := mustPlan(t, DefaultConfig(), tbl)

	cb := plan.ColumnBands[0]
	if cb.HeaderHeight != 0 {
		t.Errorf("HeaderHeight = %v, want 0", cb.HeaderHeight)
	}
	if want := []RowBand{{0, 2}}; !reflect.DeepEqual(cb.RowBands, want) {
		t.Errorf("RowBands = %v, want %v", cb.RowBands, want)
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	tbl := uniformTable(t, 500, 40, "Column Header Number", "value value value value")
	a := mustPlan(t, DefaultConfig(), tbl)
	b := mustPlan(t, DefaultConfig(), tbl)
	if !reflect.DeepEqual(a, b) {
		t.Error("two plans of the same table differ")
	}
}

func TestPlanErrors(t *testing.T) {
	p, err := NewPlanner(DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	var me *model.MalformedInputError
	if _, err := p.Plan(nil); !errors.As(err, &me) {
		t.Errorf("Plan(nil) error = %v, want *model.MalformedInputError", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"margins swallow page", func(c *Config) { c.Margins = model.UniformMargins(400) }},
		{"zero height", func(c *Config) { c.Margins.Top, c.Margins.Bottom = 300, 300 }},
		{"empty ladder", func(c *Config) { c.FontLadder = nil }},
		{"ascending ladder", func(c *Config) { c.FontLadder = []float64{6, 8} }},
		{"repeated size", func(c *Config) { c.FontLadder = []float64{8, 8} }},
		{"zero size", func(c *Config) { c.FontLadder = []float64{8, 0} }},
		{"zero floor", func(c *Config) { c.MinColumnWidth = 0 }},
		{"floor wider than page", func(c *Config) { c.MinColumnWidth = 2000 }},
		{"negative padding", func(c *Config) { c.PaddingX = -1 }},
		{"negative vertical padding", func(c *Config) { c.PaddingY = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			_, err := NewPlanner(cfg, nil)
			var ge *model.GeometryError
			if !errors.As(err, &ge) {
				t.Errorf("NewPlanner() error = %v, want *model.GeometryError", err)
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestPlannerCopiesLadder(t *testing.T) {
	cfg := DefaultConfig()
	p, _ := NewPlanner(cfg, nil)
	cfg.FontLadder[0] = 99
	if p.Config().FontLadder[0] != 10 {
		t.Error("planner shares the caller's ladder")
	}
}
