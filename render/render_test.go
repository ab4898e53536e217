package render

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/quirelabs/quire/font"
	"github.com/quirelabs/quire/layout"
	"github.com/quirelabs/quire/model"
)

type textOp struct {
	x, y float64
	text string
	size float64
	bold bool
}

type recordedPage struct {
	orientation model.Orientation
	width       float64
	height      float64
	texts       []textOp
	grids       int
	gridRows    []float64
	fills       int
}

// recordingCanvas records drawing calls instead of producing a PDF.
type recordingCanvas struct {
	pages    []*recordedPage
	clipped  int
	finished bool
	failPage bool
}

func (c *recordingCanvas) NewPage(o model.Orientation, w, h float64) error {
	if c.failPage {
		return errors.New("out of paper")
	}
	c.pages = append(c.pages, &recordedPage{orientation: o, width: w, height: h})
	return nil
}

func (c *recordingCanvas) cur() *recordedPage { return c.pages[len(c.pages)-1] }

func (c *recordingCanvas) DrawText(x, y float64, text string, size float64, bold bool) {
	c.cur().texts = append(c.cur().texts, textOp{x, y, text, size, bold})
}

func (c *recordingCanvas) DrawGridLines(x, y float64, colWidths, rowHeights []float64) {
	c.cur().grids++
	c.cur().gridRows = append([]float64(nil), rowHeights...)
}

func (c *recordingCanvas) FillRect(x, y, w, h float64, gray uint8) { c.cur().fills++ }
func (c *recordingCanvas) ClipRect(x, y, w, h float64)             { c.clipped++ }
func (c *recordingCanvas) Unclip()                                 { c.clipped-- }

func (c *recordingCanvas) Finish() ([]byte, error) {
	c.finished = true
	return []byte("%PDF"), nil
}

func (p *recordedPage) hasText(s string) bool {
	for _, op := range p.texts {
		if op.text == s {
			return true
		}
	}
	return false
}

func planFor(t *testing.T, tbl *model.Table) (*layout.Plan, *font.Metrics) {
	t.Helper()
	m := font.NewMetrics()
	p, err := layout.NewPlanner(layout.DefaultConfig(), m)
	if err != nil {
		t.Fatal(err)
	}
	plan, err := p.Plan(tbl)
	if err != nil {
		t.Fatal(err)
	}
	return plan, m
}

func TestTableRepeatsHeaderOnEveryPage(t *testing.T) {
	rows := [][]string{{"id", "name", "amount"}}
	for i := 0; i < 200; i++ {
		rows = append(rows, []string{fmt.Sprint(i), "row", "1.00"})
	}
	tbl, _ := model.NewTable(rows, true)
	plan, m := planFor(t, tbl)

	c := &recordingCanvas{}
	opts := TableOptions{Title: "Sheet1", PageLabels: true, HeaderFill: true}
	if err := Table(context.Background(), c, tbl, plan, m, opts); err != nil {
		t.Fatalf("Table() error = %v", err)
	}

	if len(c.pages) != plan.PageCount() {
		t.Fatalf("pages = %d, want %d", len(c.pages), plan.PageCount())
	}
	if len(c.pages) < 2 {
		t.Fatalf("expected several pages, got %d", len(c.pages))
	}
	for i, pg := range c.pages {
		if !pg.hasText("amount") {
			t.Errorf("page %d lacks the header", i+1)
		}
		if pg.grids != 1 || pg.fills != 1 {
			t.Errorf("page %d grids = %d fills = %d, want 1 and 1", i+1, pg.grids, pg.fills)
		}
		label := fmt.Sprintf("Sheet1 - Page %d of %d", i+1, len(c.pages))
		if !pg.hasText(label) {
			t.Errorf("page %d lacks label %q", i+1, label)
		}
		if pg.orientation != plan.Orientation {
			t.Errorf("page %d orientation = %v", i+1, pg.orientation)
		}
	}
	if c.clipped != 0 {
		t.Errorf("unbalanced clipping: %d", c.clipped)
	}

	// every data row is drawn exactly once
	seen := map[string]int{}
	for _, pg := range c.pages {
		for _, op := range pg.texts {
			seen[op.text]++
		}
	}
	for i := 0; i < 200; i++ {
		if n := seen[fmt.Sprint(i)]; n != 1 {
			t.Errorf("row %d drawn %d times", i, n)
		}
	}
}

func TestTableColumnBandOrder(t *testing.T) {
	header := make([]string, 40)
	row := make([]string, 40)
	for j := range header {
		header[j] = fmt.Sprintf("Column Header Number %02d", j)
		row[j] = "value value value value"
	}
	tbl, _ := model.NewTable([][]string{header, row, row}, true)
	plan, m := planFor(t, tbl)
	if len(plan.ColumnBands) < 2 {
		t.Fatalf("want a banded plan, got %d bands", len(plan.ColumnBands))
	}

	c := &recordingCanvas{}
	if err := Table(context.Background(), c, tbl, plan, m, TableOptions{}); err != nil {
		t.Fatal(err)
	}

	// column-band-major: the first page shows column 00, the last page the
	// final column
	first, last := c.pages[0], c.pages[len(c.pages)-1]
	if !strings.HasPrefix(strings.Join(textsOf(first), "\n"), "Column") {
		t.Errorf("first page starts with %q", textsOf(first))
	}
	if containsSuffix(textsOf(first), "39") || !containsSuffix(textsOf(last), "39") {
		t.Error("last column should only appear on the last band's pages")
	}
}

func textsOf(p *recordedPage) []string {
	var out []string
	for _, op := range p.texts {
		out = append(out, op.text)
	}
	return out
}

func containsSuffix(texts []string, suffix string) bool {
	for _, s := range texts {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

func TestTableWrapsWithinCell(t *testing.T) {
	long := strings.Repeat("word ", 60)
	tbl, _ := model.NewTable([][]string{{"a", "b"}, {long, "x"}}, true)
	plan, m := planFor(t, tbl)

	c := &recordingCanvas{}
	if err := Table(context.Background(), c, tbl, plan, m, TableOptions{}); err != nil {
		t.Fatal(err)
	}
	for _, op := range c.pages[0].texts {
		if op.x < plan.Margins.Left {
			t.Errorf("text %q starts left of the margin", op.text)
		}
		if m.Measure(op.text, op.size, op.bold) > plan.TextWidth(0)+plan.TextWidth(1) {
			t.Errorf("text %q wider than the table", op.text)
		}
	}
	if got := c.pages[0].gridRows; len(got) != 2 || got[1] <= got[0] {
		t.Errorf("grid rows = %v, want a taller wrapped row", got)
	}
}

func TestTableErrors(t *testing.T) {
	tbl, _ := model.NewTable([][]string{{"a"}, {"b"}}, true)
	plan, m := planFor(t, tbl)

	c := &recordingCanvas{failPage: true}
	err := Table(context.Background(), c, tbl, plan, m, TableOptions{})
	var ce *model.CollaboratorError
	if !errors.As(err, &ce) {
		t.Errorf("error = %v, want *model.CollaboratorError", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Table(ctx, &recordingCanvas{}, tbl, plan, m, TableOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}

	other, _ := model.NewTable([][]string{{"a", "b"}}, true)
	if err := Table(context.Background(), &recordingCanvas{}, other, plan, m, TableOptions{}); err == nil {
		t.Error("expected column mismatch error")
	}
}

func TestDocumentFlow(t *testing.T) {
	tbl, _ := model.NewTable([][]string{{"k", "v"}, {"a", "1"}}, true)
	doc := model.NewDocument()
	doc.Add(
		&model.Heading{Text: "Report", Level: 1},
		&model.Paragraph{Text: "Intro paragraph."},
		&model.ListItem{Text: "point", Ordered: true, Number: 1},
		model.PageBreak{},
		&model.TableBlock{Table: tbl},
	)

	c := &recordingCanvas{}
	opts := DefaultFlowOptions()
	opts.PageLabels = true
	if err := Document(context.Background(), c, doc, font.NewMetrics(), opts); err != nil {
		t.Fatalf("Document() error = %v", err)
	}

	if len(c.pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(c.pages))
	}
	p1 := c.pages[0]
	if len(p1.texts) == 0 || p1.texts[0].text != "Report" || !p1.texts[0].bold || p1.texts[0].size <= opts.FontSize {
		t.Errorf("first line = %+v, want a large bold heading", p1.texts[0])
	}
	if !p1.hasText("1. point") || !p1.hasText("Page 1 of 2") {
		t.Errorf("page 1 texts = %v", textsOf(p1))
	}
	if !c.pages[1].hasText("k | v") || !c.pages[1].hasText("a | 1") {
		t.Errorf("page 2 texts = %v", textsOf(c.pages[1]))
	}
}

func TestDocumentPaginates(t *testing.T) {
	doc := model.NewDocument()
	for i := 0; i < 300; i++ {
		doc.Add(&model.Paragraph{Text: fmt.Sprintf("paragraph %d", i)})
	}
	c := &recordingCanvas{}
	if err := Document(context.Background(), c, doc, font.NewMetrics(), DefaultFlowOptions()); err != nil {
		t.Fatal(err)
	}
	if len(c.pages) < 2 {
		t.Fatalf("pages = %d, want several", len(c.pages))
	}
	bottom := c.pages[0].height - DefaultFlowOptions().Margins.Bottom
	for _, op := range c.pages[0].texts {
		if op.y > bottom {
			t.Errorf("line %q at y=%v below the text area", op.text, op.y)
		}
	}
}

func TestDocumentEmpty(t *testing.T) {
	c := &recordingCanvas{}
	if err := Document(context.Background(), c, nil, font.NewMetrics(), DefaultFlowOptions()); err != nil {
		t.Fatal(err)
	}
	if len(c.pages) != 1 || len(c.pages[0].texts) != 0 {
		t.Errorf("empty document produced %d pages", len(c.pages))
	}

	bad := DefaultFlowOptions()
	bad.FontSize = 0
	var ge *model.GeometryError
	if err := Document(context.Background(), c, nil, font.NewMetrics(), bad); !errors.As(err, &ge) {
		t.Errorf("error = %v, want *model.GeometryError", err)
	}
}

func TestHeadingSize(t *testing.T) {
	if got := headingSize(10, 1); got != 16 {
		t.Errorf("headingSize(10, 1) = %v, want 16", got)
	}
	if got := headingSize(10, 6); got != 11 {
		t.Errorf("headingSize(10, 6) = %v, want 11", got)
	}
	if got := headingSize(10, 9); got != 10 {
		t.Errorf("headingSize(10, 9) = %v, want 10", got)
	}
}
