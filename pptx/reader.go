// Package pptx reads PowerPoint presentations and renders their slides.
package pptx

import (
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/quirelabs/quire/internal/opc"
	"github.com/quirelabs/quire/model"
)

// emuPerPoint converts drawing units to points.
const emuPerPoint = 12700

// Default slide size, 10 x 7.5 inches.
const (
	defaultWidth  = 720
	defaultHeight = 540
)

// Read parses a pptx file held in memory. Slides follow the order of the
// presentation's slide list; slides that cannot be parsed are skipped.
func Read(data []byte) (*Presentation, error) {
	p, err := opc.Open(data)
	if err != nil {
		return nil, malformed(err.Error())
	}
	main := p.MainPart("ppt/presentation.xml")

	var pres presentationXML
	if err := p.Decode(main, &pres); err != nil {
		return nil, malformed(err.Error())
	}

	out := &Presentation{Width: defaultWidth, Height: defaultHeight, Metadata: p.Metadata()}
	if pres.Size != nil && pres.Size.Cx > 0 && pres.Size.Cy > 0 {
		out.Width = float64(pres.Size.Cx) / emuPerPoint
		out.Height = float64(pres.Size.Cy) / emuPerPoint
	}

	for _, part := range slideParts(p, main, pres) {
		s, err := readSlide(p, part)
		if err != nil {
			continue
		}
		s.Number = len(out.Slides) + 1
		out.Slides = append(out.Slides, s)
	}
	if len(out.Slides) == 0 {
		return nil, malformed("presentation has no slides")
	}
	return out, nil
}

func malformed(reason string) error {
	return &model.MalformedInputError{Source: "pptx", Reason: reason}
}

// slideParts lists slide part names in presentation order. Without a usable
// slide list the slide parts are taken in numeric order.
func slideParts(p *opc.Package, main string, pres presentationXML) []string {
	targets := make(map[string]string)
	for _, r := range p.Rels(main) {
		if r.Type == relSlide {
			targets[r.ID] = r.Target
		}
	}

	var parts []string
	for _, s := range pres.Slides {
		if t, ok := targets[s.RID]; ok && p.Has(t) {
			parts = append(parts, t)
		}
	}
	if len(parts) > 0 {
		return parts
	}

	for _, name := range p.Names() {
		if path.Dir(name) == "ppt/slides" && strings.HasPrefix(path.Base(name), "slide") && path.Ext(name) == ".xml" {
			parts = append(parts, name)
		}
	}
	sort.SliceStable(parts, func(i, j int) bool { return slideNumber(parts[i]) < slideNumber(parts[j]) })
	return parts
}

// slideNumber extracts N from ".../slideN.xml".
func slideNumber(name string) int {
	s := strings.TrimSuffix(strings.TrimPrefix(path.Base(name), "slide"), ".xml")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func readSlide(p *opc.Package, part string) (*Slide, error) {
	var sx slideXML
	if err := p.Decode(part, &sx); err != nil {
		return nil, err
	}

	s := &Slide{}
	collectShapes(&sx.Tree, identity, &s.Shapes)
	orderShapes(s.Shapes)
	for i := range s.Shapes {
		if s.Shapes[i].IsTitle() {
			s.Title = strings.Join(strings.Fields(s.Shapes[i].Text()), " ")
			break
		}
	}

	for _, r := range p.Rels(part) {
		if r.Type == relNotesSlide {
			s.Notes = readNotes(p, r.Target)
			break
		}
	}
	return s, nil
}

// transform maps child coordinates of a group onto the slide.
type transform struct {
	offX, offY     float64 // in EMU
	scaleX, scaleY float64
	childX, childY float64
}

var identity = transform{scaleX: 1, scaleY: 1}

func (t transform) apply(x *xfrmXML) model.Rect {
	if x == nil {
		return model.Rect{}
	}
	return model.Rect{
		X:      (t.offX + (float64(x.Off.X)-t.childX)*t.scaleX) / emuPerPoint,
		Y:      (t.offY + (float64(x.Off.Y)-t.childY)*t.scaleY) / emuPerPoint,
		Width:  float64(x.Ext.Cx) * t.scaleX / emuPerPoint,
		Height: float64(x.Ext.Cy) * t.scaleY / emuPerPoint,
	}
}

// nest returns the transform for the children of a group.
func (t transform) nest(g *groupXfrmXML) transform {
	if g == nil {
		return t
	}
	sx, sy := 1.0, 1.0
	if g.ChildExt.Cx > 0 {
		sx = float64(g.Ext.Cx) / float64(g.ChildExt.Cx)
	}
	if g.ChildExt.Cy > 0 {
		sy = float64(g.Ext.Cy) / float64(g.ChildExt.Cy)
	}
	return transform{
		offX:   t.offX + (float64(g.Off.X)-t.childX)*t.scaleX,
		offY:   t.offY + (float64(g.Off.Y)-t.childY)*t.scaleY,
		scaleX: t.scaleX * sx,
		scaleY: t.scaleY * sy,
		childX: float64(g.ChildOff.X),
		childY: float64(g.ChildOff.Y),
	}
}

func collectShapes(tree *shapeTreeXML, t transform, out *[]Shape) {
	for i := range tree.Shapes {
		sp := &tree.Shapes[i]
		if sp.Text == nil {
			continue
		}
		sh := Shape{Name: sp.Props.CNvPr.Name, Bounds: t.apply(sp.Xfrm), Paragraphs: paragraphs(sp.Text)}
		if sp.Props.Ph != nil {
			sh.Placeholder = sp.Props.Ph.Type
			if sh.Placeholder == "" {
				sh.Placeholder = "body"
			}
		}
		if len(sh.Paragraphs) > 0 {
			*out = append(*out, sh)
		}
	}
	for i := range tree.Frames {
		gf := &tree.Frames[i]
		if gf.Table == nil {
			continue
		}
		if tbl := table(gf.Table); tbl != nil {
			*out = append(*out, Shape{Name: gf.Props.CNvPr.Name, Bounds: t.apply(gf.Xfrm), Table: tbl})
		}
	}
	for i := range tree.Groups {
		g := &tree.Groups[i]
		collectShapes(g, t.nest(g.Props.Xfrm), out)
	}
}

// orderShapes puts titles first and the rest in reading order. Shapes
// without a position keep their document order after positioned ones.
func orderShapes(shapes []Shape) {
	rank := func(s *Shape) int {
		switch {
		case s.IsTitle():
			return 0
		case s.Bounds == (model.Rect{}):
			return 2
		}
		return 1
	}
	sort.SliceStable(shapes, func(i, j int) bool {
		a, b := &shapes[i], &shapes[j]
		if ra, rb := rank(a), rank(b); ra != rb {
			return ra < rb
		}
		if rank(a) != 1 {
			return false
		}
		if a.Bounds.Y != b.Bounds.Y {
			return a.Bounds.Y < b.Bounds.Y
		}
		return a.Bounds.X < b.Bounds.X
	})
}

// paragraphs drops empty paragraphs; autonumber start values carry over.
func paragraphs(body *txBodyXML) []Paragraph {
	var out []Paragraph
	for i := range body.Paragraphs {
		px := &body.Paragraphs[i]
		text := strings.TrimSpace(px.text())
		if text == "" {
			continue
		}

		para := Paragraph{Text: text, Start: 1, Bold: true}
		for _, r := range px.Runs {
			if strings.TrimSpace(r.Text) == "" {
				continue
			}
			para.Bold = para.Bold && r.Props.bold()
			if para.Size == 0 && r.Props != nil && r.Props.Size > 0 {
				para.Size = float64(r.Props.Size) / 100
			}
		}
		if pp := px.Props; pp != nil {
			para.Level = min(max(pp.Level, 0), 8)
			switch {
			case pp.BuNone != nil:
			case pp.AutoNum != nil:
				para.Numbered = true
				if pp.AutoNum.StartAt > 0 {
					para.Start = pp.AutoNum.StartAt
				}
			case pp.BuChar != nil || para.Level > 0:
				para.Bullet = true
			}
		}
		out = append(out, para)
	}
	return out
}

// table flattens a slide table. Cells covered by a merge are empty.
func table(tx *tableXML) *model.Table {
	var rows [][]string
	nonEmpty := false
	for _, tr := range tx.Rows {
		row := make([]string, 0, len(tr.Cells))
		for i := range tr.Cells {
			c := &tr.Cells[i]
			text := ""
			if !c.merged() && c.Text != nil {
				var lines []string
				for _, p := range paragraphs(c.Text) {
					lines = append(lines, p.Text)
				}
				text = strings.Join(lines, "\n")
			}
			nonEmpty = nonEmpty || text != ""
			row = append(row, text)
		}
		rows = append(rows, row)
	}
	if !nonEmpty {
		return nil
	}
	width := len(tx.Grid)
	for _, r := range rows {
		width = max(width, len(r))
	}
	for i := range rows {
		for len(rows[i]) < width {
			rows[i] = append(rows[i], "")
		}
	}
	t, err := model.NewTable(rows, true)
	if err != nil {
		return nil
	}
	return t
}

// readNotes returns the speaker notes text, skipping the slide image and
// slide number placeholders.
func readNotes(p *opc.Package, part string) string {
	var nx slideXML
	if err := p.Decode(part, &nx); err != nil {
		return ""
	}
	var shapes []Shape
	collectShapes(&nx.Tree, identity, &shapes)

	var lines []string
	for i := range shapes {
		switch shapes[i].Placeholder {
		case "sldImg", "sldNum", "hdr", "ftr", "dt":
			continue
		}
		if text := shapes[i].Text(); text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n")
}
