package docx

import (
	"strconv"
	"strings"
)

// maxStyleDepth bounds basedOn chains, which may be cyclic in damaged files.
const maxStyleDepth = 16

// styleSheet resolves paragraph styles through their basedOn chains.
type styleSheet struct {
	byID map[string]*styleXML
}

func newStyleSheet(st *stylesXML) *styleSheet {
	s := &styleSheet{byID: make(map[string]*styleXML)}
	if st == nil {
		return s
	}
	for i := range st.Styles {
		s.byID[st.Styles[i].ID] = &st.Styles[i]
	}
	return s
}

// chain returns the style and its ancestors, nearest first.
func (s *styleSheet) chain(id string) []*styleXML {
	var out []*styleXML
	for i := 0; id != "" && i < maxStyleDepth; i++ {
		st, ok := s.byID[id]
		if !ok {
			break
		}
		out = append(out, st)
		if st.BasedOn == nil {
			break
		}
		id = st.BasedOn.Val
	}
	return out
}

// headingLevel returns the heading level (1-9) a paragraph style implies, or
// 0 for body styles.
func (s *styleSheet) headingLevel(id string) int {
	if lvl := builtinHeading(id); lvl > 0 {
		return lvl
	}
	for _, st := range s.chain(id) {
		if lvl := builtinHeading(st.ID); lvl > 0 {
			return lvl
		}
		if lvl := builtinHeading(st.Name.Val); lvl > 0 {
			return lvl
		}
		if lvl := outlineLevel(st.PPr.OutlineLvl); lvl > 0 {
			return lvl
		}
	}
	return 0
}

// numPr returns list numbering inherited from a paragraph style.
func (s *styleSheet) numPr(id string) *numPrXML {
	for _, st := range s.chain(id) {
		if st.PPr.NumPr != nil {
			return st.PPr.NumPr
		}
	}
	return nil
}

// builtinHeading recognizes "Heading1", "heading 2" and "Title".
func builtinHeading(name string) int {
	n := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	if n == "title" {
		return 1
	}
	rest, ok := strings.CutPrefix(n, "heading")
	if !ok {
		return 0
	}
	lvl, err := strconv.Atoi(rest)
	if err != nil || lvl < 1 || lvl > 9 {
		return 0
	}
	return lvl
}

// outlineLevel converts a zero-based outline level to a heading level.
// Level 9 marks body text.
func outlineLevel(v *valXML) int {
	if v == nil {
		return 0
	}
	n, err := strconv.Atoi(v.Val)
	if err != nil || n < 0 || n > 8 {
		return 0
	}
	return n + 1
}

type levelFormat struct {
	ordered bool
	start   int
}

// numbering tracks list definitions and the running counters of each list.
type numbering struct {
	levels   map[string]map[int]levelFormat // numId -> ilvl -> format
	counters map[string][]int
}

const maxListLevel = 8

func newNumbering(n *numberingXML) *numbering {
	nb := &numbering{levels: make(map[string]map[int]levelFormat), counters: make(map[string][]int)}
	if n == nil {
		return nb
	}

	abstract := make(map[string]map[int]levelFormat, len(n.AbstractNums))
	for _, an := range n.AbstractNums {
		levels := make(map[int]levelFormat, len(an.Levels))
		for _, l := range an.Levels {
			f := levelFormat{start: 1}
			switch l.NumFmt.Val {
			case "", "bullet", "none":
			default:
				f.ordered = true
			}
			if l.Start != nil {
				if v, err := strconv.Atoi(l.Start.Val); err == nil {
					f.start = v
				}
			}
			levels[l.ILvl] = f
		}
		abstract[an.ID] = levels
	}

	for _, num := range n.Nums {
		levels := make(map[int]levelFormat)
		for k, v := range abstract[num.AbstractID.Val] {
			levels[k] = v
		}
		for _, o := range num.Overrides {
			if o.Start == nil {
				continue
			}
			if v, err := strconv.Atoi(o.Start.Val); err == nil {
				f := levels[o.ILvl]
				f.start = v
				levels[o.ILvl] = f
			}
		}
		nb.levels[num.ID] = levels
	}
	return nb
}

// next advances the counter of numID at level and returns whether the item
// is numbered and its number. Deeper levels restart.
func (n *numbering) next(numID string, level int) (ordered bool, number int) {
	level = min(max(level, 0), maxListLevel)
	f, ok := n.levels[numID][level]
	if !ok {
		f = levelFormat{start: 1}
	}
	c := n.counters[numID]
	if c == nil {
		c = make([]int, maxListLevel+1)
		n.counters[numID] = c
	}
	c[level]++
	for i := level + 1; i < len(c); i++ {
		c[i] = 0
	}
	return f.ordered, f.start + c[level] - 1
}
