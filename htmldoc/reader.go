// Package htmldoc converts HTML pages into the block model.
package htmldoc

import (
	"bytes"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"

	"github.com/quirelabs/quire/model"
)

// Options controls conversion.
type Options struct {
	// Exclusion selects which navigation and page furniture to drop.
	// Default: ExcludeNone
	Exclusion Exclusion

	// LinkURLs appends " (href)" after link text for absolute links.
	LinkURLs bool

	// ContentType is an optional Content-Type header value used as a hint
	// for the character encoding.
	ContentType string
}

// Read parses an HTML page. The character encoding is taken from a byte
// order mark, the content type or a <meta charset>, in that order. Input
// without any of them is UTF-8 if it decodes as such, else windows-1252.
//
// Headings, paragraphs, lists and tables become blocks in document order.
// Images are replaced by "[image: alt]" placeholders; scripts, styles and
// forms are dropped.
func Read(data []byte, opts Options) (*model.Document, error) {
	enc, _, _ := charset.DetermineEncoding(data, opts.ContentType)
	root, err := html.Parse(enc.NewDecoder().Reader(bytes.NewReader(data)))
	if err != nil {
		return nil, &model.MalformedInputError{Source: "html", Reason: err.Error()}
	}

	body := find(root, atom.Body)
	if body == nil {
		body = root
	}

	c := &converter{doc: model.NewDocument(), opts: opts, skip: newExclusions(opts.Exclusion, body)}
	c.doc.Metadata = metadata(root)
	c.blocks(body, 0)
	c.flush()
	return c.doc, nil
}

type converter struct {
	doc    *model.Document
	opts   Options
	skip   *exclusions
	inline inlineText
}

// ignored elements never contribute text.
func ignored(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Head, atom.Title,
		atom.Svg, atom.Math, atom.Iframe, atom.Object, atom.Embed, atom.Select, atom.Button, atom.Input, atom.Textarea:
		return true
	}
	return false
}

// isBlock reports whether an element starts a new block.
func isBlock(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Address, atom.Article, atom.Aside, atom.Blockquote, atom.Body, atom.Dd, atom.Details,
		atom.Dialog, atom.Div, atom.Dl, atom.Dt, atom.Fieldset, atom.Figcaption, atom.Figure,
		atom.Footer, atom.Form, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Header,
		atom.Hr, atom.Li, atom.Main, atom.Nav, atom.Ol, atom.P, atom.Pre, atom.Section, atom.Summary,
		atom.Table, atom.Ul, atom.Caption:
		return true
	}
	return false
}

// blocks walks the children of a block container. Inline content collects
// into a pending paragraph that is flushed at each block boundary. depth is
// the current list nesting.
func (c *converter) blocks(n *html.Node, depth int) {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.node(ch, depth)
	}
}

func (c *converter) node(n *html.Node, depth int) {
	switch n.Type {
	case html.TextNode:
		c.inline.text(n.Data)
		return
	case html.ElementNode:
	default:
		c.blocks(n, depth)
		return
	}
	if ignored(n) || c.skip.skip(n) {
		return
	}
	if !isBlock(n) {
		c.inlineElement(n)
		return
	}

	c.flush()
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		if text := c.textOf(n); text != "" {
			c.doc.Add(&model.Heading{Text: text, Level: int(n.Data[1] - '0')})
		}
	case atom.Ul, atom.Ol:
		c.list(n, depth)
	case atom.Table:
		c.table(n)
	case atom.Pre:
		if text := strings.Trim(preText(n), "\n"); strings.TrimSpace(text) != "" {
			c.doc.Add(&model.Paragraph{Text: text})
		}
	case atom.Hr:
	default:
		c.blocks(n, depth)
		c.flush()
	}
}

// inlineElement adds an inline element's content to the pending paragraph.
func (c *converter) inlineElement(n *html.Node) {
	switch n.DataAtom {
	case atom.Br:
		c.inline.lineBreak()
		return
	case atom.Img:
		if label := imageLabel(n); label != "" {
			c.inline.text(label)
		}
		return
	}

	bold := n.DataAtom == atom.B || n.DataAtom == atom.Strong
	if bold {
		c.inline.boldDepth++
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		switch {
		case ch.Type == html.TextNode:
			c.inline.text(ch.Data)
		case ch.Type == html.ElementNode && isBlock(ch):
			// block inside inline, as in <a><div>..</div></a>
			c.node(ch, 0)
		case ch.Type == html.ElementNode && !ignored(ch) && !c.skip.skip(ch):
			c.inlineElement(ch)
		}
	}
	if bold {
		c.inline.boldDepth--
	}
	if n.DataAtom == atom.A && c.opts.LinkURLs {
		href := attr(n, "href")
		if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
			c.inline.text(" ("+href+")")
		}
	}
}

// flush emits the pending paragraph, if any.
func (c *converter) flush() {
	text, bold := c.inline.take()
	if text != "" {
		c.doc.Add(&model.Paragraph{Text: text, Bold: bold})
	}
}

// textOf renders an element's content as a single inline run.
func (c *converter) textOf(n *html.Node) string {
	saved := c.inline
	c.inline = inlineText{}
	c.inlineChildren(n)
	text, _ := c.inline.take()
	c.inline = saved
	return text
}

// inlineChildren treats every descendant as inline content.
func (c *converter) inlineChildren(n *html.Node) {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		switch {
		case ch.Type == html.TextNode:
			c.inline.text(ch.Data)
		case ch.Type != html.ElementNode || ignored(ch) || c.skip.skip(ch):
		case ch.DataAtom == atom.Br, ch.DataAtom == atom.Img:
			c.inlineElement(ch)
		default:
			if isBlock(ch) {
				c.inline.text(" ")
			}
			c.inlineChildren(ch)
			if ch.DataAtom == atom.A && c.opts.LinkURLs {
				if href := attr(ch, "href"); strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
					c.inline.text(" ("+href+")")
				}
			}
		}
	}
}

// list emits the items of a ul or ol. Nested lists become deeper levels;
// ol honors start, reversed and li value attributes.
func (c *converter) list(n *html.Node, depth int) {
	ordered := n.DataAtom == atom.Ol
	number, step := 1, 1
	if ordered {
		if s, err := strconv.Atoi(attr(n, "start")); err == nil {
			number = s
		}
		if _, ok := hasAttr(n, "reversed"); ok {
			step = -1
			if _, ok := hasAttr(n, "start"); !ok {
				number = countItems(n)
			}
		}
	}

	for li := n.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || ignored(li) || c.skip.skip(li) {
			continue
		}
		if li.DataAtom == atom.Ul || li.DataAtom == atom.Ol {
			// list directly nested in a list, without an li
			c.list(li, depth+1)
			continue
		}
		if li.DataAtom != atom.Li {
			continue
		}
		if v, err := strconv.Atoi(attr(li, "value")); err == nil && ordered {
			number = v
		}

		// The item's own text excludes nested lists, which follow it.
		var nested []*html.Node
		saved := c.inline
		c.inline = inlineText{}
		for ch := li.FirstChild; ch != nil; ch = ch.NextSibling {
			if ch.Type == html.ElementNode && (ch.DataAtom == atom.Ul || ch.DataAtom == atom.Ol) {
				nested = append(nested, ch)
				continue
			}
			if ch.Type == html.ElementNode && (ignored(ch) || c.skip.skip(ch)) {
				continue
			}
			switch {
			case ch.Type == html.TextNode:
				c.inline.text(ch.Data)
			case ch.Type == html.ElementNode && !isBlock(ch):
				c.inlineElement(ch)
			case ch.Type == html.ElementNode:
				c.inline.text(" ")
				c.inlineChildren(ch)
			}
		}
		text, _ := c.inline.take()
		c.inline = saved

		if text != "" {
			item := &model.ListItem{Text: text, Ordered: ordered, Level: depth}
			if ordered {
				item.Number = number
			}
			c.doc.Add(item)
		}
		if ordered {
			number += step
		}
		for _, sub := range nested {
			c.list(sub, depth+1)
		}
	}
}

// table flattens an HTML table. colspan repeats nothing: covered cells are
// empty. rowspan reserves the cells below. The first row is a header when
// it comes from <thead> or holds only <th> cells.
func (c *converter) table(n *html.Node) {
	var rows [][]string
	var spans []int // remaining rowspan per column
	header := false
	allTH := true

	for _, tr := range tableRows(n) {
		var row []string
		col := 0
		next := func() {
			for col < len(spans) && spans[col] > 0 {
				spans[col]--
				row = append(row, "")
				col++
			}
		}
		for cell := tr.FirstChild; cell != nil; cell = cell.NextSibling {
			if cell.Type != html.ElementNode || (cell.DataAtom != atom.Td && cell.DataAtom != atom.Th) {
				continue
			}
			next()
			if len(rows) == 0 && cell.DataAtom != atom.Th {
				allTH = false
			}
			colspan := spanAttr(cell, "colspan", 1000)
			rowspan := spanAttr(cell, "rowspan", 65534)
			for k := 0; k < colspan; k++ {
				text := ""
				if k == 0 {
					text = c.textOf(cell)
				}
				row = append(row, text)
				for len(spans) <= col {
					spans = append(spans, 0)
				}
				spans[col] = rowspan - 1
				col++
			}
		}
		next()
		for ; col < len(spans); col++ {
			if spans[col] > 0 {
				spans[col]--
			}
		}
		if len(row) == 0 {
			continue
		}
		if len(rows) == 0 && tr.Parent != nil && tr.Parent.DataAtom == atom.Thead {
			header = true
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return
	}
	header = header || allTH

	width := 0
	nonEmpty := false
	for _, r := range rows {
		width = max(width, len(r))
		for _, cell := range r {
			nonEmpty = nonEmpty || cell != ""
		}
	}
	if !nonEmpty {
		return
	}
	for i := range rows {
		for len(rows[i]) < width {
			rows[i] = append(rows[i], "")
		}
	}
	if tbl, err := model.NewTable(rows, header); err == nil {
		c.doc.Add(&model.TableBlock{Table: tbl})
	}
}

// tableRows lists the rows of a table in display order: thead, then
// bodies and bare rows, then tfoot. Nested tables are not descended into.
func tableRows(table *html.Node) []*html.Node {
	var head, body, foot []*html.Node
	for ch := table.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type != html.ElementNode {
			continue
		}
		switch ch.DataAtom {
		case atom.Tr:
			body = append(body, ch)
		case atom.Thead, atom.Tbody, atom.Tfoot:
			for tr := ch.FirstChild; tr != nil; tr = tr.NextSibling {
				if tr.Type != html.ElementNode || tr.DataAtom != atom.Tr {
					continue
				}
				switch ch.DataAtom {
				case atom.Thead:
					head = append(head, tr)
				case atom.Tfoot:
					foot = append(foot, tr)
				default:
					body = append(body, tr)
				}
			}
		}
	}
	return append(append(head, body...), foot...)
}

func countItems(list *html.Node) int {
	n := 0
	for ch := list.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode && ch.DataAtom == atom.Li {
			n++
		}
	}
	return n
}

func spanAttr(n *html.Node, key string, limit int) int {
	v, err := strconv.Atoi(strings.TrimSpace(attr(n, key)))
	if err != nil || v < 1 {
		return 1
	}
	return min(v, limit)
}

func hasAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// imageLabel is the placeholder text for an image: its alt text, else its
// source.
func imageLabel(n *html.Node) string {
	label := strings.TrimSpace(attr(n, "alt"))
	if label == "" {
		label = strings.TrimSpace(attr(n, "src"))
		if strings.HasPrefix(label, "data:") {
			label = ""
		}
	}
	if label == "" {
		return ""
	}
	return "[image: " + label + "]"
}

// preText returns preformatted text verbatim.
func preText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			b.WriteByte('\n')
		case n.Type == html.ElementNode && ignored(n):
		default:
			for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
				walk(ch)
			}
		}
	}
	walk(n)
	return b.String()
}

// titleText collects the text children of <title>, which the block walk
// skips.
func titleText(n *html.Node) string {
	var b strings.Builder
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.TextNode {
			b.WriteString(ch.Data)
		}
	}
	return b.String()
}

func find(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if found := find(ch, a); found != nil {
			return found
		}
	}
	return nil
}

// metadata reads <title> and the author, description, keywords and
// generator meta tags.
func metadata(root *html.Node) model.Metadata {
	var meta model.Metadata
	head := find(root, atom.Head)
	if head == nil {
		return meta
	}
	if t := find(head, atom.Title); t != nil {
		meta.Title = strings.Join(strings.Fields(titleText(t)), " ")
	}
	for ch := head.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type != html.ElementNode || ch.DataAtom != atom.Meta {
			continue
		}
		content := strings.TrimSpace(attr(ch, "content"))
		switch strings.ToLower(attr(ch, "name")) {
		case "author":
			meta.Author = content
		case "description":
			meta.Subject = content
		case "generator":
			meta.Creator = content
		case "keywords":
			for _, kw := range strings.Split(content, ",") {
				if kw = strings.TrimSpace(kw); kw != "" {
					meta.Keywords = append(meta.Keywords, kw)
				}
			}
		}
	}
	return meta
}

// inlineText accumulates the text of a paragraph with HTML whitespace
// rules: runs of white space collapse to one space and <br> starts a new
// line.
type inlineText struct {
	buf       []byte
	space     bool // a space is pending
	boldDepth int
	bold      bool // visible text seen inside <b> or <strong>
	plain     bool // visible text seen outside them
}

func (t *inlineText) text(s string) {
	for _, r := range s {
		if unicode.IsSpace(r) {
			t.space = len(t.buf) > 0
			continue
		}
		if t.space {
			t.buf = append(t.buf, ' ')
			t.space = false
		}
		t.buf = utf8.AppendRune(t.buf, r)
		if t.boldDepth > 0 {
			t.bold = true
		} else {
			t.plain = true
		}
	}
}

func (t *inlineText) lineBreak() {
	t.buf = append(t.buf, '\n')
	t.space = false
}

// take returns the collected text, trimmed line by line, and whether all of
// it was bold, then resets the buffer.
func (t *inlineText) take() (string, bool) {
	lines := strings.Split(string(t.buf), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	text := strings.Trim(strings.Join(lines, "\n"), "\n")
	bold := t.bold && !t.plain && text != ""
	*t = inlineText{boldDepth: t.boldDepth}
	return text, bold
}
