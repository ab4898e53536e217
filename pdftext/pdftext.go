// Package pdftext extracts the text layer of PDF documents.
//
// Only text drawn with fonts is recovered; scanned pages carry no text layer
// and come back empty.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
	"github.com/ledongthuc/pdf"

	"github.com/quirelabs/quire/model"
)

// Page is the text of one page.
type Page struct {
	Number int // 1-based
	Text   string
}

// Result is the text extracted from a document.
type Result struct {
	Metadata model.Metadata
	Pages    []Page

	// Words counts the words of all pages by Unicode word boundaries.
	Words int
}

// Extract reads every page of a PDF. A page whose content cannot be decoded
// yields empty text rather than failing the document.
func Extract(ctx context.Context, data []byte) (res *Result, err error) {
	if len(data) < 5 || !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, &model.MalformedInputError{Source: "pdf", Reason: "missing %PDF header"}
	}

	// the parser panics on some damaged files
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, &model.MalformedInputError{Source: "pdf", Reason: fmt.Sprint(r)}
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &model.MalformedInputError{Source: "pdf", Reason: err.Error()}
	}

	res = &Result{Metadata: metadata(r)}
	fonts := make(map[string]*pdf.Font)
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := Page{Number: i}
		p := r.Page(i)
		if !p.V.IsNull() {
			for _, name := range p.Fonts() {
				if _, ok := fonts[name]; !ok {
					f := p.Font(name)
					fonts[name] = &f
				}
			}
			if text, err := p.GetPlainText(fonts); err == nil {
				page.Text = strings.TrimSpace(text)
			}
		}
		res.Pages = append(res.Pages, page)
		res.Words += CountWords(page.Text)
	}
	if len(res.Pages) == 0 {
		return nil, &model.MalformedInputError{Source: "pdf", Reason: "document has no pages"}
	}
	return res, nil
}

// Text joins the pages, marking the end of page N with "--- Page N ---"
// between blank lines. The last page carries no marker.
func (r *Result) Text() string {
	var b strings.Builder
	for i, p := range r.Pages {
		b.WriteString(p.Text)
		if i < len(r.Pages)-1 {
			b.WriteString("\n\n--- Page " + strconv.Itoa(p.Number) + " ---\n\n")
		}
	}
	return b.String()
}

// Document converts the pages into paragraphs separated by page breaks.
// Paragraphs are split on blank lines; single line breaks are kept.
func (r *Result) Document() *model.Document {
	doc := model.NewDocument()
	doc.Metadata = r.Metadata
	for i, p := range r.Pages {
		if i > 0 {
			doc.Add(model.PageBreak{})
		}
		for _, para := range Paragraphs(p.Text) {
			doc.Add(&model.Paragraph{Text: para})
		}
	}
	return doc
}

// Paragraphs splits text on blank lines and trims each paragraph.
func Paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.Join(cur, "\n"))
			cur = cur[:0]
		}
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return out
}

// CountWords counts the segments of text that contain a letter or digit.
func CountWords(text string) int {
	n := 0
	tokens := words.FromString(text)
	for tokens.Next() {
		if strings.IndexFunc(tokens.Value(), isWordRune) >= 0 {
			n++
		}
	}
	return n
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// metadata reads the document information dictionary.
func metadata(r *pdf.Reader) model.Metadata {
	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return model.Metadata{}
	}
	meta := model.Metadata{
		Title:   strings.TrimSpace(info.Key("Title").Text()),
		Author:  strings.TrimSpace(info.Key("Author").Text()),
		Subject: strings.TrimSpace(info.Key("Subject").Text()),
		Creator: strings.TrimSpace(info.Key("Creator").Text()),
	}
	for _, kw := range strings.FieldsFunc(info.Key("Keywords").Text(), func(r rune) bool { return r == ',' || r == ';' }) {
		if kw = strings.TrimSpace(kw); kw != "" {
			meta.Keywords = append(meta.Keywords, kw)
		}
	}
	return meta
}
