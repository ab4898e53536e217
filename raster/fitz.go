//go:build fitz

package raster

import (
	"bytes"
	"context"
	"fmt"

	fitz "github.com/gen2brain/go-fitz"

	"github.com/quirelabs/quire/model"
)

// Enabled reports whether PDF rendering is compiled in.
const Enabled = true

// Render draws every page of a PDF at opts.DPI and encodes it in
// opts.Format.
func Render(ctx context.Context, data []byte, opts Options) ([]Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, &model.MalformedInputError{Source: "pdf", Reason: err.Error()}
	}
	defer doc.Close()

	n := doc.NumPage()
	if n == 0 {
		return nil, &model.MalformedInputError{Source: "pdf", Reason: "document has no pages"}
	}
	pages := make([]Page, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := doc.ImageDPI(i, opts.dpi())
		if err != nil {
			return nil, model.Wrap(fmt.Sprintf("render page %d", i+1), err)
		}
		var buf bytes.Buffer
		if err := Encode(&buf, img, opts); err != nil {
			return nil, model.Wrap(fmt.Sprintf("encode page %d", i+1), err)
		}
		pages = append(pages, Page{Number: i + 1, Data: buf.Bytes()})
	}
	return pages, nil
}
