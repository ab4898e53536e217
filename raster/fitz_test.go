//go:build fitz

package raster

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"testing"

	"github.com/quirelabs/quire/model"
	"github.com/quirelabs/quire/pdfgen"
)

func twoPagePDF(t *testing.T) []byte {
	t.Helper()
	var wide, tall bytes.Buffer
	if err := png.Encode(&wide, checker(40, 20)); err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(&tall, checker(20, 40)); err != nil {
		t.Fatal(err)
	}
	out, err := pdfgen.Images(context.Background(), []pdfgen.Image{
		{Name: "wide.png", Data: wide.Bytes()},
		{Name: "tall.png", Data: tall.Bytes()},
	}, pdfgen.DefaultImageOptions())
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestRender(t *testing.T) {
	pages, err := Render(context.Background(), twoPagePDF(t), Options{DPI: 36})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(pages))
	}
	for i, p := range pages {
		if p.Number != i+1 {
			t.Errorf("page %d numbered %d", i, p.Number)
		}
		img, err := png.Decode(bytes.NewReader(p.Data))
		if err != nil {
			t.Fatalf("page %d is not a PNG: %v", p.Number, err)
		}
		b := img.Bounds()
		// A4 at 36 DPI
		if landscape := b.Dx() > b.Dy(); landscape != (i == 0) {
			t.Errorf("page %d bounds %v", p.Number, b)
		}
	}
}

func TestRenderErrors(t *testing.T) {
	var me *model.MalformedInputError
	if _, err := Render(context.Background(), []byte("not a pdf"), DefaultOptions()); !errors.As(err, &me) {
		t.Errorf("Render(garbage) error = %v, want *model.MalformedInputError", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Render(ctx, twoPagePDF(t), DefaultOptions()); !errors.Is(err, context.Canceled) {
		t.Errorf("Render(cancelled) error = %v, want context.Canceled", err)
	}
}
