package pdfgen

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/go-pdf/fpdf"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/quirelabs/quire/model"
)

// Image is one raster image to place on its own page.
type Image struct {
	Name string
	Data []byte
}

// ImageOptions controls image page layout.
type ImageOptions struct {
	Options

	// PageSize of every page; each page is turned to match its image
	// Default: A4
	PageSize model.PageSize

	// Margin around the image in points
	// Default: 36
	Margin float64
}

// DefaultImageOptions returns the default image layout.
func DefaultImageOptions() ImageOptions {
	return ImageOptions{PageSize: model.A4, Margin: 36}
}

// Images renders each image scaled to fit its own page, centered, keeping
// its aspect ratio. Landscape images get landscape pages. JPEG data is
// embedded as is; every other format is decoded and embedded as PNG.
func Images(ctx context.Context, images []Image, opts ImageOptions) ([]byte, error) {
	if len(images) == 0 {
		return nil, &model.MalformedInputError{Reason: "no images"}
	}
	if opts.PageSize.Width <= 0 || opts.PageSize.Height <= 0 {
		opts.PageSize = model.A4
	}

	pdf := newDocument(opts.Options)
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, kind, err := embeddable(img.Data)
		if err != nil {
			return nil, &model.MalformedInputError{Source: img.Name, Reason: err.Error()}
		}
		name := fmt.Sprintf("img%d", i)
		info := pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: kind}, bytes.NewReader(data))
		if pdf.Err() {
			return nil, model.Wrap("embed "+img.Name, pdf.Error())
		}

		iw, ih := info.Extent()
		o := model.Portrait
		if iw > ih {
			o = model.Landscape
		}
		pw, ph := opts.PageSize.Oriented(o)
		area := model.Rect{X: opts.Margin, Y: opts.Margin, Width: pw - 2*opts.Margin, Height: ph - 2*opts.Margin}
		if area.Width <= 0 || area.Height <= 0 {
			return nil, &model.GeometryError{Field: "image margin", Value: opts.Margin}
		}
		fit := area.Fit(iw, ih)

		short, long := opts.PageSize.Oriented(model.Portrait)
		orient := "P"
		if o == model.Landscape {
			orient = "L"
		}
		pdf.AddPageFormat(orient, fpdf.SizeType{Wd: short, Ht: long})
		pdf.ImageOptions(name, fit.X, fit.Y, fit.Width, fit.Height, false, fpdf.ImageOptions{ImageType: kind}, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, model.Wrap("write pdf", err)
	}
	return buf.Bytes(), nil
}

// embeddable returns image bytes fpdf can embed and their fpdf type name.
func embeddable(data []byte) ([]byte, string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("unrecognized image: %w", err)
	}
	if format == "jpeg" {
		return data, "jpg", nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", format, err)
	}
	// fpdf rejects interlaced and 16-bit PNGs, so normalize to 8-bit NRGBA
	dst := image.NewNRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, "", fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), "png", nil
}
