package convert

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/quirelabs/quire/csvdoc"
	"github.com/quirelabs/quire/docx"
	"github.com/quirelabs/quire/format"
	"github.com/quirelabs/quire/model"
	"github.com/quirelabs/quire/ocr"
	"github.com/quirelabs/quire/pdfgen"
	"github.com/quirelabs/quire/pdftext"
	"github.com/quirelabs/quire/pptx"
	"github.com/quirelabs/quire/raster"
	"github.com/quirelabs/quire/render"
)

// textDocument decodes plain text and splits it into paragraphs on blank
// lines.
func textDocument(s *Session, in Input) (*model.Document, error) {
	text, enc, err := csvdoc.Decode(in.Data, s.Options.Encodings)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(enc, "utf-8") {
		s.Warn(in.Name, "decoded as %s", enc)
	}
	doc := model.NewDocument()
	doc.Metadata.Title = in.Base()
	for _, p := range pdftext.Paragraphs(text) {
		doc.Add(&model.Paragraph{Text: p})
	}
	return doc, nil
}

// flowPDF draws doc as flowed text pages.
func flowPDF(ctx context.Context, s *Session, in Input, doc *model.Document) ([]Artifact, error) {
	title := doc.Metadata.Title
	if title == "" {
		title = in.Base()
	}
	opts := s.canvasOptions(title)
	opts.Author = doc.Metadata.Author
	opts.Subject = doc.Metadata.Subject

	c, err := pdfgen.NewCanvas(opts)
	if err != nil {
		return nil, err
	}
	flow := s.Options.Flow
	flow.Title = title
	flow.PageLabels = s.Options.PageLabels
	if err := render.Document(ctx, c, doc, s.Metrics, flow); err != nil {
		return nil, err
	}
	data, err := c.Finish()
	if err != nil {
		return nil, err
	}
	s.Log.WithField("pages", c.PageCount()).Debug("Flowed document.")
	return []Artifact{artifact(in.Base(), format.PDF, data)}, nil
}

func wordArtifact(in Input, doc *model.Document) ([]Artifact, error) {
	var buf bytes.Buffer
	if err := docx.Write(&buf, doc); err != nil {
		return nil, err
	}
	return []Artifact{artifact(in.Base(), format.Word, buf.Bytes())}, nil
}

func textArtifact(in Input, text string) []Artifact {
	return []Artifact{artifact(in.Base(), format.Text, []byte(text))}
}

func textToPDF(ctx context.Context, s *Session, in Input) ([]Artifact, error) {
	doc, err := textDocument(s, in)
	if err != nil {
		return nil, err
	}
	return flowPDF(ctx, s, in, doc)
}

func textToWord(_ context.Context, s *Session, in Input) ([]Artifact, error) {
	doc, err := textDocument(s, in)
	if err != nil {
		return nil, err
	}
	return wordArtifact(in, doc)
}

func wordToPDF(ctx context.Context, s *Session, in Input) ([]Artifact, error) {
	doc, err := readDocument(s, in)
	if err != nil {
		return nil, err
	}
	return flowPDF(ctx, s, in, doc)
}

func wordToText(_ context.Context, s *Session, in Input) ([]Artifact, error) {
	doc, err := readDocument(s, in)
	if err != nil {
		return nil, err
	}
	return textArtifact(in, doc.Text()), nil
}

func powerPointToPDF(ctx context.Context, s *Session, in Input) ([]Artifact, error) {
	p, err := pptx.Read(in.Data)
	if err != nil {
		return nil, err
	}
	title := p.Metadata.Title
	if title == "" {
		title = in.Base()
	}
	c, err := pdfgen.NewCanvas(s.canvasOptions(title))
	if err != nil {
		return nil, err
	}
	if err := pptx.Render(ctx, c, p, s.Metrics, pptx.DefaultRenderOptions()); err != nil {
		return nil, err
	}
	data, err := c.Finish()
	if err != nil {
		return nil, err
	}
	return []Artifact{artifact(in.Base(), format.PDF, data)}, nil
}

func powerPointToText(_ context.Context, _ *Session, in Input) ([]Artifact, error) {
	p, err := pptx.Read(in.Data)
	if err != nil {
		return nil, err
	}
	return textArtifact(in, p.Text()), nil
}

func htmlToPDF(ctx context.Context, s *Session, in Input) ([]Artifact, error) {
	doc, err := readDocument(s, in)
	if err != nil {
		return nil, err
	}
	return flowPDF(ctx, s, in, doc)
}

func htmlToText(_ context.Context, s *Session, in Input) ([]Artifact, error) {
	doc, err := readDocument(s, in)
	if err != nil {
		return nil, err
	}
	return textArtifact(in, doc.Text()), nil
}

func htmlToWord(_ context.Context, s *Session, in Input) ([]Artifact, error) {
	doc, err := readDocument(s, in)
	if err != nil {
		return nil, err
	}
	return wordArtifact(in, doc)
}

func extractPDF(ctx context.Context, s *Session, in Input) (*pdftext.Result, error) {
	res, err := pdftext.Extract(ctx, in.Data)
	if err != nil {
		return nil, err
	}
	empty := 0
	for _, p := range res.Pages {
		if strings.TrimSpace(p.Text) == "" {
			empty++
		}
	}
	if empty == len(res.Pages) {
		s.Warn(in.Name, "no text found; the PDF may be scanned")
	} else if empty > 0 {
		s.Warn(in.Name, "%d of %d pages have no text", empty, len(res.Pages))
	}
	s.Log.WithField("pages", len(res.Pages)).WithField("words", res.Words).Debug("Extracted PDF text.")
	return res, nil
}

func pdfToText(ctx context.Context, s *Session, in Input) ([]Artifact, error) {
	res, err := extractPDF(ctx, s, in)
	if err != nil {
		return nil, err
	}
	return textArtifact(in, res.Text()), nil
}

func pdfToWord(ctx context.Context, s *Session, in Input) ([]Artifact, error) {
	res, err := extractPDF(ctx, s, in)
	if err != nil {
		return nil, err
	}
	return wordArtifact(in, res.Document())
}

func pdfToImage(ctx context.Context, s *Session, in Input) ([]Artifact, error) {
	opts := s.Options.Raster
	pages, err := raster.Render(ctx, in.Data, opts)
	if err != nil {
		return nil, fmt.Errorf("pdf to image: %w", err)
	}
	out := make([]Artifact, 0, len(pages))
	for _, p := range pages {
		name := in.Base()
		if len(pages) > 1 {
			name = fmt.Sprintf("%s_page_%d", name, p.Number)
		}
		out = append(out, Artifact{
			Name: name + opts.Format.Extension(),
			MIME: opts.Format.MIME(),
			Data: p.Data,
		})
	}
	return out, nil
}

func imageToPDF(ctx context.Context, s *Session, in Input) ([]Artifact, error) {
	opts := pdfgen.DefaultImageOptions()
	opts.Options = s.canvasOptions(in.Base())
	opts.PageSize = s.Options.Layout.PageSize
	data, err := pdfgen.Images(ctx, []pdfgen.Image{{Name: in.Name, Data: in.Data}}, opts)
	if err != nil {
		return nil, err
	}
	return []Artifact{artifact(in.Base(), format.PDF, data)}, nil
}

func imageToText(ctx context.Context, s *Session, in Input) ([]Artifact, error) {
	client, err := ocr.New(s.Options.OCR)
	if err != nil {
		return nil, fmt.Errorf("image to text: %w", err)
	}
	defer client.Close()

	text, err := client.Recognize(ctx, in.Data)
	if err != nil {
		return nil, err
	}
	if text == "" {
		s.Warn(in.Name, "no text recognized")
	}
	return textArtifact(in, text), nil
}
