//go:build ocr

package ocr

import (
	"context"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/quirelabs/quire/model"
)

// Enabled reports whether OCR support is compiled in.
const Enabled = true

// Client wraps a Tesseract handle. A Client is not safe for concurrent use
// and must be closed.
type Client struct {
	client *gosseract.Client
}

// New creates a client configured with opts.
func New(opts Options) (*Client, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage(opts.languages()...); err != nil {
		client.Close()
		return nil, model.Wrap("ocr set language", err)
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(opts.pageSegMode())); err != nil {
		client.Close()
		return nil, model.Wrap("ocr set page segmentation", err)
	}
	return &Client{client: client}, nil
}

// Close releases the Tesseract handle. It is safe to call twice.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// Recognize returns the text found in an encoded image (PNG, JPEG, TIFF,
// BMP and the other formats Leptonica reads), trimmed.
func (c *Client) Recognize(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(image) == 0 {
		return "", &model.MalformedInputError{Source: "image", Reason: "image is empty"}
	}
	if err := c.client.SetImageFromBytes(image); err != nil {
		return "", model.Wrap("ocr load image", err)
	}
	text, err := c.client.Text()
	if err != nil {
		return "", model.Wrap("ocr", err)
	}
	return strings.TrimSpace(text), nil
}
