//go:build !ocr

package ocr

import "context"

// Enabled reports whether OCR support is compiled in.
const Enabled = false

// Client is the stub used without the "ocr" build tag.
type Client struct{}

// New always fails with ErrOCRNotEnabled.
func New(Options) (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op. It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// Recognize always fails with ErrOCRNotEnabled.
func (c *Client) Recognize(context.Context, []byte) (string, error) {
	return "", ErrOCRNotEnabled
}
