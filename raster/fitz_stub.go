//go:build !fitz

package raster

import "context"

// Enabled reports whether PDF rendering is compiled in.
const Enabled = false

// Render always fails with ErrRasterNotEnabled.
func Render(context.Context, []byte, Options) ([]Page, error) {
	return nil, ErrRasterNotEnabled
}
