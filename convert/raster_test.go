//go:build fitz

package convert

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quirelabs/quire/format"
	"github.com/quirelabs/quire/raster"
)

func TestConvertPDFToImage(t *testing.T) {
	pdf := convert(t, "memo.txt", []byte("one page"), format.PDF).Artifacts[0].Data

	res := convert(t, "memo.pdf", pdf, format.Image)
	require.Len(t, res.Artifacts, 1)
	assert.Equal(t, "memo.png", res.Artifacts[0].Name)
	assert.Equal(t, "image/png", res.Artifacts[0].MIME)
	assert.True(t, bytes.HasPrefix(res.Artifacts[0].Data, []byte("\x89PNG")))
}

func TestConvertPDFToImagePages(t *testing.T) {
	var text strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&text, "line %d\n", i)
	}
	pdf := convert(t, "long.txt", []byte(text.String()), format.PDF).Artifacts[0].Data

	opts := DefaultOptions()
	opts.Raster = raster.Options{DPI: 36, Format: raster.JPEG}
	res, err := Convert(t.Context(), "long.pdf", pdf, format.Image, opts)
	require.NoError(t, err)
	require.Greater(t, len(res.Artifacts), 1)

	for i, a := range res.Artifacts {
		assert.Equal(t, fmt.Sprintf("long_page_%d.jpg", i+1), a.Name)
		assert.Equal(t, "image/jpeg", a.MIME)
		_, err := jpeg.Decode(bytes.NewReader(a.Data))
		assert.NoError(t, err, a.Name)
	}
}
