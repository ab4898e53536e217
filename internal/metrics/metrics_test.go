package metrics

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quirelabs/quire/convert"
	"github.com/quirelabs/quire/format"
	"github.com/quirelabs/quire/layout"
	"github.com/quirelabs/quire/model"
	"github.com/quirelabs/quire/ocr"
	"github.com/quirelabs/quire/raster"
)

var _ convert.Observer = (*Recorder)(nil)

func TestObserveConversion(t *testing.T) {
	r := New()
	r.ObserveConversion(format.CSV, format.PDF, 20*time.Millisecond, 1, nil)
	r.ObserveConversion(format.Excel, format.CSV, time.Millisecond, 3, nil)
	r.ObserveConversion(format.CSV, format.Word, time.Millisecond, 0, &model.UnsupportedConversionError{From: "csv", To: "word"})

	assert.Equal(t, 1.0, testutil.ToFloat64(r.conversions.WithLabelValues("csv", "pdf", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.conversions.WithLabelValues("csv", "word", "unsupported")))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.artifacts))
	assert.Equal(t, 3, testutil.CollectAndCount(r.duration))
}

func TestObservePlan(t *testing.T) {
	r := New()
	r.ObservePlan(layout.Stats{Orientation: model.Landscape, FontSize: 6, Fits: false, Pages: 4})
	r.ObservePlan(layout.Stats{Orientation: model.Portrait, FontSize: 10, Fits: true, Pages: 1})

	assert.Equal(t, 1.0, testutil.ToFloat64(r.plans.WithLabelValues("landscape", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.plans.WithLabelValues("portrait", "true")))
}

func TestResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{context.Canceled, "canceled"},
		{fmt.Errorf("render: %w", context.DeadlineExceeded), "canceled"},
		{&model.MalformedInputError{Reason: "x"}, "malformed"},
		{&model.EncodingError{Attempted: []string{"utf-8"}}, "encoding"},
		{&model.GeometryError{Field: "f"}, "geometry"},
		{&model.UnsupportedConversionError{}, "unsupported"},
		{fmt.Errorf("pdf to image: %w", raster.ErrRasterNotEnabled), "unsupported"},
		{fmt.Errorf("image to text: %w", ocr.ErrOCRNotEnabled), "unsupported"},
		{model.Wrap("write pdf", errors.New("disk")), "collaborator"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Result(tt.err), "%v", tt.err)
	}
}

func TestWriteFile(t *testing.T) {
	r := New()
	r.ObserveConversion(format.Text, format.PDF, time.Millisecond, 1, nil)

	path := filepath.Join(t.TempDir(), "quire.prom")
	require.NoError(t, r.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `quire_conversions_total{from="text",result="ok",to="pdf"} 1`)
	assert.Contains(t, string(data), "# HELP quire_artifacts_total")
}
