// Package metrics records conversion statistics in a per-run Prometheus
// registry that can be written out as a node exporter textfile.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/quirelabs/quire/format"
	"github.com/quirelabs/quire/layout"
	"github.com/quirelabs/quire/model"
	"github.com/quirelabs/quire/ocr"
	"github.com/quirelabs/quire/raster"
)

// Recorder collects conversion metrics. It implements convert.Observer.
type Recorder struct {
	registry    *prometheus.Registry
	conversions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	artifacts   prometheus.Counter
	plans       *prometheus.CounterVec
	pages       prometheus.Histogram
	fontSize    prometheus.Histogram
}

// New returns a recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		conversions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quire_conversions_total",
				Help: "Conversions by source format, target format and result.",
			},
			[]string{"from", "to", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "quire_conversion_duration_seconds",
				Help: "A histogram of conversion durations.",
				Buckets: []float64{
					1e-3, // 1 millisecond
					0.01,
					0.05,
					0.1,
					0.5,
					1, // 1 second
					5,
					30,
				},
			},
			[]string{"from", "to"},
		),
		artifacts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quire_artifacts_total",
			Help: "Files produced by successful conversions.",
		}),
		plans: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quire_table_plans_total",
				Help: "Table layouts by orientation and whether they fit the page width.",
			},
			[]string{"orientation", "fits"},
		),
		pages: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quire_table_pages",
			Help:    "Pages per planned table.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		fontSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quire_table_font_size_points",
			Help:    "Font size chosen for planned tables.",
			Buckets: []float64{6, 7, 8, 9, 10, 12},
		}),
	}
	r.registry.MustRegister(r.conversions, r.duration, r.artifacts, r.plans, r.pages, r.fontSize)
	return r
}

// ObserveConversion records the outcome of one conversion.
func (r *Recorder) ObserveConversion(from, to format.Kind, elapsed time.Duration, artifacts int, err error) {
	r.conversions.WithLabelValues(from.String(), to.String(), Result(err)).Inc()
	r.duration.WithLabelValues(from.String(), to.String()).Observe(elapsed.Seconds())
	if err == nil {
		r.artifacts.Add(float64(artifacts))
	}
}

// ObservePlan records one table layout.
func (r *Recorder) ObservePlan(st layout.Stats) {
	fits := "false"
	if st.Fits {
		fits = "true"
	}
	r.plans.WithLabelValues(st.Orientation.String(), fits).Inc()
	r.pages.Observe(float64(st.Pages))
	r.fontSize.Observe(st.FontSize)
}

// Gatherer exposes the registry.
func (r *Recorder) Gatherer() prometheus.Gatherer { return r.registry }

// WriteFile writes the metrics in the text exposition format. The file is
// replaced atomically.
func (r *Recorder) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

// Result classifies err for the result label.
func Result(err error) string {
	var (
		malformed   *model.MalformedInputError
		encoding    *model.EncodingError
		geometry    *model.GeometryError
		unsupported *model.UnsupportedConversionError
		collab      *model.CollaboratorError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.As(err, &malformed):
		return "malformed"
	case errors.As(err, &encoding):
		return "encoding"
	case errors.As(err, &geometry):
		return "geometry"
	case errors.As(err, &unsupported),
		errors.Is(err, ocr.ErrOCRNotEnabled), errors.Is(err, raster.ErrRasterNotEnabled):
		return "unsupported"
	case errors.As(err, &collab):
		return "collaborator"
	default:
		return "error"
	}
}
