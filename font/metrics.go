package font

import "strings"

// LineSpacing is the line height as a multiple of the font size.
const LineSpacing = 1.2

// WidthFunc returns the advance width of s in 1000ths of an em.
type WidthFunc func(s string, bold bool) float64

type cacheKey struct {
	s    string
	bold bool
}

// Metrics measures strings for one conversion request.
//
// A Metrics is not safe for concurrent use.
type Metrics struct {
	width WidthFunc
	cache map[cacheKey]float64
}

// NewMetrics returns metrics backed by the Helvetica AFM tables.
func NewMetrics() *Metrics {
	return NewMetricsFunc(func(s string, bold bool) float64 {
		if bold {
			return HelveticaBold.GetStringWidth(s)
		}
		return Helvetica.GetStringWidth(s)
	})
}

// NewMetricsFunc returns metrics backed by an arbitrary width source, such as
// an embedded TrueType font.
func NewMetricsFunc(fn WidthFunc) *Metrics {
	return &Metrics{width: fn, cache: make(map[cacheKey]float64)}
}

// units returns the width of the widest line of text in 1000ths of an em.
func (m *Metrics) units(text string, bold bool) float64 {
	k := cacheKey{text, bold}
	if w, ok := m.cache[k]; ok {
		return w
	}

	w := 0.0
	for _, line := range splitLines(text) {
		if lw := m.width(line, bold); lw > w {
			w = lw
		}
	}
	m.cache[k] = w
	return w
}

// Measure returns the rendered width of text in points at size. Multi-line
// text measures its widest line.
func (m *Metrics) Measure(text string, size float64, bold bool) float64 {
	return m.units(text, bold) * size / 1000
}

// LineHeight returns the baseline-to-baseline distance at size.
func (m *Metrics) LineHeight(size float64) float64 {
	return size * LineSpacing
}

// CacheLen returns the number of cached measurements.
func (m *Metrics) CacheLen() int { return len(m.cache) }

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}
