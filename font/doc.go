// Package font measures text for layout.
//
// A [Metrics] value is the per-request measuring service used by the layout
// planner and the renderers. Widths come from the Helvetica and
// Helvetica-Bold AFM tables, the faces the PDF writer draws with by default,
// so measured text matches rendered text exactly for the Latin range:
//
//	m := font.NewMetrics()
//	w := m.Measure("Quarterly total", 10, false) // points
//	lines := m.Wrap(longText, 120, 10, false)
//
// Runes outside the tables fall back to their East Asian display width
// (go-runewidth): wide runes occupy a full em, narrow runes a digit width.
// When a TrueType font is embedded instead, [NewMetricsFunc] takes its
// widths from the PDF writer.
//
// Measured width is exactly linear in font size. Wrapping breaks at Unicode
// line-break opportunities and, for words wider than the line, at grapheme
// cluster boundaries (github.com/rivo/uniseg).
//
// Metrics caches string widths for its own lifetime only. Create one per
// conversion and drop it afterwards; there is no package-level cache.
package font
