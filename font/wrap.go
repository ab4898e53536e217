package font

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Wrap breaks text into lines no wider than width at size. Explicit newlines
// are kept. Words wider than the line are split between grapheme clusters,
// and every line holds at least one cluster, so Wrap always returns at least
// one line and always terminates.
func (m *Metrics) Wrap(text string, width, size float64, bold bool) []string {
	var out []string
	for _, para := range splitLines(text) {
		out = append(out, m.wrapLine(para, width, size, bold)...)
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}

// LineCount returns len(Wrap(text, width, size, bold)).
func (m *Metrics) LineCount(text string, width, size float64, bold bool) int {
	return len(m.Wrap(text, width, size, bold))
}

func (m *Metrics) fits(s string, width, size float64, bold bool) bool {
	return m.Measure(strings.TrimRight(s, " "), size, bold) <= width
}

func (m *Metrics) wrapLine(s string, width, size float64, bold bool) []string {
	if s == "" || m.fits(s, width, size, bold) {
		return []string{strings.TrimRight(s, " ")}
	}

	var lines []string
	var cur string
	state := -1
	rest := s
	for len(rest) > 0 {
		var seg string
		var mustBreak bool
		seg, rest, mustBreak, state = uniseg.FirstLineSegmentInString(rest, state)

		switch {
		case m.fits(cur+seg, width, size, bold):
			cur += seg
		case cur != "" && m.fits(seg, width, size, bold):
			lines = append(lines, strings.TrimRight(cur, " "))
			cur = seg
		default:
			if cur != "" {
				lines = append(lines, strings.TrimRight(cur, " "))
			}
			pieces := m.splitClusters(seg, width, size, bold)
			lines = append(lines, pieces[:len(pieces)-1]...)
			cur = pieces[len(pieces)-1]
		}

		if mustBreak && len(rest) > 0 {
			lines = append(lines, strings.TrimRight(cur, " "))
			cur = ""
		}
	}
	if cur = strings.TrimRight(cur, " "); cur != "" || len(lines) == 0 {
		lines = append(lines, cur)
	}
	return lines
}

// splitClusters breaks a single unbreakable segment between grapheme
// clusters. The result is never empty.
func (m *Metrics) splitClusters(seg string, width, size float64, bold bool) []string {
	var pieces []string
	var cur string
	state := -1
	rest := seg
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if cur != "" && !m.fits(cur+cluster, width, size, bold) {
			pieces = append(pieces, cur)
			cur = ""
		}
		cur += cluster
	}
	return append(pieces, cur)
}
