package csvdoc

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/quirelabs/quire/model"
)

// DefaultMaxBytes is the largest source ReadTable accepts by default.
const DefaultMaxBytes = 50 << 20

// Delimiters are the separators considered when sniffing.
var Delimiters = []rune{',', ';', '\t', '|'}

// sniffLines is how many lines SniffDelimiter inspects.
const sniffLines = 20

// Options configures ReadTable.
type Options struct {
	// Encodings lists candidate source encodings in order
	// Default: DefaultEncodings
	Encodings []string

	// Delimiter forces a field separator instead of sniffing it.
	Delimiter rune

	// NoHeader treats the first row as data.
	NoHeader bool

	// MaxBytes caps the source size; 0 means DefaultMaxBytes and a negative
	// value disables the cap.
	MaxBytes int64
}

// ReadTable parses CSV bytes into a table and reports the encoding used.
func ReadTable(data []byte, opts Options) (*model.Table, string, error) {
	limit := opts.MaxBytes
	if limit == 0 {
		limit = DefaultMaxBytes
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, "", &model.MalformedInputError{
			Reason: fmt.Sprintf("source is %d bytes, limit is %d", len(data), limit),
		}
	}
	if len(data) == 0 {
		return nil, "", &model.MalformedInputError{Reason: "source is empty"}
	}

	text, enc, err := Decode(data, opts.Encodings)
	if err != nil {
		return nil, "", err
	}

	delim := opts.Delimiter
	if delim == 0 {
		delim = SniffDelimiter(text)
	}

	rows, err := parse(text, delim)
	if err != nil {
		return nil, enc, err
	}
	rows = trimBlankRows(rows)

	t, err := model.NewTable(rows, !opts.NoHeader)
	if err != nil {
		return nil, enc, err
	}
	return t, enc, nil
}

func parse(text string, delim rune) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &model.MalformedInputError{Reason: err.Error()}
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// trimBlankRows drops trailing rows whose cells are all empty.
func trimBlankRows(rows [][]string) [][]string {
	for len(rows) > 0 && blank(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// SniffDelimiter picks the delimiter that splits the first lines into the
// most consistent number of fields greater than one. Ties go to the earlier
// entry of Delimiters; with no candidate present the comma is returned.
func SniffDelimiter(text string) rune {
	lines := strings.Split(text, "\n")
	if len(lines) > sniffLines {
		lines = lines[:sniffLines]
	}

	best, bestScore := ',', 0
	for _, d := range Delimiters {
		counts := map[int]int{}
		for _, line := range lines {
			line = strings.TrimRight(line, "\r")
			if line == "" {
				continue
			}
			if n := strings.Count(line, string(d)); n > 0 {
				counts[n]++
			}
		}
		// score: lines agreeing on the most common field count
		score := 0
		for _, c := range counts {
			if c > score {
				score = c
			}
		}
		if score > bestScore {
			best, bestScore = d, score
		}
	}
	return best
}

// LooksLikeCSV reports whether the start of text contains any of the
// recognized delimiters.
func LooksLikeCSV(text string) bool {
	if len(text) > 1024 {
		text = text[:1024]
	}
	for _, d := range Delimiters {
		if strings.ContainsRune(text, d) {
			return true
		}
	}
	return false
}
