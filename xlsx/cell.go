package xlsx

import (
	"fmt"
	"strconv"
	"strings"
)

// maxColumns is the widest sheet Excel allows (column XFD).
const maxColumns = 16384

// ParseCellRef splits a reference such as "B12" into zero-based column and
// row indices. Absolute markers ("$B$12") are accepted.
func ParseCellRef(ref string) (col, row int, err error) {
	ref = strings.ReplaceAll(ref, "$", "")
	split := strings.IndexFunc(ref, func(r rune) bool { return r >= '0' && r <= '9' })
	switch {
	case ref == "":
		return 0, 0, fmt.Errorf("empty cell reference")
	case split == 0:
		return 0, 0, fmt.Errorf("cell reference %q has no column", ref)
	case split < 0:
		return 0, 0, fmt.Errorf("cell reference %q has no row", ref)
	}

	col = ColumnIndex(ref[:split])
	if col < 0 {
		return 0, 0, fmt.Errorf("cell reference %q has invalid column", ref)
	}
	n, err := strconv.Atoi(ref[split:])
	if err != nil || n < 1 {
		return 0, 0, fmt.Errorf("cell reference %q has invalid row", ref)
	}
	return col, n - 1, nil
}

// ColumnIndex converts column letters to a zero-based index: A is 0, Z is
// 25, AA is 26. It returns -1 for anything that is not a column name.
func ColumnIndex(letters string) int {
	if letters == "" {
		return -1
	}
	n := 0
	for _, c := range strings.ToUpper(letters) {
		if c < 'A' || c > 'Z' {
			return -1
		}
		n = n*26 + int(c-'A'+1)
		if n > maxColumns {
			return -1
		}
	}
	return n - 1
}

// ColumnName is the inverse of ColumnIndex.
func ColumnName(index int) string {
	if index < 0 {
		return ""
	}
	var buf [3]byte
	i := len(buf)
	for n := index + 1; n > 0 && i > 0; n = (n - 1) / 26 {
		i--
		buf[i] = byte('A' + (n-1)%26)
	}
	return string(buf[i:])
}

// CellRef builds a reference from zero-based indices.
func CellRef(col, row int) string {
	return ColumnName(col) + strconv.Itoa(row+1)
}

// ParseRangeRef parses "A1:C4" into its corners. A single cell is a range
// of one.
func ParseRangeRef(ref string) (startCol, startRow, endCol, endRow int, err error) {
	from, to, found := strings.Cut(ref, ":")
	if !found {
		to = from
	}
	if startCol, startRow, err = ParseCellRef(from); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("range %q: %w", ref, err)
	}
	if endCol, endRow, err = ParseCellRef(to); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("range %q: %w", ref, err)
	}
	return startCol, startRow, endCol, endRow, nil
}
