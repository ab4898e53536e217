package convert

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"

	"github.com/quirelabs/quire/model"
)

// Preview writes the first rows of t as a console table. Cells are cut to
// cellWidth terminal columns; a cellWidth of 0 leaves them whole.
func Preview(w io.Writer, t *model.Table, rows, cellWidth int) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	cut := func(cells []string) []string {
		out := make([]string, len(cells))
		for i, c := range cells {
			c = strings.Join(strings.Fields(c), " ")
			if cellWidth > 0 {
				c = runewidth.Truncate(c, cellWidth, "…")
			}
			out[i] = c
		}
		return out
	}

	if t.HasHeader() {
		table.SetHeader(cut(t.Header()))
	}
	first := t.FirstDataRow()
	last := t.RowCount()
	if rows >= 0 && first+rows < last {
		last = first + rows
	}
	for i := first; i < last; i++ {
		table.Append(cut(t.Row(i)))
	}
	if rest := t.RowCount() - last; rest > 0 {
		table.SetFooter(footer(t.ColumnCount(), fmt.Sprintf("%d more rows", rest)))
	}
	table.Render()
}

func footer(columns int, text string) []string {
	out := make([]string, columns)
	out[0] = text
	return out
}
