package csvdoc

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/quirelabs/quire/model"
)

// unnamedPrefix marks header cells that spreadsheet tools invent for
// columns without a name.
const unnamedPrefix = "Unnamed: "

// Write emits t as UTF-8 CSV. Header cells starting with "Unnamed: " are
// written empty.
func Write(w io.Writer, t *model.Table) error {
	cw := csv.NewWriter(w)
	for i := 0; i < t.RowCount(); i++ {
		row := t.Row(i)
		if i == 0 && t.HasHeader() {
			for j, c := range row {
				if strings.HasPrefix(c, unnamedPrefix) {
					row[j] = ""
				}
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
