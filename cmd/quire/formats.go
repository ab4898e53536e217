package main

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/quirelabs/quire/convert"
	"github.com/quirelabs/quire/format"
	"github.com/quirelabs/quire/ocr"
	"github.com/quirelabs/quire/raster"
)

func newFormatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the supported conversions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := format.Kinds()

			table := tablewriter.NewWriter(a.stdout)
			header := []string{"From \\ To"}
			for _, k := range kinds {
				header = append(header, k.String())
			}
			table.SetHeader(header)
			table.SetAutoFormatHeaders(false)
			table.SetAlignment(tablewriter.ALIGN_CENTER)

			for _, from := range kinds {
				row := []string{from.String()}
				for _, to := range kinds {
					cell := ""
					if _, ok := a.registry.Lookup(convert.Pair{From: from, To: to}); ok {
						cell = "yes"
						switch {
						case from == format.Image && to == format.Text && !ocr.Enabled:
							cell = "ocr build"
						case from == format.PDF && to == format.Image && !raster.Enabled:
							cell = "fitz build"
						}
					}
					row = append(row, cell)
				}
				table.Append(row)
			}
			table.Render()
			return nil
		},
	}
}
