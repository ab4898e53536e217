package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/quirelabs/quire/convert"
	"github.com/quirelabs/quire/format"
	"github.com/quirelabs/quire/model"
	"github.com/quirelabs/quire/pdftext"
)

func newInspectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <input>",
		Short: "Describe a file: its format, metadata and tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, _ := cmd.Flags().GetInt("rows")
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			det := format.Detect(args[0], data)
			by := "extension"
			if det.ByContent {
				by = "content"
			}
			facts := [][]string{
				{"File", filepath.Base(args[0])},
				{"Size", strconv.Itoa(len(data)) + " bytes"},
				{"Format", det.Kind.String()},
				{"Detected by", by},
				{"Legacy", strconv.FormatBool(det.Legacy)},
			}
			readable := !det.Legacy || det.Kind == format.Excel
			var targets []string
			if readable {
				for _, k := range a.registry.Targets(det.Kind) {
					targets = append(targets, k.String())
				}
			}
			facts = append(facts, []string{"Converts to", strings.Join(targets, ", ")})

			switch {
			case det.Legacy:
				facts = append(facts, oleFacts(data)...)
			case det.Kind == format.PDF:
				facts = append(facts, pdfFacts(cmd, data)...)
			}
			printFacts(a, facts)

			if !readable || !hasTables(det.Kind) {
				return nil
			}
			tables, warnings, err := convert.Tables(cmd.Context(), args[0], data, a.opts)
			var malformed *model.MalformedInputError
			switch {
			case errors.As(err, &malformed) && det.Kind != format.CSV && det.Kind != format.Excel:
				return nil
			case err != nil:
				return err
			}
			a.warn(warnings)
			for _, nt := range tables {
				fmt.Fprintf(a.stdout, "\n%s: %d rows x %d columns\n", nt.Name, nt.Table.RowCount(), nt.Table.ColumnCount())
				convert.Preview(a.stdout, nt.Table, rows, 24)
			}
			return nil
		},
	}
	cmd.Flags().Int("rows", 5, "data rows to preview per table")
	return cmd
}

func hasTables(k format.Kind) bool {
	switch k {
	case format.CSV, format.Excel, format.Word, format.HTML, format.PowerPoint:
		return true
	}
	return false
}

func oleFacts(data []byte) [][]string {
	info, err := format.Inspect(data)
	if err != nil {
		return [][]string{{"Compound file", err.Error()}}
	}
	facts := [][]string{{"Streams", strings.Join(info.Streams, ", ")}}
	names := make([]string, 0, len(info.Properties))
	for name := range info.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		facts = append(facts, []string{name, info.Properties[name]})
	}
	return facts
}

func pdfFacts(cmd *cobra.Command, data []byte) [][]string {
	res, err := pdftext.Extract(cmd.Context(), data)
	if err != nil {
		return [][]string{{"Text", err.Error()}}
	}
	facts := [][]string{
		{"Pages", strconv.Itoa(len(res.Pages))},
		{"Words", strconv.Itoa(res.Words)},
	}
	if res.Metadata.Title != "" {
		facts = append(facts, []string{"Title", res.Metadata.Title})
	}
	if res.Metadata.Author != "" {
		facts = append(facts, []string{"Author", res.Metadata.Author})
	}
	return facts
}

func printFacts(a *app, facts [][]string) {
	table := tablewriter.NewWriter(a.stdout)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetColumnSeparator("")
	table.AppendBulk(facts)
	table.Render()
}
