package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/quirelabs/quire/convert"
)

func newPlanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <input>",
		Short: "Show how the tables of a file would be laid out",
		Long: `Plan reads the tables of a CSV, Excel, Word, HTML or PowerPoint file and
prints the layout chosen for each: orientation, font size and how the
table is split into column bands and pages. Nothing is rendered.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			plans, warnings, err := convert.Plan(cmd.Context(), args[0], data, a.opts)
			if err != nil {
				return err
			}
			a.warn(warnings)

			switch output {
			case "table":
				printPlans(a, plans)
				return nil
			case "json":
				b, err := json.MarshalIndent(plans, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, string(b))
				return nil
			case "yaml":
				b, err := yaml.Marshal(plans)
				if err != nil {
					return err
				}
				fmt.Fprint(a.stdout, string(b))
				return nil
			default:
				return fmt.Errorf("unknown output format %q", output)
			}
		},
	}

	cmd.Flags().StringP("output", "o", "table", "output format: table, yaml or json")
	addLayoutFlags(cmd.Flags())
	return cmd
}

func printPlans(a *app, plans []convert.SheetPlan) {
	table := tablewriter.NewWriter(a.stdout)
	table.SetHeader([]string{"Table", "Rows", "Columns", "Orientation", "Font", "Fits", "Column bands", "Pages"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, sp := range plans {
		st := sp.Plan.Stats()
		table.Append([]string{
			sp.Name,
			strconv.Itoa(sp.Table.RowCount()),
			strconv.Itoa(st.Columns),
			st.Orientation.String(),
			strconv.FormatFloat(st.FontSize, 'g', -1, 64) + "pt",
			strconv.FormatBool(st.Fits),
			strconv.Itoa(st.ColumnBands),
			strconv.Itoa(st.Pages),
		})
	}
	table.Render()
}
