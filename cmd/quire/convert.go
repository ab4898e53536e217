package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quirelabs/quire/format"
)

func newConvertCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert a file to another format",
		Long: `Convert reads one input file, detects its format from its content and
name, and writes the converted files next to it or into --out-dir.

Excel to CSV writes one file per sheet and PDF to image one file per
page. Tables converted to PDF are laid
out to fit the page; see "quire plan" to preview the layout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toFlag, _ := cmd.Flags().GetString("to")
			to, err := format.ParseKind(toFlag)
			if err != nil {
				return err
			}
			outDir, _ := cmd.Flags().GetString("out-dir")
			if outDir == "" {
				outDir = filepath.Dir(args[0])
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			res, err := a.registry.Convert(cmd.Context(), args[0], data, to, a.opts)
			if err != nil {
				return err
			}
			a.warn(res.Warnings)

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			for _, art := range res.Artifacts {
				path := filepath.Join(outDir, art.Name)
				if err := os.WriteFile(path, art.Data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", art.Name, err)
				}
				okColor.Fprintf(a.stdout, "wrote %s (%d bytes)\n", path, len(art.Data))
			}
			return nil
		},
	}

	cmd.Flags().StringP("to", "t", "", "target format: pdf, text, word, excel, csv or image")
	cmd.Flags().StringP("out-dir", "o", "", "output directory (default: the input's directory)")
	cmd.Flags().Bool("page-labels", false, "print \"Page i of n\" on PDF pages")
	cmd.Flags().String("font-file", "", "TrueType font for PDF text outside Latin-1")
	cmd.Flags().String("image-format", "png", "page image format for PDF to image: png, jpg, bmp or tiff")
	cmd.Flags().Float64("dpi", 150, "resolution of page images")
	_ = cmd.MarkFlagRequired("to")
	addLayoutFlags(cmd.Flags())
	return cmd
}
