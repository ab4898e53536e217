// Package main is the quire command line tool.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/quirelabs/quire/convert"
	"github.com/quirelabs/quire/internal/config"
	"github.com/quirelabs/quire/internal/logging"
	"github.com/quirelabs/quire/internal/metrics"
)

// version is set at build time via ldflags.
var version = "dev"

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"page-size":        "page.size",
	"margin":           "page.margin",
	"ladder":           "layout.ladder",
	"min-column-width": "layout.min_column_width",
	"encodings":        "csv.encodings",
	"no-header":        "csv.no_header",
	"delimiter":        "csv.delimiter",
	"page-labels":      "pdf.page_labels",
	"font-file":        "pdf.font_file",
	"max-bytes":        "input.max_bytes",
	"image-format":     "image.format",
	"dpi":              "image.dpi",
	"log-level":        "log.level",
	"log-format":       "log.format",
	"metrics-file":     "metrics.file",
}

// app is the state shared by the commands of one run.
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	opts    convert.Options
	log     *logrus.Logger
	metrics *metrics.Recorder

	registry *convert.Registry
	stdout   io.Writer
	stderr   io.Writer
}

func newRootCmd(stdout, stderr io.Writer) (*cobra.Command, *app) {
	a := &app{
		v:        viper.New(),
		registry: convert.DefaultRegistry(),
		stdout:   stdout,
		stderr:   stderr,
	}
	config.Init(a.v)

	rootCmd := &cobra.Command{
		Use:   "quire",
		Short: "Convert documents, spreadsheets and tables between formats",
		Long: `quire converts CSV, Excel, Word, PowerPoint, HTML, PDF, text and image
files on the local machine. Tables are laid out onto paginated PDF pages:
the page is turned and the font shrunk until the table fits, and wider or
longer tables are split into bands of columns and rows.

Settings come from quire.yaml (in the working directory or
~/.config/quire), QUIRE_* environment variables and flags, in increasing
order of precedence.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./quire.yaml or ~/.config/quire/quire.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn or error")
	pf.String("log-format", "text", "log format: text, json or json-pretty")
	pf.String("metrics-file", "", "write Prometheus metrics to this file when done")

	rootCmd.AddCommand(
		newConvertCmd(a),
		newPlanCmd(a),
		newFormatsCmd(a),
		newInspectCmd(a),
		newVersionCmd(a),
	)
	return rootCmd, a
}

// setup loads the configuration once flags are parsed.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	config.SearchPaths(a.v, cfgFile)
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && bindErr == nil {
			bindErr = a.v.BindPFlag(key, f)
		}
	})
	if bindErr != nil {
		return bindErr
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.log, err = logging.New(cfg.Log.Level, cfg.Log.Format, a.stderr); err != nil {
		return err
	}
	if used := a.v.ConfigFileUsed(); used != "" {
		a.log.WithField("file", used).Debug("Using config file.")
	}

	if a.opts, err = cfg.Options(); err != nil {
		return err
	}
	a.opts.Logger = a.log
	if cfg.Metrics.File != "" {
		a.metrics = metrics.New()
		a.opts.Observer = a.metrics
	}
	return nil
}

// flush writes the metrics file, if one was requested.
func (a *app) flush() error {
	if a.metrics == nil {
		return nil
	}
	return a.metrics.WriteFile(a.cfg.Metrics.File)
}

// addLayoutFlags registers the flags shared by commands that lay out tables.
func addLayoutFlags(fs *pflag.FlagSet) {
	fs.String("page-size", "A4", "paper size: A4, A3, Letter or Legal")
	fs.Float64("margin", 36, "page margin in points")
	fs.StringSlice("ladder", nil, "candidate font sizes, largest first (default 10,9,8,7,6)")
	fs.Float64("min-column-width", 36, "narrowest column width in points")
	fs.StringSlice("encodings", nil, "candidate CSV encodings in order (default utf-8,gbk,gb2312,latin-1,iso-8859-1)")
	fs.Bool("no-header", false, "treat the first row as data")
	fs.String("delimiter", "", "CSV field separator (default: sniffed)")
	fs.Int64("max-bytes", convert.DefaultMaxInputBytes, "largest accepted input in bytes")
}

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
)

func (a *app) warn(warnings []convert.Warning) {
	for _, w := range warnings {
		warnColor.Fprintf(a.stderr, "warning: %s\n", w)
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	rootCmd, a := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if ferr := a.flush(); ferr != nil && err == nil {
		err = fmt.Errorf("write metrics: %w", ferr)
	}
	if err != nil {
		errColor.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
