// Package config loads quire settings from a YAML file, QUIRE_* environment
// variables and command line flags through viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"

	"github.com/quirelabs/quire/convert"
	"github.com/quirelabs/quire/csvdoc"
	"github.com/quirelabs/quire/internal/logging"
	"github.com/quirelabs/quire/model"
	"github.com/quirelabs/quire/ocr"
	"github.com/quirelabs/quire/raster"
)

// Name is the config file name without extension and the env prefix.
const Name = "quire"

// Config mirrors the keys of quire.yaml.
type Config struct {
	Page    Page    `mapstructure:"page"`
	Layout  Layout  `mapstructure:"layout"`
	CSV     CSV     `mapstructure:"csv"`
	PDF     PDF     `mapstructure:"pdf"`
	Input   Input   `mapstructure:"input"`
	OCR     OCR     `mapstructure:"ocr"`
	Image   Image   `mapstructure:"image"`
	Log     Log     `mapstructure:"log"`
	Metrics Metrics `mapstructure:"metrics"`
}

type Page struct {
	Size   string  `mapstructure:"size"`
	Margin float64 `mapstructure:"margin"`
}

type Layout struct {
	Ladder         []float64 `mapstructure:"ladder"`
	MinColumnWidth float64   `mapstructure:"min_column_width"`
	PaddingX       float64   `mapstructure:"padding_x"`
	PaddingY       float64   `mapstructure:"padding_y"`
}

type CSV struct {
	Encodings []string `mapstructure:"encodings"`
	NoHeader  bool     `mapstructure:"no_header"`
	Delimiter string   `mapstructure:"delimiter"`
}

type PDF struct {
	PageLabels bool   `mapstructure:"page_labels"`
	FontFile   string `mapstructure:"font_file"`
}

type Input struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

type OCR struct {
	Languages []string `mapstructure:"languages"`
}

// Image configures PDF pages rendered to images.
type Image struct {
	Format string  `mapstructure:"format"`
	DPI    float64 `mapstructure:"dpi"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Metrics struct {
	File string `mapstructure:"file"`
}

// Init registers defaults and the QUIRE_ environment mapping on v, so that
// QUIRE_PAGE_SIZE overrides page.size.
func Init(v *viper.Viper) {
	def := convert.DefaultOptions()
	v.SetDefault("page.size", def.Layout.PageSize.Name)
	v.SetDefault("page.margin", def.Layout.Margins.Top)
	v.SetDefault("layout.ladder", def.Layout.FontLadder)
	v.SetDefault("layout.min_column_width", def.Layout.MinColumnWidth)
	v.SetDefault("layout.padding_x", def.Layout.PaddingX)
	v.SetDefault("layout.padding_y", def.Layout.PaddingY)
	v.SetDefault("csv.encodings", def.Encodings)
	v.SetDefault("csv.no_header", false)
	v.SetDefault("csv.delimiter", "")
	v.SetDefault("pdf.page_labels", false)
	v.SetDefault("pdf.font_file", "")
	v.SetDefault("input.max_bytes", def.MaxInputBytes)
	v.SetDefault("ocr.languages", []string{"eng"})
	v.SetDefault("image.format", def.Raster.Format.String())
	v.SetDefault("image.dpi", def.Raster.DPI)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("metrics.file", "")

	v.SetEnvPrefix(strings.ToUpper(Name))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// SearchPaths points v at quire.yaml in the working directory and in
// ~/.config/quire, or at file when it is set.
func SearchPaths(v *viper.Viper, file string) {
	if file != "" {
		v.SetConfigFile(file)
		return
	}
	v.SetConfigName(Name)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", Name))
	}
}

// Load unmarshals and validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := model.LookupPageSize(c.Page.Size); err != nil {
		return err
	}
	if c.Page.Margin < 0 {
		return &model.GeometryError{Field: "page.margin", Value: c.Page.Margin}
	}
	for _, enc := range c.CSV.Encodings {
		if !csvdoc.Supported(enc) {
			return fmt.Errorf("csv.encodings: unknown encoding %q", enc)
		}
	}
	if n := utf8.RuneCountInString(c.CSV.Delimiter); n > 1 {
		return fmt.Errorf("csv.delimiter: %q is not a single character", c.CSV.Delimiter)
	}
	if _, err := raster.ParseImageFormat(c.Image.Format); err != nil {
		return fmt.Errorf("image.format: %w", err)
	}
	if c.Image.DPI <= 0 {
		return fmt.Errorf("image.dpi: %g is not positive", c.Image.DPI)
	}
	if _, err := logging.GetLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := logging.GetFormatter(c.Log.Format); err != nil {
		return err
	}
	return nil
}

// Options builds the conversion options. The font file, if any, is read
// here.
func (c *Config) Options() (convert.Options, error) {
	opts := convert.DefaultOptions()

	size, err := model.LookupPageSize(c.Page.Size)
	if err != nil {
		return opts, err
	}
	opts.Layout.PageSize = size
	opts.Layout.Margins = model.UniformMargins(c.Page.Margin)
	if len(c.Layout.Ladder) > 0 {
		opts.Layout.FontLadder = append([]float64(nil), c.Layout.Ladder...)
	}
	opts.Layout.MinColumnWidth = c.Layout.MinColumnWidth
	opts.Layout.PaddingX = c.Layout.PaddingX
	opts.Layout.PaddingY = c.Layout.PaddingY
	if err := opts.Layout.Validate(); err != nil {
		return opts, err
	}
	opts.Flow.PageSize = size

	if len(c.CSV.Encodings) > 0 {
		opts.Encodings = append([]string(nil), c.CSV.Encodings...)
	}
	if c.CSV.Delimiter != "" {
		opts.Delimiter, _ = utf8.DecodeRuneInString(c.CSV.Delimiter)
	}
	opts.NoHeader = c.CSV.NoHeader
	opts.PageLabels = c.PDF.PageLabels
	opts.MaxInputBytes = c.Input.MaxBytes
	opts.OCR = ocr.Options{Languages: append([]string(nil), c.OCR.Languages...)}
	opts.Raster.DPI = c.Image.DPI
	if opts.Raster.Format, err = raster.ParseImageFormat(c.Image.Format); err != nil {
		return opts, err
	}

	if c.PDF.FontFile != "" {
		ttf, err := os.ReadFile(c.PDF.FontFile)
		if err != nil {
			return opts, fmt.Errorf("pdf.font_file: %w", err)
		}
		opts.FontTTF = ttf
	}
	return opts, nil
}
