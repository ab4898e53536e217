package quire

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/quirelabs/quire/convert"
	"github.com/quirelabs/quire/model"
)

// Converter provides a fluent interface for configuring a conversion.
// Each configuration method returns a new Converter, so a partly configured
// Converter can be shared and reused safely.
type Converter struct {
	// Source
	path string
	name string
	data []byte

	ctx      context.Context
	registry *convert.Registry
	fontFile string

	// Configuration
	opts convert.Options

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Converter with a deep copy of options.
func (c *Converter) clone() *Converter {
	return &Converter{
		path:     c.path,
		name:     c.name,
		data:     c.data,
		ctx:      c.ctx,
		registry: c.registry,
		fontFile: c.fontFile,
		opts:     c.opts.Clone(),
		err:      c.err,
	}
}

// ============================================================================
// Configuration Methods (return new Converter instance)
// ============================================================================

// Context sets the context checked between pages and sheets.
func (c *Converter) Context(ctx context.Context) *Converter {
	n := c.clone()
	n.ctx = ctx
	return n
}

// Registry replaces the built-in conversion strategies.
func (c *Converter) Registry(r *convert.Registry) *Converter {
	n := c.clone()
	n.registry = r
	return n
}

// PageSize selects the paper size by name: A4, A3, Letter or Legal.
//
// Example:
//
//	files, _, err := quire.Open("wide.csv").PageSize("A3").Convert(quire.PDF)
func (c *Converter) PageSize(name string) *Converter {
	n := c.clone()
	size, err := model.LookupPageSize(name)
	if err != nil {
		n.setErr(err)
		return n
	}
	n.opts.Layout.PageSize = size
	n.opts.Flow.PageSize = size
	return n
}

// Margins sets the same margin, in points, on every side of table pages.
func (c *Converter) Margins(points float64) *Converter {
	n := c.clone()
	n.opts.Layout.Margins = model.UniformMargins(points)
	return n
}

// FontLadder sets the candidate font sizes for tables, largest first.
//
// Example:
//
//	plans, _, err := quire.Open("wide.csv").FontLadder(8, 7, 6, 5).Plan()
func (c *Converter) FontLadder(sizes ...float64) *Converter {
	n := c.clone()
	n.opts.Layout.FontLadder = append([]float64(nil), sizes...)
	return n
}

// MinColumnWidth sets the narrowest a table column may be squeezed to.
func (c *Converter) MinColumnWidth(points float64) *Converter {
	n := c.clone()
	n.opts.Layout.MinColumnWidth = points
	return n
}

// Padding sets the blank space around cell text.
func (c *Converter) Padding(x, y float64) *Converter {
	n := c.clone()
	n.opts.Layout.PaddingX = x
	n.opts.Layout.PaddingY = y
	return n
}

// NoHeader treats the first row of every table as data.
func (c *Converter) NoHeader() *Converter {
	n := c.clone()
	n.opts.NoHeader = true
	return n
}

// Encodings sets the candidate encodings of CSV and text input, tried in
// order.
func (c *Converter) Encodings(names ...string) *Converter {
	n := c.clone()
	n.opts.Encodings = append([]string(nil), names...)
	return n
}

// PageLabels prints "Page i of n" on produced PDF pages.
func (c *Converter) PageLabels() *Converter {
	n := c.clone()
	n.opts.PageLabels = true
	return n
}

// FontFile uses a TrueType font for PDF text. It is needed for scripts
// outside Latin-1. The file is read by the terminal operation.
func (c *Converter) FontFile(path string) *Converter {
	n := c.clone()
	n.fontFile = path
	return n
}

// Logger sends request logs to l. By default nothing is logged.
func (c *Converter) Logger(l logrus.FieldLogger) *Converter {
	n := c.clone()
	n.opts.Logger = l
	return n
}

func (c *Converter) setErr(err error) {
	if c.err == nil {
		c.err = err
	}
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Convert converts the source to the target format and returns the produced
// files. Warnings indicate non-fatal issues such as an encoding fallback or
// a table too wide for one page.
//
// Example:
//
//	files, warnings, err := quire.Open("book.xlsx").Convert(quire.CSV)
//	for _, f := range files {
//	    os.WriteFile(f.Name, f.Data, 0o644)
//	}
func (c *Converter) Convert(to Kind) ([]Artifact, []Warning, error) {
	data, opts, err := c.prepare()
	if err != nil {
		return nil, nil, err
	}
	r := c.registry
	if r == nil {
		r = convert.DefaultRegistry()
	}
	res, err := r.Convert(c.requestContext(), c.name, data, to, opts)
	if err != nil {
		return nil, nil, err
	}
	return res.Artifacts, res.Warnings, nil
}

// Plan lays out every table of the source without rendering it.
func (c *Converter) Plan() ([]SheetPlan, []Warning, error) {
	data, opts, err := c.prepare()
	if err != nil {
		return nil, nil, err
	}
	return convert.Plan(c.requestContext(), c.name, data, opts)
}

// Tables returns every table of the source: the sheets of CSV and Excel
// files and the embedded tables of Word, HTML and PowerPoint files.
func (c *Converter) Tables() ([]NamedTable, []Warning, error) {
	data, opts, err := c.prepare()
	if err != nil {
		return nil, nil, err
	}
	return convert.Tables(c.requestContext(), c.name, data, opts)
}

func (c *Converter) prepare() ([]byte, convert.Options, error) {
	if c.err != nil {
		return nil, c.opts, c.err
	}
	opts := c.opts.Clone()
	if c.fontFile != "" {
		ttf, err := os.ReadFile(c.fontFile)
		if err != nil {
			return nil, opts, fmt.Errorf("failed to read font: %w", err)
		}
		opts.FontTTF = ttf
	}

	if c.data != nil || c.path == "" {
		return c.data, opts, nil
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, opts, fmt.Errorf("failed to open %s: %w", c.path, err)
	}
	return data, opts, nil
}

func (c *Converter) requestContext() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}
