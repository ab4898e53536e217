package layout

import (
	"fmt"

	"github.com/quirelabs/quire/model"
)

// Config holds the page constraints for planning.
type Config struct {
	// PageSize is the paper size, given in portrait
	// Default: A4
	PageSize model.PageSize

	// Margins around the printable area, in points
	// Default: 36 points on every side
	Margins model.Margins

	// FontLadder lists candidate font sizes, strictly descending
	// Default: 10, 9, 8, 7, 6
	FontLadder []float64

	// MinColumnWidth is the narrowest a column may be squeezed to
	// Default: 36 points
	MinColumnWidth float64

	// PaddingX is the blank space left and right of cell text
	// Default: 3 points
	PaddingX float64

	// PaddingY is the blank space above and below cell text
	// Default: 2 points
	PaddingY float64

	// HeaderBold renders and measures the header row in bold
	// Default: true
	HeaderBold bool
}

// DefaultConfig returns the default planning configuration.
func DefaultConfig() Config {
	return Config{
		PageSize:       model.A4,
		Margins:        model.UniformMargins(36),
		FontLadder:     []float64{10, 9, 8, 7, 6},
		MinColumnWidth: 36,
		PaddingX:       3,
		PaddingY:       2,
		HeaderBold:     true,
	}
}

// UsableWidth returns the printable width for orientation o.
func (c Config) UsableWidth(o model.Orientation) float64 {
	w, h := c.PageSize.Oriented(o)
	uw, _ := c.Margins.Usable(w, h)
	return uw
}

// UsableHeight returns the printable height for orientation o.
func (c Config) UsableHeight(o model.Orientation) float64 {
	w, h := c.PageSize.Oriented(o)
	_, uh := c.Margins.Usable(w, h)
	return uh
}

// Validate reports the first invalid setting as a *model.GeometryError.
func (c Config) Validate() error {
	for _, o := range []model.Orientation{model.Portrait, model.Landscape} {
		if w := c.UsableWidth(o); w <= 0 {
			return &model.GeometryError{Field: o.String() + " usable width", Value: w}
		}
		if h := c.UsableHeight(o); h <= 0 {
			return &model.GeometryError{Field: o.String() + " usable height", Value: h}
		}
	}

	if len(c.FontLadder) == 0 {
		return &model.GeometryError{Field: "font ladder", Reason: "no candidate sizes"}
	}
	for i, size := range c.FontLadder {
		if size <= 0 {
			return &model.GeometryError{Field: "font size", Value: size}
		}
		if i > 0 && size >= c.FontLadder[i-1] {
			return &model.GeometryError{
				Field:  "font ladder",
				Reason: fmt.Sprintf("sizes must be strictly descending, %g follows %g", size, c.FontLadder[i-1]),
			}
		}
	}

	if c.MinColumnWidth <= 0 {
		return &model.GeometryError{Field: "minimum column width", Value: c.MinColumnWidth}
	}
	if lw := c.UsableWidth(model.Landscape); c.MinColumnWidth > lw {
		return &model.GeometryError{
			Field:  "minimum column width",
			Reason: fmt.Sprintf("%g exceeds usable width %g", c.MinColumnWidth, lw),
		}
	}
	if c.PaddingX < 0 {
		return &model.GeometryError{Field: "horizontal padding", Value: c.PaddingX}
	}
	if c.PaddingY < 0 {
		return &model.GeometryError{Field: "vertical padding", Value: c.PaddingY}
	}
	return nil
}

func (c Config) clone() Config {
	c.FontLadder = append([]float64(nil), c.FontLadder...)
	return c
}
