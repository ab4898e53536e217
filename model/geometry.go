package model

import (
	"fmt"
	"strings"
)

// Orientation is the page orientation chosen for a layout.
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

// PageSize is a paper size in points, expressed in portrait.
type PageSize struct {
	Name   string
	Width  float64
	Height float64
}

// Standard paper sizes.
var (
	A4     = PageSize{Name: "A4", Width: 595.28, Height: 841.89}
	A3     = PageSize{Name: "A3", Width: 841.89, Height: 1190.55}
	Letter = PageSize{Name: "Letter", Width: 612, Height: 792}
	Legal  = PageSize{Name: "Legal", Width: 612, Height: 1008}
)

// LookupPageSize finds a standard paper size by case-insensitive name.
func LookupPageSize(name string) (PageSize, error) {
	for _, ps := range []PageSize{A4, A3, Letter, Legal} {
		if strings.EqualFold(ps.Name, name) {
			return ps, nil
		}
	}
	return PageSize{}, &GeometryError{Field: "page size", Reason: fmt.Sprintf("unknown page size %q", name)}
}

// Oriented returns the page width and height for the given orientation.
func (ps PageSize) Oriented(o Orientation) (w, h float64) {
	short, long := ps.Width, ps.Height
	if short > long {
		short, long = long, short
	}
	if o == Landscape {
		return long, short
	}
	return short, long
}

// Margins are the blank borders of a page in points.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// UniformMargins returns margins of m on every side.
func UniformMargins(m float64) Margins {
	return Margins{Top: m, Right: m, Bottom: m, Left: m}
}

// Usable returns the printable width and height of a page of w x h points.
func (m Margins) Usable(w, h float64) (float64, float64) {
	return w - m.Left - m.Right, h - m.Top - m.Bottom
}

// Rect is an axis-aligned rectangle with a top-left origin.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Right returns the right edge X coordinate.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the bottom edge Y coordinate.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Fit scales a w x h box to fit inside r while keeping its aspect ratio and
// centers it.
func (r Rect) Fit(w, h float64) Rect {
	if w <= 0 || h <= 0 {
		return Rect{X: r.X, Y: r.Y}
	}
	scale := r.Width / w
	if s := r.Height / h; s < scale {
		scale = s
	}
	fw, fh := w*scale, h*scale
	return Rect{
		X:      r.X + (r.Width-fw)/2,
		Y:      r.Y + (r.Height-fh)/2,
		Width:  fw,
		Height: fh,
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Orientation) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "portrait":
		*o = Portrait
	case "landscape":
		*o = Landscape
	default:
		return fmt.Errorf("unknown orientation %q", b)
	}
	return nil
}
