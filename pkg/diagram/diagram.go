// Package diagram renders color-magnitude diagrams with gonum/plot.
package diagram

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/agentstation/gaiacmd/pkg/constants"
	"github.com/agentstation/gaiacmd/pkg/errors"
	"github.com/agentstation/gaiacmd/pkg/gaia"
	"github.com/agentstation/gaiacmd/pkg/isochrone"
)

// Styling of the two layers.
var (
	StarColor      = color.RGBA{A: 255}
	IsochroneColor = color.RGBA{R: 199, G: 21, B: 133, A: 255} // mediumvioletred
)

// Formats lists the output formats Render accepts.
var Formats = []string{"png", "svg", "pdf", "eps", "jpg", "jpeg", "tif", "tiff"}

// Series is a set of points in CMD coordinates.
type Series struct {
	Color     []float64
	Magnitude []float64
}

// Len returns the number of points.
func (s Series) Len() int {
	return len(s.Color)
}

// XY implements plotter.XYer.
func (s Series) XY(i int) (x, y float64) {
	return s.Color[i], s.Magnitude[i]
}

// StarSeries projects stars onto the chosen bands. Stars with a non-finite
// value in any chosen band are skipped.
func StarSeries(stars []gaia.Star, blue, red, mag isochrone.Band) Series {
	s := Series{
		Color:     make([]float64, 0, len(stars)),
		Magnitude: make([]float64, 0, len(stars)),
	}
	for _, star := range stars {
		c := starMag(star, blue) - starMag(star, red)
		m := starMag(star, mag)
		if !finite(c) || !finite(m) {
			continue
		}
		s.Color = append(s.Color, c)
		s.Magnitude = append(s.Magnitude, m)
	}
	return s
}

// IsochroneSeries returns the finite points of an isochrone result.
func IsochroneSeries(res *isochrone.Result) Series {
	s := Series{}
	if res == nil {
		return s
	}
	for i := range res.Color {
		if i >= len(res.Magnitude) {
			break
		}
		if !finite(res.Color[i]) || !finite(res.Magnitude[i]) {
			continue
		}
		s.Color = append(s.Color, res.Color[i])
		s.Magnitude = append(s.Magnitude, res.Magnitude[i])
	}
	return s
}

// Options describes one diagram.
type Options struct {
	// Title is usually the object identifier.
	Title string
	Stars []gaia.Star
	Blue  isochrone.Band
	Red   isochrone.Band
	Mag   isochrone.Band
	// Isochrone is overlaid as a line when set.
	Isochrone *isochrone.Result
	// Label names the isochrone in the legend. Empty derives one from Isochrone.
	Label string
	// Width and Height in inches. Zero means constants.DefaultPlotSize.
	Width  float64
	Height float64
}

func (o Options) withDefaults() Options {
	if o.Blue == "" {
		o.Blue = isochrone.BandBP
	}
	if o.Red == "" {
		o.Red = isochrone.BandRP
	}
	if o.Mag == "" {
		o.Mag = isochrone.BandRP
	}
	if o.Width <= 0 {
		o.Width = constants.DefaultPlotSize
	}
	if o.Height <= 0 {
		o.Height = constants.DefaultPlotSize
	}
	if o.Label == "" && o.Isochrone != nil {
		o.Label = fmt.Sprintf("%s log age = %.2f, [Fe/H] = %.2f",
			o.Isochrone.Family.Display(), o.Isochrone.LogAge, o.Isochrone.FeH)
	}
	return o
}

// New builds the plot: catalog stars as black points, the optional isochrone
// as a connected line, and a magnitude axis that increases downward.
func New(opts Options) (*plot.Plot, error) {
	opts = opts.withDefaults()
	for _, b := range []isochrone.Band{opts.Blue, opts.Red, opts.Mag} {
		if !b.Valid() {
			return nil, errors.NewUnsupportedError("band", string(b), []string{"bp", "g", "rp"})
		}
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = fmt.Sprintf("%s - %s", opts.Blue, opts.Red)
	p.Y.Label.Text = opts.Mag.String()
	p.Y.Scale = plot.InvertedScale{Normalizer: p.Y.Scale}

	stars := StarSeries(opts.Stars, opts.Blue, opts.Red, opts.Mag)
	if stars.Len() > 0 {
		scatter, err := plotter.NewScatter(stars)
		if err != nil {
			return nil, errors.WrapResource("render", "plot", "stars", err)
		}
		scatter.GlyphStyle.Color = StarColor
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Radius = vg.Points(1)
		p.Add(scatter)
	}

	if opts.Isochrone != nil {
		iso := IsochroneSeries(opts.Isochrone)
		if iso.Len() > 0 {
			line, err := plotter.NewLine(iso)
			if err != nil {
				return nil, errors.WrapResource("render", "plot", "isochrone", err)
			}
			line.LineStyle.Color = IsochroneColor
			line.LineStyle.Width = vg.Points(1.5)
			p.Add(line)
			p.Legend.Add(opts.Label, line)
			p.Legend.Top = true
		}
	}

	return p, nil
}

// Render writes the diagram to w in format (see Formats).
func Render(w io.Writer, format string, opts Options) error {
	format, err := ParseFormat(format)
	if err != nil {
		return err
	}
	p, err := New(opts)
	if err != nil {
		return err
	}
	opts = opts.withDefaults()

	wt, err := p.WriterTo(vg.Length(opts.Width)*vg.Inch, vg.Length(opts.Height)*vg.Inch, format)
	if err != nil {
		return errors.WrapResource("render", "plot", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.WrapIO("write", "plot", err)
	}
	return nil
}

// Save renders the diagram to path, choosing the format from its extension.
func Save(path string, opts Options) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.WrapIO("close", path, cerr)
		}
	}()

	return Render(f, format, opts)
}

// FormatFromPath returns the output format implied by the file extension.
func FormatFromPath(path string) (string, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", errors.NewValidationError("output", path, "file name needs an extension such as .png or .svg")
	}
	return ParseFormat(ext)
}

// ParseFormat normalizes and validates a format name.
func ParseFormat(format string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.NewUnsupportedError("plot format", format, Formats)
}

func starMag(s gaia.Star, b isochrone.Band) float64 {
	switch b {
	case isochrone.BandBP:
		return s.BP
	case isochrone.BandG:
		return s.G
	case isochrone.BandRP:
		return s.RP
	default:
		return math.NaN()
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
