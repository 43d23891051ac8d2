package isochrone

import (
	"encoding/csv"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/agentstation/gaiacmd/pkg/errors"
)

// Point is one row of an isochrone grid. Magnitudes are absolute, i.e. at 10 pc.
type Point struct {
	LogAge float64
	FeH    float64
	BP     float64
	G      float64
	RP     float64
}

// Mag returns the magnitude in band b.
func (p Point) Mag(b Band) float64 {
	switch b {
	case BandBP:
		return p.BP
	case BandG:
		return p.G
	case BandRP:
		return p.RP
	default:
		return math.NaN()
	}
}

// Grid is a parsed isochrone table.
type Grid struct {
	Points []Point
}

var requiredColumns = []string{"logage", "feh", "bp", "g", "rp"}

// ParseGrid reads a comma-separated grid with a header row. The columns
// logage, feh, bp, g and rp are required in any order; others are ignored.
func ParseGrid(r io.Reader) (*Grid, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	header, err := reader.Read()
	if err != nil {
		return nil, errors.WrapParse("csv", "isochrone grid header", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	cols := make([]int, len(requiredColumns))
	for i, name := range requiredColumns {
		idx, ok := index[name]
		if !ok {
			return nil, errors.NewParseError("csv", "isochrone grid", "missing column "+name, nil)
		}
		cols[i] = idx
	}

	grid := &Grid{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &errors.ParseError{Format: "csv", File: "isochrone grid", Line: line, Message: err.Error(), Err: err}
		}

		var values [5]float64
		for i, idx := range cols {
			v, err := gridCell(record[idx], i >= 2)
			if err != nil {
				return nil, &errors.ParseError{Format: "csv", File: "isochrone grid", Line: line, Message: requiredColumns[i], Err: err}
			}
			values[i] = v
		}
		grid.Points = append(grid.Points, Point{
			LogAge: values[0],
			FeH:    values[1],
			BP:     values[2],
			G:      values[3],
			RP:     values[4],
		})
	}

	return grid, nil
}

// Ages returns the sorted unique log ages in the grid.
func (g *Grid) Ages() []float64 {
	return uniqueSorted(g.Points, func(p Point) float64 { return p.LogAge })
}

// Metallicities returns the sorted unique [Fe/H] values in the grid.
func (g *Grid) Metallicities() []float64 {
	return uniqueSorted(g.Points, func(p Point) float64 { return p.FeH })
}

// Subset returns the rows whose age and metallicity equal the given values exactly.
func (g *Grid) Subset(logAge, feh float64) []Point {
	var out []Point
	for _, p := range g.Points {
		if p.LogAge == logAge && p.FeH == feh {
			out = append(out, p)
		}
	}
	return out
}

// Nearest returns the element of values closest to target by absolute
// difference. Ties go to the later element, which for the ascending slices
// returned by Ages and Metallicities is the larger value. ok is false when
// values is empty.
func Nearest(values []float64, target float64) (nearest float64, ok bool) {
	best := math.Inf(1)
	for _, v := range values {
		if d := math.Abs(v - target); d <= best {
			best = d
			nearest = v
			ok = true
		}
	}
	return nearest, ok
}

// gridCell parses one value. Empty magnitude cells are NaN; logage and feh
// must always be present.
func gridCell(raw string, magnitude bool) (float64, error) {
	raw = strings.TrimSpace(raw)
	if magnitude && (raw == "" || strings.EqualFold(raw, "nan")) {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(raw, 64)
}

func uniqueSorted(points []Point, key func(Point) float64) []float64 {
	seen := make(map[float64]struct{})
	var out []float64
	for _, p := range points {
		v := key(p)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}

func formatTwo(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
