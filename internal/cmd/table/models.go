// Package table converts gaiacmd results into rows for table output.
package table

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/gaiacmd/pkg/coords"
	"github.com/agentstation/gaiacmd/pkg/gaia"
	"github.com/agentstation/gaiacmd/pkg/isochrone"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// CoordinateToTableData renders a resolved position as a single row.
func CoordinateToTableData(object string, c coords.Coordinate) Data {
	return Data{
		Headers:         []string{"Object", "RA (deg)", "Dec (deg)", "Frame"},
		Rows:            [][]string{{object, FormatFloat(c.RA, 6), FormatFloat(c.Dec, 6), c.Frame}},
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight, AlignLeft},
	}
}

// StarsToTableData converts a selection to table format. Wide output adds
// the position columns and the separation from the cone center.
func StarsToTableData(stars []gaia.Star, wide bool) Data {
	headers := []string{"Source ID", "BP", "G", "RP", "BP-RP"}
	align := []Align{AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight}
	if wide {
		headers = append(headers, "RA", "Dec", "Dist (arcsec)")
		align = append(align, AlignRight, AlignRight, AlignRight)
	}

	rows := make([][]string, 0, len(stars))
	for _, s := range stars {
		row := []string{
			strconv.FormatInt(s.SourceID, 10),
			FormatFloat(s.BP, 3),
			FormatFloat(s.G, 3),
			FormatFloat(s.RP, 3),
			FormatFloat(s.BP-s.RP, 3),
		}
		if wide {
			row = append(row,
				FormatFloat(s.RA, 6),
				FormatFloat(s.Dec, 6),
				FormatFloat(s.Distance*3600, 2),
			)
		}
		rows = append(rows, row)
	}

	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: align,
	}
}

// IsochroneToTableData lists the color and magnitude of each isochrone point.
func IsochroneToTableData(res *isochrone.Result) Data {
	colorHeader := string(res.Blue) + "-" + string(res.Red)
	rows := make([][]string, 0, len(res.Color))
	for i := range res.Color {
		if i >= len(res.Magnitude) {
			break
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			FormatFloat(res.Color[i], 4),
			FormatFloat(res.Magnitude[i], 4),
		})
	}

	return Data{
		Headers:         []string{"#", colorHeader, string(res.Mag)},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignRight, AlignRight},
	}
}

// FormatFloat formats v with prec decimals, or "-" when it is not finite.
func FormatFloat(v float64, prec int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// Properties renders key/value pairs as a two-column table. Keys are
// snake_case and shown title-cased, e.g. "output_file" as "Output File".
// Pairs with an empty value are skipped.
func Properties(pairs ...[2]string) Data {
	title := cases.Title(language.English)
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		if p[1] == "" {
			continue
		}
		rows = append(rows, []string{title.String(strings.ReplaceAll(p[0], "_", " ")), p[1]})
	}
	return Data{
		Headers:         []string{"Property", "Value"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft},
	}
}
