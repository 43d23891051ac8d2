package output

import (
	"io"
	"math"
	"time"

	"github.com/agentstation/gaiacmd/internal/cmd/table"
	"github.com/agentstation/gaiacmd/pkg/coords"
	"github.com/agentstation/gaiacmd/pkg/gaia"
	"github.com/agentstation/gaiacmd/pkg/isochrone"
)

// isTable reports whether format renders rows rather than documents.
func isTable(format Format) bool {
	switch format {
	case FormatTable, FormatWide, "":
		return true
	default:
		return false
	}
}

// FormatCoordinate writes a resolved position.
func FormatCoordinate(w io.Writer, format Format, object string, c coords.Coordinate) error {
	if isTable(format) {
		return NewFormatter(format).Format(w, table.CoordinateToTableData(object, c))
	}
	return NewFormatter(format).Format(w, struct {
		Object string            `json:"object" yaml:"object"`
		Center coords.Coordinate `json:"center" yaml:"center"`
	}{object, c})
}

// FormatSelection writes the stars of a selection, or the whole selection
// for document formats.
func FormatSelection(w io.Writer, format Format, sel *gaia.Selection) error {
	if isTable(format) {
		return NewFormatter(format).Format(w, table.StarsToTableData(sel.Stars, format == FormatWide))
	}
	return NewFormatter(format).Format(w, selectionDocument(sel))
}

// FormatIsochrone writes the points of an isochrone.
func FormatIsochrone(w io.Writer, format Format, res *isochrone.Result) error {
	if isTable(format) {
		return NewFormatter(format).Format(w, table.IsochroneToTableData(res))
	}
	return NewFormatter(format).Format(w, res)
}

// FormatAny writes any value in format.
func FormatAny(w io.Writer, format Format, data any) error {
	return NewFormatter(format).Format(w, data)
}

// selectionDocument replaces NaN magnitudes, which JSON cannot encode.
// Filtered selections never contain any, but hand-built ones may.
func selectionDocument(sel *gaia.Selection) any {
	type star struct {
		SourceID int64    `json:"source_id" yaml:"source_id"`
		RA       float64  `json:"ra" yaml:"ra"`
		Dec      float64  `json:"dec" yaml:"dec"`
		BP       *float64 `json:"phot_bp_mean_mag" yaml:"phot_bp_mean_mag"`
		G        *float64 `json:"phot_g_mean_mag" yaml:"phot_g_mean_mag"`
		RP       *float64 `json:"phot_rp_mean_mag" yaml:"phot_rp_mean_mag"`
		Distance *float64 `json:"dist" yaml:"dist"`
	}
	stars := make([]star, len(sel.Stars))
	for i, s := range sel.Stars {
		stars[i] = star{
			SourceID: s.SourceID,
			RA:       s.RA,
			Dec:      s.Dec,
			BP:       finiteOrNil(s.BP),
			G:        finiteOrNil(s.G),
			RP:       finiteOrNil(s.RP),
			Distance: finiteOrNil(s.Distance),
		}
	}
	return struct {
		Object       string            `json:"object" yaml:"object"`
		Center       coords.Coordinate `json:"center" yaml:"center"`
		RadiusArcmin float64           `json:"radius_arcmin" yaml:"radius_arcmin"`
		Returned     int               `json:"returned" yaml:"returned"`
		Kept         int               `json:"kept" yaml:"kept"`
		QueriedAt    string            `json:"queried_at" yaml:"queried_at"`
		Stars        []star            `json:"stars" yaml:"stars"`
	}{
		Object:       sel.Object,
		Center:       sel.Center,
		RadiusArcmin: sel.RadiusArcmin,
		Returned:     sel.Returned,
		Kept:         len(sel.Stars),
		QueriedAt:    sel.QueriedAt.Format(time.RFC3339),
		Stars:        stars,
	}
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
