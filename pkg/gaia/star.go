// Package gaia selects stars with usable photometry from the Gaia archive.
package gaia

import (
	"math"

	"github.com/agentstation/utc"

	"github.com/agentstation/gaiacmd/pkg/coords"
)

// Star is one catalog row from a cone search. Missing magnitudes are NaN.
type Star struct {
	SourceID int64   `json:"source_id" yaml:"source_id"`
	RA       float64 `json:"ra" yaml:"ra"`
	Dec      float64 `json:"dec" yaml:"dec"`
	BP       float64 `json:"phot_bp_mean_mag" yaml:"phot_bp_mean_mag"`
	G        float64 `json:"phot_g_mean_mag" yaml:"phot_g_mean_mag"`
	RP       float64 `json:"phot_rp_mean_mag" yaml:"phot_rp_mean_mag"`
	// Distance is the angular separation from the cone center in degrees.
	Distance float64 `json:"dist" yaml:"dist"`
}

// HasPhotometry reports whether BP, G and RP are all finite.
func (s Star) HasPhotometry() bool {
	return finite(s.BP) && finite(s.G) && finite(s.RP)
}

// FilterPhotometry returns the stars whose BP, G and RP magnitudes are all
// finite, preserving order. The result is never nil.
func FilterPhotometry(stars []Star) []Star {
	out := make([]Star, 0, len(stars))
	for _, s := range stars {
		if s.HasPhotometry() {
			out = append(out, s)
		}
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Selection is the outcome of a cone search after photometry filtering.
type Selection struct {
	Object       string            `json:"object" yaml:"object"`
	Center       coords.Coordinate `json:"center" yaml:"center"`
	RadiusArcmin float64           `json:"radius_arcmin" yaml:"radius_arcmin"`
	// Returned counts rows delivered by the archive before filtering.
	Returned  int      `json:"returned" yaml:"returned"`
	Stars     []Star   `json:"stars" yaml:"stars"`
	QueriedAt utc.Time `json:"queried_at" yaml:"queried_at"`
}
