// Package isochrone looks up nearest-match theoretical isochrones from
// precomputed MIST and PARSEC grids of Gaia EDR3 synthetic photometry.
//
// Grids are never interpolated: the closest available log age and the
// closest available [Fe/H] are chosen independently and the matching rows
// are returned as-is.
package isochrone

import (
	"strings"

	"github.com/agentstation/gaiacmd/pkg/errors"
)

// Family names a stellar model grid.
type Family string

// Supported model families.
const (
	FamilyMIST   Family = "mist"
	FamilyPARSEC Family = "parsec"
)

// Families lists every supported family.
var Families = []Family{FamilyMIST, FamilyPARSEC}

// ParseFamily parses a family name case-insensitively.
func ParseFamily(s string) (Family, error) {
	f := Family(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", errors.NewUnsupportedError("model family", s, familyNames())
	}
	return f, nil
}

// Valid reports whether f is a supported family.
func (f Family) Valid() bool {
	return f == FamilyMIST || f == FamilyPARSEC
}

// String implements fmt.Stringer.
func (f Family) String() string {
	return string(f)
}

// Display returns the conventional upper-case spelling, e.g. "MIST".
func (f Family) Display() string {
	return strings.ToUpper(string(f))
}

func familyNames() []string {
	names := make([]string, len(Families))
	for i, f := range Families {
		names[i] = string(f)
	}
	return names
}

// Band is a Gaia photometric passband.
type Band string

// Gaia passbands.
const (
	BandBP Band = "bp"
	BandG  Band = "g"
	BandRP Band = "rp"
)

// Bands lists every passband.
var Bands = []Band{BandBP, BandG, BandRP}

// ParseBand parses a band name case-insensitively.
func ParseBand(s string) (Band, error) {
	b := Band(strings.ToLower(strings.TrimSpace(s)))
	if !b.Valid() {
		return "", errors.NewUnsupportedError("band", s, bandNames())
	}
	return b, nil
}

// ValidateBands checks the color and magnitude bands of a diagram.
func ValidateBands(blue, red, mag Band) error {
	bands := []struct {
		field string
		band  Band
	}{{"blue", blue}, {"red", red}, {"mag", mag}}
	for _, b := range bands {
		if !b.band.Valid() {
			return errors.WrapValidation(b.field, errors.NewUnsupportedError("band", string(b.band), bandNames()))
		}
	}
	return nil
}

func bandNames() []string {
	names := make([]string, len(Bands))
	for i, b := range Bands {
		names[i] = string(b)
	}
	return names
}

// Valid reports whether b is a known passband.
func (b Band) Valid() bool {
	return b == BandBP || b == BandG || b == BandRP
}

// String implements fmt.Stringer.
func (b Band) String() string {
	return string(b)
}

// CatalogColumn returns the Gaia archive column holding this band's mean magnitude.
func (b Band) CatalogColumn() string {
	return "phot_" + string(b) + "_mean_mag"
}
