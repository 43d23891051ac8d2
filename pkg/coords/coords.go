// Package coords turns free-form object identifiers into ICRS sky positions.
//
// An identifier containing any letter is treated as an object name and
// resolved through a NameResolver (CDS Sesame by default). Anything else is
// parsed locally: sexagesimal "HH:MM:SS DD:MM:SS" when it contains a colon,
// otherwise two decimal-degree values.
package coords

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/agentstation/gaiacmd/pkg/errors"
	"github.com/agentstation/gaiacmd/pkg/logging"
)

// FrameICRS is the only reference frame produced by this package.
const FrameICRS = "icrs"

// Coordinate is a sky position in degrees.
type Coordinate struct {
	RA    float64 `json:"ra" yaml:"ra"`
	Dec   float64 `json:"dec" yaml:"dec"`
	Frame string  `json:"frame" yaml:"frame"`
}

// ICRS returns an ICRS coordinate.
func ICRS(ra, dec float64) Coordinate {
	return Coordinate{RA: ra, Dec: dec, Frame: FrameICRS}
}

// String formats the coordinate as decimal degrees.
func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f %+.6f (%s)", c.RA, c.Dec, c.Frame)
}

// NameResolver resolves object names to positions.
type NameResolver interface {
	Resolve(ctx context.Context, name string) (Coordinate, error)
}

// Resolver classifies identifiers and produces coordinates.
type Resolver struct {
	Names NameResolver
}

// NewResolver returns a Resolver using names for object names.
func NewResolver(names NameResolver) *Resolver {
	return &Resolver{Names: names}
}

// IsName reports whether s contains any letter.
func IsName(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}

// Locate resolves s to an ICRS coordinate. Resolution and parse failures
// are returned unchanged apart from wrapping; nothing is retried.
func (r *Resolver) Locate(ctx context.Context, s string) (Coordinate, error) {
	logger := logging.FromContext(ctx)

	if IsName(s) {
		if r.Names == nil {
			return Coordinate{}, errors.NewConfigError("coords", "no name resolver configured", nil)
		}
		logger.Debug().Str("name", s).Msg("Resolving object name")
		c, err := r.Names.Resolve(ctx, s)
		if err != nil {
			return Coordinate{}, errors.WrapResource("resolve", "location", s, err)
		}
		return c, nil
	}

	var (
		c   Coordinate
		err error
	)
	if strings.Contains(s, ":") {
		c, err = ParseSexagesimal(s)
	} else {
		c, err = ParseDegrees(s)
	}
	if err != nil {
		return Coordinate{}, err
	}

	logger.Debug().Str("input", s).Float64("ra", c.RA).Float64("dec", c.Dec).Msg("Parsed coordinates")
	return c, nil
}
