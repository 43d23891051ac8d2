package gaia

import (
	"context"
	"math"

	"github.com/agentstation/utc"

	"github.com/agentstation/gaiacmd/pkg/coords"
	"github.com/agentstation/gaiacmd/pkg/errors"
	"github.com/agentstation/gaiacmd/pkg/logging"
)

// Locator turns an identifier into a sky position.
type Locator interface {
	Locate(ctx context.Context, object string) (coords.Coordinate, error)
}

// Selector runs locate, cone search and photometry filtering in sequence.
type Selector struct {
	Locator Locator
	Catalog Catalog
}

// NewSelector creates a Selector.
func NewSelector(locator Locator, catalog Catalog) *Selector {
	return &Selector{Locator: locator, Catalog: catalog}
}

// Select returns the stars within radiusArcmin of object that have finite
// BP, G and RP magnitudes. An empty cone is not an error.
func (s *Selector) Select(ctx context.Context, object string, radiusArcmin float64) (*Selection, error) {
	if !(radiusArcmin > 0) || math.IsInf(radiusArcmin, 0) {
		return nil, errors.NewValidationError("radius", radiusArcmin, "must be a positive number of arcminutes")
	}

	ctx = logging.WithObject(ctx, object)
	logger := logging.FromContext(ctx)

	center, err := s.Locator.Locate(ctx, object)
	if err != nil {
		return nil, err
	}

	rows, err := s.Catalog.ConeSearch(ctx, center, radiusArcmin)
	if err != nil {
		return nil, errors.WrapResource("select", "stars", object, err)
	}

	stars := FilterPhotometry(rows)
	logger.Info().
		Float64("ra", center.RA).
		Float64("dec", center.Dec).
		Float64("radius_arcmin", radiusArcmin).
		Int("returned", len(rows)).
		Int("kept", len(stars)).
		Msg("Cone search complete")

	return &Selection{
		Object:       object,
		Center:       center,
		RadiusArcmin: radiusArcmin,
		Returned:     len(rows),
		Stars:        stars,
		QueriedAt:    utc.Now(),
	}, nil
}
