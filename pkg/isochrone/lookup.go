package isochrone

import (
	"context"
	"math"

	"github.com/agentstation/gaiacmd/pkg/constants"
	"github.com/agentstation/gaiacmd/pkg/errors"
	"github.com/agentstation/gaiacmd/pkg/logging"
)

// Request describes the isochrone wanted.
type Request struct {
	LogAge float64
	FeH    float64
	// Distance in parsecs. Zero means the 10 pc reference distance.
	Distance float64
	Blue     Band
	Red      Band
	Mag      Band
	Family   Family
}

// DefaultRequest returns a MIST request for BP-RP against RP at 10 pc.
func DefaultRequest(logAge, feh float64) Request {
	return Request{
		LogAge:   logAge,
		FeH:      feh,
		Distance: constants.ReferenceDistance,
		Blue:     BandBP,
		Red:      BandRP,
		Mag:      BandRP,
		Family:   FamilyMIST,
	}
}

// Validate checks the request, filling the default distance.
func (r *Request) Validate() error {
	if !r.Family.Valid() {
		return errors.NewUnsupportedError("model family", string(r.Family), familyNames())
	}
	if err := ValidateBands(r.Blue, r.Red, r.Mag); err != nil {
		return err
	}
	if math.IsNaN(r.LogAge) || math.IsNaN(r.FeH) {
		return errors.NewValidationError("logage/feh", nil, "must be numbers")
	}
	if r.Distance == 0 {
		r.Distance = constants.ReferenceDistance
	}
	if !(r.Distance > 0) || math.IsInf(r.Distance, 0) {
		return errors.NewValidationError("distance", r.Distance, "must be a positive number of parsecs")
	}
	return nil
}

// Result is the nearest-match isochrone in CMD coordinates.
type Result struct {
	Family Family `json:"family" yaml:"family"`
	// LogAge and FeH are the grid values actually used.
	LogAge    float64   `json:"logage" yaml:"logage"`
	FeH       float64   `json:"feh" yaml:"feh"`
	Distance  float64   `json:"distance_pc" yaml:"distance_pc"`
	Blue      Band      `json:"blue" yaml:"blue"`
	Red       Band      `json:"red" yaml:"red"`
	Mag       Band      `json:"mag" yaml:"mag"`
	Color     []float64 `json:"color" yaml:"color"`
	Magnitude []float64 `json:"magnitude" yaml:"magnitude"`
}

// DistanceModulus returns 5*log10(d/10), the shift from absolute to apparent magnitude.
func DistanceModulus(distancePC float64) float64 {
	return 5 * math.Log10(distancePC/constants.ReferenceDistance)
}

// Lookup fetches grids and selects nearest-match isochrones.
type Lookup struct {
	Fetcher Fetcher
}

// NewLookup creates a Lookup reading grids through fetcher.
func NewLookup(fetcher Fetcher) *Lookup {
	return &Lookup{Fetcher: fetcher}
}

// Isochrone fetches the grid for req.Family and returns the rows at the
// nearest age and nearest metallicity, chosen independently. A grid with no
// rows at that pair yields empty sequences rather than an error.
func (l *Lookup) Isochrone(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body, err := l.Fetcher.Fetch(ctx, req.Family)
	if err != nil {
		return nil, errors.WrapResource("fetch", "isochrone", req.Family.String(), err)
	}
	defer func() { _ = body.Close() }()

	grid, err := ParseGrid(body)
	if err != nil {
		return nil, err
	}

	return Select(ctx, grid, req), nil
}

// Select applies the nearest-match policy to an already loaded grid.
// req must have been validated. An empty grid yields an empty result.
func Select(ctx context.Context, grid *Grid, req Request) *Result {
	logger := logging.FromContext(ctx)
	result := &Result{
		Family:    req.Family,
		Distance:  req.Distance,
		Blue:      req.Blue,
		Red:       req.Red,
		Mag:       req.Mag,
		Color:     []float64{},
		Magnitude: []float64{},
	}

	age, ageOK := Nearest(grid.Ages(), req.LogAge)
	feh, fehOK := Nearest(grid.Metallicities(), req.FeH)
	if !ageOK || !fehOK {
		logger.Warn().
			Str("family", req.Family.Display()).
			Msg("Isochrone grid is empty, no match")
		return result
	}

	rows := grid.Subset(age, feh)
	shift := DistanceModulus(req.Distance)

	result.LogAge = age
	result.FeH = feh
	result.Color = make([]float64, len(rows))
	result.Magnitude = make([]float64, len(rows))
	for i, p := range rows {
		result.Color[i] = p.Mag(req.Blue) - p.Mag(req.Red)
		result.Magnitude[i] = p.Mag(req.Mag) + shift
	}

	logger.Info().
		Str("family", req.Family.Display()).
		Str("logage", formatTwo(age)).
		Str("feh", formatTwo(feh)).
		Float64("requested_logage", req.LogAge).
		Float64("requested_feh", req.FeH).
		Int("points", len(rows)).
		Msgf("Closest match in %s: log age/yr = %.2f, [Fe/H] = %.2f", req.Family.Display(), age, feh)

	return result
}
