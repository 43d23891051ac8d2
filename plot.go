package gaiacmd

import (
	"context"

	"github.com/agentstation/utc"

	"github.com/agentstation/gaiacmd/pkg/constants"
	"github.com/agentstation/gaiacmd/pkg/diagram"
	"github.com/agentstation/gaiacmd/pkg/errors"
	"github.com/agentstation/gaiacmd/pkg/gaia"
	"github.com/agentstation/gaiacmd/pkg/isochrone"
	"github.com/agentstation/gaiacmd/pkg/logging"
)

// PlotRequest describes one diagram.
type PlotRequest struct {
	// Object is a name ("M67") or a coordinate string ("08:51:18 +11:48:00").
	Object string
	// Radius of the cone in arcminutes.
	Radius float64

	// Isochrone selects the overlay family. Nil means no overlay.
	Isochrone *isochrone.Family
	// LogAge and FeH are required when Isochrone is set.
	LogAge *float64
	FeH    *float64
	// Distance in parsecs for the overlay. Zero means 10 pc.
	Distance float64

	// Bands default to BP - RP against RP.
	Blue isochrone.Band
	Red  isochrone.Band
	Mag  isochrone.Band

	// Output is the image path; its extension picks the format.
	// Empty means constants.DefaultPlotOutput.
	Output string
}

// PlotResult reports what was drawn.
type PlotResult struct {
	Selection *gaia.Selection   `json:"selection" yaml:"selection"`
	Isochrone *isochrone.Result `json:"isochrone,omitempty" yaml:"isochrone,omitempty"`
	Output    string            `json:"output" yaml:"output"`
	CreatedAt utc.Time          `json:"created_at" yaml:"created_at"`
}

func (r *PlotRequest) normalize() {
	if r.Blue == "" {
		r.Blue = isochrone.BandBP
	}
	if r.Red == "" {
		r.Red = isochrone.BandRP
	}
	if r.Mag == "" {
		r.Mag = isochrone.BandRP
	}
	if r.Output == "" {
		r.Output = constants.DefaultPlotOutput
	}
}

// isochroneRequest validates the overlay parameters. It returns nil when no
// overlay was asked for.
func (r *PlotRequest) isochroneRequest() (*isochrone.Request, error) {
	if r.Isochrone == nil {
		return nil, nil
	}

	var missing []string
	if r.LogAge == nil {
		missing = append(missing, "logage")
	}
	if r.FeH == nil {
		missing = append(missing, "feh")
	}
	if len(missing) > 0 {
		return nil, errors.NewMissingParameterError("an isochrone overlay needs both logage and feh", missing...)
	}

	req := isochrone.Request{
		LogAge:   *r.LogAge,
		FeH:      *r.FeH,
		Distance: r.Distance,
		Blue:     r.Blue,
		Red:      r.Red,
		Mag:      r.Mag,
		Family:   *r.Isochrone,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

// Plot selects stars around req.Object, optionally looks up an isochrone and
// renders both to req.Output. All parameter checks run before any network
// call, so a missing logage or feh never reaches a remote service.
func (c *client) Plot(ctx context.Context, req PlotRequest) (*PlotResult, error) {
	ctx = logging.WithOperation(c.context(ctx), "plot")
	req.normalize()

	isoReq, err := req.isochroneRequest()
	if err != nil {
		return nil, err
	}
	if err := isochrone.ValidateBands(req.Blue, req.Red, req.Mag); err != nil {
		return nil, err
	}
	if _, err := diagram.FormatFromPath(req.Output); err != nil {
		return nil, err
	}

	selection, err := c.selector.Select(ctx, req.Object, req.Radius)
	if err != nil {
		return nil, err
	}

	var iso *isochrone.Result
	if isoReq != nil {
		if iso, err = c.lookup.Isochrone(ctx, *isoReq); err != nil {
			return nil, err
		}
	}

	err = diagram.Save(req.Output, diagram.Options{
		Title:     req.Object,
		Stars:     selection.Stars,
		Blue:      req.Blue,
		Red:       req.Red,
		Mag:       req.Mag,
		Isochrone: iso,
	})
	if err != nil {
		return nil, errors.WrapResource("render", "plot", req.Output, err)
	}

	logging.FromContext(ctx).Info().
		Str("output", req.Output).
		Int("stars", len(selection.Stars)).
		Bool("isochrone", iso != nil).
		Msg("Diagram written")

	return &PlotResult{
		Selection: selection,
		Isochrone: iso,
		Output:    req.Output,
		CreatedAt: utc.Now(),
	}, nil
}
