// Package gaiacmd builds color-magnitude diagrams from the Gaia archive.
//
// A Client runs the pipeline resolve -> select -> (isochrone) -> plot:
// an object name or coordinate string is resolved to an ICRS position, a
// cone search returns the stars with finite BP, G and RP photometry, a
// nearest-match MIST or PARSEC isochrone is optionally looked up, and the
// result is rendered to an image file.
//
// Example usage:
//
//	client, err := gaiacmd.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	family := isochrone.FamilyMIST
//	age, feh := 9.6, 0.0
//	res, err := client.Plot(ctx, gaiacmd.PlotRequest{
//	    Object:    "M67",
//	    Radius:    10,
//	    Isochrone: &family,
//	    LogAge:    &age,
//	    FeH:       &feh,
//	    Distance:  850,
//	    Output:    "m67.png",
//	})
//
// Every call is independent and performs at most three sequential network
// round-trips. Nothing is cached and nothing is retried.
package gaiacmd

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/gaiacmd/pkg/coords"
	"github.com/agentstation/gaiacmd/pkg/gaia"
	"github.com/agentstation/gaiacmd/pkg/isochrone"
	"github.com/agentstation/gaiacmd/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Resolver turns an identifier into a sky position.
type Resolver interface {
	Resolve(ctx context.Context, object string) (coords.Coordinate, error)
}

// Selector runs cone searches.
type Selector interface {
	Select(ctx context.Context, object string, radiusArcmin float64) (*gaia.Selection, error)
}

// Isochroner looks up nearest-match isochrones.
type Isochroner interface {
	Isochrone(ctx context.Context, req isochrone.Request) (*isochrone.Result, error)
}

// Plotter runs the whole pipeline and renders the diagram.
type Plotter interface {
	Plot(ctx context.Context, req PlotRequest) (*PlotResult, error)
}

// Client is the programmatic surface of gaiacmd.
type Client interface {
	Resolver
	Selector
	Isochroner
	Plotter
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options

	resolver *coords.Resolver
	selector *gaia.Selector
	lookup   *isochrone.Lookup
	logger   *zerolog.Logger
}

// New creates a Client. Without options it talks to the public Sesame,
// Gaia archive and isochrone grid endpoints.
func New(opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	names := o.names
	if names == nil {
		names = coords.NewSesameResolver(o.sesameURL, o.httpClient)
	}

	catalog := o.catalog
	if catalog == nil {
		tap := gaia.NewTAPClient(o.catalogConfig, o.httpClient)
		if err := tap.Config().Validate(); err != nil {
			return nil, err
		}
		catalog = tap
	}

	fetcher := o.fetcher
	if fetcher == nil {
		fetcher = isochrone.NewHTTPFetcher(o.isochroneURL, o.httpClient)
	}

	resolver := coords.NewResolver(names)
	return &client{
		options:  o,
		resolver: resolver,
		selector: gaia.NewSelector(resolver, catalog),
		lookup:   isochrone.NewLookup(fetcher),
		logger:   o.logger,
	}, nil
}

// context attaches the configured logger unless ctx already carries one.
func (c *client) context(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.logger == nil {
		return ctx
	}
	if logging.FromContext(ctx) != logging.Default() {
		return ctx
	}
	return logging.WithLogger(ctx, c.logger)
}

// Resolve returns the ICRS position of a name or coordinate string.
func (c *client) Resolve(ctx context.Context, object string) (coords.Coordinate, error) {
	return c.resolver.Locate(c.context(ctx), object)
}

// Select returns the stars near object that have complete photometry.
func (c *client) Select(ctx context.Context, object string, radiusArcmin float64) (*gaia.Selection, error) {
	return c.selector.Select(c.context(ctx), object, radiusArcmin)
}

// Isochrone returns the nearest-match isochrone for req.
func (c *client) Isochrone(ctx context.Context, req isochrone.Request) (*isochrone.Result, error) {
	return c.lookup.Isochrone(c.context(ctx), req)
}
