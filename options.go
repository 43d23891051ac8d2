package gaiacmd

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/agentstation/gaiacmd/pkg/coords"
	"github.com/agentstation/gaiacmd/pkg/errors"
	"github.com/agentstation/gaiacmd/pkg/gaia"
	"github.com/agentstation/gaiacmd/pkg/isochrone"
)

// Option is a function that configures a Client.
type Option func(*options) error

// options holds the client configuration. Nil collaborators are built from
// the endpoint settings in New.
type options struct {
	httpClient    *http.Client
	catalogConfig gaia.Config
	sesameURL     string
	isochroneURL  string

	names   coords.NameResolver
	catalog gaia.Catalog
	fetcher isochrone.Fetcher
	logger  *zerolog.Logger
}

func defaults() *options {
	return &options{
		catalogConfig: gaia.DefaultConfig(),
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithHTTPClient sets the HTTP client shared by every remote service.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) error {
		o.httpClient = httpClient
		return nil
	}
}

// WithCatalogConfig sets the TAP endpoint, table and row limit.
// Zero fields keep their defaults.
func WithCatalogConfig(cfg gaia.Config) Option {
	return func(o *options) error {
		if cfg.RowLimit < 0 {
			return errors.NewConfigError("gaia", "row limit must not be negative", nil)
		}
		o.catalogConfig = cfg
		return nil
	}
}

// WithSesameURL points name resolution at another Sesame endpoint.
func WithSesameURL(url string) Option {
	return func(o *options) error {
		o.sesameURL = url
		return nil
	}
}

// WithNameResolver replaces the Sesame name resolver.
func WithNameResolver(r coords.NameResolver) Option {
	return func(o *options) error {
		o.names = r
		return nil
	}
}

// WithCatalog replaces the TAP cone search.
func WithCatalog(c gaia.Catalog) Option {
	return func(o *options) error {
		o.catalog = c
		return nil
	}
}

// WithIsochroneURL sets the base URL holding <family>_gaia_edr3.txt grids.
func WithIsochroneURL(url string) Option {
	return func(o *options) error {
		o.isochroneURL = url
		return nil
	}
}

// WithIsochroneDir reads isochrone grids from a local directory instead of the network.
func WithIsochroneDir(dir string) Option {
	return func(o *options) error {
		if dir == "" {
			return errors.NewConfigError("isochrone", "directory must not be empty", nil)
		}
		o.fetcher = isochrone.NewDirFetcher(dir)
		return nil
	}
}

// WithIsochroneFetcher replaces the isochrone grid source.
func WithIsochroneFetcher(f isochrone.Fetcher) Option {
	return func(o *options) error {
		o.fetcher = f
		return nil
	}
}

// WithLogger sets the logger used when a call's context carries none.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}
