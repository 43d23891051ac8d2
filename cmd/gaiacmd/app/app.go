// Package app provides the application context and dependency management
// for the gaiacmd CLI: configuration, logging and the lazily created
// pipeline client.
package app

import (
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/gaiacmd"
	"github.com/agentstation/gaiacmd/pkg/errors"
	"github.com/agentstation/gaiacmd/pkg/gaia"
)

// App represents the gaiacmd application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
	stdout io.Writer

	// Client instance (lazy-initialized, singleton)
	mu     sync.RWMutex
	client gaiacmd.Client
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		stdout:  os.Stdout,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the --format value, empty for auto-detection.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Stdout returns the writer command results go to.
func (a *App) Stdout() io.Writer {
	return a.stdout
}

// Client returns the pipeline client, creating it lazily if needed.
func (a *App) Client() (gaiacmd.Client, error) {
	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	c, err := gaiacmd.New(a.buildClientOptions()...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", "", err)
	}

	a.client = c
	return c, nil
}

// buildClientOptions constructs client options from the app configuration.
func (a *App) buildClientOptions() []gaiacmd.Option {
	opts := []gaiacmd.Option{
		gaiacmd.WithHTTPClient(&http.Client{Timeout: a.config.HTTPTimeout}),
		gaiacmd.WithCatalogConfig(gaia.Config{
			URL:      a.config.TAPURL,
			Table:    a.config.Table,
			RowLimit: a.config.RowLimit,
		}),
		gaiacmd.WithSesameURL(a.config.SesameURL),
		gaiacmd.WithLogger(a.logger),
	}

	// A local grid directory wins over the remote grid URL
	if a.config.IsochroneDir != "" {
		opts = append(opts, gaiacmd.WithIsochroneDir(a.config.IsochroneDir))
	} else {
		opts = append(opts, gaiacmd.WithIsochroneURL(a.config.IsochroneURL))
	}

	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom client instance (useful for testing).
func WithClient(c gaiacmd.Client) Option {
	return func(a *App) error {
		a.client = c
		return nil
	}
}

// WithStdout redirects command results.
func WithStdout(w io.Writer) Option {
	return func(a *App) error {
		a.stdout = w
		return nil
	}
}
