// Package context provides the application context interface for gaiacmd commands.
//
// Commands accept this interface rather than the concrete App type so they
// can be tested with MockContext:
//
//	mock := &context.MockContext{
//	    ClientFunc: func() (gaiacmd.Client, error) {
//	        return fakeClient, nil
//	    },
//	}
//	cmd := resolve.NewCommand(mock)
package context

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/agentstation/gaiacmd"
)

// Context provides what commands need from the application.
// The App struct from cmd/gaiacmd/app implements it.
type Context interface {
	// Client returns the pipeline client, creating it on first use.
	Client() (gaiacmd.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, wide, json, yaml).
	// Empty means auto-detect.
	OutputFormat() string

	// Stdout is where command results are written.
	Stdout() io.Writer

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
