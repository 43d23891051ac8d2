// Package constants provides shared constants used throughout the gaiacmd codebase.
// This includes timeouts, service endpoints, catalog defaults and file permissions
// that should be consistent across the library and the CLI.
package constants

import "time"

// Timeout constants
const (
	// DefaultHTTPTimeout is the standard timeout for requests to remote services
	DefaultHTTPTimeout = 60 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Catalog defaults
const (
	// DefaultTAPURL is the base URL of the Gaia archive TAP service
	DefaultTAPURL = "https://gea.esac.esa.int/tap-server/tap"

	// DefaultGaiaTable is the table queried by cone searches
	DefaultGaiaTable = "gaiadr3.gaia_source"

	// DefaultRowLimit caps the number of rows a cone search may return.
	// The archive truncates silently above this.
	DefaultRowLimit = 2000
)

// Name resolution defaults
const (
	// DefaultSesameURL is the CDS Sesame endpoint returning XML from
	// SIMBAD, NED and VizieR, in that order.
	DefaultSesameURL = "https://cds.unistra.fr/cgi-bin/nph-sesame/-ox/SNV"
)

// Isochrone defaults
const (
	// DefaultIsochroneBaseURL hosts the precomputed Gaia EDR3 isochrone grids
	DefaultIsochroneBaseURL = "https://raw.githubusercontent.com/avapolzin/goodenough_gaia_cmds/main/isos"

	// ReferenceDistance is the distance in parsecs at which grid magnitudes are absolute
	ReferenceDistance = 10.0
)

// Plot defaults
const (
	// DefaultPlotSize is the edge length of the square CMD canvas in inches
	DefaultPlotSize = 5.0

	// DefaultPlotOutput is the file written when no output path is given
	DefaultPlotOutput = "cmd.png"
)

// UserAgent identifies gaiacmd to remote services
const UserAgent = "gaiacmd (+https://github.com/agentstation/gaiacmd)"
