package gaia

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/agentstation/gaiacmd/internal/transport"
	"github.com/agentstation/gaiacmd/pkg/constants"
	"github.com/agentstation/gaiacmd/pkg/coords"
	"github.com/agentstation/gaiacmd/pkg/errors"
)

// Config holds the catalog query settings.
type Config struct {
	// URL is the TAP service base URL; queries go to URL + "/sync".
	URL string
	// Table is the fully qualified source table.
	Table string
	// RowLimit caps the rows returned. Larger cones are truncated silently.
	RowLimit int
}

// DefaultConfig returns the Gaia DR3 archive settings.
func DefaultConfig() Config {
	return Config{
		URL:      constants.DefaultTAPURL,
		Table:    constants.DefaultGaiaTable,
		RowLimit: constants.DefaultRowLimit,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.URL == "" {
		return errors.NewConfigError("gaia", "TAP URL is required", nil)
	}
	if c.Table == "" {
		return errors.NewConfigError("gaia", "table is required", nil)
	}
	if c.RowLimit <= 0 {
		return errors.NewConfigError("gaia", fmt.Sprintf("row limit must be positive, got %d", c.RowLimit), nil)
	}
	return nil
}

// Catalog performs cone searches.
type Catalog interface {
	ConeSearch(ctx context.Context, center coords.Coordinate, radiusArcmin float64) ([]Star, error)
}

// TAPClient queries a TAP service synchronously with ADQL.
type TAPClient struct {
	config    Config
	transport *transport.Client
}

// NewTAPClient creates a TAP client. Zero fields of cfg take their defaults.
func NewTAPClient(cfg Config, httpClient *http.Client) *TAPClient {
	def := DefaultConfig()
	if cfg.URL == "" {
		cfg.URL = def.URL
	}
	if cfg.Table == "" {
		cfg.Table = def.Table
	}
	if cfg.RowLimit == 0 {
		cfg.RowLimit = def.RowLimit
	}
	cfg.URL = strings.TrimRight(cfg.URL, "/")

	return &TAPClient{
		config:    cfg,
		transport: transport.New("gaia", httpClient),
	}
}

// Config returns the effective configuration.
func (c *TAPClient) Config() Config {
	return c.config
}

// ConeQuery builds the ADQL for a cone search ordered by distance from center.
func ConeQuery(cfg Config, center coords.Coordinate, radiusArcmin float64) string {
	point := fmt.Sprintf("POINT('ICRS', %.10f, %.10f)", center.RA, center.Dec)
	return fmt.Sprintf(
		"SELECT TOP %d source_id, ra, dec, phot_g_mean_mag, phot_bp_mean_mag, phot_rp_mean_mag, "+
			"DISTANCE(POINT('ICRS', ra, dec), %s) AS dist "+
			"FROM %s WHERE 1 = CONTAINS(POINT('ICRS', ra, dec), CIRCLE('ICRS', %.10f, %.10f, %.10f)) "+
			"ORDER BY dist ASC",
		cfg.RowLimit, point, cfg.Table, center.RA, center.Dec, radiusArcmin/60,
	)
}

// ConeSearch implements Catalog.
func (c *TAPClient) ConeSearch(ctx context.Context, center coords.Coordinate, radiusArcmin float64) ([]Star, error) {
	if err := c.config.Validate(); err != nil {
		return nil, err
	}

	form := url.Values{
		"REQUEST": {"doQuery"},
		"LANG":    {"ADQL"},
		"FORMAT":  {"csv"},
		"QUERY":   {ConeQuery(c.config, center, radiusArcmin)},
	}

	resp, err := c.transport.PostForm(ctx, c.config.URL+"/sync", form)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	return ParseCSV(resp.Body)
}

// ParseCSV reads TAP CSV output. Empty cells become NaN; unknown columns are ignored.
func ParseCSV(r io.Reader) ([]Star, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return []Star{}, nil
	}
	if err != nil {
		return nil, errors.WrapParse("csv", "cone search result", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.Trim(strings.TrimSpace(name), `"`))] = i
	}
	if _, ok := index["source_id"]; !ok {
		return nil, errors.NewParseError("csv", "cone search result", "missing column source_id", nil)
	}

	stars := []Star{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &errors.ParseError{Format: "csv", File: "cone search result", Line: line, Message: err.Error(), Err: err}
		}

		id, err := strconv.ParseInt(strings.TrimSpace(record[index["source_id"]]), 10, 64)
		if err != nil {
			return nil, &errors.ParseError{Format: "csv", File: "cone search result", Line: line, Message: "source_id", Err: err}
		}

		star := Star{SourceID: id}
		fields := []struct {
			column string
			dst    *float64
		}{
			{"ra", &star.RA},
			{"dec", &star.Dec},
			{"phot_bp_mean_mag", &star.BP},
			{"phot_g_mean_mag", &star.G},
			{"phot_rp_mean_mag", &star.RP},
			{"dist", &star.Distance},
		}
		for _, f := range fields {
			v, err := cell(record, index, f.column)
			if err != nil {
				return nil, &errors.ParseError{Format: "csv", File: "cone search result", Line: line, Message: f.column, Err: err}
			}
			*f.dst = v
		}
		stars = append(stars, star)
	}

	return stars, nil
}

// cell parses a numeric column; absent columns and empty or null cells are NaN.
func cell(record []string, index map[string]int, column string) (float64, error) {
	i, ok := index[column]
	if !ok || i >= len(record) {
		return math.NaN(), nil
	}
	raw := strings.TrimSpace(record[i])
	if raw == "" || strings.EqualFold(raw, "null") {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(raw, 64)
}
