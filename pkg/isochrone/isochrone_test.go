package isochrone

import (
	"context"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/gaiacmd/pkg/errors"
	"github.com/agentstation/gaiacmd/pkg/logging"
)

// staticFetcher serves grid text from memory.
type staticFetcher struct {
	text  string
	calls int
}

func (f *staticFetcher) Fetch(context.Context, Family) (io.ReadCloser, error) {
	f.calls++
	return io.NopCloser(strings.NewReader(f.text)), nil
}

// gridText is a grid with ages {8.5, 9.0, 9.5} and metallicities {-0.2, 0.0}.
const gridText = `logage,feh,bp,g,rp
8.5,-0.2,10.0,9.6,9.1
8.5,0.0,10.1,9.7,9.2
9.0,-0.2,11.0,10.6,10.1
9.0,0.0,15.2,14.7,14.1
9.0,0.0,16.2,15.6,15.0
9.5,-0.2,12.0,11.6,11.1
9.5,0.0,12.1,11.7,11.2
`

func TestParseFamily(t *testing.T) {
	for input, want := range map[string]Family{"mist": FamilyMIST, "MIST": FamilyMIST, "Parsec": FamilyPARSEC, " parsec ": FamilyPARSEC} {
		got, err := ParseFamily(input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseFamily("baraffe")
	require.Error(t, err)
	assert.True(t, errors.IsUnsupported(err))
	assert.Contains(t, err.Error(), "mist, parsec")
}

func TestParseBand(t *testing.T) {
	b, err := ParseBand("BP")
	require.NoError(t, err)
	assert.Equal(t, BandBP, b)
	assert.Equal(t, "phot_bp_mean_mag", b.CatalogColumn())

	_, err = ParseBand("v")
	assert.True(t, errors.IsUnsupported(err))
}

func TestParseGrid(t *testing.T) {
	grid, err := ParseGrid(strings.NewReader(gridText))
	require.NoError(t, err)
	require.Len(t, grid.Points, 7)

	assert.Equal(t, []float64{8.5, 9.0, 9.5}, grid.Ages())
	assert.Equal(t, []float64{-0.2, 0.0}, grid.Metallicities())
	assert.Len(t, grid.Subset(9.0, 0.0), 2)
	assert.Empty(t, grid.Subset(9.0, 0.5))
}

func TestParseGrid_ColumnOrderAndExtras(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "mist_gaia_edr3.txt"))
	require.NoError(t, err)
	defer f.Close()

	grid, err := ParseGrid(f)
	require.NoError(t, err)
	assert.Len(t, grid.Points, 18)
	assert.Equal(t, []float64{8.5, 9.0, 9.5}, grid.Ages())
}

func TestParseGrid_Errors(t *testing.T) {
	_, err := ParseGrid(strings.NewReader("logage,feh,bp,rp\n9,0,1,2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column g")

	_, err = ParseGrid(strings.NewReader("logage,feh,bp,g,rp\n9,0,1,x,2\n"))
	var parseErr *errors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 2, parseErr.Line)

	_, err = ParseGrid(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ParseGrid(strings.NewReader("logage,feh,bp,g,rp\n,0,1,2,3\n"))
	assert.Error(t, err)
}

func TestParseGrid_EmptyMagnitude(t *testing.T) {
	grid, err := ParseGrid(strings.NewReader("logage,feh,bp,g,rp\n9.0,0.0,12.1,,11.2\n9.0,0.0,13.4,12.9,12.3\n"))
	require.NoError(t, err)
	require.Len(t, grid.Points, 2)
	assert.True(t, math.IsNaN(grid.Points[0].G))
	assert.InDelta(t, 12.1, grid.Points[0].BP, 1e-12)

	req := DefaultRequest(9, 0)
	req.Mag = BandG
	res := Select(context.Background(), grid, req)
	require.Len(t, res.Magnitude, 2)
	assert.True(t, math.IsNaN(res.Magnitude[0]))
	assert.InDelta(t, 12.9, res.Magnitude[1], 1e-12)
}

func TestNearest(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		target float64
		want   float64
	}{
		{"exact", []float64{8.5, 9.0, 9.5}, 9.0, 9.0},
		{"below range", []float64{8.5, 9.0, 9.5}, 7.0, 8.5},
		{"above range", []float64{8.5, 9.0, 9.5}, 11.0, 9.5},
		{"closer to upper", []float64{-0.2, 0.0}, -0.09, 0.0},
		{"tie takes later", []float64{8.5, 9.5}, 9.0, 9.5},
		{"equidistant metallicity", []float64{-0.2, 0.0}, -0.1, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Nearest(tt.values, tt.target)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := Nearest(nil, 1)
	assert.False(t, ok)
}

func TestLookup_IndependentAxes(t *testing.T) {
	lookup := NewLookup(&staticFetcher{text: gridText})

	req := DefaultRequest(9.00, -0.10)
	res, err := lookup.Isochrone(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 9.0, res.LogAge)
	assert.Equal(t, 0.0, res.FeH)
	require.Len(t, res.Color, 2)
	assert.InDelta(t, 1.1, res.Color[0], 1e-9)
	assert.InDelta(t, 14.1, res.Magnitude[0], 1e-9)
}

func TestLookup_DistanceModulus(t *testing.T) {
	lookup := NewLookup(&staticFetcher{text: gridText})

	tests := []struct {
		distance float64
		want     float64
	}{
		{10, 14.1},
		{0, 14.1},
		{100, 19.1},
		{1000, 24.1},
	}

	for _, tt := range tests {
		req := DefaultRequest(9.0, 0.0)
		req.Distance = tt.distance
		res, err := lookup.Isochrone(context.Background(), req)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, res.Magnitude[0], 1e-9, "distance %v", tt.distance)
	}

	assert.Equal(t, 0.0, DistanceModulus(10))
	assert.InDelta(t, 5.0, DistanceModulus(100), 1e-12)
}

func TestLookup_BandSelection(t *testing.T) {
	lookup := NewLookup(&staticFetcher{text: gridText})

	req := DefaultRequest(9.0, 0.0)
	req.Blue, req.Red, req.Mag = BandBP, BandG, BandG
	res, err := lookup.Isochrone(context.Background(), req)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, res.Color[0], 1e-9)
	assert.InDelta(t, 14.7, res.Magnitude[0], 1e-9)
}

func TestLookup_ValidationBeforeFetch(t *testing.T) {
	fetcher := &staticFetcher{text: gridText}
	lookup := NewLookup(fetcher)

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"unsupported family", func(r *Request) { r.Family = "baraffe" }},
		{"bad band", func(r *Request) { r.Mag = "v" }},
		{"negative distance", func(r *Request) { r.Distance = -1 }},
		{"nan age", func(r *Request) { r.LogAge = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := DefaultRequest(9.0, 0.0)
			tt.mutate(&req)
			_, err := lookup.Isochrone(context.Background(), req)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
		})
	}
	assert.Zero(t, fetcher.calls)
}

func TestLookup_LogsClosestMatch(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	_, err := NewLookup(&staticFetcher{text: gridText}).Isochrone(ctx, DefaultRequest(8.9, 0.3))
	require.NoError(t, err)
	tl.AssertContains(t, "Closest match in MIST: log age/yr = 9.00, [Fe/H] = 0.00")
	tl.AssertContains(t, `"family":"MIST"`)
}

func TestSelect_EmptyGrid(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	res := Select(ctx, &Grid{}, DefaultRequest(9, 0))
	assert.NotNil(t, res.Color)
	assert.Empty(t, res.Color)
	assert.Empty(t, res.Magnitude)

	tl.AssertContains(t, "Isochrone grid is empty")
	tl.AssertNotContains(t, "Closest match")
}

func TestDirFetcher(t *testing.T) {
	fetcher := NewDirFetcher("testdata")
	lookup := NewLookup(fetcher)

	res, err := lookup.Isochrone(context.Background(), DefaultRequest(9.2, -0.15))
	require.NoError(t, err)
	assert.Equal(t, 9.0, res.LogAge)
	assert.Equal(t, -0.2, res.FeH)
	assert.Len(t, res.Color, 3)

	req := DefaultRequest(9, 0)
	req.Family = FamilyPARSEC
	_, err = lookup.Isochrone(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestHTTPFetcher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/isos/parsec_gaia_edr3.txt" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(gridText))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(server.URL+"/isos/", server.Client())
	assert.Equal(t, server.URL+"/isos/parsec_gaia_edr3.txt", fetcher.URL(FamilyPARSEC))

	req := DefaultRequest(9.5, -0.3)
	req.Family = FamilyPARSEC
	res, err := NewLookup(fetcher).Isochrone(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 9.5, res.LogAge)
	assert.Equal(t, -0.2, res.FeH)

	req.Family = FamilyMIST
	_, err = NewLookup(fetcher).Isochrone(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestHTTPFetcher_DefaultURL(t *testing.T) {
	fetcher := NewHTTPFetcher("", nil)
	assert.Equal(t,
		"https://raw.githubusercontent.com/avapolzin/goodenough_gaia_cmds/main/isos/mist_gaia_edr3.txt",
		fetcher.URL(FamilyMIST))
}

func TestValidateBands(t *testing.T) {
	assert.NoError(t, ValidateBands(BandBP, BandRP, BandG))

	err := ValidateBands(BandBP, "i", BandRP)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, err.Error(), "red")
}
