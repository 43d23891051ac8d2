package diagram

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"

	"github.com/agentstation/gaiacmd/pkg/errors"
	"github.com/agentstation/gaiacmd/pkg/gaia"
	"github.com/agentstation/gaiacmd/pkg/isochrone"
)

func testStars() []gaia.Star {
	return []gaia.Star{
		{SourceID: 1, BP: 15.2, G: 14.7, RP: 14.1},
		{SourceID: 2, BP: 12.0, G: 11.8, RP: 11.5},
		{SourceID: 3, BP: math.NaN(), G: 13.0, RP: 12.4},
	}
}

func testIsochrone() *isochrone.Result {
	return &isochrone.Result{
		Family:    isochrone.FamilyMIST,
		LogAge:    9.0,
		FeH:       0.0,
		Color:     []float64{0.6, 0.9, 1.3},
		Magnitude: []float64{10.0, 12.0, 14.0},
	}
}

func TestStarSeries(t *testing.T) {
	s := StarSeries(testStars(), isochrone.BandBP, isochrone.BandRP, isochrone.BandG)
	require.Equal(t, 2, s.Len())

	x, y := s.XY(0)
	assert.InDelta(t, 1.1, x, 1e-9)
	assert.Equal(t, 14.7, y)
}

func TestIsochroneSeries(t *testing.T) {
	assert.Zero(t, IsochroneSeries(nil).Len())

	res := testIsochrone()
	res.Magnitude[1] = math.Inf(1)
	assert.Equal(t, 2, IsochroneSeries(res).Len())
}

func TestNew(t *testing.T) {
	p, err := New(Options{Title: "M67", Stars: testStars(), Isochrone: testIsochrone()})
	require.NoError(t, err)

	assert.Equal(t, "M67", p.Title.Text)
	assert.Equal(t, "bp - rp", p.X.Label.Text)
	assert.Equal(t, "rp", p.Y.Label.Text)
	assert.IsType(t, plot.InvertedScale{}, p.Y.Scale)
}

func TestNew_InvalidBand(t *testing.T) {
	_, err := New(Options{Blue: "u"})
	require.Error(t, err)
	assert.True(t, errors.IsUnsupported(err))
}

func TestRender(t *testing.T) {
	tests := []struct {
		format string
		marker []byte
	}{
		{"png", []byte("PNG")},
		{"SVG", []byte("<svg")},
		{"pdf", []byte("%PDF")},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			err := Render(&buf, tt.format, Options{Title: "M67", Stars: testStars(), Isochrone: testIsochrone()})
			require.NoError(t, err)
			assert.True(t, bytes.Contains(buf.Bytes(), tt.marker), "no %q in output", tt.marker)
		})
	}
}

func TestRender_EmptySelection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "png", Options{Title: "empty"}))
	assert.NotZero(t, buf.Len())
}

func TestRender_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, "gif", Options{})
	require.Error(t, err)
	assert.True(t, errors.IsUnsupported(err))
	assert.Zero(t, buf.Len())
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plots", "m67.png")
	require.NoError(t, Save(path, Options{Title: "M67", Stars: testStars()}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("out/cmd.SVG")
	require.NoError(t, err)
	assert.Equal(t, "svg", f)

	_, err = FormatFromPath("cmd")
	assert.True(t, errors.IsValidationError(err))

	_, err = FormatFromPath("cmd.gif")
	assert.True(t, errors.IsUnsupported(err))
}
