package coords

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/gaiacmd/pkg/errors"
)

// stubResolver records names it was asked for.
type stubResolver struct {
	calls []string
	coord Coordinate
	err   error
}

func (s *stubResolver) Resolve(_ context.Context, name string) (Coordinate, error) {
	s.calls = append(s.calls, name)
	return s.coord, s.err
}

func TestIsName(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"M67", true},
		{"NGC 2682", true},
		{"alpha Cen", true},
		{"08:51:23.3 +11:48:50", false},
		{"132.846 11.814", false},
		{"1e2 3", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsName(tt.input))
		})
	}
}

func TestLocate_NamesUseResolver(t *testing.T) {
	stub := &stubResolver{coord: ICRS(132.846, 11.814)}
	r := NewResolver(stub)

	for _, name := range []string{"M67", "NGC 2682", "x1:2"} {
		c, err := r.Locate(context.Background(), name)
		require.NoError(t, err)
		assert.Equal(t, stub.coord, c)
	}
	assert.Equal(t, []string{"M67", "NGC 2682", "x1:2"}, stub.calls)
}

func TestLocate_NumericNeverResolves(t *testing.T) {
	stub := &stubResolver{}
	r := NewResolver(stub)

	_, err := r.Locate(context.Background(), "10.5 -20.25")
	require.NoError(t, err)
	_, err = r.Locate(context.Background(), "01:00:00 -20:15:00")
	require.NoError(t, err)
	assert.Empty(t, stub.calls)
}

func TestLocate_ColonSelectsHours(t *testing.T) {
	r := NewResolver(nil)

	c, err := r.Locate(context.Background(), "01:00:00 10:30:00")
	require.NoError(t, err)
	assert.InDelta(t, 15.0, c.RA, 1e-9)
	assert.InDelta(t, 10.5, c.Dec, 1e-9)
	assert.Equal(t, FrameICRS, c.Frame)

	c, err = r.Locate(context.Background(), "1 10.5")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, c.RA, 1e-9)
	assert.InDelta(t, 10.5, c.Dec, 1e-9)
}

func TestLocate_ResolverErrorPropagates(t *testing.T) {
	stub := &stubResolver{err: errors.NewNotFoundError("object", "nowhere")}
	_, err := NewResolver(stub).Locate(context.Background(), "nowhere")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestLocate_NoResolverConfigured(t *testing.T) {
	_, err := NewResolver(nil).Locate(context.Background(), "M67")
	require.Error(t, err)
}

func TestParseSexagesimal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		ra, dec float64
	}{
		{"full", "08:51:23.3 +11:48:50", (8 + 51.0/60 + 23.3/3600) * 15, 11 + 48.0/60 + 50.0/3600},
		{"negative dec", "12:00:00 -00:30:00", 180, -0.5},
		{"comma separated", "06:00:00,45:00:00", 90, 45},
		{"hours and minutes only", "00:30 -10:06", 7.5, -10.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseSexagesimal(tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.ra, c.RA, 1e-9)
			assert.InDelta(t, tt.dec, c.Dec, 1e-9)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		parse func(string) (Coordinate, error)
		input string
	}{
		{"one component", ParseDegrees, "10.5"},
		{"three components", ParseDegrees, "10 20 30"},
		{"not a number", ParseDegrees, "10.5 -"},
		{"sexagesimal one component", ParseSexagesimal, "01:02:03"},
		{"too many fields", ParseSexagesimal, "01:02:03:04 05:06:07"},
		{"empty field", ParseSexagesimal, "01::03 05:06:07"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.parse(tt.input)
			require.Error(t, err)
			var parseErr *errors.ParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}

const sesameM67 = `<?xml version="1.0" encoding="UTF-8"?>
<Sesame xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
<Target option="SNV">
  <name>M67</name>
  <Resolver name="S=Simbad (via url):    1">
    <oname>M  67</oname>
    <jpos>08:51:23.3 +11:48:50</jpos>
    <jradeg>132.8458333</jradeg>
    <jdedeg>11.8138889</jdedeg>
  </Resolver>
</Target>
</Sesame>`

const sesameUnknown = `<?xml version="1.0" encoding="UTF-8"?>
<Sesame>
<Target option="SNV">
  <name>nowhere</name>
  <INFO>*** Nothing found ***</INFO>
</Target>
</Sesame>`

func TestSesameResolver(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		if r.URL.RawQuery == "M67" {
			_, _ = w.Write([]byte(sesameM67))
			return
		}
		_, _ = w.Write([]byte(sesameUnknown))
	}))
	defer server.Close()

	resolver := NewSesameResolver(server.URL, server.Client())

	t.Run("known object", func(t *testing.T) {
		c, err := resolver.Resolve(context.Background(), "M67")
		require.NoError(t, err)
		assert.InDelta(t, 132.8458333, c.RA, 1e-9)
		assert.InDelta(t, 11.8138889, c.Dec, 1e-9)
		assert.Equal(t, FrameICRS, c.Frame)
	})

	t.Run("unknown object", func(t *testing.T) {
		_, err := resolver.Resolve(context.Background(), "nowhere")
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestSesameResolver_EscapesName(t *testing.T) {
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		_, _ = w.Write([]byte(sesameM67))
	}))
	defer server.Close()

	resolver := NewSesameResolver(server.URL, server.Client())
	for _, name := range []string{"BD+20 307", "Cl Melotte 22 & x", " M67 "} {
		_, err := resolver.Resolve(context.Background(), name)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"BD%2B20%20307", "Cl%20Melotte%2022%20%26%20x", "M67"}, queries)
}

func TestSesameResolver_ServiceFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewSesameResolver(server.URL, nil).Resolve(context.Background(), "M67")
	require.Error(t, err)
	assert.True(t, errors.IsServiceUnavailable(err))
}

func TestCoordinateString(t *testing.T) {
	c := ICRS(132.8458333, -11.8138889)
	assert.Equal(t, "132.845833 -11.813889 (icrs)", c.String())
	assert.False(t, math.IsNaN(c.RA))
}
