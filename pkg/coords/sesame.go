package coords

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/url"
	"strings"

	"github.com/agentstation/gaiacmd/internal/transport"
	"github.com/agentstation/gaiacmd/pkg/constants"
	"github.com/agentstation/gaiacmd/pkg/errors"
	"github.com/agentstation/gaiacmd/pkg/logging"
)

// SesameResolver resolves names with the CDS Sesame service, which queries
// SIMBAD first and falls back to NED and VizieR.
type SesameResolver struct {
	URL       string
	transport *transport.Client
}

// NewSesameResolver creates a resolver for the Sesame endpoint at baseURL.
// An empty baseURL selects constants.DefaultSesameURL.
func NewSesameResolver(baseURL string, httpClient *http.Client) *SesameResolver {
	if baseURL == "" {
		baseURL = constants.DefaultSesameURL
	}
	return &SesameResolver{
		URL:       strings.TrimRight(baseURL, "/"),
		transport: transport.New("sesame", httpClient),
	}
}

type sesameResponse struct {
	Targets []struct {
		Name      string `xml:"name"`
		Resolvers []struct {
			Name   string   `xml:"name,attr"`
			OName  string   `xml:"oname"`
			RADeg  *float64 `xml:"jradeg"`
			DecDeg *float64 `xml:"jdedeg"`
		} `xml:"Resolver"`
	} `xml:"Target"`
}

// Resolve implements NameResolver.
func (s *SesameResolver) Resolve(ctx context.Context, name string) (Coordinate, error) {
	endpoint := s.URL + "?" + escapeName(name)

	resp, err := s.transport.Get(ctx, endpoint)
	if err != nil {
		return Coordinate{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	var payload sesameResponse
	if err := xml.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Coordinate{}, errors.WrapParse("xml", "sesame response", err)
	}

	for _, target := range payload.Targets {
		for _, r := range target.Resolvers {
			if r.RADeg == nil || r.DecDeg == nil {
				continue
			}
			logging.FromContext(ctx).Debug().
				Str("name", name).
				Str("resolver", strings.TrimSpace(r.Name)).
				Str("canonical", strings.TrimSpace(r.OName)).
				Msg("Resolved object name")
			return ICRS(*r.RADeg, *r.DecDeg), nil
		}
	}

	return Coordinate{}, errors.NewNotFoundError("object", name)
}

// escapeName percent-encodes a name for the Sesame query string. Spaces
// become %20 and '+' becomes %2B, so "BD+20 307" survives the round trip.
func escapeName(name string) string {
	return strings.ReplaceAll(url.QueryEscape(strings.TrimSpace(name)), "+", "%20")
}
