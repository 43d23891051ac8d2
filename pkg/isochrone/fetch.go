package isochrone

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/gaiacmd/internal/transport"
	"github.com/agentstation/gaiacmd/pkg/constants"
	"github.com/agentstation/gaiacmd/pkg/errors"
)

// Fetcher opens the raw grid resource for a family. Callers close the reader.
type Fetcher interface {
	Fetch(ctx context.Context, family Family) (io.ReadCloser, error)
}

// FileName returns the grid file name for family, e.g. "mist_gaia_edr3.txt".
func FileName(family Family) string {
	return string(family) + "_gaia_edr3.txt"
}

// HTTPFetcher downloads grids from BaseURL/<family>_gaia_edr3.txt on every call.
type HTTPFetcher struct {
	BaseURL   string
	transport *transport.Client
}

// NewHTTPFetcher creates a fetcher. An empty baseURL selects
// constants.DefaultIsochroneBaseURL.
func NewHTTPFetcher(baseURL string, httpClient *http.Client) *HTTPFetcher {
	if baseURL == "" {
		baseURL = constants.DefaultIsochroneBaseURL
	}
	return &HTTPFetcher{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		transport: transport.New("isochrone", httpClient),
	}
}

// URL returns the resource address for family.
func (f *HTTPFetcher) URL(family Family) string {
	return f.BaseURL + "/" + FileName(family)
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, family Family) (io.ReadCloser, error) {
	if !family.Valid() {
		return nil, errors.NewUnsupportedError("model family", string(family), familyNames())
	}
	resp, err := f.transport.Get(ctx, f.URL(family))
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// DirFetcher reads grids from a local directory holding <family>_gaia_edr3.txt files.
type DirFetcher struct {
	Dir string
}

// NewDirFetcher creates a fetcher rooted at dir.
func NewDirFetcher(dir string) *DirFetcher {
	return &DirFetcher{Dir: dir}
}

// Fetch implements Fetcher.
func (f *DirFetcher) Fetch(_ context.Context, family Family) (io.ReadCloser, error) {
	if !family.Valid() {
		return nil, errors.NewUnsupportedError("model family", string(family), familyNames())
	}
	path := filepath.Join(f.Dir, FileName(family))
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("isochrone grid", path)
		}
		return nil, errors.WrapIO("open", path, err)
	}
	return file, nil
}
