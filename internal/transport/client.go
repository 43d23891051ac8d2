// Package transport provides the HTTP plumbing shared by the name resolver,
// the catalog client and the isochrone fetcher.
package transport

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/agentstation/gaiacmd/pkg/constants"
	"github.com/agentstation/gaiacmd/pkg/errors"
	"github.com/agentstation/gaiacmd/pkg/logging"
)

// maxErrorBody bounds how much of a failed response body is kept in an APIError.
const maxErrorBody = 512

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client performs requests against one named remote service.
type Client struct {
	http    *http.Client
	service string
}

// New creates a transport client for service. A nil httpClient gets a
// client with DefaultHTTPTimeout.
func New(service string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &Client{http: httpClient, service: service}
}

// Service returns the service name used in errors and logs.
func (c *Client) Service() string {
	return c.service
}

// Get performs a GET request. On success the caller owns the response body.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", "GET "+rawURL, err)
	}
	return c.Do(req)
}

// PostForm performs a form-encoded POST request. On success the caller owns
// the response body.
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.WrapResource("create", "request", "POST "+rawURL, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.Do(req)
}

// Do sends req once. Transport failures and non-2xx statuses are returned
// as *errors.APIError; the body of a failed response is closed here.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", constants.UserAgent)

	logging.FromContext(req.Context()).Debug().
		Str("service", c.service).
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Msg("Sending request")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WrapAPI(c.service, 0, err)
	}

	if err := CheckResponse(c.service, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CheckResponse returns an APIError for non-2xx responses, closing the body.
func CheckResponse(service string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	message := strings.TrimSpace(string(body))
	if message == "" {
		message = resp.Status
	}

	apiErr := errors.NewAPIError(service, resp.StatusCode, message)
	if resp.Request != nil {
		apiErr.Endpoint = resp.Request.URL.String()
	}
	return apiErr
}
