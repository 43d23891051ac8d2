package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/gaiacmd/pkg/errors"
)

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Contains(t, r.Header.Get("User-Agent"), "gaiacmd")
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := New("test", nil)
	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
}

func TestClient_PostForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "doQuery", r.PostForm.Get("REQUEST"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := New("test", server.Client())
	resp, err := client.PostForm(context.Background(), server.URL, url.Values{"REQUEST": {"doQuery"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestClient_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "archive down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New("gaia", nil)
	_, err := client.Get(context.Background(), server.URL)
	require.Error(t, err)

	var apiErr *pkgerrors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "gaia", apiErr.Service)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "archive down", apiErr.Message)
	assert.True(t, pkgerrors.IsServiceUnavailable(err))
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	client := New("sesame", nil)
	_, err := client.Get(context.Background(), addr)
	require.Error(t, err)

	var apiErr *pkgerrors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Zero(t, apiErr.StatusCode)
	assert.Equal(t, "sesame", apiErr.Service)
	assert.NotNil(t, apiErr.Unwrap())
}
