package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		c := NewHTTPClient(HTTPClientConfig{})

		assert.Equal(t, 30*time.Second, c.config.Timeout)
		assert.Equal(t, 3.0, c.config.RateLimit)
		assert.Equal(t, 3, c.config.BurstSize)
		assert.Equal(t, "Helixir-MedlineFetcher/1.0", c.config.UserAgent)
	})

	t.Run("keeps custom values", func(t *testing.T) {
		c := NewHTTPClient(HTTPClientConfig{
			Timeout:   5 * time.Second,
			RateLimit: 10,
			BurstSize: 10,
			UserAgent: "custom/1.0",
		})

		assert.Equal(t, 5*time.Second, c.config.Timeout)
		assert.Equal(t, 10.0, c.config.RateLimit)
		assert.Equal(t, "custom/1.0", c.config.UserAgent)
	})
}

func TestHTTPClient_Do(t *testing.T) {
	t.Run("sets default user agent", func(t *testing.T) {
		var receivedUA string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			receivedUA = r.Header.Get("User-Agent")
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		c := NewHTTPClient(HTTPClientConfig{RateLimit: 100, BurstSize: 10})

		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
		require.NoError(t, err)

		resp, err := c.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, "Helixir-MedlineFetcher/1.0", receivedUA)
	})

	t.Run("preserves caller user agent", func(t *testing.T) {
		var receivedUA string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			receivedUA = r.Header.Get("User-Agent")
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		c := NewHTTPClient(HTTPClientConfig{RateLimit: 100, BurstSize: 10})

		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
		require.NoError(t, err)
		req.Header.Set("User-Agent", "caller/2.0")

		resp, err := c.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, "caller/2.0", receivedUA)
	})

	t.Run("issues a failing request exactly once", func(t *testing.T) {
		var requests int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		c := NewHTTPClient(HTTPClientConfig{RateLimit: 100, BurstSize: 10})

		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
		require.NoError(t, err)

		resp, err := c.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		// A 500 is the caller's problem; the transport never retries.
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, 1, requests)
	})

	t.Run("aborts on canceled context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		c := NewHTTPClient(HTTPClientConfig{RateLimit: 100, BurstSize: 10})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
		require.NoError(t, err)

		_, err = c.Do(req)
		require.Error(t, err)
	})
}
