package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/config"

	"github.com/stretchr/testify/assert"
)

func wrapOK(cfg config.APIConfig) http.Handler {
	return NewAPIAuth(cfg).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func probe(h http.Handler, apiKey string) int {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "10.0.0.1:54321"
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestAPIKeyAuth(t *testing.T) {
	cfg := config.APIConfig{
		Auth: config.APIAuthConfig{
			Enabled: true,
			APIKeys: []config.APIClientKey{
				{Key: "secret-one", Name: "gateway"},
				{Key: "secret-two", Name: "ops"},
			},
		},
	}
	h := wrapOK(cfg)

	assert.Equal(t, http.StatusUnauthorized, probe(h, ""))
	assert.Equal(t, http.StatusUnauthorized, probe(h, "wrong"))
	assert.Equal(t, http.StatusOK, probe(h, "secret-one"))
	assert.Equal(t, http.StatusOK, probe(h, "secret-two"))
}

func TestAuthDisabledPassesThrough(t *testing.T) {
	h := wrapOK(config.APIConfig{})

	assert.Equal(t, http.StatusOK, probe(h, ""))
}

func TestCustomHeaderName(t *testing.T) {
	cfg := config.APIConfig{
		Auth: config.APIAuthConfig{
			Enabled:      true,
			HeaderAPIKey: "X-Gateway-Key",
			APIKeys:      []config.APIClientKey{{Key: "secret"}},
		},
	}
	h := wrapOK(cfg)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Gateway-Key", "secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The default header is not consulted when a custom one is set.
	assert.Equal(t, http.StatusUnauthorized, probe(h, "secret"))
}

func TestRateLimitPerKey(t *testing.T) {
	cfg := config.APIConfig{
		Auth: config.APIAuthConfig{
			Enabled: true,
			APIKeys: []config.APIClientKey{
				{Key: "key-a"},
				{Key: "key-b"},
			},
		},
		RateLimit: config.APIRateLimitConfig{RPS: 0.001, Burst: 2},
	}
	h := wrapOK(cfg)

	assert.Equal(t, http.StatusOK, probe(h, "key-a"))
	assert.Equal(t, http.StatusOK, probe(h, "key-a"))
	assert.Equal(t, http.StatusTooManyRequests, probe(h, "key-a"))

	// A different key has its own bucket.
	assert.Equal(t, http.StatusOK, probe(h, "key-b"))
}

func TestRateLimitDisabledWhenRPSZero(t *testing.T) {
	h := wrapOK(config.APIConfig{})

	for i := 0; i < 50; i++ {
		assert.Equal(t, http.StatusOK, probe(h, ""))
	}
}
