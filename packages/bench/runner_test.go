package bench

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Run(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.URL = server.URL
	cfg.Rate = 500
	cfg.Concurrency = 3
	cfg.Duration = "300ms"

	report, err := NewRunner(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Greater(t, report.Total, int64(0))
	assert.Equal(t, report.Total, hits.Load())
	assert.Equal(t, int64(0), report.Errors)
	assert.Greater(t, report.RPS, float64(0))
}

func TestRunner_PostWithAuth(t *testing.T) {
	var sawAuth atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := r.BasicAuth(); ok {
			sawAuth.Store(true)
		}
		assert.Equal(t, "POST", r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.URL = server.URL
	cfg.Method = "POST"
	cfg.ContentType = "application/x-www-form-urlencoded"
	cfg.Data = "hash=a3f"
	cfg.Rate = 200
	cfg.Concurrency = 2
	cfg.Duration = "200ms"
	cfg.Auth = "catmaid:secret"

	report, err := NewRunner(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Greater(t, report.Total, int64(0))
	assert.True(t, sawAuth.Load())
}

func TestRunner_CountsNon2xxAsErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.URL = server.URL
	cfg.Rate = 200
	cfg.Concurrency = 2
	cfg.Duration = "200ms"

	report, err := NewRunner(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Greater(t, report.Errors, int64(0))
	assert.Equal(t, report.Total, report.Errors)
	assert.InDelta(t, 1.0, report.ErrorRate, 0.0001)
}

func TestRunner_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()

	_, err := NewRunner(cfg).Run(context.Background())
	assert.Error(t, err)
}
