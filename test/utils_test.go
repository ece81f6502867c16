package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fleetquote/app"
	"github.com/kilianp07/fleetquote/config"
	"github.com/kilianp07/fleetquote/core/model"
)

// newTestService starts the full service with a JSONL quote log in a
// temporary directory. mutate adjusts the configuration before defaults.
func newTestService(t *testing.T, mutate func(*config.Config)) (*app.Service, *httptest.Server) {
	t.Helper()
	cfg := &config.Config{}
	cfg.QuoteLog.Backend = "jsonl"
	cfg.QuoteLog.Path = filepath.Join(t.TempDir(), "quotes.jsonl")
	if mutate != nil {
		mutate(cfg)
	}
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())

	svc, err := app.New(cfg)
	require.NoError(t, err)
	srv := httptest.NewServer(svc.Handler)
	t.Cleanup(func() {
		srv.Close()
		_ = svc.Close()
	})
	return svc, srv
}

func postQuote(t *testing.T, baseURL string, req model.TripRequest) model.Quote {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	resp, err := http.Post(baseURL+"/api/quotes", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var q model.Quote
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&q))
	return q
}

func ptr(v float64) *float64 { return &v }
