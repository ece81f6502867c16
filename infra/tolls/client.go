// Package tolls queries a remote toll estimation service.
package tolls

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/kilianp07/fleetquote/core/model"
	"github.com/kilianp07/fleetquote/infra/logger"
)

// Config defines the toll service endpoint. An empty URL disables the client.
type Config struct {
	URL        string        `json:"url"`
	APIKey     string        `json:"api_key"`
	Timeout    time.Duration `json:"timeout"`
	MaxRetries int           `json:"max_retries"`
	BackoffMS  int           `json:"backoff_ms"`
}

func (c *Config) SetDefaults() {
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.BackoffMS <= 0 {
		c.BackoffMS = 200
	}
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("toll service returned %d: %s", e.Code, e.Body)
}

// Client estimates tolls through POST <url>/estimate.
type Client struct {
	cfg    Config
	http   *http.Client
	logger logger.Logger
}

type estimateRequest struct {
	DistanceKm float64 `json:"distance_km"`
	VehicleID  string  `json:"vehicle_id"`
	Category   string  `json:"vehicle_category"`
	TravelDays int     `json:"travel_days,omitempty"`
}

type estimateResponse struct {
	Amount float64 `json:"amount"`
}

func NewClient(cfg Config) (*Client, error) {
	cfg.SetDefaults()
	if cfg.URL == "" {
		return nil, errors.New("tolls: url is required")
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger.New("tolls"),
	}, nil
}

// EstimateTolls returns the toll amount of leg for v. Network errors, 429
// and 5xx responses are retried with exponential backoff.
func (c *Client) EstimateTolls(ctx context.Context, leg model.Leg, v model.Vehicle) (float64, error) {
	body, err := json.Marshal(estimateRequest{
		DistanceKm: leg.DistanceKm,
		VehicleID:  v.ID,
		Category:   v.Category,
		TravelDays: leg.TravelDays,
	})
	if err != nil {
		return 0, err
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Duration(c.cfg.BackoffMS) * time.Millisecond
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.cfg.MaxRetries)), ctx)

	var out estimateResponse
	op := func() error {
		return c.post(ctx, body, &out)
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Warnf("toll estimate failed, retrying in %s: %v", wait, err)
	}
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return 0, fmt.Errorf("estimate tolls: %w", err)
	}
	if out.Amount < 0 || math.IsNaN(out.Amount) || math.IsInf(out.Amount, 0) {
		return 0, fmt.Errorf("estimate tolls: invalid amount %v", out.Amount)
	}
	return out.Amount, nil
}

func (c *Client) post(ctx context.Context, body []byte, out *estimateResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL+"/estimate", bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		serr := &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
		switch resp.StatusCode {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return serr
		}
		return backoff.Permanent(serr)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}
	return nil
}
