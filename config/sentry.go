package config

import "fmt"

// SentryConfig enables error reporting to Sentry when DSN is set.
type SentryConfig struct {
	DSN         string `json:"dsn"`
	Environment string `json:"environment"`
	Release     string `json:"release"`
	// TracesSampleRate is the share of requests traced, between 0 and 1.
	TracesSampleRate float64 `json:"traces_sample_rate"`
}

func (c *SentryConfig) SetDefaults() {
	if c.DSN != "" && c.Environment == "" {
		c.Environment = "production"
	}
}

func (c SentryConfig) Validate() error {
	if c.TracesSampleRate < 0 || c.TracesSampleRate > 1 {
		return fmt.Errorf("sentry traces_sample_rate must be between 0 and 1")
	}
	return nil
}
