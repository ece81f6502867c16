package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/fleetquote/infra/tolls"
)

// HTTPConfig defines the API server.
type HTTPConfig struct {
	Addr         string        `json:"addr"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	// AllowedOrigins feeds the CORS middleware. Empty allows any origin.
	AllowedOrigins []string `json:"allowed_origins"`
}

func (c *HTTPConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 15 * time.Second
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
}

func (c HTTPConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("http addr is required")
	}
	return nil
}

// TollsConfig configures toll estimation. The distance based heuristic is
// used alone, or as the fallback of Service when its URL is set.
type TollsConfig struct {
	PerKm          float64            `json:"per_km"`
	CategoryFactor map[string]float64 `json:"category_factor"`
	Service        tolls.Config       `json:"service"`
}

func (c *TollsConfig) SetDefaults() {
	if c.PerKm == 0 {
		c.PerKm = 1.8
	}
	c.Service.SetDefaults()
}

func (c TollsConfig) Validate() error {
	if c.PerKm < 0 {
		return fmt.Errorf("tolls per_km must not be negative")
	}
	for cat, f := range c.CategoryFactor {
		if f < 0 {
			return fmt.Errorf("tolls category_factor %s must not be negative", cat)
		}
	}
	return nil
}

// KPIConfig locates the daily KPI database. An empty Path keeps the KPIs
// in memory.
type KPIConfig struct {
	Path string `json:"path"`
}
