package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/fleetquote/core/metrics"
	"github.com/kilianp07/fleetquote/core/quotelog"
	"github.com/kilianp07/fleetquote/infra/mqtt"
)

// EnvPrefix prefixes environment overrides. Nested keys are separated by a
// double underscore: FQ_HTTP__ADDR sets http.addr.
const EnvPrefix = "FQ_"

type Config struct {
	HTTP     HTTPConfig      `json:"http"`
	Logging  LoggingConfig   `json:"logging"`
	Metrics  metrics.Config  `json:"metrics"`
	QuoteLog quotelog.Config `json:"quote_log"`
	// MQTT publishes quotes to a broker when Broker is set.
	MQTT   mqtt.Config  `json:"mqtt"`
	Sentry SentryConfig `json:"sentry"`
	Tolls  TollsConfig  `json:"tolls"`
	KPI    KPIConfig    `json:"kpi"`
	// SettingsFile holds the tariff table merged over the built-in defaults.
	SettingsFile string `json:"settings_file"`
	// FleetFile lists fleet vehicles added to the stock catalog.
	FleetFile string `json:"fleet_file"`
}

// Load reads the configuration file at path, when given, then applies
// environment overrides. A .env file in the working directory is loaded
// first if present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	k := koanf.New(".")
	if path != "" {
		if err := loadFile(k, path); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	var parser koanf.Parser
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	c.HTTP.SetDefaults()
	c.Logging.SetDefaults()
	c.QuoteLog.SetDefaults()
	c.Tolls.SetDefaults()
	c.Sentry.SetDefaults()
	if c.MQTT.Broker != "" {
		c.MQTT.SetDefaults()
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.HTTP.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	switch c.QuoteLog.Backend {
	case "jsonl", "jsonl_rotating", "sqlite", "none":
	default:
		return fmt.Errorf("%w %q", quotelog.ErrUnknownBackend, c.QuoteLog.Backend)
	}
	if err := c.Tolls.Validate(); err != nil {
		return err
	}
	if err := c.Sentry.Validate(); err != nil {
		return err
	}
	if c.MQTT.Broker != "" {
		if err := c.MQTT.Validate(); err != nil {
			return err
		}
	}
	for _, s := range c.Metrics.Sinks {
		if s.Type == "" {
			return fmt.Errorf("metrics sink without type")
		}
	}
	return nil
}
