package config

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/fleetquote/core/model"
)

//go:embed defaults.yaml
var defaultSettingsYAML []byte

// settingsDelim separates nested keys. Vehicle ids contain dots, so the
// usual "." delimiter would split them.
const settingsDelim = "/"

// bytesProvider feeds raw bytes to koanf.
type bytesProvider []byte

func (b bytesProvider) ReadBytes() ([]byte, error) { return b, nil }

func (b bytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("bytes provider does not support Read")
}

// DefaultSettings returns the built-in tariff table.
func DefaultSettings() model.Settings {
	s, err := LoadSettings("")
	if err != nil {
		panic(fmt.Sprintf("embedded default settings: %v", err))
	}
	return s
}

// LoadSettings reads a YAML or JSON settings document and merges it over the
// built-in defaults. An empty path returns the defaults. Vehicle profiles may
// use either active_fuel or the legacy fuel_config map.
func LoadSettings(path string) (model.Settings, error) {
	k := koanf.New(settingsDelim)
	if err := k.Load(bytesProvider(defaultSettingsYAML), yaml.Parser()); err != nil {
		return model.Settings{}, fmt.Errorf("load default settings: %w", err)
	}
	if path != "" {
		fk := koanf.New(settingsDelim)
		if err := loadFile(fk, path); err != nil {
			return model.Settings{}, err
		}
		clearReplacedFuels(k, fk)
		if err := k.Merge(fk); err != nil {
			return model.Settings{}, fmt.Errorf("merge settings %s: %w", path, err)
		}
	}
	var doc model.SettingsDoc
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return model.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	s, err := doc.Build()
	if err != nil {
		return model.Settings{}, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// clearReplacedFuels drops the fuel selection of base for every vehicle whose
// profile in file names a fuel, so the file's choice replaces it instead of
// being merged next to it. Efficiencies are kept.
func clearReplacedFuels(base, file *koanf.Koanf) {
	for _, id := range file.MapKeys("vehicle_dimensions") {
		prefix := "vehicle_dimensions" + settingsDelim + id + settingsDelim
		if !namesFuel(file, prefix) {
			continue
		}
		base.Delete(prefix + "active_fuel")
		for _, fuel := range base.MapKeys(prefix + "fuel_config") {
			base.Delete(prefix + "fuel_config" + settingsDelim + fuel + settingsDelim + "enabled")
		}
	}
}

func namesFuel(k *koanf.Koanf, prefix string) bool {
	if k.String(prefix+"active_fuel") != "" {
		return true
	}
	for _, fuel := range k.MapKeys(prefix + "fuel_config") {
		if k.Bool(prefix + "fuel_config" + settingsDelim + fuel + settingsDelim + "enabled") {
			return true
		}
	}
	return false
}
