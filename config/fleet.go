package config

import (
	"fmt"

	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/fleetquote/core/model"
)

// LoadVehicles reads a fleet file holding a top level "vehicles" list.
func LoadVehicles(path string) ([]model.Vehicle, error) {
	k := koanf.New(".")
	if err := loadFile(k, path); err != nil {
		return nil, err
	}
	var doc struct {
		Vehicles []model.Vehicle `json:"vehicles"`
	}
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decode fleet: %w", err)
	}
	for i, v := range doc.Vehicles {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("fleet vehicle %d: %w", i, err)
		}
	}
	return doc.Vehicles, nil
}
