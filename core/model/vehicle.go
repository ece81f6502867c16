package model

import (
	"fmt"
	"math"
)

// Dimensions are expressed in meters.
type Dimensions struct {
	Length float64 `json:"length" validate:"gte=0"`
	Width  float64 `json:"width" validate:"gte=0"`
	Height float64 `json:"height" validate:"gte=0"`
}

// Volume returns the cubic meters enclosed by the dimensions.
func (d Dimensions) Volume() float64 {
	return d.Length * d.Width * d.Height
}

// Vehicle describes a vehicle class or a concrete fleet unit able to carry freight.
type Vehicle struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Category           string     `json:"category"`
	Capacity           float64    `json:"capacity" validate:"gt=0"`            // kg
	VolumetricCapacity float64    `json:"volumetric_capacity" validate:"gt=0"` // m³
	Dimensions         Dimensions `json:"dimensions"`
	FuelType           FuelID     `json:"fuel_type" validate:"omitempty,oneof=diesel gasoline87 gasoline91"`
	FuelEfficiency     float64    `json:"fuel_efficiency" validate:"gte=0"` // km per liter
	Value              float64    `json:"value" validate:"gte=0"`
	UsefulLifeKm       float64    `json:"useful_life_km" validate:"gte=0"`
	Plate              string     `json:"plate,omitempty"`
	Company            string     `json:"company,omitempty"`
	SuspensionType     string     `json:"suspension_type,omitempty"`
}

// Validate checks that the vehicle definition is sound.
// Capacity and VolumetricCapacity must be positive.
func (v Vehicle) Validate() error {
	if v.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidVehicle)
	}
	if v.Capacity <= 0 || math.IsInf(v.Capacity, 0) || math.IsNaN(v.Capacity) {
		return fmt.Errorf("%w: capacity must be positive", ErrInvalidVehicle)
	}
	if v.VolumetricCapacity <= 0 || math.IsInf(v.VolumetricCapacity, 0) || math.IsNaN(v.VolumetricCapacity) {
		return fmt.Errorf("%w: volumetric_capacity must be positive", ErrInvalidVehicle)
	}
	for name, f := range map[string]float64{
		"fuel_efficiency": v.FuelEfficiency,
		"value":               v.Value,
		"useful_life_km":      v.UsefulLifeKm,
	} {
		if f < 0 || math.IsInf(f, 0) || math.IsNaN(f) {
			return fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidVehicle, name)
		}
	}
	if v.FuelType != "" && !v.FuelType.IsValid() {
		return fmt.Errorf("%w: unknown fuel type %q", ErrInvalidVehicle, v.FuelType)
	}
	return nil
}

// DefaultProfile derives a settings profile from the vehicle definition.
// It is used to seed vehicleDimensions for vehicles the administrator has
// not configured yet.
func (v Vehicle) DefaultProfile() VehicleProfile {
	p := VehicleProfile{
		Dimensions:   v.Dimensions,
		VehicleValue: v.Value,
		UsefulLifeKm: v.UsefulLifeKm,
	}
	if v.FuelType != "" {
		p.ActiveFuel = v.FuelType
		p.Efficiency = map[FuelID]float64{v.FuelType: v.FuelEfficiency}
	}
	return p
}
