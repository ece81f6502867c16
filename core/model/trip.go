package model

import (
	"errors"
	"fmt"
	"math"
)

// MaxLegDistanceKm bounds the distance of a single leg.
const MaxLegDistanceKm = 100_000

// Leg is one direction of a trip.
type Leg struct {
	DistanceKm float64 `json:"distance_km" yaml:"distance_km" validate:"gte=0,lte=100000"`
	// Tolls is nil when the caller wants tolls estimated.
	Tolls *float64 `json:"tolls,omitempty" yaml:"tolls,omitempty" validate:"omitempty,gte=0"`
	// TravelDays overrides the days derived from the driver daily range.
	TravelDays int `json:"travel_days,omitempty" yaml:"travel_days,omitempty" validate:"gte=0"`
}

// TollsOrZero returns the resolved toll amount of the leg.
func (l Leg) TollsOrZero() float64 {
	if l.Tolls == nil {
		return 0
	}
	return *l.Tolls
}

// Overrides replace values normally derived from Settings. A nil field keeps
// the derived value.
type Overrides struct {
	FuelPrice      *float64 `json:"fuel_price,omitempty" yaml:"fuel_price,omitempty" validate:"omitempty,gte=0"`
	FuelEfficiency *float64 `json:"fuel_efficiency,omitempty" yaml:"fuel_efficiency,omitempty" validate:"omitempty,gte=0"`
	DriverPay      *float64 `json:"driver_pay,omitempty" yaml:"driver_pay,omitempty" validate:"omitempty,gte=0"`
	PerDiem        *float64 `json:"per_diem,omitempty" yaml:"per_diem,omitempty" validate:"omitempty,gte=0"`
	Lodging        *float64 `json:"lodging,omitempty" yaml:"lodging,omitempty" validate:"omitempty,gte=0"`
	// UnforeseenPercent replaces the imponderables percentage.
	UnforeseenPercent *float64 `json:"unforeseen_percent,omitempty" yaml:"unforeseen_percent,omitempty" validate:"omitempty,gte=0"`
	OtherExpenses     *float64 `json:"other_expenses,omitempty" yaml:"other_expenses,omitempty" validate:"omitempty,gte=0"`
}

// TripRequest describes a package and the trip it needs. It is built per
// quote and never stored by the pricing engine.
type TripRequest struct {
	WeightKg                 float64            `json:"weight_kg" yaml:"weight_kg" validate:"gte=0"`
	DeclaredValue            float64            `json:"declared_value" yaml:"declared_value" validate:"gte=0"`
	Dimensions               Dimensions         `json:"dimensions" yaml:"dimensions"`
	VolumeM3                 float64            `json:"volume_m3,omitempty" yaml:"volume_m3,omitempty" validate:"omitempty,gte=0"`
	Outbound                 Leg                `json:"outbound" yaml:"outbound"`
	Return                   *Leg               `json:"return,omitempty" yaml:"return,omitempty"`
	TransportType            TransportType      `json:"transport_type" yaml:"transport_type" validate:"omitempty,oneof=FTL PTL LTL"`
	CargoType                CargoType          `json:"cargo_type" yaml:"cargo_type" validate:"omitempty,oneof=general hazardous perishable machinery fragile"`
	Presentation             Presentation       `json:"presentation" yaml:"presentation" validate:"omitempty,oneof=Granel Paletizado General"`
	RequiresLoadingSupport   bool               `json:"requires_loading_support" yaml:"requires_loading_support"`
	RequiresUnloadingSupport bool               `json:"requires_unloading_support" yaml:"requires_unloading_support"`
	IsStackable              bool               `json:"is_stackable" yaml:"is_stackable"`
	RequiresStretchWrap      bool               `json:"requires_stretch_wrap" yaml:"requires_stretch_wrap"`
	Insurance                InsuranceSelection `json:"insurance_selection" yaml:"insurance_selection" validate:"omitempty,oneof=jfc own"`
	ServiceLevel             ServiceLevel       `json:"service_level,omitempty" yaml:"service_level,omitempty" validate:"omitempty,oneof=standard express"`
	VehicleID                string             `json:"vehicle_id,omitempty" yaml:"vehicle_id,omitempty"`
	Overrides                Overrides          `json:"overrides" yaml:"overrides"`
}

// Split reports whether the trip is priced as two legs.
func (r TripRequest) Split() bool { return r.Return != nil }

// TotalDistanceKm sums both legs.
func (r TripRequest) TotalDistanceKm() float64 {
	d := r.Outbound.DistanceKm
	if r.Return != nil {
		d += r.Return.DistanceKm
	}
	return d
}

// PackageVolume returns the explicit volume or the one derived from dimensions.
func (r TripRequest) PackageVolume() float64 {
	if r.VolumeM3 > 0 {
		return r.VolumeM3
	}
	return r.Dimensions.Volume()
}

// Validate rejects negative or non-finite numbers and unknown enum values.
// Empty enum values are accepted and fall back to their neutral default.
func (r TripRequest) Validate() error {
	var errs []error
	check := func(name string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be a finite non-negative number", ErrInvalidInput, name))
		}
	}
	checkPtr := func(name string, v *float64) {
		if v != nil {
			check(name, *v)
		}
	}
	checkLeg := func(prefix string, l Leg) {
		check(prefix+".distance_km", l.DistanceKm)
		if l.DistanceKm > MaxLegDistanceKm {
			errs = append(errs, fmt.Errorf("%w: %s.distance_km exceeds %d km", ErrInvalidInput, prefix, MaxLegDistanceKm))
		}
		checkPtr(prefix+".tolls", l.Tolls)
		if l.TravelDays < 0 {
			errs = append(errs, fmt.Errorf("%w: %s.travel_days must not be negative", ErrInvalidInput, prefix))
		}
	}

	check("weight_kg", r.WeightKg)
	check("declared_value", r.DeclaredValue)
	check("volume_m3", r.VolumeM3)
	check("dimensions.length", r.Dimensions.Length)
	check("dimensions.width", r.Dimensions.Width)
	check("dimensions.height", r.Dimensions.Height)
	checkLeg("outbound", r.Outbound)
	if r.Return != nil {
		checkLeg("return", *r.Return)
	}
	o := r.Overrides
	checkPtr("overrides.fuel_price", o.FuelPrice)
	checkPtr("overrides.fuel_efficiency", o.FuelEfficiency)
	checkPtr("overrides.driver_pay", o.DriverPay)
	checkPtr("overrides.per_diem", o.PerDiem)
	checkPtr("overrides.lodging", o.Lodging)
	checkPtr("overrides.unforeseen_percent", o.UnforeseenPercent)
	checkPtr("overrides.other_expenses", o.OtherExpenses)

	if r.TransportType != "" && !r.TransportType.IsValid() {
		errs = append(errs, fmt.Errorf("%w: unknown transport_type %q", ErrInvalidInput, r.TransportType))
	}
	if r.CargoType != "" && !r.CargoType.IsValid() {
		errs = append(errs, fmt.Errorf("%w: unknown cargo_type %q", ErrInvalidInput, r.CargoType))
	}
	if r.Presentation != "" && !r.Presentation.IsValid() {
		errs = append(errs, fmt.Errorf("%w: unknown presentation %q", ErrInvalidInput, r.Presentation))
	}
	if r.Insurance != "" && !r.Insurance.IsValid() {
		errs = append(errs, fmt.Errorf("%w: unknown insurance_selection %q", ErrInvalidInput, r.Insurance))
	}
	if r.ServiceLevel != "" && !r.ServiceLevel.IsValid() {
		errs = append(errs, fmt.Errorf("%w: unknown service_level %q", ErrInvalidInput, r.ServiceLevel))
	}
	return errors.Join(errs...)
}
