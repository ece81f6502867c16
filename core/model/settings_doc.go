package model

import (
	"fmt"
	"maps"
)

// VehicleProfileDoc is the wire shape of a vehicle profile. Fuel selection
// accepts either ActiveFuel or the legacy FuelConfig map.
type VehicleProfileDoc struct {
	Length       float64                    `json:"length"`
	Width        float64                    `json:"width"`
	Height       float64                    `json:"height"`
	MinPrice     float64                    `json:"min_price"`
	PricePerKm   float64                    `json:"price_per_km,omitempty"`
	TireCount    float64                    `json:"tire_count"`
	TirePrice    float64                    `json:"tire_price"`
	TireLifeKm   float64                    `json:"tire_life_km"`
	VehicleValue float64                    `json:"vehicle_value"`
	UsefulLifeKm float64                    `json:"vehicle_useful_life_km"`
	ActiveFuel   FuelID                     `json:"active_fuel,omitempty"`
	FuelConfig   map[FuelID]FuelConfigEntry `json:"fuel_config,omitempty"`
}

// SettingsDoc is the serialisable form of Settings used by configuration
// files and the HTTP API.
type SettingsDoc struct {
	TransportRates    map[TransportType]float64    `json:"transport_rates,omitempty"`
	CargoRates        map[CargoType]float64        `json:"cargo_rates,omitempty"`
	PresentationRates map[Presentation]float64     `json:"presentation_rates,omitempty"`
	ServiceLevelRates map[ServiceLevel]float64     `json:"service_level_rates,omitempty"`
	FuelPrices        map[FuelID]float64           `json:"fuel_prices,omitempty"`
	ManeuverFees      ManeuverFees                 `json:"maneuver_fees"`
	TonKmRate         float64                      `json:"ton_km_rate"`
	InsuranceRate     float64                      `json:"insurance_rate"`
	FinancialFactors  FinancialFactors             `json:"financial_factors"`
	VehicleDimensions map[string]VehicleProfileDoc `json:"vehicle_dimensions,omitempty"`
	ProfitMargin      float64                      `json:"profit_margin"`
}

// Build converts the document into an immutable Settings value. PricePerKm
// values in the document are ignored since Settings derives them.
func (d SettingsDoc) Build() (Settings, error) {
	s := Settings{
		transportRates:    maps.Clone(d.TransportRates),
		cargoRates:        maps.Clone(d.CargoRates),
		presentationRates: maps.Clone(d.PresentationRates),
		serviceLevelRates: maps.Clone(d.ServiceLevelRates),
		fuelPrices:        maps.Clone(d.FuelPrices),
		maneuverFees:      d.ManeuverFees,
		tonKmRate:         d.TonKmRate,
		insuranceRate:     d.InsuranceRate,
		financial:         d.FinancialFactors,
		profitMargin:      d.ProfitMargin,
	}
	if d.FinancialFactors.DriverPaymentType != "" && !d.FinancialFactors.DriverPaymentType.IsValid() {
		return Settings{}, fmt.Errorf("%w: driver_payment_type %q", ErrInvalidInput, d.FinancialFactors.DriverPaymentType)
	}
	for id := range d.FuelPrices {
		if !id.IsValid() {
			return Settings{}, fmt.Errorf("%w: unknown fuel %q", ErrInvalidInput, id)
		}
	}
	for id, pd := range d.VehicleDimensions {
		base := VehicleProfile{
			Dimensions:   Dimensions{Length: pd.Length, Width: pd.Width, Height: pd.Height},
			MinPrice:     pd.MinPrice,
			TireCount:    pd.TireCount,
			TirePrice:    pd.TirePrice,
			TireLifeKm:   pd.TireLifeKm,
			VehicleValue: pd.VehicleValue,
			UsefulLifeKm: pd.UsefulLifeKm,
		}
		p, err := NewVehicleProfileFromFuelConfig(base, pd.FuelConfig)
		if err != nil {
			return Settings{}, fmt.Errorf("vehicle %s: %w", id, err)
		}
		if pd.ActiveFuel != "" {
			if !pd.ActiveFuel.IsValid() {
				return Settings{}, fmt.Errorf("vehicle %s: %w: unknown fuel %q", id, ErrInvalidInput, pd.ActiveFuel)
			}
			if p.ActiveFuel != "" && p.ActiveFuel != pd.ActiveFuel {
				return Settings{}, fmt.Errorf("vehicle %s: %w: %s and %s", id, ErrMultipleActiveFuels, p.ActiveFuel, pd.ActiveFuel)
			}
			p.ActiveFuel = pd.ActiveFuel
		}
		s = s.WithVehicleProfile(id, p)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Doc renders s as a document. PricePerKm is filled from the derived value.
func (s Settings) Doc() SettingsDoc {
	d := SettingsDoc{
		TransportRates:    maps.Clone(s.transportRates),
		CargoRates:        maps.Clone(s.cargoRates),
		PresentationRates: maps.Clone(s.presentationRates),
		ServiceLevelRates: maps.Clone(s.serviceLevelRates),
		FuelPrices:        maps.Clone(s.fuelPrices),
		ManeuverFees:      s.maneuverFees,
		TonKmRate:         s.tonKmRate,
		InsuranceRate:     s.insuranceRate,
		FinancialFactors:  s.financial,
		ProfitMargin:      s.profitMargin,
	}
	if len(s.profiles) > 0 {
		d.VehicleDimensions = make(map[string]VehicleProfileDoc, len(s.profiles))
	}
	for id, p := range s.profiles {
		d.VehicleDimensions[id] = VehicleProfileDoc{
			Length:       p.Dimensions.Length,
			Width:        p.Dimensions.Width,
			Height:       p.Dimensions.Height,
			MinPrice:     p.MinPrice,
			PricePerKm:   s.PricePerKm(id),
			TireCount:    p.TireCount,
			TirePrice:    p.TirePrice,
			TireLifeKm:   p.TireLifeKm,
			VehicleValue: p.VehicleValue,
			UsefulLifeKm: p.UsefulLifeKm,
			ActiveFuel:   p.ActiveFuel,
			FuelConfig:   p.FuelConfig(),
		}
	}
	return d
}
