package model

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
)

// ManeuverFees are flat fees charged when the carrier loads or unloads.
type ManeuverFees struct {
	Loading   float64 `json:"loading"`
	Unloading float64 `json:"unloading"`
}

// FinancialFactors groups driver, overhead and margin parameters.
// Percentages are expressed as 0-100.
type FinancialFactors struct {
	ImponderablesPercent  float64           `json:"imponderables_to_use"`
	DriverPaymentType     DriverPaymentType `json:"driver_payment_type"`
	DriverDailySalary     float64           `json:"driver_daily_salary"`
	DriverPercent         float64           `json:"driver_percent"`
	DriverKmPerDay        float64           `json:"driver_km_per_day"`
	DriverPerDiem         float64           `json:"driver_viaticos_per_day"`
	GPSMonthlyRent        float64           `json:"gps_monthly_rent"`
	JFCMarginOutbound     float64           `json:"profit_margin_jfc_outbound"`
	JFCMarginReturn       float64           `json:"profit_margin_jfc_return"`
	CarrierMarginOutbound float64           `json:"profit_margin_carrier_outbound"`
	CarrierMarginReturn   float64           `json:"profit_margin_carrier_return"`
}

// FuelConfigEntry is the per-fuel record of the legacy fuel configuration map.
type FuelConfigEntry struct {
	Enabled    bool    `json:"enabled"`
	Efficiency float64 `json:"efficiency"`
}

// VehicleProfile holds the cost parameters of a vehicle inside Settings.
// ActiveFuel selects exactly one entry of Efficiency; the zero value means the
// vehicle has no fuel configured.
type VehicleProfile struct {
	Dimensions   Dimensions         `json:"dimensions"`
	MinPrice     float64            `json:"min_price"`
	TireCount    float64            `json:"tire_count"`
	TirePrice    float64            `json:"tire_price"`
	TireLifeKm   float64            `json:"tire_life_km"`
	VehicleValue float64            `json:"vehicle_value"`
	UsefulLifeKm float64            `json:"vehicle_useful_life_km"`
	ActiveFuel   FuelID             `json:"active_fuel,omitempty"`
	Efficiency   map[FuelID]float64 `json:"efficiency,omitempty"`
}

// NewVehicleProfileFromFuelConfig converts the legacy map of enabled flags into
// a profile with an explicit active fuel. Efficiencies of disabled fuels are
// kept so switching fuels later does not lose them.
func NewVehicleProfileFromFuelConfig(base VehicleProfile, cfg map[FuelID]FuelConfigEntry) (VehicleProfile, error) {
	p := base.clone()
	p.ActiveFuel = ""
	if len(cfg) > 0 && p.Efficiency == nil {
		p.Efficiency = make(map[FuelID]float64, len(cfg))
	}
	for id, e := range cfg {
		if !id.IsValid() {
			return VehicleProfile{}, fmt.Errorf("%w: unknown fuel %q", ErrInvalidInput, id)
		}
		p.Efficiency[id] = e.Efficiency
		if !e.Enabled {
			continue
		}
		if p.ActiveFuel != "" {
			return VehicleProfile{}, fmt.Errorf("%w: %s and %s", ErrMultipleActiveFuels, p.ActiveFuel, id)
		}
		p.ActiveFuel = id
	}
	return p, nil
}

// FuelConfig renders the profile back into the legacy map form.
func (p VehicleProfile) FuelConfig() map[FuelID]FuelConfigEntry {
	out := make(map[FuelID]FuelConfigEntry, len(p.Efficiency))
	for id, eff := range p.Efficiency {
		out[id] = FuelConfigEntry{Enabled: id == p.ActiveFuel, Efficiency: eff}
	}
	if _, ok := out[p.ActiveFuel]; !ok && p.ActiveFuel != "" {
		out[p.ActiveFuel] = FuelConfigEntry{Enabled: true}
	}
	return out
}

// ActiveEfficiency returns the km per liter of the active fuel, or 0.
func (p VehicleProfile) ActiveEfficiency() float64 {
	if p.ActiveFuel == "" {
		return 0
	}
	return p.Efficiency[p.ActiveFuel]
}

func (p VehicleProfile) clone() VehicleProfile {
	p.Efficiency = maps.Clone(p.Efficiency)
	return p
}

// Settings is the tenant-wide tariff configuration. It is an immutable value:
// every With* method returns a modified copy and never touches the receiver.
type Settings struct {
	transportRates    map[TransportType]float64
	cargoRates        map[CargoType]float64
	presentationRates map[Presentation]float64
	serviceLevelRates map[ServiceLevel]float64
	fuelPrices        map[FuelID]float64
	maneuverFees      ManeuverFees
	tonKmRate         float64
	insuranceRate     float64
	financial         FinancialFactors
	profiles          map[string]VehicleProfile
	profitMargin      float64
}

// Clone returns a deep copy of s.
func (s Settings) Clone() Settings {
	out := s
	out.transportRates = maps.Clone(s.transportRates)
	out.cargoRates = maps.Clone(s.cargoRates)
	out.presentationRates = maps.Clone(s.presentationRates)
	out.serviceLevelRates = maps.Clone(s.serviceLevelRates)
	out.fuelPrices = maps.Clone(s.fuelPrices)
	if s.profiles != nil {
		out.profiles = make(map[string]VehicleProfile, len(s.profiles))
		for id, p := range s.profiles {
			out.profiles[id] = p.clone()
		}
	}
	return out
}

func withKey[K comparable](m map[K]float64, k K, v float64) map[K]float64 {
	out := maps.Clone(m)
	if out == nil {
		out = make(map[K]float64, 1)
	}
	out[k] = v
	return out
}

func rateOrOne[K comparable](m map[K]float64, k K) float64 {
	if v, ok := m[k]; ok {
		return v
	}
	return 1
}

func (s Settings) WithTransportRate(t TransportType, rate float64) Settings {
	s.transportRates = withKey(s.transportRates, t, rate)
	return s
}

func (s Settings) WithCargoRate(c CargoType, rate float64) Settings {
	s.cargoRates = withKey(s.cargoRates, c, rate)
	return s
}

func (s Settings) WithPresentationRate(p Presentation, rate float64) Settings {
	s.presentationRates = withKey(s.presentationRates, p, rate)
	return s
}

func (s Settings) WithServiceLevelRate(l ServiceLevel, rate float64) Settings {
	s.serviceLevelRates = withKey(s.serviceLevelRates, l, rate)
	return s
}

func (s Settings) WithFuelPrice(f FuelID, price float64) Settings {
	s.fuelPrices = withKey(s.fuelPrices, f, price)
	return s
}

func (s Settings) WithManeuverFees(f ManeuverFees) Settings {
	s.maneuverFees = f
	return s
}

func (s Settings) WithTonKmRate(rate float64) Settings {
	s.tonKmRate = rate
	return s
}

// WithInsuranceRate sets the insurance percentage applied to the declared value.
func (s Settings) WithInsuranceRate(percent float64) Settings {
	s.insuranceRate = percent
	return s
}

func (s Settings) WithFinancialFactors(f FinancialFactors) Settings {
	s.financial = f
	return s
}

// WithProfitMargin sets the legacy global margin percentage used by PricePerKm.
func (s Settings) WithProfitMargin(percent float64) Settings {
	s.profitMargin = percent
	return s
}

// WithVehicleProfile stores a copy of p for the given vehicle.
func (s Settings) WithVehicleProfile(vehicleID string, p VehicleProfile) Settings {
	profiles := make(map[string]VehicleProfile, len(s.profiles)+1)
	for id, existing := range s.profiles {
		profiles[id] = existing
	}
	profiles[vehicleID] = p.clone()
	s.profiles = profiles
	return s
}

// WithActiveFuel switches the active fuel of a vehicle, deselecting any other
// fuel. An efficiency of zero keeps the previously known value.
func (s Settings) WithActiveFuel(vehicleID string, fuel FuelID, efficiency float64) Settings {
	p := s.profiles[vehicleID].clone()
	if p.Efficiency == nil {
		p.Efficiency = make(map[FuelID]float64, 1)
	}
	if efficiency > 0 {
		p.Efficiency[fuel] = efficiency
	}
	p.ActiveFuel = fuel
	return s.WithVehicleProfile(vehicleID, p)
}

// TransportRate returns the multiplier for t, 1 when unset.
func (s Settings) TransportRate(t TransportType) float64 { return rateOrOne(s.transportRates, t) }

// CargoRate returns the multiplier for c, 1 when unset.
func (s Settings) CargoRate(c CargoType) float64 { return rateOrOne(s.cargoRates, c) }

// PresentationRate returns the multiplier for p, 1 when unset.
func (s Settings) PresentationRate(p Presentation) float64 { return rateOrOne(s.presentationRates, p) }

// ServiceLevelRate returns the multiplier for l, 1 when unset.
func (s Settings) ServiceLevelRate(l ServiceLevel) float64 {
	return rateOrOne(s.serviceLevelRates, l.OrDefault())
}

// FuelPrice returns the price per liter of f, 0 when unset.
func (s Settings) FuelPrice(f FuelID) float64 { return s.fuelPrices[f] }

func (s Settings) ManeuverFees() ManeuverFees         { return s.maneuverFees }
func (s Settings) TonKmRate() float64                 { return s.tonKmRate }
func (s Settings) InsuranceRate() float64             { return s.insuranceRate }
func (s Settings) FinancialFactors() FinancialFactors { return s.financial }
func (s Settings) ProfitMargin() float64              { return s.profitMargin }

// Profile returns a copy of the profile stored for vehicleID.
func (s Settings) Profile(vehicleID string) (VehicleProfile, bool) {
	p, ok := s.profiles[vehicleID]
	return p.clone(), ok
}

// ProfileIDs lists the vehicles with a stored profile.
func (s Settings) ProfileIDs() []string {
	ids := make([]string, 0, len(s.profiles))
	for id := range s.profiles {
		ids = append(ids, id)
	}
	return ids
}

// PricePerKm derives the display price per kilometer of a vehicle from its
// active fuel: (fuelPrice / efficiency) * (1 + profitMargin/100). It is
// computed on every call and never stored.
func (s Settings) PricePerKm(vehicleID string) float64 {
	p, ok := s.profiles[vehicleID]
	if !ok {
		return 0
	}
	return s.profilePricePerKm(p)
}

// VehiclePricePerKm is PricePerKm read from the profile WithVehicleDefaults
// would price v with.
func (s Settings) VehiclePricePerKm(v Vehicle) float64 {
	p, ok := s.profiles[v.ID]
	if !ok {
		p = v.DefaultProfile()
	}
	return s.profilePricePerKm(p)
}

// WithVehicleDefaults seeds the profile of v from its definition when no
// profile is stored for it.
func (s Settings) WithVehicleDefaults(v Vehicle) Settings {
	if _, ok := s.profiles[v.ID]; ok {
		return s
	}
	return s.WithVehicleProfile(v.ID, v.DefaultProfile())
}

func (s Settings) profilePricePerKm(p VehicleProfile) float64 {
	eff := p.ActiveEfficiency()
	price := s.FuelPrice(p.ActiveFuel)
	if eff <= 0 || price <= 0 {
		return 0
	}
	return price / eff * (1 + s.profitMargin/100)
}

// Validate rejects negative or non-finite rates, fees, factors and profile
// values.
func (s Settings) Validate() error {
	var errs []error
	check := func(name string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be a finite non-negative number", ErrInvalidInput, name))
		}
	}
	checkRates(check, "transport_rates", s.transportRates)
	checkRates(check, "cargo_rates", s.cargoRates)
	checkRates(check, "presentation_rates", s.presentationRates)
	checkRates(check, "service_level_rates", s.serviceLevelRates)
	checkRates(check, "fuel_prices", s.fuelPrices)

	check("maneuver_fees.loading", s.maneuverFees.Loading)
	check("maneuver_fees.unloading", s.maneuverFees.Unloading)
	check("ton_km_rate", s.tonKmRate)
	check("insurance_rate", s.insuranceRate)
	check("profit_margin", s.profitMargin)

	f := s.financial
	check("financial_factors.imponderables_to_use", f.ImponderablesPercent)
	check("financial_factors.driver_daily_salary", f.DriverDailySalary)
	check("financial_factors.driver_percent", f.DriverPercent)
	check("financial_factors.driver_km_per_day", f.DriverKmPerDay)
	check("financial_factors.driver_viaticos_per_day", f.DriverPerDiem)
	check("financial_factors.gps_monthly_rent", f.GPSMonthlyRent)
	check("financial_factors.profit_margin_jfc_outbound", f.JFCMarginOutbound)
	check("financial_factors.profit_margin_jfc_return", f.JFCMarginReturn)
	check("financial_factors.profit_margin_carrier_outbound", f.CarrierMarginOutbound)
	check("financial_factors.profit_margin_carrier_return", f.CarrierMarginReturn)

	for _, id := range slices.Sorted(maps.Keys(s.profiles)) {
		p := s.profiles[id]
		prefix := "vehicle_dimensions." + id + "."
		check(prefix+"length", p.Dimensions.Length)
		check(prefix+"width", p.Dimensions.Width)
		check(prefix+"height", p.Dimensions.Height)
		check(prefix+"min_price", p.MinPrice)
		check(prefix+"tire_count", p.TireCount)
		check(prefix+"tire_price", p.TirePrice)
		check(prefix+"tire_life_km", p.TireLifeKm)
		check(prefix+"vehicle_value", p.VehicleValue)
		check(prefix+"vehicle_useful_life_km", p.UsefulLifeKm)
		checkRates(check, prefix+"efficiency", p.Efficiency)
	}
	return errors.Join(errs...)
}

func checkRates[K ~string](check func(string, float64), name string, m map[K]float64) {
	for _, k := range slices.Sorted(maps.Keys(m)) {
		check(name+"."+string(k), m[k])
	}
}
