package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/fleetquote/core/model"
)

type VehicleDef struct {
	ID                 string  `yaml:"id"`
	Name               string  `yaml:"name"`
	Category           string  `yaml:"category"`
	Capacity           float64 `yaml:"capacity"`
	VolumetricCapacity float64 `yaml:"volumetric_capacity"`
	MinPrice           float64 `yaml:"min_price"`
	Fuel               string  `yaml:"fuel"`
	Efficiency         float64 `yaml:"efficiency"`
	TireCount          float64 `yaml:"tire_count"`
	TirePrice          float64 `yaml:"tire_price"`
	TireLifeKm         float64 `yaml:"tire_life_km"`
	VehicleValue       float64 `yaml:"vehicle_value"`
	UsefulLifeKm       float64 `yaml:"useful_life_km"`
}

func (v VehicleDef) ToModel() model.Vehicle {
	return model.Vehicle{
		ID:                 v.ID,
		Name:               v.Name,
		Category:           v.Category,
		Capacity:           v.Capacity,
		VolumetricCapacity: v.VolumetricCapacity,
		FuelType:           model.FuelID(v.Fuel),
		FuelEfficiency:     v.Efficiency,
		Value:              v.VehicleValue,
		UsefulLifeKm:       v.UsefulLifeKm,
	}
}

// Profile returns the settings profile of the vehicle.
func (v VehicleDef) Profile() model.VehicleProfile {
	p := model.VehicleProfile{
		MinPrice:     v.MinPrice,
		TireCount:    v.TireCount,
		TirePrice:    v.TirePrice,
		TireLifeKm:   v.TireLifeKm,
		VehicleValue: v.VehicleValue,
		UsefulLifeKm: v.UsefulLifeKm,
	}
	if v.Fuel != "" {
		p.ActiveFuel = model.FuelID(v.Fuel)
		p.Efficiency = map[model.FuelID]float64{p.ActiveFuel: v.Efficiency}
	}
	return p
}

type SettingsDef struct {
	FuelPrices            map[string]float64 `yaml:"fuel_prices"`
	CargoRates            map[string]float64 `yaml:"cargo_rates"`
	ServiceLevelRates     map[string]float64 `yaml:"service_level_rates"`
	InsuranceRate         float64            `yaml:"insurance_rate"`
	TonKmRate             float64            `yaml:"ton_km_rate"`
	LoadingFee            float64            `yaml:"loading_fee"`
	UnloadingFee          float64            `yaml:"unloading_fee"`
	ImponderablesPercent  float64            `yaml:"imponderables_percent"`
	CarrierMarginOutbound float64            `yaml:"carrier_margin_outbound"`
	CarrierMarginReturn   float64            `yaml:"carrier_margin_return"`
	JFCMarginOutbound     float64            `yaml:"jfc_margin_outbound"`
	JFCMarginReturn       float64            `yaml:"jfc_margin_return"`
}

// ToModel builds the settings with a profile for every scenario vehicle.
func (s SettingsDef) ToModel(vehicles []VehicleDef) model.Settings {
	out := model.Settings{}.
		WithInsuranceRate(s.InsuranceRate).
		WithTonKmRate(s.TonKmRate).
		WithManeuverFees(model.ManeuverFees{Loading: s.LoadingFee, Unloading: s.UnloadingFee}).
		WithFinancialFactors(model.FinancialFactors{
			ImponderablesPercent:  s.ImponderablesPercent,
			CarrierMarginOutbound: s.CarrierMarginOutbound,
			CarrierMarginReturn:   s.CarrierMarginReturn,
			JFCMarginOutbound:     s.JFCMarginOutbound,
			JFCMarginReturn:       s.JFCMarginReturn,
		})
	for f, p := range s.FuelPrices {
		out = out.WithFuelPrice(model.FuelID(f), p)
	}
	for c, r := range s.CargoRates {
		out = out.WithCargoRate(model.CargoType(c), r)
	}
	for l, r := range s.ServiceLevelRates {
		out = out.WithServiceLevelRate(model.ServiceLevel(l), r)
	}
	for _, v := range vehicles {
		out = out.WithVehicleProfile(v.ID, v.Profile())
	}
	return out
}

// Expected lists the checked quote values. Nil fields are not checked.
type Expected struct {
	VehicleID        string   `yaml:"vehicle_id"`
	Oversize         *bool    `yaml:"oversize"`
	MinimumApplied   *bool    `yaml:"minimum_applied"`
	FuelCost         *float64 `yaml:"fuel_cost"`
	TireCost         *float64 `yaml:"tire_cost"`
	DepreciationCost *float64 `yaml:"depreciation_cost"`
	OperationalTotal *float64 `yaml:"operational_total"`
	Subtotal         *float64 `yaml:"subtotal"`
	Insurance        *float64 `yaml:"insurance"`
	IVA              *float64 `yaml:"iva"`
	PriceToClient    *float64 `yaml:"price_to_client"`
}

// Scenario is one priced trip with its expected result. Vehicles replace
// the stock catalog when present.
type Scenario struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Vehicles    []VehicleDef      `yaml:"vehicles"`
	Settings    SettingsDef       `yaml:"settings"`
	Trip        model.TripRequest `yaml:"trip"`
	Expected    Expected          `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
