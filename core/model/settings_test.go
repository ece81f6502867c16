package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsDefaults(t *testing.T) {
	var s Settings
	assert.Equal(t, 1.0, s.TransportRate(TransportFTL))
	assert.Equal(t, 1.0, s.CargoRate(CargoHazardous))
	assert.Equal(t, 1.0, s.PresentationRate(PresentationBulk))
	assert.Equal(t, 1.0, s.ServiceLevelRate(""))
	assert.Equal(t, 0.0, s.FuelPrice(FuelDiesel))
	assert.Equal(t, 0.0, s.PricePerKm("missing"))
	_, ok := s.Profile("missing")
	assert.False(t, ok)
}

func TestSettingsWithDoesNotMutateReceiver(t *testing.T) {
	base := Settings{}.WithFuelPrice(FuelDiesel, 25).WithCargoRate(CargoFragile, 1.2)
	next := base.WithFuelPrice(FuelDiesel, 30).WithCargoRate(CargoFragile, 1.5)

	assert.Equal(t, 25.0, base.FuelPrice(FuelDiesel))
	assert.Equal(t, 1.2, base.CargoRate(CargoFragile))
	assert.Equal(t, 30.0, next.FuelPrice(FuelDiesel))
	assert.Equal(t, 1.5, next.CargoRate(CargoFragile))

	withProfile := base.WithActiveFuel("truck", FuelDiesel, 8)
	_, ok := base.Profile("truck")
	assert.False(t, ok, "base must not see the new profile")
	p, ok := withProfile.Profile("truck")
	require.True(t, ok)
	p.Efficiency[FuelDiesel] = 99
	again, _ := withProfile.Profile("truck")
	assert.Equal(t, 8.0, again.ActiveEfficiency(), "Profile must return a copy")
}

func TestSettingsCloneIsDeep(t *testing.T) {
	s := Settings{}.WithTransportRate(TransportLTL, 1.3).WithActiveFuel("v", FuelDiesel, 7)
	c := s.Clone()
	c.transportRates[TransportLTL] = 9
	c.profiles["v"].Efficiency[FuelDiesel] = 1
	assert.Equal(t, 1.3, s.TransportRate(TransportLTL))
	p, _ := s.Profile("v")
	assert.Equal(t, 7.0, p.ActiveEfficiency())
}

func TestPricePerKmFollowsInputs(t *testing.T) {
	s := Settings{}.
		WithFuelPrice(FuelDiesel, 24).
		WithActiveFuel("v", FuelDiesel, 8).
		WithProfitMargin(25)
	assert.InDelta(t, 3.75, s.PricePerKm("v"), 1e-9)

	s = s.WithFuelPrice(FuelDiesel, 32)
	assert.InDelta(t, 5.0, s.PricePerKm("v"), 1e-9)

	s = s.WithActiveFuel("v", FuelGasoline91, 10)
	assert.Equal(t, 0.0, s.PricePerKm("v"), "no price for gasoline91 yet")
	s = s.WithFuelPrice(FuelGasoline91, 26)
	assert.InDelta(t, 3.25, s.PricePerKm("v"), 1e-9)
}

func TestActiveFuelSwitchKeepsSingleSelection(t *testing.T) {
	s := Settings{}.WithActiveFuel("v", FuelDiesel, 8).WithActiveFuel("v", FuelGasoline87, 11)
	p, _ := s.Profile("v")
	cfg := p.FuelConfig()
	enabled := 0
	for _, e := range cfg {
		if e.Enabled {
			enabled++
		}
	}
	assert.Equal(t, 1, enabled)
	assert.True(t, cfg[FuelGasoline87].Enabled)
	assert.Equal(t, 8.0, cfg[FuelDiesel].Efficiency)
}

func TestNewVehicleProfileFromFuelConfig(t *testing.T) {
	p, err := NewVehicleProfileFromFuelConfig(VehicleProfile{MinPrice: 10}, map[FuelID]FuelConfigEntry{
		FuelDiesel:     {Enabled: true, Efficiency: 8},
		FuelGasoline87: {Enabled: false, Efficiency: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, FuelDiesel, p.ActiveFuel)
	assert.Equal(t, 8.0, p.ActiveEfficiency())
	assert.Equal(t, 10.0, p.MinPrice)

	_, err = NewVehicleProfileFromFuelConfig(VehicleProfile{}, map[FuelID]FuelConfigEntry{
		FuelDiesel:     {Enabled: true, Efficiency: 8},
		FuelGasoline87: {Enabled: true, Efficiency: 10},
	})
	assert.True(t, errors.Is(err, ErrMultipleActiveFuels))

	none, err := NewVehicleProfileFromFuelConfig(VehicleProfile{}, map[FuelID]FuelConfigEntry{
		FuelDiesel: {Efficiency: 8},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, none.ActiveEfficiency())
}

func TestSettingsDocRoundTripDerivesPricePerKm(t *testing.T) {
	doc := SettingsDoc{
		FuelPrices:   map[FuelID]float64{FuelDiesel: 25},
		ProfitMargin: 20,
		VehicleDimensions: map[string]VehicleProfileDoc{
			"v": {
				MinPrice:   1500,
				PricePerKm: 999,
				FuelConfig: map[FuelID]FuelConfigEntry{FuelDiesel: {Enabled: true, Efficiency: 8}},
			},
		},
	}
	s, err := doc.Build()
	require.NoError(t, err)
	assert.InDelta(t, 3.75, s.PricePerKm("v"), 1e-9, "stored price_per_km is ignored")

	out := s.Doc()
	assert.InDelta(t, 3.75, out.VehicleDimensions["v"].PricePerKm, 1e-9)
	assert.Equal(t, FuelDiesel, out.VehicleDimensions["v"].ActiveFuel)
}

func TestSettingsDocRejectsConflicts(t *testing.T) {
	_, err := SettingsDoc{VehicleDimensions: map[string]VehicleProfileDoc{
		"v": {
			ActiveFuel: FuelGasoline91,
			FuelConfig: map[FuelID]FuelConfigEntry{FuelDiesel: {Enabled: true, Efficiency: 8}},
		},
	}}.Build()
	assert.True(t, errors.Is(err, ErrMultipleActiveFuels))

	_, err = SettingsDoc{FinancialFactors: FinancialFactors{DriverPaymentType: "hourly"}}.Build()
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = SettingsDoc{FuelPrices: map[FuelID]float64{FuelDiesel: -1}}.Build()
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestSettingsValidateRejectsNegativeValues(t *testing.T) {
	valid := Settings{}.
		WithInsuranceRate(0.5).
		WithTransportRate(TransportFTL, 1.1).
		WithVehicleProfile("truck", VehicleProfile{MinPrice: 2500, ActiveFuel: FuelDiesel, Efficiency: map[FuelID]float64{FuelDiesel: 8}})
	require.NoError(t, valid.Validate())

	tests := map[string]struct {
		settings Settings
		field    string
	}{
		"insurance rate":    {valid.WithInsuranceRate(-50), "insurance_rate"},
		"transport rate":    {valid.WithTransportRate(TransportLTL, -1), "transport_rates.LTL"},
		"cargo rate":        {valid.WithCargoRate(CargoHazardous, math.NaN()), "cargo_rates.hazardous"},
		"service level":     {valid.WithServiceLevelRate(ServiceExpress, -2), "service_level_rates.express"},
		"maneuver fee":      {valid.WithManeuverFees(ManeuverFees{Loading: -100}), "maneuver_fees.loading"},
		"ton km rate":       {valid.WithTonKmRate(math.Inf(1)), "ton_km_rate"},
		"carrier margin":    {valid.WithFinancialFactors(FinancialFactors{CarrierMarginReturn: -10}), "profit_margin_carrier_return"},
		"imponderables":     {valid.WithFinancialFactors(FinancialFactors{ImponderablesPercent: -3}), "imponderables_to_use"},
		"profile min price": {valid.WithVehicleProfile("van", VehicleProfile{MinPrice: -1}), "vehicle_dimensions.van.min_price"},
		"profile efficiency": {
			valid.WithVehicleProfile("van", VehicleProfile{ActiveFuel: FuelDiesel, Efficiency: map[FuelID]float64{FuelDiesel: -8}}),
			"vehicle_dimensions.van.efficiency.diesel",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.settings.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestSettingsDocBuildValidatesNumbers(t *testing.T) {
	_, err := SettingsDoc{InsuranceRate: -50}.Build()
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = SettingsDoc{VehicleDimensions: map[string]VehicleProfileDoc{
		"truck": {TirePrice: -5000, ActiveFuel: FuelDiesel},
	}}.Build()
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = SettingsDoc{VehicleDimensions: map[string]VehicleProfileDoc{
		"truck": {FuelConfig: map[FuelID]FuelConfigEntry{FuelDiesel: {Enabled: true, Efficiency: -7}}},
	}}.Build()
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = SettingsDoc{InsuranceRate: 0.5, CargoRates: map[CargoType]float64{CargoFragile: 1.2}}.Build()
	assert.NoError(t, err)
}
