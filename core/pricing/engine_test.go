package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fleetquote/core/model"
)

var truck = model.Vehicle{ID: "truck", Name: "Truck", Capacity: 3500}

func ptr(v float64) *float64 { return &v }

// scenarioSettings matches the reference 1500 kg / 500 km case.
func scenarioSettings() model.Settings {
	return model.Settings{}.
		WithFuelPrice(model.FuelDiesel, 25).
		WithVehicleProfile("truck", model.VehicleProfile{
			TireCount:    6,
			TirePrice:    5000,
			TireLifeKm:   100000,
			VehicleValue: 1500000,
			UsefulLifeKm: 800000,
			ActiveFuel:   model.FuelDiesel,
			Efficiency:   map[model.FuelID]float64{model.FuelDiesel: 8},
		}).
		WithFinancialFactors(model.FinancialFactors{
			ImponderablesPercent:  3,
			CarrierMarginOutbound: 10,
			JFCMarginOutbound:     15,
		})
}

func scenarioRequest() model.TripRequest {
	return model.TripRequest{
		WeightKg:      1500,
		Outbound:      model.Leg{DistanceKm: 500},
		TransportType: model.TransportFTL,
		CargoType:     model.CargoGeneral,
		Presentation:  model.PresentationGeneral,
		Insurance:     model.InsuranceOwn,
	}
}

func TestCalculateReferenceScenario(t *testing.T) {
	q, err := Calculate(scenarioRequest(), truck, scenarioSettings(), "")
	require.NoError(t, err)
	out := q.Breakdown.Outbound

	assert.Equal(t, 1562.50, out.FuelCost)
	assert.Equal(t, 150.0, out.TireCost)
	assert.Equal(t, 937.5, out.DepreciationCost)
	assert.Equal(t, 2650.0, out.OperationalTotal)
	assert.Equal(t, 79.5, out.Imponderables)
	assert.Equal(t, 272.95, out.CarrierMargin)
	assert.InDelta(t, 450.37, out.JFCUtility, 0.011)
	assert.InDelta(t, 3452.82, out.Subtotal, 0.011)
	assert.False(t, out.MinimumApplied)
	assert.Equal(t, 1.0, out.Multiplier)
	assert.Equal(t, 0.0, out.Insurance)
	assert.InDelta(t, 552.45, out.IVA, 0.011)
	assert.InDelta(t, 4005.27, out.PriceToClient, 0.021)
	assert.Equal(t, 5.3, out.OperationalCostPerKm)

	assert.Nil(t, q.Breakdown.ReturnTrip)
	assert.Equal(t, out.PriceToClient, q.PriceToClient)
	assert.Equal(t, out.FuelCost, q.FuelCost)
	assert.Equal(t, "truck", q.VehicleID)
	assert.Equal(t, model.ServiceStandard, q.ServiceLevel)
	assert.InDelta(t, q.CarrierMargin+q.JFCUtility, q.Utility, 1e-9)
}

func TestTravelDays(t *testing.T) {
	assert.Equal(t, 2, TravelDays(500, 0, 300))
	assert.Equal(t, 1, TravelDays(0, 0, 300))
	assert.Equal(t, 3, TravelDays(500, 3, 300))
	assert.Equal(t, 1, TravelDays(500, 0, 0))
	assert.Equal(t, 1, TravelDays(300, 0, 300))
	assert.Equal(t, math.MaxInt32, TravelDays(1e300, 0, 300))
}

func TestDriverPerDayGPSAndPerDiem(t *testing.T) {
	s := scenarioSettings().WithFinancialFactors(model.FinancialFactors{
		DriverPaymentType: model.DriverPerDay,
		DriverDailySalary: 1000,
		DriverKmPerDay:    300,
		DriverPerDiem:     350,
		GPSMonthlyRent:    900,
	})
	q, err := Calculate(scenarioRequest(), truck, s, "")
	require.NoError(t, err)
	out := q.Breakdown.Outbound
	assert.Equal(t, 2, out.TravelDays)
	assert.Equal(t, 2000.0, out.DriverBase)
	assert.Equal(t, 60.0, out.GPSCost)
	assert.Equal(t, 700.0, out.DriverPerDiem)
	assert.Equal(t, 2650.0+2000+60+700, out.OperationalTotal)
}

func TestDriverPercentUsesAccumulatedTotal(t *testing.T) {
	s := scenarioSettings().WithFinancialFactors(model.FinancialFactors{
		DriverPaymentType: model.DriverPercent,
		DriverPercent:     20,
		DriverKmPerDay:    300,
		DriverPerDiem:     350,
		GPSMonthlyRent:    900,
	})
	req := scenarioRequest()
	req.Outbound.Tolls = ptr(1000)
	q, err := Calculate(req, truck, s, "")
	require.NoError(t, err)
	out := q.Breakdown.Outbound
	// 20% of fuel + tires + depreciation + gps; per-diem and tolls come later.
	assert.Equal(t, 542.0, out.DriverBase)
	assert.Equal(t, 1000.0, out.Tolls)
	assert.Equal(t, 2650.0+60+542+700+1000, out.OperationalTotal)
}

func TestStageOrder(t *testing.T) {
	assert.Equal(t, []string{
		"fuel", "tires", "depreciation", "gps", "driver",
		"per_diem", "lodging", "tolls", "maneuvers", "other_expenses",
	}, StageNames())
}

func TestFuelOverrides(t *testing.T) {
	req := scenarioRequest()
	req.Overrides.FuelPrice = ptr(30)
	q, err := Calculate(req, truck, scenarioSettings(), "")
	require.NoError(t, err)
	assert.Equal(t, 1875.0, q.FuelCost)

	req = scenarioRequest()
	req.Overrides.FuelEfficiency = ptr(10)
	q, err = Calculate(req, truck, scenarioSettings(), "")
	require.NoError(t, err)
	assert.Equal(t, 1250.0, q.FuelCost)

	req.Overrides.FuelEfficiency = ptr(0)
	q, err = Calculate(req, truck, scenarioSettings(), "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, q.FuelCost, "zero efficiency must not divide")
}

func TestNoFuelConfigYieldsZeroFuel(t *testing.T) {
	s := model.Settings{}.WithFuelPrice(model.FuelDiesel, 25).
		WithVehicleProfile("truck", model.VehicleProfile{
			Efficiency: map[model.FuelID]float64{model.FuelDiesel: 8},
		})
	q, err := Calculate(scenarioRequest(), truck, s, "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, q.FuelCost)

	q, err = Calculate(scenarioRequest(), model.Vehicle{ID: "unknown"}, s, "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, q.FuelCost)
}

func TestEmptySettingsProduceFiniteNonNegativePrice(t *testing.T) {
	req := scenarioRequest()
	req.Return = &model.Leg{DistanceKm: 300}
	req.Insurance = model.InsuranceJFC
	req.DeclaredValue = 50000
	req.RequiresLoadingSupport = true
	q, err := Calculate(req, truck, model.Settings{}, model.ServiceExpress)
	require.NoError(t, err)
	for _, v := range []float64{q.PriceToClient, q.Subtotal, q.IVA, q.Insurance, q.OperationalTotal} {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		assert.GreaterOrEqual(t, v, 0.0)
	}
	assert.Equal(t, 1.0, q.Breakdown.Outbound.Multiplier)
}

func TestManeuverFees(t *testing.T) {
	s := scenarioSettings().WithManeuverFees(model.ManeuverFees{Loading: 500, Unloading: 700})
	req := scenarioRequest()
	q, _ := Calculate(req, truck, s, "")
	assert.Equal(t, 0.0, q.Breakdown.Outbound.Maneuvers)

	req.RequiresLoadingSupport = true
	q, _ = Calculate(req, truck, s, "")
	assert.Equal(t, 500.0, q.Breakdown.Outbound.Maneuvers)

	req.RequiresUnloadingSupport = true
	req.Return = &model.Leg{DistanceKm: 500}
	q, _ = Calculate(req, truck, s, "")
	assert.Equal(t, 1200.0, q.Breakdown.Outbound.Maneuvers)
	assert.Equal(t, 0.0, q.Breakdown.ReturnTrip.Maneuvers, "maneuvers are charged once per trip")
}

func TestMinimumFloor(t *testing.T) {
	p, _ := scenarioSettings().Profile("truck")
	p.MinPrice = 10000
	s := scenarioSettings().WithVehicleProfile("truck", p).WithCargoRate(model.CargoGeneral, 1.1)
	q, err := Calculate(scenarioRequest(), truck, s, "")
	require.NoError(t, err)
	out := q.Breakdown.Outbound
	assert.True(t, out.MinimumApplied)
	assert.True(t, q.MinimumApplied)
	assert.Equal(t, 10000.0, out.Subtotal)
	assert.Equal(t, 10000.0, out.VehicleMinimum)
	assert.Equal(t, 11000.0, out.BillableFreight)
	assert.Equal(t, 1760.0, out.IVA)
	assert.Equal(t, 12760.0, out.PriceToClient)

	p.MinPrice = 100
	s = scenarioSettings().WithVehicleProfile("truck", p)
	q, _ = Calculate(scenarioRequest(), truck, s, "")
	assert.False(t, q.MinimumApplied)
	assert.Greater(t, q.Subtotal, 100.0)
}

func TestMultipliers(t *testing.T) {
	s := scenarioSettings().
		WithTransportRate(model.TransportFTL, 1.1).
		WithCargoRate(model.CargoHazardous, 1.5).
		WithPresentationRate(model.PresentationBulk, 1.2).
		WithServiceLevelRate(model.ServiceExpress, 1.25)
	req := scenarioRequest()
	req.CargoType = model.CargoHazardous
	req.Presentation = model.PresentationBulk

	std, err := Calculate(req, truck, s, "")
	require.NoError(t, err)
	assert.InDelta(t, 1.1*1.5*1.2, std.Breakdown.Outbound.Multiplier, 1e-9)

	exp, err := Calculate(req, truck, s, model.ServiceExpress)
	require.NoError(t, err)
	assert.InDelta(t, 1.1*1.5*1.2*1.25, exp.Breakdown.Outbound.Multiplier, 1e-9)
	assert.Equal(t, model.ServiceExpress, exp.ServiceLevel)
	assert.Greater(t, exp.PriceToClient, std.PriceToClient)
	assert.Equal(t, std.Subtotal, exp.Subtotal, "multipliers apply after the subtotal")
}

func TestInsuranceSelection(t *testing.T) {
	s := scenarioSettings().WithInsuranceRate(1.5)
	req := scenarioRequest()
	req.DeclaredValue = 200000

	req.Insurance = model.InsuranceOwn
	q, _ := Calculate(req, truck, s, "")
	assert.Equal(t, 0.0, q.Insurance)
	assert.Equal(t, 0.0, q.InsuranceRate)

	req.Insurance = model.InsuranceJFC
	q, _ = Calculate(req, truck, s, "")
	assert.Equal(t, 3000.0, q.Insurance)
	assert.Equal(t, 1.5, q.InsuranceRate)
	assert.InDelta(t, (q.BillableFreight+3000)*model.IVARate, q.IVA, 0.011)

	req.DeclaredValue = 0
	q, _ = Calculate(req, truck, s, "")
	assert.Equal(t, 0.0, q.Insurance)
}

func TestSplitLegs(t *testing.T) {
	ff := scenarioSettings().FinancialFactors()
	ff.CarrierMarginReturn = 5
	ff.JFCMarginReturn = 8
	s := scenarioSettings().WithFinancialFactors(ff).WithInsuranceRate(2)

	req := scenarioRequest()
	req.Outbound.Tolls = ptr(600)
	req.Return = &model.Leg{DistanceKm: 400, Tolls: ptr(450)}
	req.Insurance = model.InsuranceJFC
	req.DeclaredValue = 100000

	q, err := Calculate(req, truck, s, "")
	require.NoError(t, err)
	out, ret := q.Breakdown.Outbound, q.Breakdown.ReturnTrip
	require.NotNil(t, ret)

	assert.Equal(t, 1250.0, ret.FuelCost)
	assert.Equal(t, 450.0, ret.Tolls)
	assert.InDelta(t, (ret.OperationalTotal+ret.Imponderables)*0.05, ret.CarrierMargin, 0.006)
	assert.InDelta(t, (out.OperationalTotal+out.Imponderables)*0.10, out.CarrierMargin, 0.006)
	assert.Equal(t, 2000.0, out.Insurance)
	assert.Equal(t, 0.0, ret.Insurance, "insurance is charged once per trip")

	assert.InDelta(t, out.PriceToClient+ret.PriceToClient, q.PriceToClient, 1e-6)
	assert.InDelta(t, out.Subtotal+ret.Subtotal, q.Subtotal, 1e-6)
	assert.InDelta(t, out.CarrierMargin+ret.CarrierMargin, q.CarrierMargin, 1e-6)
	assert.InDelta(t, 1050, q.Tolls, 1e-6)
	assert.Equal(t, 900.0, q.DistanceKm)
	assert.InDelta(t, q.OperationalTotal/900, q.OperationalCostPerKm, 0.006)
}

func TestFlatOverridesSplitByDistance(t *testing.T) {
	req := scenarioRequest()
	req.Outbound.DistanceKm = 600
	req.Return = &model.Leg{DistanceKm: 400}
	req.Overrides.DriverPay = ptr(3000)
	req.Overrides.Lodging = ptr(1000)
	req.Overrides.OtherExpenses = ptr(500)
	q, err := Calculate(req, truck, scenarioSettings(), "")
	require.NoError(t, err)
	assert.Equal(t, 1800.0, q.Breakdown.Outbound.DriverBase)
	assert.Equal(t, 1200.0, q.Breakdown.ReturnTrip.DriverBase)
	assert.Equal(t, 600.0, q.Breakdown.Outbound.Lodging)
	assert.Equal(t, 200.0, q.Breakdown.ReturnTrip.OtherExpenses)
}

func TestUnforeseenOverride(t *testing.T) {
	req := scenarioRequest()
	req.Overrides.UnforeseenPercent = ptr(10)
	q, _ := Calculate(req, truck, scenarioSettings(), "")
	assert.Equal(t, 265.0, q.Imponderables)
}

func TestTonKmReference(t *testing.T) {
	q, _ := Calculate(scenarioRequest(), truck, scenarioSettings().WithTonKmRate(2), "")
	assert.Equal(t, 1500.0, q.Breakdown.Outbound.TonKmReference)
	assert.False(t, q.Breakdown.Outbound.BelowTonKmReference)

	q, _ = Calculate(scenarioRequest(), truck, scenarioSettings().WithTonKmRate(10), "")
	assert.Equal(t, 7500.0, q.Breakdown.Outbound.TonKmReference)
	assert.True(t, q.Breakdown.Outbound.BelowTonKmReference)
	assert.Less(t, q.Subtotal, 7500.0, "the reference is never substituted")
}

func TestCalculateIsIdempotent(t *testing.T) {
	req := scenarioRequest()
	req.Return = &model.Leg{DistanceKm: 123}
	s := scenarioSettings()
	a, err := Calculate(req, truck, s, model.ServiceExpress)
	require.NoError(t, err)
	b, err := Calculate(req, truck, s, model.ServiceExpress)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCostsMonotonicInDistance(t *testing.T) {
	s := scenarioSettings()
	var prev model.LegBreakdown
	for d := 0.0; d <= 3000; d += 125 {
		req := scenarioRequest()
		req.Outbound.DistanceKm = d
		q, err := Calculate(req, truck, s, "")
		require.NoError(t, err)
		cur := q.Breakdown.Outbound
		assert.GreaterOrEqual(t, cur.FuelCost, prev.FuelCost)
		assert.GreaterOrEqual(t, cur.TireCost, prev.TireCost)
		assert.GreaterOrEqual(t, cur.DepreciationCost, prev.DepreciationCost)
		prev = cur
	}
}

func TestCalculateRejectsInvalidInput(t *testing.T) {
	req := scenarioRequest()
	req.WeightKg = -1
	_, err := Calculate(req, truck, scenarioSettings(), "")
	assert.True(t, errors.Is(err, model.ErrInvalidInput))

	req = scenarioRequest()
	req.Outbound.DistanceKm = math.Inf(1)
	_, err = Calculate(req, truck, scenarioSettings(), "")
	assert.True(t, errors.Is(err, model.ErrInvalidInput))

	_, err = Calculate(scenarioRequest(), truck, scenarioSettings(), "overnight")
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}

func TestCalculateRejectsNegativeSettings(t *testing.T) {
	req := scenarioRequest()
	req.Insurance = model.InsuranceJFC
	req.DeclaredValue = 12345.678
	_, err := Calculate(req, truck, scenarioSettings().WithInsuranceRate(-50), "")
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = Calculate(scenarioRequest(), truck, scenarioSettings().WithServiceLevelRate(model.ServiceStandard, -1), "")
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestCalculateRejectsHugeDistance(t *testing.T) {
	req := scenarioRequest()
	req.Outbound.DistanceKm = 1e300
	_, err := Calculate(req, truck, scenarioSettings(), "")
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.2349))
	assert.Equal(t, 1.24, Round2(1.235001))
	assert.Equal(t, 0.0, Round2(0.004))
}
