package pricing

import (
	"math"

	"github.com/kilianp07/fleetquote/core/model"
)

type direction int

const (
	outbound direction = iota
	returnTrip
)

// legInput is the resolved snapshot a leg is priced from.
type legInput struct {
	dir        direction
	distanceKm float64
	travelDays int
	// share is the fraction of the trip distance covered by this leg. Flat
	// trip-level overrides are split between legs with it.
	share      float64
	weightKg   float64
	fuelPrice  float64
	efficiency float64
	profile    model.VehicleProfile
	financial  model.FinancialFactors
	fees       model.ManeuverFees
	tolls      float64
	req        model.TripRequest
}

// stage computes one operational cost line. accumulated is the operational
// total produced by the stages that ran before it.
type stage struct {
	name string
	cost func(in legInput, accumulated float64) float64
	line func(b *model.LegBreakdown) *float64
}

// operationalStages run in order; driver pay in percent mode depends on the
// lines before it.
var operationalStages = []stage{
	{"fuel", fuelCost, func(b *model.LegBreakdown) *float64 { return &b.FuelCost }},
	{"tires", tireCost, func(b *model.LegBreakdown) *float64 { return &b.TireCost }},
	{"depreciation", depreciationCost, func(b *model.LegBreakdown) *float64 { return &b.DepreciationCost }},
	{"gps", gpsCost, func(b *model.LegBreakdown) *float64 { return &b.GPSCost }},
	{"driver", driverCost, func(b *model.LegBreakdown) *float64 { return &b.DriverBase }},
	{"per_diem", perDiemCost, func(b *model.LegBreakdown) *float64 { return &b.DriverPerDiem }},
	{"lodging", lodgingCost, func(b *model.LegBreakdown) *float64 { return &b.Lodging }},
	{"tolls", tollCost, func(b *model.LegBreakdown) *float64 { return &b.Tolls }},
	{"maneuvers", maneuverCost, func(b *model.LegBreakdown) *float64 { return &b.Maneuvers }},
	{"other_expenses", otherExpenses, func(b *model.LegBreakdown) *float64 { return &b.OtherExpenses }},
}

// runOperational applies the stages to b and returns the operational total.
func runOperational(in legInput, b *model.LegBreakdown) float64 {
	var acc float64
	for _, s := range operationalStages {
		c := Round2(s.cost(in, acc))
		*s.line(b) = c
		acc += c
	}
	return Round2(acc)
}

func fuelCost(in legInput, _ float64) float64 {
	if in.efficiency <= 0 || in.fuelPrice <= 0 {
		return 0
	}
	return in.distanceKm / in.efficiency * in.fuelPrice
}

func tireCost(in legInput, _ float64) float64 {
	p := in.profile
	if p.TireLifeKm <= 0 {
		return 0
	}
	return in.distanceKm * (p.TireCount * p.TirePrice / p.TireLifeKm)
}

func depreciationCost(in legInput, _ float64) float64 {
	p := in.profile
	if p.UsefulLifeKm <= 0 {
		return 0
	}
	return in.distanceKm * (p.VehicleValue / p.UsefulLifeKm)
}

func gpsCost(in legInput, _ float64) float64 {
	return in.financial.GPSMonthlyRent / 30 * float64(in.travelDays)
}

func driverCost(in legInput, accumulated float64) float64 {
	if in.req.Overrides.DriverPay != nil {
		return *in.req.Overrides.DriverPay * in.share
	}
	f := in.financial
	switch f.DriverPaymentType {
	case model.DriverPercent:
		return accumulated * f.DriverPercent / 100
	case model.DriverPerDay, "":
		return f.DriverDailySalary * float64(in.travelDays)
	}
	return 0
}

func perDiemCost(in legInput, _ float64) float64 {
	if in.req.Overrides.PerDiem != nil {
		return *in.req.Overrides.PerDiem * in.share
	}
	return in.financial.DriverPerDiem * float64(in.travelDays)
}

func lodgingCost(in legInput, _ float64) float64 {
	if in.req.Overrides.Lodging != nil {
		return *in.req.Overrides.Lodging * in.share
	}
	return 0
}

func tollCost(in legInput, _ float64) float64 { return in.tolls }

// maneuverCost charges loading and unloading once per trip, on the outbound leg.
func maneuverCost(in legInput, _ float64) float64 {
	if in.dir != outbound {
		return 0
	}
	var c float64
	if in.req.RequiresLoadingSupport {
		c += in.fees.Loading
	}
	if in.req.RequiresUnloadingSupport {
		c += in.fees.Unloading
	}
	return c
}

func otherExpenses(in legInput, _ float64) float64 {
	if in.req.Overrides.OtherExpenses != nil {
		return *in.req.Overrides.OtherExpenses * in.share
	}
	return 0
}

// TravelDays returns the days a leg takes: the requested value when positive,
// else the distance over the driver daily range rounded up, never below 1.
func TravelDays(distanceKm float64, requested int, kmPerDay float64) int {
	if requested > 0 {
		return requested
	}
	if kmPerDay <= 0 {
		return 1
	}
	d := math.Ceil(distanceKm / kmPerDay)
	switch {
	case d > math.MaxInt32:
		return math.MaxInt32
	case d < 1:
		return 1
	}
	return int(d)
}

// Round2 rounds to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
