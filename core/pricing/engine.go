// Package pricing computes itemised freight prices from a trip request, a
// vehicle and a settings snapshot. Everything here is pure: no I/O and no
// shared state, so concurrent calls never interfere.
package pricing

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/fleetquote/core/model"
)

// Calculate prices the trip. level overrides req.ServiceLevel when not
// empty. The only error is model.ErrInvalidInput; absent settings default to
// zero, or to 1 for multipliers.
func Calculate(req model.TripRequest, vehicle model.Vehicle, settings model.Settings, level model.ServiceLevel) (model.Quote, error) {
	if err := req.Validate(); err != nil {
		return model.Quote{}, err
	}
	if err := settings.Validate(); err != nil {
		return model.Quote{}, err
	}
	if level == "" {
		level = req.ServiceLevel
	}
	level = level.OrDefault()
	if !level.IsValid() {
		return model.Quote{}, fmt.Errorf("%w: unknown service level %q", model.ErrInvalidInput, level)
	}

	profile, _ := settings.Profile(vehicle.ID)
	total := req.TotalDistanceKm()
	outShare := 1.0
	if req.Split() && total > 0 {
		outShare = req.Outbound.DistanceKm / total
	}

	out := priceLeg(newLegInput(outbound, req.Outbound, outShare, req, profile, settings), settings, level)
	b := model.Breakdown{Outbound: out}
	if req.Split() {
		ret := priceLeg(newLegInput(returnTrip, *req.Return, 1-outShare, req, profile, settings), settings, level)
		b.ReturnTrip = &ret
	}

	q := combine(b)
	q.VehicleID = vehicle.ID
	q.VehicleName = vehicle.Name
	q.ServiceLevel = level
	if req.Insurance.OrDefault() == model.InsuranceJFC {
		q.InsuranceRate = settings.InsuranceRate()
	}
	return q, nil
}

func newLegInput(dir direction, leg model.Leg, share float64, req model.TripRequest, profile model.VehicleProfile, s model.Settings) legInput {
	f := s.FinancialFactors()
	in := legInput{
		dir:        dir,
		distanceKm: leg.DistanceKm,
		travelDays: TravelDays(leg.DistanceKm, leg.TravelDays, f.DriverKmPerDay),
		share:      share,
		weightKg:   req.WeightKg,
		efficiency: profile.ActiveEfficiency(),
		fuelPrice:  s.FuelPrice(profile.ActiveFuel),
		profile:    profile,
		financial:  f,
		fees:       s.ManeuverFees(),
		tolls:      leg.TollsOrZero(),
		req:        req,
	}
	if o := req.Overrides.FuelEfficiency; o != nil {
		in.efficiency = *o
	}
	if o := req.Overrides.FuelPrice; o != nil {
		in.fuelPrice = *o
	}
	return in
}

func priceLeg(in legInput, s model.Settings, level model.ServiceLevel) model.LegBreakdown {
	b := model.LegBreakdown{DistanceKm: in.distanceKm, TravelDays: in.travelDays}
	op := runOperational(in, &b)
	b.OperationalTotal = op

	impPct := in.financial.ImponderablesPercent
	if o := in.req.Overrides.UnforeseenPercent; o != nil {
		impPct = *o
	}
	b.Imponderables = Round2(op * impPct / 100)
	b.TonKmReference = Round2(s.TonKmRate() * (in.weightKg / 1000) * in.distanceKm)

	carrierPct, jfcPct := in.financial.CarrierMarginOutbound, in.financial.JFCMarginOutbound
	if in.dir == returnTrip {
		carrierPct, jfcPct = in.financial.CarrierMarginReturn, in.financial.JFCMarginReturn
	}
	base := op + b.Imponderables
	b.CarrierMargin = Round2(base * carrierPct / 100)
	b.JFCUtility = Round2((base + b.CarrierMargin) * jfcPct / 100)

	b.Subtotal = Round2(base + b.CarrierMargin + b.JFCUtility)
	b.VehicleMinimum = in.profile.MinPrice
	if b.Subtotal < in.profile.MinPrice {
		b.Subtotal = in.profile.MinPrice
		b.MinimumApplied = true
	}
	b.BelowTonKmReference = b.Subtotal < b.TonKmReference

	b.Multiplier = multiplier(in.req, s, level)
	b.BillableFreight = Round2(b.Subtotal * b.Multiplier)
	if in.dir == outbound && in.req.Insurance.OrDefault() == model.InsuranceJFC {
		b.Insurance = Round2(in.req.DeclaredValue * s.InsuranceRate() / 100)
	}
	b.IVA = Round2((b.BillableFreight + b.Insurance) * model.IVARate)
	b.PriceToClient = Round2(b.BillableFreight + b.Insurance + b.IVA)
	if in.distanceKm > 0 {
		b.OperationalCostPerKm = Round2(op / in.distanceKm)
	}
	return b
}

// multiplier is the product of the transport, cargo, presentation and
// service level rates. Empty request values use FTL, general and General.
func multiplier(req model.TripRequest, s model.Settings, level model.ServiceLevel) float64 {
	transport := req.TransportType
	if transport == "" {
		transport = model.TransportFTL
	}
	cargo := req.CargoType
	if cargo == "" {
		cargo = model.CargoGeneral
	}
	presentation := req.Presentation
	if presentation == "" {
		presentation = model.PresentationGeneral
	}
	return s.TransportRate(transport) * s.CargoRate(cargo) * s.PresentationRate(presentation) * s.ServiceLevelRate(level)
}

// combine sums the leg values into trip totals. Margins are never
// recomputed on the sums.
func combine(b model.Breakdown) model.Quote {
	legs := b.Legs()
	sum := func(get func(model.LegBreakdown) float64) float64 {
		vals := make([]float64, len(legs))
		for i, l := range legs {
			vals[i] = get(l)
		}
		return Round2(floats.Sum(vals))
	}
	q := model.Quote{
		DistanceKm:       sum(func(l model.LegBreakdown) float64 { return l.DistanceKm }),
		FuelCost:         sum(func(l model.LegBreakdown) float64 { return l.FuelCost }),
		Tolls:            sum(func(l model.LegBreakdown) float64 { return l.Tolls }),
		OperationalTotal: sum(func(l model.LegBreakdown) float64 { return l.OperationalTotal }),
		Imponderables:    sum(func(l model.LegBreakdown) float64 { return l.Imponderables }),
		CarrierMargin:    sum(func(l model.LegBreakdown) float64 { return l.CarrierMargin }),
		JFCUtility:       sum(func(l model.LegBreakdown) float64 { return l.JFCUtility }),
		Subtotal:         sum(func(l model.LegBreakdown) float64 { return l.Subtotal }),
		BillableFreight:  sum(func(l model.LegBreakdown) float64 { return l.BillableFreight }),
		Insurance:        sum(func(l model.LegBreakdown) float64 { return l.Insurance }),
		IVA:              sum(func(l model.LegBreakdown) float64 { return l.IVA }),
		PriceToClient:    sum(func(l model.LegBreakdown) float64 { return l.PriceToClient }),
		VehicleMinimum:   b.Outbound.VehicleMinimum,
		Breakdown:        b,
	}
	q.Utility = Round2(q.CarrierMargin + q.JFCUtility)
	for _, l := range legs {
		q.MinimumApplied = q.MinimumApplied || l.MinimumApplied
	}
	if q.DistanceKm > 0 {
		q.OperationalCostPerKm = Round2(q.OperationalTotal / q.DistanceKm)
	}
	return q
}

// StageNames lists the operational cost lines in evaluation order.
func StageNames() []string {
	names := make([]string, len(operationalStages))
	for i, s := range operationalStages {
		names[i] = s.name
	}
	return names
}
