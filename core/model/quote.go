package model

import "time"

// IVARate is the fixed value-added tax applied to every quote.
const IVARate = 0.16

// LegBreakdown is the itemised price of one leg. Money values are rounded
// to cents.
type LegBreakdown struct {
	DistanceKm float64 `json:"distance_km"`
	TravelDays int     `json:"travel_days"`

	FuelCost         float64 `json:"fuel_cost"`
	TireCost         float64 `json:"tire_cost"`
	DepreciationCost float64 `json:"depreciation_cost"`
	GPSCost          float64 `json:"gps_cost"`
	DriverBase       float64 `json:"driver_base"`
	DriverPerDiem    float64 `json:"driver_per_diem"`
	Lodging          float64 `json:"lodging"`
	Tolls            float64 `json:"tolls"`
	Maneuvers        float64 `json:"maneuvers"`
	OtherExpenses    float64 `json:"other_expenses"`

	OperationalTotal float64 `json:"operational_total"`
	Imponderables    float64 `json:"imponderables"`
	TonKmReference   float64 `json:"ton_km_reference"`
	CarrierMargin    float64 `json:"carrier_margin"`
	JFCUtility       float64 `json:"jfc_utility"`

	// Subtotal is the floored amount before multipliers.
	Subtotal            float64 `json:"subtotal"`
	MinimumApplied      bool    `json:"minimum_applied"`
	VehicleMinimum      float64 `json:"vehicle_minimum"`
	BelowTonKmReference bool    `json:"below_ton_km_reference"`

	Multiplier      float64 `json:"multiplier"`
	BillableFreight float64 `json:"billable_freight"`
	Insurance       float64 `json:"insurance"`
	IVA             float64 `json:"iva"`
	PriceToClient   float64 `json:"price_to_client"`

	OperationalCostPerKm float64 `json:"operational_cost_per_km"`
}

// Utility is the sum of both margins.
func (l LegBreakdown) Utility() float64 { return l.CarrierMargin + l.JFCUtility }

// Breakdown groups the per-leg results. ReturnTrip is nil for single-leg quotes.
type Breakdown struct {
	Outbound   LegBreakdown  `json:"outbound"`
	ReturnTrip *LegBreakdown `json:"return_trip,omitempty"`
}

// Legs returns the legs in order.
func (b Breakdown) Legs() []LegBreakdown {
	if b.ReturnTrip == nil {
		return []LegBreakdown{b.Outbound}
	}
	return []LegBreakdown{b.Outbound, *b.ReturnTrip}
}

// Quote is the client-facing result of a calculation. Totals are sums of
// the leg values in Breakdown.
type Quote struct {
	ID           string       `json:"id,omitempty"`
	CreatedAt    time.Time    `json:"created_at,omitempty"`
	VehicleID    string       `json:"vehicle_id"`
	VehicleName  string       `json:"vehicle_name,omitempty"`
	Oversize     bool         `json:"oversize"`
	ServiceLevel ServiceLevel `json:"service_level"`

	DistanceKm           float64 `json:"distance_km"`
	FuelCost             float64 `json:"fuel_cost"`
	Tolls                float64 `json:"tolls"`
	OperationalTotal     float64 `json:"operational_total"`
	Imponderables        float64 `json:"imponderables"`
	CarrierMargin        float64 `json:"carrier_margin"`
	JFCUtility           float64 `json:"jfc_utility"`
	Utility              float64 `json:"utility"`
	Subtotal             float64 `json:"subtotal"`
	BillableFreight      float64 `json:"billable_freight"`
	Insurance            float64 `json:"insurance"`
	InsuranceRate        float64 `json:"insurance_rate"`
	IVA                  float64 `json:"iva"`
	PriceToClient        float64 `json:"price_to_client"`
	OperationalCostPerKm float64 `json:"operational_cost_per_km"`
	MinimumApplied       bool    `json:"minimum_applied"`
	VehicleMinimum       float64 `json:"vehicle_minimum"`

	Breakdown Breakdown `json:"breakdown"`
}
