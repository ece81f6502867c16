package kpi

import "time"

// Record aggregates the quotes issued for a vehicle on one day.
type Record struct {
	VehicleID      string    `json:"vehicle_id"`
	Date           time.Time `json:"date"`
	Quotes         int       `json:"quotes"`
	DistanceKm     float64   `json:"distance_km"`
	Revenue        float64   `json:"revenue"`
	MinimumApplied int       `json:"minimum_applied"`
	Oversize       int       `json:"oversize"`
}

// RevenuePerKm returns the average price charged per kilometer.
func (r Record) RevenuePerKm() float64 {
	if r.DistanceKm == 0 {
		return 0
	}
	return r.Revenue / r.DistanceKm
}

// MinimumShare returns the fraction of quotes billed at the vehicle minimum.
func (r Record) MinimumShare() float64 {
	if r.Quotes == 0 {
		return 0
	}
	return float64(r.MinimumApplied) / float64(r.Quotes)
}

func (r *Record) merge(o Record) {
	r.Quotes += o.Quotes
	r.DistanceKm += o.DistanceKm
	r.Revenue += o.Revenue
	r.MinimumApplied += o.MinimumApplied
	r.Oversize += o.Oversize
}
