package metrics

import (
	"time"

	"github.com/kilianp07/fleetquote/core/model"
)

// QuoteEvent summarises one computed quote.
type QuoteEvent struct {
	QuoteID          string
	VehicleID        string
	TransportType    model.TransportType
	CargoType        model.CargoType
	ServiceLevel     model.ServiceLevel
	Split            bool
	Oversize         bool
	MinimumApplied   bool
	WeightKg         float64
	DistanceKm       float64
	OperationalTotal float64
	Subtotal         float64
	Utility          float64
	Insurance        float64
	IVA              float64
	PriceToClient    float64
	Time             time.Time
}

// NewQuoteEvent builds the event for q computed from req.
func NewQuoteEvent(req model.TripRequest, q model.Quote) QuoteEvent {
	transport := req.TransportType
	if transport == "" {
		transport = model.TransportFTL
	}
	cargo := req.CargoType
	if cargo == "" {
		cargo = model.CargoGeneral
	}
	ts := q.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return QuoteEvent{
		QuoteID:          q.ID,
		VehicleID:        q.VehicleID,
		TransportType:    transport,
		CargoType:        cargo,
		ServiceLevel:     q.ServiceLevel,
		Split:            q.Breakdown.ReturnTrip != nil,
		Oversize:         q.Oversize,
		MinimumApplied:   q.MinimumApplied,
		WeightKg:         req.WeightKg,
		DistanceKm:       q.DistanceKm,
		OperationalTotal: q.OperationalTotal,
		Subtotal:         q.Subtotal,
		Utility:          q.Utility,
		Insurance:        q.Insurance,
		IVA:              q.IVA,
		PriceToClient:    q.PriceToClient,
		Time:             ts,
	}
}

// QuoteSink records computed quotes for observability purposes.
type QuoteSink interface {
	RecordQuote(ev QuoteEvent) error
}

// SelectionEvent captures the outcome of automatic vehicle selection.
type SelectionEvent struct {
	VehicleID  string
	Candidates int
	Suitable   int
	Oversize   bool
	WeightKg   float64
	VolumeM3   float64
	Time       time.Time
}

// SelectionRecorder records vehicle selections.
type SelectionRecorder interface {
	RecordSelection(ev SelectionEvent) error
}

// RejectionEvent records a quote request refused before pricing.
type RejectionEvent struct {
	Reason string
	Time   time.Time
}

// RejectionRecorder records refused requests.
type RejectionRecorder interface {
	RecordRejection(ev RejectionEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordQuote(QuoteEvent) error         { return nil }
func (NopSink) RecordSelection(SelectionEvent) error { return nil }
func (NopSink) RecordRejection(RejectionEvent) error { return nil }
