package kpi

import (
	"io"

	"github.com/kilianp07/fleetquote/core/metrics"
)

// Sink feeds issued quotes into a Store. It implements metrics.QuoteSink.
type Sink struct {
	Store Store
}

// FromEvent converts a quote event into a single-quote record.
func FromEvent(ev metrics.QuoteEvent) Record {
	return Record{
		VehicleID:      ev.VehicleID,
		Date:           Day(ev.Time),
		Quotes:         1,
		DistanceKm:     ev.DistanceKm,
		Revenue:        ev.PriceToClient,
		MinimumApplied: boolCount(ev.MinimumApplied),
		Oversize:       boolCount(ev.Oversize),
	}
}

func (s Sink) RecordQuote(ev metrics.QuoteEvent) error {
	return s.Store.Add(FromEvent(ev))
}

// Close closes the store when it holds resources.
func (s Sink) Close() {
	if c, ok := s.Store.(io.Closer); ok {
		_ = c.Close()
	}
}
