package metrics

import (
	"errors"
	"strconv"

	coremetrics "github.com/kilianp07/fleetquote/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PriceBuckets cover quotes from a local delivery to a long haul trailer.
var PriceBuckets = []float64{1000, 2500, 5000, 10000, 25000, 50000, 100000, 250000}

// PromSink records quotes in Prometheus metrics.
type PromSink struct {
	quotes     *prometheus.CounterVec
	price      *prometheus.HistogramVec
	selections *prometheus.CounterVec
	rejections *prometheus.CounterVec
}

// NewPromSink registers quote metrics on the default Prometheus registerer.
// The /metrics endpoint is served separately by StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	quotes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetquote_quotes_total",
		Help: "Total number of computed quotes",
	}, []string{"vehicle_id", "transport_type", "minimum_applied"})
	price := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fleetquote_quote_price_mxn",
		Help:    "Price to client of computed quotes",
		Buckets: PriceBuckets,
	}, []string{"transport_type"})
	selections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetquote_vehicle_selection_total",
		Help: "Vehicles chosen by automatic selection",
	}, []string{"vehicle_id", "oversize"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetquote_quote_rejections_total",
		Help: "Quote requests refused before pricing",
	}, []string{"reason"})

	var err error
	if quotes, err = register(reg, quotes); err != nil {
		return nil, err
	}
	if price, err = register(reg, price); err != nil {
		return nil, err
	}
	if selections, err = register(reg, selections); err != nil {
		return nil, err
	}
	if rejections, err = register(reg, rejections); err != nil {
		return nil, err
	}
	return &PromSink{quotes: quotes, price: price, selections: selections, rejections: rejections}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordQuote increments the quote counter and observes the price.
func (s *PromSink) RecordQuote(ev coremetrics.QuoteEvent) error {
	transport := string(ev.TransportType)
	s.quotes.WithLabelValues(ev.VehicleID, transport, strconv.FormatBool(ev.MinimumApplied)).Inc()
	s.price.WithLabelValues(transport).Observe(ev.PriceToClient)
	return nil
}

// RecordSelection counts automatic vehicle selections.
func (s *PromSink) RecordSelection(ev coremetrics.SelectionEvent) error {
	s.selections.WithLabelValues(ev.VehicleID, strconv.FormatBool(ev.Oversize)).Inc()
	return nil
}

// RecordRejection counts refused requests by reason.
func (s *PromSink) RecordRejection(ev coremetrics.RejectionEvent) error {
	s.rejections.WithLabelValues(ev.Reason).Inc()
	return nil
}
