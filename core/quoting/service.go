// Package quoting turns trip requests into priced quotes. It resolves the
// vehicle and the tolls, runs the pricing engine and reports the result to
// the metrics sinks and the quote log.
package quoting

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/fleetquote/core/catalog"
	"github.com/kilianp07/fleetquote/core/logger"
	"github.com/kilianp07/fleetquote/core/metrics"
	"github.com/kilianp07/fleetquote/core/model"
	"github.com/kilianp07/fleetquote/core/monitoring"
	"github.com/kilianp07/fleetquote/core/pricing"
	"github.com/kilianp07/fleetquote/core/quotelog"
)

// ErrUnknownVehicle is returned when a pinned vehicle is not in the catalog.
var ErrUnknownVehicle = errors.New("unknown vehicle")

// VehicleSource lists the vehicles quotes can be priced with.
// *catalog.Catalog satisfies it.
type VehicleSource interface {
	Get(id string) (model.Vehicle, bool)
	List(q catalog.Query) []model.Vehicle
}

// Service prices trip requests.
type Service struct {
	vehicles VehicleSource
	settings SettingsProvider
	tolls    TollEstimator
	sink     metrics.QuoteSink
	logger   logger.Logger

	mu    sync.RWMutex
	store quotelog.Store

	now   func() time.Time
	newID func() string
}

// NewService creates a quoting service. tolls may be nil, in which case legs
// without an explicit toll amount are priced without tolls. A nil sink
// records nothing.
func NewService(vehicles VehicleSource, settings SettingsProvider, tolls TollEstimator, sink metrics.QuoteSink, log logger.Logger) (*Service, error) {
	if vehicles == nil || settings == nil || log == nil {
		return nil, fmt.Errorf("quoting: nil parameter provided to NewService")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Service{
		vehicles: vehicles,
		settings: settings,
		tolls:    tolls,
		sink:     sink,
		logger:   log,
		store:    quotelog.NopStore{},
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}, nil
}

// SetQuoteLog configures the store issued quotes are appended to.
func (s *Service) SetQuoteLog(store quotelog.Store) {
	if store == nil {
		store = quotelog.NopStore{}
	}
	s.mu.Lock()
	s.store = store
	s.mu.Unlock()
}

// Quote prices req with the current settings, records it and appends it to
// the quote log.
func (s *Service) Quote(ctx context.Context, req model.TripRequest) (model.Quote, error) {
	settings, err := s.settings.Settings(ctx)
	if err != nil {
		return model.Quote{}, fmt.Errorf("load settings: %w", err)
	}
	q, resolved, err := s.price(ctx, req, settings, true)
	if err != nil {
		return model.Quote{}, err
	}
	s.record(ctx, resolved, q)
	return q, nil
}

// Simulate prices req against the given settings without recording anything.
func (s *Service) Simulate(ctx context.Context, req model.TripRequest, settings model.Settings) (model.Quote, error) {
	q, _, err := s.price(ctx, req, settings, false)
	return q, err
}

// SelectVehicle returns the vehicle req would be priced with and whether it
// is the oversize fallback.
func (s *Service) SelectVehicle(ctx context.Context, req model.TripRequest) (model.Vehicle, bool, error) {
	settings, err := s.settings.Settings(ctx)
	if err != nil {
		return model.Vehicle{}, false, fmt.Errorf("load settings: %w", err)
	}
	return s.resolveVehicle(req, settings, false)
}

func (s *Service) price(ctx context.Context, req model.TripRequest, settings model.Settings, report bool) (model.Quote, model.TripRequest, error) {
	if err := req.Validate(); err != nil {
		if report {
			s.reject("invalid_input")
		}
		return model.Quote{}, req, err
	}
	vehicle, oversize, err := s.resolveVehicle(req, settings, report)
	if err != nil {
		if report {
			s.reject("unknown_vehicle")
		}
		return model.Quote{}, req, err
	}
	settings = settings.WithVehicleDefaults(vehicle)
	req, err = s.resolveTolls(ctx, req, vehicle)
	if err != nil {
		return model.Quote{}, req, err
	}
	q, err := pricing.Calculate(req, vehicle, settings, req.ServiceLevel)
	if err != nil {
		return model.Quote{}, req, err
	}
	q.ID = s.newID()
	q.CreatedAt = s.now()
	q.Oversize = oversize
	return q, req, nil
}

// resolveVehicle returns the pinned vehicle or the smallest suitable one.
// When nothing can carry the package the generic vehicle is used and the
// boolean is true.
func (s *Service) resolveVehicle(req model.TripRequest, settings model.Settings, report bool) (model.Vehicle, bool, error) {
	if req.VehicleID != "" {
		if req.VehicleID == catalog.GenericVehicleID {
			return catalog.Generic(), false, nil
		}
		v, ok := s.vehicles.Get(req.VehicleID)
		if !ok {
			return model.Vehicle{}, false, fmt.Errorf("%w: %s", ErrUnknownVehicle, req.VehicleID)
		}
		return v, false, nil
	}
	candidates := s.vehicles.List(catalog.Query{})
	pkg := catalog.PackageFromRequest(req)
	ranked := catalog.Rank(candidates, pkg, settings.VehiclePricePerKm)
	vehicle, oversize := catalog.Generic(), true
	if len(ranked) > 0 {
		vehicle, oversize = ranked[0], false
	} else {
		s.logger.Warnf("no vehicle can carry %.0f kg / %.2f m3, using %s", pkg.WeightKg, pkg.Volume(), vehicle.ID)
	}
	if report {
		if rec, ok := s.sink.(metrics.SelectionRecorder); ok {
			ev := metrics.SelectionEvent{
				VehicleID:  vehicle.ID,
				Candidates: len(candidates),
				Suitable:   len(ranked),
				Oversize:   oversize,
				WeightKg:   pkg.WeightKg,
				VolumeM3:   pkg.Volume(),
				Time:       s.now(),
			}
			if err := rec.RecordSelection(ev); err != nil {
				s.logger.Errorf("selection metrics error: %v", err)
			}
		}
	}
	return vehicle, oversize, nil
}

// resolveTolls fills the legs without an explicit toll amount from the
// estimator. The caller's request is not modified.
func (s *Service) resolveTolls(ctx context.Context, req model.TripRequest, v model.Vehicle) (model.TripRequest, error) {
	if s.tolls == nil {
		return req, nil
	}
	fill := func(l model.Leg) (model.Leg, error) {
		if l.Tolls != nil {
			return l, nil
		}
		amount, err := s.tolls.EstimateTolls(ctx, l, v)
		if err != nil {
			return l, fmt.Errorf("estimate tolls: %w", err)
		}
		amount = pricing.Round2(amount)
		l.Tolls = &amount
		return l, nil
	}
	var err error
	if req.Outbound, err = fill(req.Outbound); err != nil {
		return req, err
	}
	if req.Return != nil {
		ret, err := fill(*req.Return)
		if err != nil {
			return req, err
		}
		req.Return = &ret
	}
	return req, nil
}

func (s *Service) record(ctx context.Context, req model.TripRequest, q model.Quote) {
	tags := map[string]string{"component": "quoting", "quote_id": q.ID, "vehicle_id": q.VehicleID}
	if err := s.sink.RecordQuote(metrics.NewQuoteEvent(req, q)); err != nil {
		s.logger.Errorf("quote metrics error: %v", err)
		monitoring.CaptureException(err, tags)
	}
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if err := store.Append(ctx, quotelog.NewRecord(req, q)); err != nil {
		s.logger.Errorf("quote log error: %v", err)
		monitoring.CaptureException(err, tags)
	}
	s.logger.Infow("quote issued", map[string]any{
		"quote_id":        q.ID,
		"vehicle_id":      q.VehicleID,
		"oversize":        q.Oversize,
		"minimum_applied": q.MinimumApplied,
		"price_to_client": q.PriceToClient,
	})
}

func (s *Service) reject(reason string) {
	if rec, ok := s.sink.(metrics.RejectionRecorder); ok {
		if err := rec.RecordRejection(metrics.RejectionEvent{Reason: reason, Time: s.now()}); err != nil {
			s.logger.Errorf("rejection metrics error: %v", err)
		}
	}
}
