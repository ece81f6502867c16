package quoting

import (
	"context"

	"github.com/kilianp07/fleetquote/core/logger"
	"github.com/kilianp07/fleetquote/core/model"
)

// TollEstimator returns the toll amount of a leg driven by v.
type TollEstimator interface {
	EstimateTolls(ctx context.Context, leg model.Leg, v model.Vehicle) (float64, error)
}

// HeuristicTolls charges a flat amount per kilometer. CategoryFactor scales
// the rate for vehicle categories paying a different toll class; unknown
// categories use a factor of 1.
type HeuristicTolls struct {
	PerKm          float64
	CategoryFactor map[string]float64
}

func (h HeuristicTolls) EstimateTolls(_ context.Context, leg model.Leg, v model.Vehicle) (float64, error) {
	factor := 1.0
	if f, ok := h.CategoryFactor[v.Category]; ok {
		factor = f
	}
	return leg.DistanceKm * h.PerKm * factor, nil
}

// FallbackTolls asks Primary and falls back to Fallback when it fails.
type FallbackTolls struct {
	Primary  TollEstimator
	Fallback TollEstimator
	Log      logger.Logger
}

func (f FallbackTolls) EstimateTolls(ctx context.Context, leg model.Leg, v model.Vehicle) (float64, error) {
	amount, err := f.Primary.EstimateTolls(ctx, leg, v)
	if err == nil {
		return amount, nil
	}
	if f.Log != nil {
		f.Log.Warnf("toll estimation failed, using fallback: %v", err)
	}
	return f.Fallback.EstimateTolls(ctx, leg, v)
}
