// Package kpibackfill rebuilds daily KPI records from the quote log.
package kpibackfill

import (
	"context"

	"github.com/kilianp07/fleetquote/core/metrics"
	"github.com/kilianp07/fleetquote/core/metrics/kpi"
	"github.com/kilianp07/fleetquote/core/quotelog"
)

// Backfill adds one KPI record per logged quote matching q and returns the
// number of quotes processed. Running it twice over the same range counts
// the quotes twice.
func Backfill(ctx context.Context, store kpi.Store, log quotelog.Store, q quotelog.Query) (int, error) {
	records, err := log.Query(ctx, q)
	if err != nil {
		return 0, err
	}
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := store.Add(kpi.FromEvent(metrics.NewQuoteEvent(rec.Request, rec.Quote))); err != nil {
			return i, err
		}
	}
	return len(records), nil
}
