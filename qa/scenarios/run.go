package scenarios

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fleetquote/core/catalog"
	"github.com/kilianp07/fleetquote/core/model"
	"github.com/kilianp07/fleetquote/core/quoting"
	"github.com/kilianp07/fleetquote/infra/logger"
)

// centTolerance absorbs rounding differences of one cent.
const centTolerance = 0.011

// RunScenario prices the scenario trip and asserts the expected values.
func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	var cat *catalog.Catalog
	if len(sc.Vehicles) == 0 {
		cat = catalog.NewWithStock()
	} else {
		vs := make([]model.Vehicle, len(sc.Vehicles))
		for i, v := range sc.Vehicles {
			vs[i] = v.ToModel()
		}
		var err error
		cat, err = catalog.New(vs...)
		require.NoError(t, err)
	}
	settings := quoting.NewStaticSettings(sc.Settings.ToModel(sc.Vehicles))
	svc, err := quoting.NewService(cat, settings, nil, nil, logger.NopLogger{})
	require.NoError(t, err)

	q, err := svc.Quote(context.Background(), sc.Trip)
	require.NoError(t, err)

	exp := sc.Expected
	if exp.VehicleID != "" {
		assert.Equal(t, exp.VehicleID, q.VehicleID, "vehicle_id")
	}
	if exp.Oversize != nil {
		assert.Equal(t, *exp.Oversize, q.Oversize, "oversize")
	}
	if exp.MinimumApplied != nil {
		assert.Equal(t, *exp.MinimumApplied, q.MinimumApplied, "minimum_applied")
	}
	out := q.Breakdown.Outbound
	checks := []struct {
		name string
		want *float64
		got  float64
	}{
		{"fuel_cost", exp.FuelCost, q.FuelCost},
		{"tire_cost", exp.TireCost, out.TireCost},
		{"depreciation_cost", exp.DepreciationCost, out.DepreciationCost},
		{"operational_total", exp.OperationalTotal, q.OperationalTotal},
		{"subtotal", exp.Subtotal, q.Subtotal},
		{"insurance", exp.Insurance, q.Insurance},
		{"iva", exp.IVA, q.IVA},
		{"price_to_client", exp.PriceToClient, q.PriceToClient},
	}
	for _, c := range checks {
		if c.want != nil {
			assert.InDelta(t, *c.want, c.got, centTolerance, c.name)
		}
	}
}
