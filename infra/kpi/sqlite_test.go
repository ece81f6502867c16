package kpi

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	core "github.com/kilianp07/fleetquote/core/metrics/kpi"
)

func TestSQLiteStoreAggregates(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "kpi.db"))
	require.NoError(t, err)
	defer s.Close()

	d := core.Day(time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC))
	require.NoError(t, s.Add(core.Record{VehicleID: "truck", Date: d.Add(time.Hour), Quotes: 1, DistanceKm: 500, Revenue: 4005.27}))
	require.NoError(t, s.Add(core.Record{VehicleID: "truck", Date: d.Add(5 * time.Hour), Quotes: 1, DistanceKm: 100, Revenue: 5800, MinimumApplied: 1}))
	require.NoError(t, s.Add(core.Record{VehicleID: "truck", Date: d.AddDate(0, 0, 1), Quotes: 1, Oversize: 1}))
	require.NoError(t, s.Add(core.Record{VehicleID: "van", Date: d, Quotes: 1}))

	recs, err := s.Query("truck", d, d)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, d, recs[0].Date)
	assert.Equal(t, 2, recs[0].Quotes)
	assert.InDelta(t, 9805.27, recs[0].Revenue, 1e-9)
	assert.Equal(t, 600.0, recs[0].DistanceKm)
	assert.Equal(t, 1, recs[0].MinimumApplied)

	recs, err = s.Query("truck", d, d.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 1, recs[1].Oversize)

	assert.ErrorIs(t, s.Add(core.Record{Date: d, Quotes: 1}), core.ErrMissingVehicle)
}

func TestOpen(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	assert.IsType(t, &core.MemoryStore{}, s)

	s, err = Open(filepath.Join(t.TempDir(), "kpi.db"))
	require.NoError(t, err)
	sq, ok := s.(*SQLiteStore)
	require.True(t, ok)
	assert.NoError(t, sq.Close())
}
