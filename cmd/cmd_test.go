package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fleetquote/core/model"
	"github.com/kilianp07/fleetquote/core/quotelog"
)

func writeTemp(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	cfg := writeTemp(t, "config.yaml", "logging:\n  level: error\nquote_log:\n  backend: none\n")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"-c", cfg}, args...))
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestBuildTripRequestFromFileAndFlags(t *testing.T) {
	trip := writeTemp(t, "trip.yaml", `weight_kg: 1200
declared_value: 50000
dimensions: {length: 2, width: 1, height: 1}
outbound: {distance_km: 300, tolls: 450}
cargo_type: fragile
insurance_selection: jfc
`)
	require.NoError(t, quoteCmd.Flags().Parse([]string{"--trip", trip, "--weight-kg", "1400", "--return-km", "280"}))
	t.Cleanup(func() {
		quoteOpts.trip = ""
		quoteCmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	})

	req, err := buildTripRequest(quoteCmd)
	require.NoError(t, err)
	assert.Equal(t, 1400.0, req.WeightKg)
	assert.Equal(t, 50000.0, req.DeclaredValue)
	assert.Equal(t, 2.0, req.Dimensions.Volume())
	assert.Equal(t, 450.0, req.Outbound.TollsOrZero())
	assert.Equal(t, model.CargoType("fragile"), req.CargoType)
	assert.Equal(t, model.InsuranceSelection("jfc"), req.Insurance)
	require.NotNil(t, req.Return)
	assert.Equal(t, 280.0, req.Return.DistanceKm)
	assert.Nil(t, req.Return.Tolls)
}

func TestVehiclesCommands(t *testing.T) {
	out := execute(t, "vehicles", "ls", "--category", "rigid")
	assert.Contains(t, out, "rabon")
	assert.Contains(t, out, "torton")
	assert.NotContains(t, out, "van-1.5t")

	out = execute(t, "vehicles", "select", "--weight-kg", "5000")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "rabon"))
}

func TestQuoteCommandCSV(t *testing.T) {
	out := execute(t, "quote", "--weight-kg", "1000", "--distance-km", "100", "--tolls", "0", "--format", "csv")
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"leg", "item", "amount"}, rows[0])
	last := rows[len(rows)-1]
	assert.Equal(t, "price_to_client", last[1])
	assert.NotEqual(t, "0.00", last[2])
}

func TestKPICommands(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "quotes.jsonl")
	log, err := quotelog.NewJSONLStore(logPath)
	require.NoError(t, err)
	day := time.Date(2025, 4, 7, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"q1", "q2", "q3"} {
		q := model.Quote{ID: id, CreatedAt: day.AddDate(0, 0, i/2), VehicleID: "rabon", DistanceKm: 200, PriceToClient: 3000}
		require.NoError(t, log.Append(context.Background(), quotelog.NewRecord(model.TripRequest{}, q)))
	}
	cfg := writeTemp(t, "config.yaml", "logging:\n  level: error\nquote_log:\n  backend: jsonl\n  path: "+logPath+"\nkpi:\n  path: "+filepath.Join(dir, "kpi.db")+"\n")
	t.Cleanup(func() { kpiOpts.from, kpiOpts.to, kpiOpts.vehicle = "", "", "" })

	run := func(args ...string) string {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&out)
		rootCmd.SetArgs(append([]string{"-c", cfg}, args...))
		require.NoError(t, rootCmd.Execute())
		return out.String()
	}

	assert.Contains(t, run("kpi", "backfill", "--to", "2025-04-07"), "2 quotes backfilled")
	out := run("kpi", "show", "--vehicle", "rabon", "--from", "2025-04-01", "--to", "2025-04-30")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	fields := strings.Fields(lines[1])
	assert.Equal(t, []string{"2025-04-07", "2", "400", "6000.00", "15.00", "0.00"}, fields)
}
