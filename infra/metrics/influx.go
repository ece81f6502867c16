package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/fleetquote/core/metrics"
	"github.com/kilianp07/fleetquote/infra/logger"
)

// InfluxConfig holds the connection settings of an InfluxSink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes quote events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.QuoteSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordQuote writes the quote as a line protocol point.
func (s *InfluxSink) RecordQuote(ev coremetrics.QuoteEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, quotePoint(ev))
}

// RecordSelection writes the outcome of an automatic selection.
func (s *InfluxSink) RecordSelection(ev coremetrics.SelectionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("vehicle_selection").
		AddTag("vehicle_id", ev.VehicleID).
		AddTag("oversize", strconv.FormatBool(ev.Oversize)).
		AddField("candidates", ev.Candidates).
		AddField("suitable", ev.Suitable).
		AddField("weight_kg", round3(ev.WeightKg)).
		AddField("volume_m3", round3(ev.VolumeM3)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func quotePoint(ev coremetrics.QuoteEvent) *write.Point {
	return write.NewPointWithMeasurement("quote").
		AddTag("vehicle_id", ev.VehicleID).
		AddTag("transport_type", string(ev.TransportType)).
		AddTag("cargo_type", string(ev.CargoType)).
		AddTag("service_level", string(ev.ServiceLevel)).
		AddTag("minimum_applied", strconv.FormatBool(ev.MinimumApplied)).
		AddTag("oversize", strconv.FormatBool(ev.Oversize)).
		AddTag("split", strconv.FormatBool(ev.Split)).
		AddTag("quote_id", ev.QuoteID).
		AddField("distance_km", round3(ev.DistanceKm)).
		AddField("weight_kg", round3(ev.WeightKg)).
		AddField("operational_total", round3(ev.OperationalTotal)).
		AddField("subtotal", round3(ev.Subtotal)).
		AddField("utility", round3(ev.Utility)).
		AddField("insurance", round3(ev.Insurance)).
		AddField("iva", round3(ev.IVA)).
		AddField("price_to_client", round3(ev.PriceToClient)).
		SetTime(ev.Time)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
