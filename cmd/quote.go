package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/fleetquote/app"
	"github.com/kilianp07/fleetquote/core/model"
	"github.com/kilianp07/fleetquote/pkg/export"
)

var quoteOpts struct {
	trip          string
	format        string
	weightKg      float64
	volumeM3      float64
	declaredValue float64
	distanceKm    float64
	returnKm      float64
	tolls         float64
	returnTolls   float64
	transport     string
	cargo         string
	presentation  string
	insurance     string
	serviceLevel  string
	vehicle       string
	loading       bool
	unloading     bool
}

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a trip and print the quote",
	Long: "Price a trip described by flags or by a YAML trip file. Flags given " +
		"explicitly override the values of the trip file.",
	RunE: runQuote,
}

func init() {
	f := quoteCmd.Flags()
	f.StringVar(&quoteOpts.trip, "trip", "", "YAML trip request file")
	f.StringVar(&quoteOpts.format, "format", "json", "output format: json or csv")
	f.Float64Var(&quoteOpts.weightKg, "weight-kg", 0, "package weight in kg")
	f.Float64Var(&quoteOpts.volumeM3, "volume-m3", 0, "package volume in cubic meters")
	f.Float64Var(&quoteOpts.declaredValue, "declared-value", 0, "declared value of the goods")
	f.Float64Var(&quoteOpts.distanceKm, "distance-km", 0, "outbound distance in km")
	f.Float64Var(&quoteOpts.returnKm, "return-km", 0, "return distance in km, prices the trip as two legs")
	f.Float64Var(&quoteOpts.tolls, "tolls", 0, "outbound tolls, estimated when omitted")
	f.Float64Var(&quoteOpts.returnTolls, "return-tolls", 0, "return tolls, estimated when omitted")
	f.StringVar(&quoteOpts.transport, "transport", "", "transport type: FTL, PTL or LTL")
	f.StringVar(&quoteOpts.cargo, "cargo", "", "cargo type")
	f.StringVar(&quoteOpts.presentation, "presentation", "", "package presentation")
	f.StringVar(&quoteOpts.insurance, "insurance", "", "insurance selection: jfc or own")
	f.StringVar(&quoteOpts.serviceLevel, "service-level", "", "service level: standard or express")
	f.StringVar(&quoteOpts.vehicle, "vehicle", "", "vehicle id, selected automatically when omitted")
	f.BoolVar(&quoteOpts.loading, "loading", false, "carrier loads the goods")
	f.BoolVar(&quoteOpts.unloading, "unloading", false, "carrier unloads the goods")
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(cmd *cobra.Command, args []string) error {
	req, err := buildTripRequest(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	q, err := svc.Quoting.Quote(cmd.Context(), req)
	if err != nil {
		return err
	}
	switch quoteOpts.format {
	case "json":
		return export.WriteJSON(cmd.OutOrStdout(), q)
	case "csv":
		return export.WriteCSV(cmd.OutOrStdout(), q)
	default:
		return fmt.Errorf("unknown format %q", quoteOpts.format)
	}
}

// buildTripRequest reads the trip file, when given, and applies the flags
// that were set explicitly.
func buildTripRequest(cmd *cobra.Command) (model.TripRequest, error) {
	var req model.TripRequest
	if quoteOpts.trip != "" {
		data, err := os.ReadFile(quoteOpts.trip)
		if err != nil {
			return req, err
		}
		if err := yaml.Unmarshal(data, &req); err != nil {
			return req, fmt.Errorf("parse trip %s: %w", quoteOpts.trip, err)
		}
	}
	f := cmd.Flags()
	set := func(name string, apply func()) {
		if f.Changed(name) {
			apply()
		}
	}
	set("weight-kg", func() { req.WeightKg = quoteOpts.weightKg })
	set("volume-m3", func() { req.VolumeM3 = quoteOpts.volumeM3 })
	set("declared-value", func() { req.DeclaredValue = quoteOpts.declaredValue })
	set("distance-km", func() { req.Outbound.DistanceKm = quoteOpts.distanceKm })
	set("tolls", func() {
		v := quoteOpts.tolls
		req.Outbound.Tolls = &v
	})
	set("return-km", func() {
		if req.Return == nil {
			req.Return = &model.Leg{}
		}
		req.Return.DistanceKm = quoteOpts.returnKm
	})
	set("return-tolls", func() {
		if req.Return == nil {
			req.Return = &model.Leg{}
		}
		v := quoteOpts.returnTolls
		req.Return.Tolls = &v
	})
	set("transport", func() { req.TransportType = model.TransportType(quoteOpts.transport) })
	set("cargo", func() { req.CargoType = model.CargoType(quoteOpts.cargo) })
	set("presentation", func() { req.Presentation = model.Presentation(quoteOpts.presentation) })
	set("insurance", func() { req.Insurance = model.InsuranceSelection(quoteOpts.insurance) })
	set("service-level", func() { req.ServiceLevel = model.ServiceLevel(quoteOpts.serviceLevel) })
	set("vehicle", func() { req.VehicleID = quoteOpts.vehicle })
	set("loading", func() { req.RequiresLoadingSupport = quoteOpts.loading })
	set("unloading", func() { req.RequiresUnloadingSupport = quoteOpts.unloading })
	return req, nil
}
