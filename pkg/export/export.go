package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/fleetquote/core/model"
)

// WriteJSON writes the quote to w as indented JSON.
func WriteJSON(w io.Writer, q model.Quote) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(q)
}

// WriteCSV writes one row per leg line item followed by the quote totals.
func WriteCSV(w io.Writer, q model.Quote) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"leg", "item", "amount"}); err != nil {
		return err
	}
	legs := []struct {
		name string
		b    *model.LegBreakdown
	}{{"outbound", &q.Breakdown.Outbound}, {"return", q.Breakdown.ReturnTrip}}
	for _, leg := range legs {
		if leg.b == nil {
			continue
		}
		for _, it := range legItems(*leg.b) {
			if err := cw.Write([]string{leg.name, it.name, formatAmount(it.v)}); err != nil {
				return err
			}
		}
	}
	for _, it := range []item{
		{"subtotal", q.Subtotal},
		{"insurance", q.Insurance},
		{"iva", q.IVA},
		{"price_to_client", q.PriceToClient},
	} {
		if err := cw.Write([]string{"total", it.name, formatAmount(it.v)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type item struct {
	name string
	v    float64
}

func legItems(b model.LegBreakdown) []item {
	return []item{
		{"distance_km", b.DistanceKm},
		{"fuel", b.FuelCost},
		{"tires", b.TireCost},
		{"depreciation", b.DepreciationCost},
		{"gps", b.GPSCost},
		{"driver", b.DriverBase},
		{"per_diem", b.DriverPerDiem},
		{"lodging", b.Lodging},
		{"tolls", b.Tolls},
		{"maneuvers", b.Maneuvers},
		{"other_expenses", b.OtherExpenses},
		{"operational_total", b.OperationalTotal},
		{"imponderables", b.Imponderables},
		{"carrier_margin", b.CarrierMargin},
		{"jfc_utility", b.JFCUtility},
		{"subtotal", b.Subtotal},
		{"billable_freight", b.BillableFreight},
		{"insurance", b.Insurance},
		{"iva", b.IVA},
		{"price_to_client", b.PriceToClient},
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
