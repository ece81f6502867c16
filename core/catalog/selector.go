package catalog

import (
	"cmp"
	"slices"

	"github.com/kilianp07/fleetquote/core/model"
)

// PriceFunc returns the price per kilometer of a vehicle, 0 when unknown.
// model.Settings.VehiclePricePerKm satisfies it.
type PriceFunc func(v model.Vehicle) float64

// Rank returns the suitable candidates in selection order: ascending
// capacity, then lower price per kilometer, then id.
func Rank(candidates []model.Vehicle, pkg Package, price PriceFunc) []model.Vehicle {
	suitable := SuitabilityFilter{}.Filter(candidates, pkg)
	if price == nil {
		price = func(model.Vehicle) float64 { return 0 }
	}
	perKm := make(map[string]float64, len(suitable))
	for _, v := range suitable {
		perKm[v.ID] = price(v)
	}
	slices.SortStableFunc(suitable, func(a, b model.Vehicle) int {
		if c := cmp.Compare(a.Capacity, b.Capacity); c != 0 {
			return c
		}
		if c := cmp.Compare(perKm[a.ID], perKm[b.ID]); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return suitable
}

// SelectVehicle returns the smallest suitable vehicle. The boolean is false
// when no candidate can carry the package.
func SelectVehicle(candidates []model.Vehicle, pkg Package, price PriceFunc) (model.Vehicle, bool) {
	ranked := Rank(candidates, pkg, price)
	if len(ranked) == 0 {
		return model.Vehicle{}, false
	}
	return ranked[0], true
}
