package catalog

import "github.com/kilianp07/fleetquote/core/model"

// GenericVehicleID identifies the fallback profile used when no stock or
// fleet vehicle can carry a package.
const GenericVehicleID = "generic"

var stock = []model.Vehicle{
	{
		ID:                 "van-1.5t",
		Name:               "Camioneta 1.5 t",
		Category:           "van",
		Capacity:           1500,
		VolumetricCapacity: 8,
		Dimensions:         model.Dimensions{Length: 3, Width: 1.8, Height: 1.5},
		FuelType:           model.FuelGasoline87,
		FuelEfficiency:     9,
		Value:              650000,
		UsefulLifeKm:       500000,
		SuspensionType:     "leaf",
	},
	{
		ID:                 "truck-3.5t",
		Name:               "Camioneta 3.5 t",
		Category:           "light_truck",
		Capacity:           3500,
		VolumetricCapacity: 16,
		Dimensions:         model.Dimensions{Length: 4.3, Width: 2.1, Height: 1.8},
		FuelType:           model.FuelDiesel,
		FuelEfficiency:     7,
		Value:              900000,
		UsefulLifeKm:       600000,
		SuspensionType:     "leaf",
	},
	{
		ID:                 "rabon",
		Name:               "Rabón",
		Category:           "rigid",
		Capacity:           8000,
		VolumetricCapacity: 40,
		Dimensions:         model.Dimensions{Length: 6.5, Width: 2.5, Height: 2.5},
		FuelType:           model.FuelDiesel,
		FuelEfficiency:     5,
		Value:              1500000,
		UsefulLifeKm:       800000,
		SuspensionType:     "leaf",
	},
	{
		ID:                 "torton",
		Name:               "Tortón",
		Category:           "rigid",
		Capacity:           15000,
		VolumetricCapacity: 60,
		Dimensions:         model.Dimensions{Length: 8.5, Width: 2.5, Height: 2.8},
		FuelType:           model.FuelDiesel,
		FuelEfficiency:     3.5,
		Value:              2200000,
		UsefulLifeKm:       1000000,
		SuspensionType:     "air",
	},
	{
		ID:                 "trailer-53",
		Name:               "Tractocamión 53 pies",
		Category:           "trailer",
		Capacity:           30000,
		VolumetricCapacity: 100,
		Dimensions:         model.Dimensions{Length: 16.15, Width: 2.6, Height: 2.7},
		FuelType:           model.FuelDiesel,
		FuelEfficiency:     2.5,
		Value:              3200000,
		UsefulLifeKm:       1200000,
		SuspensionType:     "air",
	},
}

// Stock returns the built-in vehicle classes ordered by ascending capacity.
// The returned slice is a copy.
func Stock() []model.Vehicle {
	out := make([]model.Vehicle, len(stock))
	copy(out, stock)
	return out
}

// Generic returns the high-capacity profile quotes fall back to when nothing
// in the catalog fits the package.
func Generic() model.Vehicle {
	return model.Vehicle{
		ID:                 GenericVehicleID,
		Name:               "Vehículo genérico",
		Category:           "generic",
		Capacity:           35000,
		VolumetricCapacity: 120,
		FuelType:           model.FuelDiesel,
		FuelEfficiency:     2.5,
		Value:              1500000,
		UsefulLifeKm:       800000,
	}
}
