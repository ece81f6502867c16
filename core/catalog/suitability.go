package catalog

import "github.com/kilianp07/fleetquote/core/model"

// Package is the load a vehicle has to carry.
type Package struct {
	WeightKg   float64
	Dimensions model.Dimensions
	// VolumeM3 takes precedence over Dimensions when positive.
	VolumeM3 float64
}

// PackageFromRequest extracts the load description from a trip request.
func PackageFromRequest(r model.TripRequest) Package {
	return Package{WeightKg: r.WeightKg, Dimensions: r.Dimensions, VolumeM3: r.VolumeM3}
}

// Volume returns the package volume in cubic meters, 0 when unknown.
func (p Package) Volume() float64 {
	if p.VolumeM3 > 0 {
		return p.VolumeM3
	}
	return p.Dimensions.Volume()
}

// IsVehicleSuitable reports whether v can carry pkg. Weight must not exceed
// the capacity. When the package has a volume it must fit in the volumetric
// capacity; packages without a volume are judged on weight alone.
func IsVehicleSuitable(v model.Vehicle, pkg Package) bool {
	if pkg.WeightKg > v.Capacity {
		return false
	}
	vol := pkg.Volume()
	return vol <= 0 || vol <= v.VolumetricCapacity
}

// Filter selects the vehicles able to carry a package.
type Filter interface {
	Filter(vehicles []model.Vehicle, pkg Package) []model.Vehicle
}

// SuitabilityFilter keeps the vehicles accepted by IsVehicleSuitable.
type SuitabilityFilter struct{}

func (SuitabilityFilter) Filter(vehicles []model.Vehicle, pkg Package) []model.Vehicle {
	var res []model.Vehicle
	for _, v := range vehicles {
		if IsVehicleSuitable(v, pkg) {
			res = append(res, v)
		}
	}
	return res
}
