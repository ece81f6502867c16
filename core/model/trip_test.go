package model

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func TestTripRequestValidate(t *testing.T) {
	ok := TripRequest{
		WeightKg:      1500,
		DeclaredValue: 100000,
		Outbound:      Leg{DistanceKm: 500, Tolls: ptr(800)},
		Return:        &Leg{DistanceKm: 480},
		TransportType: TransportFTL,
		CargoType:     CargoGeneral,
		Presentation:  PresentationGeneral,
		Insurance:     InsuranceJFC,
		ServiceLevel:  ServiceExpress,
	}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (TripRequest{}).Validate(); err != nil {
		t.Fatalf("zero request must be valid, got %v", err)
	}

	bad := []struct {
		name  string
		req   TripRequest
		field string
	}{
		{"negative weight", TripRequest{WeightKg: -1}, "weight_kg"},
		{"nan distance", TripRequest{Outbound: Leg{DistanceKm: math.NaN()}}, "outbound.distance_km"},
		{"inf return", TripRequest{Return: &Leg{DistanceKm: math.Inf(1)}}, "return.distance_km"},
		{"huge distance", TripRequest{Outbound: Leg{DistanceKm: 1e300}}, "outbound.distance_km"},
		{"negative tolls", TripRequest{Outbound: Leg{Tolls: ptr(-5)}}, "outbound.tolls"},
		{"negative days", TripRequest{Outbound: Leg{TravelDays: -1}}, "outbound.travel_days"},
		{"negative override", TripRequest{Overrides: Overrides{Lodging: ptr(-1)}}, "overrides.lodging"},
		{"unknown transport", TripRequest{TransportType: "XTL"}, "transport_type"},
		{"unknown insurance", TripRequest{Insurance: "theirs"}, "insurance_selection"},
		{"unknown level", TripRequest{ServiceLevel: "overnight"}, "service_level"},
	}
	for _, c := range bad {
		err := c.req.Validate()
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput got %v", c.name, err)
			continue
		}
		if !strings.Contains(err.Error(), c.field) {
			t.Errorf("%s: error %q does not name %s", c.name, err, c.field)
		}
	}
}

func TestTripRequestHelpers(t *testing.T) {
	r := TripRequest{
		Dimensions: Dimensions{Length: 1, Width: 2, Height: 3},
		Outbound:   Leg{DistanceKm: 100},
	}
	if r.Split() {
		t.Fatalf("single leg expected")
	}
	if r.PackageVolume() != 6 {
		t.Fatalf("expected volume 6 got %f", r.PackageVolume())
	}
	r.VolumeM3 = 2
	if r.PackageVolume() != 2 {
		t.Fatalf("explicit volume must win")
	}
	r.Return = &Leg{DistanceKm: 50}
	if !r.Split() || r.TotalDistanceKm() != 150 {
		t.Fatalf("unexpected split totals")
	}
	if (Leg{}).TollsOrZero() != 0 || (Leg{Tolls: ptr(3)}).TollsOrZero() != 3 {
		t.Fatalf("unexpected tolls")
	}
}
