package kpi

import (
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps daily records per vehicle in date order.
type MemoryStore struct {
	mu       sync.RWMutex
	vehicles map[string][]Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{vehicles: map[string][]Record{}}
}

func byDay(r Record, day time.Time) int { return r.Date.Compare(day) }

// Add folds r into the record of its vehicle and UTC day.
func (s *MemoryStore) Add(r Record) error {
	if r.VehicleID == "" {
		return ErrMissingVehicle
	}
	day := Day(r.Date)
	s.mu.Lock()
	defer s.mu.Unlock()
	days := s.vehicles[r.VehicleID]
	i, found := slices.BinarySearchFunc(days, day, byDay)
	if !found {
		days = slices.Insert(days, i, Record{VehicleID: r.VehicleID, Date: day})
	}
	days[i].merge(r)
	s.vehicles[r.VehicleID] = days
	return nil
}

// Query returns the days of vehicleID from start to end, both included.
func (s *MemoryStore) Query(vehicleID string, start, end time.Time) ([]Record, error) {
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	days := s.vehicles[vehicleID]
	lo, _ := slices.BinarySearchFunc(days, start, byDay)
	hi, found := slices.BinarySearchFunc(days, end, byDay)
	if found {
		hi++
	}
	if lo >= hi {
		return nil, nil
	}
	return slices.Clone(days[lo:hi]), nil
}
