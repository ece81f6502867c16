package kpi

import (
	"errors"
	"time"
)

// ErrMissingVehicle is returned when a record carries no vehicle id.
var ErrMissingVehicle = errors.New("kpi record without vehicle id")

// Store persists daily KPI records. Add merges into the existing record of
// the same vehicle and day.
type Store interface {
	Add(Record) error
	Query(vehicleID string, start, end time.Time) ([]Record, error)
}

// Day aligns t to the start of its day in UTC.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func boolCount(b bool) int {
	if b {
		return 1
	}
	return 0
}
