// Package quotelog keeps the history of issued quotes.
package quotelog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/fleetquote/core/model"
)

// ErrUnknownBackend is returned by NewStore for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown quote log backend")

// Record captures one issued quote together with the request it answered.
type Record struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	VehicleID string            `json:"vehicle_id"`
	Oversize  bool              `json:"oversize"`
	Request   model.TripRequest `json:"request"`
	Quote     model.Quote       `json:"quote"`
}

// NewRecord builds the record of q.
func NewRecord(req model.TripRequest, q model.Quote) Record {
	ts := q.CreatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return Record{
		ID:        q.ID,
		Timestamp: ts,
		VehicleID: q.VehicleID,
		Oversize:  q.Oversize,
		Request:   req,
		Quote:     q,
	}
}

// Query defines filters for retrieving records. Zero fields match everything.
type Query struct {
	Start          time.Time
	End            time.Time
	VehicleID      string
	MinimumApplied *bool
	// Limit caps the number of records returned, oldest first.
	Limit int
}

// Match reports whether r satisfies every filter of q.
func (q Query) Match(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.VehicleID != "" && r.VehicleID != q.VehicleID {
		return false
	}
	if q.MinimumApplied != nil && r.Quote.MinimumApplied != *q.MinimumApplied {
		return false
	}
	return true
}

func (q Query) full(n int) bool { return q.Limit > 0 && n >= q.Limit }

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// Config selects and tunes the store backend.
type Config struct {
	// Backend is one of "jsonl", "jsonl_rotating", "sqlite" or "none".
	Backend    string `json:"backend"`
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// SetDefaults fills the backend, path and rotation limits.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		switch c.Backend {
		case "sqlite":
			c.Path = "quotes.db"
		default:
			c.Path = "quotes.jsonl"
		}
	}
	if c.MaxSizeMB <= 0 {
		c.MaxSizeMB = 10
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = 5
	}
	if c.MaxAgeDays <= 0 {
		c.MaxAgeDays = 30
	}
}

// NewStore opens the store configured by cfg.
func NewStore(cfg Config) (Store, error) {
	cfg.SetDefaults()
	switch cfg.Backend {
	case "jsonl":
		return NewJSONLStore(cfg.Path)
	case "jsonl_rotating":
		return NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	case "none":
		return NopStore{}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownBackend, cfg.Backend)
	}
}

// NopStore discards every record.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error           { return nil }
func (NopStore) Query(context.Context, Query) ([]Record, error) { return nil, nil }
func (NopStore) Close() error                                   { return nil }
