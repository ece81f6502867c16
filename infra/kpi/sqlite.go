package kpi

import (
	"database/sql"
	"time"

	core "github.com/kilianp07/fleetquote/core/metrics/kpi"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists KPI records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	schema := `CREATE TABLE IF NOT EXISTS quote_kpi (
        vehicle_id TEXT,
        day INTEGER,
        quotes INTEGER,
        distance_km REAL,
        revenue REAL,
        minimum_applied INTEGER,
        oversize INTEGER,
        PRIMARY KEY(vehicle_id, day)
    );`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Add inserts or updates the KPI record.
func (s *SQLiteStore) Add(r core.Record) error {
	if r.VehicleID == "" {
		return core.ErrMissingVehicle
	}
	d := core.Day(r.Date)
	_, err := s.db.Exec(`INSERT INTO quote_kpi (vehicle_id, day, quotes, distance_km, revenue, minimum_applied, oversize)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(vehicle_id, day) DO UPDATE SET
            quotes = quotes + excluded.quotes,
            distance_km = distance_km + excluded.distance_km,
            revenue = revenue + excluded.revenue,
            minimum_applied = minimum_applied + excluded.minimum_applied,
            oversize = oversize + excluded.oversize`,
		r.VehicleID, d.Unix(), r.Quotes, r.DistanceKm, r.Revenue, r.MinimumApplied, r.Oversize)
	return err
}

// Query returns records in the range [start,end].
func (s *SQLiteStore) Query(vehicleID string, start, end time.Time) ([]core.Record, error) {
	start = core.Day(start)
	end = core.Day(end)
	rows, err := s.db.Query(`SELECT vehicle_id, day, quotes, distance_km, revenue, minimum_applied, oversize
        FROM quote_kpi WHERE vehicle_id = ? AND day >= ? AND day <= ? ORDER BY day`,
		vehicleID, start.Unix(), end.Unix())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []core.Record
	for rows.Next() {
		var r core.Record
		var ts int64
		if err := rows.Scan(&r.VehicleID, &ts, &r.Quotes, &r.DistanceKm, &r.Revenue, &r.MinimumApplied, &r.Oversize); err != nil {
			return nil, err
		}
		r.Date = time.Unix(ts, 0).UTC()
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Open returns a SQLite store for path, or an in-memory store when path is
// empty.
func Open(path string) (core.Store, error) {
	if path == "" {
		return core.NewMemoryStore(), nil
	}
	return NewSQLiteStore(path)
}
