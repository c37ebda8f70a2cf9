// Package kpi persists daily planning KPIs.
package kpi

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	core "github.com/kilianp07/airlift/core/metrics/kpi"
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
	schema := `CREATE TABLE IF NOT EXISTS plan_kpi (
        strategy TEXT,
        day INTEGER,
        plans INTEGER,
        units INTEGER,
        distance REAL,
        rejected INTEGER,
        PRIMARY KEY(strategy, day)
    );`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Add merges the record into the row of its strategy and day.
func (s *SQLiteStore) Add(r core.Record) error {
	d := core.Day(r.Date)
	_, err := s.db.Exec(`INSERT INTO plan_kpi (strategy, day, plans, units, distance, rejected)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(strategy, day) DO UPDATE SET
            plans = plans + excluded.plans,
            units = units + excluded.units,
            distance = distance + excluded.distance,
            rejected = rejected + excluded.rejected`,
		r.Strategy, d.Unix(), r.Plans, r.UnitsDelivered, r.Distance, r.Rejected)
	return err
}

// Query returns the records of strategy in the range [start,end].
func (s *SQLiteStore) Query(strategy string, start, end time.Time) ([]core.Record, error) {
	start = core.Day(start)
	end = core.Day(end)
	rows, err := s.db.Query(`SELECT strategy, day, plans, units, distance, rejected
        FROM plan_kpi WHERE strategy = ? AND day >= ? AND day <= ? ORDER BY day`,
		strategy, start.Unix(), end.Unix())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []core.Record
	for rows.Next() {
		var rec core.Record
		var ts int64
		if err := rows.Scan(&rec.Strategy, &ts, &rec.Plans, &rec.UnitsDelivered, &rec.Distance, &rec.Rejected); err != nil {
			return nil, err
		}
		rec.Date = time.Unix(ts, 0).UTC()
		res = append(res, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
