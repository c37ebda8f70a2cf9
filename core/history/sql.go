package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL driver and placeholder style.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

const historySchema = `CREATE TABLE IF NOT EXISTS scenario_history (
        id TEXT PRIMARY KEY,
        saved_at BIGINT NOT NULL,
        fingerprint TEXT NOT NULL,
        name TEXT NOT NULL,
        scenario TEXT NOT NULL
    )`

const historyIndex = `CREATE INDEX IF NOT EXISTS scenario_history_saved_at ON scenario_history (saved_at)`

// SQLStore keeps the history in a SQL database, either SQLite or PostgreSQL.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	max     int
	now     func() time.Time
}

// NewSQLiteStore opens or creates the SQLite database at path.
func NewSQLiteStore(path string, maxEntries int) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite serialises writers anyway and in-memory databases only live
	// as long as their connection.
	db.SetMaxOpenConns(1)
	return newSQLStore(db, DialectSQLite, maxEntries)
}

// NewPostgresStore connects to the PostgreSQL database at url.
func NewPostgresStore(url string, maxEntries int) (*SQLStore, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("verify postgres connection: %w", err)
	}
	return newSQLStore(db, DialectPostgres, maxEntries)
}

func newSQLStore(db *sql.DB, d Dialect, maxEntries int) (*SQLStore, error) {
	for _, stmt := range []string{historySchema, historyIndex} {
		if _, err := db.Exec(stmt); err != nil {
			if cerr := db.Close(); cerr != nil {
				return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
			}
			return nil, err
		}
	}
	return &SQLStore{db: db, dialect: d, max: maxOrDefault(maxEntries), now: time.Now}, nil
}

func (s *SQLStore) Save(ctx context.Context, e Entry) (Entry, error) {
	e = prepare(e, s.now())
	sc, err := json.Marshal(e.Scenario)
	if err != nil {
		return Entry{}, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, err
	}
	defer func() { _ = tx.Rollback() }()

	fp := strconv.FormatUint(e.Fingerprint, 16)
	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM scenario_history WHERE fingerprint = ? OR id = ?`), fp, e.ID); err != nil {
		return Entry{}, err
	}
	if _, err := tx.ExecContext(ctx,
		s.rebind(`INSERT INTO scenario_history (id, saved_at, fingerprint, name, scenario) VALUES (?, ?, ?, ?, ?)`),
		e.ID, e.SavedAt.UnixNano(), fp, e.Scenario.Name, string(sc)); err != nil {
		return Entry{}, err
	}
	if _, err := tx.ExecContext(ctx,
		s.rebind(`DELETE FROM scenario_history WHERE id NOT IN (
            SELECT id FROM scenario_history ORDER BY saved_at DESC LIMIT ?)`), s.max); err != nil {
		return Entry{}, err
	}
	return e, tx.Commit()
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *SQLStore) List(ctx context.Context, q Query) ([]Entry, error) {
	var args []any
	query := `SELECT id, saved_at, fingerprint, scenario FROM scenario_history WHERE 1=1`
	if !q.Since.IsZero() {
		query += ` AND saved_at >= ?`
		args = append(args, q.Since.UnixNano())
	}
	if q.Name != "" {
		query += ` AND LOWER(name) LIKE ? ESCAPE '\'`
		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(q.Name))+"%")
	}
	query += ` ORDER BY saved_at DESC`
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []Entry
	for rows.Next() {
		var (
			e    Entry
			ts   int64
			fp   string
			data string
		)
		if err := rows.Scan(&e.ID, &ts, &fp, &data); err != nil {
			return nil, err
		}
		e.SavedAt = time.Unix(0, ts).UTC()
		if e.Fingerprint, err = strconv.ParseUint(fp, 16, 64); err != nil {
			return nil, fmt.Errorf("parse fingerprint %q: %w", fp, err)
		}
		if err := json.Unmarshal([]byte(data), &e.Scenario); err != nil {
			return nil, fmt.Errorf("unmarshal scenario: %w", err)
		}
		res = append(res, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM scenario_history WHERE id = ?`), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error { return s.db.Close() }

// rebind rewrites ? placeholders for the store dialect.
func (s *SQLStore) rebind(query string) string {
	return rebind(s.dialect, query)
}

func rebind(d Dialect, query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
