package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"StaffBot/model"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

var schemas = map[string]string{
	"sqlite": `
	CREATE TABLE IF NOT EXISTS workers (
		seq          INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id      INTEGER NOT NULL UNIQUE,
		first_name   TEXT    NOT NULL,
		last_name    TEXT    NOT NULL,
		phone_number TEXT    NOT NULL
	);`,
	"postgres": `
	CREATE TABLE IF NOT EXISTS workers (
		seq          BIGSERIAL PRIMARY KEY,
		user_id      BIGINT NOT NULL UNIQUE,
		first_name   TEXT   NOT NULL,
		last_name    TEXT   NOT NULL,
		phone_number TEXT   NOT NULL
	);`,
}

// SQLBackend stores one row per worker. seq keeps first-registration order
// across re-registrations.
type SQLBackend struct {
	db     *sql.DB
	driver string
}

// OpenSQLBackend connects with driver "sqlite" (modernc.org/sqlite) or
// "postgres" (lib/pq) and creates the schema.
func OpenSQLBackend(ctx context.Context, driver, dsn string) (*SQLBackend, error) {
	schema, ok := schemas[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	if driver == "sqlite" {
		// WAL and a busy timeout avoid "database is locked" under concurrency
		for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("sqlite %q: %w", pragma, err)
			}
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", driver, err)
	}
	return &SQLBackend{db: db, driver: driver}, nil
}

func (s *SQLBackend) Load(ctx context.Context) ([]model.Worker, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, first_name, last_name, phone_number FROM workers ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query workers: %w", err)
	}
	defer rows.Close()

	var workers []model.Worker
	for rows.Next() {
		var w model.Worker
		if err := rows.Scan(&w.UserID, &w.FirstName, &w.LastName, &w.PhoneNumber); err != nil {
			return nil, fmt.Errorf("scan worker: %w", err)
		}
		workers = append(workers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workers: %w", err)
	}
	return workers, nil
}

// Save upserts only the changed row; every other row is already durable.
func (s *SQLBackend) Save(ctx context.Context, all []model.Worker, changed model.Worker) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, s.rebind(`
		INSERT INTO workers (user_id, first_name, last_name, phone_number)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			first_name   = excluded.first_name,
			last_name    = excluded.last_name,
			phone_number = excluded.phone_number`),
		changed.UserID, changed.FirstName, changed.LastName, changed.PhoneNumber)
	if err != nil {
		return fmt.Errorf("upsert worker %d: %w", changed.UserID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit worker %d: %w", changed.UserID, err)
	}
	return nil
}

func (s *SQLBackend) Close() error {
	return s.db.Close()
}

// rebind turns ? placeholders into $n for postgres.
func (s *SQLBackend) rebind(query string) string {
	if s.driver != "postgres" {
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
