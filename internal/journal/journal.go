// Package journal records tool runs in a local SQLite database so the
// history command can show what ran, when, and how it ended.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Run statuses stored in the status column.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Run is one recorded tool invocation.
type Run struct {
	ID         string
	Tool       string
	StartedAt  time.Time
	FinishedAt sql.NullTime
	Status     string
	Error      sql.NullString
	Detail     sql.NullString
}

// Journal stores runs in SQLite (modernc.org/sqlite driver, CGO-free).
type Journal struct {
	db *sql.DB
}

// Open opens the journal database.
// DSN format:
//   - "sqlite:///path/to/file.db"
//   - "sqlite://:memory:"
//   - "/path/to/file.db" (without prefix)
//   - ":memory:" (in-memory database)
func Open(dsn string) (*Journal, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("empty journal DSN")
	}
	if strings.HasPrefix(strings.ToLower(dsn), "sqlite://") {
		dsn = strings.TrimPrefix(dsn, "sqlite://")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// busy timeout helps with short concurrent locks
	_, _ = db.Exec("PRAGMA busy_timeout=3000;")

	j := &Journal{db: db}
	if err := j.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tool_runs(
			id TEXT PRIMARY KEY,
			tool TEXT NOT NULL,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP NULL,
			status TEXT NOT NULL,
			error TEXT NULL,
			detail TEXT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tool_runs_tool ON tool_runs(tool);`,
		`CREATE INDEX IF NOT EXISTS idx_tool_runs_started_at ON tool_runs(started_at);`,
	}
	for _, q := range stmts {
		if _, err := j.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (j *Journal) Close() error { return j.db.Close() }

// Append inserts a run, or updates its terminal fields when the id is
// already present. A run is appended once when it starts and once more
// when it finishes.
func (j *Journal) Append(ctx context.Context, r Run) error {
	if r.ID == "" {
		return errors.New("run id required")
	}
	if r.Status == "" {
		r.Status = StatusOK
	}
	var finishedAt any
	if r.FinishedAt.Valid {
		finishedAt = r.FinishedAt.Time.UTC()
	}
	var runErr any
	if r.Error.Valid {
		runErr = r.Error.String
	}
	var detail any
	if r.Detail.Valid {
		detail = r.Detail.String
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO tool_runs(id, tool, started_at, finished_at, status, error, detail)
		VALUES(?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			finished_at=excluded.finished_at,
			status=excluded.status,
			error=excluded.error,
			detail=excluded.detail;`,
		r.ID, r.Tool, r.StartedAt.UTC(), finishedAt, r.Status, runErr, detail)
	return err
}

// Recent returns the newest runs, optionally filtered by tool name.
func (j *Journal) Recent(ctx context.Context, tool string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, tool, started_at, finished_at, status, error, detail
		FROM tool_runs`
	args := []any{}
	if tool != "" {
		query += ` WHERE tool=?`
		args = append(args, tool)
	}
	query += `
		ORDER BY started_at DESC
		LIMIT ?;`
	args = append(args, limit)

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanRuns(rows)
}

// PurgeOlderThan removes finished runs that started before the cutoff
// and reports how many were deleted.
func (j *Journal) PurgeOlderThan(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := j.db.ExecContext(ctx,
		`DELETE FROM tool_runs WHERE finished_at IS NOT NULL AND started_at < ?;`,
		olderThan.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	out := make([]Run, 0)
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Tool, &r.StartedAt, &r.FinishedAt, &r.Status, &r.Error, &r.Detail); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
