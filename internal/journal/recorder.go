package journal

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Recorder is a best-effort front for the journal. Every method is safe
// on a nil receiver and never returns an error: a tool run must not fail
// because its bookkeeping did.
type Recorder struct {
	journal *Journal
	log     *slog.Logger
}

// NewRecorder opens the journal at dsn. When the database cannot be
// opened the recorder still works, it just records nothing.
func NewRecorder(dsn string, log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.Default()
	}
	j, err := Open(dsn)
	if err != nil {
		log.Warn("journal disabled", "dsn", dsn, "error", err)
		return &Recorder{log: log}
	}
	return &Recorder{journal: j, log: log}
}

// Begin records the start of a tool run and returns its entry.
func (r *Recorder) Begin(ctx context.Context, tool string) *Entry {
	e := &Entry{recorder: r, run: Run{
		ID:        uuid.NewString(),
		Tool:      tool,
		StartedAt: time.Now().UTC(),
		Status:    StatusOK,
	}}
	if r == nil || r.journal == nil {
		return e
	}
	if err := r.journal.Append(ctx, e.run); err != nil {
		r.log.Warn("journal append failed", "tool", tool, "error", err)
	}
	return e
}

// Close releases the underlying database.
func (r *Recorder) Close() {
	if r == nil || r.journal == nil {
		return
	}
	if err := r.journal.Close(); err != nil {
		r.log.Warn("journal close failed", "error", err)
	}
}

// Entry is an in-flight run produced by Begin.
type Entry struct {
	recorder *Recorder
	run      Run
}

// ID returns the run id, empty only on a nil entry.
func (e *Entry) ID() string {
	if e == nil {
		return ""
	}
	return e.run.ID
}

// Finish records the run outcome. detail is a short human summary such
// as "147 sparks"; err marks the run failed when non-nil.
func (e *Entry) Finish(ctx context.Context, detail string, err error) {
	if e == nil || e.recorder == nil || e.recorder.journal == nil {
		return
	}
	e.run.FinishedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	if detail != "" {
		e.run.Detail = sql.NullString{String: detail, Valid: true}
	}
	if err != nil {
		e.run.Status = StatusError
		e.run.Error = sql.NullString{String: err.Error(), Valid: true}
	}
	if appendErr := e.recorder.journal.Append(ctx, e.run); appendErr != nil {
		e.recorder.log.Warn("journal append failed", "tool", e.run.Tool, "error", appendErr)
	}
}
