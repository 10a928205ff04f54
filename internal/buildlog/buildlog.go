// Package buildlog keeps an append-only history of past viskumc
// invocations (entry file, build id, duration, success) in a SQLite
// database alongside the emitted artifacts. This is bookkeeping only: it
// is never read back to skip a pass, so it does not reintroduce the
// incremental-recompilation Non-goal (spec §1). Grounded on
// modernc.org/sqlite being a direct dependency of the teacher's go.mod.
package buildlog

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Log wraps a SQLite-backed build history database.
type Log struct {
	db *sql.DB
}

// Open opens (creating if needed) the build log at path.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("buildlog: open %s: %w", path, err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS builds (
	id          TEXT PRIMARY KEY,
	entry_file  TEXT NOT NULL,
	started_at  TIMESTAMP NOT NULL,
	duration_ms INTEGER NOT NULL,
	success     INTEGER NOT NULL,
	error       TEXT
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("buildlog: migrating schema: %w", err)
	}
	return &Log{db: db}, nil
}

func (l *Log) Close() error { return l.db.Close() }

// Record appends one row describing a finished compilation.
func (l *Log) Record(buildID, entryFile string, startedAt time.Time, duration time.Duration, buildErr error) error {
	var errMsg any
	success := 1
	if buildErr != nil {
		success = 0
		errMsg = buildErr.Error()
	}
	_, err := l.db.Exec(
		`INSERT INTO builds (id, entry_file, started_at, duration_ms, success, error) VALUES (?, ?, ?, ?, ?, ?)`,
		buildID, entryFile, startedAt, duration.Milliseconds(), success, errMsg,
	)
	if err != nil {
		return fmt.Errorf("buildlog: recording build %s: %w", buildID, err)
	}
	return nil
}

// Row is one past invocation, as returned by Recent.
type Row struct {
	ID         string
	EntryFile  string
	StartedAt  time.Time
	DurationMs int64
	Success    bool
	Error      string
}

// Recent returns the last limit builds, most recent first.
func (l *Log) Recent(limit int) ([]Row, error) {
	rows, err := l.db.Query(
		`SELECT id, entry_file, started_at, duration_ms, success, COALESCE(error, '') FROM builds ORDER BY started_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("buildlog: querying recent builds: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var success int
		if err := rows.Scan(&r.ID, &r.EntryFile, &r.StartedAt, &r.DurationMs, &success, &r.Error); err != nil {
			return nil, fmt.Errorf("buildlog: scanning row: %w", err)
		}
		r.Success = success != 0
		out = append(out, r)
	}
	return out, rows.Err()
}
