package notify

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// History persists shown alerts to SQLite so terminal events survive the
// session that observed them.
type History struct {
	db *sql.DB
}

// Entry is a persisted alert.
type Entry struct {
	ID          int64
	JobID       string
	Kind        string
	Severity    Severity
	Title       string
	Description string
	OccurredAt  time.Time
}

const historySchema = `
CREATE TABLE IF NOT EXISTS alerts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	job_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	severity TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	occurred_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_alerts_occurred_at ON alerts(occurred_at);
`

// OpenHistory opens (and if needed initializes) the history database at
// path.
func OpenHistory(path string) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(historySchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &History{db: db}, nil
}

// Close releases the underlying database.
func (h *History) Close() error {
	return h.db.Close()
}

// Record persists one shown alert and returns its ID.
func (h *History) Record(jobID, kind string, alert Alert) (int64, error) {
	result, err := h.db.Exec(`
		INSERT INTO alerts (job_id, kind, severity, title, description, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		jobID, kind, string(alert.Severity), alert.Title, alert.Description, time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert alert: %w", err)
	}
	return result.LastInsertId()
}

// Recent returns up to limit alerts, newest first.
func (h *History) Recent(limit int) ([]Entry, error) {
	rows, err := h.db.Query(`
		SELECT id, job_id, kind, severity, title, description, occurred_at
		FROM alerts
		ORDER BY id DESC
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var severity string
		if err := rows.Scan(&e.ID, &e.JobID, &e.Kind, &severity, &e.Title, &e.Description, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		e.Severity = Severity(severity)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}
	return entries, nil
}

// Prune removes alerts older than the given duration and reports how many
// were deleted.
func (h *History) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	result, err := h.db.Exec(`DELETE FROM alerts WHERE occurred_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune alerts: %w", err)
	}
	return result.RowsAffected()
}
