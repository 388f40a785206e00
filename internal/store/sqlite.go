package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"basegraph.app/helpdesk/internal/model"
)

const sqliteEscalationsSchema = `
CREATE TABLE IF NOT EXISTS escalations (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	ticket_id         INTEGER NOT NULL,
	subject           TEXT NOT NULL,
	description       TEXT NOT NULL,
	category          TEXT NOT NULL DEFAULT '',
	draft             TEXT NOT NULL,
	feedback          TEXT NOT NULL,
	escalation_reason TEXT NOT NULL,
	attempt           INTEGER NOT NULL,
	created_at        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS escalations_created_at_idx ON escalations (created_at DESC);
`

// SQLiteEscalationStore keeps escalations in a local SQLite file, for
// single-node deployments that want queryable history without Postgres.
type SQLiteEscalationStore struct {
	db *sql.DB
}

func NewSQLiteEscalationStore(ctx context.Context, path string) (*SQLiteEscalationStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating sqlite dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// One writer at a time; appends are serialized by the pool.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite pragma %q: %w", p, err)
		}
	}
	if _, err := db.ExecContext(ctx, sqliteEscalationsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating sqlite escalations: %w", err)
	}

	return &SQLiteEscalationStore{db: db}, nil
}

func (s *SQLiteEscalationStore) Append(ctx context.Context, rec model.EscalationRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO escalations
			(ticket_id, subject, description, category, draft, feedback, escalation_reason, attempt, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.TicketID,
		rec.Subject,
		rec.Description,
		string(rec.Category),
		model.OrNA(rec.Draft),
		model.OrNA(rec.Feedback),
		rec.EscalationReason,
		rec.Attempt,
		createdAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting escalation: %w", err)
	}
	return nil
}

func (s *SQLiteEscalationStore) List(ctx context.Context, limit int) ([]model.EscalationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ticket_id, subject, description, category, draft, feedback, escalation_reason, attempt, created_at
		FROM escalations
		ORDER BY id DESC
		LIMIT ?`, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing escalations: %w", err)
	}
	defer rows.Close()

	var records []model.EscalationRecord
	for rows.Next() {
		var rec model.EscalationRecord
		var category, createdAt string
		if err := rows.Scan(
			&rec.TicketID,
			&rec.Subject,
			&rec.Description,
			&category,
			&rec.Draft,
			&rec.Feedback,
			&rec.EscalationReason,
			&rec.Attempt,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scanning escalation: %w", err)
		}
		rec.Category = model.Category(category)
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			rec.CreatedAt = t
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating escalations: %w", err)
	}
	return records, nil
}

func (s *SQLiteEscalationStore) Close() error {
	return s.db.Close()
}
