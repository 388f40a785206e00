package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"basegraph.app/helpdesk/common/id"
	"basegraph.app/helpdesk/core/db"
	"basegraph.app/helpdesk/internal/model"
)

const postgresEscalationsSchema = `
CREATE TABLE IF NOT EXISTS escalations (
	id                BIGINT PRIMARY KEY,
	ticket_id         BIGINT NOT NULL,
	subject           TEXT NOT NULL,
	description       TEXT NOT NULL,
	category          TEXT NOT NULL DEFAULT '',
	draft             TEXT NOT NULL,
	feedback          TEXT NOT NULL,
	escalation_reason TEXT NOT NULL,
	attempt           INTEGER NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS escalations_created_at_idx ON escalations (created_at DESC);
`

type PostgresEscalationStore struct {
	q db.Querier
}

func NewPostgresEscalationStore(q db.Querier) *PostgresEscalationStore {
	return &PostgresEscalationStore{q: q}
}

// Migrate creates the escalations table if it does not exist.
func (s *PostgresEscalationStore) Migrate(ctx context.Context) error {
	if _, err := s.q.Exec(ctx, postgresEscalationsSchema); err != nil {
		return fmt.Errorf("migrating escalations table: %w", err)
	}
	return nil
}

func (s *PostgresEscalationStore) Append(ctx context.Context, rec model.EscalationRecord) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO escalations
			(id, ticket_id, subject, description, category, draft, feedback, escalation_reason, attempt, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id.New(),
		rec.TicketID,
		rec.Subject,
		rec.Description,
		string(rec.Category),
		model.OrNA(rec.Draft),
		model.OrNA(rec.Feedback),
		rec.EscalationReason,
		rec.Attempt,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting escalation: %w", err)
	}
	return nil
}

func (s *PostgresEscalationStore) List(ctx context.Context, limit int) ([]model.EscalationRecord, error) {
	rows, err := s.q.Query(ctx, `
		SELECT ticket_id, subject, description, category, draft, feedback, escalation_reason, attempt, created_at
		FROM escalations
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing escalations: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.EscalationRecord, error) {
		var rec model.EscalationRecord
		var category string
		err := row.Scan(
			&rec.TicketID,
			&rec.Subject,
			&rec.Description,
			&category,
			&rec.Draft,
			&rec.Feedback,
			&rec.EscalationReason,
			&rec.Attempt,
			&rec.CreatedAt,
		)
		rec.Category = model.Category(category)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning escalations: %w", err)
	}
	return records, nil
}

// Close is a no-op; the pool belongs to the caller.
func (s *PostgresEscalationStore) Close() error {
	return nil
}
