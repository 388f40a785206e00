package store

import (
	"context"
	"fmt"

	"basegraph.app/helpdesk/core/config"
	"basegraph.app/helpdesk/core/db"
	"basegraph.app/helpdesk/internal/model"
)

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// EscalationStore is the append-only log of tickets handed to a human.
// Append must be safe for concurrent use and never interleave two records.
type EscalationStore interface {
	Append(ctx context.Context, rec model.EscalationRecord) error
	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]model.EscalationRecord, error)
	Close() error
}

// NewEscalationStore opens the backend selected by cfg.Sink. database is
// only used by the postgres sink and may be nil otherwise.
func NewEscalationStore(ctx context.Context, cfg config.EscalationConfig, database *db.DB) (EscalationStore, error) {
	switch cfg.Sink {
	case "", config.SinkCSV:
		return NewCSVEscalationStore(cfg.CSVPath)
	case config.SinkSQLite:
		return NewSQLiteEscalationStore(ctx, cfg.SQLitePath)
	case config.SinkPostgres:
		if database == nil {
			return nil, fmt.Errorf("postgres escalation sink requires a database")
		}
		// Table and index land together or not at all.
		err := database.WithTx(ctx, func(q db.Querier) error {
			return NewPostgresEscalationStore(q).Migrate(ctx)
		})
		if err != nil {
			return nil, err
		}
		return NewPostgresEscalationStore(database.Pool()), nil
	default:
		return nil, fmt.Errorf("unknown escalation sink %q", cfg.Sink)
	}
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
