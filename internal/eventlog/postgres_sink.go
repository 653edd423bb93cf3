package eventlog

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/swarmkernel/kernel/internal/canonical"
	"github.com/swarmkernel/kernel/internal/models"
)

// PostgresSink mirrors each event into a swarm_events table. It is a
// durability mirror for cross-run querying, never the log's source of
// truth — wrap it in BestEffort before handing it to eventlog.New.
type PostgresSink struct {
	db *sql.DB
}

// NewPostgresSink wraps an already-open *sql.DB. The caller owns the
// connection pool's lifecycle beyond Close, which here is a no-op: the
// pool may be shared with other mirrors.
func NewPostgresSink(db *sql.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

// EnsureSchema creates the swarm_events table if it does not already
// exist. Callers invoke this once at startup when the Postgres mirror is
// enabled.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS swarm_events (
			seq BIGINT PRIMARY KEY,
			timestamp_logical BIGINT NOT NULL,
			epoch INTEGER NOT NULL,
			step INTEGER NOT NULL,
			type TEXT NOT NULL,
			payload JSONB NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("eventlog: ensure schema: %w", err)
	}
	return nil
}

func (p *PostgresSink) Write(ctx context.Context, ev models.Event) error {
	payloadJSON, err := canonical.Marshal(ev.Payload)
	if err != nil {
		return fmt.Errorf("eventlog: canonicalize payload for postgres: %w", err)
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO swarm_events (seq, timestamp_logical, epoch, step, type, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (seq) DO NOTHING`,
		ev.Seq, ev.TimestampLogical, ev.Epoch, ev.Step, string(ev.Type), payloadJSON)
	if err != nil {
		return fmt.Errorf("eventlog: postgres insert seq %d: %w", ev.Seq, err)
	}
	return nil
}

func (p *PostgresSink) Close() error {
	return nil
}
