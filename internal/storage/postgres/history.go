package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ilindan-dev/alertgate/internal/domain/model"
	repo "github.com/ilindan-dev/alertgate/internal/domain/repository"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Ensure HistoryRepository implements the interface
var _ repo.HistoryRepository = (*HistoryRepository)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS delivery_history (
    request_id uuid        NOT NULL,
    event      text        NOT NULL,
    level      text        NOT NULL,
    channel    text        NOT NULL,
    status     text        NOT NULL,
    reason     text        NOT NULL DEFAULT '',
    error      text        NOT NULL DEFAULT '',
    created_at timestamptz NOT NULL DEFAULT now(),
    PRIMARY KEY (request_id, channel)
)`

const insertHistory = `
INSERT INTO delivery_history (request_id, event, level, channel, status, reason, error)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

// HistoryRepository implements the repository.HistoryRepository interface
// using PostgreSQL as a backend. One row is written per channel outcome;
// suppressed and skipped requests get a single row with an empty channel.
type HistoryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewHistoryRepository creates a new instance and ensures the table exists.
func NewHistoryRepository(ctx context.Context, pool *pgxpool.Pool, logger *zerolog.Logger) (*HistoryRepository, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("postgres: cannot ensure delivery_history schema: %w", err)
	}
	return &HistoryRepository{
		pool:   pool,
		logger: logger.With().Str("layer", "postgres_history").Logger(),
	}, nil
}

// RecordDispatch persists the outcome of one Manager.Send call. Rewrites
// of the same request id are ignored, so retried audit writes stay
// idempotent.
func (r *HistoryRepository) RecordDispatch(ctx context.Context, req *model.Request, res model.AggregateResult) error {
	batch := &pgx.Batch{}
	if len(res.Channels) == 0 {
		batch.Queue(insertHistory, req.ID, req.Event, string(req.Level), "", string(res.Outcome), res.Reason, "")
	}
	for _, cr := range res.Channels {
		batch.Queue(insertHistory, req.ID, req.Event, string(req.Level), string(cr.Channel), string(cr.Status), cr.Reason, cr.Error)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				r.logger.Warn().Stringer("request_id", req.ID).Msg("history row already recorded, skipping")
				continue
			}
			r.logger.Err(err).Stringer("request_id", req.ID).Msg("cannot record delivery history")
			return fmt.Errorf("postgres: RecordDispatch failed: %w", err)
		}
	}
	return nil
}
