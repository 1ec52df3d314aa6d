package repository

import (
	"context"
	"time"

	"github.com/ilindan-dev/alertgate/internal/domain/model"
)

// DedupStore tracks recently-sent message fingerprints. It is the only
// state shared between concurrent Manager invocations, so implementations
// must make CheckAndRecord atomic per fingerprint: two near-simultaneous
// identical requests must never both observe "allow".
type DedupStore interface {
	// CheckAndRecord returns true when the fingerprint has not been seen
	// within the dedup window, recording it in the same step.
	CheckAndRecord(ctx context.Context, fingerprint string, now time.Time) (bool, error)

	// Record unconditionally marks the fingerprint as sent. Used by forced
	// requests, which bypass the check but still arm suppression for
	// subsequent duplicates.
	Record(ctx context.Context, fingerprint string, now time.Time) error
}

// HistoryRepository persists the per-channel outcome of a dispatch for
// auditing. Implementations are write-only; delivery never depends on a
// stored record.
type HistoryRepository interface {
	RecordDispatch(ctx context.Context, req *model.Request, res model.AggregateResult) error
}
