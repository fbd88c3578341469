package patient

import (
	"context"

	"github.com/google/uuid"
)

// SnapshotRepository persists generated cohorts.
type SnapshotRepository interface {
	Save(ctx context.Context, s *Snapshot) error
	Get(ctx context.Context, id uuid.UUID) (*Snapshot, error)
	List(ctx context.Context, limit, offset int) ([]*SnapshotSummary, int, error)
}
