package patient

import (
	"context"
	"sort"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSnapshotRetention is how many snapshots the in-memory repository
// keeps before evicting the least recently used.
const DefaultSnapshotRetention = 20

type snapshotRepoMemory struct {
	snapshots *lru.Cache[uuid.UUID, *Snapshot]
}

// NewMemorySnapshotRepo returns a process-local snapshot repository holding
// at most retain snapshots. Non-positive values use DefaultSnapshotRetention.
func NewMemorySnapshotRepo(retain int) SnapshotRepository {
	if retain <= 0 {
		retain = DefaultSnapshotRetention
	}
	cache, _ := lru.New[uuid.UUID, *Snapshot](retain)
	return &snapshotRepoMemory{snapshots: cache}
}

func (r *snapshotRepoMemory) Save(_ context.Context, s *Snapshot) error {
	r.snapshots.Add(s.ID, s)
	return nil
}

func (r *snapshotRepoMemory) Get(_ context.Context, id uuid.UUID) (*Snapshot, error) {
	s, ok := r.snapshots.Get(id)
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return s, nil
}

// List returns summaries newest first.
func (r *snapshotRepoMemory) List(_ context.Context, limit, offset int) ([]*SnapshotSummary, int, error) {
	values := r.snapshots.Values()
	all := make([]*SnapshotSummary, 0, len(values))
	for _, s := range values {
		all = append(all, s.Summary())
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].GeneratedAt.After(all[j].GeneratedAt)
	})

	total := len(all)
	if offset >= total {
		return []*SnapshotSummary{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return all[offset:end], total, nil
}
