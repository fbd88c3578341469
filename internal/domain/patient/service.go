package patient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service owns the current cohort snapshot. Reads see a whole snapshot;
// regeneration swaps it atomically.
type Service struct {
	repo   SnapshotRepository
	size   int
	logger zerolog.Logger
	now    func() time.Time

	// regen serializes Regenerate so observers see snapshots in the order
	// they become current.
	regen sync.Mutex

	mu        sync.RWMutex
	current   *Snapshot
	observers []func(*Snapshot)
}

func NewService(repo SnapshotRepository, size int, logger zerolog.Logger) *Service {
	if size <= 0 {
		size = DefaultCohortSize
	}
	return &Service{
		repo:   repo,
		size:   size,
		logger: logger.With().Str("component", "cohort").Logger(),
		now:    time.Now,
	}
}

// SetClock replaces the wall clock, for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// OnGenerate registers fn to be called with every new current snapshot.
func (s *Service) OnGenerate(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Regenerate builds a new cohort, stores it and makes it current. A zero
// seed is replaced by one derived from the clock.
func (s *Service) Regenerate(ctx context.Context, seed int64) (*Snapshot, error) {
	s.regen.Lock()
	defer s.regen.Unlock()

	now := s.now()
	if seed == 0 {
		seed = now.UnixNano()
	}

	start := time.Now()
	gen := NewSeededGenerator(seed).WithSize(s.size)
	snap := &Snapshot{
		ID:          uuid.New(),
		Seed:        seed,
		GeneratedAt: now,
		Patients:    gen.Generate(now),
	}

	if err := s.repo.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	s.mu.Lock()
	s.current = snap
	observers := append([]func(*Snapshot){}, s.observers...)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}

	s.logger.Info().
		Str("snapshot_id", snap.ID.String()).
		Int64("seed", seed).
		Int("size", len(snap.Patients)).
		Dur("took", time.Since(start)).
		Msg("cohort generated")

	return snap, nil
}

// Current returns the current snapshot, or nil before the first Regenerate.
func (s *Service) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// FindByID looks a patient up in the current snapshot.
func (s *Service) FindByID(id string) (*Patient, error) {
	snap := s.Current()
	if snap == nil {
		return nil, ErrPatientNotFound
	}
	return snap.Find(id)
}

// Snapshot returns a stored snapshot by id.
func (s *Service) Snapshot(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	if cur := s.Current(); cur != nil && cur.ID == id {
		return cur, nil
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) ListSnapshots(ctx context.Context, limit, offset int) ([]*SnapshotSummary, int, error) {
	return s.repo.List(ctx, limit, offset)
}
