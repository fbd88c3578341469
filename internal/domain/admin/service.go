package admin

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ehr/riskdash/internal/domain/patient"
)

// SnapshotSource is the view of the cohort the data overview reads.
type SnapshotSource interface {
	Current() *patient.Snapshot
	ListSnapshots(ctx context.Context, limit, offset int) ([]*patient.SnapshotSummary, int, error)
}

type Service struct {
	users     UserRepository
	snapshots SnapshotSource

	mu       sync.RWMutex
	settings Settings
}

func NewService(users UserRepository, snapshots SnapshotSource) *Service {
	return &Service{users: users, snapshots: snapshots, settings: DefaultSettings()}
}

// -- Users --

func (s *Service) CreateUser(ctx context.Context, user *User) error {
	if user.Status == "" {
		user.Status = UserActive
	}
	if err := user.Validate(); err != nil {
		return err
	}
	return s.users.Create(ctx, user)
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) UpdateUser(ctx context.Context, user *User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	return s.users.Update(ctx, user)
}

func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.users.Delete(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.users.List(ctx, limit, offset)
}

// -- Settings --

func (s *Service) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// UpdateSettings validates and stores next. Model tier cutoffs in next are
// ignored.
func (s *Service) UpdateSettings(next Settings) (Settings, error) {
	next.Model = modelSettings(next.Model.AutoUpdate)
	if err := next.Validate(); err != nil {
		return Settings{}, err
	}
	s.mu.Lock()
	s.settings = next
	s.mu.Unlock()
	return next, nil
}

// -- Data --

func (s *Service) DataOverview(ctx context.Context) (*DataOverview, error) {
	out := &DataOverview{}
	if cur := s.snapshots.Current(); cur != nil {
		id, at := cur.ID, cur.GeneratedAt
		out.PatientRecords = len(cur.Patients)
		out.SnapshotID = &id
		out.Seed = cur.Seed
		out.GeneratedAt = &at
	}
	_, total, err := s.snapshots.ListSnapshots(ctx, 1, 0)
	if err != nil {
		return nil, fmt.Errorf("count snapshots: %w", err)
	}
	out.StoredSnapshots = total
	return out, nil
}
