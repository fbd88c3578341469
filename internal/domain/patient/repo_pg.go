package patient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// -- Snapshot Repository --

type snapshotRepoPG struct {
	db querier
}

// NewSnapshotRepo stores snapshots in the cohort_snapshot table. Patients
// are kept as a single JSONB document per snapshot.
func NewSnapshotRepo(pool *pgxpool.Pool) SnapshotRepository {
	return &snapshotRepoPG{db: pool}
}

func (r *snapshotRepoPG) Save(ctx context.Context, s *Snapshot) error {
	doc, err := json.Marshal(s.Patients)
	if err != nil {
		return fmt.Errorf("encode snapshot patients: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO cohort_snapshot (id, seed, size, generated_at, patients)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`,
		s.ID, s.Seed, len(s.Patients), s.GeneratedAt, doc)
	if err != nil {
		return fmt.Errorf("insert snapshot %s: %w", s.ID, err)
	}
	return nil
}

func (r *snapshotRepoPG) Get(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	s := &Snapshot{}
	var doc []byte
	err := r.db.QueryRow(ctx, `
		SELECT id, seed, generated_at, patients
		FROM cohort_snapshot WHERE id = $1`, id).
		Scan(&s.ID, &s.Seed, &s.GeneratedAt, &doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select snapshot %s: %w", id, err)
	}
	if err := json.Unmarshal(doc, &s.Patients); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", id, err)
	}
	return s, nil
}

func (r *snapshotRepoPG) List(ctx context.Context, limit, offset int) ([]*SnapshotSummary, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM cohort_snapshot`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count snapshots: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, seed, generated_at, size
		FROM cohort_snapshot
		ORDER BY generated_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	out := []*SnapshotSummary{}
	for rows.Next() {
		s := &SnapshotSummary{}
		if err := rows.Scan(&s.ID, &s.Seed, &s.GeneratedAt, &s.Size); err != nil {
			return nil, 0, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate snapshots: %w", err)
	}
	return out, total, nil
}
