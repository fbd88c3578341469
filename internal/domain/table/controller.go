package table

import (
	"fmt"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ehr/riskdash/internal/domain/patient"
)

// DefaultCacheSize is the number of (snapshot, state) views kept.
const DefaultCacheSize = 256

type viewKey struct {
	snapshot uuid.UUID
	state    State
}

// Controller memoizes Apply per snapshot and state. Snapshots are
// immutable, so a cached view stays valid for the snapshot's lifetime.
type Controller struct {
	cache *lru.Cache[viewKey, []*patient.Patient]
}

func NewController(size int) (*Controller, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[viewKey, []*patient.Patient](size)
	if err != nil {
		return nil, fmt.Errorf("create view cache: %w", err)
	}
	return &Controller{cache: cache}, nil
}

// View returns the filtered and sorted patients of snap for state. The
// returned slice is owned by the caller.
func (c *Controller) View(snap *patient.Snapshot, state State) []*patient.Patient {
	key := viewKey{snapshot: snap.ID, state: state}
	rows, ok := c.cache.Get(key)
	if !ok {
		rows = Apply(snap.Patients, state)
		c.cache.Add(key, rows)
	}
	out := make([]*patient.Patient, len(rows))
	copy(out, rows)
	return out
}

// Len reports the number of cached views.
func (c *Controller) Len() int {
	return c.cache.Len()
}

// Purge drops every cached view.
func (c *Controller) Purge() {
	c.cache.Purge()
}
