package table

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ehr/riskdash/internal/domain/patient"
)

func TestController_CachesPerSnapshotAndState(t *testing.T) {
	c, err := NewController(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := &patient.Snapshot{ID: uuid.New(), Patients: fixture()}

	first := c.View(snap, DefaultState())
	second := c.View(snap, DefaultState())
	if c.Len() != 1 {
		t.Errorf("expected 1 cached view, got %d", c.Len())
	}
	if !equalIDs(ids(first), ids(second)) {
		t.Error("expected identical views for identical state")
	}

	s := DefaultState()
	s.RiskFilter = RiskHigh
	c.View(snap, s)
	other := &patient.Snapshot{ID: uuid.New(), Patients: fixture()}
	c.View(other, DefaultState())
	if c.Len() != 3 {
		t.Errorf("expected 3 cached views, got %d", c.Len())
	}

	c.Purge()
	if c.Len() != 0 {
		t.Errorf("expected empty cache after purge, got %d", c.Len())
	}
}

func TestController_ReturnsCallerOwnedSlice(t *testing.T) {
	c, _ := NewController(0)
	snap := &patient.Snapshot{ID: uuid.New(), Patients: patient.NewSeededGenerator(1).Generate(time.Now())}

	view := c.View(snap, DefaultState())
	want := view[0].ID
	view[0] = nil

	again := c.View(snap, DefaultState())
	if again[0] == nil || again[0].ID != want {
		t.Error("mutating a returned view must not affect the cache")
	}
}
