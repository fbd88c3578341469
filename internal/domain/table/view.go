package table

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ehr/riskdash/internal/domain/patient"
)

type SortField string

const (
	SortByName      SortField = "name"
	SortByRiskScore SortField = "riskScore"
	SortByAge       SortField = "age"
	SortByLastVisit SortField = "lastVisit"
	SortByStatus    SortField = "status"
)

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

type RiskFilter string

const (
	RiskAll    RiskFilter = "all"
	RiskHigh   RiskFilter = "high"
	RiskMedium RiskFilter = "medium"
	RiskLow    RiskFilter = "low"
)

var (
	ErrInvalidSortField     = errors.New("invalid sort field")
	ErrInvalidSortDirection = errors.New("invalid sort direction")
	ErrInvalidRiskFilter    = errors.New("invalid risk filter")
)

// State is the user-controlled table state.
type State struct {
	SortField     SortField     `json:"sortField"`
	SortDirection SortDirection `json:"sortDirection"`
	SearchTerm    string        `json:"searchTerm"`
	RiskFilter    RiskFilter    `json:"riskFilter"`
}

// DefaultState sorts by descending risk with no filter.
func DefaultState() State {
	return State{
		SortField:     SortByRiskScore,
		SortDirection: Descending,
		RiskFilter:    RiskAll,
	}
}

// ToggleSort flips the direction when field is already the sort field and
// otherwise switches to field ascending.
func (s State) ToggleSort(field SortField) State {
	if s.SortField == field {
		if s.SortDirection == Ascending {
			s.SortDirection = Descending
		} else {
			s.SortDirection = Ascending
		}
		return s
	}
	s.SortField = field
	s.SortDirection = Ascending
	return s
}

func (s State) Validate() error {
	switch s.SortField {
	case SortByName, SortByRiskScore, SortByAge, SortByLastVisit, SortByStatus:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSortField, s.SortField)
	}
	switch s.SortDirection {
	case Ascending, Descending:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSortDirection, s.SortDirection)
	}
	switch s.RiskFilter {
	case RiskAll, RiskHigh, RiskMedium, RiskLow:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRiskFilter, s.RiskFilter)
	}
	return nil
}

// ParseState builds a State from raw query values. Empty values keep the
// defaults.
func ParseState(sortField, direction, search, risk string) (State, error) {
	s := DefaultState()
	if sortField != "" {
		s.SortField = SortField(sortField)
	}
	if direction != "" {
		s.SortDirection = SortDirection(strings.ToLower(direction))
	}
	if risk != "" {
		s.RiskFilter = RiskFilter(strings.ToLower(risk))
	}
	s.SearchTerm = search
	return s, s.Validate()
}

// Apply filters and sorts patients for display. The input slice is never
// modified; equal keys keep their input order.
func Apply(patients []*patient.Patient, s State) []*patient.Patient {
	term := strings.ToLower(s.SearchTerm)
	out := make([]*patient.Patient, 0, len(patients))
	for _, p := range patients {
		if matchesSearch(p, term) && matchesRisk(p, s.RiskFilter) {
			out = append(out, p)
		}
	}

	cmp := comparator(s.SortField)
	if cmp == nil {
		return out
	}
	sign := 1
	if s.SortDirection == Descending {
		sign = -1
	}
	sort.SliceStable(out, func(i, j int) bool {
		return sign*cmp(out[i], out[j]) < 0
	})
	return out
}

func matchesSearch(p *patient.Patient, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.MRN), term)
}

func matchesRisk(p *patient.Patient, f RiskFilter) bool {
	switch f {
	case RiskHigh:
		return p.RiskLevel == patient.RiskHigh
	case RiskMedium:
		return p.RiskLevel == patient.RiskMedium
	case RiskLow:
		return p.RiskLevel == patient.RiskLow
	default:
		return true
	}
}

func comparator(f SortField) func(a, b *patient.Patient) int {
	switch f {
	case SortByName:
		return func(a, b *patient.Patient) int { return strings.Compare(a.Name, b.Name) }
	case SortByRiskScore:
		return func(a, b *patient.Patient) int { return a.RiskScore - b.RiskScore }
	case SortByAge:
		return func(a, b *patient.Patient) int { return a.Age - b.Age }
	case SortByLastVisit:
		return func(a, b *patient.Patient) int { return a.LastVisit.Compare(b.LastVisit.Time) }
	case SortByStatus:
		return func(a, b *patient.Patient) int { return strings.Compare(string(a.Status), string(b.Status)) }
	}
	return nil
}
