package cohort

import (
	"math"
	"sort"
	"time"

	"github.com/ehr/riskdash/internal/domain/patient"
)

const (
	// TopConditionsLimit caps the condition ranking.
	TopConditionsLimit = 5

	// RecentVisitWindow is the look-back used for NewPatientsThisMonth.
	RecentVisitWindow = 30 * 24 * time.Hour
)

// Stats summarizes a patient collection.
type Stats struct {
	TotalPatients        int              `json:"totalPatients"`
	HighRisk             int              `json:"highRisk"`
	MediumRisk           int              `json:"mediumRisk"`
	LowRisk              int              `json:"lowRisk"`
	AverageRiskScore     int              `json:"averageRiskScore"`
	NewPatientsThisMonth int              `json:"newPatientsThisMonth"`
	CriticalPatients     int              `json:"criticalPatients"`
	AverageAge           int              `json:"averageAge"`
	TopConditions        []ConditionCount `json:"topConditions"`
}

type ConditionCount struct {
	Condition  string `json:"condition"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// Aggregate reduces patients into Stats as of now. Tiers are read from the
// stored RiskLevel, never recomputed. An empty input yields all zeros.
// Conditions with equal counts are ranked alphabetically.
func Aggregate(patients []*patient.Patient, now time.Time) Stats {
	stats := Stats{
		TotalPatients: len(patients),
		TopConditions: []ConditionCount{},
	}
	if len(patients) == 0 {
		return stats
	}

	cutoff := now.Add(-RecentVisitWindow)
	var scoreSum, ageSum int
	counts := map[string]int{}

	for _, p := range patients {
		switch p.RiskLevel {
		case patient.RiskHigh:
			stats.HighRisk++
		case patient.RiskMedium:
			stats.MediumRisk++
		case patient.RiskLow:
			stats.LowRisk++
		}
		if p.Status == patient.StatusCritical {
			stats.CriticalPatients++
		}
		if !p.LastVisit.Before(cutoff) {
			stats.NewPatientsThisMonth++
		}
		scoreSum += p.RiskScore
		ageSum += p.Age
		for _, c := range p.Conditions {
			counts[c]++
		}
	}

	n := float64(len(patients))
	stats.AverageRiskScore = int(math.Round(float64(scoreSum) / n))
	stats.AverageAge = int(math.Round(float64(ageSum) / n))
	stats.TopConditions = topConditions(counts, len(patients))
	return stats
}

func topConditions(counts map[string]int, total int) []ConditionCount {
	ranked := make([]ConditionCount, 0, len(counts))
	for c, n := range counts {
		ranked = append(ranked, ConditionCount{
			Condition:  c,
			Count:      n,
			Percentage: int(math.Round(100 * float64(n) / float64(total))),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Condition < ranked[j].Condition
	})
	if len(ranked) > TopConditionsLimit {
		ranked = ranked[:TopConditionsLimit]
	}
	return ranked
}
