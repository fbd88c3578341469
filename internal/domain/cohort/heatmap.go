package cohort

import (
	"fmt"

	"github.com/ehr/riskdash/internal/domain/patient"
)

// Bucket is one risk-score band of the heatmap.
type Bucket struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Label    string `json:"label"`
	Count    int    `json:"count"`
	Patients []Cell `json:"patients"`
}

// Cell is the patient summary rendered inside a bucket.
type Cell struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	RiskScore  int      `json:"riskScore"`
	Age        int      `json:"age"`
	Conditions []string `json:"conditions"`
}

// HeatmapRanges are the inclusive score bands.
var HeatmapRanges = [][2]int{{0, 20}, {21, 40}, {41, 60}, {61, 80}, {81, 100}}

// Heatmap groups patients into HeatmapRanges, keeping input order per band.
func Heatmap(patients []*patient.Patient) []Bucket {
	buckets := make([]Bucket, len(HeatmapRanges))
	for i, r := range HeatmapRanges {
		buckets[i] = Bucket{
			Min:      r[0],
			Max:      r[1],
			Label:    fmt.Sprintf("%d-%d", r[0], r[1]),
			Patients: []Cell{},
		}
	}

	for _, p := range patients {
		for i := range buckets {
			b := &buckets[i]
			if p.RiskScore >= b.Min && p.RiskScore <= b.Max {
				b.Patients = append(b.Patients, Cell{
					ID:         p.ID,
					Name:       p.Name,
					RiskScore:  p.RiskScore,
					Age:        p.Age,
					Conditions: p.Conditions,
				})
				b.Count++
				break
			}
		}
	}
	return buckets
}
