package patient

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
)

const (
	// DefaultCohortSize is the number of patients in a generated cohort.
	DefaultCohortSize = 50

	// HistoryMonths is how many months before the current one a trend covers.
	HistoryMonths = 6

	minAge = 30
	maxAge = 79

	day = 24 * time.Hour
)

// Generator produces synthetic patient cohorts from an explicit random
// source. A Generator is not safe for concurrent use.
type Generator struct {
	rng  *rand.Rand
	size int
}

// NewGenerator creates a generator drawing from rng.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng, size: DefaultCohortSize}
}

// NewSeededGenerator creates a generator with a fresh source seeded by seed.
func NewSeededGenerator(seed int64) *Generator {
	return NewGenerator(rand.New(rand.NewSource(seed)))
}

// WithSize overrides the cohort size. Non-positive sizes are ignored.
func (g *Generator) WithSize(n int) *Generator {
	if n > 0 {
		g.size = n
	}
	return g
}

// Size returns the number of patients Generate will return.
func (g *Generator) Size() int {
	return g.size
}

// Generate builds a cohort relative to now. Ids and MRNs are derived from
// the patient index and are unique within the result.
func (g *Generator) Generate(now time.Time) []*Patient {
	patients := make([]*Patient, 0, g.size)
	for i := 0; i < g.size; i++ {
		patients = append(patients, g.patient(i, now))
	}
	return patients
}

func (g *Generator) patient(i int, now time.Time) *Patient {
	r := g.rng
	first := pick(r, firstNames)
	last := pick(r, lastNames)
	age := minAge + r.Intn(maxAge-minAge+1)
	score := r.Intn(100)

	lastVisit := randomDate(r, now.Add(-90*day), now)

	var next *Date
	if r.Float64() > 0.3 {
		d := randomDate(r, now, now.Add(30*day))
		next = &d
	}

	p := &Patient{
		ID:              fmt.Sprintf("patient-%d", i+1),
		Name:            first + " " + last,
		Age:             age,
		Gender:          pick(r, genders),
		DateOfBirth:     NewDate(now.AddDate(-age, 0, 0)),
		MRN:             fmt.Sprintf("MRN%06d", i+1),
		RiskScore:       score,
		RiskLevel:       RiskLevelFor(score),
		Conditions:      sample(r, Conditions, 1+r.Intn(4)),
		LastVisit:       lastVisit,
		NextAppointment: next,
		Provider:        pick(r, providers),
		Status:          StatusFor(score),
		Demographics: Demographics{
			Ethnicity: pick(r, ethnicities),
			Insurance: pick(r, insurers),
			Address:   fmt.Sprintf("%d Main St, City, State 12345", r.Intn(9999)+1),
			Phone:     fmt.Sprintf("(%d) %d-%d", r.Intn(900)+100, r.Intn(900)+100, r.Intn(9000)+1000),
			Email:     strings.ToLower(first) + "." + strings.ToLower(last) + "@email.com",
		},
		Vitals: Vitals{
			Height: uniform(r, 150, 50),
			Weight: uniform(r, 60, 40),
			BMI:    uniform(r, 20, 20),
			BloodPressure: BloodPressure{
				Systolic:  uniform(r, 110, 40),
				Diastolic: uniform(r, 70, 20),
			},
			HeartRate:        uniform(r, 60, 40),
			Temperature:      uniform(r, 36.5, 1.5),
			OxygenSaturation: uniform(r, 95, 5),
		},
		LabResults: LabResults{
			Glucose: uniform(r, 80, 120),
			HbA1c:   uniform(r, 5.0, 4),
			Cholesterol: Cholesterol{
				Total: uniform(r, 150, 100),
				LDL:   uniform(r, 100, 80),
				HDL:   uniform(r, 40, 30),
			},
			Creatinine:  uniform(r, 0.7, 1.0),
			EGFR:        uniform(r, 60, 40),
			LastUpdated: lastVisit,
		},
	}

	for j, m := range sample(r, medications, 1+r.Intn(6)) {
		p.Medications = append(p.Medications, Medication{
			ID:        fmt.Sprintf("med-%d-%d", i, j),
			Name:      m.name,
			Dosage:    fmt.Sprintf("%dmg", r.Intn(500)+50),
			Frequency: pick(r, frequencies),
			StartDate: randomDate(r, now.Add(-365*day), now),
			Status:    pick(r, medicationStatuses),
			Category:  m.category,
		})
	}

	for j, f := range sample(r, riskFactors, 1+r.Intn(5)) {
		p.RiskFactors = append(p.RiskFactors, RiskFactor{
			ID:           fmt.Sprintf("risk-%d-%d", i, j),
			Name:         f.name,
			Category:     f.category,
			Severity:     pick(r, severities),
			Impact:       r.Intn(100),
			LastAssessed: lastVisit,
			Description:  "Risk factor: " + f.name,
		})
	}

	p.HistoricalData = g.history(now)
	return p
}

// history draws one point per month from HistoryMonths ago up to now.
// Points are independent of the patient's current score.
func (g *Generator) history(now time.Time) []HistoricalDataPoint {
	r := g.rng
	points := make([]HistoricalDataPoint, 0, HistoryMonths+1)
	for i := HistoryMonths; i >= 0; i-- {
		base := r.Float64() * 100
		trend := (r.Float64() - 0.5) * 20
		score := int(math.Round(math.Max(0, math.Min(100, base+trend))))

		meds := sample(r, medications, 1+r.Intn(5))
		names := make([]string, len(meds))
		for k, m := range meds {
			names[k] = m.name
		}

		points = append(points, HistoricalDataPoint{
			Date:      NewDate(monthsBefore(now, i)),
			RiskScore: score,
			Vitals: VitalsSnapshot{
				Weight: uniform(r, 70, 30),
				BloodPressure: BloodPressure{
					Systolic:  uniform(r, 120, 40),
					Diastolic: uniform(r, 80, 20),
				},
				HeartRate: uniform(r, 60, 40),
			},
			LabResults: LabSnapshot{
				Glucose: uniform(r, 80, 100),
				HbA1c:   uniform(r, 5.0, 3),
				Cholesterol: Cholesterol{
					Total: uniform(r, 150, 100),
					LDL:   uniform(r, 100, 80),
					HDL:   uniform(r, 40, 30),
				},
			},
			Medications: names,
			Conditions:  sample(r, Conditions, 1+r.Intn(3)),
		})
	}
	return points
}

// monthsBefore steps back n calendar months, clamping the day to the end
// of the target month so the sequence never overshoots into the next one.
func monthsBefore(now time.Time, n int) time.Time {
	first := time.Date(now.Year(), now.Month()-time.Month(n), 1,
		now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), now.Location())
	last := first.AddDate(0, 1, -1).Day()
	d := now.Day()
	if d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

func pick[T any](r *rand.Rand, pool []T) T {
	return pool[r.Intn(len(pool))]
}

// sample draws n distinct elements of pool without replacement.
func sample[T any](r *rand.Rand, pool []T, n int) []T {
	if n > len(pool) {
		n = len(pool)
	}
	c := make([]T, len(pool))
	copy(c, pool)
	for i := 0; i < n; i++ {
		j := i + r.Intn(len(c)-i)
		c[i], c[j] = c[j], c[i]
	}
	return c[:n:n]
}

// uniform draws from [base, base+width).
func uniform(r *rand.Rand, base, width float64) float64 {
	return base + r.Float64()*width
}

func randomDate(r *rand.Rand, start, end time.Time) Date {
	span := end.Sub(start)
	if span <= 0 {
		return NewDate(start)
	}
	return NewDate(start.Add(time.Duration(r.Int63n(int64(span)))))
}
