package patient

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Date is a calendar day serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate truncates t to its UTC calendar day.
func NewDate(t time.Time) Date {
	u := t.UTC()
	return Date{time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Tier cutoffs. Every risk classification in the service goes through
// RiskLevelFor; nothing else compares scores against these values.
const (
	HighRiskThreshold   = 70
	MediumRiskThreshold = 40
	CriticalThreshold   = 80
)

// RiskLevelFor maps a risk score to its tier.
func RiskLevelFor(score int) RiskLevel {
	switch {
	case score >= HighRiskThreshold:
		return RiskHigh
	case score >= MediumRiskThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Label returns the display label for the tier, e.g. "High Risk".
func (l RiskLevel) Label() string {
	return string(l) + " Risk"
}

type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
	StatusCritical Status = "Critical"
)

// StatusFor derives the patient status from the risk score at creation time.
// Inactive is a legal value but is never produced here.
func StatusFor(score int) Status {
	if score > CriticalThreshold {
		return StatusCritical
	}
	return StatusActive
}

type MedicationStatus string

const (
	MedicationActive       MedicationStatus = "Active"
	MedicationDiscontinued MedicationStatus = "Discontinued"
	MedicationOnHold       MedicationStatus = "On Hold"
)

type RiskFactorCategory string

const (
	CategoryLifestyle     RiskFactorCategory = "Lifestyle"
	CategoryMedical       RiskFactorCategory = "Medical"
	CategoryGenetic       RiskFactorCategory = "Genetic"
	CategoryEnvironmental RiskFactorCategory = "Environmental"
)

type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// Patient is one synthetic individual under chronic-care monitoring.
type Patient struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	Age             int                   `json:"age"`
	Gender          Gender                `json:"gender"`
	DateOfBirth     Date                  `json:"dateOfBirth"`
	MRN             string                `json:"mrn"`
	RiskScore       int                   `json:"riskScore"`
	RiskLevel       RiskLevel             `json:"riskLevel"`
	Conditions      []string              `json:"conditions"`
	LastVisit       Date                  `json:"lastVisit"`
	NextAppointment *Date                 `json:"nextAppointment,omitempty"`
	Provider        string                `json:"provider"`
	Status          Status                `json:"status"`
	Demographics    Demographics          `json:"demographics"`
	Vitals          Vitals                `json:"vitals"`
	LabResults      LabResults            `json:"labResults"`
	Medications     []Medication          `json:"medications"`
	RiskFactors     []RiskFactor          `json:"riskFactors"`
	HistoricalData  []HistoricalDataPoint `json:"historicalData"`
}

type Demographics struct {
	Ethnicity string `json:"ethnicity"`
	Insurance string `json:"insurance"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

type BloodPressure struct {
	Systolic  float64 `json:"systolic"`
	Diastolic float64 `json:"diastolic"`
}

// Vitals holds height in cm and weight in kg.
type Vitals struct {
	Height           float64       `json:"height"`
	Weight           float64       `json:"weight"`
	BMI              float64       `json:"bmi"`
	BloodPressure    BloodPressure `json:"bloodPressure"`
	HeartRate        float64       `json:"heartRate"`
	Temperature      float64       `json:"temperature"`
	OxygenSaturation float64       `json:"oxygenSaturation"`
}

type Cholesterol struct {
	Total float64 `json:"total"`
	LDL   float64 `json:"ldl"`
	HDL   float64 `json:"hdl"`
}

type LabResults struct {
	Glucose     float64     `json:"glucose"`
	HbA1c       float64     `json:"hba1c"`
	Cholesterol Cholesterol `json:"cholesterol"`
	Creatinine  float64     `json:"creatinine"`
	EGFR        float64     `json:"egfr"`
	LastUpdated Date        `json:"lastUpdated"`
}

type Medication struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Dosage    string           `json:"dosage"`
	Frequency string           `json:"frequency"`
	StartDate Date             `json:"startDate"`
	Status    MedicationStatus `json:"status"`
	Category  string           `json:"category"`
}

type RiskFactor struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Category     RiskFactorCategory `json:"category"`
	Severity     Severity           `json:"severity"`
	Impact       int                `json:"impact"`
	LastAssessed Date               `json:"lastAssessed"`
	Description  string             `json:"description"`
}

type VitalsSnapshot struct {
	Weight        float64       `json:"weight"`
	BloodPressure BloodPressure `json:"bloodPressure"`
	HeartRate     float64       `json:"heartRate"`
}

type LabSnapshot struct {
	Glucose     float64     `json:"glucose"`
	HbA1c       float64     `json:"hba1c"`
	Cholesterol Cholesterol `json:"cholesterol"`
}

// HistoricalDataPoint is one monthly observation in a patient's trend.
type HistoricalDataPoint struct {
	Date        Date           `json:"date"`
	RiskScore   int            `json:"riskScore"`
	Vitals      VitalsSnapshot `json:"vitals"`
	LabResults  LabSnapshot    `json:"labResults"`
	Medications []string       `json:"medications"`
	Conditions  []string       `json:"conditions"`
}

// Snapshot is one generated cohort. Patients are never modified after
// the snapshot is built.
type Snapshot struct {
	ID          uuid.UUID  `json:"id"`
	Seed        int64      `json:"seed"`
	GeneratedAt time.Time  `json:"generated_at"`
	Patients    []*Patient `json:"patients"`
}

// SnapshotSummary is the listing view of a stored snapshot.
type SnapshotSummary struct {
	ID          uuid.UUID `json:"id"`
	Seed        int64     `json:"seed"`
	GeneratedAt time.Time `json:"generated_at"`
	Size        int       `json:"size"`
}

func (s *Snapshot) Summary() *SnapshotSummary {
	return &SnapshotSummary{
		ID:          s.ID,
		Seed:        s.Seed,
		GeneratedAt: s.GeneratedAt,
		Size:        len(s.Patients),
	}
}

// Find returns the patient with the given id.
func (s *Snapshot) Find(id string) (*Patient, error) {
	for _, p := range s.Patients {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrPatientNotFound
}
