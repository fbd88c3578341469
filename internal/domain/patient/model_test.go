package patient

import (
	"encoding/json"
	"testing"
	"time"
)

func TestRiskLevelFor(t *testing.T) {
	tests := []struct {
		score int
		want  RiskLevel
	}{
		{0, RiskLow},
		{39, RiskLow},
		{40, RiskMedium},
		{69, RiskMedium},
		{70, RiskHigh},
		{99, RiskHigh},
		{100, RiskHigh},
	}
	for _, tt := range tests {
		if got := RiskLevelFor(tt.score); got != tt.want {
			t.Errorf("RiskLevelFor(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestStatusFor(t *testing.T) {
	for score := 0; score <= 99; score++ {
		got := StatusFor(score)
		want := StatusActive
		if score > 80 {
			want = StatusCritical
		}
		if got != want {
			t.Errorf("StatusFor(%d) = %s, want %s", score, got, want)
		}
	}
}

func TestRiskLevel_Label(t *testing.T) {
	if got := RiskHigh.Label(); got != "High Risk" {
		t.Errorf("expected High Risk, got %s", got)
	}
	if got := RiskLow.Label(); got != "Low Risk" {
		t.Errorf("expected Low Risk, got %s", got)
	}
}

func TestDate_JSON(t *testing.T) {
	d := NewDate(time.Date(2026, time.October, 17, 23, 59, 0, 0, time.UTC))
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != `"2026-10-17"` {
		t.Errorf("expected \"2026-10-17\", got %s", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("expected %s, got %s", d, back)
	}

	if err := json.Unmarshal([]byte(`"17/10/2026"`), &back); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestPatient_JSONFieldNames(t *testing.T) {
	p := NewSeededGenerator(1).WithSize(1).Generate(testNow)[0]
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var m map[string]interface{}
	json.Unmarshal(b, &m)
	for _, key := range []string{"id", "mrn", "riskScore", "riskLevel", "dateOfBirth", "lastVisit",
		"status", "demographics", "vitals", "labResults", "medications", "riskFactors", "historicalData"} {
		if _, ok := m[key]; !ok {
			t.Errorf("expected key %q in patient JSON", key)
		}
	}
}

func TestSnapshot_Find(t *testing.T) {
	s := &Snapshot{Patients: NewSeededGenerator(1).WithSize(3).Generate(testNow)}
	p, err := s.Find("patient-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.MRN != "MRN000002" {
		t.Errorf("expected MRN000002, got %s", p.MRN)
	}
	if _, err := s.Find("patient-99"); err != ErrPatientNotFound {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}
}
