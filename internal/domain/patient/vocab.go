package patient

var (
	firstNames = []string{
		"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael", "Linda",
		"William", "Elizabeth", "David", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
		"Thomas", "Sarah", "Christopher", "Karen", "Charles", "Nancy", "Daniel", "Lisa",
		"Matthew", "Betty", "Anthony", "Helen", "Mark", "Sandra", "Donald", "Donna",
		"Steven", "Carol", "Paul", "Ruth", "Andrew", "Sharon", "Joshua", "Michelle",
		"Kenneth", "Laura", "Kevin", "Sarah", "Brian", "Kimberly", "George", "Deborah",
	}

	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
		"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas",
		"Taylor", "Moore", "Jackson", "Martin", "Lee", "Perez", "Thompson", "White",
		"Harris", "Sanchez", "Clark", "Ramirez", "Lewis", "Robinson", "Walker", "Young",
		"Allen", "King", "Wright", "Scott", "Torres", "Nguyen", "Hill", "Flores",
	}

	// Conditions is the chronic condition vocabulary.
	Conditions = []string{
		"Type 2 Diabetes", "Hypertension", "Heart Failure", "Obesity", "Chronic Kidney Disease",
		"COPD", "Atrial Fibrillation", "Coronary Artery Disease", "Stroke", "Peripheral Artery Disease",
		"Depression", "Anxiety", "Sleep Apnea", "Hyperlipidemia", "Osteoarthritis",
	}

	medications = []medicationTemplate{
		{name: "Metformin", category: "Diabetes"},
		{name: "Lisinopril", category: "Hypertension"},
		{name: "Atorvastatin", category: "Cholesterol"},
		{name: "Furosemide", category: "Heart Failure"},
		{name: "Insulin Glargine", category: "Diabetes"},
		{name: "Amlodipine", category: "Hypertension"},
		{name: "Simvastatin", category: "Cholesterol"},
		{name: "Carvedilol", category: "Heart Failure"},
		{name: "Sitagliptin", category: "Diabetes"},
		{name: "Losartan", category: "Hypertension"},
	}

	riskFactors = []riskFactorTemplate{
		{name: "Smoking", category: CategoryLifestyle},
		{name: "Physical Inactivity", category: CategoryLifestyle},
		{name: "Poor Diet", category: CategoryLifestyle},
		{name: "Family History", category: CategoryGenetic},
		{name: "Age", category: CategoryMedical},
		{name: "Obesity", category: CategoryMedical},
		{name: "High Blood Pressure", category: CategoryMedical},
		{name: "High Cholesterol", category: CategoryMedical},
		{name: "Stress", category: CategoryLifestyle},
		{name: "Sleep Disorders", category: CategoryMedical},
	}

	genders            = []Gender{GenderMale, GenderFemale, GenderOther}
	providers          = []string{"Dr. Smith", "Dr. Johnson", "Dr. Williams", "Dr. Brown"}
	ethnicities        = []string{"Caucasian", "African American", "Hispanic", "Asian", "Other"}
	insurers           = []string{"Medicare", "Medicaid", "Private", "Self-Pay"}
	frequencies        = []string{"Once daily", "Twice daily", "Three times daily", "As needed"}
	medicationStatuses = []MedicationStatus{MedicationActive, MedicationDiscontinued, MedicationOnHold}
	severities         = []Severity{SeverityLow, SeverityMedium, SeverityHigh}
)

type medicationTemplate struct {
	name     string
	category string
}

type riskFactorTemplate struct {
	name     string
	category RiskFactorCategory
}
