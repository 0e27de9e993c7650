package knowledge

import (
	"strings"

	"github.com/sandevgo/matria/internal/core"
)

type VitalField string

const (
	VitalSystolicBP  VitalField = "systolic_bp"
	VitalDiastolicBP VitalField = "diastolic_bp"
	VitalHeartRate   VitalField = "heart_rate"
	VitalTemperature VitalField = "temperature"
	VitalWeight      VitalField = "weight"
	VitalOxygenSat   VitalField = "oxygen_saturation"
)

type Operator string

const (
	OpGTE Operator = ">="
	OpGT  Operator = ">"
	OpLTE Operator = "<="
	OpLT  Operator = "<"
)

// VitalIndicator is a threshold check against one vital sign. Weight feeds
// the reasoner's additive scoring when the check is satisfied.
type VitalIndicator struct {
	Vital     VitalField
	Op        Operator
	Threshold float64
	Weight    float64
}

// Satisfied evaluates the indicator against provided vitals. Vitals that were
// not provided (zero value) never satisfy an indicator.
func (in VitalIndicator) Satisfied(v *core.VitalSigns) bool {
	if v == nil {
		return false
	}
	val, ok := vitalValue(v, in.Vital)
	if !ok {
		return false
	}
	switch in.Op {
	case OpGTE:
		return val >= in.Threshold
	case OpGT:
		return val > in.Threshold
	case OpLTE:
		return val <= in.Threshold
	case OpLT:
		return val < in.Threshold
	}
	return false
}

func vitalValue(v *core.VitalSigns, field VitalField) (float64, bool) {
	var val float64
	switch field {
	case VitalSystolicBP:
		val = v.SystolicBP
	case VitalDiastolicBP:
		val = v.DiastolicBP
	case VitalHeartRate:
		val = v.HeartRate
	case VitalTemperature:
		val = v.Temperature
	case VitalWeight:
		val = v.Weight
	case VitalOxygenSat:
		val = v.OxygenSaturation
	}
	return val, val != 0
}

type SymptomWeight struct {
	Symptom string
	Weight  float64
}

type RiskMultiplier struct {
	Factor     string
	Multiplier float64
}

// ConditionDefinition is one row of the static obstetric knowledgebase.
// Read-only at runtime.
type ConditionDefinition struct {
	Name            string
	Code            string
	BaseProbability float64
	SymptomWeights  []SymptomWeight
	RiskMultipliers []RiskMultiplier
	// TrimesterRelevance is indexed by trimester-1. A multiplier of 0 removes
	// the condition from consideration in that trimester entirely.
	TrimesterRelevance [3]float64
	VitalIndicators    []VitalIndicator
	Severity           core.RiskLevel
	Urgency            core.Urgency
	Description        string
	RecommendedTests   []string
}

// TrimesterMultiplier returns the relevance multiplier for trimester 1..3.
// Unknown trimester keeps the condition in play unchanged.
func (c ConditionDefinition) TrimesterMultiplier(trimester int) float64 {
	if trimester < 1 || trimester > 3 {
		return 1.0
	}
	return c.TrimesterRelevance[trimester-1]
}

// MatchSymptom reports the defined weight for an input symptom name, using
// case-insensitive substring matching in either direction.
func (c ConditionDefinition) MatchSymptom(name string) (SymptomWeight, bool) {
	lower := strings.ToLower(name)
	for _, sw := range c.SymptomWeights {
		def := strings.ToLower(sw.Symptom)
		if strings.Contains(lower, def) || strings.Contains(def, lower) {
			return sw, true
		}
	}
	return SymptomWeight{}, false
}

// MatchRiskFactor reports the multiplier for an active risk-factor tag.
func (c ConditionDefinition) MatchRiskFactor(factor string) (RiskMultiplier, bool) {
	lower := strings.ToLower(factor)
	for _, rm := range c.RiskMultipliers {
		def := strings.ToLower(rm.Factor)
		if strings.Contains(lower, def) || strings.Contains(def, lower) {
			return rm, true
		}
	}
	return RiskMultiplier{}, false
}

// Conditions returns the static obstetric condition table.
func Conditions() []ConditionDefinition {
	return conditionTable
}

var conditionTable = []ConditionDefinition{
	{
		Name:            "Preeclampsia",
		Code:            "PREE",
		BaseProbability: 0.06,
		SymptomWeights: []SymptomWeight{
			{"headache", 0.8},
			{"visual disturbance", 0.9},
			{"blurred vision", 0.8},
			{"swelling", 0.7},
			{"upper abdominal pain", 0.6},
			{"nausea", 0.3},
		},
		RiskMultipliers: []RiskMultiplier{
			{"chronic hypertension", 2.0},
			{"first pregnancy", 1.3},
			{"multiple gestation", 1.5},
			{"obesity", 1.3},
			{"previous preeclampsia", 2.2},
		},
		TrimesterRelevance: [3]float64{0.2, 1.0, 1.5},
		VitalIndicators: []VitalIndicator{
			{VitalSystolicBP, OpGTE, 140, 0.9},
			{VitalDiastolicBP, OpGTE, 90, 0.8},
		},
		Severity:    core.RiskLevel4,
		Urgency:     core.UrgencyUrgent,
		Description: "New-onset hypertension with signs of end-organ involvement after 20 weeks.",
		RecommendedTests: []string{
			"Urine protein (protein/creatinine ratio)",
			"CBC with platelet count",
			"Liver enzymes and serum creatinine",
		},
	},
	{
		Name:            "Gestational diabetes",
		Code:            "GDM",
		BaseProbability: 0.06,
		SymptomWeights: []SymptomWeight{
			{"excessive thirst", 0.7},
			{"frequent urination", 0.6},
			{"fatigue", 0.4},
			{"blurred vision", 0.5},
		},
		RiskMultipliers: []RiskMultiplier{
			{"obesity", 1.8},
			{"family history of diabetes", 1.6},
			{"advanced maternal age", 1.4},
			{"previous gestational diabetes", 2.2},
		},
		TrimesterRelevance: [3]float64{0.3, 1.5, 1.0},
		Severity:           core.RiskLevel2,
		Urgency:            core.UrgencySoon,
		Description:        "Glucose intolerance first recognized during pregnancy.",
		RecommendedTests: []string{
			"75g oral glucose tolerance test",
			"HbA1c",
		},
	},
	{
		Name:            "Preterm labor",
		Code:            "PTL",
		BaseProbability: 0.05,
		SymptomWeights: []SymptomWeight{
			{"contractions", 0.9},
			{"pelvic pressure", 0.7},
			{"cramping", 0.6},
			{"low back pain", 0.5},
		},
		RiskMultipliers: []RiskMultiplier{
			{"previous preterm birth", 2.5},
			{"multiple gestation", 1.8},
			{"smoking", 1.4},
			{"short cervix", 2.0},
		},
		TrimesterRelevance: [3]float64{0, 0.8, 1.3},
		Severity:           core.RiskLevel4,
		Urgency:            core.UrgencyEmergency,
		Description:        "Regular uterine contractions with cervical change before 37 weeks.",
		RecommendedTests: []string{
			"Fetal fibronectin",
			"Transvaginal cervical length ultrasound",
		},
	},
	{
		Name:            "Placenta previa",
		Code:            "PPREV",
		BaseProbability: 0.04,
		SymptomWeights: []SymptomWeight{
			{"painless bleeding", 0.9},
			{"bleeding", 0.6},
			{"spotting", 0.6},
		},
		RiskMultipliers: []RiskMultiplier{
			{"previous cesarean", 1.6},
			{"advanced maternal age", 1.3},
			{"smoking", 1.3},
		},
		TrimesterRelevance: [3]float64{0.2, 0.8, 1.4},
		Severity:           core.RiskLevel3,
		Urgency:            core.UrgencyUrgent,
		Description:        "Placental tissue overlying the internal cervical os.",
		RecommendedTests: []string{
			"Transvaginal ultrasound for placental localization",
		},
	},
	{
		Name:            "Placental abruption",
		Code:            "PABR",
		BaseProbability: 0.03,
		SymptomWeights: []SymptomWeight{
			{"uterine tenderness", 0.9},
			{"abdominal pain", 0.8},
			{"bleeding", 0.8},
			{"back pain", 0.5},
		},
		RiskMultipliers: []RiskMultiplier{
			{"chronic hypertension", 1.9},
			{"abdominal trauma", 2.4},
			{"smoking", 1.5},
			{"cocaine use", 2.8},
		},
		TrimesterRelevance: [3]float64{0, 0.6, 1.5},
		VitalIndicators: []VitalIndicator{
			{VitalHeartRate, OpGT, 110, 0.6},
		},
		Severity:    core.RiskLevel4,
		Urgency:     core.UrgencyEmergency,
		Description: "Premature separation of the placenta from the uterine wall.",
		RecommendedTests: []string{
			"Continuous fetal monitoring",
			"Obstetric ultrasound",
			"CBC and coagulation panel",
		},
	},
	{
		Name:            "Hyperemesis gravidarum",
		Code:            "HG",
		BaseProbability: 0.06,
		SymptomWeights: []SymptomWeight{
			{"vomiting", 0.9},
			{"nausea", 0.8},
			{"weight loss", 0.7},
			{"dizziness", 0.5},
		},
		RiskMultipliers: []RiskMultiplier{
			{"multiple gestation", 1.6},
			{"previous hyperemesis", 2.0},
		},
		TrimesterRelevance: [3]float64{1.5, 0.6, 0.2},
		VitalIndicators: []VitalIndicator{
			{VitalHeartRate, OpGT, 100, 0.4},
		},
		Severity:    core.RiskLevel2,
		Urgency:     core.UrgencySoon,
		Description: "Severe, persistent vomiting with dehydration and weight loss.",
		RecommendedTests: []string{
			"Serum electrolytes",
			"Urinalysis for ketones",
		},
	},
	{
		Name:            "Urinary tract infection",
		Code:            "UTI",
		BaseProbability: 0.08,
		SymptomWeights: []SymptomWeight{
			{"burning urination", 0.9},
			{"frequent urination", 0.6},
			{"pelvic pain", 0.5},
			{"fever", 0.5},
		},
		RiskMultipliers: []RiskMultiplier{
			{"diabetes", 1.4},
			{"previous uti", 1.6},
		},
		TrimesterRelevance: [3]float64{1.0, 1.0, 1.0},
		VitalIndicators: []VitalIndicator{
			{VitalTemperature, OpGTE, 38.0, 0.5},
		},
		Severity:    core.RiskLevel2,
		Urgency:     core.UrgencySoon,
		Description: "Bacterial infection of the urinary tract; risk of pyelonephritis in pregnancy.",
		RecommendedTests: []string{
			"Urinalysis",
			"Urine culture",
		},
	},
	{
		Name:            "Anemia of pregnancy",
		Code:            "ANEM",
		BaseProbability: 0.07,
		SymptomWeights: []SymptomWeight{
			{"fatigue", 0.4},
			{"dizziness", 0.5},
			{"shortness of breath", 0.5},
			{"pale skin", 0.8},
		},
		RiskMultipliers: []RiskMultiplier{
			{"poor nutrition", 1.5},
			{"multiple gestation", 1.3},
			{"closely spaced pregnancies", 1.4},
		},
		TrimesterRelevance: [3]float64{0.8, 1.2, 1.3},
		VitalIndicators: []VitalIndicator{
			{VitalHeartRate, OpGT, 100, 0.4},
		},
		Severity:    core.RiskLevel2,
		Urgency:     core.UrgencyRoutine,
		Description: "Iron-deficiency anemia, the most common hematologic finding in pregnancy.",
		RecommendedTests: []string{
			"CBC",
			"Serum ferritin",
		},
	},
	{
		Name:            "Ectopic pregnancy",
		Code:            "ECT",
		BaseProbability: 0.03,
		SymptomWeights: []SymptomWeight{
			{"one-sided pain", 0.9},
			{"abdominal pain", 0.7},
			{"shoulder pain", 0.7},
			{"bleeding", 0.6},
			{"dizziness", 0.6},
		},
		RiskMultipliers: []RiskMultiplier{
			{"previous ectopic", 2.6},
			{"pelvic inflammatory disease", 1.9},
			{"ivf conception", 1.5},
		},
		TrimesterRelevance: [3]float64{1.4, 0, 0},
		VitalIndicators: []VitalIndicator{
			{VitalSystolicBP, OpLT, 95, 0.8},
			{VitalHeartRate, OpGT, 110, 0.7},
		},
		Severity:    core.RiskLevel4,
		Urgency:     core.UrgencyEmergency,
		Description: "Implantation outside the uterine cavity; rupture is life-threatening.",
		RecommendedTests: []string{
			"Quantitative serum hCG",
			"Transvaginal ultrasound",
		},
	},
	{
		Name:            "Chorioamnionitis",
		Code:            "CHOR",
		BaseProbability: 0.02,
		SymptomWeights: []SymptomWeight{
			{"fever", 0.8},
			{"uterine tenderness", 0.8},
			{"foul discharge", 0.9},
		},
		RiskMultipliers: []RiskMultiplier{
			{"prolonged rupture of membranes", 2.5},
			{"multiple vaginal exams", 1.5},
		},
		TrimesterRelevance: [3]float64{0, 0.6, 1.4},
		VitalIndicators: []VitalIndicator{
			{VitalTemperature, OpGTE, 38.0, 0.9},
			{VitalHeartRate, OpGT, 100, 0.5},
		},
		Severity:    core.RiskLevel4,
		Urgency:     core.UrgencyUrgent,
		Description: "Intra-amniotic infection, typically after membrane rupture.",
		RecommendedTests: []string{
			"CBC",
			"Blood cultures",
			"Continuous fetal monitoring",
		},
	},
}
