package knowledge

import (
	"strings"

	"github.com/sandevgo/matria/internal/core"
)

// ObstetricRule is a deterministic safety rule. Rules are order-independent:
// the reasoner evaluates every rule and folds triggered outcomes together
// with MaxRisk/MaxUrgency, never stopping at the first match.
type ObstetricRule struct {
	ID             string
	Description    string
	When           func(core.DiagnosticInput) bool
	Risk           core.RiskLevel
	Urgency        core.Urgency
	Recommendation string
	Rationale      string
}

// Rules returns the static safety-rule table.
func Rules() []ObstetricRule {
	return ruleTable
}

func hasSymptom(in core.DiagnosticInput, substrings ...string) bool {
	for _, s := range in.Symptoms {
		name := strings.ToLower(s.Name)
		for _, sub := range substrings {
			if strings.Contains(name, sub) {
				return true
			}
		}
	}
	return false
}

func symptomAtLeast(in core.DiagnosticInput, severity core.Severity, substrings ...string) bool {
	for _, s := range in.Symptoms {
		if s.Severity < severity {
			continue
		}
		name := strings.ToLower(s.Name)
		for _, sub := range substrings {
			if strings.Contains(name, sub) {
				return true
			}
		}
	}
	return false
}

var ruleTable = []ObstetricRule{
	{
		ID:          "hypertensive_emergency",
		Description: "Hypertensive Emergency",
		When: func(in core.DiagnosticInput) bool {
			return in.Vitals != nil && (in.Vitals.SystolicBP >= 160 || in.Vitals.DiastolicBP >= 110)
		},
		Risk:           core.RiskLevel4,
		Urgency:        core.UrgencyEmergency,
		Recommendation: "Seek emergency obstetric care immediately for blood pressure evaluation",
		Rationale:      "Systolic >=160 or diastolic >=110 mmHg meets severe-range criteria regardless of symptoms",
	},
	{
		ID:          "preterm_labor_signs",
		Description: "Preterm Labor Signs",
		When: func(in core.DiagnosticInput) bool {
			return hasSymptom(in, "contraction") && in.Stage.Week >= 20 && in.Stage.Week < 37
		},
		Risk:           core.RiskLevel4,
		Urgency:        core.UrgencyEmergency,
		Recommendation: "Go to labor and delivery for contraction and cervical assessment",
		Rationale:      "Regular contractions before 37 weeks may indicate preterm labor",
	},
	{
		ID:          "third_trimester_bleeding",
		Description: "Third Trimester Bleeding",
		When: func(in core.DiagnosticInput) bool {
			return hasSymptom(in, "bleed", "spotting") && in.Stage.Trimester == 3
		},
		Risk:           core.RiskLevel3,
		Urgency:        core.UrgencyUrgent,
		Recommendation: "Contact your obstetric provider today; any third-trimester bleeding needs evaluation",
		Rationale:      "Bleeding after 27 weeks raises concern for placenta previa or abruption",
	},
	{
		ID:          "severe_preeclampsia_features",
		Description: "Severe Preeclampsia Features",
		When: func(in core.DiagnosticInput) bool {
			symptomatic := hasSymptom(in, "headache", "visual", "vision", "swelling")
			return symptomatic && in.Vitals != nil &&
				(in.Vitals.SystolicBP >= 140 || in.Vitals.DiastolicBP >= 90)
		},
		Risk:           core.RiskLevel3,
		Urgency:        core.UrgencyUrgent,
		Recommendation: "Same-day blood pressure check and preeclampsia labs",
		Rationale:      "Elevated blood pressure with neurologic or edema symptoms suggests preeclampsia",
	},
	{
		ID:          "maternal_fever",
		Description: "Maternal Fever",
		When: func(in core.DiagnosticInput) bool {
			return in.Vitals != nil && in.Vitals.Temperature >= 38.0
		},
		Risk:           core.RiskLevel2,
		Urgency:        core.UrgencySoon,
		Recommendation: "Arrange evaluation within 24 hours to identify the source of fever",
		Rationale:      "Temperature >=38.0C in pregnancy warrants infectious workup",
	},
	{
		ID:          "high_maternal_fever",
		Description: "High Maternal Fever",
		When: func(in core.DiagnosticInput) bool {
			return in.Vitals != nil && in.Vitals.Temperature >= 38.9
		},
		Risk:           core.RiskLevel3,
		Urgency:        core.UrgencyUrgent,
		Recommendation: "Seek same-day care; high fever in pregnancy requires urgent assessment",
		Rationale:      "Temperature >=38.9C raises concern for chorioamnionitis or pyelonephritis",
	},
	{
		ID:          "maternal_tachycardia",
		Description: "Maternal Tachycardia",
		When: func(in core.DiagnosticInput) bool {
			return in.Vitals != nil && in.Vitals.HeartRate > 120
		},
		Risk:           core.RiskLevel2,
		Urgency:        core.UrgencySoon,
		Recommendation: "Have heart rate and volume status checked within 24 hours",
		Rationale:      "Sustained heart rate above 120 bpm exceeds expected pregnancy physiology",
	},
	{
		ID:          "maternal_hypoxia",
		Description: "Maternal Hypoxia",
		When: func(in core.DiagnosticInput) bool {
			return in.Vitals != nil && in.Vitals.OxygenSaturation > 0 && in.Vitals.OxygenSaturation < 95
		},
		Risk:           core.RiskLevel3,
		Urgency:        core.UrgencyUrgent,
		Recommendation: "Seek urgent care for oxygen saturation below 95%",
		Rationale:      "Hypoxemia endangers both maternal and fetal oxygenation",
	},
	{
		ID:          "reduced_fetal_movement",
		Description: "Reduced Fetal Movement",
		When: func(in core.DiagnosticInput) bool {
			return hasSymptom(in, "fetal movement", "baby moving less", "decreased movement") &&
				in.Stage.Week >= 24
		},
		Risk:           core.RiskLevel3,
		Urgency:        core.UrgencyUrgent,
		Recommendation: "Perform a kick count now and contact labor and delivery if movements stay reduced",
		Rationale:      "Reduced fetal movement after viability needs fetal wellbeing assessment",
	},
	{
		ID:          "first_trimester_pain_bleeding",
		Description: "First Trimester Pain With Bleeding",
		When: func(in core.DiagnosticInput) bool {
			return in.Stage.Trimester == 1 &&
				hasSymptom(in, "bleed", "spotting") &&
				symptomAtLeast(in, core.SeverityModerate, "pain", "cramp")
		},
		Risk:           core.RiskLevel3,
		Urgency:        core.UrgencyUrgent,
		Recommendation: "Same-day evaluation to exclude ectopic pregnancy",
		Rationale:      "Pain with bleeding in early pregnancy requires ectopic exclusion",
	},
	{
		ID:          "severe_vomiting",
		Description: "Severe Persistent Vomiting",
		When: func(in core.DiagnosticInput) bool {
			return symptomAtLeast(in, core.SeveritySevere, "vomit")
		},
		Risk:           core.RiskLevel2,
		Urgency:        core.UrgencySoon,
		Recommendation: "Arrange assessment for dehydration and electrolyte imbalance",
		Rationale:      "Severe vomiting risks dehydration and hyperemesis gravidarum",
	},
}
