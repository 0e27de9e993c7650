package reasoner

import (
	"strings"
	"testing"

	"github.com/sandevgo/matria/internal/core"
	"github.com/sandevgo/matria/internal/knowledge"
)

func TestRoutineScenario(t *testing.T) {
	r := New()
	res := r.Analyze(core.DiagnosticInput{
		Symptoms: []core.SymptomInput{{Name: "fatigue", Severity: core.SeverityMild}},
		Stage:    core.PregnancyStage{Week: 20, Trimester: 2},
	})

	if res.RiskLevel != core.RiskLevel1 {
		t.Errorf("risk = %s, want level_1", res.RiskLevel)
	}
	if res.Urgency != core.UrgencyRoutine {
		t.Errorf("urgency = %s, want routine", res.Urgency)
	}
	if len(res.Differentials) > 3 {
		t.Errorf("expected a near-empty differential, got %d entries", len(res.Differentials))
	}
	for _, d := range res.Differentials {
		if d.Probability > severityFoldCutoff {
			t.Errorf("%s at %.2f should not clear the fold cutoff on mild fatigue alone", d.Name, d.Probability)
		}
	}
}

func TestHypertensiveEmergencyScenario(t *testing.T) {
	r := New()
	res := r.Analyze(core.DiagnosticInput{
		Vitals: &core.VitalSigns{SystolicBP: 165, DiastolicBP: 112},
	})

	if res.RiskLevel != core.RiskLevel4 {
		t.Errorf("risk = %s, want level_4", res.RiskLevel)
	}
	if res.Urgency != core.UrgencyEmergency {
		t.Errorf("urgency = %s, want emergency", res.Urgency)
	}

	found := false
	for _, rt := range res.Trace.Rules {
		if rt.RuleID == "hypertensive_emergency" && rt.Triggered {
			found = true
		}
	}
	if !found {
		t.Error("hypertensive_emergency rule not recorded as triggered")
	}
}

func TestPretermLaborScenario(t *testing.T) {
	r := New()
	res := r.Analyze(core.DiagnosticInput{
		Symptoms: []core.SymptomInput{{Name: "contractions", Severity: core.SeverityModerate}},
		Stage:    core.PregnancyStage{Week: 32, Trimester: 3},
	})

	if res.RiskLevel != core.RiskLevel4 || res.Urgency != core.UrgencyEmergency {
		t.Errorf("got %s/%s, want level_4/emergency", res.RiskLevel, res.Urgency)
	}
}

func TestThirdTrimesterBleedingScenario(t *testing.T) {
	r := New()
	res := r.Analyze(core.DiagnosticInput{
		Symptoms: []core.SymptomInput{{Name: "spotting", Severity: core.SeverityMild}},
		Stage:    core.PregnancyStage{Week: 30, Trimester: 3},
	})

	if res.RiskLevel < core.RiskLevel3 {
		t.Errorf("risk = %s, want at least level_3", res.RiskLevel)
	}
	if res.Urgency < core.UrgencyUrgent {
		t.Errorf("urgency = %s, want at least urgent", res.Urgency)
	}
}

func TestMonotonicityAddingEvidence(t *testing.T) {
	r := New()
	base := core.DiagnosticInput{
		Symptoms: []core.SymptomInput{{Name: "headache", Severity: core.SeverityModerate}},
		Stage:    core.PregnancyStage{Week: 30, Trimester: 3},
	}
	baseline := r.Analyze(base)

	// Adding a rule-triggering vital must never lower risk or urgency.
	withVitals := base
	withVitals.Vitals = &core.VitalSigns{SystolicBP: 170, DiastolicBP: 100}
	escalated := r.Analyze(withVitals)

	if escalated.RiskLevel < baseline.RiskLevel {
		t.Errorf("risk decreased from %s to %s after adding evidence", baseline.RiskLevel, escalated.RiskLevel)
	}
	if escalated.Urgency < baseline.Urgency {
		t.Errorf("urgency decreased from %s to %s after adding evidence", baseline.Urgency, escalated.Urgency)
	}

	// Adding a higher-severity symptom likewise.
	withMore := base
	withMore.Symptoms = append([]core.SymptomInput{}, base.Symptoms...)
	withMore.Symptoms = append(withMore.Symptoms, core.SymptomInput{Name: "bleeding", Severity: core.SeveritySevere})
	more := r.Analyze(withMore)
	if more.RiskLevel < baseline.RiskLevel || more.Urgency < baseline.Urgency {
		t.Error("adding a symptom lowered the assessment")
	}
}

func TestProbabilityClamp(t *testing.T) {
	r := New()
	// Pile on every preeclampsia signal plus strong multipliers.
	res := r.Analyze(core.DiagnosticInput{
		Symptoms: []core.SymptomInput{
			{Name: "headache", Severity: core.SeveritySevere},
			{Name: "visual disturbance", Severity: core.SeveritySevere},
			{Name: "swelling", Severity: core.SeveritySevere},
			{Name: "upper abdominal pain", Severity: core.SeveritySevere},
			{Name: "nausea", Severity: core.SeveritySevere},
		},
		Stage:       core.PregnancyStage{Week: 34, Trimester: 3},
		RiskFactors: []string{"chronic hypertension", "previous preeclampsia", "obesity"},
		Vitals:      &core.VitalSigns{SystolicBP: 180, DiastolicBP: 115},
	})

	for _, d := range res.Differentials {
		if d.Probability > probabilityCap {
			t.Errorf("%s probability %.3f exceeds cap %.2f", d.Name, d.Probability, probabilityCap)
		}
	}
	if len(res.Differentials) == 0 || res.Differentials[0].Code != "PREE" {
		t.Fatalf("expected preeclampsia to lead the differential: %v", res.Differentials)
	}
	if res.Differentials[0].Probability != probabilityCap {
		t.Errorf("stacked evidence should saturate at the cap, got %.3f", res.Differentials[0].Probability)
	}
}

func TestTrimesterZeroingRemovesCondition(t *testing.T) {
	r := New()
	// Ectopic pregnancy has strong matches here, but is zeroed in trimester 3
	// and must not appear even with supporting vitals.
	res := r.Analyze(core.DiagnosticInput{
		Symptoms: []core.SymptomInput{
			{Name: "one-sided pain", Severity: core.SeveritySevere},
			{Name: "shoulder pain", Severity: core.SeverityModerate},
		},
		Stage:       core.PregnancyStage{Week: 30, Trimester: 3},
		RiskFactors: []string{"previous ectopic"},
		Vitals:      &core.VitalSigns{SystolicBP: 90, HeartRate: 118},
	})

	for _, d := range res.Differentials {
		if d.Code == "ECT" {
			t.Errorf("ectopic pregnancy surfaced in trimester 3 at %.2f", d.Probability)
		}
	}
}

func TestRecommendationDeduplication(t *testing.T) {
	r := New()
	// Fever triggers both fever rules and pushes infection conditions; CBC is
	// recommended by more than one condition.
	res := r.Analyze(core.DiagnosticInput{
		Symptoms: []core.SymptomInput{
			{Name: "fever", Severity: core.SeveritySevere},
			{Name: "uterine tenderness", Severity: core.SeveritySevere},
			{Name: "fatigue", Severity: core.SeverityModerate},
			{Name: "pale skin", Severity: core.SeverityModerate},
		},
		Stage:  core.PregnancyStage{Week: 33, Trimester: 3},
		Vitals: &core.VitalSigns{Temperature: 39.2, HeartRate: 112},
	})

	seen := map[string]bool{}
	for _, rec := range res.Recommendations {
		key := strings.ToLower(rec.Description)
		if seen[key] {
			t.Errorf("duplicate recommendation %q", rec.Description)
		}
		seen[key] = true
	}
}

func TestEmptyInputFloorsAtRoutine(t *testing.T) {
	r := New()
	res := r.Analyze(core.DiagnosticInput{})

	if res.RiskLevel != core.RiskLevel1 || res.Urgency != core.UrgencyRoutine {
		t.Errorf("empty input should floor at level_1/routine, got %s/%s", res.RiskLevel, res.Urgency)
	}
	if len(res.Disclaimers) == 0 {
		t.Error("disclaimers must always be present")
	}
}

func TestEmptyKnowledgebaseDegrades(t *testing.T) {
	r := NewWithTables(nil, nil)
	res := r.Analyze(core.DiagnosticInput{
		Symptoms: []core.SymptomInput{{Name: "contractions", Severity: core.SeveritySevere}},
		Stage:    core.PregnancyStage{Week: 30, Trimester: 3},
	})

	if len(res.Differentials) != 0 {
		t.Errorf("empty tables must yield an empty differential, got %v", res.Differentials)
	}
	if res.RiskLevel != core.RiskLevel1 {
		t.Errorf("rule-only floor should hold: got %s", res.RiskLevel)
	}
}

func TestRulesOnlyResultWhenVitalsAlone(t *testing.T) {
	// Rules fire from vitals even with an empty symptom list.
	r := NewWithTables(nil, knowledge.Rules())
	res := r.Analyze(core.DiagnosticInput{
		Vitals: &core.VitalSigns{Temperature: 39.5},
	})
	if res.RiskLevel < core.RiskLevel3 {
		t.Errorf("high fever alone should raise risk, got %s", res.RiskLevel)
	}
}

func TestTraceShape(t *testing.T) {
	r := New()
	res := r.Analyze(core.DiagnosticInput{
		Symptoms: []core.SymptomInput{{Name: "headache", Severity: core.SeverityModerate}},
		Stage:    core.PregnancyStage{Week: 30, Trimester: 3},
		Vitals:   &core.VitalSigns{SystolicBP: 150, DiastolicBP: 95},
	})

	if len(res.Trace.Steps) < 3 {
		t.Errorf("reasoning chain too short: %d steps", len(res.Trace.Steps))
	}
	if len(res.Trace.Rules) != len(knowledge.Rules()) {
		t.Errorf("every rule must be traced: got %d of %d", len(res.Trace.Rules), len(knowledge.Rules()))
	}

	// Features must cover every symptom, every provided vital, and the stage.
	var symptoms, vitals, stage int
	for _, f := range res.Trace.Features {
		switch {
		case strings.HasPrefix(f.Feature, "symptom:"):
			symptoms++
		case strings.HasPrefix(f.Feature, "vital:"):
			vitals++
		case strings.HasPrefix(f.Feature, "pregnancy stage:"):
			stage++
		}
	}
	if symptoms != 1 {
		t.Errorf("expected 1 symptom feature, got %d", symptoms)
	}
	if vitals != 2 {
		t.Errorf("expected 2 vital features (only provided vitals), got %d", vitals)
	}
	if stage != 1 {
		t.Errorf("expected 1 stage feature, got %d", stage)
	}
}

func TestConfidenceLeadDominatesWhenSparse(t *testing.T) {
	r := New()
	clear := r.Analyze(core.DiagnosticInput{
		Symptoms: []core.SymptomInput{
			{Name: "headache", Severity: core.SeveritySevere},
			{Name: "visual disturbance", Severity: core.SeveritySevere},
			{Name: "swelling", Severity: core.SeveritySevere},
		},
		Stage:       core.PregnancyStage{Week: 34, Trimester: 3},
		RiskFactors: []string{"chronic hypertension"},
		Vitals:      &core.VitalSigns{SystolicBP: 165, DiastolicBP: 105},
	})
	vague := r.Analyze(core.DiagnosticInput{
		Symptoms: []core.SymptomInput{{Name: "fatigue", Severity: core.SeverityMild}},
		Stage:    core.PregnancyStage{Week: 20, Trimester: 2},
	})

	if clear.Confidence <= vague.Confidence {
		t.Errorf("clear presentation (%.2f) should outscore vague one (%.2f)", clear.Confidence, vague.Confidence)
	}
}
