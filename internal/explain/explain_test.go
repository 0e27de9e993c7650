package explain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/sandevgo/matria/internal/core"
	"github.com/sandevgo/matria/internal/reasoner"
)

func sampleResult(t *testing.T) core.DiagnosticResult {
	t.Helper()
	r := reasoner.New()
	return r.Analyze(core.DiagnosticInput{
		Symptoms: []core.SymptomInput{
			{Name: "severe headache", Severity: core.SeveritySevere},
			{Name: "blurred vision", Severity: core.SeverityModerate},
		},
		Stage:  core.PregnancyStage{Week: 34, Trimester: 3},
		Vitals: &core.VitalSigns{SystolicBP: 165, DiastolicBP: 112},
	})
}

func TestPatientViewBuckets(t *testing.T) {
	tests := []struct {
		risk core.RiskLevel
		want string
	}{
		{core.RiskLevel1, "nothing stands out"},
		{core.RiskLevel2, "closer eye"},
		{core.RiskLevel3, "looked at by a healthcare professional soon"},
		{core.RiskLevel4, "urgent medical attention"},
	}
	for _, tt := range tests {
		res := core.DiagnosticResult{RiskLevel: tt.risk, Confidence: 0.7}
		pv := Patient(&res, core.IntentSymptomReport)
		if !strings.Contains(pv.Summary, tt.want) {
			t.Errorf("risk %v summary %q does not contain %q", tt.risk, pv.Summary, tt.want)
		}
		if pv.WhyItMatters == "" {
			t.Errorf("risk %v has no why-it-matters paragraph", tt.risk)
		}
		if len(pv.Actions) < 2 {
			t.Errorf("risk %v has fewer than two base actions", tt.risk)
		}
		if len(pv.WarningSigns) == 0 {
			t.Errorf("risk %v lost the warning-sign checklist", tt.risk)
		}
	}
}

func TestPatientViewCapsRecommendations(t *testing.T) {
	res := core.DiagnosticResult{
		RiskLevel: core.RiskLevel2,
		Recommendations: []core.Recommendation{
			{Description: "one"}, {Description: "two"}, {Description: "three"}, {Description: "four"}, {Description: "five"},
		},
	}
	pv := Patient(&res, core.IntentGeneral)

	base := len(riskBuckets[core.RiskLevel2].baseActions)
	if got := len(pv.Actions) - base; got != maxPatientRecommendations {
		t.Errorf("appended %d recommendations, want %d", got, maxPatientRecommendations)
	}
}

func TestPatientViewNeverLeaksProbabilities(t *testing.T) {
	res := sampleResult(t)
	pv := Patient(&res, core.IntentSymptomReport)

	raw, err := json.Marshal(pv)
	if err != nil {
		t.Fatal(err)
	}
	text := strings.ToLower(string(raw))
	for _, leak := range []string{"%", "probability", "differential", "preeclampsia", "rule_", "posterior"} {
		if strings.Contains(text, leak) {
			t.Errorf("patient view leaked clinical detail %q:\n%s", leak, raw)
		}
	}
}

func TestConfidenceTiers(t *testing.T) {
	tests := []struct {
		confidence float64
		want       string
	}{
		{0.9, "high"},
		{0.8, "high"},
		{0.79, "medium"},
		{0.6, "medium"},
		{0.59, "low"},
		{0, "low"},
	}
	for _, tt := range tests {
		res := core.DiagnosticResult{RiskLevel: core.RiskLevel1, Confidence: tt.confidence}
		if pv := Patient(&res, core.IntentGeneral); pv.ConfidenceTier != tt.want {
			t.Errorf("confidence %.2f: tier = %q, want %q", tt.confidence, pv.ConfidenceTier, tt.want)
		}
	}
}

func TestClinicalViewChainLength(t *testing.T) {
	res := sampleResult(t)
	cv := Clinical(&res)

	if len(cv.ReasoningChain) < 3 {
		t.Fatalf("reasoning chain has %d steps, want at least 3 when symptoms were given", len(cv.ReasoningChain))
	}
	for i, step := range cv.ReasoningChain {
		if step.Number != i+1 {
			t.Errorf("step %d numbered %d", i, step.Number)
		}
		if step.Name == "" || step.Detail == "" {
			t.Errorf("step %d incomplete: %+v", i, step)
		}
	}
}

func TestClinicalViewDifferentialPercentages(t *testing.T) {
	res := sampleResult(t)
	cv := Clinical(&res)

	if len(cv.Differentials) == 0 {
		t.Fatal("hypertensive presentation must produce differentials")
	}
	for _, d := range cv.Differentials {
		if !strings.HasSuffix(d.Probability, "%") {
			t.Errorf("differential %s probability %q not formatted as a percentage", d.Name, d.Probability)
		}
	}
}

func TestClinicalViewModelMetadata(t *testing.T) {
	res := sampleResult(t)
	cv := Clinical(&res)

	if cv.Model.Name != core.ModelName {
		t.Errorf("model name = %q, want %q", cv.Model.Name, core.ModelName)
	}
	if cv.Model.Validation != core.ModelValidation {
		t.Error("validation string must be the fixed metadata constant")
	}
	if len(cv.Model.Limitations) == 0 {
		t.Error("model metadata must state limitations")
	}
}

func TestConfidenceBreakdownWeightsSumToOne(t *testing.T) {
	res := sampleResult(t)
	cv := Clinical(&res)

	if len(cv.ConfidenceFactors) != 4 {
		t.Fatalf("factors = %d, want 4", len(cv.ConfidenceFactors))
	}
	sum := 0.0
	for _, f := range cv.ConfidenceFactors {
		sum += f.Weight
		if f.Score < 0 || f.Score > 1 {
			t.Errorf("factor %q score %.2f out of range", f.Name, f.Score)
		}
	}
	if sum != 1.0 {
		t.Errorf("weights sum to %.2f, want 1.0", sum)
	}
}

func TestForRoleRedaction(t *testing.T) {
	res := sampleResult(t)

	if out := ForRole(core.RolePatient, &res, core.IntentSymptomReport); out.Clinical != nil {
		t.Error("patients must not receive the clinical view")
	}
	if out := ForRole(core.RoleClinician, &res, core.IntentSymptomReport); out.Clinical == nil {
		t.Error("clinicians must receive the clinical view")
	}
	if out := ForRole(core.RoleAdmin, &res, core.IntentSymptomReport); out.Clinical == nil {
		t.Error("admins must receive the clinical view")
	}
}

func TestContextCompleteness(t *testing.T) {
	full := sampleResult(t)
	if got := contextCompleteness(&full); got != 1.0 {
		t.Errorf("complete input scored %.2f, want 1.0", got)
	}

	empty := core.DiagnosticResult{}
	if got := contextCompleteness(&empty); got != 0 {
		t.Errorf("empty input scored %.2f, want 0", got)
	}
}
