// Package explain projects a diagnostic result into two audiences: a
// simplified patient view and a detailed clinical view. The patient view
// never carries raw probabilities or internal rule names; the clinical view
// never carries the simplified bucket prose.
package explain

import (
	"fmt"
	"strings"

	"github.com/sandevgo/matria/internal/core"
)

// Explanation is the dual-view output for one assessment. Clinical is nil
// when the requesting role is not permitted to see it.
type Explanation struct {
	Patient  PatientView   `json:"patient"`
	Clinical *ClinicalView `json:"clinical,omitempty"`
}

type PatientView struct {
	Summary        string   `json:"summary"`
	Findings       []string `json:"findings"`
	WhyItMatters   string   `json:"why_it_matters"`
	Actions        []string `json:"actions"`
	WarningSigns   []string `json:"warning_signs"`
	ConfidenceTier string   `json:"confidence_tier"` // high, medium, low
	ConfidenceNote string   `json:"confidence_note"`
	Disclaimers    []string `json:"disclaimers"`
}

type ChainStep struct {
	Number     int      `json:"number"`
	Name       string   `json:"name"`
	Detail     string   `json:"detail"`
	Confidence float64  `json:"confidence"`
	Evidence   []string `json:"evidence,omitempty"`
}

type DifferentialLine struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Probability string `json:"probability"` // formatted percentage
}

type ConfidenceFactor struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Score  float64 `json:"score"`
}

type ModelMetadata struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Validation  string   `json:"validation"`
	Limitations []string `json:"limitations"`
}

type ClinicalView struct {
	Summary           string               `json:"summary"`
	ReasoningChain    []ChainStep          `json:"reasoning_chain"`
	Differentials     []DifferentialLine   `json:"differentials"`
	Features          []core.FeatureWeight `json:"features"`
	Model             ModelMetadata        `json:"model"`
	ConfidenceFactors []ConfidenceFactor   `json:"confidence_factors"`
	OverallConfidence float64              `json:"overall_confidence"`
	Reliability       string               `json:"reliability"`
}

// riskBucket collapses the four risk levels onto the fixed patient-facing
// template set.
type riskBucket struct {
	summary      string
	whyItMatters string
	baseActions  []string
	layRisk      string
}

var riskBuckets = map[core.RiskLevel]riskBucket{
	core.RiskLevel1: {
		summary:      "Based on what you've shared, nothing stands out as concerning right now.",
		whyItMatters: "Routine symptoms are a normal part of pregnancy, and keeping track of them helps your care team spot changes early.",
		baseActions:  []string{"Keep a simple note of any symptoms and when they happen.", "Mention what you told me at your next prenatal visit."},
		layRisk:      "everything looks routine",
	},
	core.RiskLevel2: {
		summary:      "Some of what you've described is worth keeping a closer eye on.",
		whyItMatters: "These symptoms are usually manageable, but they can occasionally signal something that needs treatment, so it's best to have them checked.",
		baseActions:  []string{"Contact your healthcare provider within the next few days.", "Watch for any of the warning signs below and call sooner if they appear."},
		layRisk:      "worth keeping an eye on",
	},
	core.RiskLevel3: {
		summary:      "What you've described should be looked at by a healthcare professional soon.",
		whyItMatters: "Symptoms like these can sometimes point to conditions that are much easier to treat when caught early.",
		baseActions:  []string{"Call your healthcare provider or maternity unit today.", "Do not wait for your next scheduled appointment."},
		layRisk:      "needs attention soon",
	},
	core.RiskLevel4: {
		summary:      "What you've described needs urgent medical attention.",
		whyItMatters: "Some pregnancy complications develop quickly, and getting care right away protects both you and your baby.",
		baseActions:  []string{"Contact emergency services or go to labor and delivery now.", "Do not drive yourself if you feel faint or unwell."},
		layRisk:      "needs urgent attention",
	},
}

var layIntents = map[core.Intent]string{
	core.IntentSymptomReport:    "you told me about symptoms you're experiencing",
	core.IntentEmergency:        "you described something that sounds urgent",
	core.IntentQuestion:         "you asked a question about your pregnancy",
	core.IntentMedication:       "you asked about a medication",
	core.IntentAppointment:      "you asked about appointments or scheduling",
	core.IntentEmotionalSupport: "you shared how you're feeling",
	core.IntentGeneral:          "we talked about your pregnancy",
}

// warningSigns is the fixed patient checklist, independent of the turn.
var warningSigns = []string{
	"Heavy bleeding or passing clots",
	"Severe headache that won't go away",
	"Changes in your vision, like blurring or seeing spots",
	"Severe pain in your belly",
	"Your baby moving much less than usual",
	"Fluid leaking from your vagina",
	"A fever of 38°C (100.4°F) or higher",
	"Feeling faint or passing out",
}

var modelLimitations = []string{
	"keyword and pattern based extraction; free-text nuance may be missed",
	"condition coverage limited to common obstetric presentations",
	"no access to laboratory results or imaging",
	"not a substitute for clinical examination",
}

// maxPatientRecommendations caps how many raw recommendation strings are
// appended after the bucket's base actions.
const maxPatientRecommendations = 3

// Patient builds the simplified view. The intent shapes the findings list;
// raw probabilities and rule identifiers never appear here.
func Patient(res *core.DiagnosticResult, intent core.Intent) PatientView {
	bucket := riskBuckets[res.RiskLevel.Clamp()]

	findings := []string{
		fmt.Sprintf("From our conversation, %s.", layIntent(intent)),
		fmt.Sprintf("Overall, %s.", bucket.layRisk),
	}
	if n := countMatchedSymptoms(res); n > 0 {
		findings = append(findings, fmt.Sprintf("I recognized %d of your symptoms and took them into account.", n))
	}

	actions := append([]string{}, bucket.baseActions...)
	for i, rec := range res.Recommendations {
		if i == maxPatientRecommendations {
			break
		}
		actions = append(actions, rec.Description)
	}

	tier, note := confidenceTier(res.Confidence)
	return PatientView{
		Summary:        bucket.summary,
		Findings:       findings,
		WhyItMatters:   bucket.whyItMatters,
		Actions:        actions,
		WarningSigns:   append([]string{}, warningSigns...),
		ConfidenceTier: tier,
		ConfidenceNote: note,
		Disclaimers:    append([]string{}, res.Disclaimers...),
	}
}

// Clinical builds the detailed view: full reasoning chain, differential
// percentages, feature impacts and the confidence breakdown.
func Clinical(res *core.DiagnosticResult) ClinicalView {
	var chain []ChainStep
	for i, s := range res.Trace.Steps {
		chain = append(chain, ChainStep{
			Number:     i + 1,
			Name:       s.Name,
			Detail:     s.Detail,
			Confidence: s.Confidence,
			Evidence:   s.Evidence,
		})
	}

	var diff []DifferentialLine
	for _, d := range res.Differentials {
		diff = append(diff, DifferentialLine{
			Name:        d.Name,
			Code:        d.Code,
			Probability: fmt.Sprintf("%.1f%%", d.Probability*100),
		})
	}

	factors := confidenceFactors(res)
	return ClinicalView{
		Summary:        clinicalSummary(res),
		ReasoningChain: chain,
		Differentials:  diff,
		Features:       res.Trace.Features,
		Model: ModelMetadata{
			Name:        core.ModelName,
			Version:     core.ModelVersion,
			Validation:  core.ModelValidation,
			Limitations: append([]string{}, modelLimitations...),
		},
		ConfidenceFactors: factors,
		OverallConfidence: res.Confidence,
		Reliability:       reliability(res.Confidence),
	}
}

// ForRole applies role-based redaction: patients receive only the simplified
// view, clinical roles receive both.
func ForRole(role core.Role, res *core.DiagnosticResult, intent core.Intent) Explanation {
	out := Explanation{Patient: Patient(res, intent)}
	if role == core.RoleClinician || role == core.RoleAdmin {
		cv := Clinical(res)
		out.Clinical = &cv
	}
	return out
}

func clinicalSummary(res *core.DiagnosticResult) string {
	lead := "no differential above threshold"
	if len(res.Differentials) > 0 {
		lead = fmt.Sprintf("lead %s (%s) %.1f%%", res.Differentials[0].Name, res.Differentials[0].Code, res.Differentials[0].Probability*100)
	}
	return fmt.Sprintf("risk %s | urgency %s | %s | confidence %.2f",
		res.RiskLevel, res.Urgency, lead, res.Confidence)
}

// confidenceFactors is the fixed four-factor breakdown. Weights sum to 1.
func confidenceFactors(res *core.DiagnosticResult) []ConfidenceFactor {
	return []ConfidenceFactor{
		{Name: "symptom specificity", Weight: 0.3, Score: symptomSpecificity(res)},
		{Name: "context completeness", Weight: 0.2, Score: contextCompleteness(res)},
		{Name: "model certainty", Weight: 0.3, Score: res.Confidence},
		{Name: "safety validation", Weight: 0.2, Score: 0.95},
	}
}

// symptomSpecificity is the share of symptom features the knowledgebase
// actually weighted, i.e. how much of the input the model understood.
func symptomSpecificity(res *core.DiagnosticResult) float64 {
	total, positive := 0, 0
	for _, f := range res.Trace.Features {
		if !strings.HasPrefix(f.Feature, "symptom:") {
			continue
		}
		total++
		if f.Impact == core.ImpactPositive {
			positive++
		}
	}
	if total == 0 {
		return 0.3 // no symptoms offered; specificity is unknowable, not zero
	}
	return float64(positive) / float64(total)
}

// contextCompleteness scores how much of the ideal input (symptoms, stage,
// vitals, a usable differential) this turn actually had. Quarter point each.
func contextCompleteness(res *core.DiagnosticResult) float64 {
	score := 0.0
	hasSymptom, hasVital, hasStage := false, false, false
	for _, f := range res.Trace.Features {
		switch {
		case strings.HasPrefix(f.Feature, "symptom:"):
			hasSymptom = true
		case strings.HasPrefix(f.Feature, "vital:"):
			hasVital = true
		case strings.HasPrefix(f.Feature, "pregnancy stage:"):
			hasStage = true
		}
	}
	if hasSymptom {
		score += 0.25
	}
	if hasVital {
		score += 0.25
	}
	if hasStage {
		score += 0.25
	}
	if len(res.Differentials) > 0 {
		score += 0.25
	}
	return score
}

func confidenceTier(c float64) (string, string) {
	switch {
	case c >= 0.8:
		return "high", "I'm fairly confident in this assessment based on what you've shared."
	case c >= 0.6:
		return "medium", "This assessment is a reasonable starting point, but a healthcare provider can tell you more."
	default:
		return "low", "I don't have enough information to be confident; please treat this as a rough guide only."
	}
}

func reliability(c float64) string {
	switch {
	case c >= 0.8:
		return "high agreement between rule outcomes and differential scoring; suitable as a triage signal"
	case c >= 0.6:
		return "moderate certainty; corroborate against presentation before acting"
	default:
		return "low certainty; insufficient input specificity, treat as informational only"
	}
}

func layIntent(intent core.Intent) string {
	if s, ok := layIntents[intent]; ok {
		return s
	}
	return layIntents[core.IntentGeneral]
}

func countMatchedSymptoms(res *core.DiagnosticResult) int {
	seen := map[string]bool{}
	for _, d := range res.Differentials {
		for _, s := range d.MatchedSymptoms {
			seen[strings.ToLower(s)] = true
		}
	}
	return len(seen)
}
