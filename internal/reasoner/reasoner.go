// Package reasoner implements the deterministic diagnostic engine: safety
// rules first, then a naive Bayesian-style condition scorer, folded together
// so that risk level and urgency only ever go up within a turn.
package reasoner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/matria/internal/core"
	"github.com/sandevgo/matria/internal/knowledge"
)

const (
	symptomWeightFactor = 0.3
	vitalWeightFactor   = 0.2
	probabilityCap      = 0.95
	differentialFloor   = 0.10
	severityFoldCutoff  = 0.50
	testRecommendCutoff = 0.30
)

var disclaimers = []string{
	"This assessment is generated by a rule-based triage aid and is not a medical diagnosis.",
	"All findings require correlation by a qualified healthcare provider.",
}

type Reasoner struct {
	conditions []knowledge.ConditionDefinition
	rules      []knowledge.ObstetricRule
}

func New() *Reasoner {
	return &Reasoner{
		conditions: knowledge.Conditions(),
		rules:      knowledge.Rules(),
	}
}

// NewWithTables builds a reasoner over explicit tables; misconfigured (empty)
// tables degrade to an empty differential, never an error.
func NewWithTables(conditions []knowledge.ConditionDefinition, rules []knowledge.ObstetricRule) *Reasoner {
	return &Reasoner{conditions: conditions, rules: rules}
}

// Analyze is a synchronous pure computation over one diagnostic input.
func (r *Reasoner) Analyze(in core.DiagnosticInput) core.DiagnosticResult {
	if in.Stage.Trimester == 0 && in.Stage.Week > 0 {
		in.Stage.Trimester = core.Trimester(in.Stage.Week)
	}

	risk := core.RiskLevel1
	urgency := core.UrgencyRoutine

	var trace core.ExplanationTrace
	var recs []core.Recommendation

	// Step 1: every safety rule is evaluated; triggered outcomes are OR-ed
	// together via the running maxima. Evaluation never stops at a match.
	var triggered []knowledge.ObstetricRule
	for _, rule := range r.rules {
		fired := rule.When(in)
		trace.Rules = append(trace.Rules, core.RuleTrace{
			RuleID:      rule.ID,
			Description: rule.Description,
			Triggered:   fired,
		})
		if !fired {
			continue
		}
		triggered = append(triggered, rule)
		risk = core.MaxRisk(risk, rule.Risk)
		urgency = core.MaxUrgency(urgency, rule.Urgency)
		recs = append(recs, core.Recommendation{
			Description: rule.Recommendation,
			Rationale:   rule.Rationale,
		})
	}
	trace.Steps = append(trace.Steps, core.ReasoningStep{
		Name:       "rule_evaluation",
		Detail:     fmt.Sprintf("%d of %d safety rules triggered", len(triggered), len(r.rules)),
		Confidence: 0.95, // rules are deterministic thresholds
		Evidence:   ruleIDs(triggered),
	})

	// Step 2: per-condition probability scoring.
	differentials := r.scoreConditions(in, &trace)

	// Step 4: a high-probability condition folds its severity class into the
	// running maxima under the same monotonic rule as the safety rules.
	for _, d := range differentials {
		if d.Probability > severityFoldCutoff {
			risk = core.MaxRisk(risk, d.Severity)
			urgency = core.MaxUrgency(urgency, conditionUrgency(r.conditions, d.Code))
		}
	}
	trace.Steps = append(trace.Steps, core.ReasoningStep{
		Name:       "risk_stratification",
		Detail:     fmt.Sprintf("overall risk %s, urgency %s", risk, urgency),
		Confidence: 0.85,
	})

	// Step 6: recommendations from rules plus tests for plausible conditions,
	// deduplicated by case-insensitive description.
	for _, d := range differentials {
		if d.Probability <= testRecommendCutoff {
			continue
		}
		for _, test := range d.RecommendedTests {
			recs = append(recs, core.Recommendation{
				Description: test,
				Rationale:   fmt.Sprintf("recommended when %s is under consideration", d.Name),
			})
		}
	}
	recs = dedupeRecommendations(recs)

	trace.Features = buildFeatures(in, r.conditions)
	trace.Steps = append(trace.Steps, core.ReasoningStep{
		Name:       "response_generation",
		Detail:     fmt.Sprintf("%d recommendations assembled", len(recs)),
		Confidence: 0.9,
	})

	return core.DiagnosticResult{
		Differentials:   differentials,
		RiskLevel:       risk,
		Urgency:         urgency,
		Recommendations: recs,
		Trace:           trace,
		Confidence:      overallConfidence(differentials, trace.Steps),
		Justification:   justification(risk, triggered, differentials),
		Disclaimers:     disclaimers,
	}
}

func (r *Reasoner) scoreConditions(in core.DiagnosticInput, trace *core.ExplanationTrace) []core.DifferentialCondition {
	var out []core.DifferentialCondition

	for _, cond := range r.conditions {
		prob := cond.BaseProbability
		var evidence []string
		var matched []string

		for _, s := range in.Symptoms {
			if sw, ok := cond.MatchSymptom(s.Name); ok {
				prob += sw.Weight * symptomWeightFactor
				matched = append(matched, s.Name)
				evidence = append(evidence, fmt.Sprintf("symptom %q (+%.2f)", s.Name, sw.Weight*symptomWeightFactor))
			}
		}

		for _, rf := range in.RiskFactors {
			if rm, ok := cond.MatchRiskFactor(rf); ok {
				prob *= rm.Multiplier
				evidence = append(evidence, fmt.Sprintf("risk factor %q (x%.2f)", rf, rm.Multiplier))
			}
		}

		// A zero trimester multiplier removes the condition entirely, no
		// matter how strong the symptom or vital match was.
		tm := cond.TrimesterMultiplier(in.Stage.Trimester)
		if tm == 0 {
			trace.Conditions = append(trace.Conditions, core.ConditionTrace{
				Condition:       cond.Name,
				Prior:           cond.BaseProbability,
				LikelihoodRatio: 0,
				Posterior:       0,
				Evidence:        []string{fmt.Sprintf("not considered in trimester %d", in.Stage.Trimester)},
			})
			continue
		}
		prob *= tm
		if tm != 1.0 {
			evidence = append(evidence, fmt.Sprintf("trimester %d relevance (x%.2f)", in.Stage.Trimester, tm))
		}

		for _, ind := range cond.VitalIndicators {
			if ind.Satisfied(in.Vitals) {
				prob += ind.Weight * vitalWeightFactor
				evidence = append(evidence, fmt.Sprintf("vital %s %s %.1f (+%.2f)", ind.Vital, ind.Op, ind.Threshold, ind.Weight*vitalWeightFactor))
			}
		}

		// Never report certainty.
		if prob > probabilityCap {
			prob = probabilityCap
		}

		lr := 0.0
		if cond.BaseProbability > 0 {
			lr = prob / cond.BaseProbability
		}
		trace.Conditions = append(trace.Conditions, core.ConditionTrace{
			Condition:       cond.Name,
			Prior:           cond.BaseProbability,
			LikelihoodRatio: lr,
			Posterior:       prob,
			Evidence:        evidence,
		})

		if prob > differentialFloor {
			out = append(out, core.DifferentialCondition{
				Name:             cond.Name,
				Code:             cond.Code,
				Probability:      prob,
				Severity:         cond.Severity,
				MatchedSymptoms:  matched,
				RecommendedTests: cond.RecommendedTests,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Probability > out[j].Probability
	})

	trace.Steps = append(trace.Steps, core.ReasoningStep{
		Name:       "symptom_analysis",
		Detail:     fmt.Sprintf("%d of %d conditions retained above %.2f", len(out), len(r.conditions), differentialFloor),
		Confidence: 0.75,
		Evidence:   conditionNames(out),
	})
	return out
}

// overallConfidence blends step confidence with the leading condition's
// probability. The leading term dominates when the differential is sparse so
// that a single clear candidate reads as a confident assessment.
func overallConfidence(diff []core.DifferentialCondition, steps []core.ReasoningStep) float64 {
	stepConf := 0.0
	if len(steps) > 0 {
		for _, s := range steps {
			stepConf += s.Confidence
		}
		stepConf /= float64(len(steps))
	}

	if len(diff) == 0 {
		// Nothing stood out; confidence comes from process quality alone,
		// discounted for the absent differential.
		return clamp01(0.4 * stepConf)
	}

	lead := diff[0].Probability
	leadWeight := 0.5
	if len(diff) <= 2 {
		leadWeight = 0.7
	}
	return clamp01(leadWeight*lead + (1-leadWeight)*stepConf)
}

func justification(risk core.RiskLevel, triggered []knowledge.ObstetricRule, diff []core.DifferentialCondition) string {
	var parts []string
	for _, rule := range triggered {
		parts = append(parts, fmt.Sprintf("rule %q imposed %s", rule.Description, rule.Risk))
	}
	if len(diff) > 0 {
		parts = append(parts, fmt.Sprintf("leading differential %s at %.0f%%", diff[0].Name, diff[0].Probability*100))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("no safety rule triggered and no condition exceeded the reporting threshold; overall risk %s", risk)
	}
	return strings.Join(parts, "; ")
}

func buildFeatures(in core.DiagnosticInput, conditions []knowledge.ConditionDefinition) []core.FeatureWeight {
	var out []core.FeatureWeight

	for _, s := range in.Symptoms {
		weight := 0.0
		for _, cond := range conditions {
			if sw, ok := cond.MatchSymptom(s.Name); ok && sw.Weight > weight {
				weight = sw.Weight
			}
		}
		impact := core.ImpactNeutral
		if weight > 0 {
			impact = core.ImpactPositive
		}
		out = append(out, core.FeatureWeight{
			Feature: "symptom: " + s.Name,
			Weight:  weight,
			Impact:  impact,
		})
	}

	if v := in.Vitals; v != nil {
		for _, f := range []struct {
			name  string
			value float64
			field knowledge.VitalField
		}{
			{"systolic blood pressure", v.SystolicBP, knowledge.VitalSystolicBP},
			{"diastolic blood pressure", v.DiastolicBP, knowledge.VitalDiastolicBP},
			{"heart rate", v.HeartRate, knowledge.VitalHeartRate},
			{"temperature", v.Temperature, knowledge.VitalTemperature},
			{"weight", v.Weight, knowledge.VitalWeight},
			{"oxygen saturation", v.OxygenSaturation, knowledge.VitalOxygenSat},
		} {
			if f.value == 0 {
				continue
			}
			weight, impact := 0.1, core.ImpactNeutral
			for _, cond := range conditions {
				for _, ind := range cond.VitalIndicators {
					if ind.Vital == f.field && ind.Satisfied(v) && ind.Weight > weight {
						weight, impact = ind.Weight, core.ImpactPositive
					}
				}
			}
			out = append(out, core.FeatureWeight{
				Feature: "vital: " + f.name,
				Weight:  weight,
				Impact:  impact,
			})
		}
	}

	if in.Stage.Week > 0 {
		out = append(out, core.FeatureWeight{
			Feature: fmt.Sprintf("pregnancy stage: week %d (trimester %d)", in.Stage.Week, in.Stage.Trimester),
			Weight:  0.2,
			Impact:  core.ImpactNeutral,
		})
	}
	return out
}

func dedupeRecommendations(recs []core.Recommendation) []core.Recommendation {
	seen := map[string]bool{}
	var out []core.Recommendation
	for _, r := range recs {
		key := strings.ToLower(strings.TrimSpace(r.Description))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

func conditionUrgency(conditions []knowledge.ConditionDefinition, code string) core.Urgency {
	for _, c := range conditions {
		if c.Code == code {
			return c.Urgency
		}
	}
	return core.UrgencyRoutine
}

func ruleIDs(rules []knowledge.ObstetricRule) []string {
	var out []string
	for _, r := range rules {
		out = append(out, r.ID)
	}
	return out
}

func conditionNames(diff []core.DifferentialCondition) []string {
	var out []string
	for _, d := range diff {
		out = append(out, d.Name)
	}
	return out
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
