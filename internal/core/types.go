package core

import "time"

const (
	MatriaName      = "Matria"
	MatriaUserAgent = "Matria-Triage/0.1"
	MatriaVersion   = "0.1.0"

	// ModelName identifies the rule-based engine in clinical explanations.
	ModelName       = "matria-obstetric-triage"
	ModelVersion    = MatriaVersion
	ModelValidation = "internally validated against curated obstetric triage scenarios; not clinically validated"
)

type Role string

const (
	RolePatient   Role = "patient"
	RoleClinician Role = "clinician"
	RoleAdmin     Role = "admin"
	// RoleAssistant marks generated turns inside a conversation history.
	RoleAssistant Role = "assistant"
)

// Message is one chat turn inside a conversation.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ExtractedSymptom is produced by the lexical extractors and accumulated on
// the conversation context across turns. Immutable once created.
type ExtractedSymptom struct {
	Name      string   `json:"name"`
	Severity  Severity `json:"severity"`
	Duration  string   `json:"duration,omitempty"`
	Frequency string   `json:"frequency,omitempty"`
	Location  string   `json:"location,omitempty"`
}

type EntityType string

const (
	EntitySymptom        EntityType = "symptom"
	EntityMedication     EntityType = "medication"
	EntityCondition      EntityType = "condition"
	EntityBodyPart       EntityType = "body_part"
	EntityTimeExpression EntityType = "time_expression"
	EntityMeasurement    EntityType = "measurement"
)

// MedicalEntity is a typed span detected in a single message. Transient.
type MedicalEntity struct {
	Type       EntityType `json:"type"`
	Value      string     `json:"value"`
	Confidence float64    `json:"confidence"`
}

type Intent string

const (
	IntentSymptomReport    Intent = "symptom_report"
	IntentEmergency        Intent = "emergency"
	IntentQuestion         Intent = "question"
	IntentMedication       Intent = "medication"
	IntentAppointment      Intent = "appointment"
	IntentEmotionalSupport Intent = "emotional_support"
	IntentGeneral          Intent = "general"
)

type Tone string

const (
	ToneAnxious    Tone = "anxious"
	ToneDistressed Tone = "distressed"
	ToneCalm       Tone = "calm"
	ToneConfused   Tone = "confused"
	ToneNeutral    Tone = "neutral"
)

// ConversationContext is the per-session state consumed and mutated by one
// turn at a time. Callers serialize turns for the same session id.
type ConversationContext struct {
	SessionID       string             `json:"session_id"`
	UserID          string             `json:"user_id"`
	Role            Role               `json:"role"`
	Messages        []Message          `json:"messages"`
	Symptoms        []ExtractedSymptom `json:"symptoms"`
	Intent          Intent             `json:"intent"`
	Tone            Tone               `json:"tone"`
	GestationalWeek int                `json:"gestational_week,omitempty"` // 0 = unknown
	RiskFactors     []string           `json:"risk_factors,omitempty"`
	RiskLevel       RiskLevel          `json:"risk_level"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// Trimester maps a gestational week to 1, 2 or 3. Returns 0 for unknown.
func Trimester(week int) int {
	switch {
	case week <= 0:
		return 0
	case week <= 13:
		return 1
	case week <= 27:
		return 2
	default:
		return 3
	}
}

// VitalSigns carries optional measurements; zero means not provided.
type VitalSigns struct {
	SystolicBP       float64 `json:"systolic_bp,omitempty"`
	DiastolicBP      float64 `json:"diastolic_bp,omitempty"`
	HeartRate        float64 `json:"heart_rate,omitempty"`
	Temperature      float64 `json:"temperature,omitempty"` // celsius
	Weight           float64 `json:"weight,omitempty"`      // kg
	OxygenSaturation float64 `json:"oxygen_saturation,omitempty"`
}

type PregnancyStage struct {
	Week      int `json:"week"`
	Trimester int `json:"trimester"`
}

// MedicalHistory is informational only in the triage core.
type MedicalHistory struct {
	Conditions  []string `json:"conditions,omitempty"`
	Medications []string `json:"medications,omitempty"`
	Allergies   []string `json:"allergies,omitempty"`
}

type SymptomInput struct {
	Name     string   `json:"name"`
	Severity Severity `json:"severity"`
}

// DiagnosticInput is everything the reasoner sees for one assessment.
type DiagnosticInput struct {
	Symptoms    []SymptomInput `json:"symptoms"`
	Stage       PregnancyStage `json:"pregnancy_stage"`
	History     MedicalHistory `json:"medical_history"`
	RiskFactors []string       `json:"risk_factors,omitempty"`
	Vitals      *VitalSigns    `json:"vital_signs,omitempty"`
}

// DifferentialCondition is a candidate diagnosis, never a confirmed one.
type DifferentialCondition struct {
	Name             string    `json:"name"`
	Code             string    `json:"code"`
	Probability      float64   `json:"probability"`
	Severity         RiskLevel `json:"severity"`
	MatchedSymptoms  []string  `json:"matched_symptoms,omitempty"`
	RecommendedTests []string  `json:"recommended_tests,omitempty"`
}

type Recommendation struct {
	Description string `json:"description"`
	Rationale   string `json:"rationale,omitempty"`
}

// ReasoningStep is one named stage of the explanation trace.
type ReasoningStep struct {
	Name       string   `json:"name"`
	Detail     string   `json:"detail"`
	Confidence float64  `json:"confidence"`
	Evidence   []string `json:"evidence,omitempty"`
}

// ConditionTrace records the scoring bookkeeping for one condition.
type ConditionTrace struct {
	Condition       string   `json:"condition"`
	Prior           float64  `json:"prior"`
	LikelihoodRatio float64  `json:"likelihood_ratio"`
	Posterior       float64  `json:"posterior"`
	Evidence        []string `json:"evidence,omitempty"`
}

type RuleTrace struct {
	RuleID      string `json:"rule_id"`
	Description string `json:"description"`
	Triggered   bool   `json:"triggered"`
}

type FeatureImpact string

const (
	ImpactPositive FeatureImpact = "positive"
	ImpactNegative FeatureImpact = "negative"
	ImpactNeutral  FeatureImpact = "neutral"
)

type FeatureWeight struct {
	Feature string        `json:"feature"`
	Weight  float64       `json:"weight"`
	Impact  FeatureImpact `json:"impact"`
}

// ExplanationTrace is the full reasoning record behind a diagnostic result.
type ExplanationTrace struct {
	Steps      []ReasoningStep  `json:"steps"`
	Conditions []ConditionTrace `json:"conditions,omitempty"`
	Rules      []RuleTrace      `json:"rules,omitempty"`
	Features   []FeatureWeight  `json:"features,omitempty"`
}

// DiagnosticResult is the reasoner's per-turn output. Transient; persistence
// is a collaborator concern.
type DiagnosticResult struct {
	Differentials   []DifferentialCondition `json:"differentials"`
	RiskLevel       RiskLevel               `json:"risk_level"`
	Urgency         Urgency                 `json:"urgency"`
	Recommendations []Recommendation        `json:"recommendations"`
	Trace           ExplanationTrace        `json:"trace"`
	Confidence      float64                 `json:"confidence"`
	Justification   string                  `json:"justification"`
	Disclaimers     []string                `json:"disclaimers"`
}

// AgentOutput is one agent's contribution to a turn.
type AgentOutput struct {
	Agent               string         `json:"agent"`
	Response            string         `json:"response"`
	Confidence          float64        `json:"confidence"`
	Priority            int            `json:"priority"` // fixed per agent, 0-100
	Metadata            map[string]any `json:"metadata,omitempty"`
	RequiresHumanReview bool           `json:"requires_human_review,omitempty"`
	Escalate            bool           `json:"escalate,omitempty"`
	EscalationReason    string         `json:"escalation_reason,omitempty"`
}

// LearningOpportunity is a side-channel flag for downstream review; it never
// influences the response.
type LearningOpportunity struct {
	Kind   string   `json:"kind"`
	Detail string   `json:"detail"`
	Terms  []string `json:"terms,omitempty"`
}

// OrchestratorResult is the final merged output of one chat turn.
type OrchestratorResult struct {
	Response            string               `json:"response"`
	Contributors        []string             `json:"contributors"`
	Consensus           bool                 `json:"consensus"`
	ResolvedConflicts   []string             `json:"resolved_conflicts,omitempty"`
	Confidence          float64              `json:"confidence"`
	RequiresEscalation  bool                 `json:"requires_escalation"`
	EscalationReason    string               `json:"escalation_reason,omitempty"`
	RequiresHumanReview bool                 `json:"requires_human_review,omitempty"`
	LearningOpportunity *LearningOpportunity `json:"learning_opportunity,omitempty"`
	Diagnosis           *DiagnosticResult    `json:"diagnosis,omitempty"`
	Context             *ConversationContext `json:"-"`
}

// TurnInput is one inbound chat message plus the caller-supplied context
// snapshot. The orchestrator never fetches or stores context itself.
type TurnInput struct {
	Message string
	UserID  string
	Role    Role
	Context *ConversationContext
}
