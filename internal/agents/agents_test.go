package agents

import (
	"strings"
	"testing"

	"github.com/sandevgo/matria/internal/core"
	"github.com/sandevgo/matria/internal/nlp"
)

func turnInput(t *testing.T, message string) Input {
	t.Helper()
	ex := nlp.NewExtractor()
	return Input{
		Message:    message,
		Extraction: ex.Extract(message),
		Context:    &core.ConversationContext{SessionID: "test", RiskLevel: core.RiskLevel1},
	}
}

func TestTriageBands(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    core.Urgency
	}{
		{"two urgent keywords", "I have bleeding and a fever", core.UrgencyEmergency},
		{"one urgent keyword", "I noticed some bleeding today", core.UrgencyUrgent},
		{"moderate keyword only", "I've had a headache all day", core.UrgencySoon},
		{"nothing triage-worthy", "hello, just saying hi", core.UrgencyRoutine},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := processTriage(turnInput(t, tt.message))
			if got := out.Metadata["urgency"]; got != tt.want.String() {
				t.Errorf("urgency = %v, want %s", got, tt.want)
			}
		})
	}
}

func TestTriageLatePregnancyRaisesBand(t *testing.T) {
	in := turnInput(t, "I've had a headache all day, I'm 38 weeks pregnant")
	out := processTriage(in)

	if got := out.Metadata["urgency"]; got != core.UrgencyUrgent.String() {
		t.Errorf("late pregnancy should raise soon to urgent, got %v", got)
	}
	if !out.Escalate {
		t.Error("late-pregnancy sensitivity must flag a non-fatal escalation")
	}
	if out.EscalationReason == "" {
		t.Error("escalation must carry a reason")
	}
}

func TestTriageElevatedContextRaisesBand(t *testing.T) {
	in := turnInput(t, "I've had a headache all day")
	in.Context.RiskLevel = core.RiskLevel3
	out := processTriage(in)

	if got := out.Metadata["urgency"]; got != core.UrgencyUrgent.String() {
		t.Errorf("elevated risk context should raise the band, got %v", got)
	}
	if !out.Escalate {
		t.Error("expected non-fatal escalation")
	}
}

func TestEmergencyAgentCriticalPattern(t *testing.T) {
	in := turnInput(t, "I have severe bleeding and feel dizzy")

	agent := NewEmergencyAgent()
	if !agent.ShouldActivate(in) {
		t.Fatal("emergency agent must activate on severe bleeding")
	}
	out := agent.Process(in)
	if !out.Escalate {
		t.Error("critical pattern must escalate")
	}
	if out.Confidence != 0.95 {
		t.Errorf("confidence = %.2f, want 0.95", out.Confidence)
	}
	if out.Response == "" {
		t.Error("escalation must carry an action response")
	}
}

func TestEmergencyAgentWatchPatternDoesNotEscalate(t *testing.T) {
	in := turnInput(t, "a little spotting this morning")

	agent := NewEmergencyAgent()
	if !agent.ShouldActivate(in) {
		t.Fatal("watch pattern should still activate the agent")
	}
	out := agent.Process(in)
	if out.Escalate {
		t.Error("watch pattern must not escalate")
	}
	if matched, _ := out.Metadata["pattern_matched"].(bool); !matched {
		t.Error("activation must be visible in metadata for conflict detection")
	}
}

func TestEmergencyAgentIgnoresCalmMessage(t *testing.T) {
	in := turnInput(t, "what should I eat this week?")
	if NewEmergencyAgent().ShouldActivate(in) {
		t.Error("emergency agent should stay inactive")
	}
}

func TestSafetyAgentFlagsUnsafeTopics(t *testing.T) {
	tests := []struct {
		message string
		flag    bool
	}{
		{"is it ok to skip my prenatal appointments?", true},
		{"how can I self-induce labor at home?", true},
		{"thinking of stopping my blood pressure medication", true},
		{"what should I eat in the second trimester?", false},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			out := processSafety(turnInput(t, tt.message))
			if out.RequiresHumanReview != tt.flag {
				t.Errorf("RequiresHumanReview = %v, want %v", out.RequiresHumanReview, tt.flag)
			}
		})
	}
}

func TestFilterResponseHedgesAbsoluteClaims(t *testing.T) {
	in := "You definitely have preeclampsia and this is certainly dangerous."
	got := FilterResponse(in)

	if strings.Contains(strings.ToLower(got), "definitely") || strings.Contains(strings.ToLower(got), "certainly") {
		t.Errorf("absolute phrasing survived the filter: %q", got)
	}
	if !strings.Contains(got, "you may have") {
		t.Errorf("expected hedged phrasing, got %q", got)
	}
}

func TestFilterResponseAppendsProviderReminder(t *testing.T) {
	got := FilterResponse("You should rest and drink plenty of water.")
	if !strings.Contains(got, "healthcare provider") {
		t.Errorf("advice without provider mention must gain a reminder: %q", got)
	}

	// Already mentions a provider: no duplicate reminder.
	already := "You should call your doctor today."
	if out := FilterResponse(already); out != already {
		t.Errorf("text already naming a provider must pass unchanged, got %q", out)
	}
}

func TestFilterResponseIdempotent(t *testing.T) {
	inputs := []string{
		"You definitely have anemia. You should take iron.",
		"You should rest today.",
		"Everything looks routine.",
		"",
	}
	for _, in := range inputs {
		once := FilterResponse(in)
		twice := FilterResponse(once)
		if once != twice {
			t.Errorf("filter not idempotent for %q:\n once: %q\ntwice: %q", in, once, twice)
		}
	}
}

func TestObstetricAgentWeekInfo(t *testing.T) {
	in := turnInput(t, "I'm 20 weeks pregnant, what's happening with the baby?")
	agent := NewObstetricAgent()
	if !agent.ShouldActivate(in) {
		t.Fatal("obstetric agent must activate on pregnancy topics")
	}
	out := agent.Process(in)
	if !strings.Contains(out.Response, "week 20") {
		t.Errorf("expected week-specific response, got %q", out.Response)
	}
	if out.Confidence != 0.8 {
		t.Errorf("confidence = %.2f, want 0.8", out.Confidence)
	}
}

func TestObstetricAgentFallsBackWithoutWeek(t *testing.T) {
	in := turnInput(t, "how is the baby developing?")
	out := NewObstetricAgent().Process(in)
	if out.Confidence != 0.5 {
		t.Errorf("confidence = %.2f, want fallback 0.5", out.Confidence)
	}
}

func TestEducationAgentTopicLookup(t *testing.T) {
	in := turnInput(t, "what should I eat during pregnancy?")
	agent := NewEducationAgent()
	if !agent.ShouldActivate(in) {
		t.Fatal("question phrasing must activate the education agent")
	}
	out := agent.Process(in)
	if got, _ := out.Metadata["topic"].(string); got != "nutrition" {
		t.Errorf("topic = %q, want nutrition", got)
	}
	if clinical, _ := out.Metadata["clinical"].(string); clinical == "" {
		t.Error("clinical phrasing must travel in metadata")
	}
}

func TestEducationAgentPhrasingFollowsRole(t *testing.T) {
	message := "what should I eat during pregnancy?"
	agent := NewEducationAgent()

	patient := agent.Process(turnInput(t, message))
	if !strings.Contains(patient.Response, "balanced meals") {
		t.Errorf("patient role must get the simplified phrasing, got %q", patient.Response)
	}

	in := turnInput(t, message)
	in.Context.Role = core.RoleClinician
	clinician := agent.Process(in)
	if !strings.Contains(clinician.Response, "folate supplementation") {
		t.Errorf("clinician role must get the clinical phrasing, got %q", clinician.Response)
	}
	if clinician.Response == patient.Response {
		t.Error("the two phrasings must differ")
	}
}

func TestEducationAgentUnknownTopic(t *testing.T) {
	out := NewEducationAgent().Process(turnInput(t, "why is the sky blue?"))
	if out.Confidence != 0.4 {
		t.Errorf("unknown topic should return the low-confidence fallback, got %.2f", out.Confidence)
	}
}

func TestLearningAgentSymptomCluster(t *testing.T) {
	in := turnInput(t, "I have a headache, nausea and swelling in my ankles")
	out := processLearning(in)

	ops := Opportunities(out)
	found := false
	for _, op := range ops {
		if op.Kind == "symptom_cluster" {
			found = true
		}
	}
	if !found {
		t.Errorf("three co-occurring symptoms must flag a cluster, got %v", ops)
	}
	if out.Confidence != 0 {
		t.Error("learning agent never competes for the response")
	}
}

func TestLearningAgentUnfamiliarTerm(t *testing.T) {
	out := processLearning(turnInput(t, "my doctor mentioned listeriosis, should I worry?"))
	ops := Opportunities(out)

	found := false
	for _, op := range ops {
		if op.Kind == "unfamiliar_term" && len(op.Terms) == 1 && op.Terms[0] == "listeriosis" {
			found = true
		}
	}
	if !found {
		t.Errorf("listeriosis should be flagged as unfamiliar, got %v", ops)
	}

	// Known vocabulary is not flagged.
	out = processLearning(turnInput(t, "is chorioamnionitis dangerous?"))
	for _, op := range Opportunities(out) {
		if op.Kind == "unfamiliar_term" {
			t.Errorf("chorioamnionitis is known vocabulary, got %v", op)
		}
	}
}

func TestLearningAgentNegativeFeedback(t *testing.T) {
	out := processLearning(turnInput(t, "that didn't help at all"))
	found := false
	for _, op := range Opportunities(out) {
		if op.Kind == "negative_feedback" {
			found = true
		}
	}
	if !found {
		t.Error("negative feedback phrase not flagged")
	}
}
