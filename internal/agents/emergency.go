package agents

import (
	"fmt"
	"regexp"

	"github.com/sandevgo/matria/internal/core"
)

type emergencySeverity int

const (
	// watch patterns activate the agent and mark the turn in metadata but do
	// not escalate; critical patterns end the turn immediately.
	severityWatch emergencySeverity = iota
	severityCritical
)

type emergencyPattern struct {
	re       *regexp.Regexp
	severity emergencySeverity
	action   string
}

// emergencyTable is ordered; the first match decides the action.
var emergencyTable = []emergencyPattern{
	{regexp.MustCompile(`(?i)(severe|heavy)\s+bleeding|hemorrhag`), severityCritical,
		"Call emergency services or go to the nearest emergency department right now. Heavy bleeding in pregnancy is an emergency."},
	{regexp.MustCompile(`(?i)seizure|convulsion`), severityCritical,
		"Call emergency services immediately. Seizures in pregnancy need emergency treatment."},
	{regexp.MustCompile(`(?i)can'?t breathe|cannot breathe|struggling to breathe`), severityCritical,
		"Call emergency services now. Difficulty breathing needs immediate assessment."},
	{regexp.MustCompile(`(?i)no fetal movement|baby (stopped|isn'?t|is not|hasn'?t been) moving`), severityCritical,
		"Go to labor and delivery now for fetal monitoring. Do not wait at home."},
	{regexp.MustCompile(`(?i)waters? (just )?broke`), severityCritical,
		"Contact your maternity unit now and prepare to go in. Note the time and the color of the fluid."},
	{regexp.MustCompile(`(?i)unconscious|passed out|fainted|passing out`), severityCritical,
		"Call emergency services. Loss of consciousness in pregnancy requires immediate evaluation."},
	{regexp.MustCompile(`(?i)chest pain`), severityCritical,
		"Call emergency services now. Chest pain must be evaluated immediately."},
	{regexp.MustCompile(`(?i)suicid|want to hurt myself|end my life`), severityCritical,
		"Please reach out right now: call or text a crisis line, or go to the nearest emergency department. You deserve immediate support."},
	{regexp.MustCompile(`(?i)\bbleeding\b|\bspotting\b`), severityWatch,
		"Any bleeding in pregnancy should be reported to your provider. Please call them today and mention how much and for how long."},
	{regexp.MustCompile(`(?i)severe\s+(head|abdominal|stomach|pelvic)?\s*pain`), severityWatch,
		"Severe pain should be assessed promptly. Please contact your healthcare provider or maternity unit today."},
	{regexp.MustCompile(`(?i)contractions?`), severityWatch,
		"Time your contractions. If they are regular, getting stronger, or you are before 37 weeks, contact labor and delivery."},
}

func NewEmergencyAgent() Agent {
	return Agent{
		Name:     EmergencyAgentName,
		Priority: 100,
		ShouldActivate: func(in Input) bool {
			if in.Extraction.Emergency {
				return true
			}
			for _, p := range emergencyTable {
				if p.re.MatchString(in.Message) {
					return true
				}
			}
			return false
		},
		Process: processEmergency,
	}
}

func processEmergency(in Input) core.AgentOutput {
	out := core.AgentOutput{
		Agent:    EmergencyAgentName,
		Priority: 100,
		Metadata: map[string]any{},
	}

	// The keyword pre-check escalates unconditionally, even when no regex
	// pattern adds a specific action.
	if in.Extraction.Emergency {
		out.Escalate = true
		out.EscalationReason = fmt.Sprintf("emergency keyword detected: %q", in.Extraction.EmergencyKeyword)
		out.Metadata["pattern_matched"] = true
	}

	for _, p := range emergencyTable {
		if !p.re.MatchString(in.Message) {
			continue
		}
		out.Metadata["pattern_matched"] = true
		out.Response = p.action
		if p.severity == severityCritical {
			out.Escalate = true
			if out.EscalationReason == "" {
				out.EscalationReason = fmt.Sprintf("emergency pattern matched: %s", p.re.String())
			}
		}
		break // first match decides the action
	}

	if out.Response == "" && out.Escalate {
		out.Response = "This sounds like it could be an emergency. Please call emergency services or go to the nearest emergency department now."
	}

	if out.Escalate {
		out.Confidence = 0.95
	} else {
		out.Confidence = 0.7
	}
	return out
}
