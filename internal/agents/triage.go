package agents

import (
	"fmt"
	"strings"

	"github.com/sandevgo/matria/internal/core"
)

// lateWeekThreshold raises triage sensitivity by one band in late pregnancy.
const lateWeekThreshold = 36

var urgentTriageKeywords = []string{
	"bleeding",
	"severe pain",
	"contractions",
	"fever",
	"blurred vision",
	"vision changes",
	"fainted",
	"leaking fluid",
	"decreased movement",
	"baby moving less",
	"severe headache",
	"swelling in face",
}

var moderateTriageKeywords = []string{
	"headache",
	"nausea",
	"vomiting",
	"cramping",
	"back pain",
	"dizzy",
	"dizziness",
	"swelling",
	"tired",
	"discharge",
	"itching",
}

func NewTriageAgent() Agent {
	return Agent{
		Name:     TriageAgentName,
		Priority: 80,
		ShouldActivate: func(in Input) bool {
			// Triage looks at anything symptom-shaped.
			return len(in.Extraction.Symptoms) > 0 ||
				in.Extraction.Intent == core.IntentSymptomReport ||
				countMatches(in.Message, urgentTriageKeywords) > 0 ||
				countMatches(in.Message, moderateTriageKeywords) > 0
		},
		Process: processTriage,
	}
}

func processTriage(in Input) core.AgentOutput {
	urgent := countMatches(in.Message, urgentTriageKeywords)
	moderate := countMatches(in.Message, moderateTriageKeywords)

	var band core.Urgency
	switch {
	case urgent >= 2:
		band = core.UrgencyEmergency
	case urgent == 1:
		band = core.UrgencyUrgent
	case moderate >= 1:
		band = core.UrgencySoon
	default:
		band = core.UrgencyRoutine
	}

	// Late pregnancy or an already elevated risk context raises sensitivity
	// by one band and flags a non-fatal escalation.
	escalate := false
	reason := ""
	week := gestationalWeek(in)
	if week > lateWeekThreshold || contextRiskHigh(in.Context) {
		if band < core.UrgencyEmergency {
			band++
		}
		escalate = true
		if week > lateWeekThreshold {
			reason = fmt.Sprintf("late pregnancy (week %d) raises triage sensitivity", week)
		} else {
			reason = "session risk context already elevated"
		}
	}

	confidence := 0.6 + 0.1*float64(urgent+moderate)
	if confidence > 0.9 {
		confidence = 0.9
	}

	return core.AgentOutput{
		Agent:      TriageAgentName,
		Response:   triageResponse(band),
		Confidence: confidence,
		Priority:   80,
		Metadata: map[string]any{
			"urgency":          band.String(),
			"urgent_matches":   urgent,
			"moderate_matches": moderate,
		},
		Escalate:         escalate,
		EscalationReason: reason,
	}
}

func triageResponse(band core.Urgency) string {
	switch band {
	case core.UrgencyEmergency:
		return "What you're describing needs immediate attention. Please contact emergency services or go to labor and delivery now."
	case core.UrgencyUrgent:
		return "These symptoms should be looked at today. Please contact your healthcare provider or maternity unit as soon as you can."
	case core.UrgencySoon:
		return "This is worth getting checked. Please arrange to speak with your healthcare provider within the next day or two."
	default:
		return "Nothing you've described sounds alarming, but keep an eye on it and mention it at your next prenatal visit."
	}
}

func countMatches(message string, keywords []string) int {
	lower := strings.ToLower(message)
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

func contextRiskHigh(ctx *core.ConversationContext) bool {
	return ctx != nil && ctx.RiskLevel >= core.RiskLevel3
}

func gestationalWeek(in Input) int {
	if in.Extraction.GestationalWeek > 0 {
		return in.Extraction.GestationalWeek
	}
	if in.Context != nil {
		return in.Context.GestationalWeek
	}
	return 0
}
