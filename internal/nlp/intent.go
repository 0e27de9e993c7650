package nlp

import (
	"regexp"

	"github.com/sandevgo/matria/internal/core"
)

type intentPattern struct {
	re     *regexp.Regexp
	intent core.Intent
}

// intentTable is ordered; the first matching pattern wins. Triggers may
// overlap with the tone table ("worried" hits both emotional-support intent
// and anxious tone) and are never reconciled.
var intentTable = []intentPattern{
	{regexp.MustCompile(`(?i)\b(emergency|call 911|ambulance|help me now)\b`), core.IntentEmergency},
	{regexp.MustCompile(`(?i)\b(worried|scared|anxious|afraid|stressed|overwhelmed|crying|feel so alone|depressed)\b`), core.IntentEmotionalSupport},
	{regexp.MustCompile(`(?i)\b(medication|medicine|pills?|dose|dosage|prescri\w*|tablets?|ibuprofen|acetaminophen|paracetamol)\b`), core.IntentMedication},
	{regexp.MustCompile(`(?i)\b(appointment|reschedul\w*|schedule|checkup|check-up|prenatal visit)\b`), core.IntentAppointment},
	{regexp.MustCompile(`(?i)\b(i (have|feel|am having|am feeling|keep having)|i'?ve been (having|feeling)|experiencing|suffering from|hurts?|pain|ache|bleeding|spotting|nausea|vomit\w*|swelling|swollen|dizzy|cramp\w*|contractions?|fever)\b`), core.IntentSymptomReport},
	{regexp.MustCompile(`(?i)(\?|^\s*(what|when|where|how|why|can|could|should|is it|are there|do i|does))`), core.IntentQuestion},
}

// DetectIntent returns the single best intent for the message, defaulting to
// general when nothing matches.
func DetectIntent(text string) core.Intent {
	for _, p := range intentTable {
		if p.re.MatchString(text) {
			return p.intent
		}
	}
	return core.IntentGeneral
}
