package nlp

import "strings"

// emergencyKeywords is the fixed high-acuity phrase list. Matching is
// case-insensitive substring search, checked before any other extraction.
// Order matters only for which keyword gets reported; any hit escalates.
var emergencyKeywords = []string{
	"severe bleeding",
	"heavy bleeding",
	"bleeding heavily",
	"seizure",
	"convulsion",
	"can't breathe",
	"cannot breathe",
	"can not breathe",
	"no fetal movement",
	"baby stopped moving",
	"baby isn't moving",
	"baby is not moving",
	"water broke",
	"waters broke",
	"my water just broke",
	"passing out",
	"passed out",
	"fainted",
	"unconscious",
	"chest pain",
	"severe abdominal pain",
	"suicidal",
	"want to hurt myself",
}

// MatchEmergency reports the first emergency keyword contained in the text.
func MatchEmergency(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, kw := range emergencyKeywords {
		if strings.Contains(lower, kw) {
			return kw, true
		}
	}
	return "", false
}

// EmergencyKeywords exposes a copy of the table for audit surfaces.
func EmergencyKeywords() []string {
	out := make([]string, len(emergencyKeywords))
	copy(out, emergencyKeywords)
	return out
}
