// Package nlp contains the keyword and regex based lexical extractors. They
// are pure functions over message text; all tables are ordered and first
// match wins, which is load-bearing for downstream triage behavior.
package nlp

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/sandevgo/matria/internal/core"
)

// Extraction is everything the extractors derive from one message.
type Extraction struct {
	Intent           core.Intent
	Tone             core.Tone
	Symptoms         []core.ExtractedSymptom
	Entities         []core.MedicalEntity
	Emergency        bool
	EmergencyKeyword string
	GestationalWeek  int // 0 when the message does not state one
}

type Extractor struct {
	sanitizer *bluemonday.Policy
}

func NewExtractor() *Extractor {
	return &Extractor{
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Sanitize strips markup from inbound chat text. Mobile clients occasionally
// paste rich content; extraction operates on plain text only.
func (e *Extractor) Sanitize(text string) string {
	return html.UnescapeString(e.sanitizer.Sanitize(text))
}

// Extract runs the full lexical pass over one message. Never returns an
// error: empty or malformed input degrades to general intent, neutral tone
// and empty lists.
func (e *Extractor) Extract(text string) Extraction {
	clean := strings.TrimSpace(e.Sanitize(text))
	if clean == "" {
		return Extraction{Intent: core.IntentGeneral, Tone: core.ToneNeutral}
	}

	out := Extraction{
		Intent:          DetectIntent(clean),
		Tone:            DetectTone(clean),
		Symptoms:        ExtractSymptoms(clean),
		Entities:        ExtractEntities(clean),
		GestationalWeek: ExtractGestationalWeek(clean),
	}

	// The emergency pre-check runs on the raw lowered text before anything
	// else matters to the caller; a hit short-circuits the whole turn.
	if kw, ok := MatchEmergency(clean); ok {
		out.Emergency = true
		out.EmergencyKeyword = kw
		out.Intent = core.IntentEmergency
	}
	return out
}
