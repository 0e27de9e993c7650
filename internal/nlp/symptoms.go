package nlp

import (
	"regexp"
	"strings"

	"github.com/sandevgo/matria/internal/core"
)

type symptomPattern struct {
	re *regexp.Regexp
	// name is the canonical symptom name; empty means take capture group 1.
	name string
}

// symptomTable is ordered so that more specific phrasings land before the
// generic patterns that would otherwise swallow them.
var symptomTable = []symptomPattern{
	{regexp.MustCompile(`(?i)\b(?:severe|heavy)\s+bleeding\b`), "heavy bleeding"},
	{regexp.MustCompile(`(?i)\b(bleeding|spotting)\b`), ""},
	{regexp.MustCompile(`(?i)\b(?:baby (?:isn'?t|is not|hasn'?t been|stopped) moving|decreased (?:fetal )?movement|feeling less movement|fewer kicks)\b`), "decreased fetal movement"},
	{regexp.MustCompile(`(?i)\bcontractions?\b`), "contractions"},
	{regexp.MustCompile(`(?i)\b(?:blurry|blurred)\s+vision|seeing spots\b`), "blurred vision"},
	{regexp.MustCompile(`(?i)\b(headaches?|migraines?)\b`), ""},
	{regexp.MustCompile(`(?i)\b(?:throwing up|vomit(?:ing|ed)?)\b`), "vomiting"},
	{regexp.MustCompile(`(?i)\bnause(?:a|ous|ated)\b`), "nausea"},
	{regexp.MustCompile(`(?i)\b(?:swelling|swollen)\b`), "swelling"},
	{regexp.MustCompile(`(?i)\b(?:dizzy|dizziness|light-?headed)\b`), "dizziness"},
	{regexp.MustCompile(`(?i)\b(?:fatigue|exhausted|so tired|tired all the time)\b`), "fatigue"},
	{regexp.MustCompile(`(?i)\b(?:fever|feverish|running a temperature)\b`), "fever"},
	{regexp.MustCompile(`(?i)\b(?:lower\s+)?back\s*(?:pain|ache)\b`), "back pain"},
	{regexp.MustCompile(`(?i)\b(?:stomach|belly|abdominal|abdomen)\s*(?:pain|ache|cramps?)|pain in my (?:stomach|belly|abdomen)\b`), "abdominal pain"},
	{regexp.MustCompile(`(?i)\bcramp(?:s|ing)?\b`), "cramping"},
	{regexp.MustCompile(`(?i)\b(?:short(?:ness)? of breath|breathless|hard to breathe)\b`), "shortness of breath"},
	{regexp.MustCompile(`(?i)\bburn(?:ing|s)?\s+(?:when|while|during)\s+(?:i\s+)?(?:pee|urinat\w*)\b`), "burning urination"},
	{regexp.MustCompile(`(?i)\b(?:leaking fluid|watery discharge|discharge)\b`), "discharge"},
	{regexp.MustCompile(`(?i)\b(?:itch(?:y|ing)|rash)\b`), "itching"},
	{regexp.MustCompile(`(?i)\b(?:heartburn|acid reflux)\b`), "heartburn"},
	{regexp.MustCompile(`(?i)\b(?:constipat(?:ed|ion))\b`), "constipation"},
}

var (
	severeQualifier = regexp.MustCompile(`(?i)\b(severe|unbearable|extreme|worst|intense|excruciating|terrible)\b`)
	mildQualifier   = regexp.MustCompile(`(?i)\b(mild|slight|a (?:little|bit)|minor|light)\b`)
	durationPattern = regexp.MustCompile(`(?i)\b(?:for|since|over)\s+(?:the\s+)?((?:\d+|a few|a couple of|several)\s+(?:minutes?|hours?|days?|weeks?)|yesterday|last night|this morning)\b`)
	frequencyWords  = regexp.MustCompile(`(?i)\b(constant(?:ly)?|comes? and goes|on and off|every (?:\d+|few) (?:minutes?|hours?)|intermittent)\b`)
)

// ExtractSymptoms returns the symptoms mentioned in the text, deduplicated by
// case-insensitive name keeping the first occurrence.
func ExtractSymptoms(text string) []core.ExtractedSymptom {
	var out []core.ExtractedSymptom
	seen := map[string]bool{}

	duration := ""
	if m := durationPattern.FindStringSubmatch(text); m != nil {
		duration = strings.ToLower(m[1])
	}
	frequency := ""
	if m := frequencyWords.FindString(text); m != "" {
		frequency = strings.ToLower(m)
	}

	for _, p := range symptomTable {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := p.name
		if name == "" && len(m) > 1 {
			name = strings.ToLower(m[1])
		}
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		out = append(out, core.ExtractedSymptom{
			Name:      name,
			Severity:  inferSeverity(text),
			Duration:  duration,
			Frequency: frequency,
			Location:  locateBodyPart(text),
		})
	}
	return out
}

// inferSeverity reads qualifier words from the whole message. The window is
// deliberately coarse; patients rarely qualify individual symptoms.
func inferSeverity(text string) core.Severity {
	switch {
	case severeQualifier.MatchString(text):
		return core.SeveritySevere
	case mildQualifier.MatchString(text):
		return core.SeverityMild
	default:
		return core.SeverityModerate
	}
}

func locateBodyPart(text string) string {
	if m := bodyPartPattern.FindString(text); m != "" {
		return strings.ToLower(m)
	}
	return ""
}
