package nlp

import (
	"regexp"
	"strconv"

	"github.com/sandevgo/matria/internal/core"
)

var (
	bpPattern        = regexp.MustCompile(`\b(\d{2,3})\s*/\s*(\d{2,3})\b`)
	tempPattern      = regexp.MustCompile(`(?i)\b(\d{2,3}(?:\.\d)?)\s*(?:°\s*)?(?:degrees\s*)?(f|c|fahrenheit|celsius)\b`)
	weightPattern    = regexp.MustCompile(`(?i)\b(\d{2,3}(?:\.\d)?)\s*(kg|kilograms?|lbs?|pounds?)\b`)
	heartratePattern = regexp.MustCompile(`(?i)\b(\d{2,3})\s*(bpm|beats per minute)\b`)
	timePattern      = regexp.MustCompile(`(?i)\b(?:for|since|over)\s+(?:the\s+)?(?:last\s+)?((?:\d+|a few|a couple of|several)\s+(?:minutes?|hours?|days?|weeks?)|yesterday|last night|this morning|tonight|today)\b`)
	bodyPartPattern  = regexp.MustCompile(`(?i)\b(head|stomach|belly|abdomen|lower back|back|legs?|feet|ankles?|hands?|chest|pelvis|hips?)\b`)
	medsPattern      = regexp.MustCompile(`(?i)\b(prenatal vitamins?|folic acid|iron supplements?|ibuprofen|acetaminophen|paracetamol|aspirin|insulin|labetalol|nifedipine|metformin)\b`)
	weekPattern      = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:weeks?|wks?)(?:\s+(?:pregnant|along|gestation))?\b`)
)

// ExtractEntities detects typed spans in a single message. Confidences are
// fixed per pattern class; regex extraction has no graded signal.
func ExtractEntities(text string) []core.MedicalEntity {
	var out []core.MedicalEntity

	for _, m := range bpPattern.FindAllString(text, -1) {
		out = append(out, core.MedicalEntity{Type: core.EntityMeasurement, Value: "blood pressure " + m, Confidence: 0.9})
	}
	for _, m := range tempPattern.FindAllString(text, -1) {
		out = append(out, core.MedicalEntity{Type: core.EntityMeasurement, Value: "temperature " + m, Confidence: 0.85})
	}
	for _, m := range weightPattern.FindAllString(text, -1) {
		out = append(out, core.MedicalEntity{Type: core.EntityMeasurement, Value: "weight " + m, Confidence: 0.85})
	}
	for _, m := range heartratePattern.FindAllString(text, -1) {
		out = append(out, core.MedicalEntity{Type: core.EntityMeasurement, Value: "heart rate " + m, Confidence: 0.85})
	}
	for _, m := range timePattern.FindAllStringSubmatch(text, -1) {
		out = append(out, core.MedicalEntity{Type: core.EntityTimeExpression, Value: m[1], Confidence: 0.7})
	}
	for _, m := range bodyPartPattern.FindAllString(text, -1) {
		out = append(out, core.MedicalEntity{Type: core.EntityBodyPart, Value: m, Confidence: 0.6})
	}
	for _, m := range medsPattern.FindAllString(text, -1) {
		out = append(out, core.MedicalEntity{Type: core.EntityMedication, Value: m, Confidence: 0.8})
	}
	return out
}

// ExtractGestationalWeek returns a stated gestational week, or 0.
func ExtractGestationalWeek(text string) int {
	m := weekPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	week, err := strconv.Atoi(m[1])
	if err != nil || week < 1 || week > 45 {
		return 0
	}
	return week
}
