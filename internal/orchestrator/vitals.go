package orchestrator

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sandevgo/matria/internal/core"
)

var (
	bpValue   = regexp.MustCompile(`(\d{2,3})\s*/\s*(\d{2,3})`)
	tempValue = regexp.MustCompile(`(?i)(\d{2,3}(?:\.\d)?)\s*(?:°\s*)?(?:degrees\s*)?(f|c|fahrenheit|celsius)`)
	hrValue   = regexp.MustCompile(`(\d{2,3})`)
)

// vitalsFromEntities recovers structured vital signs from the extractor's
// measurement entities. Returns nil when the message carried none, so the
// reasoner skips vital indicators entirely.
func vitalsFromEntities(entities []core.MedicalEntity) *core.VitalSigns {
	var v core.VitalSigns
	found := false

	for _, e := range entities {
		if e.Type != core.EntityMeasurement {
			continue
		}
		switch {
		case strings.HasPrefix(e.Value, "blood pressure"):
			if m := bpValue.FindStringSubmatch(e.Value); m != nil {
				v.SystolicBP, _ = strconv.ParseFloat(m[1], 64)
				v.DiastolicBP, _ = strconv.ParseFloat(m[2], 64)
				found = true
			}
		case strings.HasPrefix(e.Value, "temperature"):
			if m := tempValue.FindStringSubmatch(e.Value); m != nil {
				t, _ := strconv.ParseFloat(m[1], 64)
				if unit := strings.ToLower(m[2]); unit == "f" || unit == "fahrenheit" {
					t = (t - 32) * 5 / 9
				}
				v.Temperature = t
				found = true
			}
		case strings.HasPrefix(e.Value, "heart rate"):
			if m := hrValue.FindStringSubmatch(e.Value); m != nil {
				v.HeartRate, _ = strconv.ParseFloat(m[1], 64)
				found = true
			}
		case strings.HasPrefix(e.Value, "weight"):
			if m := hrValue.FindStringSubmatch(e.Value); m != nil {
				w, _ := strconv.ParseFloat(m[1], 64)
				if strings.Contains(strings.ToLower(e.Value), "lb") || strings.Contains(strings.ToLower(e.Value), "pound") {
					w *= 0.4536
				}
				v.Weight = w
				found = true
			}
		}
	}

	if !found {
		return nil
	}
	return &v
}
