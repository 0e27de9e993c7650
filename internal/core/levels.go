package core

import "fmt"

// RiskLevel is the ordinal clinical severity band. Within a turn it is
// monotonically non-decreasing: stages fold new evidence in with MaxRisk and
// never lower a level once raised.
type RiskLevel int

const (
	RiskLevel1 RiskLevel = iota + 1 // routine concern
	RiskLevel2
	RiskLevel3
	RiskLevel4 // highest concern
)

var riskNames = map[RiskLevel]string{
	RiskLevel1: "level_1",
	RiskLevel2: "level_2",
	RiskLevel3: "level_3",
	RiskLevel4: "level_4",
}

func (r RiskLevel) String() string {
	if s, ok := riskNames[r]; ok {
		return s
	}
	// Out-of-range ordinals clamp to the safest value.
	return riskNames[RiskLevel4]
}

func (r RiskLevel) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *RiskLevel) UnmarshalText(b []byte) error {
	for lvl, name := range riskNames {
		if name == string(b) {
			*r = lvl
			return nil
		}
	}
	return fmt.Errorf("unknown risk level %q", b)
}

// Valid reports whether r is inside the defined ordinal set.
func (r RiskLevel) Valid() bool {
	_, ok := riskNames[r]
	return ok
}

// Clamp returns r, or RiskLevel4 when r is outside the ordinal set. Callers
// log the violation; the user must still see the safest interpretation.
func (r RiskLevel) Clamp() RiskLevel {
	if !r.Valid() {
		return RiskLevel4
	}
	return r
}

func MaxRisk(a, b RiskLevel) RiskLevel {
	a, b = a.Clamp(), b.Clamp()
	if a > b {
		return a
	}
	return b
}

// Urgency is the ordinal response-timeframe band. Separate axis from risk
// level, same monotonic folding rule.
type Urgency int

const (
	UrgencyRoutine Urgency = iota + 1
	UrgencySoon
	UrgencyUrgent
	UrgencyEmergency
)

var urgencyNames = map[Urgency]string{
	UrgencyRoutine:   "routine",
	UrgencySoon:      "soon",
	UrgencyUrgent:    "urgent",
	UrgencyEmergency: "emergency",
}

func (u Urgency) String() string {
	if s, ok := urgencyNames[u]; ok {
		return s
	}
	return urgencyNames[UrgencyEmergency]
}

func (u Urgency) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *Urgency) UnmarshalText(b []byte) error {
	for urg, name := range urgencyNames {
		if name == string(b) {
			*u = urg
			return nil
		}
	}
	return fmt.Errorf("unknown urgency %q", b)
}

func (u Urgency) Valid() bool {
	_, ok := urgencyNames[u]
	return ok
}

func (u Urgency) Clamp() Urgency {
	if !u.Valid() {
		return UrgencyEmergency
	}
	return u
}

func MaxUrgency(a, b Urgency) Urgency {
	a, b = a.Clamp(), b.Clamp()
	if a > b {
		return a
	}
	return b
}

// Severity is the ordinal symptom severity reported by extractors.
type Severity int

const (
	SeverityMild Severity = iota + 1
	SeverityModerate
	SeveritySevere
	SeverityCritical
)

var severityNames = map[Severity]string{
	SeverityMild:     "mild",
	SeverityModerate: "moderate",
	SeveritySevere:   "severe",
	SeverityCritical: "critical",
}

func (s Severity) String() string {
	if n, ok := severityNames[s]; ok {
		return n
	}
	return severityNames[SeverityCritical]
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(b []byte) error {
	for sev, name := range severityNames {
		if name == string(b) {
			*s = sev
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", b)
}
