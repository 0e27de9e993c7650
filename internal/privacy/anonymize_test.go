package privacy

import (
	"strings"
	"testing"
)

func TestAnonymizeSubstitutions(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"email", "reach me at jane.doe@example.com please", "reach me at [EMAIL] please"},
		{"phone", "call me at 555-867-5309", "call me at [PHONE]"},
		{"phone with area parens", "it's (415) 555-0133", "it's [PHONE]"},
		{"ssn before phone", "my ssn is 123-45-6789", "my ssn is [SSN]"},
		{"numeric date", "my due date is 03/15/2027", "my due date is [DATE]"},
		{"written date", "the appointment is on March 15, 2027", "the appointment is on [DATE]"},
		{"zip", "I live in 94110", "I live in [ZIP]"},
		{"provider", "Dr. Alvarez said to rest", "[PROVIDER] said to rest"},
		{"facility", "I was seen at Mercy General Hospital yesterday", "I was seen at [FACILITY] yesterday"},
		{"stated name", "hi, my name is Amara Okafor", "hi, my name is [NAME]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Anonymize(tt.in); got != tt.want {
				t.Errorf("Anonymize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAnonymizePreservesClinicalContent(t *testing.T) {
	in := "my blood pressure was 165/112 and I'm 34 weeks pregnant with a fever of 38.5 c"
	if got := Anonymize(in); got != in {
		t.Errorf("clinical measurements must survive scrubbing:\n in: %q\nout: %q", in, got)
	}
}

func TestAnonymizeIdempotent(t *testing.T) {
	in := "my name is Jane Smith, email jane@x.org, phone 555-123-4567, seen by Dr. Lee"
	once := Anonymize(in)
	if twice := Anonymize(once); twice != once {
		t.Errorf("not idempotent:\n once: %q\ntwice: %q", once, twice)
	}
	if strings.Contains(once, "Jane") || strings.Contains(once, "jane@x.org") {
		t.Errorf("identifying detail survived: %q", once)
	}
}

func TestHashUserID(t *testing.T) {
	a := HashUserID("user-1")
	b := HashUserID("user-1")
	c := HashUserID("user-2")

	if a != b {
		t.Error("hash must be stable for the same id")
	}
	if a == c {
		t.Error("distinct ids must not collide trivially")
	}
	if len(a) != 16 {
		t.Errorf("digest length = %d, want 16", len(a))
	}
	if strings.Contains(a, "user") {
		t.Error("hash must not embed the raw id")
	}
}
