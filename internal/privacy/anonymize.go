// Package privacy scrubs identifying detail from conversation text before it
// crosses the persistence boundary. Scrubbing is pattern based and runs on
// write only; in-memory session state keeps the original text for the turn.
package privacy

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
)

// substitutions is ordered: specific digit shapes (SSN) must run before the
// generic phone pattern swallows them.
var substitutions = []struct {
	re          *regexp.Regexp
	placeholder string
}{
	{regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), "[SSN]"},
	{regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`), "[EMAIL]"},
	{regexp.MustCompile(`(?:\+?1[\s.-]?)?(?:\(\d{3}\)|\b\d{3})[\s.-]?\d{3}[\s.-]?\d{4}\b`), "[PHONE]"},
	{regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`), "[DATE]"},
	{regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?\b`), "[DATE]"},
	{regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`), "[ZIP]"},
	{regexp.MustCompile(`(?i)\b(?:dr\.?|doctor)\s+[A-Z][a-z]+\b`), "[PROVIDER]"},
	{regexp.MustCompile(`\b(?:[A-Z][a-z]+\s+){1,3}(?:Hospital|Clinic|Medical Center|Birth Center|Health Center)\b`), "[FACILITY]"},
	{regexp.MustCompile(`(?i)\bmy name is\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?`), "my name is [NAME]"},
	{regexp.MustCompile(`(?i)\bi'?m called\s+[A-Z][a-z]+\b`), "I'm called [NAME]"},
}

// Anonymize replaces identifying spans with fixed placeholder tokens. The
// output is stable: anonymizing twice yields the same text.
func Anonymize(text string) string {
	for _, s := range substitutions {
		text = s.re.ReplaceAllString(text, s.placeholder)
	}
	return text
}

// HashUserID derives a stable pseudonymous identifier. The truncated digest
// keys persisted records without storing the caller-supplied id.
func HashUserID(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:])[:16]
}
