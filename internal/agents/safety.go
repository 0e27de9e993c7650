package agents

import (
	"regexp"
	"strings"

	"github.com/sandevgo/matria/internal/core"
)

// unsafeTopics is the fixed list of request patterns that require a human in
// the loop before any automated guidance.
var unsafeTopics = []*regexp.Regexp{
	regexp.MustCompile(`(?i)skip(ping)? (my )?(prenatal|antenatal) (care|visits?|appointments?)`),
	regexp.MustCompile(`(?i)(self[- ]?induce|induce (labor|labour) (at home|myself|naturally))`),
	regexp.MustCompile(`(?i)castor oil.*(induce|labor|labour)`),
	regexp.MustCompile(`(?i)stop(ping)? (taking )?(my )?(medication|meds|insulin|blood pressure)`),
	regexp.MustCompile(`(?i)(home remedy|herbal).*(abortion|miscarry|end (the |my )?pregnancy)`),
	regexp.MustCompile(`(?i)how much (alcohol|wine|beer).*(safe|okay|ok)`),
	regexp.MustCompile(`(?i)avoid(ing)? the hospital`),
}

// definitivePhrasings maps absolute medical claims to hedged replacements.
// Replacement output never re-matches its own pattern, which keeps the
// filter idempotent.
var definitivePhrasings = []struct {
	re          *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)\byou definitely have\b`), "you may have"},
	{regexp.MustCompile(`(?i)\byou certainly have\b`), "you may have"},
	{regexp.MustCompile(`(?i)\bthis is definitely\b`), "this could be"},
	{regexp.MustCompile(`(?i)\bthis is certainly\b`), "this could be"},
	{regexp.MustCompile(`(?i)\bwill definitely\b`), "may"},
	{regexp.MustCompile(`(?i)\bwill cure\b`), "may help with"},
	{regexp.MustCompile(`(?i)\bis guaranteed to\b`), "may"},
	{regexp.MustCompile(`(?i)\bthere is no doubt\b`), "it is possible"},
}

var (
	adviceLanguage   = regexp.MustCompile(`(?i)\b(you should|we recommend|consider taking|try taking|take \d+|best to)\b`)
	providerMention  = regexp.MustCompile(`(?i)(healthcare provider|your doctor|your midwife|your obstetrician|labor and delivery|emergency services|maternity unit)`)
	providerReminder = "Please discuss this with your healthcare provider before acting on it."
)

func NewSafetyAgent() Agent {
	return Agent{
		Name:     SafetyAgentName,
		Priority: 90,
		Meta:     true,
		ShouldActivate: func(Input) bool {
			return true // safety always reviews the turn
		},
		Process: processSafety,
	}
}

func processSafety(in Input) core.AgentOutput {
	out := core.AgentOutput{
		Agent:      SafetyAgentName,
		Confidence: 0.9,
		Priority:   90,
		Metadata:   map[string]any{},
	}

	for _, re := range unsafeTopics {
		if re.MatchString(in.Message) {
			out.RequiresHumanReview = true
			out.Metadata["unsafe_topic"] = re.String()
			out.Response = "I can't help with that safely. Please talk to your healthcare provider about this — they can discuss your options without judgment."
			break
		}
	}
	return out
}

// FilterResponse post-processes a candidate final response: absolute claims
// are hedged and a provider reminder is appended when advice language has
// none. Running the filter twice yields the same text as running it once.
func FilterResponse(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	for _, p := range definitivePhrasings {
		text = p.re.ReplaceAllString(text, p.replacement)
	}

	if adviceLanguage.MatchString(text) && !providerMention.MatchString(text) {
		text = strings.TrimRight(text, " ") + " " + providerReminder
	}
	return text
}
