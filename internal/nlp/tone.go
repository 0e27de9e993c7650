package nlp

import (
	"regexp"

	"github.com/sandevgo/matria/internal/core"
)

type tonePattern struct {
	re   *regexp.Regexp
	tone core.Tone
}

// toneTable is ordered, first match wins, default neutral.
var toneTable = []tonePattern{
	{regexp.MustCompile(`(?i)\b(terrified|panick\w*|desperate|unbearable|screaming|dying|emergency)\b`), core.ToneDistressed},
	{regexp.MustCompile(`(?i)\b(worried|scared|anxious|nervous|afraid|concerned|freaking out|on edge)\b`), core.ToneAnxious},
	{regexp.MustCompile(`(?i)\b(confused|unsure|don'?t understand|not sure what|unclear|what does (this|that|it) mean)\b`), core.ToneConfused},
	{regexp.MustCompile(`(?i)\b(thank(s| you)|just checking|just curious|feeling (fine|good|okay)|all good|no rush)\b`), core.ToneCalm},
}

// DetectTone returns the emotional tone of the message.
func DetectTone(text string) core.Tone {
	for _, p := range toneTable {
		if p.re.MatchString(text) {
			return p.tone
		}
	}
	return core.ToneNeutral
}
