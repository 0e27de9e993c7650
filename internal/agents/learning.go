package agents

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sandevgo/matria/internal/core"
)

// The learning agent is a pure side channel: it observes every turn, never
// contributes to the response, and flags material for human curation.

var medicalSoundingTerm = regexp.MustCompile(`(?i)\b\w{4,}(itis|osis|emia|pathy|plasia|algia|ectomy)\b`)

// knownTerms are medical-sounding words the knowledgebase already covers.
var knownTerms = map[string]bool{
	"chorioamnionitis": true,
	"preeclampsia":     true,
	"anemia":           true,
	"hyperemesis":      true,
}

var negativeFeedback = []string{
	"that didn't help",
	"that doesn't help",
	"not helpful",
	"you don't understand",
	"that's wrong",
	"that is wrong",
	"useless",
	"you already said that",
}

func NewLearningAgent() Agent {
	return Agent{
		Name:     LearningAgentName,
		Priority: 10,
		Meta:     true,
		ShouldActivate: func(Input) bool {
			return true // background observer
		},
		Process: processLearning,
	}
}

func processLearning(in Input) core.AgentOutput {
	var opportunities []core.LearningOpportunity

	if n := len(in.Extraction.Symptoms); n >= 3 {
		var names []string
		for _, s := range in.Extraction.Symptoms {
			names = append(names, s.Name)
		}
		opportunities = append(opportunities, core.LearningOpportunity{
			Kind:   "symptom_cluster",
			Detail: fmt.Sprintf("%d co-occurring symptoms in one message", n),
			Terms:  names,
		})
	}

	for _, m := range medicalSoundingTerm.FindAllString(in.Message, -1) {
		term := strings.ToLower(m)
		if !knownTerms[term] {
			opportunities = append(opportunities, core.LearningOpportunity{
				Kind:   "unfamiliar_term",
				Detail: fmt.Sprintf("medical-sounding term %q is not in the known vocabulary", term),
				Terms:  []string{term},
			})
		}
	}

	lower := strings.ToLower(in.Message)
	for _, phrase := range negativeFeedback {
		if strings.Contains(lower, phrase) {
			opportunities = append(opportunities, core.LearningOpportunity{
				Kind:   "negative_feedback",
				Detail: fmt.Sprintf("user feedback phrase %q", phrase),
			})
			break
		}
	}

	return core.AgentOutput{
		Agent:      LearningAgentName,
		Confidence: 0, // never counted toward response selection
		Priority:   10,
		Metadata:   map[string]any{"opportunities": opportunities},
	}
}

// Opportunities unpacks the learning agent's side-channel output.
func Opportunities(out core.AgentOutput) []core.LearningOpportunity {
	if out.Metadata == nil {
		return nil
	}
	ops, _ := out.Metadata["opportunities"].([]core.LearningOpportunity)
	return ops
}
