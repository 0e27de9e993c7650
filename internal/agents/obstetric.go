package agents

import (
	"fmt"
	"regexp"

	"github.com/sandevgo/matria/internal/core"
	"github.com/sandevgo/matria/internal/knowledge"
)

var pregnancyTopics = regexp.MustCompile(`(?i)\b(pregnan\w*|baby|fetus|fetal|trimester|weeks? along|due date|gestation|kicks?|movement)\b`)

func NewObstetricAgent() Agent {
	return Agent{
		Name:     ObstetricAgentName,
		Priority: 60,
		ShouldActivate: func(in Input) bool {
			return pregnancyTopics.MatchString(in.Message) || gestationalWeek(in) > 0
		},
		Process: processObstetric,
	}
}

func processObstetric(in Input) core.AgentOutput {
	out := core.AgentOutput{
		Agent:    ObstetricAgentName,
		Priority: 60,
	}

	week := gestationalWeek(in)
	if info, ok := knowledge.InfoForWeek(week); ok {
		out.Response = fmt.Sprintf("At week %d: %s %s", week, info.Summary, info.Guidance)
		out.Confidence = 0.8
		out.Metadata = map[string]any{"week": week}
		return out
	}

	out.Response = "Every pregnancy progresses a little differently. If you tell me how many weeks along you are, I can share what to expect at this stage."
	out.Confidence = 0.5
	return out
}
