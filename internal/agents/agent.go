// Package agents implements the independent scorers behind one chat turn.
// Each agent is a tagged variant: a name, a fixed priority weight, an
// activation predicate and a pure process function. The orchestrator holds
// the pool as plain values; there is no dispatch hierarchy.
package agents

import (
	"github.com/sandevgo/matria/internal/core"
	"github.com/sandevgo/matria/internal/nlp"
)

// Agent names double as contributor identifiers in orchestrator results.
const (
	TriageAgentName    = "Triage Agent"
	EmergencyAgentName = "Emergency Agent"
	SafetyAgentName    = "Safety Agent"
	ObstetricAgentName = "Obstetric Agent"
	EducationAgentName = "Education Agent"
	LearningAgentName  = "Learning Agent"
)

// Input is the shared view of a turn handed to every agent.
type Input struct {
	Message    string
	Extraction nlp.Extraction
	Context    *core.ConversationContext
	// Diagnosis is nil on the emergency short-circuit path.
	Diagnosis *core.DiagnosticResult
}

// Agent is one (kind, shouldActivate, process) tuple.
type Agent struct {
	Name     string
	Priority int
	// Meta agents (safety, learning) never compete for the content response.
	Meta           bool
	ShouldActivate func(Input) bool
	Process        func(Input) core.AgentOutput
}

// Pool returns the full agent set in a fixed order. The order carries no
// semantics beyond stable logging; arbitration is score-based.
func Pool() []Agent {
	return []Agent{
		NewEmergencyAgent(),
		NewTriageAgent(),
		NewObstetricAgent(),
		NewEducationAgent(),
		NewSafetyAgent(),
		NewLearningAgent(),
	}
}
