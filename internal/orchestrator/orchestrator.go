package orchestrator

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sandevgo/matria/internal/agents"
	"github.com/sandevgo/matria/internal/core"
	"github.com/sandevgo/matria/internal/nlp"
	"github.com/sandevgo/matria/internal/reasoner"
	"github.com/sandevgo/matria/pkg/log"
)

// selection weights: a high-priority agent with modest confidence should
// still lose to a confident specialist, so confidence carries more weight.
const (
	priorityWeight   = 0.4
	confidenceWeight = 0.6
)

// emergencyConfidence is the fixed confidence of an escalated turn; the pool
// mean never applies once the emergency agent takes over.
const emergencyConfidence = 0.95

// Orchestrator runs one chat turn end to end: extraction, diagnostic
// reasoning, the agent pool, response selection and context mutation.
// It holds no per-session state; the caller owns context storage.
type Orchestrator struct {
	extractor *nlp.Extractor
	reasoner  *reasoner.Reasoner
	pool      []agents.Agent
}

func New() *Orchestrator {
	return &Orchestrator{
		extractor: nlp.NewExtractor(),
		reasoner:  reasoner.New(),
		pool:      agents.Pool(),
	}
}

// Process handles one inbound message. It never returns an error: any agent
// panic becomes an abstention and the turn degrades to whatever the rest of
// the pool produced.
func (o *Orchestrator) Process(ctx context.Context, in core.TurnInput) core.OrchestratorResult {
	l := log.FromCtx(ctx)

	cc := in.Context
	if cc == nil {
		cc = &core.ConversationContext{
			SessionID: uuid.NewString(),
			UserID:    in.UserID,
			Role:      in.Role,
			RiskLevel: core.RiskLevel1,
		}
	}

	extraction := o.extractor.Extract(in.Message)

	// Emergency keywords end the turn before any other work. The emergency
	// agent's response goes out unfiltered; hedging an emergency instruction
	// would make it worse, not safer.
	if extraction.Emergency {
		l.Warn().
			Str("session_id", cc.SessionID).
			Str("keyword", extraction.EmergencyKeyword).
			Msg("emergency keyword short-circuit")
		return o.emergencyTurn(in, extraction, cc)
	}

	diagnosis := o.reasoner.Analyze(diagnosticInput(cc, extraction))

	agentIn := agents.Input{
		Message:    in.Message,
		Extraction: extraction,
		Context:    cc,
		Diagnosis:  &diagnosis,
	}
	outputs := o.runPool(ctx, agentIn)

	// An escalating emergency agent ends the turn on its own, even when no
	// keyword pre-check fired: sole contributor, fixed confidence, and no
	// filtering or override may touch the emergency instructions.
	if em := escalatedEmergency(outputs); em != nil {
		l.Warn().
			Str("session_id", cc.SessionID).
			Str("reason", em.EscalationReason).
			Msg("emergency agent escalation")
		result := core.OrchestratorResult{
			Response:           em.Response,
			Contributors:       []string{agents.EmergencyAgentName},
			Consensus:          true,
			Confidence:         emergencyConfidence,
			RequiresEscalation: true,
			EscalationReason:   em.EscalationReason,
			Diagnosis:          &diagnosis,
			Context:            cc,
		}
		updateContext(cc, in, extraction, &diagnosis, result.Response)
		cc.RiskLevel = core.RiskLevel4
		return result
	}

	result := o.merge(ctx, outputs, &diagnosis)
	result.Diagnosis = &diagnosis
	result.Context = cc

	updateContext(cc, in, extraction, &diagnosis, result.Response)

	l.Info().
		Str("session_id", cc.SessionID).
		Strs("contributors", result.Contributors).
		Float64("confidence", result.Confidence).
		Bool("escalation", result.RequiresEscalation).
		Str("risk_level", diagnosis.RiskLevel.String()).
		Msg("turn processed")
	return result
}

// runPool executes every activating agent concurrently. A panicking agent
// abstains from the turn; it never takes down the others.
func (o *Orchestrator) runPool(ctx context.Context, in agents.Input) []core.AgentOutput {
	l := log.FromCtx(ctx)

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		outputs []core.AgentOutput
	)
	for _, a := range o.pool {
		if !a.ShouldActivate(in) {
			continue
		}
		wg.Add(1)
		go func(a agents.Agent) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					l.Error().Str("agent", a.Name).Any("panic", r).Msg("agent panicked, abstaining")
				}
			}()
			out := a.Process(in)
			mu.Lock()
			outputs = append(outputs, out)
			mu.Unlock()
		}(a)
	}
	wg.Wait()

	// Deterministic order for selection ties and contributor lists.
	sort.Slice(outputs, func(i, j int) bool {
		if outputs[i].Priority != outputs[j].Priority {
			return outputs[i].Priority > outputs[j].Priority
		}
		return outputs[i].Agent < outputs[j].Agent
	})
	return outputs
}

// merge folds the pool outputs into one result: best non-meta response wins,
// safety filtering applies to the winner, escalations and review flags union.
func (o *Orchestrator) merge(ctx context.Context, outputs []core.AgentOutput, diagnosis *core.DiagnosticResult) core.OrchestratorResult {
	result := core.OrchestratorResult{Consensus: true}

	var best *core.AgentOutput
	bestScore := -1.0
	for i := range outputs {
		out := &outputs[i]
		result.Contributors = append(result.Contributors, out.Agent)

		if out.Escalate && !result.RequiresEscalation {
			result.RequiresEscalation = true
			result.EscalationReason = out.EscalationReason
		}
		if out.RequiresHumanReview {
			result.RequiresHumanReview = true
		}

		if isMeta(out.Agent) || out.Response == "" {
			continue
		}
		score := priorityWeight*(float64(out.Priority)/100) + confidenceWeight*out.Confidence
		if score > bestScore {
			bestScore = score
			best = out
		}
	}

	if best != nil {
		result.Response = agents.FilterResponse(best.Response)
	} else {
		result.Response = agents.FilterResponse(fallbackResponse(diagnosis))
	}

	// A safety override response replaces the content winner outright.
	for i := range outputs {
		if outputs[i].Agent == agents.SafetyAgentName && outputs[i].RequiresHumanReview && outputs[i].Response != "" {
			result.Response = outputs[i].Response
			break
		}
	}

	result.ResolvedConflicts = detectConflicts(outputs)
	result.Consensus = len(result.ResolvedConflicts) == 0
	if !result.Consensus {
		log.FromCtx(ctx).Info().Strs("conflicts", result.ResolvedConflicts).Msg("agent outputs disagreed")
	}

	result.Confidence = poolConfidence(outputs)
	result.LearningOpportunity = firstOpportunity(outputs)

	if diagnosis != nil && diagnosis.RiskLevel == core.RiskLevel4 && !result.RequiresEscalation {
		result.RequiresEscalation = true
		result.EscalationReason = "diagnostic risk stratified at the highest level"
	}
	return result
}

// emergencyTurn is the short-circuit path: only the emergency agent runs and
// its output passes through unfiltered.
func (o *Orchestrator) emergencyTurn(in core.TurnInput, extraction nlp.Extraction, cc *core.ConversationContext) core.OrchestratorResult {
	agentIn := agents.Input{Message: in.Message, Extraction: extraction, Context: cc}

	var out core.AgentOutput
	for _, a := range o.pool {
		if a.Name == agents.EmergencyAgentName {
			out = a.Process(agentIn)
			break
		}
	}

	result := core.OrchestratorResult{
		Response:           out.Response,
		Contributors:       []string{agents.EmergencyAgentName},
		Consensus:          true,
		Confidence:         emergencyConfidence,
		RequiresEscalation: true,
		EscalationReason:   out.EscalationReason,
		Context:            cc,
	}
	updateContext(cc, in, extraction, nil, result.Response)
	cc.RiskLevel = core.RiskLevel4
	return result
}

// escalatedEmergency returns the emergency agent's output when it escalated.
func escalatedEmergency(outputs []core.AgentOutput) *core.AgentOutput {
	for i := range outputs {
		if outputs[i].Agent == agents.EmergencyAgentName && outputs[i].Escalate {
			return &outputs[i]
		}
	}
	return nil
}

// detectConflicts reports advisory disagreements between agents. Today the
// only recognized conflict is triage calling the turn routine while the
// emergency agent matched a watch pattern.
func detectConflicts(outputs []core.AgentOutput) []string {
	var triageRoutine, emergencyMatched bool
	for _, out := range outputs {
		switch out.Agent {
		case agents.TriageAgentName:
			if u, ok := out.Metadata["urgency"].(string); ok && u == core.UrgencyRoutine.String() {
				triageRoutine = true
			}
		case agents.EmergencyAgentName:
			if m, ok := out.Metadata["pattern_matched"].(bool); ok && m {
				emergencyMatched = true
			}
		}
	}
	if triageRoutine && emergencyMatched {
		return []string{"triage assessed the turn as routine while the emergency agent matched a concern pattern; emergency guidance kept"}
	}
	return nil
}

// poolConfidence is the arithmetic mean over agents that actually commit to
// a confidence. Background observers report zero and are not counted.
func poolConfidence(outputs []core.AgentOutput) float64 {
	var sum float64
	var n int
	for _, out := range outputs {
		if out.Confidence <= 0 {
			continue
		}
		sum += out.Confidence
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func firstOpportunity(outputs []core.AgentOutput) *core.LearningOpportunity {
	for _, out := range outputs {
		if out.Agent != agents.LearningAgentName {
			continue
		}
		if ops := agents.Opportunities(out); len(ops) > 0 {
			op := ops[0]
			return &op
		}
	}
	return nil
}

func isMeta(name string) bool {
	return name == agents.SafetyAgentName || name == agents.LearningAgentName
}

func fallbackResponse(diagnosis *core.DiagnosticResult) string {
	if diagnosis != nil && diagnosis.Justification != "" {
		return diagnosis.Justification
	}
	return "I'm here to help with pregnancy health questions. Could you tell me a bit more about how you're feeling?"
}

// diagnosticInput assembles the reasoner's view of the turn: symptoms
// accumulated on the session plus everything extracted from this message.
func diagnosticInput(cc *core.ConversationContext, extraction nlp.Extraction) core.DiagnosticInput {
	var symptoms []core.SymptomInput
	seen := map[string]bool{}
	add := func(list []core.ExtractedSymptom) {
		for _, s := range list {
			key := strings.ToLower(s.Name)
			if seen[key] {
				continue
			}
			seen[key] = true
			symptoms = append(symptoms, core.SymptomInput{Name: s.Name, Severity: s.Severity})
		}
	}
	add(extraction.Symptoms)
	add(cc.Symptoms)

	week := extraction.GestationalWeek
	if week == 0 {
		week = cc.GestationalWeek
	}

	return core.DiagnosticInput{
		Symptoms:    symptoms,
		Stage:       core.PregnancyStage{Week: week, Trimester: core.Trimester(week)},
		RiskFactors: cc.RiskFactors,
		Vitals:      vitalsFromEntities(extraction.Entities),
	}
}

// updateContext mutates the session context in place after a turn. Symptom
// accumulation is append-only; risk only ratchets upward.
func updateContext(cc *core.ConversationContext, in core.TurnInput, extraction nlp.Extraction, diagnosis *core.DiagnosticResult, response string) {
	now := time.Now()
	cc.Messages = append(cc.Messages,
		core.Message{Role: in.Role, Content: in.Message, CreatedAt: now},
		core.Message{Role: core.RoleAssistant, Content: response, CreatedAt: now},
	)

	known := map[string]bool{}
	for _, s := range cc.Symptoms {
		known[strings.ToLower(s.Name)] = true
	}
	for _, s := range extraction.Symptoms {
		if !known[strings.ToLower(s.Name)] {
			cc.Symptoms = append(cc.Symptoms, s)
		}
	}

	if extraction.Intent != core.IntentGeneral {
		cc.Intent = extraction.Intent
	}
	if extraction.Tone != core.ToneNeutral {
		cc.Tone = extraction.Tone
	}
	if extraction.GestationalWeek > 0 {
		cc.GestationalWeek = extraction.GestationalWeek
	}
	if diagnosis != nil {
		cc.RiskLevel = core.MaxRisk(cc.RiskLevel, diagnosis.RiskLevel)
	}
	cc.UpdatedAt = now
}
