// Package triage is the application service behind every transport: it owns
// the load-process-store cycle of a chat turn and the persistence and
// notification side effects around it.
package triage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sandevgo/matria/internal/config"
	"github.com/sandevgo/matria/internal/core"
	"github.com/sandevgo/matria/internal/explain"
	"github.com/sandevgo/matria/internal/privacy"
	"github.com/sandevgo/matria/internal/reasoner"
	"github.com/sandevgo/matria/internal/service/notify"
	"github.com/sandevgo/matria/internal/service/session"
	"github.com/sandevgo/matria/pkg/log"
)

type Processor interface {
	Process(ctx context.Context, in core.TurnInput) core.OrchestratorResult
}

type TurnRecorder interface {
	SaveTurn(ctx context.Context, rec core.ConversationRecord) (int64, error)
}

type LearningRecorder interface {
	SaveCandidate(ctx context.Context, sessionID string, op core.LearningOpportunity) (int64, error)
}

type Notifier interface {
	Notify(ctx context.Context, ev notify.Event) bool
}

// Turn is the full outcome of one handled message.
type Turn struct {
	SessionID   string                  `json:"session_id"`
	Result      core.OrchestratorResult `json:"result"`
	Explanation explain.Explanation     `json:"explanation"`
}

type Service struct {
	appCfg    *config.AppConfig
	store     session.Store
	processor Processor
	reasoner  *reasoner.Reasoner
	turns     TurnRecorder
	learning  LearningRecorder
	notifier  Notifier
}

// NewService wires the turn pipeline. turns, learning and notifier may be
// nil; the corresponding side effect is then skipped.
func NewService(
	appCfg *config.AppConfig,
	store session.Store,
	processor Processor,
	turns TurnRecorder,
	learning LearningRecorder,
	notifier Notifier,
) *Service {
	return &Service{
		appCfg:    appCfg,
		store:     store,
		processor: processor,
		reasoner:  reasoner.New(),
		turns:     turns,
		learning:  learning,
		notifier:  notifier,
	}
}

// HandleMessage runs one chat turn: context in, orchestrated result out,
// side effects behind it. Persistence and notification failures are logged,
// never surfaced; the user still gets their answer.
func (s *Service) HandleMessage(ctx context.Context, sessionID, userID string, role core.Role, message string) (Turn, error) {
	logger := log.FromCtx(ctx)

	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	cc, _ := s.store.Get(sessionID)
	if cc == nil {
		cc = &core.ConversationContext{
			SessionID: sessionID,
			UserID:    userID,
			Role:      role,
			RiskLevel: core.RiskLevel1,
		}
	}

	result := s.processor.Process(ctx, core.TurnInput{
		Message: message,
		UserID:  userID,
		Role:    role,
		Context: cc,
	})
	s.store.Put(result.Context)

	s.record(ctx, userID, role, message, &result)
	s.flagLearning(ctx, &result)
	s.escalate(ctx, userID, &result)

	turn := Turn{SessionID: sessionID, Result: result}
	if result.Diagnosis != nil {
		intent := core.IntentGeneral
		if result.Context != nil {
			intent = result.Context.Intent
		}
		turn.Explanation = explain.ForRole(role, result.Diagnosis, intent)
	} else {
		// Emergency short-circuits carry no diagnosis; the patient view is
		// synthesized from the escalation itself.
		turn.Explanation = explain.ForRole(role, &core.DiagnosticResult{
			RiskLevel:  core.RiskLevel4,
			Urgency:    core.UrgencyEmergency,
			Confidence: result.Confidence,
		}, core.IntentEmergency)
	}

	logger.Debug().
		Str("session_id", sessionID).
		Int("history", len(result.Context.Messages)).
		Msg("turn handled")
	return turn, nil
}

// Assess runs a one-shot structured assessment with no session, used by the
// clinical API and the analyze command.
func (s *Service) Assess(ctx context.Context, in core.DiagnosticInput, role core.Role) (core.DiagnosticResult, explain.Explanation) {
	res := s.reasoner.Analyze(in)
	return res, explain.ForRole(role, &res, core.IntentSymptomReport)
}

// EndSession drops the in-memory context. Persisted records are unaffected.
func (s *Service) EndSession(sessionID string) {
	s.store.Delete(sessionID)
}

func (s *Service) record(ctx context.Context, userID string, role core.Role, message string, result *core.OrchestratorResult) {
	if s.turns == nil || result.Context == nil {
		return
	}

	rec := core.ConversationRecord{
		SessionID:  result.Context.SessionID,
		UserHash:   privacy.HashUserID(userID),
		Role:       role,
		Message:    privacy.Anonymize(message),
		Response:   privacy.Anonymize(result.Response),
		Confidence: result.Confidence,
		Escalated:  result.RequiresEscalation,
		RiskLevel:  result.Context.RiskLevel,
	}
	if result.Diagnosis != nil {
		rec.RiskLevel = result.Diagnosis.RiskLevel
		rec.Urgency = result.Diagnosis.Urgency
	} else if result.RequiresEscalation {
		rec.RiskLevel = core.RiskLevel4
		rec.Urgency = core.UrgencyEmergency
	}
	if result.RequiresHumanReview || result.RequiresEscalation {
		rec.ReviewStatus = core.ReviewPending
	}

	if _, err := s.turns.SaveTurn(ctx, rec); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to persist turn")
	}
}

func (s *Service) flagLearning(ctx context.Context, result *core.OrchestratorResult) {
	if s.learning == nil || result.LearningOpportunity == nil || result.Context == nil {
		return
	}
	if _, err := s.learning.SaveCandidate(ctx, result.Context.SessionID, *result.LearningOpportunity); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to persist learning candidate")
	}
}

func (s *Service) escalate(ctx context.Context, userID string, result *core.OrchestratorResult) {
	if s.notifier == nil || !result.RequiresEscalation {
		return
	}

	ev := notify.Event{
		UserHash:  privacy.HashUserID(userID),
		Reason:    result.EscalationReason,
		RiskLevel: core.RiskLevel4,
		Urgency:   core.UrgencyEmergency,
		CreatedAt: time.Now(),
	}
	if result.Context != nil {
		ev.SessionID = result.Context.SessionID
		ev.RiskLevel = result.Context.RiskLevel
	}
	if result.Diagnosis != nil {
		ev.RiskLevel = result.Diagnosis.RiskLevel
		ev.Urgency = result.Diagnosis.Urgency
	}
	if !s.notifier.Notify(ctx, ev) {
		log.FromCtx(ctx).Error().Str("session_id", ev.SessionID).Msg("escalation notification dropped")
	}
}
