// Package notify delivers escalation events to an external webhook. Delivery
// is best-effort and asynchronous; a full queue drops the event rather than
// blocking a turn.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sandevgo/matria/internal/config"
	"github.com/sandevgo/matria/internal/core"
	"github.com/sandevgo/matria/pkg/log"
	"github.com/sandevgo/matria/pkg/retry"
)

// Event is one escalation notification.
type Event struct {
	SessionID string         `json:"session_id"`
	UserHash  string         `json:"user_hash"`
	Reason    string         `json:"reason"`
	RiskLevel core.RiskLevel `json:"risk_level"`
	Urgency   core.Urgency   `json:"urgency"`
	CreatedAt time.Time      `json:"created_at"`
}

// Escalations drains a bounded queue to the configured webhook. Without a
// webhook URL every event is logged and acknowledged locally.
type Escalations struct {
	cfg     *config.NotifyConfig
	client  *http.Client
	retrier *retry.Retrier
	queue   chan Event
	done    chan struct{}
}

func NewEscalations(cfg *config.NotifyConfig) *Escalations {
	return &Escalations{
		cfg:     cfg,
		client:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		retrier: retry.NewDefaultRetrier(),
		queue:   make(chan Event, cfg.QueueSize),
		done:    make(chan struct{}),
	}
}

// Notify enqueues one event. Never blocks; an overflowing queue drops the
// event and reports false.
func (e *Escalations) Notify(ctx context.Context, ev Event) bool {
	select {
	case e.queue <- ev:
		return true
	default:
		log.FromCtx(ctx).Error().
			Str("session_id", ev.SessionID).
			Msg("escalation queue full, event dropped")
		return false
	}
}

func (e *Escalations) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	if e.cfg.WebhookURL == "" {
		logger.Info().Msg("no escalation webhook configured, events will be logged only")
	}

	go func() {
		defer close(e.done)
		for ev := range e.queue {
			e.deliver(ctx, ev)
		}
	}()
	return nil
}

func (e *Escalations) Shutdown(ctx context.Context) error {
	close(e.queue)
	select {
	case <-e.done:
		return nil
	case <-time.After(5 * time.Second):
		return fmt.Errorf("escalation queue did not drain in time")
	}
}

func (e *Escalations) deliver(ctx context.Context, ev Event) {
	logger := log.FromCtx(ctx)

	if e.cfg.WebhookURL == "" {
		logger.Warn().
			Str("session_id", ev.SessionID).
			Str("reason", ev.Reason).
			Str("risk_level", ev.RiskLevel.String()).
			Msg("escalation")
		return
	}

	body, err := json.Marshal(ev)
	if err != nil {
		logger.Error().Err(err).Msg("failed to marshal escalation event")
		return
	}

	err = e.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.WebhookURL, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", core.MatriaUserAgent)

		resp, err := e.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			return fmt.Errorf("webhook returned %s", resp.Status)
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).
			Str("session_id", ev.SessionID).
			Msg("failed to deliver escalation, giving up")
	}
}
