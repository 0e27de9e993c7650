package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sandevgo/matria/internal/config"
	"github.com/sandevgo/matria/internal/core"
)

func testConfig(url string) *config.NotifyConfig {
	return &config.NotifyConfig{WebhookURL: url, QueueSize: 4, TimeoutSeconds: 2}
}

func TestDeliversToWebhook(t *testing.T) {
	received := make(chan Event, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ev Event
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		received <- ev
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	e := NewEscalations(testConfig(srv.URL))
	ctx := context.Background()
	if err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}

	ok := e.Notify(ctx, Event{
		SessionID: "s1",
		Reason:    "hypertensive emergency thresholds met",
		RiskLevel: core.RiskLevel4,
		Urgency:   core.UrgencyEmergency,
		CreatedAt: time.Now(),
	})
	if !ok {
		t.Fatal("enqueue must succeed with free capacity")
	}

	select {
	case ev := <-received:
		if ev.SessionID != "s1" || ev.RiskLevel != core.RiskLevel4 {
			t.Errorf("unexpected event: %+v", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("webhook never received the event")
	}

	if err := e.Shutdown(ctx); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestRetriesFailedDelivery(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	e := NewEscalations(testConfig(srv.URL))
	ctx := context.Background()
	if err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}
	e.Notify(ctx, Event{SessionID: "s1", Reason: "r"})

	if err := e.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if got := calls.Load(); got < 2 {
		t.Errorf("calls = %d, want at least 2 (one retry)", got)
	}
}

func TestQueueOverflowDropsEvent(t *testing.T) {
	// Never started: the queue fills and the next enqueue is refused.
	e := NewEscalations(&config.NotifyConfig{QueueSize: 1, TimeoutSeconds: 1})
	ctx := context.Background()

	if ok := e.Notify(ctx, Event{SessionID: "s1"}); !ok {
		t.Fatal("first event must fit")
	}
	if ok := e.Notify(ctx, Event{SessionID: "s2"}); ok {
		t.Error("overflow must be refused, not queued")
	}
}

func TestLogOnlyWithoutWebhook(t *testing.T) {
	e := NewEscalations(&config.NotifyConfig{QueueSize: 4, TimeoutSeconds: 1})
	ctx := context.Background()
	if err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}
	e.Notify(ctx, Event{SessionID: "s1", Reason: "r"})
	if err := e.Shutdown(ctx); err != nil {
		t.Errorf("shutdown with log-only delivery: %v", err)
	}
}
