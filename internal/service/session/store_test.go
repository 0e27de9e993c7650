package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/sandevgo/matria/internal/core"
)

func TestStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore(0)

	if _, ok := s.Get("missing"); ok {
		t.Error("empty store must miss")
	}

	cc := &core.ConversationContext{SessionID: "s1", RiskLevel: core.RiskLevel2}
	s.Put(cc)

	got, ok := s.Get("s1")
	if !ok {
		t.Fatal("stored session must be retrievable")
	}
	if got.RiskLevel != core.RiskLevel2 {
		t.Errorf("risk level = %v, want %v", got.RiskLevel, core.RiskLevel2)
	}

	s.Delete("s1")
	if _, ok := s.Get("s1"); ok {
		t.Error("deleted session must miss")
	}
}

func TestStoreIgnoresInvalidPuts(t *testing.T) {
	s := NewMemoryStore(0)
	s.Put(nil)
	s.Put(&core.ConversationContext{})
	if s.Len() != 0 {
		t.Errorf("invalid puts must be dropped, have %d sessions", s.Len())
	}
}

func TestHistoryWindowTrimsMessagesOnly(t *testing.T) {
	s := NewMemoryStore(4)

	cc := &core.ConversationContext{SessionID: "s1"}
	for i := 0; i < 10; i++ {
		cc.Messages = append(cc.Messages, core.Message{Role: core.RolePatient, Content: fmt.Sprintf("m%d", i)})
	}
	cc.Symptoms = []core.ExtractedSymptom{{Name: "headache"}, {Name: "nausea"}}
	s.Put(cc)

	got, _ := s.Get("s1")
	if len(got.Messages) != 4 {
		t.Errorf("messages = %d, want window of 4", len(got.Messages))
	}
	if got.Messages[0].Content != "m6" {
		t.Errorf("window must keep the newest messages, first is %q", got.Messages[0].Content)
	}
	if len(got.Symptoms) != 2 {
		t.Error("accumulated symptoms must never be trimmed")
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewMemoryStore(0)
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i%4)
			s.Put(&core.ConversationContext{SessionID: id})
			s.Get(id)
		}(i)
	}
	wg.Wait()
	if s.Len() != 4 {
		t.Errorf("sessions = %d, want 4", s.Len())
	}
}
