package core

import "time"

// Review statuses for persisted records. Only turns flagged for human
// curation enter the pending/completed/dismissed workflow; everything else
// stays at none.
const (
	ReviewNone      = "none"
	ReviewPending   = "pending"
	ReviewCompleted = "completed"
	ReviewDismissed = "dismissed"
)

// ConversationRecord is the anonymized persistence form of one turn. Message
// and Response must be scrubbed before a record is constructed; the storage
// layer never sees raw text.
type ConversationRecord struct {
	ID           int64     `json:"id"`
	SessionID    string    `json:"session_id"`
	UserHash     string    `json:"user_hash"`
	Role         Role      `json:"role"`
	Message      string    `json:"message"`
	Response     string    `json:"response"`
	RiskLevel    RiskLevel `json:"risk_level"`
	Urgency      Urgency   `json:"urgency"`
	Confidence   float64   `json:"confidence"`
	Escalated    bool      `json:"escalated"`
	ReviewStatus string    `json:"review_status"`
	CreatedAt    time.Time `json:"created_at"`
}

// LearningCandidate is a persisted learning opportunity queued for curation.
type LearningCandidate struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail"`
	Terms     []string  `json:"terms,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
