package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/matria/internal/core"
)

type TurnsRepo struct {
	db *sql.DB
}

func NewTurnsRepo(db *sql.DB) *TurnsRepo {
	return &TurnsRepo{db: db}
}

// SaveTurn persists one anonymized turn record. The caller is responsible
// for scrubbing; this layer only stores what it is given.
func (r *TurnsRepo) SaveTurn(ctx context.Context, rec core.ConversationRecord) (int64, error) {
	status := rec.ReviewStatus
	if status == "" {
		status = core.ReviewNone
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO turns (session_id, user_hash, role, message, response, risk_level, urgency, confidence, escalated, review_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.UserHash, rec.Role, rec.Message, rec.Response,
		int(rec.RiskLevel), int(rec.Urgency), rec.Confidence, rec.Escalated, status,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert turn: %w", err)
	}
	return res.LastInsertId()
}

// GetSessionTurns returns the last limit turns for one session, oldest first.
func (r *TurnsRepo) GetSessionTurns(ctx context.Context, sessionID string, limit int) ([]core.ConversationRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, session_id, user_hash, role, message, response, risk_level, urgency, confidence, escalated, review_status, created_at
		 FROM turns WHERE session_id = ? ORDER BY id DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var out []core.ConversationRecord
	for rows.Next() {
		var rec core.ConversationRecord
		var risk, urgency int
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.UserHash, &rec.Role, &rec.Message, &rec.Response,
			&risk, &urgency, &rec.Confidence, &rec.Escalated, &rec.ReviewStatus, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		rec.RiskLevel = core.RiskLevel(risk)
		rec.Urgency = core.Urgency(urgency)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse to chronological order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// ListPendingReviews returns flagged turns still awaiting human review.
func (r *TurnsRepo) ListPendingReviews(ctx context.Context, limit int) ([]core.ConversationRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, session_id, user_hash, role, message, response, risk_level, urgency, confidence, escalated, review_status, created_at
		 FROM turns WHERE review_status = ? ORDER BY id ASC LIMIT ?`,
		core.ReviewPending, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending reviews: %w", err)
	}
	defer rows.Close()

	var out []core.ConversationRecord
	for rows.Next() {
		var rec core.ConversationRecord
		var risk, urgency int
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.UserHash, &rec.Role, &rec.Message, &rec.Response,
			&risk, &urgency, &rec.Confidence, &rec.Escalated, &rec.ReviewStatus, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pending review: %w", err)
		}
		rec.RiskLevel = core.RiskLevel(risk)
		rec.Urgency = core.Urgency(urgency)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SetReviewStatus moves one turn through the review workflow.
func (r *TurnsRepo) SetReviewStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE turns SET review_status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update review status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("turn %d not found", id)
	}
	return nil
}
