package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sandevgo/matria/internal/core"
)

type LearningRepo struct {
	db *sql.DB
}

func NewLearningRepo(db *sql.DB) *LearningRepo {
	return &LearningRepo{db: db}
}

func (r *LearningRepo) SaveCandidate(ctx context.Context, sessionID string, op core.LearningOpportunity) (int64, error) {
	terms, err := json.Marshal(op.Terms)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal terms: %w", err)
	}
	// Empty slices store as empty string to save space
	termsStr := string(terms)
	if termsStr == "null" {
		termsStr = ""
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO learning_candidates (session_id, kind, detail, terms, status) VALUES (?, ?, ?, ?, ?)`,
		sessionID, op.Kind, op.Detail, termsStr, core.ReviewPending,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert learning candidate: %w", err)
	}
	return res.LastInsertId()
}

func (r *LearningRepo) ListPending(ctx context.Context, limit int) ([]core.LearningCandidate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, session_id, kind, detail, terms, status, created_at
		 FROM learning_candidates WHERE status = ? ORDER BY id ASC LIMIT ?`,
		core.ReviewPending, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query learning candidates: %w", err)
	}
	defer rows.Close()

	var out []core.LearningCandidate
	for rows.Next() {
		var c core.LearningCandidate
		var terms string
		if err := rows.Scan(&c.ID, &c.SessionID, &c.Kind, &c.Detail, &terms, &c.Status, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan learning candidate: %w", err)
		}
		if terms != "" {
			if err := json.Unmarshal([]byte(terms), &c.Terms); err != nil {
				return nil, fmt.Errorf("failed to unmarshal terms: %w", err)
			}
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *LearningRepo) SetStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE learning_candidates SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update candidate status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("learning candidate %d not found", id)
	}
	return nil
}
