package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"offerlens/internal/models"
)

const auditExcerptLimit = 500

// AppendAuditLog records one model interaction with truncated excerpts.
func (s *Service) AppendAuditLog(ctx context.Context, userID int64, input, output, promptType string) error {
	if userID <= 0 {
		return errors.New("invalid user id")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_log (user_id, input_excerpt, output_excerpt, prompt_type, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		userID, truncateExcerpt(input), truncateExcerpt(output), promptType, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("append audit log: %w", err)
	}
	return nil
}

func truncateExcerpt(s string) string {
	if len(s) <= auditExcerptLimit {
		return s
	}
	return s[:auditExcerptLimit] + "..."
}

// RecentAuditLog returns the newest model interactions for a user.
func (s *Service) RecentAuditLog(ctx context.Context, userID int64, limit int) ([]models.AuditLogEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, input_excerpt, output_excerpt, prompt_type, created_at
		 FROM audit_log WHERE user_id = ? ORDER BY id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit log: %w", err)
	}
	defer rows.Close()

	entries := make([]models.AuditLogEntry, 0)
	for rows.Next() {
		var e models.AuditLogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.InputExcerpt, &e.OutputExcerpt, &e.PromptType, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
