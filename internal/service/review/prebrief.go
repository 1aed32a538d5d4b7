package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"offerlens/internal/models"
)

// GetPrebrief returns the user's current prebrief, or sql.ErrNoRows.
func (s *Service) GetPrebrief(ctx context.Context, userID int64) (*models.Prebrief, error) {
	var p models.Prebrief
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, summary, generated_at FROM prebriefs WHERE user_id = ?`, userID,
	).Scan(&p.ID, &p.UserID, &p.Summary, &p.GeneratedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("query prebrief: %w", err)
	}
	return &p, nil
}

// ListReviewerNotes returns reviewer annotations for a prebrief, newest
// first. The pipeline never writes these; the reviewer UI owns them.
func (s *Service) ListReviewerNotes(ctx context.Context, prebriefID int64) ([]models.ReviewerNote, error) {
	if prebriefID <= 0 {
		return nil, errors.New("invalid prebrief id")
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, prebrief_id, comment, coaching_angle, created_at
		 FROM reviewer_notes WHERE prebrief_id = ? ORDER BY created_at DESC`, prebriefID)
	if err != nil {
		return nil, fmt.Errorf("list reviewer notes: %w", err)
	}
	defer rows.Close()

	notes := make([]models.ReviewerNote, 0)
	for rows.Next() {
		var n models.ReviewerNote
		var angle sql.NullString
		if err := rows.Scan(&n.ID, &n.PrebriefID, &n.Comment, &angle, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reviewer note: %w", err)
		}
		n.CoachingAngle = angle.String
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
