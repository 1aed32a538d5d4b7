package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"offerlens/internal/models"
)

// defaultProfile is the placeholder context created when a user runs an
// analysis before submitting intake.
func defaultProfile(userID int64) *models.NegotiationProfile {
	return &models.NegotiationProfile{
		UserID:           userID,
		RoleTitle:        "Software Engineer",
		Level:            "senior",
		Industry:         "Technology",
		Situation:        "exploring",
		TargetCompBase:   150000,
		TargetCompTotal:  200000,
		Priorities:       []string{"comp", "growth"},
		ConfidenceRating: 4,
	}
}

// GetProfile returns the user's negotiation profile, or sql.ErrNoRows.
func (s *Service) GetProfile(ctx context.Context, userID int64) (*models.NegotiationProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, role_title, level, industry, situation,
		        target_comp_base, target_comp_bonus, target_comp_equity, target_comp_total,
		        priorities, confidence_rating, negotiation_style, reflection, created_at, updated_at
		 FROM negotiation_profiles WHERE user_id = ?`, userID)

	var p models.NegotiationProfile
	var priorities string
	err := row.Scan(&p.ID, &p.UserID, &p.RoleTitle, &p.Level, &p.Industry, &p.Situation,
		&p.TargetCompBase, &p.TargetCompBonus, &p.TargetCompEquity, &p.TargetCompTotal,
		&priorities, &p.ConfidenceRating, &p.NegotiationStyle, &p.Reflection, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("query profile: %w", err)
	}
	p.Priorities = decodeList(priorities)
	return &p, nil
}

// EnsureProfile returns the user's profile, creating one with placeholder
// defaults if none exists. A store failure here is fatal for the run; this
// stage has no recoverable fallback.
func (s *Service) EnsureProfile(ctx context.Context, userID int64) (*models.NegotiationProfile, error) {
	if userID <= 0 {
		return nil, errors.New("invalid user id")
	}
	profile, err := s.GetProfile(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	p := defaultProfile(userID)
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO negotiation_profiles
		 (user_id, role_title, level, industry, situation,
		  target_comp_base, target_comp_bonus, target_comp_equity, target_comp_total,
		  priorities, confidence_rating, negotiation_style, reflection, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, p.RoleTitle, p.Level, p.Industry, p.Situation,
		p.TargetCompBase, p.TargetCompBonus, p.TargetCompEquity, p.TargetCompTotal,
		encodeList(p.Priorities), p.ConfidenceRating, p.NegotiationStyle, p.Reflection, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create default profile: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("profile id: %w", err)
	}
	p.ID = id
	return p, nil
}

// UpsertProfile stores an intake submission, keyed by user.
func (s *Service) UpsertProfile(ctx context.Context, p *models.NegotiationProfile) error {
	if p == nil || p.UserID <= 0 {
		return errors.New("invalid profile")
	}
	if len(p.Priorities) > models.MaxProfilePriorities {
		p.Priorities = p.Priorities[:models.MaxProfilePriorities]
	}
	now := time.Now().UTC()

	var stmt string
	if s.isSQLite() {
		stmt = `INSERT INTO negotiation_profiles
			 (user_id, role_title, level, industry, situation,
			  target_comp_base, target_comp_bonus, target_comp_equity, target_comp_total,
			  priorities, confidence_rating, negotiation_style, reflection, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(user_id) DO UPDATE SET
			  role_title = excluded.role_title,
			  level = excluded.level,
			  industry = excluded.industry,
			  situation = excluded.situation,
			  target_comp_base = excluded.target_comp_base,
			  target_comp_bonus = excluded.target_comp_bonus,
			  target_comp_equity = excluded.target_comp_equity,
			  target_comp_total = excluded.target_comp_total,
			  priorities = excluded.priorities,
			  confidence_rating = excluded.confidence_rating,
			  negotiation_style = excluded.negotiation_style,
			  reflection = excluded.reflection,
			  updated_at = excluded.updated_at`
	} else {
		stmt = `INSERT INTO negotiation_profiles
			 (user_id, role_title, level, industry, situation,
			  target_comp_base, target_comp_bonus, target_comp_equity, target_comp_total,
			  priorities, confidence_rating, negotiation_style, reflection, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON DUPLICATE KEY UPDATE
			  role_title = VALUES(role_title),
			  level = VALUES(level),
			  industry = VALUES(industry),
			  situation = VALUES(situation),
			  target_comp_base = VALUES(target_comp_base),
			  target_comp_bonus = VALUES(target_comp_bonus),
			  target_comp_equity = VALUES(target_comp_equity),
			  target_comp_total = VALUES(target_comp_total),
			  priorities = VALUES(priorities),
			  confidence_rating = VALUES(confidence_rating),
			  negotiation_style = VALUES(negotiation_style),
			  reflection = VALUES(reflection),
			  updated_at = VALUES(updated_at)`
	}

	_, err := s.db.ExecContext(ctx, stmt,
		p.UserID, p.RoleTitle, p.Level, p.Industry, p.Situation,
		p.TargetCompBase, p.TargetCompBonus, p.TargetCompEquity, p.TargetCompTotal,
		encodeList(p.Priorities), p.ConfidenceRating, p.NegotiationStyle, p.Reflection, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
