package models

import "time"

// Prebrief is the short narrative summary handed to a human reviewer.
// One row per user, overwritten in place on every run.
type Prebrief struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Summary     string    `json:"summary"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ReviewerNote is an annotation a human reviewer attached to a prebrief.
// The pipeline only reads these; the reviewer UI owns their lifecycle.
type ReviewerNote struct {
	ID            int64     `json:"id"`
	PrebriefID    int64     `json:"prebrief_id"`
	Comment       string    `json:"comment"`
	CoachingAngle string    `json:"coaching_angle,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
