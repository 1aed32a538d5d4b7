package models

import "time"

// NegotiationProfile captures the candidate context used to steer an analysis.
// At most one row exists per user; intake submissions upsert it.
type NegotiationProfile struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	RoleTitle        string    `json:"role_title"`
	Level            string    `json:"level"`
	Industry         string    `json:"industry"`
	Situation        string    `json:"situation"`
	TargetCompBase   int64     `json:"target_comp_base"`
	TargetCompBonus  int64     `json:"target_comp_bonus"`
	TargetCompEquity int64     `json:"target_comp_equity"`
	TargetCompTotal  int64     `json:"target_comp_total"`
	Priorities       []string  `json:"priorities"`
	ConfidenceRating int       `json:"confidence_rating"`
	NegotiationStyle int       `json:"negotiation_style"`
	Reflection       string    `json:"reflection"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// MaxProfilePriorities bounds the ranked priority list.
const MaxProfilePriorities = 3
