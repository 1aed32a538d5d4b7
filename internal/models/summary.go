package models

import "time"

// AlignmentRating grades how well the offer matches the candidate's goals.
type AlignmentRating string

const (
	AlignmentAligned          AlignmentRating = "aligned"
	AlignmentPartiallyAligned AlignmentRating = "partially_aligned"
	AlignmentMisaligned       AlignmentRating = "misaligned"
)

// Valid reports whether the rating is one of the three defined labels.
func (r AlignmentRating) Valid() bool {
	switch r {
	case AlignmentAligned, AlignmentPartiallyAligned, AlignmentMisaligned:
		return true
	}
	return false
}

// AnalysisSummary is the single current roll-up for a user, replaced on
// every analysis run.
type AnalysisSummary struct {
	ID                    int64           `json:"id,omitempty"`
	UserID                int64           `json:"user_id,omitempty"`
	Strengths             []string        `json:"strengths"`
	Opportunities         []string        `json:"opportunities"`
	AlignmentRating       AlignmentRating `json:"alignment_rating"`
	AlignmentExplanation  string          `json:"alignment_explanation"`
	ConfidenceScore       float64         `json:"confidence_score"`
	Recommendation        string          `json:"recommendation"`
	NegotiationPriorities []string        `json:"negotiation_priorities"`
	Synthetic             bool            `json:"synthetic,omitempty"`
	CreatedAt             time.Time       `json:"created_at,omitempty"`
}
