package models

import "time"

// ClauseStatus is the closed taxonomy the model may assign to a clause.
type ClauseStatus string

const (
	StatusExcellent  ClauseStatus = "excellent"
	StatusGood       ClauseStatus = "good"
	StatusStandard   ClauseStatus = "standard"
	StatusConcerning ClauseStatus = "concerning"
	StatusRedFlag    ClauseStatus = "red_flag"
	StatusMissing    ClauseStatus = "missing"
)

// Valid reports whether the status is one of the six defined labels.
func (s ClauseStatus) Valid() bool {
	switch s {
	case StatusExcellent, StatusGood, StatusStandard, StatusConcerning, StatusRedFlag, StatusMissing:
		return true
	}
	return false
}

// ClauseFinding is one identified contract term from an analysis run.
// The full set for a user is replaced on every run.
type ClauseFinding struct {
	ID              int64        `json:"id,omitempty"`
	UserID          int64        `json:"user_id,omitempty"`
	ClauseType      string       `json:"clause_type"`
	ClauseStatus    ClauseStatus `json:"clause_status"`
	Rationale       string       `json:"rationale"`
	Recommendation  string       `json:"recommendation"`
	SourceDocument  string       `json:"source_document"`
	ConfidenceScore float64      `json:"confidence_score"`
	ContractExcerpt string       `json:"contract_excerpt,omitempty"`
	Synthetic       bool         `json:"synthetic,omitempty"`
	CreatedAt       time.Time    `json:"created_at,omitempty"`
}
