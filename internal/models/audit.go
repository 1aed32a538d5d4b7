package models

import "time"

// AuditLogEntry records one model interaction, append-only.
type AuditLogEntry struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	InputExcerpt  string    `json:"input_excerpt"`
	OutputExcerpt string    `json:"output_excerpt"`
	PromptType    string    `json:"prompt_type"`
	CreatedAt     time.Time `json:"created_at"`
}
