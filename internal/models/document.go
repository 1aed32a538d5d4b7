package models

import "time"

// ContractDocument represents one uploaded offer document.
type ContractDocument struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Filename    string    `json:"filename"`
	FileType    string    `json:"file_type"`
	StorageKey  string    `json:"storage_key"`
	TextContent string    `json:"text_content,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
