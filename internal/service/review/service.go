package review

import (
	"database/sql"
	"encoding/json"
	"strings"
)

// Service handles persistence for profiles, documents, and analysis results.
type Service struct {
	db     *sql.DB
	driver string
}

// NewService builds a new review service. The driver name selects
// driver-specific upsert statements.
func NewService(db *sql.DB, driver string) *Service {
	return &Service{db: db, driver: strings.ToLower(driver)}
}

func (s *Service) isSQLite() bool {
	return s.driver == "sqlite" || s.driver == "sqlite3"
}

// string lists are stored as JSON text columns
func encodeList(items []string) string {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func decodeList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []string{}
	}
	return items
}
