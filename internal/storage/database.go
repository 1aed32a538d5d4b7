package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"offerlens/internal/config"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the database configured for the given driver.
func Open(dbType string, cfg *config.Config) (*sql.DB, error) {
	dbCfg, ok := cfg.Databases[dbType]
	if !ok {
		return nil, fmt.Errorf("database config for %s not found", dbType)
	}

	var (
		db  *sql.DB
		err error
	)

	switch strings.ToLower(dbType) {
	case "sqlite", "sqlite3":
		if dbCfg.DSN == "" {
			return nil, fmt.Errorf("sqlite dsn must be provided")
		}
		db, err = sql.Open("sqlite3", dbCfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			dbCfg.Username,
			dbCfg.Password,
			dbCfg.Host,
			dbCfg.Port,
			dbCfg.DBName,
			dbCfg.Params,
		)
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("open mysql database: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", dbType)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Migrate ensures the required tables are present.
func Migrate(db *sql.DB, driver string) error {
	var stmts []string
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS negotiation_profiles (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id INTEGER NOT NULL UNIQUE,
				role_title TEXT NOT NULL,
				level TEXT NOT NULL,
				industry TEXT NOT NULL,
				situation TEXT NOT NULL,
				target_comp_base INTEGER NOT NULL DEFAULT 0,
				target_comp_bonus INTEGER NOT NULL DEFAULT 0,
				target_comp_equity INTEGER NOT NULL DEFAULT 0,
				target_comp_total INTEGER NOT NULL DEFAULT 0,
				priorities TEXT NOT NULL DEFAULT '[]',
				confidence_rating INTEGER NOT NULL DEFAULT 0,
				negotiation_style INTEGER NOT NULL DEFAULT 0,
				reflection TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS contract_documents (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id INTEGER NOT NULL,
				filename TEXT NOT NULL,
				file_type TEXT NOT NULL,
				storage_key TEXT NOT NULL,
				text_content TEXT,
				notes TEXT NOT NULL DEFAULT '',
				uploaded_at DATETIME NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_contract_documents_user ON contract_documents(user_id)`,
			`CREATE TABLE IF NOT EXISTS clause_findings (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id INTEGER NOT NULL,
				clause_type TEXT NOT NULL,
				clause_status TEXT NOT NULL,
				rationale TEXT NOT NULL,
				recommendation TEXT NOT NULL,
				source_document TEXT NOT NULL,
				confidence_score REAL NOT NULL DEFAULT 0.5,
				contract_excerpt TEXT,
				synthetic INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_clause_findings_user ON clause_findings(user_id)`,
			`CREATE TABLE IF NOT EXISTS analysis_summaries (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id INTEGER NOT NULL,
				strengths TEXT NOT NULL DEFAULT '[]',
				opportunities TEXT NOT NULL DEFAULT '[]',
				alignment_rating TEXT NOT NULL,
				alignment_explanation TEXT NOT NULL DEFAULT '',
				confidence_score REAL NOT NULL DEFAULT 0.5,
				recommendation TEXT NOT NULL DEFAULT '',
				negotiation_priorities TEXT NOT NULL DEFAULT '[]',
				synthetic INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_analysis_summaries_user ON analysis_summaries(user_id)`,
			`CREATE TABLE IF NOT EXISTS prebriefs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id INTEGER NOT NULL UNIQUE,
				summary TEXT NOT NULL,
				generated_at DATETIME NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS reviewer_notes (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				prebrief_id INTEGER NOT NULL,
				comment TEXT NOT NULL,
				coaching_angle TEXT,
				created_at DATETIME NOT NULL,
				FOREIGN KEY(prebrief_id) REFERENCES prebriefs(id) ON DELETE CASCADE
			)`,
			`CREATE INDEX IF NOT EXISTS idx_reviewer_notes_prebrief ON reviewer_notes(prebrief_id)`,
			`CREATE TABLE IF NOT EXISTS audit_log (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id INTEGER NOT NULL,
				input_excerpt TEXT NOT NULL,
				output_excerpt TEXT NOT NULL,
				prompt_type TEXT NOT NULL,
				created_at DATETIME NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_audit_log_user ON audit_log(user_id)`,
		}
	case "mysql":
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS negotiation_profiles (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				user_id BIGINT UNSIGNED NOT NULL,
				role_title VARCHAR(255) NOT NULL,
				level VARCHAR(100) NOT NULL,
				industry VARCHAR(255) NOT NULL,
				situation VARCHAR(100) NOT NULL,
				target_comp_base BIGINT NOT NULL DEFAULT 0,
				target_comp_bonus BIGINT NOT NULL DEFAULT 0,
				target_comp_equity BIGINT NOT NULL DEFAULT 0,
				target_comp_total BIGINT NOT NULL DEFAULT 0,
				priorities TEXT NOT NULL,
				confidence_rating INT NOT NULL DEFAULT 0,
				negotiation_style INT NOT NULL DEFAULT 0,
				reflection TEXT,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				PRIMARY KEY (id),
				UNIQUE KEY uniq_profiles_user (user_id)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS contract_documents (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				user_id BIGINT UNSIGNED NOT NULL,
				filename VARCHAR(255) NOT NULL,
				file_type VARCHAR(255) NOT NULL,
				storage_key TEXT NOT NULL,
				text_content MEDIUMTEXT,
				notes TEXT,
				uploaded_at DATETIME NOT NULL,
				PRIMARY KEY (id),
				INDEX idx_contract_documents_user (user_id)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS clause_findings (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				user_id BIGINT UNSIGNED NOT NULL,
				clause_type VARCHAR(255) NOT NULL,
				clause_status VARCHAR(50) NOT NULL,
				rationale TEXT NOT NULL,
				recommendation TEXT NOT NULL,
				source_document VARCHAR(255) NOT NULL,
				confidence_score DOUBLE NOT NULL DEFAULT 0.5,
				contract_excerpt TEXT,
				synthetic TINYINT(1) NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL,
				PRIMARY KEY (id),
				INDEX idx_clause_findings_user (user_id)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS analysis_summaries (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				user_id BIGINT UNSIGNED NOT NULL,
				strengths TEXT NOT NULL,
				opportunities TEXT NOT NULL,
				alignment_rating VARCHAR(50) NOT NULL,
				alignment_explanation TEXT,
				confidence_score DOUBLE NOT NULL DEFAULT 0.5,
				recommendation TEXT,
				negotiation_priorities TEXT NOT NULL,
				synthetic TINYINT(1) NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL,
				PRIMARY KEY (id),
				INDEX idx_analysis_summaries_user (user_id)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS prebriefs (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				user_id BIGINT UNSIGNED NOT NULL,
				summary MEDIUMTEXT NOT NULL,
				generated_at DATETIME NOT NULL,
				PRIMARY KEY (id),
				UNIQUE KEY uniq_prebriefs_user (user_id)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS reviewer_notes (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				prebrief_id BIGINT UNSIGNED NOT NULL,
				comment TEXT NOT NULL,
				coaching_angle VARCHAR(255),
				created_at DATETIME NOT NULL,
				PRIMARY KEY (id),
				INDEX idx_reviewer_notes_prebrief (prebrief_id),
				CONSTRAINT fk_reviewer_notes_prebrief FOREIGN KEY (prebrief_id) REFERENCES prebriefs(id) ON DELETE CASCADE
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS audit_log (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				user_id BIGINT UNSIGNED NOT NULL,
				input_excerpt TEXT NOT NULL,
				output_excerpt TEXT NOT NULL,
				prompt_type VARCHAR(100) NOT NULL,
				created_at DATETIME NOT NULL,
				PRIMARY KEY (id),
				INDEX idx_audit_log_user (user_id)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		}
	default:
		return fmt.Errorf("unsupported driver for migration: %s", driver)
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate (%s): %w", driver, err)
		}
	}
	return nil
}
