package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"offerlens/internal/models"
)

// ReplaceResults atomically makes the given result the user's current
// analysis: prior clause findings and summary are deleted, the new ones
// inserted, and the prebrief upserted in place, all inside one transaction.
// The clause insert is attempted with the optional contract_excerpt column
// first and retried without it when the store reports that column missing;
// this is a compatibility shim for environments where the excerpt migration
// has not been applied yet, and it must not swallow any other insert error.
func (s *Service) ReplaceResults(ctx context.Context, userID int64, result models.AnalysisResult) error {
	if userID <= 0 {
		return errors.New("invalid user id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM clause_findings WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear clause findings: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM analysis_summaries WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear analysis summary: %w", err)
	}

	now := time.Now().UTC()

	if len(result.Clauses) > 0 {
		err = insertClauses(ctx, tx, userID, result, now, true)
		if err != nil && isMissingColumnErr(err, "contract_excerpt") {
			log.Printf("[review] contract_excerpt column missing, retrying clause insert without it: %v", err)
			err = insertClauses(ctx, tx, userID, result, now, false)
		}
		if err != nil {
			return fmt.Errorf("insert clause findings: %w", err)
		}
	}

	if result.Summary != nil {
		sum := result.Summary
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO analysis_summaries
			 (user_id, strengths, opportunities, alignment_rating, alignment_explanation,
			  confidence_score, recommendation, negotiation_priorities, synthetic, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			userID, encodeList(sum.Strengths), encodeList(sum.Opportunities),
			string(sum.AlignmentRating), sum.AlignmentExplanation,
			sum.ConfidenceScore, sum.Recommendation, encodeList(sum.NegotiationPriorities),
			result.Synthetic, now,
		); err != nil {
			return fmt.Errorf("insert analysis summary: %w", err)
		}
	}

	if result.Prebrief != "" {
		// prebrief history is superseded in place, not wiped
		var stmt string
		if s.isSQLite() {
			stmt = `INSERT INTO prebriefs (user_id, summary, generated_at) VALUES (?, ?, ?)
				 ON CONFLICT(user_id) DO UPDATE SET summary = excluded.summary, generated_at = excluded.generated_at`
		} else {
			stmt = `INSERT INTO prebriefs (user_id, summary, generated_at) VALUES (?, ?, ?)
				 ON DUPLICATE KEY UPDATE summary = VALUES(summary), generated_at = VALUES(generated_at)`
		}
		if _, err = tx.ExecContext(ctx, stmt, userID, result.Prebrief, now); err != nil {
			return fmt.Errorf("upsert prebrief: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit results: %w", err)
	}
	return nil
}

func insertClauses(ctx context.Context, tx *sql.Tx, userID int64, result models.AnalysisResult, now time.Time, withExcerpt bool) error {
	var (
		query strings.Builder
		args  []interface{}
	)
	if withExcerpt {
		query.WriteString(`INSERT INTO clause_findings
		 (user_id, clause_type, clause_status, rationale, recommendation, source_document, confidence_score, contract_excerpt, synthetic, created_at) VALUES `)
	} else {
		query.WriteString(`INSERT INTO clause_findings
		 (user_id, clause_type, clause_status, rationale, recommendation, source_document, confidence_score, synthetic, created_at) VALUES `)
	}
	for i, c := range result.Clauses {
		if i > 0 {
			query.WriteString(", ")
		}
		if withExcerpt {
			query.WriteString("(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
			var excerpt interface{}
			if c.ContractExcerpt != "" {
				excerpt = c.ContractExcerpt
			}
			args = append(args, userID, c.ClauseType, string(c.ClauseStatus), c.Rationale,
				c.Recommendation, c.SourceDocument, c.ConfidenceScore, excerpt, result.Synthetic, now)
		} else {
			query.WriteString("(?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args, userID, c.ClauseType, string(c.ClauseStatus), c.Rationale,
				c.Recommendation, c.SourceDocument, c.ConfidenceScore, result.Synthetic, now)
		}
	}
	_, err := tx.ExecContext(ctx, query.String(), args...)
	return err
}

// isMissingColumnErr recognizes the schema-mismatch class of insert error
// for the stores we run against. Anything else must propagate.
func isMissingColumnErr(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, column) {
		return false
	}
	return strings.Contains(msg, "no such column") || // sqlite SELECT/UPDATE
		strings.Contains(msg, "has no column named") || // sqlite INSERT
		strings.Contains(msg, "Unknown column") || // mysql 1054
		strings.Contains(msg, "42703") || // postgres undefined_column
		strings.Contains(msg, "does not exist")
}

// CurrentResults returns the user's current clause findings and summary.
func (s *Service) CurrentResults(ctx context.Context, userID int64) (models.AnalysisResult, error) {
	var result models.AnalysisResult
	result.Clauses = []models.ClauseFinding{}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, clause_type, clause_status, rationale, recommendation,
		        source_document, confidence_score, contract_excerpt, synthetic, created_at
		 FROM clause_findings WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return result, fmt.Errorf("list clause findings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.ClauseFinding
		var excerpt sql.NullString
		if err := rows.Scan(&c.ID, &c.UserID, &c.ClauseType, &c.ClauseStatus, &c.Rationale,
			&c.Recommendation, &c.SourceDocument, &c.ConfidenceScore, &excerpt, &c.Synthetic, &c.CreatedAt); err != nil {
			return result, fmt.Errorf("scan clause finding: %w", err)
		}
		c.ContractExcerpt = excerpt.String
		result.Clauses = append(result.Clauses, c)
		if c.Synthetic {
			result.Synthetic = true
		}
	}
	if err := rows.Err(); err != nil {
		return result, err
	}

	var sum models.AnalysisSummary
	var strengths, opportunities, priorities string
	err = s.db.QueryRowContext(ctx,
		`SELECT id, user_id, strengths, opportunities, alignment_rating, alignment_explanation,
		        confidence_score, recommendation, negotiation_priorities, synthetic, created_at
		 FROM analysis_summaries WHERE user_id = ? ORDER BY id DESC LIMIT 1`, userID,
	).Scan(&sum.ID, &sum.UserID, &strengths, &opportunities, &sum.AlignmentRating, &sum.AlignmentExplanation,
		&sum.ConfidenceScore, &sum.Recommendation, &priorities, &sum.Synthetic, &sum.CreatedAt)
	switch {
	case err == nil:
		sum.Strengths = decodeList(strengths)
		sum.Opportunities = decodeList(opportunities)
		sum.NegotiationPriorities = decodeList(priorities)
		result.Summary = &sum
		if sum.Synthetic {
			result.Synthetic = true
		}
	case errors.Is(err, sql.ErrNoRows):
		result.Summary = nil
	default:
		return result, fmt.Errorf("query analysis summary: %w", err)
	}

	return result, nil
}
