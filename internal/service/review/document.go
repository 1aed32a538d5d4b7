package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"offerlens/internal/models"
)

// RecordDocument stores metadata for an uploaded document.
func (s *Service) RecordDocument(ctx context.Context, doc models.ContractDocument) (*models.ContractDocument, error) {
	if doc.UserID <= 0 {
		return nil, errors.New("user_id is required")
	}
	doc.Filename = strings.TrimSpace(doc.Filename)
	if doc.Filename == "" {
		return nil, errors.New("filename is required")
	}
	if doc.StorageKey == "" {
		return nil, errors.New("storage key is required")
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO contract_documents (user_id, filename, file_type, storage_key, text_content, notes, uploaded_at)
		 VALUES (?, ?, ?, ?, NULL, ?, ?)`,
		doc.UserID, doc.Filename, doc.FileType, doc.StorageKey, doc.Notes, now,
	)
	if err != nil {
		return nil, fmt.Errorf("record document: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("document id: %w", err)
	}
	doc.ID = id
	doc.UploadedAt = now
	return &doc, nil
}

// ListDocuments returns all documents owned by the user in upload order.
func (s *Service) ListDocuments(ctx context.Context, userID int64) ([]models.ContractDocument, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, filename, file_type, storage_key, text_content, notes, uploaded_at
		 FROM contract_documents WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.ContractDocument
	for rows.Next() {
		var d models.ContractDocument
		var text sql.NullString
		if err := rows.Scan(&d.ID, &d.UserID, &d.Filename, &d.FileType, &d.StorageKey, &text, &d.Notes, &d.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		d.TextContent = text.String
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// CacheDocumentText writes extracted text back onto the document record so
// later runs skip extraction. Safe to repeat.
func (s *Service) CacheDocumentText(ctx context.Context, docID int64, text string) error {
	if docID <= 0 {
		return errors.New("invalid document id")
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE contract_documents SET text_content = ? WHERE id = ?`, text, docID); err != nil {
		return fmt.Errorf("cache document text: %w", err)
	}
	return nil
}

// DeleteDocument removes a document record and returns its storage key so
// the caller can delete the blob.
func (s *Service) DeleteDocument(ctx context.Context, userID, docID int64) (string, error) {
	if docID <= 0 {
		return "", errors.New("invalid document id")
	}
	var key string
	err := s.db.QueryRowContext(ctx,
		`SELECT storage_key FROM contract_documents WHERE id = ? AND user_id = ?`, docID, userID,
	).Scan(&key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", err
		}
		return "", fmt.Errorf("lookup document: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM contract_documents WHERE id = ? AND user_id = ?`, docID, userID); err != nil {
		return "", fmt.Errorf("delete document: %w", err)
	}
	return key, nil
}
