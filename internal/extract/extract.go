package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	pdf "github.com/ledongthuc/pdf"
)

// Extract returns the plain-text content of an uploaded document.
// The declared MIME type wins; the filename suffix is consulted as a
// fallback. Only PDF and plain-text documents are supported.
func Extract(filename, fileType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty file: name=%s type=%s", filename, fileType)
	}

	ft := strings.ToLower(strings.TrimSpace(fileType))
	name := strings.ToLower(filename)

	switch {
	case ft == "application/pdf" || strings.HasSuffix(name, ".pdf"):
		return extractPDF(data)
	case strings.Contains(ft, "text") || strings.HasSuffix(name, ".txt"):
		if !utf8.Valid(data) {
			return "", fmt.Errorf("file %s is not valid utf-8", filename)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported file type: name=%s type=%s", filename, fileType)
	}
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plaintext: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}
	text := strings.TrimSpace(string(b))
	if text == "" {
		return "", fmt.Errorf("pdf has no extractable text layer")
	}
	return text, nil
}
