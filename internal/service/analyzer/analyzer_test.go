package analyzer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"offerlens/internal/config"
	"offerlens/internal/extract"
	"offerlens/internal/models"
	"offerlens/internal/service/ai"
	"offerlens/internal/service/review"
	"offerlens/internal/storage"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg := &config.Config{
		Databases: map[string]config.DatabaseConfig{
			"sqlite3": {DSN: ":memory:"},
		},
	}
	db, err := storage.Open("sqlite3", cfg)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := storage.Migrate(db, "sqlite3"); err != nil {
		t.Fatalf("migrate db: %v", err)
	}
	return db
}

type fakeCompleter struct {
	raw      string
	degraded bool
	prompt   string
	calls    int
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt, fallbackSource string) (string, bool) {
	f.calls++
	f.prompt = prompt
	if f.degraded {
		return ai.FallbackPayload(fallbackSource), true
	}
	return f.raw, false
}

type fakeBlobs struct {
	objects map[string][]byte
}

func (f *fakeBlobs) Fetch(ctx context.Context, key string) ([]byte, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return data, nil
}

type fakeLocker struct {
	held     bool
	acquired int
	released int
}

func (f *fakeLocker) AcquireRunLock(ctx context.Context, userID int64) (bool, error) {
	f.acquired++
	return !f.held, nil
}

func (f *fakeLocker) ReleaseRunLock(ctx context.Context, userID int64) error {
	f.released++
	return nil
}

const modelEnvelope = `{
	"prebrief": "Strong offer overall.",
	"clauses": [
		{"clause_type": "Base Salary", "clause_status": "good", "rationale": "Above market", "recommendation": "Accept", "source_document": "offer.txt", "confidence_score": 0.9}
	],
	"summary": {
		"strengths": ["Strong base"], "opportunities": ["Equity"],
		"alignment_rating": "aligned", "alignment_explanation": "Meets targets",
		"confidence_score": 0.85, "recommendation": "Accept",
		"negotiation_priorities": ["Equity refresh"]
	}
}`

func seedDocument(t *testing.T, svc *review.Service, userID int64, filename, fileType, key string) *models.ContractDocument {
	t.Helper()
	doc, err := svc.RecordDocument(context.Background(), models.ContractDocument{
		UserID:     userID,
		Filename:   filename,
		FileType:   fileType,
		StorageKey: key,
	})
	if err != nil {
		t.Fatalf("seed document: %v", err)
	}
	return doc
}

func auditRows(t *testing.T, db *sql.DB, userID int64) int {
	t.Helper()
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM audit_log WHERE user_id = ?`, userID).Scan(&count); err != nil {
		t.Fatalf("count audit rows: %v", err)
	}
	return count
}

func TestAnalyzeNoDocumentsFailsBeforeModelAndAudit(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()
	reviewSvc := review.NewService(db, "sqlite3")
	completer := &fakeCompleter{raw: modelEnvelope}
	orch := NewOrchestrator(reviewSvc, completer, &fakeBlobs{}, nil)

	_, err := orch.Analyze(context.Background(), 31)
	if !errors.Is(err, ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments, got %v", err)
	}
	if completer.calls != 0 {
		t.Fatalf("model must not be invoked without documents")
	}
	if n := auditRows(t, db, 31); n != 0 {
		t.Fatalf("no audit entry expected, got %d", n)
	}
}

func TestAnalyzeHappyPathPersistsAndAudits(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()
	reviewSvc := review.NewService(db, "sqlite3")
	doc := seedDocument(t, reviewSvc, 32, "offer.txt", "text/plain", "users/32/offer.txt")
	blobs := &fakeBlobs{objects: map[string][]byte{
		"users/32/offer.txt": []byte("Base salary of $180,000 per year."),
	}}
	completer := &fakeCompleter{raw: modelEnvelope}
	orch := NewOrchestrator(reviewSvc, completer, blobs, nil)
	ctx := context.Background()

	result, err := orch.Analyze(ctx, 32)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if result.Synthetic {
		t.Fatalf("healthy run must not be synthetic")
	}
	if result.Prebrief != "Strong offer overall." {
		t.Fatalf("unexpected prebrief %q", result.Prebrief)
	}
	if !strings.Contains(completer.prompt, "Base salary of $180,000 per year.") {
		t.Fatalf("prompt missing extracted document text")
	}

	stored, err := reviewSvc.CurrentResults(ctx, 32)
	if err != nil {
		t.Fatalf("current results: %v", err)
	}
	if len(stored.Clauses) != 1 || stored.Clauses[0].ClauseType != "Base Salary" {
		t.Fatalf("persisted clauses wrong: %+v", stored.Clauses)
	}
	if stored.Summary == nil {
		t.Fatalf("summary not persisted")
	}

	// extracted text is written back so the next run skips extraction
	docs, err := reviewSvc.ListDocuments(ctx, 32)
	if err != nil {
		t.Fatalf("list documents: %v", err)
	}
	if docs[0].ID == doc.ID && docs[0].TextContent == "" {
		t.Fatalf("extracted text not cached on document")
	}

	var promptType string
	if err := db.QueryRow(`SELECT prompt_type FROM audit_log WHERE user_id = 32`).Scan(&promptType); err != nil {
		t.Fatalf("query audit: %v", err)
	}
	if promptType != "contract_analysis" {
		t.Fatalf("unexpected prompt type %q", promptType)
	}
}

func TestAnalyzeDegradedRunIsTaggedSynthetic(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()
	reviewSvc := review.NewService(db, "sqlite3")
	seedDocument(t, reviewSvc, 33, "offer.txt", "text/plain", "users/33/offer.txt")
	blobs := &fakeBlobs{objects: map[string][]byte{
		"users/33/offer.txt": []byte("Offer text."),
	}}
	completer := &fakeCompleter{degraded: true}
	orch := NewOrchestrator(reviewSvc, completer, blobs, nil)
	ctx := context.Background()

	result, err := orch.Analyze(ctx, 33)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !result.Synthetic {
		t.Fatalf("degraded run must be tagged synthetic")
	}
	if len(result.Clauses) != 2 {
		t.Fatalf("fallback payload should parse into 2 clauses, got %d", len(result.Clauses))
	}

	stored, err := reviewSvc.CurrentResults(ctx, 33)
	if err != nil {
		t.Fatalf("current results: %v", err)
	}
	if !stored.Synthetic {
		t.Fatalf("synthetic tag must persist")
	}

	var promptType string
	if err := db.QueryRow(`SELECT prompt_type FROM audit_log WHERE user_id = 33`).Scan(&promptType); err != nil {
		t.Fatalf("query audit: %v", err)
	}
	if promptType != "contract_analysis_fallback" {
		t.Fatalf("unexpected prompt type %q", promptType)
	}
}

func TestAnalyzeExtractionFailureFallsBackPerDocument(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()
	reviewSvc := review.NewService(db, "sqlite3")
	seedDocument(t, reviewSvc, 34, "offer.pdf", "offer", "users/34/offer.pdf")
	seedDocument(t, reviewSvc, 34, "jd.txt", "text/plain", "users/34/jd.txt")
	// offer blob is missing, jd is fine
	blobs := &fakeBlobs{objects: map[string][]byte{
		"users/34/jd.txt": []byte("Senior engineer role."),
	}}
	completer := &fakeCompleter{raw: modelEnvelope}
	orch := NewOrchestrator(reviewSvc, completer, blobs, nil)

	if _, err := orch.Analyze(context.Background(), 34); err != nil {
		t.Fatalf("one bad document must not abort the run: %v", err)
	}
	if !strings.Contains(completer.prompt, "Document: offer.pdf "+extract.SimulatedMarker) {
		t.Fatalf("failed document must appear with the simulated marker")
	}
	if !strings.Contains(completer.prompt, "Senior engineer role.") {
		t.Fatalf("healthy document text missing from prompt")
	}
	if !strings.Contains(completer.prompt, "Base Salary: $150,000") {
		t.Fatalf("offer placeholder content missing from prompt")
	}
}

func TestAnalyzeRespectsRunLock(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()
	reviewSvc := review.NewService(db, "sqlite3")
	seedDocument(t, reviewSvc, 35, "offer.txt", "text/plain", "users/35/offer.txt")
	blobs := &fakeBlobs{objects: map[string][]byte{
		"users/35/offer.txt": []byte("Offer text."),
	}}
	completer := &fakeCompleter{raw: modelEnvelope}

	held := &fakeLocker{held: true}
	orch := NewOrchestrator(reviewSvc, completer, blobs, held)
	if _, err := orch.Analyze(context.Background(), 35); !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", err)
	}
	if completer.calls != 0 {
		t.Fatalf("model must not run while lock is held")
	}
	if held.released != 0 {
		t.Fatalf("a lock we never held must not be released")
	}

	free := &fakeLocker{}
	orch = NewOrchestrator(reviewSvc, completer, blobs, free)
	if _, err := orch.Analyze(context.Background(), 35); err != nil {
		t.Fatalf("analyze with free lock: %v", err)
	}
	if free.acquired != 1 || free.released != 1 {
		t.Fatalf("lock should be acquired and released once, got %d/%d", free.acquired, free.released)
	}
}
