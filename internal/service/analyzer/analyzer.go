package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"offerlens/internal/extract"
	"offerlens/internal/models"
	"offerlens/internal/service/ai"
	"offerlens/internal/service/review"
)

var (
	// ErrNoDocuments means the user has nothing to analyze; the run fails
	// before the model is ever invoked.
	ErrNoDocuments = errors.New("no documents found")

	// ErrRunInProgress means another analysis for the same user holds the
	// run lock.
	ErrRunInProgress = errors.New("analysis already in progress")
)

const (
	promptTypeAnalysis = "contract_analysis"
	promptTypeFallback = "contract_analysis_fallback"
)

// Completer produces raw model output for a rendered prompt. The boolean
// reports degraded mode (fallback payload substituted for a failed call).
type Completer interface {
	Complete(ctx context.Context, prompt, fallbackSource string) (string, bool)
}

// BlobFetcher retrieves raw document bytes by storage key.
type BlobFetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// RunLocker serializes analysis runs per user.
type RunLocker interface {
	AcquireRunLock(ctx context.Context, userID int64) (bool, error)
	ReleaseRunLock(ctx context.Context, userID int64) error
}

// Orchestrator sequences the contract analysis pipeline.
type Orchestrator struct {
	review *review.Service
	ai     Completer
	blobs  BlobFetcher
	locks  RunLocker
}

// NewOrchestrator wires the pipeline stages. locks may be nil when no
// cross-request serialization is available.
func NewOrchestrator(reviewSvc *review.Service, completer Completer, blobs BlobFetcher, locks RunLocker) *Orchestrator {
	return &Orchestrator{
		review: reviewSvc,
		ai:     completer,
		blobs:  blobs,
		locks:  locks,
	}
}

// Analyze produces and persists a fresh analysis for the user and returns
// the normalized result. Recoverable failures (extraction, model call,
// parse) degrade the run with logged fallbacks; everything else is fatal.
func (o *Orchestrator) Analyze(ctx context.Context, userID int64) (*models.AnalysisResult, error) {
	if userID <= 0 {
		return nil, errors.New("invalid user id")
	}

	if o.locks != nil {
		acquired, err := o.locks.AcquireRunLock(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("acquire run lock: %w", err)
		}
		if !acquired {
			return nil, ErrRunInProgress
		}
		defer func() {
			if err := o.locks.ReleaseRunLock(ctx, userID); err != nil {
				log.Printf("[analyzer] release run lock for user %d failed: %v", userID, err)
			}
		}()
	}

	profile, err := o.review.EnsureProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve profile: %w", err)
	}

	docs, err := o.review.ListDocuments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	sections := make([]ai.DocumentSection, 0, len(docs))
	for _, doc := range docs {
		sections = append(sections, o.documentSection(ctx, doc))
	}

	prompt := ai.BuildContractAnalysisPrompt(sections, profile)
	log.Printf("[analyzer] prompt built for user %d: %d docs, %d bytes", userID, len(sections), len(prompt))

	raw, degraded := o.ai.Complete(ctx, prompt, docs[0].Filename)

	result := ai.ParseReviewResults(raw)
	result.Synthetic = degraded

	if err := o.review.ReplaceResults(ctx, userID, result); err != nil {
		return nil, fmt.Errorf("persist results: %w", err)
	}

	promptType := promptTypeAnalysis
	if degraded {
		promptType = promptTypeFallback
	}
	if err := o.review.AppendAuditLog(ctx, userID, contractText(sections), raw, promptType); err != nil {
		return nil, fmt.Errorf("write audit log: %w", err)
	}

	log.Printf("[analyzer] analysis complete for user %d: %d clauses, summary=%t, synthetic=%t",
		userID, len(result.Clauses), result.Summary != nil, result.Synthetic)
	return &result, nil
}

// documentSection resolves one document's text: cached content wins, then
// fetch-and-extract with write-back, and on any failure a clearly-labeled
// simulated placeholder so one bad file never aborts the run.
func (o *Orchestrator) documentSection(ctx context.Context, doc models.ContractDocument) ai.DocumentSection {
	if doc.TextContent != "" {
		return ai.DocumentSection{Filename: doc.Filename, Content: doc.TextContent}
	}

	data, err := o.blobs.Fetch(ctx, doc.StorageKey)
	if err != nil {
		log.Printf("[analyzer] fetch document %d (%s) failed, substituting simulated content: %v", doc.ID, doc.Filename, err)
		return ai.DocumentSection{Filename: doc.Filename, Content: extract.SimulatedContent(doc.FileType, doc.Filename), Simulated: true}
	}

	text, err := extract.Extract(doc.Filename, doc.FileType, data)
	if err != nil {
		log.Printf("[analyzer] extract document %d (%s) failed, substituting simulated content: %v", doc.ID, doc.Filename, err)
		return ai.DocumentSection{Filename: doc.Filename, Content: extract.SimulatedContent(doc.FileType, doc.Filename), Simulated: true}
	}

	if err := o.review.CacheDocumentText(ctx, doc.ID, text); err != nil {
		// cache write-back is best effort; the extracted text is still good
		log.Printf("[analyzer] cache text for document %d failed: %v", doc.ID, err)
	}
	return ai.DocumentSection{Filename: doc.Filename, Content: text}
}

func contractText(sections []ai.DocumentSection) string {
	var b strings.Builder
	for _, sec := range sections {
		b.WriteString("\n---\nDocument: ")
		b.WriteString(sec.Filename)
		if sec.Simulated {
			b.WriteString(" ")
			b.WriteString(extract.SimulatedMarker)
		}
		b.WriteString("\n")
		b.WriteString(sec.Content)
	}
	return b.String()
}
