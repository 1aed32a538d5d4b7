package ai

import (
	"testing"

	"offerlens/internal/models"
)

func TestParseEnvelopeShape(t *testing.T) {
	raw := `{
		"prebrief": "Solid offer with one restrictive covenant worth pushing back on.",
		"clauses": [
			{
				"clause_type": "Base Salary",
				"clause_status": "good",
				"rationale": "Above median for the level",
				"recommendation": "Accept",
				"source_document": "offer.pdf",
				"confidence_score": 0.9,
				"contract_excerpt": "Base salary of $180,000"
			}
		],
		"summary": {
			"strengths": ["Strong base"],
			"opportunities": ["Negotiate equity"],
			"alignment_rating": "aligned",
			"alignment_explanation": "Meets stated targets",
			"confidence_score": 0.85,
			"recommendation": "Accept",
			"negotiation_priorities": ["equity refresh"]
		}
	}`
	result := ParseReviewResults(raw)
	if result.Prebrief == "" {
		t.Fatalf("expected prebrief to be kept")
	}
	if len(result.Clauses) != 1 {
		t.Fatalf("expected 1 clause, got %d", len(result.Clauses))
	}
	if result.Clauses[0].ClauseStatus != models.StatusGood {
		t.Fatalf("unexpected status %q", result.Clauses[0].ClauseStatus)
	}
	if result.Clauses[0].ContractExcerpt != "Base salary of $180,000" {
		t.Fatalf("excerpt not preserved: %q", result.Clauses[0].ContractExcerpt)
	}
	if result.Summary == nil {
		t.Fatalf("expected summary")
	}
	if result.Summary.AlignmentRating != models.AlignmentAligned {
		t.Fatalf("unexpected alignment %q", result.Summary.AlignmentRating)
	}
}

func TestParseBareArrayShape(t *testing.T) {
	raw := `[
		{"clause_type": "Severance", "clause_status": "missing", "rationale": "No severance terms found", "recommendation": "Request severance language", "source_document": "offer.pdf", "confidence_score": 0.7},
		{"clause_type": "PTO", "clause_status": "standard", "rationale": "Four weeks", "recommendation": "No change", "source_document": "offer.pdf", "confidence_score": 0.8}
	]`
	result := ParseReviewResults(raw)
	if len(result.Clauses) != 2 {
		t.Fatalf("expected 2 clauses, got %d", len(result.Clauses))
	}
	if result.Summary != nil {
		t.Fatalf("bare array should carry no summary")
	}
	if result.Prebrief != "" {
		t.Fatalf("bare array should carry no prebrief")
	}
}

func TestParseSingleObjectWrapped(t *testing.T) {
	raw := `{"clause_type": "Non-Compete", "clause_status": "red_flag", "rationale": "24-month term", "recommendation": "Negotiate", "source_document": "offer.pdf", "confidence_score": 0.9}`
	result := ParseReviewResults(raw)
	if len(result.Clauses) != 1 {
		t.Fatalf("expected single clause wrapped, got %d", len(result.Clauses))
	}
	if result.Clauses[0].ClauseType != "Non-Compete" {
		t.Fatalf("unexpected clause type %q", result.Clauses[0].ClauseType)
	}
	if result.Summary != nil {
		t.Fatalf("wrapped single clause should carry no summary")
	}
}

func TestParseGarbageYieldsEmptyResult(t *testing.T) {
	for _, raw := range []string{"", "not json at all", "{truncated", "Sure! Here is the analysis: {}"} {
		result := ParseReviewResults(raw)
		if result.Clauses == nil {
			t.Fatalf("clauses must never be nil for input %q", raw)
		}
		if len(result.Clauses) != 0 {
			t.Fatalf("expected no clauses for input %q, got %d", raw, len(result.Clauses))
		}
		if result.Summary != nil {
			t.Fatalf("expected nil summary for input %q", raw)
		}
	}
}

func TestParseDropsInvalidClauseStatus(t *testing.T) {
	raw := `{"clauses": [
		{"clause_type": "Base Salary", "clause_status": "amazing", "rationale": "x", "recommendation": "y", "source_document": "offer.pdf", "confidence_score": 0.9},
		{"clause_type": "Equity", "clause_status": "standard", "rationale": "x", "recommendation": "y", "source_document": "offer.pdf", "confidence_score": 0.9}
	]}`
	result := ParseReviewResults(raw)
	if len(result.Clauses) != 1 {
		t.Fatalf("expected invalid status dropped, got %d clauses", len(result.Clauses))
	}
	if result.Clauses[0].ClauseType != "Equity" {
		t.Fatalf("wrong clause survived: %q", result.Clauses[0].ClauseType)
	}
}

func TestParseDropsInvalidAlignmentRating(t *testing.T) {
	raw := `{"clauses": [], "summary": {
		"strengths": [], "opportunities": [],
		"alignment_rating": "perfect",
		"alignment_explanation": "", "confidence_score": 0.5,
		"recommendation": "", "negotiation_priorities": []
	}}`
	result := ParseReviewResults(raw)
	if result.Summary != nil {
		t.Fatalf("summary with invalid rating must be dropped")
	}
}

func TestParseClampsConfidenceAndDefaults(t *testing.T) {
	raw := `{"clauses": [
		{"clause_status": "good", "rationale": "x", "recommendation": "y", "confidence_score": 0},
		{"clause_type": "Bonus", "clause_status": "good", "rationale": "x", "recommendation": "y", "source_document": "offer.pdf", "confidence_score": 3.2}
	]}`
	result := ParseReviewResults(raw)
	if len(result.Clauses) != 2 {
		t.Fatalf("expected 2 clauses, got %d", len(result.Clauses))
	}
	if result.Clauses[0].ClauseType != "Unknown" {
		t.Fatalf("missing type should default to Unknown, got %q", result.Clauses[0].ClauseType)
	}
	if result.Clauses[0].SourceDocument != "unknown" {
		t.Fatalf("missing source should default to unknown, got %q", result.Clauses[0].SourceDocument)
	}
	if result.Clauses[0].ConfidenceScore != 0.5 {
		t.Fatalf("zero confidence should clamp to 0.5, got %v", result.Clauses[0].ConfidenceScore)
	}
	if result.Clauses[1].ConfidenceScore != 1 {
		t.Fatalf("overlarge confidence should clamp to 1, got %v", result.Clauses[1].ConfidenceScore)
	}
}

func TestFallbackPayloadParsesClean(t *testing.T) {
	result := ParseReviewResults(FallbackPayload("offer.pdf"))
	if len(result.Clauses) != 2 {
		t.Fatalf("fallback should yield 2 clauses, got %d", len(result.Clauses))
	}
	if result.Clauses[0].ClauseStatus != models.StatusRedFlag {
		t.Fatalf("first fallback clause should be red_flag, got %q", result.Clauses[0].ClauseStatus)
	}
	if result.Clauses[0].SourceDocument != "offer.pdf" {
		t.Fatalf("fallback should carry source document, got %q", result.Clauses[0].SourceDocument)
	}
	if result.Summary == nil || result.Summary.AlignmentRating != models.AlignmentPartiallyAligned {
		t.Fatalf("fallback summary should be partially_aligned")
	}
}

func TestFallbackPayloadDefaultsSource(t *testing.T) {
	result := ParseReviewResults(FallbackPayload(""))
	if len(result.Clauses) == 0 || result.Clauses[0].SourceDocument != "unknown" {
		t.Fatalf("empty source should default to unknown")
	}
}
