package ai

import (
	"encoding/json"
	"log"

	"offerlens/internal/models"
)

// ParseReviewResults interprets raw model output and normalizes it into an
// AnalysisResult. Three shapes are accepted, in priority order: an object
// with a clauses array (plus optional summary/prebrief), a bare array of
// clauses, and a single clause object wrapped as a one-element list.
// A JSON parse failure yields an empty result, never an error: one bad
// model response degrades a single run instead of failing the request.
func ParseReviewResults(raw string) models.AnalysisResult {
	var envelope struct {
		Prebrief string                  `json:"prebrief"`
		Clauses  []models.ClauseFinding  `json:"clauses"`
		Summary  *models.AnalysisSummary `json:"summary"`
	}
	if err := json.Unmarshal([]byte(raw), &envelope); err == nil && envelope.Clauses != nil {
		log.Printf("[parse] envelope shape detected: len=%d clauses=%d summary=%t", len(raw), len(envelope.Clauses), envelope.Summary != nil)
		return models.AnalysisResult{
			Prebrief: envelope.Prebrief,
			Clauses:  validClauses(envelope.Clauses),
			Summary:  validSummary(envelope.Summary),
		}
	}

	var clauses []models.ClauseFinding
	if err := json.Unmarshal([]byte(raw), &clauses); err == nil {
		log.Printf("[parse] bare array shape detected: len=%d clauses=%d", len(raw), len(clauses))
		return models.AnalysisResult{Clauses: validClauses(clauses), Summary: nil}
	}

	var single models.ClauseFinding
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		log.Printf("[parse] unexpected shape, wrapping as single clause: len=%d", len(raw))
		return models.AnalysisResult{Clauses: validClauses([]models.ClauseFinding{single}), Summary: nil}
	}

	log.Printf("[parse] json parse failed, returning empty result: len=%d", len(raw))
	return models.AnalysisResult{Clauses: []models.ClauseFinding{}, Summary: nil}
}

// validClauses drops objects that fail validation rather than trusting model
// output blindly. Missing string fields get the defaults the prompt implies.
func validClauses(in []models.ClauseFinding) []models.ClauseFinding {
	out := make([]models.ClauseFinding, 0, len(in))
	for _, c := range in {
		if !c.ClauseStatus.Valid() {
			log.Printf("[parse] dropping clause with invalid status %q (type=%q)", c.ClauseStatus, c.ClauseType)
			continue
		}
		if c.ClauseType == "" {
			c.ClauseType = "Unknown"
		}
		if c.SourceDocument == "" {
			c.SourceDocument = "unknown"
		}
		c.ConfidenceScore = clampConfidence(c.ConfidenceScore)
		out = append(out, c)
	}
	return out
}

func validSummary(s *models.AnalysisSummary) *models.AnalysisSummary {
	if s == nil {
		return nil
	}
	if !s.AlignmentRating.Valid() {
		log.Printf("[parse] dropping summary with invalid alignment rating %q", s.AlignmentRating)
		return nil
	}
	if s.Strengths == nil {
		s.Strengths = []string{}
	}
	if s.Opportunities == nil {
		s.Opportunities = []string{}
	}
	if s.NegotiationPriorities == nil {
		s.NegotiationPriorities = []string{}
	}
	s.ConfidenceScore = clampConfidence(s.ConfidenceScore)
	return s
}

func clampConfidence(v float64) float64 {
	if v <= 0 {
		return 0.5
	}
	if v > 1 {
		return 1
	}
	return v
}
