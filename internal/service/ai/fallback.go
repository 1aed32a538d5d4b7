package ai

import "fmt"

// FallbackPayload returns the fixed, schema-valid analysis substituted when
// the model is unreachable. It is plausible but synthetic; callers tag the
// parsed result so audits can tell it from real model output.
func FallbackPayload(sourceDocument string) string {
	if sourceDocument == "" {
		sourceDocument = "unknown"
	}
	return fmt.Sprintf(`{
  "clauses": [
    {
      "clause_type": "Non-Compete",
      "clause_status": "red_flag",
      "rationale": "12-month duration exceeds industry norms for senior engineers",
      "recommendation": "Negotiate down to 6 months or add geographic limitations",
      "source_document": %q,
      "confidence_score": 0.85
    },
    {
      "clause_type": "Equity Vesting",
      "clause_status": "standard",
      "rationale": "4-year vesting with 1-year cliff is industry standard",
      "recommendation": "No changes needed",
      "source_document": %q,
      "confidence_score": 0.95
    }
  ],
  "summary": {
    "strengths": ["Competitive equity package", "Standard vesting terms"],
    "opportunities": ["Negotiate non-compete duration", "Clarify severance terms"],
    "alignment_rating": "partially_aligned",
    "alignment_explanation": "The offer meets most compensation targets but has concerning restrictive covenants",
    "confidence_score": 0.8,
    "recommendation": "Accept with negotiations on non-compete terms",
    "negotiation_priorities": ["Reduce non-compete duration", "Add geographic limitations", "Clarify severance package"]
  }
}`, sourceDocument, sourceDocument)
}
