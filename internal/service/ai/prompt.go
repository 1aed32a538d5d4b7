package ai

import (
	"fmt"
	"strings"

	"offerlens/internal/extract"
	"offerlens/internal/models"
)

// DocumentSection is one document's contribution to the analysis prompt.
type DocumentSection struct {
	Filename  string
	Content   string
	Simulated bool
}

// BuildContractAnalysisPrompt renders the documents and candidate context
// into the single instruction sent to the model. It is a pure function:
// identical inputs produce byte-identical output. The six-status taxonomy
// and the three-key JSON envelope here are the wire contract the parser
// depends on; change them together.
func BuildContractAnalysisPrompt(sections []DocumentSection, profile *models.NegotiationProfile) string {
	var docs strings.Builder
	for i, sec := range sections {
		if i > 0 {
			docs.WriteString("\n\n---\n\n")
		}
		if sec.Simulated {
			fmt.Fprintf(&docs, "Document: %s %s\n%s", sec.Filename, extract.SimulatedMarker, sec.Content)
		} else {
			fmt.Fprintf(&docs, "Document: %s\n%s", sec.Filename, sec.Content)
		}
	}

	roleTitle := "Software Engineer"
	level := "senior"
	priorities := []string{"compensation", "growth"}
	goals := "Competitive compensation"
	if profile != nil {
		if profile.RoleTitle != "" {
			roleTitle = profile.RoleTitle
		}
		if profile.Level != "" {
			level = profile.Level
		}
		if len(profile.Priorities) > 0 {
			priorities = profile.Priorities
		}
		goals = fmt.Sprintf("Target base: $%d, Target total: $%d", profile.TargetCompBase, profile.TargetCompTotal)
	}

	return strings.TrimSpace(fmt.Sprintf(`
You are an expert employment contract attorney with deep experience in technology and startup employment agreements. Perform a comprehensive analysis of this employment contract.

ANALYSIS FRAMEWORK:
Analyze ALL contract terms present in the document, focusing on these key areas:
1. Compensation (salary, bonuses, equity, benefits)
2. Job role and responsibilities
3. Employment terms (at-will, duration, probation)
4. Equity and vesting schedules
5. Benefits and perquisites
6. Termination and severance
7. Non-compete and restrictive covenants
8. Confidentiality and IP assignment
9. Working arrangements and policies
10. Legal and governance terms

For each significant term found, classify it as:
- "excellent" - Significantly favors the employee
- "good" - Above market standard
- "standard" - Typical market terms
- "concerning" - Below market or potentially problematic
- "red_flag" - Strongly unfavorable or unusual
- "missing" - Important term not addressed

CANDIDATE CONTEXT (use as guidance, not constraints):
- Role: %s (%s level)
- Priorities: %s
- Compensation targets: %s

CONTRACT CONTENT:
%s

INSTRUCTIONS:
1. Analyze the actual contract terms comprehensively
2. Compare against market standards for this role/level
3. Identify both positive and negative aspects
4. Consider the candidate's priorities but don't limit analysis to them
5. Provide specific, actionable recommendations
6. Include exact quotes or references from the contract when relevant

Return a JSON object with three main sections:

{
  "prebrief": "A 2-4 sentence executive summary of this contract, written in clear, long-form prose. This should provide a high-level overview of the offer, highlight the most important strengths and concerns, and set the context for a reviewer.",
  "clauses": [
    {
      "clause_type": "Base Salary",
      "clause_status": "excellent|good|standard|concerning|red_flag|missing",
      "rationale": "Detailed explanation of why this classification was given",
      "recommendation": "Specific actionable advice for the candidate",
      "source_document": "filename",
      "confidence_score": 0.95,
      "contract_excerpt": "Relevant quote from contract"
    }
  ],
  "summary": {
    "strengths": [
      "List of 3-5 key strengths of this offer",
      "Each should be specific and tied to contract terms"
    ],
    "opportunities": [
      "List of 3-5 areas for improvement or negotiation",
      "Each should be actionable and specific"
    ],
    "alignment_rating": "aligned|partially_aligned|misaligned",
    "alignment_explanation": "Detailed explanation of how well this offer aligns with the candidate's stated priorities and goals",
    "confidence_score": 0.85,
    "recommendation": "Clear, personalized recommendation: Should they take it? What should they negotiate? What are the key considerations?",
    "negotiation_priorities": [
      "Top 3-5 items to focus on in negotiations, ranked by importance"
    ]
  }
}

Focus on providing thorough, professional analysis that covers all important aspects of the employment agreement with a personalized summary that directly addresses the candidate's goals and priorities.

Return only valid JSON, no other text.
`, roleTitle, level, strings.Join(priorities, ", "), goals, docs.String()))
}
