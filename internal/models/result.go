package models

// AnalysisResult is the normalized outcome of one analysis run.
// Summary is nil when the model returned the bare-array shape.
// Synthetic marks degraded-mode output so audits can tell it apart
// from a real model response.
type AnalysisResult struct {
	Prebrief  string           `json:"prebrief,omitempty"`
	Clauses   []ClauseFinding  `json:"clauses"`
	Summary   *AnalysisSummary `json:"summary"`
	Synthetic bool             `json:"synthetic,omitempty"`
}
