package model

import "time"

// Report is the top-level JSON structure for a batch grading run.
type Report struct {
	GradedAt    time.Time   `json:"graded_at"`
	Results     []ReportRow `json:"results"`
	TotalScore  float64     `json:"total_score"`
	MaxPossible float64     `json:"max_possible"`
	Percent     float64     `json:"percent"`
}

// ReportRow is the outcome for one submission. Either Breakdown is set, or
// Error explains why the row stayed ungraded.
type ReportRow struct {
	QuestionID string     `json:"question_id"`
	Breakdown  *Breakdown `json:"breakdown,omitempty"`
	Percent    float64    `json:"percent"`
	Error      string     `json:"error,omitempty"`
}
