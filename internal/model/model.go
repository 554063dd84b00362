package model

import (
	"fmt"
	"strings"
)

// QuestionType distinguishes descriptive (free-text) questions from
// multiple-choice ones. Only descriptive questions are graded by this
// module; MCQ scoring lives with the collaborator that owns the answer key.
type QuestionType string

const (
	// TypeMCQ is a multiple-choice question.
	TypeMCQ QuestionType = "mcq"
	// TypeDescriptive is a free-text question graded by the hybrid grader.
	TypeDescriptive QuestionType = "descriptive"
)

// Concept is one gradeable idea: the keyword surface forms that count as
// evidence of the idea, and an importance weight. Concepts are immutable
// once constructed and owned by the QuestionConfig that references them.
type Concept struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Weight   float64  `json:"weight"`
}

// QuestionConfig holds everything needed to grade one question. It is built
// once when a question is loaded and is read-only during grading.
type QuestionConfig struct {
	QuestionID    string       `json:"question_id"`
	Type          QuestionType `json:"type"`
	TeacherAnswer string       `json:"teacher_answer"`
	CorrectOption string       `json:"correct_option"`
	CorrectAnswer string       `json:"correct_answer"`
	Concepts      []Concept    `json:"concepts,omitempty"`
	MaxScore      float64      `json:"max_score"`
}

// Validate checks the config for degenerate values. It fails fast with
// ErrConfig instead of silently defaulting anything.
func (q QuestionConfig) Validate() error {
	switch q.Type {
	case TypeMCQ, TypeDescriptive:
	default:
		return fmt.Errorf("%w: question %q has unknown type %q", ErrConfig, q.QuestionID, q.Type)
	}
	if q.MaxScore <= 0 {
		return fmt.Errorf("%w: question %q has non-positive max score %v", ErrConfig, q.QuestionID, q.MaxScore)
	}
	if q.Type == TypeDescriptive && strings.TrimSpace(q.TeacherAnswer) == "" {
		return fmt.Errorf("%w: descriptive question %q has empty teacher answer", ErrConfig, q.QuestionID)
	}
	if len(q.Concepts) > 0 {
		total := 0.0
		for _, c := range q.Concepts {
			if c.Weight < 0 {
				return fmt.Errorf("%w: question %q concept %q has negative weight %v", ErrConfig, q.QuestionID, c.Name, c.Weight)
			}
			total += c.Weight
		}
		if total == 0 {
			return fmt.Errorf("%w: question %q has zero total concept weight", ErrConfig, q.QuestionID)
		}
	}
	return nil
}

// Breakdown is the output of a single grading call. All component scores
// are in [0,1]; FinalScore is in [0, MaxScore]. The record is created fresh
// per call and never mutated afterwards.
type Breakdown struct {
	QuestionID         string  `json:"question_id"`
	FinalScore         float64 `json:"final_score"`
	MaxScore           float64 `json:"max_score"`
	Normalized         float64 `json:"normalized"`
	ConceptScore       float64 `json:"concept_score"`
	RelationScore      float64 `json:"relation_score"`
	SemanticSimilarity float64 `json:"semantic_similarity"`
	Penalty            float64 `json:"penalty"`
	Correct            bool    `json:"correct"`
}
