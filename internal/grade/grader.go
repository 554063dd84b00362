// Package grade implements the hybrid free-text answer grader: keyword
// coverage, relation matching, semantic similarity, and an anti-gaming
// penalty fused into one bounded score.
package grade

import (
	"context"
	"fmt"

	"github.com/pavelanni/autograder/internal/embed"
	"github.com/pavelanni/autograder/internal/model"
	"github.com/pavelanni/autograder/internal/nlp"
)

// Grader fuses the four scoring signals into one bounded score. Construct
// it once per process: the NLP pipeline and embedding backend it holds are
// the only process-lifetime state, both read-only after construction, so a
// Grader is safe for concurrent Grade calls. Individual calls keep no
// state between them.
type Grader struct {
	cfg Config
	nlp *nlp.Pipeline
	enc embed.Encoder
}

// New validates the calibration and wires the shared pipeline and encoder.
func New(cfg Config, pipeline *nlp.Pipeline, enc embed.Encoder) (*Grader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if pipeline == nil {
		return nil, fmt.Errorf("%w: nil NLP pipeline", model.ErrConfig)
	}
	if enc == nil {
		return nil, fmt.Errorf("%w: nil embedding encoder", model.ErrConfig)
	}
	return &Grader{cfg: cfg, nlp: pipeline, enc: enc}, nil
}

// Config returns the grader's calibration.
func (g *Grader) Config() Config { return g.cfg }

// Grade scores one student answer against a question config and returns
// the full breakdown. The config is validated on entry; parser or encoder
// failures surface as a *model.GradeError and are fatal for this call
// only. Given an unchanged config, answer, and backend, the result is
// deterministic.
func (g *Grader) Grade(ctx context.Context, q model.QuestionConfig, studentAnswer string) (*model.Breakdown, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if q.Type != model.TypeDescriptive {
		return nil, fmt.Errorf("%w: question %q is %s, grader handles descriptive questions only",
			model.ErrConfig, q.QuestionID, q.Type)
	}

	conceptScore := ConceptScore(q.Concepts, studentAnswer)

	teacherRels, err := ExtractRelations(g.nlp, nlp.Normalize(q.TeacherAnswer), q.Concepts)
	if err != nil {
		return nil, &model.GradeError{QuestionID: q.QuestionID, Err: fmt.Errorf("extract teacher relations: %w", err)}
	}
	studentRels, err := ExtractRelations(g.nlp, nlp.Normalize(studentAnswer), q.Concepts)
	if err != nil {
		return nil, &model.GradeError{QuestionID: q.QuestionID, Err: fmt.Errorf("extract student relations: %w", err)}
	}
	relationScore := RelationScore(teacherRels, studentRels)

	similarity, err := g.semantic(ctx, q.TeacherAnswer, studentAnswer)
	if err != nil {
		return nil, &model.GradeError{QuestionID: q.QuestionID, Err: fmt.Errorf("semantic similarity: %w", err)}
	}

	penalty, err := g.penalty(q, studentAnswer)
	if err != nil {
		return nil, &model.GradeError{QuestionID: q.QuestionID, Err: fmt.Errorf("penalty estimate: %w", err)}
	}

	combined := clamp01(g.cfg.WConcept*conceptScore +
		g.cfg.WRelation*relationScore +
		g.cfg.WSemantic*similarity -
		g.cfg.WPenalty*penalty)

	final := combined * q.MaxScore
	if final < 0 {
		final = 0
	}
	if final > q.MaxScore {
		final = q.MaxScore
	}

	return &model.Breakdown{
		QuestionID:         q.QuestionID,
		FinalScore:         final,
		MaxScore:           q.MaxScore,
		Normalized:         combined,
		ConceptScore:       conceptScore,
		RelationScore:      relationScore,
		SemanticSimilarity: similarity,
		Penalty:            clamp01(penalty),
		Correct:            combined > g.cfg.CorrectThreshold,
	}, nil
}
