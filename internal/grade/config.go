package grade

import (
	"fmt"
	"math"

	"github.com/pavelanni/autograder/internal/model"
)

// Penalty increments applied when a rule fires. The thresholds that
// trigger them are configurable; the increments themselves are fixed
// calibration points.
const (
	stuffingStep  = 0.2
	stuffingCap   = 0.5
	noVerbPenalty = 0.5
	ratioPenalty  = 0.3
	lengthPenalty = 0.4
	weightEpsilon = 1e-9
)

// Config carries the calibration constants of the hybrid grader. They
// encode pedagogical judgment, not derived laws, so every one of them is
// tunable.
type Config struct {
	// Signal weights. All four must sum to 1.
	WConcept  float64
	WRelation float64
	WSemantic float64
	WPenalty  float64

	// Floor-and-power rescale of raw cosine similarity.
	SimFloor    float64
	SimExponent float64

	// Penalty thresholds: keyword occurrences before they count as
	// stuffing, noun/verb ratio before an answer looks degenerate, and
	// the student/teacher length ratio before it counts as rambling.
	StuffingLimit int
	NounVerbRatio float64
	LengthRatio   float64

	// Normalized score above which the Correct flag is set.
	CorrectThreshold float64
}

// DefaultConfig returns the calibration used by the original grader.
func DefaultConfig() Config {
	return Config{
		WConcept:         0.25,
		WRelation:        0.30,
		WSemantic:        0.35,
		WPenalty:         0.10,
		SimFloor:         0.05,
		SimExponent:      1.1,
		StuffingLimit:    3,
		NounVerbRatio:    5,
		LengthRatio:      3,
		CorrectThreshold: 0.5,
	}
}

// Validate fails fast on weight or rescale settings that would break the
// bounded-score contract.
func (c Config) Validate() error {
	for name, w := range map[string]float64{
		"concept": c.WConcept, "relation": c.WRelation,
		"semantic": c.WSemantic, "penalty": c.WPenalty,
	} {
		if w < 0 {
			return fmt.Errorf("%w: negative %s weight %v", model.ErrConfig, name, w)
		}
	}
	sum := c.WConcept + c.WRelation + c.WSemantic + c.WPenalty
	if math.Abs(sum-1) > weightEpsilon {
		return fmt.Errorf("%w: weights sum to %v, want 1", model.ErrConfig, sum)
	}
	if c.SimFloor < 0 || c.SimFloor >= 1 {
		return fmt.Errorf("%w: similarity floor %v outside [0,1)", model.ErrConfig, c.SimFloor)
	}
	if c.SimExponent <= 0 {
		return fmt.Errorf("%w: similarity exponent %v must be positive", model.ErrConfig, c.SimExponent)
	}
	if c.StuffingLimit < 1 {
		return fmt.Errorf("%w: stuffing limit %d must be at least 1", model.ErrConfig, c.StuffingLimit)
	}
	if c.NounVerbRatio <= 0 || c.LengthRatio <= 0 {
		return fmt.Errorf("%w: penalty ratios must be positive", model.ErrConfig)
	}
	if c.CorrectThreshold < 0 || c.CorrectThreshold > 1 {
		return fmt.Errorf("%w: correct threshold %v outside [0,1]", model.ErrConfig, c.CorrectThreshold)
	}
	return nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
