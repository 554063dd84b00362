package grade

import (
	"context"
	"math"

	"github.com/pavelanni/autograder/internal/embed"
	"github.com/pavelanni/autograder/internal/nlp"
)

// Rescale maps raw cosine similarity onto the grading scale. Raw cosine
// rarely drops below ~0 for related text, so a linear map reads too
// generously: values under floor collapse to 0, the rest stretches over
// [0,1], and the exponent suppresses mid-range scores so near-exact
// matches are rewarded more than proportionally.
func Rescale(raw, floor, exponent float64) float64 {
	raw = math.Max(-1, math.Min(1, raw))
	if raw < floor {
		return 0
	}
	scaled := (raw - floor) / (1 - floor)
	return clamp01(math.Pow(scaled, exponent))
}

// semantic encodes reference and candidate with the shared backend and
// returns the rescaled similarity. Text that normalizes to empty never
// reaches the encoder: the score short-circuits to 0 instead of risking a
// degenerate inference call.
func (g *Grader) semantic(ctx context.Context, reference, candidate string) (float64, error) {
	if nlp.Normalize(reference) == "" || nlp.Normalize(candidate) == "" {
		return 0, nil
	}
	ref, err := g.enc.Encode(ctx, reference)
	if err != nil {
		return 0, err
	}
	cand, err := g.enc.Encode(ctx, candidate)
	if err != nil {
		return 0, err
	}
	return Rescale(embed.Cosine(ref, cand), g.cfg.SimFloor, g.cfg.SimExponent), nil
}
