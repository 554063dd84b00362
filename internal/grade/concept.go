package grade

import (
	"strings"

	"github.com/pavelanni/autograder/internal/model"
	"github.com/pavelanni/autograder/internal/nlp"
)

// ConceptScore returns the weighted share of concepts evidenced in text.
// A concept counts once when any of its keywords occurs as a substring of
// the normalized text, no matter how many keywords hit. No configured
// concepts means no concept requirement, which is full credit; a zero
// total weight is degenerate and scores 0 (Validate rejects it upstream).
func ConceptScore(concepts []model.Concept, text string) float64 {
	if len(concepts) == 0 {
		return 1.0
	}
	norm := nlp.Normalize(text)
	var total, gained float64
	for _, c := range concepts {
		total += c.Weight
		for _, kw := range c.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" && strings.Contains(norm, kw) {
				gained += c.Weight
				break
			}
		}
	}
	if total <= 0 {
		return 0
	}
	return clamp01(gained / total)
}
