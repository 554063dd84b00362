package grade

import (
	"math"
	"strings"

	"github.com/pavelanni/autograder/internal/model"
	"github.com/pavelanni/autograder/internal/nlp"
)

// stuffingPenalty charges stuffingStep for every concept keyword whose
// lemma frequency exceeds limit, capped at stuffingCap. Keywords are
// looked up as written (lowercased) against the lemma counts, so an
// inflected keyword that never appears as a lemma simply misses.
func stuffingPenalty(freq map[string]int, concepts []model.Concept, limit int) float64 {
	hits := 0
	for _, c := range concepts {
		for _, kw := range c.Keywords {
			if freq[strings.ToLower(strings.TrimSpace(kw))] > limit {
				hits++
			}
		}
	}
	return math.Min(stuffingCap, stuffingStep*float64(hits))
}

// structurePenalty flags noun-heavy answers: nouns with no verb at all is
// the degenerate case, a noun/verb ratio above maxRatio the milder one.
func structurePenalty(nouns, verbs int, maxRatio float64) float64 {
	switch {
	case verbs == 0 && nouns > 0:
		return noVerbPenalty
	case float64(nouns)/math.Max(1, float64(verbs)) > maxRatio:
		return ratioPenalty
	default:
		return 0
	}
}

// ramblingPenalty fires when the student answer runs past lengthRatio
// times the reference length. An empty reference imposes no limit.
func ramblingPenalty(teacherWords, studentWords int, lengthRatio float64) float64 {
	if teacherWords > 0 && float64(studentWords) > lengthRatio*float64(teacherWords) {
		return lengthPenalty
	}
	return 0
}

// penalty sums the three independent anti-gaming signals and clamps the
// result to [0,1].
func (g *Grader) penalty(q model.QuestionConfig, answer string) (float64, error) {
	text := nlp.Normalize(answer)
	if text == "" {
		return 0, nil
	}
	doc, err := g.nlp.Parse(text)
	if err != nil {
		return 0, err
	}

	freq := make(map[string]int)
	nouns, verbs := 0, 0
	for _, tok := range doc.Tokens {
		switch tok.POS {
		case nlp.Noun, nlp.ProperNoun:
			nouns++
		case nlp.Verb:
			verbs++
		}
		if nlp.IsWord(tok) {
			freq[tok.Lemma]++
		}
	}

	total := stuffingPenalty(freq, q.Concepts, g.cfg.StuffingLimit) +
		structurePenalty(nouns, verbs, g.cfg.NounVerbRatio) +
		ramblingPenalty(nlp.WordCount(q.TeacherAnswer), len(strings.Fields(text)), g.cfg.LengthRatio)
	return clamp01(total), nil
}
