package grade

import (
	"strings"

	"github.com/pavelanni/autograder/internal/model"
	"github.com/pavelanni/autograder/internal/nlp"
)

// Triple is one (subject concept, verb lemma, object concept) fact
// expressed by a sentence. Triples are set members: unordered and
// deduplicated per answer, recomputed on every call.
type Triple struct {
	Subject string
	Verb    string
	Object  string
}

// keywordIndex flattens concepts into a lowercase keyword -> concept name
// lookup. When two concepts share a keyword the later concept wins; this
// is a known ambiguity in the config format, kept as-is rather than
// resolved silently.
func keywordIndex(concepts []model.Concept) map[string]string {
	idx := make(map[string]string)
	for _, c := range concepts {
		for _, kw := range c.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				idx[kw] = c.Name
			}
		}
	}
	return idx
}

// ExtractRelations parses text and collects every triple where a verb has
// both a subject child and an object child whose lemmas are known concept
// keywords. Verbs matching only one side contribute nothing.
func ExtractRelations(p *nlp.Pipeline, text string, concepts []model.Concept) (map[Triple]struct{}, error) {
	if len(concepts) == 0 {
		return nil, nil
	}
	doc, err := p.Parse(text)
	if err != nil {
		return nil, err
	}
	idx := keywordIndex(concepts)

	rels := make(map[Triple]struct{})
	for i, tok := range doc.Tokens {
		if tok.POS != nlp.Verb {
			continue
		}
		var subj, obj string
		for _, child := range doc.ChildrenOf(i) {
			name, known := idx[child.Lemma]
			if !known {
				continue
			}
			switch child.Dep {
			case nlp.DepNSubj, nlp.DepNSubjPass:
				subj = name
			case nlp.DepDObj, nlp.DepPObj, nlp.DepAttr, nlp.DepDative, nlp.DepOPRD:
				obj = name
			}
		}
		if subj != "" && obj != "" {
			rels[Triple{Subject: subj, Verb: tok.Lemma, Object: obj}] = struct{}{}
		}
	}
	return rels, nil
}

// RelationScore compares teacher triples against student triples. An empty
// teacher set imposes no relational requirement and scores 1; otherwise
// only exact triple matches count, with no partial credit for two of
// three fields.
func RelationScore(teacher, student map[Triple]struct{}) float64 {
	if len(teacher) == 0 {
		return 1.0
	}
	matches := 0
	for rel := range teacher {
		if _, ok := student[rel]; ok {
			matches++
		}
	}
	return clamp01(float64(matches) / float64(len(teacher)))
}
