package nlp

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	prose "github.com/jdkato/prose/v2"
)

// POS is the coarse part-of-speech class used by the scorers.
type POS int

const (
	Other POS = iota
	Noun
	ProperNoun
	Verb
)

// Dep is a grammatical-dependency label relative to a token's head.
type Dep string

const (
	DepNone      Dep = ""
	DepNSubj     Dep = "nsubj"
	DepNSubjPass Dep = "nsubjpass"
	DepDObj      Dep = "dobj"
	DepPObj      Dep = "pobj"
	DepAttr      Dep = "attr"
	DepDative    Dep = "dative"
	DepOPRD      Dep = "oprd"
)

// Token is one parsed word with its lemma, coarse part of speech, Penn
// Treebank tag, and dependency label relative to its head. Head is the
// index of the syntactic head in the document, or -1 for unattached tokens.
type Token struct {
	Text  string
	Lemma string
	POS   POS
	Tag   string
	Dep   Dep
	Head  int
}

// Doc is the result of parsing one text.
type Doc struct {
	Tokens   []Token
	children [][]int
}

// ChildrenOf returns the direct syntactic children of the token at index i.
func (d *Doc) ChildrenOf(i int) []*Token {
	if i < 0 || i >= len(d.children) {
		return nil
	}
	out := make([]*Token, 0, len(d.children[i]))
	for _, c := range d.children[i] {
		out = append(out, &d.Tokens[c])
	}
	return out
}

// Pipeline tags, lemmatizes, and shallow-parses English text. It is
// rule-based past the tagger and deliberately approximate: consumers must
// tolerate tagging noise. A Pipeline is read-only after construction and
// safe for concurrent use.
type Pipeline struct {
	lemmas *golem.Lemmatizer
}

// NewPipeline loads the lemma dictionary. Call once per process and share
// the result.
func NewPipeline() (*Pipeline, error) {
	lem, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("load lemma dictionary: %w", err)
	}
	return &Pipeline{lemmas: lem}, nil
}

// Parse tokenizes and tags text, then attaches subjects and objects to
// verbs with local word-order rules.
func (p *Pipeline) Parse(text string) (*Doc, error) {
	if strings.TrimSpace(text) == "" {
		return &Doc{}, nil
	}
	pd, err := prose.NewDocument(text, prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("parse text: %w", err)
	}

	ptoks := pd.Tokens()
	doc := &Doc{Tokens: make([]Token, len(ptoks))}
	for i, pt := range ptoks {
		doc.Tokens[i] = Token{
			Text:  pt.Text,
			Lemma: p.lemmas.LemmaLower(pt.Text),
			POS:   coarsePOS(pt.Tag),
			Tag:   pt.Tag,
			Head:  -1,
		}
	}
	attach(doc.Tokens)

	doc.children = make([][]int, len(doc.Tokens))
	for i, t := range doc.Tokens {
		if t.Head >= 0 {
			doc.children[t.Head] = append(doc.children[t.Head], i)
		}
	}
	return doc, nil
}

func coarsePOS(tag string) POS {
	switch {
	case strings.HasPrefix(tag, "NNP"):
		return ProperNoun
	case strings.HasPrefix(tag, "NN"):
		return Noun
	case strings.HasPrefix(tag, "VB"):
		return Verb
	default:
		return Other
	}
}

// attach binds each verb's nearest preceding noun as its subject and the
// nouns following it (until the clause ends) as its objects. Prepositions
// switch object labels to pobj; a copular verb yields attr; two bare nouns
// after a verb are read as dative + dobj. Auxiliaries ("is produced",
// "has grown") attach nothing themselves and are transparent to the
// subject scan of the verb they support.
func attach(toks []Token) {
	aux := auxiliaries(toks)
	for v := range toks {
		if toks[v].POS != Verb || aux[v] {
			continue
		}
		passive := toks[v].Tag == "VBN" && precededByBe(toks, v)

		for i := v - 1; i >= 0; i-- {
			t := &toks[i]
			if t.POS == Verb && !aux[i] {
				break
			}
			if clauseBoundary(t.Tag) {
				break
			}
			if subjectCandidate(t) {
				if t.Head < 0 {
					t.Head = v
					t.Dep = DepNSubj
					if passive {
						t.Dep = DepNSubjPass
					}
				}
				break
			}
		}

		prep := false
		copular := toks[v].Lemma == "be"
		firstObj := -1
		for i := v + 1; i < len(toks); i++ {
			t := &toks[i]
			if t.POS == Verb || t.Tag == "TO" || clauseBoundary(t.Tag) {
				break
			}
			if t.Tag == "IN" {
				prep = true
				continue
			}
			if (t.POS != Noun && t.POS != ProperNoun) || t.Head >= 0 {
				continue
			}
			t.Head = v
			switch {
			case prep:
				t.Dep = DepPObj
			case copular:
				t.Dep = DepAttr
			case firstObj >= 0:
				toks[firstObj].Dep = DepDative
				t.Dep = DepDObj
			default:
				t.Dep = DepDObj
				firstObj = i
			}
		}
	}
}

// auxiliaries marks be/have/do verbs that support another verb within the
// next two tokens ("is produced", "has been growing").
func auxiliaries(toks []Token) []bool {
	aux := make([]bool, len(toks))
	for i, t := range toks {
		if t.POS != Verb {
			continue
		}
		switch t.Lemma {
		case "be", "have", "do":
		default:
			continue
		}
		for j := i + 1; j < len(toks) && j <= i+2; j++ {
			if toks[j].POS == Verb {
				aux[i] = true
				break
			}
		}
	}
	return aux
}

func subjectCandidate(t *Token) bool {
	return t.POS == Noun || t.POS == ProperNoun || t.Tag == "PRP"
}

func precededByBe(toks []Token, v int) bool {
	for i := v - 1; i >= 0 && i >= v-3; i-- {
		if toks[i].Lemma == "be" {
			return true
		}
	}
	return false
}

func clauseBoundary(tag string) bool {
	switch tag {
	case ".", ",", ":", "(", ")", "CC", "WDT", "WP", "WRB":
		return true
	}
	return false
}

// IsWord reports whether a token is alphabetic (used for frequency counts).
func IsWord(t Token) bool {
	for _, r := range t.Text {
		if !unicode.IsLetter(r) && r != '-' && r != '\'' {
			return false
		}
	}
	return t.Text != ""
}
