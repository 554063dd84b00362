package grade

import (
	"testing"

	"github.com/pavelanni/autograder/internal/model"
)

func TestConceptScore(t *testing.T) {
	plants := model.Concept{Name: "plants", Keywords: []string{"plant", "plants"}, Weight: 1}
	sunlight := model.Concept{Name: "sunlight", Keywords: []string{"sunlight", "light"}, Weight: 1}

	tests := []struct {
		name     string
		concepts []model.Concept
		text     string
		want     float64
	}{
		{"no concepts means full credit", nil, "anything at all", 1.0},
		{"no concepts empty text", nil, "", 1.0},
		{"both matched", []model.Concept{plants, sunlight}, "Plants use light to make sugar.", 1.0},
		{"one matched", []model.Concept{plants, sunlight}, "Plants are green.", 0.5},
		{"none matched", []model.Concept{plants, sunlight}, "The mitochondria is the powerhouse.", 0.0},
		{"empty text", []model.Concept{plants, sunlight}, "", 0.0},
		{"case insensitive", []model.Concept{plants}, "PLANTS GROW", 1.0},
		{"one hit per concept", []model.Concept{plants}, "plant plants plant", 1.0},
		{"zero total weight degenerate", []model.Concept{{Name: "x", Keywords: []string{"x"}, Weight: 0}}, "x", 0.0},
		{
			"weights respected",
			[]model.Concept{
				{Name: "big", Keywords: []string{"big"}, Weight: 3},
				{Name: "small", Keywords: []string{"small"}, Weight: 1},
			},
			"a big thing",
			0.75,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConceptScore(tt.concepts, tt.text)
			if got != tt.want {
				t.Errorf("ConceptScore = %v, want %v", got, tt.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("ConceptScore = %v outside [0,1]", got)
			}
		})
	}
}

func TestConceptScoreMonotonic(t *testing.T) {
	concepts := []model.Concept{
		{Name: "plants", Keywords: []string{"plant"}, Weight: 1},
		{Name: "sunlight", Keywords: []string{"light"}, Weight: 1},
		{Name: "glucose", Keywords: []string{"glucose"}, Weight: 1},
	}
	texts := []string{
		"nothing relevant",
		"a plant",
		"a plant in light",
		"a plant in light makes glucose",
	}
	prev := -1.0
	for _, text := range texts {
		score := ConceptScore(concepts, text)
		if score < prev {
			t.Fatalf("score %v for %q dropped below %v", score, text, prev)
		}
		prev = score
	}
}
