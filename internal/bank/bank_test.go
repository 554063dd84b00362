package bank

import (
	"errors"
	"strings"
	"testing"

	"github.com/pavelanni/autograder/internal/model"
)

const sampleBank = `Question_ID,Type,Teacher_Answer,Correct_Option,Correct_Answer,Concept_Names,Concept_Keywords,Max_Score
q1,descriptive,Plants use sunlight to produce glucose.,,,"plants, sunlight","plant, plants; sunlight, light",10
q2,mcq,,B,,,,1
q3,descriptive,Water boils at 100 degrees Celsius.,,,,,
`

func TestRead(t *testing.T) {
	configs, err := Read(strings.NewReader(sampleBank))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(configs) != 3 {
		t.Fatalf("expected 3 configs, got %d", len(configs))
	}

	q1 := configs[0]
	if q1.QuestionID != "q1" || q1.Type != model.TypeDescriptive {
		t.Errorf("q1 = %+v", q1)
	}
	if q1.TeacherAnswer != "Plants use sunlight to produce glucose." {
		t.Errorf("q1 teacher answer = %q", q1.TeacherAnswer)
	}
	if q1.MaxScore != 10 {
		t.Errorf("q1 max score = %v, want 10", q1.MaxScore)
	}
	if len(q1.Concepts) != 2 {
		t.Fatalf("q1 concepts = %+v, want 2", q1.Concepts)
	}
	if q1.Concepts[0].Name != "plants" || q1.Concepts[1].Name != "sunlight" {
		t.Errorf("concept names = %q, %q", q1.Concepts[0].Name, q1.Concepts[1].Name)
	}
	if got := q1.Concepts[1].Keywords; len(got) != 2 || got[0] != "sunlight" || got[1] != "light" {
		t.Errorf("sunlight keywords = %v", got)
	}
	if q1.Concepts[0].Weight != 1.0 {
		t.Errorf("default concept weight = %v, want 1.0", q1.Concepts[0].Weight)
	}

	q2 := configs[1]
	if q2.Type != model.TypeMCQ || q2.CorrectOption != "B" {
		t.Errorf("q2 = %+v", q2)
	}
	if q2.MaxScore != 1 {
		t.Errorf("q2 default max score = %v, want 1", q2.MaxScore)
	}

	q3 := configs[2]
	if q3.MaxScore != 10 {
		t.Errorf("q3 default max score = %v, want 10", q3.MaxScore)
	}
	if len(q3.Concepts) != 0 {
		t.Errorf("q3 concepts = %+v, want none", q3.Concepts)
	}
}

func TestReadRowErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{
			"missing required column",
			"Type,Teacher_Answer\ndescriptive,whatever\n",
		},
		{
			"bad max score",
			"Question_ID,Type,Teacher_Answer,Max_Score\nq1,descriptive,answer,lots\n",
		},
		{
			"invalid type",
			"Question_ID,Type,Teacher_Answer\nq1,truefalse,answer\n",
		},
		{
			"descriptive without teacher answer",
			"Question_ID,Type,Teacher_Answer\nq1,descriptive, \n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.csv))
			if err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestReadValidationWrapsErrConfig(t *testing.T) {
	_, err := Read(strings.NewReader("Question_ID,Type,Teacher_Answer\nq1,bogus,answer\n"))
	if !errors.Is(err, model.ErrConfig) {
		t.Errorf("got %v, want ErrConfig", err)
	}
}

func TestParseConcepts(t *testing.T) {
	tests := []struct {
		name      string
		names     string
		keywords  string
		wantNames []string
	}{
		{"empty", "", "", nil},
		{"names without keywords", "plants", "", nil},
		{"paired", "plants, sunlight", "plant; light, sun", []string{"plants", "sunlight"}},
		{"extra names dropped", "plants, sunlight, glucose", "plant; light", []string{"plants", "sunlight"}},
		{"extra groups dropped", "plants", "plant; light", []string{"plants"}},
		{"blank group skipped", "plants, sunlight", "plant; ;", []string{"plants"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseConcepts(tt.names, tt.keywords)
			if len(got) != len(tt.wantNames) {
				t.Fatalf("got %+v, want names %v", got, tt.wantNames)
			}
			for i, c := range got {
				if c.Name != tt.wantNames[i] {
					t.Errorf("concept %d = %q, want %q", i, c.Name, tt.wantNames[i])
				}
			}
		})
	}
}

func TestReadSubmissions(t *testing.T) {
	data := "question_id,answer\nq1,Plants use light to make sugar.\nq2,\nq1,  spaced answer \n"
	subs, err := ReadSubmissions(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadSubmissions: %v", err)
	}
	if len(subs) != 3 {
		t.Fatalf("expected 3 submissions, got %d", len(subs))
	}
	if subs[0].QuestionID != "q1" || subs[0].Answer != "Plants use light to make sugar." {
		t.Errorf("first submission = %+v", subs[0])
	}
	if subs[1].Answer != "" {
		t.Errorf("empty answer preserved, got %q", subs[1].Answer)
	}
	if subs[2].Answer != "  spaced answer " {
		t.Errorf("answer should stay verbatim, got %q", subs[2].Answer)
	}
}

func TestReadSubmissionsMissingColumns(t *testing.T) {
	_, err := ReadSubmissions(strings.NewReader("id,text\n1,hello\n"))
	if err == nil {
		t.Fatal("expected error for missing columns")
	}
}
