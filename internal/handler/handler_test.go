package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/autograder/internal/embed"
	"github.com/pavelanni/autograder/internal/grade"
	"github.com/pavelanni/autograder/internal/model"
	"github.com/pavelanni/autograder/internal/nlp"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	pipeline, err := nlp.NewPipeline()
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	g, err := grade.New(grade.DefaultConfig(), pipeline, embed.NewLexical())
	if err != nil {
		t.Fatalf("grade.New: %v", err)
	}
	h := New(g, []model.QuestionConfig{
		{
			QuestionID:    "q1",
			Type:          model.TypeDescriptive,
			TeacherAnswer: "Plants use sunlight to produce glucose.",
			Concepts: []model.Concept{
				{Name: "plants", Keywords: []string{"plant", "plants"}, Weight: 1},
				{Name: "sunlight", Keywords: []string{"sunlight", "light"}, Weight: 1},
			},
			MaxScore: 10,
		},
		{
			QuestionID:    "m1",
			Type:          model.TypeMCQ,
			CorrectOption: "B",
			MaxScore:      1,
		},
	})

	r := chi.NewRouter()
	h.Routes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestHandleGrade(t *testing.T) {
	srv := newTestServer(t)

	body := `{"question_id": "q1", "answer": "Plants use light to make sugar."}`
	resp, err := http.Post(srv.URL+"/grade", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /grade: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var b model.Breakdown
	if err := json.NewDecoder(resp.Body).Decode(&b); err != nil {
		t.Fatalf("decode breakdown: %v", err)
	}
	if b.QuestionID != "q1" {
		t.Errorf("question id = %q, want q1", b.QuestionID)
	}
	if b.ConceptScore != 1.0 {
		t.Errorf("concept score = %v, want 1.0", b.ConceptScore)
	}
	if b.FinalScore < 0 || b.FinalScore > 10 {
		t.Errorf("final score = %v outside [0,10]", b.FinalScore)
	}
}

func TestHandleGradeUnknownQuestion(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/grade", "application/json",
		strings.NewReader(`{"question_id": "nope", "answer": "x"}`))
	if err != nil {
		t.Fatalf("POST /grade: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHandleGradeBadBody(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/grade", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("POST /grade: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleGradeMCQRejected(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/grade", "application/json",
		strings.NewReader(`{"question_id": "m1", "answer": "B"}`))
	if err != nil {
		t.Fatalf("POST /grade: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}
