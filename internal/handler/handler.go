// Package handler exposes the grader over a minimal HTTP surface for
// collaborators that prefer a network boundary. It is deliberately thin:
// no auth, no persistence, no sessions.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/autograder/internal/grade"
	"github.com/pavelanni/autograder/internal/model"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	grader    *grade.Grader
	questions map[string]model.QuestionConfig
}

// New creates a Handler serving the given question bank.
func New(g *grade.Grader, configs []model.QuestionConfig) *Handler {
	questions := make(map[string]model.QuestionConfig, len(configs))
	for _, q := range configs {
		questions[q.QuestionID] = q
	}
	return &Handler{grader: g, questions: questions}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/grade", h.handleGrade)
	r.Get("/healthz", h.handleHealth)
}

// gradeRequest is the JSON body of POST /grade. A request names a question
// from the loaded bank and carries the raw student answer.
type gradeRequest struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

func (h *Handler) handleGrade(w http.ResponseWriter, r *http.Request) {
	var req gradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	q, ok := h.questions[req.QuestionID]
	if !ok {
		http.Error(w, "unknown question "+req.QuestionID, http.StatusNotFound)
		return
	}

	breakdown, err := h.grader.Grade(r.Context(), q, req.Answer)
	if err != nil {
		if errors.Is(err, model.ErrConfig) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		slog.Error("grading failed", "question", req.QuestionID, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(breakdown); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"questions": len(h.questions),
	})
}
