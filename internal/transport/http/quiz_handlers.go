package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"techquiz-service/internal/auth"
	"techquiz-service/internal/domain"
)

func (h *Handler) createQuiz(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title      string            `json:"title"`
		Technology string            `json:"technology"`
		Level      string            `json:"level"`
		Questions  []domain.Question `json:"questions"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{"message": "invalid JSON body"})
		return
	}
	quiz, err := h.quizzes.Create(r.Context(), domain.Quiz{
		Title:      req.Title,
		Technology: req.Technology,
		Level:      domain.Level(req.Level),
		Questions:  req.Questions,
	}, auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"quiz": quiz})
}

func (h *Handler) listQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.quizzes.List(r.Context(), r.URL.Query().Get("technology"), r.URL.Query().Get("level"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"count": len(quizzes), "quizzes": quizzes})
}

func (h *Handler) getQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.quizzes.Get(r.Context(), chi.URLParam(r, "quizID"), false)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"quiz": quiz})
}

func (h *Handler) quizMeta(w http.ResponseWriter, r *http.Request) {
	meta, err := h.quizzes.Meta(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"stats": meta})
}

func (h *Handler) submitQuiz(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answers []domain.SubmittedAnswer `json:"answers"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{"message": "invalid JSON body"})
		return
	}
	submission, err := h.quizzes.Submit(r.Context(), chi.URLParam(r, "quizID"), req.Answers, auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"results": submission})
}

func (h *Handler) updateQuiz(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title      string            `json:"title"`
		Technology string            `json:"technology"`
		Level      string            `json:"level"`
		Questions  []domain.Question `json:"questions"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{"message": "invalid JSON body"})
		return
	}
	quiz, err := h.quizzes.Update(r.Context(), chi.URLParam(r, "quizID"), domain.Quiz{
		Title:      req.Title,
		Technology: req.Technology,
		Level:      domain.Level(req.Level),
		Questions:  req.Questions,
	}, auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"quiz": quiz})
}

func (h *Handler) deleteQuiz(w http.ResponseWriter, r *http.Request) {
	if err := h.quizzes.Delete(r.Context(), chi.URLParam(r, "quizID"), auth.UserIDFromContext(r.Context())); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"message": "quiz deleted successfully"})
}
