package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) globalLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.leaderboards.Global(r.Context(), limitParam(r))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"leaderboard": entries})
}

func (h *Handler) quizLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.leaderboards.Quiz(r.Context(), chi.URLParam(r, "quizID"), limitParam(r))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"leaderboard": entries})
}

func (h *Handler) technologyLeaderboard(w http.ResponseWriter, r *http.Request) {
	technology := chi.URLParam(r, "technology")
	entries, err := h.leaderboards.Technology(r.Context(), technology, limitParam(r))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"technology": technology, "leaderboard": entries})
}

func (h *Handler) quizStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.leaderboards.QuizStats(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"stats": stats})
}
