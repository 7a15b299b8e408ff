package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"techquiz-service/internal/app"
	"techquiz-service/internal/auth"
)

func (h *Handler) recordResult(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title          string `json:"title"`
		Technology     string `json:"technology"`
		Level          string `json:"level"`
		TotalQuestions int    `json:"totalQuestions"`
		Correct        int    `json:"correct"`
		Wrong          *int   `json:"wrong"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{"message": "invalid JSON body"})
		return
	}
	result, err := h.results.Record(r.Context(), app.RecordInput{
		Title:          req.Title,
		Technology:     req.Technology,
		Level:          req.Level,
		TotalQuestions: req.TotalQuestions,
		Correct:        req.Correct,
		Wrong:          req.Wrong,
	}, auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"result": result})
}

func (h *Handler) listResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.results.ListByUser(r.Context(), auth.UserIDFromContext(r.Context()), r.URL.Query().Get("technology"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"count": len(results), "results": results})
}

func (h *Handler) getResult(w http.ResponseWriter, r *http.Request) {
	result, err := h.results.Get(r.Context(), chi.URLParam(r, "resultID"), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"result": result})
}

func (h *Handler) deleteResult(w http.ResponseWriter, r *http.Request) {
	if err := h.results.Delete(r.Context(), chi.URLParam(r, "resultID"), auth.UserIDFromContext(r.Context())); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"message": "result deleted successfully"})
}

func (h *Handler) userStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.results.Statistics(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"stats": stats})
}
