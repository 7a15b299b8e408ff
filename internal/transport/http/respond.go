package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"techquiz-service/internal/domain"
)

// envelope is the JSON shape every endpoint responds with.
type envelope map[string]interface{}

func writeJSON(w http.ResponseWriter, status int, payload envelope) {
	if _, ok := payload["success"]; !ok {
		payload["success"] = status < 400
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps domain errors onto transport responses. NotFound and
// ownership failures pass through unchanged; anything unrecognized is a
// storage or infrastructure failure and stays a 500.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	var vs domain.Violations
	switch {
	case errors.As(err, &vs):
		writeJSON(w, http.StatusBadRequest, envelope{"message": vs.Error(), "violations": vs})
	case errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrResultNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, envelope{"message": err.Error()})
	case errors.Is(err, domain.ErrNotOwner):
		writeJSON(w, http.StatusForbidden, envelope{"message": err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, envelope{"message": err.Error()})
	case errors.Is(err, domain.ErrEmailTaken):
		writeJSON(w, http.StatusBadRequest, envelope{"message": err.Error()})
	default:
		log.Error("request failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, envelope{"message": "server error"})
	}
}

func decodeBody(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func limitParam(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
