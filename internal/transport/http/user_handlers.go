package http

import (
	"net/http"

	"techquiz-service/internal/auth"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{"message": "invalid JSON body"})
		return
	}
	resp, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"user": resp.User, "token": resp.Token})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{"message": "invalid JSON body"})
		return
	}
	resp, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"user": resp.User, "token": resp.Token})
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Profile(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"user": user})
}
