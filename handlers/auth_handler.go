package handlers

import (
	"net/http"

	"github.com/matchday/tournament-tracker/middleware"
	"github.com/matchday/tournament-tracker/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// RegisterHandler handles POST /auth/register
func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.authService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"auth": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// LoginHandler handles POST /auth/login
func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"auth": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ProfileHandler handles GET /me
func (h *AuthHandler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserID(r.Context())
	profile, err := h.authService.Profile(r.Context(), uid)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateProfileHandler handles PATCH /me
func (h *AuthHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserID(r.Context())
	var fields map[string]interface{}
	if err := readJSON(w, r, &fields); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.authService.UpdateProfile(r.Context(), uid, fields); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"updated": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
