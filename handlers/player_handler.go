package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matchday/tournament-tracker/middleware"
	"github.com/matchday/tournament-tracker/models"
	"github.com/matchday/tournament-tracker/services"
)

type PlayerHandler struct {
	playerService services.PlayerService
	catalog       *models.Catalog
}

func NewPlayerHandler(ps services.PlayerService, catalog *models.Catalog) *PlayerHandler {
	return &PlayerHandler{playerService: ps, catalog: catalog}
}

// CatalogHandler handles GET /catalog
func (h *PlayerHandler) CatalogHandler(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"catalog": h.catalog}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateHandler handles POST /me/players
func (h *PlayerHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserID(r.Context())

	var input services.PlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	id, player, err := h.playerService.Create(r.Context(), uid, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"playerId": id, "player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler handles GET /me/players
func (h *PlayerHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserID(r.Context())

	players, err := h.playerService.List(r.Context(), uid)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateHandler handles PATCH /me/players/{playerID}
func (h *PlayerHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserID(r.Context())
	playerID := chi.URLParam(r, "playerID")

	var input services.PlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.playerService.Update(r.Context(), uid, playerID, input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"updated": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteHandler handles DELETE /me/players/{playerID}
func (h *PlayerHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserID(r.Context())
	playerID := chi.URLParam(r, "playerID")

	if err := h.playerService.Delete(r.Context(), uid, playerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecordProgressHandler handles POST /me/players/{playerID}/progress/{sport}
func (h *PlayerHandler) RecordProgressHandler(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserID(r.Context())
	playerID := chi.URLParam(r, "playerID")
	sport := chi.URLParam(r, "sport")

	var input struct {
		Ratings map[string]int `json:"ratings"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	snap, err := h.playerService.RecordProgress(r.Context(), uid, sport, playerID, input.Ratings)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"snapshot": snap}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ProgressHistoryHandler handles GET /me/players/{playerID}/progress/{sport}
func (h *PlayerHandler) ProgressHistoryHandler(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserID(r.Context())
	playerID := chi.URLParam(r, "playerID")
	sport := chi.URLParam(r, "sport")

	history, err := h.playerService.ProgressHistory(r.Context(), uid, sport, playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"history": history}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
