package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matchday/tournament-tracker/models"
	"github.com/matchday/tournament-tracker/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

// ListHandler handles GET /tournaments/{code}/matches?stage=group
func (h *MatchHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	stage := models.Stage(r.URL.Query().Get("stage"))

	matches, err := h.matchService.List(r.Context(), code, stage)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetHandler handles GET /tournaments/{code}/matches/{matchID}
func (h *MatchHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	matchID := chi.URLParam(r, "matchID")

	match, err := h.matchService.Get(r.Context(), code, matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SubmitResultHandler handles PUT /tournaments/{code}/matches/{matchID}/result
// A 409 response carries the discrepancy report; the client may resubmit
// with useSummed to accept the player totals.
func (h *MatchHandler) SubmitResultHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	matchID := chi.URLParam(r, "matchID")

	var input services.SubmitResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	out, err := h.matchService.SubmitResult(r.Context(), code, matchID, input)
	if errors.Is(err, services.ErrScoreConflict) {
		if werr := writeJSON(w, http.StatusConflict, jsonResponse{
			"error":       err.Error(),
			"discrepancy": out.Discrepancy,
		}, nil); werr != nil {
			serverErrorResponse(w, r, werr)
		}
		return
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": out}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
