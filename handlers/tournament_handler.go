package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matchday/tournament-tracker/middleware"
	"github.com/matchday/tournament-tracker/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: ts}
}

// CreateHandler handles POST /tournaments
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserID(r.Context())

	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	code, tournament, err := h.tournamentService.Create(r.Context(), uid, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"code": code, "tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetHandler handles GET /tournaments/{code}
func (h *TournamentHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	tournament, err := h.tournamentService.Get(r.Context(), code)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	// Private tournaments are visible to their admin and participants only.
	if !tournament.Config.IsPublic {
		uid := middleware.UserID(r.Context())
		if uid == "" {
			unauthorizedResponse(w, r, "authentication required")
			return
		}
		if tournament.Admin != uid && !isParticipant(tournament.Teams, uid) {
			forbiddenResponse(w, r, "tournament is private")
			return
		}
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateConfigHandler handles PATCH /tournaments/{code}/config
func (h *TournamentHandler) UpdateConfigHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	uid := middleware.UserID(r.Context())

	var fields map[string]interface{}
	if err := readJSON(w, r, &fields); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.tournamentService.UpdateConfig(r.Context(), code, uid, fields); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"updated": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// JoinHandler handles POST /tournaments/{code}/join
func (h *TournamentHandler) JoinHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	uid := middleware.UserID(r.Context())

	var input struct {
		TeamName       string `json:"teamName"`
		DisplayName    string `json:"displayName,omitempty"`
		PersonalTeamID string `json:"personalTeamId,omitempty"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	teamID, err := h.tournamentService.Join(r.Context(), code, uid, input.DisplayName, services.JoinInput{
		TeamName:       input.TeamName,
		PersonalTeamID: input.PersonalTeamID,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"teamId": teamID}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteHandler handles DELETE /tournaments/{code}
func (h *TournamentHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	uid := middleware.UserID(r.Context())

	if err := h.tournamentService.Delete(r.Context(), code, uid); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMineHandler handles GET /me/tournaments/{kind}
func (h *TournamentHandler) ListMineHandler(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserID(r.Context())
	kind := chi.URLParam(r, "kind")

	refs, err := h.tournamentService.ListUserTournaments(r.Context(), uid, kind)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": refs}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SpectateHandler handles POST /tournaments/{code}/spectate
func (h *TournamentHandler) SpectateHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	uid := middleware.UserID(r.Context())

	if err := h.tournamentService.Spectate(r.Context(), code, uid); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"spectating": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
