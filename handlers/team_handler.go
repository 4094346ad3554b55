package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matchday/tournament-tracker/middleware"
	"github.com/matchday/tournament-tracker/models"
	"github.com/matchday/tournament-tracker/services"
)

const maxLogoBytes = 5 << 20 // 5MB

type TeamHandler struct {
	tournamentService services.TournamentService
	teamService       services.TeamService
}

func NewTeamHandler(ts services.TournamentService, teams services.TeamService) *TeamHandler {
	return &TeamHandler{tournamentService: ts, teamService: teams}
}

// ApproveHandler handles POST /tournaments/{code}/teams/{teamID}/approve
func (h *TeamHandler) ApproveHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	teamID := chi.URLParam(r, "teamID")
	uid := middleware.UserID(r.Context())

	if err := h.tournamentService.ApproveTeam(r.Context(), code, uid, teamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"approved": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RejectHandler handles POST /tournaments/{code}/teams/{teamID}/reject
func (h *TeamHandler) RejectHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	teamID := chi.URLParam(r, "teamID")
	uid := middleware.UserID(r.Context())

	if err := h.tournamentService.RejectTeam(r.Context(), code, uid, teamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"rejected": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadLogoHandler handles PUT /tournaments/{code}/teams/{teamID}/logo
func (h *TeamHandler) UploadLogoHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	teamID := chi.URLParam(r, "teamID")
	uid := middleware.UserID(r.Context())

	contentType := r.Header.Get("Content-Type")
	body := http.MaxBytesReader(w, r.Body, maxLogoBytes)

	url, err := h.teamService.UploadLogo(r.Context(), code, uid, teamID, contentType, body)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"logoUrl": url}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreatePersonalHandler handles POST /me/teams/{sport}
func (h *TeamHandler) CreatePersonalHandler(w http.ResponseWriter, r *http.Request) {
	sport := chi.URLParam(r, "sport")
	uid := middleware.UserID(r.Context())

	var input struct {
		Name    string   `json:"name"`
		Players []string `json:"players,omitempty"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	id, err := h.teamService.CreatePersonal(r.Context(), uid, sport, input.Name, input.Players)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"teamId": id}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListPersonalHandler handles GET /me/teams/{sport}
func (h *TeamHandler) ListPersonalHandler(w http.ResponseWriter, r *http.Request) {
	sport := chi.URLParam(r, "sport")
	uid := middleware.UserID(r.Context())

	teams, err := h.teamService.ListPersonal(r.Context(), uid, sport)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdatePersonalHandler handles PATCH /me/teams/{sport}/{teamID}
func (h *TeamHandler) UpdatePersonalHandler(w http.ResponseWriter, r *http.Request) {
	sport := chi.URLParam(r, "sport")
	teamID := chi.URLParam(r, "teamID")
	uid := middleware.UserID(r.Context())

	var fields map[string]interface{}
	if err := readJSON(w, r, &fields); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.teamService.UpdatePersonal(r.Context(), uid, sport, teamID, fields); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"updated": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeletePersonalHandler handles DELETE /me/teams/{sport}/{teamID}
func (h *TeamHandler) DeletePersonalHandler(w http.ResponseWriter, r *http.Request) {
	sport := chi.URLParam(r, "sport")
	teamID := chi.URLParam(r, "teamID")
	uid := middleware.UserID(r.Context())

	if err := h.teamService.DeletePersonal(r.Context(), uid, sport, teamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func isParticipant(teams map[string]models.Team, uid string) bool {
	for _, tm := range teams {
		if tm.RequesterUID == uid {
			return true
		}
	}
	return false
}
