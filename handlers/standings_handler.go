package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matchday/tournament-tracker/services"
)

type StandingsHandler struct {
	standingsService services.StandingsService
	statsService     services.StatsService
}

func NewStandingsHandler(ss services.StandingsService, stats services.StatsService) *StandingsHandler {
	return &StandingsHandler{standingsService: ss, statsService: stats}
}

// ViewHandler handles GET /tournaments/{code}/standings
func (h *StandingsHandler) ViewHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	view, err := h.standingsService.View(r.Context(), code)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GroupHandler handles GET /tournaments/{code}/standings/{group}
func (h *StandingsHandler) GroupHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	group := chi.URLParam(r, "group")

	rows, err := h.standingsService.GroupStandings(r.Context(), code, group)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StatsHandler handles GET /tournaments/{code}/stats
func (h *StandingsHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	stats, err := h.statsService.PlayerStats(r.Context(), code)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"stats": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
