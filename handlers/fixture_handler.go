package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matchday/tournament-tracker/middleware"
	"github.com/matchday/tournament-tracker/services"
)

type FixtureHandler struct {
	fixtureService    services.FixtureService
	tournamentService services.TournamentService
}

func NewFixtureHandler(fs services.FixtureService, ts services.TournamentService) *FixtureHandler {
	return &FixtureHandler{fixtureService: fs, tournamentService: ts}
}

// GenerateHandler handles POST /tournaments/{code}/fixtures
// ?regenerate=true replaces the affected stage instead of topping up.
func (h *FixtureHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	regenerate := r.URL.Query().Get("regenerate") == "true"

	if err := h.requireAdmin(w, r, code); err != nil {
		return
	}

	result, err := h.fixtureService.GenerateFixtures(r.Context(), code, regenerate)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AdvanceHandler handles POST /tournaments/{code}/fixtures/advance
func (h *FixtureHandler) AdvanceHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	if err := h.requireAdmin(w, r, code); err != nil {
		return
	}

	result, err := h.fixtureService.AdvanceKnockout(r.Context(), code)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// requireAdmin writes the error response itself; callers just return on a
// non-nil result.
func (h *FixtureHandler) requireAdmin(w http.ResponseWriter, r *http.Request, code string) error {
	t, err := h.tournamentService.Get(r.Context(), code)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return err
	}
	if t.Admin != middleware.UserID(r.Context()) {
		forbiddenResponse(w, r, "only the tournament admin can manage fixtures")
		return services.ErrAdminOnly
	}
	return nil
}
