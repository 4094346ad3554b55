package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matchday/tournament-tracker/handlers"
	"github.com/matchday/tournament-tracker/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Tournament *handlers.TournamentHandler
	Team       *handlers.TeamHandler
	Fixture    *handlers.FixtureHandler
	Match      *handlers.MatchHandler
	Standings  *handlers.StandingsHandler
	Player     *handlers.PlayerHandler
	WebSocket  *handlers.WebSocketHandler
}

func InitRoutes(h Handlers, jwtSecret []byte) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/register", h.Auth.RegisterHandler)
	router.Post("/auth/login", h.Auth.LoginHandler)

	router.Get("/catalog", h.Player.CatalogHandler)

	router.Route("/tournaments", func(r chi.Router) {
		// Public tournament pages; auth is optional so private tournaments
		// can check membership.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(jwtSecret))
			r.Get("/{code}", h.Tournament.GetHandler)
			r.Get("/{code}/matches", h.Match.ListHandler)
			r.Get("/{code}/matches/{matchID}", h.Match.GetHandler)
			r.Get("/{code}/standings", h.Standings.ViewHandler)
			r.Get("/{code}/standings/{group}", h.Standings.GroupHandler)
			r.Get("/{code}/stats", h.Standings.StatsHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(jwtSecret))

			r.Post("/", h.Tournament.CreateHandler)
			r.Patch("/{code}/config", h.Tournament.UpdateConfigHandler)
			r.Delete("/{code}", h.Tournament.DeleteHandler)

			r.Post("/{code}/join", h.Tournament.JoinHandler)
			r.Post("/{code}/spectate", h.Tournament.SpectateHandler)
			r.Post("/{code}/teams/{teamID}/approve", h.Team.ApproveHandler)
			r.Post("/{code}/teams/{teamID}/reject", h.Team.RejectHandler)
			r.Put("/{code}/teams/{teamID}/logo", h.Team.UploadLogoHandler)

			r.Post("/{code}/fixtures", h.Fixture.GenerateHandler)
			r.Post("/{code}/fixtures/advance", h.Fixture.AdvanceHandler)

			r.Put("/{code}/matches/{matchID}/result", h.Match.SubmitResultHandler)
		})
	})

	router.Route("/me", func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtSecret))

		r.Get("/", h.Auth.ProfileHandler)
		r.Patch("/", h.Auth.UpdateProfileHandler)
		r.Get("/tournaments/{kind}", h.Tournament.ListMineHandler)

		r.Post("/players", h.Player.CreateHandler)
		r.Get("/players", h.Player.ListHandler)
		r.Patch("/players/{playerID}", h.Player.UpdateHandler)
		r.Delete("/players/{playerID}", h.Player.DeleteHandler)
		r.Post("/players/{playerID}/progress/{sport}", h.Player.RecordProgressHandler)
		r.Get("/players/{playerID}/progress/{sport}", h.Player.ProgressHistoryHandler)

		r.Post("/teams/{sport}", h.Team.CreatePersonalHandler)
		r.Get("/teams/{sport}", h.Team.ListPersonalHandler)
		r.Patch("/teams/{sport}/{teamID}", h.Team.UpdatePersonalHandler)
		r.Delete("/teams/{sport}/{teamID}", h.Team.DeletePersonalHandler)
	})

	router.Get("/ws/tournaments/{code}", h.WebSocket.ServeWs)

	return router
}
