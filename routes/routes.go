package routes

import (
	"github.com/fairwayfive/golf-pool/handlers"
	"github.com/fairwayfive/golf-pool/middleware"
	"github.com/fairwayfive/golf-pool/services"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Health      *handlers.HealthHandler
	Tournament  *handlers.TournamentHandler
	Entry       *handlers.EntryHandler
	Participant *handlers.ParticipantHandler
	Bonus       *handlers.BonusHandler
	Jobs        *handlers.JobsHandler
	History     *handlers.HistoryHandler
	WebSocket   *handlers.WebSocketHandler
}

func SetupRoutes(h Handlers, auth *services.AuthService, corsOrigins []string) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", h.Health.Healthz)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournament.List)
		r.Get("/{tournamentID}", h.Tournament.Get)
		r.Get("/{tournamentID}/entries", h.Tournament.Entries)
		r.Get("/{tournamentID}/leaderboard", h.Tournament.Leaderboard)
		r.Get("/{tournamentID}/ranking-history", h.History.History)
		r.Get("/{tournamentID}/ranking-analytics", h.History.Analytics)
	})
	router.Get("/entries/{entryID}", h.Entry.Get)
	router.Get("/ws/leaderboard/{tournamentID}", h.WebSocket.Leaderboard)

	router.Route("/admin", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)
		r.Get("/auth/verify", h.Auth.Verify)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminOnly(auth))

			r.Post("/tournaments", h.Tournament.Create)
			r.Post("/participants", h.Participant.Create)
			r.Get("/participants", h.Participant.List)
			r.Post("/entries", h.Entry.Create)
			r.Post("/entries/{entryID}/rebuys", h.Entry.AddRebuy)

			r.Post("/sync/{tournamentID}", h.Jobs.Sync)
			r.Post("/scores/calculate", h.Jobs.Calculate)
			r.Post("/jobs/start", h.Jobs.Start)
			r.Post("/jobs/stop", h.Jobs.Stop)
			r.Get("/jobs/status", h.Jobs.Status)

			r.Post("/bonus-points", h.Bonus.Add)
			r.Post("/bonus-points/bulk", h.Bonus.AddBulk)
			r.Get("/bonus-points", h.Bonus.List)
			r.Get("/bonus-points/suggestions", h.Bonus.Suggestions)
			r.Delete("/bonus-points/{awardID}", h.Bonus.Delete)
		})
	})

	return router
}
