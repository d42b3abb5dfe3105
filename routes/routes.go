package routes

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/swiss-tournament/handlers"
	"github.com/Dosada05/swiss-tournament/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	JWTSecretKey       string
	CORSAllowedOrigins []string
	// Gatherer backs /metrics; the route is not mounted when nil.
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

func SetupRoutes(
	router *chi.Mux,
	opts Options,
	tournamentHandler *handlers.TournamentHandler,
	swissHandler *handlers.SwissHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Link"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	organizerOnly := []func(http.Handler) http.Handler{
		middleware.Authenticate(opts.JWTSecretKey, opts.Logger),
		middleware.RequireRole(middleware.RoleOrganizer),
	}

	router.Route("/api/v1/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListHandler)
		r.With(organizerOnly...).Post("/", tournamentHandler.CreateHandler)

		r.Route("/{tournamentID}", func(r chi.Router) {
			r.Get("/", tournamentHandler.GetByIDHandler)
			r.Get("/players", tournamentHandler.ListPlayersHandler)
			r.Get("/players/count", tournamentHandler.CountPlayersHandler)
			r.Get("/standings", swissHandler.StandingsHandler)
			r.Get("/matches", swissHandler.ListMatchesHandler)

			r.Group(func(r chi.Router) {
				r.Use(organizerOnly...)

				r.Post("/reset", tournamentHandler.ResetHandler)
				r.Post("/players", tournamentHandler.RegisterPlayerHandler)
				r.Post("/players/{playerID}/withdraw", tournamentHandler.WithdrawPlayerHandler)
				r.Post("/bye", swissHandler.AssignByeHandler)
				r.Post("/pairings", swissHandler.PairingsHandler)
				r.Post("/matches", swissHandler.ReportMatchHandler)
			})
		})
	})
}
