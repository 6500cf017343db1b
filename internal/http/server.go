package http

import (
	"net/http"

	"github.com/mauv0809/courtside/internal/availability"
	"github.com/mauv0809/courtside/internal/clock"
	"github.com/mauv0809/courtside/internal/config"
	"github.com/mauv0809/courtside/internal/http/handlers"
	"github.com/mauv0809/courtside/internal/invite"
	"github.com/mauv0809/courtside/internal/match"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/players"
	"github.com/mauv0809/courtside/internal/result"
)

func NewServer(
	availabilities availability.AvailabilityStore,
	invites *invite.Service,
	matches *match.Service,
	results *result.Service,
	playerStore players.PlayerStore,
	metricsSvc metrics.Metrics,
	metricsHandler http.Handler,
	cfg config.Config,
	clk clock.Clock,
) *Server {
	server := &Server{
		Availabilities: availabilities,
		Invites:        invites,
		Matches:        matches,
		Results:        results,
		Players:        playerStore,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Clock:          clk,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /healthz", Chain(handlers.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("POST /availabilities", Chain(handlers.CreateAvailabilityHandler(s.Availabilities, s.Clock), paramsMiddleware))
	s.Router.Handle("GET /availabilities", Chain(handlers.ListAvailabilitiesHandler(s.Availabilities, s.Clock), paramsMiddleware))
	s.Router.Handle("GET /availabilities/{id}", Chain(handlers.GetAvailabilityHandler(s.Availabilities), paramsMiddleware))

	s.Router.Handle("POST /invites", Chain(handlers.CreateInviteHandler(s.Invites), paramsMiddleware))
	s.Router.Handle("GET /invites/{token}", Chain(handlers.GetInviteHandler(s.Invites), paramsMiddleware))
	s.Router.Handle("POST /invites/{token}/confirm", Chain(handlers.ConfirmInviteHandler(s.Invites), paramsMiddleware))
	s.Router.Handle("POST /invites/{token}/decline", Chain(handlers.DeclineInviteHandler(s.Invites), paramsMiddleware))
	s.Router.Handle("POST /invites/{id}/cancel", Chain(handlers.CancelInviteHandler(s.Invites), paramsMiddleware))
	s.Router.Handle("POST /internal/invites/expire", Chain(handlers.ExpireInvitesHandler(s.Invites), paramsMiddleware))
	s.Router.Handle("POST /internal/invites/{id}/expire", Chain(handlers.ExpireInviteHandler(s.Invites), paramsMiddleware))

	s.Router.Handle("POST /matches", Chain(handlers.CreateMatchHandler(s.Matches), paramsMiddleware))
	s.Router.Handle("GET /matches/{id}", Chain(handlers.GetMatchHandler(s.Matches), paramsMiddleware))
	s.Router.Handle("POST /matches/{id}/cancel", Chain(handlers.CancelMatchHandler(s.Matches), paramsMiddleware))
	s.Router.Handle("POST /matches/{id}/complete", Chain(handlers.CompleteMatchHandler(s.Matches), paramsMiddleware))
	s.Router.Handle("POST /matches/{id}/result", Chain(handlers.SubmitResultHandler(s.Results), paramsMiddleware))

	s.Router.Handle("GET /results/{id}", Chain(handlers.GetResultHandler(s.Results), paramsMiddleware))
	s.Router.Handle("POST /results/{id}/confirm", Chain(handlers.ConfirmResultHandler(s.Results), paramsMiddleware))
	s.Router.Handle("POST /results/{id}/dispute", Chain(handlers.DisputeResultHandler(s.Results), paramsMiddleware))
	s.Router.Handle("POST /results/{id}/sets", Chain(handlers.AddSetHandler(s.Results), paramsMiddleware))

	s.Router.Handle("PUT /players", Chain(handlers.UpsertPlayerHandler(s.Players), paramsMiddleware))
	s.Router.Handle("GET /players/leaderboard", Chain(handlers.LeaderboardHandler(s.Players), paramsMiddleware))
	s.Router.Handle("GET /players/{id}/history", Chain(handlers.RatingHistoryHandler(s.Players), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
