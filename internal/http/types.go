package http

import (
	"net/http"

	"github.com/mauv0809/courtside/internal/availability"
	"github.com/mauv0809/courtside/internal/clock"
	"github.com/mauv0809/courtside/internal/config"
	"github.com/mauv0809/courtside/internal/invite"
	"github.com/mauv0809/courtside/internal/match"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/players"
	"github.com/mauv0809/courtside/internal/result"
)

type Server struct {
	Availabilities availability.AvailabilityStore
	Invites        *invite.Service
	Matches        *match.Service
	Results        *result.Service
	Players        players.PlayerStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Clock          clock.Clock
	Router         *http.ServeMux
}
