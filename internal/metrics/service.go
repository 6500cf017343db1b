package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// Service is the Prometheus-backed Metrics implementation.
type Service struct {
	InvitesCreated   prometheus.Counter
	InvitesConfirmed prometheus.Counter
	InvitesExpired   prometheus.Counter
	ResultsSubmitted prometheus.Counter
	ResultsConfirmed prometheus.Counter
	ResultsDisputed  prometheus.Counter
	MatchesCompleted prometheus.Counter
	RatingUpdates    prometheus.Counter
	NotifSent        prometheus.Counter
	NotifFailed      prometheus.Counter
	ConfirmDuration  prometheus.Histogram
	StartupSeconds   prometheus.Gauge
}

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		InvitesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_invites_created_total",
			Help: "The total number of invites issued.",
		}),
		InvitesConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_invites_confirmed_total",
			Help: "The total number of invites confirmed into matches.",
		}),
		InvitesExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_invites_expired_total",
			Help: "The total number of invites expired, lazily or by sweep.",
		}),
		ResultsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_results_submitted_total",
			Help: "The total number of match results submitted.",
		}),
		ResultsConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_results_confirmed_total",
			Help: "The total number of match results dually confirmed.",
		}),
		ResultsDisputed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_results_disputed_total",
			Help: "The total number of match results disputed.",
		}),
		MatchesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_matches_completed_total",
			Help: "The total number of matches completed.",
		}),
		RatingUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_rating_updates_total",
			Help: "The total number of per-player rating updates applied.",
		}),
		NotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_notifications_sent_total",
			Help: "The total number of notification events successfully emitted.",
		}),
		NotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_notifications_failed_total",
			Help: "The total number of notification events that failed to emit.",
		}),
		ConfirmDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "courtside_confirm_duration_seconds",
			Help:    "The duration of invite and result confirmation transactions.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		StartupSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "courtside_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.InvitesCreated,
		s.InvitesConfirmed,
		s.InvitesExpired,
		s.ResultsSubmitted,
		s.ResultsConfirmed,
		s.ResultsDisputed,
		s.MatchesCompleted,
		s.RatingUpdates,
		s.NotifSent,
		s.NotifFailed,
		s.ConfirmDuration,
		s.StartupSeconds,
	)

	return s
}

func (s *Service) IncInvitesCreated()   { s.InvitesCreated.Inc() }
func (s *Service) IncInvitesConfirmed() { s.InvitesConfirmed.Inc() }
func (s *Service) IncInvitesExpired()   { s.InvitesExpired.Inc() }
func (s *Service) IncResultsSubmitted() { s.ResultsSubmitted.Inc() }
func (s *Service) IncResultsConfirmed() { s.ResultsConfirmed.Inc() }
func (s *Service) IncResultsDisputed()  { s.ResultsDisputed.Inc() }
func (s *Service) IncMatchesCompleted() { s.MatchesCompleted.Inc() }
func (s *Service) IncRatingUpdates()    { s.RatingUpdates.Inc() }
func (s *Service) IncNotifSent()        { s.NotifSent.Inc() }
func (s *Service) IncNotifFailed()      { s.NotifFailed.Inc() }

func (s *Service) ObserveConfirmDuration(seconds float64) {
	s.ConfirmDuration.Observe(seconds)
}

func (s *Service) SetStartupTime(seconds float64) {
	s.StartupSeconds.Set(seconds)
}
