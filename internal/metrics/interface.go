package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncInvitesCreated()
	IncInvitesConfirmed()
	IncInvitesExpired()
	IncResultsSubmitted()
	IncResultsConfirmed()
	IncResultsDisputed()
	IncMatchesCompleted()
	IncRatingUpdates()
	IncNotifSent()
	IncNotifFailed()
	ObserveConfirmDuration(seconds float64)
	SetStartupTime(seconds float64)
}
