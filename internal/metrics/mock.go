package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a counting mock implementation of the Metrics interface for
// testing. It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	InvitesCreatedCount   int
	InvitesConfirmedCount int
	InvitesExpiredCount   int
	ResultsSubmittedCount int
	ResultsConfirmedCount int
	ResultsDisputedCount  int
	MatchesCompletedCount int
	RatingUpdatesCount    int
	NotifSentCount        int
	NotifFailedCount      int
	ConfirmDurations      []float64
	StartupTime           float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) IncInvitesCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InvitesCreatedCount++
}

func (m *Mock) IncInvitesConfirmed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InvitesConfirmedCount++
}

func (m *Mock) IncInvitesExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InvitesExpiredCount++
}

func (m *Mock) IncResultsSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResultsSubmittedCount++
}

func (m *Mock) IncResultsConfirmed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResultsConfirmedCount++
}

func (m *Mock) IncResultsDisputed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResultsDisputedCount++
}

func (m *Mock) IncMatchesCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MatchesCompletedCount++
}

func (m *Mock) IncRatingUpdates() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RatingUpdatesCount++
}

func (m *Mock) IncNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifSentCount++
}

func (m *Mock) IncNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifFailedCount++
}

func (m *Mock) ObserveConfirmDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConfirmDurations = append(m.ConfirmDurations, seconds)
}

func (m *Mock) SetStartupTime(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartupTime = seconds
}
