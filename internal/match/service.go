package match

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/apperr"
	"github.com/mauv0809/courtside/internal/clock"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/players"
	"github.com/mauv0809/courtside/internal/rating"
)

// Service owns the match lifecycle rules: host-only cancellation and the
// admin completion path that bypasses dual result confirmation.
type Service struct {
	store    MatchStore
	results  ResultSource
	players  players.PlayerStore
	algo     rating.Algorithm
	notifier Notifier
	metrics  metrics.Metrics
	clock    clock.Clock
}

// NewService creates a new match lifecycle service. The rating algorithm is
// an injected strategy; swapping it never touches lifecycle code.
func NewService(store MatchStore, results ResultSource, playerStore players.PlayerStore, algo rating.Algorithm, notifier Notifier, metricsSvc metrics.Metrics, clk clock.Clock) *Service {
	return &Service{
		store:    store,
		results:  results,
		players:  playerStore,
		algo:     algo,
		notifier: notifier,
		metrics:  metricsSvc,
		clock:    clk,
	}
}

// Get fetches a match by id.
func (s *Service) Get(matchID string) (*Match, error) {
	m, err := s.store.Get(matchID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.New(apperr.KindNotFound, "match %s not found", matchID)
	}
	return m, nil
}

// Create records an admin-authored match outside the invite flow.
func (s *Service) Create(m *Match) (*Match, error) {
	if m.HostUserID == "" || m.OpponentUserID == "" {
		return nil, apperr.New(apperr.KindValidation, "match requires a host and an opponent")
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = s.clock.Now()
	}
	if err := s.store.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Cancel lets the host call off a match, but only while it is still
// scheduled and strictly before its start time.
func (s *Service) Cancel(matchID, userID string) (*Match, error) {
	m, err := s.Get(matchID)
	if err != nil {
		return nil, err
	}
	if userID != m.HostUserID {
		return nil, apperr.New(apperr.KindForbidden, "only the host may cancel a match")
	}
	if m.Status != StatusScheduled {
		return nil, apperr.New(apperr.KindInvalidState, "match %s is %s, not scheduled", matchID, m.Status)
	}
	if !s.clock.Now().Before(m.ScheduledAt) {
		return nil, apperr.New(apperr.KindInvalidState, "match %s has already started", matchID)
	}

	transitioned, err := s.store.Transition(matchID, StatusScheduled, StatusCancelled)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return nil, apperr.New(apperr.KindInvalidState, "match %s is no longer scheduled", matchID)
	}
	m.Status = StatusCancelled
	return m, nil
}

// Complete is the admin override path, independent of dual result
// confirmation. It requires a scheduled match in the past whose result is
// already confirmed with at least one set, performs the guarded
// scheduled -> completed transition, and applies ratings exactly once.
func (s *Service) Complete(matchID string) (*Match, error) {
	m, err := s.Get(matchID)
	if err != nil {
		return nil, err
	}
	if m.Status == StatusDisputed {
		return nil, apperr.New(apperr.KindInvalidState, "match %s is disputed", matchID)
	}
	if m.Status != StatusScheduled {
		return nil, apperr.New(apperr.KindInvalidState, "match %s is %s, not scheduled", matchID, m.Status)
	}
	now := s.clock.Now()
	if !m.ScheduledAt.Before(now) {
		return nil, apperr.New(apperr.KindInvalidState, "match %s has not been played yet", matchID)
	}

	summary, err := s.results.SummaryForMatch(matchID)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, apperr.New(apperr.KindNotFound, "match %s has no result", matchID)
	}
	if summary.Status != "confirmed" {
		return nil, apperr.New(apperr.KindInvalidState, "result for match %s is %s, not confirmed", matchID, summary.Status)
	}
	if summary.SetCount < 1 {
		return nil, apperr.New(apperr.KindValidation, "result for match %s has no sets", matchID)
	}

	deltas, err := s.ratingDeltas(m, summary.WinnerUserID, now)
	if err != nil {
		return nil, err
	}

	completed, err := s.store.CompleteWithRatings(matchID, StatusScheduled, deltas, now)
	if err != nil {
		return nil, err
	}
	if !completed {
		// Another transaction performed the transition first.
		return nil, apperr.New(apperr.KindInvalidState, "match %s is no longer scheduled", matchID)
	}
	m.Status = StatusCompleted
	s.metrics.IncMatchesCompleted()
	for range deltas {
		s.metrics.IncRatingUpdates()
	}

	s.notifyCompleted(m)
	return m, nil
}

// ratingDeltas resolves both participants to player profiles and runs the
// rating algorithm. Guests without profiles are skipped: the match can still
// complete, it just leaves no rating trace.
func (s *Service) ratingDeltas(m *Match, winnerUserID string, now time.Time) ([]players.RatingDelta, error) {
	if m.Type == TypePractice {
		return nil, nil
	}
	loserUserID := m.OpponentUserID
	if winnerUserID == m.OpponentUserID {
		loserUserID = m.HostUserID
	} else if winnerUserID != m.HostUserID {
		return nil, apperr.New(apperr.KindInternal, "winner %s is not a participant of match %s", winnerUserID, m.ID)
	}

	winner, err := s.players.FindByUserID(winnerUserID)
	if err != nil {
		return nil, err
	}
	loser, err := s.players.FindByUserID(loserUserID)
	if err != nil {
		return nil, err
	}
	if winner == nil || loser == nil {
		log.Info("Skipping rating update, participant has no player profile", "matchID", m.ID)
		return nil, nil
	}

	newWinner, newLoser := s.algo.Update(winner.Snapshot(), loser.Snapshot(), now)
	return []players.RatingDelta{
		{PlayerID: winner.ID, Old: winner.Snapshot(), New: newWinner},
		{PlayerID: loser.ID, Old: loser.Snapshot(), New: newLoser},
	}, nil
}

func (s *Service) notifyCompleted(m *Match) {
	if m.Type == TypePractice {
		return
	}
	payload := map[string]any{
		"matchId": m.ID,
	}
	for _, userID := range []string{m.HostUserID, m.OpponentUserID} {
		if err := s.notifier.Emit(userID, "match.completed", payload); err != nil {
			log.Error("Failed to emit match.completed notification", "error", err, "matchID", m.ID, "userID", userID)
			s.metrics.IncNotifFailed()
		} else {
			s.metrics.IncNotifSent()
		}
	}
}
