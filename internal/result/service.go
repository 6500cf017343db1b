package result

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/courtside/internal/apperr"
	"github.com/mauv0809/courtside/internal/clock"
	"github.com/mauv0809/courtside/internal/match"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/players"
	"github.com/mauv0809/courtside/internal/rating"
)

// minWinningGames is the simplified set-validity rule: the set winner must
// reach at least this many games. The 2-game margin and tiebreak format are
// deliberately not enforced.
const minWinningGames = 6

// Service owns the result lifecycle: submission, dual confirmation with the
// exactly-once rating update, dispute, and set validation.
type Service struct {
	store    ResultStore
	matches  match.MatchStore
	players  players.PlayerStore
	algo     rating.Algorithm
	notifier Notifier
	metrics  metrics.Metrics
	clock    clock.Clock
}

// NewService creates a new result lifecycle service. The rating algorithm is
// an injected strategy; swapping it never touches lifecycle code.
func NewService(store ResultStore, matches match.MatchStore, playerStore players.PlayerStore, algo rating.Algorithm, notifier Notifier, metricsSvc metrics.Metrics, clk clock.Clock) *Service {
	return &Service{
		store:    store,
		matches:  matches,
		players:  playerStore,
		algo:     algo,
		notifier: notifier,
		metrics:  metricsSvc,
		clock:    clk,
	}
}

// Get fetches a result by id.
func (s *Service) Get(resultID string) (*Result, error) {
	r, err := s.store.Get(resultID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperr.New(apperr.KindNotFound, "result %s not found", resultID)
	}
	return r, nil
}

// Submit records a match outcome. The winner is always computed server-side
// from the sets, never trusted from the client, and the submitter's own
// confirmation is stamped immediately. Resubmission while a result already
// exists returns the existing result unchanged, to tolerate retries.
func (s *Service) Submit(matchID string, sets []SetScore, currentUserID string) (*Result, error) {
	m, err := s.matches.Get(matchID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.New(apperr.KindNotFound, "match %s not found", matchID)
	}
	if !m.IsParticipant(currentUserID) {
		return nil, apperr.New(apperr.KindForbidden, "only a match participant may submit a result")
	}

	existing, err := s.store.GetByMatch(matchID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if m.Status != match.StatusScheduled {
		return nil, apperr.New(apperr.KindInvalidState, "match %s is %s, not scheduled", matchID, m.Status)
	}

	competitive := m.Type == match.TypeCompetitive
	if competitive && len(sets) == 0 {
		return nil, apperr.New(apperr.KindValidation, "a competitive result requires at least one set")
	}
	for _, set := range sets {
		if err := validateSet(set); err != nil {
			return nil, err
		}
	}

	winnerUserID := ""
	if len(sets) > 0 {
		hostWon, err := computeWinner(sets)
		if err != nil {
			return nil, err
		}
		winnerUserID = m.OpponentUserID
		if hostWon {
			winnerUserID = m.HostUserID
		}
	}

	now := s.clock.Now()
	r := &Result{
		ID:           uuid.NewString(),
		MatchID:      matchID,
		Status:       StatusSubmitted,
		WinnerUserID: winnerUserID,
		SubmittedBy:  currentUserID,
		Sets:         sets,
		CreatedAt:    now,
	}
	// Submission counts as the submitter's confirmation.
	if currentUserID == m.HostUserID {
		r.ConfirmedByHostAt = &now
	} else {
		r.ConfirmedByOpponentAt = &now
	}

	ok, err := s.store.Submit(r, competitive)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.New(apperr.KindInvalidState, "match %s is no longer scheduled", matchID)
	}
	s.metrics.IncResultsSubmitted()
	log.Info("Result submitted", "resultID", r.ID, "matchID", matchID, "winner", winnerUserID)
	return r, nil
}

// Confirm records the calling participant's confirmation. Only the other
// party's confirmation is meaningful: re-confirming is a no-op that echoes
// the current state. When both confirmations are present the result becomes
// confirmed, the match completed, and the rating engine runs exactly once.
func (s *Service) Confirm(resultID, userID string) (*Result, error) {
	r, err := s.Get(resultID)
	if err != nil {
		return nil, err
	}
	m, err := s.matches.Get(r.MatchID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.New(apperr.KindInternal, "result %s references missing match %s", resultID, r.MatchID)
	}

	competitive := m.Type == match.TypeCompetitive
	if competitive {
		if err := checkPairing(r.Status, m.Status); err != nil {
			return nil, err
		}
	}
	if r.Status == StatusDisputed || m.Status == match.StatusDisputed {
		return nil, apperr.New(apperr.KindValidation, "result %s is disputed and cannot be confirmed", resultID)
	}
	if !m.IsParticipant(userID) {
		return nil, apperr.New(apperr.KindForbidden, "only a match participant may confirm a result")
	}

	isHost := userID == m.HostUserID
	mine, other := r.ConfirmedByOpponentAt, r.ConfirmedByHostAt
	if isHost {
		mine, other = r.ConfirmedByHostAt, r.ConfirmedByOpponentAt
	}
	if mine != nil {
		// Confirming twice by the same party is a no-op.
		return r, nil
	}

	now := s.clock.Now()
	if other == nil {
		// First confirmation only; the result stays submitted.
		stamped, err := s.store.StampConfirmation(resultID, isHost, now)
		if err != nil {
			return nil, err
		}
		if !stamped {
			return nil, apperr.New(apperr.KindInvalidState, "result %s is no longer submitted", resultID)
		}
		if isHost {
			r.ConfirmedByHostAt = &now
		} else {
			r.ConfirmedByOpponentAt = &now
		}
		return r, nil
	}

	// Dual confirmation: complete the match and apply ratings atomically.
	var deltas []players.RatingDelta
	if competitive {
		deltas, err = s.ratingDeltas(m, r.WinnerUserID, now)
		if err != nil {
			return nil, err
		}
	}

	completed, err := s.store.ConfirmAndComplete(resultID, isHost, now, m.ID, competitive, deltas)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to confirm result %s", resultID)
	}
	if !completed {
		return nil, apperr.New(apperr.KindInvalidState, "result %s is no longer submitted", resultID)
	}

	r.Status = StatusConfirmed
	if isHost {
		r.ConfirmedByHostAt = &now
	} else {
		r.ConfirmedByOpponentAt = &now
	}
	s.metrics.IncResultsConfirmed()
	if competitive {
		s.metrics.IncMatchesCompleted()
		for range deltas {
			s.metrics.IncRatingUpdates()
		}
		s.notifyCompleted(m)
	}
	log.Info("Result confirmed", "resultID", resultID, "matchID", m.ID)
	return r, nil
}

// Dispute flags a result. Blocked once confirmed; otherwise both the result
// and its match flip to disputed, a dead end for ranking with no automated
// resolution path.
func (s *Service) Dispute(resultID, userID string) (*Result, error) {
	r, err := s.Get(resultID)
	if err != nil {
		return nil, err
	}
	m, err := s.matches.Get(r.MatchID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.New(apperr.KindInternal, "result %s references missing match %s", resultID, r.MatchID)
	}
	if !m.IsParticipant(userID) {
		return nil, apperr.New(apperr.KindForbidden, "only a match participant may dispute a result")
	}
	if r.Status == StatusConfirmed {
		return nil, apperr.New(apperr.KindInvalidState, "result %s is already confirmed", resultID)
	}

	isHost := userID == m.HostUserID
	now := s.clock.Now()
	disputed, err := s.store.Dispute(resultID, isHost, now, m.ID)
	if err != nil {
		return nil, err
	}
	if !disputed {
		return nil, apperr.New(apperr.KindInvalidState, "result %s can no longer be disputed", resultID)
	}

	r.Status = StatusDisputed
	if isHost {
		r.DisputedByHostAt = &now
	} else {
		r.DisputedByOpponentAt = &now
	}
	s.metrics.IncResultsDisputed()
	log.Info("Result disputed", "resultID", resultID, "matchID", m.ID, "userID", userID)
	return r, nil
}

// AddSet appends one set to a non-confirmed result.
func (s *Service) AddSet(resultID string, set SetScore) (*Result, error) {
	r, err := s.Get(resultID)
	if err != nil {
		return nil, err
	}
	if r.Status == StatusConfirmed {
		return nil, apperr.New(apperr.KindInvalidState, "result %s is confirmed and immutable", resultID)
	}
	if err := validateSet(set); err != nil {
		return nil, err
	}
	for _, existing := range r.Sets {
		if existing.SetNumber == set.SetNumber {
			return nil, apperr.New(apperr.KindValidation, "set %d already exists for result %s", set.SetNumber, resultID)
		}
	}

	if err := s.store.AddSet(resultID, set); err != nil {
		return nil, err
	}
	r.Sets = append(r.Sets, set)
	return r, nil
}

// validateSet enforces the simplified set-validity rules: non-negative,
// non-tied scores with the winner reaching at least six games.
func validateSet(set SetScore) error {
	if set.SetNumber < 1 {
		return apperr.New(apperr.KindValidation, "set number must be positive")
	}
	if set.HostGames < 0 || set.OpponentGames < 0 {
		return apperr.New(apperr.KindValidation, "set %d has negative games", set.SetNumber)
	}
	if set.HostGames == set.OpponentGames {
		return apperr.New(apperr.KindValidation, "set %d is tied", set.SetNumber)
	}
	winner := set.HostGames
	if set.OpponentGames > winner {
		winner = set.OpponentGames
	}
	if winner < minWinningGames {
		return apperr.New(apperr.KindValidation, "set %d winner has only %d games", set.SetNumber, winner)
	}
	return nil
}

// computeWinner returns true when the host won a majority of sets. A tie in
// sets won is an unrecoverable input error.
func computeWinner(sets []SetScore) (bool, error) {
	hostSets, oppSets := 0, 0
	for _, set := range sets {
		if set.HostGames > set.OpponentGames {
			hostSets++
		} else {
			oppSets++
		}
	}
	if hostSets == oppSets {
		return false, apperr.New(apperr.KindValidation, "sets are tied %d-%d, no winner", hostSets, oppSets)
	}
	return hostSets > oppSets, nil
}

// ratingDeltas resolves both participants and runs the rating algorithm.
// Guests without player profiles leave no rating trace.
func (s *Service) ratingDeltas(m *match.Match, winnerUserID string, now time.Time) ([]players.RatingDelta, error) {
	if winnerUserID == "" {
		return nil, apperr.New(apperr.KindInternal, "competitive result for match %s has no winner", m.ID)
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

func (s *Service) notifyCompleted(m *match.Match) {
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
