package invite

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/courtside/internal/apperr"
	"github.com/mauv0809/courtside/internal/availability"
	"github.com/mauv0809/courtside/internal/clock"
	"github.com/mauv0809/courtside/internal/match"
	"github.com/mauv0809/courtside/internal/metrics"
)

// Service owns the invite lifecycle: issuance, lazy expiry, confirmation
// into a match, decline, cancel and the cron sweep.
type Service struct {
	store    InviteStore
	avail    AvailabilitySource
	players  PlayerResolver
	notifier Notifier
	metrics  metrics.Metrics
	clock    clock.Clock
	ttl      time.Duration
}

// NewService creates a new invite lifecycle service.
func NewService(store InviteStore, avail AvailabilitySource, resolver PlayerResolver, notifier Notifier, metricsSvc metrics.Metrics, clk clock.Clock, ttl time.Duration) *Service {
	return &Service{
		store:    store,
		avail:    avail,
		players:  resolver,
		notifier: notifier,
		metrics:  metricsSvc,
		clock:    clk,
		ttl:      ttl,
	}
}

// Create issues a new invite against an availability. The token carries 256
// bits of entropy and the expiry is a fixed TTL from now.
func (s *Service) Create(inviterUserID, availabilityID string, conds Conditions, visibility Visibility) (*Invite, error) {
	avail, err := s.avail.Get(availabilityID)
	if err != nil {
		return nil, err
	}
	if avail == nil {
		return nil, apperr.New(apperr.KindNotFound, "availability %s not found", availabilityID)
	}
	if inviterUserID == "" {
		return nil, apperr.New(apperr.KindValidation, "inviter user id is required")
	}

	token, err := NewToken()
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	inv := &Invite{
		ID:             uuid.NewString(),
		Token:          token,
		AvailabilityID: availabilityID,
		InviterUserID:  inviterUserID,
		Status:         StatusPending,
		Visibility:     visibility,
		Conditions:     conds,
		ExpiresAt:      now.Add(s.ttl),
		CreatedAt:      now,
	}
	if err := s.store.Create(inv); err != nil {
		return nil, err
	}
	s.metrics.IncInvitesCreated()
	log.Info("Invite created", "inviteID", inv.ID, "availabilityID", availabilityID)
	return inv, nil
}

// GetByToken fetches an invite. If the TTL has passed while the invite is
// still pending, it is lazily flipped to expired first; a silent
// self-correction, not an error, because it reflects time passing rather
// than a caller mistake.
func (s *Service) GetByToken(token string) (*Invite, error) {
	inv, err := s.store.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, apperr.New(apperr.KindNotFound, "invite not found")
	}
	if inv.Status == StatusPending && inv.ExpiredAt(s.clock.Now()) {
		if expired, err := s.store.MarkExpired(inv.ID); err != nil {
			return nil, err
		} else if expired {
			inv.Status = StatusExpired
			s.metrics.IncInvitesExpired()
			log.Debug("Lazily expired invite", "inviteID", inv.ID)
		}
	}
	return inv, nil
}

// Confirm is the critical operation: it validates the token, checks
// eligibility, and atomically accepts the invite while creating exactly one
// match. The availability flip and the notification happen after the commit
// and are best-effort.
func (s *Service) Confirm(token, acceptorUserID string) (*Invite, *match.Match, error) {
	started := s.clock.Now()

	inv, err := s.store.GetByToken(token)
	if err != nil {
		return nil, nil, err
	}
	if inv == nil {
		return nil, nil, apperr.New(apperr.KindNotFound, "invite not found")
	}

	now := s.clock.Now()
	switch {
	case inv.Status == StatusPending && inv.ExpiredAt(now):
		if _, err := s.store.MarkExpired(inv.ID); err != nil {
			return nil, nil, err
		}
		s.metrics.IncInvitesExpired()
		return nil, nil, apperr.New(apperr.KindExpired, "invite %s has expired", inv.ID)
	case inv.Status == StatusExpired:
		return nil, nil, apperr.New(apperr.KindExpired, "invite %s has expired", inv.ID)
	case inv.Status != StatusPending:
		return nil, nil, apperr.New(apperr.KindInvalidState, "invite %s is %s, not pending", inv.ID, inv.Status)
	}

	avail, err := s.avail.Get(inv.AvailabilityID)
	if err != nil {
		return nil, nil, err
	}
	if avail == nil {
		return nil, nil, apperr.New(apperr.KindNotFound, "availability %s not found", inv.AvailabilityID)
	}

	if err := s.checkEligibility(inv, acceptorUserID); err != nil {
		return nil, nil, err
	}

	m, err := s.buildMatch(inv, avail, acceptorUserID, now)
	if err != nil {
		return nil, nil, err
	}

	accepted, err := s.store.Accept(inv.ID, m)
	if err != nil {
		return nil, nil, err
	}
	if !accepted {
		// Lost the race: another confirmation flipped the invite between our
		// read and the conditional update.
		return nil, nil, apperr.New(apperr.KindInvalidState, "invite %s is no longer pending", inv.ID)
	}
	inv.Status = StatusAccepted
	inv.MatchID = &m.ID
	s.metrics.IncInvitesConfirmed()
	s.metrics.ObserveConfirmDuration(s.clock.Now().Sub(started).Seconds())
	log.Info("Invite confirmed", "inviteID", inv.ID, "matchID", m.ID)

	// Post-commit side effects. Failure here is logged, never fatal to the
	// already-committed invite and match.
	if _, err := s.avail.MarkMatched(avail.ID); err != nil {
		log.Error("Failed to mark availability matched", "error", err, "availabilityID", avail.ID)
	}
	s.emit(inv.InviterUserID, "invite.accepted", map[string]any{
		"inviteId":    inv.ID,
		"matchId":     m.ID,
		"scheduledAt": m.ScheduledAt.Unix(),
	})

	return inv, m, nil
}

// Decline turns down a pending, non-expired invite. No match is created.
func (s *Service) Decline(token string) (*Invite, error) {
	inv, err := s.store.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, apperr.New(apperr.KindNotFound, "invite not found")
	}
	now := s.clock.Now()
	if inv.Status == StatusPending && inv.ExpiredAt(now) {
		if _, err := s.store.MarkExpired(inv.ID); err != nil {
			return nil, err
		}
		s.metrics.IncInvitesExpired()
		return nil, apperr.New(apperr.KindExpired, "invite %s has expired", inv.ID)
	}
	if inv.Status != StatusPending {
		return nil, apperr.New(apperr.KindInvalidState, "invite %s is %s, not pending", inv.ID, inv.Status)
	}

	declined, err := s.store.MarkDeclined(inv.ID)
	if err != nil {
		return nil, err
	}
	if !declined {
		return nil, apperr.New(apperr.KindInvalidState, "invite %s is no longer pending", inv.ID)
	}
	inv.Status = StatusDeclined

	s.emit(inv.InviterUserID, "invite.declined", map[string]any{
		"inviteId": inv.ID,
	})
	return inv, nil
}

// Cancel withdraws a pending invite. Only the original inviter may cancel,
// and cancelling an already-cancelled invite is a no-op. Silent: no
// notification is emitted.
func (s *Service) Cancel(inviteID, userID string) (*Invite, error) {
	inv, err := s.store.GetByID(inviteID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, apperr.New(apperr.KindNotFound, "invite %s not found", inviteID)
	}
	if userID != inv.InviterUserID {
		return nil, apperr.New(apperr.KindForbidden, "only the inviter may cancel an invite")
	}
	if inv.Status == StatusCancelled {
		return inv, nil
	}
	if inv.Status != StatusPending {
		return nil, apperr.New(apperr.KindInvalidState, "invite %s is %s, not pending", inviteID, inv.Status)
	}

	cancelled, err := s.store.MarkCancelled(inviteID)
	if err != nil {
		return nil, err
	}
	if !cancelled {
		return nil, apperr.New(apperr.KindInvalidState, "invite %s is no longer pending", inviteID)
	}
	inv.Status = StatusCancelled
	return inv, nil
}

// Expire flips a single pending invite to expired. Idempotent and silent:
// expiration is a system event, not a user action, and must never generate
// notification noise.
func (s *Service) Expire(inviteID string) error {
	inv, err := s.store.GetByID(inviteID)
	if err != nil {
		return err
	}
	if inv == nil {
		return apperr.New(apperr.KindNotFound, "invite %s not found", inviteID)
	}
	if inv.Status != StatusPending {
		return nil
	}
	expired, err := s.store.MarkExpired(inviteID)
	if err != nil {
		return err
	}
	if expired {
		s.metrics.IncInvitesExpired()
	}
	return nil
}

// ExpirePending sweeps all pending invites past their TTL. Cron-safe.
func (s *Service) ExpirePending() (int64, error) {
	count, err := s.store.ExpireAllPending(s.clock.Now())
	if err != nil {
		return 0, err
	}
	for i := int64(0); i < count; i++ {
		s.metrics.IncInvitesExpired()
	}
	if count > 0 {
		log.Info("Expired pending invites", "count", count)
	}
	return count, nil
}

// checkEligibility enforces the invite's optional conditions against the
// acceptor's player profile. Missing data is a hard rejection whenever a
// condition needs it.
func (s *Service) checkEligibility(inv *Invite, acceptorUserID string) error {
	if !inv.Conditions.Any() {
		return nil
	}

	acceptor, err := s.players.FindByUserID(acceptorUserID)
	if err != nil {
		return err
	}
	if acceptor == nil {
		return apperr.New(apperr.KindForbidden, "invite %s has eligibility conditions; guests cannot accept", inv.ID)
	}

	if inv.Conditions.MinLevel != nil && acceptor.LevelValue < *inv.Conditions.MinLevel {
		return apperr.New(apperr.KindForbidden, "acceptor level %.2f is below the invite minimum %.2f", acceptor.LevelValue, *inv.Conditions.MinLevel)
	}
	if inv.Conditions.MaxLevel != nil && acceptor.LevelValue > *inv.Conditions.MaxLevel {
		return apperr.New(apperr.KindForbidden, "acceptor level %.2f is above the invite maximum %.2f", acceptor.LevelValue, *inv.Conditions.MaxLevel)
	}

	if inv.Conditions.RadiusKm != nil {
		host, err := s.players.FindByUserID(inv.InviterUserID)
		if err != nil {
			return err
		}
		if host == nil || host.Latitude == nil || host.Longitude == nil ||
			acceptor.Latitude == nil || acceptor.Longitude == nil {
			return apperr.New(apperr.KindForbidden, "invite %s has a radius condition but location data is missing", inv.ID)
		}
		dist := haversineKm(*host.Latitude, *host.Longitude, *acceptor.Latitude, *acceptor.Longitude)
		if dist > *inv.Conditions.RadiusKm {
			return apperr.New(apperr.KindForbidden, "acceptor is %.1fkm away, outside the %.1fkm radius", dist, *inv.Conditions.RadiusKm)
		}
	}
	return nil
}

// buildMatch assembles the match an accepted invite creates. ScheduledAt is
// copied from the availability at confirmation time; player links are
// best-effort.
func (s *Service) buildMatch(inv *Invite, avail *availability.Availability, acceptorUserID string, now time.Time) (*match.Match, error) {
	m := &match.Match{
		ID:             uuid.NewString(),
		Type:           match.TypeCompetitive,
		Status:         match.StatusScheduled,
		HostUserID:     avail.OwnerUserID,
		OpponentUserID: acceptorUserID,
		ScheduledAt:    avail.StartTime,
		InviteID:       &inv.ID,
		AvailabilityID: &avail.ID,
		CreatedAt:      now,
	}

	if host, err := s.players.FindByUserID(avail.OwnerUserID); err == nil && host != nil {
		m.HostPlayerID = &host.ID
	}
	if opp, err := s.players.FindByUserID(acceptorUserID); err == nil && opp != nil {
		m.OpponentPlayerID = &opp.ID
	}
	return m, nil
}

func (s *Service) emit(userID, eventType string, payload map[string]any) {
	if err := s.notifier.Emit(userID, eventType, payload); err != nil {
		log.Error("Failed to emit notification", "error", err, "event", eventType, "userID", userID)
		s.metrics.IncNotifFailed()
		return
	}
	s.metrics.IncNotifSent()
}
