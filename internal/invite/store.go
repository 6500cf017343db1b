package invite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/match"
)

// New creates a new InviteStore.
func New(db *sql.DB) InviteStore {
	return &store{
		db: db,
	}
}

func (s *store) Create(inv *Invite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if inv.Status == "" {
		inv.Status = StatusPending
	}
	if inv.Visibility == "" {
		inv.Visibility = VisibilityPrivate
	}
	_, err := s.db.Exec(`
		INSERT INTO invites (id, token, availability_id, inviter_user_id, status, visibility, min_level, max_level, radius_km, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Token, inv.AvailabilityID, inv.InviterUserID, inv.Status, inv.Visibility,
		inv.Conditions.MinLevel, inv.Conditions.MaxLevel, inv.Conditions.RadiusKm,
		inv.ExpiresAt.Unix(), inv.CreatedAt.Unix())
	if err != nil {
		log.Error("Failed to create invite", "error", err, "inviteID", inv.ID)
	}
	return err
}

func (s *store) GetByToken(token string) (*Invite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return scanInvite(s.db.QueryRow(selectInvite+" WHERE token = ?", token))
}

func (s *store) GetByID(id string) (*Invite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return scanInvite(s.db.QueryRow(selectInvite+" WHERE id = ?", id))
}

const selectInvite = `
	SELECT id, token, availability_id, inviter_user_id, status, visibility, min_level, max_level, radius_km, match_id, expires_at, created_at
	FROM invites`

func scanInvite(row *sql.Row) (*Invite, error) {
	var inv Invite
	var minLevel, maxLevel, radiusKm sql.NullFloat64
	var matchID sql.NullString
	var expiresAt, createdAt int64

	err := row.Scan(&inv.ID, &inv.Token, &inv.AvailabilityID, &inv.InviterUserID,
		&inv.Status, &inv.Visibility, &minLevel, &maxLevel, &radiusKm, &matchID,
		&expiresAt, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if minLevel.Valid {
		inv.Conditions.MinLevel = &minLevel.Float64
	}
	if maxLevel.Valid {
		inv.Conditions.MaxLevel = &maxLevel.Float64
	}
	if radiusKm.Valid {
		inv.Conditions.RadiusKm = &radiusKm.Float64
	}
	if matchID.Valid {
		inv.MatchID = &matchID.String
	}
	inv.ExpiresAt = time.Unix(expiresAt, 0)
	inv.CreatedAt = time.Unix(createdAt, 0)
	return &inv, nil
}

// Accept flips the invite to accepted and creates its match in one
// transaction. The conditional update on status is the race guard: two
// concurrent confirmations both read "pending", but only the first update
// affects a row; the second sees zero rows and backs out before the match
// insert. The unique index on matches.invite_id backstops the same
// invariant at the schema level.
func (s *store) Accept(inviteID string, m *match.Match) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}

	res, err := tx.Exec(`UPDATE invites SET status = ?, match_id = ? WHERE id = ? AND status = ?`,
		StatusAccepted, m.ID, inviteID, StatusPending)
	if err != nil {
		tx.Rollback()
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return false, err
	}
	if affected == 0 {
		tx.Rollback()
		return false, nil
	}

	_, err = tx.Exec(`
		INSERT INTO matches (id, match_type, status, host_user_id, opponent_user_id, host_player_id, opponent_player_id, scheduled_at, invite_id, availability_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Type, m.Status, m.HostUserID, m.OpponentUserID,
		m.HostPlayerID, m.OpponentPlayerID, m.ScheduledAt.Unix(),
		m.InviteID, m.AvailabilityID, m.CreatedAt.Unix())
	if err != nil {
		tx.Rollback()
		return false, fmt.Errorf("failed to create match for invite %s: %w", inviteID, err)
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *store) MarkExpired(id string) (bool, error) {
	return s.transition(id, StatusExpired)
}

func (s *store) MarkDeclined(id string) (bool, error) {
	return s.transition(id, StatusDeclined)
}

func (s *store) MarkCancelled(id string) (bool, error) {
	return s.transition(id, StatusCancelled)
}

// transition moves a pending invite into a terminal status. All terminal
// transitions share the pending guard; nothing ever leaves a sink.
func (s *store) transition(id string, to Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE invites SET status = ? WHERE id = ? AND status = ?`,
		to, id, StatusPending)
	if err != nil {
		log.Error("Failed to transition invite", "error", err, "inviteID", id, "to", to)
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *store) ExpireAllPending(cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE invites SET status = ? WHERE status = ? AND expires_at < ?`,
		StatusExpired, StatusPending, cutoff.Unix())
	if err != nil {
		log.Error("Failed to expire pending invites", "error", err)
		return 0, err
	}
	return res.RowsAffected()
}
