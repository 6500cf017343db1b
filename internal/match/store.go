package match

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/players"
)

// New creates a new MatchStore.
func New(db *sql.DB) MatchStore {
	return &store{
		db: db,
	}
}

func (s *store) Create(m *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.Type == "" {
		m.Type = TypeCompetitive
	}
	if m.Status == "" {
		m.Status = StatusScheduled
	}
	_, err := s.db.Exec(`
		INSERT INTO matches (id, match_type, status, host_user_id, opponent_user_id, host_player_id, opponent_player_id, scheduled_at, invite_id, availability_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Type, m.Status, m.HostUserID, m.OpponentUserID,
		m.HostPlayerID, m.OpponentPlayerID, m.ScheduledAt.Unix(),
		m.InviteID, m.AvailabilityID, m.CreatedAt.Unix())
	if err != nil {
		log.Error("Failed to create match", "error", err, "matchID", m.ID)
	}
	return err
}

func (s *store) Get(id string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return scanMatch(s.db.QueryRow(`
		SELECT id, match_type, status, host_user_id, opponent_user_id, host_player_id, opponent_player_id, scheduled_at, invite_id, availability_id, created_at
		FROM matches WHERE id = ?`, id))
}

func scanMatch(row *sql.Row) (*Match, error) {
	var m Match
	var hostPlayerID, opponentPlayerID, inviteID, availabilityID sql.NullString
	var scheduledAt, createdAt int64

	err := row.Scan(&m.ID, &m.Type, &m.Status, &m.HostUserID, &m.OpponentUserID,
		&hostPlayerID, &opponentPlayerID, &scheduledAt, &inviteID, &availabilityID, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if hostPlayerID.Valid {
		m.HostPlayerID = &hostPlayerID.String
	}
	if opponentPlayerID.Valid {
		m.OpponentPlayerID = &opponentPlayerID.String
	}
	if inviteID.Valid {
		m.InviteID = &inviteID.String
	}
	if availabilityID.Valid {
		m.AvailabilityID = &availabilityID.String
	}
	m.ScheduledAt = time.Unix(scheduledAt, 0)
	m.CreatedAt = time.Unix(createdAt, 0)
	return &m, nil
}

// Transition moves a match between statuses with an optimistic-concurrency
// guard: the update only succeeds if the status is still `from` at write
// time. Zero rows affected signals a lost race.
func (s *store) Transition(id string, from, to Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE matches SET status = ? WHERE id = ? AND status = ?`, to, id, from)
	if err != nil {
		log.Error("Failed to transition match", "error", err, "matchID", id, "from", from, "to", to)
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// CompleteWithRatings transitions a match to completed and applies the
// rating write-back in the same transaction. If the conditional update
// affects zero rows (another transaction won the race), nothing is written
// and the call reports false. Any rating write failure rolls back the
// completion too; a match is never completed without its rating update.
func (s *store) CompleteWithRatings(matchID string, from Status, deltas []players.RatingDelta, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}

	res, err := tx.Exec(`UPDATE matches SET status = ? WHERE id = ? AND status = ?`,
		StatusCompleted, matchID, from)
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

	if err := players.ApplyRatingDeltas(tx, matchID, deltas, now); err != nil {
		tx.Rollback()
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}
