package result

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/match"
	"github.com/mauv0809/courtside/internal/players"
)

// New creates a new ResultStore.
func New(db *sql.DB) ResultStore {
	return &store{
		db: db,
	}
}

const selectResult = `
	SELECT id, match_id, status, winner_user_id, submitted_by, confirmed_by_host_at, confirmed_by_opponent_at, disputed_by_host_at, disputed_by_opponent_at, created_at
	FROM results`

func (s *store) Get(resultID string) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryOne(selectResult+" WHERE id = ?", resultID)
}

func (s *store) GetByMatch(matchID string) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryOne(selectResult+" WHERE match_id = ?", matchID)
}

func (s *store) queryOne(query string, arg any) (*Result, error) {
	var r Result
	var winner sql.NullString
	var confHost, confOpp, dispHost, dispOpp sql.NullInt64
	var createdAt int64

	err := s.db.QueryRow(query, arg).Scan(
		&r.ID, &r.MatchID, &r.Status, &winner, &r.SubmittedBy,
		&confHost, &confOpp, &dispHost, &dispOpp, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	r.WinnerUserID = winner.String
	r.ConfirmedByHostAt = unixPtr(confHost)
	r.ConfirmedByOpponentAt = unixPtr(confOpp)
	r.DisputedByHostAt = unixPtr(dispHost)
	r.DisputedByOpponentAt = unixPtr(dispOpp)
	r.CreatedAt = time.Unix(createdAt, 0)

	sets, err := s.querySets(r.ID)
	if err != nil {
		return nil, err
	}
	r.Sets = sets
	return &r, nil
}

func unixPtr(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0)
	return &t
}

func (s *store) querySets(resultID string) ([]SetScore, error) {
	rows, err := s.db.Query(`
		SELECT set_number, host_games, opponent_games
		FROM set_results WHERE result_id = ? ORDER BY set_number`, resultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []SetScore
	for rows.Next() {
		var set SetScore
		if err := rows.Scan(&set.SetNumber, &set.HostGames, &set.OpponentGames); err != nil {
			log.Error("Failed to scan set row", "error", err, "resultID", resultID)
			continue
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// Submit inserts the result with its sets and, for competitive matches,
// performs the guarded scheduled -> awaiting_confirmation transition in the
// same transaction. Zero rows affected on the match update means a lost
// race and rolls the whole submission back.
func (s *store) Submit(r *Result, transitionMatch bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}

	_, err = tx.Exec(`
		INSERT INTO results (id, match_id, status, winner_user_id, submitted_by, confirmed_by_host_at, confirmed_by_opponent_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.MatchID, r.Status, nullIfEmpty(r.WinnerUserID), r.SubmittedBy,
		unixOrNil(r.ConfirmedByHostAt), unixOrNil(r.ConfirmedByOpponentAt), r.CreatedAt.Unix())
	if err != nil {
		tx.Rollback()
		return false, fmt.Errorf("failed to insert result: %w", err)
	}

	for _, set := range r.Sets {
		_, err = tx.Exec(`
			INSERT INTO set_results (result_id, set_number, host_games, opponent_games)
			VALUES (?, ?, ?, ?)`,
			r.ID, set.SetNumber, set.HostGames, set.OpponentGames)
		if err != nil {
			tx.Rollback()
			return false, fmt.Errorf("failed to insert set %d: %w", set.SetNumber, err)
		}
	}

	if transitionMatch {
		res, err := tx.Exec(`UPDATE matches SET status = ? WHERE id = ? AND status = ?`,
			match.StatusAwaitingConfirmation, r.MatchID, match.StatusScheduled)
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
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func unixOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}

// StampConfirmation records one party's confirmation timestamp while the
// result stays submitted. Guarded on the current status so a confirmation
// can never land on a disputed or already-confirmed result.
func (s *store) StampConfirmation(resultID string, host bool, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	column := "confirmed_by_opponent_at"
	if host {
		column = "confirmed_by_host_at"
	}
	res, err := s.db.Exec(
		`UPDATE results SET `+column+` = ? WHERE id = ? AND status = ?`,
		at.Unix(), resultID, StatusSubmitted)
	if err != nil {
		log.Error("Failed to stamp confirmation", "error", err, "resultID", resultID)
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ConfirmAndComplete performs the dual-confirmation commit: the result flips
// submitted -> confirmed, the match flips awaiting_confirmation -> completed,
// and the rating deltas land, all in one transaction. The rating write is
// gated on this transaction having performed the match transition, which
// makes the rating update exactly-once under concurrent confirmations. Any
// failure rolls back everything; a match is never completed without its
// rating update.
func (s *store) ConfirmAndComplete(resultID string, host bool, at time.Time, matchID string, competitive bool, deltas []players.RatingDelta) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}

	column := "confirmed_by_opponent_at"
	if host {
		column = "confirmed_by_host_at"
	}
	res, err := tx.Exec(
		`UPDATE results SET status = ?, `+column+` = ? WHERE id = ? AND status = ?`,
		StatusConfirmed, at.Unix(), resultID, StatusSubmitted)
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

	if competitive {
		res, err = tx.Exec(`UPDATE matches SET status = ? WHERE id = ? AND status = ?`,
			match.StatusCompleted, matchID, match.StatusAwaitingConfirmation)
		if err != nil {
			tx.Rollback()
			return false, err
		}
		transitioned, err := res.RowsAffected()
		if err != nil {
			tx.Rollback()
			return false, err
		}
		if transitioned == 0 {
			// The result said submitted but the match was not awaiting
			// confirmation: the bijection is broken. Fail loudly.
			tx.Rollback()
			return false, fmt.Errorf("match %s was not awaiting confirmation while its result was submitted", matchID)
		}

		if err := players.ApplyRatingDeltas(tx, matchID, deltas, at); err != nil {
			tx.Rollback()
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// Dispute flips the result and its match to disputed in one transaction.
// The result guard excludes confirmed; the match guard excludes terminal
// states.
func (s *store) Dispute(resultID string, host bool, at time.Time, matchID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}

	column := "disputed_by_opponent_at"
	if host {
		column = "disputed_by_host_at"
	}
	res, err := tx.Exec(
		`UPDATE results SET status = ?, `+column+` = ? WHERE id = ? AND status IN (?, ?, ?)`,
		StatusDisputed, at.Unix(), resultID, StatusDraft, StatusSubmitted, StatusDisputed)
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

	_, err = tx.Exec(`UPDATE matches SET status = ? WHERE id = ? AND status IN (?, ?, ?)`,
		match.StatusDisputed, matchID, match.StatusScheduled, match.StatusAwaitingConfirmation, match.StatusDisputed)
	if err != nil {
		tx.Rollback()
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// AddSet appends a set to a result. The unique index on
// (result_id, set_number) backstops the uniqueness check.
func (s *store) AddSet(resultID string, set SetScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO set_results (result_id, set_number, host_games, opponent_games)
		VALUES (?, ?, ?, ?)`,
		resultID, set.SetNumber, set.HostGames, set.OpponentGames)
	if err != nil {
		log.Error("Failed to add set", "error", err, "resultID", resultID, "setNumber", set.SetNumber)
	}
	return err
}

// SummaryForMatch implements match.ResultSource for the admin completion
// path.
func (s *store) SummaryForMatch(matchID string) (*match.ResultSummary, error) {
	r, err := s.GetByMatch(matchID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, nil
	}
	return &match.ResultSummary{
		Status:       string(r.Status),
		SetCount:     len(r.Sets),
		WinnerUserID: r.WinnerUserID,
	}, nil
}
