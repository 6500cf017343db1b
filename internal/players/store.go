package players

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new PlayerStore.
func New(db *sql.DB) PlayerStore {
	return &store{
		db: db,
	}
}

// Baseline rating state for newly created players, matching the schema
// defaults.
const (
	DefaultRating           = 1000.0
	DefaultRatingConfidence = 0.5
)

// Upsert inserts a new player or updates an existing one's profile fields.
// Rating fields are left alone on conflict; only the rating write-back path
// may touch them. A zero rating means unseeded and gets the baseline.
func (s *store) Upsert(p PlayerInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Rating == 0 {
		p.Rating = DefaultRating
	}
	if p.RatingConfidence == 0 {
		p.RatingConfidence = DefaultRatingConfidence
	}
	_, err := s.db.Exec(`
		INSERT INTO players (id, user_id, name, level_value, level_confidence, latitude, longitude, rating, rating_confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			name = excluded.name,
			level_value = excluded.level_value,
			level_confidence = excluded.level_confidence,
			latitude = excluded.latitude,
			longitude = excluded.longitude;
	`, p.ID, p.UserID, p.Name, p.LevelValue, p.LevelConfidence, p.Latitude, p.Longitude, p.Rating, p.RatingConfidence)
	if err != nil {
		log.Error("Failed to upsert player", "error", err, "userID", p.UserID)
	}
	return err
}

// FindByUserID resolves a user id to a player profile. Returns nil (not an
// error) when the user has no profile.
func (s *store) FindByUserID(userID string) (*PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryOne("SELECT id, user_id, name, level_value, level_confidence, latitude, longitude, rating, rating_confidence, last_match_at FROM players WHERE user_id = ?", userID)
}

func (s *store) Get(playerID string) (*PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryOne("SELECT id, user_id, name, level_value, level_confidence, latitude, longitude, rating, rating_confidence, last_match_at FROM players WHERE id = ?", playerID)
}

func (s *store) queryOne(query string, arg any) (*PlayerInfo, error) {
	var p PlayerInfo
	var name sql.NullString
	var lat, lon sql.NullFloat64
	var lastMatchAt sql.NullInt64

	err := s.db.QueryRow(query, arg).Scan(
		&p.ID, &p.UserID, &name, &p.LevelValue, &p.LevelConfidence,
		&lat, &lon, &p.Rating, &p.RatingConfidence, &lastMatchAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	p.Name = name.String
	if lat.Valid {
		p.Latitude = &lat.Float64
	}
	if lon.Valid {
		p.Longitude = &lon.Float64
	}
	if lastMatchAt.Valid {
		t := time.Unix(lastMatchAt.Int64, 0)
		p.LastMatchAt = &t
	}
	return &p, nil
}

// Leaderboard retrieves players sorted by rating.
func (s *store) Leaderboard(limit int) ([]PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, user_id, name, level_value, level_confidence, latitude, longitude, rating, rating_confidence, last_match_at
		FROM players ORDER BY rating DESC LIMIT ?`, limit)
	if err != nil {
		log.Error("Failed to query leaderboard", "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []PlayerInfo
	for rows.Next() {
		var p PlayerInfo
		var name sql.NullString
		var lat, lon sql.NullFloat64
		var lastMatchAt sql.NullInt64
		if err := rows.Scan(&p.ID, &p.UserID, &name, &p.LevelValue, &p.LevelConfidence, &lat, &lon, &p.Rating, &p.RatingConfidence, &lastMatchAt); err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		p.Name = name.String
		if lat.Valid {
			p.Latitude = &lat.Float64
		}
		if lon.Valid {
			p.Longitude = &lon.Float64
		}
		if lastMatchAt.Valid {
			t := time.Unix(lastMatchAt.Int64, 0)
			p.LastMatchAt = &t
		}
		out = append(out, p)
	}
	return out, nil
}

// History retrieves the append-only rating audit trail for a player.
func (s *store) History(playerID string) ([]HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, player_id, match_id, old_rating, new_rating, delta, old_confidence, new_confidence, created_at
		FROM rating_history WHERE player_id = ? ORDER BY id`, playerID)
	if err != nil {
		log.Error("Failed to query rating history", "error", err, "playerID", playerID)
		return nil, err
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var h HistoryEntry
		var createdAt int64
		if err := rows.Scan(&h.ID, &h.PlayerID, &h.MatchID, &h.OldRating, &h.NewRating, &h.Delta, &h.OldConfidence, &h.NewConfidence, &createdAt); err != nil {
			log.Error("Failed to scan rating history row", "error", err)
			continue
		}
		h.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, h)
	}
	return out, nil
}

// ApplyRatingDeltas writes the new snapshots back to the players and appends
// one rating_history row per player, inside the caller's transaction. The
// caller gates this on the same conditional update that completed the match,
// which is what keeps ratings exactly-once per match.
func ApplyRatingDeltas(tx *sql.Tx, matchID string, deltas []RatingDelta, now time.Time) error {
	for _, d := range deltas {
		res, err := tx.Exec(`
			UPDATE players SET rating = ?, rating_confidence = ?, last_match_at = ?
			WHERE id = ?`,
			d.New.Rating, d.New.Confidence, d.New.LastMatchAt.Unix(), d.PlayerID)
		if err != nil {
			return fmt.Errorf("failed to update player rating: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("player %s not found for rating update", d.PlayerID)
		}

		_, err = tx.Exec(`
			INSERT INTO rating_history (player_id, match_id, old_rating, new_rating, delta, old_confidence, new_confidence, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			d.PlayerID, matchID, d.Old.Rating, d.New.Rating, d.New.Rating-d.Old.Rating,
			d.Old.Confidence, d.New.Confidence, now.Unix())
		if err != nil {
			return fmt.Errorf("failed to insert rating history: %w", err)
		}
	}
	return nil
}
