package players

import (
	"database/sql"
	"sync"
	"time"

	"github.com/mauv0809/courtside/internal/rating"
)

// store handles all database operations for players and rating history.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// PlayerInfo is a player's profile plus their current rating state.
// A user without a PlayerInfo row is a guest: they can accept unconditioned
// invites and play matches, but carry no level, location or rating.
type PlayerInfo struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	Name             string     `json:"name"`
	LevelValue       float64    `json:"level_value"`
	LevelConfidence  float64    `json:"level_confidence"`
	Latitude         *float64   `json:"latitude,omitempty"`
	Longitude        *float64   `json:"longitude,omitempty"`
	Rating           float64    `json:"rating"`
	RatingConfidence float64    `json:"rating_confidence"`
	LastMatchAt      *time.Time `json:"last_match_at,omitempty"`
}

// Snapshot extracts the rating engine's view of this player.
func (p *PlayerInfo) Snapshot() rating.Snapshot {
	s := rating.Snapshot{
		Rating:     p.Rating,
		Confidence: p.RatingConfidence,
	}
	if p.LastMatchAt != nil {
		s.LastMatchAt = *p.LastMatchAt
	}
	return s
}

// RatingDelta is one player's movement for a single match, persisted as a
// rating_history row alongside the write-back to the player itself.
type RatingDelta struct {
	PlayerID string
	Old      rating.Snapshot
	New      rating.Snapshot
}

// HistoryEntry is one append-only audit record of a rating update.
type HistoryEntry struct {
	ID            int64     `json:"id"`
	PlayerID      string    `json:"player_id"`
	MatchID       string    `json:"match_id"`
	OldRating     float64   `json:"old_rating"`
	NewRating     float64   `json:"new_rating"`
	Delta         float64   `json:"delta"`
	OldConfidence float64   `json:"old_confidence"`
	NewConfidence float64   `json:"new_confidence"`
	CreatedAt     time.Time `json:"created_at"`
}
