package availability

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new AvailabilityStore.
func New(db *sql.DB) AvailabilityStore {
	return &store{
		db: db,
	}
}

func (s *store) Create(a *Availability) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.Status == "" {
		a.Status = StatusOpen
	}
	_, err := s.db.Exec(`
		INSERT INTO availabilities (id, owner_user_id, start_time, end_time, min_level, max_level, surface, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.OwnerUserID, a.StartTime.Unix(), a.EndTime.Unix(),
		a.MinLevel, a.MaxLevel, a.Surface, a.Status, a.CreatedAt.Unix())
	if err != nil {
		log.Error("Failed to create availability", "error", err, "availabilityID", a.ID)
	}
	return err
}

func (s *store) Get(id string) (*Availability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var a Availability
	var start, end, createdAt int64
	var minLevel, maxLevel sql.NullFloat64
	var surface sql.NullString

	err := s.db.QueryRow(`
		SELECT id, owner_user_id, start_time, end_time, min_level, max_level, surface, status, created_at
		FROM availabilities WHERE id = ?`, id).Scan(
		&a.ID, &a.OwnerUserID, &start, &end, &minLevel, &maxLevel, &surface, &a.Status, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	a.StartTime = time.Unix(start, 0)
	a.EndTime = time.Unix(end, 0)
	a.CreatedAt = time.Unix(createdAt, 0)
	if minLevel.Valid {
		a.MinLevel = &minLevel.Float64
	}
	if maxLevel.Valid {
		a.MaxLevel = &maxLevel.Float64
	}
	if surface.Valid {
		a.Surface = &surface.String
	}
	return &a, nil
}

func (s *store) ListOpen(from, to time.Time) ([]Availability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, owner_user_id, start_time, end_time, min_level, max_level, surface, status, created_at
		FROM availabilities
		WHERE status = ? AND start_time >= ? AND start_time <= ?
		ORDER BY start_time`, StatusOpen, from.Unix(), to.Unix())
	if err != nil {
		log.Error("Failed to query open availabilities", "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []Availability
	for rows.Next() {
		var a Availability
		var start, end, createdAt int64
		var minLevel, maxLevel sql.NullFloat64
		var surface sql.NullString
		if err := rows.Scan(&a.ID, &a.OwnerUserID, &start, &end, &minLevel, &maxLevel, &surface, &a.Status, &createdAt); err != nil {
			log.Error("Failed to scan availability row", "error", err)
			continue
		}
		a.StartTime = time.Unix(start, 0)
		a.EndTime = time.Unix(end, 0)
		a.CreatedAt = time.Unix(createdAt, 0)
		if minLevel.Valid {
			a.MinLevel = &minLevel.Float64
		}
		if maxLevel.Valid {
			a.MaxLevel = &maxLevel.Float64
		}
		if surface.Valid {
			a.Surface = &surface.String
		}
		out = append(out, a)
	}
	return out, nil
}

// MarkMatched flips an open availability to matched. The WHERE clause on the
// current status makes the flip a no-op if it already happened.
func (s *store) MarkMatched(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE availabilities SET status = ? WHERE id = ? AND status = ?`,
		StatusMatched, id, StatusOpen)
	if err != nil {
		log.Error("Failed to mark availability matched", "error", err, "availabilityID", id)
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
