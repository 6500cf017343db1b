package players

// PlayerStore defines the interface for player profiles and rating history.
type PlayerStore interface {
	Upsert(p PlayerInfo) error
	// FindByUserID resolves a user to their player profile. Absence is not
	// an error: a nil profile means "guest, no profile".
	FindByUserID(userID string) (*PlayerInfo, error)
	Get(playerID string) (*PlayerInfo, error)
	Leaderboard(limit int) ([]PlayerInfo, error)
	History(playerID string) ([]HistoryEntry, error)
}
