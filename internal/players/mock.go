package players

import "sync"

// Mock is a mock implementation of PlayerStore for testing.
// It is safe for concurrent use.
type Mock struct {
	mu      sync.Mutex
	Players map[string]PlayerInfo // keyed by user id

	UpsertCalls []PlayerInfo
	FindCalls   []string
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{Players: make(map[string]PlayerInfo)}
}

func (m *Mock) Upsert(p PlayerInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertCalls = append(m.UpsertCalls, p)
	m.Players[p.UserID] = p
	return nil
}

func (m *Mock) FindByUserID(userID string) (*PlayerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindCalls = append(m.FindCalls, userID)
	if p, ok := m.Players[userID]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

func (m *Mock) Get(playerID string) (*PlayerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Players {
		if p.ID == playerID {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *Mock) Leaderboard(limit int) ([]PlayerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []PlayerInfo
	for _, p := range m.Players {
		out = append(out, p)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Mock) History(playerID string) ([]HistoryEntry, error) {
	return nil, nil
}
