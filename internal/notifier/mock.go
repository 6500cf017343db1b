package notifier

import "sync"

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spy for the Emit call.
	EmitFunc func(userID, eventType string, payload map[string]any) error

	// Call records
	EmitCalls []EmitCall
}

// EmitCall holds the arguments for a call to Emit.
type EmitCall struct {
	UserID    string
	EventType string
	Payload   map[string]any
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EmitCalls = nil
}

func (m *Mock) Emit(userID, eventType string, payload map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EmitCalls = append(m.EmitCalls, EmitCall{UserID: userID, EventType: eventType, Payload: payload})
	if m.EmitFunc != nil {
		return m.EmitFunc(userID, eventType, payload)
	}
	return nil
}

// CallsOfType returns recorded calls matching the given event type.
func (m *Mock) CallsOfType(eventType string) []EmitCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []EmitCall
	for _, c := range m.EmitCalls {
		if c.EventType == eventType {
			out = append(out, c)
		}
	}
	return out
}
