package state

import (
	"sync"
	"time"
)

// DefaultTTL is how long offered menus stay selectable
const DefaultTTL = 10 * time.Minute

// ChatState is what the bot remembers about a chat between messages
type ChatState struct {
	// MenuIDs are the menus last offered, in the order they were listed
	MenuIDs   []string
	Timestamp time.Time
}

// Manager manages chat states
type Manager struct {
	states map[int64]ChatState
	ttl    time.Duration
	now    func() time.Time
	mu     sync.Mutex
}

// New creates a new state manager. A non-positive ttl uses DefaultTTL.
func New(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		states: make(map[int64]ChatState),
		ttl:    ttl,
		now:    time.Now,
	}
}

// SetOffered remembers the menus just listed in a chat
func (m *Manager) SetOffered(chatID int64, menuIDs []string) {
	ids := make([]string, len(menuIDs))
	copy(ids, menuIDs)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[chatID] = ChatState{
		MenuIDs:   ids,
		Timestamp: m.now(),
	}
}

// Offered returns the menu ID at 1-based position n of the last listing.
// Expired state is dropped.
func (m *Manager) Offered(chatID int64, n int) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.states[chatID]
	if !ok {
		return "", false
	}
	if m.now().Sub(state.Timestamp) > m.ttl {
		delete(m.states, chatID)
		return "", false
	}
	if n < 1 || n > len(state.MenuIDs) {
		return "", false
	}
	return state.MenuIDs[n-1], true
}

// ClearState clears the state for a chat
func (m *Manager) ClearState(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, chatID)
}
