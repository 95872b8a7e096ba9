package session

import (
	"context"
	"log"
	"sync"

	"github.com/staffdesk/console/internal/repositories"
)

// Event describes a session state transition delivered to subscribers.
type Event int

const (
	EventLogin Event = iota
	EventLogout
	EventExpired
)

func (e Event) String() string {
	switch e {
	case EventLogin:
		return "login"
	case EventLogout:
		return "logout"
	case EventExpired:
		return "expired"
	}
	return "unknown"
}

type Listener func(Event)

// Manager is the single source of truth for authentication state. A token
// is held if and only if the session is authenticated. All mutation goes
// through Establish, Clear and Expire; dependents read Token at the moment
// they need it rather than capturing it early.
type Manager struct {
	repo      repositories.TokenRepository
	mutex     sync.RWMutex
	token     string
	listeners []Listener
}

// NewManager restores any previously persisted token so a restart resumes
// the prior session. A failed restore degrades to anonymous.
func NewManager(ctx context.Context, repo repositories.TokenRepository) *Manager {
	m := &Manager{repo: repo}

	token, err := repo.Load(ctx)
	if err != nil {
		log.Printf("Warning: could not restore session token: %v", err)
		return m
	}
	m.token = token
	return m
}

func (m *Manager) Token() string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.token
}

func (m *Manager) IsAuthenticated() bool {
	return m.Token() != ""
}

// Subscribe registers a listener for session transitions. Listeners are
// invoked synchronously after the transition has been applied.
func (m *Manager) Subscribe(l Listener) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.listeners = append(m.listeners, l)
}

// Establish stores a freshly issued token. Persistence happens first so a
// failed write leaves the prior state untouched.
func (m *Manager) Establish(ctx context.Context, token string) error {
	if err := m.repo.Save(ctx, token); err != nil {
		return err
	}

	m.mutex.Lock()
	m.token = token
	m.mutex.Unlock()

	m.notify(EventLogin)
	return nil
}

// Clear drops the session on explicit logout. Calling it while already
// anonymous is a no-op and notifies nobody.
func (m *Manager) Clear(ctx context.Context) error {
	return m.reset(ctx, EventLogout)
}

// Expire drops the session in response to an unauthorized backend reply.
// It differs from Clear only in the event subscribers observe, so the
// presentation layer can distinguish "logged out" from "session expired".
func (m *Manager) Expire(ctx context.Context) error {
	return m.reset(ctx, EventExpired)
}

func (m *Manager) reset(ctx context.Context, event Event) error {
	m.mutex.Lock()
	wasAuthenticated := m.token != ""
	m.token = ""
	m.mutex.Unlock()

	// In-memory state is cleared regardless; a failing store must not keep
	// the process authenticated.
	err := m.repo.Clear(ctx)

	if wasAuthenticated {
		m.notify(event)
	}
	return err
}

func (m *Manager) notify(event Event) {
	m.mutex.RLock()
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mutex.RUnlock()

	for _, l := range listeners {
		l(event)
	}
}
