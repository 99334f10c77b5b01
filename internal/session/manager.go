package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"expensedesk/internal/domain"
	"expensedesk/internal/form"
)

// DepsFunc builds the collaborators for a user's sessions.
type DepsFunc func(userID uuid.UUID) Deps

// ManagerConfig holds settings for idle-session eviction.
type ManagerConfig struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

type sessionKey struct {
	userID uuid.UUID
	kind   domain.FormKind
}

// Manager keeps at most one open session per user and form kind.
type Manager struct {
	forms   *form.Registry
	depsFor DepsFunc
	cfg     ManagerConfig

	mu       sync.Mutex
	sessions map[sessionKey]*Session
}

// NewManager creates a Manager.
func NewManager(forms *form.Registry, depsFor DepsFunc, cfg ManagerConfig) *Manager {
	return &Manager{
		forms:    forms,
		depsFor:  depsFor,
		cfg:      cfg,
		sessions: make(map[sessionKey]*Session),
	}
}

// Get returns the user's open session for kind, opening it if needed.
func (m *Manager) Get(ctx context.Context, userID uuid.UUID, kind domain.FormKind) (*Session, error) {
	schema, err := m.forms.Get(kind)
	if err != nil {
		return nil, err
	}
	key := sessionKey{userID: userID, kind: kind}

	m.mu.Lock()
	if s, ok := m.sessions[key]; ok && !s.Closed() {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	opened := Open(ctx, schema, m.depsFor(userID))

	m.mu.Lock()
	if s, ok := m.sessions[key]; ok && !s.Closed() {
		m.mu.Unlock()
		opened.Close(ctx)
		return s, nil
	}
	m.sessions[key] = opened
	m.mu.Unlock()
	return opened, nil
}

// Close tears down the user's session for kind, if one is open.
func (m *Manager) Close(ctx context.Context, userID uuid.UUID, kind domain.FormKind) {
	key := sessionKey{userID: userID, kind: kind}
	m.mu.Lock()
	s, ok := m.sessions[key]
	delete(m.sessions, key)
	m.mu.Unlock()
	if ok {
		s.Close(ctx)
	}
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// EvictIdle closes sessions unused since before now minus the idle timeout
// and returns how many were closed.
func (m *Manager) EvictIdle(ctx context.Context, now time.Time) int {
	if m.cfg.IdleTimeout <= 0 {
		return 0
	}
	cutoff := now.Add(-m.cfg.IdleTimeout)

	var idle []*Session
	m.mu.Lock()
	for key, s := range m.sessions {
		if s.IdleSince().Before(cutoff) || s.Closed() {
			idle = append(idle, s)
			delete(m.sessions, key)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		s.Close(ctx)
	}
	return len(idle)
}

// Start evicts idle sessions on every sweep interval until ctx is
// canceled, then closes all remaining sessions.
func (m *Manager) Start(ctx context.Context) {
	interval := m.cfg.SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("sessionManager: started", "idle_timeout", m.cfg.IdleTimeout, "sweep_interval", interval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("sessionManager: shutting down, closing open sessions")
			closeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			m.CloseAll(closeCtx)
			cancel()
			slog.Info("sessionManager: shutdown complete")
			return
		case now := <-ticker.C:
			if n := m.EvictIdle(ctx, now); n > 0 {
				slog.Info("sessionManager: evicted idle sessions", "count", n)
			}
		}
	}
}

// CloseAll closes every open session.
func (m *Manager) CloseAll(ctx context.Context) {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for key, s := range m.sessions {
		all = append(all, s)
		delete(m.sessions, key)
	}
	m.mu.Unlock()

	for _, s := range all {
		s.Close(ctx)
	}
}
