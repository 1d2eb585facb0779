package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/dependencies/clock"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/dependencies/idgen"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/metrics"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
)

// Manager owns one Session per event. With an idle timeout configured,
// sessions unused for that long are saved and dropped.
type Manager struct {
	directory Directory
	store     Store
	emitter   Emitter
	clock     clock.Clock
	ids       idgen.Generator
	metrics   metrics.Collector
	logger    *slog.Logger
	cfg       Config

	mu       sync.Mutex
	sessions map[model.EventID]*Session
	lastUsed map[model.EventID]time.Time
	sweeper  clock.Timer
	closed   bool
}

// NewManager creates a new session Manager
func NewManager(
	directory Directory,
	store Store,
	emitter Emitter,
	clk clock.Clock,
	ids idgen.Generator,
	collector metrics.Collector,
	logger *slog.Logger,
	cfg Config,
) *Manager {
	if collector == nil {
		collector = metrics.NewNop()
	}
	m := &Manager{
		directory: directory,
		store:     store,
		emitter:   emitter,
		clock:     clk,
		ids:       ids,
		metrics:   collector,
		logger:    logger,
		cfg:       cfg,
		sessions:  make(map[model.EventID]*Session),
		lastUsed:  make(map[model.EventID]time.Time),
	}
	if cfg.IdleTimeout > 0 {
		m.sweeper = clk.AfterFunc(cfg.IdleTimeout, m.sweep)
	}
	return m
}

// Get returns the event's session, creating and loading it on first use.
// Fetch failures are reported through the session's fetch error.
func (m *Manager) Get(ctx context.Context, eventID model.EventID) *Session {
	m.mu.Lock()
	s, ok := m.sessions[eventID]
	if !ok {
		s = New(eventID, m.directory, m.store, m.emitter, m.clock, m.ids, m.metrics, m.logger, m.cfg)
		m.sessions[eventID] = s
		m.metrics.SetActiveSessions(len(m.sessions))
	}
	m.lastUsed[eventID] = m.clock.Now()
	m.mu.Unlock()

	s.ensureLoaded(ctx)
	return s
}

// Lookup returns the event's session if it has been created
func (m *Manager) Lookup(eventID model.EventID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[eventID]
	return s, ok
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Evict saves and drops an event's session
func (m *Manager) Evict(ctx context.Context, eventID model.EventID) error {
	m.mu.Lock()
	s, ok := m.sessions[eventID]
	if ok {
		delete(m.sessions, eventID)
		delete(m.lastUsed, eventID)
		m.metrics.SetActiveSessions(len(m.sessions))
	}
	m.mu.Unlock()

	if !ok {
		return nil
	}
	return s.Close(ctx)
}

// Close saves and drops every session
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[model.EventID]*Session)
	m.lastUsed = make(map[model.EventID]time.Time)
	m.metrics.SetActiveSessions(0)
	m.closed = true
	if m.sweeper != nil {
		m.sweeper.Stop()
		m.sweeper = nil
	}
	m.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		if err := s.Close(ctx); err != nil {
			m.logger.Error("failed to save session on shutdown",
				slog.String("event_id", string(s.EventID())),
				slog.String("error", err.Error()),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// EvictIdle saves and drops sessions unused for the idle timeout.
// Sessions with a save pending or in flight are kept.
func (m *Manager) EvictIdle(ctx context.Context) int {
	if m.cfg.IdleTimeout <= 0 {
		return 0
	}
	now := m.clock.Now()

	m.mu.Lock()
	var idle []*Session
	for id, s := range m.sessions {
		if now.Sub(m.lastUsed[id]) < m.cfg.IdleTimeout || !s.idle() {
			continue
		}
		idle = append(idle, s)
		delete(m.sessions, id)
		delete(m.lastUsed, id)
	}
	if len(idle) > 0 {
		m.metrics.SetActiveSessions(len(m.sessions))
	}
	m.mu.Unlock()

	for _, s := range idle {
		if err := s.Close(ctx); err != nil {
			m.logger.Warn("failed to save idle session",
				slog.String("event_id", string(s.EventID())),
				slog.String("error", err.Error()),
			)
		}
	}
	if len(idle) > 0 {
		m.logger.Debug("evicted idle sessions", slog.Int("count", len(idle)))
	}
	return len(idle)
}

func (m *Manager) sweep() {
	ctx := context.Background()
	if timeout := m.cfg.AutoSave.SaveTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	m.EvictIdle(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.sweeper = m.clock.AfterFunc(m.cfg.IdleTimeout, m.sweep)
	}
}
