package viewstate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/dependencies/clock"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/storage"
)

const (
	// DefaultDelay is how long a viewport must stay still before it is written
	DefaultDelay = 500 * time.Millisecond

	defaultWriteTimeout = 5 * time.Second
	minZoom             = 0.1
	maxZoom             = 10
)

// ErrInvalidZoom is returned for a zoom factor outside the supported range
var ErrInvalidZoom = errors.New("zoom out of range")

type pendingWrite struct {
	state model.ViewState
	timer clock.Timer
}

// Service persists the per-event canvas viewport. Reads happen once per
// session and writes are delayed so a pan gesture produces one write.
// Storage failures never reach the caller.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
	delay   time.Duration

	mu      sync.Mutex
	pending map[model.EventID]*pendingWrite
}

// New creates a view state Service; a non-positive delay uses DefaultDelay
func New(storage storage.Storage, clk clock.Clock, delay time.Duration, logger *slog.Logger) *Service {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Service{
		storage: storage,
		clock:   clk,
		logger:  logger.With(slog.String("component", "viewstate")),
		delay:   delay,
		pending: make(map[model.EventID]*pendingWrite),
	}
}

// Get returns the viewport for an event. A write still waiting on its delay
// wins over the stored value; missing or unreadable state yields the default.
func (s *Service) Get(ctx context.Context, eventID model.EventID) model.ViewState {
	s.mu.Lock()
	if p, ok := s.pending[eventID]; ok {
		state := p.state
		s.mu.Unlock()
		return state
	}
	s.mu.Unlock()

	state, err := s.storage.GetViewState(ctx, eventID)
	if err != nil {
		if !errors.Is(err, model.ErrViewStateNotFound) {
			s.logger.Debug("failed to read view state",
				slog.String("event_id", string(eventID)),
				slog.String("error", err.Error()),
			)
		}
		return model.DefaultViewState()
	}
	return *state
}

// Update records a new viewport and (re)starts the write delay
func (s *Service) Update(eventID model.EventID, state model.ViewState) error {
	if state.Zoom < minZoom || state.Zoom > maxZoom {
		return fmt.Errorf("%w: %v", ErrInvalidZoom, state.Zoom)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[eventID]
	if !ok {
		p = &pendingWrite{}
		s.pending[eventID] = p
	} else if p.timer != nil {
		p.timer.Stop()
	}
	p.state = state
	p.timer = s.clock.AfterFunc(s.delay, func() { s.fire(eventID, p) })
	return nil
}

// Flush writes every pending viewport immediately
func (s *Service) Flush(ctx context.Context) {
	s.mu.Lock()
	writes := make(map[model.EventID]model.ViewState, len(s.pending))
	for id, p := range s.pending {
		if p.timer != nil {
			p.timer.Stop()
		}
		writes[id] = p.state
	}
	s.pending = make(map[model.EventID]*pendingWrite)
	s.mu.Unlock()

	for id, state := range writes {
		s.write(ctx, id, state)
	}
}

// Pending returns how many viewports are waiting to be written
func (s *Service) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *Service) fire(eventID model.EventID, p *pendingWrite) {
	s.mu.Lock()
	// Superseded by a later Update or taken by Flush
	if s.pending[eventID] != p {
		s.mu.Unlock()
		return
	}
	delete(s.pending, eventID)
	state := p.state
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), defaultWriteTimeout)
	defer cancel()
	s.write(ctx, eventID, state)
}

func (s *Service) write(ctx context.Context, eventID model.EventID, state model.ViewState) {
	if err := s.storage.SaveViewState(ctx, eventID, state); err != nil {
		s.logger.Debug("failed to write view state",
			slog.String("event_id", string(eventID)),
			slog.String("error", err.Error()),
		)
	}
}
