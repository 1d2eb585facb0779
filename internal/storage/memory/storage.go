package memory

import (
	"context"
	"sync"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	arrangements map[model.EventID]model.Arrangement
	attendees    map[model.EventID][]model.Attendee
	viewStates   map[model.EventID]model.ViewState
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		arrangements: make(map[model.EventID]model.Arrangement),
		attendees:    make(map[model.EventID][]model.Attendee),
		viewStates:   make(map[model.EventID]model.ViewState),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Arrangement operations

func (s *Storage) SaveArrangement(ctx context.Context, arrangement *model.Arrangement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.arrangements[arrangement.EventID] = arrangement.Clone()
	return nil
}

func (s *Storage) GetArrangement(ctx context.Context, eventID model.EventID) (*model.Arrangement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	arrangement, ok := s.arrangements[eventID]
	if !ok {
		return nil, model.ErrArrangementNotFound
	}
	result := arrangement.Clone()
	return &result, nil
}

func (s *Storage) DeleteArrangement(ctx context.Context, eventID model.EventID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.arrangements, eventID)
	return nil
}

// Attendee directory operations

func (s *Storage) SaveAttendees(ctx context.Context, eventID model.EventID, attendees []model.Attendee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]model.Attendee, len(attendees))
	copy(stored, attendees)
	s.attendees[eventID] = stored
	return nil
}

func (s *Storage) GetAttendees(ctx context.Context, eventID model.EventID) ([]model.Attendee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.attendees[eventID]
	result := make([]model.Attendee, len(stored))
	copy(result, stored)
	return result, nil
}

// View state operations

func (s *Storage) SaveViewState(ctx context.Context, eventID model.EventID, state model.ViewState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewStates[eventID] = state
	return nil
}

func (s *Storage) GetViewState(ctx context.Context, eventID model.EventID) (*model.ViewState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.viewStates[eventID]
	if !ok {
		return nil, model.ErrViewStateNotFound
	}
	return &state, nil
}
