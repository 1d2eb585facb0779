package arrangement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/dependencies/clock"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/dependencies/idgen"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/storage"
)

// SavedMessage is returned with every successful save
const SavedMessage = "arrangement saved"

// Service is the arrangement store adapter. It persists whole arrangements
// in wire form: tables carry primary occupants only.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	ids     idgen.Generator
	logger  *slog.Logger
}

// New creates a new arrangement Service
func New(storage storage.Storage, clock clock.Clock, ids idgen.Generator, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		ids:     ids,
		logger:  logger.With(slog.String("component", "arrangement")),
	}
}

// Fetch returns the stored arrangement, or nil if the event has none yet
func (s *Service) Fetch(ctx context.Context, eventID model.EventID) (*model.Arrangement, error) {
	arrangement, err := s.storage.GetArrangement(ctx, eventID)
	if err != nil {
		if errors.Is(err, model.ErrArrangementNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching arrangement: %w", err)
	}
	return arrangement, nil
}

// Save validates and persists the arrangement, returning the tables as stored.
// Tables without an id get a generated one and unnamed tables get a default name.
func (s *Service) Save(ctx context.Context, eventID model.EventID, meta model.ArrangementMeta, tables []model.Table) (*model.SaveResult, error) {
	normalized, err := s.normalize(tables)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	createdAt := now
	existing, err := s.storage.GetArrangement(ctx, eventID)
	switch {
	case err == nil:
		createdAt = existing.CreatedAt
	case !errors.Is(err, model.ErrArrangementNotFound):
		return nil, fmt.Errorf("fetching arrangement: %w", err)
	}

	arrangement := &model.Arrangement{
		EventID:   eventID,
		Meta:      meta,
		Tables:    normalized,
		CreatedAt: createdAt,
		UpdatedAt: now,
	}
	if err := s.storage.SaveArrangement(ctx, arrangement); err != nil {
		return nil, fmt.Errorf("saving arrangement: %w", err)
	}

	s.logger.Debug("arrangement stored",
		slog.String("event_id", string(eventID)),
		slog.Int("tables", len(normalized)),
	)

	return &model.SaveResult{Tables: model.CloneTables(normalized), Message: SavedMessage}, nil
}

// Delete removes the stored arrangement
func (s *Service) Delete(ctx context.Context, eventID model.EventID) error {
	return s.storage.DeleteArrangement(ctx, eventID)
}

func (s *Service) normalize(tables []model.Table) ([]model.Table, error) {
	result := model.CloneTables(tables)
	if result == nil {
		result = []model.Table{}
	}

	seen := make(map[model.TableID]bool, len(result))
	for i := range result {
		t := &result[i]
		if t.Capacity <= 0 {
			return nil, fmt.Errorf("%w: table %q capacity must be positive", model.ErrInvalidTable, t.Name)
		}
		if t.Shape == "" {
			t.Shape = model.ShapeRound
		}
		if !t.Shape.Valid() {
			return nil, fmt.Errorf("%w: unknown shape %q", model.ErrInvalidTable, t.Shape)
		}
		if len(t.Occupants) > t.Capacity {
			return nil, fmt.Errorf("%w: table %q has %d occupants for %d seats",
				model.ErrInvalidTable, t.Name, len(t.Occupants), t.Capacity)
		}
		if t.ID == "" {
			t.ID = model.TableID(s.ids.NewID())
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("%w: duplicate table id %s", model.ErrInvalidTable, t.ID)
		}
		seen[t.ID] = true
		if t.Name == "" {
			t.Name = fmt.Sprintf("Table %d", i+1)
		}
		if t.Occupants == nil {
			t.Occupants = []model.Occupant{}
		}
		for j, o := range t.Occupants {
			if o.IsCompanion() {
				return nil, fmt.Errorf("%w: seat %s at table %s", model.ErrCompanionOnWire, o.SeatID(), t.ID)
			}
			o.Kind = model.OccupantPrimary
			id := t.ID
			o.Attendee.TableID = &id
			t.Occupants[j] = o
		}
	}
	return result, nil
}
