package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
)

// ErrReadOnly is returned when importing into a source that cannot store attendees
var ErrReadOnly = errors.New("attendee directory is read-only")

// ImportReport summarizes an attendee import
type ImportReport struct {
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped"`
}

// Service is the attendee directory adapter. It validates and normalizes
// records from its Source into attendees.
type Service struct {
	source   Source
	validate *validator.Validate
	logger   *slog.Logger
}

// New creates a new directory Service
func New(source Source, logger *slog.Logger) *Service {
	return &Service{
		source:   source,
		validate: validator.New(),
		logger:   logger.With(slog.String("component", "directory")),
	}
}

// FetchAttendees returns the event's attendees. Invalid records are skipped
// and duplicate ids keep their first occurrence.
func (s *Service) FetchAttendees(ctx context.Context, eventID model.EventID) ([]model.Attendee, error) {
	records, err := s.source.FetchRecords(ctx, eventID)
	if err != nil {
		if errors.Is(err, model.ErrDirectoryUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", model.ErrDirectoryUnavailable, err)
	}

	attendees, skipped := s.normalize(records)
	for _, reason := range skipped {
		s.logger.Warn("skipping attendee record",
			slog.String("event_id", string(eventID)),
			slog.String("reason", reason),
		)
	}
	return attendees, nil
}

// SetConfirmation updates an attendee's RSVP status at the source
func (s *Service) SetConfirmation(ctx context.Context, eventID model.EventID, attendeeID model.AttendeeID, status model.Confirmation) error {
	if !status.Valid() {
		return fmt.Errorf("invalid confirmation %q", status)
	}
	return s.source.UpdateConfirmation(ctx, eventID, attendeeID, status)
}

// Import replaces the event's attendee list when the source supports it
func (s *Service) Import(ctx context.Context, eventID model.EventID, records []Record) (*ImportReport, error) {
	importer, ok := s.source.(Importer)
	if !ok {
		return nil, ErrReadOnly
	}

	attendees, skipped := s.normalize(records)
	if err := importer.ReplaceAttendees(ctx, eventID, attendees); err != nil {
		return nil, fmt.Errorf("storing attendees: %w", err)
	}

	s.logger.Info("attendees imported",
		slog.String("event_id", string(eventID)),
		slog.Int("imported", len(attendees)),
		slog.Int("skipped", len(skipped)),
	)

	if skipped == nil {
		skipped = []string{}
	}
	return &ImportReport{Imported: len(attendees), Skipped: skipped}, nil
}

func (s *Service) normalize(records []Record) ([]model.Attendee, []string) {
	attendees := make([]model.Attendee, 0, len(records))
	var skipped []string
	seen := make(map[model.AttendeeID]bool, len(records))

	for i, r := range records {
		r.Side = strings.ToLower(strings.TrimSpace(r.Side))
		if err := s.validate.Struct(r); err != nil {
			skipped = append(skipped, fmt.Sprintf("record %d (%q): %v", i, r.ID, err))
			continue
		}
		a := r.ToAttendee()
		if seen[a.ID] {
			skipped = append(skipped, fmt.Sprintf("record %d: duplicate id %q", i, a.ID))
			continue
		}
		seen[a.ID] = true
		attendees = append(attendees, a)
	}
	return attendees, skipped
}
