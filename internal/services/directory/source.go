package directory

import (
	"context"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/storage"
)

// Source is where attendee records come from
type Source interface {
	FetchRecords(ctx context.Context, eventID model.EventID) ([]Record, error)
	UpdateConfirmation(ctx context.Context, eventID model.EventID, attendeeID model.AttendeeID, status model.Confirmation) error
}

// Importer is a Source that accepts a whole attendee list
type Importer interface {
	ReplaceAttendees(ctx context.Context, eventID model.EventID, attendees []model.Attendee) error
}

// StorageSource serves attendees kept in the application's own storage
type StorageSource struct {
	storage storage.Storage
}

// NewStorageSource creates a Source backed by storage
func NewStorageSource(storage storage.Storage) *StorageSource {
	return &StorageSource{storage: storage}
}

var (
	_ Source   = (*StorageSource)(nil)
	_ Importer = (*StorageSource)(nil)
)

func (s *StorageSource) FetchRecords(ctx context.Context, eventID model.EventID) ([]Record, error) {
	attendees, err := s.storage.GetAttendees(ctx, eventID)
	if err != nil {
		return nil, err
	}
	records := make([]Record, len(attendees))
	for i, a := range attendees {
		records[i] = FromAttendee(a)
	}
	return records, nil
}

func (s *StorageSource) UpdateConfirmation(ctx context.Context, eventID model.EventID, attendeeID model.AttendeeID, status model.Confirmation) error {
	attendees, err := s.storage.GetAttendees(ctx, eventID)
	if err != nil {
		return err
	}
	for i := range attendees {
		if attendees[i].ID == attendeeID {
			attendees[i].Confirmation = status
			return s.storage.SaveAttendees(ctx, eventID, attendees)
		}
	}
	return model.ErrAttendeeNotFound
}

func (s *StorageSource) ReplaceAttendees(ctx context.Context, eventID model.EventID, attendees []model.Attendee) error {
	return s.storage.SaveAttendees(ctx, eventID, attendees)
}
