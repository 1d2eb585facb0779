package storage

import (
	"context"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
)

// Storage defines the interface for data persistence.
// Arrangements are stored whole; tables carry primary occupants only.
type Storage interface {
	// Arrangement operations
	SaveArrangement(ctx context.Context, arrangement *model.Arrangement) error
	GetArrangement(ctx context.Context, eventID model.EventID) (*model.Arrangement, error)
	DeleteArrangement(ctx context.Context, eventID model.EventID) error

	// Attendee directory operations
	SaveAttendees(ctx context.Context, eventID model.EventID, attendees []model.Attendee) error
	GetAttendees(ctx context.Context, eventID model.EventID) ([]model.Attendee, error)

	// View state operations
	SaveViewState(ctx context.Context, eventID model.EventID, state model.ViewState) error
	GetViewState(ctx context.Context, eventID model.EventID) (*model.ViewState, error)
}
