package request

import (
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/directory"
)

// AssignRequest is the request body for seating an attendee
type AssignRequest struct {
	AttendeeID string `json:"attendee_id" validate:"required"`
	TableID    string `json:"table_id" validate:"required"`
}

// RemoveRequest is the request body for unseating an attendee
type RemoveRequest struct {
	AttendeeID string `json:"attendee_id" validate:"required"`
}

// ClearRequest is the request body for clearing every table
type ClearRequest struct {
	Confirm bool `json:"confirm"`
}

// Position is a board coordinate
type Position struct {
	X float64 `json:"x" validate:"gte=0"`
	Y float64 `json:"y" validate:"gte=0"`
}

// ToModel converts to a model.Position
func (p Position) ToModel() model.Position {
	return model.Position{X: p.X, Y: p.Y}
}

// AddTableRequest is the request body for adding a table
type AddTableRequest struct {
	Name     string   `json:"name" validate:"max=100"`
	Capacity int      `json:"capacity" validate:"required,gte=1,lte=500"`
	Shape    string   `json:"shape" validate:"omitempty,oneof=round rectangular"`
	Position Position `json:"position"`
}

// MoveTableRequest is the request body for moving a table
type MoveTableRequest struct {
	Position Position `json:"position"`
}

// LayoutRequest is the request body for generating a layout.
// Policy is "fixed" or "mixed"; a zero guest count uses the directory.
type LayoutRequest struct {
	GuestCount       int    `json:"guest_count" validate:"gte=0"`
	Policy           string `json:"policy" validate:"omitempty,oneof=fixed mixed"`
	Capacity         int    `json:"capacity" validate:"gte=0"`
	Shape            string `json:"shape" validate:"omitempty,oneof=round rectangular"`
	LargeCount       int    `json:"large_count" validate:"gte=0"`
	LargeCapacity    int    `json:"large_capacity" validate:"gte=0"`
	StandardCapacity int    `json:"standard_capacity" validate:"gte=0"`
}

// Dimensions is a board size
type Dimensions struct {
	Width  float64 `json:"width" validate:"gt=0"`
	Height float64 `json:"height" validate:"gt=0"`
}

// MetadataRequest is the request body for updating arrangement metadata.
// Omitted fields are left unchanged.
type MetadataRequest struct {
	Name           *string     `json:"name" validate:"omitempty,max=200"`
	Description    *string     `json:"description" validate:"omitempty,max=2000"`
	GuestCountHint *int        `json:"guest_count_hint" validate:"omitempty,gte=0"`
	Dimensions     *Dimensions `json:"dimensions"`
	IsDefault      *bool       `json:"is_default"`
}

// ImportAttendeesRequest is the request body for replacing an event's attendee list
type ImportAttendeesRequest struct {
	Attendees []directory.Record `json:"attendees"`
}

// ConfirmationRequest is the request body for setting an RSVP.
// Confirmed is true, false or null.
type ConfirmationRequest struct {
	Confirmed *bool `json:"confirmed"`
}

// ViewStateRequest is the request body for storing the canvas viewport
type ViewStateRequest struct {
	Zoom float64 `json:"zoom" validate:"gt=0"`
	PanX float64 `json:"pan_x"`
	PanY float64 `json:"pan_y"`
}
