package response

import (
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/allocation"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/autosave"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/directory"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/layout"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/session"
)

// Health is the liveness response
type Health struct {
	Status         string `json:"status"`
	ActiveSessions int    `json:"active_sessions"`
}

// Seating is the full arrangement as the session currently holds it
type Seating = session.View

// AutoAssign is the response for an auto-assign run
type AutoAssign struct {
	Report  allocation.Report `json:"report"`
	Seating Seating           `json:"seating"`
}

// Save is the response for an explicit save
type Save struct {
	Outcome string  `json:"outcome"`
	Seating Seating `json:"seating"`
}

// OutcomeName maps a save outcome to its wire name
func OutcomeName(o autosave.Outcome) string {
	switch o {
	case autosave.OutcomeSaved:
		return "saved"
	case autosave.OutcomeSkipped:
		return "unchanged"
	default:
		return "failed"
	}
}

// Layout is the response for a generated layout
type Layout struct {
	Layout  *layout.Layout `json:"layout"`
	Seating Seating        `json:"seating"`
}

// Table is the response for a single table
type Table struct {
	Table model.Table `json:"table"`
}

// Unassigned is the filtered unassigned list
type Unassigned struct {
	Attendees []model.Attendee `json:"attendees"`
	Filters   session.Filters  `json:"filters"`
}

// Metadata is the response for a metadata update
type Metadata struct {
	Meta model.ArrangementMeta `json:"meta"`
}

// Import is the response for an attendee import
type Import struct {
	Report  *directory.ImportReport `json:"report"`
	Seating Seating                 `json:"seating"`
}

// ViewState is the stored canvas viewport
type ViewState struct {
	EventID string  `json:"event_id"`
	Zoom    float64 `json:"zoom"`
	PanX    float64 `json:"pan_x"`
	PanY    float64 `json:"pan_y"`
}

// ViewStateFromModel converts model.ViewState
func ViewStateFromModel(eventID model.EventID, v model.ViewState) ViewState {
	return ViewState{EventID: string(eventID), Zoom: v.Zoom, PanX: v.PanX, PanY: v.PanY}
}
