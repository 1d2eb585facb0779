package model

import "time"

// EventDomain groups domain events by subsystem
const EventDomain = "seating"

// EventAction identifies what happened
type EventAction string

const (
	ActionUpdate EventAction = "update"
	ActionAdd    EventAction = "add"
)

// EventKind names the operation that produced the event
type EventKind string

const (
	EventAssigned           EventKind = "assigned"
	EventRemoved            EventKind = "removed"
	EventAutoAssigned       EventKind = "auto_assigned"
	EventCleared            EventKind = "cleared"
	EventTableAdded         EventKind = "table_added"
	EventTableMoved         EventKind = "table_moved"
	EventLayoutGenerated    EventKind = "layout_generated"
	EventMetadataUpdated    EventKind = "metadata_updated"
	EventConfirmationChange EventKind = "confirmation_changed"
	EventSaved              EventKind = "saved"
	EventSaveFailed         EventKind = "save_failed"
)

// Event is a fire-and-forget seating notification for other subsystems
type Event struct {
	Domain    string      `json:"domain"`
	Action    EventAction `json:"action"`
	Kind      EventKind   `json:"kind"`
	EventID   EventID     `json:"event_id"`
	Revision  uint64      `json:"revision"`
	Payload   any         `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// AssignedPayload contains data for assigned events
type AssignedPayload struct {
	AttendeeID AttendeeID `json:"attendee_id"`
	TableID    TableID    `json:"table_id"`
	Seats      int        `json:"seats"`
}

// RemovedPayload contains data for removed events
type RemovedPayload struct {
	AttendeeID AttendeeID `json:"attendee_id"`
}

// AutoAssignedPayload contains data for auto-assigned events
type AutoAssignedPayload struct {
	PlacedCount int          `json:"placed_count"`
	PlacedSeats int          `json:"placed_seats"`
	Failed      []AttendeeID `json:"failed,omitempty"`
}

// TablePayload contains data for table added and moved events
type TablePayload struct {
	TableID  TableID  `json:"table_id"`
	Name     string   `json:"name"`
	Capacity int      `json:"capacity"`
	Position Position `json:"position"`
}

// LayoutPayload contains data for layout generated events
type LayoutPayload struct {
	TableCount int        `json:"table_count"`
	Dimensions Dimensions `json:"dimensions"`
}

// ConfirmationPayload contains data for confirmation changed events
type ConfirmationPayload struct {
	AttendeeID   AttendeeID   `json:"attendee_id"`
	Confirmation Confirmation `json:"confirmation"`
	Unseated     bool         `json:"unseated"`
}

// SavePayload contains data for saved and save failed events
type SavePayload struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
