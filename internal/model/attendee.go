package model

// AttendeeID uniquely identifies an invited party within an event
type AttendeeID string

// EventID identifies the event an arrangement belongs to
type EventID string

// Side is the affiliation of an attendee
type Side string

const (
	SideBride  Side = "bride"
	SideGroom  Side = "groom"
	SideShared Side = "shared"
)

// Valid reports whether s is one of the known sides
func (s Side) Valid() bool {
	switch s {
	case SideBride, SideGroom, SideShared:
		return true
	}
	return false
}

// Confirmation is the tri-state RSVP status of an attendee
type Confirmation string

const (
	ConfirmationPending   Confirmation = "pending"
	ConfirmationConfirmed Confirmation = "confirmed"
	ConfirmationDeclined  Confirmation = "declined"
)

// ConfirmationFromWire maps the directory's true/false/null encoding
func ConfirmationFromWire(v *bool) Confirmation {
	switch {
	case v == nil:
		return ConfirmationPending
	case *v:
		return ConfirmationConfirmed
	default:
		return ConfirmationDeclined
	}
}

// Wire returns the directory's true/false/null encoding
func (c Confirmation) Wire() *bool {
	switch c {
	case ConfirmationConfirmed:
		v := true
		return &v
	case ConfirmationDeclined:
		v := false
		return &v
	default:
		return nil
	}
}

// Valid reports whether c is one of the known states
func (c Confirmation) Valid() bool {
	switch c {
	case ConfirmationPending, ConfirmationConfirmed, ConfirmationDeclined:
		return true
	}
	return false
}

// Attendee is an invited party sourced from the guest directory.
// PartySize counts every seat the invitation consumes, companions included.
type Attendee struct {
	ID           AttendeeID   `json:"id"`
	Name         string       `json:"name"`
	Phone        string       `json:"phone,omitempty"`
	PartySize    int          `json:"party_size"`
	Side         Side         `json:"side"`
	Confirmation Confirmation `json:"confirmation"`
	Notes        string       `json:"notes,omitempty"`
	Group        string       `json:"group,omitempty"`
	TableID      *TableID     `json:"table_id,omitempty"`
}

// Seats returns the number of seats the attendee needs, never less than one
func (a Attendee) Seats() int {
	if a.PartySize < 1 {
		return 1
	}
	return a.PartySize
}

// Bare returns a copy with the table reference cleared
func (a Attendee) Bare() Attendee {
	a.TableID = nil
	return a
}
