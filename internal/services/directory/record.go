package directory

import (
	"strings"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
)

// Record is an attendee as the guest list exchanges it. Confirmed is
// true, false or null for confirmed, declined and pending.
type Record struct {
	ID        string  `json:"id" yaml:"id" validate:"required,max=128"`
	Name      string  `json:"name" yaml:"name" validate:"required,max=200"`
	Phone     string  `json:"phone,omitempty" yaml:"phone,omitempty" validate:"omitempty,max=32"`
	PartySize int     `json:"party_size" yaml:"party_size" validate:"gte=0,lte=100"`
	Side      string  `json:"side,omitempty" yaml:"side,omitempty" validate:"omitempty,oneof=bride groom shared"`
	Confirmed *bool   `json:"confirmed" yaml:"confirmed"`
	Notes     string  `json:"notes,omitempty" yaml:"notes,omitempty"`
	Group     string  `json:"group,omitempty" yaml:"group,omitempty" validate:"omitempty,max=100"`
	TableID   *string `json:"table_id,omitempty" yaml:"table_id,omitempty"`
}

// ToAttendee converts a validated record, applying defaults
func (r Record) ToAttendee() model.Attendee {
	side := model.Side(strings.ToLower(r.Side))
	if !side.Valid() {
		side = model.SideShared
	}
	partySize := r.PartySize
	if partySize < 1 {
		partySize = 1
	}

	a := model.Attendee{
		ID:           model.AttendeeID(strings.TrimSpace(r.ID)),
		Name:         strings.TrimSpace(r.Name),
		Phone:        r.Phone,
		PartySize:    partySize,
		Side:         side,
		Confirmation: model.ConfirmationFromWire(r.Confirmed),
		Notes:        r.Notes,
		Group:        r.Group,
	}
	if r.TableID != nil && *r.TableID != "" {
		id := model.TableID(*r.TableID)
		a.TableID = &id
	}
	return a
}

// FromAttendee converts an attendee to its exchange form
func FromAttendee(a model.Attendee) Record {
	r := Record{
		ID:        string(a.ID),
		Name:      a.Name,
		Phone:     a.Phone,
		PartySize: a.PartySize,
		Side:      string(a.Side),
		Confirmed: a.Confirmation.Wire(),
		Notes:     a.Notes,
		Group:     a.Group,
	}
	if a.TableID != nil {
		id := string(*a.TableID)
		r.TableID = &id
	}
	return r
}
