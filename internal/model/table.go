package model

import "fmt"

// TableID uniquely identifies a table within an arrangement
type TableID string

// Shape is the cosmetic outline of a table; it never affects capacity
type Shape string

const (
	ShapeRound       Shape = "round"
	ShapeRectangular Shape = "rectangular"
)

// Valid reports whether s is one of the known shapes
func (s Shape) Valid() bool {
	return s == ShapeRound || s == ShapeRectangular
}

// Position locates a table on the board, in board pixels
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// OccupantKind tags a seat occupant as the attendee itself or a companion seat
type OccupantKind string

const (
	OccupantPrimary   OccupantKind = "primary"
	OccupantCompanion OccupantKind = "companion"
)

// Occupant is one seat at a table. A primary carries the attendee record;
// a companion carries the owner's record and an ordinal in 1..PartySize-1.
type Occupant struct {
	Kind     OccupantKind `json:"kind"`
	Attendee Attendee     `json:"attendee"`
	Ordinal  int          `json:"ordinal,omitempty"`
}

// NewPrimary creates the primary seat for an attendee
func NewPrimary(a Attendee) Occupant {
	return Occupant{Kind: OccupantPrimary, Attendee: a}
}

// NewCompanion creates the ordinal-th companion seat for an attendee
func NewCompanion(owner Attendee, ordinal int) Occupant {
	return Occupant{Kind: OccupantCompanion, Attendee: owner, Ordinal: ordinal}
}

// IsCompanion reports whether the occupant is a synthesized companion seat
func (o Occupant) IsCompanion() bool {
	return o.Kind == OccupantCompanion
}

// OwnerID returns the attendee the seat belongs to
func (o Occupant) OwnerID() AttendeeID {
	return o.Attendee.ID
}

// SeatID returns the display identity of the seat
func (o Occupant) SeatID() string {
	if o.IsCompanion() {
		return fmt.Sprintf("%s-%d", o.Attendee.ID, o.Ordinal)
	}
	return string(o.Attendee.ID)
}

// DisplayName returns the name shown on the seat
func (o Occupant) DisplayName() string {
	if o.IsCompanion() {
		return fmt.Sprintf("%s +%d", o.Attendee.Name, o.Ordinal)
	}
	return o.Attendee.Name
}

// Table is a physical table with a fixed number of seats
type Table struct {
	ID        TableID    `json:"id"`
	Name      string     `json:"name"`
	Capacity  int        `json:"capacity"`
	Shape     Shape      `json:"shape"`
	Position  Position   `json:"position"`
	Occupants []Occupant `json:"occupants"`
}

// OccupiedSeats returns the number of seats in use; every occupant weighs one seat
func (t *Table) OccupiedSeats() int {
	return len(t.Occupants)
}

// Available returns the number of free seats
func (t *Table) Available() int {
	free := t.Capacity - len(t.Occupants)
	if free < 0 {
		return 0
	}
	return free
}

// HasAttendee reports whether any seat at the table belongs to the attendee
func (t *Table) HasAttendee(id AttendeeID) bool {
	for _, o := range t.Occupants {
		if o.OwnerID() == id {
			return true
		}
	}
	return false
}

// SeatsHeldBy returns how many seats the attendee holds at the table
func (t *Table) SeatsHeldBy(id AttendeeID) int {
	count := 0
	for _, o := range t.Occupants {
		if o.OwnerID() == id {
			count++
		}
	}
	return count
}

// Primaries returns the attendees seated at the table, companions excluded
func (t *Table) Primaries() []Attendee {
	var result []Attendee
	for _, o := range t.Occupants {
		if !o.IsCompanion() {
			result = append(result, o.Attendee)
		}
	}
	return result
}

// Clone returns a deep copy of the table
func (t Table) Clone() Table {
	occupants := make([]Occupant, len(t.Occupants))
	copy(occupants, t.Occupants)
	for i := range occupants {
		if occupants[i].Attendee.TableID != nil {
			id := *occupants[i].Attendee.TableID
			occupants[i].Attendee.TableID = &id
		}
	}
	t.Occupants = occupants
	return t
}

// CloneTables deep-copies a table list
func CloneTables(tables []Table) []Table {
	if tables == nil {
		return nil
	}
	result := make([]Table, len(tables))
	for i := range tables {
		result[i] = tables[i].Clone()
	}
	return result
}

// FindTable returns the index of the table with the given ID, or -1
func FindTable(tables []Table, id TableID) int {
	for i := range tables {
		if tables[i].ID == id {
			return i
		}
	}
	return -1
}
