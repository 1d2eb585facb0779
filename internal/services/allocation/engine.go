package allocation

import (
	"sort"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
)

// Eligibility decides which confirmation states may be seated manually
type Eligibility int

const (
	// ConfirmedOrPending rejects only declined attendees
	ConfirmedOrPending Eligibility = iota
	// ConfirmedOnly rejects declined and pending attendees
	ConfirmedOnly
)

// ParseEligibility maps a config value to an Eligibility
func ParseEligibility(s string) (Eligibility, bool) {
	switch s {
	case "", "confirmed_or_pending":
		return ConfirmedOrPending, true
	case "confirmed_only":
		return ConfirmedOnly, true
	}
	return ConfirmedOrPending, false
}

// Allows reports whether an attendee with the given status may be seated
func (e Eligibility) Allows(c model.Confirmation) bool {
	switch c {
	case model.ConfirmationConfirmed:
		return true
	case model.ConfirmationPending:
		return e == ConfirmedOrPending
	default:
		return false
	}
}

// State is the allocation input and output: tables plus the derived unassigned set
type State struct {
	Tables     []model.Table
	Unassigned []model.Attendee
}

// Clone returns a deep copy of the state
func (s State) Clone() State {
	unassigned := make([]model.Attendee, len(s.Unassigned))
	copy(unassigned, s.Unassigned)
	return State{Tables: model.CloneTables(s.Tables), Unassigned: unassigned}
}

// Report summarizes an auto-assign run
type Report struct {
	PlacedCount int                `json:"placed_count"`
	PlacedSeats int                `json:"placed_seats"`
	Placed      []model.AttendeeID `json:"placed"`
	Failed      []model.AttendeeID `json:"failed"`
}

// OccupiedSeats returns the seats in use at a table; primaries and companions weigh one each
func OccupiedSeats(t model.Table) int {
	return t.OccupiedSeats()
}

// Assign seats an attendee and its companions at the target table.
// The input state is never mutated.
func Assign(state State, attendee model.Attendee, tableID model.TableID, eligibility Eligibility) (State, error) {
	if !eligibility.Allows(attendee.Confirmation) {
		return state, model.ErrAttendeeNotEligible
	}

	idx := model.FindTable(state.Tables, tableID)
	if idx < 0 {
		return state, model.ErrTableNotFound
	}

	target := state.Tables[idx]
	needed := attendee.Seats()
	occupied := target.OccupiedSeats() - target.SeatsHeldBy(attendee.ID)
	if occupied+needed > target.Capacity {
		available := target.Capacity - occupied
		if available < 0 {
			available = 0
		}
		return state, &model.CapacityExceededError{
			TableID:   tableID,
			Available: available,
			Needed:    needed,
		}
	}

	next := state.Clone()
	stripAttendee(next.Tables, attendee.ID)

	seated := attendee
	id := tableID
	seated.TableID = &id
	next.Tables[idx].Occupants = append(next.Tables[idx].Occupants, seatsFor(seated)...)

	next.Unassigned = withoutAttendee(next.Unassigned, attendee.ID)
	return next, nil
}

// Remove unseats an attendee and every companion seat it owns.
// Unknown or unseated attendees leave the state unchanged.
func Remove(state State, attendeeID model.AttendeeID) State {
	var removed *model.Attendee
	for _, t := range state.Tables {
		for _, o := range t.Occupants {
			if o.OwnerID() == attendeeID && !o.IsCompanion() {
				a := o.Attendee.Bare()
				removed = &a
			}
		}
	}
	if removed == nil {
		return state
	}

	next := state.Clone()
	stripAttendee(next.Tables, attendeeID)
	next.Unassigned = append(withoutAttendee(next.Unassigned, attendeeID), *removed)
	return next
}

// AutoAssign places confirmed unassigned attendees using best-fit-decreasing.
// Attendees that fit nowhere are reported as failed; the run never aborts.
func AutoAssign(state State) (State, Report) {
	report := Report{Placed: []model.AttendeeID{}, Failed: []model.AttendeeID{}}
	next := state.Clone()

	var candidates []model.Attendee
	for _, a := range next.Unassigned {
		if a.Confirmation == model.ConfirmationConfirmed {
			candidates = append(candidates, a)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Seats() > candidates[j].Seats()
	})

	for _, a := range candidates {
		needed := a.Seats()
		best := -1
		bestSlack := 0
		for i := range next.Tables {
			slack := next.Tables[i].Available() - needed
			if slack < 0 {
				continue
			}
			if best < 0 || slack < bestSlack {
				best = i
				bestSlack = slack
			}
		}
		if best < 0 {
			report.Failed = append(report.Failed, a.ID)
			continue
		}

		seated := a
		id := next.Tables[best].ID
		seated.TableID = &id
		next.Tables[best].Occupants = append(next.Tables[best].Occupants, seatsFor(seated)...)
		next.Unassigned = withoutAttendee(next.Unassigned, a.ID)

		report.Placed = append(report.Placed, a.ID)
		report.PlacedCount++
		report.PlacedSeats += needed
	}

	return next, report
}

// Clear returns every seated attendee to the unassigned set and empties all tables
func Clear(state State) State {
	next := state.Clone()
	for i := range next.Tables {
		for _, o := range next.Tables[i].Occupants {
			if !o.IsCompanion() {
				next.Unassigned = append(withoutAttendee(next.Unassigned, o.OwnerID()), o.Attendee.Bare())
			}
		}
		next.Tables[i].Occupants = []model.Occupant{}
	}
	return next
}

// StripCompanions returns a copy of the tables holding primary occupants only
func StripCompanions(tables []model.Table) []model.Table {
	result := model.CloneTables(tables)
	for i := range result {
		primaries := make([]model.Occupant, 0, len(result[i].Occupants))
		for _, o := range result[i].Occupants {
			if !o.IsCompanion() {
				primaries = append(primaries, o)
			}
		}
		result[i].Occupants = primaries
	}
	return result
}

// Expand rebuilds companion seats from the directory's current party sizes.
// Occupants missing from the directory are dropped; those that no longer
// fit their table or are no longer eligible are left unseated.
func Expand(tables []model.Table, directory []model.Attendee, eligibility Eligibility) State {
	byID := make(map[model.AttendeeID]model.Attendee, len(directory))
	for _, a := range directory {
		byID[a.ID] = a
	}

	seated := make(map[model.AttendeeID]bool)
	expanded := model.CloneTables(tables)
	for i := range expanded {
		occupants := make([]model.Occupant, 0, len(expanded[i].Occupants))
		for _, o := range expanded[i].Occupants {
			if o.IsCompanion() {
				continue
			}
			current, ok := byID[o.OwnerID()]
			if !ok || seated[current.ID] || !eligibility.Allows(current.Confirmation) {
				continue
			}
			if len(occupants)+current.Seats() > expanded[i].Capacity {
				continue
			}
			id := expanded[i].ID
			current.TableID = &id
			occupants = append(occupants, seatsFor(current)...)
			seated[current.ID] = true
		}
		expanded[i].Occupants = occupants
	}

	return State{Tables: expanded, Unassigned: Unassigned(directory, expanded)}
}

// Unassigned returns the directory attendees that are not a primary occupant of any table
func Unassigned(attendees []model.Attendee, tables []model.Table) []model.Attendee {
	seated := make(map[model.AttendeeID]bool)
	for _, t := range tables {
		for _, o := range t.Occupants {
			if !o.IsCompanion() {
				seated[o.OwnerID()] = true
			}
		}
	}

	result := make([]model.Attendee, 0, len(attendees))
	for _, a := range attendees {
		if !seated[a.ID] {
			result = append(result, a.Bare())
		}
	}
	return result
}

// Find returns the attendee record for an id from either the tables or the unassigned set
func Find(state State, id model.AttendeeID) (model.Attendee, bool) {
	for _, a := range state.Unassigned {
		if a.ID == id {
			return a, true
		}
	}
	for _, t := range state.Tables {
		for _, o := range t.Occupants {
			if o.OwnerID() == id && !o.IsCompanion() {
				return o.Attendee, true
			}
		}
	}
	return model.Attendee{}, false
}

// HasOccupants reports whether any table holds a seat
func HasOccupants(tables []model.Table) bool {
	for _, t := range tables {
		if len(t.Occupants) > 0 {
			return true
		}
	}
	return false
}

func seatsFor(a model.Attendee) []model.Occupant {
	seats := make([]model.Occupant, 0, a.Seats())
	seats = append(seats, model.NewPrimary(a))
	for ordinal := 1; ordinal < a.Seats(); ordinal++ {
		seats = append(seats, model.NewCompanion(a, ordinal))
	}
	return seats
}

func stripAttendee(tables []model.Table, id model.AttendeeID) {
	for i := range tables {
		kept := tables[i].Occupants[:0]
		for _, o := range tables[i].Occupants {
			if o.OwnerID() != id {
				kept = append(kept, o)
			}
		}
		tables[i].Occupants = kept
	}
}

func withoutAttendee(attendees []model.Attendee, id model.AttendeeID) []model.Attendee {
	result := make([]model.Attendee, 0, len(attendees))
	for _, a := range attendees {
		if a.ID != id {
			result = append(result, a)
		}
	}
	return result
}
