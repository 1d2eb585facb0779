package allocation

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
)

type EngineSuite struct {
	suite.Suite
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func attendee(id string, party int, status model.Confirmation) model.Attendee {
	return model.Attendee{
		ID:           model.AttendeeID(id),
		Name:         "Guest " + id,
		PartySize:    party,
		Side:         model.SideShared,
		Confirmation: status,
	}
}

func table(id string, capacity int) model.Table {
	return model.Table{
		ID:        model.TableID(id),
		Name:      "Table " + id,
		Capacity:  capacity,
		Shape:     model.ShapeRound,
		Occupants: []model.Occupant{},
	}
}

func (s *EngineSuite) totalSeats(state State) int {
	total := 0
	for _, t := range state.Tables {
		total += t.OccupiedSeats()
	}
	return total
}

func (s *EngineSuite) requireWithinCapacity(state State) {
	for _, t := range state.Tables {
		s.Require().LessOrEqual(t.OccupiedSeats(), t.Capacity, "table %s over capacity", t.ID)
	}
}

// Assign tests

func (s *EngineSuite) TestAssignCreatesCompanionSeats() {
	a := attendee("a1", 3, model.ConfirmationConfirmed)
	state := State{Tables: []model.Table{table("t1", 8)}, Unassigned: []model.Attendee{a}}

	next, err := Assign(state, a, "t1", ConfirmedOrPending)
	s.Require().NoError(err)

	occupants := next.Tables[0].Occupants
	s.Require().Len(occupants, 3)
	s.False(occupants[0].IsCompanion())
	s.Equal("a1", occupants[0].SeatID())
	s.Equal("a1-1", occupants[1].SeatID())
	s.Equal("a1-2", occupants[2].SeatID())
	s.Equal("Guest a1 +2", occupants[2].DisplayName())
	s.Equal(model.ConfirmationConfirmed, occupants[1].Attendee.Confirmation)
	s.Empty(next.Unassigned)
}

func (s *EngineSuite) TestAssignDoesNotMutateInput() {
	a := attendee("a1", 2, model.ConfirmationConfirmed)
	state := State{Tables: []model.Table{table("t1", 8)}, Unassigned: []model.Attendee{a}}

	_, err := Assign(state, a, "t1", ConfirmedOrPending)
	s.Require().NoError(err)

	s.Empty(state.Tables[0].Occupants)
	s.Len(state.Unassigned, 1)
}

func (s *EngineSuite) TestAssignCapacityExceeded() {
	first := attendee("a1", 3, model.ConfirmationConfirmed)
	second := attendee("a2", 6, model.ConfirmationConfirmed)
	state := State{Tables: []model.Table{table("t1", 8)}, Unassigned: []model.Attendee{first, second}}

	state, err := Assign(state, first, "t1", ConfirmedOrPending)
	s.Require().NoError(err)

	next, err := Assign(state, second, "t1", ConfirmedOrPending)
	s.ErrorIs(err, model.ErrCapacityExceeded)

	var capErr *model.CapacityExceededError
	s.Require().ErrorAs(err, &capErr)
	s.Equal(5, capErr.Available)
	s.Equal(6, capErr.Needed)
	s.Equal(model.TableID("t1"), capErr.TableID)

	s.Equal(3, next.Tables[0].OccupiedSeats())
	s.Len(next.Unassigned, 1)
}

func (s *EngineSuite) TestAssignRejectsDeclined() {
	a := attendee("a1", 1, model.ConfirmationDeclined)
	state := State{Tables: []model.Table{table("t1", 8)}, Unassigned: []model.Attendee{a}}

	_, err := Assign(state, a, "t1", ConfirmedOrPending)
	s.ErrorIs(err, model.ErrAttendeeNotEligible)
}

func (s *EngineSuite) TestAssignEligibilityPolicy() {
	a := attendee("a1", 1, model.ConfirmationPending)
	state := State{Tables: []model.Table{table("t1", 8)}, Unassigned: []model.Attendee{a}}

	_, err := Assign(state, a, "t1", ConfirmedOnly)
	s.ErrorIs(err, model.ErrAttendeeNotEligible)

	_, err = Assign(state, a, "t1", ConfirmedOrPending)
	s.NoError(err)
}

func (s *EngineSuite) TestAssignEligibilityCheckedBeforeCapacity() {
	a := attendee("a1", 20, model.ConfirmationDeclined)
	state := State{Tables: []model.Table{table("t1", 2)}, Unassigned: []model.Attendee{a}}

	_, err := Assign(state, a, "t1", ConfirmedOrPending)
	s.ErrorIs(err, model.ErrAttendeeNotEligible)
	s.NotErrorIs(err, model.ErrCapacityExceeded)
}

func (s *EngineSuite) TestAssignUnknownTable() {
	a := attendee("a1", 1, model.ConfirmationConfirmed)
	state := State{Tables: []model.Table{table("t1", 8)}, Unassigned: []model.Attendee{a}}

	_, err := Assign(state, a, "missing", ConfirmedOrPending)
	s.ErrorIs(err, model.ErrTableNotFound)
}

func (s *EngineSuite) TestReassignMovesAttendee() {
	a := attendee("a1", 2, model.ConfirmationConfirmed)
	state := State{Tables: []model.Table{table("t1", 4), table("t2", 4)}, Unassigned: []model.Attendee{a}}

	state, err := Assign(state, a, "t1", ConfirmedOrPending)
	s.Require().NoError(err)
	state, err = Assign(state, a, "t2", ConfirmedOrPending)
	s.Require().NoError(err)

	s.Empty(state.Tables[0].Occupants)
	s.Len(state.Tables[1].Occupants, 2)
	s.Equal(model.TableID("t2"), *state.Tables[1].Occupants[0].Attendee.TableID)
	s.Empty(state.Unassigned)
}

func (s *EngineSuite) TestReassignSameTableIsNotRejected() {
	a := attendee("a1", 4, model.ConfirmationConfirmed)
	state := State{Tables: []model.Table{table("t1", 4)}, Unassigned: []model.Attendee{a}}

	state, err := Assign(state, a, "t1", ConfirmedOrPending)
	s.Require().NoError(err)
	state, err = Assign(state, a, "t1", ConfirmedOrPending)
	s.Require().NoError(err)

	s.Len(state.Tables[0].Occupants, 4)
}

// Remove tests

func (s *EngineSuite) TestRemoveDropsCompanions() {
	a := attendee("a1", 3, model.ConfirmationConfirmed)
	state := State{Tables: []model.Table{table("t1", 8)}, Unassigned: []model.Attendee{a}}
	state, err := Assign(state, a, "t1", ConfirmedOrPending)
	s.Require().NoError(err)

	next := Remove(state, "a1")

	s.Empty(next.Tables[0].Occupants)
	s.Require().Len(next.Unassigned, 1)
	s.Equal(model.AttendeeID("a1"), next.Unassigned[0].ID)
	s.Nil(next.Unassigned[0].TableID)
}

func (s *EngineSuite) TestRemoveIsIdempotent() {
	a := attendee("a1", 2, model.ConfirmationConfirmed)
	state := State{Tables: []model.Table{table("t1", 8)}, Unassigned: []model.Attendee{a}}
	state, _ = Assign(state, a, "t1", ConfirmedOrPending)

	once := Remove(state, "a1")
	twice := Remove(once, "a1")

	s.Equal(once, twice)
}

func (s *EngineSuite) TestRemoveUnknownIsNoop() {
	state := State{Tables: []model.Table{table("t1", 8)}, Unassigned: []model.Attendee{}}

	next := Remove(state, "ghost")
	s.Equal(state, next)
}

// AutoAssign tests

func (s *EngineSuite) TestAutoAssignBestFitDecreasing() {
	big := attendee("big", 6, model.ConfirmationConfirmed)
	small := attendee("small", 3, model.ConfirmationConfirmed)
	state := State{
		Tables:     []model.Table{table("four", 4), table("ten", 10)},
		Unassigned: []model.Attendee{small, big},
	}

	next, report := AutoAssign(state)

	s.Equal(2, report.PlacedCount)
	s.Equal(9, report.PlacedSeats)
	s.Equal([]model.AttendeeID{"big", "small"}, report.Placed)
	s.Empty(report.Failed)
	s.True(next.Tables[1].HasAttendee("big"))
	s.True(next.Tables[0].HasAttendee("small"))
	s.Empty(next.Unassigned)
}

func (s *EngineSuite) TestAutoAssignReportsFailures() {
	huge := attendee("huge", 12, model.ConfirmationConfirmed)
	fits := attendee("fits", 2, model.ConfirmationConfirmed)
	state := State{
		Tables:     []model.Table{table("t1", 10)},
		Unassigned: []model.Attendee{huge, fits},
	}

	next, report := AutoAssign(state)

	s.Equal([]model.AttendeeID{"huge"}, report.Failed)
	s.Equal([]model.AttendeeID{"fits"}, report.Placed)
	s.Require().Len(next.Unassigned, 1)
	s.Equal(model.AttendeeID("huge"), next.Unassigned[0].ID)
}

func (s *EngineSuite) TestAutoAssignIgnoresUnconfirmed() {
	pending := attendee("p", 1, model.ConfirmationPending)
	declined := attendee("d", 1, model.ConfirmationDeclined)
	confirmed := attendee("c", 1, model.ConfirmationConfirmed)
	state := State{
		Tables:     []model.Table{table("t1", 10)},
		Unassigned: []model.Attendee{pending, declined, confirmed},
	}

	next, report := AutoAssign(state)

	s.Equal([]model.AttendeeID{"c"}, report.Placed)
	s.Empty(report.Failed)
	s.Len(next.Unassigned, 2)
}

func (s *EngineSuite) TestAutoAssignPartitionsConfirmed() {
	var unassigned []model.Attendee
	for i, party := range []int{5, 1, 4, 2, 3, 6, 1, 2} {
		unassigned = append(unassigned, attendee(string(rune('a'+i)), party, model.ConfirmationConfirmed))
	}
	state := State{
		Tables:     []model.Table{table("t1", 8), table("t2", 6), table("t3", 5)},
		Unassigned: unassigned,
	}

	next, report := AutoAssign(state)

	s.requireWithinCapacity(next)
	s.Equal(len(unassigned), len(report.Placed)+len(report.Failed))
	s.Equal(report.PlacedSeats, s.totalSeats(next))
	s.Len(next.Unassigned, len(report.Failed))
}

func (s *EngineSuite) TestAutoAssignIsDeterministic() {
	state := State{
		Tables: []model.Table{table("t1", 6), table("t2", 6)},
		Unassigned: []model.Attendee{
			attendee("a", 3, model.ConfirmationConfirmed),
			attendee("b", 3, model.ConfirmationConfirmed),
			attendee("c", 2, model.ConfirmationConfirmed),
		},
	}

	first, r1 := AutoAssign(state)
	second, r2 := AutoAssign(state)

	s.Equal(r1, r2)
	s.Equal(first, second)
}

// Clear / Expand tests

func (s *EngineSuite) TestClearReturnsEveryone() {
	a := attendee("a1", 3, model.ConfirmationConfirmed)
	b := attendee("b1", 1, model.ConfirmationConfirmed)
	state := State{Tables: []model.Table{table("t1", 8)}, Unassigned: []model.Attendee{a, b}}
	state, _ = AutoAssign(state)

	next := Clear(state)

	s.Equal(0, s.totalSeats(next))
	s.Len(next.Unassigned, 2)
}

func (s *EngineSuite) TestStripCompanions() {
	a := attendee("a1", 3, model.ConfirmationConfirmed)
	state := State{Tables: []model.Table{table("t1", 8)}, Unassigned: []model.Attendee{a}}
	state, _ = Assign(state, a, "t1", ConfirmedOrPending)

	wire := StripCompanions(state.Tables)

	s.Len(wire[0].Occupants, 1)
	s.Len(state.Tables[0].Occupants, 3)
}

func (s *EngineSuite) TestExpandRebuildsFromDirectory() {
	stored := table("t1", 4)
	stored.Occupants = []model.Occupant{
		model.NewPrimary(attendee("a1", 1, model.ConfirmationConfirmed)),
		model.NewPrimary(attendee("gone", 1, model.ConfirmationConfirmed)),
	}
	directory := []model.Attendee{
		attendee("a1", 3, model.ConfirmationConfirmed),
		attendee("b1", 1, model.ConfirmationPending),
	}

	state := Expand([]model.Table{stored}, directory, ConfirmedOrPending)

	s.Len(state.Tables[0].Occupants, 3)
	s.False(state.Tables[0].HasAttendee("gone"))
	s.Require().Len(state.Unassigned, 1)
	s.Equal(model.AttendeeID("b1"), state.Unassigned[0].ID)
}

func (s *EngineSuite) TestExpandUnseatsWhenPartyGrew() {
	stored := table("t1", 4)
	stored.Occupants = []model.Occupant{
		model.NewPrimary(attendee("a1", 2, model.ConfirmationConfirmed)),
		model.NewPrimary(attendee("b1", 2, model.ConfirmationConfirmed)),
	}
	directory := []model.Attendee{
		attendee("a1", 2, model.ConfirmationConfirmed),
		attendee("b1", 3, model.ConfirmationConfirmed),
	}

	state := Expand([]model.Table{stored}, directory, ConfirmedOrPending)

	s.requireWithinCapacity(state)
	s.True(state.Tables[0].HasAttendee("a1"))
	s.False(state.Tables[0].HasAttendee("b1"))
	s.Require().Len(state.Unassigned, 1)
	s.Equal(model.AttendeeID("b1"), state.Unassigned[0].ID)
}

func (s *EngineSuite) TestExpandUnseatsDeclined() {
	stored := table("t1", 4)
	stored.Occupants = []model.Occupant{model.NewPrimary(attendee("a1", 1, model.ConfirmationConfirmed))}
	directory := []model.Attendee{attendee("a1", 1, model.ConfirmationDeclined)}

	state := Expand([]model.Table{stored}, directory, ConfirmedOrPending)

	s.Empty(state.Tables[0].Occupants)
	s.Len(state.Unassigned, 1)
}

func (s *EngineSuite) TestUnassignedExcludesSeated() {
	a := attendee("a1", 2, model.ConfirmationConfirmed)
	b := attendee("b1", 1, model.ConfirmationConfirmed)
	state := State{Tables: []model.Table{table("t1", 8)}, Unassigned: []model.Attendee{a, b}}
	state, _ = Assign(state, a, "t1", ConfirmedOrPending)

	result := Unassigned([]model.Attendee{a, b}, state.Tables)

	s.Require().Len(result, 1)
	s.Equal(model.AttendeeID("b1"), result[0].ID)
}

func (s *EngineSuite) TestParseEligibility() {
	e, ok := ParseEligibility("confirmed_only")
	s.True(ok)
	s.Equal(ConfirmedOnly, e)

	e, ok = ParseEligibility("")
	s.True(ok)
	s.Equal(ConfirmedOrPending, e)

	_, ok = ParseEligibility("anyone")
	s.False(ok)
}
