package memory

import (
	"context"
	"testing"
	"time"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
	"github.com/stretchr/testify/suite"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func sampleArrangement() *model.Arrangement {
	return &model.Arrangement{
		EventID: "event-1",
		Meta:    model.ArrangementMeta{Name: "Main hall", GuestCountHint: 40},
		Tables: []model.Table{
			{
				ID:       "t1",
				Name:     "Table 1",
				Capacity: 8,
				Shape:    model.ShapeRound,
				Occupants: []model.Occupant{
					model.NewPrimary(model.Attendee{ID: "a1", Name: "Dana", PartySize: 2}),
				},
			},
		},
		CreatedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Arrangement tests

func (s *StorageSuite) TestSaveAndGetArrangement() {
	err := s.storage.SaveArrangement(s.ctx, sampleArrangement())
	s.Require().NoError(err)

	retrieved, err := s.storage.GetArrangement(s.ctx, "event-1")
	s.Require().NoError(err)
	s.Equal("Main hall", retrieved.Meta.Name)
	s.Require().Len(retrieved.Tables, 1)
	s.Equal(model.AttendeeID("a1"), retrieved.Tables[0].Occupants[0].OwnerID())
}

func (s *StorageSuite) TestGetArrangementNotFound() {
	_, err := s.storage.GetArrangement(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrArrangementNotFound)
}

func (s *StorageSuite) TestArrangementIsCopied() {
	arrangement := sampleArrangement()
	_ = s.storage.SaveArrangement(s.ctx, arrangement)

	arrangement.Tables[0].Occupants = nil

	retrieved, err := s.storage.GetArrangement(s.ctx, "event-1")
	s.Require().NoError(err)
	s.Len(retrieved.Tables[0].Occupants, 1)
}

func (s *StorageSuite) TestDeleteArrangement() {
	_ = s.storage.SaveArrangement(s.ctx, sampleArrangement())

	err := s.storage.DeleteArrangement(s.ctx, "event-1")
	s.Require().NoError(err)

	_, err = s.storage.GetArrangement(s.ctx, "event-1")
	s.ErrorIs(err, model.ErrArrangementNotFound)
}

// Attendee tests

func (s *StorageSuite) TestSaveAndGetAttendees() {
	attendees := []model.Attendee{
		{ID: "a1", Name: "Dana", PartySize: 2, Confirmation: model.ConfirmationConfirmed},
		{ID: "a2", Name: "Noa", PartySize: 1, Confirmation: model.ConfirmationPending},
	}

	err := s.storage.SaveAttendees(s.ctx, "event-1", attendees)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetAttendees(s.ctx, "event-1")
	s.Require().NoError(err)
	s.Equal(attendees, retrieved)
}

func (s *StorageSuite) TestGetAttendeesEmpty() {
	retrieved, err := s.storage.GetAttendees(s.ctx, "event-1")
	s.Require().NoError(err)
	s.Empty(retrieved)
}

// View state tests

func (s *StorageSuite) TestSaveAndGetViewState() {
	err := s.storage.SaveViewState(s.ctx, "event-1", model.ViewState{Zoom: 1.5, PanX: 10, PanY: -20})
	s.Require().NoError(err)

	retrieved, err := s.storage.GetViewState(s.ctx, "event-1")
	s.Require().NoError(err)
	s.Equal(1.5, retrieved.Zoom)
	s.Equal(-20.0, retrieved.PanY)
}

func (s *StorageSuite) TestGetViewStateNotFound() {
	_, err := s.storage.GetViewState(s.ctx, "event-1")
	s.ErrorIs(err, model.ErrViewStateNotFound)
}
