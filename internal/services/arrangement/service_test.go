package arrangement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/dependencies/mocks"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/storage/memory"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	ids     *mocks.MockIDGen
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))
	s.ids = mocks.NewMockIDGen()
	s.service = New(s.storage, s.clock, s.ids, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestFetchMissingReturnsNil() {
	arrangement, err := s.service.Fetch(s.ctx, "event-1")
	s.Require().NoError(err)
	s.Nil(arrangement)
}

func (s *ServiceSuite) TestSaveAssignsIDsAndNames() {
	s.ids.Queue("generated-1")
	tables := []model.Table{
		{ID: "t1", Name: "Family", Capacity: 10},
		{Capacity: 8, Shape: model.ShapeRectangular},
	}

	result, err := s.service.Save(s.ctx, "event-1", model.ArrangementMeta{Name: "Hall"}, tables)
	s.Require().NoError(err)

	s.Equal(SavedMessage, result.Message)
	s.Require().Len(result.Tables, 2)
	s.Equal(model.ShapeRound, result.Tables[0].Shape)
	s.Equal(model.TableID("generated-1"), result.Tables[1].ID)
	s.Equal("Table 2", result.Tables[1].Name)
	s.Empty(tables[1].ID, "input is not mutated")
}

func (s *ServiceSuite) TestSaveRoundTrip() {
	tables := []model.Table{{
		ID:        "t1",
		Capacity:  4,
		Occupants: []model.Occupant{model.NewPrimary(model.Attendee{ID: "a1", Name: "Dana", PartySize: 2})},
	}}

	_, err := s.service.Save(s.ctx, "event-1", model.ArrangementMeta{Name: "Hall"}, tables)
	s.Require().NoError(err)

	arrangement, err := s.service.Fetch(s.ctx, "event-1")
	s.Require().NoError(err)
	s.Require().NotNil(arrangement)
	s.Equal("Hall", arrangement.Meta.Name)
	s.Require().Len(arrangement.Tables[0].Occupants, 1)
	s.Equal(model.TableID("t1"), *arrangement.Tables[0].Occupants[0].Attendee.TableID)
}

func (s *ServiceSuite) TestSaveKeepsCreatedAt() {
	created := s.clock.Now()
	_, err := s.service.Save(s.ctx, "event-1", model.ArrangementMeta{}, nil)
	s.Require().NoError(err)

	s.clock.Advance(time.Hour)
	_, err = s.service.Save(s.ctx, "event-1", model.ArrangementMeta{Name: "renamed"}, nil)
	s.Require().NoError(err)

	arrangement, _ := s.service.Fetch(s.ctx, "event-1")
	s.Equal(created, arrangement.CreatedAt)
	s.Equal(created.Add(time.Hour), arrangement.UpdatedAt)
}

func (s *ServiceSuite) TestSaveRejectsCompanions() {
	owner := model.Attendee{ID: "a1", Name: "Dana", PartySize: 2}
	tables := []model.Table{{
		ID:        "t1",
		Capacity:  4,
		Occupants: []model.Occupant{model.NewPrimary(owner), model.NewCompanion(owner, 1)},
	}}

	_, err := s.service.Save(s.ctx, "event-1", model.ArrangementMeta{}, tables)
	s.ErrorIs(err, model.ErrCompanionOnWire)

	arrangement, _ := s.service.Fetch(s.ctx, "event-1")
	s.Nil(arrangement)
}

func (s *ServiceSuite) TestSaveRejectsInvalidTables() {
	_, err := s.service.Save(s.ctx, "event-1", model.ArrangementMeta{}, []model.Table{{ID: "t1", Capacity: 0}})
	s.ErrorIs(err, model.ErrInvalidTable)

	_, err = s.service.Save(s.ctx, "event-1", model.ArrangementMeta{}, []model.Table{
		{ID: "t1", Capacity: 4},
		{ID: "t1", Capacity: 4},
	})
	s.ErrorIs(err, model.ErrInvalidTable)

	_, err = s.service.Save(s.ctx, "event-1", model.ArrangementMeta{}, []model.Table{{ID: "t1", Capacity: 4, Shape: "oval"}})
	s.ErrorIs(err, model.ErrInvalidTable)
}

func (s *ServiceSuite) TestDelete() {
	_, _ = s.service.Save(s.ctx, "event-1", model.ArrangementMeta{}, nil)

	s.Require().NoError(s.service.Delete(s.ctx, "event-1"))

	arrangement, err := s.service.Fetch(s.ctx, "event-1")
	s.Require().NoError(err)
	s.Nil(arrangement)
}
