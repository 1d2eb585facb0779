package factory

import (
	"context"
	"time"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/dependencies/mocks"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/events"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/events/sse"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/metrics"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/directory"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/session"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/viewstate"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/storage/memory"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockIDs   *mocks.MockIDGen
}

// NewTestApp creates an App over memory storage with a mock clock and id generator.
// The dispatcher is running; call Close when done.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC))
	mockIDs := mocks.NewMockIDGen()
	logger := testutil.NopLogger()

	hubManager := sse.NewHubManager(logger)
	dispatcher := events.NewDispatcher(0, time.Second, nil, logger, sse.NewSink(hubManager))
	go dispatcher.Run()

	app := newWithDependencies(
		store,
		directory.NewStorageSource(store),
		mockClock,
		mockIDs,
		metrics.NewNop(),
		dispatcher,
		hubManager,
		session.DefaultConfig(),
		viewstate.DefaultDelay,
		logger,
	)

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockIDs:   mockIDs,
	}
}

// ImportAttendees replaces the event's attendees with records
func (t *TestApp) ImportAttendees(eventID model.EventID, records ...directory.Record) error {
	_, err := t.DirectoryService.Import(context.Background(), eventID, records)
	return err
}
