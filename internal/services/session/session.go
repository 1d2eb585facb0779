package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/dependencies/clock"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/dependencies/idgen"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/metrics"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/allocation"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/autosave"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/layout"
)

// DefaultPlanName names an arrangement that has never been stored
const DefaultPlanName = "Seating plan"

// maxLoadAttempts bounds how often Load refetches when edits land mid-fetch
const maxLoadAttempts = 3

// ErrReloadInterrupted is returned when edits kept arriving while Load fetched.
// The edited local state is kept.
var ErrReloadInterrupted = errors.New("arrangement edited during reload")

// Directory is the attendee source a session loads from
type Directory interface {
	FetchAttendees(ctx context.Context, eventID model.EventID) ([]model.Attendee, error)
	SetConfirmation(ctx context.Context, eventID model.EventID, attendeeID model.AttendeeID, status model.Confirmation) error
}

// Store reads and writes whole arrangements
type Store interface {
	Fetch(ctx context.Context, eventID model.EventID) (*model.Arrangement, error)
	autosave.Store
}

// Emitter receives domain events; Emit must not block
type Emitter interface {
	Emit(event model.Event)
}

type nopEmitter struct{}

func (nopEmitter) Emit(model.Event) {}

// Config holds per-session settings
type Config struct {
	Eligibility allocation.Eligibility
	AutoSave    autosave.Config

	// IdleTimeout is how long the Manager keeps an unused session; zero keeps sessions until Close
	IdleTimeout time.Duration
}

// DefaultConfig returns the default session settings
func DefaultConfig() Config {
	return Config{
		Eligibility: allocation.ConfirmedOrPending,
		AutoSave:    autosave.DefaultConfig(),
	}
}

// Filters narrow the unassigned list. Empty fields match everything.
type Filters struct {
	Query  string             `json:"query"`
	Side   model.Side         `json:"side,omitempty"`
	Status model.Confirmation `json:"status,omitempty"`
}

// SaveNotice is the transient outcome of the most recent save
type SaveNotice struct {
	OK      bool      `json:"ok"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Stats summarizes seat usage
type Stats struct {
	TotalSeats          int `json:"total_seats"`
	OccupiedSeats       int `json:"occupied_seats"`
	SeatedAttendees     int `json:"seated_attendees"`
	UnassignedAttendees int `json:"unassigned_attendees"`
}

// View is a point-in-time copy of a session
type View struct {
	EventID    model.EventID         `json:"event_id"`
	Revision   uint64                `json:"revision"`
	Meta       model.ArrangementMeta `json:"meta"`
	Tables     []model.Table         `json:"tables"`
	Unassigned []model.Attendee      `json:"unassigned"`
	Filters    Filters               `json:"filters"`
	Stats      Stats                 `json:"stats"`
	SaveState  string                `json:"save_state"`
	SaveNotice *SaveNotice           `json:"save_notice,omitempty"`
	FetchError string                `json:"fetch_error,omitempty"`
}

// TableSpec describes a table added by hand
type TableSpec struct {
	Name     string
	Capacity int
	Shape    model.Shape
	Position model.Position
}

// MetaUpdate changes the non-nil metadata fields
type MetaUpdate struct {
	Name           *string
	Description    *string
	GuestCountHint *int
	Dimensions     *model.Dimensions
	IsDefault      *bool
}

// Session is the live seating arrangement of one event. All engine calls run
// under its mutex; store writes happen on the auto-save pipeline's timer.
type Session struct {
	eventID     model.EventID
	directory   Directory
	store       Store
	emitter     Emitter
	clock       clock.Clock
	ids         idgen.Generator
	metrics     metrics.Collector
	logger      *slog.Logger
	eligibility allocation.Eligibility
	pipeline    *autosave.Pipeline

	// loadMu serializes Load; taken before mu
	loadMu sync.Mutex

	mu             sync.Mutex
	loaded         bool
	meta           model.ArrangementMeta
	state          allocation.State
	attendees      []model.Attendee
	revision       uint64
	loadedRevision uint64
	storeDown      bool
	filters        Filters
	fetchErr       error
	notice         *SaveNotice
}

type fetched struct {
	attendees []model.Attendee
	stored    *model.Arrangement
	dirErr    error
	storeErr  error
}

// New creates an unloaded Session
func New(
	eventID model.EventID,
	directory Directory,
	store Store,
	emitter Emitter,
	clk clock.Clock,
	ids idgen.Generator,
	collector metrics.Collector,
	logger *slog.Logger,
	cfg Config,
) *Session {
	if emitter == nil {
		emitter = nopEmitter{}
	}
	if collector == nil {
		collector = metrics.NewNop()
	}
	s := &Session{
		eventID:     eventID,
		directory:   directory,
		store:       store,
		emitter:     emitter,
		clock:       clk,
		ids:         ids,
		metrics:     collector,
		logger:      logger.With(slog.String("component", "session"), slog.String("event_id", string(eventID))),
		eligibility: cfg.Eligibility,
		meta:        defaultMeta(),
		state:       allocation.State{Tables: []model.Table{}, Unassigned: []model.Attendee{}},
	}
	s.pipeline = autosave.New(eventID, s, store, clk, collector, logger, cfg.AutoSave)
	return s
}

// EventID returns the event this session belongs to
func (s *Session) EventID() model.EventID {
	return s.eventID
}

// Load fetches the attendee directory and the stored arrangement and rebuilds
// the session from them. A directory failure keeps the stored seating but
// leaves the unassigned set empty; either failure sets the session's fetch error.
// After a store failure nothing is written until a later Load succeeds.
// Reloading a loaded session first saves any unsaved edits.
func (s *Session) Load(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Session) ensureLoaded(ctx context.Context) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	s.mu.Lock()
	loaded := s.loaded
	s.mu.Unlock()
	if !loaded {
		_ = s.loadLocked(ctx)
	}
}

func (s *Session) loadLocked(ctx context.Context) error {
	for attempt := 1; ; attempt++ {
		revision, err := s.saveBeforeLoad(ctx)
		if err != nil {
			return err
		}

		result := s.fetch(ctx)

		s.mu.Lock()
		if s.revision != revision {
			s.mu.Unlock()
			if attempt == maxLoadAttempts {
				s.logger.Warn("reload abandoned, arrangement kept changing", slog.Int("attempts", attempt))
				return ErrReloadInterrupted
			}
			s.logger.Info("arrangement edited during reload, fetching again", slog.Int("attempt", attempt))
			continue
		}
		err = s.installLocked(result)
		s.mu.Unlock()
		return err
	}
}

// saveBeforeLoad writes unsaved edits and returns the revision the fetched
// state may replace. Edits made while the store was unreachable are dropped.
func (s *Session) saveBeforeLoad(ctx context.Context) (uint64, error) {
	s.mu.Lock()
	revision := s.revision
	dirty := s.dirtyLocked()
	storeDown := s.storeDown
	s.mu.Unlock()

	switch {
	case dirty && storeDown:
		s.pipeline.Stop()
		s.logger.Warn("discarding edits made while the arrangement was unavailable")
	case dirty:
		if _, err := s.pipeline.Flush(ctx); err != nil {
			return 0, fmt.Errorf("saving before reload: %w", err)
		}
	}
	return revision, nil
}

func (s *Session) fetch(ctx context.Context) fetched {
	var result fetched
	result.attendees, result.dirErr = s.directory.FetchAttendees(ctx, s.eventID)
	if result.dirErr != nil {
		s.logger.Warn("failed to fetch attendees", slog.String("error", result.dirErr.Error()))
	}

	result.stored, result.storeErr = s.store.Fetch(ctx, s.eventID)
	if result.storeErr != nil {
		s.logger.Warn("failed to fetch arrangement", slog.String("error", result.storeErr.Error()))
	}
	return result
}

func (s *Session) installLocked(result fetched) error {
	fetchErr := errors.Join(result.dirErr, result.storeErr)

	meta := defaultMeta()
	var tables []model.Table
	if result.stored != nil {
		meta = result.stored.Meta
		tables = result.stored.Tables
	}

	attendees := result.attendees
	if result.dirErr != nil {
		// Keep the stored seating by expanding occupants from their own snapshots
		attendees = seatedSnapshots(tables)
	}
	if attendees == nil {
		attendees = []model.Attendee{}
	}

	s.state = allocation.Expand(tables, attendees, s.eligibility)
	if s.state.Tables == nil {
		s.state.Tables = []model.Table{}
	}
	s.attendees = attendees
	s.meta = meta
	s.fetchErr = fetchErr
	s.loaded = true
	s.revision++
	s.loadedRevision = s.revision
	s.storeDown = result.storeErr != nil

	if s.storeDown {
		s.pipeline.Suspend(result.storeErr)
	} else {
		// An absent arrangement matches the default, so it is not written back either
		s.pipeline.MarkSaved(meta, tables)
		s.pipeline.Resume()
	}

	s.logger.Info("session loaded",
		slog.Int("tables", len(s.state.Tables)),
		slog.Int("attendees", len(attendees)),
		slog.Int("unassigned", len(s.state.Unassigned)),
		slog.Bool("fetch_error", fetchErr != nil),
	)
	return fetchErr
}

// Assign seats an attendee and its companions at a table
func (s *Session) Assign(attendeeID model.AttendeeID, tableID model.TableID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	attendee, ok := allocation.Find(s.state, attendeeID)
	if !ok {
		s.metrics.RecordOperation("assign", metrics.ResultRejected)
		return model.ErrAttendeeNotFound
	}

	next, err := allocation.Assign(s.state, attendee, tableID, s.eligibility)
	if err != nil {
		s.metrics.RecordOperation("assign", metrics.ResultRejected)
		s.logger.Debug("assignment rejected",
			slog.String("attendee_id", string(attendeeID)),
			slog.String("table_id", string(tableID)),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.commitLocked("assign", next, model.ActionUpdate, model.EventAssigned, model.AssignedPayload{
		AttendeeID: attendeeID,
		TableID:    tableID,
		Seats:      attendee.Seats(),
	})
	return nil
}

// Remove unseats an attendee. Removing an unseated attendee does nothing.
func (s *Session) Remove(attendeeID model.AttendeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := allocation.Find(s.state, attendeeID); !ok {
		s.metrics.RecordOperation("remove", metrics.ResultRejected)
		return model.ErrAttendeeNotFound
	}
	if !isSeated(s.state.Tables, attendeeID) {
		return nil
	}

	next := allocation.Remove(s.state, attendeeID)
	s.commitLocked("remove", next, model.ActionUpdate, model.EventRemoved, model.RemovedPayload{AttendeeID: attendeeID})
	return nil
}

// AutoAssign places confirmed unassigned attendees on the existing tables
func (s *Session) AutoAssign() allocation.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, report := allocation.AutoAssign(s.state)
	s.metrics.RecordAutoAssign(report.PlacedCount, len(report.Failed))
	if report.PlacedCount == 0 {
		s.metrics.RecordOperation("auto_assign", metrics.ResultOK)
		return report
	}

	s.commitLocked("auto_assign", next, model.ActionUpdate, model.EventAutoAssigned, model.AutoAssignedPayload{
		PlacedCount: report.PlacedCount,
		PlacedSeats: report.PlacedSeats,
		Failed:      report.Failed,
	})
	s.logger.Info("auto-assign completed",
		slog.Int("placed", report.PlacedCount),
		slog.Int("seats", report.PlacedSeats),
		slog.Int("failed", len(report.Failed)),
	)
	return report
}

// ClearAll returns every seated attendee to the unassigned set
func (s *Session) ClearAll(confirm bool) error {
	if !confirm {
		s.metrics.RecordOperation("clear", metrics.ResultRejected)
		return model.ErrClearNotConfirmed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.commitLocked("clear", allocation.Clear(s.state), model.ActionUpdate, model.EventCleared, nil)
	return nil
}

// AddTable appends an empty table
func (s *Session) AddTable(ts TableSpec) (model.Table, error) {
	if ts.Capacity <= 0 {
		s.metrics.RecordOperation("add_table", metrics.ResultRejected)
		return model.Table{}, fmt.Errorf("%w: capacity must be positive", model.ErrInvalidTable)
	}
	if ts.Shape == "" {
		ts.Shape = model.ShapeRound
	}
	if !ts.Shape.Valid() {
		s.metrics.RecordOperation("add_table", metrics.ResultRejected)
		return model.Table{}, fmt.Errorf("%w: unknown shape %q", model.ErrInvalidTable, ts.Shape)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := strings.TrimSpace(ts.Name)
	if name == "" {
		name = fmt.Sprintf("Table %d", len(s.state.Tables)+1)
	}
	table := model.Table{
		ID:        model.TableID(s.ids.NewID()),
		Name:      name,
		Capacity:  ts.Capacity,
		Shape:     ts.Shape,
		Position:  ts.Position,
		Occupants: []model.Occupant{},
	}

	next := s.state.Clone()
	next.Tables = append(next.Tables, table)
	s.commitLocked("add_table", next, model.ActionAdd, model.EventTableAdded, model.TablePayload{
		TableID:  table.ID,
		Name:     table.Name,
		Capacity: table.Capacity,
		Position: table.Position,
	})
	return table.Clone(), nil
}

// MoveTable changes a table's position on the board
func (s *Session) MoveTable(tableID model.TableID, pos model.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := model.FindTable(s.state.Tables, tableID)
	if idx < 0 {
		s.metrics.RecordOperation("move_table", metrics.ResultRejected)
		return model.ErrTableNotFound
	}
	if s.state.Tables[idx].Position == pos {
		return nil
	}

	next := s.state.Clone()
	next.Tables[idx].Position = pos
	t := next.Tables[idx]
	s.commitLocked("move_table", next, model.ActionUpdate, model.EventTableMoved, model.TablePayload{
		TableID:  t.ID,
		Name:     t.Name,
		Capacity: t.Capacity,
		Position: t.Position,
	})
	return nil
}

// GenerateLayout replaces the tables with a generated layout. It is refused
// while anyone is seated. A non-positive guest count uses the seats of every
// attendee that may be seated.
func (s *Session) GenerateLayout(guestCount int, policy layout.Policy) (*layout.Layout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if allocation.HasOccupants(s.state.Tables) {
		s.metrics.RecordOperation("generate_layout", metrics.ResultRejected)
		return nil, model.ErrArrangementOccupied
	}

	if guestCount <= 0 {
		guestCount = s.eligibleSeatsLocked()
	}
	generated, err := layout.Generate(guestCount, policy)
	if err != nil {
		s.metrics.RecordOperation("generate_layout", metrics.ResultRejected)
		return nil, err
	}

	s.meta.Dimensions = generated.Dimensions
	s.meta.GuestCountHint = guestCount
	next := allocation.State{
		Tables:     model.CloneTables(generated.Tables),
		Unassigned: allocation.Unassigned(s.attendees, generated.Tables),
	}
	s.commitLocked("generate_layout", next, model.ActionAdd, model.EventLayoutGenerated, model.LayoutPayload{
		TableCount: len(generated.Tables),
		Dimensions: generated.Dimensions,
	})
	return generated, nil
}

// UpdateMetadata changes the arrangement's descriptive fields
func (s *Session) UpdateMetadata(update MetaUpdate) (model.ArrangementMeta, error) {
	if update.GuestCountHint != nil && *update.GuestCountHint < 0 {
		return model.ArrangementMeta{}, fmt.Errorf("%w: guest count must not be negative", model.ErrInvalidMetadata)
	}
	if update.Dimensions != nil && (update.Dimensions.Width <= 0 || update.Dimensions.Height <= 0) {
		return model.ArrangementMeta{}, fmt.Errorf("%w: board dimensions must be positive", model.ErrInvalidMetadata)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	meta := s.meta
	if update.Name != nil {
		meta.Name = *update.Name
	}
	if update.Description != nil {
		meta.Description = *update.Description
	}
	if update.GuestCountHint != nil {
		meta.GuestCountHint = *update.GuestCountHint
	}
	if update.Dimensions != nil {
		meta.Dimensions = *update.Dimensions
	}
	if update.IsDefault != nil {
		meta.IsDefault = *update.IsDefault
	}

	s.meta = meta
	s.commitLocked("update_metadata", s.state, model.ActionUpdate, model.EventMetadataUpdated, meta)
	return meta, nil
}

// SetConfirmation records an RSVP change at the directory and locally.
// A declined attendee loses its seats.
func (s *Session) SetConfirmation(ctx context.Context, attendeeID model.AttendeeID, status model.Confirmation) error {
	if !status.Valid() {
		return fmt.Errorf("invalid confirmation %q", status)
	}

	s.mu.Lock()
	_, ok := allocation.Find(s.state, attendeeID)
	s.mu.Unlock()
	if !ok {
		return model.ErrAttendeeNotFound
	}

	if err := s.directory.SetConfirmation(ctx, s.eventID, attendeeID, status); err != nil {
		s.metrics.RecordOperation("set_confirmation", metrics.ResultRejected)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.attendees {
		if s.attendees[i].ID == attendeeID {
			s.attendees[i].Confirmation = status
		}
	}

	next := s.state.Clone()
	unseated := false
	if isSeated(next.Tables, attendeeID) && !s.eligibility.Allows(status) {
		next = allocation.Remove(next, attendeeID)
		unseated = true
	}
	for i := range next.Unassigned {
		if next.Unassigned[i].ID == attendeeID {
			next.Unassigned[i].Confirmation = status
		}
	}
	for i := range next.Tables {
		for j := range next.Tables[i].Occupants {
			if next.Tables[i].Occupants[j].OwnerID() == attendeeID {
				next.Tables[i].Occupants[j].Attendee.Confirmation = status
			}
		}
	}

	s.commitLocked("set_confirmation", next, model.ActionUpdate, model.EventConfirmationChange, model.ConfirmationPayload{
		AttendeeID:   attendeeID,
		Confirmation: status,
		Unseated:     unseated,
	})
	return nil
}

// SetFilters replaces the unassigned list filters
func (s *Session) SetFilters(filters Filters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = filters
}

// FilteredUnassigned returns the unassigned attendees matching the session's filters
func (s *Session) FilteredUnassigned() []model.Attendee {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filterAttendees(s.state.Unassigned, s.filters)
}

// Snapshot returns a copy of the session for display
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.state.Clone()
	view := View{
		EventID:    s.eventID,
		Revision:   s.revision,
		Meta:       s.meta,
		Tables:     state.Tables,
		Unassigned: filterAttendees(state.Unassigned, s.filters),
		Filters:    s.filters,
		SaveState:  s.pipeline.State().String(),
		Stats:      statsFor(state),
	}
	if s.notice != nil {
		notice := *s.notice
		view.SaveNotice = &notice
	}
	if s.fetchErr != nil {
		view.FetchError = s.fetchErr.Error()
	}
	return view
}

// SaveNow skips the quiet period and saves immediately
func (s *Session) SaveNow(ctx context.Context) (autosave.Outcome, error) {
	return s.pipeline.Flush(ctx)
}

// Close saves edits made since the last load and stops the auto-save timer
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	dirty := s.dirtyLocked()
	s.mu.Unlock()

	var err error
	if dirty {
		_, err = s.pipeline.Flush(ctx)
	}
	s.pipeline.Stop()
	return err
}

func (s *Session) idle() bool {
	return s.pipeline.State() == autosave.StateIdle
}

// SaveSnapshot implements autosave.Target
func (s *Session) SaveSnapshot() autosave.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return autosave.Snapshot{
		Revision: s.revision,
		Meta:     s.meta,
		Tables:   model.CloneTables(s.state.Tables),
	}
}

// ApplySaved implements autosave.Target. The store's tables replace local
// state only when nothing changed since the snapshot was taken.
func (s *Session) ApplySaved(revision uint64, result *model.SaveResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	message := ""
	if result != nil {
		message = result.Message
	}
	s.notice = &SaveNotice{OK: true, Message: message, At: s.clock.Now()}

	if result != nil && revision == s.revision {
		s.state = allocation.Expand(result.Tables, s.attendees, s.eligibility)
	} else if revision != s.revision {
		s.logger.Debug("discarding stale save response",
			slog.Uint64("saved_revision", revision),
			slog.Uint64("revision", s.revision),
		)
	}
	s.emitLocked(model.ActionUpdate, model.EventSaved, model.SavePayload{Message: message})
}

// SaveFailed implements autosave.Target
func (s *Session) SaveFailed(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notice = &SaveNotice{OK: false, Message: err.Error(), At: s.clock.Now()}
	s.emitLocked(model.ActionUpdate, model.EventSaveFailed, model.SavePayload{Error: err.Error()})
}

// commitLocked installs a new state and runs the post-mutation steps:
// bump the revision, emit the event and schedule a save
func (s *Session) commitLocked(op string, next allocation.State, action model.EventAction, kind model.EventKind, payload any) {
	s.state = next
	s.revision++
	s.metrics.RecordOperation(op, metrics.ResultOK)
	s.emitLocked(action, kind, payload)
	s.pipeline.Schedule()
}

func (s *Session) emitLocked(action model.EventAction, kind model.EventKind, payload any) {
	s.emitter.Emit(model.Event{
		Domain:    model.EventDomain,
		Action:    action,
		Kind:      kind,
		EventID:   s.eventID,
		Revision:  s.revision,
		Payload:   payload,
		Timestamp: s.clock.Now(),
	})
}

// dirtyLocked reports whether the arrangement was edited since it was loaded
func (s *Session) dirtyLocked() bool {
	return s.loaded && s.revision != s.loadedRevision
}

func (s *Session) eligibleSeatsLocked() int {
	total := 0
	for _, a := range s.attendees {
		if s.eligibility.Allows(a.Confirmation) {
			total += a.Seats()
		}
	}
	return total
}

func defaultMeta() model.ArrangementMeta {
	return model.ArrangementMeta{
		Name:       DefaultPlanName,
		Dimensions: model.Dimensions{Width: layout.MinBoardWidth, Height: layout.MinBoardHeight},
	}
}

func isSeated(tables []model.Table, id model.AttendeeID) bool {
	for i := range tables {
		if tables[i].HasAttendee(id) {
			return true
		}
	}
	return false
}

func seatedSnapshots(tables []model.Table) []model.Attendee {
	var result []model.Attendee
	for _, t := range tables {
		for _, o := range t.Occupants {
			if !o.IsCompanion() {
				result = append(result, o.Attendee.Bare())
			}
		}
	}
	if result == nil {
		result = []model.Attendee{}
	}
	return result
}

func filterAttendees(attendees []model.Attendee, f Filters) []model.Attendee {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	result := make([]model.Attendee, 0, len(attendees))
	for _, a := range attendees {
		if f.Side != "" && a.Side != f.Side {
			continue
		}
		if f.Status != "" && a.Confirmation != f.Status {
			continue
		}
		if query != "" && !matches(a, query) {
			continue
		}
		result = append(result, a)
	}
	return result
}

func matches(a model.Attendee, query string) bool {
	for _, field := range []string{a.Name, a.Phone, a.Notes, a.Group} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func statsFor(state allocation.State) Stats {
	var stats Stats
	for i := range state.Tables {
		stats.TotalSeats += state.Tables[i].Capacity
		stats.OccupiedSeats += state.Tables[i].OccupiedSeats()
		stats.SeatedAttendees += len(state.Tables[i].Primaries())
	}
	stats.UnassignedAttendees = len(state.Unassigned)
	return stats
}
