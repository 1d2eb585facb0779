package autosave

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/dependencies/clock"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/metrics"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/allocation"
)

// ErrSuspended is returned for saves refused while the pipeline is suspended
var ErrSuspended = errors.New("auto-save suspended")

// State is the pipeline's position in the debounce cycle
type State int

const (
	StateIdle State = iota
	StatePending
	StateSaving
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateSaving:
		return "saving"
	}
	return "unknown"
}

// Config holds the debounce settings
type Config struct {
	// QuietPeriod is how long edits must pause before a save starts
	QuietPeriod time.Duration

	// SaveTimeout bounds a single store write
	SaveTimeout time.Duration
}

// DefaultConfig returns the default debounce settings
func DefaultConfig() Config {
	return Config{
		QuietPeriod: time.Second,
		SaveTimeout: 10 * time.Second,
	}
}

// Snapshot is the copy of the arrangement taken when a save cycle starts
type Snapshot struct {
	Revision uint64
	Meta     model.ArrangementMeta
	Tables   []model.Table
}

// Target is the session the pipeline saves on behalf of
type Target interface {
	// SaveSnapshot returns a copy of the current arrangement
	SaveSnapshot() Snapshot

	// ApplySaved hands the store's response back; revision identifies the snapshot it answers
	ApplySaved(revision uint64, result *model.SaveResult)

	// SaveFailed reports a failed write; local state is kept
	SaveFailed(err error)
}

// Store persists an arrangement
type Store interface {
	Save(ctx context.Context, eventID model.EventID, meta model.ArrangementMeta, tables []model.Table) (*model.SaveResult, error)
}

// Outcome is the result of one save cycle
type Outcome int

const (
	OutcomeSaved Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

// Pipeline debounces arrangement edits into whole-arrangement store writes,
// skipping writes whose content matches the last successful save.
type Pipeline struct {
	eventID model.EventID
	target  Target
	store   Store
	clock   clock.Clock
	metrics metrics.Collector
	logger  *slog.Logger
	cfg     Config

	mu              sync.Mutex
	state           State
	timer           clock.Timer
	generation      uint64
	rescheduled     bool
	lastFingerprint uint64
	hasFingerprint  bool
	suspended       error

	// writeMu serializes store writes between timer cycles and Flush
	writeMu sync.Mutex
}

// New creates a Pipeline for one event
func New(
	eventID model.EventID,
	target Target,
	store Store,
	clk clock.Clock,
	collector metrics.Collector,
	logger *slog.Logger,
	cfg Config,
) *Pipeline {
	if collector == nil {
		collector = metrics.NewNop()
	}
	return &Pipeline{
		eventID: eventID,
		target:  target,
		store:   store,
		clock:   clk,
		metrics: collector,
		logger:  logger.With(slog.String("component", "autosave"), slog.String("event_id", string(eventID))),
		cfg:     cfg,
	}
}

// State returns the current debounce state
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Schedule records that the arrangement changed. While idle or pending it
// restarts the quiet period; during a save it re-arms once the write finishes.
func (p *Pipeline) Schedule() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateSaving {
		p.rescheduled = true
		return
	}
	p.armLocked()
}

// MarkSaved seeds the fingerprint with content known to match the store,
// so an unchanged arrangement is not written back after loading
func (p *Pipeline) MarkSaved(meta model.ArrangementMeta, tables []model.Table) {
	fp, err := Fingerprint(meta, allocation.StripCompanions(tables))
	if err != nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastFingerprint = fp
	p.hasFingerprint = true
}

// Suspend refuses store writes until Resume. Refused saves fail with
// ErrSuspended wrapping reason; edits stay local.
func (p *Pipeline) Suspend(reason error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.suspended = reason
}

// Resume lifts a Suspend
func (p *Pipeline) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.suspended = nil
}

// Flush cancels any pending quiet period and saves immediately
func (p *Pipeline) Flush(ctx context.Context) (Outcome, error) {
	p.mu.Lock()
	p.generation++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.state == StatePending {
		p.state = StateIdle
	}
	p.mu.Unlock()

	p.writeMu.Lock()
	p.mu.Lock()
	p.state = StateSaving
	p.mu.Unlock()

	outcome, err := p.cycle(ctx)
	p.writeMu.Unlock()

	p.finish()
	return outcome, err
}

// Stop cancels a pending quiet period without saving
func (p *Pipeline) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.rescheduled = false
	if p.state == StatePending {
		p.state = StateIdle
	}
}

func (p *Pipeline) armLocked() {
	if p.timer != nil {
		p.timer.Stop()
	}
	p.generation++
	gen := p.generation
	p.state = StatePending
	p.timer = p.clock.AfterFunc(p.cfg.QuietPeriod, func() { p.fire(gen) })
}

func (p *Pipeline) fire(gen uint64) {
	p.mu.Lock()
	// A stopped timer may still fire once
	if gen != p.generation || p.state != StatePending {
		p.mu.Unlock()
		return
	}
	p.state = StateSaving
	p.timer = nil
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.SaveTimeout)
	defer cancel()

	p.writeMu.Lock()
	_, _ = p.cycle(ctx)
	p.writeMu.Unlock()

	p.finish()
}

func (p *Pipeline) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = StateIdle
	if p.rescheduled {
		p.rescheduled = false
		p.armLocked()
	}
}

func (p *Pipeline) cycle(ctx context.Context) (Outcome, error) {
	p.mu.Lock()
	reason := p.suspended
	p.mu.Unlock()
	if reason != nil {
		err := fmt.Errorf("%w: %w", ErrSuspended, reason)
		p.logger.Warn("auto-save suspended, arrangement not written", slog.String("error", reason.Error()))
		p.metrics.RecordSave(metrics.SaveFailure, 0)
		p.target.SaveFailed(err)
		return OutcomeFailed, err
	}

	snap := p.target.SaveSnapshot()
	tables := allocation.StripCompanions(snap.Tables)

	fp, err := Fingerprint(snap.Meta, tables)
	if err != nil {
		p.logger.Error("failed to fingerprint arrangement", slog.String("error", err.Error()))
		p.target.SaveFailed(err)
		p.metrics.RecordSave(metrics.SaveFailure, 0)
		return OutcomeFailed, err
	}

	p.mu.Lock()
	unchanged := p.hasFingerprint && fp == p.lastFingerprint
	p.mu.Unlock()
	if unchanged {
		p.logger.Debug("arrangement unchanged, skipping save", slog.Uint64("revision", snap.Revision))
		p.metrics.RecordSave(metrics.SaveSkipped, 0)
		return OutcomeSkipped, nil
	}

	start := p.clock.Now()
	result, err := p.store.Save(ctx, p.eventID, snap.Meta, tables)
	elapsed := p.clock.Now().Sub(start)
	if err != nil {
		p.logger.Warn("auto-save failed",
			slog.Uint64("revision", snap.Revision),
			slog.String("error", err.Error()),
		)
		p.metrics.RecordSave(metrics.SaveFailure, elapsed.Seconds())
		p.target.SaveFailed(err)
		return OutcomeFailed, err
	}

	p.mu.Lock()
	p.lastFingerprint = fp
	p.hasFingerprint = true
	p.mu.Unlock()

	p.logger.Info("arrangement saved",
		slog.Uint64("revision", snap.Revision),
		slog.Int("tables", len(tables)),
		slog.Duration("elapsed", elapsed),
	)
	p.metrics.RecordSave(metrics.SaveSuccess, elapsed.Seconds())
	p.target.ApplySaved(snap.Revision, result)
	return OutcomeSaved, nil
}

// Fingerprint hashes the wire form of an arrangement. Tables must already
// be stripped of companion seats; nil and empty lists hash alike.
func Fingerprint(meta model.ArrangementMeta, tables []model.Table) (uint64, error) {
	canonical := make([]model.Table, len(tables))
	for i, t := range tables {
		if t.Occupants == nil {
			t.Occupants = []model.Occupant{}
		}
		canonical[i] = t
	}
	data, err := json.Marshal(struct {
		Meta   model.ArrangementMeta `json:"meta"`
		Tables []model.Table         `json:"tables"`
	}{meta, canonical})
	if err != nil {
		return 0, fmt.Errorf("encoding arrangement: %w", err)
	}
	return xxh3.Hash(data), nil
}
