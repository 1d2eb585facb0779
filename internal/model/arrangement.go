package model

import "time"

// Dimensions is the size of the seating board in pixels
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ArrangementMeta holds the descriptive fields of an arrangement
type ArrangementMeta struct {
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	GuestCountHint int        `json:"guest_count_hint"`
	Dimensions     Dimensions `json:"dimensions"`
	IsDefault      bool       `json:"is_default"`
}

// Arrangement is the full set of tables for one event, the unit of persistence
type Arrangement struct {
	EventID   EventID         `json:"event_id"`
	Meta      ArrangementMeta `json:"meta"`
	Tables    []Table         `json:"tables"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Clone returns a deep copy of the arrangement
func (a Arrangement) Clone() Arrangement {
	a.Tables = CloneTables(a.Tables)
	return a
}

// ViewState is the per-event canvas viewport, persisted independently of the arrangement
type ViewState struct {
	Zoom float64 `json:"zoom"`
	PanX float64 `json:"pan_x"`
	PanY float64 `json:"pan_y"`
}

// DefaultViewState returns the viewport used when none has been stored
func DefaultViewState() ViewState {
	return ViewState{Zoom: 1}
}

// SaveResult is the store's authoritative answer to a save
type SaveResult struct {
	Tables  []Table `json:"tables"`
	Message string  `json:"message,omitempty"`
}
