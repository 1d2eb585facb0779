package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/api/request"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/api/response"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/directory"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/session"
)

// AttendeeHandler handles attendee directory endpoints
type AttendeeHandler struct {
	directory *directory.Service
	manager   *session.Manager
}

// NewAttendeeHandler creates a new attendee handler
func NewAttendeeHandler(directory *directory.Service, manager *session.Manager) *AttendeeHandler {
	return &AttendeeHandler{directory: directory, manager: manager}
}

// Import handles PUT /api/v1/events/{event}/attendees
func (h *AttendeeHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req request.ImportAttendeesRequest
	if err := request.Decode(w, r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	id := eventID(r)
	report, err := h.directory.Import(r.Context(), id, req.Attendees)
	if err != nil {
		WriteError(w, err)
		return
	}

	// The session rebuilds its unassigned set from the new list
	sess := h.manager.Get(r.Context(), id)
	_ = sess.Load(r.Context())

	response.JSON(w, http.StatusOK, response.Import{Report: report, Seating: sess.Snapshot()})
}

// SetConfirmation handles PATCH /api/v1/events/{event}/attendees/{attendee}/confirmation
func (h *AttendeeHandler) SetConfirmation(w http.ResponseWriter, r *http.Request) {
	var req request.ConfirmationRequest
	if err := request.Decode(w, r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	sess := h.manager.Get(r.Context(), eventID(r))
	attendeeID := model.AttendeeID(mux.Vars(r)["attendee"])
	if err := sess.SetConfirmation(r.Context(), attendeeID, model.ConfirmationFromWire(req.Confirmed)); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, sess.Snapshot())
}
