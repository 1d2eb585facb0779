package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/api/apierr"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/api/request"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/api/response"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/events/sse"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/autosave"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/layout"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/session"
)

// SeatingHandler handles arrangement endpoints
type SeatingHandler struct {
	manager    *session.Manager
	hubManager *sse.HubManager
	logger     *slog.Logger
}

// NewSeatingHandler creates a new seating handler
func NewSeatingHandler(manager *session.Manager, hubManager *sse.HubManager, logger *slog.Logger) *SeatingHandler {
	return &SeatingHandler{
		manager:    manager,
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "seating_handler")),
	}
}

func (h *SeatingHandler) session(r *http.Request) *session.Session {
	return h.manager.Get(r.Context(), eventID(r))
}

func eventID(r *http.Request) model.EventID {
	return model.EventID(mux.Vars(r)["event"])
}

// Get handles GET /api/v1/events/{event}/seating
func (h *SeatingHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.session(r).Snapshot())
}

// Reload handles POST /api/v1/events/{event}/seating/reload
func (h *SeatingHandler) Reload(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	// Fetch failures are reported in the snapshot
	if err := sess.Load(r.Context()); err != nil {
		h.logger.Warn("reload incomplete",
			slog.String("event_id", string(sess.EventID())),
			slog.String("error", err.Error()),
		)
	}
	response.JSON(w, http.StatusOK, sess.Snapshot())
}

// Assign handles POST /api/v1/events/{event}/seating/assign
func (h *SeatingHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req request.AssignRequest
	if err := request.Decode(w, r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	sess := h.session(r)
	if err := sess.Assign(model.AttendeeID(req.AttendeeID), model.TableID(req.TableID)); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, sess.Snapshot())
}

// Remove handles POST /api/v1/events/{event}/seating/remove
func (h *SeatingHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req request.RemoveRequest
	if err := request.Decode(w, r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	sess := h.session(r)
	if err := sess.Remove(model.AttendeeID(req.AttendeeID)); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, sess.Snapshot())
}

// AutoAssign handles POST /api/v1/events/{event}/seating/auto-assign
func (h *SeatingHandler) AutoAssign(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	report := sess.AutoAssign()
	response.JSON(w, http.StatusOK, response.AutoAssign{Report: report, Seating: sess.Snapshot()})
}

// Clear handles POST /api/v1/events/{event}/seating/clear
func (h *SeatingHandler) Clear(w http.ResponseWriter, r *http.Request) {
	var req request.ClearRequest
	if err := request.Decode(w, r, &req, true); err != nil {
		WriteError(w, err)
		return
	}

	sess := h.session(r)
	if err := sess.ClearAll(req.Confirm); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, sess.Snapshot())
}

// Save handles POST /api/v1/events/{event}/seating/save
func (h *SeatingHandler) Save(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	outcome, err := sess.SaveNow(r.Context())
	if err != nil && outcome == autosave.OutcomeFailed {
		WriteError(w, apierr.NewSaveFailedError(err))
		return
	}
	response.JSON(w, http.StatusOK, response.Save{Outcome: response.OutcomeName(outcome), Seating: sess.Snapshot()})
}

// AddTable handles POST /api/v1/events/{event}/seating/tables
func (h *SeatingHandler) AddTable(w http.ResponseWriter, r *http.Request) {
	var req request.AddTableRequest
	if err := request.Decode(w, r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	table, err := h.session(r).AddTable(session.TableSpec{
		Name:     req.Name,
		Capacity: req.Capacity,
		Shape:    model.Shape(req.Shape),
		Position: req.Position.ToModel(),
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.Table{Table: table})
}

// MoveTable handles PATCH /api/v1/events/{event}/seating/tables/{table}
func (h *SeatingHandler) MoveTable(w http.ResponseWriter, r *http.Request) {
	var req request.MoveTableRequest
	if err := request.Decode(w, r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	sess := h.session(r)
	tableID := model.TableID(mux.Vars(r)["table"])
	if err := sess.MoveTable(tableID, req.Position.ToModel()); err != nil {
		WriteError(w, err)
		return
	}

	view := sess.Snapshot()
	idx := model.FindTable(view.Tables, tableID)
	if idx < 0 {
		WriteError(w, model.ErrTableNotFound)
		return
	}
	response.JSON(w, http.StatusOK, response.Table{Table: view.Tables[idx]})
}

// GenerateLayout handles POST /api/v1/events/{event}/seating/layout
func (h *SeatingHandler) GenerateLayout(w http.ResponseWriter, r *http.Request) {
	var req request.LayoutRequest
	if err := request.Decode(w, r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	sess := h.session(r)
	generated, err := sess.GenerateLayout(req.GuestCount, PolicyFromRequest(req))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.Layout{Layout: generated, Seating: sess.Snapshot()})
}

// PolicyFromRequest builds the layout policy a request describes
func PolicyFromRequest(req request.LayoutRequest) layout.Policy {
	if req.Policy == "mixed" {
		return layout.Mixed{
			LargeCount:       req.LargeCount,
			LargeCapacity:    req.LargeCapacity,
			StandardCapacity: req.StandardCapacity,
		}
	}
	return layout.Fixed{Capacity: req.Capacity, Shape: model.Shape(req.Shape)}
}

// UpdateMetadata handles PATCH /api/v1/events/{event}/seating/metadata
func (h *SeatingHandler) UpdateMetadata(w http.ResponseWriter, r *http.Request) {
	var req request.MetadataRequest
	if err := request.Decode(w, r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	update := session.MetaUpdate{
		Name:           req.Name,
		Description:    req.Description,
		GuestCountHint: req.GuestCountHint,
		IsDefault:      req.IsDefault,
	}
	if req.Dimensions != nil {
		update.Dimensions = &model.Dimensions{Width: req.Dimensions.Width, Height: req.Dimensions.Height}
	}

	meta, err := h.session(r).UpdateMetadata(update)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Metadata{Meta: meta})
}

// Unassigned handles GET /api/v1/events/{event}/seating/unassigned?q=&side=&status=
func (h *SeatingHandler) Unassigned(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters := session.Filters{
		Query:  query.Get("q"),
		Side:   model.Side(strings.ToLower(query.Get("side"))),
		Status: model.Confirmation(strings.ToLower(query.Get("status"))),
	}
	if filters.Side != "" && !filters.Side.Valid() {
		WriteError(w, NewInvalidRequestError("side must be bride, groom or shared"))
		return
	}
	if filters.Status != "" && !filters.Status.Valid() {
		WriteError(w, NewInvalidRequestError("status must be pending, confirmed or declined"))
		return
	}

	sess := h.session(r)
	sess.SetFilters(filters)
	response.JSON(w, http.StatusOK, response.Unassigned{Attendees: sess.FilteredUnassigned(), Filters: filters})
}

// Stream handles GET /api/v1/events/{event}/seating/stream
func (h *SeatingHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if h.hubManager == nil {
		WriteError(w, apierr.NewInternalError())
		return
	}
	hub := h.hubManager.GetOrCreateHub(eventID(r))
	sse.ServeSSE(w, r, hub, uuid.NewString())
}
