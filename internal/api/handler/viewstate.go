package handler

import (
	"net/http"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/api/request"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/api/response"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/viewstate"
)

// ViewStateHandler handles canvas viewport endpoints
type ViewStateHandler struct {
	service *viewstate.Service
}

// NewViewStateHandler creates a new view state handler
func NewViewStateHandler(service *viewstate.Service) *ViewStateHandler {
	return &ViewStateHandler{service: service}
}

// Get handles GET /api/v1/events/{event}/view-state
func (h *ViewStateHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := eventID(r)
	response.JSON(w, http.StatusOK, response.ViewStateFromModel(id, h.service.Get(r.Context(), id)))
}

// Put handles PUT /api/v1/events/{event}/view-state
func (h *ViewStateHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req request.ViewStateRequest
	if err := request.Decode(w, r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	id := eventID(r)
	state := model.ViewState{Zoom: req.Zoom, PanX: req.PanX, PanY: req.PanY}
	if err := h.service.Update(id, state); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusAccepted, response.ViewStateFromModel(id, state))
}
