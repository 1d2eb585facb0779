package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/api"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/api/apierr"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/api/response"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/factory"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/testutil"
)

const eventPath = "/api/v1/events/wedding-1"

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T, token string) *testServer {
	t.Helper()

	// API tests run the real services over memory storage and a mock clock
	app := factory.NewTestApp()
	t.Cleanup(func() { _ = app.Close(context.Background()) })

	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "test_probe_total", Help: "probe"}))

	router := api.NewRouter(api.RouterConfig{
		Logger:           testutil.NopLogger(),
		SessionManager:   app.SessionManager,
		DirectoryService: app.DirectoryService,
		ViewStateService: app.ViewStateService,
		HubManager:       app.HubManager,
		MetricsHandler:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		APIToken:         token,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func importGuests(t *testing.T, ts *testServer) {
	t.Helper()
	body := map[string]any{
		"attendees": []map[string]any{
			{"id": "dana", "name": "Dana Levi", "party_size": 3, "side": "bride", "confirmed": true},
			{"id": "avi", "name": "Avi Cohen", "party_size": 2, "side": "groom", "confirmed": true},
			{"id": "noa", "name": "Noa Bar", "party_size": 1, "side": "shared", "confirmed": nil, "notes": "vegan"},
			{"id": "omer", "name": "Omer Tal", "party_size": 2, "side": "groom", "confirmed": false},
		},
	}
	rr := ts.request(http.MethodPut, eventPath+"/attendees", body, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func addTable(t *testing.T, ts *testServer, capacity int) model.Table {
	t.Helper()
	body := map[string]any{"name": "Head table", "capacity": capacity, "position": map[string]float64{"x": 100, "y": 100}}
	rr := ts.request(http.MethodPost, eventPath+"/seating/tables", body, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp response.Table
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Table
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apierr.APIError {
	t.Helper()
	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.Health
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, resp.ActiveSessions)
}

func TestImportAndGetSeating(t *testing.T) {
	ts := newTestServer(t, "")
	importGuests(t, ts)

	rr := ts.request(http.MethodGet, eventPath+"/seating", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var view response.Seating
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, model.EventID("wedding-1"), view.EventID)
	assert.Len(t, view.Unassigned, 4)
	assert.Empty(t, view.Tables)
	assert.Equal(t, "idle", view.SaveState)
}

func TestAssignAndRemove(t *testing.T) {
	ts := newTestServer(t, "")
	importGuests(t, ts)
	table := addTable(t, ts, 8)

	rr := ts.request(http.MethodPost, eventPath+"/seating/assign",
		map[string]string{"attendee_id": "dana", "table_id": string(table.ID)}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var view response.Seating
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	require.Len(t, view.Tables, 1)
	assert.Len(t, view.Tables[0].Occupants, 3, "primary plus two companions")
	assert.Equal(t, 3, view.Stats.OccupiedSeats)

	rr = ts.request(http.MethodPost, eventPath+"/seating/remove", map[string]string{"attendee_id": "dana"}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Empty(t, view.Tables[0].Occupants)
}

func TestAssignOverCapacity(t *testing.T) {
	ts := newTestServer(t, "")
	importGuests(t, ts)
	table := addTable(t, ts, 2)

	rr := ts.request(http.MethodPost, eventPath+"/seating/assign",
		map[string]string{"attendee_id": "dana", "table_id": string(table.ID)}, "")
	assert.Equal(t, http.StatusConflict, rr.Code)

	apiErr := decodeError(t, rr)
	assert.Equal(t, apierr.CodeCapacityExceeded, apiErr.Code)
	assert.Equal(t, string(table.ID), apiErr.Details["table_id"])
	assert.EqualValues(t, 2, apiErr.Details["available"])
	assert.EqualValues(t, 3, apiErr.Details["needed"])
}

func TestAssignErrors(t *testing.T) {
	ts := newTestServer(t, "")
	importGuests(t, ts)
	table := addTable(t, ts, 8)

	rr := ts.request(http.MethodPost, eventPath+"/seating/assign",
		map[string]string{"attendee_id": "dana", "table_id": "missing"}, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeTableNotFound, decodeError(t, rr).Code)

	rr = ts.request(http.MethodPost, eventPath+"/seating/assign",
		map[string]string{"attendee_id": "omer", "table_id": string(table.ID)}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = ts.request(http.MethodPost, eventPath+"/seating/assign", map[string]string{"attendee_id": "dana"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodPost, eventPath+"/seating/assign",
		map[string]string{"attendee_id": "dana", "table_id": string(table.ID), "seat": "3"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code, "unknown fields are rejected")
}

func TestLayoutAndAutoAssign(t *testing.T) {
	ts := newTestServer(t, "")
	importGuests(t, ts)

	rr := ts.request(http.MethodPost, eventPath+"/seating/layout",
		map[string]any{"policy": "fixed", "capacity": 4}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var layoutResp response.Layout
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &layoutResp))
	// 3 + 2 + 1 eligible seats
	assert.Len(t, layoutResp.Layout.Tables, 2)

	rr = ts.request(http.MethodPost, eventPath+"/seating/auto-assign", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var autoResp response.AutoAssign
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &autoResp))
	assert.Equal(t, 2, autoResp.Report.PlacedCount)
	assert.Equal(t, 5, autoResp.Seating.Stats.OccupiedSeats)

	// Generating again while people are seated is refused
	rr = ts.request(http.MethodPost, eventPath+"/seating/layout", map[string]any{"capacity": 4}, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeArrangementOccupied, decodeError(t, rr).Code)
}

func TestClearRequiresConfirmation(t *testing.T) {
	ts := newTestServer(t, "")
	importGuests(t, ts)
	table := addTable(t, ts, 8)
	rr := ts.request(http.MethodPost, eventPath+"/seating/assign",
		map[string]string{"attendee_id": "avi", "table_id": string(table.ID)}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, eventPath+"/seating/clear", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeConfirmationRequired, decodeError(t, rr).Code)

	rr = ts.request(http.MethodPost, eventPath+"/seating/clear", map[string]bool{"confirm": true}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var view response.Seating
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, 0, view.Stats.OccupiedSeats)
	assert.Len(t, view.Unassigned, 4)
}

func TestSaveNowAndAutoSave(t *testing.T) {
	ts := newTestServer(t, "")
	importGuests(t, ts)
	addTable(t, ts, 8)

	rr := ts.request(http.MethodPost, eventPath+"/seating/save", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.Save
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "saved", resp.Outcome)
	require.NotNil(t, resp.Seating.SaveNotice)
	assert.True(t, resp.Seating.SaveNotice.OK)

	// Nothing changed since
	rr = ts.request(http.MethodPost, eventPath+"/seating/save", nil, "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "unchanged", resp.Outcome)

	// Edits are written once the quiet period passes
	addTable(t, ts, 10)
	ts.app.MockClock.Advance(time.Second)

	stored, err := ts.app.Storage.GetArrangement(context.Background(), "wedding-1")
	require.NoError(t, err)
	assert.Len(t, stored.Tables, 2)
}

func TestMoveTable(t *testing.T) {
	ts := newTestServer(t, "")
	table := addTable(t, ts, 8)

	rr := ts.request(http.MethodPatch, eventPath+"/seating/tables/"+string(table.ID),
		map[string]any{"position": map[string]float64{"x": 300, "y": 250}}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.Table
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, model.Position{X: 300, Y: 250}, resp.Table.Position)

	rr = ts.request(http.MethodPatch, eventPath+"/seating/tables/nope",
		map[string]any{"position": map[string]float64{"x": 1, "y": 1}}, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpdateMetadata(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.request(http.MethodPatch, eventPath+"/seating/metadata",
		map[string]any{"name": "Garden hall", "dimensions": map[string]float64{"width": 1600, "height": 900}}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp response.Metadata
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Garden hall", resp.Meta.Name)
	assert.Equal(t, 1600.0, resp.Meta.Dimensions.Width)

	rr = ts.request(http.MethodPatch, eventPath+"/seating/metadata",
		map[string]any{"dimensions": map[string]float64{"width": 0, "height": 900}}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUnassignedFilters(t *testing.T) {
	ts := newTestServer(t, "")
	importGuests(t, ts)

	rr := ts.request(http.MethodGet, eventPath+"/seating/unassigned?side=groom", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.Unassigned
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Attendees, 2)

	rr = ts.request(http.MethodGet, eventPath+"/seating/unassigned?q=VEGAN", nil, "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Attendees, 1)
	assert.Equal(t, model.AttendeeID("noa"), resp.Attendees[0].ID)

	rr = ts.request(http.MethodGet, eventPath+"/seating/unassigned?side=aunt", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSetConfirmation(t *testing.T) {
	ts := newTestServer(t, "")
	importGuests(t, ts)

	rr := ts.request(http.MethodPatch, eventPath+"/attendees/noa/confirmation", map[string]any{"confirmed": true}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var view response.Seating
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	for _, a := range view.Unassigned {
		if a.ID == "noa" {
			assert.Equal(t, model.ConfirmationConfirmed, a.Confirmation)
		}
	}

	rr = ts.request(http.MethodPatch, eventPath+"/attendees/ghost/confirmation", map[string]any{"confirmed": true}, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestViewState(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.request(http.MethodGet, eventPath+"/view-state", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.ViewState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1.0, resp.Zoom)

	rr = ts.request(http.MethodPut, eventPath+"/view-state", map[string]float64{"zoom": 1.25, "pan_x": -40, "pan_y": 12}, "")
	assert.Equal(t, http.StatusAccepted, rr.Code)

	rr = ts.request(http.MethodGet, eventPath+"/view-state", nil, "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1.25, resp.Zoom)
	assert.Equal(t, -40.0, resp.PanX)

	rr = ts.request(http.MethodPut, eventPath+"/view-state", map[string]float64{"zoom": 50}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidViewState, decodeError(t, rr).Code)
}

func TestAPIToken(t *testing.T) {
	ts := newTestServer(t, "s3cret")

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code, "health needs no token")

	rr = ts.request(http.MethodGet, eventPath+"/seating", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodGet, eventPath+"/seating", nil, "wrong")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodGet, eventPath+"/seating", nil, "s3cret")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, eventPath+"/view-state?token=s3cret", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.request(http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "test_probe_total")
}

func TestRequestIDHeader(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}
