package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/directory"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/viewstate"
)

// APIError represents an API error response
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeCapacityExceeded     = "CAPACITY_EXCEEDED"
	CodeNotEligible          = "ATTENDEE_NOT_ELIGIBLE"
	CodeTableNotFound        = "TABLE_NOT_FOUND"
	CodeAttendeeNotFound     = "ATTENDEE_NOT_FOUND"
	CodeArrangementNotFound  = "ARRANGEMENT_NOT_FOUND"
	CodeArrangementOccupied  = "ARRANGEMENT_OCCUPIED"
	CodeConfirmationRequired = "CONFIRMATION_REQUIRED"
	CodeInvalidTable         = "INVALID_TABLE"
	CodeInvalidMetadata      = "INVALID_METADATA"
	CodeInvalidLayout        = "INVALID_LAYOUT_POLICY"
	CodeInvalidViewState     = "INVALID_VIEW_STATE"
	CodeCompanionOnWire      = "COMPANION_ON_WIRE"
	CodeDirectoryUnavailable = "DIRECTORY_UNAVAILABLE"
	CodeDirectoryReadOnly    = "DIRECTORY_READ_ONLY"
	CodeSaveFailed           = "SAVE_FAILED"
	CodeInternalError        = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var capErr *model.CapacityExceededError
	if errors.As(err, &capErr) {
		return &httpError{http.StatusConflict, APIError{
			Code:    CodeCapacityExceeded,
			Message: capErr.Error(),
			Details: map[string]any{
				"table_id":  string(capErr.TableID),
				"available": capErr.Available,
				"needed":    capErr.Needed,
			},
		}}
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrAttendeeNotEligible):
		return &httpError{http.StatusUnprocessableEntity, APIError{Code: CodeNotEligible, Message: "Attendee is not eligible for seating"}}
	case errors.Is(err, model.ErrTableNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeTableNotFound, Message: "Table not found"}}
	case errors.Is(err, model.ErrAttendeeNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeAttendeeNotFound, Message: "Attendee not found"}}
	case errors.Is(err, model.ErrArrangementNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeArrangementNotFound, Message: "Arrangement not found"}}
	case errors.Is(err, model.ErrArrangementOccupied):
		return &httpError{http.StatusConflict, APIError{Code: CodeArrangementOccupied, Message: "Clear the seated attendees before generating a layout"}}
	case errors.Is(err, model.ErrClearNotConfirmed):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeConfirmationRequired, Message: "Clearing all tables requires confirm=true"}}
	case errors.Is(err, model.ErrInvalidTable):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidTable, Message: err.Error()}}
	case errors.Is(err, model.ErrInvalidMetadata):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidMetadata, Message: err.Error()}}
	case errors.Is(err, model.ErrInvalidLayoutPolicy):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidLayout, Message: err.Error()}}
	case errors.Is(err, model.ErrCompanionOnWire):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeCompanionOnWire, Message: "Companion seats cannot be stored"}}
	case errors.Is(err, model.ErrDirectoryUnavailable):
		return &httpError{http.StatusBadGateway, APIError{Code: CodeDirectoryUnavailable, Message: "Attendee directory is unavailable"}}

	// Map service errors
	case errors.Is(err, directory.ErrReadOnly):
		return &httpError{http.StatusConflict, APIError{Code: CodeDirectoryReadOnly, Message: "Attendee directory does not accept imports"}}
	case errors.Is(err, viewstate.ErrInvalidZoom):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidViewState, Message: err.Error()}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Authentication required"}}
}

// NewSaveFailedError reports a save that the store rejected
func NewSaveFailedError(err error) error {
	return &httpError{http.StatusBadGateway, APIError{Code: CodeSaveFailed, Message: err.Error()}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
}
