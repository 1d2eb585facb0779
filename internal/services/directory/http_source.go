package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
)

// HTTPSource reads attendees from an external guest-list service.
//
//	GET   {base}/events/{event}/attendees            -> []Record
//	PATCH {base}/events/{event}/attendees/{attendee} <- {"confirmed": true|false|null}
type HTTPSource struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPSource creates a Source for the guest-list service at baseURL
func NewHTTPSource(baseURL, token string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

var _ Source = (*HTTPSource)(nil)

func (s *HTTPSource) FetchRecords(ctx context.Context, eventID model.EventID) ([]Record, error) {
	var records []Record
	path := fmt.Sprintf("/events/%s/attendees", url.PathEscape(string(eventID)))
	if err := s.do(ctx, http.MethodGet, path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *HTTPSource) UpdateConfirmation(ctx context.Context, eventID model.EventID, attendeeID model.AttendeeID, status model.Confirmation) error {
	path := fmt.Sprintf("/events/%s/attendees/%s",
		url.PathEscape(string(eventID)), url.PathEscape(string(attendeeID)))
	body := map[string]*bool{"confirmed": status.Wire()}
	return s.do(ctx, http.MethodPatch, path, body, nil)
}

func (s *HTTPSource) do(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrDirectoryUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", model.ErrDirectoryUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound && method != http.MethodGet:
		return model.ErrAttendeeNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: HTTP %d: %s", model.ErrDirectoryUnavailable, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("%w: failed to parse response: %v", model.ErrDirectoryUnavailable, err)
		}
	}
	return nil
}
