package e2e_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/api"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/config"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/factory"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/testutil"
)

const apiToken = "e2e-token"

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
	eventID    string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "seatctl-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/seatctl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(tokenFile, []byte(apiToken), 0600))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
		eventID:    "wedding-e2e",
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--event", r.eventID,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Env = append(os.Environ(), "SEATCTL_TOKEN=")
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Metrics.Enabled = false
	cfg.Server.APIToken = apiToken
	cfg.AutoSave.QuietPeriod = 50 * time.Millisecond

	logger := testutil.NopLogger()
	app, err := factory.New(cfg, factory.Options{Logger: logger})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:           logger,
		SessionManager:   app.SessionManager,
		DirectoryService: app.DirectoryService,
		ViewStateService: app.ViewStateService,
		HubManager:       app.HubManager,
		APIToken:         cfg.Server.APIToken,
	})
	server := api.NewServer(router, cfg.Server, logger)

	go func() {
		if err := server.Serve(listener); err != nil {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + listener.Addr().String()
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		addr: serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
			_ = app.Close(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type healthResponse struct {
	Status string `json:"status"`
}

type tableResponse struct {
	Table struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Capacity int    `json:"capacity"`
	} `json:"table"`
}

type seatingResponse struct {
	Revision uint64 `json:"revision"`
	Tables   []struct {
		ID        string            `json:"id"`
		Occupants []json.RawMessage `json:"occupants"`
	} `json:"tables"`
	Unassigned []struct {
		ID string `json:"id"`
	} `json:"unassigned"`
	Stats struct {
		OccupiedSeats int `json:"occupied_seats"`
	} `json:"stats"`
}

type importResponse struct {
	Report struct {
		Imported int `json:"imported"`
	} `json:"report"`
}

type saveResponse struct {
	Outcome string `json:"outcome"`
}

type viewStateResponse struct {
	Zoom float64 `json:"zoom"`
	PanX float64 `json:"pan_x"`
}

const guestList = `attendees:
  - id: dana
    name: Dana Levi
    party_size: 3
    side: bride
    confirmed: true
  - id: avi
    name: Avi Cohen
    party_size: 2
    side: groom
    confirmed: true
  - id: noa
    name: Noa Bar
    side: shared
    confirmed: null
`

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_RequiresToken(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)
	cli.tokenFile = filepath.Join(t.TempDir(), "missing")

	output, err := cli.run("seating", "get")
	assert.Error(t, err)
	assert.Contains(t, output, "UNAUTHORIZED")
}

func TestCLI_SeatingFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Import the guest list
	guestFile := filepath.Join(t.TempDir(), "guests.yaml")
	require.NoError(t, os.WriteFile(guestFile, []byte(guestList), 0600))

	output, err := cli.run("attendees", "import", guestFile)
	require.NoError(t, err, "output: %s", output)
	var imported importResponse
	require.NoError(t, json.Unmarshal([]byte(output), &imported))
	assert.Equal(t, 3, imported.Report.Imported)

	// Add a small table and a large one
	output, err = cli.run("tables", "add", "--name", "Small", "--capacity", "2")
	require.NoError(t, err, "output: %s", output)
	var small tableResponse
	require.NoError(t, json.Unmarshal([]byte(output), &small))

	output, err = cli.run("tables", "add", "--name", "Family", "--capacity", "8", "--x", "300")
	require.NoError(t, err, "output: %s", output)
	var family tableResponse
	require.NoError(t, json.Unmarshal([]byte(output), &family))

	// A party of three does not fit two seats
	output, err = cli.run("seating", "assign", "dana", small.Table.ID)
	assert.Error(t, err)
	assert.Contains(t, output, "CAPACITY_EXCEEDED")

	output, err = cli.run("seating", "assign", "dana", family.Table.ID)
	require.NoError(t, err, "output: %s", output)
	var seating seatingResponse
	require.NoError(t, json.Unmarshal([]byte(output), &seating))
	assert.Equal(t, 3, seating.Stats.OccupiedSeats)

	// Auto-assign seats the remaining confirmed party
	output, err = cli.run("seating", "auto-assign")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("seating", "get")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &seating))
	assert.Equal(t, 5, seating.Stats.OccupiedSeats)
	require.Len(t, seating.Unassigned, 1)
	assert.Equal(t, "noa", seating.Unassigned[0].ID)

	// Save now
	output, err = cli.run("seating", "save")
	require.NoError(t, err, "output: %s", output)
	var saved saveResponse
	require.NoError(t, json.Unmarshal([]byte(output), &saved))
	assert.Contains(t, []string{"saved", "unchanged"}, saved.Outcome)

	// Clearing needs confirmation
	output, err = cli.run("seating", "clear")
	assert.Error(t, err)
	assert.Contains(t, output, "CONFIRMATION_REQUIRED")

	output, err = cli.run("seating", "clear", "--yes")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &seating))
	assert.Equal(t, 0, seating.Stats.OccupiedSeats)
}

func TestCLI_ConfirmAttendee(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	guestFile := filepath.Join(t.TempDir(), "guests.yaml")
	require.NoError(t, os.WriteFile(guestFile, []byte(guestList), 0600))
	output, err := cli.run("attendees", "import", guestFile)
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("attendees", "confirm", "noa", "--status", "declined")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("unassigned", "--status", "declined")
	require.NoError(t, err, "output: %s", output)

	var resp struct {
		Attendees []struct {
			ID string `json:"id"`
		} `json:"attendees"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	require.Len(t, resp.Attendees, 1)
	assert.Equal(t, "noa", resp.Attendees[0].ID)
}

func TestCLI_ViewState(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("view-state", "set", "--zoom", "1.5", "--pan-x", "40")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("view-state", "get")
	require.NoError(t, err, "output: %s", output)

	var resp viewStateResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, 1.5, resp.Zoom)
	assert.Equal(t, 40.0, resp.PanX)
}

func TestCLI_LayoutGenerate(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("layout", "generate", "--guests", "30", "--capacity", "10")
	require.NoError(t, err, "output: %s", output)

	var resp struct {
		Layout struct {
			Tables []json.RawMessage `json:"tables"`
		} `json:"layout"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Len(t, resp.Layout.Tables, 3)

	output, err = cli.run("layout", "generate", "--policy", "spiral")
	assert.Error(t, err)
	assert.Contains(t, output, "policy must be fixed or mixed")
}
