package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duelware/rps-arena/internal/api"
	"github.com/duelware/rps-arena/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "rps-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/rps")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
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

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		RoomController: app.RoomController,
		Gateway:        app.Gateway,
		Storage:        app.Storage,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		addr: serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
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

// playRound drives one round over the websocket so the CLI has something
// to inspect; returns the room code
func playRound(t *testing.T, serverURL string) string {
	t.Helper()

	wsURL := "ws" + serverURL[len("http"):] + "/ws"

	host, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = host.Close() })

	guest, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = guest.Close() })

	read := func(ws *websocket.Conn) map[string]any {
		require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
		var ev map[string]any
		require.NoError(t, ws.ReadJSON(&ev))
		return ev
	}

	require.NoError(t, host.WriteJSON(map[string]string{"type": "create_room", "playerName": "Alice"}))
	created := read(host)
	require.Equal(t, "room_created", created["type"])
	code := created["roomCode"].(string)

	require.NoError(t, guest.WriteJSON(map[string]string{"type": "join_room", "roomCode": code, "playerName": "Bob"}))
	read(host)
	read(guest)

	require.NoError(t, host.WriteJSON(map[string]string{"type": "make_choice", "choice": "paper"}))
	read(host)
	require.NoError(t, guest.WriteJSON(map[string]string{"type": "make_choice", "choice": "rock"}))
	read(host)
	read(guest)

	return code
}

// Response types for JSON parsing

type healthResponse struct {
	Status string `json:"status"`
}

type roomResponse struct {
	Code         string   `json:"code"`
	Status       string   `json:"status"`
	Players      []string `json:"players"`
	RoundsPlayed int      `json:"rounds_played"`
}

type historyResponse struct {
	RoomCode string `json:"room_code"`
	Rounds   []struct {
		RoundNumber int    `json:"round_number"`
		HostName    string `json:"host_name"`
		HostChoice  string `json:"host_choice"`
		GuestName   string `json:"guest_name"`
		GuestChoice string `json:"guest_choice"`
		Result      string `json:"result"`
	} `json:"rounds"`
}

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

func TestCLI_RoomCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)
	code := playRound(t, ts.addr)

	// Room status
	output, err := cli.run("room", "get", code)
	require.NoError(t, err, "output: %s", output)

	var room roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	assert.Equal(t, code, room.Code)
	assert.Equal(t, "ready", room.Status)
	assert.Equal(t, []string{"Alice", "Bob"}, room.Players)
	assert.Equal(t, 1, room.RoundsPlayed)

	// Round history
	output, err = cli.run("room", "history", code)
	require.NoError(t, err, "output: %s", output)

	var history historyResponse
	require.NoError(t, json.Unmarshal([]byte(output), &history))
	assert.Equal(t, code, history.RoomCode)
	require.Len(t, history.Rounds, 1)
	assert.Equal(t, "Alice", history.Rounds[0].HostName)
	assert.Equal(t, "paper", history.Rounds[0].HostChoice)
	assert.Equal(t, "rock", history.Rounds[0].GuestChoice)
	assert.Equal(t, "win", history.Rounds[0].Result)
}

func TestCLI_RoomNotFound(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("room", "get", "ZZZZZZ")
	require.Error(t, err)
	assert.Contains(t, output, "Room not found")
}
