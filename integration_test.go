package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// ---------- helpers ----------

// msgSnapshot is a pseudo message type readFrame uses for binary frames
const msgSnapshot = "snapshot"

// startTestServer spins up an httptest.Server with the full hub, loop,
// and routes, shrinking the lobby countdown so matches start fast.
func startTestServer(t *testing.T) (*httptest.Server, string, func()) {
	t.Helper()

	prevCountdown := LobbyCountdown
	LobbyCountdown = 0.2

	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, "index.html"), []byte("<html>test</html>"), 0o644)

	log := zerolog.Nop()
	board := NewLeaderboard(filepath.Join(tmpDir, "leaderboard.json"))
	router := NewPeerRouter()
	lobby := NewLobbyCoordinator(1)
	hub := NewHub(router, lobby, nil, log)
	loop := NewServerLoop(router, lobby, hub, hub, board, nil, log)
	hub.SetLoop(loop)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run()
	go loop.Run(ctx)

	mux := SetupRoutes(hub, loop, board, tmpDir, log)
	srv := httptest.NewServer(mux)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	return srv, wsURL, func() {
		LobbyCountdown = prevCountdown
		cancel()
		srv.Close()
	}
}

// dialWS opens a WebSocket connection to the test server.
func dialWS(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial WS: %v", err)
	}
	return conn
}

// readFrame reads one message. Binary frames are msgpack snapshots and
// come back as Envelope{T: msgSnapshot, Data: Snapshot}.
func readFrame(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	msgType, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read WS: %v", err)
	}
	if msgType == websocket.BinaryMessage {
		var snap Snapshot
		if err := msgpack.Unmarshal(raw, &snap); err != nil {
			t.Fatalf("msgpack unmarshal: %v", err)
		}
		return Envelope{T: msgSnapshot, Data: snap}
	}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return env
}

// readUntil skips frames until one of the wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, msgType string) Envelope {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		env := readFrame(t, conn)
		if env.T == msgType {
			return env
		}
	}
	t.Fatalf("no %s frame before deadline", msgType)
	return Envelope{}
}

// sendMsg sends a typed message over the WebSocket.
func sendMsg(t *testing.T, conn *websocket.Conn, msgType string, data interface{}) {
	t.Helper()
	raw, _ := json.Marshal(Envelope{T: msgType, Data: data})
	if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		t.Fatalf("write WS: %v", err)
	}
}

// dataMap extracts the Data field as map[string]interface{}.
func dataMap(t *testing.T, env Envelope) map[string]interface{} {
	t.Helper()
	raw, _ := json.Marshal(env.Data)
	var m map[string]interface{}
	json.Unmarshal(raw, &m)
	return m
}

// ---------- connection handshake ----------

func TestWelcomeOnConnect(t *testing.T) {
	srv, wsURL, cleanup := startTestServer(t)
	_ = srv
	defer cleanup()

	c := dialWS(t, wsURL)
	defer c.Close()

	welcome := readFrame(t, c)
	if welcome.T != MsgWelcome {
		t.Fatalf("expected welcome, got %s", welcome.T)
	}
	peerID, _ := dataMap(t, welcome)["peer"].(string)
	if _, err := uuid.Parse(peerID); err != nil {
		t.Errorf("peer id %q is not a UUID: %v", peerID, err)
	}
}

func TestLobbyUpdatesBeforeJoin(t *testing.T) {
	srv, wsURL, cleanup := startTestServer(t)
	_ = srv
	defer cleanup()

	// Connected peers sit in the lobby and see updates even before
	// they pick a name and join the waiting set.
	c := dialWS(t, wsURL)
	defer c.Close()
	readUntil(t, c, MsgWelcome)

	update := readUntil(t, c, MsgLobbyUpdate)
	d := dataMap(t, update)
	if d["count"].(float64) != 0 {
		t.Errorf("expected 0 waiting, got %v", d["count"])
	}
	if d["countdown"].(float64) != -1 {
		t.Errorf("expected countdown -1 below minimum, got %v", d["countdown"])
	}
}

// ---------- edge cases ----------

func TestInputBeforeJoinDoesNotCrash(t *testing.T) {
	srv, wsURL, cleanup := startTestServer(t)
	_ = srv
	defer cleanup()

	c := dialWS(t, wsURL)
	defer c.Close()
	readUntil(t, c, MsgWelcome)

	sendMsg(t, c, MsgInput, PlayerInput{MX: 1, Attack: true})
	sendMsg(t, c, MsgAction, PlayerAction{Type: ActBuyConsumable, Item: PotionHealth})

	// Server keeps talking to us
	readUntil(t, c, MsgLobbyUpdate)
}

func TestUnknownMessageTypeIgnored(t *testing.T) {
	srv, wsURL, cleanup := startTestServer(t)
	_ = srv
	defer cleanup()

	c := dialWS(t, wsURL)
	defer c.Close()
	readUntil(t, c, MsgWelcome)

	sendMsg(t, c, "bogus", map[string]string{"x": "y"})
	readUntil(t, c, MsgLobbyUpdate)
}

// ---------- match start flow ----------

func TestTwoPlayersStartMatch(t *testing.T) {
	srv, wsURL, cleanup := startTestServer(t)
	_ = srv
	defer cleanup()

	c1 := dialWS(t, wsURL)
	defer c1.Close()
	readUntil(t, c1, MsgWelcome)
	c2 := dialWS(t, wsURL)
	defer c2.Close()
	readUntil(t, c2, MsgWelcome)

	sendMsg(t, c1, MsgJoinLobby, JoinLobbyMsg{Name: "Alice"})
	sendMsg(t, c2, MsgJoinLobby, JoinLobbyMsg{Name: "Bob"})

	start1 := readUntil(t, c1, MsgMatchStart)
	start2 := readUntil(t, c2, MsgMatchStart)

	d1, d2 := dataMap(t, start1), dataMap(t, start2)
	if d1["mid"] == "" || d1["mid"] != d2["mid"] {
		t.Errorf("both peers should share a match id, got %v and %v", d1["mid"], d2["mid"])
	}
	if d1["humans"].(float64) != 2 {
		t.Errorf("expected 2 humans, got %v", d1["humans"])
	}
	if d1["slot"] == d2["slot"] {
		t.Error("peers must get distinct slots")
	}

	valid := false
	for _, name := range MapNames {
		if d1["map"] == name {
			valid = true
		}
	}
	if !valid {
		t.Errorf("unknown map %v", d1["map"])
	}

	// Snapshots start flowing as binary frames
	env := readUntil(t, c1, msgSnapshot)
	snap := env.Data.(Snapshot)
	if len(snap.Players) != MatchSlots {
		t.Errorf("expected %d players in snapshot, got %d", MatchSlots, len(snap.Players))
	}
	if snap.Tick == 0 {
		t.Error("snapshot tick should advance")
	}
}

func TestMatchInputMoves(t *testing.T) {
	srv, wsURL, cleanup := startTestServer(t)
	_ = srv
	defer cleanup()

	c1 := dialWS(t, wsURL)
	defer c1.Close()
	readUntil(t, c1, MsgWelcome)
	c2 := dialWS(t, wsURL)
	defer c2.Close()
	readUntil(t, c2, MsgWelcome)

	sendMsg(t, c1, MsgJoinLobby, JoinLobbyMsg{Name: "Mover"})
	sendMsg(t, c2, MsgJoinLobby, JoinLobbyMsg{Name: "Still"})

	start := readUntil(t, c1, MsgMatchStart)
	slot := int(dataMap(t, start)["slot"].(float64))

	before := readUntil(t, c1, msgSnapshot).Data.(Snapshot)
	sendMsg(t, c1, MsgInput, PlayerInput{MX: 1})

	// Let a few ticks pass, then compare positions
	var after Snapshot
	for i := 0; i < 5; i++ {
		after = readUntil(t, c1, msgSnapshot).Data.(Snapshot)
	}
	if after.Players[slot].X <= before.Players[slot].X {
		t.Errorf("expected rightward movement, x %f -> %f", before.Players[slot].X, after.Players[slot].X)
	}
}

// ---------- HTTP surface ----------

func TestStaticRootAndCacheControl(t *testing.T) {
	srv, _, cleanup := startTestServer(t)
	defer cleanup()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("GET / status = %d, want 200", resp.StatusCode)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("expected Cache-Control: no-cache, got %q", cc)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "<html>") {
		t.Error("root should serve index.html")
	}
}

func TestHealthzEndpoint(t *testing.T) {
	srv, _, cleanup := startTestServer(t)
	defer cleanup()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
	if _, ok := body["peers"]; !ok {
		t.Error("healthz should report peer count")
	}
}

func TestQREndpoint(t *testing.T) {
	srv, _, cleanup := startTestServer(t)
	defer cleanup()

	resp, err := http.Get(srv.URL + "/qr")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("GET /qr status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}
	magic := make([]byte, 8)
	io.ReadFull(resp.Body, magic)
	if string(magic[1:4]) != "PNG" {
		t.Error("response is not a PNG")
	}
}

func TestLeaderboardEndpoint(t *testing.T) {
	srv, _, cleanup := startTestServer(t)
	defer cleanup()

	resp, err := http.Get(srv.URL + "/leaderboard")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var entries []LeaderboardEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("fresh server should have an empty leaderboard, got %d entries", len(entries))
	}
}

// ---------- auth over WS without a database ----------

func TestAuthWithoutDatabase(t *testing.T) {
	srv, wsURL, cleanup := startTestServer(t)
	_ = srv
	defer cleanup()

	c := dialWS(t, wsURL)
	defer c.Close()
	readUntil(t, c, MsgWelcome)

	sendMsg(t, c, MsgRegister, RegisterMsg{Username: "ada", Password: "password"})
	env := readUntil(t, c, MsgError)
	if msg, _ := dataMap(t, env)["msg"].(string); msg == "" {
		t.Error("expected an error message explaining accounts are unavailable")
	}
}
