package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

type wsEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	hub := NewHub(nil)
	go hub.Run()
	srv := httptest.NewServer(SetupRoutes(hub, t.TempDir()))
	t.Cleanup(srv.Close)
	return srv
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendEvent(t *testing.T, conn *websocket.Conn, typ string, data interface{}) {
	t.Helper()
	if err := conn.WriteJSON(Envelope{T: typ, Data: data}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

// readUntil drains text frames until one of the wanted type arrives
func readUntil(t *testing.T, conn *websocket.Conn, want string) json.RawMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %s: %v", want, err)
		}
		if mt == websocket.BinaryMessage {
			continue
		}
		var env wsEnvelope
		if json.Unmarshal(data, &env) != nil {
			continue
		}
		if env.T == want {
			return env.D
		}
	}
}

// readBinaryUntil drains frames until a msgpack frame of the wanted type arrives
func readBinaryUntil(t *testing.T, conn *websocket.Conn, want string) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for binary %s: %v", want, err)
		}
		if mt != websocket.BinaryMessage {
			continue
		}
		var env struct{ T string }
		if err := msgpack.Unmarshal(data, &env); err != nil {
			t.Fatalf("undecodable binary frame: %v", err)
		}
		if env.T == want {
			return
		}
	}
}

func TestFullMatchOverWebSocket(t *testing.T) {
	oldCS, oldCT, oldTI, oldRD := CountdownStart, CountdownTick, TickInterval, ResetDelay
	CountdownStart = 0
	CountdownTick = 20 * time.Millisecond
	TickInterval = 20 * time.Millisecond
	ResetDelay = time.Minute
	defer func() {
		CountdownStart, CountdownTick, TickInterval, ResetDelay = oldCS, oldCT, oldTI, oldRD
	}()

	srv := newTestServer(t)
	a := dialWS(t, srv)
	b := dialWS(t, srv)

	sendEvent(t, a, MsgJoinGame, JoinGameMsg{Name: "Alice"})
	var alice PlayerState
	if err := json.Unmarshal(readUntil(t, a, MsgJoinedGame), &alice); err != nil {
		t.Fatalf("joinedGame payload: %v", err)
	}
	sendEvent(t, b, MsgJoinGame, JoinGameMsg{Name: "Bob"})
	var bob PlayerState
	if err := json.Unmarshal(readUntil(t, b, MsgJoinedGame), &bob); err != nil {
		t.Fatalf("joinedGame payload: %v", err)
	}

	sendEvent(t, a, MsgStartGame, nil)
	var start GameStartingMsg
	if err := json.Unmarshal(readUntil(t, a, MsgGameStarting), &start); err != nil {
		t.Fatalf("gameStarting payload: %v", err)
	}
	if start.Arena == nil || len(start.Players) != 2 || len(start.Items) == 0 {
		t.Fatalf("incomplete gameStarting payload: %+v", start)
	}

	readUntil(t, a, MsgCountdownEnd)
	readUntil(t, b, MsgCountdownEnd)

	// Bob switches to msgpack state frames
	sendEvent(t, b, MsgBinaryState, nil)
	readBinaryUntil(t, b, MsgGameState)

	var ax, ay, bx, by float64
	for _, p := range start.Players {
		switch p.ID {
		case alice.ID:
			ax, ay = p.X, p.Y
		case bob.ID:
			bx, by = p.X, p.Y
		}
	}

	// Walk Alice toward Bob in server-acceptable steps
	for i := 0; i < 30 && Distance(ax, ay, bx, by) > MeleeRange-10; i++ {
		d := Distance(ax, ay, bx, by)
		step := 20.0
		if d < step {
			step = d
		}
		ax += (bx - ax) / d * step
		ay += (by - ay) / d * step
		sendEvent(t, a, MsgPlayerMove, PlayerMoveMsg{X: ax, Y: ay})
		time.Sleep(30 * time.Millisecond)
	}

	for i := 0; i < 8; i++ {
		sendEvent(t, a, MsgPlayerAttack, PlayerAttackMsg{TargetID: bob.ID})
		time.Sleep(30 * time.Millisecond)
	}

	var kill PlayerKilledMsg
	if err := json.Unmarshal(readUntil(t, a, MsgPlayerKilled), &kill); err != nil {
		t.Fatalf("playerKilled payload: %v", err)
	}
	if kill.Killer != "Alice" || kill.Victim != "Bob" {
		t.Errorf("unexpected kill notice %+v", kill)
	}

	var over GameOverMsg
	if err := json.Unmarshal(readUntil(t, a, MsgGameOver), &over); err != nil {
		t.Fatalf("gameOver payload: %v", err)
	}
	if over.Winner != "Alice" {
		t.Errorf("expected winner Alice, got %q", over.Winner)
	}

	readUntil(t, b, MsgEliminated)
	readUntil(t, b, MsgGameOver)

	// Joining before the reset is rejected
	late := dialWS(t, srv)
	sendEvent(t, late, MsgJoinGame, JoinGameMsg{Name: "Late"})
	readUntil(t, late, MsgGameInProgress)
}

func TestEarlyMovementOverWebSocket(t *testing.T) {
	oldCS, oldCT := CountdownStart, CountdownTick
	CountdownStart = 5
	CountdownTick = 50 * time.Millisecond
	defer func() { CountdownStart, CountdownTick = oldCS, oldCT }()

	srv := newTestServer(t)
	a := dialWS(t, srv)
	b := dialWS(t, srv)

	sendEvent(t, a, MsgJoinGame, JoinGameMsg{Name: "Alice"})
	readUntil(t, a, MsgJoinedGame)
	sendEvent(t, b, MsgJoinGame, JoinGameMsg{Name: "Bob"})
	readUntil(t, b, MsgJoinedGame)

	sendEvent(t, a, MsgStartGame, nil)
	readUntil(t, a, MsgGameStarting)
	readUntil(t, a, MsgCountdownUpdate)

	sendEvent(t, a, MsgEarlyMovement, nil)
	readUntil(t, a, MsgEliminated)

	var over GameOverMsg
	if err := json.Unmarshal(readUntil(t, b, MsgGameOver), &over); err != nil {
		t.Fatalf("gameOver payload: %v", err)
	}
	if over.Winner != "Bob" {
		t.Errorf("expected winner Bob, got %q", over.Winner)
	}
}

func TestQREndpoint(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/qr")
	if err != nil {
		t.Fatalf("get /qr: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}
	buf := make([]byte, 8)
	if _, err := io.ReadFull(resp.Body, buf); err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !bytes.HasPrefix(buf, []byte("\x89PNG")) {
		t.Error("response is not a PNG")
	}
}

func TestStaticFilesNoCache(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("get /: %v", err)
	}
	defer resp.Body.Close()
	if cc := resp.Header.Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("expected Cache-Control no-cache, got %q", cc)
	}
}
