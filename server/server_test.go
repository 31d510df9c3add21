package server

import (
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/fardog/advtxt/engine"
	"github.com/fardog/advtxt/storage/memstore"
	"github.com/fardog/advtxt/types"
)

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	store := memstore.New()
	err := store.UpsertRoom(&types.Room{
		X: 0, Y: 0, Map: "default",
		Name:        "plain",
		Description: "This room looks pretty plain.",
		Attributes: []types.Attribute{
			{
				Type: types.AttrCommand, Name: "look",
				Conditions: []types.Condition{{Message: "Huh, there's a key here."}},
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return engine.New(store, engine.WithLogger(log.New(io.Discard, "", 0)))
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestTurnRoundTrip(t *testing.T) {
	s := New(testEngine(t), log.New(io.Discard, "", 0))
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn := dial(t, srv)

	if err := conn.WriteJSON(Request{Player: "alice", Command: "look"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var resp Response
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Player != "alice" {
		t.Errorf("player = %q, want alice", resp.Player)
	}
	want := []string{"This room looks pretty plain.", "Huh, there's a key here."}
	if len(resp.Replies) != len(want) {
		t.Fatalf("replies = %v, want %v", resp.Replies, want)
	}
	for i := range want {
		if resp.Replies[i] != want[i] {
			t.Errorf("replies[%d] = %q, want %q", i, resp.Replies[i], want[i])
		}
	}
}

func TestTurnsAnswerInOrder(t *testing.T) {
	s := New(testEngine(t), log.New(io.Discard, "", 0))
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn := dial(t, srv)

	for _, cmd := range []string{"look", "look", "look"} {
		if err := conn.WriteJSON(Request{Player: "bob", Command: cmd}); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	// The first turn creates the player and announces the room. Later
	// turns carry only the look reply.
	var resp Response
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(resp.Replies) != 2 {
		t.Fatalf("first turn replies = %v", resp.Replies)
	}
	for i := 0; i < 2; i++ {
		if err := conn.ReadJSON(&resp); err != nil {
			t.Fatalf("read: %v", err)
		}
		if len(resp.Replies) != 1 || resp.Replies[0] != "Huh, there's a key here." {
			t.Errorf("turn replies = %v", resp.Replies)
		}
	}
}

func TestEmptyFrameDropped(t *testing.T) {
	s := New(testEngine(t), log.New(io.Discard, "", 0))
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn := dial(t, srv)

	if err := conn.WriteJSON(Request{Player: "", Command: "look"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.WriteJSON(Request{Player: "carol", Command: "look"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	// The malformed frame produces no response; the next read returns
	// carol's turn.
	var resp Response
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Player != "carol" {
		t.Errorf("player = %q, want carol", resp.Player)
	}
}
