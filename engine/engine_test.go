package engine

import (
	"io"
	"log"
	"testing"

	"github.com/fardog/advtxt/storage"
	"github.com/fardog/advtxt/storage/memstore"
	"github.com/fardog/advtxt/types"
)

// countingStore wraps a Store and counts per-category update calls.
type countingStore struct {
	storage.Store
	itemUpdates     int
	positionUpdates int
	statusUpdates   int
}

func (c *countingStore) UpdatePlayerItems(key storage.PlayerKey, items map[string]bool) (bool, error) {
	c.itemUpdates++
	return c.Store.UpdatePlayerItems(key, items)
}

func (c *countingStore) UpdatePlayerPosition(key storage.PlayerKey, x, y int) (bool, error) {
	c.positionUpdates++
	return c.Store.UpdatePlayerPosition(key, x, y)
}

func (c *countingStore) UpdatePlayerStatus(key storage.PlayerKey, status types.Status) (bool, error) {
	c.statusUpdates++
	return c.Store.UpdatePlayerStatus(key, status)
}

// testWorld seeds two rooms: the plain starting room with a key, a
// locked east exit, and a lethal orb, and the room behind the door.
func testWorld(t *testing.T) *memstore.Store {
	t.Helper()
	s := memstore.New()

	rooms := []*types.Room{
		{
			X: 0, Y: 0, Map: "default",
			Name:        "plain",
			Description: "This room looks pretty plain.",
			Attributes: []types.Attribute{
				{
					Type: types.AttrCommand, Name: "look",
					Conditions: []types.Condition{{Message: "Huh, there's a key here."}},
				},
				{
					Type: types.AttrCommand, Name: "get", Item: "key",
					Conditions: []types.Condition{{
						Message: "You picked up the key.",
						Effect:  &types.Effect{Items: []string{"+key"}},
					}},
				},
				{
					Type: types.AttrExit, Name: "east",
					Conditions: []types.Condition{
						{
							Requires: []string{"key"},
							Message:  "You unlock the door and step through.",
							Effect:   &types.Effect{Move: &types.Delta{X: 1}},
						},
						{Message: "The door is locked."},
					},
				},
				{
					Type: types.AttrCommand, Name: "touch",
					Conditions: []types.Condition{{
						Message: "The orb sears you to ash.",
						Effect:  &types.Effect{Status: types.StatusDead},
					}},
				},
				{
					Type: types.AttrCommand, Name: "pray",
					Conditions: []types.Condition{{
						Message: "A warm light surrounds you.",
						Effect:  &types.Effect{Status: types.StatusWin},
					}},
				},
			},
		},
		{
			X: 1, Y: 0, Map: "default",
			Name:        "east",
			Description: "You are east of the plain room.",
		},
	}
	for _, room := range rooms {
		if err := s.UpsertRoom(room); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func newTestEngine(store storage.Store) *Engine {
	return New(store, WithLogger(log.New(io.Discard, "", 0)))
}

// run submits one command and returns its replies.
func run(t *testing.T, e *Engine, player, raw string) []string {
	t.Helper()
	var got []string
	done := false
	cmd := &types.Command{
		Raw:        raw,
		PlayerName: player,
		Done: func(c *types.Command) {
			if done {
				t.Fatal("completion callback fired twice")
			}
			done = true
			got = c.Replies
		},
	}
	e.Submit(cmd)
	if !done {
		t.Fatal("completion callback never fired")
	}
	return got
}

func wantReplies(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("replies = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("replies = %q, want %q", got, want)
		}
	}
}

func TestNewPlayerLook(t *testing.T) {
	store := testWorld(t)
	e := newTestEngine(store)

	got := run(t, e, "alice", "look")
	wantReplies(t, got, []string{
		"This room looks pretty plain.",
		"Huh, there's a key here.",
	})

	// The player record was created at the origin.
	p, err := store.FindPlayer(storage.PlayerKey{Username: "alice", Map: "default"})
	if err != nil {
		t.Fatal(err)
	}
	if p.X != 0 || p.Y != 0 || p.Status != types.StatusAlive {
		t.Errorf("new player = %+v", p)
	}
}

func TestExistingPlayerLook(t *testing.T) {
	store := testWorld(t)
	e := newTestEngine(store)

	run(t, e, "alice", "look")
	got := run(t, e, "alice", "look")
	// No entry announcement on the second turn.
	wantReplies(t, got, []string{"Huh, there's a key here."})
}

func TestLockedExit(t *testing.T) {
	store := testWorld(t)
	e := newTestEngine(store)

	run(t, e, "alice", "look")
	got := run(t, e, "alice", "go east")
	wantReplies(t, got, []string{"The door is locked."})

	p, _ := store.FindPlayer(storage.PlayerKey{Username: "alice", Map: "default"})
	if p.X != 0 || p.Y != 0 {
		t.Errorf("player moved through a locked door to (%d,%d)", p.X, p.Y)
	}
}

func TestUnlockedExitMovesAndAnnounces(t *testing.T) {
	store := testWorld(t)
	e := newTestEngine(store)

	run(t, e, "alice", "look")
	got := run(t, e, "alice", "get key")
	wantReplies(t, got, []string{"You picked up the key."})

	got = run(t, e, "alice", "go east")
	wantReplies(t, got, []string{
		"You unlock the door and step through.",
		"You are east of the plain room.",
	})

	p, _ := store.FindPlayer(storage.PlayerKey{Username: "alice", Map: "default"})
	if p.X != 1 || p.Y != 0 {
		t.Errorf("player at (%d,%d), want (1,0)", p.X, p.Y)
	}
	if !p.HasItem("key") {
		t.Error("key was not persisted")
	}
}

func TestAliasedVerbs(t *testing.T) {
	store := testWorld(t)
	e := newTestEngine(store)

	run(t, e, "alice", "look")
	got := run(t, e, "alice", "grab the key")
	wantReplies(t, got, []string{"You picked up the key."})

	got = run(t, e, "alice", "walk east")
	if got[0] != "You unlock the door and step through." {
		t.Errorf("walk east replies = %q", got)
	}
}

func TestExitsBuiltin(t *testing.T) {
	store := testWorld(t)
	e := newTestEngine(store)

	run(t, e, "alice", "look")
	got := run(t, e, "alice", "exits")
	wantReplies(t, got, []string{"Available exits: east"})
}

func TestExitsBuiltinNoExits(t *testing.T) {
	store := testWorld(t)
	e := newTestEngine(store)

	run(t, e, "alice", "look")
	run(t, e, "alice", "get key")
	run(t, e, "alice", "go east")
	got := run(t, e, "alice", "exits")
	wantReplies(t, got, []string{MsgNoExits})
}

func TestParseFailure(t *testing.T) {
	store := testWorld(t)
	e := newTestEngine(store)

	run(t, e, "alice", "look")
	got := run(t, e, "alice", "get key and go east")
	wantReplies(t, got, []string{MsgUnknownInput})
}

func TestUnmatchedCommand(t *testing.T) {
	store := testWorld(t)
	e := newTestEngine(store)

	run(t, e, "alice", "look")
	got := run(t, e, "alice", "dance")
	wantReplies(t, got, []string{MsgNoSuchCommand})
}

func TestDeathAndRepeat(t *testing.T) {
	store := testWorld(t)
	e := newTestEngine(store)

	run(t, e, "alice", "look")
	got := run(t, e, "alice", "touch orb")
	wantReplies(t, got, []string{"The orb sears you to ash.", MsgDied})

	p, _ := store.FindPlayer(storage.PlayerKey{Username: "alice", Map: "default"})
	if p.Status != types.StatusDead {
		t.Fatalf("status = %q, want dead", p.Status)
	}

	// Any verb other than reset gets only the repeat message.
	got = run(t, e, "alice", "look")
	wantReplies(t, got, []string{MsgStillDead})
	got = run(t, e, "alice", "go east")
	wantReplies(t, got, []string{MsgStillDead})

	// Even unparseable input gets only the repeat message.
	got = run(t, e, "alice", "look and look")
	wantReplies(t, got, []string{MsgStillDead})
}

func TestWinAndRepeat(t *testing.T) {
	store := testWorld(t)
	e := newTestEngine(store)

	run(t, e, "alice", "look")
	got := run(t, e, "alice", "pray")
	wantReplies(t, got, []string{"A warm light surrounds you.", MsgWon})

	got = run(t, e, "alice", "look")
	wantReplies(t, got, []string{MsgStillWon})
}

func TestResetRevives(t *testing.T) {
	store := testWorld(t)
	e := newTestEngine(store)

	run(t, e, "alice", "look")
	run(t, e, "alice", "get key")
	run(t, e, "alice", "touch orb")

	got := run(t, e, "alice", "reset")
	wantReplies(t, got, []string{MsgReset, "This room looks pretty plain."})

	p, _ := store.FindPlayer(storage.PlayerKey{Username: "alice", Map: "default"})
	if p.Status != types.StatusAlive {
		t.Errorf("status = %q, want alive", p.Status)
	}
	// Plain reset keeps items.
	if !p.HasItem("key") {
		t.Error("plain reset should not clear items")
	}
}

func TestResetAll(t *testing.T) {
	base := testWorld(t)
	store := &countingStore{Store: base}
	e := newTestEngine(store)

	run(t, e, "alice", "look")
	run(t, e, "alice", "get key")
	run(t, e, "alice", "go east")

	store.itemUpdates = 0
	store.positionUpdates = 0

	got := run(t, e, "alice", "reset all")
	wantReplies(t, got, []string{MsgResetAll, "This room looks pretty plain."})

	if store.itemUpdates != 1 {
		t.Errorf("item updates = %d, want 1", store.itemUpdates)
	}
	if store.positionUpdates != 1 {
		t.Errorf("position updates = %d, want 1", store.positionUpdates)
	}

	p, _ := base.FindPlayer(storage.PlayerKey{Username: "alice", Map: "default"})
	if p.X != 0 || p.Y != 0 {
		t.Errorf("player at (%d,%d), want origin", p.X, p.Y)
	}
	if len(p.Items) != 0 {
		t.Errorf("items = %v, want empty", p.Items)
	}
	if p.Status != types.StatusAlive {
		t.Errorf("status = %q, want alive", p.Status)
	}
}

// recordingSink collects emitted replies.
type recordingSink struct {
	replies []string
}

func (r *recordingSink) Emit(player, reply string) {
	r.replies = append(r.replies, player+": "+reply)
}

func TestSinkEmissionOrder(t *testing.T) {
	store := testWorld(t)
	sink := &recordingSink{}
	e := New(store, WithLogger(log.New(io.Discard, "", 0)), WithSink(sink))

	run(t, e, "alice", "look")

	want := []string{
		"alice: This room looks pretty plain.",
		"alice: Huh, there's a key here.",
	}
	wantReplies(t, sink.replies, want)
}

func TestStatusAtEntryCapturedOnce(t *testing.T) {
	// A player dying mid-turn still completes that turn; the dead/win
	// gate only applies from the next turn on.
	store := testWorld(t)
	e := newTestEngine(store)

	run(t, e, "alice", "look")
	got := run(t, e, "alice", "touch orb")
	if got[0] != "The orb sears you to ash." {
		t.Fatalf("death turn replies = %q", got)
	}
	if got[len(got)-1] != MsgDied {
		t.Fatalf("death turn should end with the first-time message, got %q", got)
	}
}
