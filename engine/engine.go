// Package engine runs one player command through the full turn
// pipeline: identify, enter room, dispatch, persist, re-announce,
// finalize.
package engine

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/fardog/advtxt/engine/effects"
	"github.com/fardog/advtxt/engine/parser"
	"github.com/fardog/advtxt/engine/rules"
	"github.com/fardog/advtxt/storage"
	"github.com/fardog/advtxt/types"
)

// ReplySink receives replies as they are flushed, in emission order.
// Transports that broadcast (chat bots, websockets) implement this; the
// completion callback on each Command carries the same replies.
type ReplySink interface {
	Emit(player, reply string)
}

// Engine processes turns against a storage backend. Turns for the same
// player are serialized; turns for distinct players may run
// concurrently.
type Engine struct {
	store  storage.Store
	parser *parser.Parser
	sink   ReplySink
	log    *log.Logger

	mapName string
	origin  types.Delta

	mu    sync.Mutex
	turns map[storage.PlayerKey]*sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithSink installs a reply sink.
func WithSink(sink ReplySink) Option {
	return func(e *Engine) { e.sink = sink }
}

// WithLogger sets the operator log.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithLexicon replaces the default English word tables.
func WithLexicon(lex parser.Lexicon) Option {
	return func(e *Engine) { e.parser = parser.New(lex) }
}

// WithMap sets the map namespace players are resolved in.
func WithMap(name string) Option {
	return func(e *Engine) { e.mapName = name }
}

// WithOrigin sets the coordinates new and reset players start at.
func WithOrigin(x, y int) Option {
	return func(e *Engine) { e.origin = types.Delta{X: x, Y: y} }
}

// New creates an engine over the given store.
func New(store storage.Store, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		parser:  parser.New(parser.English()),
		log:     log.Default(),
		mapName: "default",
		turns:   make(map[storage.PlayerKey]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Submit runs one command end to end. It blocks until the turn
// completes and the command's Done callback has fired; the callback
// fires exactly once, after all persistence.
func (e *Engine) Submit(cmd *types.Command) {
	key := storage.PlayerKey{Username: cmd.PlayerName, Map: e.mapName}

	// A second command for the same player waits for the first turn's
	// completion callback.
	lock := e.turnLock(key)
	lock.Lock()
	defer lock.Unlock()

	e.runTurn(cmd, key)
	e.finalize(cmd, key)
}

func (e *Engine) turnLock(key storage.PlayerKey) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.turns[key]
	if !ok {
		lock = &sync.Mutex{}
		e.turns[key] = lock
	}
	return lock
}

func (e *Engine) runTurn(cmd *types.Command, key storage.PlayerKey) {
	// 1. Identify the player, creating one at the origin on first
	// reference.
	p, err := e.store.FindPlayer(key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		p = &types.Player{
			Username: key.Username,
			Map:      key.Map,
			X:        e.origin.X,
			Y:        e.origin.Y,
			Status:   types.StatusAlive,
			Items:    map[string]bool{},
		}
		if err := e.store.InsertPlayer(p); err != nil {
			cmd.Err = fmt.Errorf("creating player %s: %w", key.Username, err)
			return
		}
		cmd.Dirty.AnnounceRoom = true
	case err != nil:
		cmd.Err = fmt.Errorf("finding player %s: %w", key.Username, err)
		return
	}
	if p.Status == "" {
		p.Status = types.StatusAlive
	}
	cmd.Player = p

	// 2. Enter the current room.
	if !e.enterRoom(cmd) {
		return
	}

	// 3. Dispatch the command.
	e.dispatch(cmd)

	// 4. Persist dirty categories: items, then position.
	e.persist(cmd, key)

	// 5. Movement re-announces the destination room. Entry effects may
	// dirty categories again, so persist once more.
	if cmd.Dirty.AnnounceRoom {
		if !e.enterRoom(cmd) {
			return
		}
		e.persist(cmd, key)
	}

	// 6. Finalize runs in Submit.
}

// enterRoom fetches the room at the player's coordinates and attaches
// it for the rest of the turn. When the turn has the room announcement
// pending, the room's enter attribute is evaluated and applied.
func (e *Engine) enterRoom(cmd *types.Command) bool {
	p := cmd.Player
	room, err := e.store.FindRoom(storage.RoomKey{X: p.X, Y: p.Y, Map: p.Map})
	if err != nil {
		cmd.Err = fmt.Errorf("entering room (%d,%d) on %s: %w", p.X, p.Y, p.Map, err)
		return false
	}
	p.Room = room

	if cmd.StatusAtEntry == "" {
		cmd.StatusAtEntry = p.Status
	}

	if cmd.Dirty.AnnounceRoom {
		cmd.Dirty.AnnounceRoom = false
		cond := rules.Select(p, rules.EnterAttribute(room).Conditions)
		effects.Apply(cmd, cond)
	}
	return true
}

// dispatch parses the raw line and routes it: reset handling, the
// exits built-in, then attribute matching.
func (e *Engine) dispatch(cmd *types.Command) {
	parsed, err := e.parser.Parse(cmd.Raw)
	if err != nil {
		// Dead and won players get only their lifecycle reminder.
		if cmd.StatusAtEntry == types.StatusAlive {
			cmd.Reply(MsgUnknownInput)
		}
		return
	}
	cmd.Verb, cmd.Object = parsed.Verb, parsed.Object

	if parsed.Verb == types.VerbReset {
		e.reset(cmd, parsed.Object == types.ObjectAll)
		return
	}

	// Dead and won players may not act except via reset.
	if cmd.StatusAtEntry != types.StatusAlive {
		return
	}

	if parsed.Verb == types.VerbExits {
		e.listExits(cmd)
		return
	}

	attr := rules.Match(cmd.Player.Room.Attributes, parsed.Verb, parsed.Object)
	if attr == nil {
		cmd.Reply(MsgNoSuchCommand)
		return
	}
	effects.Apply(cmd, rules.Select(cmd.Player, attr.Conditions))
}

// reset returns the player to the origin and revives them. "reset all"
// additionally clears the item set.
func (e *Engine) reset(cmd *types.Command, all bool) {
	p := cmd.Player
	p.X, p.Y = e.origin.X, e.origin.Y
	cmd.Dirty.Position = true
	cmd.Dirty.AnnounceRoom = true

	if all {
		p.Items = map[string]bool{}
		cmd.Dirty.Items = true
		cmd.Reply(MsgResetAll)
	} else {
		cmd.Reply(MsgReset)
	}

	if p.Status != types.StatusAlive {
		p.Status = types.StatusAlive
		cmd.Dirty.Status = true
	}
}

// listExits names the room's exit attributes in declaration order.
func (e *Engine) listExits(cmd *types.Command) {
	names := rules.Exits(cmd.Player.Room)
	if len(names) == 0 {
		cmd.Reply(MsgNoExits)
		return
	}
	cmd.Reply(msgExitsPrefix + strings.Join(names, msgExitsJoinSep))
}

// persist writes dirty categories back, clearing each flag so a later
// pass writes a category at most once more. An update that matches no
// record is a logged warning; the turn still completes.
func (e *Engine) persist(cmd *types.Command, key storage.PlayerKey) {
	p := cmd.Player
	if cmd.Dirty.Items {
		cmd.Dirty.Items = false
		found, err := e.store.UpdatePlayerItems(key, p.Items)
		e.reportUpdate("items", key, found, err)
	}
	if cmd.Dirty.Position {
		cmd.Dirty.Position = false
		found, err := e.store.UpdatePlayerPosition(key, p.X, p.Y)
		e.reportUpdate("position", key, found, err)
	}
}

func (e *Engine) reportUpdate(category string, key storage.PlayerKey, found bool, err error) {
	if err != nil {
		e.log.Printf("advtxt: %s update for %s@%s failed: %v", category, key.Username, key.Map, err)
		return
	}
	if !found {
		e.log.Printf("advtxt: %s update for %s@%s matched no record", category, key.Username, key.Map)
	}
}

// finalize runs the lifecycle comparison, persists a changed status,
// flushes replies through the sink, and fires the completion callback.
// A fatal turn error is logged with the full command state and produces
// no player-visible reply.
func (e *Engine) finalize(cmd *types.Command, key storage.PlayerKey) {
	if cmd.Err != nil {
		e.log.Printf("advtxt: turn aborted for %s: %v (command: %+v)", cmd.PlayerName, cmd.Err, cmd)
	} else if p := cmd.Player; p != nil {
		switch {
		case p.Status != cmd.StatusAtEntry:
			switch p.Status {
			case types.StatusDead:
				cmd.Reply(MsgDied)
			case types.StatusWin:
				cmd.Reply(MsgWon)
			}
			found, err := e.store.UpdatePlayerStatus(key, p.Status)
			e.reportUpdate("status", key, found, err)
		case p.Status == types.StatusDead:
			cmd.Reply(MsgStillDead)
		case p.Status == types.StatusWin:
			cmd.Reply(MsgStillWon)
		}
	}

	if e.sink != nil {
		for _, reply := range cmd.Replies {
			e.sink.Emit(cmd.PlayerName, reply)
		}
	}
	if cmd.Done != nil {
		cmd.Done(cmd)
	}
}
