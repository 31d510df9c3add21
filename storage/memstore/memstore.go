// Package memstore provides a mutex-guarded in-memory Store, used by
// tests and the single-player REPL.
package memstore

import (
	"sync"

	"github.com/fardog/advtxt/storage"
	"github.com/fardog/advtxt/types"
)

// Store keeps players and rooms in maps. All reads return copies so a
// turn's in-memory snapshot never aliases stored state.
type Store struct {
	mu      sync.RWMutex
	players map[storage.PlayerKey]*types.Player
	rooms   map[storage.RoomKey]*types.Room
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		players: make(map[storage.PlayerKey]*types.Player),
		rooms:   make(map[storage.RoomKey]*types.Room),
	}
}

// FindPlayer returns a copy of the stored player.
func (s *Store) FindPlayer(key storage.PlayerKey) (*types.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyPlayer(p), nil
}

// InsertPlayer stores a copy of the player.
func (s *Store) InsertPlayer(p *types.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.players[storage.KeyForPlayer(p)] = copyPlayer(p)
	return nil
}

// UpdatePlayerItems replaces the stored item set.
func (s *Store) UpdatePlayerItems(key storage.PlayerKey, items map[string]bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[key]
	if !ok {
		return false, nil
	}
	p.Items = copyItems(items)
	return true, nil
}

// UpdatePlayerPosition replaces the stored coordinates.
func (s *Store) UpdatePlayerPosition(key storage.PlayerKey, x, y int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[key]
	if !ok {
		return false, nil
	}
	p.X, p.Y = x, y
	return true, nil
}

// UpdatePlayerStatus replaces the stored status.
func (s *Store) UpdatePlayerStatus(key storage.PlayerKey, status types.Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[key]
	if !ok {
		return false, nil
	}
	p.Status = status
	return true, nil
}

// FindRoom returns a copy of the stored room.
func (s *Store) FindRoom(key storage.RoomKey) (*types.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rooms[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	room := *r
	return &room, nil
}

// UpsertRoom stores a copy of the room, replacing any existing record
// at the same coordinates.
func (s *Store) UpsertRoom(r *types.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room := *r
	s.rooms[storage.RoomKey{X: r.X, Y: r.Y, Map: r.Map}] = &room
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

func copyPlayer(p *types.Player) *types.Player {
	cp := *p
	cp.Room = nil
	cp.Items = copyItems(p.Items)
	return &cp
}

func copyItems(items map[string]bool) map[string]bool {
	cp := make(map[string]bool, len(items))
	for item, held := range items {
		if held {
			cp[item] = true
		}
	}
	return cp
}
