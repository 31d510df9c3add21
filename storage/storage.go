// Package storage defines the narrow persistence contract the engine
// requires. Backends are swappable; the engine never sees anything
// beyond this interface.
package storage

import (
	"errors"

	"github.com/fardog/advtxt/types"
)

// ErrNotFound is returned by Find* when no record matches the key.
var ErrNotFound = errors.New("storage: not found")

// PlayerKey identifies a player record.
type PlayerKey struct {
	Username string
	Map      string
}

// RoomKey identifies a room record by its coordinate triple.
type RoomKey struct {
	X   int
	Y   int
	Map string
}

// KeyForPlayer returns the storage key for a player.
func KeyForPlayer(p *types.Player) PlayerKey {
	return PlayerKey{Username: p.Username, Map: p.Map}
}

// Store is the persistence surface the engine depends on. Find* return
// ErrNotFound (possibly wrapped) for missing records. Update* report
// found=false when no record matched the key; the engine treats that as
// a logged warning, not a failure.
//
// Implementations must return records the caller owns: mutating a
// returned Player or Room must not change stored state until an
// explicit update.
type Store interface {
	FindPlayer(key PlayerKey) (*types.Player, error)
	InsertPlayer(p *types.Player) error
	UpdatePlayerItems(key PlayerKey, items map[string]bool) (found bool, err error)
	UpdatePlayerPosition(key PlayerKey, x, y int) (found bool, err error)
	UpdatePlayerStatus(key PlayerKey, status types.Status) (found bool, err error)

	FindRoom(key RoomKey) (*types.Room, error)
	UpsertRoom(r *types.Room) error

	Close() error
}
