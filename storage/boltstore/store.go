// Package boltstore persists players and rooms in an embedded bbolt
// database, one bucket per collection, JSON-encoded records.
package boltstore

import (
	"encoding/json"
	"fmt"

	bbolt "go.etcd.io/bbolt"

	"github.com/fardog/advtxt/storage"
	"github.com/fardog/advtxt/types"
)

var (
	bucketPlayers = []byte("players")
	bucketRooms   = []byte("rooms")
)

// Store wraps a bbolt database.
type Store struct {
	bolt *bbolt.DB
}

// Open opens or creates a bbolt database file and ensures the buckets
// exist.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("boltstore: open %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketPlayers, bucketRooms} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("boltstore: create buckets: %w", err)
	}

	return &Store{bolt: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.bolt.Close()
}

// Path returns the filesystem path of the underlying database.
func (s *Store) Path() string {
	return s.bolt.Path()
}

// FindPlayer looks up a player by (username, map).
func (s *Store) FindPlayer(key storage.PlayerKey) (*types.Player, error) {
	var p *types.Player
	err := s.bolt.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketPlayers).Get(playerKey(key))
		if data == nil {
			return fmt.Errorf("boltstore: player %s@%s: %w", key.Username, key.Map, storage.ErrNotFound)
		}
		p = &types.Player{}
		return json.Unmarshal(data, p)
	})
	if err != nil {
		return nil, err
	}
	if p.Items == nil {
		p.Items = map[string]bool{}
	}
	return p, nil
}

// InsertPlayer stores a new player record.
func (s *Store) InsertPlayer(p *types.Player) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("boltstore: encode player %s: %w", p.Username, err)
	}
	return s.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketPlayers).Put(playerKey(storage.KeyForPlayer(p)), data)
	})
}

// UpdatePlayerItems rewrites the item set of a stored player.
func (s *Store) UpdatePlayerItems(key storage.PlayerKey, items map[string]bool) (bool, error) {
	return s.updatePlayer(key, func(p *types.Player) {
		p.Items = items
	})
}

// UpdatePlayerPosition rewrites the coordinates of a stored player.
func (s *Store) UpdatePlayerPosition(key storage.PlayerKey, x, y int) (bool, error) {
	return s.updatePlayer(key, func(p *types.Player) {
		p.X, p.Y = x, y
	})
}

// UpdatePlayerStatus rewrites the status of a stored player.
func (s *Store) UpdatePlayerStatus(key storage.PlayerKey, status types.Status) (bool, error) {
	return s.updatePlayer(key, func(p *types.Player) {
		p.Status = status
	})
}

// updatePlayer applies mutate to the stored record in a single
// read-modify-write transaction. found=false when the key is absent.
func (s *Store) updatePlayer(key storage.PlayerKey, mutate func(*types.Player)) (bool, error) {
	found := false
	err := s.bolt.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketPlayers)
		k := playerKey(key)
		data := b.Get(k)
		if data == nil {
			return nil
		}
		var p types.Player
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("boltstore: decode player %s: %w", key.Username, err)
		}
		mutate(&p)
		out, err := json.Marshal(&p)
		if err != nil {
			return fmt.Errorf("boltstore: encode player %s: %w", key.Username, err)
		}
		found = true
		return b.Put(k, out)
	})
	return found, err
}

// FindRoom looks up a room by its coordinate triple.
func (s *Store) FindRoom(key storage.RoomKey) (*types.Room, error) {
	var r *types.Room
	err := s.bolt.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketRooms).Get(roomKey(key))
		if data == nil {
			return fmt.Errorf("boltstore: room (%d,%d)@%s: %w", key.X, key.Y, key.Map, storage.ErrNotFound)
		}
		r = &types.Room{}
		return json.Unmarshal(data, r)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// UpsertRoom stores a room record, replacing any existing one at the
// same coordinates.
func (s *Store) UpsertRoom(r *types.Room) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("boltstore: encode room %s: %w", r.Name, err)
	}
	return s.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRooms).Put(roomKey(storage.RoomKey{X: r.X, Y: r.Y, Map: r.Map}), data)
	})
}

// playerKey builds the bucket key for a player. The NUL separator keeps
// usernames and map names from colliding.
func playerKey(key storage.PlayerKey) []byte {
	return []byte(key.Username + "\x00" + key.Map)
}

// roomKey builds the bucket key for a room coordinate triple.
func roomKey(key storage.RoomKey) []byte {
	return []byte(fmt.Sprintf("%d\x00%d\x00%s", key.X, key.Y, key.Map))
}
