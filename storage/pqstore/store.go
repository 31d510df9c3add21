// Package pqstore persists players and rooms in PostgreSQL. Item sets
// and attribute lists are stored as JSONB columns.
package pqstore

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/fardog/advtxt/storage"
	"github.com/fardog/advtxt/types"
)

// Store wraps a PostgreSQL connection pool.
type Store struct {
	db *sql.DB
}

// Open connects to PostgreSQL, verifies the connection, and ensures the
// schema exists.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("pqstore: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pqstore: ping: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pqstore: init schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		username TEXT NOT NULL,
		map TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		status TEXT NOT NULL,
		items JSONB NOT NULL DEFAULT '{}',
		PRIMARY KEY (username, map)
	);

	CREATE TABLE IF NOT EXISTS rooms (
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		map TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		attributes JSONB NOT NULL DEFAULT '[]',
		PRIMARY KEY (x, y, map)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// FindPlayer looks up a player by (username, map).
func (s *Store) FindPlayer(key storage.PlayerKey) (*types.Player, error) {
	row := s.db.QueryRow(
		`SELECT username, map, x, y, status, items FROM players WHERE username = $1 AND map = $2`,
		key.Username, key.Map)

	var p types.Player
	var itemsJSON []byte
	err := row.Scan(&p.Username, &p.Map, &p.X, &p.Y, &p.Status, &itemsJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("pqstore: player %s@%s: %w", key.Username, key.Map, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("pqstore: find player: %w", err)
	}
	if err := json.Unmarshal(itemsJSON, &p.Items); err != nil {
		return nil, fmt.Errorf("pqstore: decode items for %s: %w", key.Username, err)
	}
	if p.Items == nil {
		p.Items = map[string]bool{}
	}
	return &p, nil
}

// InsertPlayer stores a new player record.
func (s *Store) InsertPlayer(p *types.Player) error {
	itemsJSON, err := json.Marshal(p.Items)
	if err != nil {
		return fmt.Errorf("pqstore: encode items for %s: %w", p.Username, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO players (username, map, x, y, status, items) VALUES ($1, $2, $3, $4, $5, $6)`,
		p.Username, p.Map, p.X, p.Y, string(p.Status), itemsJSON)
	if err != nil {
		return fmt.Errorf("pqstore: insert player %s: %w", p.Username, err)
	}
	return nil
}

// UpdatePlayerItems rewrites the item set of a stored player.
func (s *Store) UpdatePlayerItems(key storage.PlayerKey, items map[string]bool) (bool, error) {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return false, fmt.Errorf("pqstore: encode items for %s: %w", key.Username, err)
	}
	return s.exec(
		`UPDATE players SET items = $3 WHERE username = $1 AND map = $2`,
		key.Username, key.Map, itemsJSON)
}

// UpdatePlayerPosition rewrites the coordinates of a stored player.
func (s *Store) UpdatePlayerPosition(key storage.PlayerKey, x, y int) (bool, error) {
	return s.exec(
		`UPDATE players SET x = $3, y = $4 WHERE username = $1 AND map = $2`,
		key.Username, key.Map, x, y)
}

// UpdatePlayerStatus rewrites the status of a stored player.
func (s *Store) UpdatePlayerStatus(key storage.PlayerKey, status types.Status) (bool, error) {
	return s.exec(
		`UPDATE players SET status = $3 WHERE username = $1 AND map = $2`,
		key.Username, key.Map, string(status))
}

// exec runs an update and reports whether any row was affected.
func (s *Store) exec(query string, args ...any) (bool, error) {
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return false, fmt.Errorf("pqstore: update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("pqstore: rows affected: %w", err)
	}
	return n > 0, nil
}

// FindRoom looks up a room by its coordinate triple.
func (s *Store) FindRoom(key storage.RoomKey) (*types.Room, error) {
	row := s.db.QueryRow(
		`SELECT x, y, map, name, description, attributes FROM rooms WHERE x = $1 AND y = $2 AND map = $3`,
		key.X, key.Y, key.Map)

	var r types.Room
	var attrsJSON []byte
	err := row.Scan(&r.X, &r.Y, &r.Map, &r.Name, &r.Description, &attrsJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("pqstore: room (%d,%d)@%s: %w", key.X, key.Y, key.Map, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("pqstore: find room: %w", err)
	}
	if err := json.Unmarshal(attrsJSON, &r.Attributes); err != nil {
		return nil, fmt.Errorf("pqstore: decode attributes for %s: %w", r.Name, err)
	}
	return &r, nil
}

// UpsertRoom stores a room record, replacing any existing one at the
// same coordinates.
func (s *Store) UpsertRoom(r *types.Room) error {
	attrsJSON, err := json.Marshal(r.Attributes)
	if err != nil {
		return fmt.Errorf("pqstore: encode attributes for %s: %w", r.Name, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO rooms (x, y, map, name, description, attributes)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (x, y, map)
		DO UPDATE SET name = $4, description = $5, attributes = $6`,
		r.X, r.Y, r.Map, r.Name, r.Description, attrsJSON)
	if err != nil {
		return fmt.Errorf("pqstore: upsert room %s: %w", r.Name, err)
	}
	return nil
}
