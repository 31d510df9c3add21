package loader

import (
	"fmt"

	"github.com/fardog/advtxt/storage"
	"github.com/fardog/advtxt/types"
)

// Seed upserts rooms into a store, replacing existing records at the
// same coordinates.
func Seed(store storage.Store, rooms []*types.Room) error {
	for _, room := range rooms {
		if err := store.UpsertRoom(room); err != nil {
			return fmt.Errorf("seeding room %q: %w", room.Name, err)
		}
	}
	return nil
}
