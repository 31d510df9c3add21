package loader

import (
	"fmt"
	"strings"

	"github.com/fardog/advtxt/types"
)

// validate checks the compiled world for authoring errors: duplicate
// coordinates, duplicate attribute names, malformed attributes.
func validate(rooms []*types.Room) error {
	type coord struct {
		x, y int
		m    string
	}
	seen := map[coord]string{}

	for _, room := range rooms {
		if room.Name == "" {
			return fmt.Errorf("room at (%d,%d) on %q has no name", room.X, room.Y, room.Map)
		}

		c := coord{room.X, room.Y, room.Map}
		if other, ok := seen[c]; ok {
			return fmt.Errorf("rooms %q and %q share coordinates (%d,%d) on %q",
				other, room.Name, room.X, room.Y, room.Map)
		}
		seen[c] = room.Name

		if err := validateAttributes(room); err != nil {
			return fmt.Errorf("room %q: %w", room.Name, err)
		}
	}
	return nil
}

func validateAttributes(room *types.Room) error {
	type attrKey struct {
		t types.AttributeType
		n string
	}
	names := map[attrKey]bool{}

	for _, attr := range room.Attributes {
		if attr.Name == "" {
			return fmt.Errorf("attribute with empty name")
		}
		if attr.Type != types.AttrExit && attr.Type != types.AttrCommand {
			return fmt.Errorf("attribute %q has unknown type %q", attr.Name, attr.Type)
		}
		if attr.Name == types.VerbGet && attr.Item == "" {
			return fmt.Errorf("get attribute without an item")
		}
		if len(attr.Conditions) == 0 {
			return fmt.Errorf("attribute %q has no conditions", attr.Name)
		}

		k := attrKey{attr.Type, attr.Name}
		// Duplicate get attributes for different items are fine.
		if attr.Name != types.VerbGet && names[k] {
			return fmt.Errorf("duplicate %s attribute %q", attr.Type, attr.Name)
		}
		names[k] = true

		for _, cond := range attr.Conditions {
			if err := validateCondition(cond); err != nil {
				return fmt.Errorf("attribute %q: %w", attr.Name, err)
			}
		}
	}
	return nil
}

func validateCondition(cond types.Condition) error {
	if cond.Message == "" && cond.Effect == nil {
		return fmt.Errorf("condition with neither message nor effect")
	}
	if eff := cond.Effect; eff != nil {
		for _, token := range eff.Items {
			name := strings.TrimLeft(token, "+-")
			if name == "" {
				return fmt.Errorf("malformed item token %q", token)
			}
		}
		switch eff.Status {
		case "", types.StatusAlive, types.StatusDead, types.StatusWin:
		default:
			return fmt.Errorf("unknown status %q", eff.Status)
		}
	}
	return nil
}
