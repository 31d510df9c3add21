// Package rules implements attribute matching and availability selection
// over a room's declarative attribute list.
package rules

import "github.com/fardog/advtxt/types"

// Match selects the attribute a parsed command triggers, first match
// wins over declaration order. Per attribute, in priority order:
//
//  1. "go" against an exit whose name is the object,
//  2. "get" against a get attribute whose item is the object,
//  3. any other command attribute whose name is the verb.
//
// Returns nil when no attribute matches.
func Match(attrs []types.Attribute, verb, object string) *types.Attribute {
	for i := range attrs {
		attr := &attrs[i]
		switch {
		case verb == types.VerbGo && attr.Type == types.AttrExit && attr.Name == object:
			return attr
		case verb == types.VerbGet && attr.Name == types.VerbGet && attr.Item == object:
			return attr
		case attr.Type == types.AttrCommand && attr.Name != types.VerbGet && attr.Name == verb:
			return attr
		}
	}
	return nil
}

// EnterAttribute returns the attribute evaluated when a player enters a
// room. An authored "enter" command attribute takes precedence and fully
// replaces the default announcement; otherwise a synthetic attribute
// carrying the room description is returned.
func EnterAttribute(room *types.Room) *types.Attribute {
	for i := range room.Attributes {
		attr := &room.Attributes[i]
		if attr.Type == types.AttrCommand && attr.Name == types.EnterAttr {
			return attr
		}
	}
	return &types.Attribute{
		Type:       types.AttrCommand,
		Name:       types.EnterAttr,
		Conditions: []types.Condition{{Message: room.Description}},
	}
}

// Exits returns the names of a room's exit attributes in declaration
// order.
func Exits(room *types.Room) []string {
	var names []string
	for _, attr := range room.Attributes {
		if attr.Type == types.AttrExit {
			names = append(names, attr.Name)
		}
	}
	return names
}
