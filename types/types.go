// Package types defines the shared data structures for the AdvTxt engine.
// Aside from small item-set helpers on Player, this package holds no logic.
package types

// Status is the player lifecycle state.
type Status string

const (
	StatusAlive Status = "alive"
	StatusDead  Status = "dead"
	StatusWin   Status = "win"
)

// AttributeType distinguishes the two kinds of room attributes.
type AttributeType string

const (
	AttrExit    AttributeType = "exit"
	AttrCommand AttributeType = "command"
)

// Canonical verbs the engine itself cares about. Everything else is
// resolved against room attributes.
const (
	VerbGo    = "go"
	VerbGet   = "get"
	VerbReset = "reset"
	VerbLook  = "look"
	VerbExits = "exits"

	// ObjectAll is the "reset all" object.
	ObjectAll = "all"

	// EnterAttr is the name of the attribute consulted at room entry.
	EnterAttr = "enter"
)

// Delta is a movement offset applied to a player's coordinates.
type Delta struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Effect is what a satisfied availability condition does to the player.
// A nil Move means the condition declares no movement; a zero-valued but
// non-nil Move still re-announces the room.
type Effect struct {
	Move   *Delta   `json:"move,omitempty"`
	Items  []string `json:"items,omitempty"` // "+item" / "item" grants, "-item" removes
	Status Status   `json:"status,omitempty"`
}

// Condition is one availability condition on an attribute: an item
// predicate, the message emitted when the condition is selected, and an
// optional effect. An empty Requires list is always satisfied.
type Condition struct {
	Requires []string `json:"requires,omitempty"`
	Message  string   `json:"message"`
	Effect   *Effect  `json:"effect,omitempty"`
}

// Attribute is a room-declared, matchable action. Item is only
// meaningful on "get" attributes, where it names the item matched
// against the command object.
type Attribute struct {
	Type       AttributeType `json:"type"`
	Name       string        `json:"name"`
	Item       string        `json:"item,omitempty"`
	Conditions []Condition   `json:"conditions"`
}

// Room is an authored world location, identified by its (x, y, map)
// coordinate triple. Rooms are read-only to the engine.
type Room struct {
	X           int         `json:"x"`
	Y           int         `json:"y"`
	Map         string      `json:"map"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Attributes  []Attribute `json:"attributes"`
}

// Player is the persistent per-user record. Room is attached for the
// duration of a single turn and never persisted.
type Player struct {
	Username string          `json:"username"`
	Map      string          `json:"map"`
	X        int             `json:"x"`
	Y        int             `json:"y"`
	Status   Status          `json:"status"`
	Items    map[string]bool `json:"items"`
	Room     *Room           `json:"-"`
}

// HasItem reports whether the player holds the named item.
func (p *Player) HasItem(item string) bool {
	return p.Items[item]
}

// HasAllItems reports whether the player holds every listed item.
// An empty list is vacuously satisfied.
func (p *Player) HasAllItems(items []string) bool {
	for _, item := range items {
		if !p.Items[item] {
			return false
		}
	}
	return true
}

// AddItem grants an item. Possession is membership, not a count; adding
// a held item is a no-op. Reports whether the set changed.
func (p *Player) AddItem(item string) bool {
	if p.Items == nil {
		p.Items = map[string]bool{}
	}
	if p.Items[item] {
		return false
	}
	p.Items[item] = true
	return true
}

// RemoveItem removes an item if held. Reports whether the set changed.
func (p *Player) RemoveItem(item string) bool {
	if !p.Items[item] {
		return false
	}
	delete(p.Items, item)
	return true
}

// Dirty tracks which persistence categories a turn has touched.
type Dirty struct {
	Items        bool
	Position     bool
	Status       bool
	AnnounceRoom bool
}

// Command is the per-turn working record. The transport fills Raw,
// PlayerName, and Done; the engine fills the rest. Done fires exactly
// once, after all persistence and before control returns to the caller.
type Command struct {
	Raw        string
	PlayerName string

	Verb   string
	Object string

	Player        *Player
	Replies       []string
	Dirty         Dirty
	StatusAtEntry Status

	// Err carries a fatal storage error into finalize. When set, no
	// further replies are emitted; the error is logged instead.
	Err error

	Done func(*Command)
}

// Reply appends a message to the ordered reply list.
func (c *Command) Reply(message string) {
	c.Replies = append(c.Replies, message)
}
