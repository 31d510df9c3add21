package loader

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/fardog/advtxt/types"
)

// registerAPI installs the world-authoring globals. The only entry
// point is room{...}; everything inside it is plain table data.
func registerAPI(L *lua.LState, coll *collector) {
	L.SetGlobal("room", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.rooms = append(coll.rooms, tbl)
		return 0
	}))
}

// compile turns the collected room tables into plain data.
func compile(coll *collector) ([]*types.Room, error) {
	rooms := make([]*types.Room, 0, len(coll.rooms))
	for i, tbl := range coll.rooms {
		room, err := compileRoom(tbl)
		if err != nil {
			return nil, fmt.Errorf("room #%d: %w", i+1, err)
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func compileRoom(tbl *lua.LTable) (*types.Room, error) {
	room := &types.Room{
		X:           getInt(tbl, "x"),
		Y:           getInt(tbl, "y"),
		Map:         getString(tbl, "map"),
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
	}
	if room.Map == "" {
		room.Map = "default"
	}

	attrs := getTable(tbl, "attributes")
	if attrs != nil {
		var err error
		attrs.ForEach(func(_, v lua.LValue) {
			if err != nil {
				return
			}
			attrTbl, ok := v.(*lua.LTable)
			if !ok {
				err = fmt.Errorf("attribute entries must be tables, got %s", v.Type())
				return
			}
			attr, aerr := compileAttribute(attrTbl)
			if aerr != nil {
				err = aerr
				return
			}
			room.Attributes = append(room.Attributes, attr)
		})
		if err != nil {
			return nil, fmt.Errorf("room %q: %w", room.Name, err)
		}
	}
	return room, nil
}

func compileAttribute(tbl *lua.LTable) (types.Attribute, error) {
	attr := types.Attribute{
		Type: types.AttributeType(getString(tbl, "type")),
		Name: getString(tbl, "name"),
		Item: getString(tbl, "item"),
	}

	conds := getTable(tbl, "conditions")
	if conds != nil {
		var err error
		conds.ForEach(func(_, v lua.LValue) {
			if err != nil {
				return
			}
			condTbl, ok := v.(*lua.LTable)
			if !ok {
				err = fmt.Errorf("condition entries must be tables, got %s", v.Type())
				return
			}
			attr.Conditions = append(attr.Conditions, compileCondition(condTbl))
		})
		if err != nil {
			return attr, fmt.Errorf("attribute %q: %w", attr.Name, err)
		}
	}
	return attr, nil
}

func compileCondition(tbl *lua.LTable) types.Condition {
	cond := types.Condition{
		Requires: stringList(getTable(tbl, "requires")),
		Message:  getString(tbl, "message"),
	}
	if effTbl := getTable(tbl, "effect"); effTbl != nil {
		cond.Effect = compileEffect(effTbl)
	}
	return cond
}

func compileEffect(tbl *lua.LTable) *types.Effect {
	eff := &types.Effect{
		Items:  stringList(getTable(tbl, "items")),
		Status: types.Status(getString(tbl, "status")),
	}
	if moveTbl := getTable(tbl, "move"); moveTbl != nil {
		eff.Move = &types.Delta{
			X: getInt(moveTbl, "x"),
			Y: getInt(moveTbl, "y"),
		}
	}
	return eff
}

func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

func getInt(tbl *lua.LTable, key string) int {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

func stringList(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var list []string
	tbl.ForEach(func(_, v lua.LValue) {
		if s, ok := v.(lua.LString); ok {
			list = append(list, string(s))
		}
	})
	return list
}
