// Package effects applies a selected availability condition to the
// turn's player snapshot. Every mutation marks the persistence category
// it dirtied; nothing here touches storage.
package effects

import (
	"strings"

	"github.com/fardog/advtxt/types"
)

// Apply applies cond to the command's player and appends its message.
// The message is emitted whether or not the condition carries an effect.
func Apply(cmd *types.Command, cond *types.Condition) {
	if cond == nil {
		return
	}

	if eff := cond.Effect; eff != nil {
		player := cmd.Player

		if eff.Move != nil {
			player.X += eff.Move.X
			player.Y += eff.Move.Y
			cmd.Dirty.Position = true
			cmd.Dirty.AnnounceRoom = true
		}

		if len(eff.Items) > 0 {
			for _, token := range eff.Items {
				applyItem(player, token)
			}
			cmd.Dirty.Items = true
		}

		if eff.Status != "" && eff.Status != player.Status {
			player.Status = eff.Status
			cmd.Dirty.Status = true
		}
	}

	if cond.Message != "" {
		cmd.Reply(cond.Message)
	}
}

// applyItem interprets one item delta token: "-item" removes, "+item"
// or a bare name adds. Both directions are idempotent set operations.
func applyItem(player *types.Player, token string) {
	switch {
	case strings.HasPrefix(token, "-"):
		player.RemoveItem(token[1:])
	case strings.HasPrefix(token, "+"):
		player.AddItem(token[1:])
	default:
		player.AddItem(token)
	}
}
