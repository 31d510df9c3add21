package rules

import "github.com/fardog/advtxt/types"

// Select returns the condition that applies for the player: the first,
// in declaration order, whose item predicate the player satisfies. An
// empty predicate is always satisfied and terminates the search.
//
// When no predicate is satisfied the last-declared condition applies as
// the fallback. Content authors order conditions from most-specific to
// least-specific ("you need a key" before "you may pass"), so the final
// entry is the default. Returns nil only for an empty condition list,
// which is a data-authoring error.
func Select(player *types.Player, conditions []types.Condition) *types.Condition {
	if len(conditions) == 0 {
		return nil
	}
	for i := range conditions {
		if player.HasAllItems(conditions[i].Requires) {
			return &conditions[i]
		}
	}
	return &conditions[len(conditions)-1]
}
