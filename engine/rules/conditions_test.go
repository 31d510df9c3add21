package rules

import (
	"testing"

	"github.com/fardog/advtxt/types"
)

func TestSelectFirstMatch(t *testing.T) {
	conditions := []types.Condition{
		{Requires: []string{"key"}, Message: "You unlock the door."},
		{Message: "The door is locked."},
	}

	tests := []struct {
		name  string
		items map[string]bool
		want  string
	}{
		{
			name:  "player with key gets the first condition",
			items: map[string]bool{"key": true},
			want:  "You unlock the door.",
		},
		{
			name:  "player without key falls through to the unconditional",
			items: map[string]bool{},
			want:  "The door is locked.",
		},
		{
			name:  "unrelated items do not satisfy the predicate",
			items: map[string]bool{"sword": true},
			want:  "The door is locked.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player := &types.Player{Username: "test", Items: tt.items}
			got := Select(player, conditions)
			if got == nil {
				t.Fatal("Select returned nil")
			}
			if got.Message != tt.want {
				t.Errorf("Select message = %q, want %q", got.Message, tt.want)
			}
		})
	}
}

func TestSelectMultiItemPredicate(t *testing.T) {
	conditions := []types.Condition{
		{Requires: []string{"lamp", "oil"}, Message: "The lamp flares to life."},
		{Requires: []string{"lamp"}, Message: "The lamp is dry."},
		{Message: "It's too dark to see."},
	}

	player := &types.Player{Username: "test", Items: map[string]bool{"lamp": true}}
	if got := Select(player, conditions); got.Message != "The lamp is dry." {
		t.Errorf("partial predicate selected %q", got.Message)
	}

	player.AddItem("oil")
	if got := Select(player, conditions); got.Message != "The lamp flares to life." {
		t.Errorf("full predicate selected %q", got.Message)
	}
}

func TestSelectEmptyPredicateTerminates(t *testing.T) {
	// An unconditional condition ends the search even when a later
	// condition would also be satisfied.
	conditions := []types.Condition{
		{Message: "first"},
		{Message: "second"},
	}
	player := &types.Player{Username: "test"}
	if got := Select(player, conditions); got.Message != "first" {
		t.Errorf("Select message = %q, want %q", got.Message, "first")
	}
}

func TestSelectLastDeclaredFallback(t *testing.T) {
	// No predicate satisfied and no unconditional condition: the
	// last-declared condition applies as the default.
	conditions := []types.Condition{
		{Requires: []string{"crown"}, Message: "The guards bow."},
		{Requires: []string{"badge"}, Message: "The guards nod."},
	}
	player := &types.Player{Username: "test"}
	if got := Select(player, conditions); got.Message != "The guards nod." {
		t.Errorf("Select message = %q, want %q", got.Message, "The guards nod.")
	}
}

func TestSelectEmptyList(t *testing.T) {
	player := &types.Player{Username: "test"}
	if got := Select(player, nil); got != nil {
		t.Errorf("Select on empty list = %v, want nil", got)
	}
}
