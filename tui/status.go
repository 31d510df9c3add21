package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fardog/advtxt/types"
)

// renderStatusBar produces a full-width inverted status line showing
// the player, their coordinates, carried item count, and lifecycle
// state.
func (m Model) renderStatusBar() string {
	if !m.info.valid {
		return styleStatusBar.Width(m.width).Render(" " + m.player)
	}

	left := fmt.Sprintf(" %s @ %s (%d,%d)", m.player, m.info.mapName, m.info.x, m.info.y)
	right := fmt.Sprintf("items: %d | %s ", m.info.items, statusLabel(m.info.status))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return styleStatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func statusLabel(s types.Status) string {
	switch s {
	case types.StatusDead:
		return "DEAD"
	case types.StatusWin:
		return "WON"
	default:
		return "alive"
	}
}
