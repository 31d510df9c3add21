package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fardog/advtxt/engine"
)

var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	stylePrompt = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))

	styleEcho = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleExits = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleRejected = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	styleDeath = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	styleVictory = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)
)

// lineKind classifies an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindExits
	kindRejected
	kindDeath
	kindVictory
	kindSystem
)

// classify maps engine replies onto line kinds. Anything not
// recognized is room narrative.
func classify(line string) lineKind {
	switch line {
	case engine.MsgUnknownInput, engine.MsgNoSuchCommand:
		return kindRejected
	case engine.MsgDied, engine.MsgStillDead:
		return kindDeath
	case engine.MsgWon, engine.MsgStillWon:
		return kindVictory
	case engine.MsgReset, engine.MsgResetAll:
		return kindSystem
	}
	if strings.HasPrefix(line, "Available exits:") || line == engine.MsgNoExits {
		return kindExits
	}
	return kindNarrative
}

func renderKind(line string, kind lineKind) string {
	switch kind {
	case kindExits:
		return styleExits.Render(line)
	case kindRejected:
		return styleRejected.Render(line)
	case kindDeath:
		return styleDeath.Render(line)
	case kindVictory:
		return styleVictory.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}
