package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fardog/advtxt/engine"
	"github.com/fardog/advtxt/types"
)

// rawLine stores an unstyled output line with its classification so
// lines can be re-wrapped and re-styled on terminal resize.
type rawLine struct {
	text    string
	kind    lineKind
	isInput bool
}

// playerInfo is the status-bar snapshot taken after each turn.
type playerInfo struct {
	mapName string
	x, y    int
	status  types.Status
	items   int
	valid   bool
}

// turnMsg carries one completed turn into the Update loop.
type turnMsg struct {
	input   string // echoed player input, empty for the opening turn
	replies []string
	player  playerInfo
}

// Model is the Bubble Tea model for a single-player advtxt session.
type Model struct {
	engine *engine.Engine
	player string

	viewport viewport.Model
	input    textinput.Model
	history  *history

	rawLines []rawLine
	info     playerInfo

	width    int
	height   int
	ready    bool
	quitting bool
}

// New creates a TUI model for the named player.
func New(eng *engine.Engine, player string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = stylePrompt

	return Model{
		engine:  eng,
		player:  player,
		input:   ti,
		history: newHistory(100),
	}
}

// Run starts the Bubble Tea program and blocks until the player quits.
func Run(eng *engine.Engine, player string) error {
	p := tea.NewProgram(New(eng, player), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init submits an opening "look" so the player sees their room before
// typing anything.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.submit("look", false))
}

// submit runs one turn off the Update loop and delivers the replies as
// a turnMsg. The engine serializes turns per player, so input typed
// while a turn is in flight queues behind it.
func (m Model) submit(input string, echo bool) tea.Cmd {
	eng, player := m.engine, m.player
	return func() tea.Msg {
		msg := turnMsg{replies: []string{}}
		if echo {
			msg.input = input
		}
		eng.Submit(&types.Command{
			Raw:        input,
			PlayerName: player,
			Done: func(cmd *types.Command) {
				msg.replies = cmd.Replies
				if cmd.Player != nil {
					msg.player = playerInfo{
						mapName: cmd.Player.Map,
						x:       cmd.Player.X,
						y:       cmd.Player.Y,
						status:  cmd.Player.Status,
						items:   len(cmd.Player.Items),
						valid:   true,
					}
				}
			},
		})
		return msg
	}
}

// Update handles key presses, resizes, and completed turns.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // status bar + input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if line, ok := m.history.older(); ok {
				m.input.SetValue(line)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			line, ok := m.history.newer()
			m.input.SetValue(line)
			if ok {
				m.input.CursorEnd()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case turnMsg:
		m.appendTurn(msg)
		if msg.player.valid {
			m.info = msg.player
		}
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.push(input)

	if input == "/quit" || input == "/exit" {
		m.quitting = true
		return m, tea.Quit
	}

	return m, m.submit(input, true)
}

// appendTurn adds a completed turn's lines and refreshes the viewport.
func (m *Model) appendTurn(msg turnMsg) {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + msg.input, isInput: true})
	}
	for _, line := range msg.replies {
		m.rawLines = append(m.rawLines, rawLine{text: line, kind: classify(line)})
	}
	m.rawLines = append(m.rawLines, rawLine{})
	m.refreshViewport()
}

// refreshViewport re-wraps and re-styles the narrative at the current
// width.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}
		wrapped := wordWrap(rl.text, width)
		if rl.isInput {
			styled = append(styled, styleEcho.Render(wrapped))
		} else {
			styled = append(styled, renderKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text at word boundaries to fit within width.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var b strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(text) {
		if i == 0 {
			b.WriteString(word)
			lineLen = len(word)
			continue
		}
		if lineLen+1+len(word) > width {
			b.WriteString("\n")
			b.WriteString(word)
			lineLen = len(word)
		} else {
			b.WriteString(" ")
			b.WriteString(word)
			lineLen += 1 + len(word)
		}
	}
	return b.String()
}

// View renders viewport, status bar, and input line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// viewportKeyMap disables Up/Down in the viewport; those keys recall
// input history instead.
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
