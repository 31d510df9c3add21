// Package tui provides a Bubble Tea terminal UI for the advtxt engine.
package tui

// history holds recently submitted input lines for up/down recall.
type history struct {
	lines []string
	cap   int
	pos   int // len(lines) = not navigating
}

func newHistory(cap int) *history {
	h := &history{cap: cap}
	h.pos = 0
	return h
}

// push records a line. A line equal to the most recent one is dropped.
func (h *history) push(line string) {
	if n := len(h.lines); n > 0 && h.lines[n-1] == line {
		h.pos = n
		return
	}
	h.lines = append(h.lines, line)
	if len(h.lines) > h.cap {
		copy(h.lines, h.lines[1:])
		h.lines = h.lines[:len(h.lines)-1]
	}
	h.pos = len(h.lines)
}

// older steps back toward the oldest line. It reports false only when
// the history is empty.
func (h *history) older() (string, bool) {
	if len(h.lines) == 0 {
		return "", false
	}
	if h.pos > 0 {
		h.pos--
	}
	return h.lines[h.pos], true
}

// newer steps forward toward fresh input. Past the newest line it
// reports false, meaning the input field should be cleared.
func (h *history) newer() (string, bool) {
	if h.pos >= len(h.lines) {
		return "", false
	}
	h.pos++
	if h.pos == len(h.lines) {
		return "", false
	}
	return h.lines[h.pos], true
}
