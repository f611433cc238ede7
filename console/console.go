package console

import (
	"strings"
	"sync"
)

/*
Consoles receive the events of the simulation: process start and exit,
traps and the final summary. Messages may hold several lines; empty
lines are dropped. Every console keeps the most recent lines in a
History so a late viewer (the gui pages refresh, the run summary) can
replay them.
*/

// Console is the sink for simulator messages. Implementations are safe
// for concurrent use by the CPUs.
type Console interface {
	WriteConsole(msg string) error
}

// DefaultHistory is the number of lines kept by a console history.
const DefaultHistory = 256

// History is a bounded FIFO of console lines: once full, adding a line
// drops the oldest one.
type History struct {
	mu      sync.Mutex
	items   []string
	maxSize int
}

// NewHistory returns an empty history keeping up to maxSize lines.
func NewHistory(maxSize int) *History {
	if maxSize <= 0 {
		maxSize = DefaultHistory
	}
	return &History{maxSize: maxSize}
}

// Add appends line, evicting the oldest line when full.
func (h *History) Add(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.items) == h.maxSize {
		h.items = h.items[1:]
	}
	h.items = append(h.items, line)
}

// Lines returns a copy of the kept lines, oldest first.
func (h *History) Lines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.items...)
}

// Len returns the number of kept lines.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.items)
}

// splitLines breaks msg on newlines and drops the empty ones.
func splitLines(msg string) []string {
	var lines []string
	for _, line := range strings.Split(msg, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
