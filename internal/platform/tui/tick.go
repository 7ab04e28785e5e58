// Package tui provides the Bubble Tea inspector for running games in a
// terminal, and the Wish SSH server that serves it to remote sessions.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger one presentation. Gen identifies the tick loop
// that produced it, so a stale loop left behind by pause or restart dies out.
type TickMsg struct {
	Gen  int
	Time time.Time
}

// tickCmd returns a Bubble Tea command that sends a tick after one frame at fps.
func tickCmd(fps, gen int) tea.Cmd {
	if fps <= 0 {
		fps = 60
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Gen: gen, Time: t}
	})
}

var tickLoops atomic.Int64

// newLoop returns a generation no other tick loop in the process uses.
func newLoop() int {
	return int(tickLoops.Add(1))
}
