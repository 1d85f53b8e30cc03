// Package tui provides the Bubble Tea front end for beamforge: a level
// picker, a board viewer driven by the real-time scheduler, a solution
// scoreboard and the Wish SSH server that serves them remotely.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultFrameRate is how often the viewer redraws. It is independent of the
// simulation tick period, which the scheduler owns.
const DefaultFrameRate = 30

// FrameMsg is sent to trigger a redraw.
type FrameMsg time.Time

// frameCmd returns a Bubble Tea command that sends a frame message after one
// frame interval.
func frameCmd(fps int) tea.Cmd {
	if fps <= 0 {
		fps = DefaultFrameRate
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}
