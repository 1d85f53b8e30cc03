package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/beamforge/internal/beam"
	"github.com/vovakirdan/beamforge/internal/core"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:    lipgloss.NewStyle(),
	core.ColorFrame:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	core.ColorWall:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorOptic:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorDelay:      lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorEmitter:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	core.ColorEmitterOff: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorSensorDark: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorSensorLit:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	core.ColorBeam:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorCursor:     lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")),
	core.ColorPermanent:  lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Faint(true),
	core.ColorText:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	core.ColorOK:         lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	core.ColorFail:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// cellColor picks the palette entry for a board cell.
func cellColor(c beam.Cell, permanent bool) core.Color {
	switch c.Tile.Kind {
	case beam.KindWall:
		if permanent {
			return core.ColorPermanent
		}
		return core.ColorWall
	case beam.KindMirror, beam.KindSplitter:
		if permanent {
			return core.ColorPermanent
		}
		return core.ColorOptic
	case beam.KindDelay:
		return core.ColorDelay
	case beam.KindEmitter:
		if c.Off {
			return core.ColorEmitterOff
		}
		return core.ColorEmitter
	case beam.KindDetector, beam.KindGalvo:
		if c.Lit {
			return core.ColorSensorLit
		}
		return core.ColorSensorDark
	}
	if !c.Beams.Empty() {
		return core.ColorBeam
	}
	return core.ColorFrame
}

// boardView describes how to draw one board onto a screen.
type boardView struct {
	Area       beam.Rect
	Permanent  map[beam.Pos]beam.Tile
	Cursor     beam.Pos
	ShowCursor bool
}

// drawBoard draws b inside a frame whose top-left corner is at (ox, oy).
// Returns the frame rectangle. Cells that do not fit are clipped.
func drawBoard(s *core.Screen, ox, oy int, b *beam.Board, v boardView) core.Rect {
	w := v.Area.Max.X - v.Area.Min.X + 1
	h := v.Area.Max.Y - v.Area.Min.Y + 1
	frame := core.NewRect(ox, oy, w+2, h+2)
	s.DrawBox(frame, core.ColorFrame)

	for y := v.Area.Min.Y; y <= v.Area.Max.Y; y++ {
		for x := v.Area.Min.X; x <= v.Area.Max.X; x++ {
			p := beam.P(x, y)
			c := b.Get(p)
			_, perm := v.Permanent[p]
			color := cellColor(c, perm)
			if v.ShowCursor && p == v.Cursor {
				color = core.ColorCursor
			}
			s.SetColored(ox+1+x-v.Area.Min.X, oy+1+y-v.Area.Min.Y, beam.Glyph(c), color)
		}
	}
	return frame
}
