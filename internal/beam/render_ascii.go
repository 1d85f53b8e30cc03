package beam

import (
	"fmt"
	"strings"
)

// Glyph returns the character used to draw a cell.
//
// Legend:
//   - empty '.', beam '-' (horizontal) '|' (vertical) '+' (both)
//   - wall '#', mirror '/' '\', splitter 'x' (/) 'X' (\)
//   - delay 'd' (idle) 'D' (holding)
//   - emitter '^' '>' 'v' '<', gated off 'o'
//   - detector 'O' (dark) '@' (lit), galvo 'g' (dark) 'G' (lit)
func Glyph(c Cell) rune {
	switch c.Tile.Kind {
	case KindWall:
		return '#'
	case KindMirror:
		if c.Tile.Orient {
			return '\\'
		}
		return '/'
	case KindSplitter:
		if c.Tile.Orient {
			return 'X'
		}
		return 'x'
	case KindDelay:
		if c.Held.Empty() {
			return 'd'
		}
		return 'D'
	case KindEmitter:
		if c.Off {
			return 'o'
		}
		return [4]rune{'^', '>', 'v', '<'}[c.Tile.Dir%4]
	case KindDetector:
		if c.Lit {
			return '@'
		}
		return 'O'
	case KindGalvo:
		if c.Lit {
			return 'G'
		}
		return 'g'
	}

	horiz := c.Beams.Has(DirLeft) || c.Beams.Has(DirRight)
	vert := c.Beams.Has(DirUp) || c.Beams.Has(DirDown)
	switch {
	case horiz && vert:
		return '+'
	case horiz:
		return '-'
	case vert:
		return '|'
	default:
		return '.'
	}
}

// RenderASCII creates an ASCII representation of the current state.
// This is used for debugging, testing (golden outputs), and simple visualization.
func RenderASCII(s *State) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Tick: %d | Beams: %d", s.tick, s.index.Len(RoleBeam)))
	if s.level != nil {
		if r, done := s.level.Complete(); done {
			sb.WriteString(" | " + r.String())
		} else {
			sb.WriteString(fmt.Sprintf(" | Case: %d/%d (%d ticks)",
				s.level.CaseIndex()+1, len(s.level.spec.Cases), s.level.CaseTicks()))
		}
	}
	sb.WriteString("\n")

	r := s.bounds
	for y := r.Min.Y; y <= r.Max.Y; y++ {
		for x := r.Min.X; x <= r.Max.X; x++ {
			sb.WriteRune(Glyph(s.board.Get(P(x, y))))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
