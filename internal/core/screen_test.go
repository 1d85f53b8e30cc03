package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c.Rune != ' ' || c.Color != ColorDefault {
				t.Fatalf("New screen should be blank, got %+v at (%d, %d)", c, x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetColored(5, 5, 'X', ColorBeam)
	if c := s.GetCell(5, 5); c.Rune != 'X' || c.Color != ColorBeam {
		t.Errorf("GetCell(5, 5) = %+v, expected X/beam", c)
	}
	s.Set(5, 5, 'Y')
	if c := s.GetCell(5, 5); c.Rune != 'Y' || c.Color != ColorDefault {
		t.Errorf("Set should reset color, got %+v", c)
	}

	// Out of bounds should be silent
	s.Set(-1, 0, 'A')
	s.Set(100, 0, 'A')
	s.Set(0, -1, 'A')
	s.Set(0, 100, 'A')

	if s.Get(-1, 0) != ' ' || s.Get(100, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(4, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			s.SetColored(x, y, 'X', ColorWall)
		}
	}

	s.Clear()

	if s.String() != "    \n    \n    " {
		t.Errorf("After Clear, got %q", s.String())
	}
	if s.GetCell(1, 1).Color != ColorDefault {
		t.Error("Clear should reset colors")
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(8, 1)
	s.DrawText(2, 0, "tick→9", ColorText)

	if got := s.Row(0); got != "  tick→9" {
		t.Errorf("Row(0) = %q", got)
	}
	// Multi-byte runes occupy one cell each.
	if s.Get(6, 0) != '→' || s.Get(7, 0) != '9' {
		t.Errorf("unexpected cells %q %q", s.Get(6, 0), s.Get(7, 0))
	}

	s.DrawText(6, 0, "clipped", ColorText)
	if got := s.Row(0); got != "  tickcl" {
		t.Errorf("clipped Row(0) = %q", got)
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(4, 3)
	s.DrawBox(NewRect(0, 0, 4, 3), ColorFrame)

	expected := strings.Join([]string{
		"┌──┐",
		"│  │",
		"└──┘",
	}, "\n")
	if s.String() != expected {
		t.Errorf("DrawBox:\n%s\nexpected:\n%s", s.String(), expected)
	}
	if s.GetCell(0, 0).Color != ColorFrame {
		t.Error("box should use the given color")
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(4, 2)
	s.Set(0, 0, 'A')

	s.Resize(6, 3)
	if s.Width() != 6 || s.Height() != 3 {
		t.Fatalf("size = %dx%d, expected 6x3", s.Width(), s.Height())
	}
	if s.Get(0, 0) != ' ' {
		t.Error("Resize should clear the buffer")
	}

	s.Resize(-1, -1)
	if s.Width() != 0 || s.Height() != 0 || s.String() != "" {
		t.Error("negative sizes should clamp to an empty screen")
	}
}

func TestScreenRowOutOfBounds(t *testing.T) {
	s := NewScreen(3, 1)
	if s.Row(5) != "   " {
		t.Errorf("Row out of bounds = %q", s.Row(5))
	}
}
