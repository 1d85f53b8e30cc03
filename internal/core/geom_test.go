package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(2, 3, 4, 2)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"top-left corner", 2, 3, true},
		{"bottom-right inside", 5, 4, true},
		{"right edge excluded", 6, 3, false},
		{"bottom edge excluded", 2, 5, false},
		{"left of rect", 1, 3, false},
		{"above rect", 2, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tt.x, tt.y, got, tt.expected)
			}
		})
	}

	if r.Right() != 6 || r.Bottom() != 5 {
		t.Errorf("Right/Bottom = %d/%d, expected 6/5", r.Right(), r.Bottom())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tt := range tests {
		if got := Clamp(tt.val, tt.lo, tt.hi); got != tt.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tt.val, tt.lo, tt.hi, got, tt.expected)
		}
	}
}

func TestScrollOffset(t *testing.T) {
	tests := []struct {
		name                     string
		focus, view, total, want int
	}{
		{"fits", 3, 10, 8, 0},
		{"start", 1, 4, 20, 0},
		{"middle", 10, 4, 20, 8},
		{"end", 19, 4, 20, 16},
		{"zero view", 5, 0, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScrollOffset(tt.focus, tt.view, tt.total); got != tt.want {
				t.Errorf("ScrollOffset(%d, %d, %d) = %d, expected %d", tt.focus, tt.view, tt.total, got, tt.want)
			}
		})
	}
}
