package core

// Color represents a foreground color for a screen cell.
// Values map to ANSI 256-color codes in the terminal renderer.
type Color uint8

// Palette entries, named by what they draw.
const (
	ColorDefault Color = iota
	ColorFrame         // borders and empty floor
	ColorWall
	ColorOptic // mirrors and splitters
	ColorDelay
	ColorEmitter
	ColorEmitterOff
	ColorSensorDark
	ColorSensorLit
	ColorBeam
	ColorCursor
	ColorPermanent // tiles the player cannot change
	ColorText
	ColorOK
	ColorFail
)

// Cell is one character of a Screen together with its color.
type Cell struct {
	Rune  rune
	Color Color
}
