package formats

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/beamforge/internal/beam"
	"gopkg.in/yaml.v3"
)

// BoardVersion is the board file version written by EncodeBoard.
//
// Version history:
//   - 1: rows of glyphs, origin at (0,0)
//   - 2: explicit tile list
const BoardVersion = 2

// VersionError is returned for board files this build cannot read.
type VersionError struct {
	Got  int
	Want int
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("unsupported board version %d (want <= %d)", e.Got, e.Want)
}

// ErrBadGlyph is returned when a version 1 board row holds an unknown glyph.
var ErrBadGlyph = errors.New("unknown board glyph")

// YAMLBoard represents the YAML structure for a saved board.
type YAMLBoard struct {
	Version int        `yaml:"version"`
	Level   string     `yaml:"level,omitempty"`
	Tiles   []YAMLTile `yaml:"tiles,omitempty"` // version 2
	Rows    []string   `yaml:"rows,omitempty"`  // version 1
}

// BoardFile is a decoded board together with the level it was built for.
type BoardFile struct {
	Level string
	Board *beam.Board
}

// EncodeBoard serializes the static placements of b at the current version.
func EncodeBoard(levelID string, b *beam.Board) ([]byte, error) {
	yb := YAMLBoard{Version: BoardVersion, Level: levelID}
	tiles := b.Tiles()
	for _, p := range b.Positions() {
		if t, ok := tiles[p]; ok {
			yb.Tiles = append(yb.Tiles, tileToYAML(p, t))
		}
	}

	data, err := yaml.Marshal(&yb)
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return data, nil
}

// DecodeBoard parses a board file, migrating older versions.
func DecodeBoard(data []byte) (BoardFile, error) {
	var yb YAMLBoard
	if err := yaml.Unmarshal(data, &yb); err != nil {
		return BoardFile{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	var (
		b   *beam.Board
		err error
	)
	switch yb.Version {
	case 1:
		b, err = decodeRows(yb.Rows)
	case 2:
		b, err = decodeTiles(yb.Tiles)
	default:
		return BoardFile{}, &VersionError{Got: yb.Version, Want: BoardVersion}
	}
	if err != nil {
		return BoardFile{}, fmt.Errorf("board version %d: %w", yb.Version, err)
	}
	return BoardFile{Level: yb.Level, Board: b}, nil
}

func decodeTiles(yts []YAMLTile) (*beam.Board, error) {
	b := beam.NewBoard()
	for _, yt := range yts {
		t, err := parseTile(yt)
		if err != nil {
			return nil, err
		}
		p := beam.P(yt.X, yt.Y)
		if !b.Tile(p).IsEmpty() {
			return nil, invalid("DUPLICATE_POS", "two tiles at %v", p)
		}
		b.Set(p, t)
	}
	return b, nil
}

// glyphTiles maps version 1 glyphs to tiles. Empty cells are '.' or ' '.
var glyphTiles = map[rune]beam.Tile{
	'#':  beam.Wall(),
	'/':  beam.Mirror(false),
	'\\': beam.Mirror(true),
	'x':  beam.Splitter(false),
	'X':  beam.Splitter(true),
	'd':  beam.Delay(),
	'g':  beam.Galvo(),
	'O':  beam.Detector(),
	'^':  beam.Emitter(beam.DirUp),
	'>':  beam.Emitter(beam.DirRight),
	'v':  beam.Emitter(beam.DirDown),
	'<':  beam.Emitter(beam.DirLeft),
}

func decodeRows(rows []string) (*beam.Board, error) {
	b := beam.NewBoard()
	for y, row := range rows {
		for x, r := range []rune(strings.TrimRight(row, " ")) {
			if r == '.' || r == ' ' {
				continue
			}
			t, ok := glyphTiles[r]
			if !ok {
				return nil, fmt.Errorf("%w %q at (%d,%d)", ErrBadGlyph, r, x, y)
			}
			b.Set(beam.P(x, y), t)
		}
	}
	return b, nil
}
