// Package formats provides level and board file parsers.
package formats

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/beamforge/internal/beam"
	"gopkg.in/yaml.v3"
)

// DefaultMaxTicks is the per-case tick budget used when a level does not set one.
const DefaultMaxTicks = 64

// ValidationError contains details about a rejected level file.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func invalid(code, format string, args ...any) error {
	return ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	ID              string               `yaml:"id"`
	Name            string               `yaml:"name"`
	Parents         []string             `yaml:"parents,omitempty"`
	Size            YAMLSize             `yaml:"size"`
	MaxTicks        int                  `yaml:"max_ticks,omitempty"`
	Permanent       []YAMLTile           `yaml:"permanent,omitempty"`
	Dynamic         []YAMLElement        `yaml:"dynamic"`
	StaticDetectors []YAMLStaticDetector `yaml:"static_detectors,omitempty"`
	Cases           []string             `yaml:"cases"`
	Metadata        map[string]string    `yaml:"metadata,omitempty"`
}

// YAMLSize represents the playfield dimensions.
type YAMLSize struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// YAMLTile represents a single placed tile.
type YAMLTile struct {
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Tile   string `yaml:"tile"`
	Dir    string `yaml:"dir,omitempty"`    // emitters
	Orient string `yaml:"orient,omitempty"` // mirrors and splitters: "/" or "\"
}

// YAMLElement represents a dynamic laser or detector slot.
type YAMLElement struct {
	Kind string `yaml:"kind"`
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
	Dir  string `yaml:"dir,omitempty"`
}

// YAMLStaticDetector represents a detector with a fixed expectation.
type YAMLStaticDetector struct {
	X      int  `yaml:"x"`
	Y      int  `yaml:"y"`
	Expect bool `yaml:"expect"`
}

// Level represents a parsed and validated level.
type Level struct {
	ID        string
	Name      string
	Parents   []string
	Width     int
	Height    int
	MaxTicks  int
	Permanent map[beam.Pos]beam.Tile
	Spec      beam.LevelSpec
	Metadata  map[string]string
}

// ParseYAML parses and validates a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	if strings.TrimSpace(yl.ID) == "" {
		return Level{}, invalid("MISSING_ID", "level has no id")
	}
	if yl.Size.W <= 0 || yl.Size.H <= 0 {
		return Level{}, invalid("BAD_SIZE", "level %s has size %dx%d", yl.ID, yl.Size.W, yl.Size.H)
	}

	maxTicks := yl.MaxTicks
	if maxTicks <= 0 {
		maxTicks = DefaultMaxTicks
	}

	level := Level{
		ID:        yl.ID,
		Name:      yl.Name,
		Parents:   yl.Parents,
		Width:     yl.Size.W,
		Height:    yl.Size.H,
		MaxTicks:  maxTicks,
		Permanent: make(map[beam.Pos]beam.Tile, len(yl.Permanent)),
		Metadata:  yl.Metadata,
	}
	if level.Name == "" {
		level.Name = level.ID
	}
	area := beam.Rect{Min: beam.P(0, 0), Max: beam.P(yl.Size.W-1, yl.Size.H-1)}
	level.Spec.Area = &area

	for _, yt := range yl.Permanent {
		p := beam.P(yt.X, yt.Y)
		if !area.Contains(p) {
			return Level{}, invalid("OUT_OF_AREA", "permanent tile at %v is outside %dx%d", p, yl.Size.W, yl.Size.H)
		}
		tile, err := parseTile(yt)
		if err != nil {
			return Level{}, err
		}
		if _, dup := level.Permanent[p]; dup {
			return Level{}, invalid("DUPLICATE_POS", "two permanent tiles at %v", p)
		}
		level.Permanent[p] = tile
	}

	used := make(map[beam.Pos]bool)
	claim := func(p beam.Pos, what string) error {
		if !area.Contains(p) {
			return invalid("OUT_OF_AREA", "%s at %v is outside %dx%d", what, p, yl.Size.W, yl.Size.H)
		}
		if _, perm := level.Permanent[p]; perm || used[p] {
			return invalid("DUPLICATE_POS", "%s at %v overlaps another element", what, p)
		}
		used[p] = true
		return nil
	}

	for i, ye := range yl.Dynamic {
		p := beam.P(ye.X, ye.Y)
		el := beam.Element{Pos: p}
		switch strings.ToLower(ye.Kind) {
		case "laser", "emitter":
			if ye.Dir == "" {
				return Level{}, invalid("MISSING_DIR", "dynamic laser %d has no direction", i)
			}
			d, ok := beam.ParseDir(ye.Dir)
			if !ok {
				return Level{}, invalid("BAD_DIR", "dynamic laser %d has unknown direction %q", i, ye.Dir)
			}
			el.Kind, el.Dir = beam.ElementLaser, d
		case "detector":
			el.Kind = beam.ElementDetector
		default:
			return Level{}, invalid("BAD_ELEMENT", "dynamic element %d has unknown kind %q", i, ye.Kind)
		}
		if err := claim(p, "dynamic "+ye.Kind); err != nil {
			return Level{}, err
		}
		level.Spec.Dynamic = append(level.Spec.Dynamic, el)
	}

	for _, sd := range yl.StaticDetectors {
		p := beam.P(sd.X, sd.Y)
		if err := claim(p, "static detector"); err != nil {
			return Level{}, err
		}
		level.Spec.StaticDetectors = append(level.Spec.StaticDetectors,
			beam.StaticDetector{Pos: p, Expect: sd.Expect})
	}

	if len(yl.Cases) == 0 {
		return Level{}, invalid("NO_CASES", "level %s declares no test cases", yl.ID)
	}
	for i, raw := range yl.Cases {
		tc, err := parseCase(raw)
		if err != nil {
			return Level{}, invalid("BAD_CASE", "case %d: %v", i, err)
		}
		if len(tc) != len(level.Spec.Dynamic) {
			return Level{}, invalid("CASE_LENGTH", "case %d has %d bits for %d dynamic elements",
				i, len(tc), len(level.Spec.Dynamic))
		}
		level.Spec.Cases = append(level.Spec.Cases, tc)
	}

	return level, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}

// parseCase reads a bit string such as "1010"; spaces and underscores are ignored.
func parseCase(raw string) (beam.TestCase, error) {
	tc := make(beam.TestCase, 0, len(raw))
	for _, r := range raw {
		switch r {
		case '1':
			tc = append(tc, true)
		case '0':
			tc = append(tc, false)
		case ' ', '_':
		default:
			return nil, fmt.Errorf("unexpected character %q in %q", r, raw)
		}
	}
	return tc, nil
}

func parseTile(yt YAMLTile) (beam.Tile, error) {
	kind, ok := beam.ParseKind(yt.Tile)
	if !ok || kind == beam.KindEmpty {
		return beam.Tile{}, invalid("BAD_TILE", "unknown tile %q at (%d,%d)", yt.Tile, yt.X, yt.Y)
	}

	switch kind {
	case beam.KindMirror, beam.KindSplitter:
		orient, ok := parseOrient(yt.Orient)
		if !ok {
			return beam.Tile{}, invalid("BAD_ORIENT", "unknown orientation %q at (%d,%d)", yt.Orient, yt.X, yt.Y)
		}
		return beam.Tile{Kind: kind, Orient: orient}, nil
	case beam.KindEmitter:
		if yt.Dir == "" {
			return beam.Tile{}, invalid("MISSING_DIR", "emitter at (%d,%d) has no direction", yt.X, yt.Y)
		}
		d, ok := beam.ParseDir(yt.Dir)
		if !ok {
			return beam.Tile{}, invalid("BAD_DIR", "unknown direction %q at (%d,%d)", yt.Dir, yt.X, yt.Y)
		}
		return beam.Emitter(d), nil
	default:
		return beam.Tile{Kind: kind}, nil
	}
}

func parseOrient(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "/", "slash":
		return false, true
	case "\\", "backslash":
		return true, true
	default:
		return false, false
	}
}

func formatOrient(orient bool) string {
	if orient {
		return "\\"
	}
	return "/"
}

// tileToYAML is the inverse of parseTile.
func tileToYAML(p beam.Pos, t beam.Tile) YAMLTile {
	yt := YAMLTile{X: p.X, Y: p.Y, Tile: t.Kind.String()}
	switch t.Kind {
	case beam.KindMirror, beam.KindSplitter:
		yt.Orient = formatOrient(t.Orient)
	case beam.KindEmitter:
		yt.Dir = strings.ToLower(t.Dir.String())
	}
	return yt
}
