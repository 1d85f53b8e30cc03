package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/beamforge/internal/levels/formats"
)

//go:embed assets/*.yaml
var bundled embed.FS

// Loader handles loading levels from a file system.
type Loader struct {
	FS     fs.FS
	Logger *log.Logger
}

// NewLoader creates a new level loader over fsys. A nil logger falls back to
// the package default logger.
func NewLoader(fsys fs.FS, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{FS: fsys, Logger: logger}
}

// Bundled loads the campaign compiled into the binary.
func Bundled(logger *log.Logger) (*Catalog, error) {
	sub, err := fs.Sub(bundled, "assets")
	if err != nil {
		return nil, fmt.Errorf("bundled levels: %w", err)
	}
	return NewLoader(sub, logger).LoadCatalog()
}

// LoadAll recursively scans and loads all level files.
// A malformed file is logged and skipped; for duplicate IDs the first file
// in walk order wins. Returns levels sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]Definition, error) {
	var defs []Definition
	seen := make(map[string]string)

	err := fs.WalkDir(l.FS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(path.Ext(p))
		if !isSupportedExtension(ext) {
			return nil
		}

		def, err := l.LoadFile(p)
		if err != nil {
			l.Logger.Warn("skipping level asset", "path", p, "error", err)
			return nil
		}
		if first, dup := seen[def.ID]; dup {
			l.Logger.Warn("duplicate level id", "id", def.ID, "path", p, "first", first)
			return nil
		}
		seen[def.ID] = p

		defs = append(defs, def)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking levels: %w", err)
	}

	sort.Slice(defs, func(i, j int) bool {
		return defs[i].ID < defs[j].ID
	})

	l.Logger.Debug("levels loaded", "count", len(defs))
	return defs, nil
}

// LoadCatalog loads every level and wraps them in a Catalog.
func (l *Loader) LoadCatalog() (*Catalog, error) {
	defs, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	return NewCatalog(defs)
}

// LoadFile loads a single level file.
func (l *Loader) LoadFile(p string) (Definition, error) {
	data, err := fs.ReadFile(l.FS, p)
	if err != nil {
		return Definition{}, fmt.Errorf("reading file %s: %w", p, err)
	}

	ext := strings.ToLower(path.Ext(p))
	parsed, err := parseByExtension(data, ext)
	if err != nil {
		return Definition{}, fmt.Errorf("parsing file %s: %w", p, err)
	}
	return fromFormat(parsed, p), nil
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (formats.Level, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	default:
		return formats.Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
