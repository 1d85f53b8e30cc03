// beamforge is a beam-circuit puzzle game: route laser beams with mirrors,
// splitters and delays so every detector reads the expected signal.
//
// Usage:
//
//	beamforge levels                     - List the campaign and its unlock tree
//	beamforge play [level]               - Play interactively (picker when no level given)
//	beamforge grade <level> <board.yaml> - Grade a saved board offline
//	beamforge sign <board.yaml>          - Sign a board for submission
//	beamforge verify <submission.yaml>   - Verify and record signed submissions
//	beamforge serve                      - Start the SSH and HTTP servers
//	beamforge scores <level>             - Show the best solutions for a level
//	beamforge config init                - Write the default configuration file
//
// Global flags:
//
//	--config <path>  - Configuration file (default: search ~/.beamforge, ./configs)
//	--db <path>      - Solutions database (default: ~/.beamforge/solutions.db)
//	--levels <dir>   - Level directory (default: bundled campaign)
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/beamforge/internal/config"
	"github.com/vovakirdan/beamforge/internal/levels"
	"github.com/vovakirdan/beamforge/internal/storage"
)

var (
	// Global flags
	flagConfigPath string
	flagDBPath     string
	flagLevelsDir  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "beamforge",
	Short: "Beamforge - beam-circuit puzzles in your terminal",
	Long: `Beamforge is a puzzle game about routing laser beams. Place mirrors,
splitters, delays and walls so that every detector sees the signal each
test case expects, at the lowest cost and latency you can manage.

Available commands:
  levels   - Show the campaign and which levels unlock which
  play     - Play interactively
  grade    - Grade a saved board offline
  sign     - Sign a board for submission
  verify   - Verify signed submissions and record solutions
  serve    - Start the SSH server and HTTP API
  scores   - View the best solutions for a level
  config   - Manage the configuration file

Examples:
  beamforge levels
  beamforge play
  beamforge play detour
  beamforge grade detour ~/.beamforge/boards/detour.yaml
  beamforge serve`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to solutions database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLevelsDir, "levels", "", "Directory of level files (overrides config)")

	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig loads the configuration and applies global flag overrides.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	if flagLevelsDir != "" {
		cfg.Levels.Dir = flagLevelsDir
	}
	return cfg
}

// newLogger builds the process logger from configuration.
func newLogger(cfg config.Config, w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: cfg.Log.Timestamps,
		Prefix:          "beamforge",
	})
	logger.SetLevel(cfg.Log.LogLevel())
	return logger
}

// loadCatalog loads the configured level directory, or the bundled campaign.
func loadCatalog(cfg config.Config, logger *log.Logger) (*levels.Catalog, error) {
	if cfg.Levels.Dir == "" {
		return levels.Bundled(logger)
	}
	return levels.NewLoader(os.DirFS(cfg.Levels.Dir), logger).LoadCatalog()
}

// mustCatalog is loadCatalog that exits on failure.
func mustCatalog(cfg config.Config, logger *log.Logger) *levels.Catalog {
	cat, err := loadCatalog(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading levels: %v\n", err)
		os.Exit(1)
	}
	return cat
}

// storePath resolves the configured database path.
func storePath(cfg config.Config) string {
	if cfg.Storage.Path != "" {
		return cfg.Storage.Path
	}
	return storage.DefaultPath()
}

// defaultPlayer is the local user name, used when --player is not given.
func defaultPlayer() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "player"
}
