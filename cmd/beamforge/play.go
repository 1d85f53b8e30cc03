package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/beamforge/internal/config"
	"github.com/vovakirdan/beamforge/internal/levels"
	"github.com/vovakirdan/beamforge/internal/levels/formats"
	"github.com/vovakirdan/beamforge/internal/platform/tui"
	"github.com/vovakirdan/beamforge/internal/storage"
)

var (
	flagPlayer   string
	flagBoard    string
	flagSpeed    string
	flagLogFile  string
	flagNoRecord bool
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play interactively",
	Long: `Start the interactive board editor.

Without a level, a picker lists the campaign; levels unlock once their
prerequisites are solved. With a level, the editor opens it directly.

Controls:
  Arrows/hjkl   - Move cursor
  Tab           - Next tile
  Enter         - Place tile
  O             - Rotate tile
  X/Backspace   - Erase tile
  Space         - Run/pause
  N             - Single step while paused
  +/-           - Faster/slower
  R             - Reset simulation
  G             - Grade offline (records solved boards)
  Ctrl+S        - Save board to ~/.beamforge/boards
  Esc/B         - Back to picker
  Q/Ctrl+C      - Quit

Examples:
  beamforge play
  beamforge play detour
  beamforge play detour --board ./detour.yaml
  beamforge play --speed fast`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayer, "player", "", "Player name for recorded solutions (default: $USER)")
	playCmd.Flags().StringVar(&flagBoard, "board", "", "Board file to load (single level only)")
	playCmd.Flags().StringVar(&flagSpeed, "speed", "", "Speed preset: slow, normal, fast, turbo")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file while playing")
	playCmd.Flags().BoolVar(&flagNoRecord, "no-record", false, "Do not open the solutions database")
}

func runPlay(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	if flagSpeed != "" {
		cfg.Sim.Speed = config.SpeedPreset(flagSpeed)
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	// The TUI owns the terminal, so logs go to a file or nowhere.
	logger := log.New(io.Discard)
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = newLogger(cfg, f)
	}

	tree := levels.NewTree(mustCatalog(cfg, logger))

	player := flagPlayer
	if player == "" {
		player = defaultPlayer()
	}

	// Get terminal size
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// Open solution storage
	var store *storage.Store
	if !flagNoRecord {
		var err error
		store, err = storage.Open(storePath(cfg))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open solutions database: %v\n", err)
			// Continue without storage - the editor still works
			store = nil
		}
	}

	opts := tui.ViewerOptions{
		Store:    store,
		Player:   player,
		Period:   cfg.Sim.Period(),
		MaxTicks: cfg.Sim.MaxTicks,
		Width:    width,
		Height:   height,
		Logger:   logger,
	}

	var runErr error
	if len(args) == 0 {
		if flagBoard != "" {
			fmt.Fprintln(os.Stderr, "Warning: --board needs a level; ignoring it")
		}
		runErr = tui.RunSession(tree, store, player, opts)
	} else {
		runErr = playLevel(tree, args[0], opts)
	}

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}

// playLevel opens a single level, optionally starting from a saved board.
func playLevel(tree *levels.Tree, id string, opts tui.ViewerOptions) error {
	def, ok := tree.Get(id)
	if !ok {
		return fmt.Errorf("unknown level %q (run 'beamforge levels' to list them)", id)
	}

	if flagBoard != "" {
		data, err := os.ReadFile(flagBoard)
		if err != nil {
			return fmt.Errorf("read board: %w", err)
		}
		file, err := formats.DecodeBoard(data)
		if err != nil {
			return fmt.Errorf("board %s: %w", flagBoard, err)
		}
		if file.Level != "" && file.Level != id {
			return fmt.Errorf("board %s was saved for level %s", flagBoard, file.Level)
		}
		opts.Board = file.Board
	}

	return tui.Run(def, opts)
}
