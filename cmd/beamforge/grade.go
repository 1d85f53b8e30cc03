package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/beamforge/internal/beam"
	"github.com/vovakirdan/beamforge/internal/levels/formats"
	"github.com/vovakirdan/beamforge/internal/sched"
)

var (
	flagShow     bool
	flagMaxTicks int
)

var gradeCmd = &cobra.Command{
	Use:   "grade <level> <board.yaml>",
	Short: "Grade a saved board offline",
	Long: `Run a board against every test case of a level as fast as possible
and print the verdict, cost and board hash. Nothing is recorded.

Exit status is 0 when the board solves the level, 2 when it does not.

Examples:
  beamforge grade detour ~/.beamforge/boards/detour.yaml
  beamforge grade detour ./detour.yaml --show`,
	Args: cobra.ExactArgs(2),
	Run:  runGrade,
}

func init() {
	gradeCmd.Flags().BoolVar(&flagShow, "show", false, "Print the final board")
	gradeCmd.Flags().IntVar(&flagMaxTicks, "max-ticks", 0, "Per-case tick budget override (0 uses config, then the level's)")
}

func runGrade(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg, os.Stderr)
	cat := mustCatalog(cfg, logger)

	def, ok := cat.Get(args[0])
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown level %q\n", args[0])
		fmt.Fprintln(os.Stderr, "Run 'beamforge levels' to see available levels.")
		os.Exit(1)
	}

	data, err := os.ReadFile(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading board: %v\n", err)
		os.Exit(1)
	}
	file, err := formats.DecodeBoard(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	board := def.WithPermanent(file.Board)

	maxTicks := flagMaxTicks
	if maxTicks <= 0 {
		maxTicks = cfg.Sim.MaxTicks
	}

	rep, err := sched.Grade(def, board, maxTicks)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Level:   %s\n", rep.LevelID)
	fmt.Printf("Result:  %s\n", rep.Result)
	fmt.Printf("Cost:    %d\n", rep.Cost)
	fmt.Printf("Ticks:   %d\n", rep.Result.Ticks)
	fmt.Printf("Hash:    %016x\n", rep.BoardHash)

	if flagShow {
		st, err := beam.NewState(board, def.NewLevelState(maxTicks))
		if err == nil {
			_, err = sched.Run(st)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println()
		fmt.Print(beam.RenderASCII(st))
	}

	if !rep.Result.Success() {
		os.Exit(2)
	}
}
