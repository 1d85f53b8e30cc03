package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/beamforge/internal/levels"
	"github.com/vovakirdan/beamforge/internal/platform/tui"
	"github.com/vovakirdan/beamforge/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresTUI   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [level]",
	Short: "Show the best solutions for a level",
	Long: `Display the best recorded solutions for a level, ranked by cost and
then latency. Without a level, prints a summary of every level.

Examples:
  beamforge scores detour
  beamforge scores detour --limit 25
  beamforge scores --tui`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of solutions to show")
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse the leaderboards interactively")
}

func runScores(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg, os.Stderr)
	cat := mustCatalog(cfg, logger)

	// Open solution storage
	store, err := storage.Open(storePath(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening solutions database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresTUI {
		ids := levels.NewTree(cat).Walk()
		if len(args) == 1 {
			ids = []string{args[0]}
		}
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		if err := tui.RunScoreboard(store, ids, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	if len(args) == 0 {
		printSummary(store, levels.NewTree(cat))
		return
	}

	levelID := args[0]
	def, ok := cat.Get(levelID)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown level %q\n", levelID)
		fmt.Fprintln(os.Stderr, "Run 'beamforge levels' to see available levels.")
		return
	}

	sols, err := store.TopSolutions(levelID, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving solutions: %v\n", err)
		return
	}

	fmt.Printf("Best Solutions - %s\n", def.Name)
	fmt.Println()

	if len(sols) == 0 {
		fmt.Println("No solutions recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'beamforge play %s' to claim the top spot!\n", levelID)
		return
	}

	fmt.Printf("  %-4s  %-14s  %-5s  %-7s  %s\n", "Rank", "Player", "Cost", "Latency", "Date")
	fmt.Printf("  %-4s  %-14s  %-5s  %-7s  %s\n", "----", "------", "----", "-------", "----")

	for i, s := range sols {
		fmt.Printf("  %-4d  %-14s  %-5d  %-7d  %s\n",
			i+1, s.Player, s.Cost, s.Latency, s.CreatedAt.Format("2006-01-02 15:04"))
	}
}

// printSummary prints one line of leaderboard statistics per level.
func printSummary(store *storage.Store, tree *levels.Tree) {
	stats, err := store.GetAllLevelStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving statistics: %v\n", err)
		return
	}

	fmt.Printf("  %-16s  %-9s  %-7s  %-10s  %s\n", "Level", "Solutions", "Players", "Best", "Last solved")
	fmt.Printf("  %-16s  %-9s  %-7s  %-10s  %s\n", "-----", "---------", "-------", "----", "-----------")
	for _, id := range tree.Walk() {
		st, ok := stats[id]
		if !ok {
			fmt.Printf("  %-16s  %-9d  %-7d  %-10s  %s\n", id, 0, 0, "-", "-")
			continue
		}
		fmt.Printf("  %-16s  %-9d  %-7d  %-10s  %s\n",
			id, st.Solutions, st.Players,
			fmt.Sprintf("%d/%d", st.BestCost, st.BestLatency),
			st.LastSolved.Format("2006-01-02 15:04"))
	}
}
