package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/beamforge/internal/levels"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the campaign levels",
	Long: `Shows every loaded level in unlock order, with its size, test case
count and prerequisites. Levels whose prerequisites are missing from the
catalog are reported at the end.`,
	Run: runLevels,
}

func runLevels(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger := newLogger(cfg, os.Stderr)
	tree := levels.NewTree(mustCatalog(cfg, logger))

	ids := tree.Walk()
	if len(ids) == 0 {
		fmt.Println("No levels available.")
		return
	}

	fmt.Println("Levels:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, id := range ids {
		if len(id) > maxIDLen {
			maxIDLen = len(id)
		}
	}

	fmt.Printf("  %-*s  %-20s  %-5s  %-5s  %s\n", maxIDLen, "ID", "Name", "Size", "Cases", "Requires")
	fmt.Printf("  %-*s  %-20s  %-5s  %-5s  %s\n", maxIDLen, "--", "----", "----", "-----", "--------")

	for _, id := range ids {
		def, _ := tree.Get(id)
		requires := "-"
		if len(def.Parents) > 0 {
			requires = strings.Join(def.Parents, ", ")
		}
		fmt.Printf("  %-*s  %-20s  %-5s  %-5d  %s\n",
			maxIDLen, id, def.Name,
			fmt.Sprintf("%dx%d", def.Width, def.Height),
			len(def.Spec.Cases), requires)
	}

	if missing := tree.MissingParents(); len(missing) > 0 {
		fmt.Println()
		fmt.Println("Unreachable (missing prerequisites):")
		keys := make([]string, 0, len(missing))
		for id := range missing {
			keys = append(keys, id)
		}
		sort.Strings(keys)
		for _, id := range keys {
			fmt.Printf("  %s needs %s\n", id, strings.Join(missing[id], ", "))
		}
	}

	fmt.Println()
	fmt.Printf("Roots: %s\n", strings.Join(tree.Roots(), ", "))
	fmt.Println("Run 'beamforge play <id>' to play a level.")
}
