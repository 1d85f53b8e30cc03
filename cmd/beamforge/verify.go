package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/beamforge/internal/storage"
	"github.com/vovakirdan/beamforge/internal/verify"
)

var flagDryRun bool

var verifyCmd = &cobra.Command{
	Use:   "verify <submission.yaml>...",
	Short: "Verify signed submissions and record solutions",
	Long: `Check each submission's signature, re-grade its board offline and,
when the board solves its level, record the solution in the database.

Exit status is 1 if any submission was rejected or failed to record.

Examples:
  beamforge verify detour.sub.yaml
  beamforge verify inbox/*.yaml --dry-run`,
	Args: cobra.MinimumNArgs(1),
	Run:  runVerify,
}

func init() {
	verifyCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Grade without recording accepted solutions")
}

func runVerify(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg, os.Stderr)
	signer := mustSigner(cfg)
	cat := mustCatalog(cfg, logger)

	opts := verify.Options{MaxTicks: cfg.Sim.MaxTicks, Logger: logger}
	if !flagDryRun {
		store, err := storage.Open(storePath(cfg))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening solutions database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		opts.Saver = store
	}
	v := verify.NewVerifier(signer, cat, opts)

	failed := false
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("%s: error: %v\n", path, err)
			failed = true
			continue
		}
		sub, err := verify.DecodeSubmission(data)
		if err != nil {
			fmt.Printf("%s: error: %v\n", path, err)
			failed = true
			continue
		}

		out, err := v.Verify(sub)
		if err != nil {
			fmt.Printf("%s: rejected: %v\n", path, err)
			failed = true
			continue
		}

		verdict := "unsolved"
		if out.Accepted() {
			verdict = "accepted"
			if out.Saved {
				verdict = "recorded"
			}
		}
		fmt.Printf("%s: %s %s/%s %s cost=%d id=%s\n",
			path, verdict, out.LevelID, out.Player, out.Result, out.Cost, out.ID)
	}

	if failed {
		os.Exit(1)
	}
}
