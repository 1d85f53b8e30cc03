package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/beamforge/internal/config"
	"github.com/vovakirdan/beamforge/internal/levels/formats"
	"github.com/vovakirdan/beamforge/internal/verify"
)

var (
	flagSignLevel  string
	flagSignPlayer string
	flagSignOut    string
)

var signCmd = &cobra.Command{
	Use:   "sign <board.yaml>",
	Short: "Sign a board for submission",
	Long: `Wrap a saved board in a submission file signed with the shared secret.
The secret is read from the environment variable named by verify.secret_env
in the configuration (BEAMFORGE_SECRET by default).

The level is taken from the board file unless --level is given.

Examples:
  beamforge sign ~/.beamforge/boards/detour.yaml > detour.sub.yaml
  beamforge sign ./board.yaml --level detour --player alice -o sub.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runSign,
}

func init() {
	signCmd.Flags().StringVar(&flagSignLevel, "level", "", "Level ID (default: from the board file)")
	signCmd.Flags().StringVar(&flagSignPlayer, "player", "", "Player name (default: $USER)")
	signCmd.Flags().StringVarP(&flagSignOut, "output", "o", "", "Write the submission here instead of stdout")
}

func runSign(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	signer := mustSigner(cfg)

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading board: %v\n", err)
		os.Exit(1)
	}
	file, err := formats.DecodeBoard(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level := flagSignLevel
	if level == "" {
		level = file.Level
	}
	if level == "" {
		fmt.Fprintln(os.Stderr, "Error: board file names no level; pass --level")
		os.Exit(1)
	}

	player := flagSignPlayer
	if player == "" {
		player = defaultPlayer()
	}

	sub := verify.Submission{LevelID: level, Player: player, Board: data}
	sub.Signature = signer.Sign(sub)

	out, err := verify.EncodeSubmission(sub)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flagSignOut == "" {
		os.Stdout.Write(out)
		return
	}
	if err := os.WriteFile(flagSignOut, out, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing submission: %v\n", err)
		os.Exit(1)
	}
}

// mustSigner builds the HMAC signer from the configured environment variable.
func mustSigner(cfg config.Config) *verify.Signer {
	key, err := verify.KeyFromEnv(cfg.Verify.SecretEnv)
	if err == nil {
		var signer *verify.Signer
		if signer, err = verify.NewSigner(key); err == nil {
			return signer
		}
	}
	fmt.Fprintf(os.Stderr, "Error: %v (set %s)\n", err, cfg.Verify.SecretEnv)
	os.Exit(1)
	return nil
}
