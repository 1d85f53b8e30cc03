package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/beamforge/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration file",
	Long: `Write the built-in default configuration so it can be edited.
Without a path the file goes to ~/.beamforge/beamforge.yaml. Existing files
are never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Run:   runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(_ *cobra.Command, args []string) {
	path := config.UserPath(config.FileName)
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "Error: no home directory; pass a path")
		os.Exit(1)
	}

	if err := config.WriteDefault(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", path)
}

func runConfigShow(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	fmt.Printf("sim.tick_period:      %v\n", cfg.Sim.Period())
	fmt.Printf("sim.max_ticks:        %d\n", cfg.Sim.MaxTicks)
	fmt.Printf("log.level:            %s\n", cfg.Log.LogLevel())
	fmt.Printf("levels.dir:           %s\n", orDefault(cfg.Levels.Dir, "(bundled)"))
	fmt.Printf("storage.path:         %s\n", storePath(cfg))
	fmt.Printf("server.addr:          %s\n", cfg.Server.Addr())
	fmt.Printf("server.http_addr:     %s\n", orDefault(cfg.Server.HTTPAddr, "(disabled)"))
	fmt.Printf("server.idle_timeout:  %v\n", cfg.Server.IdleTimeout)
	fmt.Printf("verify.secret_env:    %s\n", cfg.Verify.SecretEnv)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
