package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/beamforge/internal/api"
	"github.com/vovakirdan/beamforge/internal/levels"
	"github.com/vovakirdan/beamforge/internal/platform/tui"
	"github.com/vovakirdan/beamforge/internal/storage"
	"github.com/vovakirdan/beamforge/internal/verify"
)

var (
	flagSSHAddr     string
	flagHTTPAddr    string
	flagHostKey     string
	flagIdleTimeout time.Duration
	flagWatch       bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server and HTTP API",
	Long: `Start an SSH server for remote play and an HTTP API for submissions.

Each SSH connection gets its own session with a level picker; the SSH user
name is the player name. Solutions are stored per-server, so everyone
shares the same leaderboard.

The HTTP API accepts signed submissions (POST /v1/submissions), lists
levels and leaderboards, and exposes Prometheus metrics at /metrics. It
needs the shared secret; without it only the SSH server starts.

With --watch and a level directory, edits to level files are picked up
without a restart.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.beamforge/host_key

Examples:
  beamforge serve
  beamforge serve --ssh :2222 --http :8080
  beamforge serve --levels ./levels --watch

Users can connect with:
  ssh localhost -p 2323`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default: from config)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP API address (default: from config; \"off\" disables)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting (default: from config)")
	serveCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload levels when files in the level directory change")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger := newLogger(cfg, os.Stderr)

	sshAddr := flagSSHAddr
	if sshAddr == "" {
		sshAddr = cfg.Server.Addr()
	}
	httpAddr := flagHTTPAddr
	if httpAddr == "" {
		httpAddr = cfg.Server.HTTPAddr
	}
	if httpAddr == "off" {
		httpAddr = ""
	}
	idle := flagIdleTimeout
	if idle <= 0 {
		idle = cfg.Server.IdleTimeout
	}
	hostKey := flagHostKey
	if hostKey == "" {
		hostKey = cfg.Server.HostKey
	}

	cat := mustCatalog(cfg, logger)

	store, err := storage.Open(storePath(cfg))
	if err != nil {
		logger.Warn("could not open solutions database", "error", err)
		// Continue without storage
		store = nil
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	srv, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     sshAddr,
		HostKeyPath: hostKey,
		IdleTimeout: idle,
		Viewer: tui.ViewerOptions{
			Period:   cfg.Sim.Period(),
			MaxTicks: cfg.Sim.MaxTicks,
		},
	}, levels.NewTree(cat), store, logger.WithPrefix("ssh"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	var verifier *verify.Verifier
	if httpAddr != "" {
		verifier = newServeVerifier(cfg.Verify.SecretEnv, cat, cfg.Sim.MaxTicks, store, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.ListenAndServe(ctx)
	})

	if verifier != nil {
		gin.SetMode(gin.ReleaseMode)
		handlers := api.NewHandlers(verifier, store, logger.WithPrefix("http"))
		g.Go(func() error {
			return serveHTTP(ctx, httpAddr, handlers.Router(), logger)
		})
	}

	if flagWatch {
		if cfg.Levels.Dir == "" {
			logger.Warn("--watch needs a level directory; bundled levels are fixed")
		} else {
			w := levels.NewWatcher(cfg.Levels.Dir, logger.WithPrefix("levels"), func(cat *levels.Catalog) {
				srv.SetTree(levels.NewTree(cat))
				if verifier != nil {
					verifier.SetCatalog(cat)
				}
			})
			g.Go(func() error {
				return w.Run(ctx)
			})
		}
	}

	fmt.Printf("Starting beamforge SSH server on %s\n", sshAddr)
	if port := portOf(sshAddr); port != "" {
		fmt.Printf("Connect with: ssh localhost -p %s\n", port)
	}
	if verifier != nil {
		fmt.Printf("HTTP API and /metrics on %s\n", httpAddr)
	}
	fmt.Println("Press Ctrl+C to stop")

	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// newServeVerifier builds the submission verifier, or returns nil when no
// secret is configured.
func newServeVerifier(secretEnv string, cat *levels.Catalog, maxTicks int, store *storage.Store, logger *log.Logger) *verify.Verifier {
	key, err := verify.KeyFromEnv(secretEnv)
	if err != nil {
		logger.Warn("HTTP API disabled", "error", err, "env", secretEnv)
		return nil
	}
	signer, err := verify.NewSigner(key)
	if err != nil {
		logger.Warn("HTTP API disabled", "error", err)
		return nil
	}

	opts := verify.Options{MaxTicks: maxTicks, Logger: logger.WithPrefix("verify")}
	if store != nil {
		opts.Saver = store
	}
	return verify.NewVerifier(signer, cat, opts)
}

// serveHTTP runs the HTTP API until ctx is cancelled.
func serveHTTP(ctx context.Context, addr string, router *gin.Engine, logger *log.Logger) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP API", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// portOf returns the port part of a host:port address.
func portOf(addr string) string {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return ""
	}
	return port
}
