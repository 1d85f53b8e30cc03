package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vovakirdan/beamforge/internal/levels"
	"github.com/vovakirdan/beamforge/internal/storage"
)

const shutdownGrace = 10 * time.Second

var (
	sshSessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "beamforge_ssh_sessions_active",
		Help: "SSH play sessions currently connected.",
	})
	sshSessionSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "beamforge_ssh_session_duration_seconds",
		Help:    "Length of finished SSH play sessions.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":2323").
	Address string

	// HostKeyPath is the host key file, generated on first start when missing.
	// Empty means ~/.beamforge/host_key.
	HostKeyPath string

	IdleTimeout time.Duration

	// Viewer is the template for every level opened over SSH. Size, player
	// and logger are filled in per connection.
	Viewer ViewerOptions
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":2323",
		IdleTimeout: 10 * time.Minute,
	}
}

// SSHServer serves the level picker over SSH. The SSH user name is the
// player; every connection runs its own simulation scheduler.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	tree   atomic.Pointer[levels.Tree]
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a server over tree. store may be nil, in which case
// progress and solutions are not recorded.
func NewSSHServer(cfg SSHServerConfig, tree *levels.Tree, store *storage.Store, logger *log.Logger) (*SSHServer, error) {
	if tree == nil {
		return nil, errors.New("ssh: no level tree")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	keyPath, err := hostKeyFile(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}

	s := &SSHServer{config: cfg, store: store, logger: logger}
	s.tree.Store(tree)

	s.server, err = wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(keyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(s.newSession),
			s.trackSession,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("ssh: create server: %w", err)
	}
	return s, nil
}

// hostKeyFile resolves the host key location and makes sure its directory
// exists so wish can write a fresh key there.
func hostKeyFile(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("ssh: locate home directory: %w", err)
		}
		path = filepath.Join(home, ".beamforge", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("ssh: create host key directory: %w", err)
	}
	return path, nil
}

// SetTree swaps the level tree for connections made from now on.
// Running sessions keep the tree they started with.
func (s *SSHServer) SetTree(tree *levels.Tree) {
	if tree != nil {
		s.tree.Store(tree)
	}
}

// newSession builds the Bubble Tea model for one connection.
func (s *SSHServer) newSession(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("rejecting session without PTY", "user", sess.User())
		return nil, nil
	}

	opts := s.config.Viewer
	opts.Width, opts.Height = pty.Window.Width, pty.Window.Height
	opts.Logger = s.logger.With("user", sess.User())

	model := NewSessionModel(s.tree.Load(), s.store, sess.User(), opts)
	go func() {
		<-sess.Context().Done()
		model.Close()
	}()

	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// trackSession logs connects and disconnects and keeps the session metrics.
func (s *SSHServer) trackSession(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		remote := sess.RemoteAddr().String()
		start := time.Now()
		sshSessionsActive.Inc()
		s.logger.Info("session started", "user", sess.User(), "remote", remote)

		next(sess)

		sshSessionsActive.Dec()
		elapsed := time.Since(start)
		sshSessionSeconds.Observe(elapsed.Seconds())
		s.logger.Info("session ended", "user", sess.User(), "remote", remote,
			"duration", elapsed.Round(time.Second))
	}
}

// ListenAndServe serves until ctx is cancelled or the listener fails, then
// shuts the server down.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	failed := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			failed <- err
		}
		close(failed)
	}()

	select {
	case err, ok := <-failed:
		if !ok {
			return nil
		}
		s.logger.Error("SSH server stopped", "error", err)
		return fmt.Errorf("ssh: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down SSH server")
		return s.Shutdown()
	}
}

// Shutdown waits up to ten seconds for open sessions to end. The store
// belongs to the caller and stays open.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
