package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/coindash/internal/config"
	"github.com/vovakirdan/coindash/internal/core"
	"github.com/vovakirdan/coindash/internal/runner"
	"github.com/vovakirdan/coindash/internal/telemetry"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.coindash/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate and Seed apply to every session; Seed 0 picks a fresh seed
	// per connection.
	TickRate int
	Seed     int64

	Runner config.RunnerConfig
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
		Runner:      config.DefaultRunnerConfig(),
	}
}

// sessionGame is the runner owned by one SSH connection.
type sessionGame struct {
	game *runner.Game
	rec  *telemetry.Recorder
}

// SSHServer hosts independent single-player runs over SSH.
type SSHServer struct {
	config  SSHServerConfig
	persist Persistence
	server  *ssh.Server
	logger  *log.Logger
	active  sync.Map // ssh.Session -> sessionGame

	mu       sync.Mutex
	draining bool
	sessions sync.WaitGroup
}

// NewSSHServer creates a new SSH server. The store and sink in persist are
// shared by all sessions and stay owned by the caller.
func NewSSHServer(cfg SSHServerConfig, persist Persistence, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "coindash-ssh",
		})
	}
	if persist.Sink != nil {
		persist.Sink = telemetry.Shared(persist.Sink)
	}
	persist.Logger = logger

	srv := &SSHServer{
		config:  cfg,
		persist: persist,
		logger:  logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".coindash", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.finalizeMiddleware,
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a runner and its Bubble Tea model for each SSH session.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	rt := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     s.config.Seed,
	}
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}

	game, rec := s.persist.NewGame(s.config.Runner)
	s.active.Store(sess, sessionGame{game: game, rec: rec})

	model := NewModel(game, rt, s.logger.With("user", sess.User()))
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// finalizeMiddleware completes a run left open by a dropped connection and
// releases its recorder. It runs after the Bubble Tea program has exited.
// Sessions arriving once shutdown has begun are refused.
func (s *SSHServer) finalizeMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		s.mu.Lock()
		if s.draining {
			s.mu.Unlock()
			s.logger.Warn("refusing session during shutdown", "user", sess.User())
			return
		}
		s.sessions.Add(1)
		s.mu.Unlock()
		defer s.sessions.Done()

		next(sess)

		v, ok := s.active.LoadAndDelete(sess)
		if !ok {
			return
		}
		sg := v.(sessionGame)

		quit := core.NewInputFrame()
		quit.Set(core.ActionQuit)
		sg.game.Step(quit)
		if err := sg.rec.Close(); err != nil {
			s.logger.Warn("could not close recorder", "user", sess.User(), "err", err)
		}
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
		next(sess)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until SIGINT or SIGTERM.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.logger.Error("server error", "err", err)
		return err
	case <-done:
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server. Connections still open after the
// grace period are closed. Shutdown returns once every session has written
// its final record, so the caller may close the shared store and sink.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		s.logger.Warn("closing sessions still open after grace period")
		err = s.server.Close()
	}
	s.waitSessions()
	return err
}

// waitSessions refuses new sessions and blocks until running ones finish.
func (s *SSHServer) waitSessions() {
	s.mu.Lock()
	s.draining = true
	s.mu.Unlock()
	s.sessions.Wait()
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
