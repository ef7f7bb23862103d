package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/coindash/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the CoinDash SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own independent run. Scores and telemetry
are stored per-server (all users share the same leaderboard and CSV).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.coindash/host_key

Examples:
  coindash serve                           # Listen on :23234 with auto-generated key
  coindash serve --ssh :2222               # Listen on port 2222
  coindash serve --host-key ./my_host_key  # Use specific host key
  coindash serve --difficulty hard         # Every run uses the hard preset

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
	runner, preset, err := loadRunnerConfig()
	if err != nil {
		return err
	}

	logger := newLogger(os.Stderr, "coindash-ssh")

	store, sink := openPersistence(logger)
	if store != nil {
		defer store.Close()
	}
	if sink != nil {
		defer func() {
			if err := sink.Close(); err != nil {
				logger.Warn("telemetry flush failed", "err", err)
			}
		}()
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.TickRate = settings.TickRate
	cfg.Seed = flagSeed
	cfg.Runner = runner
	persist := tui.Persistence{Store: store, Sink: sink, Preset: preset}

	server, err := tui.NewSSHServer(cfg, persist, logger)
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	fmt.Printf("Starting CoinDash SSH server on %s\n", cfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(cfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// portOf returns the port part of a host:port address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
