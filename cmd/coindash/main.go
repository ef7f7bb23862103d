// coindash is an endless runner for the terminal.
//
// Usage:
//
//	coindash play            - Start a run
//	coindash serve           - Host runs over SSH
//	coindash stats           - Show session telemetry
//	coindash scores [preset] - Show high scores
//	coindash config          - Print the effective runner config
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible layouts
//	--db <path>           - Set database path (default: ~/.coindash/coindash.db)
//	--stats-file <path>   - Set telemetry CSV path (default: ~/.coindash/stats/game_stats.csv)
//	--config <path>       - Load a custom runner config YAML
//	--difficulty <preset> - easy, normal, hard or fixed
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/coindash/internal/config"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagStatsPath  string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string

	// settings is the environment overlaid with explicitly set flags.
	settings config.Env
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "coindash",
	Short: "CoinDash - an endless runner in your terminal",
	Long: `CoinDash is an endless runner: jump across generated platforms,
collect coins for combo bonuses and stay ahead of the scrolling camera.

Every run writes telemetry to a CSV file and a SQLite database.

Available commands:
  play     - Start a run
  serve    - Host runs over SSH
  stats    - Show session telemetry
  scores   - View high scores
  config   - Print the effective runner config

Settings can also come from the environment:
  COINDASH_CONFIG, COINDASH_DB, COINDASH_STATS, COINDASH_FPS,
  COINDASH_LOG_FILE, COINDASH_LOG_LEVEL

Examples:
  coindash play
  coindash play --difficulty hard --seed 42
  coindash stats --sort score
  coindash serve --ssh :2222`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	flags.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	flags.StringVar(&flagDBPath, "db", "", "Path to the SQLite database")
	flags.StringVar(&flagStatsPath, "stats-file", "", "Path to the telemetry CSV file")
	flags.StringVar(&flagConfig, "config", "", "Path to custom runner config YAML")
	flags.StringVar(&flagDifficulty, "difficulty", string(config.DifficultyNormal), "Difficulty preset: easy, normal, hard, fixed")
	flags.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}

// loadSettings reads the environment, then applies flags the user set.
func loadSettings(cmd *cobra.Command, _ []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("fps") {
		if flagFPS <= 0 {
			return fmt.Errorf("--fps must be positive, got %d", flagFPS)
		}
		env.TickRate = flagFPS
	}
	if flagDBPath != "" {
		env.DBPath = flagDBPath
	}
	if flagStatsPath != "" {
		env.StatsPath = flagStatsPath
	}
	if flagConfig != "" {
		env.ConfigPath = flagConfig
	}
	if flagLogLevel != "" {
		env.LogLevel = flagLogLevel
	}

	for _, p := range []*string{&env.DBPath, &env.StatsPath, &env.LogFile, &env.ConfigPath} {
		if *p, err = config.ExpandHome(*p); err != nil {
			return err
		}
	}

	settings = env
	return nil
}

// loadRunnerConfig loads the runner YAML and applies the difficulty preset.
func loadRunnerConfig() (config.RunnerConfig, config.DifficultyPreset, error) {
	preset := config.ParsePreset(flagDifficulty)
	if preset == "" {
		return config.RunnerConfig{}, "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
	}

	cfg, err := config.LoadRunner(settings.ConfigPath)
	if err != nil {
		return cfg, preset, err
	}
	config.ApplyRunnerPreset(&cfg, preset)
	return cfg, preset, nil
}

// newLogger creates a leveled logger writing to w.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(settings.LogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", settings.LogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// fileLogger logs to settings.LogFile so the TUI keeps the terminal.
// It falls back to discarding output when the file cannot be opened.
func fileLogger(prefix string) (*log.Logger, func()) {
	if settings.LogFile == "" {
		return log.New(io.Discard), func() {}
	}
	if err := os.MkdirAll(filepath.Dir(settings.LogFile), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(settings.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		return log.New(io.Discard), func() {}
	}
	return newLogger(f, prefix), func() { f.Close() }
}
