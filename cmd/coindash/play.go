package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/coindash/internal/core"
	"github.com/vovakirdan/coindash/internal/platform/tui"
	"github.com/vovakirdan/coindash/internal/storage"
	"github.com/vovakirdan/coindash/internal/telemetry"
)

// csvBuffer is the number of records queued for the CSV writer.
const csvBuffer = 64

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a run",
	Long: `Start an endless run.

Controls:
  Space/Up/W  - Jump (press again in the air to double jump)
  Left/Right  - Move (A/D also work)
  Enter       - Start from the title screen
  P/Esc       - Pause
  R           - Restart after the run ends
  Ctrl+S      - Save a text screenshot
  Q/Ctrl+C    - Quit (a running session is recorded as completed)

Difficulty options:
  easy   - Start at lowest difficulty, three jumps
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, single jump
  fixed  - No progression, stays at config's initial level

Examples:
  coindash play
  coindash play --difficulty easy
  coindash play --seed 42
  coindash play --config ./my-runner.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, _ []string) error {
	cfg, preset, err := loadRunnerConfig()
	if err != nil {
		return err
	}

	logger, closeLog := fileLogger("coindash")
	defer closeLog()

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	store, sink := openPersistence(logger)
	if store != nil {
		defer store.Close()
	}

	persist := tui.Persistence{Store: store, Sink: sink, Preset: preset, Logger: logger}
	game, rec := persist.NewGame(cfg)

	rt := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: settings.TickRate,
		Seed:     flagSeed,
	}
	logger.Info("run starting", "preset", preset, "seed", rt.Seed, "fps", rt.TickRate)
	runErr := tui.Run(game, rt, logger)

	// A run cut short without the quit key still gets its final record.
	quit := core.NewInputFrame()
	quit.Set(core.ActionQuit)
	game.Step(quit)

	if err := rec.Close(); err != nil {
		logger.Warn("telemetry flush failed", "err", err)
	}
	if runErr != nil {
		return fmt.Errorf("error running game: %w", runErr)
	}

	s := game.Summary()
	if s.SessionID != "" && s.Score > 0 {
		fmt.Printf("Last run: %d points, %d coins, %.0fm\n", s.Score, s.Coins, s.Distance/10)
	}
	return nil
}

// openPersistence opens the score database and the telemetry sinks. Either
// may be nil when it cannot be opened; the game still runs.
func openPersistence(logger *log.Logger) (*storage.Store, telemetry.Sink) {
	store, err := storage.Open(settings.DBPath)
	if err != nil {
		logger.Warn("could not open database", "path", settings.DBPath, "err", err)
		store = nil
	}

	var sinks telemetry.MultiSink
	csvSink, err := telemetry.OpenCSV(settings.StatsPath, csvBuffer)
	if err != nil {
		logger.Warn("could not open telemetry file", "path", settings.StatsPath, "err", err)
	} else {
		sinks = append(sinks, csvSink)
	}
	if store != nil {
		sinks = append(sinks, telemetry.NewStoreSink(store))
	}

	if len(sinks) == 0 {
		return store, nil
	}
	return store, sinks
}
