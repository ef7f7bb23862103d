package tui

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/coindash/internal/config"
	"github.com/vovakirdan/coindash/internal/runner"
	"github.com/vovakirdan/coindash/internal/storage"
	"github.com/vovakirdan/coindash/internal/telemetry"
)

// Persistence holds where finished and sampled sessions are written.
// Store and Sink may be nil.
type Persistence struct {
	Store  *storage.Store
	Sink   telemetry.Sink
	Preset config.DifficultyPreset
	Logger *log.Logger
}

// NewGame builds a runner wired to p. The returned recorder must be closed
// once the game loop exits so buffered telemetry is flushed.
func (p Persistence) NewGame(cfg config.RunnerConfig) (*runner.Game, *telemetry.Recorder) {
	logger := p.Logger
	if logger == nil {
		logger = log.Default()
	}

	rec := telemetry.NewRecorder(p.Sink, cfg.Telemetry.SampleInterval, logger)
	game := runner.New(cfg,
		runner.WithRecorder(rec),
		runner.OnSessionEnd(p.saveScore),
	)
	return game, rec
}

// saveScore stores the session's score. Empty runs are not recorded.
func (p Persistence) saveScore(s runner.Summary) {
	if p.Store == nil || s.Score <= 0 {
		return
	}
	if _, err := p.Store.SaveScore(string(p.Preset), s.Score, s.SessionID); err != nil && p.Logger != nil {
		p.Logger.Warn("could not save score", "session", s.SessionID, "err", err)
	}
}
