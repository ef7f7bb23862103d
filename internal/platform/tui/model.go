package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/coindash/internal/core"
)

// Game is the simulation surface the terminal host drives.
type Game interface {
	ID() string
	Title() string
	Reset(cfg core.RuntimeConfig)
	Step(in core.InputFrame) core.StepResult
	Render(dst *core.Screen)
	State() core.GameState
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       Game
	screen     *core.Screen
	config     core.RuntimeConfig
	keys       *KeyMapper
	logger     *log.Logger
	inputFrame core.InputFrame
	gameState  core.GameState
	quitting   bool
}

// NewModel creates a new Bubble Tea model for the given game. logger may be nil.
func NewModel(game Game, cfg core.RuntimeConfig, logger *log.Logger) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	if logger == nil {
		logger = log.Default()
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:     cfg,
		keys:       NewKeyMapper(cfg.TickRate / 2),
		logger:     logger,
		inputFrame: core.NewInputFrame(),
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	m.logger.Debug("game started", "game", m.game.ID(), "seed", m.config.Seed, "fps", m.config.TickRate)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keys.MapKeyToFrame(msg, &m.inputFrame) {
		// Step once so a running session is completed and recorded.
		m.game.Step(m.inputFrame)
		m.gameState = m.game.State()
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleResize only changes the viewport; the world is sized in fixed units.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.keys.ApplyHeld(&m.inputFrame)

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	if m.gameState.Quit {
		m.quitting = true
		return m, tea.Quit
	}
	if m.gameState.GameOver {
		m.keys.Release()
	}
	return m, tickCmd(m.config.TickRate)
}

// saveScreenshot saves the current screen to ~/.coindash/screenshots.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("screenshot skipped", "err", err)
		return
	}
	dir := filepath.Join(home, ".coindash", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("screenshot skipped", "err", err)
		return
	}

	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot failed", "path", path, "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// State returns the game state seen on the last tick.
func (m Model) State() core.GameState {
	return m.gameState
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// Run starts the Bubble Tea program and blocks until the player quits.
func Run(game Game, cfg core.RuntimeConfig, logger *log.Logger) error {
	p := tea.NewProgram(
		NewModel(game, cfg, logger),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
