package tui

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/coindash/internal/config"
	"github.com/vovakirdan/coindash/internal/core"
	"github.com/vovakirdan/coindash/internal/runner"
	"github.com/vovakirdan/coindash/internal/storage"
	"github.com/vovakirdan/coindash/internal/telemetry"
)

// fakeGame records the frames it was stepped with.
type fakeGame struct {
	resets int
	frames []core.InputFrame
	state  core.GameState
}

func (g *fakeGame) ID() string               { return "fake" }
func (g *fakeGame) Title() string            { return "Fake" }
func (g *fakeGame) Reset(core.RuntimeConfig) { g.resets++ }
func (g *fakeGame) State() core.GameState    { return g.state }

func (g *fakeGame) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawText(0, 0, "fake")
}

func (g *fakeGame) Step(in core.InputFrame) core.StepResult {
	g.frames = append(g.frames, in.Clone())
	if in.Has(core.ActionQuit) {
		g.state.Quit = true
	}
	return core.StepResult{State: g.state}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestModelTickAppliesInput(t *testing.T) {
	g := &fakeGame{}
	m := NewModel(g, testRuntime(), quietLogger())
	m.Init()

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m, _ = update(t, m, runeKey('d'))
	m, cmd := update(t, m, TickMsg{})
	if cmd == nil {
		t.Fatal("tick should schedule the next tick")
	}
	m, _ = update(t, m, TickMsg{})

	if len(g.frames) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(g.frames))
	}
	if !g.frames[0].Has(core.ActionJump) || g.frames[0].Direction() != 1 {
		t.Errorf("first frame = %v", g.frames[0].Actions)
	}
	if g.frames[1].Has(core.ActionJump) {
		t.Error("jump should last one tick")
	}
	if g.frames[1].Direction() != 1 {
		t.Error("movement should stay held across ticks")
	}
}

func TestModelQuitStepsOnce(t *testing.T) {
	g := &fakeGame{}
	m := NewModel(g, testRuntime(), quietLogger())
	m.Init()

	m, cmd := update(t, m, runeKey('q'))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if len(g.frames) != 1 || !g.frames[0].Has(core.ActionQuit) {
		t.Fatalf("quit should step the game once with ActionQuit, got %d frames", len(g.frames))
	}
	if !m.State().Quit {
		t.Error("model should observe the quit state")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestModelResizeKeepsGame(t *testing.T) {
	g := &fakeGame{}
	m := NewModel(g, testRuntime(), quietLogger())
	m.Init()

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if g.resets != 1 {
		t.Errorf("resize should not reset the game, resets = %d", g.resets)
	}
	if !strings.HasPrefix(m.View(), "fake") {
		t.Errorf("unexpected view %q", m.View())
	}
}

func TestPersistenceRecordsRunnerSession(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.Open(filepath.Join(dir, "scores.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	mem := &telemetry.MemorySink{}
	persist := Persistence{Store: store, Sink: mem, Preset: config.DifficultyNormal, Logger: quietLogger()}

	cfg := config.DefaultRunnerConfig()
	game, rec := persist.NewGame(cfg)
	m := NewModel(game, testRuntime(), quietLogger())
	m.Init()

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	for i := 0; i < 30; i++ {
		m, _ = update(t, m, TickMsg{})
	}
	if game.Phase() != runner.PhasePlaying {
		t.Fatalf("phase = %v, expected playing", game.Phase())
	}

	update(t, m, runeKey('q'))
	if game.Phase() != runner.PhaseCompleted {
		t.Errorf("quit should complete the run, phase = %v", game.Phase())
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}

	if len(mem.Records) != 1 || !mem.Records[0].Final {
		t.Fatalf("expected one final record, got %+v", mem.Records)
	}
	if mem.Records[0].SessionID != game.SessionID() {
		t.Error("final record should carry the session id")
	}
}

func TestPersistenceSavesPositiveScores(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	persist := Persistence{Store: store, Preset: config.DifficultyHard, Logger: quietLogger()}
	persist.saveScore(runner.Summary{SessionID: "a", Score: 0})
	persist.saveScore(runner.Summary{SessionID: "b", Score: 120})

	scores, err := store.TopScores("hard", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 1 || scores[0].Score != 120 || scores[0].SessionID != "b" {
		t.Errorf("scores = %+v", scores)
	}
}

func TestRenderScreenStylesRuns(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawText(0, 0, "ab")
	s.SetColored(2, 0, '●', core.ColorYellow)
	s.DrawText(0, 1, "cd")

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ab") || !strings.Contains(lines[0], "●") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "cd    " {
		t.Errorf("default-colored row should be raw, got %q", lines[1])
	}
}
