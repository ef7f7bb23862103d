package runner

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/coindash/internal/config"
	"github.com/vovakirdan/coindash/internal/core"
	"github.com/vovakirdan/coindash/internal/telemetry"
)

func testRuntime(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: seed}
}

func input(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func newTestGame(t *testing.T, cfg config.RunnerConfig, opts ...Option) *Game {
	t.Helper()
	opts = append([]Option{WithSessionIDs(counterIDs())}, opts...)
	g := New(cfg, opts...)
	g.Reset(testRuntime(1))
	return g
}

func startedGame(t *testing.T, cfg config.RunnerConfig, opts ...Option) *Game {
	t.Helper()
	g := newTestGame(t, cfg, opts...)
	g.Step(input(core.ActionJump))
	if g.Phase() != PhasePlaying {
		t.Fatalf("phase = %v, expected playing", g.Phase())
	}
	return g
}

func TestGameWaitsForStart(t *testing.T) {
	g := newTestGame(t, config.DefaultRunnerConfig())

	for i := 0; i < 10; i++ {
		g.Step(input(core.ActionRight))
	}
	if g.Phase() != PhaseInit || g.PlayerRect().X != 100 {
		t.Fatalf("init phase should not simulate: phase=%v x=%v", g.Phase(), g.PlayerRect().X)
	}

	g.Step(input(core.ActionJump))
	if g.Phase() != PhasePlaying {
		t.Fatalf("phase = %v, expected playing", g.Phase())
	}
	if g.player.JumpCount != 0 {
		t.Error("the starting press should not also jump")
	}
}

func TestGameFirstTickRestsOnGround(t *testing.T) {
	g := startedGame(t, config.DefaultRunnerConfig())
	g.Step(input())

	r := g.PlayerRect()
	if r.Y != 500 || !g.player.OnGround || g.player.VY != 0 {
		t.Errorf("y=%v onGround=%v vy=%v", r.Y, g.player.OnGround, g.player.VY)
	}
}

func TestGameFallingScenario(t *testing.T) {
	g := startedGame(t, config.DefaultRunnerConfig())
	g.Step(input())

	g.player.Y = 601
	g.player.OnGround = false
	res := g.Step(input())

	if g.Phase() != PhaseDead || g.DeathCause() != CauseFalling {
		t.Fatalf("phase=%v cause=%v, expected dead/falling", g.Phase(), g.DeathCause())
	}
	if !res.State.GameOver {
		t.Error("GameOver should be set")
	}
	ticks := g.session.Ticks
	for i := 0; i < 30; i++ {
		g.Step(input(core.ActionRight))
	}
	if g.session.Ticks != ticks {
		t.Errorf("timer kept running after death: %d -> %d", ticks, g.session.Ticks)
	}
}

func TestGameSimultaneousTriggersRecordFalling(t *testing.T) {
	g := startedGame(t, config.DefaultRunnerConfig())
	g.player.Y = 601
	g.player.OnGround = false
	g.world.AddObstacle(&Obstacle{X: 0, Y: 550, W: 400, H: 200})

	g.Step(input())
	if g.DeathCause() != CauseFalling {
		t.Errorf("cause = %v, expected falling to take priority", g.DeathCause())
	}
}

func TestGameObstacleDeath(t *testing.T) {
	g := startedGame(t, config.DefaultRunnerConfig())
	g.world.AddObstacle(&Obstacle{X: 110, Y: 520, W: 30, H: 20})

	g.Step(input())
	if g.Phase() != PhaseDead || g.DeathCause() != CauseObstacle {
		t.Errorf("phase=%v cause=%v, expected dead/obstacle", g.Phase(), g.DeathCause())
	}
}

func TestGameLeftBehind(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	cfg.Camera.StartDelay = 0
	cfg.Camera.ForcedPursuit = false
	cfg.Camera.BaseSpeed = 7
	cfg.Difficulty.Enabled = false
	g := startedGame(t, cfg)

	for i := 0; i < 200 && g.Phase() == PhasePlaying; i++ {
		g.Step(input())
	}
	if g.DeathCause() != CauseLeftBehind {
		t.Errorf("cause = %v, expected left_behind", g.DeathCause())
	}
}

func TestGameForcedPursuitKeepsUp(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	cfg.Camera.StartDelay = 0
	g := startedGame(t, cfg)

	for i := 0; i < 60; i++ {
		g.Step(input(core.ActionLeft))
	}
	if g.player.VX < g.camera.Speed()-cfg.Camera.SpeedStep {
		t.Errorf("vx %v below scroll speed %v", g.player.VX, g.camera.Speed())
	}
}

func TestGameCoinCollection(t *testing.T) {
	g := startedGame(t, config.DefaultRunnerConfig())
	g.Step(input())
	g.world.Coins = append(g.world.Coins, Coin{X: 115, Y: 520, Value: 10, Radius: 10})

	g.Step(input())
	if g.Score() != 10 || g.player.CoinsCollected != 1 {
		t.Errorf("score=%d coins=%d, expected 10/1", g.Score(), g.player.CoinsCollected)
	}
	counter, _ := g.Combo()
	if counter != 1 || g.session.ComboTimer != g.cfg.Session.ComboWindow {
		t.Errorf("combo counter=%d timer=%d", counter, g.session.ComboTimer)
	}

	g.world.Coins = append(g.world.Coins, Coin{X: 115, Y: 520, Value: 10, Radius: 10})
	g.Step(input())
	if g.Score() != 22 {
		t.Errorf("score = %d, expected 22 with combo bonus", g.Score())
	}
}

func TestGamePauseFreezesSimulation(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	cfg.Camera.StartDelay = 0
	g := startedGame(t, cfg)
	g.Step(input())

	g.Step(input(core.ActionPause))
	offset, x := g.CameraOffset(), g.PlayerRect().X
	for i := 0; i < 50; i++ {
		res := g.Step(input(core.ActionRight))
		if !res.State.Paused {
			t.Fatal("expected paused state")
		}
	}
	if g.CameraOffset() != offset || g.PlayerRect().X != x {
		t.Error("paused game advanced")
	}
	g.Step(input(core.ActionPause))
	if g.session.Paused {
		t.Error("second toggle should resume")
	}
}

func TestGameRestart(t *testing.T) {
	g := startedGame(t, config.DefaultRunnerConfig())
	for i := 0; i < 300; i++ {
		in := input(core.ActionRight)
		if i%30 == 0 {
			in.Set(core.ActionJump)
		}
		g.Step(in)
	}
	g.session.Kill(CauseObstacle)
	firstID := g.SessionID()

	g.Step(input(core.ActionJump)) // ignored while dead
	if g.Phase() != PhaseDead {
		t.Fatal("only restart leaves the dead phase")
	}

	g.Step(input(core.ActionRestart))
	if g.Phase() != PhaseInit {
		t.Fatalf("phase = %v, expected init", g.Phase())
	}
	if g.SessionID() == firstID {
		t.Error("restart should issue a new session id")
	}
	if g.CameraOffset() != 0 || g.Score() != 0 || g.PlayerRect().X != 100 || g.PlayerRect().Y != 500 {
		t.Errorf("restart did not reset state: offset=%v score=%d rect=%+v", g.CameraOffset(), g.Score(), g.PlayerRect())
	}
	if counter, _ := g.Combo(); counter != 0 {
		t.Error("restart should clear the combo")
	}
	if g.gen.GroundFrontier() < g.cfg.Generation.Threshold {
		t.Error("restart should regenerate terrain")
	}
}

func TestGameDeterminism(t *testing.T) {
	run := func() (int, float64, float64, int) {
		g := New(config.DefaultRunnerConfig(), WithSessionIDs(counterIDs()))
		g.Reset(testRuntime(12345))
		g.Step(input(core.ActionJump))
		for i := 0; i < 2000; i++ {
			in := input(core.ActionRight)
			if i%25 == 0 {
				in.Set(core.ActionJump)
			}
			if g.Step(in).State.GameOver {
				break
			}
		}
		return g.Score(), g.player.DistanceTraveled, g.CameraOffset(), g.session.Ticks
	}

	s1, d1, c1, t1 := run()
	s2, d2, c2, t2 := run()
	if s1 != s2 || d1 != d2 || c1 != c2 || t1 != t2 {
		t.Errorf("runs differ: (%d %v %v %d) vs (%d %v %v %d)", s1, d1, c1, t1, s2, d2, c2, t2)
	}
}

func TestGameTelemetry(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	cfg.Telemetry.SampleInterval = 10
	sink := &telemetry.MemorySink{}
	rec := telemetry.NewRecorder(sink, cfg.Telemetry.SampleInterval, log.New(io.Discard))

	var summaries []Summary
	g := startedGame(t, cfg, WithRecorder(rec), OnSessionEnd(func(s Summary) { summaries = append(summaries, s) }))
	for i := 0; i < 25; i++ {
		g.Step(input())
	}
	if len(sink.Records) != 2 {
		t.Fatalf("expected 2 samples after 25 ticks, got %d", len(sink.Records))
	}

	res := g.Step(input(core.ActionQuit))
	if !res.State.Quit {
		t.Error("quit should set Quit")
	}
	if len(sink.Records) != 3 {
		t.Fatalf("expected a final record on quit, got %d records", len(sink.Records))
	}
	final := sink.Records[2]
	if !final.Final || final.DeathCause != "" || final.SessionID != g.SessionID() {
		t.Errorf("unexpected final record: %+v", final)
	}
	if len(summaries) != 1 || !summaries[0].Completed {
		t.Errorf("expected one completed summary, got %+v", summaries)
	}

	g.Step(input(core.ActionQuit))
	if len(sink.Records) != 3 {
		t.Error("a quit game should not write more records")
	}
}

func TestGameTelemetryFinalRecordOnDeath(t *testing.T) {
	sink := &telemetry.MemorySink{}
	rec := telemetry.NewRecorder(sink, 600, log.New(io.Discard))
	g := startedGame(t, config.DefaultRunnerConfig(), WithRecorder(rec))

	g.player.Y = 700
	g.player.OnGround = false
	g.Step(input())
	g.Step(input(core.ActionQuit))

	if len(sink.Records) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(sink.Records))
	}
	if sink.Records[0].DeathCause != "falling" {
		t.Errorf("death cause = %q", sink.Records[0].DeathCause)
	}
}

func TestGameGoalDistanceCompletes(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	cfg.Session.GoalDistance = 50
	g := startedGame(t, cfg)

	for i := 0; i < 200 && g.Phase() == PhasePlaying; i++ {
		g.Step(input(core.ActionRight))
	}
	if g.Phase() != PhaseCompleted || g.DeathCause() != CauseNone {
		t.Errorf("phase=%v cause=%v, expected completed without cause", g.Phase(), g.DeathCause())
	}
}

func TestGameAccessorsReturnCopies(t *testing.T) {
	g := startedGame(t, config.DefaultRunnerConfig())
	rects := g.Platforms()
	rects[0].X = -9999
	if g.world.Platforms[0].X == -9999 {
		t.Error("Platforms() must not expose internal state")
	}
	if len(g.Coins()) != len(g.world.Coins) || len(g.Obstacles()) != len(g.world.Obstacles) {
		t.Error("accessor lengths mismatch")
	}

	g.Step(input(core.ActionLeft))
	if g.FacingRight() {
		t.Error("moving left should face left")
	}
	if g.ScrollSpeed() != g.camera.Speed() {
		t.Error("ScrollSpeed should report the camera speed")
	}
}

func TestGameRender(t *testing.T) {
	g := newTestGame(t, config.DefaultRunnerConfig())
	screen := core.NewScreen(80, 24)

	g.Render(screen)
	if !strings.Contains(screen.String(), "Press SPACE to start") {
		t.Error("start screen should prompt for SPACE")
	}

	g.Step(input(core.ActionJump))
	g.Step(input())
	g.Render(screen)
	out := screen.String()
	if !strings.Contains(out, "Score: 0") {
		t.Error("HUD should show the score")
	}
	if !strings.ContainsRune(out, GroundChar) {
		t.Error("ground should be drawn")
	}
	if !strings.Contains(out, ">") {
		t.Error("player facing marker should be drawn")
	}

	g.session.Kill(CauseObstacle)
	g.Render(screen)
	if !strings.Contains(screen.String(), "GAME OVER") {
		t.Error("game over box should be drawn")
	}
}
