package runner

import (
	"github.com/google/uuid"

	"github.com/vovakirdan/coindash/internal/config"
	"github.com/vovakirdan/coindash/internal/core"
	"github.com/vovakirdan/coindash/internal/telemetry"
)

// Summary describes a session that just ended.
type Summary struct {
	SessionID string
	Score     int
	Coins     int
	Jumps     int
	Distance  float64
	Elapsed   float64 // Seconds
	Cause     DeathCause
	Completed bool
}

// Option configures a Game.
type Option func(*Game)

// WithRecorder attaches a telemetry recorder.
func WithRecorder(r *telemetry.Recorder) Option {
	return func(g *Game) { g.recorder = r }
}

// WithSessionIDs replaces the session id generator.
func WithSessionIDs(fn func() string) Option {
	return func(g *Game) { g.newID = fn }
}

// OnSessionEnd registers a callback invoked once when a session dies or completes.
func OnSessionEnd(fn func(Summary)) Option {
	return func(g *Game) { g.onEnd = fn }
}

// Game runs the per-tick pipeline: input, physics, collision, camera,
// generation, session rules, then telemetry.
type Game struct {
	cfg        config.RunnerConfig
	runtime    core.RuntimeConfig
	difficulty *config.DifficultyManager

	world   World
	player  *Player
	camera  *Camera
	gen     *Generator
	session *Session

	recorder *telemetry.Recorder
	newID    func() string
	onEnd    func(Summary)

	sessions int // Sessions started since Reset; offsets the layout seed
	quit     bool
}

// New creates a game with cfg. Call Reset before the first Step.
func New(cfg config.RunnerConfig, opts ...Option) *Game {
	g := &Game{cfg: cfg, newID: newSessionID}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// newSessionID returns a time-ordered UUIDv7.
func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "coindash"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "CoinDash"
}

// Reset initializes the game for runtime and enters PhaseInit.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	if g.runtime.TickRate <= 0 {
		g.runtime.TickRate = 60
	}
	g.difficulty = config.NewDifficultyManager(g.cfg.Difficulty)
	g.camera = NewCamera(g.cfg.Camera)
	g.gen = NewGenerator(runtime.Seed, &g.cfg, &g.world)
	g.session = NewSession(g.cfg.Session, g.newID)
	g.sessions = 0
	g.quit = false
	g.resetRun()
}

// resetRun rebuilds player, camera and world in place for a new session.
func (g *Game) resetRun() {
	g.player = NewPlayer(g.cfg.Player)
	g.camera.Reset(g.difficulty.Speed(g.cfg.Camera.BaseSpeed, 0, 0))
	g.gen.Reset(g.runtime.Seed + int64(g.sessions))
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.quit {
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionQuit) {
		g.endByQuit()
		return core.StepResult{State: g.State()}
	}

	switch g.session.Phase {
	case PhaseInit:
		// The starting press does not also jump
		if in.Has(core.ActionJump) || in.Has(core.ActionConfirm) {
			g.session.Start()
		}
		return core.StepResult{State: g.State()}
	case PhaseDead, PhaseCompleted:
		if in.Has(core.ActionRestart) {
			g.restart()
		}
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.session.TogglePause()
	}
	if g.session.Paused {
		return core.StepResult{State: g.State()}
	}

	g.advance(in)
	return core.StepResult{State: g.State()}
}

func (g *Game) advance(in core.InputFrame) {
	p := g.player

	// Input
	if in.Has(core.ActionJump) {
		p.Jump(g.cfg.Physics.JumpStrength)
	}

	// Physics
	Integrate(p, in.Direction(), g.camera.PursuitFloor(), g.cfg.Physics)

	// Collision
	g.gen.MovePatrols()
	ResolveTerrain(p, g.world.Platforms, g.cfg.Physics.LandingEpsilon)
	hit := HitObstacle(p, g.world.Obstacles)
	collected := CollectCoins(p, &g.world)

	// Camera
	ticks := g.session.Ticks
	g.camera.Update(g.difficulty.Speed(g.cfg.Camera.BaseSpeed, p.DistanceTraveled, ticks))
	behind := g.camera.LeftBehind(p)

	// Generation
	g.gen.SetChances(
		g.difficulty.HazardChance(g.cfg.Hazards.Chance, p.DistanceTraveled, ticks),
		g.difficulty.GapChance(g.cfg.Generation.GroundGapChance, p.DistanceTraveled, ticks),
	)
	g.gen.Extend(g.camera.Offset())
	g.gen.Prune(g.camera.Offset())

	// Session
	for _, v := range collected {
		p.Score += g.session.Collect(v)
	}
	g.session.Tick()
	trig := Triggers{
		Falling:    p.Y > g.cfg.World.Height,
		Obstacle:   hit,
		LeftBehind: behind,
	}
	ended := g.session.Kill(trig.Cause())
	if !ended && g.cfg.Session.GoalDistance > 0 && p.DistanceTraveled >= g.cfg.Session.GoalDistance {
		ended = g.session.Complete()
	}

	// Telemetry
	if ended {
		g.finish()
		return
	}
	if g.recorder != nil {
		g.recorder.Tick(g.snapshot())
	}
}

// endByQuit completes a running session and stops the game.
func (g *Game) endByQuit() {
	if g.session.Phase == PhasePlaying && g.session.Complete() {
		g.finish()
	}
	g.quit = true
}

// finish writes the final record and reports the summary.
func (g *Game) finish() {
	if g.recorder != nil {
		g.recorder.Finish(g.snapshot())
	}
	if g.onEnd != nil {
		g.onEnd(g.Summary())
	}
}

// restart moves an ended session back to Init and rebuilds the run in place.
func (g *Game) restart() {
	if !g.session.Restart() {
		return
	}
	g.sessions++
	g.resetRun()
}

func (g *Game) snapshot() telemetry.Snapshot {
	return telemetry.Snapshot{
		SessionID:        g.session.ID,
		Ticks:            g.session.Ticks,
		DistanceTraveled: g.player.DistanceTraveled,
		CoinsCollected:   g.player.CoinsCollected,
		JumpCount:        g.player.JumpCount,
		Score:            g.player.Score,
		Elapsed:          g.session.Elapsed(g.runtime.TickRate),
		DeathCause:       g.session.Cause.String(),
	}
}

// Summary returns the current session's totals.
func (g *Game) Summary() Summary {
	return Summary{
		SessionID: g.session.ID,
		Score:     g.player.Score,
		Coins:     g.player.CoinsCollected,
		Jumps:     g.player.JumpCount,
		Distance:  g.player.DistanceTraveled,
		Elapsed:   g.session.Elapsed(g.runtime.TickRate),
		Cause:     g.session.Cause,
		Completed: g.session.Phase == PhaseCompleted,
	}
}

// State returns the platform-facing game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.player.Score,
		GameOver: g.session.Ended(),
		Paused:   g.session.Paused,
		Quit:     g.quit,
	}
}

// PlayerRect returns the player's rectangle in world units.
func (g *Game) PlayerRect() core.Rect {
	return g.player.Bounds()
}

// FacingRight reports the player's facing direction.
func (g *Game) FacingRight() bool {
	return g.player.FacingRight
}

// Platforms returns copies of the active platform rectangles.
func (g *Game) Platforms() []core.Rect {
	out := make([]core.Rect, len(g.world.Platforms))
	for i, p := range g.world.Platforms {
		out[i] = p.Bounds()
	}
	return out
}

// Coins returns copies of the active coin boxes.
func (g *Game) Coins() []core.Rect {
	out := make([]core.Rect, len(g.world.Coins))
	for i, c := range g.world.Coins {
		out[i] = c.Bounds()
	}
	return out
}

// Obstacles returns copies of the active obstacle rectangles.
func (g *Game) Obstacles() []core.Rect {
	out := make([]core.Rect, len(g.world.Obstacles))
	for i, o := range g.world.Obstacles {
		out[i] = o.Bounds()
	}
	return out
}

// CameraOffset returns the world x at the left edge of the view.
func (g *Game) CameraOffset() float64 {
	return g.camera.Offset()
}

// ScrollSpeed returns the camera speed in units per tick.
func (g *Game) ScrollSpeed() float64 {
	return g.camera.Speed()
}

// Score returns the current score.
func (g *Game) Score() int {
	return g.player.Score
}

// Combo returns the combo counter and current multiplier.
func (g *Game) Combo() (int, float64) {
	return g.session.ComboCounter, g.session.Multiplier()
}

// JumpsLeft returns the remaining jump budget.
func (g *Game) JumpsLeft() int {
	return g.player.MaxJumps - g.player.JumpsUsed
}

// Phase returns the session phase.
func (g *Game) Phase() Phase {
	return g.session.Phase
}

// DeathCause returns the recorded death cause.
func (g *Game) DeathCause() DeathCause {
	return g.session.Cause
}

// SessionID returns the current session id.
func (g *Game) SessionID() string {
	return g.session.ID
}
