package runner

import "github.com/vovakirdan/coindash/internal/config"

// Phase is the session lifecycle state.
type Phase int

const (
	PhaseInit Phase = iota // Waiting for the start input
	PhasePlaying
	PhaseDead
	PhaseCompleted
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhasePlaying:
		return "playing"
	case PhaseDead:
		return "dead"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// DeathCause names what ended a session.
type DeathCause int

const (
	CauseNone DeathCause = iota
	CauseFalling
	CauseObstacle
	CauseLeftBehind
)

// String returns the name persisted in telemetry. CauseNone is empty.
func (c DeathCause) String() string {
	switch c {
	case CauseFalling:
		return "falling"
	case CauseObstacle:
		return "obstacle"
	case CauseLeftBehind:
		return "left_behind"
	default:
		return ""
	}
}

// Triggers are the death conditions observed during one tick.
type Triggers struct {
	Falling    bool
	Obstacle   bool
	LeftBehind bool
}

// Cause picks a single cause with priority falling > obstacle > left_behind.
func (t Triggers) Cause() DeathCause {
	switch {
	case t.Falling:
		return CauseFalling
	case t.Obstacle:
		return CauseObstacle
	case t.LeftBehind:
		return CauseLeftBehind
	default:
		return CauseNone
	}
}

// Session owns lifecycle, timer and combo state for one run.
type Session struct {
	cfg   config.RunnerSession
	newID func() string

	ID     string
	Phase  Phase
	Paused bool
	Cause  DeathCause
	Ticks  int // Playing ticks; stops on death, completion and pause

	ComboCounter int
	ComboTimer   int
	refreshed    bool
}

// NewSession creates a session in PhaseInit. newID generates session ids.
func NewSession(cfg config.RunnerSession, newID func() string) *Session {
	s := &Session{cfg: cfg, newID: newID}
	s.reset()
	return s
}

func (s *Session) reset() {
	s.ID = s.newID()
	s.Phase = PhaseInit
	s.Paused = false
	s.Cause = CauseNone
	s.Ticks = 0
	s.ComboCounter = 0
	s.ComboTimer = 0
	s.refreshed = false
}

// Active reports whether the simulation should advance this tick.
func (s *Session) Active() bool {
	return s.Phase == PhasePlaying && !s.Paused
}

// Ended reports whether the session reached a terminal phase.
func (s *Session) Ended() bool {
	return s.Phase == PhaseDead || s.Phase == PhaseCompleted
}

// Start moves Init to Playing.
func (s *Session) Start() bool {
	if s.Phase != PhaseInit {
		return false
	}
	s.Phase = PhasePlaying
	return true
}

// TogglePause flips the paused sub-state. Only valid while playing.
func (s *Session) TogglePause() {
	if s.Phase == PhasePlaying {
		s.Paused = !s.Paused
	}
}

// Tick advances the session timer and decays the combo timer. It runs after
// the tick's collections; the timer is not decayed on a tick that refreshed
// it, so a coin exactly ComboWindow ticks after the last one still chains.
func (s *Session) Tick() {
	if !s.Active() {
		return
	}
	s.Ticks++
	if s.refreshed {
		s.refreshed = false
		return
	}
	if s.ComboTimer > 0 {
		s.ComboTimer--
	}
}

// Kill ends a playing session with cause. The first cause wins; later calls
// and CauseNone are ignored.
func (s *Session) Kill(cause DeathCause) bool {
	if s.Phase != PhasePlaying || cause == CauseNone {
		return false
	}
	s.Phase = PhaseDead
	s.Paused = false
	s.Cause = cause
	return true
}

// Complete ends a playing session without a death cause.
func (s *Session) Complete() bool {
	if s.Phase != PhasePlaying {
		return false
	}
	s.Phase = PhaseCompleted
	s.Paused = false
	return true
}

// Restart moves an ended session back to Init with a fresh id.
func (s *Session) Restart() bool {
	if !s.Ended() {
		return false
	}
	s.reset()
	return true
}

// Multiplier returns the combo multiplier for the current counter.
func (s *Session) Multiplier() float64 {
	if s.ComboCounter <= 1 {
		return 1
	}
	return min(s.cfg.ComboMax, 1+float64(s.ComboCounter)*s.cfg.ComboStep)
}

// Collect applies a coin of base value to the combo and returns the points
// awarded. A collection inside the window extends the chain; otherwise the
// chain restarts at one with no bonus.
func (s *Session) Collect(value int) int {
	var points int
	if s.ComboTimer > 0 {
		s.ComboCounter++
		points = int(float64(value) * s.Multiplier())
	} else {
		s.ComboCounter = 1
		points = value
	}
	s.ComboTimer = s.cfg.ComboWindow
	s.refreshed = true
	return points
}

// Elapsed returns playing time in seconds at tickRate.
func (s *Session) Elapsed(tickRate int) float64 {
	if tickRate <= 0 {
		return 0
	}
	return float64(s.Ticks) / float64(tickRate)
}
