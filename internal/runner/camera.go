package runner

import "github.com/vovakirdan/coindash/internal/config"

// Camera is a horizontal offset over fixed world coordinates. It holds still
// for a start delay, then advances every tick at a speed that ramps up to a cap.
// The offset never decreases.
type Camera struct {
	cfg    config.RunnerCamera
	offset float64
	speed  float64
	ticks  int // Ticks since the session started
}

// NewCamera creates a camera at offset zero.
func NewCamera(cfg config.RunnerCamera) *Camera {
	c := &Camera{cfg: cfg}
	c.Reset(cfg.BaseSpeed)
	return c
}

// Reset rewinds the camera for a new session with the given starting speed.
func (c *Camera) Reset(baseSpeed float64) {
	c.offset = 0
	c.ticks = 0
	c.speed = min(baseSpeed, c.cfg.MaxSpeed)
}

// Update advances the camera by one tick. floor raises the scroll speed to at
// least that value, so difficulty progression can outpace the fixed ramp.
func (c *Camera) Update(floor float64) {
	c.ticks++
	if !c.Scrolling() {
		return
	}
	scrolled := c.ticks - c.cfg.StartDelay
	if c.cfg.SpeedStepEvery > 0 && scrolled%c.cfg.SpeedStepEvery == 0 {
		c.speed += c.cfg.SpeedStep
	}
	c.speed = min(max(c.speed, floor), c.cfg.MaxSpeed)
	c.offset += c.speed
}

// Scrolling reports whether the start delay has elapsed.
func (c *Camera) Scrolling() bool {
	return c.ticks > c.cfg.StartDelay
}

// Offset returns the world x at the left edge of the view.
func (c *Camera) Offset() float64 {
	return c.offset
}

// Speed returns the current scroll speed in units per tick.
func (c *Camera) Speed() float64 {
	return c.speed
}

// PursuitFloor returns the minimum horizontal velocity imposed on the player:
// the scroll speed while forced pursuit is active, otherwise zero.
func (c *Camera) PursuitFloor() float64 {
	if !c.cfg.ForcedPursuit || !c.Scrolling() {
		return 0
	}
	return c.speed
}

// LeftBehind reports whether p trails the view by more than the margin.
func (c *Camera) LeftBehind(p *Player) bool {
	return p.X < c.offset-c.cfg.LeftBehindMargin
}
