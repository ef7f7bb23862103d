// Package runner implements the CoinDash simulation: an endless runner with
// gravity, one-way platforms, coin patterns, lethal obstacles and an
// auto-scrolling camera. It has no terminal dependencies; the platform layer
// drives it through Step and draws it through Render.
package runner

import (
	"github.com/vovakirdan/coindash/internal/config"
	"github.com/vovakirdan/coindash/internal/core"
)

// Entity is anything with an axis-aligned bounding box in world units.
type Entity interface {
	Bounds() core.Rect
}

// Player is the controlled body.
type Player struct {
	X, Y   float64 // Top-left corner
	VX, VY float64 // Velocity per tick
	W, H   float64
	PrevY  float64 // Y before this tick's vertical displacement

	OnGround    bool
	FacingRight bool

	JumpCount int // Successful jumps this session
	JumpsUsed int // Jumps spent since the last landing
	MaxJumps  int

	Score            int
	CoinsCollected   int
	DistanceTraveled float64 // Cumulative |vx|
}

// NewPlayer creates a player at the configured start position.
func NewPlayer(cfg config.RunnerPlayer) *Player {
	return &Player{
		X:           cfg.StartX,
		Y:           cfg.StartY,
		PrevY:       cfg.StartY,
		W:           cfg.Width,
		H:           cfg.Height,
		MaxJumps:    cfg.MaxJumps,
		FacingRight: true,
	}
}

// Bounds returns the player's collision rectangle.
func (p *Player) Bounds() core.Rect {
	return core.NewRect(p.X, p.Y, p.W, p.H)
}

// Feet returns the y of the player's bottom edge.
func (p *Player) Feet() float64 {
	return p.Y + p.H
}

// Jump applies strength to vy if the jump budget allows it.
// A rejected jump leaves the player untouched.
func (p *Player) Jump(strength float64) bool {
	if p.JumpsUsed >= p.MaxJumps {
		return false
	}
	p.VY = strength
	p.JumpCount++
	p.JumpsUsed++
	p.OnGround = false
	return true
}

// Platform is a static rectangle the player can land on from above.
type Platform struct {
	X, Y, W, H float64
	Ground     bool // Sits on the floor line
}

// Bounds returns the platform rectangle.
func (p Platform) Bounds() core.Rect {
	return core.NewRect(p.X, p.Y, p.W, p.H)
}

// Right returns the trailing edge used for pruning.
func (p Platform) Right() float64 {
	return p.X + p.W
}

// Coin is a pickup collected when its center lies inside the player.
type Coin struct {
	X, Y      float64 // Center, the collection reference point
	Value     int
	Radius    float64
	Collected bool
}

// Bounds returns the coin's drawing box around its center.
func (c Coin) Bounds() core.Rect {
	return core.NewRect(c.X-c.Radius, c.Y-c.Radius, 2*c.Radius, 2*c.Radius)
}

// ObstacleKind identifies obstacle shapes.
type ObstacleKind int

const (
	ObstacleStandard ObstacleKind = iota
	ObstacleTall
	ObstacleWide
	ObstaclePatrol
)

// String returns the kind name.
func (k ObstacleKind) String() string {
	switch k {
	case ObstacleStandard:
		return "standard"
	case ObstacleTall:
		return "tall"
	case ObstacleWide:
		return "wide"
	case ObstaclePatrol:
		return "patrol"
	default:
		return "unknown"
	}
}

// Patrol describes horizontal back-and-forth movement between MinX and MaxX.
type Patrol struct {
	MinX, MaxX float64
	Speed      float64
	Dir        int // +1 right, -1 left
}

// Obstacle is a lethal rectangle. Contact is never resolved.
type Obstacle struct {
	X, Y, W, H float64
	Kind       ObstacleKind
	Patrol     *Patrol // nil for static obstacles
}

// Bounds returns the obstacle rectangle.
func (o *Obstacle) Bounds() core.Rect {
	return core.NewRect(o.X, o.Y, o.W, o.H)
}

// Right returns the trailing edge used for pruning.
func (o *Obstacle) Right() float64 {
	return o.X + o.W
}

// Step moves a patrol obstacle one tick, reversing at its bounds.
func (o *Obstacle) Step() {
	pt := o.Patrol
	if pt == nil {
		return
	}
	o.X += pt.Speed * float64(pt.Dir)
	if o.X >= pt.MaxX {
		o.X = pt.MaxX
		pt.Dir = -1
	} else if o.X <= pt.MinX {
		o.X = pt.MinX
		pt.Dir = 1
	}
}

// World holds the active entities in spawn order.
type World struct {
	Platforms []Platform
	Coins     []Coin
	Obstacles []*Obstacle
	movers    []*Obstacle // Patrol obstacles, subset of Obstacles
}

// Clear empties the world, keeping allocated capacity.
func (w *World) Clear() {
	w.Platforms = w.Platforms[:0]
	w.Coins = w.Coins[:0]
	clear(w.Obstacles)
	w.Obstacles = w.Obstacles[:0]
	clear(w.movers)
	w.movers = w.movers[:0]
}

// AddObstacle appends an obstacle, tracking it as a mover if it patrols.
func (w *World) AddObstacle(o *Obstacle) {
	w.Obstacles = append(w.Obstacles, o)
	if o.Patrol != nil {
		w.movers = append(w.movers, o)
	}
}

// Movers returns the patrol obstacles.
func (w *World) Movers() []*Obstacle {
	return w.movers
}

var (
	_ Entity = (*Player)(nil)
	_ Entity = Platform{}
	_ Entity = Coin{}
	_ Entity = (*Obstacle)(nil)
)
