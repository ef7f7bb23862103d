package runner

import (
	"math/rand"
	"slices"

	"github.com/vovakirdan/coindash/internal/config"
	"github.com/vovakirdan/coindash/internal/core"
)

// Generator keeps the world populated ahead of the camera and prunes what
// has fallen behind it. Floating platforms and ground advance on independent
// frontiers. All randomness comes from one seeded source, so a seed fully
// determines the layout for a given camera history.
type Generator struct {
	cfg   *config.RunnerConfig
	world *World
	rng   *rand.Rand
	shape patternShape

	lastPlatformX float64 // Right edge of the newest floating platform
	lastPlatformY float64
	groundX       float64 // Right edge of the ground frontier, gaps included
	lastWasGap    bool

	hazardChance float64
	gapChance    float64
}

// NewGenerator creates a generator writing into w and resets it with seed.
func NewGenerator(seed int64, cfg *config.RunnerConfig, w *World) *Generator {
	g := &Generator{
		cfg:   cfg,
		world: w,
	}
	g.Reset(seed)
	return g
}

// Reset empties the world, rewinds both frontiers, lays the fixed starting
// floor and fills the first threshold of terrain.
func (g *Generator) Reset(seed int64) {
	gen := g.cfg.Generation
	g.rng = rand.New(rand.NewSource(seed))
	g.shape = patternShape{
		spacing:   g.cfg.Coins.Spacing,
		arcHeight: g.cfg.Coins.ArcHeight,
		minY:      g.cfg.Coins.Radius,
	}
	g.hazardChance = g.cfg.Hazards.Chance
	g.gapChance = gen.GroundGapChance
	g.world.Clear()

	// Fixed floor so the player never spawns over empty space
	x := 0.0
	for x < gen.InitialFloorEnd {
		g.addGround(x, gen.InitialSegment)
		x += gen.InitialSegment
	}
	g.groundX = x
	g.lastWasGap = false
	g.lastPlatformX = gen.FirstPlatformX
	g.lastPlatformY = gen.FirstPlatformY

	g.Extend(0)
}

// SetChances overrides the hazard and ground-gap probabilities, used by
// difficulty progression.
func (g *Generator) SetChances(hazard, gap float64) {
	g.hazardChance = hazard
	g.gapChance = gap
}

// GroundFrontier returns the right edge of generated ground.
func (g *Generator) GroundFrontier() float64 {
	return g.groundX
}

// PlatformFrontier returns the right edge of the newest floating platform.
func (g *Generator) PlatformFrontier() float64 {
	return g.lastPlatformX
}

// Extend generates terrain until both frontiers lead cameraX by the threshold.
func (g *Generator) Extend(cameraX float64) {
	threshold := g.cfg.Generation.Threshold
	for g.lastPlatformX-cameraX < threshold {
		g.spawnPlatform()
	}
	for g.groundX-cameraX < threshold {
		g.spawnGround()
	}
}

// Prune removes every entity whose trailing edge is more than the prune
// margin behind cameraX. Movers are pruned in the same pass.
func (g *Generator) Prune(cameraX float64) {
	limit := cameraX - g.cfg.Generation.PruneMargin
	w := g.world
	w.Platforms = slices.DeleteFunc(w.Platforms, func(p Platform) bool { return p.Right() < limit })
	w.Coins = slices.DeleteFunc(w.Coins, func(c Coin) bool { return c.X < limit })
	behind := func(o *Obstacle) bool { return o.Right() < limit }
	w.Obstacles = slices.DeleteFunc(w.Obstacles, behind)
	w.movers = slices.DeleteFunc(w.movers, behind)
}

// MovePatrols advances every patrol obstacle by one tick.
func (g *Generator) MovePatrols() {
	for _, o := range g.world.movers {
		o.Step()
	}
}

func (g *Generator) spawnPlatform() {
	gen := g.cfg.Generation
	width := float64(g.roll(gen.PlatformWidth))
	x := g.lastPlatformX + float64(g.roll(gen.PlatformGap))
	y := core.ClampF(g.lastPlatformY+float64(g.roll(gen.PlatformDY)), gen.PlatformMinY, gen.PlatformMaxY)

	pl := Platform{X: x, Y: y, W: width, H: gen.PlatformHeight}
	g.world.Platforms = append(g.world.Platforms, pl)
	g.lastPlatformX = pl.Right()
	g.lastPlatformY = y

	// Hazard first so coins can float above it
	var hazardH float64
	if g.rng.Float64() < g.hazardChance {
		hazardH = g.spawnHazard(pl)
	}
	if g.rng.Float64() < g.cfg.Coins.PatternChance {
		pattern := CoinPattern(g.rng.Intn(int(patternCount)))
		count := g.roll(g.cfg.Coins.PatternCount)
		startX := pl.X + (pl.W-g.shape.width(pattern, count))/2
		g.addCoins(g.shape.layout(pattern, startX, pl.Y-g.cfg.Coins.Lift-hazardH, count))
	}
}

// spawnHazard places an obstacle on pl and returns its height.
func (g *Generator) spawnHazard(pl Platform) float64 {
	hz := g.cfg.Hazards
	kinds := []ObstacleKind{ObstacleStandard, ObstacleTall, ObstacleWide}
	if pl.W >= hz.PatrolMinWidth {
		kinds = append(kinds, ObstaclePatrol)
	}
	kind := kinds[g.rng.Intn(len(kinds))]

	if kind == ObstaclePatrol {
		size := hz.PatrolSize
		minX := pl.X + hz.PatrolEdgeMargin
		maxX := pl.Right() - hz.PatrolEdgeMargin - size.W
		if maxX > minX {
			g.world.AddObstacle(&Obstacle{
				X: minX, Y: pl.Y - size.H, W: size.W, H: size.H,
				Kind: ObstaclePatrol,
				Patrol: &Patrol{
					MinX:  minX,
					MaxX:  maxX,
					Speed: float64(g.roll(hz.PatrolSpeed)),
					Dir:   1,
				},
			})
			return size.H
		}
		kind = ObstacleStandard
	}

	var size config.Size
	switch kind {
	case ObstacleTall:
		size = hz.TallSize
	case ObstacleWide:
		size = hz.WideSize
	default:
		size = hz.StandardSize
	}
	g.world.AddObstacle(&Obstacle{
		X: pl.X + (pl.W-size.W)/2, Y: pl.Y - size.H, W: size.W, H: size.H,
		Kind: kind,
	})
	return size.H
}

func (g *Generator) spawnGround() {
	gen := g.cfg.Generation
	if !g.lastWasGap && g.rng.Float64() < g.gapChance {
		gap := float64(g.roll(gen.GroundGap))
		if g.rng.Float64() < gen.GapCoinChance {
			count := max(g.roll(g.cfg.Coins.PatternCount), 2)
			arc := patternShape{
				spacing:   gap / float64(count-1),
				arcHeight: 2 * g.cfg.Coins.ArcHeight,
				minY:      g.cfg.Coins.Radius,
			}
			g.addCoins(arc.layout(PatternArc, g.groundX, g.cfg.World.FloorY-g.cfg.Coins.Lift, count))
		}
		g.groundX += gap
		g.lastWasGap = true
		return
	}
	width := float64(g.roll(gen.GroundWidth))
	g.addGround(g.groundX, width)
	g.groundX += width
	g.lastWasGap = false
}

func (g *Generator) addGround(x, width float64) {
	g.world.Platforms = append(g.world.Platforms, Platform{
		X: x, Y: g.cfg.World.FloorY, W: width, H: g.cfg.World.GroundHeight,
		Ground: true,
	})
}

func (g *Generator) addCoins(pts [][2]float64) {
	for _, pt := range pts {
		g.world.Coins = append(g.world.Coins, Coin{
			X: pt[0], Y: pt[1],
			Value:  g.cfg.Coins.Value,
			Radius: g.cfg.Coins.Radius,
		})
	}
}

// roll returns a uniform integer in the inclusive range r.
func (g *Generator) roll(r config.IntRange) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + g.rng.Intn(r.Max-r.Min+1)
}
