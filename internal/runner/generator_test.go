package runner

import (
	"testing"

	"github.com/vovakirdan/coindash/internal/config"
)

func newTestGenerator(seed int64) (*Generator, *World, *config.RunnerConfig) {
	cfg := config.DefaultRunnerConfig()
	w := &World{}
	return NewGenerator(seed, &cfg, w), w, &cfg
}

func TestGeneratorInitialFloor(t *testing.T) {
	_, w, cfg := newTestGenerator(1)

	// The fixed floor comes first and is independent of the seed
	for i := 0; i < 4; i++ {
		p := w.Platforms[i]
		if !p.Ground || p.X != float64(i)*300 || p.W != 300 || p.Y != cfg.World.FloorY || p.H != 50 {
			t.Errorf("initial floor segment %d = %+v", i, p)
		}
	}
}

func TestGeneratorFrontierInvariant(t *testing.T) {
	g, _, cfg := newTestGenerator(42)

	for camera := 0.0; camera < 50000; camera += 7 {
		g.Extend(camera)
		g.Prune(camera)
		if g.GroundFrontier()-camera < cfg.Generation.Threshold {
			t.Fatalf("camera %v: ground frontier %v lags threshold", camera, g.GroundFrontier())
		}
		if g.PlatformFrontier()-camera < cfg.Generation.Threshold {
			t.Fatalf("camera %v: platform frontier %v lags threshold", camera, g.PlatformFrontier())
		}
	}
}

func TestGeneratorDeterminism(t *testing.T) {
	g1, w1, _ := newTestGenerator(99)
	g2, w2, _ := newTestGenerator(99)

	for camera := 0.0; camera < 10000; camera += 5 {
		g1.Extend(camera)
		g1.Prune(camera)
		g1.MovePatrols()
		g2.Extend(camera)
		g2.Prune(camera)
		g2.MovePatrols()
	}

	if len(w1.Platforms) != len(w2.Platforms) || len(w1.Coins) != len(w2.Coins) || len(w1.Obstacles) != len(w2.Obstacles) {
		t.Fatalf("entity counts differ: %d/%d/%d vs %d/%d/%d",
			len(w1.Platforms), len(w1.Coins), len(w1.Obstacles),
			len(w2.Platforms), len(w2.Coins), len(w2.Obstacles))
	}
	for i := range w1.Platforms {
		if w1.Platforms[i] != w2.Platforms[i] {
			t.Fatalf("platform %d differs: %+v vs %+v", i, w1.Platforms[i], w2.Platforms[i])
		}
	}
	for i := range w1.Obstacles {
		if w1.Obstacles[i].Bounds() != w2.Obstacles[i].Bounds() {
			t.Fatalf("obstacle %d differs", i)
		}
	}
}

func TestGeneratorResetRewinds(t *testing.T) {
	g, w, _ := newTestGenerator(5)
	first := append([]Platform(nil), w.Platforms...)

	g.Extend(20000)
	g.Prune(20000)
	g.Reset(5)

	if len(w.Platforms) != len(first) {
		t.Fatalf("platform count after reset = %d, expected %d", len(w.Platforms), len(first))
	}
	for i := range first {
		if w.Platforms[i] != first[i] {
			t.Fatalf("platform %d differs after reset", i)
		}
	}
	if g.GroundFrontier() < 1200 {
		t.Errorf("ground frontier after reset = %v", g.GroundFrontier())
	}
}

func TestGeneratorPruning(t *testing.T) {
	g, w, cfg := newTestGenerator(7)
	pruned := make(map[*Obstacle]bool)
	previous := make(map[*Obstacle]bool)

	for camera := 0.0; camera < 30000; camera += 11 {
		g.Extend(camera)
		g.Prune(camera)
		limit := camera - cfg.Generation.PruneMargin

		for _, p := range w.Platforms {
			if p.Right() < limit {
				t.Fatalf("camera %v: stale platform %+v", camera, p)
			}
		}
		for _, c := range w.Coins {
			if c.X < limit {
				t.Fatalf("camera %v: stale coin %+v", camera, c)
			}
		}
		current := make(map[*Obstacle]bool)
		for _, o := range w.Obstacles {
			if o.Right() < limit {
				t.Fatalf("camera %v: stale obstacle %+v", camera, o)
			}
			if pruned[o] {
				t.Fatalf("camera %v: pruned obstacle reappeared", camera)
			}
			current[o] = true
		}
		for _, m := range w.Movers() {
			if !current[m] {
				t.Fatalf("camera %v: mover not in obstacle set", camera)
			}
		}
		for o := range previous {
			if !current[o] {
				pruned[o] = true
			}
		}
		previous = current
	}
	if len(pruned) == 0 {
		t.Error("expected some obstacles to be pruned")
	}
}

func TestGeneratorPlatformRules(t *testing.T) {
	g, w, cfg := newTestGenerator(3)
	gen := cfg.Generation
	g.Extend(40000)

	var lastGround *Platform
	for i := range w.Platforms {
		p := &w.Platforms[i]
		if !p.Bounds().Valid() {
			t.Fatalf("platform %d has non-positive size: %+v", i, p)
		}
		if p.Ground {
			if lastGround != nil {
				gap := p.X - lastGround.Right()
				if gap < 0 || gap > float64(gen.GroundGap.Max) {
					t.Fatalf("ground gap %v outside [0, %d]", gap, gen.GroundGap.Max)
				}
			}
			lastGround = p
			continue
		}
		if p.Y < gen.PlatformMinY || p.Y > gen.PlatformMaxY {
			t.Errorf("floating platform y %v outside band", p.Y)
		}
		if p.W < float64(gen.PlatformWidth.Min) || p.W > float64(gen.PlatformWidth.Max) {
			t.Errorf("floating platform width %v outside range", p.W)
		}
	}
	for _, c := range w.Coins {
		if c.Y < cfg.Coins.Radius {
			t.Errorf("coin above the top of the world: %+v", c)
		}
	}
}

func TestPatrolStaysWithinBounds(t *testing.T) {
	g, w, _ := newTestGenerator(11)
	g.SetChances(1, 0)
	g.Extend(30000)

	if len(w.Movers()) == 0 {
		t.Fatal("expected patrol obstacles with hazard chance 1")
	}
	for tick := 0; tick < 2000; tick++ {
		g.MovePatrols()
		for _, m := range w.Movers() {
			if m.X < m.Patrol.MinX || m.X > m.Patrol.MaxX {
				t.Fatalf("patrol at %v outside [%v, %v]", m.X, m.Patrol.MinX, m.Patrol.MaxX)
			}
		}
	}
}

func TestPatrolReverses(t *testing.T) {
	o := &Obstacle{X: 0, W: 20, H: 20, Kind: ObstaclePatrol, Patrol: &Patrol{MinX: 0, MaxX: 3, Speed: 2, Dir: 1}}
	var xs []float64
	for i := 0; i < 5; i++ {
		o.Step()
		xs = append(xs, o.X)
	}
	expected := []float64{2, 3, 1, 0, 2}
	for i := range expected {
		if xs[i] != expected[i] {
			t.Fatalf("patrol path = %v, expected %v", xs, expected)
		}
	}
}

func TestPatternLayouts(t *testing.T) {
	s := patternShape{spacing: 30, arcHeight: 40, minY: 10}

	tests := []struct {
		pattern CoinPattern
		count   int
		check   func(pts [][2]float64) bool
	}{
		{PatternSingle, 5, func(pts [][2]float64) bool { return len(pts) == 1 && pts[0] == [2]float64{100, 300} }},
		{PatternLine, 4, func(pts [][2]float64) bool {
			return len(pts) == 4 && pts[3] == [2]float64{190, 300}
		}},
		{PatternArc, 3, func(pts [][2]float64) bool {
			return len(pts) == 3 && pts[0][1] == 300 && almostEqual(pts[1][1], 260) && almostEqual(pts[2][1], 300)
		}},
		{PatternZigzag, 4, func(pts [][2]float64) bool {
			return pts[0][1] == 300 && pts[1][1] == 270 && pts[2][1] == 300 && pts[3][1] == 270
		}},
		{PatternVertical, 3, func(pts [][2]float64) bool {
			return pts[2] == [2]float64{100, 240}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.pattern.String(), func(t *testing.T) {
			pts := s.layout(tc.pattern, 100, 300, tc.count)
			if !tc.check(pts) {
				t.Errorf("unexpected layout %v", pts)
			}
		})
	}

	// Coins are clamped below the top of the world
	pts := s.layout(PatternVertical, 0, 20, 3)
	if pts[2][1] != 10 {
		t.Errorf("vertical pattern not clamped: %v", pts)
	}
}
