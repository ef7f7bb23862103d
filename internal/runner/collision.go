package runner

import "github.com/vovakirdan/coindash/internal/core"

// ResolveTerrain lands the player on the first platform, in slice order, that
// it overlaps horizontally while not moving upward and whose top it is either
// standing on (feet within eps) or crossed during this tick.
// OnGround is cleared first. Returns the platform index, or -1.
func ResolveTerrain(p *Player, platforms []Platform, eps float64) int {
	p.OnGround = false
	if p.VY < 0 {
		return -1
	}

	body := p.Bounds()
	feet := p.Feet()
	prevFeet := p.PrevY + p.H
	for i := range platforms {
		pl := &platforms[i]
		if !body.OverlapsX(pl.Bounds()) {
			continue
		}
		top := pl.Y
		standing := core.AbsF(feet-top) <= eps
		crossed := feet >= top && prevFeet < top
		if !standing && !crossed {
			continue
		}
		p.Y = top - p.H
		p.VY = 0
		p.OnGround = true
		p.JumpsUsed = 0
		return i
	}
	return -1
}

// HitObstacle reports whether the player overlaps any obstacle.
func HitObstacle(p *Player, obstacles []*Obstacle) bool {
	body := p.Bounds()
	for _, o := range obstacles {
		if body.Intersects(o.Bounds()) {
			return true
		}
	}
	return false
}

// CollectCoins removes every coin whose center lies inside the player and
// returns their base values in collection order. Remaining coins keep their
// relative order.
func CollectCoins(p *Player, w *World) []int {
	body := p.Bounds()
	var values []int
	kept := w.Coins[:0]
	for _, c := range w.Coins {
		if c.Collected {
			continue
		}
		if body.Contains(c.X, c.Y) {
			values = append(values, c.Value)
			continue
		}
		kept = append(kept, c)
	}
	w.Coins = kept
	p.CoinsCollected += len(values)
	return values
}
