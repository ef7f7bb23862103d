package runner

import (
	"github.com/vovakirdan/coindash/internal/config"
	"github.com/vovakirdan/coindash/internal/core"
)

// Integrate advances the player by one fixed tick.
// dir is -1, 0 or +1 from the held movement keys. minVX floors the horizontal
// velocity after clamping; pass 0 when the camera is not pushing the player.
func Integrate(p *Player, dir int, minVX float64, phys config.RunnerPhysics) {
	// Horizontal: accelerate while held, otherwise friction toward zero
	switch {
	case dir != 0:
		p.VX += phys.Acceleration * float64(dir)
		p.FacingRight = dir > 0
	case p.VX > 0:
		p.VX = max(0, p.VX-phys.Friction)
	case p.VX < 0:
		p.VX = min(0, p.VX+phys.Friction)
	}
	p.VX = core.ClampF(p.VX, -phys.MaxVelocityX, phys.MaxVelocityX)
	if minVX > 0 && p.VX < minVX {
		p.VX = minVX
	}

	// Vertical: gravity only while airborne
	if !p.OnGround {
		p.VY += phys.Gravity
	}
	p.VY = core.ClampF(p.VY, -phys.MaxVelocityY, phys.MaxVelocityY)

	p.PrevY = p.Y
	p.X += p.VX
	p.Y += p.VY
	p.DistanceTraveled += core.AbsF(p.VX)
}
