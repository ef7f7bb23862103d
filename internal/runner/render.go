package runner

import (
	"fmt"
	"math"

	"github.com/vovakirdan/coindash/internal/core"
)

// Visual characters for rendering
const (
	GroundChar   = '█'
	PlatformChar = '▀'
	CoinChar     = '●'
	HazardChar   = '▲'
	PatrolChar   = '◆'
	PlayerChar   = '█'
)

// hudRows is the number of rows reserved above the playfield.
const hudRows = 1

// viewport maps world units to screen cells relative to the camera.
type viewport struct {
	offset float64
	sx, sy float64
}

func (g *Game) viewport(dst *core.Screen) viewport {
	return viewport{
		offset: g.camera.Offset(),
		sx:     float64(dst.Width()) / g.cfg.World.Width,
		sy:     float64(dst.Height()-hudRows) / g.cfg.World.Height,
	}
}

// cells converts a world rect to a cell rect; every visible entity covers at
// least one cell.
func (v viewport) cells(r core.Rect) (x, y, w, h int) {
	x = int(math.Floor((r.X - v.offset) * v.sx))
	y = hudRows + int(math.Floor(r.Y*v.sy))
	w = max(1, int(math.Round(r.W*v.sx)))
	h = max(1, int(math.Round(r.H*v.sy)))
	return x, y, w, h
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	v := g.viewport(dst)

	for _, p := range g.world.Platforms {
		x, y, w, h := v.cells(p.Bounds())
		if p.Ground {
			dst.FillRect(x, y, w, h, GroundChar, core.ColorGreen)
		} else {
			dst.FillRect(x, y, w, 1, PlatformChar, core.ColorCyan)
		}
	}
	for _, c := range g.world.Coins {
		x, y, _, _ := v.cells(core.NewRect(c.X, c.Y, 0, 0))
		dst.SetColored(x, y, CoinChar, core.ColorBrightYellow)
	}
	for _, o := range g.world.Obstacles {
		x, y, w, h := v.cells(o.Bounds())
		if o.Patrol != nil {
			dst.FillRect(x, y, w, h, PatrolChar, core.ColorOrange)
		} else {
			dst.FillRect(x, y, w, h, HazardChar, core.ColorRed)
		}
	}
	g.drawPlayer(dst, v)
	g.drawHUD(dst)

	switch g.session.Phase {
	case PhaseInit:
		g.drawCenteredMessage(dst, "COINDASH", "Press SPACE to start")
	case PhaseDead:
		g.drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("%s  |  Score: %d  |  R to restart", causeText(g.session.Cause), g.player.Score))
	case PhaseCompleted:
		g.drawCenteredMessage(dst, "RUN COMPLETE", fmt.Sprintf("Score: %d  |  R to restart", g.player.Score))
	default:
		if g.session.Paused {
			g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
		}
	}
}

func (g *Game) drawPlayer(dst *core.Screen, v viewport) {
	x, y, w, h := v.cells(g.player.Bounds())
	dst.FillRect(x, y, w, h, PlayerChar, core.ColorBrightBlue)
	// Eye marks facing
	if g.player.FacingRight {
		dst.SetColored(x+w-1, y, '>', core.ColorWhite)
	} else {
		dst.SetColored(x, y, '<', core.ColorWhite)
	}
}

func (g *Game) drawHUD(dst *core.Screen) {
	counter, mult := g.Combo()
	left := fmt.Sprintf(" Score: %d  Coins: %d  Jumps: %d ", g.player.Score, g.player.CoinsCollected, g.JumpsLeft())
	dst.DrawText(0, 0, left)
	if counter > 1 && g.session.ComboTimer > 0 {
		dst.DrawTextColored(len(left), 0, fmt.Sprintf(" Combo x%.1f ", mult), core.ColorBrightYellow)
	}
	right := fmt.Sprintf(" %.0fm  Spd: %.1f  %.0fs ", g.player.DistanceTraveled/10, g.camera.Speed(), g.session.Elapsed(g.runtime.TickRate))
	dst.DrawText(dst.Width()-len(right), 0, right)
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.FillRect(boxX, boxY, boxW, boxH, ' ', core.ColorDefault)
	dst.DrawBox(boxX, boxY, boxW, boxH)

	dst.DrawText(boxX+(boxW-len(title))/2, boxY+1, title)
	dst.DrawText(boxX+(boxW-len(subtitle))/2, boxY+3, subtitle)
}

func causeText(c DeathCause) string {
	switch c {
	case CauseFalling:
		return "Fell"
	case CauseObstacle:
		return "Hit an obstacle"
	case CauseLeftBehind:
		return "Left behind"
	default:
		return "Ended"
	}
}
