package config

import "math"

// DifficultyManager calculates dynamic runner parameters based on distance/time.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// SetEnabled enables or disables difficulty progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0) based on distance/ticks.
func (d *DifficultyManager) Level(distance float64, ticks int) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "distance":
		progress = distance / maxAt
	case "time":
		progress = float64(ticks) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Speed returns the scroll base speed scaled by the current level.
func (d *DifficultyManager) Speed(baseSpeed, distance float64, ticks int) float64 {
	level := d.Level(distance, ticks)
	return baseSpeed * (1.0 + level*d.cfg.Scaling.SpeedMultiplier)
}

// HazardChance returns the per-platform obstacle probability at the current level.
func (d *DifficultyManager) HazardChance(base, distance float64, ticks int) float64 {
	level := d.Level(distance, ticks)
	return clampF(base+level*d.cfg.Scaling.HazardBoost, 0.0, 1.0)
}

// GapChance returns the ground gap probability at the current level.
// Capped below 1 so ground segments keep appearing.
func (d *DifficultyManager) GapChance(base, distance float64, ticks int) float64 {
	level := d.Level(distance, ticks)
	return clampF(base+level*d.cfg.Scaling.GapBoost, 0.0, 0.9)
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
