package config

import (
	_ "embed"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultRunnerConfig returns the hard-coded runner configuration.
// It mirrors defaults/runner.yaml and is the last-resort fallback.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		World: RunnerWorld{
			Width:        800,
			Height:       600,
			FloorY:       550,
			GroundHeight: 50,
		},
		Physics: RunnerPhysics{
			Gravity:        1.0,
			Acceleration:   0.6,
			Friction:       0.1,
			MaxVelocityX:   8,
			MaxVelocityY:   15,
			JumpStrength:   -15,
			LandingEpsilon: 2,
		},
		Player: RunnerPlayer{
			StartX:   100,
			StartY:   500,
			Width:    30,
			Height:   50,
			MaxJumps: 2,
		},
		Camera: RunnerCamera{
			StartDelay:       120,
			BaseSpeed:        3,
			SpeedStep:        0.05,
			SpeedStepEvery:   60,
			MaxSpeed:         7,
			LeftBehindMargin: 200,
			ForcedPursuit:    true,
		},
		Generation: RunnerGeneration{
			Threshold:       1200,
			PruneMargin:     800,
			InitialFloorEnd: 1200,
			InitialSegment:  300,
			FirstPlatformX:  600,
			FirstPlatformY:  500,
			PlatformWidth:   IntRange{Min: 100, Max: 200},
			PlatformHeight:  20,
			PlatformGap:     IntRange{Min: 50, Max: 150},
			PlatformDY:      IntRange{Min: -80, Max: 80},
			PlatformMinY:    200,
			PlatformMaxY:    520,
			GroundWidth:     IntRange{Min: 200, Max: 300},
			GroundGap:       IntRange{Min: 80, Max: 150},
			GroundGapChance: 0.2,
			GapCoinChance:   0.5,
		},
		Coins: RunnerCoins{
			Value:         10,
			Radius:        10,
			PatternChance: 0.7,
			PatternCount:  IntRange{Min: 3, Max: 6},
			Spacing:       30,
			Lift:          30,
			ArcHeight:     40,
		},
		Hazards: RunnerHazards{
			Chance:           0.25,
			PatrolMinWidth:   140,
			PatrolSpeed:      IntRange{Min: 1, Max: 2},
			StandardSize:     Size{W: 30, H: 20},
			TallSize:         Size{W: 20, H: 40},
			WideSize:         Size{W: 50, H: 20},
			PatrolSize:       Size{W: 20, H: 20},
			PatrolEdgeMargin: 5,
		},
		Session: RunnerSession{
			ComboWindow:  120,
			ComboStep:    0.1,
			ComboMax:     3.0,
			GoalDistance: 0,
		},
		Telemetry: RunnerTelemetry{
			SampleInterval: 600,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "distance",
				MaxAt: 20000,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 0.5,
				HazardBoost:     0.15,
				GapBoost:        0.1,
			},
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultRunnerYAML
}
