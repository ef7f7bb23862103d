package core

// RuntimeConfig contains configuration passed to the game at initialization.
// Screen size only affects rendering; the simulation runs in world units.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic generation
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState is the platform-facing summary of the running game.
type GameState struct {
	Score    int  // Current score
	GameOver bool // Whether the session has ended (dead or completed)
	Paused   bool // Whether the game is paused
	Quit     bool // Whether the host loop should terminate
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}
