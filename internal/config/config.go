// Package config provides YAML-based game configuration loading,
// environment overrides, and difficulty management.
package config

// RunnerConfig contains all tunables of the runner simulation.
// Distances are world units (the logical screen is World.Width × World.Height),
// durations are simulation ticks.
type RunnerConfig struct {
	World      RunnerWorld      `yaml:"world"`
	Physics    RunnerPhysics    `yaml:"physics"`
	Player     RunnerPlayer     `yaml:"player"`
	Camera     RunnerCamera     `yaml:"camera"`
	Generation RunnerGeneration `yaml:"generation"`
	Coins      RunnerCoins      `yaml:"coins"`
	Hazards    RunnerHazards    `yaml:"hazards"`
	Session    RunnerSession    `yaml:"session"`
	Telemetry  RunnerTelemetry  `yaml:"telemetry"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// RunnerWorld defines the logical screen and floor geometry.
type RunnerWorld struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`        // Falling past this y is fatal
	FloorY       float64 `yaml:"floor_y"`       // Top of ground platforms
	GroundHeight float64 `yaml:"ground_height"` // Thickness of ground platforms
}

// RunnerPhysics defines the integrator constants.
type RunnerPhysics struct {
	Gravity        float64 `yaml:"gravity"`
	Acceleration   float64 `yaml:"acceleration"`
	Friction       float64 `yaml:"friction"`
	MaxVelocityX   float64 `yaml:"max_velocity_x"`
	MaxVelocityY   float64 `yaml:"max_velocity_y"`
	JumpStrength   float64 `yaml:"jump_strength"`   // Negative = upward
	LandingEpsilon float64 `yaml:"landing_epsilon"` // Standing tolerance for feet vs platform top
}

// RunnerPlayer defines the player body and jump budget.
type RunnerPlayer struct {
	StartX   float64 `yaml:"start_x"`
	StartY   float64 `yaml:"start_y"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	MaxJumps int     `yaml:"max_jumps"` // Jumps available per airborne span
}

// RunnerCamera defines the auto-scroll camera.
type RunnerCamera struct {
	StartDelay       int     `yaml:"start_delay"` // Ticks before scrolling begins
	BaseSpeed        float64 `yaml:"base_speed"`
	SpeedStep        float64 `yaml:"speed_step"`
	SpeedStepEvery   int     `yaml:"speed_step_every"` // Ticks between speed steps
	MaxSpeed         float64 `yaml:"max_speed"`
	LeftBehindMargin float64 `yaml:"left_behind_margin"`
	ForcedPursuit    bool    `yaml:"forced_pursuit"`
}

// IntRange is an inclusive integer range used for random rolls.
type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// RunnerGeneration defines terrain generation.
type RunnerGeneration struct {
	Threshold       float64  `yaml:"threshold"`    // Frontier lead over the camera
	PruneMargin     float64  `yaml:"prune_margin"` // Distance behind the camera before removal
	InitialFloorEnd float64  `yaml:"initial_floor_end"`
	InitialSegment  float64  `yaml:"initial_segment"`
	FirstPlatformX  float64  `yaml:"first_platform_x"`
	FirstPlatformY  float64  `yaml:"first_platform_y"`
	PlatformWidth   IntRange `yaml:"platform_width"`
	PlatformHeight  float64  `yaml:"platform_height"`
	PlatformGap     IntRange `yaml:"platform_gap"`
	PlatformDY      IntRange `yaml:"platform_dy"`
	PlatformMinY    float64  `yaml:"platform_min_y"`
	PlatformMaxY    float64  `yaml:"platform_max_y"`
	GroundWidth     IntRange `yaml:"ground_width"`
	GroundGap       IntRange `yaml:"ground_gap"`
	GroundGapChance float64  `yaml:"ground_gap_chance"`
	GapCoinChance   float64  `yaml:"gap_coin_chance"`
}

// RunnerCoins defines coin values and pattern shapes.
type RunnerCoins struct {
	Value         int      `yaml:"value"`
	Radius        float64  `yaml:"radius"`
	PatternChance float64  `yaml:"pattern_chance"`
	PatternCount  IntRange `yaml:"pattern_count"`
	Spacing       float64  `yaml:"spacing"`
	Lift          float64  `yaml:"lift"` // Height of the first coin above the platform
	ArcHeight     float64  `yaml:"arc_height"`
}

// RunnerHazards defines obstacle kinds and spawn rate.
type RunnerHazards struct {
	Chance           float64  `yaml:"chance"`
	PatrolMinWidth   float64  `yaml:"patrol_min_width"` // Minimum platform width for patrols
	PatrolSpeed      IntRange `yaml:"patrol_speed"`
	StandardSize     Size     `yaml:"standard"`
	TallSize         Size     `yaml:"tall"`
	WideSize         Size     `yaml:"wide"`
	PatrolSize       Size     `yaml:"patrol"`
	PatrolEdgeMargin float64  `yaml:"patrol_edge_margin"`
}

// Size is a width/height pair.
type Size struct {
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// RunnerSession defines scoring and session end rules.
type RunnerSession struct {
	ComboWindow  int     `yaml:"combo_window"` // Ticks a combo stays alive
	ComboStep    float64 `yaml:"combo_step"`
	ComboMax     float64 `yaml:"combo_max"`
	GoalDistance float64 `yaml:"goal_distance"` // 0 = endless
}

// RunnerTelemetry defines sampling.
type RunnerTelemetry struct {
	SampleInterval int `yaml:"sample_interval"` // Ticks between intermediate records
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over a session.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "distance", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Distance/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Added to scroll base speed at max difficulty
	HazardBoost     float64 `yaml:"hazard_boost"`     // Added to hazard chance at max difficulty
	GapBoost        float64 `yaml:"gap_boost"`        // Added to ground gap chance at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI string to a preset; unknown values yield "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}
