package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadRunner loads the runner configuration.
// Search order: customPath -> ~/.coindash/configs/runner.yaml -> ./configs/runner.yaml -> embedded default.
// Files are decoded over the defaults, so partial files only override what they name.
func LoadRunner(customPath string) (RunnerConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultRunnerConfig(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := decodeRunner(data)
		if err != nil {
			return DefaultRunnerConfig(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("runner.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := decodeRunner(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/runner.yaml"); err == nil {
		if cfg, err := decodeRunner(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := decodeRunner(defaultRunnerYAML)
	if err != nil {
		return DefaultRunnerConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// decodeRunner parses YAML over the hard-coded defaults and validates the result.
func decodeRunner(data []byte) (RunnerConfig, error) {
	cfg := DefaultRunnerConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the invariants the simulation relies on.
func (c RunnerConfig) Validate() error {
	var errs []error
	if c.Player.Width <= 0 || c.Player.Height <= 0 {
		errs = append(errs, errors.New("player width and height must be positive"))
	}
	if c.Player.MaxJumps < 0 {
		errs = append(errs, errors.New("player.max_jumps must not be negative"))
	}
	if c.World.GroundHeight <= 0 || c.Generation.PlatformHeight <= 0 {
		errs = append(errs, errors.New("platform heights must be positive"))
	}
	if c.Generation.PlatformWidth.Min <= 0 || c.Generation.GroundWidth.Min <= 0 {
		errs = append(errs, errors.New("platform widths must be positive"))
	}
	if c.Generation.PlatformGap.Min < 0 || c.Generation.GroundGap.Min < 0 {
		errs = append(errs, errors.New("platform_gap and ground_gap must not be negative"))
	}
	if c.Generation.InitialSegment <= 0 {
		errs = append(errs, errors.New("generation.initial_segment must be positive"))
	}
	for name, r := range map[string]IntRange{
		"platform_width": c.Generation.PlatformWidth,
		"platform_gap":   c.Generation.PlatformGap,
		"platform_dy":    c.Generation.PlatformDY,
		"ground_width":   c.Generation.GroundWidth,
		"ground_gap":     c.Generation.GroundGap,
		"pattern_count":  c.Coins.PatternCount,
		"patrol_speed":   c.Hazards.PatrolSpeed,
	} {
		if r.Max < r.Min {
			errs = append(errs, fmt.Errorf("%s: max %d below min %d", name, r.Max, r.Min))
		}
	}
	if c.Generation.PlatformMaxY < c.Generation.PlatformMinY {
		errs = append(errs, errors.New("generation.platform_max_y below platform_min_y"))
	}
	if c.Camera.SpeedStepEvery <= 0 {
		errs = append(errs, errors.New("camera.speed_step_every must be positive"))
	}
	if c.Session.ComboMax < 1 {
		errs = append(errs, errors.New("session.combo_max must be at least 1"))
	}
	if c.Telemetry.SampleInterval <= 0 {
		errs = append(errs, errors.New("telemetry.sample_interval must be positive"))
	}
	return errors.Join(errs...)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".coindash", "configs", filename)
}

// ApplyRunnerPreset modifies the config based on a difficulty preset.
func ApplyRunnerPreset(cfg *RunnerConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)

	// Adjust the jump budget based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Player.MaxJumps = 3
	case DifficultyHard:
		cfg.Player.MaxJumps = 1
	}
}
