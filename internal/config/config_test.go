package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedYAMLMatchesDefaults(t *testing.T) {
	var fromYAML RunnerConfig
	if err := yaml.Unmarshal(DefaultYAML(), &fromYAML); err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}
	want, _ := yaml.Marshal(DefaultRunnerConfig())
	got, _ := yaml.Marshal(fromYAML)
	if !bytes.Equal(want, got) {
		t.Errorf("embedded YAML and DefaultRunnerConfig differ:\nyaml:\n%s\ncode:\n%s", got, want)
	}
}

func TestDefaultRunnerConfigValid(t *testing.T) {
	if err := DefaultRunnerConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejectsBackwardFrontiers(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RunnerConfig)
	}{
		{"platform gap", func(c *RunnerConfig) { c.Generation.PlatformGap = IntRange{Min: -300, Max: -300} }},
		{"ground gap", func(c *RunnerConfig) { c.Generation.GroundGap = IntRange{Min: -10, Max: 60} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultRunnerConfig()
			tc.mutate(&cfg)
			if cfg.Validate() == nil {
				t.Error("expected a validation error")
			}
		})
	}

	cfg := DefaultRunnerConfig()
	cfg.Generation.PlatformGap.Min = 0
	cfg.Generation.GroundGap.Min = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("zero gaps should be allowed: %v", err)
	}
}

func TestLoadRunnerCustomPathPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runner.yaml")
	data := []byte("physics:\n  gravity: 2\nplayer:\n  max_jumps: 1\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadRunner(path)
	if err != nil {
		t.Fatalf("LoadRunner: %v", err)
	}
	if cfg.Physics.Gravity != 2 {
		t.Errorf("gravity = %v, expected 2", cfg.Physics.Gravity)
	}
	if cfg.Player.MaxJumps != 1 {
		t.Errorf("max_jumps = %d, expected 1", cfg.Player.MaxJumps)
	}
	// Untouched fields keep defaults
	if cfg.Physics.JumpStrength != -15 {
		t.Errorf("jump_strength = %v, expected default -15", cfg.Physics.JumpStrength)
	}
}

func TestLoadRunnerErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		missing bool
	}{
		{name: "missing file", missing: true},
		{name: "malformed yaml", content: "physics: [1, 2"},
		{name: "invalid values", content: "player:\n  width: 0\n"},
		{name: "inverted range", content: "generation:\n  platform_gap: {min: 10, max: 5}\n"},
		{name: "negative platform gap", content: "generation:\n  platform_gap: {min: -300, max: -300}\n"},
		{name: "negative ground gap", content: "generation:\n  ground_gap: {min: -50, max: 40}\n"},
	}

	for i, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, "cfg"+string(rune('a'+i))+".yaml")
			if !tc.missing {
				if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			cfg, err := LoadRunner(path)
			if err == nil {
				t.Fatal("expected error")
			}
			// Fallback is still usable
			if cfg.Validate() != nil {
				t.Error("fallback config should be valid")
			}
		})
	}
}

func TestApplyRunnerPreset(t *testing.T) {
	tests := []struct {
		preset   DifficultyPreset
		enabled  bool
		level    float64
		maxJumps int
	}{
		{DifficultyEasy, true, 0.0, 3},
		{DifficultyNormal, true, 0.3, 2},
		{DifficultyHard, true, 0.7, 1},
		{DifficultyFixed, false, 0.0, 2},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultRunnerConfig()
			ApplyRunnerPreset(&cfg, tc.preset)
			if cfg.Difficulty.Enabled != tc.enabled {
				t.Errorf("Enabled = %v, expected %v", cfg.Difficulty.Enabled, tc.enabled)
			}
			if cfg.Difficulty.InitialLevel != tc.level {
				t.Errorf("InitialLevel = %v, expected %v", cfg.Difficulty.InitialLevel, tc.level)
			}
			if cfg.Player.MaxJumps != tc.maxJumps {
				t.Errorf("MaxJumps = %d, expected %d", cfg.Player.MaxJumps, tc.maxJumps)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	if ParsePreset("hard") != DifficultyHard {
		t.Error("expected hard preset")
	}
	if ParsePreset("nightmare") != "" {
		t.Error("unknown preset should map to empty")
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("COINDASH_DB", "/tmp/x.db")
	t.Setenv("COINDASH_FPS", "30")

	e, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if e.DBPath != "/tmp/x.db" {
		t.Errorf("DBPath = %q", e.DBPath)
	}
	if e.TickRate != 30 {
		t.Errorf("TickRate = %d, expected 30", e.TickRate)
	}
	if e.LogLevel != "info" {
		t.Errorf("LogLevel default = %q, expected info", e.LogLevel)
	}

	t.Setenv("COINDASH_FPS", "abc")
	if _, err := LoadEnv(); err == nil {
		t.Error("expected error for non-numeric FPS")
	}
	t.Setenv("COINDASH_FPS", "0")
	if _, err := LoadEnv(); err == nil {
		t.Error("expected error for zero FPS")
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	got, err := ExpandHome("~/.coindash/x.db")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join("/home/tester", ".coindash", "x.db") {
		t.Errorf("ExpandHome = %q", got)
	}
	if got, _ := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("absolute path changed: %q", got)
	}
}
