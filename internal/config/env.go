package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Env holds process-level settings read from the environment.
// CLI flags take precedence over these values.
type Env struct {
	ConfigPath string `env:"COINDASH_CONFIG"`
	DBPath     string `env:"COINDASH_DB" envDefault:"~/.coindash/coindash.db"`
	StatsPath  string `env:"COINDASH_STATS" envDefault:"~/.coindash/stats/game_stats.csv"`
	LogFile    string `env:"COINDASH_LOG_FILE" envDefault:"~/.coindash/coindash.log"`
	LogLevel   string `env:"COINDASH_LOG_LEVEL" envDefault:"info"`
	TickRate   int    `env:"COINDASH_FPS" envDefault:"60"`
}

// LoadEnv parses Env from the process environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return e, fmt.Errorf("config: parse environment: %w", err)
	}
	if e.TickRate <= 0 {
		return e, fmt.Errorf("config: COINDASH_FPS must be positive, got %d", e.TickRate)
	}
	return e, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], string(filepath.Separator))), nil
}
