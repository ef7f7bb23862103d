package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective runner config",
	Long: `Print the runner configuration after the config search order and the
difficulty preset are applied. The output is valid input for --config.

Search order:
  1. --config or COINDASH_CONFIG
  2. ~/.coindash/configs/runner.yaml
  3. ./configs/runner.yaml
  4. built-in defaults`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, preset, err := loadRunnerConfig()
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	fmt.Printf("# difficulty: %s\n", preset)
	fmt.Print(string(out))
	return nil
}
