package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/coindash/internal/config"
	"github.com/vovakirdan/coindash/internal/platform/tui"
	"github.com/vovakirdan/coindash/internal/storage"
)

var flagScoresPlain bool

var scoresCmd = &cobra.Command{
	Use:   "scores [preset]",
	Short: "Show high scores",
	Long: `Display high scores, optionally for one difficulty preset.

Examples:
  coindash scores
  coindash scores hard
  coindash scores --plain`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresPlain, "plain", false, "Print the top 10 instead of opening the interactive view")
}

func runScores(_ *cobra.Command, args []string) error {
	preset := ""
	if len(args) == 1 {
		if config.ParsePreset(args[0]) == "" {
			return fmt.Errorf("unknown preset %q (want easy, normal, hard or fixed)", args[0])
		}
		preset = args[0]
	}

	store, err := storage.Open(settings.DBPath)
	if err != nil {
		return fmt.Errorf("error opening scores database: %w", err)
	}
	defer store.Close()

	if !flagScoresPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		width, height, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			width, height = 80, 24
		}
		return tui.RunScoreboard(store, preset, width, height)
	}

	scores, err := store.TopScores(preset, 10)
	if err != nil {
		return fmt.Errorf("error retrieving scores: %w", err)
	}

	title := "all presets"
	if preset != "" {
		title = preset
	}
	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'coindash play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %-7s  %s\n", "Rank", "Score", "Preset", "Date")
	fmt.Printf("  %-4s  %-10s  %-7s  %s\n", "----", "-----", "------", "----")
	for i, entry := range scores {
		dateStr := entry.CreatedAt.Local().Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-10d  %-7s  %s\n", i+1, entry.Score, entry.Preset, dateStr)
	}

	stats, err := store.GetSessionStats()
	if err == nil && stats.Sessions > 0 {
		fmt.Println()
		fmt.Printf("Recorded sessions: %d, best session score: %d\n", stats.Sessions, stats.HighScore)
	}
	return nil
}
