package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/coindash/internal/analytics"
	"github.com/vovakirdan/coindash/internal/platform/tui"
)

var (
	flagSort   string
	flagAsc    bool
	flagPlain  bool
	flagLocale string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show session telemetry",
	Long: `Summarize the telemetry CSV: totals and averages, death causes and a
per-session table. Each session is shown with its final record.

Sort keys: timestamp, distance_traveled, coins_collected, jump_count,
score, completion_time.

Examples:
  coindash stats
  coindash stats --sort score
  coindash stats --plain --stats-file ./game_stats.csv`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&flagSort, "sort", string(analytics.SortTimestamp), "Sort key")
	statsCmd.Flags().BoolVar(&flagAsc, "asc", false, "Sort ascending")
	statsCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print text instead of opening the interactive view")
	statsCmd.Flags().StringVar(&flagLocale, "locale", "en", "Locale for number formatting")
}

func runStats(_ *cobra.Command, _ []string) error {
	key, err := analytics.ParseSortKey(flagSort)
	if err != nil {
		return err
	}

	logger := newLogger(os.Stderr, "coindash")
	sessions, err := analytics.LoadFile(settings.StatsPath, logger)
	if err != nil {
		return err
	}
	printer := analytics.Printer(flagLocale)

	if !flagPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		width, height, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			width, height = 80, 24
		}
		return tui.RunStats(sessions, key, printer, width, height)
	}

	fmt.Printf("Session stats - %s\n\n", settings.StatsPath)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, l := range analytics.Summarize(sessions).Lines(printer) {
		fmt.Fprintf(w, "  %s\t%s\n", l[0], l[1])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println()
		fmt.Println("No sessions recorded yet. Run 'coindash play' to start one.")
		return nil
	}

	analytics.SortSessions(sessions, key, !flagAsc)
	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Session\tDate\tDistance\tCoins\tJumps\tScore\tTime\tCause\t")
	for _, s := range sessions {
		cause := s.DeathCause
		if cause == "" {
			cause = analytics.Completed
		}
		fmt.Fprintln(w, printer.Sprintf("%s\t%s\t%.0f\t%d\t%d\t%d\t%.1fs\t%s\t",
			s.ID, s.Timestamp.Format("2006-01-02 15:04"), s.Distance, s.Coins, s.Jumps, s.Score, s.CompletionTime, cause))
	}
	return w.Flush()
}
