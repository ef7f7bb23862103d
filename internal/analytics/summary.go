package analytics

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Completed is the death cause label used for sessions that ended without dying.
const Completed = "completed"

// Summary aggregates a set of sessions. Averages and the time spread are
// zero when there are no sessions; StdTime is the sample deviation and stays
// zero below two sessions.
type Summary struct {
	Sessions      int
	TotalDistance float64
	AvgDistance   float64
	TotalCoins    int
	AvgCoins      float64
	TotalJumps    int
	AvgJumps      float64
	HighScore     int
	AvgScore      float64
	MinTime       float64
	MaxTime       float64
	AvgTime       float64
	StdTime       float64
	DeathCauses   map[string]int
}

// Summarize aggregates sessions.
func Summarize(sessions []Session) Summary {
	sum := Summary{
		Sessions:    len(sessions),
		DeathCauses: make(map[string]int),
	}
	if len(sessions) == 0 {
		return sum
	}

	var totalScore, totalTime float64
	sum.MinTime = sessions[0].CompletionTime
	for _, s := range sessions {
		sum.TotalDistance += s.Distance
		sum.TotalCoins += s.Coins
		sum.TotalJumps += s.Jumps
		totalScore += float64(s.Score)
		totalTime += s.CompletionTime
		sum.HighScore = max(sum.HighScore, s.Score)
		sum.MinTime = min(sum.MinTime, s.CompletionTime)
		sum.MaxTime = max(sum.MaxTime, s.CompletionTime)

		cause := s.DeathCause
		if cause == "" {
			cause = Completed
		}
		sum.DeathCauses[cause]++
	}

	n := float64(len(sessions))
	sum.AvgDistance = sum.TotalDistance / n
	sum.AvgCoins = float64(sum.TotalCoins) / n
	sum.AvgJumps = float64(sum.TotalJumps) / n
	sum.AvgScore = totalScore / n
	sum.AvgTime = totalTime / n

	if len(sessions) > 1 {
		var sq float64
		for _, s := range sessions {
			d := s.CompletionTime - sum.AvgTime
			sq += d * d
		}
		sum.StdTime = math.Sqrt(sq / (n - 1))
	}
	return sum
}

// Causes returns the death cause labels sorted by count, then name.
func (s Summary) Causes() []string {
	out := make([]string, 0, len(s.DeathCauses))
	for c := range s.DeathCauses {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b string) int {
		if n := cmp.Compare(s.DeathCauses[b], s.DeathCauses[a]); n != 0 {
			return n
		}
		return strings.Compare(a, b)
	})
	return out
}

// CauseShare returns the fraction of sessions that ended with cause.
func (s Summary) CauseShare(cause string) float64 {
	if s.Sessions == 0 {
		return 0
	}
	return float64(s.DeathCauses[cause]) / float64(s.Sessions)
}

// SortKey selects the column SortSessions orders by.
type SortKey string

const (
	SortTimestamp SortKey = "timestamp"
	SortDistance  SortKey = "distance_traveled"
	SortCoins     SortKey = "coins_collected"
	SortJumps     SortKey = "jump_count"
	SortScore     SortKey = "score"
	SortTime      SortKey = "completion_time"
)

// SortKeys lists the accepted sort keys.
var SortKeys = []SortKey{SortTimestamp, SortDistance, SortCoins, SortJumps, SortScore, SortTime}

// ParseSortKey validates a sort key name.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(SortKeys, k) {
		return k, nil
	}
	return "", fmt.Errorf("analytics: unknown sort key %q", s)
}

// SortSessions orders sessions in place by key, descending when desc is set.
// Ties keep their original order.
func SortSessions(sessions []Session, key SortKey, desc bool) {
	slices.SortStableFunc(sessions, func(a, b Session) int {
		var n int
		switch key {
		case SortDistance:
			n = cmp.Compare(a.Distance, b.Distance)
		case SortCoins:
			n = cmp.Compare(a.Coins, b.Coins)
		case SortJumps:
			n = cmp.Compare(a.Jumps, b.Jumps)
		case SortScore:
			n = cmp.Compare(a.Score, b.Score)
		case SortTime:
			n = cmp.Compare(a.CompletionTime, b.CompletionTime)
		default:
			n = a.Timestamp.Compare(b.Timestamp)
		}
		if desc {
			return -n
		}
		return n
	})
}

// Printer returns a number printer for the given locale, falling back to
// English for tags it cannot parse.
func Printer(locale string) *message.Printer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

// Lines renders the summary as label/value pairs using p for number
// grouping.
func (s Summary) Lines(p *message.Printer) [][2]string {
	lines := [][2]string{
		{"Sessions", p.Sprintf("%d", s.Sessions)},
		{"Total distance", p.Sprintf("%.0f", s.TotalDistance)},
		{"Avg distance", p.Sprintf("%.1f", s.AvgDistance)},
		{"Total coins", p.Sprintf("%d", s.TotalCoins)},
		{"Avg coins", p.Sprintf("%.1f", s.AvgCoins)},
		{"Total jumps", p.Sprintf("%d", s.TotalJumps)},
		{"Avg jumps", p.Sprintf("%.1f", s.AvgJumps)},
		{"High score", p.Sprintf("%d", s.HighScore)},
		{"Avg score", p.Sprintf("%.1f", s.AvgScore)},
		{"Shortest run", p.Sprintf("%.1fs", s.MinTime)},
		{"Longest run", p.Sprintf("%.1fs", s.MaxTime)},
		{"Avg run", p.Sprintf("%.1fs", s.AvgTime)},
		{"Run time std dev", p.Sprintf("%.1fs", s.StdTime)},
	}
	for _, c := range s.Causes() {
		lines = append(lines, [2]string{
			"Ended by " + c,
			p.Sprintf("%d (%.0f%%)", s.DeathCauses[c], 100*s.CauseShare(c)),
		})
	}
	return lines
}
