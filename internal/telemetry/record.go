// Package telemetry samples per-session metrics and persists them as
// append-only records to CSV and SQLite sinks.
package telemetry

import (
	"strconv"
	"time"
)

// TimeLayout is the timestamp format written to CSV.
const TimeLayout = "2006-01-02 15:04:05"

// Header is the CSV column order.
var Header = []string{
	"session_id",
	"timestamp",
	"distance_traveled",
	"coins_collected",
	"jump_count",
	"score",
	"completion_time",
	"death_cause",
}

// Record is one persisted row. Intermediate samples carry a zero
// CompletionTime and an empty DeathCause.
type Record struct {
	SessionID        string
	Timestamp        time.Time
	DistanceTraveled float64
	CoinsCollected   int
	JumpCount        int
	Score            int
	CompletionTime   float64 // Seconds
	DeathCause       string
	Final            bool
}

// Fields returns the record as CSV fields in Header order.
func (r Record) Fields() []string {
	return []string{
		r.SessionID,
		r.Timestamp.Format(TimeLayout),
		strconv.FormatFloat(r.DistanceTraveled, 'f', 1, 64),
		strconv.Itoa(r.CoinsCollected),
		strconv.Itoa(r.JumpCount),
		strconv.Itoa(r.Score),
		strconv.FormatFloat(r.CompletionTime, 'f', 2, 64),
		r.DeathCause,
	}
}

// Snapshot is the session state the recorder samples from.
type Snapshot struct {
	SessionID        string
	Ticks            int // Playing ticks so far
	DistanceTraveled float64
	CoinsCollected   int
	JumpCount        int
	Score            int
	Elapsed          float64 // Seconds of play
	DeathCause       string
}
