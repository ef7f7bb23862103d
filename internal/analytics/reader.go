// Package analytics reads the telemetry CSV back and aggregates it for the
// stats views.
package analytics

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/coindash/internal/telemetry"
)

// Session is the row kept for one session id: the last final row, or the
// last sample when the run never finished.
type Session struct {
	ID             string
	Timestamp      time.Time
	Distance       float64
	Coins          int
	Jumps          int
	Score          int
	CompletionTime float64
	DeathCause     string
	Final          bool // The row carries a completion time or a death cause
}

// ErrNoHeader is returned when the input lacks the telemetry columns.
var ErrNoHeader = errors.New("analytics: missing telemetry header")

// LoadFile reads sessions from a telemetry CSV file. A missing file yields
// no sessions and no error.
func LoadFile(path string, logger *log.Logger) ([]Session, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("analytics: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f, logger)
}

// Load parses telemetry rows and collapses them to one Session per id, in
// order of first appearance. A final row is never replaced by a later
// sample. Malformed rows are skipped with a warning.
func Load(r io.Reader, logger *log.Logger) ([]Session, error) {
	if logger == nil {
		logger = log.Default()
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("analytics: read header: %w", err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var order []string
	byID := make(map[string]Session)
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				logger.Warn("skipping unreadable row", "line", line, "err", err)
				continue
			}
			return nil, fmt.Errorf("analytics: read row %d: %w", line, err)
		}

		s, err := parseRow(row, cols)
		if err != nil {
			logger.Warn("skipping malformed row", "line", line, "err", err)
			continue
		}
		prev, seen := byID[s.ID]
		if !seen {
			order = append(order, s.ID)
		}
		if seen && prev.Final && !s.Final {
			continue
		}
		byID[s.ID] = s
	}

	sessions := make([]Session, 0, len(order))
	for _, id := range order {
		sessions = append(sessions, byID[id])
	}
	return sessions, nil
}

// columnIndex maps each telemetry column to its position in header.
func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range telemetry.Header {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: no %q column", ErrNoHeader, name)
		}
	}
	return cols, nil
}

func parseRow(row []string, cols map[string]int) (Session, error) {
	field := func(name string) string {
		i := cols[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var s Session
	s.ID = field("session_id")
	if s.ID == "" {
		return s, errors.New("empty session_id")
	}

	var err error
	if s.Timestamp, err = time.ParseInLocation(telemetry.TimeLayout, field("timestamp"), time.Local); err != nil {
		return s, fmt.Errorf("timestamp: %w", err)
	}
	if s.Distance, err = strconv.ParseFloat(field("distance_traveled"), 64); err != nil {
		return s, fmt.Errorf("distance_traveled: %w", err)
	}
	if s.Coins, err = strconv.Atoi(field("coins_collected")); err != nil {
		return s, fmt.Errorf("coins_collected: %w", err)
	}
	if s.Jumps, err = strconv.Atoi(field("jump_count")); err != nil {
		return s, fmt.Errorf("jump_count: %w", err)
	}
	if s.Score, err = strconv.Atoi(field("score")); err != nil {
		return s, fmt.Errorf("score: %w", err)
	}
	if s.CompletionTime, err = strconv.ParseFloat(field("completion_time"), 64); err != nil {
		return s, fmt.Errorf("completion_time: %w", err)
	}
	s.DeathCause = field("death_cause")
	s.Final = s.CompletionTime > 0 || s.DeathCause != ""
	return s, nil
}
