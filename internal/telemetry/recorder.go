package telemetry

import (
	"time"

	"github.com/charmbracelet/log"
)

// Sink persists records in the order they are written.
type Sink interface {
	Write(Record) error
	Close() error
}

// Recorder turns per-tick snapshots into records: one intermediate sample
// every interval ticks and exactly one final record per session.
type Recorder struct {
	sink     Sink
	interval int
	logger   *log.Logger
	now      func() time.Time

	sessionID  string
	lastSample int
	finished   bool
	failures   int
}

// NewRecorder creates a recorder writing to sink. logger may be nil.
func NewRecorder(sink Sink, interval int, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.Default()
	}
	if interval <= 0 {
		interval = 600
	}
	return &Recorder{
		sink:     sink,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock replaces the time source.
func (r *Recorder) SetClock(now func() time.Time) {
	r.now = now
}

// Failures returns how many writes the sink rejected.
func (r *Recorder) Failures() int {
	return r.failures
}

// Tick writes an intermediate sample when snap.Ticks lands on the interval.
// Repeated calls for the same tick (for example while paused) write once.
func (r *Recorder) Tick(snap Snapshot) {
	r.track(snap.SessionID)
	if r.finished || snap.Ticks <= 0 || snap.Ticks == r.lastSample || snap.Ticks%r.interval != 0 {
		return
	}
	r.lastSample = snap.Ticks
	r.write(Record{
		SessionID:        snap.SessionID,
		Timestamp:        r.now(),
		DistanceTraveled: snap.DistanceTraveled,
		CoinsCollected:   snap.CoinsCollected,
		JumpCount:        snap.JumpCount,
		Score:            snap.Score,
	})
}

// Finish writes the final record of the session. Later calls for the same
// session are ignored.
func (r *Recorder) Finish(snap Snapshot) {
	r.track(snap.SessionID)
	if r.finished {
		return
	}
	r.finished = true
	r.write(Record{
		SessionID:        snap.SessionID,
		Timestamp:        r.now(),
		DistanceTraveled: snap.DistanceTraveled,
		CoinsCollected:   snap.CoinsCollected,
		JumpCount:        snap.JumpCount,
		Score:            snap.Score,
		CompletionTime:   snap.Elapsed,
		DeathCause:       snap.DeathCause,
		Final:            true,
	})
	r.logger.Info("session recorded",
		"session", snap.SessionID,
		"score", snap.Score,
		"distance", int(snap.DistanceTraveled),
		"cause", snap.DeathCause,
	)
}

// Close flushes and closes the sink.
func (r *Recorder) Close() error {
	if r.sink == nil {
		return nil
	}
	return r.sink.Close()
}

// track resets per-session state when a new session id appears.
func (r *Recorder) track(sessionID string) {
	if sessionID == r.sessionID {
		return
	}
	r.sessionID = sessionID
	r.lastSample = 0
	r.finished = false
}

func (r *Recorder) write(rec Record) {
	if r.sink == nil {
		return
	}
	if err := r.sink.Write(rec); err != nil {
		r.failures++
		r.logger.Warn("telemetry write failed", "session", rec.SessionID, "final", rec.Final, "err", err)
	}
}
