package telemetry

import (
	"errors"
	"sync"
	"time"

	"github.com/vovakirdan/coindash/internal/storage"
)

// StoreSink writes records to the SQLite session_records table. It is safe
// for concurrent use.
type StoreSink struct {
	store *storage.Store

	mu   sync.Mutex
	last time.Time
}

// NewStoreSink wraps store. The store is not closed by the sink.
func NewStoreSink(store *storage.Store) *StoreSink {
	return &StoreSink{store: store}
}

// Write inserts rec, clamping its timestamp to be monotonic.
func (s *StoreSink) Write(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.Timestamp.Before(s.last) {
		rec.Timestamp = s.last
	}
	s.last = rec.Timestamp
	_, err := s.store.SaveSessionRecord(storage.SessionRecord{
		SessionID:      rec.SessionID,
		RecordedAt:     rec.Timestamp,
		Distance:       rec.DistanceTraveled,
		Coins:          rec.CoinsCollected,
		Jumps:          rec.JumpCount,
		Score:          rec.Score,
		CompletionTime: rec.CompletionTime,
		DeathCause:     rec.DeathCause,
		Final:          rec.Final,
	})
	return err
}

// Close is a no-op; the store's owner closes it.
func (s *StoreSink) Close() error {
	return nil
}

// MultiSink fans records out to several sinks.
type MultiSink []Sink

// Write writes rec to every sink, joining their errors.
func (m MultiSink) Write(rec Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink, joining their errors.
func (m MultiSink) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Shared wraps a sink used by several recorders. Close on the wrapper is a
// no-op; the sink's owner closes the underlying sink once.
func Shared(s Sink) Sink {
	return sharedSink{s}
}

type sharedSink struct {
	Sink
}

func (sharedSink) Close() error {
	return nil
}

// MemorySink keeps records in memory. It is used when persistence is
// disabled and in tests.
type MemorySink struct {
	Records []Record
	closed  bool
}

// Write appends rec.
func (m *MemorySink) Write(rec Record) error {
	if m.closed {
		return ErrClosed
	}
	m.Records = append(m.Records, rec)
	return nil
}

// Close marks the sink closed.
func (m *MemorySink) Close() error {
	m.closed = true
	return nil
}
