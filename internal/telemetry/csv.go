package telemetry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrClosed is returned when writing to a closed sink.
var ErrClosed = errors.New("telemetry: sink closed")

// CSVSink appends records to a CSV file from a background goroutine.
// Records are written in Write order; the header is written only when the
// file is empty. Timestamps are clamped so they never go backwards.
type CSVSink struct {
	file  *os.File
	w     *csv.Writer
	queue chan Record
	done  chan struct{}
	last  time.Time

	mu     sync.Mutex // Guards closed and sends on queue
	closed bool

	errMu sync.Mutex
	err   error // First write error from the background goroutine
}

// OpenCSV opens (or creates) path for appending. buffer is the queue length.
func OpenCSV(path string, buffer int) (*CSVSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("telemetry: cannot create directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: cannot open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("telemetry: cannot stat %s: %w", path, err)
	}

	if buffer <= 0 {
		buffer = 64
	}
	s := &CSVSink{
		file:  f,
		w:     csv.NewWriter(f),
		queue: make(chan Record, buffer),
		done:  make(chan struct{}),
	}
	if info.Size() == 0 {
		if err := s.w.Write(Header); err != nil {
			f.Close()
			return nil, fmt.Errorf("telemetry: cannot write header: %w", err)
		}
		s.w.Flush()
		if err := s.w.Error(); err != nil {
			f.Close()
			return nil, fmt.Errorf("telemetry: cannot write header: %w", err)
		}
	}

	go s.run()
	return s, nil
}

// Write queues rec. It blocks only when the queue is full.
func (s *CSVSink) Write(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.Err(); err != nil {
		return err
	}
	s.queue <- rec
	return nil
}

// Err returns the first background write error, if any.
func (s *CSVSink) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

// Close drains the queue, flushes and closes the file.
func (s *CSVSink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	<-s.done
	closeErr := s.file.Close()
	return errors.Join(s.Err(), closeErr)
}

func (s *CSVSink) run() {
	defer close(s.done)
	for rec := range s.queue {
		if rec.Timestamp.Before(s.last) {
			rec.Timestamp = s.last
		}
		s.last = rec.Timestamp

		err := s.w.Write(rec.Fields())
		if err == nil {
			// Flush per record so a crash loses at most the queue
			s.w.Flush()
			err = s.w.Error()
		}
		if err != nil {
			s.errMu.Lock()
			if s.err == nil {
				s.err = fmt.Errorf("telemetry: csv write: %w", err)
			}
			s.errMu.Unlock()
		}
	}
}
