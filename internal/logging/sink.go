// pattern: Imperative Shell

package logging

import (
	"encoding/json"
	"errors"
	"math"
	"sync"
	"time"
)

var errSinkClosed = errors.New("log sink closed")

// ChannelSink is a zapcore.WriteSyncer that decodes each JSON record into a
// LogEntry and queues it for the UI. It never blocks the logger: when the
// queue is full the oldest entry is discarded.
type ChannelSink struct {
	mu      sync.Mutex
	entries chan LogEntry
	closed  bool
	dropped int
}

// NewChannelSink returns a sink queueing up to size entries.
func NewChannelSink(size int) *ChannelSink {
	return &ChannelSink{entries: make(chan LogEntry, max(size, 1))}
}

// Write implements io.Writer. Records that are not valid JSON are swallowed.
func (s *ChannelSink) Write(p []byte) (int, error) {
	entry, err := decodeEntry(p)
	if err != nil {
		return len(p), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, errSinkClosed
	}
	for {
		select {
		case s.entries <- entry:
			return len(p), nil
		default:
		}
		select {
		case <-s.entries:
			s.dropped++
		default:
		}
	}
}

// Dropped returns how many queued entries were discarded to make room.
func (s *ChannelSink) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Sync implements zapcore.WriteSyncer.
func (s *ChannelSink) Sync() error {
	return nil
}

// Close closes the entry channel. Later writes fail.
func (s *ChannelSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.entries)
	}
	return nil
}

// Entries returns the queue.
func (s *ChannelSink) Entries() <-chan LogEntry {
	return s.entries
}

// record is the shape of zap's JSON encoder output with the keys set by
// encoderConfig.
type record struct {
	TS     float64 `json:"ts"`
	Level  string  `json:"level"`
	Logger string  `json:"logger"`
	Msg    string  `json:"msg"`
}

// decodeEntry turns one encoded record into a LogEntry. Keys other than the
// standard ones become fields; caller and stack traces are dropped.
func decodeEntry(data []byte) (LogEntry, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return LogEntry{}, err
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return LogEntry{}, err
	}
	for _, k := range []string{"ts", "level", "logger", "msg", "caller", "stacktrace"} {
		delete(fields, k)
	}

	ts := time.Now()
	if rec.TS > 0 {
		sec, frac := math.Modf(rec.TS)
		ts = time.Unix(int64(sec), int64(frac*1e9))
	}
	return LogEntry{
		Timestamp: ts,
		Level:     normalizeLevel(rec.Level),
		Scope:     rec.Logger,
		Message:   rec.Msg,
		Fields:    fields,
	}, nil
}
