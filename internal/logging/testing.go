// pattern: Imperative Shell

package logging

import "go.uber.org/zap/zapcore"

// NopLogger returns a logger that discards all output.
func NopLogger() *ScopedLogger {
	return &ScopedLogger{}
}

// TestLogManager is a LoggerProvider for tests. Every record at any level
// is delivered on Channel; nothing touches the filesystem.
type TestLogManager struct {
	*registry
	sink *ChannelSink
}

// NewTestLogManager returns a manager queueing up to size entries.
func NewTestLogManager(size int) *TestLogManager {
	sink := NewChannelSink(size)
	core := zapcore.NewCore(jsonEncoder(), sink, zapcore.DebugLevel)
	return &TestLogManager{registry: newRegistry(core, zapcore.DebugLevel), sink: sink}
}

// For returns the logger for scope.
func (m *TestLogManager) For(scope string) *ScopedLogger {
	return m.get(scope)
}

// Channel returns the delivered entries.
func (m *TestLogManager) Channel() <-chan LogEntry {
	return m.sink.Entries()
}

// Close closes the channel.
func (m *TestLogManager) Close() error {
	return m.sink.Close()
}
