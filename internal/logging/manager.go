// pattern: Imperative Shell

package logging

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds configuration for the Manager.
type Config struct {
	FilePath   string // rotated JSON log file
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	// Level is the minimum level written to the file.
	Level string
	// StatusLevel is the minimum level delivered on Entries. Defaults to
	// warn, the entries the status bar shows.
	StatusLevel    string
	ChannelBufSize int
}

// LoggerProvider hands out scoped loggers. Manager and TestLogManager
// implement it.
type LoggerProvider interface {
	For(scope string) *ScopedLogger
}

// ScopedLogger is a structured logger bound to a scope. The zero value and
// NopLogger discard everything.
type ScopedLogger struct {
	slog  *slog.Logger
	scope string
}

// Debug logs at DEBUG level.
func (l *ScopedLogger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args) }

// Info logs at INFO level.
func (l *ScopedLogger) Info(msg string, args ...any) { l.log(slog.LevelInfo, msg, args) }

// Warn logs at WARN level.
func (l *ScopedLogger) Warn(msg string, args ...any) { l.log(slog.LevelWarn, msg, args) }

// Error logs at ERROR level.
func (l *ScopedLogger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args) }

func (l *ScopedLogger) log(level slog.Level, msg string, args []any) {
	if l == nil || l.slog == nil {
		return
	}
	l.slog.Log(context.Background(), level, msg, args...)
}

// With returns a logger that adds the given key-value pairs to every entry.
func (l *ScopedLogger) With(args ...any) *ScopedLogger {
	if l == nil || l.slog == nil {
		return l
	}
	return &ScopedLogger{slog: l.slog.With(args...), scope: l.scope}
}

// Scope returns the logger's scope.
func (l *ScopedLogger) Scope() string {
	if l == nil {
		return ""
	}
	return l.scope
}

// registry caches one logger per scope over a shared zap core.
type registry struct {
	base    *zap.Logger
	level   zapcore.LevelEnabler
	mu      sync.Mutex
	loggers map[string]*ScopedLogger
}

func newRegistry(core zapcore.Core, level zapcore.LevelEnabler) *registry {
	return &registry{base: zap.New(core), level: level, loggers: make(map[string]*ScopedLogger)}
}

func (r *registry) get(scope string) *ScopedLogger {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.loggers[scope]; ok {
		return l
	}
	l := &ScopedLogger{
		slog:  slog.New(&zapHandler{zap: r.base.Named(scope), level: r.level}),
		scope: scope,
	}
	r.loggers[scope] = l
	return l
}

// Manager writes every log record to a rotated file and forwards severe
// ones to a channel for the UI.
type Manager struct {
	*registry
	file *lumberjack.Logger
	sink *ChannelSink
}

// NewManager opens the log file and builds the manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.FilePath == "" {
		return nil, errors.New("log file path is required")
	}
	if cfg.ChannelBufSize <= 0 {
		cfg.ChannelBufSize = 1000
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 5
	}
	if cfg.MaxAgeDays <= 0 {
		cfg.MaxAgeDays = 7
	}
	fileLevel := parseLevel(cfg.Level, zapcore.InfoLevel)
	statusLevel := parseLevel(cfg.StatusLevel, zapcore.WarnLevel)

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
		return nil, err
	}
	file := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	sink := NewChannelSink(cfg.ChannelBufSize)

	core := zapcore.NewTee(
		zapcore.NewCore(jsonEncoder(), zapcore.AddSync(file), fileLevel),
		zapcore.NewCore(jsonEncoder(), sink, statusLevel),
	)
	enabled := min(fileLevel, statusLevel)
	return &Manager{registry: newRegistry(core, enabled), file: file, sink: sink}, nil
}

// For returns the logger for scope, e.g. "layout", "web" or "docs.watch".
func (m *Manager) For(scope string) *ScopedLogger {
	return m.get(scope)
}

// Entries returns the channel of entries at or above the status level.
func (m *Manager) Entries() <-chan LogEntry {
	return m.sink.Entries()
}

// Sync flushes buffered records.
func (m *Manager) Sync() error {
	return m.base.Sync()
}

// Close flushes and closes the file and the entry channel.
func (m *Manager) Close() error {
	_ = m.Sync()
	_ = m.sink.Close()
	return m.file.Close()
}

func jsonEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.EpochTimeEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	return zapcore.NewJSONEncoder(cfg)
}

func parseLevel(s string, def zapcore.Level) zapcore.Level {
	level, err := zapcore.ParseLevel(s)
	if s == "" || err != nil {
		return def
	}
	return level
}

// zapHandler is a slog.Handler writing to a zap logger. Attributes inside
// slog groups are flattened to dotted keys.
type zapHandler struct {
	zap    *zap.Logger
	level  zapcore.LevelEnabler
	fields []zap.Field
	prefix string
}

func (h *zapHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.level.Enabled(zapLevel(level))
}

func (h *zapHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]zap.Field, 0, len(h.fields)+r.NumAttrs())
	fields = append(fields, h.fields...)
	r.Attrs(func(a slog.Attr) bool {
		fields = appendAttr(fields, h.prefix, a)
		return true
	})
	if ce := h.zap.Check(zapLevel(r.Level), r.Message); ce != nil {
		ce.Write(fields...)
	}
	return nil
}

func (h *zapHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := append([]zap.Field{}, h.fields...)
	for _, a := range attrs {
		fields = appendAttr(fields, h.prefix, a)
	}
	return &zapHandler{zap: h.zap, level: h.level, fields: fields, prefix: h.prefix}
}

func (h *zapHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &zapHandler{zap: h.zap, level: h.level, fields: h.fields, prefix: h.prefix + name + "."}
}

func appendAttr(fields []zap.Field, prefix string, a slog.Attr) []zap.Field {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, ga := range v.Group() {
			fields = appendAttr(fields, p, ga)
		}
		return fields
	}
	if a.Key == "" {
		return fields
	}
	key := prefix + a.Key
	switch v.Kind() {
	case slog.KindString:
		return append(fields, zap.String(key, v.String()))
	case slog.KindInt64:
		return append(fields, zap.Int64(key, v.Int64()))
	case slog.KindBool:
		return append(fields, zap.Bool(key, v.Bool()))
	case slog.KindDuration:
		return append(fields, zap.Duration(key, v.Duration()))
	}
	if err, ok := v.Any().(error); ok {
		return append(fields, zap.NamedError(key, err))
	}
	return append(fields, zap.Any(key, v.Any()))
}

func zapLevel(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
