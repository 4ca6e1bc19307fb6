package debuglog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff // Disables all logging
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		// Above fatal: nothing passes the level check.
		return zapcore.FatalLevel + 1
	}
}

// ParseLogLevel parses a string into a LogLevel
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "OFF":
		return LevelOff
	default:
		return LevelInfo
	}
}

// Rotation controls the lumberjack file writer. Zero values fall back to
// lumberjack's own defaults.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var (
	mu           sync.RWMutex
	currentLevel = LevelOff
	atomicLevel  = zap.NewAtomicLevelAt(LevelOff.zapLevel())
	logger       *zap.SugaredLogger
	sink         *lumberjack.Logger
)

// Setup configures the logging system with the specified level and optional file path.
// If filePath is empty, defaults to ~/.mymeals/mymeals.log.
func Setup(level LogLevel, filePath ...string) error {
	return SetupWithRotation(level, Rotation{}, filePath...)
}

// SetupWithRotation is Setup with explicit file rotation settings. The log
// never goes to stdout or stderr because the terminal belongs to the UI.
func SetupWithRotation(level LogLevel, rot Rotation, filePath ...string) error {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	currentLevel = level
	atomicLevel.SetLevel(level.zapLevel())

	if level == LevelOff {
		return nil
	}

	var logPath string
	if len(filePath) > 0 && filePath[0] != "" {
		logPath = filePath[0]
	} else {
		home, _ := os.UserHomeDir()
		logPath = filepath.Join(home, ".mymeals", "mymeals.log")
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	// lumberjack opens lazily; check the path so a bad location fails here
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}
	_ = f.Close()

	sink = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    rot.MaxSizeMB,
		MaxBackups: rot.MaxBackups,
		MaxAge:     rot.MaxAgeDays,
		LocalTime:  true,
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(sink),
		atomicLevel,
	)
	logger = zap.New(core).Named("mymeals").Sugar()
	return nil
}

// SetLevel changes the current logging level
func SetLevel(level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = level
	atomicLevel.SetLevel(level.zapLevel())
}

// GetLevel returns the current logging level
func GetLevel() LogLevel {
	mu.RLock()
	defer mu.RUnlock()
	return currentLevel
}

// Close flushes and closes the log file if open
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeLocked()
}

func closeLocked() error {
	if logger != nil {
		_ = logger.Sync()
		logger = nil
	}
	if sink != nil {
		err := sink.Close()
		sink = nil
		return err
	}
	return nil
}

func logf(level LogLevel, format string, args []any, fields []any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l == nil {
		return
	}

	msg := fmt.Sprintf(format, args...)
	switch level {
	case LevelDebug:
		l.Debugw(msg, fields...)
	case LevelInfo:
		l.Infow(msg, fields...)
	case LevelWarn:
		l.Warnw(msg, fields...)
	case LevelError:
		l.Errorw(msg, fields...)
	}
}

func Debugf(format string, args ...any) {
	logf(LevelDebug, format, args, nil)
}

func Infof(format string, args ...any) {
	logf(LevelInfo, format, args, nil)
}

func Warnf(format string, args ...any) {
	logf(LevelWarn, format, args, nil)
}

func Errorf(format string, args ...any) {
	logf(LevelError, format, args, nil)
}

// FieldLogger attaches key-value pairs to every message it writes.
type FieldLogger struct {
	fields []any
}

// WithFields returns a new logger with the specified fields
func WithFields(fields map[string]interface{}) *FieldLogger {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]any, 0, len(fields)*2)
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	return &FieldLogger{fields: kv}
}

func (fl *FieldLogger) Debugf(format string, args ...any) {
	logf(LevelDebug, format, args, fl.fields)
}

func (fl *FieldLogger) Infof(format string, args ...any) {
	logf(LevelInfo, format, args, fl.fields)
}

func (fl *FieldLogger) Warnf(format string, args ...any) {
	logf(LevelWarn, format, args, fl.fields)
}

func (fl *FieldLogger) Errorf(format string, args ...any) {
	logf(LevelError, format, args, fl.fields)
}
