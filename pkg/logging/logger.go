package logging

import (
	"log/slog"
	"os"
	"sync"
)

// Global logger instance and synchronization.
var (
	Logger   *slog.Logger
	loggerMu sync.RWMutex
	isInited bool
	initOnce sync.Once
)

// LogLevel represents logging verbosity.
type LogLevel string

const (
	LevelDebug LogLevel = "DEBUG"
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
)

// Config holds logger configuration.
type Config struct {
	Level  LogLevel
	Format string // "json" or "text"
}

// Init sets the global logger. Safe to call more than once; each call
// replaces the previous logger.
func Init(config Config) {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	var level slog.Level
	switch config.Level {
	case LevelDebug:
		level = slog.LevelDebug
	case LevelWarn:
		level = slog.LevelWarn
	case LevelError:
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	Logger = slog.New(handler)
	isInited = true
}

// GetLogger returns the current logger, lazily initializing with INFO/text
// defaults the first time it's called without an explicit Init.
func GetLogger() *slog.Logger {
	loggerMu.RLock()
	if isInited {
		l := Logger
		loggerMu.RUnlock()
		return l
	}
	loggerMu.RUnlock()

	initOnce.Do(func() {
		Init(Config{Level: LevelInfo, Format: "text"})
	})

	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return Logger
}

func Debug(msg string, args ...any) { GetLogger().Debug(msg, args...) }
func Info(msg string, args ...any)  { GetLogger().Info(msg, args...) }
func Warn(msg string, args ...any)  { GetLogger().Warn(msg, args...) }
func Error(msg string, args ...any) { GetLogger().Error(msg, args...) }
