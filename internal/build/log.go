package build

import (
	"fmt"
	"os"

	"github.com/btcsuite/btclog"
	btclogv2 "github.com/btcsuite/btclog/v2"
)

// DefaultLogLevel is the log level used when no explicit level is
// configured.
const DefaultLogLevel = "info"

// LogConfig holds the process-wide logging configuration.
type LogConfig struct {
	// Level is the log level applied to all subsystems, parsed with
	// btclog.LevelFromString.
	Level string

	// LogDir is the directory for the rotating log file. If empty, only
	// console logging is active.
	LogDir string

	// Filename overrides the default rotated log file name.
	Filename string
}

// DefaultLogConfig returns a LogConfig with console-only logging at the
// default level.
func DefaultLogConfig() *LogConfig {
	return &LogConfig{
		Level: DefaultLogLevel,
	}
}

// LogManager owns the root handler set for a process. All subsystem
// loggers share the same set of handlers, so records fan out to the
// console and (when configured) the rotating log file.
type LogManager struct {
	handlers *HandlerSet
	rotator  *RotatingLogWriter
}

// NewLogManager creates a LogManager from the given configuration. When a
// log directory is configured, a rotating file writer is initialized and
// added alongside the console handler.
func NewLogManager(cfg *LogConfig) (*LogManager, error) {
	handlers := []btclogv2.Handler{
		btclogv2.NewDefaultHandler(os.Stdout),
	}

	var logRotator *RotatingLogWriter
	if cfg.LogDir != "" {
		logRotator = NewRotatingLogWriter()

		rotatorCfg := DefaultLogRotatorConfig()
		rotatorCfg.LogDir = cfg.LogDir
		if cfg.Filename != "" {
			rotatorCfg.Filename = cfg.Filename
		}

		if err := logRotator.InitLogRotator(rotatorCfg); err != nil {
			return nil, fmt.Errorf("unable to init log "+
				"rotator: %w", err)
		}

		handlers = append(
			handlers, btclogv2.NewDefaultHandler(logRotator),
		)
	}

	handlerSet := NewHandlerSet(handlers...)

	level, ok := btclog.LevelFromString(cfg.Level)
	if !ok {
		return nil, fmt.Errorf("unknown log level: %q", cfg.Level)
	}
	handlerSet.SetLevel(level)

	return &LogManager{
		handlers: handlerSet,
		rotator:  logRotator,
	}, nil
}

// NewSubLogger returns a logger for the given subsystem tag, backed by the
// manager's shared handler set.
func (m *LogManager) NewSubLogger(tag string) btclogv2.Logger {
	return btclogv2.NewSLogger(m.handlers.SubSystem(tag))
}

// SetLevel updates the log level on all underlying handlers.
func (m *LogManager) SetLevel(level btclog.Level) {
	m.handlers.SetLevel(level)
}

// Close flushes and closes the rotating log writer, if one is active.
func (m *LogManager) Close() error {
	if m.rotator != nil {
		return m.rotator.Close()
	}

	return nil
}
