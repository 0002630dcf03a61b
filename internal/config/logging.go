package config

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/rshade/confirmvotes/internal/logging"
)

// Logger is the fallback logger for code that runs before a command has put
// one on its context.
//
//nolint:gochecknoglobals // Logger is intentionally global for application-wide structured logging
var Logger zerolog.Logger

// logResult tracks the file behind Logger so it can be closed.
//
//nolint:gochecknoglobals // Tracks the global logger's file handle for proper cleanup
var logResult *logging.LogPathResult

// logMu guards Logger and logResult.
//
//nolint:gochecknoglobals // Guards the global logger state
var logMu sync.RWMutex

// InitLogger rebuilds Logger at level. With logToFile it writes to the
// configured log file, falling back to stderr when that cannot be opened.
func InitLogger(level string, logToFile bool) error {
	logMu.Lock()
	defer logMu.Unlock()

	closeLogFileLocked()

	cfg := logging.Config{Level: level, Format: logging.FormatConsole, Output: logging.OutputStderr}
	if logToFile {
		if err := EnsureLogDir(); err != nil {
			return err
		}
		cfg.Output = logging.OutputFile
		cfg.File = GetLogFile()
		if cfg.File == "" {
			cfg.Output = logging.OutputStderr
		}
	}

	result := logging.NewLoggerWithPath(cfg)
	logResult = &result
	Logger = result.Logger
	return nil
}

// SetLogLevel changes the level of Logger. Unknown levels mean info.
func SetLogLevel(level string) {
	logMu.Lock()
	defer logMu.Unlock()

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	Logger = Logger.Level(lvl)
}

// CloseLogFile closes the file behind Logger, if any, and switches Logger to stderr.
func CloseLogFile() {
	logMu.Lock()
	defer logMu.Unlock()
	closeLogFileLocked()
}

// closeLogFileLocked must be called with logMu held.
func closeLogFileLocked() {
	if logResult == nil || !logResult.UsingFile {
		return
	}
	_ = logResult.Close()
	logResult = nil
	Logger = logging.NewLogger(logging.Config{
		Level:  Logger.GetLevel().String(),
		Format: logging.FormatConsole,
		Output: logging.OutputStderr,
	})
}

// GetLogger returns the global logger instance.
func GetLogger() zerolog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return Logger
}

// The fallback logger must exist before any configuration is read.
//
//nolint:gochecknoinits // intentional: package-level logger must be initialized before use
func init() {
	_ = InitLogger("warn", false)
}

// ToLoggingConfig converts the logging section into a logging.Config. A
// configured file selects file output; otherwise logs go to stderr.
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = outputTypeFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

// GetLoggingConfig returns a copy of the global logging section. Flag
// overrides such as --debug are applied by the caller.
func GetLoggingConfig() LoggingConfig {
	cfg := GetGlobalConfig()
	return cfg.Logging
}
