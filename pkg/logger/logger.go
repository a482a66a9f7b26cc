// Package logger provides the module's unified zerolog-based logging.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// Config controls how the global logger is initialized.
type Config struct {
	Level      string `yaml:"level" json:"level"`
	Format     string `yaml:"format" json:"format"` // json/console
	Output     string `yaml:"output" json:"output"` // stdout/stderr
	TimeFormat string `yaml:"time_format,omitempty" json:"time_format,omitempty"`
}

// DefaultConfig returns sane defaults for local/CLI use.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: time.RFC3339,
	}
}

// Init sets up the global logger. Safe to call more than once; only the
// first call takes effect.
func Init(cfg Config) {
	once.Do(func() {
		zerolog.SetGlobalLevel(parseLevel(cfg.Level))

		var output io.Writer = os.Stdout
		if cfg.Output == "stderr" {
			output = os.Stderr
		}

		if cfg.Format != "json" {
			output = zerolog.ConsoleWriter{Out: output, TimeFormat: cfg.TimeFormat}
		}

		logger = zerolog.New(output).With().Timestamp().Logger()
	})
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get returns the global logger, initializing it with defaults if needed.
func Get() *zerolog.Logger {
	// Init is guarded by once, so this only takes effect when nothing has
	// initialized the logger yet.
	Init(DefaultConfig())
	return &logger
}

// Debug logs at debug level.
func Debug() *zerolog.Event { return Get().Debug() }

// Info logs at info level.
func Info() *zerolog.Event { return Get().Info() }

// Warn logs at warn level.
func Warn() *zerolog.Event { return Get().Warn() }

// Error logs at error level.
func Error() *zerolog.Event { return Get().Error() }

// WithError starts an error-level event carrying err.
func WithError(err error) *zerolog.Event { return Get().Error().Err(err) }

// SchedulerLogger is a component-scoped logger for the optimizer pipeline.
type SchedulerLogger struct {
	base *zerolog.Logger
}

// NewSchedulerLogger creates a logger tagged component=optimizer.
func NewSchedulerLogger() *SchedulerLogger {
	l := Get().With().Str("component", "optimizer").Logger()
	return &SchedulerLogger{base: &l}
}

// StartGeneration logs the start of a schedule generation run.
func (l *SchedulerLogger) StartGeneration(month string, employees, workingDates int) {
	l.base.Info().
		Str("month", month).
		Int("employees", employees).
		Int("working_dates", workingDates).
		Msg("starting schedule generation")
}

// SolveComplete logs the terminal solver status and duration.
func (l *SchedulerLogger) SolveComplete(month, status string, duration time.Duration) {
	l.base.Info().
		Str("month", month).
		Str("status", status).
		Dur("duration", duration).
		Msg("solver finished")
}

// Shortage logs one staffing shortage line surfaced by the violation reporter.
func (l *SchedulerLogger) Shortage(month, detail string) {
	l.base.Warn().
		Str("month", month).
		Str("detail", detail).
		Msg("staffing shortage")
}

// PatchLogger is a component-scoped logger for the NL patch engine.
type PatchLogger struct {
	base *zerolog.Logger
}

// NewPatchLogger creates a logger tagged component=nlpatch.
func NewPatchLogger() *PatchLogger {
	l := Get().With().Str("component", "nlpatch").Logger()
	return &PatchLogger{base: &l}
}

// Dispatch logs how an edit list was partitioned and routed, tagged with a
// request id so every line from one dispatch call can be correlated.
func (l *PatchLogger) Dispatch(requestID string, scheduleID int64, pins, adjusts int) {
	l.base.Info().
		Str("request_id", requestID).
		Int64("schedule_id", scheduleID).
		Int("pins", pins).
		Int("adjusts", adjusts).
		Msg("dispatching patch edits")
}

// SkippedEdit logs an edit dropped because it referenced an unknown
// employee or category name.
func (l *PatchLogger) SkippedEdit(reason string) {
	l.base.Warn().Str("reason", reason).Msg("dropping unresolvable edit")
}

// Created logs the patch log row written for a completed dispatch, the id
// a caller needs to later approve or reject it.
func (l *PatchLogger) Created(patchLogID, newScheduleID int64) {
	l.base.Info().
		Int64("patch_log_id", patchLogID).
		Int64("new_schedule_id", newScheduleID).
		Msg("patch log created")
}
