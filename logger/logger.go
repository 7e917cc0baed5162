// Package logger defines the structured logging interface used across apish.
//
// The interface is minimal yet compatible with popular logging libraries
// including log/slog and zerolog. It uses variadic key-value pairs for
// structured attributes, following the same convention as log/slog:
//
//	log.Debug("dropped reference", "kind", "group", "name", "auth")
//
// Library packages default to [NopLogger]. Use [NewSlogAdapter] or
// [NewZerologAdapter] to route output to a real logger:
//
//	zl := zerolog.New(os.Stderr).With().Timestamp().Logger()
//	result, err := project.BuildWithOptions(
//	    project.WithAPIFile("api.apish"),
//	    project.WithLogger(logger.NewZerologAdapter(zl)),
//	)
package logger

import (
	"fmt"
	"log/slog"

	"github.com/rs/zerolog"
)

// Logger is the interface that apish uses for structured logging.
type Logger interface {
	// Debug logs at debug level. Use for detailed diagnostic information.
	Debug(msg string, attrs ...any)

	// Info logs at info level. Use for general operational information.
	Info(msg string, attrs ...any)

	// Warn logs at warn level. Use for potentially harmful situations.
	Warn(msg string, attrs ...any)

	// Error logs at error level. Use for error conditions.
	Error(msg string, attrs ...any)

	// With returns a new Logger with the given attributes prepended to every log.
	With(attrs ...any) Logger
}

// NopLogger is a no-op logger that discards all output.
// It is the default logger used when no logger is configured.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(_ string, _ ...any) {}

// Info implements Logger.
func (NopLogger) Info(_ string, _ ...any) {}

// Warn implements Logger.
func (NopLogger) Warn(_ string, _ ...any) {}

// Error implements Logger.
func (NopLogger) Error(_ string, _ ...any) {}

// With implements Logger.
func (n NopLogger) With(_ ...any) Logger { return n }

var _ Logger = NopLogger{}

// OrNop returns l, or a NopLogger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}

// SlogAdapter wraps a *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter from a *slog.Logger.
// If logger is nil, slog.Default() is used.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// Debug implements Logger.
func (s *SlogAdapter) Debug(msg string, attrs ...any) {
	s.logger.Debug(msg, attrs...)
}

// Info implements Logger.
func (s *SlogAdapter) Info(msg string, attrs ...any) {
	s.logger.Info(msg, attrs...)
}

// Warn implements Logger.
func (s *SlogAdapter) Warn(msg string, attrs ...any) {
	s.logger.Warn(msg, attrs...)
}

// Error implements Logger.
func (s *SlogAdapter) Error(msg string, attrs ...any) {
	s.logger.Error(msg, attrs...)
}

// With implements Logger.
func (s *SlogAdapter) With(attrs ...any) Logger {
	return &SlogAdapter{logger: s.logger.With(attrs...)}
}

var _ Logger = (*SlogAdapter)(nil)

// ZerologAdapter wraps a zerolog.Logger to implement the Logger interface.
// Attribute pairs become event fields; a trailing key without a value is
// logged under "!BADKEY", matching slog.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter creates a new ZerologAdapter.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// Debug implements Logger.
func (z *ZerologAdapter) Debug(msg string, attrs ...any) {
	z.emit(z.logger.Debug(), msg, attrs)
}

// Info implements Logger.
func (z *ZerologAdapter) Info(msg string, attrs ...any) {
	z.emit(z.logger.Info(), msg, attrs)
}

// Warn implements Logger.
func (z *ZerologAdapter) Warn(msg string, attrs ...any) {
	z.emit(z.logger.Warn(), msg, attrs)
}

// Error implements Logger.
func (z *ZerologAdapter) Error(msg string, attrs ...any) {
	z.emit(z.logger.Error(), msg, attrs)
}

// With implements Logger.
func (z *ZerologAdapter) With(attrs ...any) Logger {
	ctx := z.logger.With()
	for i := 0; i < len(attrs); i += 2 {
		if i+1 >= len(attrs) {
			ctx = ctx.Interface("!BADKEY", attrs[i])
			break
		}
		ctx = ctx.Interface(fmt.Sprint(attrs[i]), attrs[i+1])
	}
	return &ZerologAdapter{logger: ctx.Logger()}
}

func (z *ZerologAdapter) emit(e *zerolog.Event, msg string, attrs []any) {
	if e == nil {
		// level disabled
		return
	}
	for i := 0; i < len(attrs); i += 2 {
		if i+1 >= len(attrs) {
			e = e.Interface("!BADKEY", attrs[i])
			break
		}
		if err, ok := attrs[i+1].(error); ok {
			e = e.AnErr(fmt.Sprint(attrs[i]), err)
			continue
		}
		e = e.Interface(fmt.Sprint(attrs[i]), attrs[i+1])
	}
	e.Msg(msg)
}

var _ Logger = (*ZerologAdapter)(nil)
