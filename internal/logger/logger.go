// Package logger provides structured logging using zerolog, matching the
// format the teacher's HTTP service uses but keyed on a DAIDE session ID
// (one per TCP connection) instead of an HTTP request ID.
package logger

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string

const sessionIDKey contextKey = "session_id"

const milliTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Init initializes the global logger with proper configuration based on
// environment variables (LOG_LEVEL, LOG_FILE, DEV/DEV_MODE/DEVELOPMENT).
func Init() {
	zerolog.TimeFieldFormat = milliTimeFormat
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }

	const callerWidth = 30
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		path := fmt.Sprintf("%s:%d", filepath.Base(file), line)
		if len(path) >= callerWidth {
			return path[len(path)-callerWidth:]
		}
		return path + strings.Repeat(" ", callerWidth-len(path))
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var output io.Writer = zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: milliTimeFormat,
		NoColor:    !isDevelopmentMode(),
	}

	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		f, ferr := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if ferr == nil {
			output = io.MultiWriter(output, f)
		}
	}

	log.Logger = log.Output(output).With().Caller().Logger()

	log.Info().
		Str("level", level.String()).
		Bool("dev", isDevelopmentMode()).
		Msg("logger initialized")
}

func isDevelopmentMode() bool {
	return os.Getenv("DEV") == "true" ||
		os.Getenv("DEV_MODE") == "true" ||
		os.Getenv("DEVELOPMENT") == "true"
}

// Get returns the global logger instance.
func Get() zerolog.Logger {
	return log.Logger
}

// NewSessionID generates a cryptographically secure random 8-character
// alphanumeric string identifying one DAIDE TCP session.
func NewSessionID() string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 8

	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		return fmt.Sprintf("ses%06d", time.Now().UnixNano()%1000000)
	}

	for i := range b {
		b[i] = charset[b[i]%byte(len(charset))]
	}
	return string(b)
}

// WithSession returns a new context carrying the given session ID.
func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext extracts the session ID from context, or "".
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

// ForSession returns a logger enriched with the context's session ID.
func ForSession(ctx context.Context) zerolog.Logger {
	id := SessionIDFromContext(ctx)
	if id == "" {
		return log.Logger
	}
	return log.Logger.With().Str("sessionId", id).Logger()
}

// LogInboundFrame logs a decoded inbound DM payload at debug level,
// truncating if too long.
func LogInboundFrame(logger zerolog.Logger, body []byte) {
	logFrame(logger, "inbound_frame", body)
}

// LogOutboundFrame logs an encoded outbound DM payload at debug level,
// truncating if too long.
func LogOutboundFrame(logger zerolog.Logger, body []byte) {
	logFrame(logger, "outbound_frame", body)
}

func logFrame(logger zerolog.Logger, field string, body []byte) {
	if len(body) == 0 {
		return
	}
	if len(body) > 1000 {
		logger.Debug().Bytes(field, body[:1000]).Bool("truncated", true).Msg("frame")
	} else {
		logger.Debug().Bytes(field, body).Msg("frame")
	}
}

// SessionLogger adapts a zerolog.Logger to the client.Logger seam
// (Debugf/Infof/Errorf), so daide/client never needs to import zerolog
// itself.
type SessionLogger struct {
	zl zerolog.Logger
}

// NewSessionLogger wraps a zerolog.Logger for use as a client.Logger.
func NewSessionLogger(zl zerolog.Logger) SessionLogger {
	return SessionLogger{zl: zl}
}

func (s SessionLogger) Debugf(format string, args ...any) { s.zl.Debug().Msgf(format, args...) }
func (s SessionLogger) Infof(format string, args ...any)  { s.zl.Info().Msgf(format, args...) }
func (s SessionLogger) Errorf(format string, args ...any) { s.zl.Error().Msgf(format, args...) }
