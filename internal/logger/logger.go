package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type Logger struct {
	*slog.Logger
}

func New(logLevel string, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     parseLogLevel(logLevel),
		AddSource: strings.ToLower(logLevel) == "debug",
	}

	handler := slog.NewJSONHandler(w, opts)

	return &Logger{
		Logger: slog.New(handler),
	}
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
}

// ValidLevel reports whether level is a recognized log level name
func ValidLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger: l.Logger.With("component", component),
	}
}

func (l *Logger) WithFields(fields ...interface{}) *Logger {
	return &Logger{
		Logger: l.Logger.With(fields...),
	}
}

func (l *Logger) RouteAdded(network, gateway string, metric, tableSize int) {
	l.Info("Route added",
		slog.String("network", network),
		slog.String("gateway", gateway),
		slog.Int("metric", metric),
		slog.Int("table_size", tableSize))
}

func (l *Logger) RouteRemoved(network string, removed bool, tableSize int) {
	l.Info("Route delete requested",
		slog.String("network", network),
		slog.Bool("removed", removed),
		slog.Int("table_size", tableSize))
}

func (l *Logger) PacketDecision(action, source, destination, protocol, gateway string) {
	l.Info("Packet resolved",
		slog.String("action", action),
		slog.String("source", source),
		slog.String("destination", destination),
		slog.String("protocol", protocol),
		slog.String("gateway", gateway))
}

func (l *Logger) RoutesLoaded(file string, routes int, duration int64) {
	l.Info("Routes loaded",
		slog.String("file", file),
		slog.Int("routes", routes),
		slog.Int64("duration_ms", duration))
}

func (l *Logger) SessionStart(version string, routes int) {
	l.Info("Session starting",
		slog.String("version", version),
		slog.Int("routes", routes))
}

func (l *Logger) SessionStop() {
	l.Info("Session stopping")
}
