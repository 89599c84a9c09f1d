// Package logging provides the structured logging facade used across the
// SCOPF engine. Every collaborator receives a *Logger by constructor
// injection rather than reaching for a package-level global, so that
// disjoint variant-groups processed on separate workers can each carry
// their own sink.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level mirrors the configuration file's numeric log level (0..5):
// 0 silences everything, 5 is trace.
type Level int

const (
	LevelSilent Level = 0
	LevelError  Level = 1
	LevelWarn   Level = 2
	LevelInfo   Level = 3
	LevelDebug  Level = 4
	LevelTrace  Level = 5
)

// Config configures a new Logger.
type Config struct {
	Level  Level
	Pretty bool // human-readable console output instead of JSON
	Output io.Writer
}

// Logger wraps a zerolog.Logger with the field vocabulary this engine uses:
// variant, contingency, monitor and iteration identifiers.
type Logger struct {
	z zerolog.Logger
}

// New builds a Logger from cfg. A nil cfg.Output defaults to os.Stderr.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	z := zerolog.New(out).With().Timestamp().Logger().Level(toZerolog(cfg.Level))
	return &Logger{z: z}
}

// Nop returns a Logger that discards everything; useful as a default for
// tests and for collaborators constructed before configuration is known.
func Nop() *Logger {
	return &Logger{z: zerolog.Nop()}
}

func toZerolog(l Level) zerolog.Level {
	switch l {
	case LevelSilent:
		return zerolog.Disabled
	case LevelError:
		return zerolog.ErrorLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelTrace:
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}

// With returns a child Logger with a persistent field attached, e.g.
// log.With("variant", variantID).
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{z: l.z.With().Interface(key, value).Logger()}
}

func (l *Logger) Debug(msg string, kv ...interface{}) { l.emit(l.z.Debug(), msg, kv...) }
func (l *Logger) Info(msg string, kv ...interface{})  { l.emit(l.z.Info(), msg, kv...) }
func (l *Logger) Warn(msg string, kv ...interface{})  { l.emit(l.z.Warn(), msg, kv...) }
func (l *Logger) Error(msg string, kv ...interface{}) { l.emit(l.z.Error(), msg, kv...) }
func (l *Logger) Trace(msg string, kv ...interface{}) { l.emit(l.z.Trace(), msg, kv...) }

// emit attaches kv pairs (key, value, key, value, ...) to the event and
// fires it. An odd-length kv list drops its trailing key.
func (l *Logger) emit(ev *zerolog.Event, msg string, kv ...interface{}) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, kv[i+1])
	}
	ev.Msg(msg)
}
