package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog with a small structured-field API.
type Logger struct {
	zl zerolog.Logger
}

type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json or console
	Output     string // stdout, stderr, or file path
	TimeFormat string
}

func New(cfg *Config) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)

	var output io.Writer
	switch cfg.Output {
	case "", "stdout":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		file, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("could not open log file: %w", err)
		}
		output = file
	}

	if cfg.TimeFormat == "" {
		cfg.TimeFormat = time.RFC3339
	}
	zerolog.TimeFieldFormat = cfg.TimeFormat

	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: cfg.TimeFormat,
		}
	}

	zl := zerolog.New(output).With().Timestamp().Logger()
	return &Logger{zl: zl}, nil
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// Component returns a child logger tagged with a component name.
func (l *Logger) Component(name string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", name).Logger()}
}

func (l *Logger) Debug(msg string, fields ...Field) { l.log(l.zl.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields ...Field)  { l.log(l.zl.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.log(l.zl.Warn(), msg, fields) }
func (l *Logger) Error(msg string, fields ...Field) { l.log(l.zl.Error(), msg, fields) }

func (l *Logger) log(event *zerolog.Event, msg string, fields []Field) {
	for _, f := range fields {
		f.addTo(event)
	}
	event.Msg(msg)
}

// Field adds one structured key/value pair to a log event.
type Field interface {
	addTo(event *zerolog.Event)
}

type stringField struct{ k, v string }

func (f stringField) addTo(e *zerolog.Event) { e.Str(f.k, f.v) }

type intField struct {
	k string
	v int
}

func (f intField) addTo(e *zerolog.Event) { e.Int(f.k, f.v) }

type float64Field struct {
	k string
	v float64
}

func (f float64Field) addTo(e *zerolog.Event) { e.Float64(f.k, f.v) }

type boolField struct {
	k string
	v bool
}

func (f boolField) addTo(e *zerolog.Event) { e.Bool(f.k, f.v) }

type durationField struct {
	k string
	v time.Duration
}

func (f durationField) addTo(e *zerolog.Event) { e.Dur(f.k, f.v) }

type timeField struct {
	k string
	v time.Time
}

func (f timeField) addTo(e *zerolog.Event) { e.Time(f.k, f.v) }

type errorField struct{ v error }

func (f errorField) addTo(e *zerolog.Event) { e.Err(f.v) }

type anyField struct {
	k string
	v interface{}
}

func (f anyField) addTo(e *zerolog.Event) { e.Interface(f.k, f.v) }

func String(key, value string) Field                 { return stringField{key, value} }
func Int(key string, value int) Field                { return intField{key, value} }
func Float64(key string, value float64) Field        { return float64Field{key, value} }
func Bool(key string, value bool) Field              { return boolField{key, value} }
func Duration(key string, value time.Duration) Field { return durationField{key, value} }
func Time(key string, value time.Time) Field         { return timeField{key, value} }
func Error(err error) Field                          { return errorField{err} }
func Any(key string, value interface{}) Field        { return anyField{key, value} }
