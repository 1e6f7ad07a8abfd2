// Package logger configures the application's structured logging.
//
// It wraps zerolog and adds a small positional formatter: message templates
// carry "{}" placeholders that are replaced by the arguments in order. The
// formatter is strict. A template with more placeholders than arguments, or
// more arguments than placeholders, is rejected and nothing is written.
package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Placeholder is the token replaced by an argument in a message template.
const Placeholder = "{}"

// Formatting errors.
var (
	ErrTooFewArgs  = errors.New("log template has more placeholders than arguments")
	ErrTooManyArgs = errors.New("log template has fewer placeholders than arguments")
)

// Options controls how New builds the logger.
type Options struct {
	Env   string    // development selects the console writer
	Level string    // zerolog level name; empty means info
	Out   io.Writer // defaults to os.Stderr
}

// Logger is a leveled sink accepting "{}" templates. It is safe to pass by
// pointer to every component that logs; there is no package-level instance.
type Logger struct {
	zl zerolog.Logger
}

// New builds a Logger writing JSON lines, or human-friendly console output
// when opts.Env is development.
func New(opts Options) *Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	if opts.Env == types.EnvDevelopment {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	zl := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// Zerolog exposes the underlying logger for structured fields.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zl
}

// Log formats template with args and writes it at level. It returns the
// formatting error, without writing, when placeholders and arguments do not
// line up.
func (l *Logger) Log(level zerolog.Level, template string, args ...any) error {
	msg, err := Format(template, args...)
	if err != nil {
		return err
	}
	l.zl.WithLevel(level).Msg(msg)
	return nil
}

// Debug logs at debug level. A malformed template is reported as an error
// event instead of being dropped.
func (l *Logger) Debug(template string, args ...any) {
	l.logOrReport(zerolog.DebugLevel, template, args)
}

// Info logs at info level.
func (l *Logger) Info(template string, args ...any) {
	l.logOrReport(zerolog.InfoLevel, template, args)
}

// Warn logs at warn level.
func (l *Logger) Warn(template string, args ...any) {
	l.logOrReport(zerolog.WarnLevel, template, args)
}

// Error logs at error level.
func (l *Logger) Error(template string, args ...any) {
	l.logOrReport(zerolog.ErrorLevel, template, args)
}

func (l *Logger) logOrReport(level zerolog.Level, template string, args []any) {
	if err := l.Log(level, template, args...); err != nil {
		l.zl.Error().Err(err).Str("template", template).Int("args", len(args)).Msg("malformed log call")
	}
}

// Format replaces each "{}" in template with the next argument, rendered
// with fmt.Sprint. The number of placeholders must equal len(args).
func Format(template string, args ...any) (string, error) {
	count := strings.Count(template, Placeholder)
	switch {
	case count > len(args):
		return "", fmt.Errorf("%w: %d placeholders, %d arguments", ErrTooFewArgs, count, len(args))
	case count < len(args):
		return "", fmt.Errorf("%w: %d placeholders, %d arguments", ErrTooManyArgs, count, len(args))
	case count == 0:
		return template, nil
	}

	var b strings.Builder
	b.Grow(len(template) + 8*len(args))
	rest := template
	for _, arg := range args {
		i := strings.Index(rest, Placeholder)
		b.WriteString(rest[:i])
		b.WriteString(fmt.Sprint(arg))
		rest = rest[i+len(Placeholder):]
	}
	b.WriteString(rest)
	return b.String(), nil
}
