// Package logging configures zerolog for the command line front end and adapts
// it to the small Log(level, message) interface the engine packages accept.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the logging interface consumed by the filter, crosstab and
// preset packages.
type Logger interface {
	Log(level, message string)
}

// Setup configures the global zerolog logger. Output goes to out (stderr when
// nil); terminals get the console writer and everything else gets JSON lines.
// An unknown level falls back to info.
func Setup(level string, out io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if out == nil {
		out = os.Stderr
	}
	if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		out = zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Str("app", "pivotline").Logger()
	return log.Logger
}

// Adapter forwards Log calls to a zerolog logger.
type Adapter struct {
	zl zerolog.Logger
}

// New wraps zl.
func New(zl zerolog.Logger) *Adapter {
	return &Adapter{zl: zl}
}

// Global wraps the global zerolog logger as configured by Setup.
func Global() *Adapter {
	return New(log.Logger)
}

// Nop returns a logger that discards everything.
func Nop() *Adapter {
	return New(zerolog.Nop())
}

// Log writes message at level. Unknown levels are written at info.
func (a *Adapter) Log(level, message string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	a.zl.WithLevel(lvl).Msg(message)
}

// Zerolog exposes the wrapped logger for structured fields.
func (a *Adapter) Zerolog() *zerolog.Logger {
	return &a.zl
}
