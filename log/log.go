// Package log provides the agent's internal diagnostics logging.  Telemetry
// collection must never break the monitored application, so failures inside
// the agent are reported here and otherwise swallowed.
package log

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Context holds structured fields attached to a log entry.
type Context map[string]interface{}

// logger is fed log entries as they occur.  It should be configured during
// initialization before other agent functions are called: changing it during
// application execution is a race condition.
var logger = zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Str("component", "tracklight").Logger()

// SetOutput directs agent diagnostics to w.
func SetOutput(w io.Writer) {
	logger = logger.Output(w)
}

// SetLevel adjusts the minimum severity that is written.  Unknown names are
// ignored and leave the current level in place.
func SetLevel(name string) {
	level, err := zerolog.ParseLevel(name)
	if nil != err {
		Warn("unknown log level", Context{"level": name})
		return
	}
	logger = logger.Level(level)
}

// SetLogFile directs agent diagnostics to the named file.  The filename can
// be a file path, "stdout", or "stderr"; terminal destinations get a human
// readable format.
func SetLogFile(filename string) error {
	switch filename {
	case "stdout":
		SetOutput(consoleWriter(os.Stdout))
	case "stderr":
		SetOutput(consoleWriter(os.Stderr))
	default:
		f, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
		if nil != err {
			return err
		}
		SetOutput(f)
	}
	return nil
}

// consoleWriter wraps f for readable terminal output.  Redirected output
// stays line-delimited JSON.
func consoleWriter(f *os.File) io.Writer {
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return zerolog.ConsoleWriter{Out: colorable.NewColorable(f), TimeFormat: time.StampMilli}
	}
	return f
}

// DebugEnabled reports whether debug entries are being recorded, allowing
// callers to skip expensive context assembly.
func DebugEnabled() bool {
	return logger.GetLevel() <= zerolog.DebugLevel
}

func Error(event string, ctx Context) { fire(logger.Error(), event, ctx) }
func Warn(event string, ctx Context)  { fire(logger.Warn(), event, ctx) }
func Info(event string, ctx Context)  { fire(logger.Info(), event, ctx) }
func Debug(event string, ctx Context) { fire(logger.Debug(), event, ctx) }

func fire(e *zerolog.Event, event string, ctx Context) {
	if 0 != len(ctx) {
		e = e.Fields(map[string]interface{}(ctx))
	}
	e.Msg(event)
}
