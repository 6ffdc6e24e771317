package observability

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogOptions picks where a process logs and how.
type LogOptions struct {
	Out     io.Writer // defaults to stdout
	Console bool      // human-readable lines instead of JSON
	Level   zerolog.Level
	App     string // stamped on every line when set
}

// ServiceLogs is what the API server uses: JSON on stdout, console output
// when APP_ENV is dev or development.
func ServiceLogs(env string) LogOptions {
	env = strings.ToLower(env)
	return LogOptions{
		Console: env == "dev" || env == "development",
		Level:   zerolog.InfoLevel,
		App:     "hotel-api",
	}
}

// CLILogs keeps stdout for command output.
func CLILogs(verbose bool) LogOptions {
	o := LogOptions{Out: os.Stderr, Console: true, Level: zerolog.WarnLevel}
	if verbose {
		o.Level = zerolog.DebugLevel
	}
	return o
}

func NewLogger(o LogOptions) zerolog.Logger {
	out := o.Out
	if out == nil {
		out = os.Stdout
	}
	if o.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	ctx := zerolog.New(out).Level(o.Level).With().Timestamp()
	if o.App != "" {
		ctx = ctx.Str("app", o.App)
	}
	return ctx.Logger()
}
