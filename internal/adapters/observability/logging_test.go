package observability_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"hotel_booking/internal/adapters/observability"
)

func TestNewLogger_JSONWithApp(t *testing.T) {
	var buf bytes.Buffer
	o := observability.ServiceLogs("prod")
	o.Out = &buf
	l := observability.NewLogger(o)

	l.Debug().Msg("hidden")
	l.Info().Str("hotel", "h1").Msg("booked")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line leaked at info level: %s", out)
	}
	if !strings.Contains(out, `"app":"hotel-api"`) || !strings.Contains(out, `"hotel":"h1"`) {
		t.Fatalf("unexpected json line: %s", out)
	}
}

func TestServiceLogs_ConsoleInDev(t *testing.T) {
	if !observability.ServiceLogs("Development").Console {
		t.Fatalf("development env should log to the console writer")
	}
	if observability.ServiceLogs("prod").Console {
		t.Fatalf("prod env should log json")
	}
}

func TestCLILogs_Levels(t *testing.T) {
	if got := observability.CLILogs(false).Level; got != zerolog.WarnLevel {
		t.Fatalf("quiet level = %v", got)
	}
	if got := observability.CLILogs(true).Level; got != zerolog.DebugLevel {
		t.Fatalf("verbose level = %v", got)
	}
}
