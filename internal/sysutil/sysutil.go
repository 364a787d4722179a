// Package sysutil sets up process-wide concerns: the global logger and the
// build version reported to tracing.
package sysutil

import (
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// version is set with -ldflags "-X .../internal/sysutil.version=v1.2.3".
var version = ""

// SetLogLevel sets the global zerolog level. Unknown values mean info;
// "warning" is accepted for warn.
func SetLogLevel(lvl string) {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// ConfigureLogging installs the global logger: JSON lines to w, or a
// human-readable console when pretty is set. A nil w means stderr.
func ConfigureLogging(level string, pretty bool, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	SetLogLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.DurationFieldUnit = time.Millisecond

	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000"}
	}
	l := zerolog.New(w).With().Timestamp().Str("service", "stylist").Logger()
	log.Logger = l
	zerolog.DefaultContextLogger = &log.Logger
	return l
}

// Version is the ldflags version, else the module version from the build
// info, else "dev".
func Version() string {
	if version != "" {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return "dev"
}
