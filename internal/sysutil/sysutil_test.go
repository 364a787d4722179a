package sysutil

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func restoreLogging(t *testing.T) {
	t.Helper()
	lvl, lg, def := zerolog.GlobalLevel(), log.Logger, zerolog.DefaultContextLogger
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(lvl)
		log.Logger = lg
		zerolog.DefaultContextLogger = def
	})
}

func TestSetLogLevel_AllVariants(t *testing.T) {
	restoreLogging(t)

	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"  DeBuG  ", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"unknown", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		SetLogLevel(tc.in)
		if got := zerolog.GlobalLevel(); got != tc.want {
			t.Fatalf("SetLogLevel(%q) -> %v; want %v", tc.in, got, tc.want)
		}
	}
}

func TestConfigureLogging_JSON(t *testing.T) {
	restoreLogging(t)
	var buf bytes.Buffer

	ConfigureLogging("warn", false, &buf)
	log.Info().Msg("hidden")
	log.Warn().Str("chat_id", "c1").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("lines = %q", lines)
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &m); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if m["message"] != "shown" || m["service"] != "stylist" || m["chat_id"] != "c1" || m["time"] == nil {
		t.Fatalf("entry = %v", m)
	}
}

func TestConfigureLogging_PrettyAndContextDefault(t *testing.T) {
	restoreLogging(t)
	var buf bytes.Buffer

	ConfigureLogging("info", true, &buf)
	zerolog.Ctx(t.Context()).Info().Msg("from context")

	out := buf.String()
	if !strings.Contains(out, "from context") || strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("console output = %q", out)
	}
}

func TestVersion(t *testing.T) {
	orig := version
	t.Cleanup(func() { version = orig })

	version = "v9.9.9"
	if got := Version(); got != "v9.9.9" {
		t.Fatalf("Version() = %q", got)
	}
	version = ""
	if got := Version(); got == "" {
		t.Fatal("Version() should never be empty")
	}
}
