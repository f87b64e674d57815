package commands

import (
	"log/slog"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	cases := []struct {
		configLevel string
		override    string
		want        slog.Level
		wantErr     bool
	}{
		{"", "", slog.LevelInfo, false},
		{"info", "", slog.LevelInfo, false},
		{"debug", "", slog.LevelDebug, false},
		{"warn", "", slog.LevelWarn, false},
		{"warning", "", slog.LevelWarn, false},
		{"error", "", slog.LevelError, false},
		{"info", "debug", slog.LevelDebug, false},
		{"nope", "", 0, true},
	}

	for _, tc := range cases {
		got, err := parseLogLevel(tc.configLevel, tc.override)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("parseLogLevel(%q, %q): expected error", tc.configLevel, tc.override)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseLogLevel(%q, %q): %v", tc.configLevel, tc.override, err)
		}
		if got != tc.want {
			t.Fatalf("parseLogLevel(%q, %q) = %v, want %v", tc.configLevel, tc.override, got, tc.want)
		}
	}
}

func TestNewRootCmd_RegistersSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"init", "bridge", "approve", "respond", "status", "version"} {
		if !names[want] {
			t.Fatalf("expected subcommand %q, registered: %v", want, names)
		}
	}
}
