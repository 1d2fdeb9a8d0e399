package ui

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNormalizeColorMode(t *testing.T) {
	cases := map[string]ColorMode{
		"":         ColorAuto,
		" ALWAYS ": ColorAlways,
		"never":    ColorNever,
		"bogus":    ColorAuto,
	}
	for in, want := range cases {
		if got := NormalizeColorMode(in); got != want {
			t.Fatalf("NormalizeColorMode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMessagesWithoutColor(t *testing.T) {
	var out, errOut bytes.Buffer
	u := New(&out, &errOut, ColorAlways, true)
	if u.ColorEnabled {
		t.Fatalf("ColorEnabled = true with colour disabled")
	}

	u.Infof("fetched %d pages\n", 3)
	u.Warnf("careful")
	if out.String() != "fetched 3 pages\n" {
		t.Fatalf("stdout = %q", out.String())
	}
	if errOut.String() != "careful\n" {
		t.Fatalf("stderr = %q", errOut.String())
	}
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, NormalizeLogFormat("JSON"), false, false, "run-1")
	logger.Debug().Msg("hidden")
	logger.Info().Str("url", "https://api.github.com/user").Msg("extracted data")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var event map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &event); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if event["run_id"] != "run-1" || event["level"] != "info" || event["message"] != "extracted data" {
		t.Fatalf("unexpected event: %v", event)
	}
}

func TestNewLoggerConsoleVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogConsole, true, false, "")
	logger.Debug().Int("remaining", 9).Msg("search requests remaining")

	got := buf.String()
	if !strings.Contains(got, "search requests remaining") || !strings.Contains(got, "remaining=9") {
		t.Fatalf("console output = %q", got)
	}
}
