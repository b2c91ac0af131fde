package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewWritesStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New("debug", &buf)

	log.DebugObj("api call completed", "http_call", map[string]any{"status": 200})

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log line is not json: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "api call completed" || entry["level"] != "debug" {
		t.Fatalf("unexpected entry %#v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("missing ts field in %#v", entry)
	}
	call, ok := entry["http_call"].(map[string]any)
	if !ok || call["status"] != float64(200) {
		t.Fatalf("unexpected http_call field %#v", entry["http_call"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", &buf)

	log.InfoObj("hidden", "k", 1)
	log.WarnObj("shown", "k", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if got := parseLevel("verbose"); got.String() != "info" {
		t.Fatalf("expected info, got %s", got)
	}
	if got := parseLevel(" WARNING "); got.String() != "warn" {
		t.Fatalf("expected warn, got %s", got)
	}
}

func TestPackageHelpersAfterNew(t *testing.T) {
	var buf bytes.Buffer
	New("info", &buf)

	InfoObj("owm starting", "config", map[string]string{"app_name": "owm"})
	if !strings.Contains(buf.String(), "owm starting") {
		t.Fatalf("package helper did not log: %q", buf.String())
	}
}
