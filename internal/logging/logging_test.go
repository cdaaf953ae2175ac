package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"verbose", zerolog.NoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_WritesFileAndConsole(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", FileName)
	var console bytes.Buffer

	logger, closer, err := New(Options{Level: "debug", File: path, Console: &console})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug().Str("component", "test").Msg("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	for name, out := range map[string]string{"file": string(data), "console": console.String()} {
		if !strings.Contains(out, "hello") || !strings.Contains(out, "component=test") {
			t.Errorf("%s output missing message: %q", name, out)
		}
		if !strings.Contains(out, "pid=") {
			t.Errorf("%s output missing pid field: %q", name, out)
		}
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var console bytes.Buffer
	logger, _, err := New(Options{Level: "warn", Console: &console})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info().Msg("quiet")
	logger.Warn().Msg("loud")
	out := console.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "loud") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestNew_RejectsBadLevel(t *testing.T) {
	if _, _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestResolveDir(t *testing.T) {
	abs := t.TempDir()
	got, err := ResolveDir(abs)
	if err != nil || got != abs {
		t.Fatalf("ResolveDir(abs) = %q, %v", got, err)
	}

	t.Setenv("SNAPTILE_LOG_PATH", abs)
	got, err = ResolveDir("")
	if err != nil || got != abs {
		t.Fatalf("ResolveDir from env = %q, %v", got, err)
	}

	t.Setenv("SNAPTILE_LOG_PATH", "")
	got, err = ResolveDir("")
	if err != nil {
		t.Fatalf("ResolveDir default: %v", err)
	}
	if !strings.Contains(got, "snaptile") {
		t.Fatalf("default dir %q should mention snaptile", got)
	}
}
