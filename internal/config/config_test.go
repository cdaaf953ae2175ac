package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/snaptile/internal/hotkeys"
	"github.com/1broseidon/snaptile/internal/snap"
)

func writeConfig(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_ValidAndMatchesBuiltinBindings(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	bindings, err := cfg.HotkeyBindings()
	if err != nil {
		t.Fatalf("HotkeyBindings: %v", err)
	}
	if len(bindings) != len(snap.Commands) {
		t.Fatalf("got %d bindings, want %d", len(bindings), len(snap.Commands))
	}
	if cfg.Bindings["next_display"] != "ctrl+opt+cmd+right" {
		t.Fatalf("next_display = %q", cfg.Bindings["next_display"])
	}
	if cfg.WakeSettle() != time.Second {
		t.Fatalf("WakeSettle = %v", cfg.WakeSettle())
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.ResetScale != snap.DefaultResetScale || len(res.Files) != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "# empty\n")
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.QueueSize != 16 || !res.Config.Notifications {
		t.Fatalf("expected defaults, got %+v", res.Config)
	}
}

func TestLoadFromPath_OverridesAndAliases(t *testing.T) {
	data := strings.Join([]string{
		"bindings:",
		"  max: cmd+opt+m",
		"  left: \"\"",
		"reset_scale: 2",
		"wake_settle_ms: 1500",
		"notifications: false",
		"",
	}, "\n")
	path := writeConfig(t, t.TempDir(), "config.yaml", data)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Bindings["maximize"] != "cmd+opt+m" {
		t.Fatalf("alias did not override maximize: %v", cfg.Bindings)
	}
	if _, ok := cfg.Bindings["max"]; ok {
		t.Fatal("alias key should be normalized")
	}
	if cfg.ResetScale != 2 || cfg.WakeSettle() != 1500*time.Millisecond || cfg.Notifications {
		t.Fatalf("overrides not applied: %+v", cfg)
	}

	bindings, err := cfg.HotkeyBindings()
	if err != nil {
		t.Fatalf("HotkeyBindings: %v", err)
	}
	for _, b := range bindings {
		if b.Command == snap.Left {
			t.Fatal("empty binding should leave left unbound")
		}
		if b.Command == snap.Maximize && b.Combo != (hotkeys.Combo{Mods: hotkeys.Cmd | hotkeys.Opt, Key: "m"}) {
			t.Fatalf("maximize combo = %v", b.Combo)
		}
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSource(t *testing.T) {
	tests := []struct {
		name string
		data string
		path string
	}{
		{"scale", "queue_size: 4\nreset_scale: 0.5\n", "reset_scale"},
		{"queue", "queue_size: 0\n", "queue_size"},
		{"settle", "wake_settle_ms: -1\n", "wake_settle_ms"},
		{"level", "log_level: loud\n", "log_level"},
		{"combo", "bindings:\n  reset: cmd+opt+f13\n", "bindings.reset"},
		{"command", "bindings:\n  fullscreen: cmd+opt+f\n", "bindings.fullscreen"},
		{"clash", "bindings:\n  reset: cmd+opt+l\n", "bindings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "config.yaml", tt.data)
			_, err := LoadFromPath(path)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("path = %q, want %q", verr.Path, tt.path)
			}
			if verr.Source.Kind != SourceFile || verr.Source.Line == 0 {
				t.Fatalf("expected file source, got %#v", verr.Source)
			}
			if !strings.Contains(err.Error(), path+":") {
				t.Fatalf("expected file:line:col prefix, got %v", err)
			}
		})
	}
}

func TestLoadFromPath_SingleFile(t *testing.T) {
	dir := t.TempDir()

	res, err := LoadFromPath(filepath.Join(dir, "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if len(res.Files) != 0 || len(res.Sources) != 0 || res.Config.QueueSize != 16 {
		t.Fatalf("missing file should yield defaults, got %+v", res)
	}

	path := writeConfig(t, dir, "config.yaml", "queue_size: 8\nbindings:\n  max: cmd+opt+m\n")
	res, err = LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Files) != 1 || res.Files[0] != path {
		t.Fatalf("files = %v", res.Files)
	}
	if res.Config.QueueSize != 8 || res.Config.Bindings["maximize"] != "cmd+opt+m" {
		t.Fatalf("config = %+v", res.Config)
	}
	for key, line := range map[string]int{"queue_size": 1, "bindings": 3, "bindings.max": 3} {
		if src := res.Sources[key]; src.Kind != SourceFile || src.Line != line {
			t.Errorf("source[%s] = %#v, want line %d", key, src, line)
		}
	}
}

func TestLoadFromPath_UnknownKeysRejected(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"include", "include: conf.d\n"},
		{"layouts", "layouts:\n  grid: {}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "config.yaml", tt.yaml)
			_, err := LoadFromPath(path)
			if err == nil || !strings.Contains(err.Error(), tt.name) || !strings.Contains(err.Error(), path) {
				t.Fatalf("expected unknown key error naming %q in %s, got %v", tt.name, path, err)
			}
		})
	}
}

func TestExplain(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "bindings:\n  reset: cmd+opt+c\ndisplay: \":1\"\n")
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	val, src, err := Explain(res, "bindings.center")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != "cmd+opt+c" || src.Kind != SourceFile || src.Line != 2 {
		t.Fatalf("bindings.center = %#v from %#v", val, src)
	}

	val, src, err = Explain(res, "display")
	if err != nil || val != ":1" || src.Kind != SourceFile {
		t.Fatalf("display = %#v from %#v, %v", val, src, err)
	}

	val, src, err = Explain(res, "queue_size")
	if err != nil || val != 16 || src.Kind != SourceDefault {
		t.Fatalf("queue_size = %#v from %#v, %v", val, src, err)
	}

	if _, _, err := Explain(res, "layouts.grid"); err == nil {
		t.Fatal("expected unknown path error")
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Bindings["reset"] = "cmd+opt+c"
	cfg.UpdateCheck = false
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Bindings["reset"] != "cmd+opt+c" || res.Config.UpdateCheck {
		t.Fatalf("round trip lost values: %+v", res.Config)
	}

	cfg.QueueSize = 0
	if err := cfg.SaveTo(path); err == nil {
		t.Fatal("SaveTo should refuse invalid config")
	}
}

func TestDefaultConfigPath_EnvOverride(t *testing.T) {
	t.Setenv(ConfigEnv, "/etc/snaptile.yaml")
	got, err := DefaultConfigPath()
	if err != nil || got != "/etc/snaptile.yaml" {
		t.Fatalf("DefaultConfigPath = %q, %v", got, err)
	}

	home := t.TempDir()
	t.Setenv(ConfigEnv, "")
	t.Setenv("HOME", home)
	got, err = DefaultConfigPath()
	if err != nil || got != filepath.Join(home, ".config", "snaptile", "config.yaml") {
		t.Fatalf("DefaultConfigPath = %q, %v", got, err)
	}
}
