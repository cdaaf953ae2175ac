package hotkeys

import (
	"testing"

	"github.com/1broseidon/snaptile/internal/snap"
)

func TestParseCombo(t *testing.T) {
	tests := []struct {
		in      string
		want    Combo
		wantErr bool
	}{
		{"cmd+opt+l", Combo{Mods: Cmd | Opt, Key: "l"}, false},
		{"Cmd+Option+Left", Combo{Mods: Cmd | Opt, Key: KeyLeft}, false},
		{"ctrl+alt+super+right", Combo{Mods: Ctrl | Opt | Cmd, Key: KeyRight}, false},
		{"shift+cmd+enter", Combo{Mods: Shift | Cmd, Key: KeyReturn}, false},
		{" cmd + opt + r ", Combo{Mods: Cmd | Opt, Key: "r"}, false},
		{"l", Combo{}, true},
		{"shift+l", Combo{}, true},
		{"cmd+cmd+l", Combo{}, true},
		{"hyper+l", Combo{}, true},
		{"cmd+opt+f13", Combo{}, true},
	}
	for _, tt := range tests {
		got, err := ParseCombo(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCombo(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseCombo(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestComboStringRoundTrip(t *testing.T) {
	for _, b := range DefaultBindings() {
		got, err := ParseCombo(b.Combo.String())
		if err != nil {
			t.Fatalf("ParseCombo(%q): %v", b.Combo.String(), err)
		}
		if got != b.Combo {
			t.Errorf("round trip of %q = %+v", b.Combo.String(), got)
		}
	}
}

func TestComboDisplay(t *testing.T) {
	tests := []struct {
		combo Combo
		want  string
	}{
		{Combo{Mods: Cmd | Opt, Key: "l"}, "Opt + Cmd + L"},
		{Combo{Mods: Ctrl | Opt | Cmd, Key: KeyRight}, "Ctrl + Opt + Cmd + →"},
		{Combo{Mods: Cmd | Shift, Key: KeySpace}, "Cmd + Shift + Space"},
	}
	for _, tt := range tests {
		if got := tt.combo.Display(); got != tt.want {
			t.Errorf("Display() = %q, want %q", got, tt.want)
		}
	}
}

func TestComboMatches(t *testing.T) {
	cmdOptLeft := Combo{Mods: Cmd | Opt, Key: KeyLeft}
	tests := []struct {
		name  string
		combo Combo
		ev    KeyEvent
		want  bool
	}{
		{"exact", cmdOptLeft, KeyEvent{Key: KeyLeft, Mods: Cmd | Opt}, true},
		{"shift ignored", cmdOptLeft, KeyEvent{Key: KeyLeft, Mods: Cmd | Opt | Shift}, true},
		{"extra ctrl", cmdOptLeft, KeyEvent{Key: KeyLeft, Mods: Cmd | Opt | Ctrl}, false},
		{"missing opt", cmdOptLeft, KeyEvent{Key: KeyLeft, Mods: Cmd}, false},
		{"other key", cmdOptLeft, KeyEvent{Key: KeyRight, Mods: Cmd | Opt}, false},
		{"shift required", Combo{Mods: Cmd | Shift, Key: "l"}, KeyEvent{Key: "l", Mods: Cmd}, false},
	}
	for _, tt := range tests {
		if got := tt.combo.Matches(tt.ev); got != tt.want {
			t.Errorf("%s: Matches = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseBindings(t *testing.T) {
	got, err := ParseBindings(map[string]string{
		"right":    "cmd+opt+right",
		"maximize": "cmd+opt+l",
	})
	if err != nil {
		t.Fatalf("ParseBindings: %v", err)
	}
	if len(got) != 2 || got[0].Command != snap.Right || got[1].Command != snap.Maximize {
		t.Fatalf("unexpected bindings %+v", got)
	}

	if _, err := ParseBindings(map[string]string{"fullscreen": "cmd+opt+f"}); err == nil {
		t.Error("expected error for unknown command")
	}
	if _, err := ParseBindings(map[string]string{"left": "cmd+"}); err == nil {
		t.Error("expected error for bad combo")
	}
}
