package hotkeys

import (
	"fmt"
	"sort"
	"strings"

	"github.com/1broseidon/snaptile/internal/snap"
)

// Modifier is a bitmask of held modifier keys.
type Modifier uint8

const (
	Cmd Modifier = 1 << iota
	Opt
	Ctrl
	Shift
)

// modifierOrder fixes the order used when printing combos.
var modifierOrder = []struct {
	mod     Modifier
	name    string
	display string
}{
	{Ctrl, "ctrl", "Ctrl"},
	{Opt, "opt", "Opt"},
	{Cmd, "cmd", "Cmd"},
	{Shift, "shift", "Shift"},
}

var modifierAliases = map[string]Modifier{
	"cmd":     Cmd,
	"command": Cmd,
	"super":   Cmd,
	"win":     Cmd,
	"opt":     Opt,
	"option":  Opt,
	"alt":     Opt,
	"ctrl":    Ctrl,
	"control": Ctrl,
	"shift":   Shift,
}

func (m Modifier) String() string {
	var parts []string
	for _, o := range modifierOrder {
		if m&o.mod != 0 {
			parts = append(parts, o.name)
		}
	}
	return strings.Join(parts, "+")
}

// Key names a non-modifier key.
type Key string

const (
	KeyLeft   Key = "left"
	KeyRight  Key = "right"
	KeyUp     Key = "up"
	KeyDown   Key = "down"
	KeyReturn Key = "return"
	KeySpace  Key = "space"
	KeyTab    Key = "tab"
)

var keyDisplay = map[Key]string{
	KeyLeft:   "←",
	KeyRight:  "→",
	KeyUp:     "↑",
	KeyDown:   "↓",
	KeyReturn: "Return",
	KeySpace:  "Space",
	KeyTab:    "Tab",
}

// ParseKey accepts a single letter or digit or one of the named keys.
func ParseKey(s string) (Key, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 1 && (s[0] >= 'a' && s[0] <= 'z' || s[0] >= '0' && s[0] <= '9') {
		return Key(s), nil
	}
	if s == "enter" {
		return KeyReturn, nil
	}
	if _, ok := keyDisplay[Key(s)]; ok {
		return Key(s), nil
	}
	return "", fmt.Errorf("unknown key %q", s)
}

// Combo is a key pressed together with a set of modifiers.
type Combo struct {
	Mods Modifier
	Key  Key
}

// ParseCombo parses strings such as "cmd+opt+l" or "ctrl+opt+cmd+right".
func ParseCombo(s string) (Combo, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	if len(parts) < 2 {
		return Combo{}, fmt.Errorf("combo %q needs at least one modifier and a key", s)
	}

	var c Combo
	for _, p := range parts[:len(parts)-1] {
		mod, ok := modifierAliases[strings.TrimSpace(p)]
		if !ok {
			return Combo{}, fmt.Errorf("combo %q: unknown modifier %q", s, p)
		}
		if c.Mods&mod != 0 {
			return Combo{}, fmt.Errorf("combo %q: modifier %q repeated", s, p)
		}
		c.Mods |= mod
	}
	if c.Mods&^Shift == 0 {
		return Combo{}, fmt.Errorf("combo %q needs cmd, opt or ctrl", s)
	}

	key, err := ParseKey(parts[len(parts)-1])
	if err != nil {
		return Combo{}, fmt.Errorf("combo %q: %w", s, err)
	}
	c.Key = key
	return c, nil
}

func (c Combo) String() string {
	return c.Mods.String() + "+" + string(c.Key)
}

// Display renders the combo for humans, e.g. "Ctrl + Opt + Cmd + →".
func (c Combo) Display() string {
	var parts []string
	for _, o := range modifierOrder {
		if c.Mods&o.mod != 0 {
			parts = append(parts, o.display)
		}
	}
	key, ok := keyDisplay[c.Key]
	if !ok {
		key = strings.ToUpper(string(c.Key))
	}
	return strings.Join(append(parts, key), " + ")
}

// Matches reports whether an event triggers this combo. Cmd, Opt and Ctrl
// must match exactly; Shift only matters when the combo names it.
func (c Combo) Matches(ev KeyEvent) bool {
	if ev.Key != c.Key {
		return false
	}
	const strict = Cmd | Opt | Ctrl
	if ev.Mods&strict != c.Mods&strict {
		return false
	}
	if c.Mods&Shift != 0 && ev.Mods&Shift == 0 {
		return false
	}
	return true
}

// KeyEvent is a key-down observed by a tap.
type KeyEvent struct {
	Key  Key
	Mods Modifier
}

// Binding ties a combo to the command it triggers.
type Binding struct {
	Command snap.Command
	Combo   Combo
}

// DefaultBindings is the built-in hotkey set.
func DefaultBindings() []Binding {
	return []Binding{
		{Command: snap.Maximize, Combo: Combo{Mods: Cmd | Opt, Key: "l"}},
		{Command: snap.Left, Combo: Combo{Mods: Cmd | Opt, Key: KeyLeft}},
		{Command: snap.Right, Combo: Combo{Mods: Cmd | Opt, Key: KeyRight}},
		{Command: snap.Reset, Combo: Combo{Mods: Cmd | Opt, Key: "r"}},
		{Command: snap.MoveToNextDisplay, Combo: Combo{Mods: Ctrl | Opt | Cmd, Key: KeyRight}},
	}
}

// ParseBindings converts a command-name to combo-string map into bindings
// ordered by command.
func ParseBindings(raw map[string]string) ([]Binding, error) {
	bindings := make([]Binding, 0, len(raw))
	for name, combo := range raw {
		cmd, err := snap.ParseCommand(name)
		if err != nil {
			return nil, err
		}
		c, err := ParseCombo(combo)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, Binding{Command: cmd, Combo: c})
	}
	sort.Slice(bindings, func(i, j int) bool {
		return bindings[i].Command < bindings[j].Command
	})
	return bindings, nil
}
