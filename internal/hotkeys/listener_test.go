package hotkeys

import (
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/1broseidon/snaptile/internal/snap"
)

type recordingPoster struct {
	mu       sync.Mutex
	full     bool
	commands []snap.Command
	disabled []DisableReason
}

func (p *recordingPoster) PostCommand(cmd snap.Command) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.full {
		return false
	}
	p.commands = append(p.commands, cmd)
	return true
}

func (p *recordingPoster) PostTapDisabled(reason DisableReason) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.full {
		return false
	}
	p.disabled = append(p.disabled, reason)
	return true
}

func newTestListener(t *testing.T) (*Listener, *FakeInstaller, *recordingPoster) {
	t.Helper()
	inst := &FakeInstaller{}
	poster := &recordingPoster{}
	l, err := NewListener(inst.Install, DefaultBindings(), poster, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewListener: %v", err)
	}
	return l, inst, poster
}

func TestDecoder_DefaultBindings(t *testing.T) {
	d, err := NewDecoder(DefaultBindings())
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	tests := []struct {
		ev     KeyEvent
		want   snap.Command
		wantOK bool
	}{
		{KeyEvent{Key: "l", Mods: Cmd | Opt}, snap.Maximize, true},
		{KeyEvent{Key: KeyLeft, Mods: Cmd | Opt}, snap.Left, true},
		{KeyEvent{Key: KeyRight, Mods: Cmd | Opt}, snap.Right, true},
		{KeyEvent{Key: "r", Mods: Cmd | Opt}, snap.Reset, true},
		{KeyEvent{Key: KeyRight, Mods: Ctrl | Opt | Cmd}, snap.MoveToNextDisplay, true},
		{KeyEvent{Key: KeyRight, Mods: Ctrl | Opt | Cmd | Shift}, snap.MoveToNextDisplay, true},
		{KeyEvent{Key: KeyLeft, Mods: Ctrl | Opt | Cmd}, 0, false},
		{KeyEvent{Key: "l", Mods: Cmd}, 0, false},
		{KeyEvent{Key: "x", Mods: Cmd | Opt}, 0, false},
	}
	for _, tt := range tests {
		got, ok := d.Decode(tt.ev)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("Decode(%+v) = %v, %v; want %v, %v", tt.ev, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDecoder_ShiftSpecificWins(t *testing.T) {
	d, err := NewDecoder([]Binding{
		{Command: snap.Left, Combo: Combo{Mods: Cmd | Opt, Key: "h"}},
		{Command: snap.Right, Combo: Combo{Mods: Cmd | Opt | Shift, Key: "h"}},
	})
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	if got, _ := d.Decode(KeyEvent{Key: "h", Mods: Cmd | Opt | Shift}); got != snap.Right {
		t.Errorf("shifted decode = %v, want right", got)
	}
	if got, _ := d.Decode(KeyEvent{Key: "h", Mods: Cmd | Opt}); got != snap.Left {
		t.Errorf("plain decode = %v, want left", got)
	}
}

func TestNewDecoder_Rejects(t *testing.T) {
	combo := Combo{Mods: Cmd | Opt, Key: "l"}
	tests := map[string][]Binding{
		"shared combo":     {{Command: snap.Left, Combo: combo}, {Command: snap.Right, Combo: combo}},
		"repeated command": {{Command: snap.Left, Combo: combo}, {Command: snap.Left, Combo: Combo{Mods: Cmd, Key: "h"}}},
		"invalid command":  {{Command: snap.Command(42), Combo: combo}},
	}
	for name, bindings := range tests {
		if _, err := NewDecoder(bindings); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestListener_InstallAndDispatch(t *testing.T) {
	l, inst, poster := newTestListener(t)
	if got := l.Stats().State; got != Uninstalled {
		t.Fatalf("initial state = %v", got)
	}
	if err := l.Install(); err != nil {
		t.Fatalf("Install: %v", err)
	}
	if err := l.Install(); err != nil {
		t.Fatalf("second Install: %v", err)
	}
	if n := len(inst.Taps()); n != 1 {
		t.Fatalf("installed %d taps, want 1", n)
	}

	tap := inst.Last()
	if v := tap.Press(KeyEvent{Key: KeyLeft, Mods: Cmd | Opt}); v != Swallow {
		t.Errorf("bound combo verdict = %v, want Swallow", v)
	}
	if v := tap.Press(KeyEvent{Key: "c", Mods: Cmd}); v != Pass {
		t.Errorf("unbound combo verdict = %v, want Pass", v)
	}
	if len(poster.commands) != 1 || poster.commands[0] != snap.Left {
		t.Fatalf("posted %v, want [left]", poster.commands)
	}
}

func TestListener_SwallowsWhenQueueFull(t *testing.T) {
	l, inst, poster := newTestListener(t)
	if err := l.Install(); err != nil {
		t.Fatalf("Install: %v", err)
	}
	poster.full = true
	if v := inst.Last().Press(KeyEvent{Key: "r", Mods: Cmd | Opt}); v != Swallow {
		t.Errorf("verdict = %v, want Swallow", v)
	}
	inst.Last().Disable(DisabledByTimeout)
	if got := l.Stats().Dropped; got != 2 {
		t.Errorf("dropped = %d, want 2", got)
	}
}

func TestListener_DisableAndRearm(t *testing.T) {
	l, inst, poster := newTestListener(t)
	if err := l.Install(); err != nil {
		t.Fatalf("Install: %v", err)
	}
	tap := inst.Last()

	tap.Disable(DisabledByUserInput)
	if len(poster.disabled) != 1 || poster.disabled[0] != DisabledByUserInput {
		t.Fatalf("disabled events = %v", poster.disabled)
	}
	if tap.Enabled() {
		t.Fatal("tap should be off after OS disablement")
	}

	if err := l.Rearm(); err != nil {
		t.Fatalf("Rearm: %v", err)
	}
	if !tap.Enabled() {
		t.Fatal("Rearm should re-enable the same tap")
	}
	if n := len(inst.Taps()); n != 1 {
		t.Fatalf("Rearm created a new tap: %d taps", n)
	}
	if got := l.Stats().Rearms; got != 1 {
		t.Errorf("rearms = %d, want 1", got)
	}
}

func TestListener_SuspendAndReinstall(t *testing.T) {
	l, inst, _ := newTestListener(t)
	if err := l.Install(); err != nil {
		t.Fatalf("Install: %v", err)
	}
	old := inst.Last()

	if err := l.Suspend(); err != nil {
		t.Fatalf("Suspend: %v", err)
	}
	if old.Enabled() || l.Stats().State != Suspended {
		t.Fatal("Suspend should disable the tap")
	}

	if err := l.Reinstall(); err != nil {
		t.Fatalf("Reinstall: %v", err)
	}
	if !old.Closed() {
		t.Error("old tap not closed")
	}
	fresh := inst.Last()
	if fresh == old || !fresh.Enabled() {
		t.Fatal("Reinstall should create a fresh enabled tap")
	}
	st := l.Stats()
	if st.State != Active || st.Reinstalls != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestListener_NotInstalled(t *testing.T) {
	l, _, _ := newTestListener(t)
	if err := l.Rearm(); !errors.Is(err, ErrNotInstalled) {
		t.Errorf("Rearm err = %v", err)
	}
	if err := l.Suspend(); !errors.Is(err, ErrNotInstalled) {
		t.Errorf("Suspend err = %v", err)
	}
	if err := l.Close(); err != nil {
		t.Errorf("Close err = %v", err)
	}
}

func TestListener_InstallFailureLeavesUninstalled(t *testing.T) {
	l, inst, _ := newTestListener(t)
	boom := errors.New("denied")
	inst.Err = boom
	if err := l.Install(); !errors.Is(err, boom) {
		t.Fatalf("Install err = %v", err)
	}
	if l.Stats().State != Uninstalled {
		t.Fatal("state should stay uninstalled")
	}
	if err := l.Reinstall(); err != nil {
		t.Fatalf("Reinstall after failure: %v", err)
	}
	if l.Stats().State != Active {
		t.Fatal("Reinstall should recover")
	}
}

func TestMacKeyEvent(t *testing.T) {
	ev, ok := macKeyEvent(37, macFlagCommand|macFlagOption)
	if !ok || ev != (KeyEvent{Key: "l", Mods: Cmd | Opt}) {
		t.Errorf("keycode 37 = %+v, %v", ev, ok)
	}
	ev, ok = macKeyEvent(124, macFlagCommand|macFlagOption|macFlagControl|macFlagShift)
	if !ok || ev != (KeyEvent{Key: KeyRight, Mods: Cmd | Opt | Ctrl | Shift}) {
		t.Errorf("keycode 124 = %+v, %v", ev, ok)
	}
	if _, ok := macKeyEvent(200, 0); ok {
		t.Error("unknown keycode should not decode")
	}
}
