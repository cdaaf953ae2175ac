package daemon

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/1broseidon/snaptile/internal/hotkeys"
	"github.com/1broseidon/snaptile/internal/placement"
	"github.com/1broseidon/snaptile/internal/platform"
	"github.com/1broseidon/snaptile/internal/snap"
)

type memoryStore struct {
	mu    sync.Mutex
	saved []bool
}

func (s *memoryStore) SaveDualSnap(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, enabled)
	return nil
}

// manualTimer captures scheduled callbacks so tests decide when they fire.
type manualTimer struct {
	mu    sync.Mutex
	delay []time.Duration
	funcs []func()
}

func (m *manualTimer) AfterFunc(d time.Duration, f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = append(m.delay, d)
	m.funcs = append(m.funcs, f)
}

func (m *manualTimer) fireAll() {
	m.mu.Lock()
	funcs := m.funcs
	m.funcs = nil
	m.mu.Unlock()
	for _, f := range funcs {
		f()
	}
}

type harness struct {
	proc    *Processor
	backend *platform.Fake
	inst    *hotkeys.FakeInstaller
	store   *memoryStore
	timer   *manualTimer
	cancel  context.CancelFunc
	done    chan struct{}
}

func twoWindows() *platform.Fake {
	return &platform.Fake{
		ScreenList: []platform.Screen{{
			ID:      1,
			Name:    "Built-in",
			Frame:   snap.Rect{X: 0, Y: 0, Width: 1440, Height: 900},
			Visible: snap.Rect{X: 0, Y: 0, Width: 1440, Height: 875},
		}},
		Windows: []platform.FakeWindow{
			{Info: platform.WindowInfo{ID: 1, PID: 100}, Frame: snap.Rect{X: 50, Y: 50, Width: 400, Height: 300}},
			{Info: platform.WindowInfo{ID: 2, PID: 200}, Frame: snap.Rect{X: 80, Y: 80, Width: 400, Height: 300}},
		},
	}
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	h := &harness{
		backend: twoWindows(),
		inst:    &hotkeys.FakeInstaller{},
		store:   &memoryStore{},
		timer:   &manualTimer{},
		done:    make(chan struct{}),
	}
	if cfg.Placer == nil {
		cfg.Placer = placement.New(h.backend, placement.Config{SelfPID: 1, Logger: zerolog.Nop()})
	}
	cfg.Screens = h.backend.Screens
	cfg.Store = h.store
	cfg.AfterFunc = h.timer.AfterFunc
	cfg.Logger = zerolog.Nop()
	h.proc = New(cfg)

	listener, err := hotkeys.NewListener(h.inst.Install, hotkeys.DefaultBindings(), h.proc, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewListener: %v", err)
	}
	h.proc.UseListener(listener)

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() {
		h.proc.Run(ctx)
		close(h.done)
	}()
	t.Cleanup(h.stop)
	return h
}

func (h *harness) stop() {
	h.cancel()
	<-h.done
}

func (h *harness) install(t *testing.T) *hotkeys.FakeTap {
	t.Helper()
	errc := make(chan error, 1)
	h.proc.Post(InstallEvent{Reply: errc})
	if err := wait(t, errc); err != nil {
		t.Fatalf("install: %v", err)
	}
	return h.inst.Last()
}

func (h *harness) status(t *testing.T) Status {
	t.Helper()
	ch := make(chan Status, 1)
	if !h.proc.Post(StatusEvent{Reply: ch}) {
		t.Fatal("status event dropped")
	}
	return wait(t, ch)
}

func wait[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for processor")
		var zero T
		return zero
	}
}

// gatedPlacer holds every Execute until release is closed.
type gatedPlacer struct {
	entered chan struct{}
	release chan struct{}
}

func newGatedPlacer() *gatedPlacer {
	return &gatedPlacer{entered: make(chan struct{}, 8), release: make(chan struct{})}
}

func (g *gatedPlacer) Execute(cmd snap.Command, _ placement.Options) (placement.Result, error) {
	g.entered <- struct{}{}
	<-g.release
	return placement.Result{Command: cmd, Windows: 1}, nil
}

// busy parks the processor inside a command and fills the one-slot queue.
// The returned channel receives the queued command's reply.
func (h *harness) busy(t *testing.T, g *gatedPlacer) <-chan CommandReply {
	t.Helper()
	if !h.proc.Post(CommandEvent{Command: snap.Left}) {
		t.Fatal("first command dropped")
	}
	wait(t, g.entered)
	queued := make(chan CommandReply, 1)
	if !h.proc.Post(CommandEvent{Command: snap.Right, Reply: queued}) {
		t.Fatal("second command dropped")
	}
	if h.proc.Post(StatusEvent{}) {
		t.Fatal("queue should be full")
	}
	return queued
}

func TestProcessor_CommandReply(t *testing.T) {
	h := newHarness(t, Config{})
	ch := make(chan CommandReply, 1)
	h.proc.Post(CommandEvent{Command: snap.Left, Reply: ch})
	got := wait(t, ch)
	if got.Err != nil || got.Result.Windows != 1 {
		t.Fatalf("reply = %+v", got)
	}
	if f := h.backend.Frame(1); f != (snap.Rect{X: 0, Y: 25, Width: 720, Height: 875}) {
		t.Errorf("frame = %v", f)
	}
	if st := h.status(t); st.Commands != 1 {
		t.Errorf("commands = %d, want 1", st.Commands)
	}
}

func TestProcessor_HotkeyDrivesPlacement(t *testing.T) {
	h := newHarness(t, Config{DualSnap: true})
	tap := h.install(t)

	if v := tap.Press(hotkeys.KeyEvent{Key: hotkeys.KeyRight, Mods: hotkeys.Cmd | hotkeys.Opt}); v != hotkeys.Swallow {
		t.Fatalf("verdict = %v", v)
	}
	h.status(t)

	if f := h.backend.Frame(1); f != (snap.Rect{X: 720, Y: 25, Width: 720, Height: 875}) {
		t.Errorf("focused frame = %v", f)
	}
	if f := h.backend.Frame(2); f != (snap.Rect{X: 0, Y: 25, Width: 720, Height: 875}) {
		t.Errorf("second frame = %v", f)
	}
}

func TestProcessor_DualSnapToggle(t *testing.T) {
	var (
		mu       sync.Mutex
		observed []bool
	)
	h := newHarness(t, Config{OnDualSnap: func(v bool) {
		mu.Lock()
		observed = append(observed, v)
		mu.Unlock()
	}})

	ch := make(chan bool, 1)
	h.proc.Post(SetDualSnapEvent{Toggle: true, Reply: ch})
	if !wait(t, ch) {
		t.Fatal("toggle should enable dual snap")
	}
	h.proc.Post(SetDualSnapEvent{Enabled: true, Reply: ch})
	if !wait(t, ch) {
		t.Fatal("setting the same value should keep it")
	}
	h.proc.Post(SetDualSnapEvent{Toggle: true, Reply: ch})
	if wait(t, ch) {
		t.Fatal("second toggle should disable dual snap")
	}

	h.store.mu.Lock()
	saved := append([]bool(nil), h.store.saved...)
	h.store.mu.Unlock()
	if len(saved) != 2 || !saved[0] || saved[1] {
		t.Errorf("persisted %v, want [true false]", saved)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(observed) != 2 {
		t.Errorf("observer called %d times, want 2", len(observed))
	}
}

func TestProcessor_TapDisabledRearms(t *testing.T) {
	h := newHarness(t, Config{})
	tap := h.install(t)

	tap.Disable(hotkeys.DisabledByTimeout)
	st := h.status(t)
	if st.Rearms != 1 || st.Hotkeys != "active" {
		t.Fatalf("status = %+v", st)
	}
	if !tap.Enabled() {
		t.Fatal("tap should be re-enabled in place")
	}
	if n := len(h.inst.Taps()); n != 1 {
		t.Errorf("rearm created %d taps", n)
	}
}

func TestProcessor_WakeReinstallsAfterSettle(t *testing.T) {
	h := newHarness(t, Config{WakeSettle: 250 * time.Millisecond})
	old := h.install(t)

	h.proc.Wake()
	st := h.status(t)
	if st.Hotkeys != "suspended" {
		t.Fatalf("hotkeys = %q right after wake, want suspended", st.Hotkeys)
	}
	if old.Enabled() {
		t.Fatal("old tap should be disabled during settle")
	}

	h.timer.mu.Lock()
	delays := append([]time.Duration(nil), h.timer.delay...)
	h.timer.mu.Unlock()
	if len(delays) != 1 || delays[0] != 250*time.Millisecond {
		t.Fatalf("scheduled delays = %v", delays)
	}

	h.timer.fireAll()
	st = h.status(t)
	if st.Hotkeys != "active" || st.Reinstalls != 1 {
		t.Fatalf("status after settle = %+v", st)
	}
	if !old.Closed() {
		t.Error("old tap should be closed")
	}
	if fresh := h.inst.Last(); fresh == old || !fresh.Enabled() {
		t.Error("expected a fresh enabled tap")
	}
}

func TestProcessor_LifecycleSurvivesFullQueue(t *testing.T) {
	t.Run("reinstall after wake", func(t *testing.T) {
		g := newGatedPlacer()
		h := newHarness(t, Config{QueueSize: 1, Placer: g})
		old := h.install(t)

		h.proc.Wake()
		if st := h.status(t); st.Hotkeys != "suspended" {
			t.Fatalf("hotkeys = %q after wake", st.Hotkeys)
		}

		queued := h.busy(t, g)
		h.timer.fireAll()
		close(g.release)
		wait(t, queued)

		st := h.status(t)
		if st.Hotkeys != "active" || st.Reinstalls != 1 {
			t.Fatalf("status after settle = %+v", st)
		}
		if fresh := h.inst.Last(); fresh == old || !fresh.Enabled() {
			t.Error("expected a fresh enabled tap")
		}
	})

	t.Run("rearm after timeout", func(t *testing.T) {
		g := newGatedPlacer()
		h := newHarness(t, Config{QueueSize: 1, Placer: g})
		tap := h.install(t)

		queued := h.busy(t, g)
		tap.Disable(hotkeys.DisabledByTimeout)
		close(g.release)
		wait(t, queued)

		st := h.status(t)
		if st.Rearms != 1 || st.Hotkeys != "active" {
			t.Fatalf("status = %+v", st)
		}
		if !tap.Enabled() {
			t.Fatal("tap should be re-enabled after a full queue")
		}
	})
}

func TestProcessor_LifecycleCoalesces(t *testing.T) {
	tests := []struct {
		name           string
		bits           uint32
		wantState      string
		wantRearms     int
		wantReinstalls int
		wantScheduled  int
	}{
		{"rearm", signalRearm, "active", 1, 0, 0},
		{"reinstall beats rearm", signalRearm | signalReinstall, "active", 0, 1, 0},
		{"wake beats both", signalRearm | signalReinstall | signalWake, "suspended", 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := &hotkeys.FakeInstaller{}
			timer := &manualTimer{}
			p := New(Config{AfterFunc: timer.AfterFunc, Logger: zerolog.Nop()})
			l, err := hotkeys.NewListener(inst.Install, hotkeys.DefaultBindings(), p, zerolog.Nop())
			if err != nil {
				t.Fatalf("NewListener: %v", err)
			}
			p.UseListener(l)
			if err := l.Install(); err != nil {
				t.Fatalf("Install: %v", err)
			}

			p.lifecycle(tt.bits)

			st := l.Stats()
			if st.State.String() != tt.wantState || st.Rearms != tt.wantRearms || st.Reinstalls != tt.wantReinstalls {
				t.Errorf("stats = %+v", st)
			}
			if n := len(timer.funcs); n != tt.wantScheduled {
				t.Errorf("scheduled %d reinstalls, want %d", n, tt.wantScheduled)
			}
		})
	}
}

func TestProcessor_RearmSkippedWhileSuspended(t *testing.T) {
	inst := &hotkeys.FakeInstaller{}
	p := New(Config{AfterFunc: (&manualTimer{}).AfterFunc, Logger: zerolog.Nop()})
	l, err := hotkeys.NewListener(inst.Install, hotkeys.DefaultBindings(), p, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewListener: %v", err)
	}
	p.UseListener(l)
	if err := l.Install(); err != nil {
		t.Fatalf("Install: %v", err)
	}

	p.lifecycle(signalWake)
	p.lifecycle(signalRearm)
	if st := l.Stats(); st.State != hotkeys.Suspended || st.Rearms != 0 {
		t.Fatalf("stats = %+v, want suspended with no rearm", st)
	}
}

func TestProcessor_Displays(t *testing.T) {
	h := newHarness(t, Config{})
	ch := make(chan DisplaysReply, 1)
	h.proc.Post(DisplaysEvent{Reply: ch})
	got := wait(t, ch)
	if got.Err != nil || len(got.Screens) != 1 || got.Screens[0].Name != "Built-in" {
		t.Fatalf("displays = %+v", got)
	}
}

func TestProcessor_PostDropsWhenFull(t *testing.T) {
	p := New(Config{QueueSize: 2, Logger: zerolog.Nop()})
	if !p.Post(StatusEvent{}) || !p.Post(StatusEvent{}) {
		t.Fatal("first two posts should fit")
	}
	if p.Post(StatusEvent{}) {
		t.Fatal("third post should be dropped")
	}
	if got := p.status().Dropped; got != 1 {
		t.Errorf("dropped = %d, want 1", got)
	}
}

func TestProcessor_InstallWithoutListener(t *testing.T) {
	p := New(Config{Logger: zerolog.Nop()})
	ch := make(chan error, 1)
	p.handle(InstallEvent{Reply: ch})
	if err := <-ch; !errors.Is(err, errNoListener) {
		t.Fatalf("err = %v", err)
	}
}

func TestProcessor_RunClosesListener(t *testing.T) {
	h := newHarness(t, Config{})
	tap := h.install(t)
	h.stop()
	if !tap.Closed() {
		t.Fatal("Run should close the listener on exit")
	}
}
