package hotkeys

import (
	"errors"
	"sync"
)

// FakeTap is an in-memory Tap driven by tests.
type FakeTap struct {
	mu       sync.Mutex
	sink     Sink
	bindings []Binding
	on       bool
	closed   bool
	toggles  []bool
}

// Press simulates a key-down and returns the sink's verdict.
func (t *FakeTap) Press(ev KeyEvent) Verdict {
	t.mu.Lock()
	on, sink := t.on && !t.closed, t.sink
	t.mu.Unlock()
	if !on {
		return Pass
	}
	return sink.HandleKey(ev)
}

// Disable simulates the OS turning the tap off.
func (t *FakeTap) Disable(reason DisableReason) {
	t.mu.Lock()
	t.on = false
	sink := t.sink
	t.mu.Unlock()
	sink.HandleDisabled(reason)
}

func (t *FakeTap) Enable(on bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return errors.New("tap closed")
	}
	t.on = on
	t.toggles = append(t.toggles, on)
	return nil
}

func (t *FakeTap) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.on && !t.closed
}

func (t *FakeTap) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.on = false
	return nil
}

// Closed reports whether Close was called.
func (t *FakeTap) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// Toggles returns every value passed to Enable.
func (t *FakeTap) Toggles() []bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]bool(nil), t.toggles...)
}

// Bindings returns the bindings the tap was installed with.
func (t *FakeTap) Bindings() []Binding {
	return append([]Binding(nil), t.bindings...)
}

// FakeInstaller records every tap it creates.
type FakeInstaller struct {
	mu   sync.Mutex
	taps []*FakeTap
	// Err, when set, makes the next Install fail.
	Err error
}

// Install satisfies Installer.
func (f *FakeInstaller) Install(sink Sink, bindings []Binding) (Tap, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		err := f.Err
		f.Err = nil
		return nil, err
	}
	tap := &FakeTap{sink: sink, bindings: bindings, on: true}
	f.taps = append(f.taps, tap)
	return tap, nil
}

// Taps returns the created taps, oldest first.
func (f *FakeInstaller) Taps() []*FakeTap {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*FakeTap(nil), f.taps...)
}

// Last returns the newest tap or nil.
func (f *FakeInstaller) Last() *FakeTap {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.taps) == 0 {
		return nil
	}
	return f.taps[len(f.taps)-1]
}
