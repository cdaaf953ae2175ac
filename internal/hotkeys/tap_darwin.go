//go:build darwin

package hotkeys

/*
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation
#include <stdint.h>
#include "tap_darwin.h"
*/
import "C"

import (
	"errors"
	"runtime/cgo"
	"sync"

	"github.com/1broseidon/snaptile/internal/platform"
)

// ErrTapDenied is returned when the OS refuses to create the event tap,
// usually because accessibility access has not been granted.
var ErrTapDenied = errors.New("event tap creation refused")

type eventTap struct {
	mu     sync.Mutex
	sink   Sink
	handle cgo.Handle
	ref    *C.st_tap
}

// NewInstaller returns an Installer backed by a CGEventTap running on its own
// CFRunLoop thread. The backend is unused on macOS.
func NewInstaller(platform.Backend) (Installer, error) {
	return func(sink Sink, _ []Binding) (Tap, error) {
		t := &eventTap{sink: sink}
		t.handle = cgo.NewHandle(t)
		t.ref = C.st_tap_create(C.uintptr_t(t.handle))
		if t.ref == nil {
			t.handle.Delete()
			return nil, ErrTapDenied
		}
		return t, nil
	}, nil
}

func (t *eventTap) Enable(on bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ref == nil {
		return ErrNotInstalled
	}
	v := C.int(0)
	if on {
		v = 1
	}
	C.st_tap_enable(t.ref, v)
	return nil
}

func (t *eventTap) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ref != nil && C.st_tap_enabled(t.ref) != 0
}

// Close stops the run loop thread. The handle stays valid so callbacks
// already in flight resolve to a closed tap and pass their event through.
func (t *eventTap) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ref == nil {
		return nil
	}
	C.st_tap_destroy(t.ref)
	t.ref = nil
	return nil
}

func (t *eventTap) closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ref == nil
}

//export goTapKeyDown
func goTapKeyDown(handle C.uintptr_t, keycode C.int, flags C.ulonglong) C.int {
	t, ok := cgo.Handle(handle).Value().(*eventTap)
	if !ok || t.closed() {
		return 0
	}
	ev, ok := macKeyEvent(int(keycode), uint64(flags))
	if !ok {
		return 0
	}
	if t.sink.HandleKey(ev) == Swallow {
		return 1
	}
	return 0
}

//export goTapDisabled
func goTapDisabled(handle C.uintptr_t, reason C.int) {
	t, ok := cgo.Handle(handle).Value().(*eventTap)
	if !ok || t.closed() {
		return
	}
	r := DisabledByTimeout
	if reason != 0 {
		r = DisabledByUserInput
	}
	t.sink.HandleDisabled(r)
}
