package platform

import "github.com/1broseidon/snaptile/internal/snap"

// OnThread wraps b so every call is made through call, which must run the
// function to completion before returning. On macOS call is
// mainthread.Call, keeping AppKit work on the main thread.
func OnThread(b Backend, call func(func())) Backend {
	return &threadBackend{b: b, call: call}
}

type threadBackend struct {
	b    Backend
	call func(func())
}

func (t *threadBackend) Screens() (screens []Screen, err error) {
	t.call(func() { screens, err = t.b.Screens() })
	return screens, err
}

func (t *threadBackend) FocusedWindow() (h WindowHandle, err error) {
	t.call(func() { h, err = t.b.FocusedWindow() })
	return h, err
}

func (t *threadBackend) WindowOrigin(h WindowHandle) (p snap.Point, err error) {
	t.call(func() { p, err = t.b.WindowOrigin(h) })
	return p, err
}

func (t *threadBackend) SetPosition(h WindowHandle, p snap.Point) (err error) {
	t.call(func() { err = t.b.SetPosition(h, p) })
	return err
}

func (t *threadBackend) SetSize(h WindowHandle, s snap.Size) (err error) {
	t.call(func() { err = t.b.SetSize(h, s) })
	return err
}

func (t *threadBackend) WindowList() (list []WindowInfo, err error) {
	t.call(func() { list, err = t.b.WindowList() })
	return list, err
}

func (t *threadBackend) WindowFor(info WindowInfo) (h WindowHandle, err error) {
	t.call(func() { h, err = t.b.WindowFor(info) })
	return h, err
}

func (t *threadBackend) Release(h WindowHandle) {
	t.call(func() { t.b.Release(h) })
}

func (t *threadBackend) Trusted(prompt bool) (ok bool) {
	t.call(func() { ok = t.b.Trusted(prompt) })
	return ok
}
